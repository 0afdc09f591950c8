package api

import (
	"net/http"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
	"github.com/louisbranch/arbor.space/internal/platform/httpx"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/app"
)

type personRequest struct {
	FirstName  *string `json:"firstName"`
	MiddleName *string `json:"middleName"`
	LastName   *string `json:"lastName"`
	MaidenName *string `json:"maidenName"`
	Suffix     *string `json:"suffix"`
	Nickname   *string `json:"nickname"`
	Gender     *string `json:"gender"`
	BirthDate  *string `json:"birthDate"`
	DeathDate  *string `json:"deathDate"`
	IsLiving   *bool   `json:"isLiving"`
	IsPublic   *bool   `json:"isPublic"`
	PhotoURL   *string `json:"photoUrl"`
	FatherID   *string `json:"fatherId"`
	MotherID   *string `json:"motherId"`
}

func (req personRequest) toInput() (app.PersonInput, error) {
	birth, err := parseDate(req.BirthDate)
	if err != nil {
		return app.PersonInput{}, apperrors.E(apperrors.KindInvalidInput, "birthDate must be YYYY-MM-DD")
	}
	death, err := parseDate(req.DeathDate)
	if err != nil {
		return app.PersonInput{}, apperrors.E(apperrors.KindInvalidInput, "deathDate must be YYYY-MM-DD")
	}
	return app.PersonInput{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		MaidenName: req.MaidenName,
		Suffix:     req.Suffix,
		Nickname:   req.Nickname,
		Gender:     req.Gender,
		BirthDate:  birth,
		DeathDate:  death,
		IsLiving:   req.IsLiving,
		IsPublic:   req.IsPublic,
		PhotoURL:   req.PhotoURL,
		FatherID:   req.FatherID,
		MotherID:   req.MotherID,
	}, nil
}

func (h *Handler) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	record, err := h.svc.CreatePerson(r.Context(), r.PathValue("treeID"), viewer(r), input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPersonPayload(record))
}

func (h *Handler) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	record, err := h.svc.GetPerson(r.Context(), r.PathValue("personID"), viewer(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPersonPayload(record))
}

func (h *Handler) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	record, err := h.svc.UpdatePerson(r.Context(), r.PathValue("personID"), viewer(r), input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPersonPayload(record))
}

func (h *Handler) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePerson(r.Context(), r.PathValue("personID"), viewer(r)); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context(), r.PathValue("personID"), viewer(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	payloads := make([]eventPayload, 0, len(events))
	for _, event := range events {
		payloads = append(payloads, toEventPayload(event))
	}
	httpx.WriteJSON(w, http.StatusOK, payloads)
}

type eventRequest struct {
	Type        string  `json:"type"`
	Date        *string `json:"date"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Sources     string  `json:"sources"`
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "date must be YYYY-MM-DD"))
		return
	}
	event, err := h.svc.CreateEvent(r.Context(), r.PathValue("personID"), viewer(r), app.EventInput{
		Type:        req.Type,
		Date:        date,
		Location:    req.Location,
		Description: req.Description,
		Sources:     req.Sources,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toEventPayload(event))
}

func (h *Handler) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListNotes(r.Context(), r.PathValue("personID"), viewer(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	payloads := make([]notePayload, 0, len(notes))
	for _, note := range notes {
		payloads = append(payloads, toNotePayload(note))
	}
	httpx.WriteJSON(w, http.StatusOK, payloads)
}

type noteRequest struct {
	Content   string `json:"content"`
	IsPrivate *bool  `json:"isPrivate"`
}

func (h *Handler) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	note, err := h.svc.CreateNote(r.Context(), r.PathValue("personID"), viewer(r), app.NoteInput{
		Content:   req.Content,
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toNotePayload(note))
}

func (h *Handler) handleListSpouses(w http.ResponseWriter, r *http.Request) {
	relations, err := h.svc.ListSpouses(r.Context(), r.PathValue("personID"), viewer(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	payloads := make([]spousePayload, 0, len(relations))
	for _, relation := range relations {
		payloads = append(payloads, toSpousePayload(relation))
	}
	httpx.WriteJSON(w, http.StatusOK, payloads)
}

type spouseRequest struct {
	SpouseID         string  `json:"spouseId"`
	MarriageDate     *string `json:"marriageDate"`
	MarriageLocation string  `json:"marriageLocation"`
	DivorceDate      *string `json:"divorceDate"`
	IsCurrent        bool    `json:"isCurrent"`
}

func (h *Handler) handleCreateSpouse(w http.ResponseWriter, r *http.Request) {
	var req spouseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	married, err := parseDate(req.MarriageDate)
	if err != nil {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "marriageDate must be YYYY-MM-DD"))
		return
	}
	divorced, err := parseDate(req.DivorceDate)
	if err != nil {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "divorceDate must be YYYY-MM-DD"))
		return
	}
	relation, err := h.svc.CreateSpouse(r.Context(), r.PathValue("personID"), viewer(r), app.SpouseInput{
		SpouseID:         req.SpouseID,
		MarriageDate:     married,
		MarriageLocation: req.MarriageLocation,
		DivorceDate:      divorced,
		IsCurrent:        req.IsCurrent,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toSpousePayload(relation))
}
