package api

import (
	"net/http"

	"github.com/louisbranch/arbor.space/internal/platform/httpx"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/app"
)

func (h *Handler) handleListTrees(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}
	summaries, err := h.svc.ListTrees(r.Context(), identity.UserID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	payloads := make([]treeSummaryPayload, 0, len(summaries))
	for _, summary := range summaries {
		payloads = append(payloads, toTreeSummaryPayload(summary))
	}
	httpx.WriteJSON(w, http.StatusOK, payloads)
}

type createTreeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
	HideLiving  *bool  `json:"hideLiving"`
	Language    string `json:"language"`
}

func (h *Handler) handleCreateTree(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req createTreeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	record, err := h.svc.CreateTree(r.Context(), identity.UserID, app.CreateTreeInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		HideLiving:  req.HideLiving,
		Language:    req.Language,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTreePayload(record))
}

func (h *Handler) handleGetTree(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetTree(r.Context(), r.PathValue("treeID"), viewer(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, treeViewPayload{
		treePayload: toTreePayload(view.Tree),
		People:      toPersonPayloads(view.People),
	})
}

type updateTreeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
}

func (h *Handler) handleUpdateTree(w http.ResponseWriter, r *http.Request) {
	var req updateTreeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	record, err := h.svc.UpdateTree(r.Context(), r.PathValue("treeID"), viewer(r), app.UpdateTreeInput{
		Name:        req.Name,
		Description: req.Description,
		Language:    req.Language,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTreePayload(record))
}

func (h *Handler) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTree(r.Context(), r.PathValue("treeID"), viewer(r)); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.svc.ListPeople(r.Context(), r.PathValue("treeID"), viewer(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPersonPayloads(people))
}

func (h *Handler) handleLayout(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.Layout(r.Context(), r.PathValue("treeID"), viewer(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, l)
}
