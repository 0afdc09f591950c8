package api

import (
	"time"

	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/person"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/tree"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/storage"
)

type treePayload struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	IsPublic    bool    `json:"isPublic"`
	HideLiving  bool    `json:"hideLiving"`
	ShareToken  *string `json:"shareToken,omitempty"`
	Language    string  `json:"language"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toTreePayload(record tree.Tree) treePayload {
	return treePayload{
		ID:          record.ID,
		Name:        record.Name,
		Description: record.Description,
		IsPublic:    record.IsPublic,
		HideLiving:  record.HideLiving,
		ShareToken:  record.ShareToken,
		Language:    record.Language,
		CreatedAt:   record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type treeSummaryPayload struct {
	treePayload
	PersonCount int `json:"personCount"`
}

func toTreeSummaryPayload(summary storage.TreeSummary) treeSummaryPayload {
	payload := toTreePayload(summary.Tree)
	return treeSummaryPayload{treePayload: payload, PersonCount: summary.PersonCount}
}

type treeViewPayload struct {
	treePayload
	People []personPayload `json:"people"`
}

type personPayload struct {
	ID         string  `json:"id"`
	TreeID     string  `json:"treeId"`
	FirstName  string  `json:"firstName"`
	MiddleName string  `json:"middleName,omitempty"`
	LastName   string  `json:"lastName,omitempty"`
	MaidenName string  `json:"maidenName,omitempty"`
	Suffix     string  `json:"suffix,omitempty"`
	Nickname   string  `json:"nickname,omitempty"`
	Gender     string  `json:"gender"`
	BirthDate  *string `json:"birthDate"`
	DeathDate  *string `json:"deathDate"`
	IsLiving   bool    `json:"isLiving"`
	IsPublic   bool    `json:"isPublic"`
	PhotoURL   string  `json:"photoUrl,omitempty"`
	FatherID   *string `json:"fatherId"`
	MotherID   *string `json:"motherId"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

func dateString(value *time.Time) *string {
	if value == nil {
		return nil
	}
	s := value.UTC().Format("2006-01-02")
	return &s
}

func toPersonPayload(record person.Person) personPayload {
	return personPayload{
		ID:         record.ID,
		TreeID:     record.TreeID,
		FirstName:  record.FirstName,
		MiddleName: record.MiddleName,
		LastName:   record.LastName,
		MaidenName: record.MaidenName,
		Suffix:     record.Suffix,
		Nickname:   record.Nickname,
		Gender:     string(record.Gender),
		BirthDate:  dateString(record.BirthDate),
		DeathDate:  dateString(record.DeathDate),
		IsLiving:   record.IsLiving,
		IsPublic:   record.IsPublic,
		PhotoURL:   record.PhotoURL,
		FatherID:   record.FatherID,
		MotherID:   record.MotherID,
		CreatedAt:  record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toPersonPayloads(records []person.Person) []personPayload {
	payloads := make([]personPayload, 0, len(records))
	for _, record := range records {
		payloads = append(payloads, toPersonPayload(record))
	}
	return payloads
}

type eventPayload struct {
	ID          string  `json:"id"`
	PersonID    string  `json:"personId"`
	Type        string  `json:"type"`
	Date        *string `json:"date"`
	Location    string  `json:"location,omitempty"`
	Description string  `json:"description,omitempty"`
	Sources     string  `json:"sources,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toEventPayload(record person.Event) eventPayload {
	return eventPayload{
		ID:          record.ID,
		PersonID:    record.PersonID,
		Type:        string(record.Type),
		Date:        dateString(record.Date),
		Location:    record.Location,
		Description: record.Description,
		Sources:     record.Sources,
		CreatedAt:   record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type notePayload struct {
	ID        string `json:"id"`
	PersonID  string `json:"personId"`
	Content   string `json:"content"`
	IsPrivate bool   `json:"isPrivate"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toNotePayload(record person.Note) notePayload {
	return notePayload{
		ID:        record.ID,
		PersonID:  record.PersonID,
		Content:   record.Content,
		IsPrivate: record.IsPrivate,
		CreatedAt: record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type spousePayload struct {
	ID               string  `json:"id"`
	PersonID         string  `json:"personId"`
	SpouseID         string  `json:"spouseId"`
	MarriageDate     *string `json:"marriageDate"`
	MarriageLocation string  `json:"marriageLocation,omitempty"`
	DivorceDate      *string `json:"divorceDate"`
	IsCurrent        bool    `json:"isCurrent"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

func toSpousePayload(record person.Spouse) spousePayload {
	return spousePayload{
		ID:               record.ID,
		PersonID:         record.PersonID,
		SpouseID:         record.SpouseID,
		MarriageDate:     dateString(record.MarriageDate),
		MarriageLocation: record.MarriageLocation,
		DivorceDate:      dateString(record.DivorceDate),
		IsCurrent:        record.IsCurrent,
		CreatedAt:        record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type accessPayload struct {
	ID        string `json:"id"`
	TreeID    string `json:"treeId"`
	Email     string `json:"email"`
	Level     string `json:"level"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toAccessPayload(record tree.Access) accessPayload {
	return accessPayload{
		ID:        record.ID,
		TreeID:    record.TreeID,
		Email:     record.Email,
		Level:     string(record.Level),
		CreatedAt: record.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: record.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// parseDate accepts YYYY-MM-DD request values.
func parseDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
