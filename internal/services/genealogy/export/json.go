package export

import (
	"encoding/json"
	"fmt"
	"time"
)

type jsonDocument struct {
	Tree jsonTree `json:"tree"`
}

type jsonTree struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	ExportedAt  string       `json:"exportedAt"`
	People      []jsonPerson `json:"people"`
}

type jsonPerson struct {
	ID         string      `json:"id"`
	FirstName  string      `json:"firstName"`
	MiddleName string      `json:"middleName,omitempty"`
	LastName   string      `json:"lastName,omitempty"`
	MaidenName string      `json:"maidenName,omitempty"`
	Suffix     string      `json:"suffix,omitempty"`
	Nickname   string      `json:"nickname,omitempty"`
	Gender     string      `json:"gender"`
	BirthDate  string      `json:"birthDate,omitempty"`
	DeathDate  string      `json:"deathDate,omitempty"`
	IsLiving   bool        `json:"isLiving"`
	PhotoURL   string      `json:"photoUrl,omitempty"`
	FatherID   *string     `json:"fatherId"`
	MotherID   *string     `json:"motherId"`
	Events     []jsonEvent `json:"events,omitempty"`
	Notes      []jsonNote  `json:"notes,omitempty"`
}

type jsonEvent struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Date        string `json:"date,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Sources     string `json:"sources,omitempty"`
}

type jsonNote struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	IsPrivate bool   `json:"isPrivate"`
}

func renderJSON(snap Snapshot, opts Options, now time.Time) (Result, error) {
	doc := jsonDocument{Tree: jsonTree{
		ID:          snap.Tree.ID,
		Name:        snap.Tree.Name,
		Description: snap.Tree.Description,
		ExportedAt:  now.UTC().Format(time.RFC3339),
		People:      make([]jsonPerson, 0, len(snap.People)),
	}}
	for _, p := range snap.People {
		jp := jsonPerson{
			ID:         p.ID,
			FirstName:  p.FirstName,
			MiddleName: p.MiddleName,
			LastName:   p.LastName,
			MaidenName: p.MaidenName,
			Suffix:     p.Suffix,
			Nickname:   p.Nickname,
			Gender:     string(p.Gender),
			BirthDate:  formatDate(p.BirthDate),
			DeathDate:  formatDate(p.DeathDate),
			IsLiving:   p.IsLiving,
			PhotoURL:   p.PhotoURL,
			FatherID:   p.FatherID,
			MotherID:   p.MotherID,
		}
		for _, e := range snap.Events[p.ID] {
			je := jsonEvent{
				ID:          e.ID,
				Type:        string(e.Type),
				Date:        formatDate(e.Date),
				Location:    e.Location,
				Description: e.Description,
			}
			if opts.IncludeSources {
				je.Sources = e.Sources
			}
			jp.Events = append(jp.Events, je)
		}
		if opts.IncludeNotes {
			for _, n := range snap.Notes[p.ID] {
				if n.IsPrivate && !opts.IncludePrivate {
					continue
				}
				jp.Notes = append(jp.Notes, jsonNote{ID: n.ID, Content: n.Content, IsPrivate: n.IsPrivate})
			}
		}
		doc.Tree.People = append(doc.Tree.People, jp)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("marshal export: %w", err)
	}
	return Result{
		Data:        data,
		ContentType: "application/json",
		Filename:    baseFilename(snap.Tree.Name) + "_export.json",
	}, nil
}
