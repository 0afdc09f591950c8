package app

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/person"
)

// ListEvents returns the events of a person within the viewer's scope.
func (s *Service) ListEvents(ctx context.Context, personID string, viewer Viewer) ([]person.Event, error) {
	record, err := s.loadPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	scope, err := s.personScope(ctx, record, viewer)
	if err != nil {
		return nil, err
	}
	if !scope.CanSeePerson(record) {
		return nil, apperrors.E(apperrors.KindNotFound, "person not found")
	}
	events, err := s.store.ListEvents(ctx, personID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnknown, "list events", err)
	}
	return scope.FilterEvents(events), nil
}

// EventInput carries the fields accepted when creating an event.
type EventInput struct {
	Type        string
	Date        *time.Time
	Location    string
	Description string
	Sources     string
}

// CreateEvent attaches a life event to a person. Owner only.
func (s *Service) CreateEvent(ctx context.Context, personID string, viewer Viewer, input EventInput) (person.Event, error) {
	record, err := s.loadPerson(ctx, personID)
	if err != nil {
		return person.Event{}, err
	}
	if _, err := s.requireOwner(ctx, record.TreeID, viewer); err != nil {
		return person.Event{}, err
	}
	eventType, ok := person.NormalizeEventType(input.Type)
	if !ok {
		return person.Event{}, apperrors.E(apperrors.KindInvalidInput, "unknown event type")
	}
	eventID, err := s.newID()
	if err != nil {
		return person.Event{}, apperrors.Wrap(apperrors.KindUnknown, "generate event id", err)
	}
	now := s.now().UTC()
	event := person.Event{
		ID:          eventID,
		PersonID:    personID,
		Type:        eventType,
		Date:        input.Date,
		Location:    input.Location,
		Description: input.Description,
		Sources:     input.Sources,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := event.Validate(); err != nil {
		return person.Event{}, err
	}
	if err := s.store.PutEvent(ctx, event); err != nil {
		return person.Event{}, apperrors.Wrap(apperrors.KindUnknown, "store event", err)
	}
	return event, nil
}

// ListNotes returns the notes of a person within the viewer's scope.
// Private notes only appear for the tree owner.
func (s *Service) ListNotes(ctx context.Context, personID string, viewer Viewer) ([]person.Note, error) {
	record, err := s.loadPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	scope, err := s.personScope(ctx, record, viewer)
	if err != nil {
		return nil, err
	}
	if !scope.CanSeePerson(record) {
		return nil, apperrors.E(apperrors.KindNotFound, "person not found")
	}
	notes, err := s.store.ListNotes(ctx, personID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnknown, "list notes", err)
	}
	return scope.FilterNotes(notes), nil
}

// NoteInput carries the fields accepted when creating a note. Notes
// default to private.
type NoteInput struct {
	Content   string
	IsPrivate *bool
}

// CreateNote attaches a note to a person. Owner only.
func (s *Service) CreateNote(ctx context.Context, personID string, viewer Viewer, input NoteInput) (person.Note, error) {
	record, err := s.loadPerson(ctx, personID)
	if err != nil {
		return person.Note{}, err
	}
	if _, err := s.requireOwner(ctx, record.TreeID, viewer); err != nil {
		return person.Note{}, err
	}
	noteID, err := s.newID()
	if err != nil {
		return person.Note{}, apperrors.Wrap(apperrors.KindUnknown, "generate note id", err)
	}
	isPrivate := true
	if input.IsPrivate != nil {
		isPrivate = *input.IsPrivate
	}
	now := s.now().UTC()
	note := person.Note{
		ID:        noteID,
		PersonID:  personID,
		Content:   input.Content,
		IsPrivate: isPrivate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := note.Validate(); err != nil {
		return person.Note{}, err
	}
	if err := s.store.PutNote(ctx, note); err != nil {
		return person.Note{}, apperrors.Wrap(apperrors.KindUnknown, "store note", err)
	}
	return note, nil
}

// ListSpouses returns the spouse relations of a person within the
// viewer's scope.
func (s *Service) ListSpouses(ctx context.Context, personID string, viewer Viewer) ([]person.Spouse, error) {
	record, err := s.loadPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	scope, err := s.personScope(ctx, record, viewer)
	if err != nil {
		return nil, err
	}
	if !scope.CanSeePerson(record) {
		return nil, apperrors.E(apperrors.KindNotFound, "person not found")
	}
	relations, err := s.store.ListSpouses(ctx, personID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnknown, "list spouses", err)
	}
	people, err := s.store.ListPeople(ctx, record.TreeID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnknown, "list people", err)
	}
	return scope.FilterSpouses(people, relations), nil
}

// SpouseInput carries the fields accepted when recording a marriage.
type SpouseInput struct {
	SpouseID         string
	MarriageDate     *time.Time
	MarriageLocation string
	DivorceDate      *time.Time
	IsCurrent        bool
}

// CreateSpouse records a marriage between two people of the same
// tree. Owner only.
func (s *Service) CreateSpouse(ctx context.Context, personID string, viewer Viewer, input SpouseInput) (person.Spouse, error) {
	record, err := s.loadPerson(ctx, personID)
	if err != nil {
		return person.Spouse{}, err
	}
	if _, err := s.requireOwner(ctx, record.TreeID, viewer); err != nil {
		return person.Spouse{}, err
	}
	partner, err := s.store.GetPerson(ctx, input.SpouseID)
	if err != nil {
		return person.Spouse{}, apperrors.E(apperrors.KindInvalidInput, "spouse does not exist")
	}
	if partner.TreeID != record.TreeID {
		return person.Spouse{}, apperrors.E(apperrors.KindInvalidInput, "spouse belongs to a different tree")
	}
	relationID, err := s.newID()
	if err != nil {
		return person.Spouse{}, apperrors.Wrap(apperrors.KindUnknown, "generate spouse id", err)
	}
	now := s.now().UTC()
	relation := person.Spouse{
		ID:               relationID,
		PersonID:         personID,
		SpouseID:         input.SpouseID,
		MarriageDate:     input.MarriageDate,
		MarriageLocation: input.MarriageLocation,
		DivorceDate:      input.DivorceDate,
		IsCurrent:        input.IsCurrent,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := relation.Validate(); err != nil {
		return person.Spouse{}, err
	}
	if err := s.store.PutSpouse(ctx, relation); err != nil {
		return person.Spouse{}, apperrors.Wrap(apperrors.KindUnknown, "store spouse", err)
	}
	return relation, nil
}
