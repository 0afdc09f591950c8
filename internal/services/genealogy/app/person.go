package app

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/person"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/graph"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/layout"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/storage"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/visibility"
)

// loadPerson fetches a person and maps missing records to not found.
func (s *Service) loadPerson(ctx context.Context, personID string) (person.Person, error) {
	record, err := s.store.GetPerson(ctx, personID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return person.Person{}, apperrors.E(apperrors.KindNotFound, "person not found")
		}
		return person.Person{}, apperrors.Wrap(apperrors.KindUnknown, "load person", err)
	}
	return record, nil
}

// personScope resolves the viewer's scope on the tree holding the
// given person.
func (s *Service) personScope(ctx context.Context, record person.Person, viewer Viewer) (visibility.Scope, error) {
	owningTree, err := s.loadTree(ctx, record.TreeID)
	if err != nil {
		return visibility.Scope{}, err
	}
	return s.resolveScope(ctx, owningTree, viewer)
}

// ListPeople returns the people of a tree the viewer may see.
func (s *Service) ListPeople(ctx context.Context, treeID string, viewer Viewer) ([]person.Person, error) {
	record, err := s.loadTree(ctx, treeID)
	if err != nil {
		return nil, err
	}
	scope, err := s.resolveScope(ctx, record, viewer)
	if err != nil {
		return nil, err
	}
	people, err := s.store.ListPeople(ctx, treeID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnknown, "list people", err)
	}
	return scope.FilterPeople(people), nil
}

// PersonInput carries the fields accepted when creating or updating a
// person. Pointer fields left nil keep their current value on update.
type PersonInput struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	MaidenName *string
	Suffix     *string
	Nickname   *string
	Gender     *string
	BirthDate  *time.Time
	DeathDate  *time.Time
	IsLiving   *bool
	IsPublic   *bool
	PhotoURL   *string
	FatherID   *string
	MotherID   *string
}

func applyPersonInput(record person.Person, input PersonInput) person.Person {
	if input.FirstName != nil {
		record.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.MiddleName != nil {
		record.MiddleName = *input.MiddleName
	}
	if input.LastName != nil {
		record.LastName = *input.LastName
	}
	if input.MaidenName != nil {
		record.MaidenName = *input.MaidenName
	}
	if input.Suffix != nil {
		record.Suffix = *input.Suffix
	}
	if input.Nickname != nil {
		record.Nickname = *input.Nickname
	}
	if input.Gender != nil {
		record.Gender = person.NormalizeGender(*input.Gender)
	}
	if input.BirthDate != nil {
		record.BirthDate = input.BirthDate
	}
	if input.DeathDate != nil {
		record.DeathDate = input.DeathDate
	}
	if input.IsLiving != nil {
		record.IsLiving = *input.IsLiving
	}
	if input.IsPublic != nil {
		record.IsPublic = *input.IsPublic
	}
	if input.PhotoURL != nil {
		record.PhotoURL = *input.PhotoURL
	}
	if input.FatherID != nil {
		record.FatherID = nilIfEmpty(*input.FatherID)
	}
	if input.MotherID != nil {
		record.MotherID = nilIfEmpty(*input.MotherID)
	}
	return record
}

func nilIfEmpty(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	v := strings.TrimSpace(value)
	return &v
}

// validateParentRefs checks that parent links resolve to people of
// the same tree before anything is written.
func (s *Service) validateParentRefs(ctx context.Context, record person.Person) error {
	for _, parentID := range []*string{record.FatherID, record.MotherID} {
		if parentID == nil {
			continue
		}
		parent, err := s.store.GetPerson(ctx, *parentID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.E(apperrors.KindInvalidInput, "parent does not exist")
			}
			return apperrors.Wrap(apperrors.KindUnknown, "load parent", err)
		}
		if parent.TreeID != record.TreeID {
			return apperrors.E(apperrors.KindInvalidInput, "parent belongs to a different tree")
		}
	}
	return nil
}

// CreatePerson adds a person to a tree. Owner only.
func (s *Service) CreatePerson(ctx context.Context, treeID string, viewer Viewer, input PersonInput) (person.Person, error) {
	if _, err := s.requireOwner(ctx, treeID, viewer); err != nil {
		return person.Person{}, err
	}
	personID, err := s.newID()
	if err != nil {
		return person.Person{}, apperrors.Wrap(apperrors.KindUnknown, "generate person id", err)
	}
	now := s.now().UTC()
	record := person.Person{
		ID:        personID,
		TreeID:    treeID,
		Gender:    person.GenderUnknown,
		IsLiving:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	record = applyPersonInput(record, input)
	if err := record.Validate(); err != nil {
		return person.Person{}, err
	}
	if err := s.validateParentRefs(ctx, record); err != nil {
		return person.Person{}, err
	}
	if err := s.store.PutPerson(ctx, record); err != nil {
		return person.Person{}, apperrors.Wrap(apperrors.KindUnknown, "store person", err)
	}
	return record, nil
}

// GetPerson returns one person if the viewer's scope contains them.
// References to people outside the scope are redacted.
func (s *Service) GetPerson(ctx context.Context, personID string, viewer Viewer) (person.Person, error) {
	record, err := s.loadPerson(ctx, personID)
	if err != nil {
		return person.Person{}, err
	}
	scope, err := s.personScope(ctx, record, viewer)
	if err != nil {
		return person.Person{}, err
	}
	if !scope.CanSeePerson(record) {
		return person.Person{}, apperrors.E(apperrors.KindNotFound, "person not found")
	}
	people, err := s.store.ListPeople(ctx, record.TreeID)
	if err != nil {
		return person.Person{}, apperrors.Wrap(apperrors.KindUnknown, "list people", err)
	}
	for _, filtered := range scope.FilterPeople(people) {
		if filtered.ID == personID {
			return filtered, nil
		}
	}
	return record, nil
}

// UpdatePerson patches a person. Owner only. Validation runs before
// any write so a rejected update leaves the stored record unchanged.
func (s *Service) UpdatePerson(ctx context.Context, personID string, viewer Viewer, input PersonInput) (person.Person, error) {
	record, err := s.loadPerson(ctx, personID)
	if err != nil {
		return person.Person{}, err
	}
	if _, err := s.requireOwner(ctx, record.TreeID, viewer); err != nil {
		return person.Person{}, err
	}
	updated := applyPersonInput(record, input)
	if err := updated.Validate(); err != nil {
		return person.Person{}, err
	}
	if err := s.validateParentRefs(ctx, updated); err != nil {
		return person.Person{}, err
	}
	updated.UpdatedAt = s.now().UTC()
	if err := s.store.PutPerson(ctx, updated); err != nil {
		return person.Person{}, apperrors.Wrap(apperrors.KindUnknown, "store person", err)
	}
	return updated, nil
}

// DeletePerson removes a person, clears parent references pointing at
// them, and cascades attached records. Owner only.
func (s *Service) DeletePerson(ctx context.Context, personID string, viewer Viewer) error {
	record, err := s.loadPerson(ctx, personID)
	if err != nil {
		return err
	}
	if _, err := s.requireOwner(ctx, record.TreeID, viewer); err != nil {
		return err
	}
	if err := s.store.DeletePerson(ctx, personID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.E(apperrors.KindNotFound, "person not found")
		}
		return apperrors.Wrap(apperrors.KindUnknown, "delete person", err)
	}
	return nil
}

// Layout computes positioned nodes and edges for the viewer-visible
// subset of a tree.
func (s *Service) Layout(ctx context.Context, treeID string, viewer Viewer) (layout.Layout, error) {
	record, err := s.loadTree(ctx, treeID)
	if err != nil {
		return layout.Layout{}, err
	}
	scope, err := s.resolveScope(ctx, record, viewer)
	if err != nil {
		return layout.Layout{}, err
	}
	people, err := s.store.ListPeople(ctx, treeID)
	if err != nil {
		return layout.Layout{}, apperrors.Wrap(apperrors.KindUnknown, "list people", err)
	}
	relations, err := s.store.ListSpousesByTree(ctx, treeID)
	if err != nil {
		return layout.Layout{}, apperrors.Wrap(apperrors.KindUnknown, "list spouses", err)
	}
	visible := scope.FilterPeople(people)
	visibleRelations := scope.FilterSpouses(people, relations)
	g := graph.New(visible, visibleRelations)
	return layout.Compute(g, layout.Options{}), nil
}
