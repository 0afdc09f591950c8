package app

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/person"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/tree"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/storage"
)

// CreateTreeInput carries the fields accepted when creating a tree.
type CreateTreeInput struct {
	Name        string
	Description string
	IsPublic    bool
	HideLiving  *bool
	Language    string
}

// CreateTree creates a tree owned by the given user. Living people
// are hidden from non-owners unless explicitly disabled.
func (s *Service) CreateTree(ctx context.Context, ownerID string, input CreateTreeInput) (tree.Tree, error) {
	if ownerID == "" {
		return tree.Tree{}, apperrors.E(apperrors.KindUnauthorized, "authentication required")
	}
	language, err := tree.NormalizeLanguage(input.Language)
	if err != nil {
		return tree.Tree{}, err
	}
	hideLiving := true
	if input.HideLiving != nil {
		hideLiving = *input.HideLiving
	}
	treeID, err := s.newID()
	if err != nil {
		return tree.Tree{}, apperrors.Wrap(apperrors.KindUnknown, "generate tree id", err)
	}
	now := s.now().UTC()
	record := tree.Tree{
		ID:          treeID,
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		IsPublic:    input.IsPublic,
		HideLiving:  hideLiving,
		Language:    language,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := record.Validate(); err != nil {
		return tree.Tree{}, err
	}
	if err := s.store.PutTree(ctx, record); err != nil {
		return tree.Tree{}, apperrors.Wrap(apperrors.KindUnknown, "store tree", err)
	}
	return record, nil
}

// ListTrees returns the viewer's own trees with person counts.
func (s *Service) ListTrees(ctx context.Context, ownerID string) ([]storage.TreeSummary, error) {
	if ownerID == "" {
		return nil, apperrors.E(apperrors.KindUnauthorized, "authentication required")
	}
	summaries, err := s.store.ListTreesByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnknown, "list trees", err)
	}
	return summaries, nil
}

// TreeView pairs a tree with its visibility-filtered people.
type TreeView struct {
	Tree   tree.Tree
	People []person.Person
	Owner  bool
}

// GetTree returns a tree and the people the viewer may see.
func (s *Service) GetTree(ctx context.Context, treeID string, viewer Viewer) (TreeView, error) {
	record, err := s.loadTree(ctx, treeID)
	if err != nil {
		return TreeView{}, err
	}
	scope, err := s.resolveScope(ctx, record, viewer)
	if err != nil {
		return TreeView{}, err
	}
	people, err := s.store.ListPeople(ctx, treeID)
	if err != nil {
		return TreeView{}, apperrors.Wrap(apperrors.KindUnknown, "list people", err)
	}
	view := TreeView{Tree: record, People: scope.FilterPeople(people), Owner: scope.Owner}
	if !scope.Owner {
		// The share token is the owner's secret.
		view.Tree.ShareToken = nil
	}
	return view, nil
}

// UpdateTreeInput carries the patchable tree fields. Nil means leave
// unchanged.
type UpdateTreeInput struct {
	Name        *string
	Description *string
	Language    *string
}

// UpdateTree updates tree metadata. Owner only.
func (s *Service) UpdateTree(ctx context.Context, treeID string, viewer Viewer, input UpdateTreeInput) (tree.Tree, error) {
	record, err := s.requireOwner(ctx, treeID, viewer)
	if err != nil {
		return tree.Tree{}, err
	}
	if input.Name != nil {
		record.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		record.Description = *input.Description
	}
	if input.Language != nil {
		language, err := tree.NormalizeLanguage(*input.Language)
		if err != nil {
			return tree.Tree{}, err
		}
		record.Language = language
	}
	if err := record.Validate(); err != nil {
		return tree.Tree{}, err
	}
	record.UpdatedAt = s.now().UTC()
	if err := s.store.PutTree(ctx, record); err != nil {
		return tree.Tree{}, apperrors.Wrap(apperrors.KindUnknown, "store tree", err)
	}
	return record, nil
}

// DeleteTree removes a tree and everything under it. Owner only.
func (s *Service) DeleteTree(ctx context.Context, treeID string, viewer Viewer) error {
	if _, err := s.requireOwner(ctx, treeID, viewer); err != nil {
		return err
	}
	if err := s.store.DeleteTree(ctx, treeID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.E(apperrors.KindNotFound, "tree not found")
		}
		return apperrors.Wrap(apperrors.KindUnknown, "delete tree", err)
	}
	return nil
}
