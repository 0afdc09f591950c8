package app

import (
	"context"
	"errors"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/person"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/tree"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/export"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/storage"
)

// GenerateShareToken replaces the tree's share token. Any previously
// issued token stops working. Owner only.
func (s *Service) GenerateShareToken(ctx context.Context, treeID string, viewer Viewer) (tree.Tree, error) {
	record, err := s.requireOwner(ctx, treeID, viewer)
	if err != nil {
		return tree.Tree{}, err
	}
	token, err := tree.NewShareToken()
	if err != nil {
		return tree.Tree{}, apperrors.Wrap(apperrors.KindUnknown, "generate share token", err)
	}
	record.ShareToken = &token
	record.UpdatedAt = s.now().UTC()
	if err := s.store.PutTree(ctx, record); err != nil {
		return tree.Tree{}, apperrors.Wrap(apperrors.KindUnknown, "store tree", err)
	}
	return record, nil
}

// ShareSettingsInput carries the patchable sharing flags.
type ShareSettingsInput struct {
	IsPublic   *bool
	HideLiving *bool
}

// UpdateShareSettings toggles tree-level sharing flags. Owner only.
func (s *Service) UpdateShareSettings(ctx context.Context, treeID string, viewer Viewer, input ShareSettingsInput) (tree.Tree, error) {
	record, err := s.requireOwner(ctx, treeID, viewer)
	if err != nil {
		return tree.Tree{}, err
	}
	if input.IsPublic != nil {
		record.IsPublic = *input.IsPublic
	}
	if input.HideLiving != nil {
		record.HideLiving = *input.HideLiving
	}
	record.UpdatedAt = s.now().UTC()
	if err := s.store.PutTree(ctx, record); err != nil {
		return tree.Tree{}, apperrors.Wrap(apperrors.KindUnknown, "store tree", err)
	}
	return record, nil
}

// ListAccess returns the tree's access grants. Owner only.
func (s *Service) ListAccess(ctx context.Context, treeID string, viewer Viewer) ([]tree.Access, error) {
	if _, err := s.requireOwner(ctx, treeID, viewer); err != nil {
		return nil, err
	}
	grants, err := s.store.ListAccess(ctx, treeID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnknown, "list access grants", err)
	}
	return grants, nil
}

// Invite grants an email address view access to a tree. Owner only.
// A second invite for the same email reports a conflict.
func (s *Service) Invite(ctx context.Context, treeID string, viewer Viewer, email string, level string) (tree.Access, error) {
	if _, err := s.requireOwner(ctx, treeID, viewer); err != nil {
		return tree.Access{}, err
	}
	accessLevel, ok := tree.NormalizeAccessLevel(level)
	if !ok {
		return tree.Access{}, apperrors.E(apperrors.KindInvalidInput, "unknown access level")
	}
	grantID, err := s.newID()
	if err != nil {
		return tree.Access{}, apperrors.Wrap(apperrors.KindUnknown, "generate grant id", err)
	}
	now := s.now().UTC()
	grant := tree.Access{
		ID:        grantID,
		TreeID:    treeID,
		Email:     tree.NormalizeEmail(email),
		Level:     accessLevel,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := grant.Validate(); err != nil {
		return tree.Access{}, err
	}
	if err := s.store.PutAccess(ctx, grant); err != nil {
		if errors.Is(err, storage.ErrDuplicateGrant) {
			return tree.Access{}, apperrors.E(apperrors.KindConflict, "email already has access to this tree")
		}
		return tree.Access{}, apperrors.Wrap(apperrors.KindUnknown, "store grant", err)
	}
	return grant, nil
}

// Revoke removes an access grant by id. Owner only.
func (s *Service) Revoke(ctx context.Context, treeID string, viewer Viewer, grantID string) error {
	if _, err := s.requireOwner(ctx, treeID, viewer); err != nil {
		return err
	}
	grant, err := s.store.GetAccess(ctx, grantID)
	if err != nil || grant.TreeID != treeID {
		return apperrors.E(apperrors.KindNotFound, "grant not found")
	}
	if err := s.store.DeleteAccess(ctx, grantID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.E(apperrors.KindNotFound, "grant not found")
		}
		return apperrors.Wrap(apperrors.KindUnknown, "delete grant", err)
	}
	return nil
}

// SharedTree resolves a share token to its tree view. Anonymous
// callers use this through the public share link.
func (s *Service) SharedTree(ctx context.Context, token string) (TreeView, error) {
	record, err := s.store.GetTreeByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return TreeView{}, apperrors.E(apperrors.KindNotFound, "shared tree not found")
		}
		return TreeView{}, apperrors.Wrap(apperrors.KindUnknown, "load shared tree", err)
	}
	return s.GetTree(ctx, record.ID, Viewer{ShareToken: token})
}

// Export renders the viewer-visible subset of a tree in the requested
// format.
func (s *Service) Export(ctx context.Context, treeID string, viewer Viewer, format export.Format, opts export.Options) (export.Result, error) {
	record, err := s.loadTree(ctx, treeID)
	if err != nil {
		return export.Result{}, err
	}
	scope, err := s.resolveScope(ctx, record, viewer)
	if err != nil {
		return export.Result{}, err
	}
	people, err := s.store.ListPeople(ctx, treeID)
	if err != nil {
		return export.Result{}, apperrors.Wrap(apperrors.KindUnknown, "list people", err)
	}
	visible := scope.FilterPeople(people)

	snap := export.Snapshot{Tree: record, People: visible}
	if format == export.FormatJSON {
		snap.Events = make(map[string][]person.Event, len(visible))
		snap.Notes = make(map[string][]person.Note, len(visible))
		for _, p := range visible {
			events, err := s.store.ListEvents(ctx, p.ID)
			if err != nil {
				return export.Result{}, apperrors.Wrap(apperrors.KindUnknown, "list events", err)
			}
			snap.Events[p.ID] = scope.FilterEvents(events)
			notes, err := s.store.ListNotes(ctx, p.ID)
			if err != nil {
				return export.Result{}, apperrors.Wrap(apperrors.KindUnknown, "list notes", err)
			}
			snap.Notes[p.ID] = scope.FilterNotes(notes)
		}
	}
	return export.Render(format, snap, opts, s.now())
}
