// Package app implements the genealogy application operations on top
// of the storage contracts. Handlers call into this package; every
// read resolves a visibility scope first and every mutation checks
// tree ownership.
package app

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
	"github.com/louisbranch/arbor.space/internal/platform/id"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/tree"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/storage"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/visibility"
)

// Service exposes the genealogy operations.
type Service struct {
	store storage.Store
	now   func() time.Time
	newID func() (string, error)
}

// New creates a service backed by the given store.
func New(store storage.Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: id.NewID,
	}
}

// Viewer aliases the visibility viewer so callers build one from the
// request identity plus an optional share token.
type Viewer = visibility.Viewer

// loadTree fetches a tree and maps missing records to not found.
func (s *Service) loadTree(ctx context.Context, treeID string) (tree.Tree, error) {
	record, err := s.store.GetTree(ctx, treeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return tree.Tree{}, apperrors.E(apperrors.KindNotFound, "tree not found")
		}
		return tree.Tree{}, apperrors.Wrap(apperrors.KindUnknown, "load tree", err)
	}
	return record, nil
}

// requireOwner loads a tree and rejects viewers other than its owner.
func (s *Service) requireOwner(ctx context.Context, treeID string, viewer Viewer) (tree.Tree, error) {
	record, err := s.loadTree(ctx, treeID)
	if err != nil {
		return tree.Tree{}, err
	}
	if viewer.UserID == "" {
		return tree.Tree{}, apperrors.E(apperrors.KindUnauthorized, "authentication required")
	}
	if viewer.UserID != record.OwnerID {
		return tree.Tree{}, apperrors.E(apperrors.KindForbidden, "only the tree owner may do this")
	}
	return record, nil
}

// resolveScope loads the grants for a tree and resolves the viewer's
// visibility scope.
func (s *Service) resolveScope(ctx context.Context, record tree.Tree, viewer Viewer) (visibility.Scope, error) {
	var grants []tree.Access
	if viewer.Email != "" {
		var err error
		grants, err = s.store.ListAccess(ctx, record.ID)
		if err != nil {
			return visibility.Scope{}, apperrors.Wrap(apperrors.KindUnknown, "load access grants", err)
		}
	}
	return visibility.Resolve(record, viewer, grants)
}
