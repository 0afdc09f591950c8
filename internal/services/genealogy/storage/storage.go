// Package storage defines persistence contracts for genealogy state.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/person"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/tree"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateGrant indicates an access grant already exists for the
// tree and email pair.
var ErrDuplicateGrant = errors.New("grant already exists")

// TreeSummary pairs a tree with its person count for listings.
type TreeSummary struct {
	Tree        tree.Tree
	PersonCount int
}

// TreeStore persists trees and their access grants.
type TreeStore interface {
	PutTree(ctx context.Context, record tree.Tree) error
	GetTree(ctx context.Context, treeID string) (tree.Tree, error)
	GetTreeByShareToken(ctx context.Context, token string) (tree.Tree, error)
	ListTreesByOwner(ctx context.Context, ownerID string) ([]TreeSummary, error)
	DeleteTree(ctx context.Context, treeID string) error

	PutAccess(ctx context.Context, grant tree.Access) error
	GetAccess(ctx context.Context, grantID string) (tree.Access, error)
	ListAccess(ctx context.Context, treeID string) ([]tree.Access, error)
	DeleteAccess(ctx context.Context, grantID string) error
}

// PersonStore persists people and their attached records.
type PersonStore interface {
	PutPerson(ctx context.Context, record person.Person) error
	GetPerson(ctx context.Context, personID string) (person.Person, error)
	ListPeople(ctx context.Context, treeID string) ([]person.Person, error)
	DeletePerson(ctx context.Context, personID string) error

	PutEvent(ctx context.Context, record person.Event) error
	ListEvents(ctx context.Context, personID string) ([]person.Event, error)

	PutNote(ctx context.Context, record person.Note) error
	ListNotes(ctx context.Context, personID string) ([]person.Note, error)

	PutSpouse(ctx context.Context, record person.Spouse) error
	ListSpouses(ctx context.Context, personID string) ([]person.Spouse, error)
	ListSpousesByTree(ctx context.Context, treeID string) ([]person.Spouse, error)
}

// Store combines every persistence contract the service needs.
type Store interface {
	TreeStore
	PersonStore
}
