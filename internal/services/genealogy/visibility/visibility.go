// Package visibility decides what a viewer may see of a tree. Every
// read path resolves a Scope here first; layout, export, and share
// views filter through the same scope.
package visibility

import (
	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/person"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/tree"
)

// Viewer identifies who is asking. The zero value is an anonymous
// viewer without a share token.
type Viewer struct {
	UserID     string
	Email      string
	ShareToken string
}

// Scope is the resolved visibility decision for one viewer on one
// tree.
type Scope struct {
	Owner bool

	treeID     string
	hideLiving bool
}

// Resolve decides whether the viewer may see the tree at all and
// returns the scope to filter records through. Non-owners need the
// tree to be public, a grant matching their email, or a valid share
// token; otherwise the error is forbidden.
func Resolve(t tree.Tree, viewer Viewer, grants []tree.Access) (Scope, error) {
	if viewer.UserID != "" && viewer.UserID == t.OwnerID {
		return Scope{Owner: true, treeID: t.ID}, nil
	}
	allowed := t.IsPublic
	if !allowed && viewer.Email != "" {
		email := tree.NormalizeEmail(viewer.Email)
		for _, grant := range grants {
			if tree.NormalizeEmail(grant.Email) == email {
				allowed = true
				break
			}
		}
	}
	if !allowed && viewer.ShareToken != "" && t.ShareToken != nil && viewer.ShareToken == *t.ShareToken {
		allowed = true
	}
	if !allowed {
		return Scope{}, apperrors.E(apperrors.KindForbidden, "you do not have access to this tree")
	}
	return Scope{treeID: t.ID, hideLiving: t.HideLiving}, nil
}

// CanSeePerson reports whether a single person is inside the scope.
func (s Scope) CanSeePerson(p person.Person) bool {
	if s.Owner {
		return true
	}
	if !p.IsPublic {
		return false
	}
	if s.hideLiving && p.IsLiving {
		return false
	}
	return true
}

// FilterPeople returns the visible subset in input order, with
// father, mother, and spouse references to hidden people redacted.
func (s Scope) FilterPeople(people []person.Person) []person.Person {
	if s.Owner {
		return people
	}
	visible := make(map[string]bool, len(people))
	for _, p := range people {
		if s.CanSeePerson(p) {
			visible[p.ID] = true
		}
	}
	out := make([]person.Person, 0, len(people))
	for _, p := range people {
		if !visible[p.ID] {
			continue
		}
		if p.FatherID != nil && !visible[*p.FatherID] {
			p.FatherID = nil
		}
		if p.MotherID != nil && !visible[*p.MotherID] {
			p.MotherID = nil
		}
		out = append(out, p)
	}
	return out
}

// FilterSpouses drops relations that reference a hidden person on
// either side.
func (s Scope) FilterSpouses(people []person.Person, relations []person.Spouse) []person.Spouse {
	if s.Owner {
		return relations
	}
	visible := make(map[string]bool, len(people))
	for _, p := range people {
		if s.CanSeePerson(p) {
			visible[p.ID] = true
		}
	}
	out := make([]person.Spouse, 0, len(relations))
	for _, rel := range relations {
		if visible[rel.PersonID] && visible[rel.SpouseID] {
			out = append(out, rel)
		}
	}
	return out
}

// FilterNotes drops private notes for non-owners.
func (s Scope) FilterNotes(notes []person.Note) []person.Note {
	if s.Owner {
		return notes
	}
	out := make([]person.Note, 0, len(notes))
	for _, n := range notes {
		if !n.IsPrivate {
			out = append(out, n)
		}
	}
	return out
}

// FilterEvents passes events through unchanged. Events carry no
// privacy flag; the person-level filter already decided whether their
// subject is visible.
func (s Scope) FilterEvents(events []person.Event) []person.Event {
	return events
}
