// Package graph builds an in-memory relationship index over the
// people of a single tree. The graph is rebuilt per request from the
// persisted person list and never mutated after construction.
package graph

import (
	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/person"
)

// Graph indexes people by id together with parent and spouse
// adjacency. Dangling references are tolerated: lookups against
// missing ids report ok=false.
type Graph struct {
	people           []person.Person
	byID             map[string]person.Person
	childrenAsFather map[string][]string
	childrenAsMother map[string][]string
	spouses          map[string][]string
}

// New builds a graph from a person list in a single pass. Input order
// is preserved by People and by adjacency slices.
func New(people []person.Person, relations []person.Spouse) *Graph {
	g := &Graph{
		people:           people,
		byID:             make(map[string]person.Person, len(people)),
		childrenAsFather: make(map[string][]string),
		childrenAsMother: make(map[string][]string),
		spouses:          make(map[string][]string),
	}
	for _, p := range people {
		g.byID[p.ID] = p
	}
	for _, p := range people {
		if p.FatherID != nil {
			g.childrenAsFather[*p.FatherID] = append(g.childrenAsFather[*p.FatherID], p.ID)
		}
		if p.MotherID != nil {
			g.childrenAsMother[*p.MotherID] = append(g.childrenAsMother[*p.MotherID], p.ID)
		}
	}
	for _, rel := range relations {
		g.spouses[rel.PersonID] = append(g.spouses[rel.PersonID], rel.SpouseID)
		g.spouses[rel.SpouseID] = append(g.spouses[rel.SpouseID], rel.PersonID)
	}
	return g
}

// People returns the indexed people in input order.
func (g *Graph) People() []person.Person {
	return g.people
}

// Person looks up a person by id.
func (g *Graph) Person(id string) (person.Person, bool) {
	p, ok := g.byID[id]
	return p, ok
}

// Father resolves the father of the given person, if both the link
// and the target exist in the graph.
func (g *Graph) Father(id string) (person.Person, bool) {
	p, ok := g.byID[id]
	if !ok || p.FatherID == nil {
		return person.Person{}, false
	}
	father, ok := g.byID[*p.FatherID]
	return father, ok
}

// Mother resolves the mother of the given person, if both the link
// and the target exist in the graph.
func (g *Graph) Mother(id string) (person.Person, bool) {
	p, ok := g.byID[id]
	if !ok || p.MotherID == nil {
		return person.Person{}, false
	}
	mother, ok := g.byID[*p.MotherID]
	return mother, ok
}

// Spouses returns the partner ids recorded for the given person.
func (g *Graph) Spouses(id string) []string {
	return g.spouses[id]
}

// ChildrenAsFather returns the ids of people naming the given person
// as father.
func (g *Graph) ChildrenAsFather(id string) []string {
	return g.childrenAsFather[id]
}

// ChildrenAsMother returns the ids of people naming the given person
// as mother.
func (g *Graph) ChildrenAsMother(id string) []string {
	return g.childrenAsMother[id]
}
