// Package layout positions the people of a graph on a fixed grid of
// generation rows. Computation is pure and deterministic for a given
// input order.
package layout

import (
	"fmt"

	"github.com/louisbranch/arbor.space/internal/services/genealogy/graph"
)

// Defaults match the canvas the web client renders onto.
const (
	DefaultNodeWidth = 200
	DefaultRowHeight = 200
	DefaultGap       = 50
)

// EdgeKind labels the relationship an edge represents.
type EdgeKind string

const (
	EdgePaternal EdgeKind = "paternal"
	EdgeMaternal EdgeKind = "maternal"
	EdgeSpousal  EdgeKind = "spousal"
)

// Options controls node sizing and spacing. Zero values fall back to
// the defaults.
type Options struct {
	NodeWidth float64
	RowHeight float64
	Gap       float64
}

// Node is a positioned person.
type Node struct {
	PersonID   string  `json:"personId"`
	Generation int     `json:"generation"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// Edge connects two positioned people.
type Edge struct {
	ID   string   `json:"id"`
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"kind"`
}

// Layout is the positioned snapshot of a graph.
type Layout struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Compute assigns a generation and canvas position to every person in
// the graph and derives parent and spouse edges. It never fails:
// dangling references are skipped and ancestor cycles resolve to
// generation zero.
func Compute(g *graph.Graph, opts Options) Layout {
	if opts.NodeWidth <= 0 {
		opts.NodeWidth = DefaultNodeWidth
	}
	if opts.RowHeight <= 0 {
		opts.RowHeight = DefaultRowHeight
	}
	if opts.Gap <= 0 {
		opts.Gap = DefaultGap
	}

	people := g.People()
	gens := assignGenerations(g)

	// Group into rows by generation, preserving input order.
	maxGen := 0
	for _, gen := range gens {
		if gen > maxGen {
			maxGen = gen
		}
	}
	rows := make([][]string, maxGen+1)
	for _, p := range people {
		gen := gens[p.ID]
		rows[gen] = append(rows[gen], p.ID)
	}

	layout := Layout{Nodes: make([]Node, 0, len(people))}
	position := make(map[string]Node, len(people))
	for gen, row := range rows {
		rowWidth := float64(len(row))*opts.NodeWidth + float64(len(row)-1)*opts.Gap
		startX := -rowWidth / 2
		for i, id := range row {
			node := Node{
				PersonID:   id,
				Generation: gen,
				X:          startX + float64(i)*(opts.NodeWidth+opts.Gap) + opts.NodeWidth/2,
				Y:          float64(gen) * opts.RowHeight,
			}
			position[id] = node
		}
	}
	// Emit nodes in input order rather than row order.
	for _, p := range people {
		layout.Nodes = append(layout.Nodes, position[p.ID])
	}

	seenSpousal := make(map[string]bool)
	for _, p := range people {
		if father, ok := g.Father(p.ID); ok {
			layout.Edges = append(layout.Edges, Edge{
				ID:   fmt.Sprintf("%s-%s", father.ID, p.ID),
				From: father.ID,
				To:   p.ID,
				Kind: EdgePaternal,
			})
		}
		if mother, ok := g.Mother(p.ID); ok {
			layout.Edges = append(layout.Edges, Edge{
				ID:   fmt.Sprintf("%s-%s", mother.ID, p.ID),
				From: mother.ID,
				To:   p.ID,
				Kind: EdgeMaternal,
			})
		}
		for _, partnerID := range g.Spouses(p.ID) {
			if _, ok := g.Person(partnerID); !ok {
				continue
			}
			key := pairKey(p.ID, partnerID)
			if seenSpousal[key] {
				continue
			}
			seenSpousal[key] = true
			layout.Edges = append(layout.Edges, Edge{
				ID:   fmt.Sprintf("%s-%s-spousal", p.ID, partnerID),
				From: p.ID,
				To:   partnerID,
				Kind: EdgeSpousal,
			})
		}
	}
	return layout
}

func pairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

// assignGenerations computes generation(p) = 0 for people with no
// resolvable parents, otherwise 1 + max over resolvable parents.
// Memoized depth-first walk with an explicit on-path stack; when the
// walk re-enters a person already on the path, every person on the
// cycle resolves to generation zero.
func assignGenerations(g *graph.Graph) map[string]int {
	gens := make(map[string]int, len(g.People()))
	done := make(map[string]bool, len(g.People()))
	onPath := make(map[string]int)
	var path []string

	var visit func(id string) int
	visit = func(id string) int {
		if done[id] {
			return gens[id]
		}
		if at, ok := onPath[id]; ok {
			// Cycle: everyone from the re-entry point down is part
			// of it and collapses to the root row.
			for _, member := range path[at:] {
				gens[member] = 0
				done[member] = true
			}
			return 0
		}
		onPath[id] = len(path)
		path = append(path, id)
		defer func() {
			delete(onPath, id)
			path = path[:len(path)-1]
		}()

		gen := 0
		if father, ok := g.Father(id); ok {
			if fg := visit(father.ID) + 1; fg > gen {
				gen = fg
			}
		}
		if mother, ok := g.Mother(id); ok {
			if mg := visit(mother.ID) + 1; mg > gen {
				gen = mg
			}
		}
		if done[id] {
			// Marked as a cycle member while visiting parents.
			return gens[id]
		}
		gens[id] = gen
		done[id] = true
		return gen
	}

	for _, p := range g.People() {
		visit(p.ID)
	}
	return gens
}
