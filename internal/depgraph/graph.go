// Package depgraph holds the per-batch dependency graph between tasks.
//
// Nodes live in an arena indexed by their position in the batch and are
// looked up by id key, so no task ever holds a pointer to another. An edge
// u -> v means task u depends on task v; edges to ids outside the batch are
// dropped.
package depgraph

import (
	"fmt"
	"strings"
)

// Node is one task as seen by the graph.
type Node struct {
	Key          string
	Dependencies []string
}

// Graph is an immutable dependency graph over one batch.
type Graph struct {
	keys       []string
	index      map[string]int
	edges      [][]int
	dependents []int
}

// New builds the graph. A node with an empty key can depend on others but
// cannot be depended upon. When a key repeats, the first node owns it.
func New(nodes []Node) *Graph {
	g := &Graph{
		keys:       make([]string, len(nodes)),
		index:      make(map[string]int, len(nodes)),
		edges:      make([][]int, len(nodes)),
		dependents: make([]int, len(nodes)),
	}
	for i, n := range nodes {
		g.keys[i] = n.Key
		if n.Key == "" {
			continue
		}
		if _, exists := g.index[n.Key]; !exists {
			g.index[n.Key] = i
		}
	}

	for i, n := range nodes {
		seen := make(map[int]bool, len(n.Dependencies))
		for _, dep := range n.Dependencies {
			j, ok := g.index[dep]
			if !ok || seen[j] {
				continue
			}
			seen[j] = true
			g.edges[i] = append(g.edges[i], j)
			if j != i {
				g.dependents[j]++
			}
		}
	}
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.keys) }

// Dependents returns how many other tasks depend directly on the node at
// position i. Cycles do not affect the count.
func (g *Graph) Dependents(i int) int { return g.dependents[i] }

// Report is the result of cycle detection.
type Report struct {
	// Circular[i] is true when a cycle is reachable from node i, i.e. its
	// dependency chain never bottoms out.
	Circular []bool
	// Cycles holds at most MaxCycles node-disjoint witness paths, first key
	// repeated last.
	Cycles [][]string
	// Omitted counts disjoint cycles found past MaxCycles.
	Omitted int
}

// HasCycles reports whether any cycle was found.
func (r Report) HasCycles() bool { return len(r.Cycles) > 0 }

// String joins the witness paths, e.g. "1 -> 2 -> 1; 4 -> 4".
func (r Report) String() string {
	parts := make([]string, len(r.Cycles), len(r.Cycles)+1)
	for i, c := range r.Cycles {
		parts[i] = strings.Join(c, " -> ")
	}
	if r.Omitted > 0 {
		parts = append(parts, fmt.Sprintf("...and %d more", r.Omitted))
	}
	return strings.Join(parts, "; ")
}
