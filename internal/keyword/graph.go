package keyword

import (
	"sort"
)

// Edge is an undirected weighted edge between two canonical terms.
// U precedes V in keyword map order.
type Edge struct {
	U      string `json:"u"`
	V      string `json:"v"`
	Weight int    `json:"weight"` // Number of abstracts mentioning both terms
}

// Graph is an undirected co-occurrence graph of canonical terms.
type Graph struct {
	order   map[string]int // canonical -> keyword map position
	nodes   map[string]bool
	weights map[[2]string]int
}

func newGraph(m *Map) *Graph {
	return &Graph{
		order:   m.index,
		nodes:   make(map[string]bool),
		weights: make(map[[2]string]int),
	}
}

// BuildGraph links canonical terms that appear together in an abstract.
// Presence is boolean per abstract: a term mentioned five times in one
// abstract still adds one to each of its edges. Every term present in at
// least one abstract becomes a node, even without edges.
func BuildGraph(abstracts []string, m *Map) *Graph {
	g := newGraph(m)
	for _, abstract := range abstracts {
		var present []string
		for _, t := range m.terms {
			if t.present(abstract) {
				present = append(present, t.Canonical)
			}
		}
		for _, c := range present {
			g.nodes[c] = true
		}
		for i := 0; i < len(present); i++ {
			for j := i + 1; j < len(present); j++ {
				g.weights[[2]string{present[i], present[j]}]++
			}
		}
	}
	return g
}

// pairKey orders u and v by keyword map position.
func (g *Graph) pairKey(u, v string) [2]string {
	if g.order[u] > g.order[v] {
		u, v = v, u
	}
	return [2]string{u, v}
}

// Weight returns the edge weight between u and v, 0 if there is no edge.
func (g *Graph) Weight(u, v string) int {
	if u == v {
		return 0
	}
	return g.weights[g.pairKey(u, v)]
}

// HasNode reports whether the term appeared in any abstract.
func (g *Graph) HasNode(term string) bool {
	return g.nodes[term]
}

// Nodes returns the present terms in keyword map order.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return g.order[out[i]] < g.order[out[j]] })
	return out
}

// Edges returns all edges ordered by keyword map position of U, then V.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.weights))
	for k, w := range g.weights {
		out = append(out, Edge{U: k[0], V: k[1], Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if g.order[out[i].U] != g.order[out[j].U] {
			return g.order[out[i].U] < g.order[out[j].U]
		}
		return g.order[out[i].V] < g.order[out[j].V]
	})
	return out
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int {
	return len(g.weights)
}

// Degree returns the number of distinct terms co-occurring with term.
func (g *Graph) Degree(term string) int {
	d := 0
	for k := range g.weights {
		if k[0] == term || k[1] == term {
			d++
		}
	}
	return d
}
