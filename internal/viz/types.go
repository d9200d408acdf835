// Package viz renders keyword co-occurrence graphs, similarity graphs, and
// keyword clouds as self-contained HTML pages.
package viz

// Node types.
const (
	NodeKeyword = "keyword"
	NodePaper   = "paper"
)

// Edge kinds.
const (
	EdgeCooccurrence = "cooccurrence"
	EdgeSimilarity   = "similarity"
)

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents a keyword or paper in the graph.
type Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"` // "keyword" or "paper"
	Label string `json:"label"`

	// Keyword-specific: total occurrence count across abstracts
	Frequency int `json:"frequency,omitempty"`

	// Sizing
	Degree int `json:"degree"`
}

// Edge is an undirected weighted link between two nodes.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Kind   string  `json:"kind"`
	Weight float64 `json:"weight"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// HasEdges returns true if the graph has at least one edge.
func (g *GraphData) HasEdges() bool {
	return len(g.Edges) > 0
}
