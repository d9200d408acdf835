package viz

import (
	"github.com/matsen/bibscope/internal/keyword"
	"github.com/matsen/bibscope/internal/similarity"
)

// FromCooccurrence builds graph data from a keyword co-occurrence graph.
// Keyword nodes carry their frequency from freq (0 when absent) and edges
// carry the number of abstracts mentioning both terms.
func FromCooccurrence(g *keyword.Graph, freq keyword.FrequencyTable) *GraphData {
	data := &GraphData{
		Nodes: []Node{},
		Edges: []Edge{},
	}

	for _, term := range g.Nodes() {
		data.Nodes = append(data.Nodes, Node{
			ID:        term,
			Type:      NodeKeyword,
			Label:     term,
			Frequency: freq[term],
			Degree:    g.Degree(term),
		})
	}

	for _, e := range g.Edges() {
		data.Edges = append(data.Edges, Edge{
			Source: e.U,
			Target: e.V,
			Kind:   EdgeCooccurrence,
			Weight: float64(e.Weight),
		})
	}

	return data
}

// FromSimilarity builds graph data from similarity pairs. Papers become nodes
// in the order they first appear in pairs.
func FromSimilarity(pairs []similarity.Pair) *GraphData {
	data := &GraphData{
		Nodes: []Node{},
		Edges: make([]Edge, 0, len(pairs)),
	}

	index := make(map[string]int)
	addNode := func(key string) {
		if i, ok := index[key]; ok {
			data.Nodes[i].Degree++
			return
		}
		index[key] = len(data.Nodes)
		data.Nodes = append(data.Nodes, Node{
			ID:     key,
			Type:   NodePaper,
			Label:  key,
			Degree: 1,
		})
	}

	for _, p := range pairs {
		addNode(p.Source)
		addNode(p.Target)
		data.Edges = append(data.Edges, Edge{
			Source: p.Source,
			Target: p.Target,
			Kind:   EdgeSimilarity,
			Weight: p.Similarity,
		})
	}

	return data
}
