package viz

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/matsen/bibscope/internal/keyword"
	"github.com/matsen/bibscope/internal/similarity"
)

func cooccurrenceFixture() (*keyword.Graph, keyword.FrequencyTable) {
	m := keyword.BuildMap([]string{"loops", "ct - computational thinking", "robotics", "unused"})
	abstracts := []string{
		"loops and ct",
		"ct with robotics and loops",
		"robotics only",
	}
	return keyword.BuildGraph(abstracts, m), keyword.Count(abstracts, m)
}

func TestFromCooccurrence(t *testing.T) {
	g, freq := cooccurrenceFixture()
	data := FromCooccurrence(g, freq)

	if len(data.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(data.Nodes))
	}
	if data.Nodes[0].ID != "loops" || data.Nodes[0].Type != NodeKeyword {
		t.Errorf("first node = %+v", data.Nodes[0])
	}
	if data.Nodes[0].Frequency != 2 {
		t.Errorf("loops frequency = %d, want 2", data.Nodes[0].Frequency)
	}
	if data.Nodes[0].Degree != 2 {
		t.Errorf("loops degree = %d, want 2", data.Nodes[0].Degree)
	}

	if len(data.Edges) != 3 {
		t.Fatalf("got %d edges, want 3", len(data.Edges))
	}
	first := data.Edges[0]
	if first.Source != "loops" || first.Target != "ct" || first.Weight != 2 || first.Kind != EdgeCooccurrence {
		t.Errorf("first edge = %+v", first)
	}
}

func TestFromSimilarity(t *testing.T) {
	data := FromSimilarity([]similarity.Pair{
		{Source: "a", Target: "b", Similarity: 0.5},
		{Source: "a", Target: "c", Similarity: 0.25},
	})

	wantIDs := []string{"a", "b", "c"}
	if len(data.Nodes) != len(wantIDs) {
		t.Fatalf("got %d nodes, want %d", len(data.Nodes), len(wantIDs))
	}
	for i, id := range wantIDs {
		if data.Nodes[i].ID != id || data.Nodes[i].Type != NodePaper {
			t.Errorf("node %d = %+v, want paper %s", i, data.Nodes[i], id)
		}
	}
	if data.Nodes[0].Degree != 2 {
		t.Errorf("a degree = %d, want 2", data.Nodes[0].Degree)
	}
	if data.Edges[1].Weight != 0.25 || data.Edges[1].Kind != EdgeSimilarity {
		t.Errorf("second edge = %+v", data.Edges[1])
	}
}

func TestFromSimilarity_Empty(t *testing.T) {
	data := FromSimilarity(nil)
	if !data.IsEmpty() || data.HasEdges() {
		t.Errorf("FromSimilarity(nil) = %+v, want empty", data)
	}
}

func TestToCytoscapeJSON(t *testing.T) {
	g, freq := cooccurrenceFixture()
	out, err := FromCooccurrence(g, freq).ToCytoscapeJSON()
	if err != nil {
		t.Fatalf("ToCytoscapeJSON() error = %v", err)
	}

	var elements CytoscapeElements
	if err := json.Unmarshal([]byte(out), &elements); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(elements.Nodes) != 3 || len(elements.Edges) != 3 {
		t.Errorf("got %d nodes and %d edges", len(elements.Nodes), len(elements.Edges))
	}
	seen := make(map[string]bool)
	for _, e := range elements.Edges {
		if seen[e.Data.ID] {
			t.Errorf("duplicate edge id %q", e.Data.ID)
		}
		seen[e.Data.ID] = true
	}
}

func TestGenerateHTML(t *testing.T) {
	g, freq := cooccurrenceFixture()
	html, err := GenerateHTML(FromCooccurrence(g, freq), HTMLOptions{Layout: "circle", Title: "Skills <co-occurrence>"})
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"cytoscape",
		"Skills &lt;co-occurrence&gt;",
		`"label":"robotics"`,
		`<div id="panel">`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if !strings.Contains(html, `"circle"`) {
		t.Error("HTML should use the circle layout")
	}
	if strings.Contains(html, "tooltip") {
		t.Error("HTML should show neighbours in the side panel, not a hover tooltip")
	}
}

func TestGenerateHTML_Errors(t *testing.T) {
	if _, err := GenerateHTML(nil, DefaultOptions()); err == nil {
		t.Error("GenerateHTML(nil) should fail")
	}

	g, freq := cooccurrenceFixture()
	if _, err := GenerateHTML(FromCooccurrence(g, freq), HTMLOptions{Layout: "spiral"}); err == nil {
		t.Error("GenerateHTML() with invalid layout should fail")
	}

	isolated := &GraphData{Nodes: []Node{{ID: "solo", Type: NodeKeyword, Label: "solo"}}}
	if _, err := GenerateHTML(isolated, DefaultOptions()); !errors.Is(err, ErrEmptyGraph) {
		t.Errorf("GenerateHTML() on edgeless graph error = %v, want ErrEmptyGraph", err)
	}
}

func TestValidateLayout(t *testing.T) {
	for _, layout := range append([]string{""}, ValidLayouts...) {
		if err := ValidateLayout(layout); err != nil {
			t.Errorf("ValidateLayout(%q) error = %v", layout, err)
		}
	}
	if err := ValidateLayout("random"); err == nil {
		t.Error("ValidateLayout(random) should fail")
	}
}

func TestLayoutToCytoscape(t *testing.T) {
	tests := map[string]string{"": "cose", "force": "cose", "circle": "circle", "grid": "grid"}
	for in, want := range tests {
		if got := layoutToCytoscape(in); got != want {
			t.Errorf("layoutToCytoscape(%q) = %q, want %q", in, got, want)
		}
	}
}
