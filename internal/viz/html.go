package viz

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
)

// ErrEmptyGraph is returned by GenerateHTML when the graph has no edges.
// Callers skip the render and report it.
var ErrEmptyGraph = errors.New("graph has no edges")

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout string // "force", "circle", or "grid"
	Title  string
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Layout: "force",
		Title:  "Graph",
	}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid"}

// GenerateHTML generates a self-contained HTML page for the graph.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := ValidateLayout(opts.Layout); err != nil {
		return "", err
	}

	if !graph.HasEdges() {
		return "", ErrEmptyGraph
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	title := opts.Title
	if title == "" {
		title = DefaultOptions().Title
	}

	data := templateData{
		Title:     title,
		GraphJSON: template.JS(graphJSON),
		Layout:    layoutToCytoscape(opts.Layout),
		MaxWeight: maxWeight(graph),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// ValidateLayout checks if the layout option is valid.
func ValidateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, or grid", layout)
	}
}

type templateData struct {
	Title     string
	GraphJSON template.JS
	Layout    string
	MaxWeight float64
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	default:
		return "cose"
	}
}

func maxWeight(g *GraphData) float64 {
	m := 0.0
	for _, e := range g.Edges {
		if e.Weight > m {
			m = e.Weight
		}
	}
	return m
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    body { margin: 0; font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; }
    header { position: absolute; top: 8px; left: 16px; z-index: 10; }
    header h1 { margin: 0; font-size: 16px; color: #333; }
    header p { margin: 2px 0 0; font-size: 12px; color: #777; }
    #cy { width: 100%; height: 100vh; }
    #panel {
      position: absolute; top: 8px; right: 8px; width: 260px; max-height: 90vh;
      overflow-y: auto; display: none; background: white; border: 1px solid #ddd;
      border-radius: 4px; padding: 8px 12px; font-size: 13px; z-index: 10;
    }
    #panel h2 { margin: 0 0 4px; font-size: 14px; word-break: break-word; }
    #panel ol { margin: 4px 0 0; padding-left: 20px; }
    #panel .muted { color: #777; }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <p id="summary"></p>
  </header>
  <div id="cy"></div>
  <div id="panel"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = "{{.Layout}}";
      const maxWeight = {{.MaxWeight}};

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'label': 'data(label)',
              'font-size': '10px',
              'text-valign': 'bottom',
              'text-margin-y': '4px'
            }
          },
          {
            selector: 'node[type="keyword"]',
            style: {
              'background-color': '#E8923A',
              'width': 'mapData(frequency, 1, 50, 18, 60)',
              'height': 'mapData(frequency, 1, 50, 18, 60)'
            }
          },
          {
            selector: 'node[type="paper"]',
            style: {
              'background-color': '#4A90D9',
              'width': 'mapData(degree, 1, 10, 14, 36)',
              'height': 'mapData(degree, 1, 10, 14, 36)'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': '#95A5A6',
              'curve-style': 'haystack',
              'width': 'mapData(weight, 0, ' + maxWeight + ', 1, 8)',
              'opacity': 0.6
            }
          },
          { selector: '.faded', style: { 'opacity': 0.1 } }
        ],
        layout: { name: layout, animate: false }
      });

      document.getElementById('summary').textContent =
        cy.nodes().length + ' nodes, ' + cy.edges().length + ' edges';

      const panel = document.getElementById('panel');

      function formatWeight(edge) {
        const w = edge.data('weight');
        return edge.data('kind') === 'similarity' ? w.toFixed(4) : String(w);
      }

      // Selecting a node lists its neighbours, strongest link first.
      function showNeighbours(node) {
        panel.replaceChildren();
        const title = document.createElement('h2');
        title.textContent = node.data('label');
        panel.appendChild(title);

        const meta = document.createElement('div');
        meta.className = 'muted';
        meta.textContent = node.data('type') === 'keyword'
          ? node.data('frequency') + ' occurrences'
          : node.data('degree') + ' similar papers';
        panel.appendChild(meta);

        const list = document.createElement('ol');
        node.connectedEdges().sort(function(a, b) {
          return b.data('weight') - a.data('weight');
        }).forEach(function(edge) {
          const other = edge.source().same(node) ? edge.target() : edge.source();
          const item = document.createElement('li');
          item.textContent = other.data('label') + ' (' + formatWeight(edge) + ')';
          list.appendChild(item);
        });
        panel.appendChild(list);
        panel.style.display = 'block';
      }

      cy.on('tap', 'node', function(evt) {
        const node = evt.target;
        const keep = node.closedNeighborhood();
        cy.elements().removeClass('faded');
        cy.elements().not(keep).addClass('faded');
        showNeighbours(node);
      });

      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('faded');
          panel.style.display = 'none';
        }
      });
    })();
  </script>
</body>
</html>`
