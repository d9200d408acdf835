package viz

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/matsen/bibscope/internal/keyword"
)

// ErrNoFrequencies is returned by GenerateCloudHTML when no term was counted.
var ErrNoFrequencies = errors.New("no keyword frequencies")

// Font size range of cloud words, in pixels.
const (
	MinFontSize = 12
	MaxFontSize = 64
)

var cloudTemplate = template.Must(template.New("cloud").Parse(cloudHTML))

// CloudWord is one rendered keyword.
type CloudWord struct {
	Term     string
	Count    int
	FontSize int
	Color    string
}

var cloudPalette = []string{"#4A90D9", "#E8923A", "#27AE60", "#9B59B6", "#C0392B", "#16A085"}

// CloudWords scales terms linearly by count into [MinFontSize, MaxFontSize],
// most frequent first. When every count is equal all words get the midpoint.
func CloudWords(freq keyword.FrequencyTable) []CloudWord {
	sorted := freq.Sorted()
	if len(sorted) == 0 {
		return nil
	}

	hi, lo := sorted[0].Count, sorted[len(sorted)-1].Count
	words := make([]CloudWord, len(sorted))
	for i, tc := range sorted {
		size := (MinFontSize + MaxFontSize) / 2
		if hi > lo {
			size = MinFontSize + (MaxFontSize-MinFontSize)*(tc.Count-lo)/(hi-lo)
		}
		words[i] = CloudWord{
			Term:     tc.Term,
			Count:    tc.Count,
			FontSize: size,
			Color:    cloudPalette[i%len(cloudPalette)],
		}
	}
	return words
}

// GenerateCloudHTML renders a keyword cloud page for a frequency table.
func GenerateCloudHTML(title string, freq keyword.FrequencyTable) (string, error) {
	if freq.Total() == 0 {
		return "", ErrNoFrequencies
	}

	var buf bytes.Buffer
	err := cloudTemplate.Execute(&buf, struct {
		Title string
		Words []CloudWord
	}{title, CloudWords(freq)})
	if err != nil {
		return "", fmt.Errorf("rendering cloud: %w", err)
	}
	return buf.String(), nil
}

const cloudHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 24px;
      background: white;
    }
    h1 {
      font-size: 18px;
      color: #333;
    }
    .cloud {
      display: flex;
      flex-wrap: wrap;
      align-items: center;
      justify-content: center;
      gap: 6px 14px;
      max-width: 1200px;
      margin: 0 auto;
    }
    .cloud span {
      line-height: 1.1;
      white-space: nowrap;
    }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="cloud">
{{- range .Words}}
    <span style="font-size: {{.FontSize}}px; color: {{.Color}}" title="{{.Term}}: {{.Count}}">{{.Term}}</span>
{{- end}}
  </div>
</body>
</html>`
