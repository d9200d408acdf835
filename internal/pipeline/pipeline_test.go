package pipeline

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/matsen/bibscope/internal/bibtex"
	"github.com/matsen/bibscope/internal/config"
	"github.com/matsen/bibscope/internal/keyword"
	"github.com/matsen/bibscope/internal/storage"
)

const scopusBib = `@article{smith2021,
  author = {Smith, John and Doe, Jane},
  title = {Computational Thinking in Primary School},
  journal = {Computers and Education},
  year = {2021},
  doi = {10.1016/j.compedu.2021.1},
  abstract = {We study abstraction and loops with
Scratch in primary school classrooms.}
}

@article{lee2020,
  author = {Lee, Ann},
  title = {Robotics and Loops in Kindergarten},
  journal = {Early Childhood Research},
  year = {2020},
  abstract = {Robotics kits teach loops and abstraction to young children.}
}

@misc{short2019,
  title = {A Short Note},
  year = {2019},
  abstract = {Too short.}
}
`

const wosBib = `@article{smith2021wos,
  author = {Smith, J.},
  title = {Computational thinking in primary school},
  journal = {Computers and Education},
  year = {2021},
  doi = {https://doi.org/10.1016/J.COMPEDU.2021.1},
  abstract = {A different abstract for the same paper.}
}

@inproceedings{park2022,
  author = {Park, Min},
  title = {Unplugged Activities},
  booktitle = {SIGCSE},
  year = {2022},
  abstract = {We study abstraction and loops with unplugged activities in primary school.}
}
`

// setupProject writes a project with two raw .bib files and a small
// category list, and returns its loaded config.
func setupProject(t *testing.T) *config.Config {
	t.Helper()

	root := t.TempDir()
	cfg := config.Default()
	cfg.Categories = []config.Category{
		{Name: "Skills", Terms: []string{"abstraction", "loops", "quantum computing"}},
		{Name: "Tool", Terms: []string{"Scratch", "Arduino"}},
		{Name: "Empty", Terms: []string{"blockchain"}},
	}
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw := filepath.Join(root, "data", "raw")
	if err := os.MkdirAll(raw, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(raw, "scopus.bib"), scopusBib)
	writeFile(t, filepath.Join(raw, "wos.bib"), wosBib)

	loaded, err := config.Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return loaded
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func mustMerge(t *testing.T, cfg *config.Config) *MergeReport {
	t.Helper()
	report, err := Merge(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	return report
}

func TestMerge(t *testing.T) {
	cfg := setupProject(t)
	report := mustMerge(t, cfg)

	if len(report.Files) != 2 || report.Entries != 5 {
		t.Errorf("report = %+v", report)
	}
	if report.Unique != 4 || report.Duplicates != 1 {
		t.Errorf("unique = %d, duplicates = %d; want 4, 1", report.Unique, report.Duplicates)
	}
	if len(report.Groups) != 1 || report.Groups[0].Primary != "smith2021" {
		t.Errorf("groups = %+v", report.Groups)
	}

	merged, err := bibtex.ReadFile(report.MergedPath)
	if err != nil {
		t.Fatalf("reading merged.bib: %v", err)
	}
	var keys []string
	for _, e := range merged {
		keys = append(keys, e.Key)
	}
	if want := []string{"smith2021", "lee2020", "short2019", "park2022"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("merged keys = %v, want %v", keys, want)
	}

	dupes, err := bibtex.ReadFile(report.DuplicatesPath)
	if err != nil {
		t.Fatalf("reading duplicates.bib: %v", err)
	}
	if len(dupes) != 1 || dupes[0].Key != "smith2021wos" {
		t.Errorf("duplicates = %v", dupes)
	}

	records, err := storage.ReadRecords(report.RecordsPath)
	if err != nil || len(records) != 4 {
		t.Errorf("records = %d, %v; want 4", len(records), err)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	cfg := setupProject(t)
	report := mustMerge(t, cfg)

	// Feed the merged output back in as the only raw input.
	raw := cfg.RawPath()
	for _, f := range report.Files {
		if err := os.Remove(f); err != nil {
			t.Fatal(err)
		}
	}
	data, err := os.ReadFile(report.MergedPath)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(raw, "merged.bib"), string(data))

	again := mustMerge(t, cfg)
	if again.Duplicates != 0 || again.Unique != report.Unique {
		t.Errorf("re-merge = %d unique, %d duplicates; want %d, 0", again.Unique, again.Duplicates, report.Unique)
	}
}

func TestMerge_NoInput(t *testing.T) {
	cfg := config.Default().WithRoot(t.TempDir())
	if _, err := Merge(cfg, zerolog.Nop()); !errors.Is(err, ErrNoInput) {
		t.Errorf("Merge() without raw dir error = %v, want ErrNoInput", err)
	}

	if err := os.MkdirAll(cfg.RawPath(), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := Merge(cfg, zerolog.Nop()); !errors.Is(err, ErrNoInput) {
		t.Errorf("Merge() with empty raw dir error = %v, want ErrNoInput", err)
	}
}

func TestStats(t *testing.T) {
	cfg := setupProject(t)
	mustMerge(t, cfg)

	report, err := Stats(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if report.Total != 4 {
		t.Errorf("Total = %d, want 4", report.Total)
	}
	if len(report.TopJournals) == 0 || report.TopJournals[0].Value != "Computers and Education" {
		t.Errorf("TopJournals = %v", report.TopJournals)
	}

	data, err := os.ReadFile(cfg.ProcessedFile(config.StatsFile))
	if err != nil {
		t.Fatalf("reading stats.json: %v", err)
	}
	for _, key := range []string{"top_authors", "publication_year_by_type", "product_type_counts", "top_journals", "top_publishers"} {
		if !strings.Contains(string(data), `"`+key+`"`) {
			t.Errorf("stats.json missing %q", key)
		}
	}
}

func TestStats_WithoutMerge(t *testing.T) {
	cfg := setupProject(t)
	if _, err := Stats(cfg, zerolog.Nop()); !errors.Is(err, ErrNoInput) {
		t.Errorf("Stats() before merge error = %v, want ErrNoInput", err)
	}
}

func TestSearch(t *testing.T) {
	cfg := setupProject(t)
	mustMerge(t, cfg)

	results, err := Search(cfg, zerolog.Nop(), "robotics", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Key != "lee2020" {
		t.Errorf("Search() = %v", results)
	}
}

func TestKeywords(t *testing.T) {
	cfg := setupProject(t)
	mustMerge(t, cfg)

	results, err := Keywords(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Keywords() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d categories, want 3", len(results))
	}

	skills := results[0]
	// Four merged abstracts; "abstraction" and "loops" appear in three.
	if skills.Abstracts != 4 {
		t.Errorf("Abstracts = %d, want 4", skills.Abstracts)
	}
	want := keyword.FrequencyTable{"abstraction": 3, "loops": 3}
	if !reflect.DeepEqual(skills.Frequencies, want) {
		t.Errorf("Frequencies = %v, want %v", skills.Frequencies, want)
	}
	if skills.Edges != 1 || skills.GraphPath == "" || skills.CloudPath == "" {
		t.Errorf("skills result = %+v", skills)
	}

	got, err := storage.ReadFrequencies(cfg.ProcessedFile("skills_frequencies.json"))
	if err != nil {
		t.Fatalf("ReadFrequencies() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("skills_frequencies.json = %v, want %v", got, want)
	}
	for _, p := range []string{skills.CloudPath, skills.GraphPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("render %s not written: %v", p, err)
		}
	}

	tool := results[1]
	if tool.Frequencies["scratch"] != 1 || tool.GraphPath != "" || tool.CloudPath == "" {
		t.Errorf("tool result = %+v, want cloud but no graph", tool)
	}

	empty := results[2]
	if len(empty.Frequencies) != 0 || empty.CloudPath != "" || empty.GraphPath != "" {
		t.Errorf("empty result = %+v, want no renders", empty)
	}
	data, err := os.ReadFile(empty.FrequenciesPath)
	if err != nil || strings.TrimSpace(string(data)) != "{}" {
		t.Errorf("empty frequencies file = %q, %v", data, err)
	}
}

func TestKeywords_SelectCategory(t *testing.T) {
	cfg := setupProject(t)
	mustMerge(t, cfg)

	results, err := Keywords(cfg, zerolog.Nop(), "tool")
	if err != nil {
		t.Fatalf("Keywords() error = %v", err)
	}
	if len(results) != 1 || results[0].Slug != "tool" {
		t.Errorf("results = %+v", results)
	}

	if _, err := Keywords(cfg, zerolog.Nop(), "nope"); err == nil {
		t.Error("Keywords() with unknown category should fail")
	}
}

func TestSimilarity(t *testing.T) {
	cfg := setupProject(t)
	mustMerge(t, cfg)

	res, err := Similarity(cfg, zerolog.Nop(), SimilarityOptions{Method: "jaccard", Threshold: math.NaN()})
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	if res.Threshold != 0.2 {
		t.Errorf("Threshold = %v, want configured 0.2", res.Threshold)
	}
	// short2019 is filtered by length.
	if res.Documents != 3 {
		t.Errorf("Documents = %d, want 3", res.Documents)
	}
	for _, p := range res.Pairs {
		if p.Similarity < res.Threshold || p.Source == p.Target {
			t.Errorf("bad pair %+v", p)
		}
		if p.Source == "short2019" || p.Target == "short2019" {
			t.Errorf("short abstract paired: %+v", p)
		}
	}

	pairs, err := storage.ReadPairs(res.JSONPath)
	if err != nil {
		t.Fatalf("ReadPairs() error = %v", err)
	}
	if !reflect.DeepEqual(pairs, res.Pairs) {
		t.Errorf("similarity_jaccard.json = %v, want %v", pairs, res.Pairs)
	}
	if filepath.Base(res.JSONPath) != "similarity_jaccard.json" {
		t.Errorf("JSONPath = %q", res.JSONPath)
	}
}

func TestRenderSimilarity(t *testing.T) {
	cfg := setupProject(t)
	mustMerge(t, cfg)

	if _, err := RenderSimilarity(cfg, zerolog.Nop(), "jaccard"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("RenderSimilarity() before scoring error = %v, want os.ErrNotExist", err)
	}

	scored, err := Similarity(cfg, zerolog.Nop(), SimilarityOptions{Method: "jaccard", Threshold: 0})
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	if scored.HTMLPath == "" {
		t.Fatal("Similarity() at threshold 0 drew no graph")
	}
	if err := os.Remove(scored.HTMLPath); err != nil {
		t.Fatal(err)
	}

	cfg.Viz.Layout = "circle"
	res, err := RenderSimilarity(cfg, zerolog.Nop(), "Jaccard")
	if err != nil {
		t.Fatalf("RenderSimilarity() error = %v", err)
	}
	if res.Method != "jaccard" || res.Pairs != len(scored.Pairs) || res.HTMLPath != scored.HTMLPath {
		t.Errorf("RenderSimilarity() = %+v, want %d pairs at %s", res, len(scored.Pairs), scored.HTMLPath)
	}
	html, err := os.ReadFile(res.HTMLPath)
	if err != nil {
		t.Fatalf("reading rerendered graph: %v", err)
	}
	if !strings.Contains(string(html), `"circle"`) {
		t.Error("rerendered graph does not use the current layout")
	}
}

func TestSimilarity_ThresholdAboveAll(t *testing.T) {
	cfg := setupProject(t)
	mustMerge(t, cfg)

	res, err := Similarity(cfg, zerolog.Nop(), SimilarityOptions{Method: "tfidf", Threshold: 1})
	if err != nil {
		t.Fatalf("Similarity() error = %v", err)
	}
	if len(res.Pairs) != 0 || res.HTMLPath != "" {
		t.Errorf("result = %+v, want no pairs and no render", res)
	}
	data, err := os.ReadFile(res.JSONPath)
	if err != nil || strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("similarity_tfidf.json = %q, %v; want []", data, err)
	}
}

func TestSimilarity_UnknownMethod(t *testing.T) {
	cfg := setupProject(t)
	if _, err := Similarity(cfg, zerolog.Nop(), SimilarityOptions{Method: "bm25", Threshold: math.NaN()}); err == nil {
		t.Error("Similarity() with unknown method should fail")
	}
}

func TestDocuments(t *testing.T) {
	entries := bibtex.ParseAll(bibtex.Split(`@article{a,
  abstract = {This abstract is comfortably longer than thirty characters.}
}
@article{,
  abstract = {This keyless abstract is also longer than thirty characters.}
}
@article{b,
  abstract = {exactly thirty characters long}
}
@article{a,
  abstract = {A replacement abstract for key a that is long enough.}
}
@article{c,
  title = {No abstract}
}
`))

	docs := Documents(entries, 30)
	if len(docs) != 1 {
		t.Fatalf("Documents() = %v, want one document", docs)
	}
	if docs[0].Key != "a" || !strings.HasPrefix(docs[0].Text, "a replacement abstract") {
		t.Errorf("Documents()[0] = %+v, want last abstract for key a", docs[0])
	}

	if got := len(Abstracts(entries)); got != 4 {
		t.Errorf("Abstracts() returned %d, want 4", got)
	}
}
