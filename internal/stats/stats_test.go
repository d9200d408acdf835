package stats

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/bibscope/internal/bibtex"
	"github.com/matsen/bibscope/internal/storage"
)

const fixture = `@article{a1,
  author = {Zhou, Li and Smith, John},
  journal = {Computers and Education},
  publisher = {Elsevier},
  year = {2021}
}
@article{a2,
  author = {Adams, Kim},
  journal = {Informatics in Education},
  publisher = {Vilnius University Press},
  year = {2019}
}
@book{b1,
  author = {Zhou, Li},
  publisher = {Springer},
  year = {2021}
}
@article{a3,
  author = {Adams, Kim},
  journal = {Computers and Education},
  publisher = {Elsevier},
  year = {2021}
}
`

func openIndex(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	entries := bibtex.ParseAll(bibtex.Split(fixture))
	if _, err := db.RebuildFromRecords(storage.RecordsFromEntries(entries)); err != nil {
		t.Fatalf("RebuildFromRecords() error = %v", err)
	}
	return db
}

func TestBuild(t *testing.T) {
	report, err := Build(openIndex(t), 0)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if report.Total != 4 {
		t.Errorf("Total = %d, want 4", report.Total)
	}
	wantAuthors := Ranking{{Value: "Zhou, Li", N: 2}, {Value: "Adams, Kim", N: 2}}
	if !reflect.DeepEqual(report.TopAuthors, wantAuthors) {
		t.Errorf("TopAuthors = %v, want %v", report.TopAuthors, wantAuthors)
	}
	wantTypes := Ranking{{Value: "article", N: 3}, {Value: "book", N: 1}}
	if !reflect.DeepEqual(report.TypeCounts, wantTypes) {
		t.Errorf("TypeCounts = %v, want %v", report.TypeCounts, wantTypes)
	}
	if len(report.TopJournals) != 2 || report.TopJournals[0].N != 2 {
		t.Errorf("TopJournals = %v", report.TopJournals)
	}
}

func TestBuild_TopN(t *testing.T) {
	report, err := Build(openIndex(t), 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(report.TopAuthors) != 1 || report.TopAuthors[0].Value != "Zhou, Li" {
		t.Errorf("TopAuthors = %v, want first-seen tie winner only", report.TopAuthors)
	}
	if len(report.TopPublishers) != 1 || report.TopPublishers[0].Value != "Elsevier" {
		t.Errorf("TopPublishers = %v", report.TopPublishers)
	}
}

func TestReport_JSON(t *testing.T) {
	report, err := Build(openIndex(t), 15)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got := string(data)

	for _, want := range []string{
		`"top_authors":{"Zhou, Li":2,"Adams, Kim":2}`,
		`"publication_year_by_type":{"article":{"2019":1,"2021":2},"book":{"2021":1}}`,
		`"product_type_counts":{"article":3,"book":1}`,
		`"top_journals":{"Computers and Education":2,"Informatics in Education":1}`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON missing %s\nin %s", want, got)
		}
	}
}

func TestRanking_UnmarshalKeepsOrder(t *testing.T) {
	var r Ranking
	if err := json.Unmarshal([]byte(`{"b": 3, "a": 1, "c": 1}`), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := Ranking{{Value: "b", N: 3}, {Value: "a", N: 1}, {Value: "c", N: 1}}
	if !reflect.DeepEqual(r, want) {
		t.Errorf("Unmarshal() = %v, want %v", r, want)
	}

	if err := json.Unmarshal([]byte(`[1, 2]`), &r); err == nil {
		t.Error("Unmarshal() of array should fail")
	}
}

type failingSource struct{}

func (failingSource) Count() (int, error) { return 0, errors.New("boom") }
func (failingSource) TopFirstAuthors(int) ([]storage.Count, error) { return nil, nil }
func (failingSource) YearsByType() ([]storage.TypeYears, error) { return nil, nil }
func (failingSource) TypeCounts() ([]storage.Count, error) { return nil, nil }
func (failingSource) TopJournals(int) ([]storage.Count, error) { return nil, nil }
func (failingSource) TopPublishers(int) ([]storage.Count, error) { return nil, nil }

func TestBuild_PropagatesErrors(t *testing.T) {
	_, err := Build(failingSource{}, 5)
	if err == nil || !strings.Contains(err.Error(), "counting entries") {
		t.Errorf("Build() error = %v, want wrapped count error", err)
	}
}
