package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Count is a value and how many entries carry it.
type Count struct {
	Value string `json:"value"`
	N     int    `json:"count"`
}

// TypeYears holds the per-year entry counts of one entry type.
type TypeYears struct {
	Type  string  `json:"type"`
	Years []Count `json:"years"`
}

const selectEntryFields = `key, type, year, authors_json, first_author,
	title, doi, journal, publisher, abstract`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		-- seq preserves merge order; ties in rankings break on it
		CREATE TABLE IF NOT EXISTS entries (
			seq INTEGER PRIMARY KEY,
			key TEXT NOT NULL,
			type TEXT NOT NULL,
			year TEXT,
			authors_json TEXT NOT NULL,
			first_author TEXT,
			title TEXT,
			doi TEXT,
			journal TEXT,
			publisher TEXT,
			abstract TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_entries_type ON entries(type);

		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			seq UNINDEXED,
			title,
			abstract,
			authors_text
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromRecords clears the index and repopulates it in record order.
func (d *DB) RebuildFromRecords(records []Record) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return 0, fmt.Errorf("clearing entries table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM entries_fts"); err != nil {
		return 0, fmt.Errorf("clearing entries_fts table: %w", err)
	}

	entryStmt, err := tx.Prepare(`
		INSERT INTO entries (
			seq, key, type, year, authors_json, first_author,
			title, doi, journal, publisher, abstract
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing entries insert: %w", err)
	}
	defer entryStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO entries_fts (seq, title, abstract, authors_text)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, r := range records {
		authors := r.Authors
		if authors == nil {
			authors = []string{}
		}
		authorsJSON, err := json.Marshal(authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for %s: %w", r.Key, err)
		}

		seq := i + 1
		_, err = entryStmt.Exec(
			seq, r.Key, r.Type, nullableStringValue(r.Year), string(authorsJSON),
			nullableStringValue(r.FirstAuthor), nullableStringValue(r.Title),
			nullableStringValue(r.DOI), nullableStringValue(r.Journal),
			nullableStringValue(r.Publisher), nullableStringValue(r.Abstract),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting entry %s: %w", r.Key, err)
		}

		_, err = ftsStmt.Exec(seq, r.Title, r.Abstract, strings.Join(r.Authors, ", "))
		if err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", r.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(records), nil
}

// RebuildFromJSONL clears the index and rebuilds it from a records JSONL file.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	records, err := ReadRecords(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}
	return d.RebuildFromRecords(records)
}

// Count returns the total number of indexed entries.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count)
	return count, err
}

// rankColumn counts the non-empty values of column, most common first.
// Ties keep the order in which values were first seen. n <= 0 means no limit.
func (d *DB) rankColumn(column string, n int) ([]Count, error) {
	query := `SELECT ` + column + `, COUNT(*) AS c, MIN(seq) AS first
		FROM entries
		WHERE ` + column + ` IS NOT NULL AND ` + column + ` != ''
		GROUP BY ` + column + `
		ORDER BY c DESC, first ASC`
	var args []interface{}
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("ranking %s: %w", column, err)
	}
	defer rows.Close()

	counts := []Count{}
	for rows.Next() {
		var c Count
		var first int
		if err := rows.Scan(&c.Value, &c.N, &first); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// TopFirstAuthors returns the n most frequent first authors.
func (d *DB) TopFirstAuthors(n int) ([]Count, error) {
	return d.rankColumn("first_author", n)
}

// TopJournals returns the n most frequent journals.
func (d *DB) TopJournals(n int) ([]Count, error) {
	return d.rankColumn("journal", n)
}

// TopPublishers returns the n most frequent publishers.
func (d *DB) TopPublishers(n int) ([]Count, error) {
	return d.rankColumn("publisher", n)
}

// TypeCounts returns entry counts per type in first-seen order.
func (d *DB) TypeCounts() ([]Count, error) {
	rows, err := d.db.Query(`
		SELECT type, COUNT(*), MIN(seq) AS first
		FROM entries
		GROUP BY type
		ORDER BY first ASC`)
	if err != nil {
		return nil, fmt.Errorf("counting types: %w", err)
	}
	defer rows.Close()

	counts := []Count{}
	for rows.Next() {
		var c Count
		var first int
		if err := rows.Scan(&c.Value, &c.N, &first); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// YearsByType returns, per entry type in first-seen order, the number of
// entries per publication year in ascending year order. Entries without a
// year are not counted.
func (d *DB) YearsByType() ([]TypeYears, error) {
	rows, err := d.db.Query(`
		SELECT e.type, e.year, COUNT(*)
		FROM entries e
		JOIN (SELECT type, MIN(seq) AS first FROM entries GROUP BY type) t
			ON t.type = e.type
		WHERE e.year IS NOT NULL AND e.year != ''
		GROUP BY e.type, e.year
		ORDER BY t.first ASC, e.year ASC`)
	if err != nil {
		return nil, fmt.Errorf("counting years by type: %w", err)
	}
	defer rows.Close()

	result := []TypeYears{}
	for rows.Next() {
		var typ string
		var c Count
		if err := rows.Scan(&typ, &c.Value, &c.N); err != nil {
			return nil, err
		}
		if len(result) == 0 || result[len(result)-1].Type != typ {
			result = append(result, TypeYears{Type: typ})
		}
		last := &result[len(result)-1]
		last.Years = append(last.Years, c)
	}
	return result, rows.Err()
}

// Search performs a full-text search over titles, abstracts, and authors.
// A limit <= 0 returns every match.
func (d *DB) Search(query string, limit int) ([]Record, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return []Record{}, nil
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := d.db.Query(`
		SELECT `+selectEntryFields+`
		FROM entries
		WHERE seq IN (SELECT seq FROM entries_fts WHERE entries_fts MATCH ?)
		ORDER BY seq
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*Record, error) {
	var r Record
	var authorsJSON string
	var year, firstAuthor, title, doi, journal, publisher, abstract sql.NullString

	err := s.Scan(
		&r.Key, &r.Type, &year, &authorsJSON, &firstAuthor,
		&title, &doi, &journal, &publisher, &abstract,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	r.Year = year.String
	r.FirstAuthor = firstAuthor.String
	r.Title = title.String
	r.DOI = doi.String
	r.Journal = journal.String
	r.Publisher = publisher.String
	r.Abstract = abstract.String

	if err := json.Unmarshal([]byte(authorsJSON), &r.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors JSON for %s: %w", r.Key, err)
	}
	if len(r.Authors) == 0 {
		r.Authors = nil
	}

	return &r, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	records := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if r != nil {
			records = append(records, *r)
		}
	}
	return records, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// FTS5 uses double quotes for phrase matching
	if strings.ContainsAny(query, "\"*+-:(){}[]^~.,/") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
