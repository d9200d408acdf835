// Package bibtex parses the subset of BibTeX produced by academic database exports.
//
// Supported grammar:
//
//	entry := '@' type '{' key ',' field (',' field)* [','] '}'
//	field := name ws* '=' ws* value
//	value := '{' balanced-text '}' | '"' text '"' | bare-token
//
// Entries are split on the '@type{' anchor at the start of a line, not on
// brace balance. String macros, concatenation with '#', and escaped quotes
// are not interpreted.
package bibtex

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// MaxLineCapacity is the maximum buffer size for a single line of a .bib file.
const MaxLineCapacity = 1024 * 1024

// entryStartRegex matches the start of an entry: @type{
var entryStartRegex = regexp.MustCompile(`^\s*@\w+\s*\{`)

// IsEntryStart reports whether a line opens a new entry.
func IsEntryStart(line string) bool {
	return entryStartRegex.MatchString(line)
}

// Splitter reads entry blocks one at a time from a reader.
// Use it like bufio.Scanner:
//
//	s := NewSplitter(r)
//	for s.Next() {
//		block := s.Block()
//	}
//	if err := s.Err(); err != nil { ... }
type Splitter struct {
	scanner *bufio.Scanner
	current []string
	pending string // start line of the next entry, already consumed
	block   string
	done    bool
}

// NewSplitter creates a Splitter over r.
func NewSplitter(r io.Reader) *Splitter {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MaxLineCapacity)
	return &Splitter{scanner: scanner}
}

// Next advances to the next entry block. It returns false at end of input
// or on a read error.
func (s *Splitter) Next() bool {
	if s.done {
		return false
	}

	if s.pending != "" {
		s.current = []string{s.pending}
		s.pending = ""
	}

	for s.scanner.Scan() {
		line := s.scanner.Text()
		if IsEntryStart(line) {
			if len(s.current) > 0 {
				if block := joinBlock(s.current); block != "" {
					s.pending = line
					s.current = nil
					s.block = block
					return true
				}
			}
			s.current = []string{line}
			continue
		}
		// Anything before the first entry is preamble and dropped
		if len(s.current) > 0 {
			s.current = append(s.current, line)
		}
	}

	s.done = true
	if len(s.current) > 0 {
		block := joinBlock(s.current)
		s.current = nil
		if block != "" {
			s.block = block
			return true
		}
	}
	return false
}

// Block returns the most recent block produced by Next.
func (s *Splitter) Block() string {
	return s.block
}

// Err returns the first non-EOF error encountered while reading.
func (s *Splitter) Err() error {
	return s.scanner.Err()
}

// Split splits raw .bib content into entry blocks, each starting with '@'.
func Split(content string) []string {
	var blocks []string
	s := NewSplitter(strings.NewReader(content))
	for s.Next() {
		blocks = append(blocks, s.Block())
	}
	// Reading from a strings.Reader only fails on lines over MaxLineCapacity;
	// whatever was split before that point is still returned.
	return blocks
}

// joinBlock joins the lines of one entry, dropping leading indentation
// before the '@' and trailing whitespace.
func joinBlock(lines []string) string {
	block := strings.Join(lines, "\n")
	block = strings.TrimLeft(block, " \t")
	return strings.TrimRightFunc(block, isSpace)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
