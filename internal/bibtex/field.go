package bibtex

import (
	"strings"
	"unicode"
)

// fieldScanner walks the body of a single entry.
type fieldScanner struct {
	s   string
	pos int
}

// ExtractField returns the value of the first occurrence of fieldName in an
// entry block. The name match is case-insensitive. Braces or quotes around
// the value are stripped; embedded newlines are kept.
func ExtractField(entry, fieldName string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(fieldName))
	if want == "" {
		return "", false
	}
	var (
		value string
		found bool
	)
	scanFields(entry, func(name, v string) bool {
		if name == want {
			value, found = v, true
			return false
		}
		return true
	})
	return value, found
}

// scanFields calls fn for every field in the entry, in order, until fn
// returns false. Names are lowercased.
func scanFields(entry string, fn func(name, value string) bool) {
	body := entryBody(entry)
	if body == "" {
		return
	}
	fs := &fieldScanner{s: body}
	for {
		name, value, ok := fs.next()
		if !ok {
			return
		}
		if !fn(name, value) {
			return
		}
	}
}

// entryBody returns the text after "@type{key," or "" if the header is malformed.
func entryBody(entry string) string {
	open := strings.IndexByte(entry, '{')
	if open < 0 {
		return ""
	}
	rest := entry[open+1:]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return ""
	}
	// A key never spans an '=' sign; if one comes first, the key is missing
	// and the body starts right after the brace.
	if eq := strings.IndexByte(rest, '='); eq >= 0 && eq < comma {
		return rest
	}
	return rest[comma+1:]
}

// next reads the next name = value pair. Malformed lines are skipped.
func (fs *fieldScanner) next() (string, string, bool) {
	for {
		fs.skipSeparators()
		if fs.pos >= len(fs.s) || fs.s[fs.pos] == '}' {
			return "", "", false
		}

		name := fs.readName()
		if name == "" {
			fs.skipLine()
			continue
		}
		fs.skipSpace()
		if fs.pos >= len(fs.s) || fs.s[fs.pos] != '=' {
			fs.skipLine()
			continue
		}
		fs.pos++
		fs.skipSpace()

		value, ok := fs.readValue()
		if !ok {
			return "", "", false
		}
		return strings.ToLower(name), value, true
	}
}

func (fs *fieldScanner) skipSeparators() {
	for fs.pos < len(fs.s) {
		c := fs.s[fs.pos]
		if c == ',' || isSpaceByte(c) {
			fs.pos++
			continue
		}
		return
	}
}

func (fs *fieldScanner) skipSpace() {
	for fs.pos < len(fs.s) && isSpaceByte(fs.s[fs.pos]) {
		fs.pos++
	}
}

func (fs *fieldScanner) skipLine() {
	if i := strings.IndexByte(fs.s[fs.pos:], '\n'); i >= 0 {
		fs.pos += i + 1
		return
	}
	fs.pos = len(fs.s)
}

func (fs *fieldScanner) readName() string {
	start := fs.pos
	for fs.pos < len(fs.s) {
		r := rune(fs.s[fs.pos])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == ':' {
			fs.pos++
			continue
		}
		break
	}
	return fs.s[start:fs.pos]
}

// readValue reads a braced, quoted, or bare value. Braced values are
// balanced so "{The {GPU} era}" yields "The {GPU} era". A stray "{" in a
// value would otherwise swallow the fields after it, so when the balanced
// value runs off the body or spans a "name =" line, it ends at the first
// "}" instead. A value with no closing brace at all reports false.
func (fs *fieldScanner) readValue() (string, bool) {
	if fs.pos >= len(fs.s) {
		return "", false
	}
	switch fs.s[fs.pos] {
	case '{':
		depth := 0
		start := fs.pos + 1
		firstClose := -1
		for i := fs.pos; i < len(fs.s); i++ {
			switch fs.s[i] {
			case '{':
				depth++
			case '}':
				if firstClose < 0 {
					firstClose = i
				}
				depth--
				if depth == 0 {
					if i != firstClose && spansFieldLine(fs.s[start:i]) {
						i = firstClose
					}
					fs.pos = i + 1
					return strings.TrimSpace(fs.s[start:i]), true
				}
			}
		}
		if firstClose < 0 {
			return "", false
		}
		fs.pos = firstClose + 1
		return strings.TrimSpace(fs.s[start:firstClose]), true
	case '"':
		start := fs.pos + 1
		end := strings.IndexByte(fs.s[start:], '"')
		if end < 0 {
			return "", false
		}
		fs.pos = start + end + 1
		return strings.TrimSpace(fs.s[start : start+end]), true
	default:
		start := fs.pos
		for fs.pos < len(fs.s) {
			c := fs.s[fs.pos]
			if c == ',' || c == '}' || c == '\n' {
				break
			}
			fs.pos++
		}
		return strings.TrimSpace(fs.s[start:fs.pos]), true
	}
}

// spansFieldLine reports whether v contains a line that starts like a
// field assignment, such as "\n  doi = ".
func spansFieldLine(v string) bool {
	for {
		nl := strings.IndexByte(v, '\n')
		if nl < 0 {
			return false
		}
		v = v[nl+1:]
		line := strings.TrimLeft(v, " \t")
		if line == "" || !unicode.IsLetter(rune(line[0])) {
			continue
		}
		fs := &fieldScanner{s: line}
		fs.readName()
		fs.skipSpace()
		if fs.pos < len(fs.s) && fs.s[fs.pos] == '=' {
			return true
		}
	}
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// CleanAbstract prepares an abstract for keyword and similarity analysis:
// embedded newlines become single spaces and the text is lowercased.
func CleanAbstract(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ToLower(strings.TrimSpace(s))
}
