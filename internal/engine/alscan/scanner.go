// # internal/engine/alscan/scanner.go
package alscan

import (
	"regexp"
	"strconv"
	"strings"
)

// Scanner extracts object declarations from one unit of source text. It is
// stateless: a single instance is safe for concurrent use across units.
type Scanner struct{}

// New returns a Scanner.
func New() *Scanner { return &Scanner{} }

var (
	// <kind> <id> <name>, anchored at line start. The kind token is matched
	// loosely here and validated against the closed set afterwards.
	headerRe = regexp.MustCompile(`^\s*([A-Za-z]+)\s+(\d+)\s+("[^"]+"|[A-Za-z_][A-Za-z0-9_]*)`)

	// extends <name>, searched anywhere on a header line of an extension kind.
	extendsRe = regexp.MustCompile(`(?i)\bextends\s+("[^"]+"|[A-Za-z_][A-Za-z0-9_]*)`)

	// "fields {" on one line, or "fields" alone with the brace on a later line.
	fieldsOpenRe = regexp.MustCompile(`(?i)^\s*fields\s*(\{|$)`)

	// field(<id>; <name>; <type-text>)
	fieldRe = regexp.MustCompile(`(?i)^\s*field\s*\(\s*(\d+)\s*;\s*("[^"]+"|[A-Za-z_][A-Za-z0-9_]*)\s*;\s*([^)]+)\)`)

	// value(<id>; <name>)
	valueRe = regexp.MustCompile(`(?i)^\s*value\s*\(\s*(\d+)\s*;\s*("[^"]+"|[A-Za-z_][A-Za-z0-9_]*)\s*\)`)
)

// scanState is the full per-line state of a scan. It is advanced by step and
// never mutated in place, so any single transition can be inspected on its own.
type scanState struct {
	inComment bool // inside an unterminated block comment
	current   int  // index of the open declaration, -1 when none
	closed    bool // the current declaration's scope has closed
	depth     int  // brace depth of the current declaration
	inFields  bool // inside a fields sub-block
	fieldsAt  int  // brace depth recorded at fields sub-block entry
}

// Scan extracts every declaration from text. Malformed or unrecognized lines
// are skipped; Scan never fails. Line numbers are 1-based and CRLF input is
// treated exactly like LF input.
func (s *Scanner) Scan(text, unit string) []Declaration {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	decls := make([]Declaration, 0)
	st := scanState{current: -1}
	for i, line := range lines {
		st, decls = step(st, decls, line, unit, i+1)
	}
	return decls
}

// step advances the scan by one line, possibly appending a declaration or a
// child record. Comments are stripped before anything else is matched; braces
// inside stripped comments therefore never count.
func step(st scanState, decls []Declaration, line, unit string, lineNo int) (scanState, []Declaration) {
	stripped, inComment := stripComments(line, st.inComment)
	st.inComment = inComment

	if d, ok := matchHeader(stripped, unit, lineNo); ok {
		// A new declaration begins a fresh tracking context.
		decls = append(decls, d)
		st.current = len(decls) - 1
		st.depth = 0
		st.closed = false
		st.inFields = false
		st.fieldsAt = 0
		return applyBraces(st, stripped), decls
	}

	if st.current < 0 || st.closed {
		return st, decls
	}

	d := &decls[st.current]
	if d.Kind.HasFields() {
		if !st.inFields && fieldsOpenRe.MatchString(stripped) {
			st.inFields = true
			st.fieldsAt = st.depth
		}
		if st.inFields {
			if m := fieldRe.FindStringSubmatch(stripped); m != nil {
				if id, err := strconv.Atoi(m[1]); err == nil {
					d.Fields = append(d.Fields, Field{
						ID:       id,
						Name:     unquote(m[2]),
						DataType: strings.TrimSpace(m[3]),
						Location: Location{Unit: unit, Line: lineNo},
					})
				}
			}
		}
	}
	if d.Kind.HasValues() && st.depth > 0 {
		if m := valueRe.FindStringSubmatch(stripped); m != nil {
			if id, err := strconv.Atoi(m[1]); err == nil {
				d.Values = append(d.Values, Value{
					ID:       id,
					Name:     unquote(m[2]),
					Location: Location{Unit: unit, Line: lineNo},
				})
			}
		}
	}

	return applyBraces(st, stripped), decls
}

// matchHeader recognizes an object declaration header on a comment-stripped
// line. The kind comparison is case-insensitive; the stored kind is lower case.
func matchHeader(stripped, unit string, lineNo int) (Declaration, bool) {
	m := headerRe.FindStringSubmatch(stripped)
	if m == nil {
		return Declaration{}, false
	}
	kind, ok := ParseKind(m[1])
	if !ok {
		return Declaration{}, false
	}
	id, err := strconv.Atoi(m[2])
	if err != nil {
		return Declaration{}, false
	}

	d := Declaration{
		Kind:     kind,
		ID:       id,
		Name:     unquote(m[3]),
		Location: Location{Unit: unit, Line: lineNo},
	}
	if kind.IsExtension() {
		if em := extendsRe.FindStringSubmatch(stripped); em != nil {
			d.Extends = unquote(em[1])
		}
	}
	return d, true
}

// applyBraces folds the line's brace count into the declaration state. A
// declaration closes when its depth returns to <= 0 on a line that actually
// contains a closing brace; the fields sub-block ends when the depth drops
// below the depth recorded at entry.
func applyBraces(st scanState, stripped string) scanState {
	opens := strings.Count(stripped, "{")
	closes := strings.Count(stripped, "}")
	if opens == 0 && closes == 0 {
		return st
	}

	st.depth += opens - closes
	if st.inFields && st.depth < st.fieldsAt {
		st.inFields = false
	}
	if st.current >= 0 && !st.closed && closes > 0 && st.depth <= 0 {
		st.closed = true
	}
	return st
}

// stripComments removes line and block comments from one line, threading the
// open-block state across lines. A line comment marker occurring before a
// block open on the same line swallows the rest of the line, including the
// would-be block open.
func stripComments(line string, inBlock bool) (string, bool) {
	var b strings.Builder
	rest := line
	for {
		if inBlock {
			end := strings.Index(rest, "*/")
			if end < 0 {
				return b.String(), true
			}
			rest = rest[end+2:]
			inBlock = false
			continue
		}

		lineIdx := strings.Index(rest, "//")
		blockIdx := strings.Index(rest, "/*")
		if lineIdx >= 0 && (blockIdx < 0 || lineIdx < blockIdx) {
			b.WriteString(rest[:lineIdx])
			return b.String(), false
		}
		if blockIdx < 0 {
			b.WriteString(rest)
			return b.String(), false
		}
		b.WriteString(rest[:blockIdx])
		rest = rest[blockIdx+2:]
		inBlock = true
	}
}

func unquote(name string) string {
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		return name[1 : len(name)-1]
	}
	return name
}
