package extract

import (
	"strings"
	"unicode"
)

// Entity accumulates the tagged comment lines and code lines of one
// documented unit: a function, a class or struct, or a bare comment block.
type Entity struct {
	Brief     string
	Params    []string
	Return    string
	BodyLines []string
	CodeLines []string
	ClassLike bool
}

// classKeywords open a documented class-like scope.
var classKeywords = []string{"class", "struct"}

// RecordBrief sets the brief from a "/// @brief" line. A second call
// overwrites the first.
func (e *Entity) RecordBrief(line string) {
	e.Brief = stripTag(line, TagBrief)
}

// RecordParam appends a parameter description from a "/// @param" line.
func (e *Entity) RecordParam(line string) {
	e.Params = append(e.Params, stripTag(line, TagParam))
}

// RecordReturn sets the return description from a "/// @return" line.
func (e *Entity) RecordReturn(line string) {
	e.Return = stripTag(line, TagReturn)
}

// RecordBody appends a free text line from a generic "///" line.
func (e *Entity) RecordBody(line string) {
	e.BodyLines = append(e.BodyLines, stripTag(line, TagComment))
}

// RecordCode appends a code line, cut at its first statement end or block
// open. It reports whether this line made the entity class-like, in which
// case the caller owns pushing it onto its scope stack. Any line can open
// the scope, so a template prefix keeps its class; the heading stays the
// first code line.
//
// Blank lines are not recorded.
func (e *Entity) RecordCode(line string) (opened bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !e.ClassLike && opensScope(line) {
		e.ClassLike = true
		opened = true
	}
	e.CodeLines = append(e.CodeLines, trimCode(line))
	return opened
}

// HasCode reports whether any code line has been recorded.
func (e *Entity) HasCode() bool {
	return len(e.CodeLines) > 0
}

// Heading is the class-like declaration used as a level-2 heading.
func (e *Entity) Heading() string {
	if len(e.CodeLines) == 0 {
		return ""
	}
	return e.CodeLines[0]
}

func stripTag(line, tag string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, tag)
	return strings.TrimSpace(line)
}

// opensScope reports whether line declares a class or struct body rather
// than forward-declaring one.
func opensScope(line string) bool {
	if HasStatementEnd(line) {
		return false
	}
	for _, kw := range classKeywords {
		if !strings.HasPrefix(line, kw) {
			continue
		}
		rest := line[len(kw):]
		if rest == "" {
			return true
		}
		r := rune(rest[0])
		if unicode.IsSpace(r) || r == ':' || r == BlockOpen {
			return true
		}
	}
	return false
}

func trimCode(line string) string {
	if idx := strings.IndexAny(line, truncators); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimRight(line, truncators+" \t\r\n")
}
