package extract

import "strings"

// Tag prefixes recognised on a trimmed line.
const (
	TagBrief   = "/// @brief"
	TagParam   = "/// @param"
	TagReturn  = "/// @return"
	TagEnd     = "/// @end"
	TagComment = "///"

	scopeClose = "};"
)

// LineKind is the result of classifying one trimmed input line.
type LineKind int

const (
	LineCode LineKind = iota
	LineBrief
	LineParam
	LineReturn
	LineEnd
	LineBody
	LineScopeClose
	LineBlank
)

var lineKindNames = [...]string{
	LineCode:       "code",
	LineBrief:      "brief",
	LineParam:      "param",
	LineReturn:     "return",
	LineEnd:        "end",
	LineBody:       "body",
	LineScopeClose: "scope-close",
	LineBlank:      "blank",
}

func (k LineKind) String() string {
	if k < 0 || int(k) >= len(lineKindNames) {
		return "unknown"
	}
	return lineKindNames[k]
}

// Classify reports what a whitespace-trimmed line is. It does not look at
// scanner state: End and Body are returned whether or not an entity is open,
// and the scanner decides what they mean.
func Classify(line string) LineKind {
	switch {
	case line == "":
		return LineBlank
	case strings.HasPrefix(line, TagBrief):
		return LineBrief
	case strings.HasPrefix(line, TagParam):
		return LineParam
	case strings.HasPrefix(line, TagReturn):
		return LineReturn
	case strings.HasPrefix(line, TagEnd):
		return LineEnd
	case strings.HasPrefix(line, TagComment):
		return LineBody
	case IsScopeClose(line):
		return LineScopeClose
	default:
		return LineCode
	}
}

// IsScopeClose reports whether line closes a class or struct body: "};",
// optionally followed by a line comment.
func IsScopeClose(line string) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, scopeClose) {
		return false
	}
	rest := strings.TrimSpace(line[len(scopeClose):])
	return rest == "" || strings.HasPrefix(rest, "//")
}

// Terminator characters end a documented code fragment.
const (
	StatementEnd = ';'
	BlockOpen    = '{'
	CloseParen   = ')'
)

// terminators is the full terminator set.
const terminators = string(StatementEnd) + string(BlockOpen) + string(CloseParen)

// truncators are the terminators a code line is cut at. A close paren ends a
// fragment but belongs to the signature, so it is kept.
const truncators = string(StatementEnd) + string(BlockOpen)

// IsTerminator reports whether r is one of the terminator characters.
func IsTerminator(r rune) bool {
	return strings.ContainsRune(terminators, r)
}

// HasTerminator reports whether s contains any terminator character.
func HasTerminator(s string) bool {
	return strings.ContainsAny(s, terminators)
}

// HasStatementEnd reports whether s contains a statement end. A class or
// struct line with one is a forward declaration, not a block opener.
func HasStatementEnd(s string) bool {
	return strings.ContainsRune(s, StatementEnd)
}
