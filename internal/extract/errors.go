package extract

import (
	"errors"
	"fmt"
)

// Kind classifies an extraction failure.
type Kind string

const (
	// KindProtocolViolation reports tags used out of order: a brief while an
	// entity is open, or a param/return with nothing open.
	KindProtocolViolation Kind = "protocol violation"
	// KindUnbalancedScope reports a scope close with no open class or struct.
	KindUnbalancedScope Kind = "unbalanced scope"
	// KindUnexpectedEOF reports an entity or scope still open at end of
	// input. Only raised in strict mode.
	KindUnexpectedEOF Kind = "unexpected end of input"
	// KindFileAccess reports an input or output file that could not be used.
	KindFileAccess Kind = "file access"
)

var (
	ErrProtocolViolation = &Error{Kind: KindProtocolViolation}
	ErrUnbalancedScope   = &Error{Kind: KindUnbalancedScope}
	ErrUnexpectedEOF     = &Error{Kind: KindUnexpectedEOF}
	ErrFileAccess        = &Error{Kind: KindFileAccess}
)

// Error is the structured error returned by the scanner and the file helpers.
type Error struct {
	Kind Kind
	// Line is the 1-based input line, zero when not tied to a line.
	Line int
	// Text is the offending trimmed line.
	Text string
	// Path and Op describe file access failures.
	Path string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindFileAccess:
		if e.Err != nil {
			return fmt.Sprintf("unable to open %q for %s: %v", e.Path, e.Op, e.Err)
		}
		return fmt.Sprintf("unable to open %q for %s", e.Path, e.Op)
	case e.Line > 0 && e.Text != "":
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Kind, e.Text)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the package sentinels work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// FileError wraps an OS error raised while opening path for op ("reading"
// or "writing").
func FileError(path, op string, err error) error {
	return &Error{Kind: KindFileAccess, Path: path, Op: op, Err: err}
}

func lineError(kind Kind, line int, text string) error {
	return &Error{Kind: kind, Line: line, Text: text}
}

// Exit codes returned by ExitCode.
const (
	ExitGeneral   = 1
	ExitUsage     = 2
	ExitMalformed = 3
	ExitFile      = 4
)

// ExitCode maps err to a process exit status. Nil maps to zero.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if !errors.As(err, &e) {
		return ExitGeneral
	}
	switch e.Kind {
	case KindProtocolViolation, KindUnbalancedScope, KindUnexpectedEOF:
		return ExitMalformed
	case KindFileAccess:
		return ExitFile
	default:
		return ExitGeneral
	}
}
