// Package extract turns tagged "///" comment blocks in a C or C++ header into
// Markdown.
//
// A block opens with "/// @brief", collects "/// @param", "/// @return" and
// plain "///" lines, and closes either at "/// @end" or at the first code line
// holding a terminator (";", "{" or ")"). The code lines seen before the close
// are rendered as the entity's signature. A class or struct opener renders as
// a heading and stays on the scanner's scope stack until its "};".
package extract

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Scanner is a single forward pass over the lines of one header. It is not
// safe for concurrent use; create one per input.
type Scanner struct {
	w      io.Writer
	log    logrus.FieldLogger
	render renderer
	strict bool

	current *Entity
	scopes  []*Entity
	line    int
	emitted int
	title   string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger used for debug tracing.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Scanner) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStrict makes Finish fail when an entity or scope is still open.
func WithStrict(strict bool) Option {
	return func(s *Scanner) { s.strict = strict }
}

// WithWrapWidth sets the body paragraph wrap column. Zero or less disables
// wrapping.
func WithWrapWidth(width int) Option {
	return func(s *Scanner) { s.render.wrapWidth = width }
}

// WithCodeLanguage sets the info string of rendered code fences.
func WithCodeLanguage(lang string) Option {
	return func(s *Scanner) { s.render.language = lang }
}

// NewScanner returns a Scanner writing Markdown to w.
func NewScanner(w io.Writer, opts ...Option) *Scanner {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	s := &Scanner{
		w:      w,
		log:    discard,
		render: renderer{wrapWidth: DefaultWrapWidth, language: DefaultCodeLanguage},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Depth is the number of class-like scopes still open.
func (s *Scanner) Depth() int { return len(s.scopes) }

// Open reports whether an entity is accumulating lines.
func (s *Scanner) Open() bool { return s.current != nil }

// Emitted is the number of entities rendered so far.
func (s *Scanner) Emitted() int { return s.emitted }

// Title is the brief of the first entity rendered without code, the
// document title by convention.
func (s *Scanner) Title() string { return s.title }

// Feed processes one raw input line.
func (s *Scanner) Feed(raw string) error {
	s.line++
	line := strings.TrimSpace(raw)
	switch Classify(line) {
	case LineBrief:
		if s.current != nil {
			return lineError(KindProtocolViolation, s.line, line)
		}
		s.current = &Entity{}
		s.current.RecordBrief(line)
		s.log.WithField("line", s.line).Debug("entity opened")
		return nil
	case LineParam:
		if s.current == nil {
			return lineError(KindProtocolViolation, s.line, line)
		}
		s.current.RecordParam(line)
		return nil
	case LineReturn:
		if s.current == nil {
			return lineError(KindProtocolViolation, s.line, line)
		}
		s.current.RecordReturn(line)
		return nil
	case LineEnd:
		if s.current != nil {
			return s.emit()
		}
		return nil
	case LineBody:
		if s.current != nil {
			s.current.RecordBody(line)
		}
		return nil
	case LineScopeClose:
		return s.pop(line)
	case LineBlank:
		return nil
	}

	if s.current == nil {
		return nil
	}
	if s.current.RecordCode(line) {
		s.scopes = append(s.scopes, s.current)
		s.log.WithFields(logrus.Fields{
			"line":  s.line,
			"scope": s.current.Heading(),
			"depth": len(s.scopes),
		}).Debug("scope pushed")
		// The heading is written now; the entity lives on only as a scope.
		return s.emit()
	}
	if HasTerminator(line) {
		return s.emit()
	}
	return nil
}

// Finish ends the input. In strict mode leftovers are an error; otherwise an
// open entity is flushed and open scopes are only logged.
func (s *Scanner) Finish() error {
	if s.strict {
		switch {
		case s.current != nil:
			return lineError(KindUnexpectedEOF, s.line, "entity still open: "+s.current.Brief)
		case len(s.scopes) > 0:
			return lineError(KindUnexpectedEOF, s.line, "scope still open: "+s.scopes[len(s.scopes)-1].Heading())
		}
		return nil
	}
	if len(s.scopes) > 0 {
		s.log.WithField("depth", len(s.scopes)).Warn("input ended with open class scopes")
	}
	if s.current != nil {
		s.log.WithField("brief", s.current.Brief).Warn("input ended inside a documented block; flushing it")
		return s.emit()
	}
	return nil
}

// Scan feeds every line of r and then calls Finish. ctx is checked between
// lines.
func (s *Scanner) Scan(ctx context.Context, r io.Reader) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Feed(sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return s.Finish()
}

func (s *Scanner) emit() error {
	e := s.current
	s.current = nil
	if !e.HasCode() && s.title == "" {
		s.title = e.Brief
	}
	s.emitted++
	s.log.WithFields(logrus.Fields{
		"line":  s.line,
		"brief": e.Brief,
		"code":  len(e.CodeLines),
	}).Debug("entity emitted")
	return s.render.render(s.w, e)
}

func (s *Scanner) pop(line string) error {
	if len(s.scopes) == 0 {
		return lineError(KindUnbalancedScope, s.line, line)
	}
	top := s.scopes[len(s.scopes)-1]
	s.scopes[len(s.scopes)-1] = nil
	s.scopes = s.scopes[:len(s.scopes)-1]
	s.log.WithFields(logrus.Fields{
		"line":  s.line,
		"scope": top.Heading(),
		"depth": len(s.scopes),
	}).Debug("scope popped")
	return nil
}

// Summary describes one extracted document.
type Summary struct {
	Title    string
	Entities int
}

// Extract scans r to completion and returns the Markdown document. Nothing
// is returned on error, so a malformed block never yields partial output.
func Extract(ctx context.Context, r io.Reader, opts ...Option) ([]byte, Summary, error) {
	var buf bytes.Buffer
	s := NewScanner(&buf, opts...)
	if err := s.Scan(ctx, r); err != nil {
		return nil, Summary{}, err
	}
	return buf.Bytes(), Summary{Title: s.Title(), Entities: s.Emitted()}, nil
}
