package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// Section markers written before each entity.
const (
	RuleSection = "----"
	RuleCode    = "****"
)

const (
	DefaultWrapWidth    = 80
	DefaultCodeLanguage = "c"
)

type renderer struct {
	wrapWidth int
	language  string
}

// Render writes e as a Markdown fragment using the default layout.
func (e *Entity) Render(w io.Writer) error {
	r := renderer{wrapWidth: DefaultWrapWidth, language: DefaultCodeLanguage}
	return r.render(w, e)
}

func (r renderer) render(w io.Writer, e *Entity) error {
	var buf bytes.Buffer
	switch {
	case e.ClassLike:
		fmt.Fprintln(&buf, RuleSection)
		fmt.Fprintf(&buf, "## %s\n\n", e.Heading())
	case e.HasCode():
		fmt.Fprintln(&buf, RuleCode)
		r.writeCodeBlock(&buf, e.CodeLines)
	default:
		fmt.Fprintln(&buf, RuleSection)
		// The brief that follows becomes the document title.
		buf.WriteString("# ")
	}
	if e.Brief != "" {
		fmt.Fprintf(&buf, "%s\n\n", e.Brief)
	}
	if len(e.Params) > 0 {
		fmt.Fprintln(&buf, "Params:")
		for _, p := range e.Params {
			fmt.Fprintln(&buf, bulletLine(p))
		}
		fmt.Fprintln(&buf)
	}
	if e.Return != "" {
		fmt.Fprintln(&buf, "Return:")
		fmt.Fprintln(&buf, bulletLine(e.Return))
		fmt.Fprintln(&buf)
	}
	if lines := wrapBody(e.BodyLines, r.wrapWidth); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintln(&buf, line)
		}
		fmt.Fprintln(&buf)
	}
	fmt.Fprintln(&buf)
	_, err := w.Write(buf.Bytes())
	return err
}

func (r renderer) writeCodeBlock(w io.Writer, code []string) {
	fmt.Fprintf(w, "```%s\n%s\n```\n\n", r.language, strings.Join(code, "\n"))
}

func bulletLine(text string) string {
	return "- " + text
}

// wrapBody joins body lines into one paragraph and wraps it at width
// columns on word boundaries. Words longer than width stay whole.
func wrapBody(lines []string, width int) []string {
	text := strings.Join(strings.Fields(strings.Join(lines, " ")), " ")
	if text == "" {
		return nil
	}
	if width <= 0 {
		return []string{text}
	}
	return strings.Split(wordwrap.WrapString(text, uint(width)), "\n")
}
