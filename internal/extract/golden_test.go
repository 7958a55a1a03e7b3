package extract

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/tools/txtar"
)

// goldenCase is one txtar archive holding input.h and the expected output.md.
type goldenCase struct {
	name   string
	input  []byte
	output []byte
}

func loadGoldenCases(t *testing.T) []goldenCase {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	var cases []goldenCase
	for _, path := range paths {
		ar, err := txtar.ParseFile(path)
		require.NoError(t, err)
		c := goldenCase{name: strings.TrimSuffix(filepath.Base(path), ".txtar")}
		for _, f := range ar.Files {
			switch f.Name {
			case "input.h":
				c.input = f.Data
			case "output.md":
				c.output = f.Data
			}
		}
		require.NotNil(t, c.input, "%s: missing input.h", path)
		require.NotNil(t, c.output, "%s: missing output.md", path)
		cases = append(cases, c)
	}
	return cases
}

func TestGolden(t *testing.T) {
	for _, c := range loadGoldenCases(t) {
		t.Run(c.name, func(t *testing.T) {
			got, _, err := Extract(context.Background(), bytes.NewReader(c.input), WithStrict(true))
			require.NoError(t, err)
			if !bytes.Equal(got, c.output) {
				diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
					A:        difflib.SplitLines(string(c.output)),
					B:        difflib.SplitLines(string(got)),
					FromFile: "want",
					ToFile:   "got",
					Context:  3,
				})
				t.Fatalf("output mismatch:\n%s", diff)
			}
		})
	}
}

// markdownOutline lists the headings and code fence languages of a rendered
// document as goldmark parses it.
type markdownOutline struct {
	headings []string
	fences   []string
	rules    int
}

func outline(src []byte) markdownOutline {
	root := goldmark.New().Parser().Parse(text.NewReader(src))
	var o markdownOutline
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			o.headings = append(o.headings, strings.Repeat("#", node.Level)+" "+inlineText(node, src))
		case *gmast.FencedCodeBlock:
			o.fences = append(o.fences, string(node.Language(src)))
		case *gmast.ThematicBreak:
			o.rules++
		}
		return gmast.WalkContinue, nil
	})
	return o
}

func inlineText(n gmast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimSpace(b.String())
}

func TestGoldenMarkdownStructure(t *testing.T) {
	cases := map[string]markdownOutline{}
	for _, c := range loadGoldenCases(t) {
		cases[c.name] = outline(c.output)
	}

	basic := cases["basic"]
	assert.Equal(t, []string{"# Geometry helpers.", "## class Point"}, basic.headings)
	assert.Equal(t, []string{"c", "c", "c"}, basic.fences)
	assert.Equal(t, 5, basic.rules)

	nested := cases["nested"]
	assert.Equal(t, []string{
		"# Command tree.",
		"## struct cmd_help_t : public cmd_t",
		"## struct cmd_help_tree_t : public cmd_t",
	}, nested.headings)
	assert.Len(t, nested.fences, 2)

	wrap := cases["wrap"]
	assert.Empty(t, wrap.headings)
	assert.Len(t, wrap.fences, 2)
}

func TestGoldenNestedDepth(t *testing.T) {
	for _, c := range loadGoldenCases(t) {
		if c.name != "nested" {
			continue
		}
		s := NewScanner(&bytes.Buffer{})
		maxDepth := 0
		for _, line := range strings.Split(string(c.input), "\n") {
			require.NoError(t, s.Feed(line))
			if d := s.Depth(); d > maxDepth {
				maxDepth = d
			}
		}
		assert.Equal(t, 2, maxDepth)
		assert.Zero(t, s.Depth())
	}
}
