package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/agentflare-ai/hdrdoc/internal/config"
	"github.com/agentflare-ai/hdrdoc/internal/extract"
)

type options struct {
	configPath string
}

type cliApp struct {
	stdout io.Writer
	stderr io.Writer
	opts   options
	cfg    *config.Config
	log    *logrus.Logger
}

func run(argv []string, stdout io.Writer) error {
	return runContext(context.Background(), argv, stdout, io.Discard)
}

func runContext(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
	if argv == nil {
		// cobra falls back to os.Args when given nil.
		argv = []string{}
	}
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(normalizeLegacyArgs(argv))
	return cmd.ExecuteContext(ctx)
}

func (app *cliApp) execute(ctx context.Context, input, output string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if app.cfg == nil {
		app.cfg = config.Default()
	}
	if app.log == nil {
		app.log = newLogger(app.stderr, app.cfg.Verbose)
	}
	if app.cfg.Watch {
		return app.watch(ctx, input, output)
	}
	return app.generate(ctx, input, output)
}

// generate documents input once: a single header, or every header under a
// directory.
func (app *cliApp) generate(ctx context.Context, input, output string) error {
	info, err := os.Stat(input)
	if err != nil {
		return extract.FileError(input, "reading", err)
	}
	if info.IsDir() {
		return app.documentHeaderTree(ctx, input, output)
	}
	md, _, err := app.extractFile(ctx, input)
	if err != nil {
		return err
	}
	if wantsDirectoryOutput(output) {
		output = filepath.Join(output, markdownName(filepath.Base(input)))
	}
	if err := writeOutput(output, app.stdout, md); err != nil {
		return err
	}
	app.log.WithFields(logrus.Fields{"input": input, "output": output}).Debug("documentation written")
	return nil
}

func (app *cliApp) extractFile(ctx context.Context, path string) ([]byte, extract.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, extract.Summary{}, extract.FileError(path, "reading", err)
	}
	defer f.Close()
	md, sum, err := extract.Extract(ctx, f, app.scanOptions(path)...)
	if err != nil {
		return nil, extract.Summary{}, fmt.Errorf("%s: %w", path, err)
	}
	return md, sum, nil
}

func (app *cliApp) scanOptions(path string) []extract.Option {
	return []extract.Option{
		extract.WithStrict(app.cfg.Strict),
		extract.WithWrapWidth(app.cfg.WrapWidth),
		extract.WithCodeLanguage(app.cfg.CodeLanguage),
		extract.WithLogger(app.log.WithField("file", path)),
	}
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return extract.FileError(path, "writing", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return extract.FileError(path, "writing", err)
	}
	return nil
}

// markdownName swaps a header's extension for .md.
func markdownName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".md"
}

var legacyLongFlagSet = map[string]struct{}{
	"config":  {},
	"strict":  {},
	"wrap":    {},
	"lang":    {},
	"verbose": {},
	"watch":   {},
}

// normalizeLegacyArgs accepts Go-style single-dash long flags ("-strict",
// "-wrap=72") by rewriting them to their double-dash form.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	modified := false
	converted := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			converted = append(converted, args[i:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") || arg == "-" {
			converted = append(converted, arg)
			continue
		}
		if len(arg) == 2 {
			converted = append(converted, arg)
			continue
		}
		if idx := strings.Index(arg, "="); idx > 0 {
			name := arg[1:idx]
			if _, ok := legacyLongFlagSet[name]; ok {
				converted = append(converted, "--"+name+arg[idx:])
				modified = true
				continue
			}
		}
		name := arg[1:]
		if _, ok := legacyLongFlagSet[name]; ok {
			converted = append(converted, "--"+name)
			modified = true
			continue
		}
		converted = append(converted, arg)
	}
	if !modified {
		return args
	}
	return converted
}

// wantsDirectoryOutput reports whether a single header's output names a
// directory to hold <name>.md: an existing directory, or a path ending in a
// separator. Anything else is the output file itself.
func wantsDirectoryOutput(path string) bool {
	if path == "" || path == "-" {
		return false
	}
	if info, err := os.Stat(path); err == nil {
		return info.IsDir()
	}
	return strings.HasSuffix(path, string(os.PathSeparator)) || strings.HasSuffix(path, "/")
}

type treeDoc struct {
	source   string // header path relative to the input root, slash separated
	target   string // markdown path relative to the output root
	summary  string
	markdown []byte
}

type tocEntry struct {
	title   string
	link    string
	summary string
}

func (app *cliApp) documentHeaderTree(ctx context.Context, root, outDir string) error {
	if outDir == "" || outDir == "-" {
		return errors.New("directory input requires an output directory")
	}
	docs, err := app.collectHeaderDocs(ctx, root)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no headers matching %s under %q", strings.Join(app.cfg.Extensions, ", "), root)
	}
	if err := writeHeaderDocsToDir(outDir, indexTitle(root), docs); err != nil {
		return err
	}
	app.log.WithFields(logrus.Fields{"input": root, "output": outDir, "headers": len(docs)}).Debug("documentation tree written")
	return nil
}

func (app *cliApp) collectHeaderDocs(ctx context.Context, root string) ([]treeDoc, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return extract.FileError(path, "reading", err)
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if app.cfg.IsHeader(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	docs := make([]treeDoc, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil, err
		}
		rel = filepath.ToSlash(rel)
		target := markdownName(rel)
		if prev, ok := seen[target]; ok {
			return nil, fmt.Errorf("headers %s and %s both map to %s", prev, rel, target)
		}
		seen[target] = rel

		md, sum, err := app.extractFile(ctx, path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, treeDoc{
			source:   rel,
			target:   target,
			summary:  sum.Title,
			markdown: md,
		})
	}
	return docs, nil
}

func indexTitle(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Base(root)
	}
	return filepath.Base(abs)
}

func writeHeaderDocsToDir(outDir, title string, docs []treeDoc) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return extract.FileError(outDir, "writing", err)
	}
	entries := make([]tocEntry, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		path := filepath.Join(outDir, filepath.FromSlash(doc.target))
		if err := writeOutput(path, io.Discard, doc.markdown); err != nil {
			return err
		}
		entries = append(entries, tocEntry{
			title:   doc.source,
			link:    doc.target,
			summary: strings.TrimSpace(doc.summary),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].title < entries[j].title
	})
	index := appendTOCAfterDoc([]byte("# "+title+"\n"), buildTOC(entries))
	return writeOutput(filepath.Join(outDir, "README.md"), io.Discard, index)
}

func appendTOCAfterDoc(doc []byte, toc []byte) []byte {
	if len(toc) == 0 {
		return append([]byte{}, doc...)
	}
	if len(doc) == 0 {
		return append([]byte{}, toc...)
	}
	content := append([]byte{}, doc...)
	if !bytes.HasSuffix(content, []byte("\n\n")) {
		if bytes.HasSuffix(content, []byte("\n")) {
			content = append(content, '\n')
		} else {
			content = append(content, '\n', '\n')
		}
	}
	content = append(content, toc...)
	return content
}

func buildTOC(entries []tocEntry) []byte {
	if len(entries) == 0 {
		return nil
	}
	var buf bytes.Buffer
	buf.WriteString("## Headers\n\n")
	for _, entry := range entries {
		if entry.summary != "" {
			fmt.Fprintf(&buf, "- [%s](%s): %s\n", entry.title, entry.link, entry.summary)
		} else {
			fmt.Fprintf(&buf, "- [%s](%s)\n", entry.title, entry.link)
		}
	}
	buf.WriteString("\n")
	return buf.Bytes()
}
