package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"

	"github.com/agentflare-ai/hdrdoc/internal/config"
	"github.com/agentflare-ai/hdrdoc/internal/extract"
)

const rootLongDesc = `
hdrdoc extracts tagged documentation comments from C and C++ headers and renders
them as Markdown.

Blocks open with "/// @brief", collect "/// @param", "/// @return" and plain "///"
lines, and close at "/// @end" or at the first code line ending in ";", "{" or ")".
Class and struct openers become "##" headings; functions and variables become
fenced code blocks followed by their brief, parameters, return value and body.

  • Write to a file, or to stdout with "-" as the output
  • Point the input at a directory to document every header under it, with a
    README.md index linking each generated page
  • Regenerate on every save with --watch
  • Settings come from flags, HDRDOC_* variables, .env files or .hdrdoc.yaml
`

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	app := &cliApp{stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:           "hdrdoc [flags] <input> <output>",
		Short:         "Render tagged header comments as Markdown",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          usageArgs(cobra.ExactArgs(2)),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = Version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := cmd.Flags()
	flags.StringVar(&app.opts.configPath, "config", "", "config file (default: ./.hdrdoc.yaml when present)")
	flags.Bool("strict", false, "fail when a block or class scope is still open at end of input")
	flags.Int("wrap", config.Default().WrapWidth, "wrap body paragraphs at this column (0 disables wrapping)")
	flags.String("lang", config.Default().CodeLanguage, "info string for fenced code blocks")
	flags.BoolP("verbose", "v", false, "log scanner activity to stderr")
	flags.Bool("watch", false, "regenerate the output whenever the input changes")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(app.opts.configPath, cmd.Flags())
		if err != nil {
			return err
		}
		app.cfg = cfg
		app.log = newLogger(app.stderr, cfg.Verbose)
		return nil
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return app.execute(ctx, args[0], args[1])
	}

	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

// usageError marks bad arguments or flags (exit status 2).
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func exitCode(err error) int {
	var usage *usageError
	if errors.As(err, &usage) {
		return extract.ExitUsage
	}
	return extract.ExitCode(err)
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

// completionGenerators writes a completion script for root in each shell.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	shells := make([]string, 0, len(completionGenerators))
	for shell := range completionGenerators {
		shells = append(shells, shell)
	}
	sort.Strings(shells)

	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: strings.TrimSpace(`
Print a completion script covering hdrdoc's flags and subcommands. Header and
directory arguments complete as ordinary paths.

Load it for the current session, or save it where your shell picks it up:

  source <(hdrdoc completion bash)
  hdrdoc completion zsh > "${fpath[1]}/_hdrdoc"
  hdrdoc completion fish > ~/.config/fish/completions/hdrdoc.fish
  hdrdoc completion powershell >> $PROFILE
`),
		Args:                  usageArgs(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),
		ValidArgs:             shells,
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		gen, ok := completionGenerators[args[0]]
		if !ok {
			return &usageError{err: fmt.Errorf("unsupported shell %q (want one of %s)", args[0], strings.Join(shells, ", "))}
		}
		return gen(root, cmd.OutOrStdout())
	}
	return cmd
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-docs <directory>",
		Short: "Write the hdrdoc command reference as Markdown",
		Long: strings.TrimSpace(`
Write hdrdoc.md plus one page per subcommand into <directory>, creating it if
needed. The pages describe the CLI itself; use the root command to document
headers.

  hdrdoc gen-docs docs/cli
`),
		Args:          usageArgs(cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		if strings.TrimSpace(dir) == "" {
			return &usageError{err: errors.New("gen-docs needs a target directory")}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return extract.FileError(dir, "writing", err)
		}
		return cobradoc.GenMarkdownTree(root, dir)
	}
	return cmd
}
