// # hdrdoc
//
// `hdrdoc` extracts tagged documentation comments from C and C++ headers and
// renders them as Markdown. It is a single forward pass over the header: no
// grammar is parsed, and the code that follows a comment block is copied into
// the output as its signature.
//
// ## Tags
//
//   - `/// @brief <text>` opens a block. Opening a second block before the
//     first is closed is an error.
//   - `/// @param <text>` adds a parameter bullet; repeatable, kept in order.
//   - `/// @return <text>` sets the return description.
//   - `/// <text>` adds body text, rendered as one paragraph wrapped at 80
//     columns.
//   - `/// @end` closes a block that has no code, such as a file overview.
//
// Any other line while a block is open is code. The block closes at the first
// code line holding `;`, `{` or `)`. A `class` or `struct` opener becomes a
// `##` heading and stays open as a scope until its `};`, so members inside it
// can carry their own blocks.
//
// ## Usage
//
//	hdrdoc [flags] <input> <output>
//
// Examples:
//
//   - Render one header to a file:
//
//     hdrdoc include/cmd.h docs/cmd.md
//
//   - Print to stdout:
//
//     hdrdoc include/cmd.h -
//
//   - Document every header in a tree, with a README.md index:
//
//     hdrdoc include/ docs/api
//
//   - Regenerate on save:
//
//     hdrdoc --watch include/cmd.h README.md
//
// ## Flags
//
//   - `--strict`: fail when a block or class scope is still open at the end of
//     the input. Without it, an open block is flushed and open scopes are
//     only logged.
//   - `--wrap N`: body wrap column (default 80, 0 disables wrapping).
//   - `--lang NAME`: info string of fenced code blocks (default `c`).
//   - `--config FILE`: YAML settings file (default `.hdrdoc.yaml` if present).
//   - `-v`, `--verbose`: log scanner activity to stderr.
//   - `--watch`: keep running and regenerate whenever the input changes.
//
// Single-dash spellings such as `-strict` are accepted. Every setting can
// also come from an `HDRDOC_*` environment variable (for example
// `HDRDOC_WRAP_WIDTH=72`) or a `.env` file.
//
// ## Exit Status
//
// 0 on success, 2 on usage errors, 3 for malformed tagging (protocol
// violations, unbalanced scopes, unexpected end of input in strict mode), 4
// when the input cannot be read or the output cannot be written, 1 otherwise.
//
// ## Shell Completion
//
//	hdrdoc completion bash        # bash
//	hdrdoc completion zsh         # zsh
//	hdrdoc completion fish | source
//	hdrdoc completion powershell | Out-String | Invoke-Expression
//
// ## CLI Docs
//
//	hdrdoc gen-docs ./docs/cli
//
// Every command becomes its own Markdown file under the provided directory.
package main
