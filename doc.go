// # tsuru-docs
//
// `tsuru-docs` generates the command and API reference of tsuru from the
// tsuru CLI itself. It scrapes the CLI help output into a command catalog
// (`cmds.json`) and expands documentation directives against that catalog
// and the API handler list (`handlers.yml`).
//
// Key capabilities:
//
//   - run `tsuru help` and `tsuru help <command>` for every subcommand and
//     store the parsed usage line and description of each one.
//   - keep help topics (pages without a usage line) as plain text.
//   - rewrite the CLI's Markdown-flavoured help (`[[code]]`, `[label](url)`,
//     flag defaults) into reStructuredText.
//   - expand `.. tsuru-command::` and `.. tsuru-handlers::` directives in
//     documentation sources and write reStructuredText, Markdown or HTML.
//   - ship a Cobra-powered CLI with rich `--help`, `--version`, shell
//     completion, and a `gen-docs` helper for publishing the CLI reference
//     itself.
//
// ## Usage
//
//	tsuru-docs extract [tool] [destination]
//	tsuru-docs render [-f rst|markdown|html] [-o path] files...
//
// Examples:
//
//   - Regenerate the catalog from the installed client:
//
//     tsuru-docs extract tsuru docs
//
//   - Fail CI when the catalog is stale:
//
//     tsuru-docs extract --check "go run ./tsuru" docs
//
//   - Render a reference page as HTML:
//
//     tsuru-docs render -f html -o build/reference.html docs/reference.rst
//
//   - Print the reference of a single command:
//
//     tsuru-docs command app-create --title "Create an app"
//
// ## Directives
//
// A source refers to a command with
//
//	.. tsuru-command:: app-create
//	   :title: Create an app
//
// which becomes a section with the usage line in a code block followed by
// the rewritten description. An unknown command becomes an error block in
// place. `.. tsuru-handlers::` takes no arguments and becomes one section per
// entry of `handlers.yml`.
//
// The catalog is only read when a source uses `tsuru-command`, and the
// handler list only when a source uses `tsuru-handlers`. When needed, a
// missing file is fatal.
//
// ## Configuration
//
// `.tsuru-docs.toml` in the working directory (or the file named by
// `--config-file` / `TSURU_DOCS_CONFIG_FILE`) may set:
//
//	[catalog]
//	file = "cmds.json"
//	search_paths = [".", "docs", ".."]
//
//	[handlers]
//	file = "handlers.yml"
//
//	[extract]
//	tool = "tsuru"
//	destination = "."
//
//	[render]
//	format = "rst"
//
// Logging is controlled by `--log-level` / `TSURU_DOCS_LOG_LEVEL` and
// `--log-path` / `TSURU_DOCS_LOG_PATH`.
//
// ## Shell Completion
//
//	tsuru-docs completion bash        # bash
//	tsuru-docs completion zsh         # zsh
//	tsuru-docs completion fish | source
//	tsuru-docs completion powershell | Out-String | Invoke-Expression
//
// ## CLI Docs
//
//	tsuru-docs gen-docs ./docs/cli
//
// Every command becomes its own Markdown file under the provided directory.
package main
