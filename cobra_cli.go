package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"

	"github.com/tsuru/tsuru-docs/internal/flags"
)

const rootLongDesc = `
tsuru-docs builds the tsuru reference documentation from the tsuru CLI itself.

It works in two steps:

  • extract runs the CLI, parses the help text of every subcommand and writes
    the command catalog (cmds.json)
  • render reads documentation sources, expands the tsuru-command and
    tsuru-handlers directives from cmds.json and handlers.yml, and writes
    reStructuredText, Markdown or HTML

Settings are read from .tsuru-docs.toml when present. Flags and arguments
override the file.
`

func newRootCmd(stdout io.Writer, opts ...appOption) *cobra.Command {
	app := newCLIApp(stdout, opts...)
	cmd := &cobra.Command{
		Use:           "tsuru-docs <command> [args]",
		Short:         "Generate the tsuru command and API reference",
		Long:          strings.TrimSpace(rootLongDesc),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.DisableAutoGenTag = true
	cmd.Version = version
	cmd.SetOut(stdout)
	cmd.SetErr(io.Discard)
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags.InitFlags(cmd.PersistentFlags())
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return app.setup(flags.ConfigFileExplicit(cmd.PersistentFlags()))
	}
	cmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		return app.close()
	}

	cmd.AddCommand(newExtractCmd(app))
	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newCommandCmd(app))
	cmd.AddCommand(newHandlersCmd(app))
	cmd.AddCommand(newCompletionCmd(cmd))
	cmd.AddCommand(newDocsCmd(cmd))
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newExtractCmd(app *cliApp) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "extract [tool] [destination]",
		Short: "Generate cmds.json from the CLI help output",
		Long: strings.TrimSpace(`
Run "<tool>" without arguments, take every indented word it prints as a
command name, then run "<tool> help <command>" for each one and write the
parsed usage and descriptions as cmds.json in destination. The exit status
of the bare "<tool>" call is ignored when it prints a command list.

The tool defaults to "tsuru" and may carry arguments, e.g. "go run ./tsuru".
Commands whose help text cannot be parsed are logged and skipped.

Example:

  tsuru-docs extract tsuru docs
  tsuru-docs extract --check
`),
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolVar(&check, "check", false, "compare with the existing catalog instead of writing it")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.extract(commandContext(cmd), args, check)
	}
	return cmd
}

func newRenderCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Expand the tsuru directives in documentation sources",
		Long: strings.TrimSpace(`
Parse each source file, replace every tsuru-command and tsuru-handlers
directive, and write the result. Use "-" to read from stdin.

cmds.json is only loaded when a source uses tsuru-command, and handlers.yml
only when a source uses tsuru-handlers.

With several inputs, --output names a directory that receives one file per
input.

Example:

  tsuru-docs render -f html -o build docs/reference/*.rst
`),
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addRenderFlags(cmd, app)
	cmd.Flags().StringVarP(&app.opts.outputPath, "output", "o", "", "write output to file (or directory with several inputs) instead of stdout")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.render(args)
	}
	return cmd
}

func newCommandCmd(app *cliApp) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:           "command <name>",
		Short:         "Render the reference of a single command",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addRenderFlags(cmd, app)
	cmd.Flags().StringVar(&title, "title", "", "section title")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.command(args[0], title)
	}
	return cmd
}

func newHandlersCmd(app *cliApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "handlers",
		Short:         "Render the API handler list",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addRenderFlags(cmd, app)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return app.handlers()
	}
	return cmd
}

func addRenderFlags(cmd *cobra.Command, app *cliApp) {
	fs := cmd.Flags()
	fs.StringVarP(&app.opts.format, "format", "f", "", "output format: rst, markdown or html (default from config, rst)")
	fs.StringVar(&app.opts.catalogFile, "catalog", "", "path to cmds.json (default: search the configured paths)")
	fs.StringVar(&app.opts.handlersFile, "handlers", "", "path to handlers.yml")
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	const (
		longDesc = `Generate shell completion scripts for tsuru-docs.

The output should be evaluated by your shell. For example:

  # bash
  tsuru-docs completion bash > /usr/local/etc/bash_completion.d/tsuru-docs

  # zsh
  tsuru-docs completion zsh > "${fpath[1]}/_tsuru-docs"

  # fish
  tsuru-docs completion fish | source

  # PowerShell
  tsuru-docs completion powershell | Out-String | Invoke-Expression
`
	)
	cmd := &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  longDesc,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return root.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return root.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return root.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell %q", args[0])
		}
	}
	return cmd
}

func newDocsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen-docs [directory]",
		Short: "Generate Markdown reference docs for the CLI",
		Long: strings.TrimSpace(`
Write a Markdown file per command (suitable for publishing CLI docs).

Example:

  tsuru-docs gen-docs ./docs/cli
`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == "" {
			return fmt.Errorf("target directory is required")
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		return cobradoc.GenMarkdownTree(root, target)
	}
	return cmd
}
