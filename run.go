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
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/tsuru/tsuru-docs/internal/catalog"
	"github.com/tsuru/tsuru-docs/internal/config"
	"github.com/tsuru/tsuru-docs/internal/directive"
	"github.com/tsuru/tsuru-docs/internal/flags"
	"github.com/tsuru/tsuru-docs/internal/handlers"
	"github.com/tsuru/tsuru-docs/internal/helptext"
	"github.com/tsuru/tsuru-docs/internal/markup"
)

var ErrCatalogDrift = errors.New("catalog is out of date")

type options struct {
	format       string
	outputPath   string
	catalogFile  string
	handlersFile string
}

type cliApp struct {
	stdout  io.Writer
	stdin   io.Reader
	runner  helptext.Runner
	logger  hclog.Logger
	// logFile is the --log-path file, if one was opened.
	logFile *os.File
	cfg     *config.Config
	opts    options
}

type appOption func(*cliApp)

// withRunner replaces the process runner used by extract.
func withRunner(r helptext.Runner) appOption {
	return func(app *cliApp) {
		app.runner = r
	}
}

// withLogger skips building the logger from the log flags.
func withLogger(l hclog.Logger) appOption {
	return func(app *cliApp) {
		app.logger = l
	}
}

func withStdin(r io.Reader) appOption {
	return func(app *cliApp) {
		app.stdin = r
	}
}

func newCLIApp(stdout io.Writer, opts ...appOption) *cliApp {
	app := &cliApp{
		stdout: stdout,
		stdin:  os.Stdin,
		runner: helptext.ExecRunner{},
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

func run(argv []string, stdout io.Writer, opts ...appOption) error {
	cmd := newRootCmd(stdout, opts...)
	cmd.SetArgs(argv)
	return cmd.Execute()
}

// setup builds the logger and loads the config file once flags are parsed.
func (app *cliApp) setup(explicitConfig bool) error {
	if app.logger == nil {
		logger, logFile, err := newLogger(flags.LogPath, flags.LogLevel)
		if err != nil {
			return err
		}
		app.logger, app.logFile = logger, logFile
	}
	cfg, err := config.Load(flags.ConfigFile, explicitConfig)
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.logger.Debug("Configuration loaded", "path", flags.ConfigFile, "explicit", explicitConfig)
	return nil
}

// close releases the log file opened by setup.
func (app *cliApp) close() error {
	if app.logFile == nil {
		return nil
	}
	f := app.logFile
	app.logFile = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close log file (%s): %w", f.Name(), err)
	}
	return nil
}

// newLogger returns a logger writing to path, or to stderr when path is
// empty. The returned file is nil for stderr.
func newLogger(path, level string) (hclog.Logger, *os.File, error) {
	var (
		out  io.Writer = os.Stderr
		file *os.File
	)
	if path = strings.TrimSpace(path); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file (%s): %w", path, err)
		}
		out, file = f, f
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "tsuru-docs",
		Level:  logLevel(level),
		Output: out,
	}), file, nil
}

func logLevel(s string) hclog.Level {
	lvl := strings.ToLower(strings.TrimSpace(s))
	switch lvl {
	case "trace", "debug", "info", "warn", "error", "off":
		return hclog.LevelFromString(lvl)
	default:
		return hclog.Info
	}
}

func (app *cliApp) extract(ctx context.Context, args []string, check bool) error {
	tool, dest := app.cfg.Extract.Tool, app.cfg.Extract.Destination
	if len(args) > 0 {
		tool = args[0]
	}
	if len(args) > 1 {
		dest = args[1]
	}

	logger := app.logger.Named("extract")
	ex, err := helptext.NewExtractor(logger, tool, helptext.WithRunner(app.runner))
	if err != nil {
		return err
	}
	c, err := ex.Extract(ctx)
	if err != nil {
		return err
	}

	if check {
		return app.checkCatalog(c, filepath.Join(dest, app.cfg.Catalog.File))
	}
	path, err := catalog.WriteFile(c, dest, app.cfg.Catalog.File)
	if err != nil {
		return err
	}
	logger.Info("Catalog written", "path", path, "commands", len(c))
	return nil
}

// checkCatalog prints a line diff between the catalog at path and c, and
// fails with ErrCatalogDrift when they differ.
func (app *cliApp) checkCatalog(c catalog.Catalog, path string) error {
	want, err := c.Marshal()
	if err != nil {
		return err
	}
	got, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if bytes.Equal(got, want) {
		_, err := fmt.Fprintf(app.stdout, "%s is up to date\n", path)
		return err
	}
	if _, err := fmt.Fprintf(app.stdout, "--- %s\n+++ generated\n", path); err != nil {
		return err
	}
	if _, err := io.WriteString(app.stdout, lineDiff(string(got), string(want))); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", ErrCatalogDrift, path)
}

// lineDiff returns the removed and added lines between oldText and newText,
// prefixed with "-" and "+".
func lineDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(rOld, rNew, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	var b strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, r := range d.Text {
			idx := int(r)
			if idx < 0 || idx >= len(lineArray) {
				continue
			}
			b.WriteString(prefix + strings.TrimSuffix(lineArray[idx], "\n") + "\n")
		}
	}
	return b.String()
}

type source struct {
	name string
	doc  *markup.Document
}

func (app *cliApp) render(files []string) error {
	format, err := app.format()
	if err != nil {
		return err
	}

	parser := directive.NewParser()
	sources := make([]source, 0, len(files))
	var needs directive.Needs
	for _, name := range files {
		text, err := app.readSource(name)
		if err != nil {
			return err
		}
		doc := parser.Parse(text)
		needs = needs.Merge(directive.Scan(doc.Children))
		sources = append(sources, source{name: name, doc: doc})
	}

	resolver, err := app.resolver(needs)
	if err != nil {
		return err
	}
	for _, src := range sources {
		if err := resolver.Resolve(src.doc); err != nil {
			return fmt.Errorf("%s: %w", src.name, err)
		}
	}

	if len(sources) > 1 && app.opts.outputPath != "" && app.opts.outputPath != "-" {
		return writeSourcesToDir(app.opts.outputPath, sources, format)
	}
	var buf bytes.Buffer
	for i, src := range sources {
		if i > 0 {
			buf.WriteString("\n")
		}
		if err := markup.Write(&buf, format, src.doc.Children); err != nil {
			return fmt.Errorf("%s: %w", src.name, err)
		}
	}
	return writeOutput(app.opts.outputPath, app.stdout, buf.Bytes())
}

func (app *cliApp) command(name, title string) error {
	c, err := app.loadCommands()
	if err != nil {
		return err
	}
	if _, ok := c.Lookup(name); !ok {
		app.logger.Warn("command not found", "command", name)
	}
	return app.writeNodes(directive.RenderCommand(c, name, title, 0))
}

func (app *cliApp) handlers() error {
	descs, err := app.loadHandlers()
	if err != nil {
		return err
	}
	return app.writeNodes(handlers.Render(descs))
}

func (app *cliApp) writeNodes(nodes []markup.Node) error {
	format, err := app.format()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := markup.Write(&buf, format, nodes); err != nil {
		return err
	}
	return writeOutput("", app.stdout, buf.Bytes())
}

func (app *cliApp) format() (markup.Format, error) {
	if app.opts.format == "" {
		return app.cfg.Format(), nil
	}
	return markup.ParseFormat(app.opts.format)
}

// resolver loads only the catalogs the parsed sources refer to.
func (app *cliApp) resolver(needs directive.Needs) (*directive.Resolver, error) {
	var opts []directive.Option
	if needs.Commands {
		c, err := app.loadCommands()
		if err != nil {
			return nil, err
		}
		opts = append(opts, directive.WithCommands(c))
	}
	if needs.Handlers {
		descs, err := app.loadHandlers()
		if err != nil {
			return nil, err
		}
		opts = append(opts, directive.WithHandlers(descs))
	}
	return directive.NewResolver(app.logger.Named("render"), opts...), nil
}

func (app *cliApp) loadCommands() (catalog.Catalog, error) {
	name, dirs := app.cfg.Catalog.File, app.cfg.Catalog.SearchPaths
	if p := app.opts.catalogFile; p != "" {
		name, dirs = filepath.Base(p), []string{filepath.Dir(p)}
	}
	c, path, err := catalog.Load(name, dirs)
	if err != nil {
		return nil, err
	}
	app.logger.Debug("Catalog loaded", "path", path, "commands", len(c))
	return c, nil
}

func (app *cliApp) loadHandlers() ([]handlers.Descriptor, error) {
	path := app.cfg.Handlers.File
	if app.opts.handlersFile != "" {
		path = app.opts.handlersFile
	}
	descs, err := handlers.Load(path)
	if err != nil {
		return nil, err
	}
	app.logger.Debug("Handlers loaded", "path", path, "handlers", len(descs))
	return descs, nil
}

func (app *cliApp) readSource(name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(app.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// writeSourcesToDir writes one file per source under outDir, named after the
// source with the format's extension.
func writeSourcesToDir(outDir string, sources []source, format markup.Format) error {
	seen := make(map[string]string, len(sources))
	for _, src := range sources {
		base := "stdin"
		if src.name != "-" {
			base = strings.TrimSuffix(filepath.Base(src.name), filepath.Ext(src.name))
		}
		target := filepath.Join(outDir, base+format.Extension())
		if prev, ok := seen[target]; ok {
			return fmt.Errorf("%s and %s both write %s", prev, src.name, target)
		}
		seen[target] = src.name

		var buf bytes.Buffer
		if err := markup.Write(&buf, format, src.doc.Children); err != nil {
			return fmt.Errorf("%s: %w", src.name, err)
		}
		if err := writeOutput(target, io.Discard, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
