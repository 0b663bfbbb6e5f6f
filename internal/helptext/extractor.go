package helptext

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-shellwords"

	"github.com/tsuru/tsuru-docs/internal/catalog"
)

// DefaultTool is the CLI documented when no tool is given.
const DefaultTool = "tsuru"

var ErrEmptyTool = errors.New("tool command cannot be empty")

// Runner executes a program and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRunner replaces the process runner, mainly for tests.
func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		e.runner = r
	}
}

// Extractor collects help text from a CLI tool.
type Extractor struct {
	logger hclog.Logger
	runner Runner
	tool   []string
}

// NewExtractor returns an Extractor for tool. The tool string is split with
// shell quoting rules, so "go run ./cmd/tsuru" names a program and its
// arguments.
func NewExtractor(logger hclog.Logger, tool string, opts ...Option) (*Extractor, error) {
	words, err := shellwords.Parse(tool)
	if err != nil {
		return nil, fmt.Errorf("parse tool command %q: %w", tool, err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyTool
	}
	e := &Extractor{
		logger: logger,
		runner: ExecRunner{},
		tool:   words,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Extractor) run(ctx context.Context, args ...string) ([]byte, error) {
	var argv []string
	argv = append(argv, e.tool[1:]...)
	argv = append(argv, args...)
	e.logger.Debug("running", "program", e.tool[0], "args", argv)
	return e.runner.Run(ctx, e.tool[0], argv...)
}

// Commands runs the tool without arguments and returns the first word of
// every indented line of its output, which is how the tool lists its
// subcommands. Many CLIs exit non-zero when called without a subcommand, so
// an exit status is only logged when the tool still printed something.
func (e *Extractor) Commands(ctx context.Context) ([]string, error) {
	out, err := e.run(ctx)
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || len(out) == 0 {
			return nil, fmt.Errorf("list commands: %w", err)
		}
		e.logger.Warn("Tool exited with an error, listing commands from its output", "error", err)
	}
	return ListCommands(out), nil
}

// ListCommands returns the first field of each line of out that starts with
// a space or a tab, without duplicates.
func ListCommands(out []byte) []string {
	var (
		names []string
		seen  = make(map[string]struct{})
	)
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if line == "" || (line[0] != ' ' && line[0] != '\t') {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if _, ok := seen[fields[0]]; ok {
			continue
		}
		seen[fields[0]] = struct{}{}
		names = append(names, fields[0])
	}
	return names
}

// Help returns the output of "<tool> help <name>".
func (e *Extractor) Help(ctx context.Context, name string) (string, error) {
	out, err := e.run(ctx, "help", name)
	if err != nil {
		return "", fmt.Errorf("help for %q: %w", name, err)
	}
	return string(out), nil
}

// Extract builds a catalog from every subcommand the tool lists. Commands
// whose help output cannot be parsed are logged and left out.
func (e *Extractor) Extract(ctx context.Context) (catalog.Catalog, error) {
	names, err := e.Commands(ctx)
	if err != nil {
		return nil, err
	}
	result := make(catalog.Catalog, len(names))
	for _, name := range names {
		text, err := e.Help(ctx, name)
		if err != nil {
			return nil, err
		}
		entry, ok := Parse(text)
		if !ok {
			e.logger.Info("Ignored command", "command", name)
			continue
		}
		result[name] = entry
	}
	e.logger.Debug("extracted catalog", "commands", len(names), "entries", len(result))
	return result, nil
}
