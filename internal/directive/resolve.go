package directive

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/tsuru/tsuru-docs/internal/catalog"
	"github.com/tsuru/tsuru-docs/internal/handlers"
	"github.com/tsuru/tsuru-docs/internal/markup"
)

var (
	ErrCommandsNotLoaded = errors.New("command catalog not loaded")
	ErrHandlersNotLoaded = errors.New("handlers not loaded")
	ErrUnknownMarker     = errors.New("unknown directive marker")
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithCommands sets the catalog used for tsuru-command.
func WithCommands(c catalog.Catalog) Option {
	return func(r *Resolver) {
		r.commands = c
	}
}

// WithHandlers sets the descriptors used for tsuru-handlers.
func WithHandlers(descs []handlers.Descriptor) Option {
	return func(r *Resolver) {
		r.handlers = descs
		r.handlersLoaded = true
	}
}

// Resolver replaces Pending directive nodes with rendered fragments. Its
// catalogs are fixed at construction and never modified.
type Resolver struct {
	logger         hclog.Logger
	commands       catalog.Catalog
	handlers       []handlers.Descriptor
	handlersLoaded bool
}

func NewResolver(logger hclog.Logger, opts ...Option) *Resolver {
	r := &Resolver{logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve replaces every Pending node in doc. Unknown commands become
// error messages in the tree; a directive whose catalog was not loaded
// fails the whole document.
func (r *Resolver) Resolve(doc *markup.Document) error {
	children, err := markup.Replace(doc.Children, r.resolve)
	if err != nil {
		return err
	}
	doc.Children = children
	return nil
}

func (r *Resolver) resolve(p *markup.Pending) ([]markup.Node, error) {
	switch m := p.Marker.(type) {
	case CommandRef:
		if r.commands == nil {
			return nil, fmt.Errorf("%w: %s directive at line %d", ErrCommandsNotLoaded, CommandName, p.Line)
		}
		if _, ok := r.commands.Lookup(m.Name); !ok {
			r.logger.Warn("command not found", "command", m.Name, "line", p.Line)
		}
		return RenderCommand(r.commands, m.Name, m.Title, p.Line), nil
	case HandlersBlock:
		if !r.handlersLoaded {
			return nil, fmt.Errorf("%w: %s directive at line %d", ErrHandlersNotLoaded, HandlersName, p.Line)
		}
		return handlers.Render(r.handlers), nil
	}
	return nil, fmt.Errorf("%w: %T at line %d", ErrUnknownMarker, p.Marker, p.Line)
}

// RenderCommand builds the reference for one command. Topics render as a
// single paragraph. A command missing from c renders as an error message.
func RenderCommand(c catalog.Catalog, name, title string, line int) []markup.Node {
	entry, ok := c.Lookup(name)
	if !ok {
		return []markup.Node{markup.NewError(line, fmt.Sprintf("Command %s not found", name))}
	}
	if entry.IsTopic() {
		return []markup.Node{markup.NewParagraph(entry.Topic)}
	}

	section := &markup.Section{IDs: []string{markup.TitleID(title)}}
	if title != "" {
		section.Children = append(section.Children, markup.NewTitle(title))
	}
	section.Children = append(section.Children, &markup.LiteralBlock{Text: "$ " + entry.Usage, Language: "text"})
	section.Children = append(section.Children, markup.RewriteFragment(entry.Desc)...)
	return []markup.Node{section}
}
