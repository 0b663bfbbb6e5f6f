// Package directive wires the tsuru documentation directives into the
// markup engine.
//
// Rendering happens in two phases. Parsing a source with the parser from
// NewParser leaves a markup.Pending node for every directive, carrying a
// CommandRef or HandlersBlock marker. A Resolver then replaces each Pending
// node with the fragment built from the loaded catalogs.
package directive

import (
	"github.com/tsuru/tsuru-docs/internal/markup"
)

const (
	CommandName  = "tsuru-command"
	HandlersName = "tsuru-handlers"
)

// Marker is the payload of a Pending node left by a tsuru directive.
type Marker interface {
	marker()
}

// CommandRef asks for the reference of one CLI command.
type CommandRef struct {
	Name  string
	Title string
}

// HandlersBlock asks for the list of every API handler.
type HandlersBlock struct{}

func (CommandRef) marker()    {}
func (HandlersBlock) marker() {}

// Register adds the tsuru directives to p.
func Register(p *markup.Parser) {
	p.Register(CommandName, markup.DirectiveSpec{
		RequiredArguments:       1,
		FinalArgumentWhitespace: true,
		Options:                 []string{"title"},
	}, func(d markup.Directive) []markup.Node {
		return []markup.Node{&markup.Pending{
			Marker: CommandRef{Name: d.Arguments[0], Title: d.Options["title"]},
			Line:   d.Line,
		}}
	})
	p.Register(HandlersName, markup.DirectiveSpec{}, func(d markup.Directive) []markup.Node {
		return []markup.Node{&markup.Pending{Marker: HandlersBlock{}, Line: d.Line}}
	})
}

// NewParser returns a markup parser that knows the tsuru directives.
func NewParser() *markup.Parser {
	p := markup.NewParser()
	Register(p)
	return p
}

// Needs reports which catalogs the directives in a tree refer to.
type Needs struct {
	Commands bool
	Handlers bool
}

// Scan walks nodes and reports which catalogs they need.
func Scan(nodes []markup.Node) Needs {
	var needs Needs
	markup.Walk(nodes, func(n markup.Node) bool {
		p, ok := n.(*markup.Pending)
		if !ok {
			return true
		}
		switch p.Marker.(type) {
		case CommandRef:
			needs.Commands = true
		case HandlersBlock:
			needs.Handlers = true
		}
		return false
	})
	return needs
}

// Merge returns the union of n and other.
func (n Needs) Merge(other Needs) Needs {
	return Needs{
		Commands: n.Commands || other.Commands,
		Handlers: n.Handlers || other.Handlers,
	}
}
