// Package markup is a small document engine for the reStructuredText subset
// used in tsuru documentation. It parses source text into a node tree, lets
// directives leave Pending placeholders for a later resolution pass, and
// writes the resolved tree back out as RST, Markdown or HTML.
package markup

// Node is a block-level element of a document tree.
type Node interface {
	blockNode()
}

// Inline is an inline element inside a Paragraph or Title.
type Inline interface {
	inlineNode()
}

// Document is the root of a parsed source.
type Document struct {
	Source   string
	Children []Node
}

// Section groups a Title with the content that follows it.
type Section struct {
	IDs      []string
	Children []Node
}

type Title struct {
	Inlines []Inline
}

type Paragraph struct {
	Inlines []Inline
}

// LiteralBlock is preformatted text. Language is empty for plain "::" blocks.
type LiteralBlock struct {
	Text     string
	Language string
}

type BulletList struct {
	Items []*ListItem
}

type ListItem struct {
	Children []Node
}

type BlockQuote struct {
	Children []Node
}

// Comment holds the body of a ".." block that is not a directive.
type Comment struct {
	Text string
}

// Level is the severity of a SystemMessage.
type Level int

const (
	LevelInfo Level = iota + 1
	LevelWarning
	LevelError
	LevelSevere
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelSevere:
		return "SEVERE"
	default:
		return "UNKNOWN"
	}
}

// SystemMessage reports a problem found while parsing or resolving a
// document. It is rendered in place of the content it refers to.
type SystemMessage struct {
	Level   Level
	Line    int
	Message string
}

// Pending marks the position of a directive whose output is produced by a
// later pass. Marker carries the directive's parsed arguments.
type Pending struct {
	Marker any
	Line   int
}

func (*Section) blockNode()       {}
func (*Title) blockNode()         {}
func (*Paragraph) blockNode()     {}
func (*LiteralBlock) blockNode()  {}
func (*BulletList) blockNode()    {}
func (*ListItem) blockNode()      {}
func (*BlockQuote) blockNode()    {}
func (*Comment) blockNode()       {}
func (*SystemMessage) blockNode() {}
func (*Pending) blockNode()       {}

type Text struct {
	Value string
}

type Literal struct {
	Value string
}

type Emphasis struct {
	Value string
}

type Strong struct {
	Value string
}

// Reference is a hyperlink with an explicit target.
type Reference struct {
	Label string
	URL   string
}

func (*Text) inlineNode()      {}
func (*Literal) inlineNode()   {}
func (*Emphasis) inlineNode()  {}
func (*Strong) inlineNode()    {}
func (*Reference) inlineNode() {}

// NewParagraph returns a paragraph holding a single text run.
func NewParagraph(text string) *Paragraph {
	return &Paragraph{Inlines: []Inline{&Text{Value: text}}}
}

// NewTitle returns a title holding a single text run.
func NewTitle(text string) *Title {
	return &Title{Inlines: []Inline{&Text{Value: text}}}
}

// NewError returns an error-level system message.
func NewError(line int, message string) *SystemMessage {
	return &SystemMessage{Level: LevelError, Line: line, Message: message}
}

// PlainText concatenates the text content of inlines, dropping markup.
func PlainText(inlines []Inline) string {
	var out []byte
	for _, in := range inlines {
		switch v := in.(type) {
		case *Text:
			out = append(out, v.Value...)
		case *Literal:
			out = append(out, v.Value...)
		case *Emphasis:
			out = append(out, v.Value...)
		case *Strong:
			out = append(out, v.Value...)
		case *Reference:
			out = append(out, v.Label...)
		}
	}
	return string(out)
}

// children returns the child slice of a container node, or nil.
func children(n Node) *[]Node {
	switch v := n.(type) {
	case *Section:
		return &v.Children
	case *ListItem:
		return &v.Children
	case *BlockQuote:
		return &v.Children
	}
	return nil
}

// Walk calls fn for every block node under nodes in document order. Walk
// does not descend into a node when fn returns false.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		if list, ok := n.(*BulletList); ok {
			for _, item := range list.Items {
				if fn(item) {
					Walk(item.Children, fn)
				}
			}
			continue
		}
		if kids := children(n); kids != nil {
			Walk(*kids, fn)
		}
	}
}

// Replace substitutes every Pending node under nodes with the fragment fn
// returns for it and returns the rewritten slice. The Pending node is
// dropped from the tree. Replace stops at the first error.
func Replace(nodes []Node, fn func(*Pending) ([]Node, error)) ([]Node, error) {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if p, ok := n.(*Pending); ok {
			frag, err := fn(p)
			if err != nil {
				return nil, err
			}
			out = append(out, frag...)
			continue
		}
		if list, ok := n.(*BulletList); ok {
			for _, item := range list.Items {
				kids, err := Replace(item.Children, fn)
				if err != nil {
					return nil, err
				}
				item.Children = kids
			}
		}
		if kids := children(n); kids != nil {
			replaced, err := Replace(*kids, fn)
			if err != nil {
				return nil, err
			}
			*kids = replaced
		}
		out = append(out, n)
	}
	return out, nil
}
