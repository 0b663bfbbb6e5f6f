package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Format selects an output writer.
type Format string

const (
	FormatRST      Format = "rst"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

var (
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrUnresolved is returned by writers that meet a Pending node.
	ErrUnresolved = errors.New("unresolved directive")
)

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatRST, FormatMarkdown, FormatHTML}
}

// ParseFormat maps a format name, or a common alias, to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rst", "restructuredtext":
		return FormatRST, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Extension returns the file extension, with the dot, used for f.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	default:
		return ".rst"
	}
}

// Write renders nodes to w in the given format.
func Write(w io.Writer, f Format, nodes []Node) error {
	switch f {
	case FormatRST:
		return WriteRST(w, nodes)
	case FormatMarkdown:
		return WriteMarkdown(w, nodes)
	case FormatHTML:
		return WriteHTML(w, nodes)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

type blockFunc func(n Node, depth int) (string, error)

// joinBlocks renders each node with fn and separates them by blank lines.
func joinBlocks(nodes []Node, depth int, fn blockFunc) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if p, ok := n.(*Pending); ok {
			return "", fmt.Errorf("%w at line %d", ErrUnresolved, p.Line)
		}
		s, err := fn(n, depth)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// indent prefixes every non-empty line of s after the first with pad, and
// the first line with first.
func indent(s, first, pad string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		switch {
		case i == 0:
			lines[i] = first + l
		case l != "":
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// splitSection returns the Title leading a section, if any, and the rest of
// its children.
func splitSection(s *Section) (*Title, []Node) {
	if len(s.Children) > 0 {
		if t, ok := s.Children[0].(*Title); ok {
			return t, s.Children[1:]
		}
	}
	return nil, s.Children
}

func firstID(ids []string) string {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}
