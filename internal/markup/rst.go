package markup

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// rstAdornments are underline characters by section depth.
var rstAdornments = []string{"=", "-", "~", "^", "\"", "'", "`"}

// WriteRST renders nodes as reStructuredText.
func WriteRST(w io.Writer, nodes []Node) error {
	out, err := joinBlocks(nodes, 1, rstBlock)
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}

func rstBlock(n Node, depth int) (string, error) {
	switch v := n.(type) {
	case *Section:
		title, rest := splitSection(v)
		var parts []string
		for _, id := range v.IDs {
			if id != "" && (title == nil || id != makeID(PlainText(title.Inlines))) {
				parts = append(parts, fmt.Sprintf(".. _%s:", id))
			}
		}
		if title != nil {
			parts = append(parts, rstHeading(title, depth))
		}
		inner := depth
		if title != nil {
			inner++
		}
		body, err := joinBlocks(rest, inner, rstBlock)
		if err != nil {
			return "", err
		}
		if body != "" {
			parts = append(parts, body)
		}
		return strings.Join(parts, "\n\n"), nil
	case *Title:
		return rstHeading(v, depth), nil
	case *Paragraph:
		return rstInlines(v.Inlines), nil
	case *LiteralBlock:
		head := "::"
		if v.Language != "" {
			head = ".. code-block:: " + v.Language
		}
		if v.Text == "" {
			return head, nil
		}
		return head + "\n\n" + indent(v.Text, "   ", "   "), nil
	case *BulletList:
		items := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			body, err := joinBlocks(item.Children, depth, rstBlock)
			if err != nil {
				return "", err
			}
			items = append(items, indent(body, "- ", "  "))
		}
		return strings.Join(items, "\n"), nil
	case *ListItem:
		body, err := joinBlocks(v.Children, depth, rstBlock)
		if err != nil {
			return "", err
		}
		return indent(body, "- ", "  "), nil
	case *BlockQuote:
		body, err := joinBlocks(v.Children, depth, rstBlock)
		if err != nil {
			return "", err
		}
		return indent(body, "   ", "   "), nil
	case *Comment:
		return indent(v.Text, ".. ", "   "), nil
	case *SystemMessage:
		kind := "error"
		switch v.Level {
		case LevelInfo:
			kind = "note"
		case LevelWarning:
			kind = "warning"
		}
		return fmt.Sprintf(".. %s::\n\n%s", kind, indent(v.Message, "   ", "   ")), nil
	}
	return "", fmt.Errorf("rst: unsupported node %T", n)
}

func rstHeading(t *Title, depth int) string {
	text := rstInlines(t.Inlines)
	idx := depth - 1
	if idx >= len(rstAdornments) {
		idx = len(rstAdornments) - 1
	}
	width := utf8.RuneCountInString(text)
	if width == 0 {
		width = 1
	}
	return text + "\n" + strings.Repeat(rstAdornments[idx], width)
}

func rstInlines(inlines []Inline) string {
	var b strings.Builder
	for _, in := range inlines {
		switch v := in.(type) {
		case *Text:
			b.WriteString(v.Value)
		case *Literal:
			b.WriteString("``" + v.Value + "``")
		case *Emphasis:
			b.WriteString("*" + v.Value + "*")
		case *Strong:
			b.WriteString("**" + v.Value + "**")
		case *Reference:
			b.WriteString("`" + v.Label + " <" + v.URL + ">`_")
		}
	}
	return b.String()
}
