package markup

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
)

// WriteMarkdown renders nodes as Markdown. Section ids are emitted as
// heading attributes ("## Title {#id}").
func WriteMarkdown(w io.Writer, nodes []Node) error {
	out, err := joinBlocks(nodes, 1, mdBlock)
	if err != nil {
		return err
	}
	if out == "" {
		return nil
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}

// WriteHTML renders nodes as an HTML fragment by converting the Markdown
// rendering with goldmark.
func WriteHTML(w io.Writer, nodes []Node) error {
	var md bytes.Buffer
	if err := WriteMarkdown(&md, nodes); err != nil {
		return err
	}
	conv := goldmark.New(goldmark.WithParserOptions(parser.WithAttribute()))
	if err := conv.Convert(md.Bytes(), w); err != nil {
		return fmt.Errorf("html: convert markdown: %w", err)
	}
	return nil
}

func mdBlock(n Node, depth int) (string, error) {
	switch v := n.(type) {
	case *Section:
		title, rest := splitSection(v)
		var parts []string
		if title != nil {
			parts = append(parts, mdHeading(title, depth, firstID(v.IDs)))
		}
		inner := depth
		if title != nil {
			inner++
		}
		body, err := joinBlocks(rest, inner, mdBlock)
		if err != nil {
			return "", err
		}
		if body != "" {
			parts = append(parts, body)
		}
		return strings.Join(parts, "\n\n"), nil
	case *Title:
		return mdHeading(v, depth, ""), nil
	case *Paragraph:
		return mdInlines(v.Inlines), nil
	case *LiteralBlock:
		fence := strings.Repeat("`", max(3, longestRun(v.Text, '`')+1))
		return fence + v.Language + "\n" + v.Text + "\n" + fence, nil
	case *BulletList:
		items := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			body, err := joinBlocks(item.Children, depth, mdBlock)
			if err != nil {
				return "", err
			}
			items = append(items, indent(body, "- ", "  "))
		}
		return strings.Join(items, "\n"), nil
	case *ListItem:
		body, err := joinBlocks(v.Children, depth, mdBlock)
		if err != nil {
			return "", err
		}
		return indent(body, "- ", "  "), nil
	case *BlockQuote:
		body, err := joinBlocks(v.Children, depth, mdBlock)
		if err != nil {
			return "", err
		}
		return quote(body), nil
	case *Comment:
		return "<!-- " + strings.ReplaceAll(v.Text, "--", "- -") + " -->", nil
	case *SystemMessage:
		msg := fmt.Sprintf("**%s**", v.Level)
		if v.Line > 0 {
			msg += fmt.Sprintf(" (line %d)", v.Line)
		}
		return quote(msg + ": " + v.Message), nil
	}
	return "", fmt.Errorf("markdown: unsupported node %T", n)
}

func mdHeading(t *Title, depth int, id string) string {
	h := strings.Repeat("#", min(depth, 6)) + " " + mdInlines(t.Inlines)
	if id != "" {
		h += " {#" + id + "}"
	}
	return h
}

func mdInlines(inlines []Inline) string {
	var b strings.Builder
	for _, in := range inlines {
		switch v := in.(type) {
		case *Text:
			b.WriteString(escapeMarkdown(v.Value))
		case *Literal:
			ticks := strings.Repeat("`", longestRun(v.Value, '`')+1)
			if strings.HasPrefix(v.Value, "`") || strings.HasSuffix(v.Value, "`") {
				b.WriteString(ticks + " " + v.Value + " " + ticks)
			} else {
				b.WriteString(ticks + v.Value + ticks)
			}
		case *Emphasis:
			b.WriteString("*" + escapeMarkdown(v.Value) + "*")
		case *Strong:
			b.WriteString("**" + escapeMarkdown(v.Value) + "**")
		case *Reference:
			b.WriteString("[" + escapeMarkdown(v.Label) + "](" + v.URL + ")")
		}
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

func longestRun(s string, c byte) int {
	best, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			best = max(best, cur)
			continue
		}
		cur = 0
	}
	return best
}
