package markup

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Directive is an explicit-markup block of the form ".. name:: args".
type Directive struct {
	Name      string
	Arguments []string
	Options   map[string]string
	Content   []string
	Line      int
}

// DirectiveSpec describes the arguments, options and content a directive
// accepts. The parser rejects blocks that do not fit it with an error
// SystemMessage, so DirectiveFuncs only see well-formed input.
type DirectiveSpec struct {
	RequiredArguments int
	OptionalArguments int
	// FinalArgumentWhitespace lets the last argument contain spaces.
	FinalArgumentWhitespace bool
	Options                 []string
	HasContent              bool
}

// DirectiveFunc turns a parsed directive into the nodes that replace it.
type DirectiveFunc func(d Directive) []Node

type directiveEntry struct {
	spec DirectiveSpec
	fn   DirectiveFunc
}

// Parser parses source text. The zero value is not usable; use NewParser.
type Parser struct {
	directives map[string]directiveEntry
}

// NewParser returns a parser with default settings. Only the built-in
// "code-block" directive is registered.
func NewParser() *Parser {
	p := &Parser{directives: make(map[string]directiveEntry)}
	codeBlock := DirectiveSpec{OptionalArguments: 1, HasContent: true}
	p.Register("code-block", codeBlock, codeBlockDirective)
	p.Register("code", codeBlock, codeBlockDirective)
	return p
}

// Register adds or replaces a directive handler.
func (p *Parser) Register(name string, spec DirectiveSpec, fn DirectiveFunc) {
	p.directives[strings.ToLower(name)] = directiveEntry{spec: spec, fn: fn}
}

// Parse parses src with a default parser.
func Parse(src string) *Document {
	return NewParser().Parse(src)
}

// Parse parses src into a document. Problems in the source are reported as
// SystemMessage nodes in the tree, never as errors.
func (p *Parser) Parse(src string) *Document {
	st := &state{parser: p}
	return &Document{
		Source:   src,
		Children: st.parseBlocks(splitLines(src), 1, true),
	}
}

func codeBlockDirective(d Directive) []Node {
	lang := ""
	if len(d.Arguments) > 0 {
		lang = d.Arguments[0]
	}
	return []Node{&LiteralBlock{Text: strings.Join(d.Content, "\n"), Language: lang}}
}

type state struct {
	parser *Parser
	// styles records section adornments in order of first appearance; the
	// index of a style is its section level minus one.
	styles []string
}

var (
	directiveRE = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9_.+:-]*?)::(?:\s+(.*))?$`)
	optionRE    = regexp.MustCompile(`^:([A-Za-z0-9_-]+):(?:\s+(.*))?$`)
	titleIDRE   = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

func (st *state) parseBlocks(lines []string, first int, top bool) []Node {
	var (
		out   []Node
		stack []*Section
	)
	emit := func(nodes ...Node) {
		if len(stack) > 0 {
			s := stack[len(stack)-1]
			s.Children = append(s.Children, nodes...)
			return
		}
		out = append(out, nodes...)
	}

	i := 0
	for i < len(lines) {
		line := lines[i]
		lineNo := first + i
		if isBlank(line) {
			i++
			continue
		}

		if indentOf(line) > 0 {
			end := indentedEnd(lines, i)
			body := trimTrailingBlank(dedent(lines[i:end]))
			emit(&BlockQuote{Children: st.parseBlocks(body, lineNo, false)})
			i = end
			continue
		}

		if top {
			if title, style, n, ok := sectionTitle(lines, i); ok {
				level := st.level(style)
				if level > len(stack)+1 {
					level = len(stack) + 1
				}
				stack = stack[:level-1]
				inlines, msgs := parseInline(title, lineNo)
				sec := &Section{
					IDs:      []string{makeID(title)},
					Children: []Node{&Title{Inlines: inlines}},
				}
				for _, m := range msgs {
					sec.Children = append(sec.Children, m)
				}
				emit(sec)
				stack = append(stack, sec)
				i += n
				continue
			}
		}

		if strings.HasPrefix(line, "..") && (len(line) == 2 || line[2] == ' ') {
			end := indentedEnd(lines, i+1)
			emit(st.explicit(lines[i:end], lineNo)...)
			i = end
			continue
		}

		if isBullet(line) {
			list, end := st.bulletList(lines, i, first)
			emit(list)
			i = end
			continue
		}

		j := i
		for j < len(lines) && !isBlank(lines[j]) && indentOf(lines[j]) == 0 {
			j++
		}
		text := strings.Join(lines[i:j], "\n")
		i = j

		literal := strings.HasSuffix(text, "::")
		if literal {
			switch {
			case text == "::":
				text = ""
			case strings.HasSuffix(text, " ::"), strings.HasSuffix(text, "\n::"):
				text = strings.TrimRight(text[:len(text)-2], " \n")
			default:
				text = text[:len(text)-1]
			}
		}
		if text != "" {
			inlines, msgs := parseInline(text, lineNo)
			emit(&Paragraph{Inlines: inlines})
			for _, m := range msgs {
				emit(m)
			}
		}
		if !literal {
			continue
		}

		k := i
		for k < len(lines) && isBlank(lines[k]) {
			k++
		}
		if k < len(lines) && indentOf(lines[k]) > 0 {
			end := indentedEnd(lines, k)
			body := trimTrailingBlank(dedent(lines[k:end]))
			emit(&LiteralBlock{Text: strings.Join(body, "\n")})
			i = end
			continue
		}
		emit(&SystemMessage{Level: LevelWarning, Line: first + i, Message: "Literal block expected; none found."})
	}
	return out
}

func (st *state) level(style string) int {
	for i, s := range st.styles {
		if s == style {
			return i + 1
		}
	}
	st.styles = append(st.styles, style)
	return len(st.styles)
}

// sectionTitle detects an underlined or over-and-underlined title starting
// at lines[i]. It returns the title text, the adornment style and the number
// of lines consumed.
func sectionTitle(lines []string, i int) (string, string, int, bool) {
	if i+2 < len(lines) && isAdornment(lines[i]) && !isBlank(lines[i+1]) && lines[i+2] == lines[i] {
		title := strings.TrimSpace(lines[i+1])
		return title, "over" + lines[i][:1], 3, true
	}
	if i+1 < len(lines) && !isAdornment(lines[i]) && isAdornment(lines[i+1]) {
		title := strings.TrimSpace(lines[i])
		under := lines[i+1]
		if len(under) >= utf8.RuneCountInString(title) || len(under) >= 4 {
			return title, "under" + under[:1], 2, true
		}
	}
	return "", "", 0, false
}

func (st *state) explicit(lines []string, lineNo int) []Node {
	head := strings.TrimSpace(strings.TrimPrefix(lines[0], ".."))
	body := trimTrailingBlank(dedent(lines[1:]))

	m := directiveRE.FindStringSubmatch(head)
	if m == nil {
		text := head
		if len(body) > 0 {
			text = strings.TrimSpace(text + "\n" + strings.Join(body, "\n"))
		}
		return []Node{&Comment{Text: text}}
	}

	name := strings.ToLower(m[1])
	entry, ok := st.parser.directives[name]
	if !ok {
		return []Node{NewError(lineNo, fmt.Sprintf("Unknown directive type %q.", m[1]))}
	}
	fail := func(format string, args ...any) []Node {
		return []Node{NewError(lineNo, fmt.Sprintf("Error in %q directive:\n", name)+fmt.Sprintf(format, args...))}
	}

	var argLines []string
	if strings.TrimSpace(m[2]) != "" {
		argLines = append(argLines, strings.TrimSpace(m[2]))
	}
	idx := 0
	for idx < len(body) && !isBlank(body[idx]) && !strings.HasPrefix(body[idx], ":") {
		argLines = append(argLines, strings.TrimSpace(body[idx]))
		idx++
	}

	d := Directive{Name: name, Line: lineNo, Options: make(map[string]string)}
	for idx < len(body) && !isBlank(body[idx]) {
		opt := optionRE.FindStringSubmatch(body[idx])
		if opt == nil {
			return fail("invalid option block.")
		}
		if !containsString(entry.spec.Options, opt[1]) {
			return fail("unknown option: %q.", opt[1])
		}
		d.Options[opt[1]] = strings.TrimSpace(opt[2])
		idx++
	}
	for idx < len(body) && isBlank(body[idx]) {
		idx++
	}
	d.Content = body[idx:]

	args, err := splitArguments(strings.Join(argLines, " "), entry.spec)
	if err != "" {
		return fail("%s", err)
	}
	d.Arguments = args
	if len(d.Content) > 0 && !entry.spec.HasContent {
		return fail("no content permitted.")
	}
	return entry.fn(d)
}

func splitArguments(raw string, spec DirectiveSpec) ([]string, string) {
	max := spec.RequiredArguments + spec.OptionalArguments
	var args []string
	if raw != "" {
		if spec.FinalArgumentWhitespace && max > 0 {
			args = strings.SplitN(raw, " ", max)
			if len(args) == max {
				args[max-1] = strings.TrimSpace(args[max-1])
			}
		} else {
			args = strings.Fields(raw)
		}
	}
	if len(args) < spec.RequiredArguments {
		return nil, fmt.Sprintf("%d argument(s) required, %d supplied.", spec.RequiredArguments, len(args))
	}
	if len(args) > max {
		return nil, fmt.Sprintf("maximum %d argument(s) allowed, %d supplied.", max, len(args))
	}
	return args, ""
}

func (st *state) bulletList(lines []string, i, first int) (*BulletList, int) {
	marker := lines[i][0]
	list := &BulletList{}
	for i < len(lines) && isBullet(lines[i]) && lines[i][0] == marker {
		start := i
		textIndent := bulletTextIndent(lines[i])
		body := []string{strings.TrimSpace(lines[i][1:])}
		j := i + 1
		for j < len(lines) && (isBlank(lines[j]) || indentOf(lines[j]) >= textIndent) {
			if isBlank(lines[j]) {
				body = append(body, "")
			} else {
				body = append(body, lines[j][textIndent:])
			}
			j++
		}
		body = trimTrailingBlank(body)
		list.Items = append(list.Items, &ListItem{Children: st.parseBlocks(body, first+start, false)})

		k := j
		for k < len(lines) && isBlank(lines[k]) {
			k++
		}
		if k < len(lines) && isBullet(lines[k]) && lines[k][0] == marker {
			i = k
			continue
		}
		i = j
		break
	}
	return list, i
}

func isBullet(line string) bool {
	if line == "" {
		return false
	}
	switch line[0] {
	case '-', '*', '+':
		return len(line) == 1 || line[1] == ' '
	}
	return false
}

func bulletTextIndent(line string) int {
	n := 1
	for n < len(line) && line[n] == ' ' {
		n++
	}
	if n == len(line) {
		return 2
	}
	return n
}

const adornmentChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

func isAdornment(line string) bool {
	if len(line) < 2 || !strings.ContainsRune(adornmentChars, rune(line[0])) {
		return false
	}
	for i := 1; i < len(line); i++ {
		if line[i] != line[0] {
			return false
		}
	}
	return true
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

// indentedEnd returns the index of the first line at or after i that is
// non-blank and not indented, or len(lines).
func indentedEnd(lines []string, i int) int {
	for i < len(lines) && (isBlank(lines[i]) || indentOf(lines[i]) > 0) {
		i++
	}
	return i
}

func dedent(lines []string) []string {
	min := -1
	for _, l := range lines {
		if isBlank(l) {
			continue
		}
		if n := indentOf(l); min == -1 || n < min {
			min = n
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if isBlank(l) {
			continue
		}
		out[i] = l[min:]
	}
	return out
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func splitLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(expandTabs(l), " ")
	}
	return lines
}

func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := 8 - col%8
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// makeID normalizes a title into a section id: lower case, runs of
// non-alphanumerics collapsed to a single hyphen, no leading or trailing
// hyphen.
func makeID(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}

// TitleID derives the id of a generated section from its title: every
// character other than an ASCII letter or digit becomes a hyphen, then the
// result is lower-cased. Unlike makeID it keeps repeated and edge hyphens.
func TitleID(title string) string {
	return strings.ToLower(titleIDRE.ReplaceAllString(title, "-"))
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
