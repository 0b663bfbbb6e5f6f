package markup

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var referenceRE = regexp.MustCompile("(?s)^`([^`]+?)\\s*<([^<>`]+)>`__?")

// parseInline splits paragraph text into inline nodes. Unterminated markup
// is kept as text and reported with a warning.
func parseInline(text string, line int) ([]Inline, []*SystemMessage) {
	var (
		out  []Inline
		msgs []*SystemMessage
		buf  strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, &Text{Value: buf.String()})
			buf.Reset()
		}
	}

	i := 0
	for i < len(text) {
		if !startOK(text, i) {
			r, size := utf8.DecodeRuneInString(text[i:])
			buf.WriteRune(r)
			i += size
			continue
		}
		switch {
		case strings.HasPrefix(text[i:], "``"):
			end := findEnd(text, i+2, "``")
			if end < 0 {
				msgs = append(msgs, &SystemMessage{Level: LevelWarning, Line: line, Message: "Inline literal start-string without end-string."})
				buf.WriteString("``")
				i += 2
				continue
			}
			flush()
			out = append(out, &Literal{Value: text[i+2 : end]})
			i = end + 2
		case text[i] == '`':
			if m := referenceRE.FindStringSubmatch(text[i:]); m != nil {
				flush()
				out = append(out, &Reference{Label: collapseSpace(m[1]), URL: strings.TrimSpace(m[2])})
				i += len(m[0])
				continue
			}
			end := findEnd(text, i+1, "`")
			if end < 0 {
				buf.WriteByte('`')
				i++
				continue
			}
			// A named reference ("`name`_" or "`name`__") has no target
			// here, so it is kept verbatim.
			if strings.HasPrefix(text[end+1:], "_") {
				stop := end + 2
				if strings.HasPrefix(text[stop:], "_") {
					stop++
				}
				buf.WriteString(text[i:stop])
				i = stop
				continue
			}
			flush()
			out = append(out, &Emphasis{Value: text[i+1 : end]})
			i = end + 1
		case strings.HasPrefix(text[i:], "**"):
			end := findEnd(text, i+2, "**")
			if end < 0 {
				msgs = append(msgs, &SystemMessage{Level: LevelWarning, Line: line, Message: "Inline strong start-string without end-string."})
				buf.WriteString("**")
				i += 2
				continue
			}
			flush()
			out = append(out, &Strong{Value: text[i+2 : end]})
			i = end + 2
		case text[i] == '*':
			end := findEnd(text, i+1, "*")
			if end < 0 {
				msgs = append(msgs, &SystemMessage{Level: LevelWarning, Line: line, Message: "Inline emphasis start-string without end-string."})
				buf.WriteByte('*')
				i++
				continue
			}
			flush()
			out = append(out, &Emphasis{Value: text[i+1 : end]})
			i = end + 1
		default:
			r, size := utf8.DecodeRuneInString(text[i:])
			buf.WriteRune(r)
			i += size
		}
	}
	flush()
	return out, msgs
}

// startOK reports whether inline markup may start at text[i]: it must
// follow whitespace, an opening bracket or the start of text, and must not
// be followed by whitespace.
func startOK(text string, i int) bool {
	c := text[i]
	if c != '`' && c != '*' {
		return false
	}
	if i > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:i])
		if !unicode.IsSpace(prev) && !strings.ContainsRune("'\"([{<-/:", prev) {
			return false
		}
	}
	n := 1
	if i+1 < len(text) && text[i+1] == c {
		n = 2
	}
	if i+n >= len(text) {
		return false
	}
	next, _ := utf8.DecodeRuneInString(text[i+n:])
	return !unicode.IsSpace(next)
}

// findEnd returns the index of the first end marker at or after from that
// is preceded by a non-space character and not followed by a word
// character, or -1.
func findEnd(text string, from int, marker string) int {
	for from < len(text) {
		idx := strings.Index(text[from:], marker)
		if idx < 0 {
			return -1
		}
		at := from + idx
		prev, _ := utf8.DecodeLastRuneInString(text[:at])
		after := at + len(marker)
		nextOK := true
		if after < len(text) {
			next, _ := utf8.DecodeRuneInString(text[after:])
			nextOK = !unicode.IsLetter(next) && !unicode.IsDigit(next)
		}
		if at > from && !unicode.IsSpace(prev) && nextOK {
			return at
		}
		from = at + 1
	}
	return -1
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
