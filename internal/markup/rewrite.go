package markup

import "regexp"

// The three rewrites run in this order. The link pattern must see the
// text after "[[" and "]]" are gone so that "[[x]]" is never read as a link
// label.
var (
	inlineLiteralRE = regexp.MustCompile(`\[\[|\]\]`)
	linkRE          = regexp.MustCompile(`(?s)\[(.+?)\]\((.+?)\)`)
	flagDefaultRE   = regexp.MustCompile(`(\w\s)\((= .+?)\)`)
)

// Rewrite converts the markdown-flavoured markup found in CLI help text into
// reStructuredText:
//
//   - "[[" and "]]" become the inline literal marker "``";
//   - "[label](url)" becomes "`label <url>`_";
//   - a flag default such as "-a (= x)" gets one extra space before the
//     parenthesis, so it reads "-a  (= x)".
//
// Text containing none of these patterns is returned unchanged.
func Rewrite(desc string) string {
	desc = inlineLiteralRE.ReplaceAllLiteralString(desc, "``")
	desc = linkRE.ReplaceAllString(desc, "`${1} <${2}>`_")
	desc = flagDefaultRE.ReplaceAllString(desc, "${1} (${2})")
	return desc
}

// RewriteFragment rewrites desc and parses the result as a standalone
// document with default parser settings, returning its top-level nodes.
func RewriteFragment(desc string) []Node {
	return Parse(Rewrite(desc)).Children
}
