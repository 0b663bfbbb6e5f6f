// Package helptext turns the raw "help" output of a CLI into catalog
// entries and drives the CLI to collect that output.
package helptext

import (
	"regexp"

	"github.com/tsuru/tsuru-docs/internal/catalog"
)

// Help output is recognised by two patterns, tried in order. Both are
// anchored at the start of the text and let "." cross newlines; runs of
// newlines are the only structural delimiters.
var (
	// commandRE: "<tool> version <v>. ... Usage: <usage>\n\n<description>".
	// The greedy ".*" before "Usage: " selects the last usage line.
	commandRE = regexp.MustCompile(`(?s)\A.+? version.*Usage: (.*?)\n+(.*)`)
	// topicRE: "<tool> version <v>.\n\n<topic>\n\n<paragraph>\n\n  <indented>".
	topicRE = regexp.MustCompile(`(?s)\A.+? version.*?\n+(.*)\n\n.*?\n\n  `)
)

// Parse extracts a catalog entry from the help output of one command. It
// returns false when the text matches neither the command nor the topic
// form, or when the match would produce an empty entry.
func Parse(text string) (catalog.Entry, bool) {
	if m := commandRE.FindStringSubmatch(text); m != nil {
		e := catalog.Entry{Usage: m[1], Desc: m[2]}
		return e, e.Validate() == nil
	}
	if m := topicRE.FindStringSubmatch(text); m != nil {
		e := catalog.Entry{Topic: m[1]}
		return e, e.Validate() == nil
	}
	return catalog.Entry{}, false
}
