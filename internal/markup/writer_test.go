package markup

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() []Node {
	return []Node{
		&Section{
			IDs: []string{"app-create"},
			Children: []Node{
				NewTitle("App create"),
				&LiteralBlock{Text: "$ tsuru app create <appname> <platform>", Language: "text"},
				&Paragraph{Inlines: []Inline{
					&Text{Value: "Creates an app. See "},
					&Literal{Value: "tsuru app-list"},
					&Text{Value: " and "},
					&Reference{Label: "the docs", URL: "https://docs.tsuru.io"},
					&Text{Value: "."},
				}},
				&BulletList{Items: []*ListItem{
					{Children: []Node{NewParagraph("path: /apps")}},
					{Children: []Node{NewParagraph("method: POST")}},
				}},
			},
		},
	}
}

func TestWriteRST(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteRST(&buf, sampleTree()))

	want := "App create\n" +
		"==========\n" +
		"\n" +
		".. code-block:: text\n" +
		"\n" +
		"   $ tsuru app create <appname> <platform>\n" +
		"\n" +
		"Creates an app. See ``tsuru app-list`` and `the docs <https://docs.tsuru.io>`_.\n" +
		"\n" +
		"- path: /apps\n" +
		"- method: POST\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteRST_LabelsAndMessages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	nodes := []Node{
		&Section{IDs: []string{"handlers"}, Children: []Node{NewTitle("List"), NewParagraph("x")}},
		NewError(4, "Command bar not found"),
	}
	require.NoError(t, WriteRST(&buf, nodes))

	want := ".. _handlers:\n\n" +
		"List\n====\n\n" +
		"x\n\n" +
		".. error::\n\n" +
		"   Command bar not found\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteMarkdown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sampleTree()))

	want := "# App create {#app-create}\n" +
		"\n" +
		"```text\n" +
		"$ tsuru app create <appname> <platform>\n" +
		"```\n" +
		"\n" +
		"Creates an app. See `tsuru app-list` and [the docs](https://docs.tsuru.io).\n" +
		"\n" +
		"- path: /apps\n" +
		"- method: POST\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleTree()))

	out := buf.String()
	assert.Contains(t, out, `<h1 id="app-create">App create</h1>`)
	assert.Contains(t, out, `<pre><code class="language-text">$ tsuru app create &lt;appname&gt; &lt;platform&gt;`)
	assert.Contains(t, out, `<code>tsuru app-list</code>`)
	assert.Contains(t, out, `<a href="https://docs.tsuru.io">the docs</a>`)
	assert.Contains(t, out, "<li>path: /apps</li>")
}

func TestWrite_Unresolved(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		err := Write(&bytes.Buffer{}, f, []Node{&Pending{Marker: "x", Line: 7}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnresolved))
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("MD")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)
	assert.Equal(t, ".md", f.Extension())

	_, err = ParseFormat("pdf")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRoundTripRST(t *testing.T) {
	t.Parallel()

	var first bytes.Buffer
	require.NoError(t, WriteRST(&first, sampleTree()))

	var second bytes.Buffer
	require.NoError(t, WriteRST(&second, Parse(first.String()).Children))
	assert.Equal(t, first.String(), second.String())
}
