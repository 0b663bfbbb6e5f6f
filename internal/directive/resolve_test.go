package directive

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/tsuru/tsuru-docs/internal/catalog"
	"github.com/tsuru/tsuru-docs/internal/handlers"
	"github.com/tsuru/tsuru-docs/internal/helptext"
	"github.com/tsuru/tsuru-docs/internal/markup"
)

func TestRenderCommand(t *testing.T) {
	t.Parallel()

	c := catalog.Catalog{
		"foo":  {Usage: "foo [opts]", Desc: "Does foo."},
		"apps": {Topic: "Apps are deployable units."},
	}

	tests := []struct {
		name    string
		command string
		title   string
		want    []markup.Node
	}{
		{
			name:    "command with title",
			command: "foo",
			title:   "Foo",
			want: []markup.Node{&markup.Section{
				IDs: []string{"foo"},
				Children: []markup.Node{
					markup.NewTitle("Foo"),
					&markup.LiteralBlock{Text: "$ foo [opts]", Language: "text"},
					markup.NewParagraph("Does foo."),
				},
			}},
		},
		{
			name:    "command without title",
			command: "foo",
			want: []markup.Node{&markup.Section{
				IDs: []string{""},
				Children: []markup.Node{
					&markup.LiteralBlock{Text: "$ foo [opts]", Language: "text"},
					markup.NewParagraph("Does foo."),
				},
			}},
		},
		{
			name:    "title id keeps every separator",
			command: "foo",
			title:   "App: Create (v2)",
			want: []markup.Node{&markup.Section{
				IDs: []string{"app--create--v2-"},
				Children: []markup.Node{
					markup.NewTitle("App: Create (v2)"),
					&markup.LiteralBlock{Text: "$ foo [opts]", Language: "text"},
					markup.NewParagraph("Does foo."),
				},
			}},
		},
		{
			name:    "topic ignores title",
			command: "apps",
			title:   "Apps",
			want:    []markup.Node{markup.NewParagraph("Apps are deployable units.")},
		},
		{
			name:    "unknown command",
			command: "bar",
			want:    []markup.Node{markup.NewError(12, "Command bar not found")},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := RenderCommand(c, tc.command, tc.title, 12)
			assert.Equal(t, tc.want, got)
		})
	}
}

const guide = `Client reference
================

.. tsuru-command:: app-create
   :title: app create

.. tsuru-command:: apps

.. tsuru-command:: missing

API
===

.. tsuru-handlers::
`

func TestResolver_Document(t *testing.T) {
	t.Parallel()

	doc := NewParser().Parse(guide)
	assert.Equal(t, Needs{Commands: true, Handlers: true}, Scan(doc.Children))

	descs, err := handlers.Decode([]byte("handlers:\n  - title: app list\n    path: /apps\n    method: GET\n    responses:\n      200: ok\n"))
	require.NoError(t, err)

	c := catalog.Catalog{
		"app-create": {
			Usage: "tsuru app-create <appname> <platform>",
			Desc:  "Creates a new app. See [[tsuru platform-list]]\nand the [docs](https://docs.tsuru.io/).\n\nFlags:\n\n  -p, --plan (= \"\")\n      The plan\n",
		},
		"apps": {Topic: "Apps are the unit of deployment."},
	}

	r := NewResolver(hclog.NewNullLogger(), WithCommands(c), WithHandlers(descs))
	require.NoError(t, r.Resolve(doc))
	assert.Equal(t, Needs{}, Scan(doc.Children))

	var buf bytes.Buffer
	require.NoError(t, markup.WriteRST(&buf, doc.Children))
	out := buf.String()

	assert.Contains(t, out, "Client reference\n================\n\napp create\n----------\n\n.. code-block:: text\n\n   $ tsuru app-create <appname> <platform>\n")
	assert.Contains(t, out, "Creates a new app. See ``tsuru platform-list``\nand the `docs <https://docs.tsuru.io/>`_.\n\nFlags:\n\n   -p, --plan  (= \"\")\n\n      The plan\n")
	assert.Contains(t, out, "\n\nApps are the unit of deployment.\n\n.. error::\n\n   Command missing not found\n")
	assert.Contains(t, out, "API\n===\n\n.. _handlers:\n\napp list\n--------\n\n- path: /apps\n- method: GET\n- 200: ok\n")
}

func TestResolver_MissingCatalogs(t *testing.T) {
	t.Parallel()

	r := NewResolver(hclog.NewNullLogger())

	doc := NewParser().Parse(".. tsuru-command:: app-list\n")
	require.ErrorIs(t, r.Resolve(doc), ErrCommandsNotLoaded)

	doc = NewParser().Parse("text\n\n.. tsuru-handlers::\n")
	require.ErrorIs(t, r.Resolve(doc), ErrHandlersNotLoaded)

	// An empty handlers file is still a loaded one.
	r = NewResolver(hclog.NewNullLogger(), WithHandlers(nil))
	require.NoError(t, r.Resolve(doc))

	doc = &markup.Document{Children: []markup.Node{&markup.Pending{Marker: "bogus", Line: 3}}}
	require.ErrorIs(t, r.Resolve(doc), ErrUnknownMarker)
}

func TestParser_DirectiveErrors(t *testing.T) {
	t.Parallel()

	doc := NewParser().Parse(".. tsuru-handlers:: extra\n\n.. tsuru-command::\n")
	require.Len(t, doc.Children, 2)
	assert.Equal(t, markup.NewError(1, "Error in \"tsuru-handlers\" directive:\nmaximum 0 argument(s) allowed, 1 supplied."), doc.Children[0])
	assert.Equal(t, markup.NewError(3, "Error in \"tsuru-command\" directive:\n1 argument(s) required, 0 supplied."), doc.Children[1])
	assert.Equal(t, Needs{}, Scan(doc.Children))
}

// TestCatalogRoundTrip extracts a catalog from synthetic help output and
// renders every entry in every format.
func TestCatalogRoundTrip(t *testing.T) {
	t.Parallel()

	ar, err := txtar.ParseFile("../helptext/testdata/tsuru.txtar")
	require.NoError(t, err)
	files := make(map[string][]byte, len(ar.Files))
	for _, f := range ar.Files {
		files[f.Name] = f.Data
	}
	runner := helptext.RunnerFunc(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		key := "commands"
		if len(args) == 2 {
			key = "help/" + args[1]
		}
		data, ok := files[key]
		if !ok {
			return nil, fmt.Errorf("no fixture for %q", key)
		}
		return data, nil
	})

	ex, err := helptext.NewExtractor(hclog.NewNullLogger(), "tsuru", helptext.WithRunner(runner))
	require.NoError(t, err)
	c, err := ex.Extract(context.Background())
	require.NoError(t, err)

	data, err := c.Marshal()
	require.NoError(t, err)
	c, err = catalog.Decode(data)
	require.NoError(t, err)
	require.NotEmpty(t, c)

	for _, name := range c.Names() {
		nodes := RenderCommand(c, name, strings.ToUpper(name), 1)
		markup.Walk(nodes, func(n markup.Node) bool {
			if msg, ok := n.(*markup.SystemMessage); ok {
				assert.NotEqual(t, markup.LevelError, msg.Level, "command %s: %s", name, msg.Message)
			}
			return true
		})
		for _, f := range markup.Formats() {
			require.NoError(t, markup.Write(&bytes.Buffer{}, f, nodes), "command %s as %s", name, f)
		}
	}
}
