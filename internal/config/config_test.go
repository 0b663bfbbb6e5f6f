package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsuru/tsuru-docs/internal/markup"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".tsuru-docs.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), ".tsuru-docs.toml")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "cmds.json", cfg.Catalog.File)
	require.Equal(t, []string{".", "docs", ".."}, cfg.Catalog.SearchPaths)
	require.Equal(t, "handlers.yml", cfg.Handlers.File)
	require.Equal(t, "tsuru", cfg.Extract.Tool)
	require.Equal(t, ".", cfg.Extract.Destination)
	require.Equal(t, markup.FormatRST, cfg.Format())

	_, err = Load(missing, true)
	require.ErrorIs(t, err, ErrConfigLoadFailed)
	require.ErrorContains(t, err, "cannot be found")
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
[catalog]
search_paths = ["docs/reference"]

[extract]
tool = "go run ./cmd/tsuru"

[render]
format = "markdown"
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	require.Equal(t, "cmds.json", cfg.Catalog.File)
	require.Equal(t, []string{"docs/reference"}, cfg.Catalog.SearchPaths)
	require.Equal(t, "handlers.yml", cfg.Handlers.File)
	require.Equal(t, "go run ./cmd/tsuru", cfg.Extract.Tool)
	require.Equal(t, markup.FormatMarkdown, cfg.Format())
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "invalid toml",
			content: "[catalog\nfile = 1",
			errMsg:  "failed to decode config",
		},
		{
			name:    "unknown format",
			content: "[render]\nformat = \"pdf\"\n",
			errMsg:  "render.format",
		},
		{
			name:    "empty search paths",
			content: "[catalog]\nsearch_paths = []\n",
			errMsg:  "catalog.search_paths",
		},
		{
			name:    "blank search path",
			content: "[catalog]\nsearch_paths = [\"docs\", \" \"]\n",
			errMsg:  "catalog.search_paths",
		},
		{
			name:    "empty tool",
			content: "[extract]\ntool = \"\"\n",
			errMsg:  "extract.tool",
		},
		{
			name:    "empty handlers file",
			content: "[handlers]\nfile = \"\"\n",
			errMsg:  "handlers.file",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeConfig(t, tc.content), false)
			require.ErrorIs(t, err, ErrConfigLoadFailed)
			require.ErrorContains(t, err, tc.errMsg)
		})
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := Load("  ", false)
	require.ErrorIs(t, err, ErrConfigLoadFailed)
}

func TestValidate_JoinsErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Extract.Tool = ""
	cfg.Render.Format = "pdf"

	err := cfg.validate()
	require.ErrorIs(t, err, ErrInvalidValue)
	require.ErrorContains(t, err, "extract.tool")
	require.ErrorContains(t, err, "render.format")
}
