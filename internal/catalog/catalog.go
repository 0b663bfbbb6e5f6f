// Package catalog reads and writes the command catalog (cmds.json): the
// parsed help text of every subcommand of a CLI, keyed by command name.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// DefaultFileName is the catalog file name looked up on each search path.
const DefaultFileName = "cmds.json"

var (
	ErrNotFound     = errors.New("cmds.json file not found")
	ErrInvalidEntry = errors.New("invalid catalog entry")
)

// DefaultSearchPaths returns the directories searched for the catalog, in
// order.
func DefaultSearchPaths() []string {
	return []string{".", "docs", ".."}
}

// Entry is either a runnable command (Usage and Desc) or a help topic
// (Topic), never both.
type Entry struct {
	Usage string `json:"usage,omitempty"`
	Desc  string `json:"desc,omitempty"`
	Topic string `json:"topic,omitempty"`
}

// IsTopic reports whether e is a help topic rather than a command.
func (e Entry) IsTopic() bool {
	return e.Topic != ""
}

// Validate checks that e holds exactly one variant.
func (e Entry) Validate() error {
	command := e.Usage != "" || e.Desc != ""
	switch {
	case command && e.Topic != "":
		return fmt.Errorf("%w: has both topic and usage/desc", ErrInvalidEntry)
	case !command && e.Topic == "":
		return fmt.Errorf("%w: needs either topic or usage/desc", ErrInvalidEntry)
	}
	return nil
}

// Catalog maps command names to their entries. It is built once and only
// read afterwards.
type Catalog map[string]Entry

// Lookup returns the entry for name.
func (c Catalog) Lookup(name string) (Entry, bool) {
	e, ok := c[name]
	return e, ok
}

// Names returns the command names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every entry and reports the first invalid one by name.
func (c Catalog) Validate() error {
	for _, name := range c.Names() {
		if err := c[name].Validate(); err != nil {
			return fmt.Errorf("command %q: %w", name, err)
		}
	}
	return nil
}

// Marshal encodes c as indented JSON with sorted keys.
func (c Catalog) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]Entry(c)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses and validates catalog JSON.
func Decode(data []byte) (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if c == nil {
		c = Catalog{}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Find returns the path of the first readable file named name under dirs.
func Find(name string, dirs []string) (string, error) {
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		_ = f.Close()
		return path, nil
	}
	return "", fmt.Errorf("%w (searched %v)", ErrNotFound, dirs)
}

// Load finds name on the search path and decodes it. A file that is missing
// from every directory is reported with ErrNotFound.
func Load(name string, dirs []string) (Catalog, string, error) {
	path, err := Find(name, dirs)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	c, err := Decode(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return c, path, nil
}

// ReadFile decodes the catalog at path. A missing file yields an empty
// catalog and fs.ErrNotExist.
func ReadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Catalog{}, err
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data)
}

// WriteFile writes c to dir/name and returns the path written.
func WriteFile(c Catalog, dir, name string) (string, error) {
	data, err := c.Marshal()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
