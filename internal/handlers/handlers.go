// Package handlers loads API handler descriptors from handlers.yml and
// renders them as documentation.
package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsuru/tsuru-docs/internal/markup"
)

// DefaultFileName is read from the working directory unless configured
// otherwise.
const DefaultFileName = "handlers.yml"

var ErrNotFound = errors.New("handlers.yml file not found")

// Response documents one status code of a handler.
type Response struct {
	Status      string
	Description string
}

// Descriptor documents one API endpoint. Optional fields are nil when the
// key is absent from the YAML.
type Descriptor struct {
	Title     string
	Path      string
	Produce   *string
	Consume   *string
	Method    *string
	Responses []Response
}

// UnmarshalYAML reads a descriptor mapping, keeping the order of the
// responses mapping. Unknown keys are ignored.
func (d *Descriptor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: handler must be a mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		switch key.Value {
		case "title":
			if err := val.Decode(&d.Title); err != nil {
				return err
			}
		case "path":
			if err := val.Decode(&d.Path); err != nil {
				return err
			}
		case "produce":
			d.Produce = scalar(val)
		case "consume":
			d.Consume = scalar(val)
		case "method":
			d.Method = scalar(val)
		case "responses":
			responses, err := decodeResponses(val)
			if err != nil {
				return err
			}
			d.Responses = responses
		}
	}
	return nil
}

func scalar(n *yaml.Node) *string {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return nil
	}
	v := n.Value
	return &v
}

func decodeResponses(n *yaml.Node) ([]Response, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: responses must be a mapping", n.Line)
	}
	out := make([]Response, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var desc string
		if err := n.Content[i+1].Decode(&desc); err != nil {
			return nil, fmt.Errorf("response %s: %w", n.Content[i].Value, err)
		}
		out = append(out, Response{Status: n.Content[i].Value, Description: desc})
	}
	return out, nil
}

type file struct {
	Handlers []Descriptor `yaml:"handlers"`
}

// Decode parses a handlers document. A document without a "handlers" key
// has no descriptors.
func Decode(data []byte) ([]Descriptor, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode handlers: %w", err)
	}
	return f.Handlers, nil
}

// Load reads and decodes the handlers file at path.
func Load(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	descs, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return descs, nil
}

// Render returns a "handlers" section holding one titled subsection per
// descriptor, in order, each listing the descriptor's fields.
func Render(descs []Descriptor) []markup.Node {
	section := &markup.Section{IDs: []string{"handlers"}}
	for _, d := range descs {
		section.Children = append(section.Children, &markup.Section{
			IDs:      []string{markup.TitleID(d.Title)},
			Children: []markup.Node{markup.NewTitle(d.Title), &markup.BulletList{Items: items(d)}},
		})
	}
	return []markup.Node{section}
}

func items(d Descriptor) []*markup.ListItem {
	var out []*markup.ListItem
	add := func(key, value string) {
		out = append(out, &markup.ListItem{Children: []markup.Node{markup.NewParagraph(key + ": " + value)}})
	}
	add("path", d.Path)
	if d.Produce != nil {
		add("produce", *d.Produce)
	}
	if d.Consume != nil {
		add("consume", *d.Consume)
	}
	if d.Method != nil {
		add("method", *d.Method)
	}
	for _, r := range d.Responses {
		add(r.Status, r.Description)
	}
	return out
}
