// Package config loads the optional .tsuru-docs.toml project file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tsuru/tsuru-docs/internal/catalog"
	"github.com/tsuru/tsuru-docs/internal/handlers"
	"github.com/tsuru/tsuru-docs/internal/helptext"
	"github.com/tsuru/tsuru-docs/internal/markup"
)

var (
	ErrConfigLoadFailed = errors.New("failed to load configuration")
	ErrInvalidValue     = errors.New("config value invalid")
)

// NewErrInvalidValue returns an error for an invalid configuration value.
func NewErrInvalidValue(key string, value string) error {
	return fmt.Errorf("%w: '%s' (value: '%s')", ErrInvalidValue, key, value)
}

type Config struct {
	Catalog  CatalogSection  `toml:"catalog"`
	Handlers HandlersSection `toml:"handlers"`
	Extract  ExtractSection  `toml:"extract"`
	Render   RenderSection   `toml:"render"`
}

type CatalogSection struct {
	File        string   `toml:"file"`
	SearchPaths []string `toml:"search_paths"`
}

type HandlersSection struct {
	File string `toml:"file"`
}

type ExtractSection struct {
	Tool        string `toml:"tool"`
	Destination string `toml:"destination"`
}

type RenderSection struct {
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Catalog: CatalogSection{
			File:        catalog.DefaultFileName,
			SearchPaths: catalog.DefaultSearchPaths(),
		},
		Handlers: HandlersSection{File: handlers.DefaultFileName},
		Extract:  ExtractSection{Tool: helptext.DefaultTool, Destination: "."},
		Render:   RenderSection{Format: string(markup.FormatRST)},
	}
}

// Load reads the config file at path over the defaults. A missing file is
// only an error when explicit is set, i.e. the user named the file.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()

	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if !explicit {
				return Default(), nil
			}
			return nil, fmt.Errorf("%w: config file cannot be found (%s)", ErrConfigLoadFailed, path)
		}
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	return cfg, nil
}

// Format returns the configured output format.
func (c *Config) Format() markup.Format {
	f, err := markup.ParseFormat(c.Render.Format)
	if err != nil {
		return markup.FormatRST
	}
	return f
}

func (c *Config) validate() error {
	var errs []error

	if strings.TrimSpace(c.Catalog.File) == "" {
		errs = append(errs, NewErrInvalidValue("catalog.file", c.Catalog.File))
	}
	if len(c.Catalog.SearchPaths) == 0 {
		errs = append(errs, fmt.Errorf("%w: 'catalog.search_paths' cannot be empty", ErrInvalidValue))
	}
	for _, p := range c.Catalog.SearchPaths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, NewErrInvalidValue("catalog.search_paths", p))
		}
	}
	if strings.TrimSpace(c.Handlers.File) == "" {
		errs = append(errs, NewErrInvalidValue("handlers.file", c.Handlers.File))
	}
	if strings.TrimSpace(c.Extract.Tool) == "" {
		errs = append(errs, NewErrInvalidValue("extract.tool", c.Extract.Tool))
	}
	if _, err := markup.ParseFormat(c.Render.Format); err != nil {
		errs = append(errs, NewErrInvalidValue("render.format", c.Render.Format))
	}

	return errors.Join(errs...)
}
