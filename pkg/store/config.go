package store

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultDir is the rules directory used when none is configured, relative
// to the working directory.
const DefaultDir = ".agent/rules"

// Config configures the rules directory scan.
type Config struct {
	// Dir is the directory containing rule documents.
	Dir string `json:"dir,omitempty" jsonschema:"title=Directory"`
	// Extensions lists the document extensions to scan, including the dot.
	Extensions []string `json:"extensions,omitempty" jsonschema:"title=Extensions,minItems=1"`
}

// NewConfig returns a [Config] with default values.
func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults sets unset fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Dir == "" {
		c.Dir = DefaultDir
	}

	if len(c.Extensions) == 0 {
		c.Extensions = slices.Clone(DefaultExtensions)
	}
}

// Validate checks that every extension starts with a dot.
func (c *Config) Validate() error {
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("invalid extension %q: must start with a dot", ext)
		}
	}

	return nil
}

// Opts returns the [Opt]s described by the config.
func (c *Config) Opts() []Opt {
	return []Opt{WithExtensions(c.Extensions...)}
}
