// Package configs provides the Configuration type for dcx.
package configs

import (
	"fmt"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/dcx/api"
	"github.com/macropower/dcx/api/v1beta1"
	"github.com/macropower/dcx/pkg/mcp"
	"github.com/macropower/dcx/pkg/starter"
	"github.com/macropower/dcx/pkg/store"
	"github.com/macropower/dcx/pkg/yaml"
)

// Kind is the kind of the dcx configuration.
const Kind = "Configuration"

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	// ValidKinds contains the valid kind values for configurations.
	ValidKinds = []string{Kind}

	schemaJSON = mustGenerateSchema()

	// DefaultValidator validates configuration against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/configs.v1beta1.json", schemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Config represents the dcx configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Rules configures where rule documents are loaded from.
	Rules *store.Config `json:"rules,omitempty" jsonschema:"title=Rules"`
	// MCP configures the MCP server.
	MCP *mcp.Config `json:"mcp,omitempty" jsonschema:"title=MCP"`
	// Init configures project initialization.
	Init             *starter.Config `json:"init,omitempty" jsonschema:"title=Init"`
	v1beta1.TypeMeta `json:",inline"`
}

// New creates a new [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Rules == nil {
		c.Rules = store.NewConfig()
	} else {
		c.Rules.EnsureDefaults()
	}

	if c.MCP == nil {
		c.MCP = mcp.NewConfig()
	} else {
		c.MCP.EnsureDefaults()
	}

	if c.Init == nil {
		c.Init = starter.NewConfig()
	} else {
		c.Init.EnsureDefaults()
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Rules != nil {
		err := c.Rules.Validate()
		if err != nil {
			return fmt.Errorf("validate rules config: %w", err)
		}
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// Write writes the config to the specified path if it doesn't already exist.
func (c Config) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	_, err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// WriteDefault writes the embedded default config.yaml to the specified path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultConfigYAML
}

// Schema returns the JSON schema for [Config].
func Schema() []byte {
	return schemaJSON
}

// GetPath returns the path to the configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}

func mustGenerateSchema() []byte {
	b, err := v1beta1.GenerateSchema(&Config{}, "dcx configuration")
	if err != nil {
		panic(err)
	}

	return b
}
