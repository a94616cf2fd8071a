package mcp

// Config configures the MCP server.
type Config struct {
	// Address is the HTTP listen address. An empty address serves over stdio.
	Address string `json:"address,omitempty" jsonschema:"title=Address"`
}

// NewConfig returns a [Config] with default values.
func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults sets unset fields to their default values.
func (c *Config) EnsureDefaults() {}
