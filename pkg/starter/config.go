package starter

import "slices"

// DefaultAgentFiles are the agent instruction files that receive guidelines.
var DefaultAgentFiles = []string{"GEMINI.md", "CLAUDE.md", "AGENTS.md", "cursorrules", ".cursorrules"}

// Config configures project initialization.
type Config struct {
	// AgentFiles lists the agent instruction files, relative to the project
	// directory, that guidelines are appended to when they exist.
	AgentFiles []string `json:"agentFiles,omitempty" jsonschema:"title=Agent Files"`
}

// NewConfig returns a [Config] with default values.
func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults sets unset fields to their default values.
func (c *Config) EnsureDefaults() {
	if len(c.AgentFiles) == 0 {
		c.AgentFiles = slices.Clone(DefaultAgentFiles)
	}
}
