// Package config loads the dcx configuration file.
//
// Configuration is read as YAML, validated against the JSON schema reflected
// from [configs.Config], and completed with defaults. A missing file is not an
// error: the defaults are used instead.
package config
