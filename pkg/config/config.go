package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/macropower/dcx/api/v1beta1/configs"
)

// LoadFile reads, validates and loads the configuration at path.
// If no file exists at path, it returns [configs.New].
func LoadFile(path string) (*configs.Config, error) {
	l, err := NewLoaderFromFile(path, configs.New, configs.DefaultValidator)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("config file not found, using defaults", slog.String("path", path))

		return configs.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	err = l.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}
