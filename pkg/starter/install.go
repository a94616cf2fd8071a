package starter

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/macropower/dcx/api"
)

var (
	// ErrRulesDirExists is returned by [Install] when the rules directory
	// already exists. Nothing is written in that case.
	ErrRulesDirExists = errors.New("rules directory already exists")

	// ErrUnknownFramework is returned for a framework without a starter pack.
	ErrUnknownFramework = errors.New("unknown framework")

	//go:embed packs
	packs embed.FS
)

// PackFiles returns the names of the rule documents in a framework's pack.
func PackFiles(framework string) ([]string, error) {
	if !slices.Contains(Names(), framework) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFramework, framework)
	}

	entries, err := fs.ReadDir(packs, path.Join("packs", framework))
	if err != nil {
		return nil, fmt.Errorf("read starter pack: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	return names, nil
}

// Install writes the starter pack for framework into rulesDir and returns the
// names of the written files. If rulesDir already exists it returns
// [ErrRulesDirExists] without writing anything.
func Install(framework, rulesDir string) ([]string, error) {
	names, err := PackFiles(framework)
	if err != nil {
		return nil, err
	}

	_, err = os.Stat(rulesDir)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", rulesDir, ErrRulesDirExists)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat rules directory: %w", err)
	}

	err = os.MkdirAll(rulesDir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("create rules directory: %w", err)
	}

	written := make([]string, 0, len(names))
	for _, name := range names {
		data, err := packs.ReadFile(path.Join("packs", framework, name))
		if err != nil {
			return written, fmt.Errorf("read %s: %w", name, err)
		}

		ok, err := api.WriteIfNotExists(filepath.Join(rulesDir, name), data)
		if err != nil {
			return written, fmt.Errorf("install %s: %w", name, err)
		}

		if ok {
			slog.Debug("installed rule", slog.String("framework", framework), slog.String("file", name))

			written = append(written, name)
		}
	}

	return written, nil
}
