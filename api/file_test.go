package api_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/dcx/api"
)

//nolint:paralleltest // We need to set environment variables, so run tests sequentially.
func TestGetConfigPath(t *testing.T) {
	tcs := map[string]struct {
		setupEnv func(t *testing.T)
		want     string
	}{
		"XDG_CONFIG_HOME is set": {
			setupEnv: func(t *testing.T) {
				t.Helper()
				t.Setenv("XDG_CONFIG_HOME", "/custom/config")
			},
			want: "/custom/config/dcx/config.yaml",
		},
		"XDG_CONFIG_HOME is empty and HOME is set": {
			setupEnv: func(t *testing.T) {
				t.Helper()
				t.Setenv("XDG_CONFIG_HOME", "")
				t.Setenv("HOME", "/test/home")
			},
			want: "/test/home/.config/dcx/config.yaml",
		},
		"XDG_CONFIG_HOME is empty and HOME is empty": {
			setupEnv: func(t *testing.T) {
				t.Helper()
				t.Setenv("XDG_CONFIG_HOME", "")
				t.Setenv("HOME", "")
			},
			want: filepath.Join(os.TempDir(), "dcx", "config.yaml"), //nolint:usetesting // Needs to equal host.
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			tc.setupEnv(t)

			assert.Equal(t, tc.want, api.GetConfigPath("config.yaml"))
		})
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		setupFile func(t *testing.T) string
		errMsg    string
	}{
		"valid file": {
			setupFile: func(t *testing.T) string {
				t.Helper()

				path := filepath.Join(t.TempDir(), "rule.md")
				require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))

				return path
			},
		},
		"non-existent file": {
			setupFile: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "missing.md")
			},
			errMsg: "stat file",
		},
		"directory instead of file": {
			setupFile: func(t *testing.T) string {
				t.Helper()

				return t.TempDir()
			},
			errMsg: "path is a directory",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := api.ReadFile(tc.setupFile(t))

			if tc.errMsg != "" {
				require.ErrorContains(t, err, tc.errMsg)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "content", string(got))
		})
	}
}

func TestMarshalYAML(t *testing.T) {
	t.Parallel()

	type rules struct {
		Dir        string   `json:"dir"`
		Extensions []string `json:"extensions"`
	}

	data, err := api.MarshalYAML(rules{Dir: ".agent/rules", Extensions: []string{".md"}})
	require.NoError(t, err)
	assert.Contains(t, string(data), "dir: .agent/rules")
	assert.Contains(t, string(data), "extensions:")
}

func TestWriteIfNotExists(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		setupPath   func(t *testing.T) string
		errMsg      string
		wantWritten bool
		wantContent string
	}{
		"new file": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "new.md")
			},
			wantWritten: true,
			wantContent: "new content",
		},
		"existing file is kept": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				path := filepath.Join(t.TempDir(), "existing.md")
				require.NoError(t, os.WriteFile(path, []byte("existing"), 0o600))

				return path
			},
			wantContent: "existing",
		},
		"creates parent directories": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), ".agent", "rules", "file.md")
			},
			wantWritten: true,
			wantContent: "new content",
		},
		"path is directory": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return t.TempDir()
			},
			errMsg: "path is a directory",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := tc.setupPath(t)

			written, err := api.WriteIfNotExists(path, []byte("new content"))
			if tc.errMsg != "" {
				require.ErrorContains(t, err, tc.errMsg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantWritten, written)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.wantContent, string(got))
		})
	}
}

func TestAppendFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "AGENTS.md")
	require.NoError(t, os.WriteFile(path, []byte("# Agents"), 0o600))

	require.NoError(t, api.AppendFile(path, []byte("\n\nmore")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Agents\n\nmore", string(got))

	err = api.AppendFile(filepath.Join(t.TempDir(), "missing.md"), []byte("x"))
	require.ErrorContains(t, err, "stat file")
}

func TestWriteDefaultFile(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		existing    string
		force       bool
		wantContent string
		wantBackup  bool
	}{
		"new file": {
			wantContent: "default",
		},
		"existing file without force": {
			existing:    "custom",
			wantContent: "custom",
		},
		"existing file with force": {
			existing:    "custom",
			force:       true,
			wantContent: "default",
			wantBackup:  true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")

			if tc.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tc.existing), 0o600))
			}

			err := api.WriteDefaultFile(path, []byte("default"), tc.force, "configuration")
			require.NoError(t, err)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.wantContent, string(got))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)

			backups := 0
			for _, e := range entries {
				if strings.HasSuffix(e.Name(), ".old") {
					backups++

					backup, err := os.ReadFile(filepath.Join(dir, e.Name()))
					require.NoError(t, err)
					assert.Equal(t, tc.existing, string(backup))
				}
			}

			assert.Equal(t, tc.wantBackup, backups == 1)
		})
	}

	err := api.WriteDefaultFile(t.TempDir(), []byte("x"), false, "configuration")
	require.ErrorContains(t, err, "path is a directory")
}
