package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteRules writes each file under dir, creating parent directories as
// needed, and returns dir.
func WriteRules(t *testing.T, dir string, files map[string]string) string {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)

		err := os.MkdirAll(filepath.Dir(path), 0o700)
		require.NoError(t, err)

		err = os.WriteFile(path, []byte(content), 0o600)
		require.NoError(t, err)
	}

	return dir
}
