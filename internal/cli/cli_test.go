package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/dcx/internal/cli"
	"github.com/macropower/dcx/internal/testutil"
	"github.com/macropower/dcx/pkg/resolver"
	"github.com/macropower/dcx/pkg/starter"
)

// These tests replace the default logger, so they run sequentially.

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	missingConfig := filepath.Join(t.TempDir(), "config.yaml")

	cmd.SetArgs(append(args, "--config", missingConfig, "--log-format", "logfmt"))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), stderr.String(), err
}

//nolint:paralleltest // Replaces the default logger.
func TestGetCmd(t *testing.T) {
	dir := testutil.WriteRules(t, t.TempDir(), map[string]string{
		"always.md": "---\ntrigger: always\n---\nAlways included",
		"ts.md":     "---\nglobs: \"*.ts\"\n---\nTypeScript rules",
		"broken.md": "---\nglobs: [\"*.ts\"\n---\nbody",
	})

	stdout, stderr, err := execute(t, cli.NewRootCmd(), "get", "src/app.ts", "--dir", dir)
	require.NoError(t, err)

	want := "Context for: src/app.ts\n\n" +
		"--- START CONTEXT (ALWAYS) ---\nAlways included\n--- END CONTEXT ---\n\n" +
		"--- START CONTEXT FROM MATCHING GLOB PATTERN: *.ts ---\nTypeScript rules\n--- END CONTEXT ---\n\n"
	assert.Equal(t, want, stdout)
	assert.Contains(t, stderr, "skip document")
	assert.Contains(t, stderr, "broken.md")
}

//nolint:paralleltest // Replaces the default logger.
func TestGetCmd_NoContext(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	stdout, _, err := execute(t, cli.NewRootCmd(), "get", "main.go", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, resolver.NoContext+"\n", stdout)
}

//nolint:paralleltest // Replaces the default logger.
func TestGetCmd_Args(t *testing.T) {
	_, _, err := execute(t, cli.NewRootCmd(), "get")
	require.Error(t, err)
}

//nolint:paralleltest // Replaces the default logger.
func TestRulesCmd(t *testing.T) {
	dir := testutil.WriteRules(t, t.TempDir(), map[string]string{
		"always.md": "---\ntrigger: always\n---\nAlways included",
		"web.md":    "---\npatterns: [\"*.css\", \"*.scss\"]\n---\nStyles",
		"plain.md":  "# No header",
		"broken.md": "---\nglobs: [\"*.ts\"\n---\nbody",
	})

	stdout, _, err := execute(t, cli.NewRootCmd(), "rules", "--dir", dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Rules in "+dir)
	assert.Contains(t, stdout, "always.md")
	assert.Contains(t, stdout, "glob [*.css, *.scss]")
	assert.Contains(t, stdout, "Inert documents")
	assert.Contains(t, stdout, "plain.md")
	assert.Contains(t, stdout, "Failed documents")
	assert.Contains(t, stdout, "broken.md")
	assert.Contains(t, stdout, "2 rules, 1 inert, 1 failed")
}

//nolint:paralleltest // Replaces the default logger.
func TestInitCmd(t *testing.T) {
	t.Run("detected framework", func(t *testing.T) {
		project := testutil.WriteRules(t, t.TempDir(), map[string]string{
			"requirements.txt": "flask\n",
			"AGENTS.md":        "# Agents",
		})

		stdout, _, err := execute(t, cli.NewRootCmd(), "init", "--dir", project)
		require.NoError(t, err)

		assert.Contains(t, stdout, "Installed the Python starter pack")
		assert.Contains(t, stdout, "Appended guidelines to AGENTS.md")

		entries, err := os.ReadDir(filepath.Join(project, ".agent", "rules"))
		require.NoError(t, err)
		assert.NotEmpty(t, entries)

		agents, err := os.ReadFile(filepath.Join(project, "AGENTS.md"))
		require.NoError(t, err)
		assert.Contains(t, string(agents), starter.GuidelinesStart)

		// Running again leaves everything in place.
		stdout, _, err = execute(t, cli.NewRootCmd(), "init", "--dir", project)
		require.NoError(t, err)
		assert.Contains(t, stdout, "already exists, skipping starter pack")
		assert.Contains(t, stdout, "Guidelines already present in AGENTS.md")
	})

	t.Run("dry run", func(t *testing.T) {
		project := testutil.WriteRules(t, t.TempDir(), map[string]string{
			"CLAUDE.md": "# Claude",
		})

		stdout, _, err := execute(t, cli.NewRootCmd(), "init", "--dir", project, "--framework", "nextjs", "--dry-run")
		require.NoError(t, err)

		assert.Contains(t, stdout, "Would install the Next.js starter pack")
		assert.Contains(t, stdout, "+"+starter.GuidelinesStart)

		_, err = os.Stat(filepath.Join(project, ".agent"))
		require.ErrorIs(t, err, os.ErrNotExist)

		claude, err := os.ReadFile(filepath.Join(project, "CLAUDE.md"))
		require.NoError(t, err)
		assert.Equal(t, "# Claude", string(claude))
	})

	t.Run("prompt", func(t *testing.T) {
		project := t.TempDir()

		args := cli.NewInitArgs(cli.NewRootArgs())
		args.Prompt = func(_ *cobra.Command, projectDir string) (string, error) {
			assert.Equal(t, project, projectDir)

			return "laravel", nil
		}

		stdout, _, err := execute(t, wrapRoot(cli.NewInitCmd(args), args.RootArgs), "init", "--dir", project)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Installed the Laravel starter pack")
	})

	t.Run("not interactive", func(t *testing.T) {
		project := t.TempDir()

		args := cli.NewInitArgs(cli.NewRootArgs())
		args.Prompt = func(*cobra.Command, string) (string, error) {
			return "", starter.ErrNotInteractive
		}

		stdout, _, err := execute(t, wrapRoot(cli.NewInitCmd(args), args.RootArgs), "init", "--dir", project)
		require.NoError(t, err)
		assert.Contains(t, stdout, "No starter pack selected.")
	})

	t.Run("unknown framework", func(t *testing.T) {
		_, _, err := execute(t, cli.NewRootCmd(), "init", "--dir", t.TempDir(), "--framework", "rails")
		require.ErrorIs(t, err, starter.ErrUnknownFramework)
	})
}

//nolint:paralleltest // Replaces the default logger.
func TestConfigCmd(t *testing.T) {
	t.Run("show defaults", func(t *testing.T) {
		stdout, _, err := execute(t, cli.NewRootCmd(), "config")
		require.NoError(t, err)
		assert.Contains(t, stdout, "kind: Configuration")
		assert.Contains(t, stdout, "dir: .agent/rules")
	})

	t.Run("schema", func(t *testing.T) {
		stdout, _, err := execute(t, cli.NewRootCmd(), "config", "--schema")
		require.NoError(t, err)
		assert.Contains(t, stdout, `"title": "dcx configuration"`)
	})

	t.Run("write", func(t *testing.T) {
		var stdout bytes.Buffer

		path := filepath.Join(t.TempDir(), "dcx", "config.yaml")

		cmd := cli.NewRootCmd()
		cmd.SetArgs([]string{"config", "--write", "--config", path})
		cmd.SetOut(&stdout)
		cmd.SetErr(&bytes.Buffer{})

		require.NoError(t, cmd.ExecuteContext(t.Context()))
		assert.Equal(t, path+"\n", stdout.String())

		_, err := os.Stat(path)
		require.NoError(t, err)
	})
}

// wrapRoot attaches sub to a bare root command carrying the persistent flags.
func wrapRoot(sub *cobra.Command, args *cli.RootArgs) *cobra.Command {
	root := &cobra.Command{Use: "dcx"}
	args.AddFlags(root)
	root.AddCommand(sub)

	return root
}
