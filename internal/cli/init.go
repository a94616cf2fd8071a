package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/macropower/dcx/pkg/starter"
)

type InitArgs struct {
	*RootArgs

	// Prompt asks for a framework when none was detected. Tests replace it.
	Prompt func(cmd *cobra.Command, projectDir string) (string, error)

	Dir       string
	Framework string
	DryRun    bool
}

func NewInitArgs(rootArgs *RootArgs) *InitArgs {
	return &InitArgs{
		RootArgs: rootArgs,
		Prompt: func(cmd *cobra.Command, projectDir string) (string, error) {
			return starter.NewPrompter().Framework(cmd.Context(), projectDir)
		},
	}
}

func (ia *InitArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ia.Dir, "dir", ".", "Project directory")
	cmd.Flags().StringVar(&ia.Framework, "framework", "",
		fmt.Sprintf("Starter pack to install, one of: %s", starter.Names()))
	cmd.Flags().BoolVar(&ia.DryRun, "dry-run", false, "Show what would change without writing")

	err := cmd.RegisterFlagCompletionFunc("framework",
		cobra.FixedCompletions(starter.Names(), cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkFlagDirname("dir")
	if err != nil {
		panic(fmt.Errorf("mark dir flag: %w", err))
	}
}

func NewInitCmd(ia *InitArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Install a starter rule pack and agent guidelines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, ia)
		},
	}
	ia.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runInit(cmd *cobra.Command, ia *InitArgs) error {
	w := cmd.OutOrStdout()

	cfg, err := ia.LoadConfig()
	if err != nil {
		return err
	}

	framework, err := ia.chooseFramework(cmd)
	if err != nil {
		return err
	}

	rulesDir := cfg.Rules.Dir
	if !filepath.IsAbs(rulesDir) {
		rulesDir = filepath.Join(ia.Dir, rulesDir)
	}

	switch {
	case framework == "":
		mustN(fmt.Fprintln(w, "No starter pack selected."))

	case ia.DryRun:
		files, err := starter.PackFiles(framework)
		if err != nil {
			return fmt.Errorf("starter pack: %w", err)
		}

		mustN(fmt.Fprintf(w, "Would install the %s starter pack into %s:\n",
			starter.DisplayName(framework), rulesDir))

		for _, f := range files {
			mustN(fmt.Fprintf(w, "  %s\n", f))
		}

	default:
		written, err := starter.Install(framework, rulesDir)
		if errors.Is(err, starter.ErrRulesDirExists) {
			mustN(fmt.Fprintf(w, "Rules directory %s already exists, skipping starter pack.\n", rulesDir))
		} else if err != nil {
			return fmt.Errorf("install starter pack: %w", err)
		} else {
			mustN(fmt.Fprintf(w, "Installed the %s starter pack into %s:\n",
				starter.DisplayName(framework), rulesDir))

			for _, f := range written {
				mustN(fmt.Fprintf(w, "  %s\n", f))
			}
		}
	}

	results, err := starter.AppendGuidelines(ia.Dir, cfg.Init.AgentFiles, ia.DryRun)
	if err != nil {
		return fmt.Errorf("append guidelines: %w", err)
	}

	printAppendResults(w, results, ia.DryRun)

	return nil
}

func (ia *InitArgs) chooseFramework(cmd *cobra.Command) (string, error) {
	if ia.Framework != "" {
		return ia.Framework, nil
	}

	detected, err := starter.Detect(ia.Dir)
	if err != nil {
		return "", fmt.Errorf("detect framework: %w", err)
	}

	if detected != "" {
		slog.Info("detected framework", slog.String("framework", detected))

		return detected, nil
	}

	chosen, err := ia.Prompt(cmd, ia.Dir)
	if errors.Is(err, starter.ErrNotInteractive) {
		slog.Warn("no framework detected, use --framework to pick a starter pack")

		return "", nil
	}
	if err != nil {
		return "", err
	}

	return chosen, nil
}

func printAppendResults(w io.Writer, results []starter.AppendResult, dryRun bool) {
	for _, r := range results {
		switch r.Status {
		case starter.StatusAppended:
			if dryRun {
				mustN(fmt.Fprint(w, r.Diff))
			} else {
				mustN(fmt.Fprintf(w, "Appended guidelines to %s\n", r.File))
			}

		case starter.StatusPresent:
			mustN(fmt.Fprintf(w, "Guidelines already present in %s\n", r.File))

		case starter.StatusMissing:
			slog.Debug("agent file not found", slog.String("file", r.File))
		}
	}
}
