package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/macropower/dcx/pkg/rule"
	"github.com/macropower/dcx/pkg/store"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	alwaysStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	globStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type RulesArgs struct {
	*RootArgs

	Dir string
}

func NewRulesArgs(rootArgs *RootArgs) *RulesArgs {
	return &RulesArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RulesArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.Dir, "dir", "", "Rules directory, default is the configured directory")

	err := cmd.MarkFlagDirname("dir")
	if err != nil {
		panic(fmt.Errorf("mark dir flag: %w", err))
	}
}

func NewRulesCmd(ra *RulesArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules loaded from the rules directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ra.LoadConfig()
			if err != nil {
				return err
			}

			rules := ra.NewStore(cfg, ra.Dir)

			snap, err := rules.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load rules: %w", err)
			}

			printSnapshot(cmd.OutOrStdout(), rules.Dir(), snap)

			return nil
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func printSnapshot(w io.Writer, dir string, snap *store.Snapshot) {
	mustN(fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Rules in %s", dir))))

	if len(snap.Rules) == 0 {
		mustN(fmt.Fprintln(w, subtleStyle.Render("  (none)")))
	}

	for _, r := range snap.Rules {
		mustN(fmt.Fprintf(w, "  %s  %s  %s\n",
			sourceStyle.Render(r.Source()),
			triggerLabel(r),
			subtleStyle.Render(humanize.Bytes(uint64(len(r.Body())))),
		))
	}

	if len(snap.Inert) > 0 {
		mustN(fmt.Fprintln(w))
		mustN(fmt.Fprintln(w, headerStyle.Render("Inert documents")))

		for _, source := range snap.Inert {
			mustN(fmt.Fprintf(w, "  %s\n", subtleStyle.Render(source)))
		}
	}

	if len(snap.Failures) > 0 {
		mustN(fmt.Fprintln(w))
		mustN(fmt.Fprintln(w, headerStyle.Render("Failed documents")))

		for _, f := range snap.Failures {
			mustN(fmt.Fprintf(w, "  %s  %s\n",
				sourceStyle.Render(f.Source),
				failureStyle.Render(f.Err.Error()),
			))
		}
	}

	mustN(fmt.Fprintln(w))
	mustN(fmt.Fprintln(w, subtleStyle.Render(fmt.Sprintf("%s, %s inert, %s failed",
		pluralize(len(snap.Rules), "rule"),
		humanize.Comma(int64(len(snap.Inert))),
		humanize.Comma(int64(len(snap.Failures))),
	))))
}

func triggerLabel(r *rule.Rule) string {
	if r.Trigger() == rule.TriggerAlways {
		return alwaysStyle.Render(string(rule.TriggerAlways))
	}

	return globStyle.Render(fmt.Sprintf("%s [%s]", r.Trigger(), strings.Join(r.Patterns(), ", ")))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}

	return humanize.Comma(int64(n)) + " " + noun + "s"
}
