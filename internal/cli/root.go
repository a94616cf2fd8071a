package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/dcx/api/v1beta1/configs"
	"github.com/macropower/dcx/pkg/config"
	"github.com/macropower/dcx/pkg/log"
	"github.com/macropower/dcx/pkg/store"
)

const (
	cmdName = "dcx"
	cmdDesc = `Serve rule-based context for coding agents over MCP.`

	cmdExamples = `  # Serve rules from .agent/rules over stdio:
  dcx

  # Serve rules from another directory:
  dcx ./docs/rules

  # Serve over streamable HTTP:
  dcx serve --address 127.0.0.1:8080

  # Print the context an agent would receive for a file:
  dcx get src/app/page.tsx

  # Install a starter pack and agent guidelines:
  dcx init`
)

type RootArgs struct {
	LogLevel   string
	LogFormat  string
	ConfigPath string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the dcx configuration file")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

// GetConfigPath returns the configuration path from the flag, or the default.
func (ra *RootArgs) GetConfigPath() string {
	if ra.ConfigPath != "" {
		return ra.ConfigPath
	}

	return configs.GetPath()
}

// LoadConfig loads the active configuration.
func (ra *RootArgs) LoadConfig() (*configs.Config, error) {
	cfg, err := config.LoadFile(ra.GetConfigPath())
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped.
	}

	return cfg, nil
}

// NewStore returns a [store.Store] for dir, or for the configured rules
// directory when dir is empty.
func (ra *RootArgs) NewStore(cfg *configs.Config, dir string) *store.Store {
	if dir == "" {
		dir = cfg.Rules.Dir
	}

	slog.Debug("using rules directory", slog.String("dir", dir))

	return store.New(dir, cfg.Rules.Opts()...)
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	serveArgs := NewServeArgs(args)

	serveCmd := NewServeCmd(serveArgs)
	cmd := &cobra.Command{
		Use:               cmdName + " [rules-dir]",
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		ValidArgsFunction: serveCmd.ValidArgsFunction,
		Args:              serveCmd.Args,
		RunE:              serveCmd.RunE,
		SilenceUsage:      true,
	}

	args.AddFlags(cmd)
	serveArgs.AddFlags(cmd)
	cmd.AddCommand(
		serveCmd,
		NewGetCmd(NewGetArgs(args)),
		NewRulesCmd(NewRulesArgs(args)),
		NewInitCmd(NewInitArgs(args)),
		NewConfigCmd(NewConfigArgs(args)),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), rc.LogLevel, rc.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}
