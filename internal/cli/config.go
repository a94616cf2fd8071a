package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/dcx/api/v1beta1/configs"
)

type ConfigArgs struct {
	*RootArgs

	Write  bool
	Force  bool
	Schema bool
}

func NewConfigArgs(rootArgs *RootArgs) *ConfigArgs {
	return &ConfigArgs{
		RootArgs: rootArgs,
	}
}

func (ca *ConfigArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&ca.Write, "write", false, "Write the default configuration file and exit")
	cmd.Flags().BoolVar(&ca.Force, "force", false, "With --write, replace an existing file (a backup is kept)")
	cmd.Flags().BoolVar(&ca.Schema, "schema", false, "Print the configuration JSON schema and exit")

	cmd.MarkFlagsMutuallyExclusive("write", "schema")
}

func NewConfigCmd(ca *ConfigArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd, ca)
		},
	}
	ca.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func showConfig(cmd *cobra.Command, ca *ConfigArgs) error {
	configPath := ca.GetConfigPath()

	if ca.Write {
		err := configs.WriteDefault(configPath, ca.Force)
		if err != nil {
			return err //nolint:wrapcheck // Already wrapped.
		}

		mustN(fmt.Fprintln(cmd.OutOrStdout(), configPath))

		return nil
	}

	if ca.Schema {
		mustN(fmt.Fprintln(cmd.OutOrStdout(), string(configs.Schema())))

		return nil
	}

	cfg, err := ca.LoadConfig()
	if err != nil {
		return err
	}

	slog.Info("active configuration", slog.String("path", configPath))

	b, err := cfg.MarshalYAML()
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	mustN(fmt.Fprint(cmd.OutOrStdout(), string(b)))

	return nil
}
