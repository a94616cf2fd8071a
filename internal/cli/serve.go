package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/macropower/dcx/pkg/mcp"
	"github.com/macropower/dcx/pkg/telemetry"
)

const telemetryShutdownTimeout = 5 * time.Second

type ServeArgs struct {
	*RootArgs

	Dir          string
	Address      string
	OTLPEndpoint string
	WireLog      bool
}

func NewServeArgs(rootArgs *RootArgs) *ServeArgs {
	return &ServeArgs{
		RootArgs: rootArgs,
	}
}

func (sa *ServeArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sa.Address, "address", "",
		"Serve MCP over streamable HTTP at this address instead of stdio")
	cmd.Flags().StringVar(&sa.OTLPEndpoint, "otlp-endpoint", "",
		"Export traces to this OTLP/gRPC endpoint")
	cmd.Flags().BoolVar(&sa.WireLog, "wire-log", false,
		"Log MCP messages to stderr")
}

func NewServeCmd(sa *ServeArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [rules-dir]",
		Short: "Serve the MCP server (default command)",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return nil, cobra.ShellCompDirectiveFilterDirs
			}

			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				sa.Dir = args[0]
			}

			return serve(cmd, sa)
		},
	}
	sa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func serve(cmd *cobra.Command, sa *ServeArgs) error {
	ctx := cmd.Context()

	cfg, err := sa.LoadConfig()
	if err != nil {
		return err
	}

	address := sa.Address
	if address == "" {
		address = cfg.MCP.Address
	}

	shutdown, err := telemetry.Setup(ctx, sa.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryShutdownTimeout)
		defer cancel()

		err := shutdown(ctx)
		if err != nil {
			slog.Error("flush traces", slog.Any("err", err))
		}
	}()

	rules := sa.NewStore(cfg, sa.Dir)

	opts := []mcp.Opt{mcp.WithAddress(address)}
	if sa.WireLog {
		opts = append(opts, mcp.WithWireLog(cmd.ErrOrStderr()))
	}

	slog.Info("serving rules", slog.String("dir", rules.Dir()))

	err = mcp.NewServer(rules, opts...).Serve(ctx)
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}

	return nil
}
