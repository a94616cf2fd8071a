package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macropower/dcx/pkg/log"
	"github.com/macropower/dcx/pkg/resolver"
)

type GetArgs struct {
	*RootArgs

	Dir string
}

func NewGetArgs(rootArgs *RootArgs) *GetArgs {
	return &GetArgs{
		RootArgs: rootArgs,
	}
}

func (ga *GetArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ga.Dir, "dir", "", "Rules directory, default is the configured directory")

	err := cmd.MarkFlagDirname("dir")
	if err != nil {
		panic(fmt.Errorf("mark dir flag: %w", err))
	}
}

func NewGetCmd(ga *GetArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Print the context an agent would receive for a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get(cmd, ga, args[0])
		},
	}
	ga.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func get(cmd *cobra.Command, ga *GetArgs, path string) error {
	// Hold back scan warnings so they don't interleave with the output.
	logBuf := log.NewCircularBuffer(100)
	logHandler, err := log.CreateHandlerWithStrings(logBuf, ga.LogLevel, ga.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	slog.SetDefault(slog.New(logHandler))
	defer flushLogs(cmd.ErrOrStderr(), logBuf)

	cfg, err := ga.LoadConfig()
	if err != nil {
		return err
	}

	out := resolver.New(ga.NewStore(cfg, ga.Dir)).Resolve(cmd.Context(), path)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	if err != nil {
		return fmt.Errorf("write to stdout: %w", err)
	}

	return nil
}

func flushLogs(w io.Writer, buf *log.CircularBuffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Size()),
		slog.Int("max", buf.Capacity()),
		slog.Bool("truncated", buf.IsFull()),
	)

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}
}
