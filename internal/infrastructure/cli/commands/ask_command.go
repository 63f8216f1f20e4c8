package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/firewatch/internal/app"
	"github.com/doeshing/firewatch/internal/application/selector"
	"github.com/doeshing/firewatch/internal/infrastructure/cli/helpers"
)

// NewAskCommand answers one question and exits.
func NewAskCommand(rt *Runtime) *cobra.Command {
	var (
		raw     bool
		trace   bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer one question about the incident",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			container, err := rt.Container(ctx)
			if err != nil {
				return err
			}

			sel := selectWithSpinner(ctx, cmd, container)
			if trace {
				helpers.PrintSelection(cmd.ErrOrStderr(), sel)
			}
			answer := container.NewRouter(sel).Query(ctx, strings.Join(args, " "))
			helpers.NewRenderer(cmd.OutOrStdout(), raw).Markdown(answer)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print the backend probe trace to stderr")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Overall deadline for probing and answering")
	return cmd
}

func selectWithSpinner(ctx context.Context, cmd *cobra.Command, container *app.Container) selector.Selection {
	spinner := helpers.NewSpinner(cmd.ErrOrStderr(), probingLabel)
	spinner.Start()
	defer spinner.Stop()
	return container.SelectBackend(ctx)
}

func printMode(cmd *cobra.Command, sel selector.Selection) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Answering with: %s\n", sel.Mode.Label())
}
