package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/doeshing/firewatch/internal/application/query"
	"github.com/doeshing/firewatch/internal/infrastructure/server"
)

// NewServeCommand runs the HTTP API until SIGINT or SIGTERM.
func NewServeCommand(rt *Runtime) *cobra.Command {
	var (
		addr        string
		maxSessions int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query and view API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			container, err := rt.Container(ctx)
			if err != nil {
				return err
			}
			cfg := container.Config
			if addr == "" {
				addr = cfg.Server.Addr
			}

			sel := container.SelectBackend(ctx)
			printMode(cmd, sel)
			sessions := server.NewSessions(func() *query.Router {
				return container.NewRouter(sel)
			}, maxSessions)

			handler := server.NewRouter(server.Deps{
				Sessions:       sessions,
				Views:          container.Views,
				Menu:           container.Menu(),
				Metrics:        container.Metrics.Handler(),
				Logger:         container.Logger.Zap(),
				AllowedOrigins: cfg.Server.AllowedOrigins,
			})
			srv := server.New(addr, handler, cfg.Server, container.Logger.Zap())

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Run(gctx)
			})
			g.Go(func() error {
				<-gctx.Done()
				container.Logger.Info("shutdown requested", map[string]interface{}{"cause": context.Cause(gctx).Error()})
				return nil
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config server.addr)")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", 256, "Conversation sessions kept in memory")
	return cmd
}
