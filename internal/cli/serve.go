package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"neonpm/internal/api"
	"neonpm/internal/core"
)

const (
	pruneInterval = time.Minute
	pruneIdle     = 10 * time.Minute
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the records over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cmd, opts, address)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address (overrides api.address)")
	return cmd
}

func serve(ctx context.Context, cmd *cobra.Command, opts *RootOptions, address string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e, err := openEnv(ctx, cmd, opts, core.NewPrometheusMetricsRecorder(reg))
	if err != nil {
		return err
	}
	defer e.close()

	cfg := &api.Config{
		Address:   e.cfg.API.Address,
		RateLimit: e.cfg.API.RateLimit,
		Burst:     e.cfg.API.Burst,
		Verbose:   opts.Verbose,
	}
	if address != "" {
		cfg.Address = address
	}
	srv, err := api.New(cfg, e.svc, e.logger, reg)
	if err != nil {
		return WrapExitError(ExitCommandError, "build server", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return srv.PruneClients(gctx, pruneInterval, pruneIdle) })
	if err := g.Wait(); err != nil {
		return WrapExitError(ExitCommandError, "serve", err)
	}
	e.logger.Info("server stopped")
	return nil
}
