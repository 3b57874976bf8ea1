package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"neonpm/internal/config"
	"neonpm/internal/core"
	"neonpm/internal/infra/persistence/document"
)

// env is everything a command needs to talk to the record store.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *document.Store
	svc     *core.Service
	metrics *core.ExpvarMetricsRecorder
	out     *OutputFormatter
	verbose bool
}

// openEnv loads configuration, opens the configured store and builds the
// service. Operation metrics go to an expvar recorder plus any extra ones.
func openEnv(ctx context.Context, cmd *cobra.Command, opts *RootOptions, extra ...core.MetricsRecorder) (*env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	logger, err := newLogger(cfg.Log, opts.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configure logging", err)
	}
	store, err := core.OpenPersistentStore(ctx, cfg.StorageOptions(), logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open storage", err)
	}

	metrics := core.NewExpvarMetricsRecorder("")
	svcOpts := []core.Option{
		core.WithLogger(logger),
		core.WithMeetingLinkBase(cfg.Meetings.LinkBase),
		core.WithMetricsRecorder(append(core.MultiMetricsRecorder{metrics}, extra...)),
		core.WithAuditRecorder(auditLogger{logger: logger}),
	}
	if opts.Trace {
		svcOpts = append(svcOpts, core.WithTracer(core.NewJSONTracer(cmd.ErrOrStderr())))
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		svc:     core.NewService(store, svcOpts...),
		metrics: metrics,
		out:     &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()},
		verbose: opts.Verbose,
	}, nil
}

func (e *env) close() {
	if e.verbose {
		snap := e.metrics.Snapshot()
		e.logger.Debug("service metrics", "recorder", e.metrics.Name(), "results", snap.Results, "durations_ms", snap.DurationsMS)
	}
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close storage", "error", err)
	}
}

// newLogger builds the process logger from the log section. verbose forces
// debug level.
func newLogger(cfg config.LogConfig, verbose bool, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("log.format %q is not supported", cfg.Format)
	}
}

// auditLogger writes audit entries to the process log.
type auditLogger struct {
	logger *slog.Logger
}

func (a auditLogger) Record(ctx context.Context, entry core.AuditEntry) {
	level := slog.LevelDebug
	if entry.Status == core.AuditStatusError {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(ctx, level, "audit",
		slog.String("operation", entry.Operation),
		slog.String("entity", string(entry.Entity)),
		slog.String("action", string(entry.Action)),
		slog.String("entity_id", entry.EntityID),
		slog.String("status", string(entry.Status)),
		slog.String("error", entry.Error),
		slog.Duration("duration", entry.Duration),
	)
}

// runWith opens the environment, runs fn and prints its result.
func runWith(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, svc *core.Service) (any, error)) error {
	ctx := commandContext(cmd)
	e, err := openEnv(ctx, cmd, opts)
	if err != nil {
		return err
	}
	defer e.close()

	data, err := fn(ctx, e.svc)
	if err != nil {
		_ = e.out.Error(err)
		return reported(err)
	}
	return e.out.Success(data)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
