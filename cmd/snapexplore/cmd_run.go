package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/snapshotpool"
	"github.com/hupe1980/snapshotpool/explore"
	"github.com/hupe1980/snapshotpool/resource"
)

var cmdRun = &cobra.Command{
	Use:   "run [flags] MODEL...",
	Short: "Explore one or more models",
	Long: `
The "run" command explores every MODEL breadth-first and prints a summary
line per model. Models are given as name:arg,arg:

  counters:N,MAX   N counters counting up to MAX-1, resettable
  onehot:R,W       R registers of W bits with at most one bit set
  words:A,L        strings of at most L letters from an alphabet of A

Models run in parallel, each in its own pool.
`,
	Example: "snapexplore run counters:4,10 onehot:4,5 --workers 2",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runExplore(ctx, runOptions, args, cmd.OutOrStdout())
	},
}

// RunOptions bundles all options for the run command.
type RunOptions struct {
	Workers          int
	Storage          string
	MaxStates        int
	Capacity         int
	MemoryLimitBytes int64
	LogLevel         string
	LogFormat        string
	MetricsAddr      string
	Progress         time.Duration
}

var runOptions RunOptions

func init() {
	cmdRoot.AddCommand(cmdRun)

	f := cmdRun.Flags()
	f.IntVar(&runOptions.Workers, "workers", 1, "explore `n` models concurrently")
	f.StringVar(&runOptions.Storage, "storage", string(explore.StorageManaged), "pool storage: managed or unmanaged")
	f.IntVar(&runOptions.MaxStates, "max-states", 0, "stop each model after `n` states (0 = unlimited)")
	f.IntVar(&runOptions.Capacity, "capacity", snapshotpool.DefaultCapacity, "initial pool capacity in states")
	f.Int64Var(&runOptions.MemoryLimitBytes, "memory-limit", 0, "limit pool storage of all models to `bytes` (0 = unlimited)")
	f.StringVar(&runOptions.LogLevel, "log-level", "info", "log level: debug, info, warn or error")
	f.StringVar(&runOptions.LogFormat, "log-format", "text", "log format: text or json")
	f.StringVar(&runOptions.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on `addr`, e.g. :2112")
	f.DurationVar(&runOptions.Progress, "progress", explore.DefaultProgressInterval, "minimum time between progress records")
}

func newLogger(level, format string, w io.Writer) (*snapshotpool.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return snapshotpool.NewLogger(slog.NewTextHandler(w, opts)), nil
	case "json":
		return snapshotpool.NewLogger(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func runExplore(ctx context.Context, opts RunOptions, args []string, out io.Writer) error {
	models := make([]explore.Model, 0, len(args))
	for _, arg := range args {
		m, err := parseModel(arg)
		if err != nil {
			return err
		}
		models = append(models, m)
	}

	logger, err := newLogger(opts.LogLevel, opts.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	ctl := resource.NewController(resource.Config{
		MemoryLimitBytes: opts.MemoryLimitBytes,
		MaxWorkers:       int64(max(opts.Workers, 1)),
	})

	exploreOpts := []explore.Option{
		explore.WithWorkers(opts.Workers),
		explore.WithStorage(explore.StorageKind(opts.Storage)),
		explore.WithMaxStates(opts.MaxStates),
		explore.WithCapacity(opts.Capacity),
		explore.WithProgressInterval(opts.Progress),
		explore.WithLogger(logger),
		explore.WithController(ctl),
	}

	if opts.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		exploreOpts = append(exploreOpts, explore.WithMetricsCollector(newPrometheusCollector(reg)))

		shutdown, err := serveMetrics(opts.MetricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	results, err := explore.RunAll(ctx, models, exploreOpts...)
	for _, r := range results {
		if r.RunID == "" {
			continue
		}
		printResult(out, r)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "peak storage memory: %d bytes\n", ctl.PeakMemoryUsage())
	return nil
}

func printResult(w io.Writer, r explore.Result) {
	truncated := ""
	if r.Truncated {
		truncated = " (truncated)"
	}
	fmt.Fprintf(w, "%-16s states=%d%s transitions=%d depth=%d hit-ratio=%.3f storage=%dB interner=%dB visited=%dB time=%s\n",
		r.Model, r.States, truncated, r.Transitions, r.Depth, r.Pool.HitRatio(),
		r.Pool.StorageBytes, r.Pool.InternerBytes, r.VisitedSize, r.Duration.Round(time.Millisecond))
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *snapshotpool.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
