package command

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/NerdyDuck/NerdyDuck.Collections/internal/cli/output"
	"github.com/NerdyDuck/NerdyDuck.Collections/internal/infra/confloader"
	"github.com/NerdyDuck/NerdyDuck.Collections/internal/infra/shutdown"
	"github.com/NerdyDuck/NerdyDuck.Collections/internal/stress"
	"github.com/NerdyDuck/NerdyDuck.Collections/internal/telemetry/logger"
	"github.com/NerdyDuck/NerdyDuck.Collections/internal/telemetry/metric"
)

const shutdownTimeout = 5 * time.Second

// RunCommand returns the run command.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Drive a workload and print the report",
		Flags:  workloadFlags(),
		Action: func(c *cli.Context) error { return runWorkload(c, false) },
	}
}

// VerifyCommand returns the verify command. It runs like run but exits
// with ExitViolation when the final count is inconsistent.
func VerifyCommand() *cli.Command {
	return &cli.Command{
		Name:   "verify",
		Usage:  "Drive a workload and fail if the item count is inconsistent",
		Flags:  workloadFlags(),
		Action: func(c *cli.Context) error { return runWorkload(c, true) },
	}
}

func workloadFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "variant", Usage: "Container variant: cow, locked"},
		&cli.StringFlag{Name: "shape", Usage: "Container shape: list, map"},
		&cli.BoolFlag{Name: "untyped", Usage: "Route operations through the untyped adapters"},
		&cli.IntFlag{Name: "workers", Usage: "Concurrent workers"},
		&cli.IntFlag{Name: "ops", Usage: "Total operations; 0 runs until --duration"},
		&cli.IntFlag{Name: "key-space", Usage: "Number of distinct keys"},
		&cli.IntFlag{Name: "seed", Usage: "Items loaded before the workers start"},
		&cli.Float64Flag{Name: "read-ratio", Usage: "Share of lookups"},
		&cli.Float64Flag{Name: "enumerate-ratio", Usage: "Share of full enumerations"},
		&cli.Float64Flag{Name: "rate", Usage: "Operations per second across all workers; 0 is unlimited"},
		&cli.DurationFlag{Name: "duration", Usage: "Stop after this long"},
		&cli.Uint64Flag{Name: "rand-seed", Usage: "Seed for key selection; 0 picks one"},
		&cli.StringFlag{Name: "metrics-addr", Usage: "Serve Prometheus metrics on this address during the run"},
		&cli.BoolFlag{Name: "progress", Usage: "Show a live progress line on stderr"},
	}
}

func runWorkload(c *cli.Context, verify bool) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	cfg := e.cfg

	if err := cfg.Stress.Validate(); err != nil {
		return cli.Exit(err, ExitError)
	}

	reg := metric.NewRegistry()
	engine, err := stress.NewEngine(cfg.Stress, stress.WithMetrics(reg))
	if err != nil {
		return cli.Exit(err, ExitError)
	}

	sh := shutdown.NewHandler(shutdownTimeout)
	ctx, stop := sh.Context(c.Context)
	defer stop()

	if cfg.Metrics.Addr != "" {
		if err := serveMetrics(sh, reg, cfg.Metrics.Addr, e.log); err != nil {
			return cli.Exit(err, ExitError)
		}
	}
	if path := e.loader.FilePath(); path != "" {
		if err := watchLogLevel(sh, path, e.log); err != nil {
			e.log.Warn("config watch disabled", "error", err)
		}
	}

	var progress *output.Progress
	if c.Bool("progress") {
		progress = output.NewProgress(c.App.ErrWriter, cfg.Stress.Variant+"/"+cfg.Stress.Shape,
			int64(cfg.Stress.Ops), engine.Progress)
		progress.Start()
	}

	report, runErr := engine.Run(ctx)

	if progress != nil {
		progress.Stop("done")
	}
	if err := sh.Shutdown(); err != nil {
		e.log.Warn("shutdown hooks failed", "error", err)
	}

	if report != nil {
		if err := e.print(report); err != nil {
			return cli.Exit(err, ExitError)
		}
	}
	if runErr != nil {
		return cli.Exit(runErr, ExitError)
	}

	if verify {
		if err := report.Verify(); err != nil {
			return cli.Exit(err, ExitViolation)
		}
		e.log.Info("count invariant holds",
			"final_count", report.FinalCount,
			"expected", report.Expected())
	}
	return nil
}

// serveMetrics listens on addr before returning so that bind errors are
// reported up front.
func serveMetrics(sh *shutdown.Handler, reg *metric.Registry, addr string, log logger.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	log.Info("metrics listening", "addr", ln.Addr().String())
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()

	return sh.OnShutdown(func(ctx context.Context) error {
		return srv.Shutdown(ctx)
	})
}

// watchLogLevel re-reads log.level from path whenever the file changes.
func watchLogLevel(sh *shutdown.Handler, path string, log logger.Logger) error {
	w, err := confloader.NewWatcher(path, confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return err
	}
	w.OnChange(func(changed string) {
		l := confloader.NewLoader()
		if err := l.LoadFile(changed); err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		level := l.GetString("log.level")
		if level == "" || level == logger.GetLevel() {
			return
		}
		if err := logger.SetLevel(level); err != nil {
			log.Warn("config reload ignored", "error", err)
			return
		}
		log.Info("log level changed", "level", logger.GetLevel())
	})
	w.StartAsync()

	return sh.OnShutdown(func(context.Context) error {
		return w.Stop()
	})
}
