// cmd/sleuth/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"sleuth/internal/platform/config"
	"sleuth/internal/platform/logx"
	"sleuth/internal/platform/telemetry"

	// Tool registration via init()
	_ "sleuth/internal/sources/naminter"
	_ "sleuth/internal/sources/sherlock"
)

var (
	// Set with -ldflags at build time
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// 1. Configuration
	cfg, err := config.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		config.PrintHelp(os.Stdout)
		return 0
	}
	if cfg.PrintVersion {
		config.PrintVersion(os.Stdout, "sleuth", version, commit, date)
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try: sleuth -h for help")
		return 2
	}

	// 2. Logger and runtime
	logger := logx.FromConfig(cfg.Log.Level, cfg.Log.Format)
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, a ...any) {
		logger.Debug(fmt.Sprintf(format, a...))
	})); err != nil {
		logger.Warn("failed to set GOMAXPROCS", "error", err.Error())
	}

	logger.Info("sleuth starting",
		"version", version,
		"commit", commit,
		"date", date,
		"addr", cfg.Server.Addr,
	)
	logger.Debug("effective configuration", "config", cfg.String())

	// 3. Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Telemetry
	shutdownTracing, err := telemetry.Initialize(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRatio:    cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		logger.Err(err, "phase", "telemetry")
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err.Error())
		}
	}()

	// 5. Collaborators
	app, err := buildApp(cfg, logger, version)
	if err != nil {
		logger.Err(err, "phase", "build")
		return 1
	}
	defer app.Close()

	// 6. Listener
	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		logger.Err(err, "phase", "listen")
		return 1
	}
	if cfg.Server.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.Server.MaxConnections)
	}

	// Cancelled at shutdown so open streams end and reap their children.
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()

	srv := &http.Server{
		Handler:           app.server.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	// 7. Serve until a signal arrives
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", ln.Addr().String(), "max_connections", cfg.Server.MaxConnections)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	if c := app.resultCache(); c != nil {
		g.Go(func() error {
			c.RunJanitor(gctx, time.Minute)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout.String())

		cancelStreams()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Err(err, "phase", "serve")
		return 1
	}

	logger.Info("sleuth stopped")
	return 0
}
