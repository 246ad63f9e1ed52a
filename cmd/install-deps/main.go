// Package main implements the sleuth dependency installer CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"sleuth/cmd/install-deps/installer"
	"sleuth/internal/platform/logx"
	"sleuth/internal/platform/registry"
	_ "sleuth/internal/sources/naminter"
	_ "sleuth/internal/sources/sherlock"
)

const (
	version = "1.0.0"
	appName = "sleuth dependency installer"
)

// Config holds CLI configuration.
type Config struct {
	ConfigPath  string
	CheckOnly   bool
	Force       bool
	Quiet       bool
	Verbose     bool
	ShowVersion bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, nil))
}

func parseFlags(args []string, stderr io.Writer) (Config, error) {
	var cfg Config
	fs := pflag.NewFlagSet("install-deps", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.ConfigPath, "config", "deps.yaml", "Path to dependencies configuration file")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Only check dependencies, do not install")
	fs.BoolVar(&cfg.Force, "force", false, "Force reinstall even if already installed")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Quiet mode (no UI, minimal output)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose mode (detailed logging)")
	fs.BoolVarP(&cfg.ShowVersion, "version", "v", false, "Show version and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "%s v%s\n\nUSAGE:\n  install-deps [flags]\n\nFLAGS:\n", appName, version)
		fs.PrintDefaults()
		fmt.Fprint(stderr, "\nEXAMPLES:\n  install-deps --check\n  install-deps --force\n")
	}
	return cfg, fs.Parse(args)
}

// run returns the process exit code. opts customize the orchestrator.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, opts []installer.Option) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	if cfg.ShowVersion {
		fmt.Fprintf(stdout, "%s v%s\n", appName, version)
		return 0
	}

	level := logx.LevelWarn
	if cfg.Verbose {
		level = logx.LevelDebug
	}
	logger := logx.NewWithWriter(stderr, logx.FormatText, level)

	if err := install(ctx, cfg, stdout, logger, opts); err != nil {
		logger.Err(err, "installation failed")
		if !cfg.Quiet {
			fmt.Fprintf(stderr, "\nInstallation failed: %v\n", err)
		}
		return 1
	}
	return 0
}

func install(ctx context.Context, cfg Config, stdout io.Writer, logger logx.Logger, opts []installer.Option) error {
	start := time.Now()

	deps, err := installer.LoadConfig(cfg.ConfigPath, registry.Global())
	if err != nil {
		return err
	}
	logger.Debug("dependencies loaded", "config", cfg.ConfigPath, "tools", len(deps.Tools))

	orch := installer.NewOrchestrator(deps, opts...)
	if err := orch.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	presenter := installer.NewPresenter(stdout, cfg.Quiet)
	presenter.Header(orch.System())
	orch.SetProgressCallback(func(tool string, phase installer.Phase, msg string) {
		logger.Debug("installation progress", "tool", tool, "phase", phase, "message", msg)
		if cfg.Verbose {
			presenter.Progress(tool, phase, msg)
		}
	})

	var results []installer.Result
	if cfg.CheckOnly {
		results = orch.Check(ctx)
		presenter.Results(results, 0)
		missing := 0
		for _, r := range results {
			if r.Tool.Required && r.Status != installer.StatusAlreadyInstalled {
				missing++
			}
		}
		if missing > 0 {
			return fmt.Errorf("%d required tools are not usable", missing)
		}
		return nil
	}

	results = orch.Install(ctx, cfg.Force)
	presenter.Results(results, time.Since(start))
	if n := installer.Failed(results); n > 0 {
		return fmt.Errorf("%d dependencies failed to install", n)
	}
	return ctx.Err()
}
