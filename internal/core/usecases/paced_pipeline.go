package usecases

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
)

// Pipeline defaults.
const (
	DefaultMaxTargets       = 10
	DefaultDelay            = 3 * time.Second
	DefaultOperationTimeout = 90 * time.Second
)

// PacedPipelineConfig bounds a paced scrape run.
type PacedPipelineConfig struct {
	MaxTargets       int           // targets beyond this are dropped
	Delay            time.Duration // pause between consecutive targets
	OperationTimeout time.Duration // hard cap on one scrape
}

// SleepFunc pauses for d or until ctx ends.
type SleepFunc func(ctx context.Context, d time.Duration) error

// PacedPipeline scrapes LinkedIn profiles one at a time with a fixed
// delay between requests, reporting progress as ProfileProgressEvents.
type PacedPipeline struct {
	logger  logx.Logger
	scraper ports.ProfileScraper
	cfg     PacedPipelineConfig
	sleep   SleepFunc
	tracer  trace.Tracer
}

// PipelineOption customizes a PacedPipeline.
type PipelineOption func(*PacedPipeline)

// WithSleep replaces the pacing sleep.
func WithSleep(fn SleepFunc) PipelineOption {
	return func(p *PacedPipeline) { p.sleep = fn }
}

// WithTracer sets the tracer used for per-target spans.
func WithTracer(t trace.Tracer) PipelineOption {
	return func(p *PacedPipeline) { p.tracer = t }
}

// NewPacedPipeline creates a pipeline. Zero config values take defaults;
// a negative Delay disables pacing.
func NewPacedPipeline(logger logx.Logger, scraper ports.ProfileScraper, cfg PacedPipelineConfig, opts ...PipelineOption) *PacedPipeline {
	if cfg.MaxTargets <= 0 {
		cfg.MaxTargets = DefaultMaxTargets
	}
	if cfg.Delay == 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = DefaultOperationTimeout
	}

	p := &PacedPipeline{
		logger:  logger.With("component", "paced-pipeline"),
		scraper: scraper,
		cfg:     cfg,
		sleep:   sleepContext,
		tracer:  otel.Tracer("sleuth/usecases"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Source binds the pipeline to targets.
func (p *PacedPipeline) Source(targets domain.TargetList) ports.EventSource {
	return ports.EventSourceFunc(func(ctx context.Context, emit ports.Emit) error {
		return p.Run(ctx, targets, emit)
	})
}

// Run emits starting{total}, one profile or error event per target in
// order, then complete. With no targets only complete is emitted. A
// failing target never stops the run; cancellation of ctx does, without
// further events.
func (p *PacedPipeline) Run(ctx context.Context, targets domain.TargetList, emit ports.Emit) error {
	items := targets.Truncate(p.cfg.MaxTargets).Items()
	total := len(items)

	if total == 0 {
		p.logger.Info("no targets to scrape")
		return emit(domain.Complete())
	}

	p.logger.Info("starting paced scrape", "total", total, "dropped", targets.Len()-total, "delay", p.cfg.Delay.String())
	if err := emit(domain.Starting(total)); err != nil {
		return err
	}

	for i, target := range items {
		ev := p.scrapeOne(ctx, i, target)
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(ev); err != nil {
			return err
		}

		if i < total-1 && p.cfg.Delay > 0 {
			if err := p.sleep(ctx, p.cfg.Delay); err != nil {
				return err
			}
		}
	}

	p.logger.Info("paced scrape finished", "total", total)
	return emit(domain.Complete())
}

func (p *PacedPipeline) scrapeOne(ctx context.Context, index int, username string) domain.ProfileProgressEvent {
	ctx, span := p.tracer.Start(ctx, "pipeline.scrape_profile", trace.WithAttributes(
		attribute.Int("lead.index", index),
		attribute.String("lead.username", username),
	))
	defer span.End()

	opCtx, cancel := context.WithTimeout(ctx, p.cfg.OperationTimeout)
	defer cancel()

	start := time.Now()
	profile, err := p.invoke(opCtx, username)
	logger := p.logger.With("index", index, "username", username, "duration", time.Since(start).Round(time.Millisecond).String())

	switch {
	case err != nil:
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			msg = fmt.Sprintf("scrape timed out after %s", p.cfg.OperationTimeout)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		logger.Warn("profile scrape failed", "error", err.Error())
		return domain.ProfileFailed(index, msg)
	case profile == nil:
		span.SetAttributes(attribute.Bool("lead.empty", true))
		logger.Info("profile scrape returned nothing")
		return domain.ProfileFailed(index, domain.NoResultMessage)
	default:
		logger.Debug("profile scraped")
		return domain.ProfileFound(index, profile)
	}
}

// invoke calls the scraper and turns a panic into an error so one target
// cannot end the run.
func (p *PacedPipeline) invoke(ctx context.Context, username string) (profile *domain.Profile, err error) {
	defer func() {
		if r := recover(); r != nil {
			profile, err = nil, fmt.Errorf("scraper panic: %v", r)
		}
	}()
	return p.scraper.ScrapeProfile(ctx, username)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
