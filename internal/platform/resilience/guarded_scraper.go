package resilience

import (
	"context"

	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
)

// GuardedScraper wraps a ProfileScraper with a circuit breaker. While the
// breaker is open, scrapes fail immediately with ErrCircuitOpen instead of
// waiting out a browser timeout for every remaining target.
type GuardedScraper struct {
	inner   ports.ProfileScraper
	breaker *CircuitBreaker
	logger  logx.Logger
}

// NewGuardedScraper wraps inner.
func NewGuardedScraper(inner ports.ProfileScraper, cb *CircuitBreaker, logger logx.Logger) *GuardedScraper {
	return &GuardedScraper{
		inner:   inner,
		breaker: cb,
		logger:  logger.With("component", "guarded-scraper"),
	}
}

// ScrapeProfile implements ports.ProfileScraper.
func (g *GuardedScraper) ScrapeProfile(ctx context.Context, username string) (*domain.Profile, error) {
	var profile *domain.Profile
	err := g.run(ctx, func() error {
		var err error
		profile, err = g.inner.ScrapeProfile(ctx, username)
		return err
	})
	return profile, err
}

// ScrapeCompany implements ports.ProfileScraper.
func (g *GuardedScraper) ScrapeCompany(ctx context.Context, slug string) (*domain.Company, error) {
	var company *domain.Company
	err := g.run(ctx, func() error {
		var err error
		company, err = g.inner.ScrapeCompany(ctx, slug)
		return err
	})
	return company, err
}

// Stats exposes the breaker state for health reporting.
func (g *GuardedScraper) Stats() CircuitBreakerStats { return g.breaker.Stats() }

func (g *GuardedScraper) run(ctx context.Context, fn func() error) error {
	before := g.breaker.State()
	err := g.breaker.Execute(fn, func(err error) bool {
		// caller cancellation and missing pages say nothing about the session
		return ctx.Err() == nil && !errors.IsNotFound(err)
	})
	if after := g.breaker.State(); after != before {
		g.logger.Warn("scraper circuit changed state", "from", before.String(), "to", after.String())
	}
	return err
}
