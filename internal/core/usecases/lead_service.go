package usecases

import (
	"context"
	"time"

	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
)

// LeadService turns stored search results into paced scrape streams and
// serves one-shot board scrapes.
type LeadService struct {
	logger   logx.Logger
	results  ports.ResultStore
	scraper  ports.ProfileScraper
	pipeline *PacedPipeline
	timeout  time.Duration
}

// NewLeadService wires a service. scraper may be nil when LinkedIn is not
// configured; every scrape then fails with errors.ErrNotConfigured.
func NewLeadService(logger logx.Logger, results ports.ResultStore, scraper ports.ProfileScraper, pipeline *PacedPipeline, opTimeout time.Duration) *LeadService {
	if opTimeout <= 0 {
		opTimeout = DefaultOperationTimeout
	}
	return &LeadService{
		logger:   logger.With("component", "lead-service"),
		results:  results,
		scraper:  scraper,
		pipeline: pipeline,
		timeout:  opTimeout,
	}
}

// Targets loads the stored search result for filename and extracts the
// usernames it mentions.
func (s *LeadService) Targets(ctx context.Context, filename string) (domain.TargetList, error) {
	blob, err := s.results.Load(ctx, filename)
	if err != nil {
		return domain.TargetList{}, err
	}
	targets, err := ExtractTargets(blob.SerpAPI)
	if err != nil {
		return domain.TargetList{}, errors.Wrapf(err, "extract targets from %s", filename)
	}
	s.logger.Info("targets extracted", "filename", filename, "count", targets.Len())
	return targets, nil
}

// LeadStream prepares the paced scrape for filename. Missing results or
// configuration are reported before any event.
func (s *LeadService) LeadStream(ctx context.Context, filename string) (ports.EventSource, error) {
	if s.scraper == nil || s.pipeline == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "linkedin scraper")
	}
	targets, err := s.Targets(ctx, filename)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Source(targets), nil
}

// UserCard scrapes one profile into a board card.
func (s *LeadService) UserCard(ctx context.Context, username string) (domain.BoardCard, error) {
	if s.scraper == nil {
		return domain.BoardCard{}, errors.Wrap(errors.ErrNotConfigured, "linkedin scraper")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	profile, err := s.scraper.ScrapeProfile(ctx, username)
	if err != nil {
		return domain.BoardCard{}, errors.Wrapf(err, "scrape profile %s", username)
	}
	return domain.ProfileCard(profile), nil
}

// CompanyCard scrapes one company page into a board card.
func (s *LeadService) CompanyCard(ctx context.Context, slug string) (domain.BoardCard, error) {
	if s.scraper == nil {
		return domain.BoardCard{}, errors.Wrap(errors.ErrNotConfigured, "linkedin scraper")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	company, err := s.scraper.ScrapeCompany(ctx, slug)
	if err != nil {
		return domain.BoardCard{}, errors.Wrapf(err, "scrape company %s", slug)
	}
	return domain.CompanyCard(company), nil
}
