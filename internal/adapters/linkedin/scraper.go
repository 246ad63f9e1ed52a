// Package linkedin scrapes LinkedIn member and company pages with a
// headless Chrome driven over the DevTools protocol.
package linkedin

import (
	"context"
	_ "embed"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"sleuth/internal/core/domain"
	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
)

const baseURL = "https://www.linkedin.com"

var (
	//go:embed js/profile.js
	profileJS string

	//go:embed js/company.js
	companyJS string
)

// Config controls the browser.
type Config struct {
	SessionPath string
	Headless    bool
	ChromePath  string
	UserAgent   string
	PageTimeout time.Duration
}

// Scraper implements ports.ProfileScraper. Every scrape runs in a fresh
// browser seeded with the session cookies.
type Scraper struct {
	cfg         Config
	cookies     []*network.CookieParam
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	logger      logx.Logger
}

// New loads the session and prepares the browser allocator. Chrome is
// started lazily by the first scrape.
func New(cfg Config, logger logx.Logger) (*Scraper, error) {
	if cfg.SessionPath == "" {
		return nil, errors.Wrap(errors.ErrNotConfigured, "linkedin session path is empty")
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = 30 * time.Second
	}

	cookies, err := LoadSession(cfg.SessionPath, time.Now())
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1366, 900),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	logger.Info("linkedin scraper ready", "session", cfg.SessionPath, "cookies", len(cookies), "headless", cfg.Headless)
	return &Scraper{
		cfg:         cfg,
		cookies:     cookies,
		allocCtx:    allocCtx,
		cancelAlloc: cancel,
		logger:      logger.With("component", "linkedin"),
	}, nil
}

// Close shuts down any running browser.
func (s *Scraper) Close() error {
	s.cancelAlloc()
	return nil
}

// ScrapeProfile extracts the member page of username.
func (s *Scraper) ScrapeProfile(ctx context.Context, username string) (*domain.Profile, error) {
	pageURL := ProfileURL(username)

	var res profileResult
	if err := s.visit(ctx, pageURL, profileJS, &res); err != nil {
		return nil, err
	}
	if res.empty() {
		return nil, nil
	}
	return res.toDomain(pageURL), nil
}

// ScrapeCompany extracts the about page of a company slug.
func (s *Scraper) ScrapeCompany(ctx context.Context, slug string) (*domain.Company, error) {
	pageURL := CompanyURL(slug)

	var res companyResult
	if err := s.visit(ctx, pageURL+"about/", companyJS, &res); err != nil {
		return nil, err
	}
	if res.empty() {
		return nil, nil
	}
	return res.toDomain(pageURL), nil
}

// visit opens pageURL in a new browser and evaluates script into out.
func (s *Scraper) visit(ctx context.Context, pageURL, script string, out any) error {
	browserCtx, cancel := chromedp.NewContext(s.allocCtx)
	defer cancel()

	// The allocator is not derived from ctx.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, s.cfg.PageTimeout)
	defer cancelTimeout()

	start := time.Now()
	var location string
	err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetCookies(s.cookies),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&location),
	)
	if err == nil {
		if err = CheckLocation(location); err == nil {
			err = chromedp.Run(browserCtx, chromedp.Evaluate(script, out))
		}
	}

	s.logger.Debug("page visited", "url", pageURL, "location", location, "elapsed", time.Since(start))

	if err != nil {
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case browserCtx.Err() == context.DeadlineExceeded:
			return errors.Wrapf(errors.ErrTimeout, "load %s", pageURL)
		default:
			return errors.Wrapf(err, "scrape %s", pageURL)
		}
	}
	return nil
}

// CheckLocation classifies where LinkedIn redirected the browser.
func CheckLocation(location string) error {
	u, err := url.Parse(location)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidResponse, "bad location %q", location)
	}
	path := u.Path
	switch {
	case strings.HasPrefix(path, "/login"),
		strings.HasPrefix(path, "/authwall"),
		strings.HasPrefix(path, "/checkpoint"),
		strings.HasPrefix(path, "/uas/login"):
		return errors.Wrap(errors.ErrUnauthorized, "linkedin session expired")
	case strings.HasPrefix(path, "/404"):
		return errors.Wrap(errors.ErrNotFound, "linkedin page not found")
	}
	return nil
}

// ProfileURL is the canonical member URL.
func ProfileURL(username string) string {
	return fmt.Sprintf("%s/in/%s/", baseURL, url.PathEscape(username))
}

// CompanyURL is the canonical company URL.
func CompanyURL(slug string) string {
	return fmt.Sprintf("%s/company/%s/", baseURL, url.PathEscape(slug))
}
