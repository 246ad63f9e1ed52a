package main

import (
	"fmt"
	"io"

	"sleuth/internal/adapters/httpapi"
	"sleuth/internal/adapters/linkedin"
	"sleuth/internal/adapters/objectstore"
	"sleuth/internal/adapters/search/serpapi"
	"sleuth/internal/adapters/sse"
	"sleuth/internal/adapters/storage/resultstore"
	"sleuth/internal/adapters/storage/sqlite"
	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/core/usecases"
	"sleuth/internal/platform/cache"
	"sleuth/internal/platform/config"
	"sleuth/internal/platform/httpclient"
	"sleuth/internal/platform/logx"
	"sleuth/internal/platform/rate"
	"sleuth/internal/platform/registry"
	"sleuth/internal/platform/resilience"
	"sleuth/internal/platform/telemetry"
	"sleuth/internal/sources/common"
)

// app owns the long-lived collaborators behind the HTTP server.
type app struct {
	server  *httpapi.Server
	results *resultstore.Store
	closers []io.Closer
	logger  logx.Logger
}

func (a *app) resultCache() *cache.LRU[string, domain.SearchResultBlob] {
	return a.results.Cache()
}

// Close releases collaborators in reverse build order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("failed to close collaborator", "error", err.Error())
		}
	}
}

// buildApp wires every collaborator from cfg. Optional integrations that
// are not configured are left out and their routes answer 503.
func buildApp(cfg config.Config, logger logx.Logger, version string) (*app, error) {
	a := &app{logger: logger}

	// Enumeration tools
	tools, err := registry.Global().Build(cfg.ToolConfigs(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build tools: %w", err)
	}
	for name, tool := range tools {
		if cli, ok := tool.(*common.CLISource); ok && !cli.Available() {
			logger.Warn("tool executable not found, searches will fail", "tool", name, "path", cli.ExecPath())
		}
	}

	// Storage
	images, err := sqlite.Open(cfg.Storage.DatabasePath, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, images)

	results, err := resultstore.New(cfg.Storage.ResultsDir, cfg.Storage.CacheSize, cfg.Storage.CacheTTL, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.results = results

	var objects ports.ObjectStore
	if cfg.ObjectStore.Configured() {
		store, err := objectstore.New(objectstore.Config{
			Host:      cfg.ObjectStore.Host,
			Bucket:    cfg.ObjectStore.Bucket,
			AccessKey: cfg.ObjectStore.AccessKey,
			SecretKey: cfg.ObjectStore.SecretKey,
		}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		objects = store
	} else {
		logger.Warn("object store not configured, uploads disabled")
	}

	// Reverse image search
	var searcher ports.ImageSearcher
	if cfg.Search.APIKey != "" {
		hc := httpclient.New(httpclient.Config{
			Timeout:    cfg.Search.Timeout,
			MaxRetries: cfg.Resilience.HTTPMaxRetries,
			RateLimit:  cfg.Search.RateLimit,
		}, logger)
		client, err := serpapi.New(hc, cfg.Search.BaseURL, cfg.Search.APIKey, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		searcher = client
	} else {
		logger.Warn("SERP_API_KEY not set, reverse image search disabled")
	}

	// LinkedIn
	var (
		scraper ports.ProfileScraper
		breaker *resilience.CircuitBreaker
	)
	if cfg.LinkedIn.Enabled {
		browser, err := linkedin.New(linkedin.Config{
			SessionPath: cfg.LinkedIn.SessionPath,
			Headless:    cfg.LinkedIn.Headless,
			ChromePath:  cfg.LinkedIn.ChromePath,
			UserAgent:   cfg.LinkedIn.UserAgent,
			PageTimeout: cfg.LinkedIn.PageTimeout,
		}, logger)
		if err != nil {
			logger.Warn("linkedin scraper unavailable", "error", err.Error())
		} else {
			a.closers = append(a.closers, browser)
			scraper = browser
			if cfg.Resilience.CircuitBreakerEnabled {
				breaker = resilience.NewCircuitBreaker(
					cfg.Resilience.CircuitBreakerThreshold,
					cfg.Resilience.CircuitBreakerTimeout,
					cfg.Resilience.CircuitBreakerHalfOpenMax,
				)
				scraper = resilience.NewGuardedScraper(browser, breaker, logger)
			}
		}
	}

	// Use cases
	uploads := usecases.NewUploadService(logger, objects, images, searcher, results, cfg.Search.Timeout)

	var pipeline *usecases.PacedPipeline
	if scraper != nil {
		pipeline = usecases.NewPacedPipeline(logger, scraper, usecases.PacedPipelineConfig{
			MaxTargets:       cfg.Leads.MaxTargets,
			Delay:            cfg.Leads.Delay,
			OperationTimeout: cfg.Leads.OperationTimeout,
		}, usecases.WithTracer(telemetry.Tracer("sleuth/pipeline")))
	}
	leads := usecases.NewLeadService(logger, results, scraper, pipeline, cfg.Leads.OperationTimeout)

	// HTTP
	var limiter *rate.KeyedLimiter
	if cfg.Server.StreamRateLimit > 0 {
		limiter = rate.NewKeyed(cfg.Server.StreamRateLimit, cfg.Server.StreamRateBurst, 0)
	}

	a.server = httpapi.New(httpapi.Deps{
		Logger:   logger,
		Version:  version,
		Tools:    tools,
		ToolInfo: registry.Global().GetMetadata,
		Bridge: sse.NewBridge(logger, sse.Config{
			MaxDuration: cfg.Stream.MaxDuration,
			KeepAlive:   cfg.Stream.KeepAlive,
		}),
		Uploads:        uploads,
		Leads:          leads,
		Breaker:        breaker,
		StreamLimiter:  limiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	logger.Info("collaborators ready",
		"tools", len(tools),
		"uploads", objects != nil,
		"search", searcher != nil,
		"linkedin", scraper != nil,
	)
	return a, nil
}
