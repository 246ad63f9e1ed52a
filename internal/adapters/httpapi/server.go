// Package httpapi exposes sleuth over HTTP. Streaming routes answer with
// Server-Sent Events through the sse bridge; everything else is JSON.
package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"sleuth/internal/adapters/sse"
	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/core/usecases"
	"sleuth/internal/platform/logx"
	"sleuth/internal/platform/rate"
	"sleuth/internal/platform/resilience"
)

// Deps holds everything the handlers need. Nil services make their
// routes answer 503.
type Deps struct {
	Logger  logx.Logger
	Version string

	Tools    map[domain.ToolName]ports.StreamLauncher
	ToolInfo func(domain.ToolName) (ports.ToolMetadata, bool)
	Bridge   *sse.Bridge

	Uploads *usecases.UploadService
	Leads   *usecases.LeadService
	Breaker *resilience.CircuitBreaker

	// StreamLimiter throttles stream openings per client address.
	StreamLimiter  *rate.KeyedLimiter
	AllowedOrigins []string
	MaxUploadBytes int64
}

// Server routes requests to handlers.
type Server struct {
	deps   Deps
	logger logx.Logger
	mux    *http.ServeMux
}

// New builds the router.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = logx.NewSilent()
	}
	if deps.Bridge == nil {
		deps.Bridge = sse.NewBridge(deps.Logger, sse.Config{})
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 20 << 20
	}

	s := &Server{
		deps:   deps,
		logger: deps.Logger.With("component", "httpapi"),
		mux:    http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/tools", s.handleTools)

	s.mux.Handle("GET /api/search/{tool}/{username}", s.throttle(s.handleSearch))
	s.mux.Handle("GET /api/search/{username}", s.throttle(s.searchWith(domain.DefaultTool)))
	s.mux.Handle("GET /api/search_sherlock/{username}", s.throttle(s.searchWith(domain.ToolSherlock)))
	s.mux.Handle("GET /api/search_naminter/{username}", s.throttle(s.searchWith(domain.ToolNaminter)))

	s.mux.HandleFunc("POST /api/upload-image", s.handleUpload)
	s.mux.HandleFunc("GET /api/get-image/{filename}", s.handleGetImage)
	s.mux.HandleFunc("GET /api/list-images", s.handleListImages)
	s.mux.HandleFunc("GET /api/images/latest", s.handleLatestImage)
	s.mux.HandleFunc("GET /api/images/{id}", s.handleImageByID)

	s.mux.Handle("GET /api/process-image-leads/{filename}", s.throttle(s.handleLeads))
	s.mux.HandleFunc("GET /api/linkedin_scrape_user/{user}", s.handleScrapeUser)
	s.mux.HandleFunc("GET /api/linkedin_scrape_company/{company}", s.handleScrapeCompany)
}

// Handler returns the mux wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = s.recoverer(h)
	h = s.cors(h)
	h = s.requestLogger(h)
	return otelhttp.NewHandler(h, "sleuth.http")
}

// ServeHTTP lets the server be used directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

type ctxKey int

const loggerKey ctxKey = iota

func withLogger(ctx context.Context, l logx.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func (s *Server) log(r *http.Request) logx.Logger {
	if l, ok := r.Context().Value(loggerKey).(logx.Logger); ok {
		return l
	}
	return s.logger
}
