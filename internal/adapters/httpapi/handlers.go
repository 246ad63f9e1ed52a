package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/core/usecases"
	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/validator"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("sleuth is running\n"))
}

type healthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version,omitempty"`
	Tools    []domain.ToolName `json:"tools"`
	Database string            `json:"database"`
	LinkedIn string            `json:"linkedin,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Version: s.deps.Version, Tools: s.toolNames(), Database: "ok"}

	if s.deps.Uploads == nil {
		resp.Database = "disabled"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Uploads.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = err.Error()
		}
	}
	if s.deps.Breaker != nil {
		resp.LinkedIn = s.deps.Breaker.State().String()
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (s *Server) toolNames() []domain.ToolName {
	names := make([]domain.ToolName, 0, len(s.deps.Tools))
	for _, name := range []domain.ToolName{domain.ToolSherlock, domain.ToolNaminter} {
		if _, ok := s.deps.Tools[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	tools := make([]ports.ToolMetadata, 0, len(s.deps.Tools))
	for _, name := range s.toolNames() {
		meta := ports.ToolMetadata{Name: name}
		if s.deps.ToolInfo != nil {
			if m, ok := s.deps.ToolInfo(name); ok {
				meta = m
			}
		}
		tools = append(tools, meta)
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": tools})
}

// handleSearch streams one enumeration tool run.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	tool, ok := domain.ParseToolName(r.PathValue("tool"))
	if !ok {
		s.fail(w, r, errors.Wrapf(domain.ErrUnknownTool, "%q", r.PathValue("tool")))
		return
	}
	s.search(w, r, tool)
}

func (s *Server) searchWith(tool domain.ToolName) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { s.search(w, r, tool) }
}

type searchParams struct {
	Username string `validate:"required,username"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, tool domain.ToolName) {
	username := r.PathValue("username")
	if username == "" {
		s.fail(w, r, domain.ErrEmptyUsername)
		return
	}
	if err := validator.Struct(searchParams{Username: username}); err != nil {
		s.fail(w, r, errors.Wrap(domain.ErrInvalidUsername, validator.FirstError(err)))
		return
	}

	launcher, ok := s.deps.Tools[tool]
	if !ok {
		s.fail(w, r, errors.Wrapf(domain.ErrUnknownTool, "%q is not enabled", tool))
		return
	}

	src, err := launcher.Open(r.Context(), username)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.log(r).Info("search stream opened", "tool", tool, "username", username)
	_ = s.deps.Bridge.Serve(w, r, src)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.deps.Uploads == nil {
		s.fail(w, r, errors.Wrap(errors.ErrNotConfigured, "uploads"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.deps.MaxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		s.fail(w, r, errors.Wrapf(errors.ErrInvalidInput, "parse upload: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrInvalidInput, "no file provided"))
		return
	}
	defer file.Close()

	res, err := s.deps.Uploads.Upload(r.Context(), usecases.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		s.log(r).Err(err, "filename", header.Filename)
		writeJSON(w, errors.StatusCode(err), errorBody{Error: err.Error(), URL: res.URL})
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	if s.deps.Uploads == nil {
		s.fail(w, r, errors.Wrap(errors.ErrNotConfigured, "object store"))
		return
	}
	url, err := s.deps.Uploads.ImageURL(r.PathValue("filename"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "url": url})
}

type listImagesResponse struct {
	Success bool `json:"success"`
	usecases.ImagePage
}

type listParams struct {
	Limit  int `validate:"gte=1,lte=1000"`
	Offset int `validate:"gte=0"`
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	if s.deps.Uploads == nil {
		s.fail(w, r, errors.Wrap(errors.ErrNotConfigured, "image repository"))
		return
	}
	var params listParams
	var err error
	if params.Limit, err = queryInt(r, "limit", 100); err != nil {
		s.fail(w, r, err)
		return
	}
	if params.Offset, err = queryInt(r, "offset", 0); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validator.Struct(params); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrInvalidInput, validator.FirstError(err)))
		return
	}

	page, err := s.deps.Uploads.ListImages(r.Context(), params.Limit, params.Offset)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listImagesResponse{Success: true, ImagePage: page})
}

func (s *Server) handleImageByID(w http.ResponseWriter, r *http.Request) {
	if s.deps.Uploads == nil {
		s.fail(w, r, errors.Wrap(errors.ErrNotConfigured, "image repository"))
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.fail(w, r, errors.Wrapf(errors.ErrInvalidInput, "invalid image id %q", r.PathValue("id")))
		return
	}
	img, err := s.deps.Uploads.Image(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "image": img, "image_url": img.URL})
}

func (s *Server) handleLatestImage(w http.ResponseWriter, r *http.Request) {
	if s.deps.Uploads == nil {
		s.fail(w, r, errors.Wrap(errors.ErrNotConfigured, "image repository"))
		return
	}
	img, err := s.deps.Uploads.LatestImage(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "image": img, "image_url": img.URL})
}

// handleLeads streams the paced scrape of every target found in the
// stored search result of filename.
func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	if s.deps.Leads == nil {
		s.fail(w, r, errors.Wrap(errors.ErrNotConfigured, "lead pipeline"))
		return
	}
	filename := r.PathValue("filename")
	if !validator.IsFilename(filename) {
		s.fail(w, r, errors.Wrapf(domain.ErrInvalidFilename, "%q", filename))
		return
	}

	src, err := s.deps.Leads.LeadStream(r.Context(), filename)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.log(r).Info("lead stream opened", "filename", filename)
	_ = s.deps.Bridge.Serve(w, r, src)
}

func (s *Server) handleScrapeUser(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	if !validator.IsSlug(user) {
		s.fail(w, r, errors.Wrapf(domain.ErrInvalidUsername, "%q", user))
		return
	}
	s.scrape(w, r, func(ctx context.Context) (domain.BoardCard, error) {
		return s.deps.Leads.UserCard(ctx, user)
	})
}

func (s *Server) handleScrapeCompany(w http.ResponseWriter, r *http.Request) {
	company := r.PathValue("company")
	if !validator.IsSlug(company) {
		s.fail(w, r, errors.Wrapf(errors.ErrInvalidInput, "invalid company %q", company))
		return
	}
	s.scrape(w, r, func(ctx context.Context) (domain.BoardCard, error) {
		return s.deps.Leads.CompanyCard(ctx, company)
	})
}

func (s *Server) scrape(w http.ResponseWriter, r *http.Request, fn func(context.Context) (domain.BoardCard, error)) {
	if s.deps.Leads == nil {
		s.fail(w, r, errors.Wrap(errors.ErrNotConfigured, "linkedin scraper"))
		return
	}
	card, err := fn(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "%s must be an integer", key)
	}
	return n, nil
}
