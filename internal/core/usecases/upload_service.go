package usecases

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
	"sleuth/internal/platform/validator"
)

// Upload is an image received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult is returned after an image was stored and searched.
type UploadResult struct {
	ID      int64           `json:"id,omitempty"`
	URL     string          `json:"url"`
	SerpAPI json.RawMessage `json:"serpapi,omitempty"`
}

// UploadService stores uploaded images and runs the reverse image search
// whose result later feeds the lead pipeline.
type UploadService struct {
	logger   logx.Logger
	objects  ports.ObjectStore
	images   ports.ImageRepository
	searcher ports.ImageSearcher
	results  ports.ResultStore
	timeout  time.Duration
}

// NewUploadService wires a service. searcher may be nil; uploads then
// succeed up to the search step and report errors.ErrNotConfigured.
func NewUploadService(logger logx.Logger, objects ports.ObjectStore, images ports.ImageRepository, searcher ports.ImageSearcher, results ports.ResultStore, searchTimeout time.Duration) *UploadService {
	if searchTimeout <= 0 {
		searchTimeout = DefaultOperationTimeout
	}
	return &UploadService{
		logger:   logger.With("component", "upload-service"),
		objects:  objects,
		images:   images,
		searcher: searcher,
		results:  results,
		timeout:  searchTimeout,
	}
}

// Upload stores the image, records it and saves the reverse search result
// under the sanitized filename. When the search step fails the result still
// carries the public URL.
func (s *UploadService) Upload(ctx context.Context, up Upload) (UploadResult, error) {
	if s.objects == nil {
		return UploadResult{}, errors.Wrap(errors.ErrNotConfigured, "object store")
	}
	name := validator.SanitizeFilename(up.Filename)
	if name == "" {
		return UploadResult{}, errors.Wrap(domain.ErrInvalidFilename, "no file selected")
	}
	contentType := up.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	logger := s.logger.With("filename", name, "size", up.Size)
	logger.Info("uploading image")

	if err := s.objects.Put(ctx, name, up.Body, up.Size, contentType); err != nil {
		return UploadResult{}, errors.Wrapf(err, "store object %s", name)
	}
	res := UploadResult{URL: s.objects.URL(name)}

	if s.images != nil {
		id, err := s.images.Store(ctx, res.URL, name)
		if err != nil {
			return res, errors.Wrap(err, "record image")
		}
		res.ID = id
	}

	if s.searcher == nil {
		return res, errors.Wrap(errors.ErrNotConfigured, "reverse image search")
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	doc, err := s.searcher.ReverseImage(searchCtx, res.URL)
	if err != nil {
		return res, errors.Wrap(err, "reverse image search")
	}
	res.SerpAPI = doc
	logger.Info("reverse image search finished", "duration", time.Since(start).Round(time.Millisecond).String())

	if s.results != nil {
		blob := domain.SearchResultBlob{URL: res.URL, SerpAPI: doc}
		if err := s.results.Save(ctx, name, blob); err != nil {
			return res, errors.Wrap(err, "save search result")
		}
	}
	return res, nil
}

// ImageURL returns the public URL of a stored image.
func (s *UploadService) ImageURL(filename string) (string, error) {
	if s.objects == nil {
		return "", errors.Wrap(errors.ErrNotConfigured, "object store")
	}
	if !validator.IsFilename(filename) {
		return "", errors.Wrap(domain.ErrInvalidFilename, filename)
	}
	return s.objects.URL(filename), nil
}

// ImagePage is one page of stored images.
type ImagePage struct {
	Total  int            `json:"total"`
	Count  int            `json:"count"`
	Images []domain.Image `json:"images"`
}

// ListImages returns images newest first.
func (s *UploadService) ListImages(ctx context.Context, limit, offset int) (ImagePage, error) {
	if s.images == nil {
		return ImagePage{}, errors.Wrap(errors.ErrNotConfigured, "image repository")
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	images, total, err := s.images.List(ctx, limit, offset)
	if err != nil {
		return ImagePage{}, errors.Wrap(err, "list images")
	}
	if images == nil {
		images = []domain.Image{}
	}
	return ImagePage{Total: total, Count: len(images), Images: images}, nil
}

// Image returns the stored record with id.
func (s *UploadService) Image(ctx context.Context, id int64) (*domain.Image, error) {
	if s.images == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "image repository")
	}
	return s.images.Get(ctx, id)
}

// LatestImage returns the most recent upload.
func (s *UploadService) LatestImage(ctx context.Context) (*domain.Image, error) {
	if s.images == nil {
		return nil, errors.Wrap(errors.ErrNotConfigured, "image repository")
	}
	return s.images.Latest(ctx)
}

// Ping checks the image repository.
func (s *UploadService) Ping(ctx context.Context) error {
	if s.images == nil {
		return errors.Wrap(errors.ErrNotConfigured, "image repository")
	}
	return s.images.Ping(ctx)
}
