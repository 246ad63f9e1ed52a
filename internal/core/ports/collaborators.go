package ports

import (
	"context"
	"encoding/json"
	"io"

	"sleuth/internal/core/domain"
)

// ProfileScraper drives a browser through LinkedIn pages. A nil profile
// with a nil error means the page had nothing to extract.
type ProfileScraper interface {
	ScrapeProfile(ctx context.Context, username string) (*domain.Profile, error)
	ScrapeCompany(ctx context.Context, slug string) (*domain.Company, error)
}

// ObjectStore holds uploaded images under public URLs.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	URL(key string) string
}

// ImageSearcher runs a reverse image search and returns the provider
// document verbatim.
type ImageSearcher interface {
	ReverseImage(ctx context.Context, imageURL string) (json.RawMessage, error)
}

// ImageRepository persists upload records.
type ImageRepository interface {
	Store(ctx context.Context, url, filename string) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Image, error)
	Latest(ctx context.Context) (*domain.Image, error)
	List(ctx context.Context, limit, offset int) ([]domain.Image, int, error)
	Ping(ctx context.Context) error
}

// ResultStore keeps reverse-image search results keyed by upload filename.
type ResultStore interface {
	Save(ctx context.Context, filename string, blob domain.SearchResultBlob) error
	Load(ctx context.Context, filename string) (*domain.SearchResultBlob, error)
}
