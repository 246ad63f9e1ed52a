// Package resultstore keeps reverse image search results as JSON files,
// one per uploaded filename.
package resultstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sleuth/internal/core/domain"
	"sleuth/internal/platform/cache"
	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
	"sleuth/internal/platform/validator"
)

// Store implements ports.ResultStore on a directory of <filename>.json blobs.
type Store struct {
	dir    string
	cache  *cache.LRU[string, domain.SearchResultBlob]
	logger logx.Logger
}

// New creates the directory if needed. A cacheSize of zero disables caching.
func New(dir string, cacheSize int, ttl time.Duration, logger logx.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	s := &Store{dir: dir, logger: logger.With("component", "result-store")}
	if cacheSize > 0 {
		s.cache = cache.New[string, domain.SearchResultBlob](cacheSize, ttl)
	}
	return s, nil
}

// Cache exposes the read-through cache so callers can run its janitor.
func (s *Store) Cache() *cache.LRU[string, domain.SearchResultBlob] { return s.cache }

func (s *Store) path(filename string) (string, error) {
	if !validator.IsFilename(filename) {
		return "", errors.Wrapf(errors.ErrInvalidInput, "invalid filename %q", filename)
	}
	return filepath.Join(s.dir, filename+".json"), nil
}

// Save writes the blob atomically through a temp file and rename.
func (s *Store) Save(ctx context.Context, filename string, blob domain.SearchResultBlob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.path(filename)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode search result: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".result-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write search result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to store search result: %w", err)
	}

	if s.cache != nil {
		s.cache.Add(filename, blob)
	}
	s.logger.Debug("search result saved", "filename", filename, "bytes", len(data))
	return nil
}

// Load returns the blob for filename, or ErrNotFound.
func (s *Store) Load(ctx context.Context, filename string) (*domain.SearchResultBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := s.path(filename)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if blob, ok := s.cache.Get(filename); ok {
			return &blob, nil
		}
	}

	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "no search result for %q", filename)
		}
		return nil, fmt.Errorf("failed to read search result: %w", err)
	}

	var blob domain.SearchResultBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "corrupt search result for %q: %v", filename, err)
	}

	if s.cache != nil {
		s.cache.Add(filename, blob)
	}
	return &blob, nil
}
