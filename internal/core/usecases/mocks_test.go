package usecases

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"sleuth/internal/core/domain"
	"sleuth/internal/platform/errors"
)

// fakeScraper answers ScrapeProfile from per-username handlers.
type fakeScraper struct {
	mu       sync.Mutex
	calls    []string
	profiles map[string]func(ctx context.Context) (*domain.Profile, error)
	company  *domain.Company
}

func newFakeScraper() *fakeScraper {
	return &fakeScraper{profiles: make(map[string]func(ctx context.Context) (*domain.Profile, error))}
}

func (f *fakeScraper) on(username string, fn func(ctx context.Context) (*domain.Profile, error)) *fakeScraper {
	f.profiles[username] = fn
	return f
}

func (f *fakeScraper) ScrapeProfile(ctx context.Context, username string) (*domain.Profile, error) {
	f.mu.Lock()
	f.calls = append(f.calls, username)
	fn := f.profiles[username]
	f.mu.Unlock()

	if fn == nil {
		return &domain.Profile{Name: domain.Str(username)}, nil
	}
	return fn(ctx)
}

func (f *fakeScraper) ScrapeCompany(ctx context.Context, slug string) (*domain.Company, error) {
	if f.company == nil {
		return nil, errors.Wrap(errors.ErrNotFound, slug)
	}
	return f.company, nil
}

func (f *fakeScraper) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// sleepRecorder records pacing delays without waiting.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *sleepRecorder) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

// collector gathers emitted events.
type collector struct {
	events []domain.Event
}

func (c *collector) emit(ev domain.Event) error {
	c.events = append(c.events, ev)
	return nil
}

func (c *collector) progress() []domain.ProfileProgressEvent {
	out := make([]domain.ProfileProgressEvent, 0, len(c.events))
	for _, ev := range c.events {
		if p, ok := ev.(domain.ProfileProgressEvent); ok {
			out = append(out, p)
		}
	}
	return out
}

type memoryResults struct {
	mu    sync.Mutex
	blobs map[string]domain.SearchResultBlob
}

func newMemoryResults() *memoryResults {
	return &memoryResults{blobs: make(map[string]domain.SearchResultBlob)}
}

func (m *memoryResults) Save(ctx context.Context, filename string, blob domain.SearchResultBlob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[filename] = blob
	return nil
}

func (m *memoryResults) Load(ctx context.Context, filename string) (*domain.SearchResultBlob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.blobs[filename]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "search result %s", filename)
	}
	return &blob, nil
}

type memoryObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (m *memoryObjects) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.err != nil {
		return m.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf.Bytes()
	m.types[key] = contentType
	return nil
}

func (m *memoryObjects) URL(key string) string {
	return "https://ewr1.example.com/bucket/" + key
}

type memoryImages struct {
	mu     sync.Mutex
	images []domain.Image
}

func (m *memoryImages) Store(ctx context.Context, url, filename string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := int64(len(m.images) + 1)
	m.images = append(m.images, domain.Image{ID: id, URL: url, Filename: filename, CreatedAt: time.Now()})
	return id, nil
}

func (m *memoryImages) Get(ctx context.Context, id int64) (*domain.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.images {
		if m.images[i].ID == id {
			img := m.images[i]
			return &img, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (m *memoryImages) Latest(ctx context.Context) (*domain.Image, error) {
	return m.Get(ctx, int64(len(m.images)))
}

func (m *memoryImages) List(ctx context.Context, limit, offset int) ([]domain.Image, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := len(m.images)
	if offset >= total {
		return nil, total, nil
	}
	end := min(offset+limit, total)
	return append([]domain.Image(nil), m.images[offset:end]...), total, nil
}

func (m *memoryImages) Ping(ctx context.Context) error { return nil }

type stubSearcher struct {
	doc    json.RawMessage
	err    error
	gotURL string
}

func (s *stubSearcher) ReverseImage(ctx context.Context, imageURL string) (json.RawMessage, error) {
	s.gotURL = imageURL
	return s.doc, s.err
}
