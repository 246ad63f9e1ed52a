package resultstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleuth/internal/core/domain"
	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
)

func newStore(t *testing.T, cacheSize int) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "serp_results")
	s, err := New(dir, cacheSize, time.Minute, logx.NewSilent())
	require.NoError(t, err)
	return s, dir
}

func TestStore_SaveLoad(t *testing.T) {
	s, dir := newStore(t, 0)
	ctx := context.Background()

	blob := domain.SearchResultBlob{
		URL:     "https://ewr1.example.com/bucket/face.jpg",
		SerpAPI: json.RawMessage(`{"image_results":[]}`),
	}
	require.NoError(t, s.Save(ctx, "face.jpg", blob))

	raw, err := os.ReadFile(filepath.Join(dir, "face.jpg.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://ewr1.example.com/bucket/face.jpg","serpapi":{"image_results":[]}}`, string(raw))

	got, err := s.Load(ctx, "face.jpg")
	require.NoError(t, err)
	assert.Equal(t, blob.URL, got.URL)
	assert.JSONEq(t, `{"image_results":[]}`, string(got.SerpAPI))
}

func TestStore_LoadMissing(t *testing.T) {
	s, _ := newStore(t, 4)

	_, err := s.Load(context.Background(), "nope.png")
	assert.True(t, errors.IsNotFound(err))
}

func TestStore_RejectsTraversal(t *testing.T) {
	s, _ := newStore(t, 0)

	err := s.Save(context.Background(), "../escape", domain.SearchResultBlob{})
	assert.True(t, errors.IsInvalidInput(err))

	_, err = s.Load(context.Background(), "../../etc/passwd")
	assert.True(t, errors.IsInvalidInput(err))
}

func TestStore_CorruptBlob(t *testing.T) {
	s, dir := newStore(t, 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png.json"), []byte("{not json"), 0o644))

	_, err := s.Load(context.Background(), "bad.png")
	assert.True(t, errors.IsInvalidResponse(err))
}

func TestStore_ReadThroughCache(t *testing.T) {
	s, dir := newStore(t, 4)
	ctx := context.Background()

	blob := domain.SearchResultBlob{URL: "https://x/a.png", SerpAPI: json.RawMessage(`{}`)}
	require.NoError(t, s.Save(ctx, "a.png", blob))
	assert.Equal(t, 1, s.Cache().Len())

	// Served from cache once the file is gone.
	require.NoError(t, os.Remove(filepath.Join(dir, "a.png.json")))
	got, err := s.Load(ctx, "a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://x/a.png", got.URL)
}

func TestStore_CanceledContext(t *testing.T) {
	s, _ := newStore(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Save(ctx, "a.png", domain.SearchResultBlob{}), context.Canceled)
}
