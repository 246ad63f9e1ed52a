package domain

import (
	"encoding/json"
	"time"
)

// Image is a persisted upload record.
type Image struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"createdAt"`
}

// SearchResultBlob is the stored reverse-image search result for an upload.
// SerpAPI keeps the provider document verbatim.
type SearchResultBlob struct {
	URL     string          `json:"url"`
	SerpAPI json.RawMessage `json:"serpapi"`
}
