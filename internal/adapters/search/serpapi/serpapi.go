// Package serpapi runs Google reverse image searches through SerpApi.
package serpapi

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/httpclient"
	"sleuth/internal/platform/logx"
)

const (
	// DefaultBaseURL is SerpApi's search endpoint.
	DefaultBaseURL = "https://serpapi.com/search.json"

	engine = "google_reverse_image"
	// Restricts matches to LinkedIn so the extracted targets are profiles.
	siteQuery = "site:linkedin.com"
)

// Client implements ports.ImageSearcher.
type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
	logger  logx.Logger
}

// New returns a client. An empty baseURL selects DefaultBaseURL.
func New(httpClient *httpclient.Client, baseURL, apiKey string, logger logx.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrNotConfigured, "serpapi key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger.With("component", "serpapi"),
	}, nil
}

// ReverseImage searches for imageURL and returns SerpApi's document verbatim.
func (c *Client) ReverseImage(ctx context.Context, imageURL string) (json.RawMessage, error) {
	if imageURL == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "image url is required")
	}

	c.logger.Debug("reverse image search", "image_url", imageURL)

	doc, err := c.http.GetJSON(ctx, c.buildURL(imageURL))
	if err != nil {
		return nil, errors.Wrap(err, "serpapi")
	}

	// SerpApi reports some failures in a 200 body.
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(doc, &envelope); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "serpapi: %v", err)
	}
	if envelope.Error != "" {
		if strings.Contains(strings.ToLower(envelope.Error), "api key") {
			return nil, errors.Wrap(errors.ErrUnauthorized, "serpapi: "+envelope.Error)
		}
		return nil, errors.Wrap(errors.ErrInvalidResponse, "serpapi: "+envelope.Error)
	}

	c.logger.Info("reverse image search completed", "bytes", len(doc))
	return doc, nil
}

func (c *Client) buildURL(imageURL string) string {
	q := url.Values{}
	q.Set("engine", engine)
	q.Set("q", siteQuery)
	q.Set("tbm", "isch")
	q.Set("image_url", imageURL)
	q.Set("api_key", c.apiKey)

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + q.Encode()
}
