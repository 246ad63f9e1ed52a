package testutil

import (
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport is an http.RoundTripper returning canned responses in order.
// Once the script is exhausted the last response is repeated.
type MockTransport struct {
	mu        sync.Mutex
	Responses []MockResponse
	Requests  []*http.Request
}

// MockResponse is one canned reply. A non-nil Err simulates a transport failure.
type MockResponse struct {
	Status int
	Body   string
	Err    error
}

// RoundTrip implements http.RoundTripper.
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	idx := len(m.Requests) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	r := m.Responses[idx]
	if r.Err != nil {
		return nil, r.Err
	}
	return &http.Response{
		StatusCode: r.Status,
		Body:       io.NopCloser(strings.NewReader(r.Body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// Calls returns how many requests were made.
func (m *MockTransport) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
