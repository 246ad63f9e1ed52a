package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/search/sherlock/{username}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": keepalive\n\n")
		fmt.Fprintf(w, "data: {\"source\":\"sherlock\",\"name\":\"GitHub\",\"url\":\"https://github.com/%s\"}\n\n", r.PathValue("username"))
		fmt.Fprint(w, "data: {\"done\":true}\n\n")
	})
	mux.HandleFunc("GET /api/search/hydra/{username}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"unknown tool: \"hydra\""}`)
	})
	mux.HandleFunc("GET /api/process-image-leads/{filename}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"status\":\"starting\",\"total\":2}\n\n")
		fmt.Fprint(w, "data: {\"status\":\"profile\",\"index\":0,\"profile\":{\"name\":\"Jane\"}}\n\n")
		fmt.Fprint(w, "data: {\"error\":\"operation timed out\",\"fatal\":true}\n\n")
	})
	mux.HandleFunc("GET /api/tools", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"tools": []map[string]string{
			{"name": "sherlock", "description": "Hunt usernames"},
		}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCtl(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Search(t *testing.T) {
	srv := sseServer(t)

	code, out, _ := runCtl(t, "-s", srv.URL, "-o", "text", "search", "sherlock", "alice")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "found name=GitHub source=sherlock url=https://github.com/alice")
	assert.Contains(t, out, "found=1")
	assert.Contains(t, out, "interrupted=false")
}

func TestRun_SearchRejected(t *testing.T) {
	srv := sseServer(t)

	code, out, _ := runCtl(t, "-s", srv.URL, "-o", "text", "search", "hydra", "alice")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "unknown tool")
	assert.NotContains(t, out, "stream started")
}

func TestRun_LeadsFault(t *testing.T) {
	srv := sseServer(t)

	code, out, _ := runCtl(t, "-s", srv.URL, "-o", "json", "leads", "face.png")
	assert.Equal(t, 1, code)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var messages []string
	for _, l := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &entry))
		messages = append(messages, entry["message"].(string))
	}
	assert.Equal(t, []string{
		"stream started",
		"scrape starting",
		"profile",
		"stream fault",
		"stream finished",
		"stream ended with a fault",
	}, messages)
}

func TestRun_Tools(t *testing.T) {
	srv := sseServer(t)

	code, out, _ := runCtl(t, "--server", srv.URL+"/", "-o", "text", "tools")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `description="Hunt usernames"`)
}

func TestRun_Usage(t *testing.T) {
	code, out, _ := runCtl(t, "-h")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "COMMANDS:")

	code, _, errOut := runCtl(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "USAGE:")

	code, _, errOut = runCtl(t, "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "frobnicate"`)

	code, _, _ = runCtl(t, "search", "sherlock")
	assert.Equal(t, 2, code)

	code, out, _ = runCtl(t, "-v")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "sleuthctl dev")
}
