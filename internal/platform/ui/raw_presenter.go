package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
)

// LogFormat selects the raw line format.
type LogFormat string

const (
	LogFormatText LogFormat = "text" // logfmt
	LogFormatJSON LogFormat = "json"
)

// RawPresenter writes one plain line per event, for pipes and logs.
type RawPresenter struct {
	mu     sync.Mutex
	w      io.Writer
	format LogFormat
	now    func() time.Time
}

func NewRawPresenter(w io.Writer, format LogFormat) *RawPresenter {
	return &RawPresenter{w: w, format: format, now: time.Now}
}

func (r *RawPresenter) log(level, message string, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := r.now().UTC().Format(time.RFC3339)
	if r.format == LogFormatJSON {
		entry := map[string]any{"timestamp": ts, "level": level, "message": message}
		if len(fields) > 0 {
			entry["data"] = fields
		}
		b, _ := json.Marshal(entry)
		fmt.Fprintln(r.w, string(b))
		return
	}

	parts := []string{ts, fmt.Sprintf("%-5s", level), message}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+formatValue(fields[k]))
	}
	fmt.Fprintln(r.w, strings.Join(parts, " "))
}

// formatValue quotes strings containing spaces.
func formatValue(v any) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, " \t\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

func (r *RawPresenter) Start(info StreamInfo) {
	r.log("INFO", "stream started", map[string]any{
		"server":  info.Server,
		"kind":    info.Kind,
		"subject": info.Subject,
		"tool":    info.Tool,
	})
}

func (r *RawPresenter) Found(ev domain.FoundEvent) {
	r.log("INFO", "found", map[string]any{"source": string(ev.Source), "name": ev.Name, "url": ev.URL})
}

func (r *RawPresenter) Progress(ev domain.ProfileProgressEvent) {
	switch ev.Status {
	case domain.StatusStarting:
		r.log("INFO", "scrape starting", map[string]any{"total": ev.Total})
	case domain.StatusProfile:
		fields := map[string]any{"index": ev.Index}
		if ev.Profile != nil {
			fields["name"] = domain.Deref(ev.Profile.Name)
			fields["title"] = domain.Deref(ev.Profile.Title)
			fields["url"] = domain.Deref(ev.Profile.LinkedInURL)
		}
		r.log("INFO", "profile", fields)
	case domain.StatusError:
		r.log("WARN", "profile failed", map[string]any{"index": ev.Index, "error": ev.Error})
	case domain.StatusComplete:
		r.log("INFO", "scrape complete", nil)
	}
}

func (r *RawPresenter) Fault(ev domain.FaultEvent) {
	r.log("ERROR", "stream fault", map[string]any{"error": ev.Error})
}

func (r *RawPresenter) Tools(tools []ports.ToolMetadata) {
	for _, t := range tools {
		r.log("INFO", "tool", map[string]any{"name": string(t.Name), "description": t.Description, "homepage": t.Homepage})
	}
}

func (r *RawPresenter) Info(msg string)    { r.log("INFO", msg, nil) }
func (r *RawPresenter) Warning(msg string) { r.log("WARN", msg, nil) }
func (r *RawPresenter) Error(msg string)   { r.log("ERROR", msg, nil) }

func (r *RawPresenter) Finish(stats StreamStats) {
	r.log("INFO", "stream finished", map[string]any{
		"duration_ms": stats.Duration.Milliseconds(),
		"found":       stats.Found,
		"profiles":    stats.Profiles,
		"failures":    stats.Failures,
		"faulted":     stats.Faulted,
		"interrupted": stats.Interrupted,
	})
}

func (r *RawPresenter) Close() error { return nil }
