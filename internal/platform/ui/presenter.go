// Package ui renders sleuth streams in the terminal.
package ui

import (
	"time"

	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
)

// Mode selects a presenter.
type Mode string

const (
	ModePretty Mode = "pretty" // colors, boxes and a summary table (default)
	ModeText   Mode = "text"   // logfmt lines
	ModeJSON   Mode = "json"   // one JSON object per line
	ModeQuiet  Mode = "quiet"  // no output
)

// Presenter shows the progress of one stream as events arrive.
type Presenter interface {
	// Start announces the stream.
	Start(info StreamInfo)

	// Found shows one enumeration match.
	Found(ev domain.FoundEvent)

	// Progress shows one paced pipeline event.
	Progress(ev domain.ProfileProgressEvent)

	// Fault shows a terminal producer failure.
	Fault(ev domain.FaultEvent)

	// Tools lists the tools a server offers.
	Tools(tools []ports.ToolMetadata)

	Info(msg string)
	Warning(msg string)
	Error(msg string)

	// Finish prints the summary.
	Finish(stats StreamStats)

	Close() error
}

// StreamInfo describes the stream being followed.
type StreamInfo struct {
	Server  string
	Kind    string // search | leads
	Subject string // username or upload filename
	Tool    string
}

// StreamStats is the summary of a finished stream.
type StreamStats struct {
	Duration time.Duration
	Found    int
	Profiles int
	Failures int
	Faulted  bool
	// Interrupted is set when the client stopped before the server finished.
	Interrupted bool
}

// New returns the presenter for mode. Unknown modes fall back to pretty.
func New(mode Mode, opts ...Option) Presenter {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	w := o.writer()

	switch mode {
	case ModeQuiet:
		return NewNoopPresenter()
	case ModeText:
		return NewRawPresenter(w, LogFormatText)
	case ModeJSON:
		return NewRawPresenter(w, LogFormatJSON)
	default:
		return NewPTermPresenter(w)
	}
}
