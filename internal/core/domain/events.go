package domain

import (
	"encoding/json"
	"fmt"
)

// Event is anything a stream producer can hand to the SSE bridge.
// Each implementation marshals to a single JSON object.
type Event interface {
	Kind() string
}

// FoundEvent is one match reported by an enumeration tool.
type FoundEvent struct {
	Source ToolName `json:"source"`
	Name   string   `json:"name"`
	URL    string   `json:"url"`
}

func (FoundEvent) Kind() string { return "found" }

// CompletionEvent terminates a subprocess stream. Done is always true.
type CompletionEvent struct {
	Done bool `json:"done"`
}

// Completion returns the terminal event of a subprocess stream.
func Completion() CompletionEvent { return CompletionEvent{Done: true} }

func (CompletionEvent) Kind() string { return "done" }

// ProgressStatus discriminates ProfileProgressEvent variants.
type ProgressStatus string

const (
	StatusStarting ProgressStatus = "starting"
	StatusProfile  ProgressStatus = "profile"
	StatusError    ProgressStatus = "error"
	StatusComplete ProgressStatus = "complete"
)

// NoResultMessage is reported when a scrape succeeds without data.
const NoResultMessage = "no result"

// ProfileProgressEvent reports progress of the paced lead pipeline.
// Only the fields relevant to Status are serialized.
type ProfileProgressEvent struct {
	Status  ProgressStatus
	Total   int
	Index   int
	Profile *Profile
	Error   string
}

func (e ProfileProgressEvent) Kind() string { return string(e.Status) }

// Starting announces how many targets will be processed.
func Starting(total int) ProfileProgressEvent {
	return ProfileProgressEvent{Status: StatusStarting, Total: total}
}

// ProfileFound carries the scraped profile for target index.
func ProfileFound(index int, p *Profile) ProfileProgressEvent {
	return ProfileProgressEvent{Status: StatusProfile, Index: index, Profile: p}
}

// ProfileFailed reports a per-target failure.
func ProfileFailed(index int, msg string) ProfileProgressEvent {
	return ProfileProgressEvent{Status: StatusError, Index: index, Error: msg}
}

// Complete terminates a pipeline stream.
func Complete() ProfileProgressEvent {
	return ProfileProgressEvent{Status: StatusComplete}
}

func (e ProfileProgressEvent) MarshalJSON() ([]byte, error) {
	switch e.Status {
	case StatusStarting:
		return json.Marshal(struct {
			Status ProgressStatus `json:"status"`
			Total  int            `json:"total"`
		}{e.Status, e.Total})
	case StatusProfile:
		return json.Marshal(struct {
			Status  ProgressStatus `json:"status"`
			Index   int            `json:"index"`
			Profile *Profile       `json:"profile"`
		}{e.Status, e.Index, e.Profile})
	case StatusError:
		return json.Marshal(struct {
			Status ProgressStatus `json:"status"`
			Index  int            `json:"index"`
			Error  string         `json:"error"`
		}{e.Status, e.Index, e.Error})
	case StatusComplete:
		return json.Marshal(struct {
			Status ProgressStatus `json:"status"`
		}{e.Status})
	default:
		return nil, fmt.Errorf("unknown progress status %q", e.Status)
	}
}

func (e *ProfileProgressEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status  ProgressStatus `json:"status"`
		Total   int            `json:"total"`
		Index   int            `json:"index"`
		Profile *Profile       `json:"profile"`
		Error   string         `json:"error"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = ProfileProgressEvent{
		Status:  raw.Status,
		Total:   raw.Total,
		Index:   raw.Index,
		Profile: raw.Profile,
		Error:   raw.Error,
	}
	return nil
}

// FaultEvent is written by the bridge when a producer fails after the
// stream has started. Producers never emit it themselves.
type FaultEvent struct {
	Error string `json:"error"`
	Fatal bool   `json:"fatal"`
}

// Fault builds a terminal FaultEvent.
func Fault(msg string) FaultEvent { return FaultEvent{Error: msg, Fatal: true} }

func (FaultEvent) Kind() string { return "fault" }
