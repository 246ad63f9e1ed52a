package ports

import (
	"context"
	"time"

	"sleuth/internal/core/domain"
)

// Emit hands one event to the consumer. It blocks until the consumer has
// taken the event and returns an error once the consumer is gone, after
// which the producer must stop.
type Emit func(domain.Event) error

// EventSource is a finite, non-restartable producer of stream events.
// Run returns when the stream is exhausted, ctx is cancelled or emit
// fails. Sources that own resources also implement io.Closer; the bridge
// closes them when the stream ends.
type EventSource interface {
	Run(ctx context.Context, emit Emit) error
}

// EventSourceFunc adapts a function to EventSource.
type EventSourceFunc func(ctx context.Context, emit Emit) error

func (f EventSourceFunc) Run(ctx context.Context, emit Emit) error { return f(ctx, emit) }

// StreamLauncher starts an enumeration tool for one username. Launch
// failures are returned here, before any event exists.
type StreamLauncher interface {
	Name() domain.ToolName
	Open(ctx context.Context, username string) (EventSource, error)
}

// ToolConfig is the per-tool configuration handed to a tool factory.
type ToolConfig struct {
	Enabled   bool
	Timeout   time.Duration
	KillGrace time.Duration

	// Custom holds tool specific settings such as exec_path or max_tasks.
	Custom map[string]any
}

// ToolMetadata describes a registered enumeration tool.
type ToolMetadata struct {
	Name        domain.ToolName `json:"name"`
	Description string          `json:"description"`
	Homepage    string          `json:"homepage"`
	Install     string          `json:"install"`
	OutputForm  string          `json:"output_form"`
}
