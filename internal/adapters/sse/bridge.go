package sse

import (
	"context"
	"fmt"
	"io"
	"iter"
	"net/http"
	"time"

	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
)

// Bridge defaults.
const (
	DefaultMaxDuration = 30 * time.Minute
	DefaultKeepAlive   = 15 * time.Second
)

// Config bounds every stream served by a Bridge.
type Config struct {
	MaxDuration time.Duration // whole-stream deadline, 0 takes the default
	KeepAlive   time.Duration // idle interval between comments, negative disables
}

// Bridge runs an event source in its own goroutine and hands its events,
// one at a time and in order, to a synchronous consumer. When the
// consumer stops, the source's context is cancelled and the bridge waits
// for it to return, so nothing it started outlives the stream.
type Bridge struct {
	logger logx.Logger
	cfg    Config
}

// NewBridge creates a bridge.
func NewBridge(logger logx.Logger, cfg Config) *Bridge {
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = DefaultMaxDuration
	}
	if cfg.KeepAlive == 0 {
		cfg.KeepAlive = DefaultKeepAlive
	}
	return &Bridge{
		logger: logger.With("component", "sse-bridge"),
		cfg:    cfg,
	}
}

// Frames yields one frame per event produced by src. Keepalive frames
// are yielded while the source is idle. If src fails after it started
// (error, panic or the stream deadline) a final fault frame is yielded
// together with the cause. Cancelling ctx ends the sequence without a
// fault. Breaking out of the loop cancels src and waits for it to exit.
func (b *Bridge) Frames(ctx context.Context, src ports.EventSource) iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		streamCtx, cancel := context.WithTimeout(ctx, b.cfg.MaxDuration)
		defer cancel()

		events := make(chan domain.Event)
		done := make(chan error, 1)
		go func() { done <- produce(streamCtx, src, events) }()

		finished := false
		defer func() {
			cancel()
			if !finished {
				<-done
			}
		}()

		var tick <-chan time.Time
		if b.cfg.KeepAlive > 0 {
			ticker := time.NewTicker(b.cfg.KeepAlive)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case ev := <-events:
				frame, err := NewFrame(ev)
				if err != nil {
					yield(faultFrame("encode event: "+err.Error()), err)
					return
				}
				if !yield(frame, nil) {
					return
				}

			case err := <-done:
				finished = true
				if err == nil || ctx.Err() != nil {
					return
				}
				if errors.Is(err, context.DeadlineExceeded) && streamCtx.Err() != nil {
					err = errors.Wrapf(errors.ErrTimeout, "stream exceeded %s", b.cfg.MaxDuration)
				}
				yield(faultFrame(err.Error()), err)
				return

			case <-tick:
				if !yield(keepAliveFrame, nil) {
					return
				}
			}
		}
	}
}

// produce runs src and forwards its events until the consumer is gone.
// A panic in src is returned as an error.
func produce(ctx context.Context, src ports.EventSource, out chan<- domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event source panic: %v", r)
		}
	}()
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	return src.Run(ctx, func(ev domain.Event) error {
		select {
		case out <- ev:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// SetHeaders writes the SSE response headers.
func SetHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

// Serve streams src to w as Server-Sent Events until the source is
// exhausted, the client goes away or a write fails. The status line is
// committed before the first event, so later failures are reported as
// fault frames.
func (b *Bridge) Serve(w http.ResponseWriter, r *http.Request, src ports.EventSource) error {
	rc := http.NewResponseController(w)
	logger := b.logger.With("path", r.URL.Path)

	SetHeaders(w.Header())
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		logger.Warn("response does not support flushing", "error", err.Error())
	}
	// Streams outlive the server's write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	start := time.Now()
	frames := 0
	for frame, cause := range b.Frames(r.Context(), src) {
		if _, err := frame.WriteTo(w); err != nil {
			logger.Debug("client write failed", "error", err.Error(), "frames", frames)
			return err
		}
		if err := rc.Flush(); err != nil {
			logger.Debug("client flush failed", "error", err.Error(), "frames", frames)
			return err
		}
		if !frame.KeepAlive {
			frames++
		}
		if cause != nil {
			logger.Warn("stream ended with fault", "error", cause.Error(), "frames", frames)
			return nil
		}
	}

	if err := r.Context().Err(); err != nil {
		logger.Debug("client disconnected", "frames", frames, "duration", time.Since(start).Round(time.Millisecond).String())
		return nil
	}
	logger.Info("stream finished", "frames", frames, "duration", time.Since(start).Round(time.Millisecond).String())
	return nil
}
