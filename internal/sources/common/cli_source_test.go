package common

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"sleuth/internal/core/domain"
	perrors "sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
	"sleuth/internal/testutil"
)

// recorder collects emitted events.
type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) emit(ev domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) snapshot() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

func newTestSource(t *testing.T, script string) *CLISource {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	path := testutil.WriteScript(t, "fake-tool", script)
	return NewCLISource(logx.NewWithLevel(logx.LevelError), CLIConfig{
		Tool:      domain.ToolSherlock,
		ExecPath:  path,
		KillGrace: 200 * time.Millisecond,
		Args:      func(u string) []string { return []string{u, "--output", "/dev/null"} },
		Decoder:   MarkerDecoder{Source: domain.ToolSherlock, Marker: FoundMarker, TrimTrailing: 1},
	})
}

func TestCLISource_Start_NotFound(t *testing.T) {
	src := NewCLISource(logx.NewWithLevel(logx.LevelError), CLIConfig{
		Tool:     domain.ToolNaminter,
		ExecPath: "sleuth-nonexistent-binary-12345",
		Args:     func(u string) []string { return []string{u} },
		Decoder:  MarkerDecoder{Marker: FoundMarker},
	})

	stream, err := src.Start(context.Background(), "octocat")
	if err == nil {
		stream.Close()
		t.Fatal("expected error for missing binary")
	}
	if !perrors.IsToolUnavailable(err) {
		t.Errorf("expected ErrToolUnavailable, got %v", err)
	}
	if src.Available() {
		t.Error("Available() should be false for a missing binary")
	}

	es, err := src.Open(context.Background(), "octocat")
	if es != nil || err == nil {
		t.Errorf("Open should return a nil source and an error, got %v, %v", es, err)
	}
}

func TestProcessStream_Run_EmitsMatchesThenCompletion(t *testing.T) {
	src := newTestSource(t, testutil.EchoScript(testutil.SherlockOutput, 0))

	stream, err := src.Start(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer stream.Close()

	rec := &recorder{}
	if err := stream.Run(context.Background(), rec.emit); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := rec.snapshot()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %v", len(events), events)
	}

	want := []domain.FoundEvent{
		{Source: domain.ToolSherlock, Name: "GitHub", URL: "https://github.com/octocat"},
		{Source: domain.ToolSherlock, Name: "Reddit", URL: "https://www.reddit.com/user/octocat"},
	}
	for i, w := range want {
		if events[i] != w {
			t.Errorf("event %d = %+v, want %+v", i, events[i], w)
		}
	}
	if events[2] != domain.Completion() {
		t.Errorf("last event should be completion, got %+v", events[2])
	}
}

func TestProcessStream_Run_PassesArgs(t *testing.T) {
	src := newTestSource(t, `printf '[+] Args: %s|%s|%s\n' "$1" "$2" "$3"`)

	stream, err := src.Start(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer stream.Close()

	rec := &recorder{}
	if err := stream.Run(context.Background(), rec.emit); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := rec.snapshot()
	found, ok := events[0].(domain.FoundEvent)
	if !ok || found.URL != "octocat|--output|/dev/null" {
		t.Errorf("unexpected first event: %+v", events[0])
	}
}

func TestProcessStream_Run_ZeroMatches(t *testing.T) {
	src := newTestSource(t, testutil.EchoScript([]string{"[*] Checking username", "nothing here"}, 0))

	stream, err := src.Start(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer stream.Close()

	rec := &recorder{}
	if err := stream.Run(context.Background(), rec.emit); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := rec.snapshot()
	if len(events) != 1 || events[0] != domain.Completion() {
		t.Errorf("expected a single completion event, got %v", events)
	}
}

func TestProcessStream_Run_CrashStillCompletes(t *testing.T) {
	src := newTestSource(t, testutil.EchoScript([]string{"[+] GitHub: https://github.com/x"}, 3))

	stream, err := src.Start(context.Background(), "x")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer stream.Close()

	rec := &recorder{}
	if err := stream.Run(context.Background(), rec.emit); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := rec.snapshot()
	if len(events) != 2 || events[1] != domain.Completion() {
		t.Fatalf("expected match then completion, got %v", events)
	}
	if stream.ExitErr() == nil {
		t.Error("ExitErr should report the non-zero exit")
	}
}

func TestProcessStream_Run_StderrDiscarded(t *testing.T) {
	src := newTestSource(t, `echo '[+] Err: https://stderr' >&2; echo '[+] Out: https://stdout'`)

	stream, err := src.Start(context.Background(), "x")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer stream.Close()

	rec := &recorder{}
	if err := stream.Run(context.Background(), rec.emit); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := rec.snapshot()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %v", events)
	}
	if ev := events[0].(domain.FoundEvent); ev.Name != "Out" {
		t.Errorf("stderr line leaked into stream: %+v", ev)
	}
}

func TestProcessStream_Run_CancelKillsChild(t *testing.T) {
	src := newTestSource(t, `echo '[+] GitHub: https://github.com/x'; exec sleep 30`)

	stream, err := src.Start(context.Background(), "x")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer stream.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recorder{}
	emit := func(ev domain.Event) error {
		rec.emit(ev)
		cancel()
		return nil
	}

	start := time.Now()
	err = stream.Run(ctx, emit)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Run took %v after cancellation", elapsed)
	}
	if stream.cmd.ProcessState == nil {
		t.Error("child was not reaped")
	}
	for _, ev := range rec.snapshot() {
		if ev == domain.Completion() {
			t.Error("no completion event expected after cancellation")
		}
	}
}

func TestProcessStream_Run_KillsAfterGrace(t *testing.T) {
	src := newTestSource(t, `trap '' INT; echo '[+] A: https://a'; while true; do sleep 0.1; done`)

	stream, err := src.Start(context.Background(), "x")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer stream.Close()

	ctx, cancel := context.WithCancel(context.Background())
	emit := func(domain.Event) error {
		cancel()
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- stream.Run(ctx, emit) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("child ignoring SIGINT was not killed")
	}
}

func TestProcessStream_Run_EmitErrorStops(t *testing.T) {
	src := newTestSource(t, `while true; do echo '[+] Loop: https://loop'; sleep 0.05; done`)

	stream, err := src.Start(context.Background(), "x")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer stream.Close()

	gone := errors.New("client gone")
	calls := 0
	err = stream.Run(context.Background(), func(domain.Event) error {
		calls++
		return gone
	})

	if !errors.Is(err, gone) {
		t.Fatalf("expected emit error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 emit call, got %d", calls)
	}
	if stream.cmd.ProcessState == nil {
		t.Error("child was not reaped")
	}
}

func TestProcessStream_Timeout(t *testing.T) {
	src := newTestSource(t, `exec sleep 30`)
	src.cfg.Timeout = 300 * time.Millisecond

	stream, err := src.Start(context.Background(), "x")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer stream.Close()

	rec := &recorder{}
	start := time.Now()
	if err := stream.Run(context.Background(), rec.emit); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout did not stop the child")
	}
	events := rec.snapshot()
	if len(events) != 1 || events[0] != domain.Completion() {
		t.Errorf("expected completion after timeout, got %v", events)
	}
}

func TestProcessStream_Close_Idempotent(t *testing.T) {
	src := newTestSource(t, `exec sleep 30`)

	stream, err := src.Start(context.Background(), "x")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := stream.Close(); err != nil {
				t.Errorf("Close returned %v", err)
			}
		}()
	}
	wg.Wait()

	if stream.cmd.ProcessState == nil {
		t.Error("child was not reaped by Close")
	}
	if !strings.Contains(stream.ExitErr().Error(), "signal") {
		t.Errorf("expected signal exit, got %v", stream.ExitErr())
	}
}
