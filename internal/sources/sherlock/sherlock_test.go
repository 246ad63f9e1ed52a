package sherlock

import (
	"context"
	"runtime"
	"testing"
	"time"

	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/platform/logx"
	"sleuth/internal/platform/registry"
	"sleuth/internal/testutil"
)

func TestDecoder(t *testing.T) {
	var got []domain.FoundEvent
	for _, line := range testutil.SherlockOutput {
		if ev, ok := Decoder.Decode(line); ok {
			got = append(got, ev)
		}
	}

	want := []domain.FoundEvent{
		{Source: domain.ToolSherlock, Name: "GitHub", URL: "https://github.com/octocat"},
		{Source: domain.ToolSherlock, Name: "Reddit", URL: "https://www.reddit.com/user/octocat"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestArgs(t *testing.T) {
	args := Args("octocat")
	if len(args) != 3 || args[0] != "octocat" || args[1] != "--output" || args[2] != "/dev/null" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestRegistered(t *testing.T) {
	meta, ok := registry.Global().GetMetadata(domain.ToolSherlock)
	if !ok {
		t.Fatal("sherlock should self-register")
	}
	if meta.Install == "" {
		t.Error("install hint should be set")
	}
}

func TestFactory_UsesExecPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	script := testutil.WriteScript(t, "sherlock", testutil.EchoScript(testutil.SherlockOutput, 0))

	launcher, err := factory(ports.ToolConfig{
		Enabled: true,
		Custom:  map[string]any{"exec_path": script},
	}, logx.NewSilent())
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}

	src, err := launcher.Open(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var events []domain.Event
	err = src.Run(ctx, func(ev domain.Event) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(events) != 3 || events[2] != domain.Completion() {
		t.Errorf("expected 2 hits and completion, got %v", events)
	}
}
