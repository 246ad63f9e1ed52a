package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	if New() == nil {
		t.Fatal("New() should return a logger, got nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"dbg", LevelDebug},
		{"  debug  ", LevelDebug},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"err", LevelError},
		{"ERROR", LevelError},
		{"garbage", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, FormatText, LevelDebug)

	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "count", 42)
	logger.Warn("warning message", "enabled", true)
	logger.Err(errors.New("test error"), "source", "sherlock")

	output := buf.String()
	for _, want := range []string{
		"level=DBG", "msg=\"debug message\"", "key=value",
		"level=INF", "count=42",
		"level=WRN", "enabled=true",
		"level=ERR", "error=\"test error\"", "source=sherlock",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got: %s", want, output)
		}
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, FormatJSON, LevelInfo)

	logger.Info("stream opened", "request_id", "abc")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if rec["msg"] != "stream opened" || rec["request_id"] != "abc" || rec["level"] != "INFO" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestLogger_With_Immutable(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, FormatText, LevelDebug)
	scoped := logger.With("source", "naminter")

	logger.Info("original")
	scoped.Info("scoped")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", len(lines), buf.String())
	}
	if strings.Contains(lines[0], "source=naminter") {
		t.Errorf("original logger output should not contain scope: %s", lines[0])
	}
	if !strings.Contains(lines[1], "source=naminter") {
		t.Errorf("scoped logger output should contain scope: %s", lines[1])
	}
}

func TestLogger_Err_Nil(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, FormatText, LevelDebug)

	logger.Err(nil, "source", "database")

	if buf.Len() != 0 {
		t.Errorf("nil error should not log anything, got: %s", buf.String())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logLevel Level
		want     map[string]bool
	}{
		{"debug level", LevelDebug, map[string]bool{"DBG": true, "INF": true, "WRN": true, "ERR": true}},
		{"info level", LevelInfo, map[string]bool{"DBG": false, "INF": true, "WRN": true, "ERR": true}},
		{"warn level", LevelWarn, map[string]bool{"DBG": false, "INF": false, "WRN": true, "ERR": true}},
		{"error level", LevelError, map[string]bool{"DBG": false, "INF": false, "WRN": false, "ERR": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, FormatText, tt.logLevel)

			logger.Debug("debug")
			logger.Info("info")
			logger.Warn("warn")
			logger.Err(errors.New("error"))

			output := buf.String()
			for tag, shouldAppear := range tt.want {
				if strings.Contains(output, "level="+tag) != shouldAppear {
					t.Errorf("tag %s presence should be %v at level %v, got: %s", tag, shouldAppear, tt.logLevel, output)
				}
			}
		})
	}
}

func TestLogger_SetLevel_SharedWithScoped(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, FormatText, LevelWarn)
	scoped := logger.With("request_id", "r1")

	scoped.Info("hidden")
	logger.SetLevel(LevelDebug)
	scoped.Debug("visible")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("info should be filtered at warn level: %s", output)
	}
	if !strings.Contains(output, "visible") {
		t.Errorf("SetLevel should reach loggers derived with With: %s", output)
	}
}

func TestLogger_ThreadSafety(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, FormatText, LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.With("worker", id).Info("tick")
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "msg=tick"); got != 50 {
		t.Errorf("expected 50 lines, got %d", got)
	}
}
