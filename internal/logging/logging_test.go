package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

// captureLogOutput temporarily points the global logger at a buffer.
func captureLogOutput(f func()) string {
	var buf bytes.Buffer
	oldLogger := defaultLogger
	defaultLogger = NewLogger(&buf, LevelDebug, FormatJSON)

	f()

	defaultLogger = oldLogger
	return buf.String()
}

// decode parses a single JSON log line.
func decode(t *testing.T, line string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &m); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, line)
	}
	return m
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"", FormatJSON, false},
		{"Text", FormatText, false},
		{"xml", FormatJSON, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"debug", LevelDebug, true, true, true},
		{"info", LevelInfo, false, true, true},
		{"warn", LevelWarn, false, false, true},
		{"error", LevelError, false, false, false},
		{"invalid falls back to info", Level(999), false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level, FormatText)
			logger.Debug("debug-msg")
			logger.Info("info-msg")
			logger.Warn("warn-msg")

			out := buf.String()
			if got := strings.Contains(out, "debug-msg"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "info-msg"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(out, "warn-msg"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestInitLoggerUsesOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	InitLogger(LevelInfo, FormatJSON)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		InitLogger(LevelInfo, FormatJSON)
	})

	Info("hello", "key", "value")

	m := decode(t, buf.String())
	if m["msg"] != "hello" || m["key"] != "value" {
		t.Errorf("unexpected record %v", m)
	}
	ts, ok := m["time"].(string)
	if !ok {
		t.Fatalf("time missing from %v", m)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
	if slog.Default() != GetLogger() {
		t.Error("InitLogger should install the default slog logger")
	}
}

func TestCommandContext(t *testing.T) {
	ctx := WithCommand(context.Background(), "resolve")
	if got := GetCommand(ctx); got != "resolve" {
		t.Errorf("GetCommand = %q", got)
	}
	if got := GetCommand(context.Background()); got != "" {
		t.Errorf("GetCommand on empty context = %q", got)
	}

	out := captureLogOutput(func() {
		InfoContext(ctx, "with command")
		InfoContext(context.Background(), "without command")
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if decode(t, lines[0])["command"] != "resolve" {
		t.Errorf("command attribute missing: %s", lines[0])
	}
	if _, ok := decode(t, lines[1])["command"]; ok {
		t.Errorf("unexpected command attribute: %s", lines[1])
	}
}

func TestLoggingFunctions(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		fn    func()
		level string
	}{
		{"Debug", func() { Debug("m") }, "DEBUG"},
		{"Info", func() { Info("m") }, "INFO"},
		{"Warn", func() { Warn("m") }, "WARN"},
		{"Error", func() { Error("m") }, "ERROR"},
		{"DebugContext", func() { DebugContext(ctx, "m") }, "DEBUG"},
		{"InfoContext", func() { InfoContext(ctx, "m") }, "INFO"},
		{"WarnContext", func() { WarnContext(ctx, "m") }, "WARN"},
		{"ErrorContext", func() { ErrorContext(ctx, "m") }, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := decode(t, captureLogOutput(tt.fn))
			if m["level"] != tt.level {
				t.Errorf("level = %v, want %s", m["level"], tt.level)
			}
		})
	}
}

func TestHydrationComplete(t *testing.T) {
	out := captureLogOutput(func() {
		HydrationComplete(context.Background(), "kjv.json.xz", 66, 1189, 31102, 3000, 1500*time.Millisecond, "fingerprint", "abc")
	})
	m := decode(t, out)
	if m["msg"] != "hydration_complete" {
		t.Errorf("msg = %v", m["msg"])
	}
	if m["books"] != float64(66) || m["verses"] != float64(31102) || m["duration_ms"] != float64(1500) {
		t.Errorf("unexpected fields %v", m)
	}
	if m["fingerprint"] != "abc" {
		t.Errorf("extra args not appended: %v", m)
	}
}

func TestReferenceResolved(t *testing.T) {
	out := captureLogOutput(func() {
		ReferenceResolved(WithCommand(context.Background(), "resolve"), "jn 3:16", "John 3:16", 1)
	})
	m := decode(t, out)
	if m["level"] != "DEBUG" || m["reference"] != "jn 3:16" || m["passage"] != "John 3:16" {
		t.Errorf("unexpected record %v", m)
	}
	if m["command"] != "resolve" {
		t.Errorf("command attribute missing: %v", m)
	}
}

func TestContentLookupAndError(t *testing.T) {
	out := captureLogOutput(func() {
		ContentLookup(context.Background(), 43003016, "sqlite", true)
		ContentError(context.Background(), "import", errors.New("bad line"), "line", 3)
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}

	lookup := decode(t, lines[0])
	if lookup["ordinal"] != float64(43003016) || lookup["hit"] != true {
		t.Errorf("unexpected lookup %v", lookup)
	}

	failure := decode(t, lines[1])
	if failure["level"] != "ERROR" || failure["error"] != "bad line" || failure["line"] != float64(3) {
		t.Errorf("unexpected error record %v", failure)
	}
}
