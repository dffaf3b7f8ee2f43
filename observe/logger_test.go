package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0]["msg"] != "warn" || entries[0]["level"] != "warn" {
		t.Errorf("first entry = %v", entries[0])
	}
	if _, ok := entries[0]["timestamp"]; !ok {
		t.Error("entry missing timestamp")
	}
}

func TestLogger_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	logger.Warn(context.Background(), "authentication failed",
		F("api_key", "wrong-api-key"),
		F("token", "eyJ..."),
		F("reason", "invalid api key"),
	)

	out := buf.String()
	if strings.Contains(out, "wrong-api-key") || strings.Contains(out, "eyJ...") {
		t.Fatalf("credential leaked into log: %s", out)
	}
	entries := decodeLines(t, &buf)
	if entries[0]["api_key"] != "[REDACTED]" {
		t.Errorf("api_key = %v, want [REDACTED]", entries[0]["api_key"])
	}
	if entries[0]["reason"] != "invalid api key" {
		t.Errorf("reason = %v", entries[0]["reason"])
	}
}

func TestLogger_WithTool(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf).WithTool(ToolMeta{
		Namespace: "nrcc",
		Name:      "get_chemical_detail",
		Version:   "1.0.0",
	})

	logger.Info(context.Background(), "done")

	entries := decodeLines(t, &buf)
	if entries[0]["tool.id"] != "nrcc.get_chemical_detail" {
		t.Errorf("tool.id = %v", entries[0]["tool.id"])
	}
	if entries[0]["tool.version"] != "1.0.0" {
		t.Errorf("tool.version = %v", entries[0]["tool.version"])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Info(context.Background(), "ignored", F("k", "v"))
	if logger.WithTool(ToolMeta{Name: "x"}) == nil {
		t.Fatal("WithTool() = nil")
	}
}
