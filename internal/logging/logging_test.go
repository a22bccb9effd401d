package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"ERROR": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupJSONConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup := setup(&buf, Config{Level: "WARN", Format: "json"})
	defer cleanup()

	logger.Info("hidden")
	logger.Warn("shown", "rows", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}
	if rec["msg"] != "shown" || rec["rows"] != float64(3) {
		t.Errorf("Unexpected record: %v", rec)
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}}

	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Expected debug enabled via first handler")
	}

	logger := slog.New(h).With("component", "test")
	logger.Info("one")
	logger.Error("two")

	if !strings.Contains(a.String(), "msg=one") || !strings.Contains(a.String(), "msg=two") {
		t.Errorf("first handler missing records: %q", a.String())
	}
	if strings.Contains(b.String(), "msg=one") || !strings.Contains(b.String(), "component=test") {
		t.Errorf("second handler wrong records: %q", b.String())
	}
}
