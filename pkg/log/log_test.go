// pkg/log/log_test.go
// Copyright(c) 2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for s, expected := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		if lvl, err := ParseLevel(s); err != nil || lvl != expected {
			t.Errorf("ParseLevel(%q) = %v, %v; expected %v", s, lvl, err, expected)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Errorf("expected error for invalid level")
	}
}

func TestLoggerCallstack(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWithHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	lg.Infof("plotted %d constructions", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unable to decode log record %q: %v", buf.String(), err)
	}
	if rec["msg"] != "plotted 3 constructions" {
		t.Errorf("unexpected message %v", rec["msg"])
	}
	stack, ok := rec["callstack"].([]any)
	if !ok || len(stack) == 0 {
		t.Fatalf("expected a callstack, got %v", rec["callstack"])
	}
	if s, _ := stack[0].(string); !strings.Contains(s, "log_test.go") {
		t.Errorf("expected innermost frame in log_test.go, got %q", s)
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWithHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	lg.Debug("dropped")
	lg.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("debug/info records written below warn level: %s", buf.String())
	}
	lg.With(slog.String("tool", "bearing")).Warn("kept")
	if !strings.Contains(buf.String(), `"tool":"bearing"`) {
		t.Errorf("With attributes missing: %s", buf.String())
	}
}

func TestNilLogger(t *testing.T) {
	var lg *Logger
	// None of these should panic.
	lg.Debug("x")
	lg.Debugf("x %d", 1)
	lg.Info("x")
	lg.Infof("x %d", 1)
	if lg.With("a", 1) != nil {
		t.Errorf("With on nil logger should return nil")
	}
}
