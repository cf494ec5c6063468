package log

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLineHandlerOutput(t *testing.T) {
	var sb strings.Builder
	h := &lineHandler{level: slog.LevelInfo, w: &sb}
	l := slog.New(h).With(slog.String("component", "test"))

	l.Info("hello", slog.Int("n", 3), slog.Bool("ok", true))
	out := sb.String()
	if !strings.Contains(out, "INF hello") {
		t.Fatalf("missing level/message in %q", out)
	}
	if !strings.Contains(out, "component=test") || !strings.Contains(out, "n=3") || !strings.Contains(out, "ok=true") {
		t.Fatalf("missing attrs in %q", out)
	}
}

func TestLineHandlerLevelGate(t *testing.T) {
	var sb strings.Builder
	h := &lineHandler{level: slog.LevelWarn, w: &sb}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("error should be enabled at warn level")
	}
}

func TestLineHandlerGroups(t *testing.T) {
	var sb strings.Builder
	var h slog.Handler = &lineHandler{level: slog.LevelInfo, w: &sb}
	h = h.WithGroup("check")
	l := slog.New(h)
	l.Info("status", slog.String("name", "api_key"))
	if !strings.Contains(sb.String(), "check.name=api_key") {
		t.Fatalf("group prefix missing in %q", sb.String())
	}
}

func TestInitAndDefault(t *testing.T) {
	Init(Options{Level: "debug", Format: "console"})
	if L() == nil {
		t.Fatal("default logger not installed")
	}
	l := WithComponent("launcher")
	if l == nil {
		t.Fatal("WithComponent returned nil")
	}
	if WithOperation(l, "checks") == nil {
		t.Fatal("WithOperation returned nil")
	}
}
