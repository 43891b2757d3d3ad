package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestColorHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	log.Debug("hidden")
	log.Info("plain info")
	log.Warn("careful")
	log.Error("boom")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug output should be filtered at info level")
	}
	if !strings.Contains(out, "plain info") {
		t.Error("info output missing")
	}
	if !strings.Contains(out, colorYellow+"careful") {
		t.Error("warning should be yellow")
	}
	if !strings.Contains(out, colorRed+"boom") {
		t.Error("error should be red")
	}
}

func TestColorHandlerGreenKeywords(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, nil))

	log.Info("Grid synthesized")
	if !strings.Contains(buf.String(), colorGreen) {
		t.Error("synthesis message should be green")
	}
}

func TestColorHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, nil)
	log := slog.New(h.WithAttrs([]slog.Attr{slog.String("model", "mars")}))

	log.Info("evaluating", "lat", 10.0)

	out := buf.String()
	if !strings.Contains(out, "model=mars") {
		t.Errorf("missing preset attr: %q", out)
	}
	if !strings.Contains(out, "lat=10") {
		t.Errorf("missing record attr: %q", out)
	}
}

func TestColorHandlerEnabled(t *testing.T) {
	h := NewColorHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}
