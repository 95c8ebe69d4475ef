package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufLogger(t *testing.T, cfg Config) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg.Writer = &buf
	return New(cfg), &buf
}

func TestNew_WritesToConfiguredWriter(t *testing.T) {
	log, buf := newBufLogger(t, Config{Level: slog.LevelInfo, Format: "json"})

	log.Info("slot saved")

	assert.Contains(t, buf.String(), "slot saved")
	assert.Contains(t, buf.String(), "\"level\":\"INFO\"")
}

func TestNew_FormatFollowsEnvironment(t *testing.T) {
	// Production gets JSON; everything else gets the pretty handler. An
	// explicit Format wins over the environment.
	tests := []struct {
		name        string
		environment string
		format      string
		wantJSON    bool
	}{
		{"production is json", "production", "", true},
		{"development is pretty", "development", "", false},
		{"staging is pretty", "staging", "", false},
		{"explicit json in development", "development", "json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := newBufLogger(t, Config{
				Level:       slog.LevelInfo,
				Environment: tt.environment,
				Format:      tt.format,
			})

			log.Info("probe-line")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"probe-line"`)
			} else {
				assert.Contains(t, buf.String(), "probe-line")
				assert.NotContains(t, buf.String(), `"msg"`)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	log, buf := newBufLogger(t, Config{Level: slog.LevelWarn, Format: "json"})

	log.Debug("debug line")
	log.Info("info line")
	log.Warn("warn line")
	log.Error("error line")

	output := buf.String()
	assert.NotContains(t, output, "debug line")
	assert.NotContains(t, output, "info line")
	assert.Contains(t, output, "warn line")
	assert.Contains(t, output, "error line")
}

func TestLogger_WithHelpers(t *testing.T) {
	log, buf := newBufLogger(t, Config{Level: slog.LevelInfo, Format: "json"})

	log.
		WithField("user_id", "usr-123").
		WithError(errors.New("tag not found")).
		WithFields(map[string]any{"date": "2024-01-15", "slots": 6}).
		Error("save failed")

	output := buf.String()
	for _, want := range []string{"usr-123", "tag not found", "2024-01-15", "slots", "save failed"} {
		assert.Contains(t, output, want)
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_Output(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	log := slog.New(handler)

	log.Info("day aggregated", "date", "2024-01-15", "blocks", 144)

	output := buf.String()
	assert.Contains(t, output, "day aggregated")
	assert.Contains(t, output, "date=2024-01-15")
	assert.Contains(t, output, "blocks=144")
	assert.Contains(t, output, "INF")

	for level, abbrev := range map[slog.Level]string{
		slog.LevelDebug: "DBG",
		slog.LevelWarn:  "WRN",
		slog.LevelError: "ERR",
	} {
		buf.Reset()
		log.Log(context.Background(), level, "x")
		assert.Contains(t, buf.String(), abbrev)
	}
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	// An empty group is a no-op.
	assert.Equal(t, handler, handler.WithGroup(""))
	assert.NotEqual(t, handler, handler.WithGroup("request"))

	log := slog.New(handler.WithAttrs([]slog.Attr{slog.String("service", "lifediary")}))
	log.Info("started")

	assert.Contains(t, buf.String(), "service=lifediary")
	assert.Contains(t, buf.String(), "started")
}

func TestPrettyHandler_AddSource(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	})

	slog.New(handler).Info("located")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestNewPrettyHandler_NilOptions(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, nil)
	require.NotNil(t, handler.opts)

	slog.New(handler).Info("defaults")
	assert.Contains(t, buf.String(), "defaults")
}

func TestPrettyHandler_NoAttributes(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	slog.New(handler).Info("bare message")

	output := buf.String()
	assert.Contains(t, output, "bare message")
	after := strings.SplitN(output, "bare message", 2)[1]
	assert.NotContains(t, after, "=")
}
