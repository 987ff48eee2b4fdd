package common

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNewLogger_FluentAPI(t *testing.T) {
	logger := NewLogger("error")
	logger.Info().Str("feed", "weather").Msg("test message")
	logger.Warn().Int("count", 3).Msg("warning")
	logger.Error().Err(nil).Msg("error message")
	logger.Debug().Float64("change", -0.06).Bool("mock", true).Msg("debug")
}

func TestNewLoggerWithOutput_WritesLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	logger.Info().Str("feed", "coffee").Msg("refreshed")

	time.Sleep(100 * time.Millisecond)

	if !strings.Contains(buf.String(), "refreshed") {
		t.Errorf("expected message in output, got %q", buf.String())
	}
}

func TestNewSilentLogger_DoesNotWriteToGlobalWriters(t *testing.T) {
	var buf bytes.Buffer
	_ = NewLoggerWithOutput("info", &buf)
	buf.Reset()

	silent := NewSilentLogger()
	silent.Info().Str("key", "value").Msg("should not appear")
	silent.Error().Msg("neither should this")

	time.Sleep(50 * time.Millisecond)

	if buf.Len() > 0 {
		t.Errorf("silent logger wrote %d bytes: %s", buf.Len(), buf.String())
	}
}

func TestNewLogger_DoesNotWriteToStdout(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	logger := NewLogger("info")
	logger.Info().Str("feed", "news").Msg("stderr only")

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	r.Close()

	if buf.Len() > 0 {
		t.Errorf("logger wrote %d bytes to stdout: %s", buf.Len(), buf.String())
	}
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	logger := NewLogger("error")
	correlated := logger.WithCorrelationId("req-1")
	if correlated == nil || correlated == logger {
		t.Fatal("expected a new logger instance")
	}
	correlated.Info().Msg("must not panic")
}

func TestIsFresh(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		updated time.Time
		want    bool
	}{
		{"zero time", time.Time{}, false},
		{"just now", now, true},
		{"inside window", now.Add(-4 * time.Minute), true},
		{"at boundary", now.Add(-5 * time.Minute), false},
		{"expired", now.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFresh(tt.updated, now, FreshnessFeeds); got != tt.want {
				t.Errorf("IsFresh() = %v, want %v", got, tt.want)
			}
		})
	}
}
