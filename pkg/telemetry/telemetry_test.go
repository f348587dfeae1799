package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewLogger(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		logger, err := NewLogger(DefaultLoggingConfig())
		if err != nil {
			t.Fatalf("NewLogger() error = %v", err)
		}
		if logger.GetLevel() != zerolog.InfoLevel {
			t.Errorf("level = %v, want info", logger.GetLevel())
		}
	})

	t.Run("levels", func(t *testing.T) {
		tests := []struct {
			level string
			want  zerolog.Level
		}{
			{"debug", zerolog.DebugLevel},
			{"info", zerolog.InfoLevel},
			{"", zerolog.InfoLevel},
			{"warn", zerolog.WarnLevel},
			{"warning", zerolog.WarnLevel},
			{"error", zerolog.ErrorLevel},
		}
		for _, tt := range tests {
			logger, err := NewLogger(LoggingConfig{Level: tt.level, Format: "json"})
			if err != nil {
				t.Fatalf("NewLogger(%q) error = %v", tt.level, err)
			}
			if logger.GetLevel() != tt.want {
				t.Errorf("NewLogger(%q) level = %v, want %v", tt.level, logger.GetLevel(), tt.want)
			}
		}
	})

	t.Run("unknown level", func(t *testing.T) {
		if _, err := NewLogger(LoggingConfig{Level: "loud"}); err == nil {
			t.Error("NewLogger() with unknown level: want error")
		}
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vapor.log")
		logger, err := NewLogger(LoggingConfig{Level: "info", Format: "json", Output: path})
		if err != nil {
			t.Fatalf("NewLogger() error = %v", err)
		}
		logger.Info().Msg("hello")
	})

	t.Run("unwritable output", func(t *testing.T) {
		if _, err := NewLogger(LoggingConfig{Output: "/nonexistent/dir/vapor.log"}); err == nil {
			t.Error("NewLogger() with unwritable output: want error")
		}
	})
}

func TestNewMetricsDisabled(t *testing.T) {
	m := NewMetrics(MetricsConfig{})
	if m != nil {
		t.Fatalf("NewMetrics(disabled) = %v, want nil", m)
	}

	// Every method must be a safe no-op on the nil instance.
	m.ObserveDeploy("web", false, time.Second, nil)
	m.IncChangesetPoll("web")
	m.IncStackPoll("web")
	if m.Handler() == nil {
		t.Error("Handler() on nil metrics = nil, want a fallback handler")
	}
}

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, Namespace: "testns"})
	if m == nil {
		t.Fatal("NewMetrics(enabled) = nil")
	}

	m.ObserveDeploy("web-stack", false, 2*time.Second, nil)
	m.ObserveDeploy("web-stack", true, time.Second, errors.New("boom"))
	m.IncChangesetPoll("web-stack")
	m.IncStackPoll("web-stack")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		`testns_deploys_total{mode="apply",outcome="success",stack="web-stack"} 1`,
		`testns_deploys_total{mode="dryrun",outcome="failure",stack="web-stack"} 1`,
		`testns_changeset_polls_total{stack="web-stack"} 1`,
		`testns_stack_polls_total{stack="web-stack"} 1`,
		"testns_deploy_duration_seconds_count",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q:\n%s", want, body)
		}
	}
}
