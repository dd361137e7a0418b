package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker("test")

	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestHealthChecker_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantCode   int
		wantStatus string
	}{
		{
			name:       "no checks",
			wantCode:   http.StatusOK,
			wantStatus: StatusHealthy,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"fixtures": func(context.Context) error { return nil },
			},
			wantCode:   http.StatusOK,
			wantStatus: StatusHealthy,
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"fixtures": func(context.Context) error { return nil },
				"sessions": func(context.Context) error { return errors.New("no projects loaded") },
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthChecker("1.0.0")
			for name, fn := range tt.checks {
				h.AddCheck(name, fn)
			}

			w := httptest.NewRecorder()
			h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			assert.Equal(t, tt.wantCode, w.Code)

			var status HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, "1.0.0", status.Version)
			assert.Len(t, status.Dependencies, len(tt.checks))
		})
	}
}

func TestHealthChecker_CheckReportsMessage(t *testing.T) {
	h := NewHealthChecker("")
	h.AddCheck("sessions", func(context.Context) error { return errors.New("no projects loaded") })

	status := h.Check(context.Background())
	assert.Equal(t, "no projects loaded", status.Dependencies["sessions"].Message)
}
