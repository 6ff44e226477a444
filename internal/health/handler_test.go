// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	healthy   = pingFunc(func(context.Context) error { return nil })
	unhealthy = pingFunc(func(context.Context) error { return errors.New("down") })
)

func serve(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth_LegacyProbe(t *testing.T) {
	h := NewHandler("1.2.3")
	h.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	rec := serve(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "OK", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, "2026-01-02T03:04:05Z", body.Timestamp)
}

func TestHealth_ReadinessAllHealthy(t *testing.T) {
	h := NewHandler("1.0.0",
		Dependency{Name: "database", Checker: healthy},
		Dependency{Name: "redis", Checker: healthy},
	)

	rec := serve(t, h, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ReadinessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Checks, 2)
	assert.Equal(t, "database", body.Checks[0].Name)
	assert.Equal(t, "redis", body.Checks[1].Name)
}

func TestHealth_ReadinessDegraded(t *testing.T) {
	h := NewHandler("1.0.0",
		Dependency{Name: "database", Checker: healthy},
		Dependency{Name: "redis", Checker: unhealthy},
		Dependency{Name: "queue"},
	)

	rec := serve(t, h, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadinessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "degraded", body.Status)
	assert.True(t, body.Checks[0].Healthy)
	assert.False(t, body.Checks[1].Healthy)
	assert.Equal(t, "ping failed", body.Checks[1].Message)
	assert.Equal(t, "queue checker not configured", body.Checks[2].Message)
}

func TestHealth_NotReady(t *testing.T) {
	h := NewHandler("1.0.0")
	h.SetReady(false)

	assert.Equal(t, http.StatusServiceUnavailable, serve(t, h, "/readyz").Code)
	assert.Equal(t, http.StatusOK, serve(t, h, "/livez").Code)
}

func TestHealth_ShuttingDown(t *testing.T) {
	h := NewHandler("1.0.0", Dependency{Name: "database", Checker: healthy})
	h.SetShutdown(true)

	for _, path := range []string{"/health", "/healthz", "/livez", "/readyz"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(t, h, path)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			assert.Contains(t, rec.Body.String(), "shutting_down")
		})
	}
}
