// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/catalog-api/internal/core"
	"github.com/carterperez-dev/catalog-api/internal/middleware"
	"github.com/carterperez-dev/catalog-api/internal/product"
)

type stubCatalog struct {
	stats *product.CatalogStats
	err   error
}

func (s stubCatalog) Stats(context.Context) (*product.CatalogStats, error) {
	return s.stats, s.err
}

type stubUsers int

func (s stubUsers) Count(context.Context) (int, error) { return int(s), nil }

type stubReports struct {
	report *product.LowStockReport
}

func (s stubReports) Latest(context.Context) (*product.LowStockReport, error) {
	return s.report, nil
}

// allowAll authenticates every request as user 1.
func allowAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := middleware.WithClaims(r.Context(), &middleware.TokenClaims{UserID: 1, Username: "ops"})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		core.Unauthorized(w, "")
	})
}

type statsEnvelope struct {
	Success bool                `json:"success"`
	Data    SystemStatsResponse `json:"data"`
}

func get(
	t *testing.T,
	h *Handler,
	auth func(http.Handler) http.Handler,
	path string,
) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r, auth)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestAdmin_SystemStats(t *testing.T) {
	generated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h := NewHandler(HandlerConfig{
		DBStats:    func() sql.DBStats { return sql.DBStats{MaxOpenConnections: 25, InUse: 2} },
		RedisStats: func() *redis.PoolStats { return &redis.PoolStats{TotalConns: 4} },
		DBPing:     func(context.Context) error { return nil },
		RedisPing:  func(context.Context) error { return errors.New("down") },
		Catalog:    stubCatalog{stats: &product.CatalogStats{Total: 3, Active: 2, Inactive: 1}},
		Users:      stubUsers(7),
		Reports: stubReports{report: &product.LowStockReport{
			GeneratedAt: generated,
			Threshold:   10,
			Count:       1,
			Items:       []product.LowStockItem{{ID: 1, SKU: "W-1", Name: "Widget", Stock: 2}},
		}},
	})

	rec := get(t, h, allowAll, "/admin/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body statsEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)

	assert.True(t, body.Data.Database.Healthy)
	assert.Equal(t, 25, body.Data.Database.Stats.MaxOpenConnections)
	assert.False(t, body.Data.Redis.Healthy)
	assert.Equal(t, uint32(4), body.Data.Redis.Stats.TotalConns)
	assert.NotEmpty(t, body.Data.Runtime.GoVersion)

	require.NotNil(t, body.Data.Catalog)
	assert.Equal(t, 3, body.Data.Catalog.Products.Total)
	assert.Equal(t, 7, *body.Data.Catalog.Users)
	require.NotNil(t, body.Data.Catalog.LowStock)
	assert.Equal(t, "W-1", body.Data.Catalog.LowStock.Items[0].SKU)
	assert.True(t, generated.Equal(body.Data.Catalog.LowStock.GeneratedAt))
}

func TestAdmin_CatalogFailureIsOmitted(t *testing.T) {
	h := NewHandler(HandlerConfig{
		Catalog: stubCatalog{err: errors.New("db down")},
		Users:   stubUsers(2),
	})

	rec := get(t, h, allowAll, "/admin/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body statsEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Data.Catalog)
	assert.Nil(t, body.Data.Catalog.Products)
	assert.Equal(t, 2, *body.Data.Catalog.Users)
	assert.Nil(t, body.Data.Catalog.LowStock)
}

func TestAdmin_RequiresAuthentication(t *testing.T) {
	h := NewHandler(HandlerConfig{})

	for _, path := range []string{"/admin/stats", "/admin/stats/db", "/admin/stats/runtime"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, get(t, h, denyAll, path).Code)
		})
	}
}
