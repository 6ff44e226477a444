// AngelaMos | 2026
// handler_test.go

package product

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/catalog-api/internal/core"
	"github.com/carterperez-dev/catalog-api/internal/middleware"
)

const testToken = "valid-token"

type stubVerifier struct{}

func (stubVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*middleware.TokenClaims, error) {
	if token != testToken {
		return nil, core.ErrTokenInvalid
	}
	return &middleware.TokenClaims{UserID: 1, Username: "alice"}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *core.ErrorBody `json:"error"`
}

func newTestRouter() (http.Handler, *mockRepository) {
	svc, repo := newTestService()
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(stubVerifier{}))
	return r, repo
}

func serve(h http.Handler, method, target, body string, authed bool) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	//nolint:errcheck // asserted through fields
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestHandler_CreateRequiresAuth(t *testing.T) {
	h, repo := newTestRouter()

	rec, env := serve(h, http.MethodPost, "/products", `{}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, core.CodeUnauthorized, env.Error.Code)
	assert.Empty(t, repo.Calls)
}

func TestHandler_Create(t *testing.T) {
	h, repo := newTestRouter()

	repo.On("GetBySKU", mock.Anything, "W-1").Return(nil, core.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything, int64(1)).Return(widget(), nil)

	rec, env := serve(h, http.MethodPost, "/products",
		`{"name":"Widget","price":9.99,"sku":"W-1","category":"Tools"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Product created successfully", env.Message)

	var p ProductResponse
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "W-1", p.SKU)
	assert.NotContains(t, string(env.Data), `"updater"`)
	assert.Contains(t, string(env.Data), `"updatedBy":null`)
	assert.Contains(t, string(env.Data), `"tags":[]`)
}

func TestHandler_CreateInvalidBody(t *testing.T) {
	h, _ := newTestRouter()

	rec, env := serve(h, http.MethodPost, "/products", `[1,2]`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, core.CodeValidation, env.Error.Code)

	rec, env = serve(h, http.MethodPost, "/products", `{"name":"W"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t,
		"Name must be at least 2 characters long, Price is required, SKU is required, Category is required",
		env.Error.Message,
	)
}

func TestHandler_GetByIDNonNumericIsNotFound(t *testing.T) {
	h, repo := newTestRouter()

	rec, env := serve(h, http.MethodGet, "/products/abc", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Product not found", env.Error.Message)
	assert.Empty(t, repo.Calls)
}

func TestHandler_GetBySKU(t *testing.T) {
	h, repo := newTestRouter()
	repo.On("GetBySKU", mock.Anything, "W 1").Return(widget(), nil)

	rec, env := serve(h, http.MethodGet, "/products/sku/W%201", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product fetched successfully", env.Message)
}

func TestHandler_ListRejectsBadFilter(t *testing.T) {
	h, repo := newTestRouter()

	rec, env := serve(h, http.MethodGet, "/products?isActive=perhaps", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "isActive must be true or false", env.Error.Message)
	assert.Empty(t, repo.Calls)
}

func TestHandler_List(t *testing.T) {
	h, repo := newTestRouter()
	repo.On("List", mock.Anything, mock.MatchedBy(func(p ListParams) bool {
		return p.IsActive != nil && *p.IsActive && p.Limit == 2
	})).Return([]Product{*widget()}, 3, nil)

	rec, env := serve(h, http.MethodGet, "/products?isActive=true&limit=2", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var list ProductListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Products, 1)
	assert.Equal(t, 2, list.Pagination.TotalPages)
}

func TestHandler_LowStockThreshold(t *testing.T) {
	h, repo := newTestRouter()
	repo.On("ListLowStock", mock.Anything, 3).Return([]Product{}, nil)

	rec, env := serve(h, http.MethodGet, "/products/reports/low-stock?threshold=3", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Low stock products fetched successfully", env.Message)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestHandler_Delete(t *testing.T) {
	h, repo := newTestRouter()
	repo.On("Delete", mock.Anything, int64(1)).Return(nil)

	rec, env := serve(h, http.MethodDelete, "/products/1", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Product deleted successfully", env.Message)
}

func TestHandler_UpdateStockRejectsNegative(t *testing.T) {
	h, repo := newTestRouter()

	rec, env := serve(h, http.MethodPatch, "/products/1/stock", `{"stock":-1}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Stock must be a non-negative integer", env.Error.Message)
	assert.Empty(t, repo.Calls)
}

func TestHandler_Deactivate(t *testing.T) {
	h, repo := newTestRouter()
	inactive := widget()
	inactive.IsActive = false
	repo.On("Update", mock.Anything, int64(1), mock.Anything, int64(1)).Return(inactive, nil)

	rec, env := serve(h, http.MethodPatch, "/products/1/deactivate", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product deactivated successfully", env.Message)
	assert.Contains(t, string(env.Data), `"isActive":false`)
}
