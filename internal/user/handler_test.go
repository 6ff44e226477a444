// AngelaMos | 2026
// handler_test.go

package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/catalog-api/internal/auth"
	"github.com/carterperez-dev/catalog-api/internal/config"
	"github.com/carterperez-dev/catalog-api/internal/core"
	"github.com/carterperez-dev/catalog-api/internal/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *core.ErrorBody `json:"error"`
}

func newTestRouter(t *testing.T) (http.Handler, *mockRepository, *auth.JWTManager) {
	t.Helper()

	svc, repo, _, _ := newTestService(t)

	jwtManager, err := auth.NewJWTManager(config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		AccessTokenExpire: time.Hour,
		Issuer:            "backend-api",
		Audience:          "frontend-app",
	})
	require.NoError(t, err)
	svc.tokens = jwtManager

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(jwtManager), nil)
	return r, repo, jwtManager
}

func doRequest(h http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	//nolint:errcheck // asserted through fields
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestHandler_RegisterThenLoginThenProfile(t *testing.T) {
	h, repo, _ := newTestRouter(t)

	var stored *User
	repo.On("GetByUsername", mock.Anything, "erin").Return(nil, core.ErrNotFound).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*User)
			stored.ID = 11
			stored.CreatedAt = time.Now().UTC()
		}).Return(nil).Once()

	rec, env := doRequest(h, http.MethodPost, "/users/register",
		`{"username":"erin","password":"Secret1"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.NotContains(t, rec.Body.String(), "Secret1")
	assert.NotContains(t, rec.Body.String(), "password")

	repo.On("GetByUsername", mock.Anything, "erin").Return(stored, nil)

	rec, env = doRequest(h, http.MethodPost, "/users/login",
		`{"username":"erin","password":"Secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var login LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, "1h", login.ExpiresIn)
	assert.Equal(t, int64(11), login.User.ID)
	require.NotEmpty(t, login.Token)

	repo.On("GetByID", mock.Anything, int64(11)).Return(stored, nil)

	rec, env = doRequest(h, http.MethodGet, "/users/profile", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "erin", profile.Username)
}

func TestHandler_ProfileRequiresToken(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec, env := doRequest(h, http.MethodGet, "/users/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.False(t, env.Success)
	assert.Equal(t, core.CodeUnauthorized, env.Error.Code)

	rec, env = doRequest(h, http.MethodGet, "/users/profile", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, core.CodeTokenInvalid, env.Error.Code)
}

func TestHandler_RegisterRejectsBadInput(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec, env := doRequest(h, http.MethodPost, "/users/register", `{`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, core.CodeValidation, env.Error.Code)

	rec, env = doRequest(h, http.MethodPost, "/users/register",
		`{"username":"x","password":"abcdef"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t,
		"Username must be at least 3 characters long, "+
			"Password must contain at least one uppercase letter, one lowercase letter, and one number",
		env.Error.Message,
	)
	assert.NotEmpty(t, env.Error.Timestamp)
}
