package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/kinship/server/internal/auth"
	"codeberg.org/kinship/server/internal/metrics"
	"codeberg.org/kinship/server/internal/ratelimit"
	"codeberg.org/kinship/server/kinship/users"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type testServer struct {
	router  *gin.Engine
	store   *users.MemoryStore
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, rateLimit gin.HandlerFunc) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := auth.TokenConfig{
		AccessSecret:  "handler-test-access-secret",
		RefreshSecret: "handler-test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}

	issuer, err := auth.NewTokenIssuer(cfg)
	require.NoError(t, err)
	verifier, err := auth.NewTokenVerifier(cfg)
	require.NoError(t, err)

	store := users.NewMemoryStore()
	svc := auth.NewService(store, auth.NewBcryptHasher(bcrypt.MinCost), issuer, verifier)
	m := metrics.NewMetrics(prometheus.NewRegistry())

	router := gin.New()
	RegisterRoutes(router.Group("/api"), svc, verifier, rateLimit, m)

	return &testServer{router: router, store: store, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path string, body any, header string) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(v))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set("Authorization", header)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())

	return w.Code, env
}

func decodeAuthData(t *testing.T, raw json.RawMessage) AuthData {
	t.Helper()

	var data AuthData
	require.NoError(t, json.Unmarshal(raw, &data))

	return data
}

func registerBody() gin.H {
	return gin.H{
		"email":           "alice@example.com",
		"password":        "Abc123",
		"confirmPassword": "Abc123",
		"firstName":       "Alice",
	}
}

func TestFullFlow(t *testing.T) {
	s := newTestServer(t, nil)

	// register
	status, env := s.do(t, http.MethodPost, "/api/auth/register", registerBody(), "")
	require.Equal(t, http.StatusCreated, status, env.Message)
	assert.True(t, env.Success)
	assert.Equal(t, "User registered successfully", env.Message)

	registered := decodeAuthData(t, env.Data)
	assert.Equal(t, "alice@example.com", registered.User.Email)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEqual(t, registered.AccessToken, registered.RefreshToken)
	assert.NotContains(t, string(env.Data), "password")

	// login
	status, env = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "alice@example.com", "password": "Abc123"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Login successful", env.Message)
	loggedIn := decodeAuthData(t, env.Data)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	// refresh
	status, env = s.do(t, http.MethodPost, "/api/auth/refresh-token", gin.H{"refreshToken": loggedIn.RefreshToken}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Tokens refreshed successfully", env.Message)

	var refreshed auth.TokenPair
	require.NoError(t, json.Unmarshal(env.Data, &refreshed))
	assert.NotEqual(t, loggedIn.AccessToken, refreshed.AccessToken)

	// protected route with the refreshed token
	status, env = s.do(t, http.MethodGet, "/api/auth/me", nil, "Bearer "+refreshed.AccessToken)
	require.Equal(t, http.StatusOK, status)
	var me UserData
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, registered.User.ID, me.User.ID)

	// logout
	status, env = s.do(t, http.MethodPost, "/api/auth/logout", nil, "Bearer "+refreshed.AccessToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Logout successful", env.Message)
	assert.JSONEq(t, `{}`, string(env.Data))

	// stateless logout: the access token keeps working until it expires
	status, _ = s.do(t, http.MethodGet, "/api/auth/me", nil, "Bearer "+refreshed.AccessToken)
	assert.Equal(t, http.StatusOK, status)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.AuthEvents.WithLabelValues("register", metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.AuthEvents.WithLabelValues("login", metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.AuthEvents.WithLabelValues("refresh", metrics.OutcomeSuccess)))
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantLabel  string
		wantMsg    string
	}{
		{
			name:       "short password",
			body:       gin.H{"email": "a@b.com", "password": "weak", "confirmPassword": "weak"},
			wantStatus: http.StatusBadRequest,
			wantLabel:  "Validation error",
			wantMsg:    "Password must be at least 6 characters long",
		},
		{
			name:       "mismatched passwords",
			body:       gin.H{"email": "a@b.com", "password": "Abc123", "confirmPassword": "Abc124"},
			wantStatus: http.StatusBadRequest,
			wantLabel:  "Validation error",
			wantMsg:    "Passwords do not match",
		},
		{
			name:       "invalid email",
			body:       gin.H{"email": "a@b", "password": "Abc123", "confirmPassword": "Abc123"},
			wantStatus: http.StatusBadRequest,
			wantLabel:  "Validation error",
			wantMsg:    "Invalid email format",
		},
		{
			name:       "missing fields",
			body:       gin.H{"email": "a@b.com"},
			wantStatus: http.StatusBadRequest,
			wantLabel:  "Validation error",
			wantMsg:    "Email, password, and confirmPassword are required",
		},
		{
			name:       "empty body",
			body:       nil,
			wantStatus: http.StatusBadRequest,
			wantLabel:  "Validation error",
			wantMsg:    "Email, password, and confirmPassword are required",
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantLabel:  "Validation error",
			wantMsg:    "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)

			status, env := s.do(t, http.MethodPost, "/api/auth/register", tt.body, "")

			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantLabel, env.Error)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.Zero(t, s.store.Len())
		})
	}
}

func TestRegister_Conflict(t *testing.T) {
	s := newTestServer(t, nil)

	status, _ := s.do(t, http.MethodPost, "/api/auth/register", registerBody(), "")
	require.Equal(t, http.StatusCreated, status)

	status, env := s.do(t, http.MethodPost, "/api/auth/register", registerBody(), "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Conflict", env.Error)
	assert.Equal(t, "User with this email already exists", env.Message)
}

func TestLogin_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	status, _ := s.do(t, http.MethodPost, "/api/auth/register", registerBody(), "")
	require.Equal(t, http.StatusCreated, status)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantLabel  string
		wantMsg    string
	}{
		{"unknown email", gin.H{"email": "nouser@x.com", "password": "whatever"}, http.StatusUnauthorized, "Authentication failed", "Invalid email or password"},
		{"wrong password", gin.H{"email": "alice@example.com", "password": "Wrong123"}, http.StatusUnauthorized, "Authentication failed", "Invalid email or password"},
		{"missing password", gin.H{"email": "alice@example.com"}, http.StatusBadRequest, "Validation error", "Email and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := s.do(t, http.MethodPost, "/api/auth/login", tt.body, "")

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantLabel, env.Error)
			assert.Equal(t, tt.wantMsg, env.Message)
		})
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(s.metrics.AuthEvents.WithLabelValues("login", metrics.OutcomeFailure)))
}

func TestRefreshToken_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	status, env := s.do(t, http.MethodPost, "/api/auth/refresh-token", gin.H{}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Refresh token is required", env.Message)

	status, env = s.do(t, http.MethodPost, "/api/auth/refresh-token", gin.H{"refreshToken": "bogus"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication failed", env.Error)
	assert.Equal(t, "Invalid or expired refresh token", env.Message)
}

func TestRefreshToken_DeletedUser(t *testing.T) {
	s := newTestServer(t, nil)

	status, env := s.do(t, http.MethodPost, "/api/auth/register", registerBody(), "")
	require.Equal(t, http.StatusCreated, status)
	data := decodeAuthData(t, env.Data)

	require.NoError(t, s.store.Delete(context.Background(), data.User.ID))

	status, env = s.do(t, http.MethodPost, "/api/auth/refresh-token", gin.H{"refreshToken": data.RefreshToken}, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not found", env.Error)
	assert.Equal(t, "User not found", env.Message)
}

func TestMe_Gate(t *testing.T) {
	s := newTestServer(t, nil)

	status, env := s.do(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication required", env.Error)
	assert.Equal(t, "Access token is required", env.Message)

	status, env = s.do(t, http.MethodGet, "/api/auth/me", nil, "Bearer bogus")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Authentication failed", env.Error)
	assert.Equal(t, "Invalid or expired access token", env.Message)
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	s := newTestServer(t, nil)

	for _, header := range []string{"", "Bearer bogus", "Basic abc"} {
		status, env := s.do(t, http.MethodPost, "/api/auth/logout", nil, header)
		assert.Equal(t, http.StatusOK, status, "header %q", header)
		assert.True(t, env.Success)
	}
}

func TestCredentialRoutes_RateLimited(t *testing.T) {
	limiter, err := ratelimit.New(ratelimit.Config{Rate: "2-M"}, nil)
	require.NoError(t, err)
	s := newTestServer(t, limiter.Middleware())

	body := gin.H{"email": "nouser@x.com", "password": "whatever"}
	for i := 0; i < 2; i++ {
		status, _ := s.do(t, http.MethodPost, "/api/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, status)
	}

	status, env := s.do(t, http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "Too many requests", env.Error)

	// logout is not throttled
	status, _ = s.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestRefreshRoute_NotRateLimited(t *testing.T) {
	limiter, err := ratelimit.New(ratelimit.Config{Rate: "2-M"}, nil)
	require.NoError(t, err)
	s := newTestServer(t, limiter.Middleware())

	status, env := s.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"email": "refresh@x.com", "password": "Abc123", "confirmPassword": "Abc123",
	}, "")
	require.Equal(t, http.StatusCreated, status)
	refreshToken := decodeAuthData(t, env.Data).RefreshToken

	for i := 0; i < 5; i++ {
		status, _ := s.do(t, http.MethodPost, "/api/auth/refresh-token", gin.H{"refreshToken": refreshToken}, "")
		assert.Equal(t, http.StatusOK, status, "refresh %d", i)
	}

	// register and login still share the throttled budget
	status, _ = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "refresh@x.com", "password": "Abc123"}, "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "refresh@x.com", "password": "Abc123"}, "")
	assert.Equal(t, http.StatusTooManyRequests, status)
}
