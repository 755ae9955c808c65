package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var secret = []byte("test-secret")

func whoami() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UsernameFromContext(r.Context())
		if !ok {
			u = "anonymous"
		}
		w.Write([]byte(u))
	})
}

func request(t *testing.T, h http.Handler, authz string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/food_log", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	m := NewAuthMiddleware(secret)
	h := m.RequireAuth(whoami())

	good, err := IssueToken(secret, "lan", time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := IssueToken(secret, "lan", time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	forged, err := IssueToken([]byte("other"), "lan", time.Hour, time.Now())
	require.NoError(t, err)
	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name     string
		authz    string
		wantCode int
		wantBody string
	}{
		{"valid", "Bearer " + good, http.StatusOK, "lan"},
		{"missing", "", http.StatusUnauthorized, "missing token\n"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "missing token\n"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "invalid token\n"},
		{"wrong key", "Bearer " + forged, http.StatusUnauthorized, "invalid token\n"},
		{"no subject", "Bearer " + noSub, http.StatusUnauthorized, "invalid subject\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := request(t, h, tt.authz)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestIdentify(t *testing.T) {
	m := NewAuthMiddleware(secret)
	h := m.Identify(whoami())

	good, err := IssueToken(secret, "minh", time.Hour, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "minh", request(t, h, "Bearer "+good).Body.String())
	assert.Equal(t, "anonymous", request(t, h, "").Body.String())
	assert.Equal(t, "anonymous", request(t, h, "Bearer garbage").Body.String())
}

func TestZapRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := ZapRequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	request(t, h, "")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "request completed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/food_log", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.EqualValues(t, 15, fields["bytes"])
}
