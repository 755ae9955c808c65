package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const usernameKey ctxKey = iota

type AuthMiddleware struct {
	jwtSecret []byte
}

func NewAuthMiddleware(secret []byte) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: secret}
}

// IssueToken signs an HS256 token whose subject is the username.
func IssueToken(secret []byte, username string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// UsernameFromContext returns the authenticated username set by
// RequireAuth or Identify.
func UsernameFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(usernameKey).(string)
	return u, ok && u != ""
}

func (m *AuthMiddleware) subject(r *http.Request) (string, string) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", "missing token"
	}
	tokenStr := strings.TrimPrefix(authz, "Bearer ")
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "invalid token"
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", "invalid subject"
	}
	return sub, ""
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, reason := m.subject(r)
		if reason != "" {
			http.Error(w, reason, http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Identify attaches the username when a valid token is present and lets
// anonymous requests through.
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if username, reason := m.subject(r); reason == "" {
			r = r.WithContext(context.WithValue(r.Context(), usernameKey, username))
		}
		next.ServeHTTP(w, r)
	})
}
