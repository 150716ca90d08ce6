package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return s
}

func authedRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestJWTAuthResolvesPrincipal(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	var got *Principal
	h := JWTAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFromContext(r.Context())
	}))

	token := signTestToken(t, jwt.MapClaims{
		"user_id":  "u1",
		"username": "almaz",
		"email":    "almaz@example.com",
		"roles":    []string{"USER", "ADMIN"},
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(token))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got == nil || got.UserID != "u1" || got.Username != "almaz" {
		t.Fatalf("principal not resolved: %+v", got)
	}
	if !got.HasRole("ADMIN") || got.HasRole("MODERATOR") {
		t.Fatalf("unexpected roles: %v", got.Roles)
	}
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	h := JWTAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	// Missing header
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(""))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing header, got %d", rec.Code)
	}

	// Expired token
	expired := signTestToken(t, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(expired))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}

	// Token without user_id
	anonymous := signTestToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(anonymous))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for token without user_id, got %d", rec.Code)
	}
}

// role gate fails before the wrapped handler runs
func TestRequireRoles(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	called := false
	h := JWTAuth(RequireRoles(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}), "ADMIN"))

	userToken := signTestToken(t, jwt.MapClaims{
		"user_id": "u1",
		"roles":   []string{"USER"},
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(userToken))
	if rec.Code != http.StatusForbidden || called {
		t.Fatalf("expected 403 without handler call, got %d (called=%v)", rec.Code, called)
	}

	adminToken := signTestToken(t, jwt.MapClaims{
		"user_id": "u1",
		"roles":   []string{"ADMIN"},
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(adminToken))
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("expected 200 with handler call, got %d (called=%v)", rec.Code, called)
	}
}
