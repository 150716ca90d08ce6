package middleware

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const principalCtxKey = contextKey("principal")

// Principal is the authenticated caller resolved from a JWT. It is
// threaded through the request context as an explicit value; nothing in
// the codebase reads authentication state from globals.
type Principal struct {
	UserID   string
	Username string
	Email    string
	Roles    []string
}

// HasRole reports whether the principal holds any of the given roles.
func (p *Principal) HasRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range p.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

func JWTAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jwtSecret := []byte(os.Getenv("JWT_SECRET"))
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "invalid Authorization header", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		principal, err := principalFromClaims(claims)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), principalCtxKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func principalFromClaims(claims jwt.MapClaims) (*Principal, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, errors.New("invalid user_id in token")
	}

	p := &Principal{UserID: userID}
	p.Username, _ = claims["username"].(string)
	p.Email, _ = claims["email"].(string)

	// Roles claim round-trips through JSON as []interface{}.
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, r := range raw {
			if name, ok := r.(string); ok {
				p.Roles = append(p.Roles, name)
			}
		}
	}
	return p, nil
}

// RequireRoles gates a handler on the resolved principal holding at least
// one of the given roles. Must be wrapped inside JWTAuth. The check runs
// before the handler, so a failed check never reaches the service layer.
func RequireRoles(next http.Handler, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !principal.HasRole(roles...) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalFromContext extracts the authenticated principal in handlers.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(*Principal)
	return p, ok
}
