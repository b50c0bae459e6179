package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bethmed/clinic-api/internal/service"
	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const identityKey contextKey = "identity"

// claims is the token payload issued at login.
type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator parses bearer tokens into the caller's Identity.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Middleware puts the resolved Identity in the request context. Requests
// without a valid token get 401 before any handler runs.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := a.identityFromRequest(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication_required"})
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates the admin console routes.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := IdentityFromContext(r.Context())
		if identity.Role != "admin" && identity.Role != "secretary" {
			writeJSON(w, http.StatusForbidden, errorBody{Error: "admin_access_required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) identityFromRequest(r *http.Request) (service.Identity, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return service.Identity{}, fmt.Errorf("missing bearer token")
	}

	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return service.Identity{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || c.Subject == "" {
		return service.Identity{}, fmt.Errorf("invalid token")
	}

	return service.Identity{UserID: c.Subject, Email: c.Email, Role: c.Role}, nil
}

// IdentityFromContext returns the caller set by Middleware; zero value when
// the route skipped authentication.
func IdentityFromContext(ctx context.Context) service.Identity {
	identity, _ := ctx.Value(identityKey).(service.Identity)
	return identity
}
