package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aitutor/tutor-api/internal/db"
	"github.com/aitutor/tutor-api/internal/rbac"
)

// PrincipalLookup loads the current state of a user by id.
// It returns an error wrapping db.ErrNotFound for unknown ids.
type PrincipalLookup interface {
	Principal(ctx context.Context, id string) (Principal, error)
}

// Resolve verifies the request token and re-reads the user from storage.
// ok is false when the caller is anonymous; err is set only for storage failures.
func (a *AuthService) Resolve(r *http.Request, users PrincipalLookup) (p Principal, ok bool, err error) {
	claims := a.Verify(TokenFromRequest(r))
	if claims == nil {
		return Principal{}, false, nil
	}
	p, err = users.Principal(r.Context(), claims.Subject)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return Principal{}, false, nil
	case err != nil:
		return Principal{}, false, err
	}
	return p, true, nil
}

// JWTMiddleware rejects anonymous requests with 401. The stored role, not
// the token claim, is what rbac sees downstream.
func JWTMiddleware(a *AuthService, users PrincipalLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok, err := a.Resolve(r, users)
			if err != nil {
				writeErr(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if !ok {
				writeErr(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			next.ServeHTTP(w, r.WithContext(attach(r.Context(), p)))
		})
	}
}

// OptionalJWT attaches the principal when a valid session exists and
// otherwise lets the request through anonymously.
func OptionalJWT(a *AuthService, users PrincipalLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok, err := a.Resolve(r, users)
			if err != nil || !ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(attach(r.Context(), p)))
		})
	}
}

func attach(ctx context.Context, p Principal) context.Context {
	return rbac.WithRole(WithPrincipal(ctx, p), p.Role)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
