package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aitutor/tutor-api/internal/db"
	"github.com/aitutor/tutor-api/internal/rbac"
)

func TestIssueAndVerify(t *testing.T) {
	a := NewAuthService("s3cret", 0)
	if a.TTL() != DefaultTTL {
		t.Fatalf("ttl = %v", a.TTL())
	}
	tok, err := a.IssueJWT("u1", "u1@example.com", "teacher")
	if err != nil {
		t.Fatal(err)
	}
	c := a.Verify(tok)
	if c == nil || c.Subject != "u1" || c.Email != "u1@example.com" || c.Role != "teacher" {
		t.Fatalf("claims = %+v", c)
	}
	if got := c.ExpiresAt.Sub(c.IssuedAt.Time); got != DefaultTTL {
		t.Fatalf("lifetime = %v", got)
	}
}

func TestVerifyRejects(t *testing.T) {
	a := NewAuthService("s3cret", time.Hour)
	other := NewAuthService("different", time.Hour)
	foreign, _ := other.IssueJWT("u1", "e", "admin")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	expiredTok, _ := expired.SignedString([]byte("s3cret"))

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}})
	noExpTok, _ := noExp.SignedString([]byte("s3cret"))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	noneTok, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, tok := range map[string]string{
		"empty":     "",
		"garbage":   "not.a.jwt",
		"foreign":   foreign,
		"expired":   expiredTok,
		"no expiry": noExpTok,
		"alg none":  noneTok,
	} {
		if c := a.Verify(tok); c != nil {
			t.Errorf("%s: accepted %+v", name, c)
		}
	}
}

func TestTokenFromRequestPrefersCookie(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	if got := TokenFromRequest(r); got != "header-token" {
		t.Fatalf("got %q", got)
	}
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
	if got := TokenFromRequest(r); got != "cookie-token" {
		t.Fatalf("got %q", got)
	}
}

type lookup map[string]Principal

func (l lookup) Principal(_ context.Context, id string) (Principal, error) {
	p, ok := l[id]
	if !ok {
		return Principal{}, db.ErrNotFound
	}
	return p, nil
}

func TestJWTMiddlewareUsesStoredRole(t *testing.T) {
	a := NewAuthService("s3cret", time.Hour)
	users := lookup{"u1": {ID: "u1", Email: "u1@example.com", Role: "admin"}}
	tok, _ := a.IssueJWT("u1", "u1@example.com", "student")

	var seen string
	h := JWTMiddleware(a, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = rbac.RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen != "admin" {
		t.Fatalf("code = %d, role = %q", rec.Code, seen)
	}

	ghost, _ := a.IssueJWT("u2", "u2@example.com", "admin")
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+ghost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: code = %d", rec.Code)
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(h, "hunter22") || CheckPassword(h, "hunter23") {
		t.Fatal("bcrypt round trip failed")
	}
}
