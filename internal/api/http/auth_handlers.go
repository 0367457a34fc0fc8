package http

import (
	"errors"
	"net/http"
	"strings"

	authmw "github.com/aitutor/tutor-api/internal/auth/middleware"
	"github.com/aitutor/tutor-api/internal/rbac"
	"github.com/aitutor/tutor-api/internal/users"
)

type registerReq struct {
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=6"`
	FullName   string   `json:"full_name" validate:"notblank"`
	Role       string   `json:"role" validate:"omitempty,role"`
	Stream     *string  `json:"stream"`
	ClassLevel *int     `json:"class_level" validate:"omitempty,min=1,max=12"`
	Subjects   []string `json:"subjects"`
}

type loginReq struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type sessionResp struct {
	User  *users.User `json:"user"`
	Token string      `json:"token"`
}

// POST /api/auth/register
// Roles that can create or verify content are granted only by an admin, or
// by anyone while the user table is still empty. A signed-in caller gets the
// new account back without a session; only self-registration logs in.
func RegisterHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if msg, ok := check(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		if req.Role == "" {
			req.Role = rbac.RoleStudent
		}
		caller, signedIn := authmw.PrincipalFromContext(r.Context())
		if privilegedRole(req.Role) {
			if caller.Role != rbac.RoleAdmin {
				n, err := d.Users.Count(r.Context())
				if err != nil {
					internalError(w, r, d.Log, "count users", err)
					return
				}
				if n > 0 {
					writeError(w, http.StatusForbidden, "Insufficient permissions")
					return
				}
			}
		}

		hash, err := authmw.HashPassword(req.Password)
		if err != nil {
			internalError(w, r, d.Log, "hash password", err)
			return
		}
		u := &users.User{
			Email:        req.Email,
			PasswordHash: hash,
			FullName:     strings.TrimSpace(req.FullName),
			Role:         req.Role,
			Stream:       req.Stream,
			ClassLevel:   req.ClassLevel,
			Subjects:     req.Subjects,
		}
		if err := d.Users.Create(r.Context(), u); err != nil {
			if errors.Is(err, users.ErrEmailTaken) {
				writeError(w, http.StatusBadRequest, "Email already registered")
				return
			}
			internalError(w, r, d.Log, "create user", err)
			return
		}
		d.Log.Info("user registered", "user_id", u.ID, "role", u.Role, "by", caller.ID)
		if signedIn {
			writeJSON(w, http.StatusCreated, map[string]any{"user": u})
			return
		}
		startSession(w, r, d, u)
	}
}

func privilegedRole(role string) bool {
	return rbac.Can(role, rbac.PermContentCreate) || rbac.Can(role, rbac.PermContentVerify)
}

// POST /api/auth/login
func LoginHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if msg, ok := check(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		u, err := d.Users.Authenticate(r.Context(), strings.ToLower(req.Email), req.Password)
		if errors.Is(err, users.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err != nil {
			internalError(w, r, d.Log, "login", err)
			return
		}
		startSession(w, r, d, u)
	}
}

func startSession(w http.ResponseWriter, r *http.Request, d Deps, u *users.User) {
	tok, err := d.Auth.IssueJWT(u.ID, u.Email, u.Role)
	if err != nil {
		internalError(w, r, d.Log, "issue token", err)
		return
	}
	d.Auth.SetCookie(w, tok, d.CookieSecure)
	writeJSON(w, http.StatusOK, sessionResp{User: u, Token: tok})
}

// GET /api/auth/me
func MeHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := d.Users.ByID(r.Context(), authmw.SubjectFromContext(r.Context()))
		if errors.Is(err, users.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if err != nil {
			internalError(w, r, d.Log, "load user", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": u})
	}
}

// POST /api/auth/logout
func LogoutHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authmw.ClearCookie(w, d.CookieSecure)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	}
}
