package http

import (
	"errors"
	"net/http"

	authmw "github.com/aitutor/tutor-api/internal/auth/middleware"
	"github.com/aitutor/tutor-api/internal/users"
)

type changePasswordReq struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// POST /api/auth/change-password
func ChangePasswordHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())

		var req changePasswordReq
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if msg, ok := check(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		u, err := d.Users.ByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			internalError(w, r, d.Log, "load user", err)
			return
		}
		if !authmw.CheckPassword(u.PasswordHash, req.OldPassword) {
			writeError(w, http.StatusForbidden, "Incorrect old password")
			return
		}

		hash, err := authmw.HashPassword(req.NewPassword)
		if err != nil {
			internalError(w, r, d.Log, "hash password", err)
			return
		}
		if err := d.Users.SetPassword(r.Context(), userID, hash); err != nil {
			internalError(w, r, d.Log, "set password", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
