package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aitutor/tutor-api/internal/users"
)

type updateUserRoleReq struct {
	Role string `json:"role" validate:"required,role"`
}

// PATCH /api/users/{id}/role
// Tokens are re-validated on every request, so the new role applies on the
// user's next call.
func UpdateUserRoleHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req updateUserRoleReq
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Role = strings.ToLower(strings.TrimSpace(req.Role))
		if msg, ok := check(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		err := d.Users.UpdateRole(r.Context(), id, req.Role)
		switch {
		case errors.Is(err, users.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
			return
		case errors.Is(err, users.ErrLastAdmin):
			writeError(w, http.StatusBadRequest, "cannot demote the last admin")
			return
		case err != nil:
			internalError(w, r, d.Log, "update role", err)
			return
		}
		d.Log.Info("role changed", "user_id", id, "role", req.Role)
		w.WriteHeader(http.StatusNoContent)
	}
}
