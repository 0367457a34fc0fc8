package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aitutor/tutor-api/internal/audit"
	authmw "github.com/aitutor/tutor-api/internal/auth/middleware"
	"github.com/aitutor/tutor-api/internal/content"
)

var reviewStatuses = map[string]bool{
	content.StatusPending:          true,
	content.StatusApproved:         true,
	content.StatusRejected:         true,
	content.StatusChangesRequested: true,
}

var actionMessages = map[string]string{
	"approve":         "Content approved successfully",
	"reject":          "Content rejected successfully",
	"request_changes": "Content marked for changes successfully",
}

type verifyReq struct {
	ContentType string  `json:"content_type" validate:"required,oneof=book video quiz"`
	ContentID   string  `json:"content_id" validate:"notblank"`
	Action      string  `json:"action" validate:"required,oneof=approve reject request_changes"`
	Comments    *string `json:"comments"`
}

// GET /api/content/verify?type=all|books|videos|quizzes&status=pending
func PendingContentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := strings.TrimSpace(r.URL.Query().Get("type"))
		if typ == "" {
			typ = "all"
		}
		status := strings.TrimSpace(r.URL.Query().Get("status"))
		if status == "" {
			status = content.StatusPending
		}
		if !reviewStatuses[status] {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		switch typ {
		case "all", "books", "videos", "quizzes":
		default:
			writeError(w, http.StatusBadRequest, "invalid type")
			return
		}

		ctx := r.Context()
		f := content.Filter{Status: status}
		out := map[string]any{}
		if typ == "all" || typ == "books" {
			books, err := d.Content.ListBooks(ctx, f)
			if err != nil {
				internalError(w, r, d.Log, "review books", err)
				return
			}
			out["books"] = books
		}
		if typ == "all" || typ == "videos" {
			videos, err := d.Content.ListVideos(ctx, f)
			if err != nil {
				internalError(w, r, d.Log, "review videos", err)
				return
			}
			out["videos"] = videos
		}
		if typ == "all" || typ == "quizzes" {
			quizzes, err := d.Content.ListQuizzes(ctx, f)
			if err != nil {
				internalError(w, r, d.Log, "review quizzes", err)
				return
			}
			out["quizzes"] = quizzes
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// POST /api/content/verify
func VerifyContentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyReq
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if msg, ok := check(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		reviewer := authmw.SubjectFromContext(r.Context())
		status, err := d.Content.Verify(r.Context(), content.Verification{
			Kind:       content.Kind(req.ContentType),
			ID:         req.ContentID,
			Action:     req.Action,
			VerifiedBy: reviewer,
			Comments:   req.Comments,
		})
		switch {
		case errors.Is(err, content.ErrNotFound):
			writeError(w, http.StatusNotFound, "Content not found")
			return
		case errors.Is(err, content.ErrUnknownKind), errors.Is(err, content.ErrBadAction):
			writeError(w, http.StatusBadRequest, "Invalid action")
			return
		case err != nil:
			internalError(w, r, d.Log, "verify content", err)
			return
		}
		if req.ContentType == string(content.KindBook) {
			invalidateMetadata(r.Context(), d)
		}
		d.Log.Info("content verified",
			"content_type", req.ContentType, "content_id", req.ContentID, "status", status, "reviewer", reviewer)
		writeJSON(w, http.StatusOK, map[string]string{"message": actionMessages[req.Action], "status": status})
	}
}

// GET /api/content/verify/history?content_type&content_id&limit
func VerificationHistoryHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		f := audit.Filter{
			ContentType: strings.TrimSpace(r.URL.Query().Get("content_type")),
			ContentID:   strings.TrimSpace(r.URL.Query().Get("content_id")),
		}
		if limit != nil {
			f.Limit = *limit
		}
		entries, err := d.Audit.List(r.Context(), f)
		if err != nil {
			internalError(w, r, d.Log, "verification history", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"history": entries})
	}
}
