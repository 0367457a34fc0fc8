package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aitutor/tutor-api/internal/assessment"
	authmw "github.com/aitutor/tutor-api/internal/auth/middleware"
	"github.com/aitutor/tutor-api/internal/progress"
	"github.com/aitutor/tutor-api/internal/stats"
)

type assessmentReq struct {
	Subject string `json:"subject" validate:"notblank"`
	Topic   string `json:"topic" validate:"notblank"`
	Level   string `json:"level" validate:"required,oneof=beginner intermediate expert"`
}

type studyTimeReq struct {
	Subject string `json:"subject" validate:"notblank"`
	Topic   string `json:"topic" validate:"notblank"`
	Seconds int    `json:"seconds" validate:"required,min=1,max=86400"`
}

// GET /api/assessments
func ListAssessmentsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := d.Assessments.List(r.Context(), authmw.SubjectFromContext(r.Context()))
		if err != nil {
			internalError(w, r, d.Log, "list assessments", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"assessments": list})
	}
}

// POST /api/assessments keeps one row per subject and topic.
func UpsertAssessmentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assessmentReq
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if msg, ok := check(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		if !assessment.ValidLevel(req.Level) {
			writeError(w, http.StatusBadRequest, "Invalid level")
			return
		}
		userID := authmw.SubjectFromContext(r.Context())
		if err := d.Assessments.Upsert(r.Context(), userID, req.Subject, req.Topic, req.Level); err != nil {
			internalError(w, r, d.Log, "save assessment", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Assessment saved successfully"})
	}
}

// GET /api/progress
func ListProgressHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := d.Progress.List(r.Context(), authmw.SubjectFromContext(r.Context()))
		if err != nil {
			internalError(w, r, d.Log, "list progress", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"progress": list})
	}
}

// GET /api/progress/{subject}
func SubjectProgressHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := chi.URLParam(r, "subject")
		list, err := d.Progress.BySubject(r.Context(), authmw.SubjectFromContext(r.Context()), subject)
		if err != nil {
			internalError(w, r, d.Log, "subject progress", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"subject": subject, "progress": list})
	}
}

// POST /api/progress/time
func AddStudyTimeHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req studyTimeReq
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if msg, ok := check(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		userID := authmw.SubjectFromContext(r.Context())
		err := d.Progress.AddTime(r.Context(), userID, req.Subject, req.Topic, req.Seconds)
		if errors.Is(err, progress.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No progress for this topic")
			return
		}
		if err != nil {
			internalError(w, r, d.Log, "add study time", err)
			return
		}
		p, err := d.Progress.Get(r.Context(), userID, req.Subject, req.Topic)
		if err != nil {
			internalError(w, r, d.Log, "load progress", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"progress": p})
	}
}

// GET /api/dashboard/stats
func DashboardStatsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := authmw.SubjectFromContext(ctx)
		prog, err := d.Progress.List(ctx, userID)
		if err != nil {
			internalError(w, r, d.Log, "dashboard progress", err)
			return
		}
		attempts, err := d.Progress.Attempts(ctx, userID)
		if err != nil {
			internalError(w, r, d.Log, "dashboard attempts", err)
			return
		}
		self, err := d.Assessments.List(ctx, userID)
		if err != nil {
			internalError(w, r, d.Log, "dashboard assessments", err)
			return
		}
		writeJSON(w, http.StatusOK, stats.Build(prog, attempts, self))
	}
}
