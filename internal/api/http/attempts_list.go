package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/aitutor/tutor-api/internal/auth/middleware"
	"github.com/aitutor/tutor-api/internal/grading"
	"github.com/aitutor/tutor-api/internal/progress"
)

type submitAttemptReq struct {
	Answers []*int `json:"answers" validate:"required"`
}

type attemptResp struct {
	grading.Outcome
	AttemptID string `json:"attempt_id"`
}

// POST /api/quizzes/{id}/attempt
// Grades the submission, stores the attempt and folds the score into the
// caller's topic progress.
func SubmitAttemptHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())

		var req submitAttemptReq
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if msg, ok := check(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		quiz, err := d.Content.GetQuiz(r.Context(), chi.URLParam(r, "id"))
		if !getOr404(w, r, d, "Quiz", err) {
			return
		}
		if !visible(r.Context(), quiz.Status, quiz.CreatedBy) {
			writeError(w, http.StatusNotFound, "Quiz not found")
			return
		}

		out, err := grading.Grade(quiz.GradingView(), req.Answers)
		if errors.Is(err, grading.ErrNoQuestions) {
			writeError(w, http.StatusBadRequest, "Quiz has no questions")
			return
		}
		if err != nil {
			internalError(w, r, d.Log, "grade quiz", err)
			return
		}

		id, err := d.Progress.RecordAttempt(r.Context(), progress.AttemptInput{
			UserID:     userID,
			QuizID:     quiz.ID,
			Stream:     quiz.Stream,
			ClassLevel: quiz.ClassLevel,
			Subject:    quiz.Subject,
			Topic:      quiz.Topic,
			Answers:    req.Answers,
			Score:      out.Score,
		})
		if err != nil {
			internalError(w, r, d.Log, "record attempt", err)
			return
		}
		d.Log.Info("quiz attempted", "quiz_id", quiz.ID, "user_id", userID, "score", out.Score)
		writeJSON(w, http.StatusOK, attemptResp{Outcome: out, AttemptID: id})
	}
}

// GET /api/attempts lists the caller's own attempts.
func ListAttemptsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := d.Progress.Attempts(r.Context(), authmw.SubjectFromContext(r.Context()))
		if err != nil {
			internalError(w, r, d.Log, "list attempts", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"attempts": list})
	}
}
