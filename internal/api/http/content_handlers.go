package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/aitutor/tutor-api/internal/auth/middleware"
	"github.com/aitutor/tutor-api/internal/content"
	"github.com/aitutor/tutor-api/internal/rbac"
)

var difficulties = map[string]bool{"beginner": true, "intermediate": true, "advanced": true}

// listFilter parses the shared list query. Asking for anything other than
// approved content needs the verify permission.
func listFilter(r *http.Request) (content.Filter, int, string) {
	q := r.URL.Query()
	f := content.Filter{
		Stream:     strings.TrimSpace(q.Get("stream")),
		Subject:    strings.TrimSpace(q.Get("subject")),
		Topic:      strings.TrimSpace(q.Get("topic")),
		Difficulty: strings.TrimSpace(q.Get("difficulty")),
		Search:     strings.TrimSpace(q.Get("search")),
		Status:     strings.TrimSpace(q.Get("status")),
	}
	cl, err := queryInt(r, "class_level")
	if err != nil {
		return f, http.StatusBadRequest, err.Error()
	}
	f.ClassLevel = cl
	if f.Difficulty != "" && !difficulties[f.Difficulty] {
		return f, http.StatusBadRequest, "invalid difficulty"
	}
	if f.Status != "" && f.Status != content.StatusApproved {
		role := rbac.RoleFromContext(r.Context())
		if role == "" {
			return f, http.StatusUnauthorized, "Not authenticated"
		}
		if !rbac.Can(role, rbac.PermContentVerify) {
			return f, http.StatusForbidden, "Insufficient permissions"
		}
	}
	return f, 0, ""
}

// visible reports whether the caller may see an item in the given status.
func visible(ctx context.Context, status string, owner *string) bool {
	if status == content.StatusApproved {
		return true
	}
	p, ok := authmw.PrincipalFromContext(ctx)
	if !ok {
		return false
	}
	return rbac.Can(p.Role, rbac.PermContentVerify) || (owner != nil && *owner == p.ID)
}

func getOr404(w http.ResponseWriter, r *http.Request, d Deps, what string, err error) bool {
	if errors.Is(err, content.ErrNotFound) {
		writeError(w, http.StatusNotFound, what+" not found")
		return false
	}
	if err != nil {
		internalError(w, r, d.Log, "get "+strings.ToLower(what), err)
		return false
	}
	return true
}

// ---- books ----

type createBookReq struct {
	Title      string  `json:"title" validate:"notblank"`
	Author     string  `json:"author" validate:"notblank"`
	Stream     string  `json:"stream" validate:"notblank"`
	ClassLevel int     `json:"class_level" validate:"required,min=1,max=12"`
	Subject    string  `json:"subject" validate:"notblank"`
	Topic      string  `json:"topic" validate:"notblank"`
	Summary    *string `json:"summary"`
	ContentURL *string `json:"content_url"`
	Tags       *string `json:"tags"`
}

// GET /api/books
func ListBooksHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, code, msg := listFilter(r)
		if code != 0 {
			writeError(w, code, msg)
			return
		}
		books, err := d.Content.ListBooks(r.Context(), f)
		if err != nil {
			internalError(w, r, d.Log, "list books", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"books": books})
	}
}

// GET /api/books/{id}
func GetBookHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := d.Content.GetBook(r.Context(), chi.URLParam(r, "id"))
		if !getOr404(w, r, d, "Book", err) {
			return
		}
		if !visible(r.Context(), b.Status, b.UploadedBy) {
			writeError(w, http.StatusNotFound, "Book not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"book": b})
	}
}

// POST /api/books
func CreateBookHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookReq
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if msg, ok := check(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		p, _ := authmw.PrincipalFromContext(r.Context())
		b := &content.Book{
			Title:      strings.TrimSpace(req.Title),
			Author:     strings.TrimSpace(req.Author),
			Stream:     req.Stream,
			ClassLevel: req.ClassLevel,
			Subject:    req.Subject,
			Topic:      req.Topic,
			Summary:    req.Summary,
			ContentURL: req.ContentURL,
			Tags:       req.Tags,
			UploadedBy: &p.ID,
			Status:     content.InitialStatus(p.Role),
		}
		if err := d.Content.CreateBook(r.Context(), b); err != nil {
			internalError(w, r, d.Log, "create book", err)
			return
		}
		invalidateMetadata(r.Context(), d)
		d.Log.Info("book created", "book_id", b.ID, "status", b.Status, "user_id", p.ID)
		writeJSON(w, http.StatusCreated, map[string]any{"book": b})
	}
}

// ---- videos ----

type createVideoReq struct {
	Title       string  `json:"title" validate:"notblank"`
	TeacherName string  `json:"teacher_name" validate:"notblank"`
	Stream      string  `json:"stream" validate:"notblank"`
	ClassLevel  int     `json:"class_level" validate:"required,min=1,max=12"`
	Subject     string  `json:"subject" validate:"notblank"`
	Topic       string  `json:"topic" validate:"notblank"`
	Difficulty  string  `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	VideoURL    *string `json:"video_url"`
	Duration    *int    `json:"duration" validate:"omitempty,min=0"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
}

// GET /api/videos
func ListVideosHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, code, msg := listFilter(r)
		if code != 0 {
			writeError(w, code, msg)
			return
		}
		videos, err := d.Content.ListVideos(r.Context(), f)
		if err != nil {
			internalError(w, r, d.Log, "list videos", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"videos": videos})
	}
}

// GET /api/videos/{id}
func GetVideoHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := d.Content.GetVideo(r.Context(), chi.URLParam(r, "id"))
		if !getOr404(w, r, d, "Video", err) {
			return
		}
		if !visible(r.Context(), v.Status, v.UploadedBy) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"video": v})
	}
}

// POST /api/videos
func CreateVideoHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createVideoReq
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if msg, ok := check(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		p, _ := authmw.PrincipalFromContext(r.Context())
		v := &content.Video{
			Title:       strings.TrimSpace(req.Title),
			TeacherName: strings.TrimSpace(req.TeacherName),
			Stream:      req.Stream,
			ClassLevel:  req.ClassLevel,
			Subject:     req.Subject,
			Topic:       req.Topic,
			VideoURL:    req.VideoURL,
			Duration:    req.Duration,
			Difficulty:  req.Difficulty,
			Description: req.Description,
			Tags:        req.Tags,
			UploadedBy:  &p.ID,
			Status:      content.InitialStatus(p.Role),
		}
		if err := d.Content.CreateVideo(r.Context(), v); err != nil {
			internalError(w, r, d.Log, "create video", err)
			return
		}
		d.Log.Info("video created", "video_id", v.ID, "status", v.Status, "user_id", p.ID)
		writeJSON(w, http.StatusCreated, map[string]any{"video": v})
	}
}

// ---- quizzes ----

type createQuizReq struct {
	Title      string             `json:"title" validate:"notblank"`
	Stream     string             `json:"stream" validate:"notblank"`
	ClassLevel int                `json:"class_level" validate:"required,min=1,max=12"`
	Subject    string             `json:"subject" validate:"notblank"`
	Topic      string             `json:"topic" validate:"notblank"`
	Difficulty string             `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	Questions  []content.Question `json:"questions" validate:"required,min=1,dive"`
}

// authorView reports whether the caller may see answer keys.
func authorView(ctx context.Context) bool {
	return rbac.Can(rbac.RoleFromContext(ctx), rbac.PermContentCreate)
}

// GET /api/quizzes
func ListQuizzesHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, code, msg := listFilter(r)
		if code != 0 {
			writeError(w, code, msg)
			return
		}
		quizzes, err := d.Content.ListQuizzes(r.Context(), f)
		if err != nil {
			internalError(w, r, d.Log, "list quizzes", err)
			return
		}
		if !authorView(r.Context()) {
			for i := range quizzes {
				quizzes[i] = quizzes[i].ForLearner()
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"quizzes": quizzes})
	}
}

// GET /api/quizzes/{id}
func GetQuizHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := d.Content.GetQuiz(r.Context(), chi.URLParam(r, "id"))
		if !getOr404(w, r, d, "Quiz", err) {
			return
		}
		if !visible(r.Context(), q.Status, q.CreatedBy) {
			writeError(w, http.StatusNotFound, "Quiz not found")
			return
		}
		out := *q
		if !authorView(r.Context()) {
			out = q.ForLearner()
		}
		writeJSON(w, http.StatusOK, map[string]any{"quiz": out})
	}
}

// POST /api/quizzes
func CreateQuizHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createQuizReq
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if msg, ok := check(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		if err := content.ValidateQuestions(req.Questions); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p, _ := authmw.PrincipalFromContext(r.Context())
		q := &content.Quiz{
			Title:      strings.TrimSpace(req.Title),
			Stream:     req.Stream,
			ClassLevel: req.ClassLevel,
			Subject:    req.Subject,
			Topic:      req.Topic,
			Difficulty: req.Difficulty,
			Questions:  req.Questions,
			CreatedBy:  &p.ID,
			Status:     content.InitialStatus(p.Role),
		}
		if err := d.Content.CreateQuiz(r.Context(), q); err != nil {
			internalError(w, r, d.Log, "create quiz", err)
			return
		}
		d.Log.Info("quiz created", "quiz_id", q.ID, "questions", len(q.Questions), "user_id", p.ID)
		writeJSON(w, http.StatusCreated, map[string]any{"quiz": q})
	}
}
