package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aitutor/tutor-api/internal/assessment"
	"github.com/aitutor/tutor-api/internal/audit"
	authmw "github.com/aitutor/tutor-api/internal/auth/middleware"
	"github.com/aitutor/tutor-api/internal/cache"
	"github.com/aitutor/tutor-api/internal/chat"
	"github.com/aitutor/tutor-api/internal/content"
	"github.com/aitutor/tutor-api/internal/db"
	"github.com/aitutor/tutor-api/internal/logger"
	"github.com/aitutor/tutor-api/internal/progress"
	"github.com/aitutor/tutor-api/internal/rbac"
	"github.com/aitutor/tutor-api/internal/storage"
	"github.com/aitutor/tutor-api/internal/users"
)

// Deps is everything the handlers need. Cache and Blobs may be nil.
type Deps struct {
	DB          db.Adapter
	Auth        *authmw.AuthService
	Users       *users.Store
	Content     *content.Store
	Progress    *progress.Store
	Assessments *assessment.Store
	Chats       *chat.Store
	Tutor       *chat.Tutor
	Audit       *audit.Log
	Cache       cache.Cache
	Blobs       storage.BlobStore
	Log         *logger.Logger

	CookieSecure bool
	CORSOrigins  []string
}

const uploadsPrefix = "/api/uploads"

// NewRouter mounts the JSON API under /api.
func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, AccessLog(d.Log), middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	auth := authmw.JWTMiddleware(d.Auth, d.Users)
	optional := authmw.OptionalJWT(d.Auth, d.Users)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", HealthHandler(d))

		// public, with an optional session
		r.Group(func(or chi.Router) {
			or.Use(optional)
			or.Post("/auth/register", RegisterHandler(d))
			or.Get("/books", ListBooksHandler(d))
			or.Get("/books/{id}", GetBookHandler(d))
			or.Get("/videos", ListVideosHandler(d))
			or.Get("/videos/{id}", GetVideoHandler(d))
			or.Get("/quizzes", ListQuizzesHandler(d))
			or.Get("/quizzes/{id}", GetQuizHandler(d))
			or.Get("/metadata/subjects", SubjectsHandler(d))
			or.Get("/metadata/topics", TopicsHandler(d))
		})
		r.Post("/auth/login", LoginHandler(d))
		r.Post("/auth/logout", LogoutHandler(d))
		r.Get("/uploads/*", ServeUploadHandler(d))

		r.Group(func(pr chi.Router) {
			pr.Use(auth)
			pr.Get("/auth/me", MeHandler(d))
			pr.With(rbac.Require(rbac.PermChangePassword)).
				Post("/auth/change-password", ChangePasswordHandler(d))

			pr.With(rbac.Require(rbac.PermContentCreate)).Post("/books", CreateBookHandler(d))
			pr.With(rbac.Require(rbac.PermContentCreate)).Post("/videos", CreateVideoHandler(d))
			pr.With(rbac.Require(rbac.PermContentCreate)).Post("/quizzes", CreateQuizHandler(d))
			pr.With(rbac.Require(rbac.PermContentCreate)).Post("/uploads", UploadHandler(d))

			pr.With(rbac.Require(rbac.PermQuizAttempt)).
				Post("/quizzes/{id}/attempt", SubmitAttemptHandler(d))
			pr.With(rbac.Require(rbac.PermQuizAttempt)).
				Get("/attempts", ListAttemptsHandler(d))

			pr.With(rbac.Require(rbac.PermAssessment)).Get("/assessments", ListAssessmentsHandler(d))
			pr.With(rbac.Require(rbac.PermAssessment)).Post("/assessments", UpsertAssessmentHandler(d))

			pr.Get("/progress", ListProgressHandler(d))
			pr.Get("/progress/{subject}", SubjectProgressHandler(d))
			pr.Post("/progress/time", AddStudyTimeHandler(d))
			pr.Get("/dashboard/stats", DashboardStatsHandler(d))

			pr.With(rbac.Require(rbac.PermChat)).Post("/chat", ChatHandler(d))
			pr.With(rbac.Require(rbac.PermChat)).Get("/chat/sessions", ListChatSessionsHandler(d))
			pr.With(rbac.Require(rbac.PermChat)).Get("/chat/sessions/{id}", GetChatSessionHandler(d))

			pr.With(rbac.Require(rbac.PermContentVerify)).Get("/content/verify", PendingContentHandler(d))
			pr.With(rbac.Require(rbac.PermContentVerify)).Post("/content/verify", VerifyContentHandler(d))
			pr.With(rbac.Require(rbac.PermContentVerify)).
				Get("/content/verify/history", VerificationHistoryHandler(d))

			pr.With(rbac.Require(rbac.PermUsersAdmin)).Get("/users", ListUsersHandler(d))
			pr.With(rbac.Require(rbac.PermUsersAdmin)).Post("/users/import", ImportUsersHandler(d))
			pr.With(rbac.Require(rbac.PermUsersAdmin)).Patch("/users/{id}/role", UpdateUserRoleHandler(d))
			pr.With(rbac.Require(rbac.PermSeed)).Post("/seed", SeedHandler(d))
		})
	})
	return r
}
