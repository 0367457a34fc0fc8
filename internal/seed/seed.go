// Package seed inserts demo accounts and approved content.
package seed

import (
	"context"
	"errors"
	"fmt"

	authmw "github.com/aitutor/tutor-api/internal/auth/middleware"
	"github.com/aitutor/tutor-api/internal/content"
	"github.com/aitutor/tutor-api/internal/logger"
	"github.com/aitutor/tutor-api/internal/rbac"
	"github.com/aitutor/tutor-api/internal/users"
)

type account struct {
	email, password, name, role string
	stream                      string
	classLevel                  int
	subjects                    []string
}

var accounts = []account{
	{email: "admin@aitutor.com", password: "admin123", name: "Admin User", role: rbac.RoleAdmin},
	{email: "teacher@aitutor.com", password: "teacher123", name: "Dr. Sharma", role: rbac.RoleTeacher},
	{email: "content@aitutor.com", password: "content123", name: "Content Manager", role: rbac.RoleContentTeam},
	{email: "student@aitutor.com", password: "student123", name: "Rahul Kumar", role: rbac.RoleStudent,
		stream: "CBSE", classLevel: 10, subjects: []string{"Mathematics", "Science", "English"}},
}

type Result struct {
	Seeded  bool `json:"seeded"`
	Users   int  `json:"users"`
	Books   int  `json:"books"`
	Videos  int  `json:"videos"`
	Quizzes int  `json:"quizzes"`
}

// Run creates the demo accounts that are missing and, when the catalogue
// is empty, the demo content. A second run is a no-op.
func Run(ctx context.Context, us *users.Store, cs *content.Store, log *logger.Logger) (Result, error) {
	if log == nil {
		log = logger.Nop()
	}
	var res Result
	ids := map[string]string{}
	for _, a := range accounts {
		existing, err := us.ByEmail(ctx, a.email)
		if err == nil {
			ids[a.role] = existing.ID
			continue
		}
		if !errors.Is(err, users.ErrNotFound) {
			return res, err
		}
		hash, err := authmw.HashPassword(a.password)
		if err != nil {
			return res, err
		}
		u := &users.User{Email: a.email, PasswordHash: hash, FullName: a.name, Role: a.role, Subjects: a.subjects}
		if a.stream != "" {
			s, cl := a.stream, a.classLevel
			u.Stream, u.ClassLevel = &s, &cl
		}
		if err := us.Create(ctx, u); err != nil {
			return res, fmt.Errorf("seed user %s: %w", a.email, err)
		}
		ids[a.role] = u.ID
		res.Users++
	}

	n, err := cs.Count(ctx)
	if err != nil {
		return res, err
	}
	if n > 0 {
		res.Seeded = res.Users > 0
		log.Info("catalogue already populated", "items", n, "users_added", res.Users)
		return res, nil
	}

	admin, teacher := ids[rbac.RoleAdmin], ids[rbac.RoleTeacher]
	for _, b := range books() {
		b.UploadedBy, b.Status = &admin, content.StatusApproved
		if err := cs.CreateBook(ctx, &b); err != nil {
			return res, err
		}
		res.Books++
	}
	for _, v := range videos() {
		v.UploadedBy, v.Status = &teacher, content.StatusApproved
		if err := cs.CreateVideo(ctx, &v); err != nil {
			return res, err
		}
		res.Videos++
	}
	for _, q := range quizzes() {
		q.CreatedBy, q.Status = &teacher, content.StatusApproved
		if err := cs.CreateQuiz(ctx, &q); err != nil {
			return res, err
		}
		res.Quizzes++
	}
	res.Seeded = true

	log.Info("database seeded", "users", res.Users, "books", res.Books, "videos", res.Videos, "quizzes", res.Quizzes)
	return res, nil
}
