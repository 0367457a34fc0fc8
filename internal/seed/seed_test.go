package seed

import (
	"context"
	"testing"

	"github.com/aitutor/tutor-api/internal/audit"
	"github.com/aitutor/tutor-api/internal/content"
	"github.com/aitutor/tutor-api/internal/db/dbtest"
	"github.com/aitutor/tutor-api/internal/users"
)

func TestRunSeedsOnce(t *testing.T) {
	a := dbtest.Open(t)
	us := users.NewStore(a)
	cs := content.NewStore(a, audit.NewLog(a))
	ctx := context.Background()

	res, err := Run(ctx, us, cs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Seeded || res.Users != 4 || res.Books != 6 || res.Videos != 4 || res.Quizzes != 3 {
		t.Fatalf("res = %+v", res)
	}

	u, err := us.Authenticate(ctx, "student@aitutor.com", "student123")
	if err != nil {
		t.Fatal(err)
	}
	if u.Stream == nil || *u.Stream != "CBSE" || len(u.Subjects) != 3 {
		t.Fatalf("student = %+v", u)
	}

	again, err := Run(ctx, us, cs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if again.Seeded {
		t.Fatal("second run should be a no-op")
	}

	qs, err := cs.ListQuizzes(ctx, content.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range qs {
		if err := content.ValidateQuestions(q.Questions); err != nil {
			t.Errorf("%s: %v", q.Title, err)
		}
	}
}

func TestRunFillsMissingAccountsOnly(t *testing.T) {
	a := dbtest.Open(t)
	us := users.NewStore(a)
	cs := content.NewStore(a, audit.NewLog(a))
	ctx := context.Background()

	dbtest.InsertUser(t, a, "u-existing", "admin@aitutor.com", "admin")

	res, err := Run(ctx, us, cs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Users != 3 || res.Books != 6 {
		t.Fatalf("res = %+v", res)
	}
	books, err := cs.ListBooks(ctx, content.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range books {
		if b.UploadedBy == nil || *b.UploadedBy != "u-existing" {
			t.Fatalf("book %s uploaded by %v", b.Title, b.UploadedBy)
		}
	}
}
