package http

import (
	"net/http"
	"testing"

	"github.com/aitutor/tutor-api/internal/audit"
	"github.com/aitutor/tutor-api/internal/content"
	"github.com/aitutor/tutor-api/internal/progress"
)

func TestCreateBookRoleGate(t *testing.T) {
	e := newEnv(t)
	tokens := map[string]string{
		"student": e.user("s1", "student"),
		"admin":   e.user("a1", "admin"),
		"teacher": e.user("t1", "teacher"),
		"content": e.user("c1", "content_team"),
	}

	wantStatus(t, e.do("POST", "/api/books", "", bookBody("Physics")), http.StatusUnauthorized)
	wantStatus(t, e.do("POST", "/api/books", tokens["student"], bookBody("Physics")), http.StatusForbidden)

	for role, want := range map[string]string{"admin": "approved", "teacher": "pending", "content": "pending"} {
		rec := e.do("POST", "/api/books", tokens[role], bookBody("Physics"))
		wantStatus(t, rec, http.StatusCreated)
		if got := decode[map[string]content.Book](t, rec)["book"].Status; got != want {
			t.Errorf("%s: status = %q, want %q", role, got, want)
		}
	}

	missing := bookBody("Physics")
	delete(missing, "author")
	wantStatus(t, e.do("POST", "/api/books", tokens["admin"], missing), http.StatusBadRequest)

	// only the approved book is public
	list := decode[map[string][]content.Book](t, e.do("GET", "/api/books", "", nil))["books"]
	if len(list) != 1 || list[0].Status != "approved" {
		t.Fatalf("public books = %+v", list)
	}
}

func TestStatusFilterNeedsVerifyPermission(t *testing.T) {
	e := newEnv(t)
	student := e.user("s1", "student")
	teacher := e.user("t1", "teacher")
	wantStatus(t, e.do("POST", "/api/books", teacher, bookBody("Physics")), http.StatusCreated)

	wantStatus(t, e.do("GET", "/api/books?status=pending", "", nil), http.StatusUnauthorized)
	wantStatus(t, e.do("GET", "/api/books?status=pending", student, nil), http.StatusForbidden)
	rec := e.do("GET", "/api/books?status=pending", teacher, nil)
	wantStatus(t, rec, http.StatusOK)
	if n := len(decode[map[string][]content.Book](t, rec)["books"]); n != 1 {
		t.Fatalf("pending = %d", n)
	}
	wantStatus(t, e.do("GET", "/api/books?class_level=ten", "", nil), http.StatusBadRequest)
}

func TestVideoFilterIsConjunctive(t *testing.T) {
	e := newEnv(t)
	admin := e.user("a1", "admin")
	for _, v := range []struct{ subject, difficulty string }{
		{"Science", "beginner"},
		{"Science", "advanced"},
		{"Mathematics", "beginner"},
	} {
		rec := e.do("POST", "/api/videos", admin, map[string]any{
			"title": v.subject + " " + v.difficulty, "teacher_name": "Ms. Rao", "stream": "CBSE", "class_level": 10,
			"subject": v.subject, "topic": "Intro", "difficulty": v.difficulty,
		})
		wantStatus(t, rec, http.StatusCreated)
	}

	rec := e.do("GET", "/api/videos?subject=Science&difficulty=beginner", "", nil)
	wantStatus(t, rec, http.StatusOK)
	videos := decode[map[string][]content.Video](t, rec)["videos"]
	if len(videos) != 1 {
		t.Fatalf("got %d videos", len(videos))
	}
	if videos[0].Subject != "Science" || videos[0].Difficulty != "beginner" {
		t.Fatalf("video = %+v", videos[0])
	}
	wantStatus(t, e.do("GET", "/api/videos?difficulty=expert", "", nil), http.StatusBadRequest)
}

func createQuiz(t *testing.T, e *testEnv, token string) content.Quiz {
	t.Helper()
	rec := e.do("POST", "/api/quizzes", token, map[string]any{
		"title": "Motion basics", "stream": "CBSE", "class_level": 9, "subject": "Physics",
		"topic": "Motion", "difficulty": "beginner",
		"questions": []map[string]any{
			{"question": "SI unit of speed?", "options": []string{"m/s", "km", "s"}, "correct_answer": 0},
			{"question": "Acceleration of uniform motion?", "options": []string{"1", "0"}, "correct_answer": 1},
		},
	})
	wantStatus(t, rec, http.StatusCreated)
	return decode[map[string]content.Quiz](t, rec)["quiz"]
}

type progressBody struct {
	Progress []progress.TopicProgress `json:"progress"`
}

func TestQuizAttemptScoresAndTracksProgress(t *testing.T) {
	e := newEnv(t)
	admin := e.user("a1", "admin")
	student := e.user("s1", "student")
	quiz := createQuiz(t, e, admin)

	// learners never see the answer key
	got := decode[map[string]content.Quiz](t, e.do("GET", "/api/quizzes/"+quiz.ID, student, nil))["quiz"]
	for _, q := range got.Questions {
		if q.CorrectAnswer != nil || q.Explanation != "" {
			t.Fatalf("answer key leaked: %+v", q)
		}
	}

	path := "/api/quizzes/" + quiz.ID + "/attempt"
	perfect := e.do("POST", path, student, map[string]any{"answers": []int{0, 1}})
	wantStatus(t, perfect, http.StatusOK)
	res := decode[attemptResp](t, perfect)
	if res.Score != 100 || res.Correct != 2 || res.Total != 2 || res.AttemptID == "" || len(res.Results) != 2 {
		t.Fatalf("perfect = %+v", res)
	}

	wrong := decode[attemptResp](t, e.do("POST", path, student, map[string]any{"answers": []int{2, 0}}))
	if wrong.Score != 0 || wrong.Correct != 0 {
		t.Fatalf("wrong = %+v", wrong)
	}

	rec := e.do("GET", "/api/progress/Physics", student, nil)
	wantStatus(t, rec, http.StatusOK)
	body := decode[progressBody](t, rec)
	if len(body.Progress) != 1 {
		t.Fatalf("progress rows = %d", len(body.Progress))
	}
	p := body.Progress[0]
	if p.QuizAttempts != 2 || p.AverageScore != 50 || p.MasteryLevel != 50 || p.Topic != "Motion" {
		t.Fatalf("progress = %+v", p)
	}

	wantStatus(t, e.do("POST", "/api/quizzes/missing/attempt", student, map[string]any{"answers": []int{0}}), http.StatusNotFound)
	wantStatus(t, e.do("POST", path, student, map[string]any{}), http.StatusBadRequest)
	wantStatus(t, e.do("POST", path, "", map[string]any{"answers": []int{0}}), http.StatusUnauthorized)
}

func TestCreateQuizRejectsBadAnswerIndex(t *testing.T) {
	e := newEnv(t)
	admin := e.user("a1", "admin")
	rec := e.do("POST", "/api/quizzes", admin, map[string]any{
		"title": "Broken", "stream": "CBSE", "class_level": 9, "subject": "Physics", "topic": "Motion", "difficulty": "beginner",
		"questions": []map[string]any{{"question": "?", "options": []string{"a", "b"}, "correct_answer": 5}},
	})
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestVerifyContentWritesAuditTrail(t *testing.T) {
	e := newEnv(t)
	teacher := e.user("t1", "teacher")
	reviewer := e.user("t2", "teacher")
	student := e.user("s1", "student")

	book := decode[map[string]content.Book](t, e.do("POST", "/api/books", teacher, bookBody("Chemistry")))["book"]

	pending := e.do("GET", "/api/content/verify?type=books", reviewer, nil)
	wantStatus(t, pending, http.StatusOK)
	if n := len(decode[map[string][]content.Book](t, pending)["books"]); n != 1 {
		t.Fatalf("pending books = %d", n)
	}

	body := map[string]any{"content_type": "book", "content_id": book.ID, "action": "approve", "comments": "looks good"}
	wantStatus(t, e.do("POST", "/api/content/verify", student, body), http.StatusForbidden)

	rec := e.do("POST", "/api/content/verify", reviewer, body)
	wantStatus(t, rec, http.StatusOK)
	if msg := decode[map[string]string](t, rec)["message"]; msg != "Content approved successfully" {
		t.Fatalf("message = %q", msg)
	}

	approved := decode[map[string]content.Book](t, e.do("GET", "/api/books/"+book.ID, "", nil))["book"]
	if approved.Status != "approved" || approved.VerifiedBy == nil || *approved.VerifiedBy != "t2" {
		t.Fatalf("book = %+v", approved)
	}

	hist := e.do("GET", "/api/content/verify/history?content_id="+book.ID, reviewer, nil)
	wantStatus(t, hist, http.StatusOK)
	entries := decode[map[string][]audit.Entry](t, hist)["history"]
	if len(entries) != 1 || entries[0].Action != "approve" || entries[0].VerifiedBy != "t2" {
		t.Fatalf("history = %+v", entries)
	}

	body["content_id"] = "nope"
	wantStatus(t, e.do("POST", "/api/content/verify", reviewer, body), http.StatusNotFound)
	body["action"] = "delete"
	wantStatus(t, e.do("POST", "/api/content/verify", reviewer, body), http.StatusBadRequest)
}

func TestPendingItemHiddenFromOthers(t *testing.T) {
	e := newEnv(t)
	author := e.user("c1", "content_team")
	other := e.user("s1", "student")
	book := decode[map[string]content.Book](t, e.do("POST", "/api/books", author, bookBody("Biology")))["book"]

	wantStatus(t, e.do("GET", "/api/books/"+book.ID, other, nil), http.StatusNotFound)
	wantStatus(t, e.do("GET", "/api/books/"+book.ID, author, nil), http.StatusOK)
}

func TestMetadataFollowsApprovals(t *testing.T) {
	e := newEnv(t)
	admin := e.user("a1", "admin")
	wantStatus(t, e.do("POST", "/api/books", admin, bookBody("Physics")), http.StatusCreated)

	subjects := func() []string {
		rec := e.do("GET", "/api/metadata/subjects?stream=CBSE", "", nil)
		wantStatus(t, rec, http.StatusOK)
		return decode[map[string][]string](t, rec)["subjects"]
	}
	if got := subjects(); len(got) != 1 || got[0] != "Physics" {
		t.Fatalf("subjects = %v", got)
	}
	wantStatus(t, e.do("POST", "/api/books", admin, bookBody("Chemistry")), http.StatusCreated)
	if got := subjects(); len(got) != 2 || got[0] != "Chemistry" {
		t.Fatalf("subjects after create = %v", got)
	}

	wantStatus(t, e.do("GET", "/api/metadata/topics", "", nil), http.StatusBadRequest)
	rec := e.do("GET", "/api/metadata/topics?subject=Physics", "", nil)
	wantStatus(t, rec, http.StatusOK)
	if got := decode[map[string][]string](t, rec)["topics"]; len(got) != 1 || got[0] != "Optics" {
		t.Fatalf("topics = %v", got)
	}
}
