package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aitutor/tutor-api/internal/assessment"
	"github.com/aitutor/tutor-api/internal/audit"
	authmw "github.com/aitutor/tutor-api/internal/auth/middleware"
	"github.com/aitutor/tutor-api/internal/cache"
	"github.com/aitutor/tutor-api/internal/chat"
	"github.com/aitutor/tutor-api/internal/content"
	"github.com/aitutor/tutor-api/internal/db"
	"github.com/aitutor/tutor-api/internal/db/dbtest"
	"github.com/aitutor/tutor-api/internal/llm"
	"github.com/aitutor/tutor-api/internal/progress"
	"github.com/aitutor/tutor-api/internal/storage"
	"github.com/aitutor/tutor-api/internal/users"
)

type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Chat(context.Context, []llm.ChatMessage, *llm.GenerateOptions) (*llm.GenerateResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Content: f.reply}, nil
}

type testEnv struct {
	t   *testing.T
	db  *db.SQLAdapter
	d   Deps
	h   http.Handler
	llm *fakeProvider
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	a := dbtest.Open(t)
	blobs, err := storage.NewFSStore(t.TempDir(), uploadsPrefix)
	if err != nil {
		t.Fatal(err)
	}
	fp := &fakeProvider{reply: "Photosynthesis turns light into chemical energy."}
	log := audit.NewLog(a)
	chats := chat.NewStore(a)
	d := Deps{
		DB:          a,
		Auth:        authmw.NewAuthService("test-secret", authmw.DefaultTTL),
		Users:       users.NewStore(a),
		Content:     content.NewStore(a, log),
		Progress:    progress.NewStore(a),
		Assessments: assessment.NewStore(a),
		Chats:       chats,
		Tutor:       chat.NewTutor(chats, fp, nil),
		Audit:       log,
		Cache:       cache.NewMemory(time.Minute),
		Blobs:       blobs,
	}
	return &testEnv{t: t, db: a, d: d, h: NewRouter(d), llm: fp}
}

// user inserts a row directly and returns a bearer token for it.
func (e *testEnv) user(id, role string) string {
	e.t.Helper()
	dbtest.InsertUser(e.t, e.db, id, id+"@example.com", role)
	tok, err := e.d.Auth.IssueJWT(id, id+"@example.com", role)
	if err != nil {
		e.t.Fatal(err)
	}
	return tok
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			e.t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, code, rec.Body.String())
	}
}

func bookBody(subject string) map[string]any {
	return map[string]any{
		"title": "Light and Optics", "author": "NCERT", "stream": "CBSE",
		"class_level": 10, "subject": subject, "topic": "Optics",
	}
}
