package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/aitutor/tutor-api/internal/audit"
	"github.com/aitutor/tutor-api/internal/db"
)

var (
	ErrNotFound    = db.ErrNotFound
	ErrUnknownKind = errors.New("content: unknown content type")
	ErrBadAction   = errors.New("content: unknown verification action")
)

type Store struct {
	db  db.Adapter
	log *audit.Log
}

func NewStore(a db.Adapter, log *audit.Log) *Store {
	if log == nil {
		log = audit.NewLog(a)
	}
	return &Store{db: a, log: log}
}

// where accumulates conjunctive predicates for a list query.
type where struct {
	sql  string
	args []any
}

func (w *where) eq(col string, v any) {
	w.sql += " AND " + col + " = ?"
	w.args = append(w.args, v)
}

func (w *where) like(term string, cols ...string) {
	w.sql += " AND ("
	for i, c := range cols {
		if i > 0 {
			w.sql += " OR "
		}
		w.sql += "LOWER(" + c + ") LIKE LOWER(?)"
		w.args = append(w.args, "%"+term+"%")
	}
	w.sql += ")"
}

func buildWhere(alias string, f Filter, searchCols ...string) where {
	w := where{sql: " WHERE 1=1"}
	col := func(c string) string { return alias + "." + c }
	switch f.Status {
	case "":
		w.eq(col("status"), StatusApproved)
	case StatusAll:
	default:
		w.eq(col("status"), f.Status)
	}
	if f.Stream != "" {
		w.eq(col("stream"), f.Stream)
	}
	if f.ClassLevel != nil {
		w.eq(col("class_level"), *f.ClassLevel)
	}
	if f.Subject != "" {
		w.eq(col("subject"), f.Subject)
	}
	if f.Topic != "" {
		w.eq(col("topic"), f.Topic)
	}
	if f.Difficulty != "" {
		w.eq(col("difficulty"), f.Difficulty)
	}
	if f.Search != "" && len(searchCols) > 0 {
		cols := make([]string, len(searchCols))
		for i, c := range searchCols {
			cols[i] = col(c)
		}
		w.like(f.Search, cols...)
	}
	return w
}

// ---- books ----

const bookSelect = `SELECT b.*, u.full_name AS uploader_name FROM books b LEFT JOIN users u ON u.id = b.uploaded_by`

func (s *Store) ListBooks(ctx context.Context, f Filter) ([]Book, error) {
	f.Difficulty = "" // books carry no difficulty
	w := buildWhere("b", f, "title", "author", "tags")
	out := []Book{}
	if err := s.db.Select(ctx, &out, bookSelect+w.sql+` ORDER BY b.created_at DESC`, w.args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetBook(ctx context.Context, id string) (*Book, error) {
	var b Book
	if err := s.db.Get(ctx, &b, bookSelect+` WHERE b.id = ?`, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBook fills ID and CreatedAt; Status must be set by the caller.
func (s *Store) CreateBook(ctx context.Context, b *Book) error {
	b.ID = uuid.NewString()
	b.CreatedAt = db.Now()
	_, err := s.db.Exec(ctx, `INSERT INTO books
		(id, title, author, stream, class_level, subject, topic, summary, content_url, tags, uploaded_by, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Author, b.Stream, b.ClassLevel, b.Subject, b.Topic, b.Summary, b.ContentURL, b.Tags, b.UploadedBy, b.Status, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// ---- videos ----

const videoSelect = `SELECT v.*, u.full_name AS uploader_name FROM videos v LEFT JOIN users u ON u.id = v.uploaded_by`

func (s *Store) ListVideos(ctx context.Context, f Filter) ([]Video, error) {
	w := buildWhere("v", f, "title", "teacher_name", "tags")
	out := []Video{}
	if err := s.db.Select(ctx, &out, videoSelect+w.sql+` ORDER BY v.created_at DESC`, w.args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetVideo(ctx context.Context, id string) (*Video, error) {
	var v Video
	if err := s.db.Get(ctx, &v, videoSelect+` WHERE v.id = ?`, id); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) CreateVideo(ctx context.Context, v *Video) error {
	v.ID = uuid.NewString()
	v.CreatedAt = db.Now()
	_, err := s.db.Exec(ctx, `INSERT INTO videos
		(id, title, teacher_name, stream, class_level, subject, topic, video_url, duration, difficulty, description, tags, uploaded_by, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Title, v.TeacherName, v.Stream, v.ClassLevel, v.Subject, v.Topic, v.VideoURL, v.Duration, v.Difficulty, v.Description, v.Tags, v.UploadedBy, v.Status, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	return nil
}

// ---- quizzes ----

const quizSelect = `SELECT q.*, u.full_name AS creator_name FROM quizzes q LEFT JOIN users u ON u.id = q.created_by`

func (s *Store) ListQuizzes(ctx context.Context, f Filter) ([]Quiz, error) {
	w := buildWhere("q", f, "title")
	out := []Quiz{}
	if err := s.db.Select(ctx, &out, quizSelect+w.sql+` ORDER BY q.created_at DESC`, w.args...); err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].decode(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) GetQuiz(ctx context.Context, id string) (*Quiz, error) {
	var q Quiz
	if err := s.db.Get(ctx, &q, quizSelect+` WHERE q.id = ?`, id); err != nil {
		return nil, err
	}
	if err := q.decode(); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Store) CreateQuiz(ctx context.Context, q *Quiz) error {
	raw, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	q.ID = uuid.NewString()
	q.CreatedAt = db.Now()
	q.QuestionsRaw = string(raw)
	_, err = s.db.Exec(ctx, `INSERT INTO quizzes
		(id, title, stream, class_level, subject, topic, difficulty, questions, created_by, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Title, q.Stream, q.ClassLevel, q.Subject, q.Topic, q.Difficulty, q.QuestionsRaw, q.CreatedBy, q.Status, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}
	return nil
}

// ---- verification ----

type Verification struct {
	Kind       Kind
	ID         string
	Action     string
	VerifiedBy string
	Comments   *string
}

// Verify moves an item to the status implied by the action and appends an
// audit entry, both in one transaction. It returns the new status.
func (s *Store) Verify(ctx context.Context, v Verification) (string, error) {
	table, ok := v.Kind.table()
	if !ok {
		return "", ErrUnknownKind
	}
	status, ok := ActionStatus[v.Action]
	if !ok {
		return "", ErrBadAction
	}
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		res, err := q.Exec(ctx,
			`UPDATE `+table+` SET status = ?, verified_by = ?, verified_at = ? WHERE id = ?`,
			status, v.VerifiedBy, db.Now(), v.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return s.log.Append(ctx, q, &audit.Entry{
			ContentType: string(v.Kind),
			ContentID:   v.ID,
			Action:      v.Action,
			VerifiedBy:  v.VerifiedBy,
			Comments:    v.Comments,
		})
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// Count reports how many books, videos and quizzes exist in any status.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.Get(ctx, &n,
		`SELECT (SELECT COUNT(*) FROM books) + (SELECT COUNT(*) FROM videos) + (SELECT COUNT(*) FROM quizzes)`)
	return n, err
}

// ---- metadata ----

// Subjects lists distinct subjects of approved books.
func (s *Store) Subjects(ctx context.Context, stream string, classLevel *int) ([]string, error) {
	w := buildWhere("b", Filter{Stream: stream, ClassLevel: classLevel})
	out := []string{}
	if err := s.db.Select(ctx, &out, `SELECT DISTINCT b.subject FROM books b`+w.sql, w.args...); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// Topics lists distinct topics of approved books for one subject.
func (s *Store) Topics(ctx context.Context, subject, stream string, classLevel *int) ([]string, error) {
	w := buildWhere("b", Filter{Subject: subject, Stream: stream, ClassLevel: classLevel})
	out := []string{}
	if err := s.db.Select(ctx, &out, `SELECT DISTINCT b.topic FROM books b`+w.sql, w.args...); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
