package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/aitutor/tutor-api/internal/db"
)

// Entry is one append-only verification record.
type Entry struct {
	ID          string  `db:"id" json:"id"`
	ContentType string  `db:"content_type" json:"content_type"`
	ContentID   string  `db:"content_id" json:"content_id"`
	Action      string  `db:"action" json:"action"`
	VerifiedBy  string  `db:"verified_by" json:"verified_by"`
	Verifier    *string `db:"verifier_name" json:"verifier_name,omitempty"`
	Comments    *string `db:"comments" json:"comments"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
}

type Log struct{ db db.Adapter }

func NewLog(a db.Adapter) *Log { return &Log{db: a} }

// Append writes e through q so callers can include it in a transaction.
func (l *Log) Append(ctx context.Context, q db.Querier, e *Entry) error {
	if q == nil {
		q = l.db
	}
	e.ID = uuid.NewString()
	e.CreatedAt = db.Now()
	_, err := q.Exec(ctx,
		`INSERT INTO verification_history (id, content_type, content_id, action, verified_by, comments, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ContentType, e.ContentID, e.Action, e.VerifiedBy, e.Comments, e.CreatedAt)
	return err
}

type Filter struct {
	ContentType string
	ContentID   string
	Limit       int
}

// List returns entries newest first.
func (l *Log) List(ctx context.Context, f Filter) ([]Entry, error) {
	q := `SELECT h.id, h.content_type, h.content_id, h.action, h.verified_by, u.full_name AS verifier_name, h.comments, h.created_at
		FROM verification_history h LEFT JOIN users u ON u.id = h.verified_by WHERE 1=1`
	var args []any
	if f.ContentType != "" {
		q += ` AND h.content_type = ?`
		args = append(args, f.ContentType)
	}
	if f.ContentID != "" {
		q += ` AND h.content_id = ?`
		args = append(args, f.ContentID)
	}
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	q += ` ORDER BY h.created_at DESC LIMIT ?`
	args = append(args, limit)

	out := []Entry{}
	if err := l.db.Select(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}
