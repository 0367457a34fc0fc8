package assessment

import (
	"context"

	"github.com/google/uuid"

	"github.com/aitutor/tutor-api/internal/db"
)

var Levels = []string{"beginner", "intermediate", "expert"}

func ValidLevel(l string) bool {
	for _, v := range Levels {
		if v == l {
			return true
		}
	}
	return false
}

type SelfAssessment struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"user_id"`
	Subject   string `db:"subject" json:"subject"`
	Topic     string `db:"topic" json:"topic"`
	Level     string `db:"level" json:"level"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

type Store struct{ db db.Adapter }

func NewStore(a db.Adapter) *Store { return &Store{db: a} }

// Upsert keeps exactly one row per (user, subject, topic).
func (s *Store) Upsert(ctx context.Context, userID, subject, topic, level string) error {
	now := db.Now()
	_, err := s.db.Exec(ctx, `
INSERT INTO self_assessments (id, user_id, subject, topic, level, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, subject, topic) DO UPDATE SET
  level = excluded.level,
  updated_at = excluded.updated_at`,
		uuid.NewString(), userID, subject, topic, level, now, now)
	return err
}

func (s *Store) List(ctx context.Context, userID string) ([]SelfAssessment, error) {
	out := []SelfAssessment{}
	err := s.db.Select(ctx, &out,
		`SELECT id, user_id, subject, topic, level, created_at, updated_at FROM self_assessments WHERE user_id = ? ORDER BY subject, topic`, userID)
	return out, err
}
