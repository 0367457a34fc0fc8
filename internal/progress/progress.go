package progress

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/aitutor/tutor-api/internal/db"
)

var ErrNotFound = db.ErrNotFound

type TopicProgress struct {
	ID           string  `db:"id" json:"id"`
	UserID       string  `db:"user_id" json:"user_id"`
	Stream       string  `db:"stream" json:"stream"`
	ClassLevel   int     `db:"class_level" json:"class_level"`
	Subject      string  `db:"subject" json:"subject"`
	Topic        string  `db:"topic" json:"topic"`
	MasteryLevel float64 `db:"mastery_level" json:"mastery_level"`
	TimeSpent    int     `db:"time_spent" json:"time_spent"`
	QuizAttempts int     `db:"quiz_attempts" json:"quiz_attempts"`
	AverageScore float64 `db:"average_score" json:"average_score"`
	LastAccessed string  `db:"last_accessed" json:"last_accessed"`
}

type Attempt struct {
	ID          string  `db:"id" json:"id"`
	QuizID      string  `db:"quiz_id" json:"quiz_id"`
	UserID      string  `db:"user_id" json:"user_id"`
	Answers     string  `db:"answers" json:"-"`
	Score       float64 `db:"score" json:"score"`
	CompletedAt string  `db:"completed_at" json:"completed_at"`
}

// AttemptInput carries a graded submission and the quiz's curriculum tags.
type AttemptInput struct {
	UserID     string
	QuizID     string
	Stream     string
	ClassLevel int
	Subject    string
	Topic      string
	Answers    []*int
	Score      float64
}

type Store struct{ db db.Adapter }

func NewStore(a db.Adapter) *Store { return &Store{db: a} }

// The update side folds the new score into the running average against the
// row's current values, so concurrent submissions cannot lose an update.
const upsertProgress = `
INSERT INTO topic_progress
  (id, user_id, stream, class_level, subject, topic, mastery_level, time_spent, quiz_attempts, average_score, last_accessed)
VALUES (?, ?, ?, ?, ?, ?, ?, 0, 1, ?, ?)
ON CONFLICT (user_id, subject, topic) DO UPDATE SET
  average_score = (topic_progress.average_score * topic_progress.quiz_attempts + excluded.average_score) / (topic_progress.quiz_attempts + 1),
  mastery_level = CASE
    WHEN (topic_progress.average_score * topic_progress.quiz_attempts + excluded.average_score) / (topic_progress.quiz_attempts + 1) > 100 THEN 100
    ELSE (topic_progress.average_score * topic_progress.quiz_attempts + excluded.average_score) / (topic_progress.quiz_attempts + 1)
  END,
  quiz_attempts = topic_progress.quiz_attempts + 1,
  last_accessed = excluded.last_accessed`

// RecordAttempt stores the attempt and updates topic progress in one
// transaction and returns the attempt id.
func (s *Store) RecordAttempt(ctx context.Context, in AttemptInput) (string, error) {
	answers, err := json.Marshal(in.Answers)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	now := db.Now()
	mastery := in.Score
	if mastery > 100 {
		mastery = 100
	}
	err = s.db.WithTx(ctx, func(q db.Querier) error {
		if _, err := q.Exec(ctx,
			`INSERT INTO quiz_attempts (id, quiz_id, user_id, answers, score, completed_at) VALUES (?, ?, ?, ?, ?, ?)`,
			id, in.QuizID, in.UserID, string(answers), in.Score, now); err != nil {
			return err
		}
		_, err := q.Exec(ctx, upsertProgress,
			uuid.NewString(), in.UserID, in.Stream, in.ClassLevel, in.Subject, in.Topic, mastery, in.Score, now)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("record attempt: %w", err)
	}
	return id, nil
}

const progressCols = `id, user_id, stream, class_level, subject, topic, mastery_level, time_spent, quiz_attempts, average_score, last_accessed`

// List returns the user's progress, most recently touched first.
func (s *Store) List(ctx context.Context, userID string) ([]TopicProgress, error) {
	out := []TopicProgress{}
	err := s.db.Select(ctx, &out,
		`SELECT `+progressCols+` FROM topic_progress WHERE user_id = ? ORDER BY last_accessed DESC`, userID)
	return out, err
}

func (s *Store) BySubject(ctx context.Context, userID, subject string) ([]TopicProgress, error) {
	out := []TopicProgress{}
	err := s.db.Select(ctx, &out,
		`SELECT `+progressCols+` FROM topic_progress WHERE user_id = ? AND subject = ? ORDER BY topic`, userID, subject)
	return out, err
}

func (s *Store) Get(ctx context.Context, userID, subject, topic string) (*TopicProgress, error) {
	var p TopicProgress
	err := s.db.Get(ctx, &p,
		`SELECT `+progressCols+` FROM topic_progress WHERE user_id = ? AND subject = ? AND topic = ?`, userID, subject, topic)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AddTime adds study seconds to an existing progress row.
func (s *Store) AddTime(ctx context.Context, userID, subject, topic string, seconds int) error {
	res, err := s.db.Exec(ctx,
		`UPDATE topic_progress SET time_spent = time_spent + ?, last_accessed = ? WHERE user_id = ? AND subject = ? AND topic = ?`,
		seconds, db.Now(), userID, subject, topic)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Attempts lists the user's quiz attempts, newest first.
func (s *Store) Attempts(ctx context.Context, userID string) ([]Attempt, error) {
	out := []Attempt{}
	err := s.db.Select(ctx, &out,
		`SELECT id, quiz_id, user_id, answers, score, completed_at FROM quiz_attempts WHERE user_id = ? ORDER BY completed_at DESC`, userID)
	return out, err
}
