package chat

import (
	"context"

	"github.com/google/uuid"

	"github.com/aitutor/tutor-api/internal/db"
)

var ErrNotFound = db.ErrNotFound

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Session struct {
	ID          string  `db:"id" json:"id"`
	UserID      string  `db:"user_id" json:"user_id"`
	Subject     *string `db:"subject" json:"subject"`
	Topic       *string `db:"topic" json:"topic"`
	ContextType string  `db:"context_type" json:"context_type"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
	UpdatedAt   string  `db:"updated_at" json:"updated_at"`
	LastMessage *string `db:"last_message" json:"last_message,omitempty"`
}

type Message struct {
	ID        string `db:"id" json:"id"`
	SessionID string `db:"session_id" json:"session_id"`
	Role      string `db:"role" json:"role"`
	Content   string `db:"content" json:"content"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type Store struct{ db db.Adapter }

func NewStore(a db.Adapter) *Store { return &Store{db: a} }

func (s *Store) CreateSession(ctx context.Context, sess *Session) error {
	sess.ID = uuid.NewString()
	sess.CreatedAt = db.Now()
	sess.UpdatedAt = sess.CreatedAt
	_, err := s.db.Exec(ctx,
		`INSERT INTO chat_sessions (id, user_id, subject, topic, context_type, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.Subject, sess.Topic, sess.ContextType, sess.CreatedAt, sess.UpdatedAt)
	return err
}

// GetSession only finds sessions owned by userID.
func (s *Store) GetSession(ctx context.Context, id, userID string) (*Session, error) {
	var sess Session
	err := s.db.Get(ctx, &sess,
		`SELECT id, user_id, subject, topic, context_type, created_at, updated_at FROM chat_sessions WHERE id = ? AND user_id = ?`,
		id, userID)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// ListSessions returns up to limit sessions, most recently active first,
// each with a preview of its newest message.
func (s *Store) ListSessions(ctx context.Context, userID string, limit int) ([]Session, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	out := []Session{}
	err := s.db.Select(ctx, &out, `
SELECT cs.id, cs.user_id, cs.subject, cs.topic, cs.context_type, cs.created_at, cs.updated_at,
  (SELECT m.content FROM chat_messages m WHERE m.session_id = cs.id ORDER BY m.created_at DESC LIMIT 1) AS last_message
FROM chat_sessions cs
WHERE cs.user_id = ?
ORDER BY cs.updated_at DESC
LIMIT ?`, userID, limit)
	return out, err
}

// AddMessage appends to a session and bumps its updated_at.
func (s *Store) AddMessage(ctx context.Context, sessionID, role, content string) (*Message, error) {
	m := &Message{ID: uuid.NewString(), SessionID: sessionID, Role: role, Content: content, CreatedAt: db.Now()}
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		if _, err := q.Exec(ctx,
			`INSERT INTO chat_messages (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
			m.ID, m.SessionID, m.Role, m.Content, m.CreatedAt); err != nil {
			return err
		}
		_, err := q.Exec(ctx, `UPDATE chat_sessions SET updated_at = ? WHERE id = ?`, m.CreatedAt, sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Messages returns the whole conversation in order.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	out := []Message{}
	err := s.db.Select(ctx, &out,
		`SELECT id, session_id, role, content, created_at FROM chat_messages WHERE session_id = ? ORDER BY created_at ASC`, sessionID)
	return out, err
}

// Recent returns the last n messages in chronological order.
func (s *Store) Recent(ctx context.Context, sessionID string, n int) ([]Message, error) {
	out := []Message{}
	err := s.db.Select(ctx, &out, `
SELECT id, session_id, role, content, created_at FROM (
  SELECT id, session_id, role, content, created_at FROM chat_messages
  WHERE session_id = ? ORDER BY created_at DESC LIMIT ?
) recent ORDER BY created_at ASC`, sessionID, n)
	return out, err
}
