package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/aitutor/tutor-api/internal/llm"
	"github.com/aitutor/tutor-api/internal/logger"
)

var ErrTutorUnavailable = errors.New("chat: tutor unavailable")

const historyWindow = 20

type Request struct {
	Message     string
	SessionID   string
	Subject     string
	Topic       string
	ContextType string
}

type Reply struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type Tutor struct {
	store    *Store
	provider llm.Provider
	log      *logger.Logger
}

func NewTutor(store *Store, p llm.Provider, log *logger.Logger) *Tutor {
	if p == nil {
		p = llm.Unconfigured{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Tutor{store: store, provider: p, log: log}
}

// SystemPrompt picks the tutor persona for a conversation.
func SystemPrompt(contextType, subject string) string {
	switch contextType {
	case "summary":
		if subject == "" {
			subject = "various subjects"
		}
		return fmt.Sprintf("You are an expert AI tutor for %s. Provide clear, concise summaries of educational topics. "+
			"Focus on key concepts and make them easy to understand for students.", subject)
	case "doubt":
		if subject == "" {
			subject = "their subjects"
		}
		return fmt.Sprintf("You are an AI tutor helping students with doubts and questions about %s. "+
			"Provide detailed explanations with examples. Be patient, encouraging, and thorough.", subject)
	default:
		return "You are a helpful AI tutor. Assist students with their learning needs."
	}
}

// Ask stores the user's message, asks the provider with recent history and
// stores the reply. A session id that is unknown or owned by someone else
// starts a new session. On provider failure the user message stays stored
// and the returned Reply still carries the session id.
func (t *Tutor) Ask(ctx context.Context, userID string, req Request) (Reply, error) {
	sess, err := t.session(ctx, userID, req)
	if err != nil {
		return Reply{}, err
	}
	if _, err := t.store.AddMessage(ctx, sess.ID, RoleUser, req.Message); err != nil {
		return Reply{}, err
	}

	history, err := t.store.Recent(ctx, sess.ID, historyWindow)
	if err != nil {
		return Reply{}, err
	}
	subject := req.Subject
	if subject == "" && sess.Subject != nil {
		subject = *sess.Subject
	}
	ct := req.ContextType
	if ct == "" {
		ct = sess.ContextType
	}
	msgs := make([]llm.ChatMessage, 0, len(history)+1)
	msgs = append(msgs, llm.ChatMessage{Role: "system", Content: SystemPrompt(ct, subject)})
	for _, m := range history {
		msgs = append(msgs, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := t.provider.Chat(ctx, msgs, &llm.GenerateOptions{Temperature: 0.7})
	if err != nil {
		t.log.Warn("tutor provider failed", "provider", t.provider.Name(), "session_id", sess.ID, "error", err)
		return Reply{SessionID: sess.ID}, fmt.Errorf("%w: %v", ErrTutorUnavailable, err)
	}
	if _, err := t.store.AddMessage(ctx, sess.ID, RoleAssistant, resp.Content); err != nil {
		return Reply{}, err
	}
	return Reply{Response: resp.Content, SessionID: sess.ID}, nil
}

func (t *Tutor) session(ctx context.Context, userID string, req Request) (*Session, error) {
	if req.SessionID != "" {
		sess, err := t.store.GetSession(ctx, req.SessionID, userID)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	ct := req.ContextType
	if ct == "" {
		ct = "doubt"
	}
	sess := &Session{UserID: userID, Subject: optional(req.Subject), Topic: optional(req.Topic), ContextType: ct}
	if err := t.store.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
