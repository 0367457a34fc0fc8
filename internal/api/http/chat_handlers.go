package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/aitutor/tutor-api/internal/auth/middleware"
	"github.com/aitutor/tutor-api/internal/chat"
)

type chatReq struct {
	Message     string `json:"message" validate:"notblank,max=8000"`
	SessionID   string `json:"session_id"`
	Subject     string `json:"subject"`
	Topic       string `json:"topic"`
	ContextType string `json:"context_type" validate:"omitempty,oneof=summary doubt general"`
}

// POST /api/chat
func ChatHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatReq
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if msg, ok := check(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		reply, err := d.Tutor.Ask(r.Context(), authmw.SubjectFromContext(r.Context()), chat.Request{
			Message:     strings.TrimSpace(req.Message),
			SessionID:   req.SessionID,
			Subject:     req.Subject,
			Topic:       req.Topic,
			ContextType: req.ContextType,
		})
		if errors.Is(err, chat.ErrTutorUnavailable) {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "tutor unavailable", "session_id": reply.SessionID})
			return
		}
		if err != nil {
			internalError(w, r, d.Log, "chat", err)
			return
		}
		writeJSON(w, http.StatusOK, reply)
	}
}

// GET /api/chat/sessions
func ListChatSessionsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		n := 50
		if limit != nil {
			n = *limit
		}
		sessions, err := d.Chats.ListSessions(r.Context(), authmw.SubjectFromContext(r.Context()), n)
		if err != nil {
			internalError(w, r, d.Log, "list chat sessions", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
	}
}

// GET /api/chat/sessions/{id}
func GetChatSessionHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := d.Chats.GetSession(r.Context(), chi.URLParam(r, "id"), authmw.SubjectFromContext(r.Context()))
		if errors.Is(err, chat.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		if err != nil {
			internalError(w, r, d.Log, "get chat session", err)
			return
		}
		msgs, err := d.Chats.Messages(r.Context(), sess.ID)
		if err != nil {
			internalError(w, r, d.Log, "chat messages", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"session": sess, "messages": msgs})
	}
}
