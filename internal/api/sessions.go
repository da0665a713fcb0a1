package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
	"github.com/MikeSquared-Agency/knowji/internal/events"
	"github.com/MikeSquared-Agency/knowji/internal/learning"
)

type createdResponse struct {
	ID uuid.UUID `json:"id"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r.Context())

	var req learning.NewSession
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, "decode session", err)
		return
	}

	id, err := s.store.CreateSession(r.Context(), userID, req)
	if err != nil {
		s.fail(w, "create session", err)
		return
	}

	s.publish(events.SubjectSessionCreated, events.SessionEvent{
		SessionID:  id.String(),
		UserID:     userID,
		Title:      learning.DeriveTitle(req.Title, req.Summary),
		Flashcards: len(req.Flashcards),
	})
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.ListSessions(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.fail(w, "list sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, "get session", err)
		return
	}
	ls, err := s.ownedSession(r.Context(), id)
	if err != nil {
		s.fail(w, "get session", err)
		return
	}
	writeJSON(w, http.StatusOK, ls)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, "delete session", err)
		return
	}
	if _, err := s.ownedSession(r.Context(), id); err != nil {
		s.fail(w, "delete session", err)
		return
	}
	if err := s.store.DeleteSession(r.Context(), id); err != nil {
		s.fail(w, "delete session", err)
		return
	}

	s.publish(events.SubjectSessionDeleted, events.SessionEvent{
		SessionID: id.String(),
		UserID:    userFrom(r.Context()),
	})
	w.WriteHeader(http.StatusNoContent)
}

// ownedSession loads a session and hides other users' sessions as not found.
func (s *Server) ownedSession(ctx context.Context, id uuid.UUID) (*learning.LearningSession, error) {
	ls, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if ls == nil || ls.UserID != userFrom(ctx) {
		return nil, apperr.New(apperr.NotFound, "get session", "learning session not found: "+id.String())
	}
	return ls, nil
}
