package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
	"github.com/MikeSquared-Agency/knowji/internal/learning"
)

type flashcardRequest struct {
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	Question  string     `json:"question"`
	Answer    string     `json:"answer"`
}

func (req flashcardRequest) validate(op string) error {
	if strings.TrimSpace(req.Question) == "" {
		return apperr.New(apperr.MissingParameter, op, "question is required")
	}
	if strings.TrimSpace(req.Answer) == "" {
		return apperr.New(apperr.MissingParameter, op, "answer is required")
	}
	return nil
}

func (s *Server) addFlashcard(w http.ResponseWriter, r *http.Request) {
	var req flashcardRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, "decode flashcard", err)
		return
	}
	if err := req.validate("add flashcard"); err != nil {
		s.fail(w, "add flashcard", err)
		return
	}
	if req.SessionID != nil {
		if _, err := s.ownedSession(r.Context(), *req.SessionID); err != nil {
			s.fail(w, "add flashcard", err)
			return
		}
	}

	id, err := s.store.AddFlashcard(r.Context(), learning.FlashcardRecord{
		UserID:    userFrom(r.Context()),
		SessionID: req.SessionID,
		Question:  req.Question,
		Answer:    req.Answer,
	})
	if err != nil {
		s.fail(w, "add flashcard", err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) listFlashcards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.store.ListFlashcards(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.fail(w, "list flashcards", err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) getFlashcard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, "get flashcard", err)
		return
	}
	card, err := s.ownedFlashcard(r.Context(), id)
	if err != nil {
		s.fail(w, "get flashcard", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) updateFlashcard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, "update flashcard", err)
		return
	}
	var req flashcardRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, "decode flashcard", err)
		return
	}
	if err := req.validate("update flashcard"); err != nil {
		s.fail(w, "update flashcard", err)
		return
	}
	if _, err := s.ownedFlashcard(r.Context(), id); err != nil {
		s.fail(w, "update flashcard", err)
		return
	}

	if err := s.store.UpdateFlashcard(r.Context(), id, learning.Flashcard{Question: req.Question, Answer: req.Answer}); err != nil {
		s.fail(w, "update flashcard", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteFlashcard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, "delete flashcard", err)
		return
	}
	if _, err := s.ownedFlashcard(r.Context(), id); err != nil {
		s.fail(w, "delete flashcard", err)
		return
	}
	if err := s.store.DeleteFlashcard(r.Context(), id); err != nil {
		s.fail(w, "delete flashcard", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ownedFlashcard(ctx context.Context, id uuid.UUID) (*learning.FlashcardRecord, error) {
	card, err := s.store.GetFlashcard(ctx, id)
	if err != nil {
		return nil, err
	}
	if card == nil || card.UserID != userFrom(ctx) {
		return nil, apperr.New(apperr.NotFound, "get flashcard", "flashcard not found: "+id.String())
	}
	return card, nil
}
