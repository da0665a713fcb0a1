package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
	"github.com/MikeSquared-Agency/knowji/internal/learning"
)

type studySessionRequest struct {
	SessionID       *uuid.UUID `json:"session_id,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	CardsReviewed   int        `json:"cards_reviewed"`
	CardsCorrect    int        `json:"cards_correct"`
}

func (req studySessionRequest) validate() error {
	const op = "add study session"
	if req.DurationSeconds < 0 || req.CardsReviewed < 0 || req.CardsCorrect < 0 {
		return apperr.New(apperr.InvalidArgument, op, "counts and duration must not be negative")
	}
	if req.CardsCorrect > req.CardsReviewed {
		return apperr.New(apperr.InvalidArgument, op, "cards_correct cannot exceed cards_reviewed")
	}
	return nil
}

// DashboardStats aggregates a user's review history.
type DashboardStats struct {
	TotalFlashcards    int     `json:"total_flashcards"`
	TotalStudySessions int     `json:"total_study_sessions"`
	StudySeconds       int     `json:"study_seconds"`
	CardsReviewed      int     `json:"cards_reviewed"`
	CardsCorrect       int     `json:"cards_correct"`
	Accuracy           float64 `json:"accuracy"`
}

type dashboardResponse struct {
	Flashcards    []learning.FlashcardRecord `json:"flashcards"`
	StudySessions []learning.StudySession    `json:"study_sessions"`
	Stats         DashboardStats             `json:"stats"`
}

func (s *Server) addStudySession(w http.ResponseWriter, r *http.Request) {
	var req studySessionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, "decode study session", err)
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, "add study session", err)
		return
	}
	if req.SessionID != nil {
		if _, err := s.ownedSession(r.Context(), *req.SessionID); err != nil {
			s.fail(w, "add study session", err)
			return
		}
	}

	ss := learning.StudySession{
		UserID:          userFrom(r.Context()),
		SessionID:       req.SessionID,
		DurationSeconds: req.DurationSeconds,
		CardsReviewed:   req.CardsReviewed,
		CardsCorrect:    req.CardsCorrect,
	}
	if req.Date != nil {
		ss.Date = *req.Date
	}

	id, err := s.store.AddStudySession(r.Context(), ss)
	if err != nil {
		s.fail(w, "add study session", err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) listStudySessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListStudySessions(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.fail(w, "list study sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// dashboard handles GET /api/v1/dashboard, loading flashcards and study sessions concurrently.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r.Context())

	var (
		cards []learning.FlashcardRecord
		study []learning.StudySession
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		cards, err = s.store.ListFlashcards(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		study, err = s.store.ListStudySessions(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail(w, "load dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Flashcards:    cards,
		StudySessions: study,
		Stats:         summarize(cards, study),
	})
}

func summarize(cards []learning.FlashcardRecord, study []learning.StudySession) DashboardStats {
	st := DashboardStats{
		TotalFlashcards:    len(cards),
		TotalStudySessions: len(study),
	}
	for _, ss := range study {
		st.StudySeconds += ss.DurationSeconds
		st.CardsReviewed += ss.CardsReviewed
		st.CardsCorrect += ss.CardsCorrect
	}
	if st.CardsReviewed > 0 {
		st.Accuracy = float64(st.CardsCorrect) / float64(st.CardsReviewed)
	}
	return st
}
