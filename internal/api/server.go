package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
	"github.com/MikeSquared-Agency/knowji/internal/content"
	"github.com/MikeSquared-Agency/knowji/internal/learning"
)

// UserHeader carries the caller's user id on every /api/v1 request.
const UserHeader = "X-User-ID"

// Processor runs content through the learning pipeline.
type Processor interface {
	ProcessContent(ctx context.Context, in content.Input) (*learning.SessionResult, error)
	GenerateActionSteps(ctx context.Context, summary, goal, habitStruggle string) ([]string, error)
}

// Store is the persistence the API reads and writes.
type Store interface {
	CreateSession(ctx context.Context, userID string, in learning.NewSession) (uuid.UUID, error)
	ListSessions(ctx context.Context, userID string) ([]learning.LearningSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*learning.LearningSession, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	AddFlashcard(ctx context.Context, card learning.FlashcardRecord) (uuid.UUID, error)
	ListFlashcards(ctx context.Context, userID string) ([]learning.FlashcardRecord, error)
	GetFlashcard(ctx context.Context, id uuid.UUID) (*learning.FlashcardRecord, error)
	UpdateFlashcard(ctx context.Context, id uuid.UUID, card learning.Flashcard) error
	DeleteFlashcard(ctx context.Context, id uuid.UUID) error

	AddStudySession(ctx context.Context, ss learning.StudySession) (uuid.UUID, error)
	ListStudySessions(ctx context.Context, userID string) ([]learning.StudySession, error)

	Ping(ctx context.Context) error
}

// Publisher is the optional event sink; nil disables events.
type Publisher interface {
	Publish(subject string, data any) error
}

type Server struct {
	router  *chi.Mux
	httpSrv *http.Server

	proc   Processor
	store  Store
	events Publisher
	logger *slog.Logger
}

func NewServer(port int, apiToken string, proc Processor, db Store, events Publisher, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		proc:   proc,
		store:  db,
		events: events,
		logger: logger,
	}
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.Get("/health", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Use(requireUser)

		r.Post("/process", s.process)
		r.Post("/action-steps", s.actionSteps)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Get("/", s.listSessions)
			r.Get("/{id}", s.getSession)
			r.Delete("/{id}", s.deleteSession)
		})

		r.Route("/flashcards", func(r chi.Router) {
			r.Post("/", s.addFlashcard)
			r.Get("/", s.listFlashcards)
			r.Get("/{id}", s.getFlashcard)
			r.Put("/{id}", s.updateFlashcard)
			r.Delete("/{id}", s.deleteFlashcard)
		})

		r.Post("/study-sessions", s.addStudySession)
		r.Get("/study-sessions", s.listStudySessions)
		r.Get("/dashboard", s.dashboard)
	})

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check: database unreachable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BearerAuthMiddleware rejects requests without the configured token. An empty token disables the check.
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		want := []byte("Bearer " + token)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get("Authorization"))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type ctxKey struct{}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserHeader))
		if userID == "" {
			writeError(w, apperr.New(apperr.MissingParameter, "authenticate", UserHeader+" header is required"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
	})
}

func userFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) publish(subject string, data any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(subject, data); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

// idParam parses the {id} path segment.
func idParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.New(apperr.InvalidArgument, "parse id", "invalid id: "+raw)
	}
	return id, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.InvalidArgument, "decode request", fmt.Errorf("invalid JSON: %w", err))
	}
	return nil
}
