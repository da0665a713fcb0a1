package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
	"github.com/MikeSquared-Agency/knowji/internal/content"
	"github.com/MikeSquared-Agency/knowji/internal/learning"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeProcessor struct {
	lastInput content.Input
	result    *learning.SessionResult
	err       error
	steps     []string
}

func (f *fakeProcessor) ProcessContent(_ context.Context, in content.Input) (*learning.SessionResult, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeProcessor) GenerateActionSteps(_ context.Context, summary, goal, habitStruggle string) ([]string, error) {
	if summary == "" || goal == "" || habitStruggle == "" {
		return nil, apperr.New(apperr.MissingParameter, "generate action steps", "all fields are required")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.steps, nil
}

// memStore keeps everything in maps; list order is by insertion, newest first.
type memStore struct {
	mu       sync.Mutex
	seq      int
	sessions map[uuid.UUID]learning.LearningSession
	cards    map[uuid.UUID]learning.FlashcardRecord
	study    map[uuid.UUID]learning.StudySession
	order    map[uuid.UUID]int
	pingErr  error
	listErr  error
}

func newMemStore() *memStore {
	return &memStore{
		sessions: map[uuid.UUID]learning.LearningSession{},
		cards:    map[uuid.UUID]learning.FlashcardRecord{},
		study:    map[uuid.UUID]learning.StudySession{},
		order:    map[uuid.UUID]int{},
	}
}

func (m *memStore) next(id uuid.UUID) {
	m.seq++
	m.order[id] = m.seq
}

func newestFirst[T any](m *memStore, items map[uuid.UUID]T, keep func(T) bool) []T {
	ids := make([]uuid.UUID, 0, len(items))
	for id, v := range items {
		if keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return m.order[ids[i]] > m.order[ids[j]] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, items[id])
	}
	return out
}

func (m *memStore) CreateSession(_ context.Context, userID string, in learning.NewSession) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.sessions[id] = learning.LearningSession{
		ID:          id,
		UserID:      userID,
		Title:       learning.DeriveTitle(in.Title, in.Summary),
		Summary:     in.Summary,
		Insights:    in.Insights,
		ActionSteps: in.ActionSteps,
		Flashcards:  in.Flashcards,
	}
	m.next(id)
	return id, nil
}

func (m *memStore) ListSessions(_ context.Context, userID string) ([]learning.LearningSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return newestFirst(m, m.sessions, func(s learning.LearningSession) bool { return s.UserID == userID }), nil
}

func (m *memStore) GetSession(_ context.Context, id uuid.UUID) (*learning.LearningSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStore) DeleteSession(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return apperr.New(apperr.NotFound, "delete learning session", "not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *memStore) AddFlashcard(_ context.Context, card learning.FlashcardRecord) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	card.ID = uuid.New()
	m.cards[card.ID] = card
	m.next(card.ID)
	return card.ID, nil
}

func (m *memStore) ListFlashcards(_ context.Context, userID string) ([]learning.FlashcardRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return newestFirst(m, m.cards, func(c learning.FlashcardRecord) bool { return c.UserID == userID }), nil
}

func (m *memStore) GetFlashcard(_ context.Context, id uuid.UUID) (*learning.FlashcardRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memStore) UpdateFlashcard(_ context.Context, id uuid.UUID, card learning.Flashcard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return apperr.New(apperr.NotFound, "update flashcard", "not found")
	}
	c.Question, c.Answer = card.Question, card.Answer
	m.cards[id] = c
	return nil
}

func (m *memStore) DeleteFlashcard(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[id]; !ok {
		return apperr.New(apperr.NotFound, "delete flashcard", "not found")
	}
	delete(m.cards, id)
	return nil
}

func (m *memStore) AddStudySession(_ context.Context, ss learning.StudySession) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ss.ID = uuid.New()
	m.study[ss.ID] = ss
	m.next(ss.ID)
	return ss.ID, nil
}

func (m *memStore) ListStudySessions(_ context.Context, userID string) ([]learning.StudySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return newestFirst(m, m.study, func(s learning.StudySession) bool { return s.UserID == userID }), nil
}

func (m *memStore) Ping(context.Context) error {
	return m.pingErr
}

type published struct {
	subject string
	data    any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(subject string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{subject, data})
	return nil
}

var errDatabaseDown = apperr.Wrap(apperr.PersistenceError, "query", errors.New("connection refused"))
