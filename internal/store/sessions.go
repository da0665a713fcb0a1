package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
	"github.com/MikeSquared-Agency/knowji/internal/learning"
)

const sessionColumns = `id, user_id, title, summary, insights, action_steps, flashcards, created_at`

// CreateSession inserts a learning session. The title falls back to the first summary line
// and created_at is stamped by the database.
func (s *Store) CreateSession(ctx context.Context, userID string, in learning.NewSession) (uuid.UUID, error) {
	cards := in.Flashcards
	if cards == nil {
		cards = []learning.Flashcard{}
	}
	flashcards, err := json.Marshal(cards)
	if err != nil {
		return uuid.Nil, persistErr("marshal flashcards", err)
	}

	id := uuid.New()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO learning_sessions (id, user_id, title, summary, insights, action_steps, flashcards, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		id, userID, learning.DeriveTitle(in.Title, in.Summary),
		nonNil(in.Summary), nonNil(in.Insights), nonNil(in.ActionSteps), flashcards,
	)
	if err != nil {
		return uuid.Nil, persistErr("insert learning session", err)
	}
	return id, nil
}

// ListSessions returns a user's sessions, newest first.
func (s *Store) ListSessions(ctx context.Context, userID string) ([]learning.LearningSession, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM learning_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, persistErr("query learning sessions", err)
	}
	defer rows.Close()

	sessions := []learning.LearningSession{}
	for rows.Next() {
		ls, err := scanSession(rows)
		if err != nil {
			return nil, persistErr("scan learning session", err)
		}
		sessions = append(sessions, *ls)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate learning sessions", err)
	}
	return sessions, nil
}

// GetSession returns the session with the given id, or nil if there is none.
func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (*learning.LearningSession, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM learning_sessions WHERE id = $1`, id)
	ls, err := scanSession(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, persistErr("get learning session", err)
	}
	return ls, nil
}

// DeleteSession removes a session. Deleting an unknown id is a NotFound error.
func (s *Store) DeleteSession(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM learning_sessions WHERE id = $1`, id)
	if err != nil {
		return persistErr("delete learning session", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "delete learning session", "learning session not found: "+id.String())
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*learning.LearningSession, error) {
	var (
		ls    learning.LearningSession
		cards []byte
	)
	if err := row.Scan(&ls.ID, &ls.UserID, &ls.Title, &ls.Summary, &ls.Insights, &ls.ActionSteps, &cards, &ls.CreatedAt); err != nil {
		return nil, err
	}
	ls.Flashcards = []learning.Flashcard{}
	if len(cards) > 0 {
		if err := json.Unmarshal(cards, &ls.Flashcards); err != nil {
			return nil, err
		}
	}
	return &ls, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
