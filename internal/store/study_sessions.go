package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/knowji/internal/learning"
)

// AddStudySession records a review sitting. A zero Date is stamped with now() by the database.
func (s *Store) AddStudySession(ctx context.Context, ss learning.StudySession) (uuid.UUID, error) {
	var date *time.Time
	if !ss.Date.IsZero() {
		date = &ss.Date
	}

	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO study_sessions (id, user_id, session_id, date, duration_seconds, cards_reviewed, cards_correct)
		VALUES ($1, $2, $3, COALESCE($4, now()), $5, $6, $7)`,
		id, ss.UserID, ss.SessionID, date, ss.DurationSeconds, ss.CardsReviewed, ss.CardsCorrect,
	)
	if err != nil {
		return uuid.Nil, persistErr("insert study session", err)
	}
	return id, nil
}

// ListStudySessions returns a user's study sessions, most recent date first.
func (s *Store) ListStudySessions(ctx context.Context, userID string) ([]learning.StudySession, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, session_id, date, duration_seconds, cards_reviewed, cards_correct
		FROM study_sessions
		WHERE user_id = $1
		ORDER BY date DESC`, userID)
	if err != nil {
		return nil, persistErr("query study sessions", err)
	}
	defer rows.Close()

	out := []learning.StudySession{}
	for rows.Next() {
		var ss learning.StudySession
		if err := rows.Scan(&ss.ID, &ss.UserID, &ss.SessionID, &ss.Date, &ss.DurationSeconds, &ss.CardsReviewed, &ss.CardsCorrect); err != nil {
			return nil, persistErr("scan study session", err)
		}
		out = append(out, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate study sessions", err)
	}
	return out, nil
}
