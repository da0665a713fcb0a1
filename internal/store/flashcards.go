package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
	"github.com/MikeSquared-Agency/knowji/internal/learning"
)

// AddFlashcard saves a stand-alone flashcard for review.
func (s *Store) AddFlashcard(ctx context.Context, card learning.FlashcardRecord) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO flashcards (id, user_id, session_id, question, answer, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`,
		id, card.UserID, card.SessionID, card.Question, card.Answer,
	)
	if err != nil {
		return uuid.Nil, persistErr("insert flashcard", err)
	}
	return id, nil
}

// ListFlashcards returns a user's flashcards, newest first.
func (s *Store) ListFlashcards(ctx context.Context, userID string) ([]learning.FlashcardRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, session_id, question, answer, created_at
		FROM flashcards
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, persistErr("query flashcards", err)
	}
	defer rows.Close()

	cards := []learning.FlashcardRecord{}
	for rows.Next() {
		var c learning.FlashcardRecord
		if err := rows.Scan(&c.ID, &c.UserID, &c.SessionID, &c.Question, &c.Answer, &c.CreatedAt); err != nil {
			return nil, persistErr("scan flashcard", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate flashcards", err)
	}
	return cards, nil
}

// GetFlashcard returns the flashcard with the given id, or nil if there is none.
func (s *Store) GetFlashcard(ctx context.Context, id uuid.UUID) (*learning.FlashcardRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, user_id, session_id, question, answer, created_at
		FROM flashcards WHERE id = $1`, id)

	var c learning.FlashcardRecord
	if err := row.Scan(&c.ID, &c.UserID, &c.SessionID, &c.Question, &c.Answer, &c.CreatedAt); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, persistErr("get flashcard", err)
	}
	return &c, nil
}

// UpdateFlashcard replaces the question and answer of a flashcard.
func (s *Store) UpdateFlashcard(ctx context.Context, id uuid.UUID, card learning.Flashcard) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE flashcards SET question = $1, answer = $2
		WHERE id = $3`,
		card.Question, card.Answer, id,
	)
	if err != nil {
		return persistErr("update flashcard", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "update flashcard", "flashcard not found: "+id.String())
	}
	return nil
}

func (s *Store) DeleteFlashcard(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM flashcards WHERE id = $1`, id)
	if err != nil {
		return persistErr("delete flashcard", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "delete flashcard", "flashcard not found: "+id.String())
	}
	return nil
}
