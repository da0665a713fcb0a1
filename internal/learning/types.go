package learning

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UntitledSession is the title used when no title is given and the summary is empty.
const UntitledSession = "Untitled Session"

// Flashcard is a single question/answer pair produced by the model.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SessionResult is the output of one pipeline run.
type SessionResult struct {
	Summary    []string    `json:"summary"`
	Insights   []string    `json:"insights"`
	Flashcards []Flashcard `json:"flashcards"`
}

// NewSession is the payload for saving a learning session.
type NewSession struct {
	Title       string      `json:"title,omitempty"`
	Summary     []string    `json:"summary"`
	Insights    []string    `json:"insights"`
	ActionSteps []string    `json:"action_steps"`
	Flashcards  []Flashcard `json:"flashcards"`
}

// LearningSession is a persisted session. CreatedAt is stamped by the database.
type LearningSession struct {
	ID          uuid.UUID   `json:"id"`
	UserID      string      `json:"user_id"`
	Title       string      `json:"title"`
	Summary     []string    `json:"summary"`
	Insights    []string    `json:"insights"`
	ActionSteps []string    `json:"action_steps"`
	Flashcards  []Flashcard `json:"flashcards"`
	CreatedAt   time.Time   `json:"created_at"`
}

// FlashcardRecord is a stand-alone flashcard saved for review.
type FlashcardRecord struct {
	ID        uuid.UUID  `json:"id"`
	UserID    string     `json:"user_id"`
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	Question  string     `json:"question"`
	Answer    string     `json:"answer"`
	CreatedAt time.Time  `json:"created_at"`
}

// StudySession records one flashcard review sitting.
type StudySession struct {
	ID              uuid.UUID  `json:"id"`
	UserID          string     `json:"user_id"`
	SessionID       *uuid.UUID `json:"session_id,omitempty"`
	Date            time.Time  `json:"date"`
	DurationSeconds int        `json:"duration_seconds"`
	CardsReviewed   int        `json:"cards_reviewed"`
	CardsCorrect    int        `json:"cards_correct"`
}

// DeriveTitle returns title if set, otherwise the first summary line, otherwise UntitledSession.
func DeriveTitle(title string, summary []string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	for _, line := range summary {
		if l := strings.TrimSpace(line); l != "" {
			return l
		}
	}
	return UntitledSession
}

// SplitLines splits model output on line breaks and drops blank lines.
func SplitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
