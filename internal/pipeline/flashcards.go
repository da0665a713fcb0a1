package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/knowji/internal/learning"
)

// ParseFlashcards decodes a model response that should be a JSON array of {question, answer}.
// Markdown fences are stripped; anything else that is not a JSON array is an error.
// Cards missing either field are dropped.
func ParseFlashcards(raw string) ([]learning.Flashcard, error) {
	body := stripFences(raw)
	if body == "" {
		return nil, fmt.Errorf("empty flashcard response")
	}

	var cards []learning.Flashcard
	if err := json.Unmarshal([]byte(body), &cards); err != nil {
		return nil, fmt.Errorf("parse flashcards: %w", err)
	}

	out := make([]learning.Flashcard, 0, len(cards))
	for _, c := range cards {
		q, a := strings.TrimSpace(c.Question), strings.TrimSpace(c.Answer)
		if q == "" || a == "" {
			continue
		}
		out = append(out, learning.Flashcard{Question: q, Answer: a})
	}
	return out, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the info string, e.g. ```json
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
