package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/knowji/internal/learning"
)

func TestParseFlashcards_PlainArray(t *testing.T) {
	cards, err := ParseFlashcards(`[{"question":"What is focus?","answer":"A trainable skill."},{"question":"Q2","answer":"A2"}]`)
	require.NoError(t, err)
	assert.Equal(t, []learning.Flashcard{
		{Question: "What is focus?", Answer: "A trainable skill."},
		{Question: "Q2", Answer: "A2"},
	}, cards)
}

func TestParseFlashcards_Fenced(t *testing.T) {
	raw := "```json\n[{\"question\": \"Q\", \"answer\": \"A\"}]\n```"
	cards, err := ParseFlashcards(raw)
	require.NoError(t, err)
	assert.Equal(t, []learning.Flashcard{{Question: "Q", Answer: "A"}}, cards)
}

func TestParseFlashcards_RejectsNearJSON(t *testing.T) {
	for _, raw := range []string{
		`[{"question": "Q", "answer": "A"},]`,
		`[{question: 'Q1', answer: 'A1'}`,
		`[{"question": "Q", "answer": "A"}`,
	} {
		cards, err := ParseFlashcards(raw)
		assert.Error(t, err, "input %q", raw)
		assert.Nil(t, cards, "input %q", raw)
	}
}

func TestParseFlashcards_RejectsNDJSON(t *testing.T) {
	raw := "{\"question\":\"Q1\",\"answer\":\"A1\"}\n{\"question\":\"Q2\",\"answer\":\"A2\"}"
	cards, err := ParseFlashcards(raw)
	assert.Error(t, err)
	assert.Nil(t, cards)
}

func TestParseFlashcards_RejectsSingleObject(t *testing.T) {
	cards, err := ParseFlashcards("```json\n{\"question\":\"Q\",\"answer\":\"A\"}\n```")
	assert.Error(t, err)
	assert.Nil(t, cards)
}

func TestParseFlashcards_DropsIncompleteCards(t *testing.T) {
	cards, err := ParseFlashcards(`[{"question":"Q","answer":""},{"question":"  ","answer":"A"},{"question":" Q3 ","answer":" A3 "}]`)
	require.NoError(t, err)
	assert.Equal(t, []learning.Flashcard{{Question: "Q3", Answer: "A3"}}, cards)
}

func TestParseFlashcards_NotAnArray(t *testing.T) {
	for _, raw := range []string{
		`{"question":"Q","answer":"A"}`,
		`"just a string"`,
		"",
		"```\n```",
	} {
		_, err := ParseFlashcards(raw)
		assert.Error(t, err, "input %q", raw)
	}
}
