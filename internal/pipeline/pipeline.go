package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
	"github.com/MikeSquared-Agency/knowji/internal/content"
	"github.com/MikeSquared-Agency/knowji/internal/events"
	"github.com/MikeSquared-Agency/knowji/internal/learning"
	"github.com/MikeSquared-Agency/knowji/internal/prompts"
)

type Normalizer interface {
	Normalize(ctx context.Context, in content.Input) (string, error)
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Publisher is the optional event sink; nil disables events.
type Publisher interface {
	Publish(subject string, data any) error
}

// Pipeline turns submitted content into a summary, insights and flashcards.
type Pipeline struct {
	normalizer Normalizer
	llm        Completer
	events     Publisher
	logger     *slog.Logger
}

func New(n Normalizer, llm Completer, events Publisher, logger *slog.Logger) *Pipeline {
	return &Pipeline{normalizer: n, llm: llm, events: events, logger: logger}
}

// ProcessContent runs normalize -> summary -> insights -> flashcards, strictly in order.
// A flashcard failure degrades to an empty set; any earlier failure aborts with ProcessingFailed.
func (p *Pipeline) ProcessContent(ctx context.Context, in content.Input) (*learning.SessionResult, error) {
	p.logger.Info("processing content", "kind", in.Kind)

	text, err := p.normalizer.Normalize(ctx, in)
	if err != nil {
		p.logger.Error("normalize failed", "kind", in.Kind, "error", err)
		return nil, apperr.Wrap(apperr.ProcessingFailed, "normalize content", err)
	}

	summaryText, err := p.llm.Complete(ctx, prompts.Summary(text))
	if err != nil {
		p.logger.Error("summary failed", "error", err)
		return nil, apperr.Wrap(apperr.ProcessingFailed, "generate summary", err)
	}

	insightsText, err := p.llm.Complete(ctx, prompts.Insights(text))
	if err != nil {
		p.logger.Error("insights failed", "error", err)
		return nil, apperr.Wrap(apperr.ProcessingFailed, "generate insights", err)
	}

	result := &learning.SessionResult{
		Summary:    learning.SplitLines(summaryText),
		Insights:   learning.SplitLines(insightsText),
		Flashcards: p.flashcards(ctx, text),
	}

	p.logger.Info("content processed",
		"kind", in.Kind,
		"text_len", len(text),
		"summary", len(result.Summary),
		"insights", len(result.Insights),
		"flashcards", len(result.Flashcards),
	)

	if p.events != nil {
		if err := p.events.Publish(events.SubjectContentProcessed, events.ContentProcessed{
			Kind:       string(in.Kind),
			Summary:    len(result.Summary),
			Insights:   len(result.Insights),
			Flashcards: len(result.Flashcards),
		}); err != nil {
			p.logger.Warn("failed to publish content processed", "error", err)
		}
	}

	return result, nil
}

func (p *Pipeline) flashcards(ctx context.Context, text string) []learning.Flashcard {
	raw, err := p.llm.Complete(ctx, prompts.Flashcards(text))
	if err != nil {
		p.logger.Warn("flashcard generation failed, continuing without flashcards", "error", err)
		return []learning.Flashcard{}
	}
	cards, err := ParseFlashcards(raw)
	if err != nil {
		p.logger.Warn("failed to parse flashcard response, continuing without flashcards",
			"error", err,
			"raw", raw,
		)
		return []learning.Flashcard{}
	}
	return cards
}

// GenerateActionSteps asks for personalised steps. All three arguments are required.
func (p *Pipeline) GenerateActionSteps(ctx context.Context, summary, goal, habitStruggle string) ([]string, error) {
	params := []struct{ name, value string }{
		{"summary", summary},
		{"goal", goal},
		{"habit_struggle", habitStruggle},
	}
	for _, param := range params {
		if strings.TrimSpace(param.value) == "" {
			return nil, apperr.New(apperr.MissingParameter, "generate action steps", param.name+" is required")
		}
	}

	raw, err := p.llm.Complete(ctx, prompts.ActionSteps(summary, goal, habitStruggle))
	if err != nil {
		p.logger.Error("action step generation failed", "error", err)
		return nil, apperr.Wrap(apperr.ProcessingFailed, "generate action steps", err)
	}

	steps := learning.SplitLines(raw)
	p.logger.Info("action steps generated", "steps", len(steps))
	return steps, nil
}
