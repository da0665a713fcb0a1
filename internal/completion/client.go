package completion

import (
	"context"
	"log/slog"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
)

// DefaultMaxRetries is the number of extra attempts after the first call fails.
const DefaultMaxRetries = 3

// Generator is a single, unretried call to a generative-text endpoint.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Policy bounds the retry loop around a Generator. MaxDelay is raised to
// InitialDelay when it is smaller.
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultPolicy retries 3 times with exponential delays of 1s, 2s, 4s.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: time.Second,
		MaxDelay:     8 * time.Second,
		Multiplier:   2,
	}
}

type Client struct {
	gen        Generator
	maxRetries int
	newBackOff func() backoff.BackOff
	logger     *slog.Logger
}

type Option func(*Client)

// WithBackOff overrides how the delay between attempts is computed.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(c *Client) {
		if factory != nil {
			c.newBackOff = factory
		}
	}
}

func New(gen Generator, policy Policy, logger *slog.Logger, opts ...Option) *Client {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	// a configured first delay above the ceiling raises the ceiling rather than being cut
	if policy.MaxDelay < policy.InitialDelay {
		policy.MaxDelay = policy.InitialDelay
	}
	c := &Client{
		gen:        gen,
		maxRetries: policy.MaxRetries,
		logger:     logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = policy.InitialDelay
			b.MaxInterval = policy.MaxDelay
			b.Multiplier = policy.Multiplier
			b.RandomizationFactor = 0
			b.MaxElapsedTime = 0
			b.Reset()
			return b
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxAttempts is the total number of Generate calls Complete may make.
func (c *Client) MaxAttempts() int {
	return c.maxRetries + 1
}

// Complete returns the model's completion for prompt.
// A blank prompt fails with InvalidArgument before any call. Invalid credentials
// are not retried. Any other failure is retried up to MaxRetries times, after
// which Complete fails with CompletionFailed wrapping the last error.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apperr.New(apperr.InvalidArgument, "complete", "prompt must be a non-empty string")
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.maxRetries)), ctx)

	var (
		text    string
		attempt int
	)
	op := func() error {
		attempt++
		out, err := c.gen.Generate(ctx, prompt)
		if err != nil {
			c.logger.Warn("completion attempt failed",
				"attempt", attempt,
				"max_attempts", c.MaxAttempts(),
				"kind", apperr.KindOf(err),
				"error", err,
			)
			if apperr.Is(err, apperr.InvalidCredential) {
				return backoff.Permanent(err)
			}
			return err
		}
		text = out
		return nil
	}

	if err := backoff.Retry(op, b); err != nil {
		c.logger.Error("completion failed", "attempts", attempt, "error", err)
		return "", apperr.Wrap(apperr.CompletionFailed, "complete", err)
	}

	c.logger.Debug("completion succeeded", "attempts", attempt, "response_len", len(text))
	return text, nil
}
