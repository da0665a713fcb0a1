package completion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flakyGenerator fails until call number succeedOn, then returns reply.
type flakyGenerator struct {
	calls     int
	succeedOn int
	reply     string
	err       error
}

func (g *flakyGenerator) Generate(_ context.Context, _ string) (string, error) {
	g.calls++
	if g.succeedOn > 0 && g.calls >= g.succeedOn {
		return g.reply, nil
	}
	if g.err != nil {
		return "", g.err
	}
	return "", apperr.New(apperr.Transport, "api call", "connection reset")
}

func zeroDelay() Option {
	return WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} })
}

func TestComplete_FirstAttempt(t *testing.T) {
	gen := &flakyGenerator{succeedOn: 1, reply: "ok"}
	c := New(gen, DefaultPolicy(), discardLogger(), zeroDelay())

	out, err := c.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 1, gen.calls)
}

func TestComplete_SucceedsOnAttemptN(t *testing.T) {
	for n := 1; n <= DefaultMaxRetries+1; n++ {
		gen := &flakyGenerator{succeedOn: n, reply: "done"}
		c := New(gen, DefaultPolicy(), discardLogger(), zeroDelay())

		out, err := c.Complete(context.Background(), "prompt")
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, "done", out)
		assert.Equal(t, n, gen.calls, "attempts for n=%d", n)
	}
}

func TestComplete_ExhaustsRetries(t *testing.T) {
	gen := &flakyGenerator{}
	c := New(gen, DefaultPolicy(), discardLogger(), zeroDelay())

	out, err := c.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Equal(t, apperr.CompletionFailed, apperr.KindOf(err))
	assert.True(t, apperr.Is(err, apperr.Transport), "last error should be wrapped")
	assert.Equal(t, DefaultMaxRetries+1, gen.calls)
	assert.Equal(t, DefaultMaxRetries+1, c.MaxAttempts())
}

func TestComplete_CustomMaxRetries(t *testing.T) {
	gen := &flakyGenerator{}
	c := New(gen, Policy{MaxRetries: 1}, discardLogger(), zeroDelay())

	_, err := c.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, 2, gen.calls)
}

func TestComplete_EmptyPrompt(t *testing.T) {
	gen := &flakyGenerator{succeedOn: 1, reply: "never"}
	c := New(gen, DefaultPolicy(), discardLogger(), zeroDelay())

	for _, p := range []string{"", "   \n\t"} {
		_, err := c.Complete(context.Background(), p)
		require.Error(t, err)
		assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
	}
	assert.Zero(t, gen.calls, "no call should be made for a blank prompt")
}

func TestComplete_InvalidCredentialNotRetried(t *testing.T) {
	gen := &flakyGenerator{err: apperr.New(apperr.InvalidCredential, "api call", "API key not valid")}
	c := New(gen, DefaultPolicy(), discardLogger(), zeroDelay())

	_, err := c.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, apperr.CompletionFailed, apperr.KindOf(err))
	assert.True(t, apperr.Is(err, apperr.InvalidCredential))
	assert.Equal(t, 1, gen.calls)
}

func TestComplete_QuotaRetried(t *testing.T) {
	gen := &flakyGenerator{err: apperr.New(apperr.QuotaExceeded, "api call", "quota"), succeedOn: 3, reply: "ok"}
	c := New(gen, DefaultPolicy(), discardLogger(), zeroDelay())

	out, err := c.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, gen.calls)
}

func TestComplete_ContextCancelledDuringBackoff(t *testing.T) {
	gen := &flakyGenerator{}
	c := New(gen, Policy{MaxRetries: 3}, discardLogger(),
		WithBackOff(func() backoff.BackOff { return backoff.NewConstantBackOff(time.Hour) }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Complete(ctx, "prompt")
	require.Error(t, err)
	assert.Equal(t, apperr.CompletionFailed, apperr.KindOf(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 1, gen.calls)
}

func TestNew_InitialDelayAboveMaxDelay(t *testing.T) {
	policy := DefaultPolicy()
	policy.InitialDelay = 20 * time.Second

	c := New(&flakyGenerator{}, policy, discardLogger())
	b := c.newBackOff()

	assert.Equal(t, 20*time.Second, b.NextBackOff())
	assert.Equal(t, 20*time.Second, b.NextBackOff())
}

func TestNew_DefaultDelaysCapped(t *testing.T) {
	c := New(&flakyGenerator{}, DefaultPolicy(), discardLogger())
	b := c.newBackOff()

	var got []time.Duration
	for i := 0; i < 5; i++ {
		got = append(got, b.NextBackOff())
	}
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 8 * time.Second}, got)
}
