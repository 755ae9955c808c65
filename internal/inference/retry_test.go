package inference

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type reply struct {
	text string
	err  error
}

// scriptedModel answers with the scripted replies in order, repeating the
// last one once the script runs out.
type scriptedModel struct {
	mu      sync.Mutex
	replies []reply
	calls   int
	prompts []string
	images  [][]byte
}

func (m *scriptedModel) Generate(_ context.Context, prompt string, image []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := min(m.calls, len(m.replies)-1)
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.images = append(m.images, image)
	return m.replies[idx].text, m.replies[idx].err
}

func instantPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 0, Jitter: func() time.Duration { return 0 }}
}

var errUnavailable = &TransientError{StatusCode: 503, Err: errors.New("overloaded")}

func TestRetryPolicy_Delay(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second, Jitter: func() time.Duration { return 250 * time.Millisecond }}
	assert.Equal(t, 2250*time.Millisecond, p.Delay(0))
	assert.Equal(t, 4250*time.Millisecond, p.Delay(1))
	assert.Equal(t, 8250*time.Millisecond, p.Delay(2))
}

func TestDefaultRetryPolicy_JitterWithinOneSecond(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, 2*time.Second, p.BaseDelay)
	for i := 0; i < 100; i++ {
		d := p.Delay(0)
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.Less(t, d, 3*time.Second)
	}
}

func TestRetryPolicy_BackoffStopsAfterBudget(t *testing.T) {
	b := instantPolicy().backoff()
	_, stop := b.Next()
	assert.False(t, stop)
	_, stop = b.Next()
	assert.False(t, stop)
	_, stop = b.Next()
	assert.True(t, stop)
}

func TestInvoker_RetriesTransientThenSucceeds(t *testing.T) {
	m := &scriptedModel{replies: []reply{{err: errUnavailable}, {err: errUnavailable}, {text: "ok"}}}
	inv := NewInvoker(m, instantPolicy(), zaptest.NewLogger(t))

	text, err := inv.Invoke(context.Background(), "p", []byte{1})

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 3, m.calls)
}

func TestInvoker_GivesUpAfterThreeAttempts(t *testing.T) {
	m := &scriptedModel{replies: []reply{{err: errUnavailable}}}
	inv := NewInvoker(m, instantPolicy(), zaptest.NewLogger(t))

	_, err := inv.Invoke(context.Background(), "p", nil)

	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, 3, m.calls)
}

func TestInvoker_NonTransientIsNotRetried(t *testing.T) {
	m := &scriptedModel{replies: []reply{{err: errors.New("bad request")}, {text: "never"}}}
	inv := NewInvoker(m, instantPolicy(), zaptest.NewLogger(t))

	_, err := inv.Invoke(context.Background(), "p", nil)

	require.EqualError(t, err, "bad request")
	assert.Equal(t, 1, m.calls)
}

func TestInvoker_ContextCancelsBackoff(t *testing.T) {
	m := &scriptedModel{replies: []reply{{err: errUnavailable}}}
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Hour}
	inv := NewInvoker(m, p, zaptest.NewLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := inv.Invoke(ctx, "p", nil)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, m.calls)
}

func TestNewInvoker_ClampsAttempts(t *testing.T) {
	m := &scriptedModel{replies: []reply{{err: errUnavailable}}}
	inv := NewInvoker(m, RetryPolicy{}, zaptest.NewLogger(t))

	_, err := inv.Invoke(context.Background(), "p", nil)

	require.Error(t, err)
	assert.Equal(t, 1, m.calls)
}
