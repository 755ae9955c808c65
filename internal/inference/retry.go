package inference

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// RetryPolicy bounds calls to the model. After a transient failure on
// attempt k (0-based) it waits BaseDelay*2^k plus Jitter before the next
// attempt; any other error ends the loop at once.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      func() time.Duration
}

func uniformSecond() time.Duration {
	return rand.N(time.Second)
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second, Jitter: uniformSecond}
}

// Delay is the wait after a transient failure on the given 0-based attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay << attempt
	if p.Jitter != nil {
		d += p.Jitter()
	}
	return d
}

func (p RetryPolicy) backoff() retry.Backoff {
	attempt := 0
	return retry.BackoffFunc(func() (time.Duration, bool) {
		if attempt+1 >= p.MaxAttempts {
			return 0, true
		}
		d := p.Delay(attempt)
		attempt++
		return d, false
	})
}

// Invoker wraps a Model with a RetryPolicy.
type Invoker struct {
	model  Model
	policy RetryPolicy
	logger *zap.Logger
}

func NewInvoker(model Model, policy RetryPolicy, logger *zap.Logger) *Invoker {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Invoker{model: model, policy: policy, logger: logger}
}

// Invoke returns the raw model text, or the last error once the retry
// budget is spent or a non-transient error occurs.
func (i *Invoker) Invoke(ctx context.Context, prompt string, image []byte) (string, error) {
	var text string
	attempt := 0
	err := retry.Do(ctx, i.policy.backoff(), func(ctx context.Context) error {
		attempt++
		out, err := i.model.Generate(ctx, prompt, image)
		if err != nil {
			if IsTransient(err) {
				i.logger.Warn("model call failed, may retry",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", i.policy.MaxAttempts),
					zap.Error(err))
				return retry.RetryableError(err)
			}
			return err
		}
		text = out
		return nil
	})
	if err != nil {
		return "", err
	}
	i.logger.Debug("model call succeeded", zap.Int("attempt", attempt))
	return text, nil
}
