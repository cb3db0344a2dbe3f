package llm

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter.
//
// A question round is one long call under a caller deadline, so waits are
// capped at MaxWait (a provider's Retry-After included) and no wait is
// started that would end after the deadline. In that case the provider
// error is returned as is.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

// retryState tracks what has been retried within one Generate call.
type retryState struct {
	attempt        int
	invalidRetried bool
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	st := &retryState{}

	for {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if st.attempt == attempts-1 || !r.retryable(err, st) {
			return nil, err
		}

		wait := r.backoff(st.attempt, err)
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < wait {
			slog.Debug("not retrying LLM request past deadline", "attempt", st.attempt+1, "wait", wait, "err", err)
			return nil, err
		}
		slog.Debug("retrying LLM request", "attempt", st.attempt+1, "wait", wait, "err", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		st.attempt++
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable reports whether err is worth another attempt.
func (r *RetryProvider) retryable(err error, st *retryState) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// A truncated round fails the same way again.
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false
	}

	// Schema-invalid structured output gets one more try.
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if st.invalidRetried {
			return false
		}
		st.invalidRetried = true
		return true
	}

	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}
	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		return !unavail.Permanent()
	}

	// Network and unclassified errors.
	return true
}

// backoff computes the wait before the retry that follows attempt.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return r.capWait(float64(rl.RetryAfter))
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	wait += wait * r.config.Jitter * (2*rand.Float64() - 1)
	return r.capWait(wait)
}

func (r *RetryProvider) capWait(wait float64) time.Duration {
	if r.config.MaxWait > 0 && wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}
	return time.Duration(max(wait, 0))
}
