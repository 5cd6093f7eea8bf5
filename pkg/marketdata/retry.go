package marketdata

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/steadyvest/steadyvest/pkg/errors"
)

// RetryPolicy bounds the retries wrapped around provider fetches.
// Retrying never happens inside the simulation itself.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries including the first.
	MaxAttempts uint64
	// InitialInterval is the first backoff delay.
	InitialInterval time.Duration
	// MaxInterval caps the exponential growth of delays.
	MaxInterval time.Duration
	// Multiplier scales the delay after each attempt.
	Multiplier float64
}

// DefaultRetryPolicy retries transient fetch failures three times with a
// short exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
	}
}

// Execute runs op under the policy. Non-retryable errors abort
// immediately; the last error is returned when attempts run out.
func (p RetryPolicy) Execute(ctx context.Context, op func() error) error {
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = p.InitialInterval
	exponential.MaxInterval = p.MaxInterval
	exponential.Multiplier = p.Multiplier

	retries := uint64(0)
	if p.MaxAttempts > 1 {
		retries = p.MaxAttempts - 1
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(exponential, retries), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return backoff.Permanent(err)
		}

		return err
	}, policy)
}

// isRetryable reports whether a fetch error is worth retrying. Rate
// limits go to the cooldown cache instead, and validation errors never
// heal on retry.
func isRetryable(err error) bool {
	return errors.HasCode(err, errors.ErrCodeMarketDataFetchFailed) ||
		errors.HasCode(err, errors.ErrCodeDataUnavailable)
}
