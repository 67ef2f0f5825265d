package bgg

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/logger"
	"github.com/MrSnakeDoc/bgr/internal/metrics"
)

// Retry defaults.
const (
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 2 * time.Second
)

// RetryPolicy retries a remote call with a fixed delay and no jitter.
// A 404 stops the loop and is reported as an empty result.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy is three attempts two seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: DefaultRetryAttempts, Delay: DefaultRetryDelay}
}

// Do runs op until it succeeds, fails permanently or the attempts are exhausted.
// It returns (nil, nil) when the remote answered 404.
func (p RetryPolicy) Do(ctx context.Context, endpoint string, log logger.Logger, op func(context.Context) ([]byte, error)) ([]byte, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(attempts-1)),
		ctx,
	)

	attempt := 0
	body, err := backoff.RetryNotifyWithData(func() ([]byte, error) {
		attempt++
		body, err := op(ctx)
		if err != nil && !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		return body, err
	}, b, func(err error, next time.Duration) {
		metrics.RemoteRetries.WithLabelValues(endpoint).Inc()
		log.Warn("remote catalog call failed, retrying",
			logger.String("endpoint", endpoint),
			logger.Int("attempt", attempt),
			logger.Int("max_attempts", attempts),
			logger.Duration("next_in", next),
			logger.Error(err),
		)
	})

	var remote *domain.RemoteAPIError
	if errors.As(err, &remote) && remote.NotFound() {
		return nil, nil
	}
	return body, err
}

func retryable(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	var remote *domain.RemoteAPIError
	if errors.As(err, &remote) {
		return !remote.NotFound()
	}
	return false
}
