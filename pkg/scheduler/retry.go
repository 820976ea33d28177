package scheduler

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for inline retry operations.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txhound_retries_total",
		Help: "Total number of inline retry attempts by error class",
	}, []string{"error_class"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "txhound_retry_backoff_seconds",
		Help:    "Backoff duration for inline retries by error class",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 3},
	}, []string{"error_class"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "txhound_retry_exhausted_total",
		Help: "Total number of tasks that exhausted their inline attempts by error class",
	}, []string{"error_class"})
)

// RetryConfig holds the backoff schedule for inline task retries.
type RetryConfig struct {
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration

	// DelayMultiplier grows the delay per attempt.
	DelayMultiplier float64
}

// retryConfigForClass returns the backoff schedule for an error class.
func retryConfigForClass(class ErrorClass) RetryConfig {
	switch class {
	case ErrorClassNavigation, ErrorClassTimeout:
		// Network aborts and timeouts correlate with rate limiting - longer cap
		return RetryConfig{
			InitialDelay:    500 * time.Millisecond,
			MaxDelay:        3000 * time.Millisecond,
			DelayMultiplier: 2.0,
		}
	default:
		// Content issues clear quickly or not at all - short cap
		return RetryConfig{
			InitialDelay:    250 * time.Millisecond,
			MaxDelay:        1000 * time.Millisecond,
			DelayMultiplier: 2.0,
		}
	}
}

// attemptWithRetry executes fn up to maxAttempts times with class-dependent
// increasing delay between attempts. It respects context cancellation and
// adds jitter so parallel slots do not retry in lockstep.
func attemptWithRetry(ctx context.Context, page int, maxAttempts int, logger zerolog.Logger, fn func(attempt int) ([]string, error)) ([]string, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		hashes, err := fn(attempt)
		if err == nil {
			if attempt > 1 {
				logger.Info().
					Int("page", page).
					Int("attempt", attempt).
					Msg("Page fetch succeeded after retry")
			}
			return hashes, nil
		}

		lastErr = err
		class := classifyFetchErr(err)

		if !shouldRetry(class) {
			return nil, lastErr
		}

		// If this was the last attempt, don't wait
		if attempt >= maxAttempts {
			break
		}

		retriesTotal.WithLabelValues(string(class)).Inc()

		config := retryConfigForClass(class)
		delay := time.Duration(float64(config.InitialDelay) * math.Pow(config.DelayMultiplier, float64(attempt-1)))

		// Jitter (±20%), then clamp so the class cap holds
		delay = time.Duration(float64(delay) * (0.8 + rand.Float64()*0.4))
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
		retryBackoffSeconds.WithLabelValues(string(class)).Observe(delay.Seconds())

		logger.Debug().
			Int("page", page).
			Int("attempt", attempt).
			Str("error_class", string(class)).
			Dur("backoff", delay).
			Msg("Retrying page after backoff")

		select {
		case <-ctx.Done():
			logger.Warn().
				Int("page", page).
				Int("attempt", attempt).
				Msg("Context cancelled during retry backoff")
			return nil, fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(delay):
			// Continue to next attempt
		}
	}

	class := classifyFetchErr(lastErr)
	retryExhaustedTotal.WithLabelValues(string(class)).Inc()
	logger.Warn().
		Int("page", page).
		Int("max_attempts", maxAttempts).
		Str("error_class", string(class)).
		Msg("Inline attempts exhausted")

	// Both errors stay unwrappable so callers can match the sentinel and
	// still classify the cause.
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, maxAttempts, lastErr)
}
