package retry

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
)

// RetryPolicy is used at startup only; request paths never retry store calls.
type RetryPolicy interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultConfig returns conservative defaults for backoff retries.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 5,
		BaseDelay:   250 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
	}
}

// ExponentialBackoff retries with exponential delay between attempts.
type ExponentialBackoff struct {
	config *Config
}

// NewExponentialBackoff applies defaults when config is nil.
func NewExponentialBackoff(config *Config) *ExponentialBackoff {
	if config == nil {
		config = DefaultConfig()
	}
	return &ExponentialBackoff{config: config}
}

func (eb *ExponentialBackoff) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= eb.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt == eb.config.MaxAttempts {
			break
		}

		if !isRetryable(err) {
			return err
		}

		timer := time.NewTimer(eb.calculateDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return &MaxRetriesExceededError{
		LastError:   lastErr,
		MaxAttempts: eb.config.MaxAttempts,
	}
}

func (eb *ExponentialBackoff) calculateDelay(attempt int) time.Duration {
	delay := float64(eb.config.BaseDelay) * math.Pow(eb.config.Multiplier, float64(attempt-1))
	if delay > float64(eb.config.MaxDelay) {
		delay = float64(eb.config.MaxDelay)
	}

	return time.Duration(delay)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"temporary failure",
		"the database system is starting up",
		"no such host",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}

// MaxRetriesExceededError indicates that all retry attempts were exhausted.
type MaxRetriesExceededError struct {
	LastError   error
	MaxAttempts int
}

func (e *MaxRetriesExceededError) Error() string {
	return "max retries exceeded"
}

func (e *MaxRetriesExceededError) Unwrap() error {
	return e.LastError
}

// IsMaxRetriesExceeded reports whether err is a MaxRetriesExceededError.
func IsMaxRetriesExceeded(err error) bool {
	var maxRetriesErr *MaxRetriesExceededError
	return errors.As(err, &maxRetriesErr)
}
