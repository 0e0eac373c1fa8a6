package appointments

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// RetryingRepository retries failed inserts with exponential backoff.
// Validation failures and cancelled contexts are returned immediately.
type RetryingRepository struct {
	next     Repository
	attempts int
	backoff  time.Duration
	logger   *logging.Logger
}

// NewRetryingRepository wraps next. attempts below 1 mean a single try.
func NewRetryingRepository(next Repository, attempts int, backoff time.Duration, logger *logging.Logger) *RetryingRepository {
	if attempts < 1 {
		attempts = 1
	}
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RetryingRepository{next: next, attempts: attempts, backoff: backoff, logger: logger}
}

// Create inserts through the wrapped repository, retrying transient failures.
func (r *RetryingRepository) Create(ctx context.Context, req *CreateRequest) (*Appointment, error) {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		appt, err := r.next.Create(ctx, req)
		if err == nil {
			return appt, nil
		}
		if !shouldRetry(err) {
			return nil, err
		}
		lastErr = err
		if attempt == r.attempts-1 {
			break
		}
		r.logger.Warn("appointment insert retry", "attempt", attempt+1, "error", err)
		if sleepErr := r.sleep(ctx, attempt); sleepErr != nil {
			return nil, sleepErr
		}
	}
	return nil, lastErr
}

// List is passed through without retries.
func (r *RetryingRepository) List(ctx context.Context) ([]Appointment, error) {
	return r.next.List(ctx)
}

func (r *RetryingRepository) sleep(ctx context.Context, attempt int) error {
	delay := r.backoff * time.Duration(1<<attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func shouldRetry(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidDate):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
