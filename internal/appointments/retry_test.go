package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyRepository struct {
	failures int
	calls    int
	err      error
	inner    *InMemoryRepository
}

func (f *flakyRepository) Create(ctx context.Context, req *CreateRequest) (*Appointment, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.inner.Create(ctx, req)
}

func (f *flakyRepository) List(ctx context.Context) ([]Appointment, error) {
	return f.inner.List(ctx)
}

func TestRetryingRepositoryRecovers(t *testing.T) {
	flaky := &flakyRepository{failures: 2, err: errors.New("database is locked"), inner: NewInMemoryRepository()}
	repo := NewRetryingRepository(flaky, 3, time.Millisecond, nil)

	appt, err := repo.Create(context.Background(), &CreateRequest{Username: "Alex", City: "Paris", Description: "rose", AppointmentDate: "2030-01-02"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), appt.ID)
	assert.Equal(t, 3, flaky.calls)
}

func TestRetryingRepositoryGivesUp(t *testing.T) {
	flaky := &flakyRepository{failures: 5, err: errors.New("disk I/O error"), inner: NewInMemoryRepository()}
	repo := NewRetryingRepository(flaky, 3, time.Millisecond, nil)

	_, err := repo.Create(context.Background(), &CreateRequest{Username: "Alex", City: "Paris", Description: "rose", AppointmentDate: "2030-01-02"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.Equal(t, 3, flaky.calls)
}

func TestRetryingRepositoryDoesNotRetryValidation(t *testing.T) {
	flaky := &flakyRepository{inner: NewInMemoryRepository()}
	repo := NewRetryingRepository(flaky, 3, time.Millisecond, nil)

	_, err := repo.Create(context.Background(), &CreateRequest{Username: "Alex", City: "Paris", Description: "rose", AppointmentDate: "bad"})
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, 1, flaky.calls)
}

func TestRetryingRepositoryStopsOnCancel(t *testing.T) {
	flaky := &flakyRepository{failures: 5, err: errors.New("busy"), inner: NewInMemoryRepository()}
	repo := NewRetryingRepository(flaky, 5, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.Create(ctx, &CreateRequest{Username: "Alex", City: "Paris", Description: "rose", AppointmentDate: "2030-01-02"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, flaky.calls)
}
