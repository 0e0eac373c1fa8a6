package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 5, 0, time.UTC)
}

func TestCreateRequestValidate(t *testing.T) {
	valid := &CreateRequest{Username: "Alex", City: "Paris", Description: "rose", AppointmentDate: "2030-01-02"}
	assert.NoError(t, valid.Validate())

	for _, date := range []string{"", "2030-1-2", "02/01/2030", "2030-13-01", "tomorrow"} {
		req := &CreateRequest{Username: "Alex", City: "Paris", Description: "rose", AppointmentDate: date}
		assert.ErrorIs(t, req.Validate(), ErrInvalidDate, date)
	}
}

func TestCreateRequestRequiresTextFields(t *testing.T) {
	err := (&CreateRequest{Username: "Alex", City: "  ", AppointmentDate: "2030-01-02"}).Validate()
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "city, description")
	assert.NotContains(t, err.Error(), "username")

	// Missing fields are reported ahead of a bad date.
	err = (&CreateRequest{Username: "Alex", City: "Paris", Description: "rose", AppointmentDate: "nope"}).Validate()
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestInMemoryRepositoryOrdersByDateDesc(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.now = fixedClock
	ctx := context.Background()

	for _, date := range []string{"2030-01-02", "2031-06-01", "2030-05-05"} {
		_, err := repo.Create(ctx, &CreateRequest{Username: "u-" + date, City: "Paris", Description: "rose", AppointmentDate: date, TattooType: "custom"})
		require.NoError(t, err)
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "2031-06-01", items[0].AppointmentDate)
	assert.Equal(t, "2030-05-05", items[1].AppointmentDate)
	assert.Equal(t, "2030-01-02", items[2].AppointmentDate)
	assert.Equal(t, "2026-03-14 09:30:05", items[0].CreatedAt)
	assert.Empty(t, items[0].TattooType)
}

func TestInMemoryRepositoryRejectsBadDate(t *testing.T) {
	repo := NewInMemoryRepository()
	_, err := repo.Create(context.Background(), &CreateRequest{Username: "Alex", City: "Paris", Description: "rose", AppointmentDate: "nope"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}
