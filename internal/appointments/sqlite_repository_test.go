package appointments

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	repo.now = fixedClock
	return repo
}

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	repo := newTestSQLite(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &CreateRequest{
		Username:        "Alex",
		City:            "Paris",
		Description:     "small geometric design",
		AppointmentDate: "2030-01-02",
		TattooType:      "geometric",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "geometric", created.TattooType)

	_, err = repo.Create(ctx, &CreateRequest{Username: "Sam", City: "Lyon", Description: "koi", AppointmentDate: "2031-02-03"})
	require.NoError(t, err)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Sam", items[0].Username)
	assert.Equal(t, Appointment{
		ID:              1,
		Username:        "Alex",
		City:            "Paris",
		Description:     "small geometric design",
		AppointmentDate: "2030-01-02",
		CreatedAt:       "2026-03-14 09:30:05",
	}, items[1])
}

func TestSQLiteRepositoryListEmpty(t *testing.T) {
	items, err := newTestSQLite(t).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSQLiteRepositoryInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLiteRepositoryWithDB(db)
	repo.now = fixedClock

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs("Alex", "Paris", "rose", "2030-01-02", "2026-03-14 09:30:05").
		WillReturnError(errors.New("database is locked"))

	_, err = repo.Create(context.Background(), &CreateRequest{Username: "Alex", City: "Paris", Description: "rose", AppointmentDate: "2030-01-02"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepositoryListScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "username", "city", "description", "appointment_date", "created_at"}).
		AddRow(int64(4), "Alex", "Paris", "rose", "2030-01-02", "2026-03-14 09:30:05")
	mock.ExpectQuery("SELECT id, username, city, description, appointment_date, created_at FROM appointments").WillReturnRows(rows)

	items, err := NewSQLiteRepositoryWithDB(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(4), items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
