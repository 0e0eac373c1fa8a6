package appointments

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("inkstudio.internal.appointments")

const (
	insertAppointmentSQL = `INSERT INTO appointments (username, city, description, appointment_date, created_at) VALUES (?, ?, ?, ?, ?)`
	listAppointmentsSQL  = `SELECT id, username, city, description, appointment_date, created_at FROM appointments ORDER BY appointment_date DESC, id DESC`
)

// SQLiteRepository stores appointments in a local SQLite file.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository opens (creating if needed) the database at dsn and
// ensures the appointments table exists.
func NewSQLiteRepository(dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("appointments: open sqlite: %w", err)
	}
	// Each connection to an in-memory database is a separate database.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	repo := &SQLiteRepository{db: db, now: time.Now}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("appointments: migrate sqlite: %w", err)
	}
	return repo, nil
}

// NewSQLiteRepositoryWithDB wraps an existing handle without migrating it.
func NewSQLiteRepositoryWithDB(db *sql.DB) *SQLiteRepository {
	if db == nil {
		panic("appointments: sql db required")
	}
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) migrate() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS appointments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		city TEXT NOT NULL,
		description TEXT NOT NULL,
		appointment_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	return err
}

// Create inserts one row.
func (r *SQLiteRepository) Create(ctx context.Context, req *CreateRequest) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.sqlite.create")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := formatCreatedAt(r.now())
	res, err := r.db.ExecContext(ctx, insertAppointmentSQL,
		req.Username,
		req.City,
		req.Description,
		req.AppointmentDate,
		createdAt,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("appointments: read insert id: %w", err)
	}
	span.SetAttributes(attribute.Int64("appointment.id", id))
	return req.toAppointment(id, createdAt), nil
}

// List returns all rows ordered by appointment_date descending.
func (r *SQLiteRepository) List(ctx context.Context) ([]Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.sqlite.list")
	defer span.End()

	rows, err := r.db.QueryContext(ctx, listAppointmentsSQL)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("appointments: list failed: %w", err)
	}
	defer rows.Close()

	out := []Appointment{}
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.Username, &a.City, &a.Description, &a.AppointmentDate, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate rows: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
