package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

// pgxQuerier is the slice of *pgxpool.Pool the repository needs.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores appointments in Postgres. The schema lives in
// migrations/.
type PostgresRepository struct {
	db  pgxQuerier
	now func() time.Time
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db pgxQuerier) *PostgresRepository {
	if db == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: db, now: time.Now}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateRequest) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.postgres.create")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO appointments (username, city, description, appointment_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	createdAt := formatCreatedAt(r.now())
	var id int64
	if err := r.db.QueryRow(ctx, query,
		req.Username,
		req.City,
		req.Description,
		req.AppointmentDate,
		createdAt,
	).Scan(&id); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}
	span.SetAttributes(attribute.Int64("appointment.id", id))
	return req.toAppointment(id, createdAt), nil
}

// List returns all rows ordered by appointment_date descending.
func (r *PostgresRepository) List(ctx context.Context) ([]Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.postgres.list")
	defer span.End()

	query := `
		SELECT id, username, city, description, appointment_date, created_at
		FROM appointments
		ORDER BY appointment_date DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query)
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
