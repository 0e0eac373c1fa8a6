// Package appointments persists confirmed tattoo appointments.
package appointments

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the only accepted appointment_date format.
	DateLayout = "2006-01-02"
	// CreatedAtLayout is how created_at is stored.
	CreatedAtLayout = "2006-01-02 15:04:05"
)

// Appointment is a stored booking. TattooType is carried for notifications
// and API responses but is not persisted.
type Appointment struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	City            string `json:"city"`
	Description     string `json:"description"`
	AppointmentDate string `json:"appointment_date"`
	TattooType      string `json:"tattoo_type,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// CreateRequest is the payload accepted by POST /appointments and by the
// chat booking flow.
type CreateRequest struct {
	Username        string `json:"username"`
	City            string `json:"city"`
	Description     string `json:"description"`
	AppointmentDate string `json:"appointment_date"`
	TattooType      string `json:"tattoo_type"`
}

// Validate requires username, city and description, then checks the
// appointment date. tattoo_type is optional.
func (r *CreateRequest) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"username", r.Username},
		{"city", r.City},
		{"description", r.Description},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	if _, err := time.Parse(DateLayout, r.AppointmentDate); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (r *CreateRequest) toAppointment(id int64, createdAt string) *Appointment {
	return &Appointment{
		ID:              id,
		Username:        r.Username,
		City:            r.City,
		Description:     r.Description,
		AppointmentDate: r.AppointmentDate,
		TattooType:      r.TattooType,
		CreatedAt:       createdAt,
	}
}

// Repository defines appointment storage. Records are append-only.
type Repository interface {
	Create(ctx context.Context, req *CreateRequest) (*Appointment, error)
	// List returns every appointment ordered by appointment_date descending.
	List(ctx context.Context) ([]Appointment, error)
}

// Notifier is told about each appointment after it is stored.
type Notifier interface {
	AppointmentConfirmed(ctx context.Context, appt *Appointment)
}

func formatCreatedAt(t time.Time) string {
	return t.Format(CreatedAtLayout)
}
