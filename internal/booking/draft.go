package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/inkstudio-ai/internal/appointments"
)

// Draft holds the answers collected so far.
type Draft struct {
	Name        string `json:"name,omitempty"`
	City        string `json:"city,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	TattooType  string `json:"tattoo_type,omitempty"`
}

// Progress is the booking part of a conversation.
type Progress struct {
	Stage Stage `json:"stage"`
	Draft Draft `json:"draft"`
}

// Validate is called before a draft becomes an appointment.
func (d Draft) Validate() error {
	var missing []string
	if d.Name == "" {
		missing = append(missing, "name")
	}
	if d.City == "" {
		missing = append(missing, "city")
	}
	if d.Description == "" {
		missing = append(missing, "description")
	}
	if d.TattooType == "" {
		missing = append(missing, "tattoo_type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteDraft, strings.Join(missing, ", "))
	}
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return fmt.Errorf("%w: %w", ErrIncompleteDraft, ErrInvalidDate)
	}
	return nil
}

// Request converts a validated draft into an appointment insert.
func (d Draft) Request() *appointments.CreateRequest {
	return &appointments.CreateRequest{
		Username:        d.Name,
		City:            d.City,
		Description:     d.Description,
		AppointmentDate: d.Date,
		TattooType:      d.TattooType,
	}
}
