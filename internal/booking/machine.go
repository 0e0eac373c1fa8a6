package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/inkstudio-ai/internal/appointments"
	"github.com/wolfman30/inkstudio-ai/internal/catalog"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("inkstudio.internal.booking")

// AppointmentWriter persists finalized bookings.
type AppointmentWriter interface {
	Create(ctx context.Context, req *appointments.CreateRequest) (*appointments.Appointment, error)
}

// Outcome labels what a turn did, for logs and metrics.
type Outcome string

const (
	OutcomeStarted     Outcome = "started"
	OutcomeAdvanced    Outcome = "advanced"
	OutcomeInvalidDate Outcome = "invalid_date"
	OutcomePastDate    Outcome = "past_date"
	OutcomeConfirmed   Outcome = "confirmed"
	OutcomeSaveFailed  Outcome = "save_failed"
)

// Turn is the result of one booking step.
type Turn struct {
	Reply   string
	From    Stage
	To      Stage
	Outcome Outcome
	// Appointment is set only when Outcome is OutcomeConfirmed.
	Appointment *appointments.Appointment
	// Err carries the underlying cause of a rejected or failed step.
	Err error
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// WithNotifier registers a notifier told about every confirmed appointment.
func WithNotifier(n appointments.Notifier) Option {
	return func(m *Machine) {
		m.notifier = n
	}
}

// Machine advances a conversation's booking progress one answer at a time.
// It holds no per-conversation state; callers serialize access to Progress.
type Machine struct {
	catalog  *catalog.Catalog
	store    AppointmentWriter
	notifier appointments.Notifier
	now      func() time.Time
	logger   *logging.Logger
}

// NewMachine creates a booking machine.
func NewMachine(cat *catalog.Catalog, store AppointmentWriter, logger *logging.Logger, opts ...Option) *Machine {
	if cat == nil {
		panic("booking: catalog required")
	}
	if store == nil {
		panic("booking: appointment store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	m := &Machine{
		catalog: cat,
		store:   store,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins a fresh booking, discarding any earlier draft.
func (m *Machine) Start(p *Progress) Turn {
	from := p.Stage
	p.Stage = StageName
	p.Draft = Draft{}
	return Turn{Reply: PromptName, From: from, To: StageName, Outcome: OutcomeStarted}
}

// Advance consumes one answer. It returns an error only when p is not
// waiting for an answer; every user-facing failure is reported in the Turn.
func (m *Machine) Advance(ctx context.Context, message string, p *Progress) (Turn, error) {
	from := p.Stage
	turn := Turn{From: from, Outcome: OutcomeAdvanced}

	switch from {
	case StageName:
		p.Draft.Name = message
		p.Stage = StageCity
		turn.Reply = promptCity(message)
	case StageCity:
		p.Draft.City = message
		p.Stage = StageDescription
		turn.Reply = PromptDescription
	case StageDescription:
		p.Draft.Description = message
		p.Stage = StageDate
		turn.Reply = PromptDate
	case StageDate:
		return m.finalize(ctx, message, p), nil
	default:
		return Turn{}, fmt.Errorf("%w: advance from %s", ErrUnknownStage, from)
	}

	turn.To = p.Stage
	return turn, nil
}

func (m *Machine) finalize(ctx context.Context, message string, p *Progress) Turn {
	ctx, span := tracer.Start(ctx, "booking.finalize")
	defer span.End()

	turn := Turn{From: StageDate, To: StageDate}

	date, err := m.parseDate(message)
	switch {
	case errors.Is(err, ErrPastDate):
		turn.Reply, turn.Outcome, turn.Err = PromptPastDate, OutcomePastDate, err
		return turn
	case err != nil:
		turn.Reply, turn.Outcome, turn.Err = PromptInvalidDate, OutcomeInvalidDate, err
		return turn
	}

	draft := p.Draft
	draft.Date = date.Format(DateLayout)
	draft.TattooType = m.catalog.InferType(draft.Description)
	if err := draft.Validate(); err != nil {
		span.RecordError(err)
		m.logger.Error("booking draft failed validation", "error", err)
		turn.Reply, turn.Outcome, turn.Err = PromptSaveFailed, OutcomeSaveFailed, err
		return turn
	}
	span.SetAttributes(
		attribute.String("booking.date", draft.Date),
		attribute.String("booking.tattoo_type", draft.TattooType),
	)

	appt, err := m.store.Create(ctx, draft.Request())
	if err != nil {
		span.RecordError(err)
		m.logger.Error("failed to save appointment", "error", err, "appointment_date", draft.Date)
		turn.Reply, turn.Outcome, turn.Err = PromptSaveFailed, OutcomeSaveFailed, err
		return turn
	}

	p.Draft = draft
	p.Stage = StageCompleted
	turn.To = StageCompleted
	turn.Outcome = OutcomeConfirmed
	turn.Appointment = appt
	turn.Reply = promptConfirmed(date.Format(confirmationLayout))

	if m.notifier != nil {
		m.notifier.AppointmentConfirmed(ctx, appt)
	}
	return turn
}

// parseDate accepts YYYY-MM-DD in the clock's zone and rejects days whose
// midnight is already behind now, which includes today.
func (m *Machine) parseDate(message string) (time.Time, error) {
	now := m.now()
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(message), now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	if date.Before(now) {
		return time.Time{}, ErrPastDate
	}
	return date, nil
}
