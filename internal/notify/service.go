package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/wolfman30/inkstudio-ai/internal/appointments"
	"github.com/wolfman30/inkstudio-ai/internal/catalog"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// AppointmentNotifier tells the studio about confirmed bookings. Either
// channel may be nil. Delivery errors are logged and swallowed so a booking
// never fails because of a notification.
type AppointmentNotifier struct {
	email  EmailSender
	to     []string
	events EventPublisher
	now    func() time.Time
	logger *logging.Logger
}

// NewAppointmentNotifier creates a notifier. Email is skipped when to has no
// addresses.
func NewAppointmentNotifier(email EmailSender, to []string, events EventPublisher, logger *logging.Logger) *AppointmentNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentNotifier{
		email:  email,
		to:     to,
		events: events,
		now:    time.Now,
		logger: logger,
	}
}

// AppointmentConfirmed implements appointments.Notifier.
func (n *AppointmentNotifier) AppointmentConfirmed(ctx context.Context, appt *appointments.Appointment) {
	if n == nil || appt == nil {
		return
	}

	if n.email != nil && len(n.to) > 0 {
		msg := EmailMessage{
			To:       n.to,
			Subject:  fmt.Sprintf("New tattoo appointment: %s on %s", appt.Username, appt.AppointmentDate),
			Text:     FormatAppointmentSummary(appt),
			HTML:     formatAppointmentHTML(appt),
			Category: EventAppointmentCreated,
		}
		if err := n.email.Send(ctx, msg); err != nil {
			n.logger.Error("notify: failed to send appointment email", "error", err, "appointment_id", appt.ID)
		} else {
			n.logger.Info("notify: appointment email sent", "recipients", len(n.to), "appointment_id", appt.ID)
		}
	}

	if n.events != nil {
		evt := AppointmentEvent{
			Type:        EventAppointmentCreated,
			OccurredAt:  n.now().UTC(),
			Appointment: *appt,
		}
		if err := n.events.Publish(ctx, evt); err != nil {
			n.logger.Error("notify: failed to publish appointment event", "error", err, "appointment_id", appt.ID)
		}
	}
}

// FormatAppointmentSummary renders the plain-text body of the studio email.
func FormatAppointmentSummary(appt *appointments.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Client: %s\n", appt.Username)
	fmt.Fprintf(&b, "City: %s\n", appt.City)
	fmt.Fprintf(&b, "Date: %s\n", formatDate(appt.AppointmentDate))
	if appt.TattooType != "" {
		fmt.Fprintf(&b, "Style: %s\n", catalog.DisplayName(appt.TattooType))
	}
	fmt.Fprintf(&b, "Description: %s\n", appt.Description)
	if appt.CreatedAt != "" {
		fmt.Fprintf(&b, "Booked at: %s\n", appt.CreatedAt)
	}
	return b.String()
}

func formatAppointmentHTML(appt *appointments.Appointment) string {
	var b strings.Builder
	b.WriteString("<h2>New appointment</h2><ul>")
	row := func(label, value string) {
		fmt.Fprintf(&b, "<li><strong>%s:</strong> %s</li>", label, html.EscapeString(value))
	}
	row("Client", appt.Username)
	row("City", appt.City)
	row("Date", formatDate(appt.AppointmentDate))
	if appt.TattooType != "" {
		row("Style", catalog.DisplayName(appt.TattooType))
	}
	row("Description", appt.Description)
	b.WriteString("</ul>")
	return b.String()
}

func formatDate(date string) string {
	t, err := time.Parse(appointments.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

var _ appointments.Notifier = (*AppointmentNotifier)(nil)
