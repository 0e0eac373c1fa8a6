package conversation

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/wolfman30/inkstudio-ai/internal/booking"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// ConversationEvent represents a structured event in the conversation lifecycle.
// All events share the same base fields for easy filtering/grep.
type ConversationEvent struct {
	Time           string         `json:"time"`
	Event          string         `json:"event"`
	ConversationID string         `json:"conversation_id"`
	Stage          string         `json:"stage,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

// EventLogger emits one JSON line per decision point in a chat turn:
//
//	grep '"event":"booking_confirmed"' /var/log/app.log
//	grep '"conversation_id":"3f1c..."' /var/log/app.log
type EventLogger struct {
	logger *logging.Logger
	now    func() time.Time
}

// NewEventLogger creates a new conversation event logger.
func NewEventLogger(logger *logging.Logger) *EventLogger {
	return &EventLogger{logger: logger, now: time.Now}
}

// Log emits a structured conversation event.
func (e *EventLogger) Log(_ context.Context, event, convID string, stage booking.Stage, data map[string]any) {
	if e == nil || e.logger == nil {
		return
	}
	evt := ConversationEvent{
		Time:           e.now().UTC().Format(time.RFC3339Nano),
		Event:          event,
		ConversationID: convID,
		Stage:          stage.String(),
		Data:           data,
	}
	b, _ := json.Marshal(evt)
	e.logger.Info(string(b))
}

func (e *EventLogger) MessageReceived(ctx context.Context, convID string, stage booking.Stage, message string, created bool) {
	e.Log(ctx, "message_received", convID, stage, map[string]any{
		"message":     truncate(message, maxLoggedMessage),
		"new_session": created,
	})
}

// BookingTurn logs the outcome of a booking step under an event name derived
// from it.
func (e *EventLogger) BookingTurn(ctx context.Context, convID string, turn booking.Turn) {
	data := map[string]any{
		"from": turn.From.String(),
		"to":   turn.To.String(),
	}
	if turn.Err != nil {
		data["error"] = turn.Err.Error()
	}

	event := "booking_stage_advanced"
	switch turn.Outcome {
	case booking.OutcomeStarted:
		event = "booking_started"
	case booking.OutcomeInvalidDate, booking.OutcomePastDate:
		event = "booking_date_rejected"
		data["reason"] = string(turn.Outcome)
	case booking.OutcomeConfirmed:
		event = "booking_confirmed"
		if turn.Appointment != nil {
			data["appointment_id"] = turn.Appointment.ID
			data["appointment_date"] = turn.Appointment.AppointmentDate
			data["tattoo_type"] = turn.Appointment.TattooType
		}
	case booking.OutcomeSaveFailed:
		event = "booking_save_failed"
	}
	e.Log(ctx, event, convID, turn.To, data)
}

func (e *EventLogger) AssistantReplyFailed(ctx context.Context, convID string, stage booking.Stage, err error) {
	e.Log(ctx, "assistant_reply_failed", convID, stage, map[string]any{
		"error": err.Error(),
	})
}

const maxLoggedMessage = 200

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
