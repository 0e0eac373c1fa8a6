package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wolfman30/inkstudio-ai/internal/booking"
	"github.com/wolfman30/inkstudio-ai/internal/observability/metrics"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("inkstudio.internal.conversation")

// ErrEmptyMessage is returned for a blank chat message.
var ErrEmptyMessage = errors.New("conversation: message is required")

// Route names which component answered a turn.
type Route string

const (
	RouteBooking   Route = "booking"
	RouteIntent    Route = "intent"
	RouteAssistant Route = "assistant"
)

// ChatRequest is the body of POST /chat. A missing or empty conversation_id
// opens a new conversation.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse always echoes the resolved conversation id.
type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithMetrics(m *metrics.ChatMetrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

func WithEventLogger(e *EventLogger) ServiceOption {
	return func(s *Service) { s.events = e }
}

// Service runs chat turns: every user message is answered by exactly one
// of the booking machine, the booking intent shortcut or the assistant.
type Service struct {
	sessions  *Sessions
	machine   *booking.Machine
	responder *Responder
	events    *EventLogger
	metrics   *metrics.ChatMetrics
	logger    *logging.Logger
}

func NewService(sessions *Sessions, machine *booking.Machine, responder *Responder, logger *logging.Logger, opts ...ServiceOption) *Service {
	if sessions == nil || machine == nil || responder == nil {
		panic("conversation: sessions, machine and responder are required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		sessions:  sessions,
		machine:   machine,
		responder: responder,
		events:    NewEventLogger(logger),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Chat processes one user message.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	id := strings.TrimSpace(req.ConversationID)
	if id == "" {
		id = uuid.NewString()
	}

	ctx, span := tracer.Start(ctx, "conversation.chat")
	defer span.End()
	span.SetAttributes(attribute.String("conversation.id", id))

	var (
		reply   string
		outcome booking.Outcome
		turned  *State
	)
	err := s.sessions.WithSession(ctx, id, func(state *State, created bool) error {
		s.events.MessageReceived(ctx, id, state.Booking.Stage, req.Message, created)
		state.append(ChatRoleUser, req.Message)

		var (
			route Route
			err   error
		)
		reply, route, outcome, err = s.route(ctx, state, req.Message)
		if err != nil {
			return err
		}
		state.append(ChatRoleAssistant, reply)
		turned = state

		s.metrics.ObserveTurn(string(route))
		span.SetAttributes(
			attribute.String("chat.route", string(route)),
			attribute.String("booking.stage", state.Booking.Stage.String()),
		)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveStoreFailure("sessions", "turn")
		// The appointment is already written; a retried date must not book it again.
		if errors.Is(err, ErrSessionSave) && outcome == booking.OutcomeConfirmed {
			s.sessions.Hold(turned)
			s.logger.Error("session save failed after booking confirmed", "conversation_id", id, "error", err)
			return &ChatResponse{Response: reply, ConversationID: id}, nil
		}
		return nil, fmt.Errorf("conversation: chat turn: %w", err)
	}

	return &ChatResponse{Response: reply, ConversationID: id}, nil
}

func (s *Service) route(ctx context.Context, state *State, message string) (string, Route, booking.Outcome, error) {
	progress := &state.Booking

	if progress.Stage.Active() {
		turn, err := s.machine.Advance(ctx, message, progress)
		if err != nil {
			s.logger.Error("booking machine rejected turn", "conversation_id", state.ID, "stage", progress.Stage.String(), "error", err)
			return "", "", "", err
		}
		s.recordTurn(ctx, state.ID, turn)
		return turn.Reply, RouteBooking, turn.Outcome, nil
	}

	if DetectsBookingIntent(message) {
		turn := s.machine.Start(progress)
		s.recordTurn(ctx, state.ID, turn)
		return turn.Reply, RouteIntent, turn.Outcome, nil
	}

	reply, err := s.responder.Reply(ctx, state.Messages)
	if err != nil {
		s.logger.Error("assistant reply failed", "conversation_id", state.ID, "error", err)
		s.events.AssistantReplyFailed(ctx, state.ID, progress.Stage, err)
	}
	return reply, RouteAssistant, "", nil
}

func (s *Service) recordTurn(ctx context.Context, id string, turn booking.Turn) {
	s.events.BookingTurn(ctx, id, turn)
	s.metrics.ObserveStageTransition(turn.From.String(), turn.To.String())
	s.metrics.ObserveBookingOutcome(string(turn.Outcome))
	if turn.Outcome == booking.OutcomeSaveFailed {
		s.metrics.ObserveStoreFailure("appointments", "create")
	}
}

// History returns the stored conversation.
func (s *Service) History(ctx context.Context, id string) (*State, error) {
	return s.sessions.Get(ctx, id)
}
