package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/inkstudio-ai/internal/catalog"
	"github.com/wolfman30/inkstudio-ai/internal/observability/metrics"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
	"go.opentelemetry.io/otel/attribute"
)

// ApologyReply is sent whenever text generation fails.
const ApologyReply = "I apologize, but I'm having trouble processing your request. Could you try again?"

const (
	defaultHistoryWindow   = 10
	defaultSuggestionCount = 5
)

// ResponderConfig tunes the assistant.
type ResponderConfig struct {
	// Model is passed through to the provider; empty means the client default.
	Model string
	// HistoryWindow is how many of the latest messages are sent.
	HistoryWindow int
	// SuggestionCount caps the random styles offered to undecided customers.
	SuggestionCount int
	// Timeout bounds one generation call; zero means no extra bound.
	Timeout time.Duration
}

// Responder produces free-form assistant replies.
type Responder struct {
	llm     LLMClient
	catalog *catalog.Catalog
	cfg     ResponderConfig
	sample  func(n int) []string
	metrics *metrics.ChatMetrics
	logger  *logging.Logger
}

// NewResponder creates a responder. llm may be nil, in which case every
// reply is the apology.
func NewResponder(llm LLMClient, cat *catalog.Catalog, cfg ResponderConfig, m *metrics.ChatMetrics, logger *logging.Logger) *Responder {
	if cat == nil {
		panic("conversation: catalog cannot be nil")
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = defaultHistoryWindow
	}
	if cfg.SuggestionCount <= 0 {
		cfg.SuggestionCount = defaultSuggestionCount
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Responder{
		llm:     llm,
		catalog: cat,
		cfg:     cfg,
		sample:  cat.Sample,
		metrics: m,
		logger:  logger,
	}
}

// Reply asks the provider for the next assistant message. On failure it
// returns ApologyReply together with the error, so callers can always
// answer the user.
func (r *Responder) Reply(ctx context.Context, history []Message) (string, error) {
	ctx, span := tracer.Start(ctx, "conversation.assistant_reply")
	defer span.End()

	if r.llm == nil {
		return ApologyReply, &ServiceError{Provider: "none", Err: errors.New("no provider configured")}
	}

	if len(history) > r.cfg.HistoryWindow {
		history = history[len(history)-r.cfg.HistoryWindow:]
	}
	req := LLMRequest{
		Model:    r.cfg.Model,
		System:   BuildSystemPrompt(r.catalog, r.sample(r.cfg.SuggestionCount)),
		Messages: make([]ChatMessage, 0, len(history)),
	}
	for _, m := range history {
		req.Messages = append(req.Messages, ChatMessage{Role: m.Role, Content: m.Content})
	}
	span.SetAttributes(attribute.Int("llm.history_messages", len(req.Messages)))

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := r.llm.Complete(ctx, req)
	if err == nil && resp.Text == "" {
		err = errors.New("empty reply")
	}
	r.metrics.ObserveLLM(time.Since(start).Seconds(), err != nil)
	if err != nil {
		span.RecordError(err)
		if !errors.Is(err, ErrServiceUnavailable) {
			err = serviceError("llm", err)
		}
		return ApologyReply, err
	}
	return resp.Text, nil
}
