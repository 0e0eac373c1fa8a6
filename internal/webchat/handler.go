package webchat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/inkstudio-ai/internal/conversation"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
	"golang.org/x/net/websocket"
)

// Chatter runs a chat turn. *conversation.Service implements it.
type Chatter interface {
	Chat(ctx context.Context, req conversation.ChatRequest) (*conversation.ChatResponse, error)
	History(ctx context.Context, id string) (*conversation.State, error)
}

// Handler serves the websocket chat channel.
type Handler struct {
	chat   Chatter
	logger *logging.Logger
}

// InboundMessage is what the browser sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send back.
type OutboundMessage struct {
	Type           string           `json:"type"` // "session", "history", "message", "pong", "error"
	Text           string           `json:"text,omitempty"`
	Role           string           `json:"role,omitempty"`
	ConversationID string           `json:"conversation_id,omitempty"`
	Timestamp      string           `json:"timestamp,omitempty"`
	Messages       []HistoryMessage `json:"messages,omitempty"`
}

type HistoryMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

func NewHandler(chat Chatter, logger *logging.Logger) *Handler {
	if chat == nil {
		panic("webchat: chat service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{chat: chat, logger: logger}
}

// HandleWebSocket upgrades GET /chat/ws?conversation=<id>.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx := r.Context()
	convID := strings.TrimSpace(r.URL.Query().Get("conversation"))
	if convID == "" {
		convID = uuid.NewString()
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", ConversationID: convID})

	if state, err := h.chat.History(ctx, convID); err == nil && len(state.Messages) > 0 {
		history := make([]HistoryMessage, 0, len(state.Messages))
		for _, m := range state.Messages {
			history = append(history, HistoryMessage{Role: m.Role, Text: m.Content})
		}
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", ConversationID: convID, Messages: history})
	} else if err != nil && !errors.Is(err, conversation.ErrSessionNotFound) {
		h.logger.Warn("webchat: failed to load history", "conversation_id", convID, "error", err)
	}

	h.logger.Info("webchat: connection opened", "conversation_id", convID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "conversation_id", convID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}
		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		if err := websocket.JSON.Send(conn, h.processMessage(ctx, convID, msg.Text)); err != nil {
			h.logger.Debug("webchat: send failed", "conversation_id", convID, "error", err)
			return
		}
	}
}

func (h *Handler) processMessage(ctx context.Context, convID, text string) OutboundMessage {
	resp, err := h.chat.Chat(ctx, conversation.ChatRequest{Message: text, ConversationID: convID})
	if err != nil {
		h.logger.Error("webchat: chat turn failed", "conversation_id", convID, "error", err)
		return OutboundMessage{
			Type:           "error",
			Text:           "Sorry, something went wrong. Please try again.",
			ConversationID: convID,
		}
	}
	return OutboundMessage{
		Type:           "message",
		Role:           conversation.ChatRoleAssistant,
		Text:           resp.Response,
		ConversationID: resp.ConversationID,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
}
