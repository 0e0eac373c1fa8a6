package conversation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// Handler wires HTTP requests to the conversation service.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a conversation handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Chat handles POST /chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode chat request", "error", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid request body"})
		return
	}

	resp, err := h.service.Chat(r.Context(), req)
	if errors.Is(err, ErrEmptyMessage) {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "message is required"})
		return
	}
	if err != nil {
		h.logger.Error("failed to process chat message", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An error occurred: " + err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HistoryResponse is returned by GET /chat/{conversationID}/history.
type HistoryResponse struct {
	ConversationID string    `json:"conversation_id"`
	Stage          string    `json:"stage"`
	Messages       []Message `json:"messages"`
}

// History handles GET /chat/{conversationID}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")
	state, err := h.service.History(r.Context(), id)
	if errors.Is(err, ErrSessionNotFound) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"detail": "conversation not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to load conversation", "conversation_id", id, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An error occurred: " + err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, HistoryResponse{
		ConversationID: state.ID,
		Stage:          state.Booking.Stage.String(),
		Messages:       state.Messages,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
