package appointments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// Handler handles HTTP requests for appointments.
type Handler struct {
	repo     Repository
	notifier Notifier
	logger   *logging.Logger
}

// NewHandler creates an appointments handler. notifier may be nil.
func NewHandler(repo Repository, notifier Notifier, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, notifier: notifier, logger: logger}
}

// CreateAppointment handles POST /appointments.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode appointment request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid request body"})
		return
	}

	appt, err := h.repo.Create(r.Context(), &req)
	if errors.Is(err, ErrMissingField) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	if errors.Is(err, ErrInvalidDate) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": InvalidDateMessage})
		return
	}
	if err != nil {
		h.logger.Error("failed to create appointment", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}

	h.logger.Info("appointment created", "id", appt.ID, "appointment_date", appt.AppointmentDate)
	if h.notifier != nil {
		h.notifier.AppointmentConfirmed(r.Context(), appt)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Appointment created successfully",
	})
}

// ListAppointments handles GET /appointments.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "An error occurred: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]Appointment{"appointments": items})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
