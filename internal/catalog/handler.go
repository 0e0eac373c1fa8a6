package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// DefaultSampleSize is used by /random-tattoos when count is omitted.
const DefaultSampleSize = 5

// Handler serves the read-only catalog endpoints.
type Handler struct {
	catalog *Catalog
	logger  *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(catalog *Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{catalog: catalog, logger: logger}
}

// TattooTypes handles GET /tattoo-types.
func (h *Handler) TattooTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tattoo_types": h.catalog})
}

// RandomTattoos handles GET /random-tattoos?count=N.
func (h *Handler) RandomTattoos(w http.ResponseWriter, r *http.Request) {
	count := DefaultSampleSize
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "count must be an integer"})
			return
		}
		count = n
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tattoos": h.catalog.Sample(count)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
