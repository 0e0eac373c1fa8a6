package router

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/inkstudio-ai/internal/appointments"
	"github.com/wolfman30/inkstudio-ai/internal/catalog"
	"github.com/wolfman30/inkstudio-ai/internal/conversation"
	httpmiddleware "github.com/wolfman30/inkstudio-ai/internal/http/middleware"
	"github.com/wolfman30/inkstudio-ai/internal/webchat"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	AppointmentsHandler *appointments.Handler
	CatalogHandler      *catalog.Handler
	WebchatHandler      *webchat.Handler
	MetricsHandler      http.Handler

	// StaticDir holds index.html and the /static assets. Empty disables both.
	StaticDir string

	CORSAllowedOrigins []string
	// RateLimiter guards the public API. Nil disables limiting.
	RateLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.Recover(cfg.Logger))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if dir := strings.TrimSpace(cfg.StaticDir); dir != "" {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, filepath.Join(dir, "index.html"))
		})
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))
	}

	// Public API, rate limited per client.
	r.Group(func(api chi.Router) {
		api.Use(cfg.RateLimiter.Middleware)

		if cfg.ConversationHandler != nil {
			api.Post("/chat", cfg.ConversationHandler.Chat)
			api.Get("/chat/{conversationID}/history", cfg.ConversationHandler.History)
		}
		if cfg.WebchatHandler != nil {
			api.Get("/chat/ws", cfg.WebchatHandler.HandleWebSocket)
		}
		if cfg.AppointmentsHandler != nil {
			api.Route("/appointments", func(r chi.Router) {
				r.Post("/", cfg.AppointmentsHandler.CreateAppointment)
				r.Get("/", cfg.AppointmentsHandler.ListAppointments)
			})
		}
		if cfg.CatalogHandler != nil {
			api.Get("/tattoo-types", cfg.CatalogHandler.TattooTypes)
			api.Get("/random-tattoos", cfg.CatalogHandler.RandomTattoos)
		}
	})

	return r
}
