package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/inkstudio-ai/cmd/mainconfig"
	"github.com/wolfman30/inkstudio-ai/internal/api/router"
	"github.com/wolfman30/inkstudio-ai/internal/app/bootstrap"
	"github.com/wolfman30/inkstudio-ai/internal/appointments"
	"github.com/wolfman30/inkstudio-ai/internal/booking"
	"github.com/wolfman30/inkstudio-ai/internal/catalog"
	appconfig "github.com/wolfman30/inkstudio-ai/internal/config"
	"github.com/wolfman30/inkstudio-ai/internal/conversation"
	httpmiddleware "github.com/wolfman30/inkstudio-ai/internal/http/middleware"
	"github.com/wolfman30/inkstudio-ai/internal/observability/metrics"
	"github.com/wolfman30/inkstudio-ai/internal/webchat"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

func main() {
	if err := appconfig.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
	cfg := appconfig.Load()

	logger, closeLog := setupLogger(cfg)
	defer closeLog()
	logger.Info("starting inkstudio API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	handler, cleanup, err := buildHandler(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// setupLogger writes JSON to stdout and, when LOG_FILE is set, text to that
// file as well.
func setupLogger(cfg *appconfig.Config) (*logging.Logger, func()) {
	if cfg.LogFile == "" {
		return logging.New(cfg.LogLevel), func() {}
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger := logging.New(cfg.LogLevel)
		logger.Warn("cannot open log file; logging to stdout only", "path", cfg.LogFile, "error", err)
		return logger, func() {}
	}
	return logging.NewFanout(cfg.LogLevel, f), func() { _ = f.Close() }
}

func setupMetrics() (http.Handler, *metrics.ChatMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewChatMetrics(reg)
}

const rateLimitEvictEvery = 5 * time.Minute

// buildHandler wires every component named in cfg into the HTTP router.
func buildHandler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func(), error) {
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg, bootstrap.NeedsAWS(cfg))
	if err != nil {
		return nil, nil, err
	}

	cat, err := bootstrap.BuildCatalog(ctx, cfg, awsCfg, logger)
	if err != nil {
		return nil, nil, err
	}

	repo, closeRepo, err := bootstrap.BuildAppointmentRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	store, err := bootstrap.BuildSessionStore(ctx, cfg, awsCfg, logger)
	if err != nil {
		closeRepo()
		return nil, nil, err
	}
	cleanup := func() {
		if c, ok := store.(io.Closer); ok {
			_ = c.Close()
		}
		closeRepo()
	}

	llm, err := bootstrap.BuildLLMClient(ctx, cfg, awsCfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	var notifier appointments.Notifier
	machineOpts := []booking.Option{}
	if n := bootstrap.BuildNotifier(cfg, awsCfg, logger); n != nil {
		notifier = n
		machineOpts = append(machineOpts, booking.WithNotifier(n))
	}

	metricsHandler, chatMetrics := setupMetrics()

	limiter := httpmiddleware.StartRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimitEvictEvery)
	closeStores := cleanup
	cleanup = func() {
		_ = limiter.Close()
		closeStores()
	}

	machine := booking.NewMachine(cat, repo, logger, machineOpts...)
	responder := conversation.NewResponder(llm, cat, conversation.ResponderConfig{
		HistoryWindow:   cfg.HistoryWindow,
		SuggestionCount: cfg.SuggestionCount,
		Timeout:         cfg.LLMTimeout,
	}, chatMetrics, logger)
	service := conversation.NewService(
		conversation.NewSessions(store),
		machine,
		responder,
		logger,
		conversation.WithMetrics(chatMetrics),
	)

	handler := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(service, logger),
		AppointmentsHandler: appointments.NewHandler(repo, notifier, logger),
		CatalogHandler:      catalog.NewHandler(cat, logger),
		WebchatHandler:      webchat.NewHandler(service, logger),
		MetricsHandler:      metricsHandler,
		StaticDir:           cfg.StaticDir,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimiter:         limiter,
	})
	return handler, cleanup, nil
}
