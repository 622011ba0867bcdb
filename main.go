package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/meetyou-web/internal/api"
	"github.com/isdelr/meetyou-web/internal/api/handlers"
	"github.com/isdelr/meetyou-web/internal/backend"
	"github.com/isdelr/meetyou-web/internal/config"
	"github.com/isdelr/meetyou-web/internal/database"
	"github.com/isdelr/meetyou-web/internal/logger"
	"github.com/isdelr/meetyou-web/internal/monitoring"
	"github.com/isdelr/meetyou-web/internal/notice"
	"github.com/isdelr/meetyou-web/internal/roster"
	"github.com/isdelr/meetyou-web/internal/services"
	"github.com/isdelr/meetyou-web/internal/web"
	"github.com/isdelr/meetyou-web/internal/websocket"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	apiClient := backend.New(cfg.APIBaseURL, cfg.APITimeout)
	users := roster.New(hub.BroadcastRosterUpdate)
	eventService := services.NewEventService(db)
	userService := services.NewUserService(apiClient, users, eventService)
	interestService := services.NewInterestService(apiClient, users, eventService)

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load templates")
	}

	apiProxy, err := handlers.NewAPIProxy(cfg.APIBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up API proxy")
	}

	// Set up and run the roster sync job
	scheduler, err := monitoring.NewScheduler(cfg.RosterSyncSpec, userService, eventService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up scheduler")
	}
	scheduler.Start()

	// Set up router
	router := api.NewRouter(api.Deps{
		Hub:             hub,
		UserService:     userService,
		InterestService: interestService,
		EventService:    eventService,
		Renderer:        renderer,
		Notices:         notice.NewManager(cfg.NoticeSecret, cfg.Production),
		API:             apiClient,
		APIProxy:        apiProxy,
		AllowedOrigins:  cfg.AllowedOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("api", cfg.APIBaseURL).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}
