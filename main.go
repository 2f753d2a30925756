package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/myflix/myflix-be/internal/api"
	"github.com/myflix/myflix-be/internal/auth"
	"github.com/myflix/myflix-be/internal/config"
	"github.com/myflix/myflix-be/internal/database"
	"github.com/myflix/myflix-be/internal/logger"
	"github.com/myflix/myflix-be/internal/metrics"
	"github.com/myflix/myflix-be/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Set up services
	eventService := services.NewEventService(db)
	userService := services.NewUserService(db, eventService)
	movieService := services.NewMovieService(db)
	tokenService := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)

	// Set up router
	router := api.NewRouter(userService, movieService, eventService, tokenService, collector, registry)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
