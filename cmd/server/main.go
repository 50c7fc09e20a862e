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

	"github.com/styleseeker/client/config"
	httpDelivery "github.com/styleseeker/client/internal/delivery/http"
	"github.com/styleseeker/client/internal/infrastructure/cache"
	"github.com/styleseeker/client/internal/infrastructure/searchapi"
	"github.com/styleseeker/client/internal/usecase"
	"github.com/styleseeker/client/pkg/log"
)

func main() {
	// Bootstrap logger until the configured one is built
	log.Init("info", "console")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", err)
	}

	log.Init(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	log.Infof("Starting StyleSeeker client v%s", httpDelivery.Version)
	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"searchAPI", cfg.SearchAPI.BaseURL,
		"imageBaseURL", cfg.SearchAPI.ImageBaseURL(),
	)

	// Session storage
	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()
	sessions := usecase.NewSessionService(memoryCache, cfg.Session.TTL)
	log.Infof("Session TTL: %s", sessions.TTL())

	searchClient := searchapi.NewClient(cfg.SearchAPI.BaseURL, cfg.SearchAPI.Timeout)

	// Enable debug mode in development environment
	if cfg.SearchAPI.Debug || cfg.Server.Environment == "development" {
		searchClient.SetDebug(true)
		log.Info("Search client debug mode enabled")
	}

	if cfg.SearchAPI.Timeout == 0 {
		log.Warnf("Search API timeout disabled: requests wait until the backend answers")
	}

	controller := usecase.NewUploadController(searchClient)
	renderer := usecase.NewResultsRenderer(cfg.SearchAPI.ImageBaseURL())

	handler := httpDelivery.NewHandler(controller, renderer)
	router := httpDelivery.SetupRouter(cfg, handler, sessions, memoryCache)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Searches have no timeout of their own; cap the drain
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shut down", err)
		return
	}

	log.Infow("Server stopped", "cachedEntries", memoryCache.Size())
}
