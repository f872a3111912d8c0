package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"rideadmin/internal/config"
	"rideadmin/internal/middleware"
	"rideadmin/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		TimeFormat: cfg.Logging.TimeFormat,
		Caller:     cfg.Logging.Caller,
		Colors:     cfg.Logging.Colors,
		AppName:    cfg.App.Name,
		Version:    cfg.App.Version,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.WithError(err).Fatal("Server stopped with an error")
	}
}

func run(cfg *config.Config, appLogger *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled {
		app, err := newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			appLogger.WithError(err).Warn("Failed to initialize New Relic")
		} else {
			nrApp = app
			defer nrApp.Shutdown(5 * time.Second)
			appLogger.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	deps, cleanup, err := wire(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	router.Use(gin.Recovery())
	if nrApp != nil {
		router.Use(nrgin.Middleware(nrApp))
	}
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"version":     cfg.App.Version,
			"docstore":    cfg.DocStore.Provider,
			"connections": deps.hub.Count(),
		})
	})

	deps.mount(router.Group("/api/v1"))

	server := &http.Server{
		Addr:              cfg.App.Address(),
		Handler:           router,
		ReadHeaderTimeout: cfg.App.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.WithField("address", server.Addr).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info("Server exited")
	return nil
}
