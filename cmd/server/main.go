package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/api"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/config"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/service"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/store"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	records, err := newRecordStore(cfg.Store)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("Failed to initialize record store")
	}

	usageService := service.NewUsageService(records, defaultParameters(cfg.Period))

	router := api.NewRouter(&api.Services{UsageService: usageService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Str("store", cfg.Store.Backend).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// newRecordStore picks the record store backend from configuration. Memory is
// the default and needs no external service.
func newRecordStore(cfg config.StoreConfig) (store.RecordStore, error) {
	switch cfg.Backend {
	case "redis":
		return store.NewRedisStore(cfg.Redis)
	case "postgres":
		return store.NewPostgresStore(cfg.Postgres)
	default:
		return store.NewMemoryStore(), nil
	}
}

func defaultParameters(cfg config.PeriodConfig) domain.CalculationParameters {
	return domain.CalculationParameters{
		StockPeriodDays:       cfg.StockPeriodDays,
		DaysToNextDelivery:    cfg.DaysToNextDelivery,
		SafetyStockPercentage: cfg.SafetyStockPercentage,
		CriticalItemBuffer:    cfg.CriticalItemBuffer,
		OrderCycle:            cfg.OrderCycle,
	}
}
