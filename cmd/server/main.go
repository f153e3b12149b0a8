package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food_share/internal/api"
	"food_share/internal/app/service"
	"food_share/internal/common/security"
	"food_share/internal/domain/repository"
	"food_share/internal/platform/cache"
	"food_share/internal/platform/config"
	"food_share/internal/platform/database"
	"food_share/internal/platform/logger"
	"food_share/internal/platform/metrics"

	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	config.Load()
	logger.Init(config.AppConfig)
	defer logger.Sync()
	logger.Log.Info("Configuration loaded")

	// 2. Initialize JWT and metrics
	security.InitJWT()
	metrics.Init()

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(schemaCtx, database.DB); err != nil {
		schemaCancel()
		logger.Log.Fatal("Schema bootstrap failed", zap.Error(err))
	}
	schemaCancel()

	// 4. Initialize Redis (optional)
	var foodCache service.FoodListCache
	if cache.ConnectRedis() {
		defer cache.CloseRedis()
		foodCache = cache.NewFoodPostCache(cache.RDB, config.AppConfig.FoodCacheTTL)
	}

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	foodPostRepo := repository.NewPgFoodPostRepository(database.DB)
	claimRepo := repository.NewPgClaimRepository(database.DB)
	transactor := repository.NewPgTransactor(database.DB)

	// 6. Initialize Services
	claimService := service.NewClaimService(claimRepo, foodPostRepo)
	services := api.Services{
		Auth:     service.NewAuthService(userRepo),
		FoodPost: service.NewFoodPostService(foodPostRepo, foodCache),
		Claim:    claimService,
		Admin:    service.NewAdminService(claimService, userRepo, foodPostRepo, claimRepo, transactor, foodCache),
	}

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(config.AppConfig, services)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: config.AppConfig.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Log.Info("Server starting", zap.String("port", config.AppConfig.APIPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Could not listen", zap.String("port", config.AppConfig.APIPort), zap.Error(err))
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Log.Info("Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal("Server shutdown failed", zap.Error(err))
	}

	logger.Log.Info("Server stopped gracefully")
}
