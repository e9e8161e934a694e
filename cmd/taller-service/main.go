package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"taller-service/internal/auth"
	"taller-service/internal/client"
	"taller-service/internal/config"
	"taller-service/internal/db"
	"taller-service/internal/filter"
	"taller-service/internal/finalization"
	httphandler "taller-service/internal/http"
	"taller-service/internal/http/middleware"
	"taller-service/internal/logger"
	"taller-service/internal/repository"
	"taller-service/internal/service"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)
	if envErr != nil {
		appLogger.Debug().Msg("no .env file found, using environment variables")
	}

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	vehicleRepo := repository.NewVehicleRepository(database)
	syncRunRepo := repository.NewSyncRunRepository(database)

	sheets := client.NewSheetsClient(cfg, appLogger)
	engine := filter.NewEngine(filter.DefaultVocabulary())
	policy := finalization.NewPolicy(cfg.Finalization.PendingMessage)

	vehicleService := service.NewVehicleService(sheets, vehicleRepo, syncRunRepo, engine, policy, cfg, appLogger)
	authService := service.NewAuthService(
		auth.NewDirectory(cfg.Auth.AdminEmails),
		auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL),
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(vehicleService, authService, cfg.Upload.MaxBytes, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, appLogger)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting taller service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
