package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/clubstack/backoffice/commerce"
	"github.com/clubstack/backoffice/handlers"
	"github.com/clubstack/backoffice/middleware"
	"github.com/clubstack/backoffice/pkg/monitoring"
	"github.com/clubstack/backoffice/shared/utils"
)

const serviceName = "backoffice"

func main() {
	// Load .env file if it exists (optional - fails silently if not found)
	_ = godotenv.Load()

	utils.SetupLogging(
		utils.GetEnvOrDefault("LOG_FORMAT", "json"),
		utils.GetEnvOrDefault("LOG_LEVEL", "info"),
	)

	slog.Info("Starting backoffice server initialization")

	dbConfig := NewDatabaseConfig()
	gormDB, err := ConnectGormDB(dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	baseURL := os.Getenv("COMMERCE_BASE_URL")
	apiToken := os.Getenv("COMMERCE_API_TOKEN")
	if baseURL == "" || apiToken == "" {
		slog.Error("Commerce gateway not configured",
			"COMMERCE_BASE_URL", baseURL != "",
			"COMMERCE_API_TOKEN", apiToken != "")
		os.Exit(1)
	}
	gateway := commerce.NewClient(baseURL, apiToken)

	shutdownMetrics, err := monitoring.Setup(context.Background(), monitoring.Config{
		ServiceName: serviceName,
	})
	if err != nil {
		slog.Error("Failed to set up telemetry", "error", err)
		os.Exit(1)
	}

	apiServer := handlers.NewAPIServer(gormDB, gateway)

	mux := http.NewServeMux()
	apiServer.SetupRoutes(mux)
	mux.Handle("/health", utils.HealthHandler(serviceName))
	mux.Handle("/metrics", monitoring.Handler())

	handler := middleware.CORSMiddleware()(
		middleware.SecurityHeaders(
			middleware.RequestLogging(
				monitoring.HTTPMetricsMiddleware(mux))))

	server := utils.CreateServer(utils.DefaultServerConfig(), handler)

	err = utils.StartServerWithGracefulShutdown(server, serviceName)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if metricsErr := shutdownMetrics(shutdownCtx); metricsErr != nil {
		slog.Error("Telemetry shutdown error", "error", metricsErr)
	}
	if sqlDB, dbErr := gormDB.DB(); dbErr == nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			slog.Error("Database close error", "error", closeErr)
		}
	}

	if err != nil {
		os.Exit(1)
	}
}
