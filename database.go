package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clubstack/backoffice/models"
	"github.com/clubstack/backoffice/shared/utils"
)

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	Username        string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
}

// NewDatabaseConfig creates a new database configuration from environment variables
func NewDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:            utils.GetEnvOrDefault("DB_HOST", "localhost"),
		Port:            utils.GetEnvOrDefault("DB_PORT", "5432"),
		Username:        utils.GetEnvOrDefault("DB_USER", "backoffice"),
		Password:        utils.GetEnvOrDefault("DB_PASSWORD", "backoffice"),
		Database:        utils.GetEnvOrDefault("DB_NAME", "backoffice"),
		SSLMode:         utils.GetEnvOrDefault("DB_SSLMODE", "disable"),
		MaxOpenConns:    parseIntOrDefault("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    parseIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: parseDurationOrDefault("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnectTimeout:  parseDurationOrDefault("DB_CONNECT_TIMEOUT", 10*time.Second),
		RetryAttempts:   parseIntOrDefault("DB_RETRY_ATTEMPTS", 5),
		RetryDelay:      parseDurationOrDefault("DB_RETRY_DELAY", 2*time.Second),
	}
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// ConnectGormDB establishes a GORM connection to PostgreSQL with retries
// and configures the connection pool.
func ConnectGormDB(config *DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		config.Host, config.Username, config.Password, config.Database, config.Port, config.SSLMode)

	var lastErr error
	for attempt := 1; attempt <= config.RetryAttempts; attempt++ {
		gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			lastErr = err
			slog.Warn("Failed to open database connection", "attempt", attempt, "error", err)
			time.Sleep(config.RetryDelay)
			continue
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

		ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
		err = sqlDB.PingContext(ctx)
		cancel()
		if err != nil {
			lastErr = err
			slog.Warn("Failed to ping database", "attempt", attempt, "error", err)
			time.Sleep(config.RetryDelay)
			continue
		}

		slog.Info("Database connection established",
			"host", config.Host,
			"port", config.Port,
			"database", config.Database)

		if err := runMigrations(gormDB); err != nil {
			return nil, err
		}
		return gormDB, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", config.RetryAttempts, lastErr)
}

// runMigrations applies the schema when RUN_MIGRATION is enabled
func runMigrations(db *gorm.DB) error {
	if utils.GetEnvOrDefault("RUN_MIGRATION", "false") != "true" {
		return nil
	}

	slog.Info("Running database migrations")
	err := db.AutoMigrate(
		&models.Product{},
		&models.Transaction{},
		&models.Member{},
		&models.MemberTransaction{},
		&models.MemberConflict{},
		&models.SyncWatermark{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
