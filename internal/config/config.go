// internal/config/config.go
// Configuration management using environment variables and optional config files

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/iysaleh/pickleball-session-manager/internal/core"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Session     core.Config
	Features    FeatureFlags
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	FrontendURL  string
}

// DatabaseConfig contains all database connection settings
type DatabaseConfig struct {
	MongoDB MongoDBConfig
	Redis   RedisConfig
}

// MongoDBConfig contains MongoDB-specific settings
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig contains Redis-specific settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig contains the debug-endpoint guard settings. There is no user
// account system - just one static operator token.
type AuthConfig struct {
	OperatorTokenHash string
	JWTSecret         string
	JWTExpiration     time.Duration
}

// FeatureFlags allows toggling features without code changes
type FeatureFlags struct {
	EnableWebSocket bool
	EnablePersistence bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnvOrDefault("PORT", "8080"),
			ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			FrontendURL:  getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			MongoDB: MongoDBConfig{
				URI:      getEnvOrDefault("MONGO_URI", ""),
				Database: getEnvOrDefault("MONGO_DATABASE", "pickleball_sessions"),
			},
			Redis: RedisConfig{
				Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getIntOrDefault("REDIS_DB", 0),
			},
		},
		Auth: AuthConfig{
			OperatorTokenHash: getEnvOrDefault("OPERATOR_TOKEN_HASH", ""),
			JWTSecret:         getEnvOrDefault("JWT_SECRET", ""),
			JWTExpiration:     getDurationOrDefault("JWT_EXPIRATION", 12*time.Hour),
		},
		Session: sessionConfigFromEnv(),
		Features: FeatureFlags{
			EnableWebSocket:   getBoolOrDefault("ENABLE_WEBSOCKET", true),
			EnablePersistence: getBoolOrDefault("ENABLE_PERSISTENCE", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// sessionConfigFromEnv overlays env-var overrides onto the spec's defaults;
// an unset variable keeps its documented default.
func sessionConfigFromEnv() core.Config {
	cfg := core.DefaultConfig()
	cfg.Rating.BaseRating = getFloatOrDefault("BASE_RATING", cfg.Rating.BaseRating)
	cfg.Rating.MinRating = getFloatOrDefault("MIN_RATING", cfg.Rating.MinRating)
	cfg.Rating.MaxRating = getFloatOrDefault("MAX_RATING", cfg.Rating.MaxRating)
	cfg.Rating.ProvisionalGames = getIntOrDefault("PROVISIONAL_GAMES", cfg.Rating.ProvisionalGames)

	cfg.Repetition.PartnerGapRequired = getIntOrDefault("PARTNER_GAP_REQUIRED", cfg.Repetition.PartnerGapRequired)
	cfg.Repetition.OpponentGapRequired = getIntOrDefault("OPPONENT_GAP_REQUIRED", cfg.Repetition.OpponentGapRequired)
	cfg.Repetition.SmallSessionThreshold = getIntOrDefault("SMALL_SESSION_THRESHOLD", cfg.Repetition.SmallSessionThreshold)

	cfg.Roaming.ActiveFrom = getIntOrDefault("ROAMING_ACTIVE_FROM", cfg.Roaming.ActiveFrom)
	cfg.Roaming.Window = getFloatOrDefault("ROAMING_WINDOW", cfg.Roaming.Window)

	cfg.Wait.MinGap = getFloatOrDefault("MIN_GAP", cfg.Wait.MinGap)
	cfg.Wait.SignificantGap = getFloatOrDefault("SIGNIFICANT_GAP", cfg.Wait.SignificantGap)
	cfg.Wait.ExtremeGap = getFloatOrDefault("EXTREME_GAP", cfg.Wait.ExtremeGap)

	cfg.Adaptive.MidAvgGames = getFloatOrDefault("MID_AVG_GAMES", cfg.Adaptive.MidAvgGames)
	cfg.Adaptive.LateAvgGames = getFloatOrDefault("LATE_AVG_GAMES", cfg.Adaptive.LateAvgGames)
	cfg.Adaptive.BalanceThresholdMid = getFloatOrDefault("BALANCE_THRESHOLD_MID", cfg.Adaptive.BalanceThresholdMid)
	cfg.Adaptive.BalanceThresholdLate = getFloatOrDefault("BALANCE_THRESHOLD_LATE", cfg.Adaptive.BalanceThresholdLate)

	cfg.KotC.SeedingOption = getEnvOrDefault("KOTC_SEEDING_OPTION", cfg.KotC.SeedingOption)

	return cfg
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.Features.EnablePersistence && c.Database.MongoDB.URI == "" {
		return fmt.Errorf("MONGO_URI is required when persistence is enabled")
	}
	if c.Environment == "production" && c.Auth.OperatorTokenHash == "" {
		return fmt.Errorf("OPERATOR_TOKEN_HASH is required in production")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
