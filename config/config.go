package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type DiscordConfig struct {
	BotToken string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != ""
}

type AlertConfig struct {
	WebhookURL string
	LogsURL    string
}

// IsConfigured returns true if alerting is enabled
func (c AlertConfig) IsConfigured() bool {
	return c.WebhookURL != ""
	// Note: LogsURL is optional
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	BackfillPageSize   int  // Optional with default 100
	UseStrictConfig    bool // If true, error when any integration is not fully configured

	DiscordConfig DiscordConfig
	AlertConfig   AlertConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	// Core required configuration
	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	backfillPageSize, err := strconv.Atoi(getEnvWithDefault("BACKFILL_PAGE_SIZE", "100"))
	if err != nil || backfillPageSize <= 0 {
		return nil, fmt.Errorf("BACKFILL_PAGE_SIZE must be a positive integer")
	}

	config := &AppConfig{
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		BackfillPageSize:   backfillPageSize,
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "true") == "true",

		DiscordConfig: DiscordConfig{
			BotToken: os.Getenv("DISCORD_BOT_TOKEN"),
		},

		// Alerting configuration (optional)
		AlertConfig: AlertConfig{
			WebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
			LogsURL:    os.Getenv("SERVER_LOGS_URL"),
		},
	}

	if config.DiscordConfig.IsConfigured() {
		log.Printf("✅ Discord integration configured")
	} else {
		log.Printf("⚠️ Discord integration not configured - event ingestion will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("discord integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.AlertConfig.IsConfigured() {
		log.Printf("✅ Error alerting configured")
	} else {
		log.Printf("⚠️ Error alerting not configured - failures are logged only")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
