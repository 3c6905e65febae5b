package testutils

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"reactboard/config"
	"reactboard/db"
	"reactboard/models"
)

// LoadTestConfig loads configuration for tests from environment variables
func LoadTestConfig() (*config.AppConfig, error) {
	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../.env.test") // From services/ directory
	_ = godotenv.Load(".env.test")    // From root directory
	_ = godotenv.Load()               // Default .env file

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return nil, fmt.Errorf("DB_SCHEMA is not set")
	}

	return &config.AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
	}, nil
}

// SetupTestDB connects to the test database and makes sure the schema exists.
// Tests that need a real database skip when DB_URL is not configured.
func SetupTestDB(t *testing.T) (*sqlx.DB, string) {
	cfg, err := LoadTestConfig()
	if err != nil {
		t.Skipf("Skipping database test: %v", err)
	}

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { dbConn.Close() })

	err = db.EnsureSchema(context.Background(), dbConn, cfg.DatabaseSchema)
	require.NoError(t, err, "Failed to ensure test schema")

	return dbConn, cfg.DatabaseSchema
}

// TestGuildID returns a unique guild ID so parallel test runs never see each
// other's rows.
func TestGuildID() string {
	return "guild-" + uuid.New().String()
}

// TestUserRef returns a user reference with a unique ID.
func TestUserRef(displayName string) models.UserRef {
	return models.UserRef{
		ID:            "user-" + uuid.New().String(),
		DisplayName:   displayName,
		Discriminator: "0",
	}
}

// TestMessageRef returns a message reference with a unique ID inside the
// given guild.
func TestMessageRef(guildID string) models.MessageRef {
	return models.MessageRef{
		ID:        "msg-" + uuid.New().String(),
		ChannelID: "chan-" + uuid.New().String(),
		GuildID:   guildID,
	}
}
