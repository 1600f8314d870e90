package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("uses default values when env vars not set", func(t *testing.T) {
		config := NewConfigFromEnv()

		assert.Equal(t, "localhost", config.Host)
		assert.Equal(t, 5432, config.Port)
		assert.Equal(t, "taskboard", config.User)
		assert.Equal(t, "taskboard", config.Name)
		assert.Equal(t, "disable", config.SSLMode)
		assert.Equal(t, 25, config.MaxOpenConns)
		assert.Equal(t, 5, config.MaxIdleConns)
		assert.Equal(t, 30*time.Minute, config.ConnMaxLifetime)
	})

	t.Run("uses custom values from environment", func(t *testing.T) {
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("DB_USER", "app")
		t.Setenv("DB_NAME", "tasks")
		t.Setenv("DB_SSLMODE", "require")

		config := NewConfigFromEnv()

		assert.Equal(t, "db.internal", config.Host)
		assert.Equal(t, 5433, config.Port)
		assert.Equal(t, "app", config.User)
		assert.Equal(t, "tasks", config.Name)
		assert.Equal(t, "require", config.SSLMode)
	})
}

func TestDSN(t *testing.T) {
	config := &Config{
		Host:     "localhost",
		Port:     5432,
		User:     "taskboard",
		Password: "secret",
		Name:     "taskboard",
		SSLMode:  "disable",
	}

	dsn := config.DSN()
	assert.Equal(t, "host=localhost port=5432 user=taskboard password=secret dbname=taskboard sslmode=disable", dsn)
}
