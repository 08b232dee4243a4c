package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SLOT_STEP_MINUTES", "")
	t.Setenv("EDIT_WINDOW_MINUTES", "")
	t.Setenv("SERVER_PORT", "")

	cfg := Load()

	assert.Equal(t, 30, cfg.SlotStepMinutes)
	assert.Equal(t, 30, cfg.BookingHorizonDays)
	assert.Equal(t, 2*time.Hour, cfg.EditWindow)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SLOT_STEP_MINUTES", "15")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("CORS_ORIGINS", "https://sto.example, ,http://localhost:3000")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, 15, cfg.SlotStepMinutes)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"https://sto.example", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 0, cfg.Redis.DB)
}
