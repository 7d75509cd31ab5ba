package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("POLL_INTERVAL", "")
	t.Setenv("PUBLIC_URL", "")
	t.Setenv("SMTP_HOST", "")

	cfg := Load()

	assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
	assert.Empty(t, cfg.SMTP.Host)
	assert.Equal(t, "http://localhost:8081/api", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Calendar.PollInterval)
	assert.Equal(t, 8, cfg.Calendar.BusinessHoursStart)
	assert.Equal(t, 18, cfg.Calendar.BusinessHoursEnd)
	assert.False(t, cfg.Session.Memory)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://booking.example.com/api")
	t.Setenv("POLL_INTERVAL", "10s")
	t.Setenv("BUSINESS_HOURS_END", "17")
	t.Setenv("SESSION_STORE", "memory")

	cfg := Load()

	assert.Equal(t, "https://booking.example.com/api", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Calendar.PollInterval)
	assert.Equal(t, 17, cfg.Calendar.BusinessHoursEnd)
	assert.True(t, cfg.Session.Memory)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")
	t.Setenv("REDIS_DB", "x")

	cfg := Load()

	assert.Equal(t, 5*time.Second, cfg.Calendar.PollInterval)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	c := CalendarConfig{Timezone: "Nowhere/Invalid"}
	assert.Equal(t, time.UTC, c.Location())
}
