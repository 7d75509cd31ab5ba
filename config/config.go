package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string
	AppPort string
	// PublicURL is where browsers reach the portal; check-in QR codes
	// point here.
	PublicURL string
	Backend   BackendConfig
	Redis     RedisConfig
	Session   SessionConfig
	Calendar  CalendarConfig
	Locale    LocaleConfig
	SMTP      SMTPConfig
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	TTL        time.Duration
	CookieName string
	// Memory keeps sessions in process instead of Redis.
	Memory bool
}

type CalendarConfig struct {
	PollInterval       time.Duration
	DebounceDelay      time.Duration
	BusinessHoursStart int
	BusinessHoursEnd   int
	Timezone           string
}

type LocaleConfig struct {
	Default string
}

// SMTPConfig configures guest invitations. An empty Host disables them.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		AppPort:   getEnv("APP_PORT", "8080"),
		PublicURL: getEnv("PUBLIC_URL", "http://localhost:8080"),
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_URL", "http://localhost:8081/api"),
			Timeout: getDuration("BACKEND_TIMEOUT", 15*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			TTL:        getDuration("SESSION_TTL", 24*time.Hour),
			CookieName: getEnv("SESSION_COOKIE", "roomdesk_session"),
			Memory:     getEnv("SESSION_STORE", "redis") == "memory",
		},
		Calendar: CalendarConfig{
			PollInterval:       getDuration("POLL_INTERVAL", 5*time.Second),
			DebounceDelay:      getDuration("DEBOUNCE_DELAY", 400*time.Millisecond),
			BusinessHoursStart: getInt("BUSINESS_HOURS_START", 8),
			BusinessHoursEnd:   getInt("BUSINESS_HOURS_END", 18),
			Timezone:           getEnv("TIMEZONE", "Asia/Ho_Chi_Minh"),
		},
		Locale: LocaleConfig{
			Default: getEnv("DEFAULT_LOCALE", "vi"),
		},
		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", ""),
			Port: getInt("SMTP_PORT", 587),
			User: getEnv("SMTP_USER", ""),
			Pass: getEnv("SMTP_PASS", ""),
			From: getEnv("SMTP_FROM", "no-reply@roomdesk.local"),
		},
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c CalendarConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
