package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr string

	// Spreadsheet identity of the backing worksheet.
	SpreadsheetID  string
	WorksheetTitle string

	// SnapshotTTL bounds how long a loaded snapshot is served before the
	// next load hits the Sheets API again. A tuning knob, not a correctness
	// requirement.
	SnapshotTTL time.Duration

	// CredentialsJSON is the injected service-account credential. When empty
	// the sheets client falls back to a local file and then to
	// GOOGLE_APPLICATION_CREDENTIALS.
	CredentialsJSON string

	// Timezone for the updated_at audit column.
	Timezone string

	Redis RedisConfig
}

// RedisConfig configures the optional shared snapshot cache. An empty URL
// means the in-process cache is used instead.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables with development
// defaults.
func FromEnv() Server {
	return Server{
		Addr:            envOr("ADATUALIZA_ADDR", ":8080"),
		SpreadsheetID:   os.Getenv("ADATUALIZA_SPREADSHEET_ID"),
		WorksheetTitle:  envOr("ADATUALIZA_WORKSHEET", "membros"),
		SnapshotTTL:     envDuration("ADATUALIZA_SNAPSHOT_TTL", 30*time.Second),
		CredentialsJSON: os.Getenv("ADATUALIZA_CREDENTIALS_JSON"),
		Timezone:        envOr("ADATUALIZA_TZ", "America/Fortaleza"),
		Redis: RedisConfig{
			URL:          os.Getenv("ADATUALIZA_REDIS_URL"),
			PoolSize:     envInt("ADATUALIZA_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("ADATUALIZA_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("ADATUALIZA_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("ADATUALIZA_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("ADATUALIZA_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
