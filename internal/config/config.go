// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jason-s-yu/lastcard/internal/game"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every tunable of the server and historian processes.
type Config struct {
	Port     int
	LogLevel logrus.Level

	// AllowedOrigins feeds the CORS middleware; entries may use a * wildcard.
	AllowedOrigins []string

	// Rules seeds every new room; a create request may override parts of it.
	Rules game.Rules

	RoomIdleTTL         time.Duration
	RoomCleanupInterval time.Duration

	// RedisAddr left empty disables action publishing.
	RedisAddr string
	RedisDB   int

	HistorianQueue     string
	HistorianBatchSize int
	HistorianFlush     time.Duration

	// DatabaseURL left empty disables result persistence.
	DatabaseURL string

	// TokenExpire of zero issues seat tokens without an exp claim.
	TokenExpire time.Duration

	// Raw ed25519 key files; a fresh pair is generated when either is empty.
	PrivateKeyPath string
	PublicKeyPath  string
}

// Defaults returns a Config with every default value.
func Defaults() *Config {
	return &Config{
		Port:                8080,
		LogLevel:            logrus.InfoLevel,
		AllowedOrigins:      []string{"https://*", "http://*"},
		Rules:               game.DefaultRules(),
		RoomIdleTTL:         30 * time.Minute,
		RoomCleanupInterval: time.Minute,
		HistorianQueue:      "lastcard_actions",
		HistorianBatchSize:  100,
		HistorianFlush:      2 * time.Second,
		TokenExpire:         24 * time.Hour,
	}
}

// LoadFile reads an env file into the process environment, then calls Load.
// Variables already set in the environment win over the file.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("load env file %s: %w", path, err)
	}
	return Load(), nil
}

// Load applies environment variable overrides on top of Defaults. Invalid
// values are logged and ignored.
func Load() *Config {
	cfg := Defaults()

	overrideInt(&cfg.Port, "PORT")
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsed, err := logrus.ParseLevel(lvl); err == nil {
			cfg.LogLevel = parsed
		} else {
			logrus.Warnf("invalid value for LOG_LEVEL: %q", lvl)
		}
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}

	overrideInt(&cfg.Rules.TargetScore, "TARGET_SCORE")
	overrideInt(&cfg.Rules.HandSize, "HAND_SIZE")
	overrideInt(&cfg.Rules.CatchPenalty, "CATCH_PENALTY")
	catchMs := int(cfg.Rules.CatchWindow / time.Millisecond)
	overrideInt(&catchMs, "CATCH_WINDOW_MS")
	cfg.Rules.CatchWindow = time.Duration(catchMs) * time.Millisecond

	overrideDuration(&cfg.RoomIdleTTL, "ROOM_IDLE_TTL")
	overrideDuration(&cfg.RoomCleanupInterval, "ROOM_CLEANUP_INTERVAL")

	overrideString(&cfg.RedisAddr, "REDIS_ADDR")
	overrideInt(&cfg.RedisDB, "REDIS_DB")
	overrideString(&cfg.HistorianQueue, "HISTORIAN_QUEUE_NAME")
	overrideInt(&cfg.HistorianBatchSize, "HISTORIAN_BATCH_SIZE")
	flushMs := int(cfg.HistorianFlush / time.Millisecond)
	overrideInt(&flushMs, "HISTORIAN_FLUSH_MS")
	cfg.HistorianFlush = time.Duration(flushMs) * time.Millisecond

	cfg.DatabaseURL = databaseURL()
	overrideString(&cfg.PrivateKeyPath, "SEAT_PRIVATE_KEY_PATH")
	overrideString(&cfg.PublicKeyPath, "SEAT_PUBLIC_KEY_PATH")

	if v := os.Getenv("TOKEN_EXPIRE_TIME"); v != "" {
		if d, err := ParseTokenExpireTime(v); err == nil {
			cfg.TokenExpire = d
		} else {
			logrus.Warnf("invalid value for TOKEN_EXPIRE_TIME: %q", v)
		}
	}
	return cfg
}

// ParseTokenExpireTime accepts a Go duration, or "never" / "0" for tokens
// that do not expire.
func ParseTokenExpireTime(v string) (time.Duration, error) {
	if v == "never" || v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", v)
	}
	return d, nil
}

// databaseURL prefers DATABASE_URL and falls back to the discrete
// POSTGRES_* / PG_* variables when POSTGRES_USER is set.
func databaseURL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	if os.Getenv("POSTGRES_USER") == "" {
		return ""
	}
	host := os.Getenv("PG_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("PG_PORT")
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		host,
		port,
		os.Getenv("PG_DATABASE"),
	)
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			logrus.Warnf("invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func overrideDuration(field *time.Duration, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*field = d
		} else {
			logrus.Warnf("invalid value for %s: %q", envKey, val)
		}
	}
}
