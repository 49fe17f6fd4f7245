package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	PostgresDSN   string
	RedisURL      string
	PublicBaseURL string
	StaticDir     string
	LogLevel      string

	BotToken        string
	AdminChatID     int64
	AdminIDs        []int64
	PollingTimeout  time.Duration
	PollingInterval time.Duration
	PollingLimit    int

	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnMaxIdle  time.Duration
	DBConnMaxLife  time.Duration
	QueryTimeout   time.Duration

	SubmitCooldown time.Duration
	CacheTTL       time.Duration
	AgeMin         int
	AgeMax         int
}

// Load reads configuration from the environment. A .env file is applied
// when present. Absence of DATABASE_URL is fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:      envOr("PORT", "8080"),
		PostgresDSN:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:      envOr("REDIS_URL", ""),
		PublicBaseURL: envOr("PUBLIC_BASE_URL", ""),
		StaticDir:     envOr("STATIC_DIR", ""),
		LogLevel:      envOr("LOG_LEVEL", "info"),

		BotToken:        strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		AdminChatID:     int64Or("TELEGRAM_ADMIN_CHAT_ID", 0),
		AdminIDs:        idList(os.Getenv("TELEGRAM_ADMIN_IDS")),
		PollingTimeout:  durationOr("TELEGRAM_POLLING_TIMEOUT", 25*time.Second),
		PollingInterval: durationOr("TELEGRAM_POLLING_INTERVAL", time.Second),
		PollingLimit:    intOr("TELEGRAM_POLLING_LIMIT", 50),

		DBMaxOpenConns: intOr("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: intOr("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxIdle:  durationOr("DB_CONN_MAX_IDLE", 5*time.Minute),
		DBConnMaxLife:  durationOr("DB_CONN_MAX_LIFE", 30*time.Minute),
		QueryTimeout:   durationOr("QUERY_TIMEOUT", 5*time.Second),

		SubmitCooldown: durationOr("SUBMIT_COOLDOWN", 5*time.Minute),
		CacheTTL:       durationOr("CACHE_TTL", 2*time.Minute),
		AgeMin:         intOr("AGE_MIN", 14),
		AgeMax:         intOr("AGE_MAX", 100),
	}

	if cfg.PostgresDSN == "" {
		log.Fatal("DATABASE_URL is required")
	}
	// Notification target doubles as an allowed admin when the list is empty.
	if len(cfg.AdminIDs) == 0 && cfg.AdminChatID != 0 {
		cfg.AdminIDs = []int64{cfg.AdminChatID}
	}

	return cfg
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func intOr(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func int64Or(key string, fallback int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func durationOr(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func idList(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
