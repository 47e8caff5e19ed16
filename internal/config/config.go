package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read from the environment, with a .env file loaded first when present.
type Config struct {
	DatabaseURL     string
	DBMaxConns      int32
	ServerPort      string
	AllowedOrigins  []string
	RedisAddress    string // empty disables the catalog cache
	CatalogCacheTTL time.Duration
	DraftTTL        time.Duration
	LogLevel        string
}

// Load reads the configuration. Unset or malformed values fall back to defaults.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBMaxConns:      int32(envInt("DB_MAX_CONNS", 10)),
		ServerPort:      envString("SERVER_PORT", "8080"),
		AllowedOrigins:  envList("ALLOWED_ORIGINS"),
		RedisAddress:    os.Getenv("REDIS_ADDRESS"),
		CatalogCacheTTL: envDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		DraftTTL:        envDuration("DRAFT_TTL", 2*time.Hour),
		LogLevel:        envString("LOG_LEVEL", "info"),
	}
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envList(key string) []string {
	var out []string
	for _, o := range strings.Split(os.Getenv(key), ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
