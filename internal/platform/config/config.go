package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	PostgresDSN   string
	RedisURL      string
	KafkaBrokers  string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	AdminToken    string
	BuildVersion  string
}

// RedisConfig tunes the shared command-store client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// CommandResultTTL bounds how long the command store retains replay results.
// Expiry never weakens tenant isolation; it only re-opens the idempotency
// window, and the persistence layer's conditional writes absorb that.
var CommandResultTTL = 24 * time.Hour

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("VERITAS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	build := os.Getenv("VERITAS_BUILD_VERSION")
	if build == "" {
		build = "dev"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	issuer := os.Getenv("VERITAS_JWT_ISSUER")
	if issuer == "" {
		issuer = "veritas"
	}
	audience := os.Getenv("VERITAS_JWT_AUDIENCE")
	if audience == "" {
		audience = "veritas-api"
	}

	return Server{
		Addr:          addr,
		PostgresDSN:   os.Getenv("VERITAS_POSTGRES_DSN"),
		RedisURL:      os.Getenv("VERITAS_REDIS_URL"),
		KafkaBrokers:  os.Getenv("VERITAS_KAFKA_BROKERS"),
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     issuer,
		JWTAudience:   audience,
		AdminToken:    os.Getenv("VERITAS_ADMIN_TOKEN"),
		BuildVersion:  build,
	}
}

// RedisFromEnv builds the redis client config.
func RedisFromEnv() RedisConfig {
	pool := intFromEnv("VERITAS_REDIS_POOL_SIZE", 10)
	minIdle := intFromEnv("VERITAS_REDIS_MIN_IDLE", 2)
	return RedisConfig{
		URL:          os.Getenv("VERITAS_REDIS_URL"),
		PoolSize:     pool,
		MinIdleConns: minIdle,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func intFromEnv(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}
