package main

import (
	"os"
	"strconv"
	"time"
)

// config holds service configuration, loaded from the environment once at
// startup. Every value is passed explicitly into the component that needs
// it; nothing reads the environment after this point.
type config struct {
	// Addr is the listen address.
	Addr string

	// Secret signs tokens. No default: the service refuses to start without it.
	Secret string

	// StoreBackend selects the credential store: "file", "postgres", or "memory".
	StoreBackend string

	// DataPath is the credential file location for the file backend.
	DataPath string

	// DatabaseDSN is the PostgreSQL DSN for the postgres backend.
	DatabaseDSN string

	// RedisAddr, when set, switches the login throttle to Redis so the limit
	// is shared between processes.
	RedisAddr string

	// TokenTTL is the token lifetime.
	TokenTTL time.Duration

	// LoginLimit / LoginWindow configure the login throttle.
	LoginLimit  int
	LoginWindow time.Duration
}

// loadConfig reads configuration from the environment with defaults matching
// a single-node development setup.
func loadConfig() *config {
	return &config{
		Addr:         getEnv("GATEKIT_ADDR", ":5000"),
		Secret:       os.Getenv("GATEKIT_SECRET"),
		StoreBackend: getEnv("GATEKIT_STORE", "file"),
		DataPath:     getEnv("GATEKIT_DATA_PATH", "./users.json"),
		DatabaseDSN:  os.Getenv("DATABASE_URL"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		TokenTTL:     getEnvDuration("GATEKIT_TOKEN_TTL", time.Hour),
		LoginLimit:   getEnvInt("GATEKIT_LOGIN_LIMIT", 5),
		LoginWindow:  getEnvDuration("GATEKIT_LOGIN_WINDOW", 15*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
