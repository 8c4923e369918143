// Package config loads service and solver defaults from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment-tunable setting the service needs.
type Config struct {
	Env  string
	Addr string

	DatabasePath string
	NATSURL      string

	SolveTimeLimit time.Duration
	SolveMIPGap    float64

	LogLevel string
}

// Load reads configuration from environment variables and an optional .env
// file in the working directory.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:            getEnv("ENV", "development"),
		Addr:           getEnv("CRYOPLANNER_ADDR", ":8080"),
		DatabasePath:   getEnv("CRYOPLANNER_DB_PATH", "cryoplanner.db"),
		NATSURL:        getEnv("NATS_URL", "nats://localhost:4222"),
		SolveTimeLimit: time.Duration(getEnvInt("SOLVE_TIME_LIMIT_SEC", 300)) * time.Second,
		SolveMIPGap:    getEnvFloat("SOLVE_MIP_GAP", 0.01),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
