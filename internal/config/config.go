// Package config reads the engine's environment-driven tunables: the HTTP
// bind address, the websocket stream interval, and the shutdown grace
// period. Per-kind node defaults live in internal/node (they are fixed by
// the spec, not operator-tunable); this package only covers the knobs an
// operator can reasonably want to change between deployments.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds every environment-driven tunable the engine reads at
// startup.
type Config struct {
	HTTPAddr             string
	StreamUpdateInterval time.Duration
	ShutdownGrace        time.Duration
}

// Load reads Config from the environment, applying the same safe defaults
// for non-secret settings the teacher's main() uses for PORT.
func Load() Config {
	return Config{
		HTTPAddr:             getEnvOrDefault("GRAVNET_HTTP_ADDR", ":8080"),
		StreamUpdateInterval: getEnvDuration("GRAVNET_STREAM_INTERVAL", time.Second),
		ShutdownGrace:        getEnvDuration("GRAVNET_SHUTDOWN_GRACE", 5*time.Second),
	}
}

// requireEnv reads a required environment variable and exits if it is not
// set. Unused by Load today (the engine has no required secrets), kept for
// the deployment that wires in an external candidate source or datastore.
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("FATAL: required environment variable %s is not set", key)
	}
	return val
}

func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if seconds, err := strconv.ParseFloat(val, 64); err == nil {
		return time.Duration(seconds * float64(time.Second))
	}
	log.Printf("[config] invalid duration for %s=%q, using default %s", key, val, fallback)
	return fallback
}
