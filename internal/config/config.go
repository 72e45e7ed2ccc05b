package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server reads from the environment.
type Config struct {
	Port            string
	BaseURL         string // public base URL encoded into the join QR code
	MaxParticipants int
	AdvanceDelay    time.Duration
	Debug           bool
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

// Load reads a .env file if present, then builds the config from the
// environment.
func Load() *Config {
	_ = godotenv.Load()

	port := getEnv("INFLUENCE_PORT", "8080")
	return &Config{
		Port:            port,
		BaseURL:         getEnv("INFLUENCE_BASE_URL", "http://localhost:"+port),
		MaxParticipants: getIntEnv("INFLUENCE_MAX_PARTICIPANTS", 20),
		AdvanceDelay:    time.Duration(getIntEnv("INFLUENCE_ADVANCE_DELAY_SECONDS", 5)) * time.Second,
		Debug:           getBoolEnv("DEBUG", false),
	}
}
