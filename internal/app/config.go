package app

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/overcastlabs/skycast/pkg/weathersdk"
)

type Config struct {
	BaseURL     string        // Weather service base URL
	KeyringFile string        // Path to the SQLite keyring database
	Env         string        // Environment (dev, prod) (default: dev)
	LogLevel    string        // Log level (debug, info, warn, error) (default: info)
	LogFormat   string        // Log format (json, text) (default: text)
	Timeout     time.Duration // Authenticated request timeout (default: 8s)
	AuthTimeout time.Duration // Login/signup request timeout (default: 5s)
}

// LoadConfig reads configuration from the environment, with a .env file as
// an optional source for local development.
func LoadConfig() Config {
	_ = godotenv.Load() // absent .env is fine

	return Config{
		BaseURL:     getEnvOrDefault("SKYCAST_BASE_URL", "http://localhost:8000"),
		KeyringFile: getEnvOrDefault("SKYCAST_KEYRING_FILE", defaultKeyringFile()),
		Env:         getEnvOrDefault("ENV", "dev"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "text"),
		Timeout:     getEnvDurationOrDefault("SKYCAST_TIMEOUT", weathersdk.DefaultTimeout),
		AuthTimeout: getEnvDurationOrDefault("SKYCAST_AUTH_TIMEOUT", weathersdk.DefaultLegacyTimeout),
	}
}

func defaultKeyringFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/skycast/keyring.db"
	}
	return "skycast-keyring.db"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
