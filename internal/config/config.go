package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ConfigError reports missing or invalid configuration. The server refuses
// to start when Load returns one.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server      ServerConfig
	Telegram    TelegramConfig
	Admin       AdminConfig
	Store       StoreConfig
	ServiceName string
	LogLevel    string
}

type ServerConfig struct {
	Port               string
	Host               string
	ReadTimeout        int
	WriteTimeout       int
	ShutdownTimeout    int
	CORSAllowedOrigins []string
}

// TelegramConfig describes the messaging endpoint order notifications go to.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	APIURL   string
	Timeout  time.Duration
}

type AdminConfig struct {
	Login         string
	Password      string
	SessionSecret []byte
	SessionTTL    time.Duration
}

type StoreConfig struct {
	CounterFile string
	StaticDir   string
	Location    *time.Location
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "3000"),
			Host:               getEnv("HOST", "0.0.0.0"),
			ReadTimeout:        getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:       getEnvAsInt("WRITE_TIMEOUT", 30),
			ShutdownTimeout:    getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
			APIURL:   strings.TrimRight(getEnv("TELEGRAM_API_URL", "https://api.telegram.org"), "/"),
			Timeout:  getEnvAsDuration("TELEGRAM_TIMEOUT", 10*time.Second),
		},
		Admin: AdminConfig{
			Login:      getEnv("ADMIN_LOGIN", "admin"),
			Password:   getEnv("ADMIN_PASSWORD", "admin"),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 12*time.Hour),
		},
		Store: StoreConfig{
			CounterFile: getEnv("COUNTER_FILE", "order-counter.json"),
			StaticDir:   getEnv("STATIC_DIR", "./web"),
		},
		ServiceName: getEnv("SERVICE_NAME", "FlyTire backend"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	secret, err := sessionSecret()
	if err != nil {
		return nil, err
	}
	cfg.Admin.SessionSecret = secret

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Europe/Kyiv"))
	if err != nil {
		return nil, &ConfigError{Key: "TIMEZONE", Reason: err.Error()}
	}
	cfg.Store.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return &ConfigError{Key: "TELEGRAM_BOT_TOKEN", Reason: "is required"}
	}
	if c.Telegram.ChatID == "" {
		return &ConfigError{Key: "TELEGRAM_CHAT_ID", Reason: "is required"}
	}

	if c.Server.Port == "" {
		return &ConfigError{Key: "PORT", Reason: "is required"}
	}

	if c.Admin.SessionTTL <= 0 {
		return &ConfigError{Key: "SESSION_TTL", Reason: "must be positive"}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return &ConfigError{
			Key:    "LOG_LEVEL",
			Reason: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", c.LogLevel),
		}
	}

	return nil
}

// IsConfigError reports whether err carries a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// sessionSecret uses SESSION_SECRET when set. Otherwise a random key is
// generated, which invalidates admin sessions on every restart.
func sessionSecret() ([]byte, error) {
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		return []byte(v), nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	return []byte(hex.EncodeToString(buf)), nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
