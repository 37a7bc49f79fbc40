package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Game      GameConfig
	Transport TransportConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string
	Host           string
	Env            string // "development" or "production"
	PublicURL      string // base URL used in invite links; empty means derive from the request
	AllowedOrigins []string
}

// GameConfig holds the defaults every new room starts with
type GameConfig struct {
	MaxPlayers       int
	MaxRounds        int
	StrokesPerTurn   int
	GeneratorTimeout time.Duration
}

// TransportConfig holds websocket limits
type TransportConfig struct {
	MaxMessageBytes    int64
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load reads an optional .env file, then builds the configuration from
// environment variables with defaults. Variables already set win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromEnv(), nil
}

// FromEnv builds the configuration from environment variables only
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Host:           getEnv("HOST", "0.0.0.0"),
			Env:            getEnv("ENV", "development"),
			PublicURL:      strings.TrimSuffix(getEnv("PUBLIC_URL", ""), "/"),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Game: GameConfig{
			MaxPlayers:       getEnvInt("MAX_PLAYERS", 8),
			MaxRounds:        getEnvInt("MAX_ROUNDS", 3),
			StrokesPerTurn:   getEnvInt("STROKES_PER_TURN", 2),
			GeneratorTimeout: time.Duration(getEnvInt("GENERATOR_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Transport: TransportConfig{
			MaxMessageBytes:    int64(getEnvInt("MAX_MESSAGE_BYTES", 512*1024)),
			RateLimitPerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// AllowsAnyOrigin reports whether ALLOWED_ORIGINS is the wildcard or empty
func (c *Config) AllowsAnyOrigin() bool {
	if len(c.Server.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range c.Server.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat returns an environment variable as a float or a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
