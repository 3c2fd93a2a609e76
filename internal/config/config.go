package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment        string
	LogLevel           zerolog.Level
	ListenAddr         string
	HTTPTimeout        time.Duration
	OverpassBaseURL    string
	UserAgent          string
	AmenityTag         string
	SearchRadiusMeters int
	LocateTimeout      time.Duration
	LocateMaxCachedAge time.Duration
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithListenAddr allows setting the HTTP listen address
func WithListenAddr(addr string) Option {
	return func(c *Config) {
		c.ListenAddr = addr
	}
}

// WithOverpassBaseURL allows pointing at a different Overpass instance
func WithOverpassBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.OverpassBaseURL = baseURL
	}
}

// WithSearchRadius allows setting the station search radius in meters
func WithSearchRadius(meters int) Option {
	return func(c *Config) {
		c.SearchRadiusMeters = meters
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:        "production",
		LogLevel:           zerolog.InfoLevel,
		ListenAddr:         ":8080",
		HTTPTimeout:        35 * time.Second,
		OverpassBaseURL:    "https://overpass-api.de",
		UserAgent:          "fuelradar/1.0",
		AmenityTag:         "fuel",
		SearchRadiusMeters: 2000,
		LocateTimeout:      30 * time.Second,
		LocateMaxCachedAge: 60 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithListenAddr(getEnvOrDefault("LISTEN_ADDR", ":8080")),
		WithOverpassBaseURL(getEnvOrDefault("OVERPASS_BASE_URL", "https://overpass-api.de")),
		WithSearchRadius(getEnvInt("SEARCH_RADIUS_METERS", 2000)),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}
