package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	defaultDatabasePath   = "movie_archive.db"
	defaultPort           = "8080"
	defaultAllowedOrigins = "http://localhost:5173"
	defaultLogLevel       = "info"
	defaultDBLogLevel     = "warn"
)

const (
	defaultSlowQueryMillis = 1000
	defaultRequestTimeout  = 60
)

type Config struct {
	// database path
	DatabasePath string

	// http server
	Port               string
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration

	// logging
	LogLevel hclog.Level
	LogJSON  bool

	// gorm logger settings
	DBLogLevel      string
	DBSlowThreshold time.Duration
}

// warn reports config fallbacks. It is replaced in tests.
var warn = hclog.New(&hclog.LoggerOptions{Name: "config", Level: hclog.Warn})

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		warn.Warn("invalid integer, using default", "var", envVar, "value", valStr, "default", defaultVal, "error", err)
		return defaultVal
	}
	return val
}

func getEnvBoolOrDefault(envVar string, defaultVal bool) bool {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		warn.Warn("invalid boolean, using default", "var", envVar, "value", valStr, "default", defaultVal)
		return defaultVal
	}
	return val
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func LoadConfig() (Config, error) {
	levelStr := getEnvOrDefault("LOG_LEVEL", defaultLogLevel)
	level := hclog.LevelFromString(levelStr)
	if level == hclog.NoLevel {
		warn.Warn("invalid log level, using default", "var", "LOG_LEVEL", "value", levelStr, "default", defaultLogLevel)
		level = hclog.Info
	}

	cfg := Config{
		DatabasePath:       getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
		Port:               getEnvOrDefault("PORT", defaultPort),
		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins)),
		RequestTimeout:     time.Duration(getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)) * time.Second,
		LogLevel:           level,
		LogJSON:            getEnvBoolOrDefault("LOG_JSON", false),
		DBLogLevel:         getEnvOrDefault("DB_LOG_LEVEL", defaultDBLogLevel),
		DBSlowThreshold:    time.Duration(getEnvIntOrDefault("DB_SLOW_THRESHOLD_MS", defaultSlowQueryMillis)) * time.Millisecond,
	}

	return cfg, nil
}

// NewLogger builds the root application logger from cfg.
func (c Config) NewLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       "moviearchive",
		Level:      c.LogLevel,
		JSONFormat: c.LogJSON,
	})
}
