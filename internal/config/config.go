package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"
)

type Config struct {
	// Listeners
	Addr        string
	UDPAddr     string
	MetricsAddr string

	// Tokens
	Issuer     string
	TokenTTL   time.Duration
	SigningKey string

	// Storage: DatabaseURL selects postgres, otherwise DBPath opens sqlite.
	DatabaseURL string
	DBPath      string

	LogLevel    string
	Environment string
}

func Load() Config {
	return Config{
		Addr:        getenv("ADDR", ":8080"),
		UDPAddr:     getenv("UDP_ADDR", ""),
		MetricsAddr: getenv("METRICS_ADDR", ":9090"),

		Issuer:     getenv("ISSUER", "reComm"),
		TokenTTL:   getdur("TOKEN_TTL", 12*time.Hour),
		SigningKey: must("SIGNING_KEY"),

		DatabaseURL: getenv("DATABASE_URL", ""),
		DBPath:      getenv("DB_PATH", "recomm.db"),

		LogLevel:    getenv("LOG_LEVEL", "info"),
		Environment: getenv("ENVIRONMENT", "dev"),
	}
}

// BindFlags registers the CLI overrides on fs. The returned function applies
// any flag the caller actually set on top of the env-derived config.
func (c *Config) BindFlags(fs *pflag.FlagSet) func() {
	port := fs.IntP("port", "p", 0, "TCP port to listen on (overrides ADDR)")
	logLevel := fs.StringP("log-level", "v", "", "log level: debug, info, warn, error")
	dbPath := fs.StringP("database", "d", "", "sqlite database file path")

	return func() {
		if fs.Changed("port") {
			c.Addr = fmt.Sprintf(":%d", *port)
		}
		if fs.Changed("log-level") {
			c.LogLevel = *logLevel
		}
		if fs.Changed("database") {
			c.DBPath = *dbPath
			c.DatabaseURL = ""
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("missing required env", "key", k)
		os.Exit(1)
	}
	return v
}
