// Package config provides centralized configuration for the importer.
// It loads settings from environment variables with sensible defaults and
// validates everything on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Store   StoreConfig
	Source  SourceConfig
	Batch   BatchConfig
	Server  ServerConfig
	Logging LoggingConfig
}

// StoreConfig holds MySQL connection settings.
type StoreConfig struct {
	// DSN is the MySQL connection string without a database name,
	// e.g. "user:pass@tcp(localhost:3306)/" (required)
	DSN string `env:"MYSQL_DSN" envAlt:"DATABASE_DSN" required:"true"`

	// Database is the target database, created if missing (default: iBizData)
	Database string `env:"MYSQL_DATABASE" default:"iBizData"`

	// ConnectTimeout bounds the initial connect and ping (default: 10s)
	ConnectTimeout time.Duration `env:"MYSQL_CONNECT_TIMEOUT" default:"10s"`
}

// SourceConfig holds source data locations.
type SourceConfig struct {
	// IBizDir is the iBiz data directory (default: ./iBiz)
	IBizDir string `env:"IBIZ_DIR" default:"./iBiz"`

	// AddressBook is the Address Book vCard export (default: AddressBook.vcf)
	AddressBook string `env:"ADDRESS_BOOK" default:"AddressBook.vcf"`
}

// BatchConfig holds statement batching settings.
type BatchConfig struct {
	// MaxBytes is the batch byte ceiling (default: 2MiB). Keep this
	// materially below the server's max_allowed_packet.
	MaxBytes int `env:"BATCH_MAX_BYTES" default:"2097152"`
}

// ServerConfig holds the optional HTTP status server settings.
type ServerConfig struct {
	// Serve starts the HTTP server instead of a one-shot run (default: false)
	Serve bool `env:"SERVE" default:"false"`

	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ShutdownTimeout is the maximum graceful-shutdown wait (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
