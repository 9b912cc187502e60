// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Render   RenderConfig
	Export   ExportConfig
	Profiles ProfilesConfig
	History  HistoryConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 5000)
	Port int `env:"SERVER_PORT" default:"5000"`

	// ReadTimeout is the maximum duration for reading request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing a response (default: 5m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"5m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 5m)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"5m"`
}

// UploadConfig holds measurement upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum size of one request body in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`

	// MaxMemory is the multipart form memory before spilling to disk (default: 32MB)
	MaxMemory int64 `env:"UPLOAD_MAX_MEMORY" default:"33554432"`
}

// RenderConfig holds settings for the rendering session.
type RenderConfig struct {
	// Width of rendered graphs in pixels (default: 1200)
	Width int `env:"RENDER_WIDTH" default:"1200"`

	// Height of rendered graphs in pixels (default: 800)
	Height int `env:"RENDER_HEIGHT" default:"800"`

	// MaxWait is how long a request waits for the rendering session (default: 60s)
	MaxWait time.Duration `env:"RENDER_MAX_WAIT" default:"60s"`
}

// ExportConfig holds slide bundle and project archive settings.
type ExportConfig struct {
	// Dir is where bundles and the project archive are written (default: working directory)
	Dir string `env:"EXPORT_DIR" default:"."`

	// ProjectFile is the project archive name (default: labplot_project.zip)
	ProjectFile string `env:"EXPORT_PROJECT_FILE" default:"labplot_project.zip"`
}

// ProfilesConfig points at extra instrument profiles.
type ProfilesConfig struct {
	// File is an optional tab-separated profile file loaded at startup
	File string `env:"PROFILES_FILE"`
}

// HistoryConfig holds the optional run history database settings.
type HistoryConfig struct {
	// URL is the PostgreSQL connection string; history is disabled when empty
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Enabled reports whether run history should be recorded.
func (c *HistoryConfig) Enabled() bool {
	return c.URL != ""
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
	return c.Host + ":" + strconv.Itoa(c.Port)
}
