package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Acquire  AcquireConfig  `yaml:"acquire"`
	Queue    QueueConfig    `yaml:"queue"`
	Watch    WatchConfig    `yaml:"watch"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string        `yaml:"dsn"`
	MaxConns         int32         `yaml:"max_conns"`
	MinConns         int32         `yaml:"min_conns"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	StatementTimeout time.Duration `yaml:"statement_timeout"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string `yaml:"grpc_addr"`
}

// AcquireConfig holds text acquisition configuration
type AcquireConfig struct {
	PDFEngine    string `yaml:"pdf_engine"`
	PdftotextBin string `yaml:"pdftotext_bin"`
	MaxFileSize  int64  `yaml:"max_file_size"`
	MaxPages     int    `yaml:"max_pages"`
}

// QueueConfig holds background processing configuration
type QueueConfig struct {
	Workers        int           `yaml:"workers"`
	Size           int           `yaml:"size"`
	ProcessTimeout time.Duration `yaml:"process_timeout"`
}

// WatchConfig holds directory watch configuration
type WatchConfig struct {
	Dirs        []string      `yaml:"dirs"`
	Debounce    time.Duration `yaml:"debounce"`
	InitialScan bool          `yaml:"initial_scan"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			MaxConns:        20,
			MinConns:        5,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
		},
		Server: ServerConfig{
			GRPCAddr: ":8080",
		},
		Acquire: AcquireConfig{
			PDFEngine:    "native",
			PdftotextBin: "pdftotext",
			MaxFileSize:  16 << 20,
		},
		Queue: QueueConfig{
			Workers:        4,
			Size:           256,
			ProcessTimeout: 3 * time.Minute,
		},
		Watch: WatchConfig{
			Debounce:    500 * time.Millisecond,
			InitialScan: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	c := DefaultConfig()
	c.applyEnv()
	return c
}

// LoadConfigFile reads a YAML file over the defaults. Environment variables win over the file.
func LoadConfigFile(path string) (*Config, error) {
	c := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, NewAppError(CodeConfig, "read config file", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, NewAppError(CodeConfig, fmt.Sprintf("parse %s", path), err)
	}
	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	c.Database.DSN = getEnv("DB_URL", c.Database.DSN)
	c.Database.MaxConns = getEnvAsInt32("DB_MAX_CONNS", c.Database.MaxConns)
	c.Database.MinConns = getEnvAsInt32("DB_MIN_CONNS", c.Database.MinConns)
	c.Database.MaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", c.Database.MaxConnLifetime)
	c.Database.MaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", c.Database.MaxConnIdleTime)
	c.Database.DialTimeout = getEnvAsDuration("DB_DIAL_TIMEOUT", c.Database.DialTimeout)
	c.Database.StatementTimeout = getEnvAsDuration("DB_STATEMENT_TIMEOUT", c.Database.StatementTimeout)

	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)

	c.Acquire.PDFEngine = getEnv("PDF_ENGINE", c.Acquire.PDFEngine)
	c.Acquire.PdftotextBin = getEnv("PDFTOTEXT_BIN", c.Acquire.PdftotextBin)
	c.Acquire.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", c.Acquire.MaxFileSize)
	c.Acquire.MaxPages = getEnvAsInt("MAX_PAGES", c.Acquire.MaxPages)

	c.Queue.Workers = getEnvAsInt("QUEUE_WORKERS", c.Queue.Workers)
	c.Queue.Size = getEnvAsInt("QUEUE_SIZE", c.Queue.Size)
	c.Queue.ProcessTimeout = getEnvAsDuration("PROCESS_TIMEOUT", c.Queue.ProcessTimeout)

	c.Watch.Dirs = getEnvAsList("WATCH_DIRS", c.Watch.Dirs)
	c.Watch.Debounce = getEnvAsDuration("WATCH_DEBOUNCE", c.Watch.Debounce)
	c.Watch.InitialScan = getEnvAsBool("WATCH_INITIAL_SCAN", c.Watch.InitialScan)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated value, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError(CodeConfig, "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError(CodeConfig, "GRPC_ADDR is required", ErrInvalidInput)
	}
	switch c.Acquire.PDFEngine {
	case "native", "pdftotext":
	default:
		return NewAppError(CodeConfig, fmt.Sprintf("PDF_ENGINE must be native or pdftotext, got %q", c.Acquire.PDFEngine), ErrInvalidInput)
	}
	if c.Queue.Workers <= 0 || c.Queue.Size <= 0 {
		return NewAppError(CodeConfig, "QUEUE_WORKERS and QUEUE_SIZE must be positive", ErrInvalidInput)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return NewAppError(CodeConfig, "LOG_LEVEL is invalid", err)
	}
	return nil
}
