package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultMaxImportBytes caps uploaded lesson files at 1 MiB
const DefaultMaxImportBytes = 1 << 20

// Config holds all application configuration
type Config struct {
	BotToken       string
	BotPassword    string
	MaxImportBytes int64
	MetricsAddr    string
	Database       DatabaseConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	db, err := loadDatabase()
	if err != nil {
		return nil, err
	}

	maxBytes, err := getEnvInt64("MAX_IMPORT_BYTES", DefaultMaxImportBytes)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken:       os.Getenv("BOT_TOKEN"),
		BotPassword:    os.Getenv("BOT_PASSWORD"),
		MaxImportBytes: maxBytes,
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		Database:       *db,
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.BotPassword == "" {
		return nil, fmt.Errorf("BOT_PASSWORD is required")
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings, for tools that do not run the bot
func LoadDatabase() (*DatabaseConfig, error) {
	_ = godotenv.Load()
	return loadDatabase()
}

func loadDatabase() (*DatabaseConfig, error) {
	db := &DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		Name:     getEnv("DB_NAME", "lessonbook"),
		User:     getEnv("DB_USER", "lessonbook"),
		Password: os.Getenv("DB_PASSWORD"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
	if db.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	return db, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return c.Database.DSN()
}

// DSN returns PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return n, nil
}
