package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/interest"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverDynamoDB = "dynamodb"
	DriverMemory   = "memory"
)

// Config holds the process configuration read from the environment.
type Config struct {
	DiscordToken string
	ChannelID    string
	HTTPPort     string

	StoreDriver       string
	SQLitePath        string
	DatabaseURL       string
	LoansTableName    string
	PaymentsTableName string
	AccrualQueueURL   string
	EventsQueueURL    string
	SweepSchedule     string
	Holidays          string
	Timezone          string
	LogLevel          string
	LogFormat         string
}

// Load reads a .env file when one exists, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	return &Config{
		DiscordToken:      os.Getenv("DISCORD_TOKEN"),
		ChannelID:         os.Getenv("CHANNEL_ID"),
		HTTPPort:          getEnv("HTTP_PORT", "3000"),
		StoreDriver:       getEnv("STORE_DRIVER", DriverSQLite),
		SQLitePath:        getEnv("SQLITE_PATH", defaultSQLitePath()),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		LoansTableName:    os.Getenv("DYNAMODB_LOANS_TABLE_NAME"),
		PaymentsTableName: os.Getenv("DYNAMODB_PAYMENTS_TABLE_NAME"),
		AccrualQueueURL:   os.Getenv("SQS_ACCRUAL_QUEUE_URL"),
		EventsQueueURL:    os.Getenv("SQS_EVENTS_QUEUE_URL"),
		SweepSchedule:     getEnv("SWEEP_SCHEDULE", "@hourly"),
		Holidays:          os.Getenv("HOLIDAYS"),
		Timezone:          getEnv("TIMEZONE", "UTC"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
	}
}

// RequireDiscord checks the settings the Discord gateway needs.
func (c *Config) RequireDiscord() error {
	if c.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN environment variable not set")
	}
	if c.ChannelID == "" {
		return errors.New("CHANNEL_ID environment variable not set")
	}
	return nil
}

// RequireStore checks the settings of the selected store driver.
func (c *Config) RequireStore() error {
	switch c.StoreDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH environment variable not set")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL environment variable not set")
		}
	case DriverDynamoDB:
		if c.LoansTableName == "" || c.PaymentsTableName == "" {
			return errors.New("one or more DynamoDB table name environment variables are not set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// RequireAccrualQueue checks the settings of the accrual fan-out queue.
func (c *Config) RequireAccrualQueue() error {
	if c.AccrualQueueURL == "" {
		return errors.New("SQS_ACCRUAL_QUEUE_URL environment variable not set")
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Calendar builds the holiday calendar from Holidays, in Timezone.
func (c *Config) Calendar() (*interest.Calendar, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	cal, err := interest.ParseCalendar(loc, c.Holidays)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HOLIDAYS: %w", err)
	}
	return cal, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// defaultSQLitePath keeps the database on the mounted volume when running in the container.
func defaultSQLitePath() string {
	if info, err := os.Stat("/app/data"); err == nil && info.IsDir() {
		return filepath.Join("/app/data", "blockdebt.db")
	}
	return "blockdebt.db"
}
