package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverMongoDB = "mongodb"
	StoreDriverMemory  = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	MongoDB   MongoDBConfig
	Analytics AnalyticsConfig
	Reporting ReportingConfig
	SMS       SMSConfig
	Sheets    SheetsConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI            string
	DBName         string
	ConnectRetries int
}

// AnalyticsConfig tunes the report analytics.
type AnalyticsConfig struct {
	// TrackingCode is the department that reports once per showroom.
	TrackingCode string
	// TrendAveragePolicy is "fixed" (divide by 7) or "present" (divide by days with reports).
	TrendAveragePolicy string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// SMSConfig contains credentials for the SMS gateway used by digests.
type SMSConfig struct {
	BaseURL    string
	APIKey     string
	SenderID   string
	Recipients []string
}

// Enabled reports whether digests can be delivered.
func (c SMSConfig) Enabled() bool {
	return c.APIKey != "" && len(c.Recipients) > 0
}

// SheetsConfig contains configuration required to export rollups to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	RollupRange     string
}

// Enabled reports whether rollup export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != ""
}

// LogConfig configures the zap logger and optional file rotation.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getenvWithDefault("STORE_DRIVER", StoreDriverMongoDB)),
		},
		MongoDB: MongoDBConfig{
			URI:            getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName:         getenvWithDefault("MONGODB_DB_NAME", "opsdash"),
			ConnectRetries: getenvInt("MONGODB_CONNECT_RETRIES", 5),
		},
		Analytics: AnalyticsConfig{
			TrackingCode:       strings.ToUpper(getenvWithDefault("TRACKING_DEPARTMENT_CODE", "TRACK")),
			TrendAveragePolicy: strings.ToLower(getenvWithDefault("TREND_AVERAGE_POLICY", "fixed")),
		},
		Reporting: ReportingConfig{
			CronSchedule: os.Getenv("DIGEST_CRON_SCHEDULE"),
			Timezone:     getenvWithDefault("TIMEZONE", "Africa/Nairobi"),
		},
		SMS: SMSConfig{
			BaseURL:    os.Getenv("SMS_BASE_URL"),
			APIKey:     os.Getenv("SMS_API_KEY"),
			SenderID:   getenvWithDefault("SMS_SENDER_ID", "OPSDASH"),
			Recipients: splitList(os.Getenv("DIGEST_RECIPIENTS")),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			RollupRange:     getenvWithDefault("GOOGLE_SHEET_ROLLUP_RANGE", "Rollups!A:H"),
		},
		Log: LogConfig{
			Level:      strings.ToLower(getenvWithDefault("LOG_LEVEL", "info")),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getenvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getenvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getenvInt("LOG_MAX_AGE_DAYS", 30),
		},
	}

	if _, ok := os.LookupEnv("DIGEST_CRON_SCHEDULE"); !ok {
		cfg.Reporting.CronSchedule = "0 20 * * *"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Store.Driver {
	case StoreDriverMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if c.MongoDB.ConnectRetries < 0 {
		return errors.New("MONGODB_CONNECT_RETRIES must not be negative")
	}

	if c.Analytics.TrackingCode == "" {
		return errors.New("TRACKING_DEPARTMENT_CODE must not be empty")
	}

	switch c.Analytics.TrendAveragePolicy {
	case "fixed", "present":
	default:
		return fmt.Errorf("unsupported TREND_AVERAGE_POLICY %q", c.Analytics.TrendAveragePolicy)
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}

	if c.SMS.APIKey != "" && c.SMS.BaseURL == "" {
		return errors.New("SMS_BASE_URL must be provided when SMS_API_KEY is set")
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_DATABASE_ID is set")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported LOG_LEVEL %q", c.Log.Level)
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
