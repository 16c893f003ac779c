package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Farm      FarmConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	Notify    NotifyConfig
	MongoDB   MongoDBConfig
	MQTT      MQTTConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port       string
	LogLevel   string
	AdminToken string
}

// FarmConfig points at an optional YAML file imported on first start.
type FarmConfig struct {
	ImportFile string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the sheet ledger is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// Location resolves Timezone.
func (c ReportingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// NotifyConfig holds the outbound notification webhook.
type NotifyConfig struct {
	WebhookURL string
	Token      string
}

// Enabled reports whether notifications are configured.
func (c NotifyConfig) Enabled() bool { return c.WebhookURL != "" }

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether a database is configured.
func (c MongoDBConfig) Enabled() bool { return c.URI != "" }

// MQTTConfig holds the Home Assistant MQTT bridge settings.
type MQTTConfig struct {
	BrokerHost      string
	BrokerPort      int
	ClientID        string
	Username        string
	Password        string
	TopicPrefix     string
	DiscoveryPrefix string
	QoS             byte
}

// Enabled reports whether the MQTT bridge should connect.
func (c MQTTConfig) Enabled() bool { return c.BrokerHost != "" }

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
		// A missing .env file is fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	port, err := getenvInt("MQTT_BROKER_PORT", 1883)
	if err != nil {
		return nil, err
	}
	qos, err := getenvInt("MQTT_QOS", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:       getenvWithDefault("APP_PORT", "8080"),
			LogLevel:   getenvWithDefault("LOG_LEVEL", "info"),
			AdminToken: os.Getenv("ADMIN_TOKEN"),
		},
		Farm: FarmConfig{
			ImportFile: os.Getenv("FARM_IMPORT_FILE"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
			Token:      os.Getenv("NOTIFY_TOKEN"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "chickenfarm"),
		},
		MQTT: MQTTConfig{
			BrokerHost:      os.Getenv("MQTT_BROKER_HOST"),
			BrokerPort:      port,
			ClientID:        getenvWithDefault("MQTT_CLIENT_ID", "chickenfarm"),
			Username:        os.Getenv("MQTT_USERNAME"),
			Password:        os.Getenv("MQTT_PASSWORD"),
			TopicPrefix:     getenvWithDefault("MQTT_TOPIC_PREFIX", "chicken"),
			DiscoveryPrefix: getenvWithDefault("MQTT_DISCOVERY_PREFIX", "homeassistant"),
			QoS:             byte(qos),
		},
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

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if _, err := cron.ParseStandard(c.Reporting.CronSchedule); err != nil {
		return fmt.Errorf("REPORT_CRON_SCHEDULE is invalid: %w", err)
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := c.Reporting.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if c.MQTT.Enabled() {
		switch {
		case c.MQTT.BrokerPort <= 0 || c.MQTT.BrokerPort > 65535:
			return errors.New("MQTT_BROKER_PORT must be between 1 and 65535")
		case c.MQTT.QoS > 2:
			return errors.New("MQTT_QOS must be 0, 1 or 2")
		case c.MQTT.TopicPrefix == "":
			return errors.New("MQTT_TOPIC_PREFIX must not be empty")
		case c.MQTT.DiscoveryPrefix == "":
			return errors.New("MQTT_DISCOVERY_PREFIX must not be empty")
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
