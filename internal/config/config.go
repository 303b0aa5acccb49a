package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "BOOKING_"

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// KafkaConfig holds Kafka settings. No brokers means Kafka is disabled.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// MetricsConfig holds the credentials guarding /metrics. Empty disables auth.
type MetricsConfig struct {
	User     string
	Password string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	Store       string
	SeedFile    string
	DBConfig    DatabaseConfig
	KafkaConfig KafkaConfig
	Metrics     MetricsConfig
}

// Load reads configuration from BOOKING_* environment variables, falling back
// to an optional .env file in the working directory.
func Load() (*ServiceConfig, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file. A missing file is not an error.
func LoadFile(path string) (*ServiceConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &ServiceConfig{
		Port:     v.GetString(key("SERVICE_PORT")),
		AppEnv:   v.GetString(key("APP_ENV")),
		Store:    strings.ToLower(v.GetString(key("STORE"))),
		SeedFile: v.GetString(key("SEED_FILE")),
		DBConfig: DatabaseConfig{
			Host:            v.GetString(key("DB_HOST")),
			Port:            v.GetInt(key("DB_PORT")),
			User:            v.GetString(key("DB_USER")),
			Password:        v.GetString(key("DB_PASSWORD")),
			DBName:          v.GetString(key("DB_NAME")),
			SSLMode:         v.GetString(key("DB_SSLMODE")),
			MaxOpenConns:    v.GetInt(key("DB_MAX_OPEN_CONNS")),
			MaxIdleConns:    v.GetInt(key("DB_MAX_IDLE_CONNS")),
			ConnMaxLifetime: v.GetDuration(key("DB_CONN_MAX_LIFETIME")),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     splitList(v.GetString(key("KAFKA_BROKERS"))),
			GroupPrefix: v.GetString(key("KAFKA_GROUP_PREFIX")),
		},
		Metrics: MetricsConfig{
			User:     v.GetString(key("METRICS_USER")),
			Password: v.GetString(key("METRICS_PASSWORD")),
		},
	}

	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *ServiceConfig) Validate() error {
	if c.Port == ":" {
		return errors.New("service port is required")
	}
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DBConfig.Host == "" || c.DBConfig.DBName == "" {
			return errors.New("postgres store requires DB_HOST and DB_NAME")
		}
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreMemory, StorePostgres)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(key("SERVICE_PORT"), ":8004")
	v.SetDefault(key("APP_ENV"), "development")
	v.SetDefault(key("STORE"), StoreMemory)

	v.SetDefault(key("DB_HOST"), "localhost")
	v.SetDefault(key("DB_PORT"), 5432)
	v.SetDefault(key("DB_USER"), "postgres")
	v.SetDefault(key("DB_PASSWORD"), "postgres")
	v.SetDefault(key("DB_NAME"), "booking_db")
	v.SetDefault(key("DB_SSLMODE"), "disable")
	v.SetDefault(key("DB_MAX_OPEN_CONNS"), 25)
	v.SetDefault(key("DB_MAX_IDLE_CONNS"), 5)
	v.SetDefault(key("DB_CONN_MAX_LIFETIME"), "1h")

	v.SetDefault(key("KAFKA_BROKERS"), "")
	v.SetDefault(key("KAFKA_GROUP_PREFIX"), "")

	v.SetDefault(key("METRICS_USER"), "")
	v.SetDefault(key("METRICS_PASSWORD"), "")
}

func key(name string) string { return envPrefix + name }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
