package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

/* Config é um pacote auxiliar. Poderia ser uma lib externa*/

const (
	DriverPostgres = "postgres"
	DriverTurso    = "turso"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port string `mapstructure:"PORT"`

	DBDriver         string `mapstructure:"DB_DRIVER"`
	DBName           string `mapstructure:"DBNAME"`
	TursoDatabaseURL string `mapstructure:"TURSO_DATABASE_URL"`
	TursoAuthToken   string `mapstructure:"TURSO_AUTH_TOKEN"`
	SQLitePath       string `mapstructure:"SQLITE_PATH"`

	PostgresHost               string `mapstructure:"POSTGRES_HOST"`
	PostgresPort               string `mapstructure:"POSTGRES_PORT"`
	PostgresUser               string `mapstructure:"POSTGRES_USER"`
	PostgresPassword           string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB                 string `mapstructure:"POSTGRES_DB"`
	PostgresSSLMode            string `mapstructure:"POSTGRES_SSLMODE"`
	PostgresMaxOpenConns       int    `mapstructure:"POSTGRES_MAX_OPEN_CONNS"`
	PostgresMaxIdleConns       int    `mapstructure:"POSTGRES_MAX_IDLE_CONNS"`
	PostgresConnMaxLifeMinutes int    `mapstructure:"POSTGRES_CONN_MAX_LIFE_MINUTES"`

	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int    `mapstructure:"REDIS_DB"`
	CacheTTLSeconds int    `mapstructure:"CACHE_TTL_SECONDS"`

	LogLevel       string `mapstructure:"LOG_LEVEL"`
	LogJSON        bool   `mapstructure:"LOG_JSON"`
	MetricsEnabled bool   `mapstructure:"METRICS_ENABLED"`
	ExportFileName string `mapstructure:"EXPORT_FILENAME"`
	MaxUploadMB    int    `mapstructure:"MAX_UPLOAD_MB"`
}

var defaults = map[string]any{
	"PORT":                           "8080",
	"DB_DRIVER":                      DriverSQLite,
	"DBNAME":                         "bookshelf.db",
	"TURSO_DATABASE_URL":             "",
	"TURSO_AUTH_TOKEN":               "",
	"SQLITE_PATH":                    "bookshelf.db",
	"POSTGRES_HOST":                  "localhost",
	"POSTGRES_PORT":                  "5432",
	"POSTGRES_USER":                  "",
	"POSTGRES_PASSWORD":              "",
	"POSTGRES_DB":                    "",
	"POSTGRES_SSLMODE":               "disable",
	"POSTGRES_MAX_OPEN_CONNS":        25,
	"POSTGRES_MAX_IDLE_CONNS":        5,
	"POSTGRES_CONN_MAX_LIFE_MINUTES": 5,
	"REDIS_ADDR":                     "",
	"REDIS_PASSWORD":                 "",
	"REDIS_DB":                       0,
	"CACHE_TTL_SECONDS":              300,
	"LOG_LEVEL":                      "info",
	"LOG_JSON":                       true,
	"METRICS_ENABLED":                true,
	"EXPORT_FILENAME":                "books.csv",
	"MAX_UPLOAD_MB":                  10,
}

// GetConfig reads .env (TOML) from the working directory, if present, and the environment.
func GetConfig() (*Config, error) {
	return Load(".")
}

// Load reads the .env file from dir. Environment variables override the file.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var config Config
	err = v.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	config.DBDriver = strings.ToLower(config.DBDriver)
	return &config, nil
}

// Validate checks the settings required by the selected driver
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("MAX_UPLOAD_MB must be at least 1")
	}
	switch c.DBDriver {
	case DriverPostgres:
		return c.ValidatePostgres()
	case DriverTurso:
		if c.TursoDatabaseURL == "" {
			return fmt.Errorf("TURSO_DATABASE_URL is required for driver %s", c.DBDriver)
		}
		if c.DBName == "" {
			return fmt.Errorf("DBNAME is required for driver %s", c.DBDriver)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for driver %s", c.DBDriver)
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// ValidatePostgres checks the PostgreSQL connection settings
func (c *Config) ValidatePostgres() error {
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if c.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}
	return nil
}

// PostgresConnectionString builds a lib/pq URL
func (c *Config) PostgresConnectionString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   c.PostgresHost + ":" + c.PostgresPort,
		Path:   c.PostgresDB,
	}
	q := u.Query()
	q.Set("sslmode", c.PostgresSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Config) GetPostgresMaxOpenConns() int {
	return positiveOr(c.PostgresMaxOpenConns, 25)
}

func (c *Config) GetPostgresMaxIdleConns() int {
	return positiveOr(c.PostgresMaxIdleConns, 5)
}

func (c *Config) GetPostgresConnMaxLifeMinutes() int {
	return positiveOr(c.PostgresConnMaxLifeMinutes, 5)
}

// MaxUploadBytes is the largest CSV accepted by the import endpoint
func (c *Config) MaxUploadBytes() int64 {
	return int64(positiveOr(c.MaxUploadMB, 10)) << 20
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
