package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const DefaultSecret = "default-secret"

var ErrDatabaseURLRequired = errors.New("database url is required")

type Config struct {
	Debug                  bool          `yaml:"debug"`
	Dev                    bool          `yaml:"dev"`
	Host                   string        `yaml:"host"`
	Port                   string        `yaml:"port"`
	BaseURL                string        `yaml:"base_url"`
	Secret                 string        `yaml:"secret"`
	DatabaseURL            string        `yaml:"database_url"`
	MigrationSource        string        `yaml:"migration_source"`
	OtelCollectorUrl       string        `yaml:"otel_collector_url"`
	AllowOrigins           []string      `yaml:"allow_origins"`
	AccessTokenExpiration  time.Duration `yaml:"access_token_expiration"`
	RefreshTokenExpiration time.Duration `yaml:"refresh_token_expiration"`
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}
	return nil
}

// Log buffers configuration loading events that happen before the zap logger
// exists, so they can be replayed once logging is up.
type Log struct {
	entries []entry
}

type entry struct {
	level   string
	message string
	fields  []zap.Field
}

func (l *Log) info(message string, fields ...zap.Field) {
	l.entries = append(l.entries, entry{level: "info", message: message, fields: fields})
}

func (l *Log) warn(message string, fields ...zap.Field) {
	l.entries = append(l.entries, entry{level: "warn", message: message, fields: fields})
}

func (l *Log) FlushToZap(logger *zap.Logger) {
	for _, e := range l.entries {
		switch e.level {
		case "warn":
			logger.Warn(e.message, e.fields...)
		default:
			logger.Info(e.message, e.fields...)
		}
	}
	l.entries = nil
}

// Load builds the configuration by layering sources, later layers win:
// defaults, config.yaml, .env file, environment, command line flags.
func Load() (Config, *Log) {
	logs := &Log{}

	cfg := Config{
		Host:                   "localhost",
		Port:                   "8080",
		BaseURL:                "http://localhost:8080",
		Secret:                 DefaultSecret,
		MigrationSource:        "file://migrations",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
	}

	cfg = loadYaml(cfg, "config.yaml", logs)
	cfg = loadEnv(cfg, logs)
	cfg = loadFlags(cfg)

	return cfg, logs
}

func loadYaml(cfg Config, path string, logs *Log) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logs.warn("Failed to read config file", zap.String("path", path), zap.Error(err))
		}
		return cfg
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logs.warn("Failed to parse config file, ignoring it", zap.String("path", path), zap.Error(err))
		return cfg
	}

	logs.info("Loaded config file", zap.String("path", path))
	return cfg
}

func loadEnv(cfg Config, logs *Log) Config {
	if err := godotenv.Load(); err == nil {
		logs.info("Loaded .env file")
	}

	if v, ok := os.LookupEnv("DEBUG"); ok {
		cfg.Debug, _ = strconv.ParseBool(v)
	}
	if v, ok := os.LookupEnv("DEV"); ok {
		cfg.Dev, _ = strconv.ParseBool(v)
	}
	if v, ok := os.LookupEnv("HOST"); ok {
		cfg.Host = v
	}
	if v, ok := os.LookupEnv("PORT"); ok {
		cfg.Port = v
	}
	if v, ok := os.LookupEnv("BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := os.LookupEnv("SECRET"); ok {
		cfg.Secret = v
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		cfg.DatabaseURL = v
	}
	if v, ok := os.LookupEnv("MIGRATION_SOURCE"); ok {
		cfg.MigrationSource = v
	}
	if v, ok := os.LookupEnv("OTEL_COLLECTOR_URL"); ok {
		cfg.OtelCollectorUrl = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_EXPIRATION"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AccessTokenExpiration = d
		} else {
			logs.warn("Invalid ACCESS_TOKEN_EXPIRATION, keeping default", zap.String("value", v))
		}
	}
	if v, ok := os.LookupEnv("REFRESH_TOKEN_EXPIRATION"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RefreshTokenExpiration = d
		} else {
			logs.warn("Invalid REFRESH_TOKEN_EXPIRATION, keeping default", zap.String("value", v))
		}
	}

	return cfg
}

func loadFlags(cfg Config) Config {
	if flag.Lookup("host") == nil {
		flag.StringVar(&cfg.Host, "host", cfg.Host, "server host")
		flag.StringVar(&cfg.Port, "port", cfg.Port, "server port")
		flag.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "postgres connection url")
		flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	}
	flag.Parse()
	return cfg
}
