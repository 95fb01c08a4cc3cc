package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultStorageKey is the key the whole dataset is stored under.
const DefaultStorageKey = "contact-manager-data"

// Supported storage backends.
const (
	StorageBadger  = "badger"
	StorageRedis   = "redis"
	StorageSQLite  = "sqlite"
	StorageBrowser = "browser"
	StorageMemory  = "memory"
	StorageNone    = "none"
)

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Log      LogConfig      `mapstructure:"log"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Type string `mapstructure:"type"`
	Key  string `mapstructure:"key"`

	BadgerPath       string        `mapstructure:"badger_path"`
	BadgerInMemory   bool          `mapstructure:"badger_in_memory"`
	BadgerGCInterval time.Duration `mapstructure:"badger_gc_interval"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	SQLitePath string `mapstructure:"sqlite_path"`

	// BrowserURL is the page whose localStorage holds the data.
	BrowserURL     string        `mapstructure:"browser_url"`
	BrowserTimeout time.Duration `mapstructure:"browser_timeout"`
}

// HTTPConfig configures the JSON API.
type HTTPConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// TelegramConfig configures the bot front end.
type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

// LogConfig configures the root logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from <path>/config.yaml, an optional .env
// file and environment variables. Environment variables use the upper-cased
// key with dots replaced by underscores, e.g. STORAGE_TYPE or TELEGRAM_TOKEN.
func LoadConfig(path string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Env vars and defaults are enough without a file.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.type", StorageBadger)
	v.SetDefault("storage.key", DefaultStorageKey)
	v.SetDefault("storage.badger_path", "./badger_data")
	v.SetDefault("storage.badger_in_memory", false)
	v.SetDefault("storage.badger_gc_interval", 5*time.Minute)
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("storage.sqlite_path", "./contactboard.db")
	v.SetDefault("storage.browser_url", "")
	v.SetDefault("storage.browser_timeout", 30*time.Second)

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{"http://localhost:3000"})

	// Registered so AutomaticEnv can override it.
	v.SetDefault("telegram.token", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks settings every command depends on.
func (c Config) Validate() error {
	switch c.Storage.Type {
	case StorageBadger:
		if c.Storage.BadgerPath == "" && !c.Storage.BadgerInMemory {
			return fmt.Errorf("storage.badger_path is required for the badger backend")
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis backend")
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
		}
	case StorageBrowser:
		if c.Storage.BrowserURL == "" {
			return fmt.Errorf("storage.browser_url is required for the browser backend")
		}
	case StorageMemory, StorageNone:
	default:
		return fmt.Errorf("unknown storage type: %q", c.Storage.Type)
	}

	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key must not be empty")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log.format: %q", c.Log.Format)
	}
	return nil
}

// RequireTelegram fails when the bot token is missing.
func (c Config) RequireTelegram() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	return nil
}
