package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Delivery drivers.
const (
	DeliveryLog      = "log"
	DeliveryTelegram = "telegram"
	DeliveryAMQP     = "amqp"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env       string    `mapstructure:"env"` // current application environment (local, dev, production etc)
	HTTP      HTTP      `mapstructure:"http"`
	Storage   Storage   `mapstructure:"storage"`
	DB        DB        `mapstructure:"database"`
	LLM       LLM       `mapstructure:"llm"`
	Scheduler Scheduler `mapstructure:"scheduler"`
	Delivery  Delivery  `mapstructure:"delivery"`
	Telegram  Telegram  `mapstructure:"telegram"`
}

type HTTP struct {
	Addr string `mapstructure:"addr"`
}

type Storage struct {
	Driver string `mapstructure:"driver"` // memory or postgres
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

type LLM struct {
	Provider     string        `mapstructure:"provider"` // gemini, openai, static
	Model        string        `mapstructure:"model"`    // empty means the provider's default
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"` // per generation call
	Resilience   bool          `mapstructure:"resilience"`
	GeminiAPIKey string        `mapstructure:"-"`
	OpenAIAPIKey string        `mapstructure:"-"`
}

type Scheduler struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxConcurrent int  `mapstructure:"max_concurrent"`
}

type Delivery struct {
	Drivers []string `mapstructure:"drivers"` // any of log, telegram, amqp
	Queue   string   `mapstructure:"queue"`
	AMQPURL string   `mapstructure:"-"`
}

// Has reports whether the named delivery driver is enabled.
func (d Delivery) Has(driver string) bool {
	return slices.Contains(d.Drivers, driver)
}

type Telegram struct {
	Token   string `mapstructure:"-"`
	Polling bool   `mapstructure:"polling"` // run the long-polling chat front-end
}

// TelegramEnabled reports whether anything needs the Telegram bot API.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Polling || c.Delivery.Has(DeliveryTelegram)
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads .env, an optional ./config/config.yaml and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Map nested keys to ENV style names, e.g. llm.provider -> LLM_PROVIDER.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("amqp_url", "AMQP_URL")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if port := v.GetString("port"); port != "" {
		cfg.HTTP.Addr = ":" + port
	}

	// Sensitive values only come from the environment.
	cfg.Telegram.Token = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.LLM.GeminiAPIKey = v.GetString("gemini_api_key")
	cfg.LLM.OpenAIAPIKey = v.GetString("openai_api_key")
	cfg.Delivery.AMQPURL = v.GetString("amqp_url")

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultModel(cfg.LLM.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("http.addr", ":4111")
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.resilience", true)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.max_concurrent", 10)
	v.SetDefault("delivery.drivers", []string{DeliveryLog})
	v.SetDefault("delivery.queue", "challenge.deliveries")
	v.SetDefault("telegram.polling", false)
}

// DefaultModel returns the model used when llm.model is unset.
func DefaultModel(provider string) string {
	switch provider {
	case "gemini":
		return "gemini-2.5-flash"
	case "openai":
		return "gpt-4o-mini"
	default:
		return ""
	}
}

// Validate checks enum values and that every enabled feature has its secret.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	switch c.LLM.Provider {
	case "gemini", "openai", "static":
	case "mock":
		return fmt.Errorf("%w: llm provider %q is only available in tests", ErrInvalidConfig, c.LLM.Provider)
	default:
		return fmt.Errorf("%w: unknown llm provider %q", ErrInvalidConfig, c.LLM.Provider)
	}

	for _, d := range c.Delivery.Drivers {
		switch d {
		case DeliveryLog, DeliveryTelegram, DeliveryAMQP:
		default:
			return fmt.Errorf("%w: unknown delivery driver %q", ErrInvalidConfig, d)
		}
	}

	var missing []string
	if c.TelegramEnabled() && c.Telegram.Token == "" {
		missing = append(missing, "TELEGRAM_API_TOKEN")
	}
	if c.Storage.Driver == StoragePostgres && c.DB.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.LLM.Provider == "gemini" && c.LLM.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.LLM.Provider == "openai" && c.LLM.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.Delivery.Has(DeliveryAMQP) && c.Delivery.AMQPURL == "" {
		missing = append(missing, "AMQP_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingEnvironmentVariables, strings.Join(missing, ", "))
	}

	return nil
}
