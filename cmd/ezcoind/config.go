package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/xraph/ezcoin/extension"
)

// Config is the daemon configuration. Defaults come from defaultConfig, an
// optional YAML file named by EZCOIN_CONFIG_FILE overrides them, and
// EZCOIN_* environment variables override both.
type Config struct {
	Addr            string        `yaml:"addr"             env:"EZCOIN_ADDR"`
	LogLevel        string        `yaml:"log_level"        env:"EZCOIN_LOG_LEVEL"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"EZCOIN_SHUTDOWN_TIMEOUT"`

	// Store is "sqlite" (a key-value file) or "memory".
	Store    string `yaml:"store"     env:"EZCOIN_STORE"`
	DataPath string `yaml:"data_path" env:"EZCOIN_DATA_PATH"`

	StartingGrant    int64         `yaml:"starting_grant"     env:"EZCOIN_STARTING_GRANT"`
	MaxCommitRetries int           `yaml:"max_commit_retries" env:"EZCOIN_MAX_COMMIT_RETRIES"`
	PaymentDelay     time.Duration `yaml:"payment_delay"      env:"EZCOIN_PAYMENT_DELAY"`
	AssistantDelay   time.Duration `yaml:"assistant_delay"    env:"EZCOIN_ASSISTANT_DELAY"`
	StripeSecretKey  string        `yaml:"stripe_secret_key"  env:"EZCOIN_STRIPE_SECRET_KEY"`

	JWTSecret    string   `yaml:"jwt_secret"    env:"EZCOIN_JWT_SECRET"`
	JWTIssuer    string   `yaml:"jwt_issuer"    env:"EZCOIN_JWT_ISSUER"`
	DisableAuth  bool     `yaml:"disable_auth"  env:"EZCOIN_DISABLE_AUTH"`
	AllowOrigins []string `yaml:"allow_origins" env:"EZCOIN_ALLOW_ORIGINS" envSeparator:","`
	Metrics      bool     `yaml:"metrics"       env:"EZCOIN_METRICS"`
}

func defaultConfig() Config {
	engine := extension.DefaultConfig()
	return Config{
		Addr:             ":8080",
		LogLevel:         "info",
		ShutdownTimeout:  10 * time.Second,
		Store:            "sqlite",
		DataPath:         "ezcoin.db",
		StartingGrant:    engine.StartingGrant,
		MaxCommitRetries: engine.MaxCommitRetries,
		PaymentDelay:     engine.PaymentDelay,
		AssistantDelay:   engine.AssistantDelay,
		Metrics:          true,
	}
}

// LoadConfig resolves the configuration from defaults, file and environment.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("EZCOIN_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Store {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if !c.DisableAuth && c.JWTSecret == "" {
		return fmt.Errorf("EZCOIN_JWT_SECRET is required unless EZCOIN_DISABLE_AUTH is set")
	}
	if c.StartingGrant < 0 {
		return fmt.Errorf("starting grant %d is negative", c.StartingGrant)
	}
	return nil
}

// Engine maps the daemon settings onto the extension config the engine
// options are built from.
func (c Config) Engine() extension.Config {
	return extension.Config{
		StartingGrant:    c.StartingGrant,
		MaxCommitRetries: c.MaxCommitRetries,
		PaymentDelay:     c.PaymentDelay,
		AssistantDelay:   c.AssistantDelay,
		StripeSecretKey:  c.StripeSecretKey,
	}
}

func (c Config) slogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
