package extension

import "time"

// Config holds the EzCoin extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.ezcoin" or "ezcoin" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// StartingGrant is the balance of a first-time identity (default: 50).
	StartingGrant int64 `json:"starting_grant" mapstructure:"starting_grant" yaml:"starting_grant"`

	// MaxCommitRetries bounds reloads after a concurrent writer bumped an
	// account's version (default: 3).
	MaxCommitRetries int `json:"max_commit_retries" mapstructure:"max_commit_retries" yaml:"max_commit_retries"`

	// PaymentDelay is the pause of the simulated payment processor
	// (default: 2s). Ignored when StripeSecretKey is set.
	PaymentDelay time.Duration `json:"payment_delay" mapstructure:"payment_delay" yaml:"payment_delay"`

	// AssistantDelay is the pause of the simulated EzAI generator (default: 2s).
	AssistantDelay time.Duration `json:"assistant_delay" mapstructure:"assistant_delay" yaml:"assistant_delay"`

	// StripeSecretKey switches purchases to Stripe PaymentIntents.
	StripeSecretKey string `json:"stripe_secret_key" mapstructure:"stripe_secret_key" yaml:"stripe_secret_key"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		StartingGrant:    50,
		MaxCommitRetries: 3,
		PaymentDelay:     2 * time.Second,
		AssistantDelay:   2 * time.Second,
	}
}
