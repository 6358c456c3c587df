package extension

import (
	"time"

	"github.com/xraph/ezcoin"
	"github.com/xraph/ezcoin/plugin"
	"github.com/xraph/ezcoin/store"
)

// Option configures the EzCoin Forge extension.
type Option func(*Extension)

// WithStore sets the store for the engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithEngineOption passes an ezcoin.Option through to the underlying engine.
// Pass-through options are applied after config-derived ones.
func WithEngineOption(opt ezcoin.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers an engine plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, ezcoin.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithStartingGrant sets the balance of first-time identities.
func WithStartingGrant(coins int64) Option {
	return func(e *Extension) { e.config.StartingGrant = coins }
}

// WithPaymentDelay sets the simulated payment pause.
func WithPaymentDelay(d time.Duration) Option {
	return func(e *Extension) { e.config.PaymentDelay = d }
}

// WithStripeSecretKey settles purchases through Stripe.
func WithStripeSecretKey(key string) Option {
	return func(e *Extension) { e.config.StripeSecretKey = key }
}
