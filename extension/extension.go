// Package extension provides the Forge extension adapter for EzCoin.
//
// It implements the forge.Extension interface to integrate the coin ledger
// and planner into a Forge application with DI registration and lifecycle
// management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.ezcoin" or "ezcoin" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/ezcoin"
	"github.com/xraph/ezcoin/ezai"
	"github.com/xraph/ezcoin/payment"
	"github.com/xraph/ezcoin/payment/stripepay"
	"github.com/xraph/ezcoin/store"
	"github.com/xraph/ezcoin/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "ezcoin"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Coin-gated wallet ledger and planner"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts EzCoin as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *ezcoin.Ledger
	store      store.Store
	engineOpts []ezcoin.Option
}

// New creates a new EzCoin Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying engine.
// This is nil until Register is called.
func (e *Extension) Engine() *ezcoin.Ledger { return e.engine }

// Config returns the resolved configuration.
func (e *Extension) Config() Config { return e.config }

// Register implements [forge.Extension]. It loads configuration,
// initializes the engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	e.engine = ezcoin.New(e.store, EngineOptions(e.config, e.engineOpts...)...)

	return vessel.Provide(fapp.Container(), func() (*ezcoin.Ledger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("ezcoin: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("ezcoin: engine not initialized")
	}
	return e.engine.Ping(ctx)
}

// EngineOptions turns a resolved config into engine options. extra is
// appended last so programmatic options win.
func EngineOptions(cfg Config, extra ...ezcoin.Option) []ezcoin.Option {
	opts := make([]ezcoin.Option, 0, len(extra)+4)

	opts = append(opts, ezcoin.WithStartingGrant(cfg.StartingGrant))
	if cfg.MaxCommitRetries > 0 {
		opts = append(opts, ezcoin.WithMaxCommitRetries(cfg.MaxCommitRetries))
	}

	if cfg.StripeSecretKey != "" {
		opts = append(opts, ezcoin.WithPaymentProcessor(stripepay.New(cfg.StripeSecretKey)))
	} else {
		opts = append(opts, ezcoin.WithPaymentProcessor(payment.NewSimulated(cfg.PaymentDelay)))
	}
	opts = append(opts, ezcoin.WithAssistant(ezai.NewSimulated(cfg.AssistantDelay)))

	return append(opts, extra...)
}

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("ezcoin: configuration is required but not found in config files; " +
				"ensure 'extensions.ezcoin' or 'ezcoin' key exists in your config")
		}
		e.config = MergeWithDefaults(programmaticConfig)
	} else {
		e.config = MergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("ezcoin: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("starting_grant", e.config.StartingGrant),
		forge.F("max_commit_retries", e.config.MaxCommitRetries),
		forge.F("payment_delay", e.config.PaymentDelay),
		forge.F("assistant_delay", e.config.AssistantDelay),
		forge.F("stripe", e.config.StripeSecretKey != ""),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()

	for _, key := range []string{"extensions.ezcoin", "ezcoin"} {
		if !cm.IsSet(key) {
			continue
		}
		var cfg Config
		if err := cm.Bind(key, &cfg); err == nil {
			e.Logger().Debug("ezcoin: loaded config from file",
				forge.F("key", key),
			)
			return cfg, true
		}
		e.Logger().Warn("ezcoin: failed to bind config",
			forge.F("key", key),
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// MergeWithDefaults fills zero-valued fields with defaults.
func MergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.StartingGrant == 0 {
		cfg.StartingGrant = defaults.StartingGrant
	}
	if cfg.MaxCommitRetries == 0 {
		cfg.MaxCommitRetries = defaults.MaxCommitRetries
	}
	if cfg.PaymentDelay == 0 {
		cfg.PaymentDelay = defaults.PaymentDelay
	}
	if cfg.AssistantDelay == 0 {
		cfg.AssistantDelay = defaults.AssistantDelay
	}
	return cfg
}

// MergeConfigurations merges YAML config with programmatic options.
// YAML takes precedence; programmatic values fill gaps.
func MergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if yamlConfig.StripeSecretKey == "" {
		yamlConfig.StripeSecretKey = programmaticConfig.StripeSecretKey
	}
	if yamlConfig.StartingGrant == 0 {
		yamlConfig.StartingGrant = programmaticConfig.StartingGrant
	}
	if yamlConfig.MaxCommitRetries == 0 {
		yamlConfig.MaxCommitRetries = programmaticConfig.MaxCommitRetries
	}
	if yamlConfig.PaymentDelay == 0 {
		yamlConfig.PaymentDelay = programmaticConfig.PaymentDelay
	}
	if yamlConfig.AssistantDelay == 0 {
		yamlConfig.AssistantDelay = programmaticConfig.AssistantDelay
	}
	return MergeWithDefaults(yamlConfig)
}
