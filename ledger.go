package ezcoin

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/xraph/ezcoin/account"
	"github.com/xraph/ezcoin/artifact"
	"github.com/xraph/ezcoin/ezai"
	"github.com/xraph/ezcoin/payment"
	"github.com/xraph/ezcoin/planner"
	"github.com/xraph/ezcoin/plugin"
	"github.com/xraph/ezcoin/store"
	"github.com/xraph/ezcoin/transaction"
)

const (
	// DefaultStartingGrant is the balance of a first-time identity.
	DefaultStartingGrant int64 = 50
	// DefaultMaxCommitRetries bounds reloads after a version conflict.
	DefaultMaxCommitRetries = 3
	// DefaultIdentityCacheSize bounds how many idle identities keep their
	// snapshot cached.
	DefaultIdentityCacheSize = 10_000
)

// Ledger is the EzCoin engine. It owns every identity's balance and
// transaction log and serializes mutations per identity.
type Ledger struct {
	store     store.Store
	plugins   *plugin.Registry
	logger    *slog.Logger
	processor payment.Processor
	expander  *planner.Expander
	artifacts artifact.Generator
	assistant *ezai.Assistant
	now       func() time.Time

	startingGrant    int64
	maxCommitRetries int
	maxIdentities    int

	mu         sync.Mutex
	identities map[string]*identity
	stopped    atomic.Bool
}

// identity is the per-address state. sem admits one mutation at a time;
// mu guards the committed snapshot so reads never wait on a pending payment.
type identity struct {
	address string
	sem     *semaphore.Weighted
	refs    int // guarded by Ledger.mu

	mu      sync.RWMutex
	current *account.Account
}

// New creates a new Ledger instance.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:            s,
		plugins:          plugin.NewRegistry(),
		logger:           slog.Default(),
		artifacts:        artifact.Random{},
		now:              func() time.Time { return time.Now().UTC() },
		startingGrant:    DefaultStartingGrant,
		maxCommitRetries: DefaultMaxCommitRetries,
		maxIdentities:    DefaultIdentityCacheSize,
		identities:       make(map[string]*identity),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.processor == nil {
		l.processor = l.plugins.PaymentProcessor()
	}
	if l.processor == nil {
		l.processor = payment.NewSimulated(payment.DefaultSimulatedDelay)
	}
	if l.assistant == nil {
		l.assistant = ezai.NewAssistant(nil)
	}
	l.expander = planner.NewExpander(l.artifacts)

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithStartingGrant sets the balance of first-time identities.
func WithStartingGrant(coins int64) Option {
	return func(l *Ledger) { l.startingGrant = coins }
}

// WithPaymentProcessor sets the processor that settles purchases.
func WithPaymentProcessor(p payment.Processor) Option {
	return func(l *Ledger) { l.processor = p }
}

// WithArtifactGenerator sets the source of simulated IPFS hashes and NFT
// token IDs for permanent events.
func WithArtifactGenerator(g artifact.Generator) Option {
	return func(l *Ledger) { l.artifacts = g }
}

// WithAssistant sets the EzAI text generator.
func WithAssistant(g ezai.Generator) Option {
	return func(l *Ledger) { l.assistant = ezai.NewAssistant(g) }
}

// WithClock replaces the clock used to stamp transactions.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = func() time.Time { return now().UTC() }
	}
}

// WithMaxCommitRetries bounds how many times a commit reloads after another
// writer changed the same account.
func WithMaxCommitRetries(n int) Option {
	return func(l *Ledger) { l.maxCommitRetries = n }
}

// WithIdentityCacheSize bounds how many idle identities keep their committed
// snapshot in memory. Evicted identities reload from the store on next use.
func WithIdentityCacheSize(n int) Option {
	return func(l *Ledger) { l.maxIdentities = n }
}

// Start migrates the store and initializes plugins.
func (l *Ledger) Start(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return &StorageError{Op: "migrate", Err: err}
	}

	l.plugins.EmitInit(ctx, l)

	l.logger.Info("ezcoin started",
		"starting_grant", l.startingGrant,
		"max_commit_retries", l.maxCommitRetries,
		"plugins", l.plugins.Count(),
	)
	return nil
}

// Stop shuts down plugins and closes the store. Later calls fail with
// ErrStoreClosed.
func (l *Ledger) Stop() error {
	if !l.stopped.CompareAndSwap(false, true) {
		return nil
	}
	l.plugins.EmitShutdown(context.Background())
	return l.store.Close()
}

// Ping checks the store.
func (l *Ledger) Ping(ctx context.Context) error {
	if l.stopped.Load() {
		return ErrStoreClosed
	}
	return l.store.Ping(ctx)
}

// Plugins returns the plugin registry.
func (l *Ledger) Plugins() *plugin.Registry { return l.plugins }

// Store returns the underlying store.
func (l *Ledger) Store() store.Store { return l.store }

// StartingGrant is the balance of a first-time identity.
func (l *Ledger) StartingGrant() int64 { return l.startingGrant }

// ──────────────────────────────────────────────────
// Identity state
// ──────────────────────────────────────────────────

// acquire returns the state for address and pins it until release. A pinned
// identity is never evicted, so every caller for one address shares one
// semaphore.
func (l *Ledger) acquire(address string) *identity {
	l.mu.Lock()
	defer l.mu.Unlock()

	ident, ok := l.identities[address]
	if !ok {
		ident = &identity{address: address, sem: semaphore.NewWeighted(1)}
		l.identities[address] = ident
	}
	ident.refs++
	return ident
}

// release unpins ident. Once idle it is dropped if the cache is over its
// bound; the store stays authoritative.
func (l *Ledger) release(ident *identity) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ident.refs--
	if ident.refs == 0 && len(l.identities) > l.maxIdentities {
		delete(l.identities, ident.address)
	}
}

// cachedIdentities is the number of identities currently held in memory.
func (l *Ledger) cachedIdentities() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.identities)
}

// snapshot returns the committed state of ident, loading it on first use. An
// identity the store has never seen starts at the grant with an empty log.
func (l *Ledger) snapshot(ctx context.Context, ident *identity) (*account.Account, error) {
	ident.mu.RLock()
	cur := ident.current
	ident.mu.RUnlock()
	if cur != nil {
		return cur, nil
	}

	loaded, err := l.store.GetAccount(ctx, ident.address)
	switch {
	case errors.Is(err, account.ErrNotFound):
		loaded = account.New(ident.address, l.startingGrant, l.now())
	case err != nil:
		return nil, &StorageError{Op: "load account", Err: err}
	}

	ident.mu.Lock()
	defer ident.mu.Unlock()
	if ident.current == nil {
		ident.current = loaded
	}
	return ident.current, nil
}

func (ident *identity) set(a *account.Account) {
	ident.mu.Lock()
	ident.current = a
	ident.mu.Unlock()
}

func (ident *identity) invalidate() { ident.set(nil) }

// buildFunc derives the transaction to append from the committed snapshot.
type buildFunc func(cur *account.Account) (*transaction.Transaction, error)

// commit appends the transaction returned by build and persists the result.
// The caller holds ident.sem. The successor snapshot replaces the cached one
// only after the store accepted it; on failure the previous snapshot stays
// and a *StorageError is returned. Version conflicts reload and rebuild, so
// balance checks in build always see the latest committed state.
func (l *Ledger) commit(ctx context.Context, ident *identity, op string, build buildFunc) (*transaction.Transaction, *account.Account, error) {
	for attempt := 0; ; attempt++ {
		cur, err := l.snapshot(ctx, ident)
		if err != nil {
			return nil, nil, err
		}

		txn, err := build(cur)
		if err != nil {
			return nil, nil, err
		}
		next := cur.Apply(txn)

		// Once the write starts it completes, even if ctx is cancelled.
		err = l.store.SaveAccount(context.WithoutCancel(ctx), next)
		if err == nil {
			ident.set(next)
			// Callers get their own copy; the cached log stays untouched.
			return txn.Clone(), next, nil
		}

		if errors.Is(err, account.ErrVersionConflict) && attempt < l.maxCommitRetries {
			l.logger.Debug("account changed concurrently, reloading",
				"address", ident.address,
				"attempt", attempt+1,
			)
			ident.invalidate()
			continue
		}

		l.logger.Error("commit failed",
			"address", ident.address,
			"op", op,
			"error", err,
		)
		l.plugins.EmitStorageFailed(ctx, ident.address, op, err)
		return nil, nil, &StorageError{Op: op, Err: err}
	}
}

// lock admits one mutation per identity. It fails only when ctx is done,
// in which case nothing has been written.
func (l *Ledger) lock(ctx context.Context, ident *identity) error {
	if l.stopped.Load() {
		return ErrStoreClosed
	}
	return ident.sem.Acquire(ctx, 1)
}

func (l *Ledger) unlock(ident *identity) { ident.sem.Release(1) }
