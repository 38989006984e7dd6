// Package bootstrap owns process-wide construction and teardown of the
// storage core. An explicit Manager replaces hidden module state: it is
// constructed once at process start and handed to everything that needs
// storage access.
package bootstrap

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/telebridge/botstore/internal/cache"
	"github.com/telebridge/botstore/internal/config"
	"github.com/telebridge/botstore/internal/model"
	"github.com/telebridge/botstore/internal/store"
)

type durableKind int

const (
	durableNone durableKind = iota
	durablePostgresDB
	durablePostgresDSN
	durableSQLitePath
)

// DurableSource is a tagged-variant constructor input for the durable tier:
// either an already-connected handle or connection details, resolved once at
// construction instead of inspected ad hoc.
type DurableSource struct {
	kind durableKind
	db   *sql.DB
	dsn  string
	path string
}

// WithPostgresDB uses an already-connected Postgres handle. The engine takes
// ownership and closes it on Shutdown.
func WithPostgresDB(db *sql.DB) DurableSource {
	return DurableSource{kind: durablePostgresDB, db: db}
}

// WithPostgresDSN connects to Postgres at Init time.
func WithPostgresDSN(dsn string) DurableSource {
	return DurableSource{kind: durablePostgresDSN, dsn: dsn}
}

// WithSQLitePath opens (or creates) a SQLite database at Init time.
func WithSQLitePath(path string) DurableSource {
	return DurableSource{kind: durableSQLitePath, path: path}
}

// Options configures Init. The zero value of Durable and an empty RedisAddr
// leave the respective tiers unconfigured; the engine degrades rather than
// failing.
type Options struct {
	Durable       DurableSource
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MemoryTTL     time.Duration
	RemoteTTL     time.Duration
	DurableTTL    time.Duration
	SweepInterval time.Duration

	Logger zerolog.Logger
}

// OptionsFromConfig maps environment configuration onto Options.
func OptionsFromConfig(cfg *config.Config, log zerolog.Logger) Options {
	opts := Options{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		MemoryTTL:     cfg.MemoryTTL(),
		RemoteTTL:     cfg.RedisTTL(),
		DurableTTL:    cfg.DurableTTL(),
		SweepInterval: time.Duration(cfg.SweepIntervalSeconds) * time.Second,
		Logger:        log,
	}
	switch cfg.DBDriver {
	case "postgres":
		opts.Durable = WithPostgresDSN(cfg.PostgresDSN)
	case "sqlite":
		opts.Durable = WithSQLitePath(cfg.SQLitePath)
	}
	return opts
}

// App is the initialized storage core: one engine wrapped in one store.
type App struct {
	engine *cache.Engine
	store  *store.BotStore
	log    zerolog.Logger
}

// Store returns the domain store; the only surface the rest of the bot uses.
func (a *App) Store() *store.BotStore { return a.store }

// Engine exposes the engine for maintenance and health code.
func (a *App) Engine() *cache.Engine { return a.engine }

// Manager guards a single App instance. Init is idempotent, Get fails loudly
// before Init, and Shutdown releases everything so a clean re-Init is
// possible (test suites, graceful restarts).
type Manager struct {
	mu  sync.Mutex
	app *App
}

func NewManager() *Manager { return &Manager{} }

// Init constructs the engine and store once. Subsequent calls return the
// existing App. Unreachable optional tiers degrade the engine and are logged,
// never fatal.
func (m *Manager) Init(ctx context.Context, opts Options) (*App, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.app != nil {
		return m.app, nil
	}

	log := opts.Logger

	durable := resolveDurable(ctx, opts, log)

	var remote cache.RedisClient
	if opts.RedisAddr != "" {
		client := cache.NewRedisClient(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", opts.RedisAddr).Msg("redis unreachable at startup; continuing without distributed tier")
			_ = client.Close()
		} else {
			remote = client
		}
	}

	engine := cache.New(cache.Options{
		Remote:        remote,
		Durable:       durable,
		MemoryTTL:     opts.MemoryTTL,
		RemoteTTL:     opts.RemoteTTL,
		DurableTTL:    opts.DurableTTL,
		SweepInterval: opts.SweepInterval,
		Logger:        log,
	})

	m.app = &App{
		engine: engine,
		store:  store.New(engine, log),
		log:    log,
	}
	log.Info().
		Bool("remote", engine.HasRemote()).
		Bool("durable", engine.HasDurable()).
		Msg("storage core initialized")
	return m.app, nil
}

// Get returns the initialized App. Calling it before Init is a programming
// error and fails loudly.
func (m *Manager) Get() (*App, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.app == nil {
		return nil, model.ErrNotInitialized
	}
	return m.app, nil
}

// Shutdown closes the engine and clears the instance.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.app == nil {
		return nil
	}
	err := m.app.engine.Close()
	m.app = nil
	return err
}

// resolveDurable turns the tagged source into a connected DurableStore,
// retrying transient connection failures with exponential backoff. A durable
// tier that stays unreachable degrades the engine instead of failing Init.
func resolveDurable(ctx context.Context, opts Options, log zerolog.Logger) cache.DurableStore {
	connect := func(open func() (cache.DurableStore, error), what string) cache.DurableStore {
		var ds cache.DurableStore
		op := func() error {
			var err error
			ds, err = open()
			return err
		}
		bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
		if err := backoff.Retry(op, bo); err != nil {
			log.Warn().Err(err).Str("durable", what).Msg("durable tier unreachable at startup; continuing without it")
			return nil
		}
		return ds
	}

	switch opts.Durable.kind {
	case durablePostgresDB:
		return cache.NewPostgresDurable(opts.Durable.db)
	case durablePostgresDSN:
		return connect(func() (cache.DurableStore, error) {
			db, err := cache.OpenPostgres(opts.Durable.dsn)
			if err != nil {
				return nil, err
			}
			return cache.NewPostgresDurable(db), nil
		}, "postgres")
	case durableSQLitePath:
		return connect(func() (cache.DurableStore, error) {
			db, err := cache.OpenSQLite(opts.Durable.path)
			if err != nil {
				return nil, err
			}
			return cache.NewSQLiteDurable(db), nil
		}, "sqlite")
	default:
		return nil
	}
}
