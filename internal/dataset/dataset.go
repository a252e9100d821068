// Package dataset implements the dataset module: named record collections
// persisted in SQLite and exposed through query endpoints that shape them
// with the engine (filter, search, deduplicate, sort, paginate, group,
// aggregate), with results cached per canonicalized request.
package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shapelift/shapelift/internal/cache"
	"github.com/shapelift/shapelift/internal/module"
	"github.com/shapelift/shapelift/internal/perf"
	"github.com/shapelift/shapelift/internal/store"
)

// Module implements the dataset server module.
type Module struct {
	logger  *zap.Logger
	config  *viper.Viper
	store   *Store
	cache   cache.Store
	monitor *perf.Monitor

	cacheTTL time.Duration
}

// New creates the dataset module over the shared database, cache, and
// performance monitor.
func New(db *store.SQLiteStore, c cache.Store, monitor *perf.Monitor) *Module {
	return &Module{
		store:   NewStore(db),
		cache:   c,
		monitor: monitor,
	}
}

func (m *Module) Name() string    { return "dataset" }
func (m *Module) Version() string { return "0.1.0" }

// Init applies configuration, runs migrations, and seeds datasets from the
// configured directory when one is set.
func (m *Module) Init(config *viper.Viper, logger *zap.Logger) error {
	m.config = config
	m.logger = logger

	m.cacheTTL = config.GetDuration("cache_ttl")
	if m.cacheTTL <= 0 {
		m.cacheTTL = cache.DefaultTTL
	}

	ctx := context.Background()
	if err := m.store.Migrate(ctx); err != nil {
		return fmt.Errorf("dataset migrations: %w", err)
	}

	if dir := config.GetString("seed_dir"); dir != "" {
		if err := m.seedFromDir(ctx, dir); err != nil {
			return fmt.Errorf("seed datasets: %w", err)
		}
	}

	m.logger.Info("dataset module initialized", zap.Duration("cache_ttl", m.cacheTTL))
	return nil
}

func (m *Module) Start(ctx context.Context) error {
	m.logger.Info("dataset module started")
	return nil
}

func (m *Module) Stop() error {
	m.logger.Info("dataset module stopped")
	return nil
}

// Routes returns the module's HTTP routes, mounted under /api/v1/dataset.
func (m *Module) Routes() []module.Route {
	return []module.Route{
		{Method: "GET", Path: "", Handler: m.handleList},
		{Method: "PUT", Path: "/{name}", Handler: m.handleUpsert},
		{Method: "DELETE", Path: "/{name}", Handler: m.handleDelete},
		{Method: "GET", Path: "/{name}/records", Handler: m.handleRecords},
		{Method: "POST", Path: "/{name}/query", Handler: m.handleQuery},
		{Method: "GET", Path: "/cache/stats", Handler: m.handleCacheStats},
		{Method: "DELETE", Path: "/cache", Handler: m.handleCacheClear},
	}
}

// invalidate drops cached query results for the named dataset. The cache
// interface has no prefix delete, so live keys are walked instead; the set
// is small (one entry per distinct query shape).
func (m *Module) invalidate(name string) {
	prefix := keyPrefix(name)
	for _, key := range m.cache.Stats().Keys {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			m.cache.Delete(key)
		}
	}
}
