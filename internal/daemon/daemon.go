package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"posterlang/internal/api"
	"posterlang/internal/artwork"
	"posterlang/internal/config"
	"posterlang/internal/correlator"
	"posterlang/internal/history"
	"posterlang/internal/langcache"
	"posterlang/internal/logging"
	"posterlang/internal/provider"
	"posterlang/internal/resolver"
	"posterlang/internal/services/jellyfin"
	"posterlang/internal/tmdb"
	"posterlang/internal/warm"
)

// Daemon coordinates the artwork pipeline services and enforces
// single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	cache      *langcache.Cache
	history    *history.Store
	correlator *correlator.Correlator
	resolver   *resolver.Resolver
	provider   *provider.Service
	jellyfin   *jellyfin.Client

	startedAt time.Time

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc

	api *apiServer

	warmRunning atomic.Bool
	warmMu      sync.Mutex
	lastWarm    *warm.Stats
}

// New constructs a daemon with all pipeline dependencies built from the
// configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	client, err := tmdb.New(
		cfg.TMDB.APIKey,
		cfg.TMDB.BaseURL,
		cfg.TMDB.Language,
		tmdb.WithMaxRetries(cfg.TMDB.MaxRetries),
		tmdb.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TMDB.RequestTimeout) * time.Second}),
	)
	if err != nil {
		return nil, fmt.Errorf("build tmdb client: %w", err)
	}
	return newWithClient(cfg, client, logger)
}

func newWithClient(cfg *config.Config, client tmdb.Metadata, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	var cache *langcache.Cache
	if cfg.LanguageCache.Enabled {
		cache = langcache.NewCache(cfg.LanguageCache.Path, logger)
	}

	corr := correlator.New()
	res, err := resolver.New(client, cache, corr, cfg.Selection.FallbackLanguages, logger)
	if err != nil {
		return nil, fmt.Errorf("build resolver: %w", err)
	}

	var hist *history.Store
	if cfg.History.Enabled {
		hist, err = history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
	}

	svc := provider.New(client, res, corr, hist, logger, provider.Options{
		Strategy:         artwork.ParseStrategy(cfg.Selection.Strategy),
		DisplayLanguage:  cfg.Selection.DisplayLanguage,
		IncludeBackdrops: cfg.Selection.IncludeBackdrops,
		IncludeLogos:     cfg.Selection.IncludeLogos,
	})

	lockPath := filepath.Join(cfg.Paths.DataDir, "posterlangd.lock")
	d := &Daemon{
		cfg:        cfg,
		logger:     logger,
		cache:      cache,
		history:    hist,
		correlator: corr,
		resolver:   res,
		provider:   svc,
		jellyfin:   jellyfin.NewConfiguredClient(cfg),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and brings up the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("ensure data directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another posterlang daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return err
	}

	d.startedAt = time.Now()
	d.running.Store(true)
	d.logger.Info("posterlang daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("posterlang daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.history != nil {
		return d.history.Close()
	}
	return nil
}

// Provider exposes the artwork selection service.
func (d *Daemon) Provider() *provider.Service {
	return d.provider
}

// APIAddress returns the bound API address, empty until Start succeeds.
func (d *Daemon) APIAddress() string {
	return d.api.address()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) api.StatusResponse {
	status := api.StatusResponse{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Enabled:      d.provider.Enabled(),
		Strategy:     d.cfg.Selection.Strategy,
		PendingFacts: d.correlator.Pending(),
		LockFilePath: d.lockPath,
		WarmRunning:  d.warmRunning.Load(),
	}
	if status.Running {
		status.UptimeSeconds = int64(time.Since(d.startedAt).Seconds())
	}
	if d.cache != nil {
		status.CacheEntries = d.cache.Count()
	}
	if d.history != nil {
		if count, err := d.history.Count(ctx); err == nil {
			status.HistoryEntries = count
		}
	}
	d.warmMu.Lock()
	status.LastWarm = d.lastWarm
	d.warmMu.Unlock()
	return status
}

// CacheEntries lists the persisted language map.
func (d *Daemon) CacheEntries() []langcache.Entry {
	if d.cache == nil {
		return nil
	}
	return d.cache.List()
}

// CacheRemove deletes one cache entry by key.
func (d *Daemon) CacheRemove(key string) error {
	if d.cache == nil {
		return errors.New("language cache disabled")
	}
	return d.cache.Remove(key)
}

// CacheClear drops all cache entries and reports how many were removed.
func (d *Daemon) CacheClear() (int, error) {
	if d.cache == nil {
		return 0, errors.New("language cache disabled")
	}
	removed := d.cache.Count()
	if err := d.cache.Clear(); err != nil {
		return 0, err
	}
	return removed, nil
}

// History returns recorded resolutions, optionally narrowed to one item.
func (d *Daemon) History(ctx context.Context, cacheKey string, limit int) ([]history.Entry, error) {
	if d.history == nil {
		return nil, errors.New("history disabled")
	}
	if cacheKey != "" {
		return d.history.ListByCacheKey(ctx, cacheKey)
	}
	return d.history.List(ctx, limit)
}

// StartWarm launches a library-wide cache warming run in the background.
// It fails when Jellyfin integration is disabled or a run is in flight.
func (d *Daemon) StartWarm() error {
	if d.jellyfin == nil {
		return errors.New("jellyfin integration disabled")
	}
	if !d.running.Load() || d.ctx == nil {
		return errors.New("daemon not running")
	}
	if !d.warmRunning.CompareAndSwap(false, true) {
		return errors.New("warm run already in progress")
	}

	task, err := warm.New(d.jellyfin, d.resolver, d.cfg.Warm, d.logger)
	if err != nil {
		d.warmRunning.Store(false)
		return err
	}

	ctx := d.ctx
	go func() {
		defer d.warmRunning.Store(false)
		stats, err := task.Run(ctx)
		d.warmMu.Lock()
		d.lastWarm = &stats
		d.warmMu.Unlock()
		if err != nil {
			logging.WarnWithContext(d.logger, "library warm aborted", "warm_aborted",
				logging.Error(err),
				logging.String(logging.FieldImpact, "cache only partially warmed"))
		}
	}()
	return nil
}
