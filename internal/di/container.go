package di

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/albayanlaw/go-siteedit/internal/collections"
	"github.com/albayanlaw/go-siteedit/internal/editctl"
	"github.com/albayanlaw/go-siteedit/internal/entries"
	"github.com/albayanlaw/go-siteedit/internal/logging"
	"github.com/albayanlaw/go-siteedit/internal/logging/console"
	"github.com/albayanlaw/go-siteedit/internal/logging/gologger"
	"github.com/albayanlaw/go-siteedit/internal/resolver"
	"github.com/albayanlaw/go-siteedit/internal/richtext"
	"github.com/albayanlaw/go-siteedit/internal/runtimeconfig"
	"github.com/albayanlaw/go-siteedit/internal/session"
	"github.com/albayanlaw/go-siteedit/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Container wires module dependencies. Memory-backed bindings are the
// default; a storage DSN or an injected bun.DB upgrades the entry store,
// and every binding can be overridden through an Option.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider   interfaces.LoggerProvider
	identityProvider interfaces.IdentityProvider
	activitySink     interfaces.ActivitySink
	clock            func() time.Time

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	entryRepo entries.Repository

	sessionSvc     session.Service
	contentSvc     resolver.Service
	registry       *collections.Registry
	collectionsSvc collections.Service
	editSvc        editctl.Service
	renderer       *richtext.Renderer
}

// Option mutates the container during construction.
type Option func(*Container)

// WithLoggerProvider overrides the logging provider selected from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithIdentityProvider binds the host identity integration. Without it the
// container falls back to an in-memory provider, which is only useful for
// tests and local development.
func WithIdentityProvider(provider interfaces.IdentityProvider) Option {
	return func(c *Container) {
		c.identityProvider = provider
	}
}

// WithActivitySink forwards content writes to an audit sink.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *Container) {
		c.activitySink = sink
	}
}

// WithClock overrides the time source used for timestamps and editor
// status expiry.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithBunDB supplies an already-open database handle. The container will
// not close handles it did not open.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache bindings.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithEntryRepository overrides the entry repository binding entirely.
func WithEntryRepository(repo entries.Repository) Option {
	return func(c *Container) {
		c.entryRepo = repo
	}
}

// WithSessionService overrides the default session service binding.
func WithSessionService(svc session.Service) Option {
	return func(c *Container) {
		c.sessionSvc = svc
	}
}

// WithContentService overrides the default content resolver binding.
func WithContentService(svc resolver.Service) Option {
	return func(c *Container) {
		c.contentSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	if err := c.configureServices(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "", "console":
		level := consoleLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{
			MinLevel: &level,
			TimeFunc: c.clock,
		})
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "noop":
		// ModuleLogger falls back to the no-op logger when the provider
		// stays nil.
	}

	return nil
}

func (c *Container) configureStorage() error {
	if c.entryRepo != nil {
		return nil
	}

	driver := strings.ToLower(strings.TrimSpace(c.Config.Storage.Driver))
	if c.bunDB == nil && driver != "memory" && strings.TrimSpace(c.Config.Storage.DSN) != "" {
		db, err := openDatabase(c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	if c.bunDB == nil {
		c.entryRepo = entries.NewMemoryEntryRepository()
		return nil
	}

	c.configureCacheDefaults()
	c.entryRepo = entries.NewBunEntryRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureServices() error {
	if c.sessionSvc == nil {
		provider := c.identityProvider
		if provider == nil {
			provider = session.NewMemoryIdentityProvider()
			c.identityProvider = provider
		}

		sessionOpts := []session.ServiceOption{
			session.WithLogger(logging.SessionLogger(c.loggerProvider)),
		}
		if role := strings.TrimSpace(c.Config.Auth.AdminRole); role != "" {
			sessionOpts = append(sessionOpts, session.WithAdminRole(role))
		}
		if url := strings.TrimSpace(c.Config.Auth.RedirectURL); url != "" {
			sessionOpts = append(sessionOpts, session.WithRedirectURL(url))
		}

		svc, err := session.NewService(provider, sessionOpts...)
		if err != nil {
			return err
		}
		c.sessionSvc = svc
	}

	if c.contentSvc == nil {
		contentOpts := []resolver.ServiceOption{
			resolver.WithLocales(c.Config.Locales),
			resolver.WithLogger(logging.ContentLogger(c.loggerProvider)),
		}
		if c.Config.Write.Timeout > 0 {
			contentOpts = append(contentOpts, resolver.WithWriteTimeout(c.Config.Write.Timeout))
		}
		if c.clock != nil {
			contentOpts = append(contentOpts, resolver.WithClock(c.clock))
		}
		if c.activitySink != nil {
			contentOpts = append(contentOpts, resolver.WithActivitySink(c.activitySink))
		}
		c.contentSvc = resolver.NewService(c.entryRepo, c.sessionSvc, contentOpts...)
	}

	if c.Config.Features.RichText && c.renderer == nil {
		c.renderer = richtext.NewRenderer(richtext.Options{})
	}

	if c.collectionsSvc == nil {
		c.registry = collections.NewRegistry()
		if c.Config.Features.Collections {
			if err := collections.Bootstrap(c.registry); err != nil {
				return err
			}
		}

		collectionOpts := []collections.ServiceOption{
			collections.WithLogger(logging.CollectionsLogger(c.loggerProvider)),
		}
		if c.Config.Write.StatusTTL > 0 {
			collectionOpts = append(collectionOpts, collections.WithStatusTTL(c.Config.Write.StatusTTL))
		}
		if c.clock != nil {
			collectionOpts = append(collectionOpts, collections.WithClock(c.clock))
		}
		if c.renderer != nil {
			collectionOpts = append(collectionOpts, collections.WithRenderer(c.renderer))
		}
		c.collectionsSvc = collections.NewService(c.registry, c.contentSvc, collectionOpts...)
	}

	if c.editSvc == nil {
		c.editSvc = editctl.NewService(
			c.sessionSvc,
			c.contentSvc,
			editctl.WithLocales(c.Config.Locales),
			editctl.WithLoginVisible(c.Config.Auth.LoginEnabled),
			editctl.WithLogger(logging.EditControlLogger(c.loggerProvider)),
		)
	}

	return nil
}

// Initialize prepares storage and loads the initial session and content
// snapshot for the default locale.
func (c *Container) Initialize(ctx context.Context) error {
	if c.bunDB != nil {
		if err := entries.EnsureSchema(ctx, c.bunDB); err != nil {
			return err
		}
	}

	if err := c.sessionSvc.Initialize(ctx); err != nil {
		return err
	}

	return c.contentSvc.Initialize(ctx, c.Config.DefaultLocale)
}

// Teardown releases the session subscription and any database handle the
// container opened itself.
func (c *Container) Teardown() error {
	if c.sessionSvc != nil {
		c.sessionSvc.Teardown()
	}

	if c.ownsDB && c.bunDB != nil {
		return c.bunDB.Close()
	}
	return nil
}

// LoggerProvider exposes the configured logging provider. It is nil when
// logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// IdentityProvider exposes the bound identity integration.
func (c *Container) IdentityProvider() interfaces.IdentityProvider {
	return c.identityProvider
}

// EntryRepository exposes the configured entry repository.
func (c *Container) EntryRepository() entries.Repository {
	return c.entryRepo
}

// SessionService returns the configured session service.
func (c *Container) SessionService() session.Service {
	return c.sessionSvc
}

// ContentService returns the configured content resolver.
func (c *Container) ContentService() resolver.Service {
	return c.contentSvc
}

// CollectionRegistry exposes the schema registry for host registrations.
func (c *Container) CollectionRegistry() *collections.Registry {
	return c.registry
}

// CollectionsService returns the configured collections service.
func (c *Container) CollectionsService() collections.Service {
	return c.collectionsSvc
}

// EditControlService returns the configured edit-mode controller.
func (c *Container) EditControlService() editctl.Service {
	return c.editSvc
}

// RichTextRenderer returns the markdown renderer, or nil when the richtext
// feature is disabled.
func (c *Container) RichTextRenderer() *richtext.Renderer {
	return c.renderer
}

// DB exposes the underlying database handle when one is configured.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

func openDatabase(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "sqlite":
		sqldb, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("siteedit: open sqlite storage: %w", err)
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case "postgres":
		sqldb, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("siteedit: open postgres storage: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, runtimeconfig.ErrStorageDriverUnknown
	}
}

func consoleLevel(level string) console.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return console.LevelTrace
	case "debug":
		return console.LevelDebug
	case "", "info":
		return console.LevelInfo
	case "warn", "warning":
		return console.LevelWarn
	case "error":
		return console.LevelError
	case "fatal":
		return console.LevelFatal
	default:
		return console.LevelInfo
	}
}
