package resolver

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	sitecontent "github.com/albayanlaw/go-siteedit/content"
	"github.com/albayanlaw/go-siteedit/internal/entries"
	"github.com/albayanlaw/go-siteedit/internal/logging"
	"github.com/albayanlaw/go-siteedit/internal/session"
	"github.com/albayanlaw/go-siteedit/pkg/interfaces"
)

// DefaultWriteTimeout bounds a single upsert round trip. It is a UX
// safeguard: after the timeout the write is reported as failed even though
// the request may still land server-side.
const DefaultWriteTimeout = 8 * time.Second

// Service is the single authority for reading and writing editable site
// content. It holds the loaded snapshot for the active locale; Get is a pure
// in-memory read after Initialize.
type Service interface {
	// Initialize loads every entry for the locale and replaces the snapshot.
	// A failed load keeps any previously loaded snapshot and surfaces the
	// error through LoadErr as well as the return value.
	Initialize(ctx context.Context, locale string) error
	// Get returns the resolved value for key, or fallback when the key is
	// absent or nil. Wrapped single-field shapes are projected so callers
	// stay shape-agnostic.
	Get(key string, fallback any) any
	// Value returns the normalized tagged value for key.
	Value(key string) (sitecontent.Value, bool)
	// Set upserts (key, active locale) and patches the snapshot on success
	// so the same session observes its own writes without a reload.
	Set(ctx context.Context, key string, value any) error
	// Reload re-fetches all rows for the active locale.
	Reload(ctx context.Context) error
	// SetLocale switches the active locale and re-initializes; content is
	// locale-partitioned, never overlaid.
	SetLocale(ctx context.Context, locale string) error
	// Locale returns the active locale, empty before the first Initialize.
	Locale() string
	// LoadErr reports the error from the most recent bulk load, nil on
	// success.
	LoadErr() error
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithWriteTimeout bounds every Set round trip.
func WithWriteTimeout(timeout time.Duration) ServiceOption {
	return func(s *service) {
		if timeout > 0 {
			s.writeTimeout = timeout
		}
	}
}

// WithLogger attaches a logger to the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithActivitySink records successful writes to an activity sink.
// Sink failures never fail the write.
func WithActivitySink(sink interfaces.ActivitySink) ServiceOption {
	return func(s *service) {
		s.activity = sink
	}
}

// WithLocales restricts SetLocale/Initialize to the configured locale codes.
// An empty list accepts any locale.
func WithLocales(locales []string) ServiceOption {
	return func(s *service) {
		s.locales = nil
		for _, locale := range locales {
			if trimmed := strings.TrimSpace(locale); trimmed != "" {
				s.locales = append(s.locales, strings.ToLower(trimmed))
			}
		}
	}
}

type service struct {
	repo     entries.Repository
	sessions session.Service
	logger   interfaces.Logger
	activity interfaces.ActivitySink

	now          func() time.Time
	writeTimeout time.Duration
	locales      []string

	mu       sync.RWMutex
	locale   string
	snapshot map[string]any
	loadErr  error
}

// NewService constructs a content resolution service.
func NewService(repo entries.Repository, sessions session.Service, opts ...ServiceOption) Service {
	s := &service{
		repo:         repo,
		sessions:     sessions,
		logger:       logging.NoOp(),
		now:          time.Now,
		writeTimeout: DefaultWriteTimeout,
		snapshot:     map[string]any{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Initialize(ctx context.Context, locale string) error {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		return sitecontent.ErrLocaleRequired
	}
	if !s.localeAllowed(locale) {
		return sitecontent.ErrUnknownLocale
	}

	rows, err := s.repo.ListByLocale(ctx, locale)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.locale = locale
	if err != nil {
		// Keep whatever snapshot we had; widgets fall back to defaults.
		s.loadErr = err
		if s.snapshot == nil {
			s.snapshot = map[string]any{}
		}
		s.logger.Error("content.load.failed", "locale", locale, "error", err)
		return err
	}

	snapshot := make(map[string]any, len(rows))
	for _, row := range rows {
		snapshot[row.Key] = row.Value
	}
	s.snapshot = snapshot
	s.loadErr = nil
	s.logger.Debug("content.loaded", "locale", locale, "entries", len(rows))
	return nil
}

func (s *service) Get(key string, fallback any) any {
	s.mu.RLock()
	raw, ok := s.snapshot[key]
	s.mu.RUnlock()

	if !ok || raw == nil {
		return fallback
	}
	resolved := sitecontent.Normalize(raw).Scalar()
	if resolved == nil {
		return fallback
	}
	return resolved
}

func (s *service) Value(key string) (sitecontent.Value, bool) {
	s.mu.RLock()
	raw, ok := s.snapshot[key]
	s.mu.RUnlock()

	if !ok || raw == nil {
		return sitecontent.Value{Kind: sitecontent.KindRaw}, false
	}
	return sitecontent.Normalize(raw), true
}

func (s *service) Set(ctx context.Context, key string, value any) error {
	key, err := sitecontent.NormalizeKey(key)
	if err != nil {
		return err
	}

	// Authorization is checked locally; an unauthorized Set performs no
	// store call at all.
	if s.sessions == nil || !s.sessions.IsAdmin() {
		return sitecontent.ErrNotAuthorized
	}

	s.mu.RLock()
	locale := s.locale
	s.mu.RUnlock()
	if locale == "" {
		return sitecontent.ErrNotInitialized
	}

	var updatedBy uuid.UUID
	if user := s.sessions.CurrentUser(); user != nil {
		updatedBy = user.ID
	}

	now := s.now()
	entry := &sitecontent.Entry{
		Key:       key,
		Locale:    locale,
		Value:     value,
		UpdatedBy: updatedBy,
		UpdatedAt: now,
		CreatedAt: now,
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	stored, err := s.repo.Upsert(writeCtx, entry)
	if err != nil {
		s.logger.Error("content.set.failed", "key", key, "locale", locale, "error", err)
		return err
	}

	// Write-through: the same session observes its own write immediately.
	// No invalidation, last write wins at the store.
	s.mu.Lock()
	if s.locale == locale {
		s.snapshot[key] = stored.Value
	}
	s.mu.Unlock()

	s.recordActivity(ctx, stored, updatedBy)
	s.logger.Info("content.set", "key", key, "locale", locale)
	return nil
}

func (s *service) Reload(ctx context.Context) error {
	s.mu.RLock()
	locale := s.locale
	s.mu.RUnlock()
	if locale == "" {
		return sitecontent.ErrNotInitialized
	}
	return s.Initialize(ctx, locale)
}

func (s *service) SetLocale(ctx context.Context, locale string) error {
	return s.Initialize(ctx, locale)
}

func (s *service) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

func (s *service) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

func (s *service) localeAllowed(locale string) bool {
	if len(s.locales) == 0 {
		return true
	}
	for _, candidate := range s.locales {
		if candidate == locale {
			return true
		}
	}
	return false
}

func (s *service) recordActivity(ctx context.Context, entry *sitecontent.Entry, actor uuid.UUID) {
	if s.activity == nil {
		return
	}
	record := interfaces.ActivityRecord{
		ActorID:    actor,
		UserID:     actor,
		Verb:       "update",
		ObjectType: "content_entry",
		ObjectID:   entry.ID.String(),
		Channel:    "siteedit",
		OccurredAt: entry.UpdatedAt,
		Data: map[string]any{
			"key":    entry.Key,
			"locale": entry.Locale,
		},
	}
	if err := s.activity.Log(ctx, record); err != nil {
		s.logger.Warn("content.activity.failed", "key", entry.Key, "error", err)
	}
}
