package editctl

import (
	"context"
	"strings"
	"sync"

	"github.com/albayanlaw/go-siteedit/internal/logging"
	"github.com/albayanlaw/go-siteedit/internal/resolver"
	"github.com/albayanlaw/go-siteedit/internal/session"
	"github.com/albayanlaw/go-siteedit/pkg/interfaces"
)

// Service is the floating admin control surface: it owns the per-process
// edit-mode flag and the locale toggle. Edit mode is never persisted; it
// defaults off on every start.
type Service interface {
	// EditMode reports the raw flag, independent of admin status.
	EditMode() bool
	// SetEditMode forces the flag.
	SetEditMode(enabled bool)
	// ToggleEditMode flips the flag and returns the new value.
	ToggleEditMode() bool
	// CanEdit is the single predicate widget variants switch on: edit mode
	// must be on and the session must be an admin.
	CanEdit() bool
	// ToggleLocale cycles to the next configured locale and re-initializes
	// content resolution for it.
	ToggleLocale(ctx context.Context) (string, error)
	// SignOut ends the session and drops edit mode.
	SignOut(ctx context.Context) error
	// LoginVisible reports whether the login affordance should be exposed
	// to anonymous visitors. Gated by explicit configuration, not UI
	// obscurity.
	LoginVisible() bool
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithLocales sets the locale cycle order. Defaults to [ar en].
func WithLocales(locales []string) ServiceOption {
	return func(s *service) {
		cleaned := make([]string, 0, len(locales))
		for _, locale := range locales {
			if trimmed := strings.ToLower(strings.TrimSpace(locale)); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			s.locales = cleaned
		}
	}
}

// WithLoginVisible controls whether anonymous visitors see a login entry
// point.
func WithLoginVisible(visible bool) ServiceOption {
	return func(s *service) {
		s.loginVisible = visible
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

type service struct {
	sessions session.Service
	content  resolver.Service
	logger   interfaces.Logger

	locales      []string
	loginVisible bool

	mu       sync.RWMutex
	editMode bool
}

// NewService constructs the control surface over the session and resolver
// services.
func NewService(sessions session.Service, content resolver.Service, opts ...ServiceOption) Service {
	s := &service{
		sessions: sessions,
		content:  content,
		logger:   logging.NoOp(),
		locales:  []string{"ar", "en"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) EditMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editMode
}

func (s *service) SetEditMode(enabled bool) {
	s.mu.Lock()
	s.editMode = enabled
	s.mu.Unlock()
	s.logger.Debug("editctl.edit_mode", "enabled", enabled)
}

func (s *service) ToggleEditMode() bool {
	s.mu.Lock()
	s.editMode = !s.editMode
	enabled := s.editMode
	s.mu.Unlock()
	s.logger.Debug("editctl.edit_mode", "enabled", enabled)
	return enabled
}

func (s *service) CanEdit() bool {
	return s.EditMode() && s.sessions != nil && s.sessions.IsAdmin()
}

func (s *service) ToggleLocale(ctx context.Context) (string, error) {
	current := s.content.Locale()
	next := s.nextLocale(current)
	if err := s.content.SetLocale(ctx, next); err != nil {
		return current, err
	}
	s.logger.Info("editctl.locale", "locale", next)
	return next, nil
}

func (s *service) SignOut(ctx context.Context) error {
	if err := s.sessions.SignOut(ctx); err != nil {
		return err
	}
	s.SetEditMode(false)
	return nil
}

func (s *service) LoginVisible() bool {
	return s.loginVisible
}

func (s *service) nextLocale(current string) string {
	for index, locale := range s.locales {
		if locale == current {
			return s.locales[(index+1)%len(s.locales)]
		}
	}
	return s.locales[0]
}
