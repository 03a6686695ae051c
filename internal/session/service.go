package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/albayanlaw/go-siteedit/internal/logging"
	"github.com/albayanlaw/go-siteedit/pkg/interfaces"
)

// DefaultAdminRole is the role attribute that grants write access. There are
// no finer-grained permissions; authorization is all-or-nothing.
const DefaultAdminRole = "cms_admin"

var (
	ErrEmailRequired    = errors.New("session: email is required")
	ErrProviderRequired = errors.New("session: identity provider is required")
	ErrNotInitialized   = errors.New("session: service not initialized")
)

// State describes the bootstrap lifecycle of the session service.
type State string

const (
	StateLoading       State = "loading"
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// Service wraps the identity provider's session lifecycle and exposes the
// admin predicate the content layer depends on.
type Service interface {
	// Initialize fetches the current session once and subscribes to change
	// notifications for the lifetime of the service.
	Initialize(ctx context.Context) error
	// Teardown unsubscribes from session notifications.
	Teardown()
	// CurrentUser returns the authenticated user, or nil when anonymous.
	CurrentUser() *interfaces.User
	// Loading reports whether the bootstrap fetch is still outstanding.
	Loading() bool
	// State returns the lifecycle state.
	State() State
	// IsAdmin reports whether the current user carries the admin role.
	IsAdmin() bool
	// SignInWithOTP requests a passwordless login link for the email.
	SignInWithOTP(ctx context.Context, email string) error
	// SignOut invalidates the session and clears local state.
	SignOut(ctx context.Context) error
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithAdminRole overrides the role attribute treated as admin.
func WithAdminRole(role string) ServiceOption {
	return func(s *service) {
		if trimmed := strings.TrimSpace(role); trimmed != "" {
			s.adminRole = trimmed
		}
	}
}

// WithRedirectURL sets the callback URL included in OTP sign-in requests.
func WithRedirectURL(url string) ServiceOption {
	return func(s *service) {
		s.redirectURL = strings.TrimSpace(url)
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
	provider    interfaces.IdentityProvider
	adminRole   string
	redirectURL string
	logger      interfaces.Logger

	mu          sync.RWMutex
	state       State
	current     *interfaces.Session
	unsubscribe func()
}

// NewService constructs a session service over the supplied identity
// provider.
func NewService(provider interfaces.IdentityProvider, opts ...ServiceOption) (Service, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	s := &service{
		provider:  provider,
		adminRole: DefaultAdminRole,
		logger:    logging.NoOp(),
		state:     StateLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) Initialize(ctx context.Context) error {
	current, err := s.provider.Session(ctx)
	if err != nil {
		// A failed bootstrap degrades to anonymous; the subscription can
		// still promote the session later.
		s.logger.Warn("session.bootstrap.failed", "error", err)
		current = nil
	}

	s.mu.Lock()
	s.current = current
	s.state = stateFor(current)
	if s.unsubscribe == nil {
		s.unsubscribe = s.provider.OnSessionChange(s.apply)
	}
	s.mu.Unlock()

	s.logger.Debug("session.initialized", "state", string(s.State()))
	return nil
}

func (s *service) Teardown() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// apply handles pushed session changes, including external expiry.
func (s *service) apply(session *interfaces.Session) {
	s.mu.Lock()
	s.current = session
	s.state = stateFor(session)
	s.mu.Unlock()

	s.logger.Debug("session.changed", "state", string(stateFor(session)))
}

func (s *service) CurrentUser() *interfaces.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	user := s.current.User
	return &user
}

func (s *service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateLoading
}

func (s *service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *service) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.User.Role == s.adminRole
}

func (s *service) SignInWithOTP(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	err := s.provider.SignInWithOTP(ctx, interfaces.OTPSignInRequest{
		Email:      email,
		RedirectTo: s.redirectURL,
	})
	if err != nil {
		s.logger.Warn("session.otp.failed", "error", err)
		return err
	}
	s.logger.Info("session.otp.requested")
	return nil
}

func (s *service) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		return err
	}
	s.apply(nil)
	return nil
}

func stateFor(session *interfaces.Session) State {
	if session == nil {
		return StateAnonymous
	}
	return StateAuthenticated
}
