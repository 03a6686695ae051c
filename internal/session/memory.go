package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/albayanlaw/go-siteedit/pkg/interfaces"
)

// MemoryIdentityProvider is an in-memory identity service for scaffolding and
// tests. SignIn simulates the passwordless flow by recording the request; the
// test (or host) completes it by calling Authenticate.
type MemoryIdentityProvider struct {
	mu        sync.Mutex
	current   *interfaces.Session
	handlers  map[int]interfaces.SessionHandler
	nextID    int
	otpInbox  []interfaces.OTPSignInRequest
	signInErr error
	sessErr   error
}

// NewMemoryIdentityProvider creates a provider with no active session.
func NewMemoryIdentityProvider() *MemoryIdentityProvider {
	return &MemoryIdentityProvider{
		handlers: make(map[int]interfaces.SessionHandler),
	}
}

func (m *MemoryIdentityProvider) Session(_ context.Context) (*interfaces.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessErr != nil {
		return nil, m.sessErr
	}
	return cloneSession(m.current), nil
}

func (m *MemoryIdentityProvider) OnSessionChange(fn interfaces.SessionHandler) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.handlers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.handlers, id)
		m.mu.Unlock()
	}
}

func (m *MemoryIdentityProvider) SignInWithOTP(_ context.Context, req interfaces.OTPSignInRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.signInErr != nil {
		return m.signInErr
	}
	m.otpInbox = append(m.otpInbox, req)
	return nil
}

func (m *MemoryIdentityProvider) SignOut(_ context.Context) error {
	m.setSession(nil)
	return nil
}

// Authenticate installs a session as if the operator completed the OTP
// callback, notifying subscribers.
func (m *MemoryIdentityProvider) Authenticate(email, role string) *interfaces.Session {
	session := &interfaces.Session{
		Token: uuid.NewString(),
		User: interfaces.User{
			ID:    uuid.New(),
			Email: email,
			Role:  role,
		},
	}
	m.setSession(session)
	return cloneSession(session)
}

// Expire simulates an external session expiry pushed by the identity service.
func (m *MemoryIdentityProvider) Expire() {
	m.setSession(nil)
}

// OTPRequests returns the passwordless link requests recorded so far.
func (m *MemoryIdentityProvider) OTPRequests() []interfaces.OTPSignInRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]interfaces.OTPSignInRequest, len(m.otpInbox))
	copy(out, m.otpInbox)
	return out
}

// FailSignIn makes subsequent SignInWithOTP calls return err.
func (m *MemoryIdentityProvider) FailSignIn(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signInErr = err
}

// FailSession makes subsequent Session calls return err.
func (m *MemoryIdentityProvider) FailSession(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessErr = err
}

func (m *MemoryIdentityProvider) setSession(session *interfaces.Session) {
	m.mu.Lock()
	m.current = session
	handlers := make([]interfaces.SessionHandler, 0, len(m.handlers))
	for _, fn := range m.handlers {
		handlers = append(handlers, fn)
	}
	m.mu.Unlock()

	for _, fn := range handlers {
		fn(cloneSession(session))
	}
}

func cloneSession(src *interfaces.Session) *interfaces.Session {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}
