package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// User is the identity-service view of an authenticated operator. Role is the
// sole authorization attribute; there are no per-key permissions.
type User struct {
	ID    uuid.UUID
	Email string
	Role  string
}

// Session is an authenticated identity-service session.
type Session struct {
	Token string
	User  User
}

// OTPSignInRequest asks the identity service to mail a passwordless login
// link. RedirectTo points the callback back into the host application.
type OTPSignInRequest struct {
	Email      string
	RedirectTo string
}

// SessionHandler receives session-change notifications. A nil session means
// the operator is anonymous (signed out or expired).
type SessionHandler func(*Session)

// IdentityProvider wraps the hosted identity service consumed by the session
// module. The provider owns token persistence; siteedit keeps no credential
// state of its own.
type IdentityProvider interface {
	// Session returns the current session, or nil when anonymous.
	Session(ctx context.Context) (*Session, error)
	// OnSessionChange subscribes for the lifetime of the returned unsubscribe
	// function. Implementations must tolerate unsubscribe being called once.
	OnSessionChange(fn SessionHandler) (unsubscribe func())
	// SignInWithOTP requests a passwordless login link. The flow completes
	// out-of-band; success here only means the request was accepted.
	SignInWithOTP(ctx context.Context, req OTPSignInRequest) error
	// SignOut invalidates the current session.
	SignOut(ctx context.Context) error
}
