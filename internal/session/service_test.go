package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/albayanlaw/go-siteedit/internal/session"
)

func newSessionService(t *testing.T, provider *session.MemoryIdentityProvider, opts ...session.ServiceOption) session.Service {
	t.Helper()

	svc, err := session.NewService(provider, opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestServiceRequiresProvider(t *testing.T) {
	if _, err := session.NewService(nil); !errors.Is(err, session.ErrProviderRequired) {
		t.Fatalf("expected ErrProviderRequired, got %v", err)
	}
}

func TestInitializeAnonymous(t *testing.T) {
	ctx := context.Background()
	provider := session.NewMemoryIdentityProvider()
	svc := newSessionService(t, provider)

	if !svc.Loading() {
		t.Fatal("expected service to start loading")
	}
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if svc.Loading() {
		t.Fatal("expected loading to finish")
	}
	if svc.State() != session.StateAnonymous {
		t.Fatalf("expected anonymous state, got %q", svc.State())
	}
	if svc.CurrentUser() != nil {
		t.Fatal("expected no current user")
	}
	if svc.IsAdmin() {
		t.Fatal("anonymous session must not be admin")
	}
}

func TestSessionPushPromotesAndExpires(t *testing.T) {
	ctx := context.Background()
	provider := session.NewMemoryIdentityProvider()
	svc := newSessionService(t, provider)
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	provider.Authenticate("admin@albayan.law", session.DefaultAdminRole)

	if svc.State() != session.StateAuthenticated {
		t.Fatalf("expected authenticated state, got %q", svc.State())
	}
	if !svc.IsAdmin() {
		t.Fatal("expected admin after authenticate push")
	}
	user := svc.CurrentUser()
	if user == nil || user.Email != "admin@albayan.law" {
		t.Fatalf("unexpected current user: %+v", user)
	}

	// External expiry is pushed the same way a login is.
	provider.Expire()
	if svc.State() != session.StateAnonymous {
		t.Fatalf("expected anonymous after expiry, got %q", svc.State())
	}
	if svc.IsAdmin() {
		t.Fatal("expired session must not stay admin")
	}
}

func TestNonAdminRoleIsNotAdmin(t *testing.T) {
	ctx := context.Background()
	provider := session.NewMemoryIdentityProvider()
	svc := newSessionService(t, provider)
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	provider.Authenticate("viewer@albayan.law", "viewer")
	if svc.State() != session.StateAuthenticated {
		t.Fatalf("expected authenticated state, got %q", svc.State())
	}
	if svc.IsAdmin() {
		t.Fatal("non-admin role must not be admin")
	}
}

func TestCustomAdminRole(t *testing.T) {
	ctx := context.Background()
	provider := session.NewMemoryIdentityProvider()
	svc := newSessionService(t, provider, session.WithAdminRole("editor"))
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	provider.Authenticate("editor@albayan.law", "editor")
	if !svc.IsAdmin() {
		t.Fatal("expected custom role to grant admin")
	}
}

func TestFailedBootstrapDegradesToAnonymous(t *testing.T) {
	ctx := context.Background()
	provider := session.NewMemoryIdentityProvider()
	provider.FailSession(errors.New("network down"))
	svc := newSessionService(t, provider)

	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("initialize should swallow bootstrap failure, got %v", err)
	}
	if svc.State() != session.StateAnonymous {
		t.Fatalf("expected anonymous fallback, got %q", svc.State())
	}

	// The subscription still promotes a later login.
	provider.Authenticate("admin@albayan.law", session.DefaultAdminRole)
	if !svc.IsAdmin() {
		t.Fatal("expected push to promote session after failed bootstrap")
	}
}

func TestSignInWithOTP(t *testing.T) {
	ctx := context.Background()
	provider := session.NewMemoryIdentityProvider()
	svc := newSessionService(t, provider, session.WithRedirectURL("https://albayan.law/admin"))
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if err := svc.SignInWithOTP(ctx, "  "); !errors.Is(err, session.ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}

	if err := svc.SignInWithOTP(ctx, "admin@albayan.law"); err != nil {
		t.Fatalf("otp sign-in: %v", err)
	}
	requests := provider.OTPRequests()
	if len(requests) != 1 {
		t.Fatalf("expected 1 otp request, got %d", len(requests))
	}
	if requests[0].Email != "admin@albayan.law" || requests[0].RedirectTo != "https://albayan.law/admin" {
		t.Fatalf("unexpected otp request: %+v", requests[0])
	}
}

func TestSignOutClearsSession(t *testing.T) {
	ctx := context.Background()
	provider := session.NewMemoryIdentityProvider()
	svc := newSessionService(t, provider)
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	provider.Authenticate("admin@albayan.law", session.DefaultAdminRole)

	if err := svc.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if svc.State() != session.StateAnonymous {
		t.Fatalf("expected anonymous after sign out, got %q", svc.State())
	}
	if svc.CurrentUser() != nil {
		t.Fatal("expected no user after sign out")
	}
}

func TestTeardownStopsNotifications(t *testing.T) {
	ctx := context.Background()
	provider := session.NewMemoryIdentityProvider()
	svc := newSessionService(t, provider)
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	svc.Teardown()
	provider.Authenticate("admin@albayan.law", session.DefaultAdminRole)

	if svc.State() != session.StateAnonymous {
		t.Fatalf("expected state to stay anonymous after teardown, got %q", svc.State())
	}
}
