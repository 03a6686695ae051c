package editctl_test

import (
	"context"
	"testing"

	"github.com/albayanlaw/go-siteedit/internal/editctl"
	"github.com/albayanlaw/go-siteedit/internal/entries"
	"github.com/albayanlaw/go-siteedit/internal/resolver"
	"github.com/albayanlaw/go-siteedit/internal/session"
)

type world struct {
	provider *session.MemoryIdentityProvider
	sessions session.Service
	content  resolver.Service
	edit     editctl.Service
}

func newWorld(t *testing.T, opts ...editctl.ServiceOption) *world {
	t.Helper()

	provider := session.NewMemoryIdentityProvider()
	sessions, err := session.NewService(provider)
	if err != nil {
		t.Fatalf("new session service: %v", err)
	}
	if err := sessions.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize sessions: %v", err)
	}

	content := resolver.NewService(
		entries.NewMemoryEntryRepository(),
		sessions,
		resolver.WithLocales([]string{"ar", "en"}),
	)
	if err := content.Initialize(context.Background(), "ar"); err != nil {
		t.Fatalf("initialize content: %v", err)
	}

	return &world{
		provider: provider,
		sessions: sessions,
		content:  content,
		edit:     editctl.NewService(sessions, content, opts...),
	}
}

func TestEditModeDefaultsOff(t *testing.T) {
	w := newWorld(t)

	if w.edit.EditMode() {
		t.Fatal("edit mode must default off")
	}
	if enabled := w.edit.ToggleEditMode(); !enabled {
		t.Fatal("expected toggle to enable")
	}
	if enabled := w.edit.ToggleEditMode(); enabled {
		t.Fatal("expected toggle to disable")
	}
}

func TestCanEditRequiresBothFlagAndAdmin(t *testing.T) {
	w := newWorld(t)

	w.edit.SetEditMode(true)
	if w.edit.CanEdit() {
		t.Fatal("edit mode alone must not grant editing")
	}

	w.provider.Authenticate("admin@albayan.law", session.DefaultAdminRole)
	if !w.edit.CanEdit() {
		t.Fatal("expected admin with edit mode on to edit")
	}

	w.edit.SetEditMode(false)
	if w.edit.CanEdit() {
		t.Fatal("admin without edit mode must not edit")
	}
}

func TestToggleLocaleCycles(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	locale, err := w.edit.ToggleLocale(ctx)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if locale != "en" {
		t.Fatalf("expected en after ar, got %q", locale)
	}
	if w.content.Locale() != "en" {
		t.Fatalf("expected resolver to follow, got %q", w.content.Locale())
	}

	locale, err = w.edit.ToggleLocale(ctx)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if locale != "ar" {
		t.Fatalf("expected cycle back to ar, got %q", locale)
	}
}

func TestSignOutDropsEditMode(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	w.provider.Authenticate("admin@albayan.law", session.DefaultAdminRole)
	w.edit.SetEditMode(true)

	if err := w.edit.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if w.edit.EditMode() {
		t.Fatal("edit mode must drop on sign out")
	}
	if w.sessions.IsAdmin() {
		t.Fatal("session must end on sign out")
	}
}

func TestLoginVisibleIsExplicit(t *testing.T) {
	hidden := newWorld(t)
	if hidden.edit.LoginVisible() {
		t.Fatal("login affordance must default hidden")
	}

	visible := newWorld(t, editctl.WithLoginVisible(true))
	if !visible.edit.LoginVisible() {
		t.Fatal("expected login affordance when configured")
	}
}
