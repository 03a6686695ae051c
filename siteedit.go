package siteedit

import (
	"context"

	"github.com/albayanlaw/go-siteedit/internal/collections"
	"github.com/albayanlaw/go-siteedit/internal/di"
	"github.com/albayanlaw/go-siteedit/internal/editctl"
	"github.com/albayanlaw/go-siteedit/internal/entries"
	"github.com/albayanlaw/go-siteedit/internal/resolver"
	"github.com/albayanlaw/go-siteedit/internal/richtext"
	"github.com/albayanlaw/go-siteedit/internal/session"
)

// ContentService exports the content resolution contract for consumers of
// the siteedit package.
type ContentService = resolver.Service

// SessionService exports the session lifecycle contract.
type SessionService = session.Service

// CollectionsService exports the collection editing contract.
type CollectionsService = collections.Service

// CollectionEditor exports the per-collection draft editor.
type CollectionEditor = collections.Editor

// CollectionSchema exports the host-registrable collection schema.
type CollectionSchema = collections.Schema

// EditControlService exports the edit-mode controller contract.
type EditControlService = editctl.Service

// EntryRepository exports the entry persistence contract.
type EntryRepository = entries.Repository

// Module represents the top level siteedit runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a siteedit module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Initialize prepares storage, loads the current session, and resolves the
// default locale's content snapshot. Call it once before serving.
func (m *Module) Initialize(ctx context.Context) error {
	return m.container.Initialize(ctx)
}

// Teardown releases the session subscription and any resources the module
// opened itself.
func (m *Module) Teardown() error {
	return m.container.Teardown()
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Content returns the configured content resolver.
func (m *Module) Content() ContentService {
	return m.container.ContentService()
}

// Session returns the configured session service.
func (m *Module) Session() SessionService {
	return m.container.SessionService()
}

// Collections returns the configured collections service.
func (m *Module) Collections() CollectionsService {
	return m.container.CollectionsService()
}

// EditControl returns the configured edit-mode controller.
func (m *Module) EditControl() EditControlService {
	return m.container.EditControlService()
}

// RichText returns the markdown renderer, or nil when the richtext feature
// is disabled.
func (m *Module) RichText() *richtext.Renderer {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.RichTextRenderer()
}

// Entries exposes the configured entry repository for seeding and ops tasks.
func (m *Module) Entries() EntryRepository {
	return m.container.EntryRepository()
}
