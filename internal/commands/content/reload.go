package contentcmd

import (
	"context"
	"strings"

	"github.com/albayanlaw/go-siteedit/internal/commands"
	"github.com/albayanlaw/go-siteedit/internal/resolver"
	"github.com/albayanlaw/go-siteedit/pkg/interfaces"
)

const reloadContentMessageType = "siteedit.content.reload"

// ReloadContentCommand refreshes the resolver snapshot. An empty locale
// re-reads the active one; a concrete locale switches resolution to it.
type ReloadContentCommand struct {
	Locale string `json:"locale,omitempty"`
}

// Type implements command.Message.
func (ReloadContentCommand) Type() string { return reloadContentMessageType }

// Validate implements command.Message. Every field is optional.
func (ReloadContentCommand) Validate() error { return nil }

// ReloadContentHandler refreshes the resolver snapshot via the shared
// command handler foundation.
type ReloadContentHandler struct {
	inner *commands.Handler[ReloadContentCommand]
}

// NewReloadContentHandler constructs a handler wired to the content resolver.
func NewReloadContentHandler(service resolver.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ReloadContentCommand]) *ReloadContentHandler {
	exec := func(ctx context.Context, msg ReloadContentCommand) error {
		if locale := strings.TrimSpace(msg.Locale); locale != "" {
			return service.SetLocale(ctx, locale)
		}
		return service.Reload(ctx)
	}

	handlerOpts := []commands.HandlerOption[ReloadContentCommand]{
		commands.WithLogger[ReloadContentCommand](logger),
		commands.WithOperation[ReloadContentCommand]("content.reload"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ReloadContentHandler{
		inner: commands.NewHandler[ReloadContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ReloadContentCommand].Execute.
func (h *ReloadContentHandler) Execute(ctx context.Context, msg ReloadContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
