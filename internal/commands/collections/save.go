package collectionscmd

import (
	"context"
	"strings"

	"github.com/albayanlaw/go-siteedit/internal/collections"
	"github.com/albayanlaw/go-siteedit/internal/commands"
	"github.com/albayanlaw/go-siteedit/pkg/interfaces"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const saveCollectionMessageType = "siteedit.collections.save"

// SaveCollectionCommand re-saves a named collection through its editor. The
// save pipeline cleans and validates the stored items, so dispatching this
// after a schema change migrates legacy values into canonical shape. It runs
// under the active session and therefore still requires an admin.
type SaveCollectionCommand struct {
	Name string `json:"name"`
}

// Type implements command.Message.
func (SaveCollectionCommand) Type() string { return saveCollectionMessageType }

// Validate ensures the message names a collection.
func (m SaveCollectionCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Name) == "" {
		errs["name"] = validation.NewError("siteedit.collections.save.name_required", "name is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SaveCollectionHandler persists collections via the editor pipeline using
// the shared command handler foundation.
type SaveCollectionHandler struct {
	inner *commands.Handler[SaveCollectionCommand]
}

// NewSaveCollectionHandler constructs a handler wired to the collections service.
func NewSaveCollectionHandler(service collections.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SaveCollectionCommand]) *SaveCollectionHandler {
	exec := func(ctx context.Context, msg SaveCollectionCommand) error {
		editor, err := service.Editor(msg.Name)
		if err != nil {
			return err
		}
		return editor.Save(ctx)
	}

	handlerOpts := []commands.HandlerOption[SaveCollectionCommand]{
		commands.WithLogger[SaveCollectionCommand](logger),
		commands.WithOperation[SaveCollectionCommand]("collections.save"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveCollectionHandler{
		inner: commands.NewHandler[SaveCollectionCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SaveCollectionCommand].Execute.
func (h *SaveCollectionHandler) Execute(ctx context.Context, msg SaveCollectionCommand) error {
	return h.inner.Execute(ctx, msg)
}
