package contentcmd

import (
	"context"
	"strings"
	"time"

	sitecontent "github.com/albayanlaw/go-siteedit/content"
	"github.com/albayanlaw/go-siteedit/internal/commands"
	"github.com/albayanlaw/go-siteedit/internal/entries"
	"github.com/albayanlaw/go-siteedit/pkg/interfaces"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const upsertEntryMessageType = "siteedit.content.upsert"

// UpsertEntryCommand writes a content entry directly through the repository.
// It is the seeding and ops path: it bypasses the session-gated resolver, so
// hosts must gate access to it themselves.
type UpsertEntryCommand struct {
	Key       string    `json:"key"`
	Locale    string    `json:"locale"`
	Value     any       `json:"value"`
	UpdatedBy uuid.UUID `json:"updated_by,omitempty"`
}

// Type implements command.Message.
func (UpsertEntryCommand) Type() string { return upsertEntryMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m UpsertEntryCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Key) == "" {
		errs["key"] = validation.NewError("siteedit.content.upsert.key_required", "key is required")
	} else if !sitecontent.IsValidKey(m.Key) {
		errs["key"] = validation.NewError("siteedit.content.upsert.key_invalid", "key must be a dot-separated slug path")
	}
	if strings.TrimSpace(m.Locale) == "" {
		errs["locale"] = validation.NewError("siteedit.content.upsert.locale_required", "locale is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpsertEntryHandler persists entries via the repository using the shared
// command handler foundation.
type UpsertEntryHandler struct {
	inner *commands.Handler[UpsertEntryCommand]
}

// NewUpsertEntryHandler constructs a handler wired to the provided repository.
func NewUpsertEntryHandler(repo entries.Repository, logger interfaces.Logger, opts ...commands.HandlerOption[UpsertEntryCommand]) *UpsertEntryHandler {
	exec := func(ctx context.Context, msg UpsertEntryCommand) error {
		key, err := sitecontent.NormalizeKey(msg.Key)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		_, err = repo.Upsert(ctx, &sitecontent.Entry{
			Key:       key,
			Locale:    strings.ToLower(strings.TrimSpace(msg.Locale)),
			Value:     msg.Value,
			UpdatedBy: msg.UpdatedBy,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[UpsertEntryCommand]{
		commands.WithLogger[UpsertEntryCommand](logger),
		commands.WithOperation[UpsertEntryCommand]("content.upsert"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UpsertEntryHandler{
		inner: commands.NewHandler[UpsertEntryCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UpsertEntryCommand].Execute.
func (h *UpsertEntryHandler) Execute(ctx context.Context, msg UpsertEntryCommand) error {
	return h.inner.Execute(ctx, msg)
}
