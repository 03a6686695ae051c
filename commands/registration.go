package commands

import (
	"errors"

	collectionscmd "github.com/albayanlaw/go-siteedit/internal/commands/collections"
	contentcmd "github.com/albayanlaw/go-siteedit/internal/commands/content"
	"github.com/albayanlaw/go-siteedit/internal/di"
	"github.com/albayanlaw/go-siteedit/pkg/interfaces"

	internalcmd "github.com/albayanlaw/go-siteedit/internal/commands"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	LoggerProvider interfaces.LoggerProvider
}

// RegistrationResult captures the constructed command handlers and any
// dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// RegisterContainerCommands builds the command handlers exposed by the
// provided container and optionally registers them with registry and
// dispatcher integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	loggerFor := func(module string) interfaces.Logger {
		return internalcmd.CommandLogger(provider, module)
	}

	if repo := container.EntryRepository(); repo != nil {
		register(contentcmd.NewUpsertEntryHandler(repo, loggerFor("content")))
	}

	if service := container.ContentService(); service != nil {
		register(contentcmd.NewReloadContentHandler(service, loggerFor("content")))
	}

	if service := container.CollectionsService(); service != nil {
		register(collectionscmd.NewSaveCollectionHandler(service, loggerFor("collections")))
	}

	return result, errs
}
