package logging

import (
	"context"
	"strings"

	"github.com/albayanlaw/go-siteedit/pkg/interfaces"
)

const (
	rootModule        = "siteedit"
	contentModule     = "siteedit.content"
	collectionsModule = "siteedit.collections"
	sessionModule     = "siteedit.session"
	editctlModule     = "siteedit.editctl"
)

const (
	fieldContentKey    = "content_key"
	fieldContentLocale = "locale"
	fieldEditOperation = "operation"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ContentLogger returns the logger namespace reserved for content resolution.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// CollectionsLogger returns the logger namespace reserved for list editors.
func CollectionsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, collectionsModule)
}

// SessionLogger returns the logger namespace reserved for the auth session.
func SessionLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sessionModule)
}

// EditControlLogger returns the logger namespace reserved for the edit
// control surface.
func EditControlLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, editctlModule)
}

// WithEditContext enriches the provided logger with common edit fields such
// as the content key, locale, and operation. Empty values are ignored.
func WithEditContext(logger interfaces.Logger, key, locale, operation string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(key); trimmed != "" {
		fields[fieldContentKey] = trimmed
	}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields[fieldContentLocale] = trimmed
	}
	if trimmed := strings.TrimSpace(operation); trimmed != "" {
		fields[fieldEditOperation] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
