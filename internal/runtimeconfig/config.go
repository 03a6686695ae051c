package runtimeconfig

import (
	"errors"
	"strings"
	"time"
)

var ErrDefaultLocaleRequired = errors.New("siteedit config: default locale is required")
var ErrDefaultLocaleUnknown = errors.New("siteedit config: default locale must be listed in locales")
var ErrLocalesRequired = errors.New("siteedit config: at least one locale is required")
var ErrAdminRoleRequired = errors.New("siteedit config: admin role is required")
var ErrWriteTimeoutInvalid = errors.New("siteedit config: write timeout must be positive")
var ErrStatusTTLInvalid = errors.New("siteedit config: status ttl must be positive")
var ErrStorageDriverUnknown = errors.New("siteedit config: storage driver is invalid")
var ErrLoggingProviderRequired = errors.New("siteedit config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("siteedit config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("siteedit config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("siteedit config: logging format is invalid")
var ErrCacheTTLInvalid = errors.New("siteedit config: cache ttl must be positive when cache is enabled")

// Config aggregates feature flags and adapter bindings for the siteedit
// module. Fields intentionally use simple types so host applications can
// extend them later.
type Config struct {
	Enabled       bool
	DefaultLocale string
	Locales       []string
	Auth          AuthConfig
	Storage       StorageConfig
	Cache         CacheConfig
	Write         WriteConfig
	Features      Features
	Logging       LoggingConfig
}

// AuthConfig wires the identity service integration.
type AuthConfig struct {
	// AdminRole is the role attribute granting write access.
	AdminRole string
	// RedirectURL is the OTP callback target back into the host app.
	RedirectURL string
	// LoginEnabled exposes the login affordance to anonymous visitors.
	// There is deliberately no hidden-trigger mode.
	LoginEnabled bool
}

// StorageConfig selects the entry store backend. An empty DSN keeps the
// in-memory repository.
type StorageConfig struct {
	Driver string
	DSN    string
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// WriteConfig bounds write round trips and status display.
type WriteConfig struct {
	// Timeout caps a single upsert; a UX safeguard, not transport-level
	// cancellation.
	Timeout time.Duration
	// StatusTTL is how long saved/failed editor statuses linger.
	StatusTTL time.Duration
}

// Features toggles module functionality.
type Features struct {
	Collections bool
	RichText    bool
	Logger      bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the canonical configuration for the bilingual site:
// Arabic-first with an English toggle, collections and richtext on, memory
// storage until a DSN is supplied.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		DefaultLocale: "ar",
		Locales:       []string{"ar", "en"},
		Auth: AuthConfig{
			AdminRole: "cms_admin",
		},
		Cache: CacheConfig{
			DefaultTTL: 5 * time.Minute,
		},
		Write: WriteConfig{
			Timeout:   8 * time.Second,
			StatusTTL: 2500 * time.Millisecond,
		},
		Features: Features{
			Collections: true,
			RichText:    true,
			Logger:      true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "console",
		},
	}
}

// Validate checks cross-field consistency. It is called by the DI container
// before any wiring happens.
func (c Config) Validate() error {
	if len(c.Locales) == 0 {
		return ErrLocalesRequired
	}
	defaultLocale := strings.ToLower(strings.TrimSpace(c.DefaultLocale))
	if defaultLocale == "" {
		return ErrDefaultLocaleRequired
	}
	found := false
	for _, locale := range c.Locales {
		if strings.ToLower(strings.TrimSpace(locale)) == defaultLocale {
			found = true
			break
		}
	}
	if !found {
		return ErrDefaultLocaleUnknown
	}
	if strings.TrimSpace(c.Auth.AdminRole) == "" {
		return ErrAdminRoleRequired
	}
	if c.Write.Timeout <= 0 {
		return ErrWriteTimeoutInvalid
	}
	if c.Write.StatusTTL <= 0 {
		return ErrStatusTTLInvalid
	}
	switch strings.ToLower(strings.TrimSpace(c.Storage.Driver)) {
	case "", "memory", "sqlite", "postgres":
	default:
		return ErrStorageDriverUnknown
	}
	if c.Cache.Enabled && c.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}
	return c.validateLogging()
}

func (c Config) validateLogging() error {
	if !c.Features.Logger {
		return nil
	}
	provider := strings.ToLower(strings.TrimSpace(c.Logging.Provider))
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	switch provider {
	case "console", "gologger", "noop":
	default:
		return ErrLoggingProviderUnknown
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "json", "console", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}
	return nil
}
