package siteedit

import "github.com/albayanlaw/go-siteedit/internal/runtimeconfig"

// Config aggregates runtime configuration for the module.
type Config = runtimeconfig.Config

// AuthConfig wires the identity service integration.
type AuthConfig = runtimeconfig.AuthConfig

// StorageConfig selects the entry store backend.
type StorageConfig = runtimeconfig.StorageConfig

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig = runtimeconfig.CacheConfig

// WriteConfig bounds write round trips and status display.
type WriteConfig = runtimeconfig.WriteConfig

// Features toggles module functionality.
type Features = runtimeconfig.Features

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig = runtimeconfig.LoggingConfig

// DefaultConfig returns the canonical configuration: Arabic-first with an
// English toggle, collections and richtext enabled, memory storage until a
// DSN is supplied.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
