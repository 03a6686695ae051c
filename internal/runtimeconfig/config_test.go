package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/albayanlaw/go-siteedit/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.DefaultLocale != "ar" {
		t.Fatalf("expected arabic-first default, got %q", cfg.DefaultLocale)
	}
	if len(cfg.Locales) != 2 || cfg.Locales[0] != "ar" || cfg.Locales[1] != "en" {
		t.Fatalf("unexpected locales: %v", cfg.Locales)
	}
	if cfg.Auth.LoginEnabled {
		t.Fatal("login affordance must default off")
	}
	if !cfg.Features.Collections || !cfg.Features.RichText {
		t.Fatal("collections and richtext default on")
	}
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "no locales",
			mutate: func(c *runtimeconfig.Config) { c.Locales = nil },
			want:   runtimeconfig.ErrLocalesRequired,
		},
		{
			name:   "no default locale",
			mutate: func(c *runtimeconfig.Config) { c.DefaultLocale = " " },
			want:   runtimeconfig.ErrDefaultLocaleRequired,
		},
		{
			name:   "default locale not listed",
			mutate: func(c *runtimeconfig.Config) { c.DefaultLocale = "fr" },
			want:   runtimeconfig.ErrDefaultLocaleUnknown,
		},
		{
			name:   "missing admin role",
			mutate: func(c *runtimeconfig.Config) { c.Auth.AdminRole = "" },
			want:   runtimeconfig.ErrAdminRoleRequired,
		},
		{
			name:   "non-positive write timeout",
			mutate: func(c *runtimeconfig.Config) { c.Write.Timeout = 0 },
			want:   runtimeconfig.ErrWriteTimeoutInvalid,
		},
		{
			name:   "non-positive status ttl",
			mutate: func(c *runtimeconfig.Config) { c.Write.StatusTTL = -time.Second },
			want:   runtimeconfig.ErrStatusTTLInvalid,
		},
		{
			name:   "unknown storage driver",
			mutate: func(c *runtimeconfig.Config) { c.Storage.Driver = "mongodb" },
			want:   runtimeconfig.ErrStorageDriverUnknown,
		},
		{
			name: "cache on without ttl",
			mutate: func(c *runtimeconfig.Config) {
				c.Cache.Enabled = true
				c.Cache.DefaultTTL = 0
			},
			want: runtimeconfig.ErrCacheTTLInvalid,
		},
		{
			name:   "logging provider missing",
			mutate: func(c *runtimeconfig.Config) { c.Logging.Provider = "" },
			want:   runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name:   "logging provider unknown",
			mutate: func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" },
			want:   runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name:   "logging level invalid",
			mutate: func(c *runtimeconfig.Config) { c.Logging.Level = "verbose" },
			want:   runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name:   "logging format invalid",
			mutate: func(c *runtimeconfig.Config) { c.Logging.Format = "xml" },
			want:   runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateAcceptsKnownDrivers(t *testing.T) {
	for _, driver := range []string{"", "memory", "sqlite", "postgres"} {
		cfg := runtimeconfig.DefaultConfig()
		cfg.Storage.Driver = driver
		if err := cfg.Validate(); err != nil {
			t.Fatalf("driver %q must validate, got %v", driver, err)
		}
	}
}

func TestValidateSkipsLoggingWhenFeatureOff(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = false
	cfg.Logging.Provider = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("logging checks must be gated by the feature flag, got %v", err)
	}
}
