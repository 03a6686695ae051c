package content

import "errors"

var (
	ErrNotAuthorized    = errors.New("siteedit: write requires an admin session")
	ErrKeyRequired      = errors.New("siteedit: content key is required")
	ErrKeyInvalid       = errors.New("siteedit: content key contains invalid characters")
	ErrLocaleRequired   = errors.New("siteedit: locale is required")
	ErrUnknownLocale    = errors.New("siteedit: locale is not configured")
	ErrNotInitialized   = errors.New("siteedit: content not loaded for any locale")
	ErrValueNotStorable = errors.New("siteedit: value cannot be encoded as JSON")
)
