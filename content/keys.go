package content

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
)

// Keys are dot-delimited paths such as "about.hero.title.top" or
// "services.items". Each segment must be slug-safe; purely numeric segments
// are allowed because legacy list storage used them as indexes
// ("testimonials.0", "testimonials.1").

// IsValidKey reports whether the key is a well-formed dot path.
func IsValidKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	for _, segment := range strings.Split(key, ".") {
		if segment == "" {
			return false
		}
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		if !slug.IsValid(segment) {
			return false
		}
	}
	return true
}

// NormalizeKey trims and slug-normalizes every non-numeric segment of a key.
func NormalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrKeyRequired
	}
	segments := strings.Split(key, ".")
	for i, segment := range segments {
		if segment == "" {
			return "", ErrKeyInvalid
		}
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		normalized, err := slug.Normalize(segment)
		if err != nil || normalized == "" {
			return "", ErrKeyInvalid
		}
		segments[i] = normalized
	}
	return strings.Join(segments, "."), nil
}

// IndexedKey builds the legacy numbered scalar key for a list position.
func IndexedKey(base string, index int) string {
	return base + "." + strconv.Itoa(index)
}
