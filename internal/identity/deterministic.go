package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// EntryUUID derives the identifier for a content entry from its composite
// (key, locale) identity. Upserts for the same pair always converge on the
// same row regardless of arrival order.
func EntryUUID(key, locale string) uuid.UUID {
	return UUID("siteedit:entry:" + strings.ToLower(strings.TrimSpace(locale)) + ":" + strings.TrimSpace(key))
}
