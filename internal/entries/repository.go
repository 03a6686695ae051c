package entries

import (
	"context"
	"fmt"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository abstracts storage for content entries. Implementations must
// treat (key, locale) as the logical identity of a row and must never reorder
// array-shaped values.
type Repository interface {
	// GetByKey returns the entry for (key, locale) or NotFoundError.
	GetByKey(ctx context.Context, key, locale string) (*Entry, error)
	// ListByLocale returns every entry stored for the locale.
	ListByLocale(ctx context.Context, locale string) ([]*Entry, error)
	// Upsert inserts or replaces the entry identified by (key, locale).
	Upsert(ctx context.Context, record *Entry) (*Entry, error)
	// List returns all entries across locales.
	List(ctx context.Context) ([]*Entry, error)
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// NewEntryRepository builds the go-repository-bun repository backing the bun
// implementation. The identifier column is the dot key; composite lookups go
// through the deterministic entry UUID instead.
func NewEntryRepository(db *bun.DB) repository.Repository[*Entry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Entry]{
		NewRecord: func() *Entry { return &Entry{} },
		GetID: func(e *Entry) uuid.UUID {
			return e.ID
		},
		SetID: func(e *Entry, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(e *Entry) string {
			if e == nil {
				return ""
			}
			return e.Key
		},
	})
}
