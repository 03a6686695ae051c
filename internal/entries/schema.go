package entries

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// EnsureSchema creates the content_entries table and its composite uniqueness
// index when they do not exist. The (key, locale) unique index backs the
// upsert identity; the locale index serves the bulk load on startup and
// locale switches.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*Entry)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("entries schema: create table: %w", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*Entry)(nil)).
		Index("idx_content_entries_key_locale").
		Unique().
		Column("key", "locale").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("entries schema: unique index: %w", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*Entry)(nil)).
		Index("idx_content_entries_locale").
		Column("locale").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("entries schema: locale index: %w", err)
	}

	return nil
}
