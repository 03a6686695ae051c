package entries

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/uptrace/bun"

	"github.com/albayanlaw/go-siteedit/internal/identity"
)

// BunEntryRepository persists content entries through go-repository-bun with
// optional read caching.
type BunEntryRepository struct {
	repo repository.Repository[*Entry]
}

func NewBunEntryRepository(db *bun.DB) *BunEntryRepository {
	return NewBunEntryRepositoryWithCache(db, nil, nil)
}

// NewBunEntryRepositoryWithCache constructs an entry repository, wrapping it
// with go-repository-cache when a cache service and key serializer are given.
func NewBunEntryRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunEntryRepository {
	base := NewEntryRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunEntryRepository{repo: wrapped}
}

func (r *BunEntryRepository) GetByKey(ctx context.Context, key, locale string) (*Entry, error) {
	id := identity.EntryUUID(key, locale)
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "content_entry", key)
	}
	return record, nil
}

func (r *BunEntryRepository) ListByLocale(ctx context.Context, locale string) ([]*Entry, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.locale = ?", locale).Order("key ASC")
	}))
	if err != nil {
		return nil, fmt.Errorf("content_entry repository error: %w", err)
	}
	return records, nil
}

func (r *BunEntryRepository) List(ctx context.Context) ([]*Entry, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

// Upsert converges on the deterministic (key, locale) row: out-of-order or
// repeated writes update in place instead of conflicting.
func (r *BunEntryRepository) Upsert(ctx context.Context, record *Entry) (*Entry, error) {
	record.ID = identity.EntryUUID(record.Key, record.Locale)

	existing, err := r.GetByKey(ctx, record.Key, record.Locale)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		created, err := r.repo.Create(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("content_entry repository error: %w", err)
		}
		return created, nil
	}

	record.CreatedAt = existing.CreatedAt
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("value", "updated_by", "updated_at"),
	)
	if err != nil {
		return nil, fmt.Errorf("content_entry repository error: %w", err)
	}
	return updated, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
