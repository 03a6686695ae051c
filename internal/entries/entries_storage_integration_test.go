package entries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	sitecontent "github.com/albayanlaw/go-siteedit/content"
	"github.com/albayanlaw/go-siteedit/internal/entries"
	"github.com/albayanlaw/go-siteedit/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
)

func newStorageRepo(t *testing.T) *entries.BunEntryRepository {
	t.Helper()

	bunDB, err := testsupport.NewBunSQLiteDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = bunDB.Close()
	})
	bunDB.SetMaxOpenConns(1)

	if err := entries.EnsureSchema(context.Background(), bunDB); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	return entries.NewBunEntryRepository(bunDB)
}

func TestBunRepository_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newStorageRepo(t)

	now := time.Now().UTC().Truncate(time.Second)
	created, err := repo.Upsert(ctx, &sitecontent.Entry{
		Key:       "home.hero.title",
		Locale:    "ar",
		Value:     "القانون بخبرة",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("expected deterministic ID to be assigned")
	}

	updated, err := repo.Upsert(ctx, &sitecontent.Entry{
		Key:       "home.hero.title",
		Locale:    "ar",
		Value:     "القانون بخبرة وثقة",
		CreatedAt: now.Add(time.Hour),
		UpdatedAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected stable ID across upserts: %s vs %s", created.ID, updated.ID)
	}

	stored, err := repo.GetByKey(ctx, "home.hero.title", "ar")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Value != "القانون بخبرة وثقة" {
		t.Fatalf("expected last write to win, got %v", stored.Value)
	}
}

func TestBunRepository_GetMissingReturnsNotFound(t *testing.T) {
	repo := newStorageRepo(t)

	_, err := repo.GetByKey(context.Background(), "missing.key", "ar")
	var notFound *entries.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestBunRepository_ListByLocale(t *testing.T) {
	ctx := context.Background()
	repo := newStorageRepo(t)

	seed := map[string]map[string]any{
		"ar": {
			"home.hero.title": "عنوان",
			"about.body":      "نبذة",
		},
		"en": {
			"home.hero.title": "Title",
		},
	}
	for locale, values := range seed {
		for key, value := range values {
			if _, err := repo.Upsert(ctx, &sitecontent.Entry{Key: key, Locale: locale, Value: value}); err != nil {
				t.Fatalf("seed %s/%s: %v", locale, key, err)
			}
		}
	}

	arabic, err := repo.ListByLocale(ctx, "ar")
	if err != nil {
		t.Fatalf("list ar: %v", err)
	}
	if len(arabic) != 2 {
		t.Fatalf("expected 2 arabic rows, got %d", len(arabic))
	}
	if arabic[0].Key != "about.body" || arabic[1].Key != "home.hero.title" {
		t.Fatalf("expected key ordering, got %q, %q", arabic[0].Key, arabic[1].Key)
	}

	english, err := repo.ListByLocale(ctx, "en")
	if err != nil {
		t.Fatalf("list en: %v", err)
	}
	if len(english) != 1 || english[0].Value != "Title" {
		t.Fatalf("unexpected english rows: %+v", english)
	}
}

func TestBunRepository_ArrayRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newStorageRepo(t)

	items := []any{
		map[string]any{"id": "a", "text": "first"},
		map[string]any{"id": "b", "text": "second"},
	}
	if _, err := repo.Upsert(ctx, &sitecontent.Entry{Key: "testimonials.items", Locale: "ar", Value: items}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	stored, err := repo.GetByKey(ctx, "testimonials.items", "ar")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got, ok := stored.Value.([]any)
	if !ok {
		t.Fatalf("expected array value after round trip, got %T", stored.Value)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	first, ok := got[0].(map[string]any)
	if !ok || first["id"] != "a" || first["text"] != "first" {
		t.Fatalf("array order or shape lost: %v", got)
	}
}

func TestBunRepository_WithCache(t *testing.T) {
	ctx := context.Background()

	bunDB, err := testsupport.NewBunSQLiteDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = bunDB.Close()
	})
	bunDB.SetMaxOpenConns(1)

	if err := entries.EnsureSchema(ctx, bunDB); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	repo := entries.NewBunEntryRepositoryWithCache(bunDB, cacheService, repocache.NewDefaultKeySerializer())

	if _, err := repo.Upsert(ctx, &sitecontent.Entry{Key: "contact.phone", Locale: "ar", Value: "+966"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	stored, err := repo.GetByKey(ctx, "contact.phone", "ar")
	if err != nil {
		t.Fatalf("get through cache: %v", err)
	}
	if stored.Value != "+966" {
		t.Fatalf("unexpected cached value: %v", stored.Value)
	}
}
