package entries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	sitecontent "github.com/albayanlaw/go-siteedit/content"
	"github.com/albayanlaw/go-siteedit/internal/entries"
	"github.com/albayanlaw/go-siteedit/internal/identity"
)

func TestMemoryUpsertConverges(t *testing.T) {
	ctx := context.Background()
	repo := entries.NewMemoryEntryRepository()

	first, err := repo.Upsert(ctx, &sitecontent.Entry{
		Key:    "home.hero.title",
		Locale: "ar",
		Value:  "v1",
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := repo.Upsert(ctx, &sitecontent.Entry{
		Key:    "home.hero.title",
		Locale: "ar",
		Value:  "v2",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected deterministic ID to converge: %s vs %s", first.ID, second.ID)
	}
	if second.ID != identity.EntryUUID("home.hero.title", "ar") {
		t.Fatalf("unexpected derived ID: %s", second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected created_at to survive re-upsert")
	}

	stored, err := repo.GetByKey(ctx, "home.hero.title", "ar")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Value != "v2" {
		t.Fatalf("expected last write to win, got %v", stored.Value)
	}
}

func TestMemoryGetByKeyNotFound(t *testing.T) {
	repo := entries.NewMemoryEntryRepository()

	_, err := repo.GetByKey(context.Background(), "missing.key", "ar")
	var notFound *entries.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestMemoryLocaleScoping(t *testing.T) {
	ctx := context.Background()
	repo := entries.NewMemoryEntryRepository()

	seed := []*sitecontent.Entry{
		{Key: "home.hero.title", Locale: "ar", Value: "عنوان"},
		{Key: "home.hero.title", Locale: "en", Value: "Title"},
		{Key: "about.body", Locale: "ar", Value: "نبذة"},
	}
	for _, entry := range seed {
		if _, err := repo.Upsert(ctx, entry); err != nil {
			t.Fatalf("seed: %v", err)
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
		t.Fatalf("expected key-ordered results, got %q, %q", arabic[0].Key, arabic[1].Key)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}
}

func TestMemoryPreservesArrayOrder(t *testing.T) {
	ctx := context.Background()
	repo := entries.NewMemoryEntryRepository()

	items := []any{
		map[string]any{"id": "a", "text": "first"},
		map[string]any{"id": "b", "text": "second"},
		map[string]any{"id": "c", "text": "third"},
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
		t.Fatalf("expected array value, got %T", stored.Value)
	}
	for i, want := range []string{"a", "b", "c"} {
		item := got[i].(map[string]any)
		if item["id"] != want {
			t.Fatalf("position %d: expected id %q, got %v", i, want, item["id"])
		}
	}
}

func TestMemoryClonesStoredState(t *testing.T) {
	ctx := context.Background()
	repo := entries.NewMemoryEntryRepository()

	value := map[string]any{"text": "original"}
	if _, err := repo.Upsert(ctx, &sitecontent.Entry{Key: "contact.phone", Locale: "ar", Value: value}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Mutating the caller's map must not leak into storage.
	value["text"] = "mutated"

	stored, err := repo.GetByKey(ctx, "contact.phone", "ar")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Value.(map[string]any)["text"] != "original" {
		t.Fatalf("stored value aliased caller state")
	}

	// Mutating the returned copy must not change the next read either.
	stored.Value.(map[string]any)["text"] = "mutated again"
	fresh, err := repo.GetByKey(ctx, "contact.phone", "ar")
	if err != nil {
		t.Fatalf("re-get: %v", err)
	}
	if fresh.Value.(map[string]any)["text"] != "original" {
		t.Fatalf("read result aliased storage")
	}
}

func TestMemoryCreatedAtDefaults(t *testing.T) {
	ctx := context.Background()
	repo := entries.NewMemoryEntryRepository()

	before := time.Now().Add(-time.Second)
	stored, err := repo.Upsert(ctx, &sitecontent.Entry{Key: "footer.note", Locale: "en", Value: "note"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if stored.CreatedAt.Before(before) {
		t.Fatalf("expected created_at default, got %v", stored.CreatedAt)
	}
}
