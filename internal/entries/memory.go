package entries

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/albayanlaw/go-siteedit/internal/identity"
)

// MemoryEntryRepository is an in-memory implementation for scaffolding and
// tests. Reads and writes deep-clone values so callers cannot alias stored
// state.
type MemoryEntryRepository struct {
	mu      sync.RWMutex
	records map[string]*Entry
}

// NewMemoryEntryRepository creates an empty in-memory entry repository.
func NewMemoryEntryRepository() *MemoryEntryRepository {
	return &MemoryEntryRepository{
		records: make(map[string]*Entry),
	}
}

func compositeKey(key, locale string) string {
	return strings.ToLower(strings.TrimSpace(locale)) + "\x00" + strings.TrimSpace(key)
}

// GetByKey retrieves the entry stored for (key, locale).
func (m *MemoryEntryRepository) GetByKey(_ context.Context, key, locale string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[compositeKey(key, locale)]
	if !ok {
		return nil, &NotFoundError{Resource: "content_entry", Key: key}
	}
	return cloneEntry(rec), nil
}

// ListByLocale returns every entry for the locale ordered by key.
func (m *MemoryEntryRepository) ListByLocale(_ context.Context, locale string) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Entry, 0)
	for _, rec := range m.records {
		if strings.EqualFold(rec.Locale, locale) {
			out = append(out, cloneEntry(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// List returns all entries across locales.
func (m *MemoryEntryRepository) List(_ context.Context) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Entry, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, cloneEntry(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Locale != out[j].Locale {
			return out[i].Locale < out[j].Locale
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// Upsert inserts or replaces the entry for (key, locale).
func (m *MemoryEntryRepository) Upsert(_ context.Context, record *Entry) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneEntry(record)
	copied.ID = identity.EntryUUID(copied.Key, copied.Locale)

	composite := compositeKey(copied.Key, copied.Locale)
	if existing, ok := m.records[composite]; ok {
		copied.CreatedAt = existing.CreatedAt
	} else if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}

	m.records[composite] = copied
	return cloneEntry(copied), nil
}

func cloneEntry(src *Entry) *Entry {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Value = cloneValue(src.Value)
	return &copied
}

// cloneValue copies JSON-compatible values; array order is preserved exactly.
func cloneValue(src any) any {
	switch v := src.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			out[key] = cloneValue(value)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, value := range v {
			out[i] = cloneValue(value)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, value := range v {
			out[i] = cloneValue(value)
		}
		return out
	default:
		return v
	}
}
