package collections

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	sitecontent "github.com/albayanlaw/go-siteedit/content"
	"github.com/albayanlaw/go-siteedit/internal/logging"
	"github.com/albayanlaw/go-siteedit/internal/resolver"
	"github.com/albayanlaw/go-siteedit/pkg/interfaces"
)

const (
	idField         = "id"
	transientPrefix = "_"
)

// DefaultStatusTTL controls how long a terminal save status stays visible
// before auto-clearing back to idle.
const DefaultStatusTTL = 2500 * time.Millisecond

var (
	ErrUnknownItem  = errors.New("siteedit: collection item not found")
	ErrUnknownField = errors.New("siteedit: field is not part of the collection schema")
)

// Status is the save lifecycle surfaced to the operator.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusFailed Status = "failed"
)

// Item is one collection record: the stable client-generated id plus the
// schema's string fields. The id only exists for rendering and reordering;
// the store assigns it no meaning.
type Item map[string]string

// ID returns the record's stable identifier.
func (i Item) ID() string {
	return i[idField]
}

func (i Item) clone() Item {
	out := make(Item, len(i))
	for key, value := range i {
		out[key] = value
	}
	return out
}

// EditorOption configures an editor at construction time.
type EditorOption func(*Editor)

// WithEditorClock overrides the clock driving status expiry.
func WithEditorClock(clock func() time.Time) EditorOption {
	return func(e *Editor) {
		if clock != nil {
			e.now = clock
		}
	}
}

// WithEditorStatusTTL overrides how long saved/failed statuses linger.
func WithEditorStatusTTL(ttl time.Duration) EditorOption {
	return func(e *Editor) {
		if ttl > 0 {
			e.statusTTL = ttl
		}
	}
}

// WithIDGenerator overrides the id generator used for new records.
func WithIDGenerator(generate func() string) EditorOption {
	return func(e *Editor) {
		if generate != nil {
			e.newID = generate
		}
	}
}

// WithEditorLogger attaches a logger.
func WithEditorLogger(logger interfaces.Logger) EditorOption {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Editor holds the in-memory draft for one keyed collection. All mutations
// operate on the draft; nothing reaches the store until Save.
type Editor struct {
	schema  Schema
	content resolver.Service
	logger  interfaces.Logger

	now       func() time.Time
	newID     func() string
	statusTTL time.Duration

	mu       sync.Mutex
	items    []Item
	status   Status
	statusAt time.Time
	lastErr  error
}

// NewEditor constructs an editor over the resolved content. Call Load before
// reading the draft.
func NewEditor(schema Schema, content resolver.Service, opts ...EditorOption) *Editor {
	e := &Editor{
		schema:    schema,
		content:   content,
		logger:    logging.NoOp(),
		now:       time.Now,
		newID:     uuid.NewString,
		statusTTL: DefaultStatusTTL,
		status:    StatusIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Schema returns the schema the editor was built from.
func (e *Editor) Schema() Schema {
	return e.schema
}

// Load resolves the initial draft: canonical array, then legacy
// reconstruction, then empty. Records missing an id are assigned one; ids
// already present are never regenerated.
func (e *Editor) Load() {
	resolved := e.resolve()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = resolved
	e.status = StatusIdle
	e.lastErr = nil
}

func (e *Editor) resolve() []Item {
	if value, ok := e.content.Value(e.schema.Key); ok {
		if array, ok := value.Raw.([]any); ok {
			return e.itemsFromArray(array)
		}
	}
	return e.itemsFromLegacy()
}

func (e *Editor) itemsFromArray(array []any) []Item {
	items := make([]Item, 0, len(array))
	for _, element := range array {
		switch record := element.(type) {
		case map[string]any:
			item := Item{}
			if text, ok := record[idField].(string); ok {
				item[idField] = text
			}
			// Canonical names first; aliases only fill fields the record
			// left empty, so a stray deprecated key never clobbers the
			// canonical value.
			for _, field := range e.schema.Fields {
				if text, ok := record[field.Name].(string); ok {
					item[field.Name] = text
				}
			}
			for key, value := range record {
				text, ok := value.(string)
				if !ok || key == idField {
					continue
				}
				if field, known := e.fieldForStoredKey(key); known {
					if _, taken := item[field.Name]; !taken {
						item[field.Name] = text
					}
				}
			}
			items = append(items, item)
		case string:
			// Scalar elements are coerced into the first field rather than
			// crashing on an unexpected legacy shape.
			items = append(items, Item{e.schema.firstField(): record})
		}
	}
	return e.ensureIDs(items)
}

// fieldForStoredKey maps a stored key to a schema field, honoring deprecated
// aliases.
func (e *Editor) fieldForStoredKey(key string) (Field, bool) {
	if field, ok := e.schema.field(key); ok {
		return field, true
	}
	for _, field := range e.schema.Fields {
		for _, alias := range field.Aliases {
			if alias == key {
				return field, true
			}
		}
	}
	return Field{}, false
}

// itemsFromLegacy reconstructs records from deprecated numbered scalar keys
// (base.0, base.1, ...), stopping at the first gap. The reconstruction is
// read-only: legacy keys are shadowed by the first save, never deleted.
func (e *Editor) itemsFromLegacy() []Item {
	base := e.schema.legacyBase()
	first := e.schema.firstField()

	items := []Item{}
	for index := 0; ; index++ {
		value, ok := e.content.Value(sitecontent.IndexedKey(base, index))
		if !ok {
			break
		}
		text, _ := value.Scalar().(string)
		items = append(items, Item{first: text})
	}
	return e.ensureIDs(items)
}

func (e *Editor) ensureIDs(items []Item) []Item {
	for _, item := range items {
		if strings.TrimSpace(item[idField]) == "" {
			item[idField] = e.newID()
		}
	}
	return items
}

// Items returns a copy of the current draft in display order.
func (e *Editor) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneItems(e.items)
}

// Append adds a blank record at the end of the draft and returns its id.
func (e *Editor) Append() string {
	item := Item{idField: e.newID()}
	for _, field := range e.schema.Fields {
		item[field.Name] = ""
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = append(e.items, item)
	return item.ID()
}

// Remove deletes exactly the record with the given id, preserving the
// relative order of the rest.
func (e *Editor) Remove(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for index, item := range e.items {
		if item.ID() == id {
			e.items = append(e.items[:index], e.items[index+1:]...)
			return true
		}
	}
	return false
}

// Move swaps the record with its neighbour in the given direction. Only
// adjacent moves are defined; out-of-range moves are no-ops.
func (e *Editor) Move(id string, delta int) bool {
	if delta != 1 && delta != -1 {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for index, item := range e.items {
		if item.ID() != id {
			continue
		}
		target := index + delta
		if target < 0 || target >= len(e.items) {
			return false
		}
		e.items[index], e.items[target] = e.items[target], e.items[index]
		return true
	}
	return false
}

// SetField patches one named field of the record with the given id.
func (e *Editor) SetField(id, name, value string) error {
	if _, ok := e.schema.field(name); !ok {
		return ErrUnknownField
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, item := range e.items {
		if item.ID() == id {
			item[name] = value
			return nil
		}
	}
	return ErrUnknownItem
}

// Save coerces the draft into the canonical storage shape and writes it
// under the schema key. On failure the draft is left intact so the operator
// can retry unchanged.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	draft := cloneItems(e.items)
	e.status = StatusSaving
	e.lastErr = nil
	e.mu.Unlock()

	cleaned := e.clean(draft)
	if err := e.schema.ValidateItems(cleaned); err != nil {
		e.finish(StatusFailed, err)
		return err
	}

	if err := e.content.Set(ctx, e.schema.Key, storageValue(cleaned)); err != nil {
		e.logger.Warn("collection.save.failed", "collection", e.schema.Name, "error", err)
		e.finish(StatusFailed, err)
		return err
	}

	e.mu.Lock()
	e.items = cleaned
	e.status = StatusSaved
	e.statusAt = e.now()
	e.lastErr = nil
	e.mu.Unlock()

	e.logger.Info("collection.saved", "collection", e.schema.Name, "items", len(cleaned))
	return nil
}

// clean applies the documented save rules: trim string fields, strip
// transient fields, keep only schema fields plus the id, and drop
// fully-empty records unless the schema keeps them. Cleaning is idempotent.
func (e *Editor) clean(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		record := Item{idField: item.ID()}
		empty := true
		for _, field := range e.schema.Fields {
			value := strings.TrimSpace(item[field.Name])
			record[field.Name] = value
			if value != "" {
				empty = false
			}
		}
		if empty && !e.schema.KeepEmpty {
			continue
		}
		out = append(out, record)
	}
	return out
}

func (e *Editor) finish(status Status, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = status
	e.statusAt = e.now()
	e.lastErr = err
}

// Status reports the save lifecycle, auto-clearing terminal states after the
// configured TTL.
func (e *Editor) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == StatusSaved || e.status == StatusFailed {
		if e.now().Sub(e.statusAt) >= e.statusTTL {
			return StatusIdle
		}
	}
	return e.status
}

// LastError returns the error from the most recent failed save.
func (e *Editor) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = item.clone()
	}
	return out
}

// storageValue renders the canonical array-of-objects payload.
func storageValue(items []Item) []any {
	out := make([]any, len(items))
	for i, item := range items {
		record := make(map[string]any, len(item))
		for key, value := range item {
			record[key] = value
		}
		out[i] = record
	}
	return out
}

