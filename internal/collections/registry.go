package collections

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-slug"
)

var (
	ErrSchemaExists   = errors.New("siteedit: collection schema already registered")
	ErrUnknownSchema  = errors.New("siteedit: collection schema not registered")
	ErrSchemaRequired = errors.New("siteedit: collection schema name is required")
)

// Registry stores built-in and host-defined collection schemas.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]Schema),
	}
}

// Register validates, compiles, and stores a schema. Re-registering a name is
// an error so host overrides stay deliberate.
func (r *Registry) Register(schema Schema) error {
	name := canonicalName(schema.Name)
	if name == "" {
		return ErrSchemaRequired
	}
	if err := schema.Compile(); err != nil {
		return err
	}
	schema.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[name]; exists {
		return ErrSchemaExists
	}
	r.schemas[name] = schema
	return nil
}

// Get resolves a schema by name.
func (r *Registry) Get(name string) (Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schema, ok := r.schemas[canonicalName(name)]
	if !ok {
		return Schema{}, ErrUnknownSchema
	}
	return schema, nil
}

// Names lists registered schema names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func canonicalName(name string) string {
	normalized, err := slug.Normalize(strings.TrimSpace(name))
	if err != nil {
		return ""
	}
	return normalized
}

// BuiltinSchemas returns the site collections that stand in for the fleet of
// near-identical list editors on the original pages.
func BuiltinSchemas() []Schema {
	return []Schema{
		{
			Name: "testimonials",
			Key:  "testimonials.items",
			Fields: []Field{
				{Name: "text", Kind: FieldTextarea, Required: true},
				{Name: "name", Kind: FieldText},
				{Name: "role", Kind: FieldText},
			},
		},
		{
			Name: "faq",
			Key:  "faq.items",
			Fields: []Field{
				{Name: "question", Kind: FieldText, Required: true},
				{Name: "answer", Kind: FieldRichtext, Required: true},
			},
		},
		{
			Name: "team",
			Key:  "team.items",
			Fields: []Field{
				{Name: "name", Kind: FieldText, Required: true},
				{Name: "title", Kind: FieldText},
				{Name: "bio", Kind: FieldTextarea},
				{Name: "photo", Kind: FieldImage},
			},
		},
		{
			Name: "cases",
			Key:  "cases.items",
			Fields: []Field{
				{Name: "title", Kind: FieldText, Required: true},
				{Name: "summary", Kind: FieldTextarea, Aliases: []string{"description"}},
				{Name: "outcome", Kind: FieldText},
			},
		},
		{
			Name: "services",
			Key:  "services.items",
			Fields: []Field{
				{Name: "title", Kind: FieldText, Required: true},
				{Name: "description", Kind: FieldTextarea},
				{Name: "icon", Kind: FieldImage},
			},
		},
		{
			Name: "media",
			Key:  "media.items",
			Fields: []Field{
				{Name: "title", Kind: FieldText},
				{Name: "url", Kind: FieldURL, Required: true},
				{Name: "thumbnail", Kind: FieldImage},
			},
		},
		{
			Name: "contact-links",
			Key:  "contact.links.items",
			// Social/contact rows keep placeholders so the page grid stays
			// aligned while an admin fills them in.
			KeepEmpty: true,
			Fields: []Field{
				{Name: "label", Kind: FieldText},
				{Name: "url", Kind: FieldURL},
			},
		},
	}
}

// Bootstrap registers the built-in schemas, tolerating duplicates so hosts
// can pre-register overrides.
func Bootstrap(registry *Registry) error {
	for _, schema := range BuiltinSchemas() {
		if err := registry.Register(schema); err != nil {
			if errors.Is(err, ErrSchemaExists) {
				continue
			}
			return err
		}
	}
	return nil
}
