package collections

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	sitecontent "github.com/albayanlaw/go-siteedit/content"
	schemavalidation "github.com/albayanlaw/go-siteedit/internal/validation"
)

// FieldKind selects the input control and coercion rules for a field.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldTextarea FieldKind = "textarea"
	FieldURL      FieldKind = "url"
	FieldImage    FieldKind = "image"
	FieldRichtext FieldKind = "richtext"
)

func (k FieldKind) valid() bool {
	switch k {
	case FieldText, FieldTextarea, FieldURL, FieldImage, FieldRichtext:
		return true
	}
	return false
}

// Field describes one named column of a collection record.
type Field struct {
	Name      string
	Kind      FieldKind
	Required  bool
	MaxLength int
	// Aliases lists deprecated field names whose values are folded into this
	// field during legacy reconstruction.
	Aliases []string
}

// Schema parameterizes one list editor: every concrete site collection
// (testimonials, FAQ, team, ...) is a Schema instance, not a separate editor
// implementation.
type Schema struct {
	// Name identifies the schema in the registry.
	Name string
	// Key is the canonical storage key holding the array value.
	Key string
	// LegacyBase prefixes the deprecated numbered scalar keys
	// (base.0, base.1, ...). Defaults to Key with a trailing ".items"
	// segment removed.
	LegacyBase string
	Fields     []Field
	// KeepEmpty retains fully-empty records on save. The default policy
	// drops them.
	KeepEmpty bool

	compiled *jsonschema.Schema
}

// Validate checks the schema definition itself.
func (s Schema) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(s.Name) == "" {
		errs["name"] = validation.NewError("siteedit.collections.name_required", "schema name is required")
	}
	if !sitecontent.IsValidKey(s.Key) {
		errs["key"] = validation.NewError("siteedit.collections.key_invalid", "schema key must be a valid dot path")
	}
	if len(s.Fields) == 0 {
		errs["fields"] = validation.NewError("siteedit.collections.fields_required", "schema requires at least one field")
	}
	seen := map[string]struct{}{}
	for _, field := range s.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" || name == idField || strings.HasPrefix(name, transientPrefix) {
			errs["fields"] = validation.NewError("siteedit.collections.field_name_invalid", "field names must be non-empty and non-reserved")
			break
		}
		if _, dup := seen[name]; dup {
			errs["fields"] = validation.NewError("siteedit.collections.field_name_duplicate", "field names must be unique")
			break
		}
		seen[name] = struct{}{}
		if !field.Kind.valid() {
			errs["fields"] = validation.NewError("siteedit.collections.field_kind_invalid", "field kind is not recognized")
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Compile validates the schema and prepares the JSON schema used to check
// stored arrays.
func (s *Schema) Compile() error {
	if err := s.Validate(); err != nil {
		return err
	}
	compiled, err := schemavalidation.Compile(s.JSONSchema())
	if err != nil {
		return err
	}
	s.compiled = compiled
	return nil
}

// JSONSchema renders the storage contract for the collection's array value.
func (s Schema) JSONSchema() map[string]any {
	properties := map[string]any{
		idField: map[string]any{"type": "string", "minLength": 1},
	}
	required := []any{idField}
	for _, field := range s.Fields {
		spec := map[string]any{"type": "string"}
		if field.MaxLength > 0 {
			spec["maxLength"] = field.MaxLength
		}
		properties[field.Name] = spec
		if field.Required {
			required = append(required, field.Name)
		}
	}
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"properties":           properties,
			"required":             required,
			"additionalProperties": false,
		},
	}
}

// ValidateItems checks cleaned records against the compiled storage contract.
func (s Schema) ValidateItems(items []Item) error {
	if s.compiled == nil {
		return nil
	}
	payload := make([]any, len(items))
	for i, item := range items {
		record := make(map[string]any, len(item))
		for key, value := range item {
			record[key] = value
		}
		payload[i] = record
	}
	return schemavalidation.ValidatePayload(s.compiled, payload)
}

// legacyBase returns the prefix for deprecated numbered scalar keys.
func (s Schema) legacyBase() string {
	if base := strings.TrimSpace(s.LegacyBase); base != "" {
		return base
	}
	if base, found := strings.CutSuffix(s.Key, ".items"); found {
		return base
	}
	return s.Key
}

// firstField is the destination for legacy scalar values.
func (s Schema) firstField() string {
	if len(s.Fields) == 0 {
		return ""
	}
	return s.Fields[0].Name
}

func (s Schema) field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
