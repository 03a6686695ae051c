package content

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry is the canonical row for a single piece of editable site copy. Entries
// are unique per (key, locale); the ID is derived deterministically from that
// pair so repeated upserts converge on the same record.
type Entry struct {
	bun.BaseModel `bun:"table:content_entries,alias:ce"`

	ID        uuid.UUID       `bun:",pk,type:uuid"                 json:"id"`
	Key       string          `bun:"key,notnull"                   json:"key"`
	Locale    string          `bun:"locale,notnull"                json:"locale"`
	Value     any             `bun:"-"                             json:"value"`
	RawValue  json.RawMessage `bun:"value,type:jsonb,nullzero"     json:"-"`
	UpdatedBy uuid.UUID       `bun:"updated_by,type:uuid"          json:"updated_by"`
	CreatedAt time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time       `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

var (
	_ bun.BeforeAppendModelHook = (*Entry)(nil)
	_ bun.AfterScanRowHook      = (*Entry)(nil)
)

// BeforeAppendModel serializes Value into the jsonb column so the store can
// hold strings, objects, and arrays behind a single column.
func (e *Entry) BeforeAppendModel(_ context.Context, _ bun.Query) error {
	if e.Value == nil {
		e.RawValue = nil
		return nil
	}
	encoded, err := json.Marshal(e.Value)
	if err != nil {
		return ErrValueNotStorable
	}
	e.RawValue = encoded
	return nil
}

// AfterScanRow decodes the jsonb column back into Value.
func (e *Entry) AfterScanRow(_ context.Context) error {
	if len(e.RawValue) == 0 {
		e.Value = nil
		return nil
	}
	return json.Unmarshal(e.RawValue, &e.Value)
}

// Kind tags the normalized shape of a stored value.
type Kind string

const (
	KindText  Kind = "text"
	KindLink  Kind = "link"
	KindImage Kind = "image"
	KindHTML  Kind = "html"
	KindRaw   Kind = "raw"
)

// Value is the tagged union produced by normalizing stored entry values.
// Text carries the payload for text and html kinds, URL for link and image
// kinds, and Raw holds everything else (arrays, nested objects, scalars that
// are not strings).
type Value struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
	Raw  any    `json:"raw,omitempty"`
}

// Normalize converts a stored value into the tagged union. Legacy untagged
// object shapes ({text}, {url}, {image_url}, {html}) are recognized so call
// sites never need to know how a value was written.
func Normalize(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Value{Kind: KindRaw}
	case string:
		return Value{Kind: KindText, Text: v}
	case Value:
		return v
	case map[string]any:
		if kind, ok := v["kind"].(string); ok {
			return normalizeTagged(Kind(kind), v)
		}
		if text, ok := v["text"].(string); ok {
			return Value{Kind: KindText, Text: text}
		}
		if url, ok := v["url"].(string); ok {
			return Value{Kind: KindLink, URL: url}
		}
		if url, ok := v["image_url"].(string); ok {
			return Value{Kind: KindImage, URL: url}
		}
		if html, ok := v["html"].(string); ok {
			return Value{Kind: KindHTML, Text: html}
		}
		return Value{Kind: KindRaw, Raw: v}
	default:
		return Value{Kind: KindRaw, Raw: raw}
	}
}

func normalizeTagged(kind Kind, fields map[string]any) Value {
	out := Value{Kind: kind}
	if text, ok := fields["text"].(string); ok {
		out.Text = text
	}
	if url, ok := fields["url"].(string); ok {
		out.URL = url
	}
	switch kind {
	case KindText, KindLink, KindImage, KindHTML:
		return out
	default:
		out.Kind = KindRaw
		out.Raw = fields["raw"]
		return out
	}
}

// Scalar projects the union back to the single value presentation code
// renders: the text for text/html kinds, the URL for link/image kinds, and
// the raw payload otherwise. A raw kind with no payload yields nil.
func (v Value) Scalar() any {
	switch v.Kind {
	case KindText, KindHTML:
		return v.Text
	case KindLink, KindImage:
		return v.URL
	default:
		return v.Raw
	}
}

// IsZero reports whether the value carries no payload at all.
func (v Value) IsZero() bool {
	return v.Text == "" && v.URL == "" && v.Raw == nil
}
