package collections

import (
	"time"

	"github.com/albayanlaw/go-siteedit/internal/logging"
	"github.com/albayanlaw/go-siteedit/internal/resolver"
	"github.com/albayanlaw/go-siteedit/pkg/interfaces"
)

// Renderer converts richtext field source into HTML.
type Renderer interface {
	Render(source string) (string, error)
}

// Service hands out editors and visitor-mode reads for registered
// collections.
type Service interface {
	// Register adds a host-defined schema.
	Register(schema Schema) error
	// Schemas lists registered schema names.
	Schemas() []string
	// Editor returns a loaded draft editor for the named collection.
	Editor(name string) (*Editor, error)
	// Resolve returns the visitor view of the named collection: the same
	// canonical-then-legacy resolution the editor starts from, with no
	// mutation affordances.
	Resolve(name string) ([]Item, error)
	// RenderField projects one field for display, rendering richtext fields
	// to HTML. Non-richtext fields pass through unchanged.
	RenderField(name string, item Item, field string) (string, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock handed to editors.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithStatusTTL overrides the editor status auto-clear window.
func WithStatusTTL(ttl time.Duration) ServiceOption {
	return func(s *service) {
		if ttl > 0 {
			s.statusTTL = ttl
		}
	}
}

// WithLogger attaches a logger to the service and its editors.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer wires the richtext renderer used by RenderField.
func WithRenderer(renderer Renderer) ServiceOption {
	return func(s *service) {
		s.renderer = renderer
	}
}

type service struct {
	registry *Registry
	content  resolver.Service
	logger   interfaces.Logger
	renderer Renderer

	now       func() time.Time
	statusTTL time.Duration
}

// NewService constructs a collection service over the shared registry and
// content resolver.
func NewService(registry *Registry, content resolver.Service, opts ...ServiceOption) Service {
	s := &service{
		registry:  registry,
		content:   content,
		logger:    logging.NoOp(),
		now:       time.Now,
		statusTTL: DefaultStatusTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Register(schema Schema) error {
	return s.registry.Register(schema)
}

func (s *service) Schemas() []string {
	return s.registry.Names()
}

func (s *service) Editor(name string) (*Editor, error) {
	schema, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}
	editor := NewEditor(schema, s.content,
		WithEditorClock(s.now),
		WithEditorStatusTTL(s.statusTTL),
		WithEditorLogger(s.logger),
	)
	editor.Load()
	return editor, nil
}

func (s *service) Resolve(name string) ([]Item, error) {
	editor, err := s.Editor(name)
	if err != nil {
		return nil, err
	}
	return editor.Items(), nil
}

func (s *service) RenderField(name string, item Item, field string) (string, error) {
	schema, err := s.registry.Get(name)
	if err != nil {
		return "", err
	}
	spec, ok := schema.field(field)
	if !ok {
		return "", ErrUnknownField
	}
	value := item[field]
	if spec.Kind != FieldRichtext || s.renderer == nil {
		return value, nil
	}
	return s.renderer.Render(value)
}
