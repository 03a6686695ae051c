package richtext

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts operator-authored richtext (Markdown) into HTML for
// html-kind values and richtext collection fields. The renderer is stateless
// so a single instance can serve concurrent requests without locking.
type Renderer struct {
	engine goldmark.Markdown
}

// Options tunes the rendering behaviour.
type Options struct {
	// HardWraps renders single newlines as <br>.
	HardWraps bool
	// Unsafe passes raw HTML through. Leave false for operator input.
	Unsafe bool
}

// NewRenderer constructs a goldmark-backed renderer with GFM extensions.
func NewRenderer(opts Options) *Renderer {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return &Renderer{engine: engine}
}

// Render converts one richtext source string into HTML.
func (r *Renderer) Render(source string) (string, error) {
	if source == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("richtext render: %w", err)
	}
	return buf.String(), nil
}
