package richtext_test

import (
	"strings"
	"testing"

	"github.com/albayanlaw/go-siteedit/internal/richtext"
)

func TestRenderBasicMarkdown(t *testing.T) {
	renderer := richtext.NewRenderer(richtext.Options{})

	html, err := renderer.Render("## العنوان\n\nفقرة **مهمة** هنا.")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<h2") {
		t.Fatalf("expected heading, got %q", html)
	}
	if !strings.Contains(html, "<strong>مهمة</strong>") {
		t.Fatalf("expected bold span, got %q", html)
	}
}

func TestRenderGFMExtensions(t *testing.T) {
	renderer := richtext.NewRenderer(richtext.Options{})

	html, err := renderer.Render("~~struck~~ and https://albayan.law")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<del>struck</del>") {
		t.Fatalf("expected strikethrough, got %q", html)
	}
	if !strings.Contains(html, "<a href=") {
		t.Fatalf("expected autolink, got %q", html)
	}
}

func TestRenderEscapesRawHTMLByDefault(t *testing.T) {
	renderer := richtext.NewRenderer(richtext.Options{})

	html, err := renderer.Render("<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("raw HTML must not pass through by default, got %q", html)
	}
}

func TestRenderEmptySource(t *testing.T) {
	renderer := richtext.NewRenderer(richtext.Options{})

	html, err := renderer.Render("")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "" {
		t.Fatalf("expected empty output, got %q", html)
	}
}

func TestRenderHardWraps(t *testing.T) {
	renderer := richtext.NewRenderer(richtext.Options{HardWraps: true})

	html, err := renderer.Render("سطر أول\nسطر ثان")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<br") {
		t.Fatalf("expected hard wrap break, got %q", html)
	}
}
