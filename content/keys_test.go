package content_test

import (
	"errors"
	"testing"

	"github.com/albayanlaw/go-siteedit/content"
)

func TestIsValidKey(t *testing.T) {
	valid := []string{
		"about.hero.title.top",
		"services.items",
		"testimonials.0",
		"contact.links.items",
		"home",
	}
	for _, key := range valid {
		if !content.IsValidKey(key) {
			t.Fatalf("expected %q to be valid", key)
		}
	}

	invalid := []string{
		"",
		".",
		"about..title",
		".leading",
		"trailing.",
		"spa ce.key",
	}
	for _, key := range invalid {
		if content.IsValidKey(key) {
			t.Fatalf("expected %q to be invalid", key)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	got, err := content.NormalizeKey("  About.Hero.Title  ")
	if err != nil {
		t.Fatalf("normalize key: %v", err)
	}
	if got != "about.hero.title" {
		t.Fatalf("unexpected normalized key: %q", got)
	}

	got, err = content.NormalizeKey("testimonials.0")
	if err != nil {
		t.Fatalf("normalize indexed key: %v", err)
	}
	if got != "testimonials.0" {
		t.Fatalf("numeric segments must survive normalization, got %q", got)
	}
}

func TestNormalizeKeyErrors(t *testing.T) {
	if _, err := content.NormalizeKey("   "); !errors.Is(err, content.ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired, got %v", err)
	}
	if _, err := content.NormalizeKey("about..title"); !errors.Is(err, content.ErrKeyInvalid) {
		t.Fatalf("expected ErrKeyInvalid, got %v", err)
	}
}

func TestIndexedKey(t *testing.T) {
	if got := content.IndexedKey("testimonials", 3); got != "testimonials.3" {
		t.Fatalf("unexpected indexed key: %q", got)
	}
}
