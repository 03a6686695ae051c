package main

import (
	"context"
	"fmt"
	"log"

	siteedit "github.com/albayanlaw/go-siteedit"
	"github.com/albayanlaw/go-siteedit/internal/di"
	"github.com/albayanlaw/go-siteedit/internal/session"
	"github.com/albayanlaw/go-siteedit/pkg/testsupport"
)

func main() {
	ctx := context.Background()

	cfg := siteedit.DefaultConfig()
	cfg.Auth.LoginEnabled = true

	identity := session.NewMemoryIdentityProvider()

	module, err := siteedit.New(cfg, di.WithIdentityProvider(identity))
	if err != nil {
		log.Fatalf("construct module: %v", err)
	}
	defer module.Teardown()

	if err := module.Initialize(ctx); err != nil {
		log.Fatalf("initialize module: %v", err)
	}

	seed := map[string]any{
		"home.hero.title":    "القانون بخبرة",
		"home.hero.subtitle": "مكتب محاماة واستشارات قانونية",
		"contact.phone":      map[string]any{"text": "+966 11 000 0000", "url": "tel:+966110000000"},
	}
	if err := testsupport.SeedEntries(ctx, module.Entries(), "ar", seed); err != nil {
		log.Fatalf("seed entries: %v", err)
	}
	if err := module.Content().Reload(ctx); err != nil {
		log.Fatalf("reload content: %v", err)
	}

	content := module.Content()
	fmt.Println("locale:", content.Locale())
	fmt.Println("hero title:", content.Get("home.hero.title", "fallback title"))
	fmt.Println("missing key:", content.Get("home.hero.tagline", "default tagline"))

	// Anonymous sessions cannot write.
	if err := content.Set(ctx, "home.hero.title", "edited"); err != nil {
		fmt.Println("anonymous write rejected:", err)
	}

	// Simulate a passwordless login push from the identity provider.
	identity.Authenticate("admin@albayan.law", cfg.Auth.AdminRole)
	if err := content.Set(ctx, "home.hero.title", "القانون بخبرة وثقة"); err != nil {
		log.Fatalf("admin write: %v", err)
	}
	fmt.Println("after edit:", content.Get("home.hero.title", ""))

	edit := module.EditControl()
	edit.SetEditMode(true)
	fmt.Println("can edit:", edit.CanEdit())

	locale, err := edit.ToggleLocale(ctx)
	if err != nil {
		log.Fatalf("toggle locale: %v", err)
	}
	fmt.Println("switched to:", locale)
	fmt.Println("hero title falls back:", content.Get("home.hero.title", "Law, practiced with experience"))

	collections := module.Collections()
	fmt.Println("collections:", collections.Schemas())

	editor, err := collections.Editor("testimonials")
	if err != nil {
		log.Fatalf("open editor: %v", err)
	}
	id := editor.Append()
	if err := editor.SetField(id, "text", "خدمة ممتازة"); err != nil {
		log.Fatalf("set field: %v", err)
	}
	if err := editor.SetField(id, "name", "عميل"); err != nil {
		log.Fatalf("set field: %v", err)
	}
	if err := editor.Save(ctx); err != nil {
		log.Fatalf("save collection: %v", err)
	}
	fmt.Println("editor status:", editor.Status())
}
