package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"time"

	sitecontent "github.com/albayanlaw/go-siteedit/content"
	"github.com/albayanlaw/go-siteedit/internal/entries"
)

func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SeedEntries upserts the given key/value pairs for a locale. Test helper
// for populating repositories without going through the session-gated
// resolver.
func SeedEntries(ctx context.Context, repo entries.Repository, locale string, values map[string]any) error {
	now := time.Now().UTC()
	for key, value := range values {
		_, err := repo.Upsert(ctx, &sitecontent.Entry{
			Key:       key,
			Locale:    locale,
			Value:     value,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
