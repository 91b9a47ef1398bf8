package layouts

import (
	"testing"

	"github.com/pitchforge/backend/internal/model"
)

func TestNewCatalogLoadsEmbeddedLayouts(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("failed to load embedded catalog: %v", err)
	}
	if len(catalog.List()) == 0 {
		t.Fatalf("embedded catalog is empty")
	}

	for _, name := range []string{"Title Slide", "Contents", "Body", "Body with Bullets", "Section Divider"} {
		layout, ok := catalog.Get(name)
		if !ok {
			t.Fatalf("layout %q missing from catalog", name)
		}
		if len(layout.Placeholders) == 0 {
			t.Fatalf("layout %q has no placeholders", name)
		}
	}
}

func TestCatalogPlaceholdersHaveIDsAndTypes(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("failed to load embedded catalog: %v", err)
	}
	for _, layout := range catalog.List() {
		seen := make(map[string]bool)
		for _, ph := range layout.Placeholders {
			if ph.ID == "" || ph.Type == "" {
				t.Fatalf("layout %q has placeholder without id/type: %+v", layout.Name, ph)
			}
			if seen[ph.ID] {
				t.Fatalf("layout %q has duplicate placeholder id %q", layout.Name, ph.ID)
			}
			seen[ph.ID] = true
		}
	}
}

func TestCatalogGetUnknown(t *testing.T) {
	catalog := NewCatalogFrom([]model.Layout{{Name: "Only"}})
	if _, ok := catalog.Get("Missing"); ok {
		t.Fatalf("unknown layout must not resolve")
	}
}
