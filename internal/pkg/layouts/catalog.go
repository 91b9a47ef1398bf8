// Package layouts holds the read-only slide layout catalog. Layouts are
// resolved by name and never mutated by the generation pipeline.
package layouts

import (
	_ "embed"

	"github.com/pitchforge/backend/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed layouts.yaml
var layoutsYAML []byte

type Catalog struct {
	layouts []model.Layout
	byName  map[string]*model.Layout
}

// NewCatalog loads the embedded layout catalog.
func NewCatalog() (*Catalog, error) {
	var doc struct {
		Layouts []model.Layout `yaml:"layouts"`
	}
	if err := yaml.Unmarshal(layoutsYAML, &doc); err != nil {
		return nil, err
	}
	return newCatalog(doc.Layouts), nil
}

// NewCatalogFrom builds a catalog from explicit layouts, for tests.
func NewCatalogFrom(layouts []model.Layout) *Catalog {
	return newCatalog(layouts)
}

func newCatalog(layouts []model.Layout) *Catalog {
	c := &Catalog{
		layouts: layouts,
		byName:  make(map[string]*model.Layout, len(layouts)),
	}
	for i := range c.layouts {
		c.byName[c.layouts[i].Name] = &c.layouts[i]
	}
	return c
}

// Get resolves a layout by name. ok is false for unknown names; callers
// treat that as a slide with no placeholders.
func (c *Catalog) Get(name string) (*model.Layout, bool) {
	l, ok := c.byName[name]
	return l, ok
}

// List returns all layouts in catalog order.
func (c *Catalog) List() []model.Layout {
	return c.layouts
}
