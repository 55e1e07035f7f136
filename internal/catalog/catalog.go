// Package catalog holds the read-only product and group listings.
// The data ships inside the binary (catalog.yaml via go:embed) and is parsed exactly once;
// after Load returns, a Catalog is never modified, so it is safe to share between requests.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/trentd187/pickleball-directory/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultData []byte

// Catalog is the immutable set of products and groups.
type Catalog struct {
	products []models.Product
	groups   []models.Group
}

// file mirrors the top-level layout of catalog.yaml.
type file struct {
	Products []models.Product `yaml:"products"`
	Groups   []models.Group   `yaml:"groups"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(defaultData)
}

// Parse builds a Catalog from YAML. Duplicate IDs are rejected because
// lookups by ID would otherwise be ambiguous.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[int]bool, len(f.Products))
	for _, p := range f.Products {
		if seen[p.ID] {
			return nil, fmt.Errorf("parse catalog: duplicate product id %d", p.ID)
		}
		seen[p.ID] = true
	}
	seen = make(map[int]bool, len(f.Groups))
	for _, g := range f.Groups {
		if seen[g.ID] {
			return nil, fmt.Errorf("parse catalog: duplicate group id %d", g.ID)
		}
		seen[g.ID] = true
	}

	return &Catalog{products: f.Products, groups: f.Groups}, nil
}

// Products returns a copy of the product list, in file order.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product looks up a product by ID.
func (c *Catalog) Product(id int) (models.Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Groups returns a copy of the group list, in file order.
func (c *Catalog) Groups() []models.Group {
	out := make([]models.Group, len(c.groups))
	copy(out, c.groups)
	return out
}

// Group looks up a group by ID.
func (c *Catalog) Group(id int) (models.Group, bool) {
	for _, g := range c.groups {
		if g.ID == id {
			return g, true
		}
	}
	return models.Group{}, false
}
