// Package catalog holds the immutable set of insurance products available
// for recommendation.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/plan-advisor/internal/model"
)

// MinProducts is the smallest catalog that can satisfy a recommendation.
const MinProducts = 3

//go:embed catalog.yaml
var embedded []byte

type file struct {
	Products []model.Product `yaml:"products"`
}

// Catalog is a read-only product list with lookup by ID. It is safe for
// concurrent use because nothing mutates it after construction.
type Catalog struct {
	products []model.Product
	byID     map[string]int
}

// Load reads the catalog from path, or the embedded catalog when path is
// empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(embedded)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("catalog: read %s", path))
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "catalog: parse yaml")
	}
	return New(f.Products)
}

// New validates products and builds a Catalog. The input slice is copied.
func New(products []model.Product) (*Catalog, error) {
	if len(products) < MinProducts {
		return nil, eris.Errorf("catalog: need at least %d products, got %d", MinProducts, len(products))
	}

	var errs []string
	byID := make(map[string]int, len(products))
	for i, p := range products {
		switch {
		case strings.TrimSpace(p.ID) == "":
			errs = append(errs, fmt.Sprintf("product %d: empty id", i))
			continue
		case strings.TrimSpace(p.Name) == "":
			errs = append(errs, fmt.Sprintf("%s: empty name", p.ID))
		case p.Popularity < 0 || p.Popularity > 100:
			errs = append(errs, fmt.Sprintf("%s: popularity %.1f out of range", p.ID, p.Popularity))
		}
		if _, dup := byID[p.ID]; dup {
			errs = append(errs, fmt.Sprintf("%s: duplicate id", p.ID))
			continue
		}
		byID[p.ID] = i
	}
	if len(errs) > 0 {
		return nil, eris.Errorf("catalog: validation failed: %s", strings.Join(errs, "; "))
	}

	return &Catalog{
		products: slices.Clone(products),
		byID:     byID,
	}, nil
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// Products returns the products in catalog order.
func (c *Catalog) Products() []model.Product {
	return slices.Clone(c.products)
}

// Get returns the product with the given ID.
func (c *Catalog) Get(id string) (model.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[i], true
}

// Contains reports whether id is a catalog product.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// IDs returns all product IDs in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.products))
	for i, p := range c.products {
		ids[i] = p.ID
	}
	return ids
}

// ByPopularity returns products sorted by descending popularity. Ties keep
// catalog order.
func (c *Catalog) ByPopularity() []model.Product {
	out := slices.Clone(c.products)
	slices.SortStableFunc(out, func(a, b model.Product) int {
		switch {
		case a.Popularity > b.Popularity:
			return -1
		case a.Popularity < b.Popularity:
			return 1
		default:
			return 0
		}
	})
	return out
}
