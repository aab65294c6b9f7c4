package server

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/thesyncim/shopflow/pkg/shopflow"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Item is one product of the fixture catalog.
type Item struct {
	ID          int
	Name        string
	Price       decimal.Decimal
	Description string
}

// Catalog is the fixed, ordered product list served by the fixture.
type Catalog struct {
	items []Item
	byID  map[int]Item
}

type catalogFile struct {
	Products []struct {
		ID          int    `yaml:"id"`
		Name        string `yaml:"name"`
		Price       string `yaml:"price"`
		Description string `yaml:"description"`
	} `yaml:"products"`
}

// DefaultCatalog returns the embedded six-product catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(f.Products) == 0 {
		return nil, errors.New("catalog has no products")
	}
	c := &Catalog{byID: make(map[int]Item, len(f.Products))}
	for _, p := range f.Products {
		if p.Name == "" {
			return nil, fmt.Errorf("product %d has no name", p.ID)
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("product %q price %q: %w", p.Name, p.Price, err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		it := Item{ID: p.ID, Name: p.Name, Price: price, Description: p.Description}
		c.items = append(c.items, it)
		c.byID[p.ID] = it
	}
	return c, nil
}

// Get returns the item with id.
func (c *Catalog) Get(id int) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Sorted returns the items ordered under o.
func (c *Catalog) Sorted(o shopflow.SortOrder) []Item {
	names := shopflow.NameComparer()
	out := slices.Clone(c.items)
	slices.SortStableFunc(out, func(a, b Item) int {
		switch o {
		case shopflow.NameDesc:
			return names(b.Name, a.Name)
		case shopflow.PriceAsc:
			return a.Price.Cmp(b.Price)
		case shopflow.PriceDesc:
			return b.Price.Cmp(a.Price)
		default:
			return names(a.Name, b.Name)
		}
	})
	return out
}
