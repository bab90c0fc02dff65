// Package menu holds the immutable pizza catalog and its lookup rules.
package menu

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Item is one catalog entry.
type Item struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
}

// Catalog is the fixed set of pizzas known at process start.
type Catalog struct {
	items []Item
}

// Default returns the built-in three-pizza catalog.
func Default() *Catalog {
	return &Catalog{items: []Item{
		{ID: "margherita", Name: "Margherita", Price: 18.99},
		{ID: "pepperoni", Name: "Pepperoni", Price: 21.99},
		{ID: "hawaiian", Name: "Hawaiian", Price: 22.99},
	}}
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading menu %s: %w", path, err)
	}

	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing menu %s: %w", path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("menu %s is empty", path)
	}

	return &Catalog{items: items}, nil
}

// Items returns the catalog entries in menu order.
func (c *Catalog) Items() []Item {
	return c.items
}

// Find resolves a pizza key: the numeric shorthand ("1", "2", ...), the
// exact id, or a case-insensitive name match.
func (c *Catalog) Find(key string) (Item, bool) {
	key = strings.TrimSpace(key)
	if n, ok := c.shorthand(key); ok {
		return c.items[n], true
	}

	lower := strings.ToLower(key)
	for _, it := range c.items {
		if it.ID == lower || strings.ToLower(it.Name) == lower {
			return it, true
		}
	}
	return Item{}, false
}

// IsShorthand reports whether key is exactly a numeric menu position.
func (c *Catalog) IsShorthand(key string) bool {
	_, ok := c.shorthand(strings.TrimSpace(key))
	return ok
}

func (c *Catalog) shorthand(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' {
		return 0, false
	}
	n := int(key[0] - '1')
	if n >= len(c.items) {
		return 0, false
	}
	return n, true
}

// RenderList formats the numbered menu listing used by the fallback
// synthesizer and the heuristic layer.
func RenderList(items []Item) string {
	var b strings.Builder
	b.WriteString("🍕 Pizza menu:\n\n")
	for i, it := range items {
		fmt.Fprintf(&b, "%d. **%s** - $%.2f\n", i+1, it.Name, it.Price)
	}
	b.WriteString("\nWhat would you like to order?")
	return b.String()
}
