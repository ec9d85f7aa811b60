package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Catalog maps item names to prices. It is fixed configuration.
type Catalog struct {
	prices map[string]decimal.Decimal
}

type CatalogItem struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// DefaultCatalog is the classroom store.
func DefaultCatalog() Catalog {
	return NewCatalog(map[string]decimal.Decimal{
		"Candy":            decimal.NewFromInt(10),
		"No Homework Pass": decimal.NewFromInt(200),
	})
}

func NewCatalog(prices map[string]decimal.Decimal) Catalog {
	c := Catalog{prices: make(map[string]decimal.Decimal, len(prices))}
	for name, price := range prices {
		c.prices[name] = price
	}
	return c
}

func (c Catalog) Len() int { return len(c.prices) }

func (c Catalog) Price(item string) (decimal.Decimal, error) {
	price, ok := c.prices[item]
	if !ok {
		return decimal.Zero, ErrUnknownItem
	}
	return price, nil
}

// Items lists the catalog sorted by price, then name.
func (c Catalog) Items() []CatalogItem {
	items := make([]CatalogItem, 0, len(c.prices))
	for name, price := range c.prices {
		items = append(items, CatalogItem{Name: name, Price: price})
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Price.Equal(items[j].Price) {
			return items[i].Price.LessThan(items[j].Price)
		}
		return items[i].Name < items[j].Name
	})
	return items
}
