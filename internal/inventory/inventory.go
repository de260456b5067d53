// Package inventory implements the item detail page: a master list over the
// item fixtures with single selection, collapsible sections, dialogs and the
// stock discrepancy resolver.
package inventory

import (
	"errors"
	"fmt"

	"github.com/ziadkadry99/opsdash/internal/fixtures"
)

// Item is an inventory SKU.
type Item = fixtures.Item

// ErrItemNotFound is returned when a SKU is not in the item list.
var ErrItemNotFound = errors.New("item not found")

// StockCapacity is the stock level shown as a full bar.
const StockCapacity = 600

// StockPercent is the fill of the stock bar, floor(stock/600*100).
func StockPercent(stock int) int {
	if stock <= 0 {
		return 0
	}
	return stock * 100 / StockCapacity
}

// Fields are the values bound into the detail panel for the selected item.
type Fields struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Properties   string `json:"properties"`
	Status       string `json:"status"`
	Stock        int    `json:"stock"`
	StockPercent int    `json:"stock_percent"`
	AIStatus     string `json:"ai_status,omitempty"`
}

// FieldsOf derives the bound fields for an item.
func FieldsOf(it Item) Fields {
	return Fields{
		ID:           it.ID,
		Name:         it.Name,
		Category:     it.Category,
		Properties:   it.Properties,
		Status:       it.Status,
		Stock:        it.Stock,
		StockPercent: StockPercent(it.Stock),
		AIStatus:     it.AIStatus,
	}
}

// Find looks up an item by SKU.
func Find(items []Item, id string) (Item, error) {
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}
