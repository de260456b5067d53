// Package orders implements the recent-orders table of the dashboard:
// filtering over the fixture list, view mode, row expansion and the
// tracking dialog.
package orders

import (
	"errors"
	"strings"

	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/selection"
)

// Order is a row of the recent orders table.
type Order = fixtures.Order

// ErrOrderNotFound is returned when an ID is not in the fixture list.
var ErrOrderNotFound = errors.New("order not found")

// Filter narrows the order list. Every non-empty criterion must match.
type Filter struct {
	Query    string
	Statuses selection.Set[string]
	Clients  selection.Set[string]
	Projects selection.Set[string]
}

// Matches reports whether o passes the filter. The query is a
// case-insensitive substring match on ID or customer; categorical sets
// require membership when non-empty.
func (f Filter) Matches(o Order) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(o.ID), q) && !strings.Contains(strings.ToLower(o.Customer), q) {
			return false
		}
	}
	if !f.Statuses.Empty() && !f.Statuses.Has(o.Status) {
		return false
	}
	if !f.Clients.Empty() && !f.Clients.Has(o.Client) {
		return false
	}
	if !f.Projects.Empty() && !f.Projects.Has(o.Project) {
		return false
	}
	return true
}

// Apply returns the orders passing the filter, in fixture order.
func (f Filter) Apply(all []Order) []Order {
	out := make([]Order, 0, len(all))
	for _, o := range all {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	return out
}

// Find looks up an order by ID. The leading '#' of display IDs is optional.
func Find(all []Order, id string) (Order, error) {
	want := normalizeID(id)
	for _, o := range all {
		if normalizeID(o.ID) == want {
			return o, nil
		}
	}
	return Order{}, ErrOrderNotFound
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(id), "#"))
}

// Distinct returns the distinct values of a field across orders, in first-seen order.
func Distinct(all []Order, field func(Order) string) []string {
	var s selection.Set[string]
	for _, o := range all {
		s.Add(field(o))
	}
	return s.Items()
}
