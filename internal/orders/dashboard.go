package orders

import (
	"fmt"

	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/selection"
)

// ViewMode selects the layout of the orders panel.
type ViewMode string

const (
	ViewList ViewMode = "list"
	ViewGrid ViewMode = "grid"
)

// ParseViewMode validates a view mode name.
func ParseViewMode(s string) (ViewMode, error) {
	switch m := ViewMode(s); m {
	case ViewList, ViewGrid:
		return m, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// Sidebar section names.
const (
	SectionMain       = "main"
	SectionOperations = "operations"
)

// Tracking is the content of the tracking dialog. The timeline is the same
// literal list for every order.
type Tracking struct {
	Order    Order                   `json:"order"`
	Steps    []fixtures.TrackingStep `json:"steps"`
	Location fixtures.Location       `json:"location"`
	Alert    fixtures.Notice         `json:"alert"`
}

// Dashboard is the local UI state of the dashboard page. It is not safe for
// concurrent use; the session that owns it serializes access.
type Dashboard struct {
	pack *fixtures.Pack

	View     ViewMode
	Filter   Filter
	Expanded selection.Set[string]
	// Collapsed holds the sidebar sections that are closed; both start open.
	Collapsed selection.Set[string]
	tracking  *Tracking
}

// NewDashboard returns the initial dashboard state over the given fixtures.
func NewDashboard(pack *fixtures.Pack) *Dashboard {
	return &Dashboard{pack: pack, View: ViewList}
}

// All returns the unfiltered fixture orders.
func (d *Dashboard) All() []Order { return d.pack.Orders }

// Visible returns the orders passing the current filter.
func (d *Dashboard) Visible() []Order { return d.Filter.Apply(d.pack.Orders) }

// SetView switches between list and grid layout.
func (d *Dashboard) SetView(m ViewMode) { d.View = m }

// ToggleRow expands or collapses an order row. Several rows may be open.
func (d *Dashboard) ToggleRow(id string) (bool, error) {
	o, err := Find(d.pack.Orders, id)
	if err != nil {
		return false, err
	}
	return d.Expanded.Toggle(o.ID), nil
}

// IsExpanded reports whether an order row is open.
func (d *Dashboard) IsExpanded(id string) bool { return d.Expanded.Has(id) }

// ToggleStatus adds or removes a status label from the status filter.
func (d *Dashboard) ToggleStatus(status string) bool { return d.Filter.Statuses.Toggle(status) }

// ClearStatuses empties the status filter.
func (d *Dashboard) ClearStatuses() { d.Filter.Statuses.Clear() }

// ToggleSection opens or closes a sidebar section. It reports whether the
// section is open afterwards.
func (d *Dashboard) ToggleSection(name string) (bool, error) {
	if name != SectionMain && name != SectionOperations {
		return false, fmt.Errorf("unknown section %q", name)
	}
	return !d.Collapsed.Toggle(name), nil
}

// SectionOpen reports whether a sidebar section is open.
func (d *Dashboard) SectionOpen(name string) bool { return !d.Collapsed.Has(name) }

// Track opens the tracking dialog for an order.
func (d *Dashboard) Track(id string) (*Tracking, error) {
	t, err := TrackingFor(d.pack, id)
	if err != nil {
		return nil, err
	}
	d.tracking = t
	return t, nil
}

// Tracking returns the open tracking dialog, or nil.
func (d *Dashboard) Tracking() *Tracking { return d.tracking }

// CloseTracking dismisses the tracking dialog.
func (d *Dashboard) CloseTracking() { d.tracking = nil }

// TrackingFor builds the tracking dialog content for an order.
func TrackingFor(pack *fixtures.Pack, id string) (*Tracking, error) {
	o, err := Find(pack.Orders, id)
	if err != nil {
		return nil, err
	}
	return &Tracking{
		Order:    o,
		Steps:    append([]fixtures.TrackingStep(nil), pack.TrackingSteps...),
		Location: pack.DeliveryLocation,
		Alert:    pack.TrackingAlert,
	}, nil
}
