package inventory

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/opsdash/internal/activity"
	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/selection"
)

// Collapsible section names.
const (
	SectionQuickActions    = "quick_actions"
	SectionProductOverview = "product_overview"
	SectionLifecycle       = "lifecycle"
	SectionAISuggestions   = "ai_suggestions"
)

// Dialog names.
const (
	ModalPurchaseOrder = "purchase_order"
	ModalAIDiagnosis   = "ai_diagnosis"
	ModalDocument      = "document"
)

var (
	sections = []string{SectionQuickActions, SectionProductOverview, SectionLifecycle, SectionAISuggestions}
	modals   = []string{ModalPurchaseOrder, ModalAIDiagnosis, ModalDocument}
)

// Sections lists the collapsible section names in page order.
func Sections() []string { return append([]string(nil), sections...) }

// Modals lists the dialog names.
func Modals() []string { return append([]string(nil), modals...) }

// LogPurchaseOrderCreated is the line recorded when a purchase order is confirmed.
const LogPurchaseOrderCreated = "PO Created"

// Detail is the local state of the detail page. It is not safe for
// concurrent use.
type Detail struct {
	pack      *fixtures.Pack
	recorder  activity.Recorder
	sessionID string

	selected  string
	collapsed selection.Set[string]
	open      selection.Set[string]

	// SummaryExpanded toggles the long form of the product summary.
	SummaryExpanded bool
	// Notice is the last confirmation line, shown until the selection changes.
	Notice string

	Resolver Resolver
}

// Option configures a Detail.
type Option func(*Detail)

// WithRecorder sends confirmation log lines to r, tagged with sessionID.
func WithRecorder(r activity.Recorder, sessionID string) Option {
	return func(d *Detail) {
		d.recorder = r
		d.sessionID = sessionID
	}
}

// NewDetail returns the initial detail state with the first item selected.
func NewDetail(pack *fixtures.Pack, opts ...Option) *Detail {
	d := &Detail{pack: pack, Resolver: NewResolver()}
	if len(pack.Items) > 0 {
		d.selected = pack.Items[0].ID
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Items returns the master list.
func (d *Detail) Items() []Item { return d.pack.Items }

// Lifecycle returns the lifecycle indicator steps.
func (d *Detail) Lifecycle() []fixtures.LifecycleStep { return d.pack.LifecycleSteps }

// PurchaseOrder returns the purchase order preview.
func (d *Detail) PurchaseOrder() fixtures.PurchaseOrder { return d.pack.PurchaseOrder }

// SelectedID returns the SKU of the selected item.
func (d *Detail) SelectedID() string { return d.selected }

// Selected returns the selected item.
func (d *Detail) Selected() Item {
	it, _ := Find(d.pack.Items, d.selected)
	return it
}

// Fields returns the bound detail fields of the selected item.
func (d *Detail) Fields() Fields { return FieldsOf(d.Selected()) }

// Select changes the selected item. An unknown SKU leaves the selection
// unchanged. Moving to another item resets the resolver.
func (d *Detail) Select(id string) error {
	if _, err := Find(d.pack.Items, id); err != nil {
		return err
	}
	if id != d.selected {
		d.Resolver = NewResolver()
		d.Notice = ""
	}
	d.selected = id
	return nil
}

// ToggleSection opens or closes a section and reports whether it is open afterwards.
func (d *Detail) ToggleSection(name string) (bool, error) {
	if !contains(sections, name) {
		return false, fmt.Errorf("unknown section %q", name)
	}
	return !d.collapsed.Toggle(name), nil
}

// SectionOpen reports whether a section is open. All start open.
func (d *Detail) SectionOpen(name string) bool { return !d.collapsed.Has(name) }

// OpenModal shows a dialog.
func (d *Detail) OpenModal(name string) error {
	if !contains(modals, name) {
		return fmt.Errorf("unknown modal %q", name)
	}
	d.open.Add(name)
	return nil
}

// CloseModal hides a dialog.
func (d *Detail) CloseModal(name string) error {
	if !contains(modals, name) {
		return fmt.Errorf("unknown modal %q", name)
	}
	d.open.Remove(name)
	return nil
}

// ModalOpen reports whether a dialog is showing.
func (d *Detail) ModalOpen(name string) bool { return d.open.Has(name) }

// ConfirmModal closes a dialog. Confirming the purchase order also records
// a log line, which is returned; other dialogs return "".
func (d *Detail) ConfirmModal(ctx context.Context, name string) (string, error) {
	if err := d.CloseModal(name); err != nil {
		return "", err
	}
	if name != ModalPurchaseOrder {
		return "", nil
	}
	po := d.pack.PurchaseOrder
	d.Notice = LogPurchaseOrderCreated
	err := d.record(ctx, activity.Entry{
		Action:   activity.ActionPurchaseOrderCreated,
		Level:    activity.LevelSuccess,
		Text:     LogPurchaseOrderCreated,
		Subject:  po.Number,
		NewValue: po.Total,
	})
	return LogPurchaseOrderCreated, err
}

// ConfirmResolver applies the resolver choice to the selected item and
// records the result. The display value is returned.
func (d *Detail) ConfirmResolver(ctx context.Context) (string, error) {
	it := d.Selected()
	value, err := d.Resolver.Confirm(it.Stock)
	if err != nil {
		return "", err
	}
	d.Notice = d.Resolver.Result()
	err = d.record(ctx, activity.Entry{
		Action:        activity.ActionStockResolved,
		Level:         activity.LevelSuccess,
		Text:          d.Resolver.Result(),
		Subject:       it.ID,
		PreviousValue: fmt.Sprint(it.Stock),
		NewValue:      value,
	})
	return value, err
}

func (d *Detail) record(ctx context.Context, e activity.Entry) error {
	if d.recorder == nil {
		return nil
	}
	e.Source = activity.SourceDetail
	e.SessionID = d.sessionID
	if err := d.recorder.Record(ctx, e); err != nil {
		return fmt.Errorf("recording %s: %w", e.Action, err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
