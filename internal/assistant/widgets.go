package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/selection"
)

// ActionName identifies a control on a message.
type ActionName string

const (
	// Follow-ups offered on flow results.
	ActionSyncReport     ActionName = "sync_report"
	ActionAssignDispatch ActionName = "assign_dispatch"

	// Discrepancy resolution widget.
	ActionRequestChanges ActionName = "request_changes"
	ActionCancelRequest  ActionName = "cancel_request"
	ActionSubmitRequest  ActionName = "submit_request"

	// Pending orders widget. Target is the order ID.
	ActionToggleOrder  ActionName = "toggle_order"
	ActionApproveOrder ActionName = "approve"
	ActionRejectOrder  ActionName = "reject"
)

// Action is a control activation on a message. Target names the order for
// pending-order actions; Text carries the change request for submit_request.
type Action struct {
	Name   ActionName `json:"action" validate:"required"`
	Target string     `json:"target,omitempty"`
	Text   string     `json:"text,omitempty"`
}

// PendingOrder is an order awaiting approval.
type PendingOrder = fixtures.PendingOrder

// PendingOrders is the approval widget. Its state belongs to the message
// that carries it.
type PendingOrders struct {
	orders    []PendingOrder
	expanded  selection.Single[string]
	processed selection.Set[string]
}

func newPendingOrders(orders []PendingOrder) *PendingOrders {
	return &PendingOrders{orders: append([]PendingOrder(nil), orders...)}
}

func (p *PendingOrders) clone() *PendingOrders {
	return &PendingOrders{
		orders:    p.orders,
		expanded:  p.expanded,
		processed: p.processed.Clone(),
	}
}

// Active returns the orders not yet approved or rejected.
func (p *PendingOrders) Active() []PendingOrder {
	out := make([]PendingOrder, 0, len(p.orders))
	for _, o := range p.orders {
		if !p.processed.Has(o.ID) {
			out = append(out, o)
		}
	}
	return out
}

// Expanded returns the order whose details are shown, if any.
func (p *PendingOrders) Expanded() (string, bool) { return p.expanded.Get() }

// ExpandedID returns the expanded order ID, or "".
func (p *PendingOrders) ExpandedID() string {
	id, _ := p.expanded.Get()
	return id
}

// Processed returns the handled order IDs in the order they were handled.
func (p *PendingOrders) Processed() []string { return p.processed.Items() }

// Done reports whether every order has been handled.
func (p *PendingOrders) Done() bool { return len(p.Active()) == 0 }

// Header is the widget title, e.g. "Pending Review (3)".
func (p *PendingOrders) Header() string {
	if p.Done() {
		return "All pending orders processed!"
	}
	return fmt.Sprintf("Pending Review (%d)", len(p.Active()))
}

func (p *PendingOrders) find(id string) bool {
	for _, o := range p.orders {
		if o.ID == id && !p.processed.Has(id) {
			return true
		}
	}
	return false
}

// Toggle opens an order's details, closing any other.
func (p *PendingOrders) Toggle(id string) error {
	if !p.find(id) {
		return fmt.Errorf("%w: no pending order %q", ErrUnknownAction, id)
	}
	p.expanded.Toggle(id)
	return nil
}

// Process marks an order approved or rejected and removes it from view.
func (p *PendingOrders) Process(id string) error {
	if !p.find(id) {
		return fmt.Errorf("%w: no pending order %q", ErrUnknownAction, id)
	}
	p.processed.Add(id)
	if p.expanded.Is(id) {
		p.expanded.Clear()
	}
	return nil
}

// MarshalJSON renders the widget as the client sees it.
func (p *PendingOrders) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Header    string         `json:"header"`
		Orders    []PendingOrder `json:"orders"`
		Expanded  string         `json:"expanded,omitempty"`
		Processed []string       `json:"processed"`
		Done      bool           `json:"done"`
	}{p.Header(), p.Active(), p.ExpandedID(), p.Processed(), p.Done()})
}

// DiscrepancyState is the step of the discrepancy resolution widget.
type DiscrepancyState string

const (
	DiscrepancyInitial    DiscrepancyState = "initial"
	DiscrepancyRequesting DiscrepancyState = "requesting"
	DiscrepancyPending    DiscrepancyState = "pending"
	DiscrepancyApproved   DiscrepancyState = "approved"
)

// DiscrepancyResolution lists the discrepancies found and lets the user ask
// for changes, which are approved after a delay.
type DiscrepancyResolution struct {
	State      DiscrepancyState `json:"state"`
	Summary    string           `json:"summary"`
	Issues     []string         `json:"issues"`
	Request    string           `json:"request,omitempty"`
	Status     string           `json:"status,omitempty"`
	Attachment *Attachment      `json:"attachment,omitempty"`
}

func newDiscrepancyResolution() *DiscrepancyResolution {
	return &DiscrepancyResolution{
		State:   DiscrepancyInitial,
		Summary: "Found 3 discrepancies in recent shipments.",
		Issues: []string{
			"Order #ORD-2054: Weight mismatch",
			"Order #ORD-2051: Timestamp sync error",
			"Order #ORD-2048: Missing carrier update",
		},
	}
}

func (d *DiscrepancyResolution) transition(from, to DiscrepancyState) error {
	if d.State != from {
		return fmt.Errorf("%w: resolution is %s", ErrUnknownAction, d.State)
	}
	d.State = to
	return nil
}

// RequestChanges opens the change request form.
func (d *DiscrepancyResolution) RequestChanges() error {
	return d.transition(DiscrepancyInitial, DiscrepancyRequesting)
}

// CancelRequest closes the form without submitting.
func (d *DiscrepancyResolution) CancelRequest() error {
	return d.transition(DiscrepancyRequesting, DiscrepancyInitial)
}

// Submit sends the change request for approval.
func (d *DiscrepancyResolution) Submit(text string) error {
	if err := d.transition(DiscrepancyRequesting, DiscrepancyPending); err != nil {
		return err
	}
	d.Request = text
	d.Status = "Requesting approval from Logistics Manager..."
	return nil
}

func (d *DiscrepancyResolution) approve() error {
	if err := d.transition(DiscrepancyPending, DiscrepancyApproved); err != nil {
		return err
	}
	d.Status = "Changes approved. PO updated."
	d.Attachment = &Attachment{Name: "PO_Revised_Final.pdf", Detail: "Updated just now"}
	return nil
}
