package activity

import (
	"context"
	"time"
)

// Source identifies which part of the dashboard produced an entry.
type Source string

const (
	SourceSystem    Source = "system"
	SourceAssistant Source = "assistant"
	SourceDashboard Source = "dashboard"
	SourceDetail    Source = "detail"
	SourceWorkspace Source = "workspace"
)

// Level is the severity tag used to colour an entry in the system log.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelSystem  Level = "system"
)

// Action names a confirmation a user made on one of the pages.
type Action string

const (
	ActionLogin                Action = "login"
	ActionPurchaseOrderCreated Action = "purchase_order_created"
	ActionStockResolved        Action = "stock_discrepancy_resolved"
	ActionOrderApproved        Action = "pending_order_approved"
	ActionOrderRejected        Action = "pending_order_rejected"
	ActionChangesRequested     Action = "changes_requested"
	ActionFlowStep             Action = "flow_step"
)

// Entry is a single activity log record.
type Entry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Source        Source    `json:"source"`
	Level         Level     `json:"level"`
	Action        Action    `json:"action,omitempty"`
	Text          string    `json:"text"`
	Subject       string    `json:"subject,omitempty"`
	SessionID     string    `json:"session_id,omitempty"`
	PreviousValue string    `json:"previous_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
}

// Recorder accepts activity entries. *Store is the durable implementation.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, entry Entry) error

// Record calls f(ctx, entry).
func (f RecorderFunc) Record(ctx context.Context, entry Entry) error { return f(ctx, entry) }
