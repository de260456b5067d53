package assistant

import (
	"errors"
	"time"

	"github.com/ziadkadry99/opsdash/internal/activity"
)

var (
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("assistant session closed")
	// ErrUnknownMessage is returned when an action targets a message ID that
	// is not in the transcript.
	ErrUnknownMessage = errors.New("unknown message")
	// ErrUnknownAction is returned when an action is not offered by the
	// target message in its current state.
	ErrUnknownAction = errors.New("unknown action")
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Kind selects how a message is rendered.
type Kind string

const (
	KindText     Kind = "text"
	KindProgress Kind = "progress"
	KindReport   Kind = "report"
	KindWidget   Kind = "widget"
)

// Attachment is a generated file offered for download.
type Attachment struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

// Message is one entry of the transcript. Text is markdown. At most one of
// Pending and Discrepancy is set, for widget messages.
type Message struct {
	ID          string                 `json:"id"`
	Role        Role                   `json:"role"`
	Kind        Kind                   `json:"kind"`
	Text        string                 `json:"text,omitempty"`
	Attachment  *Attachment            `json:"attachment,omitempty"`
	FollowUps   []ActionName           `json:"follow_ups,omitempty"`
	Pending     *PendingOrders         `json:"pending,omitempty"`
	Discrepancy *DiscrepancyResolution `json:"discrepancy,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

func (m *Message) clone() Message {
	c := *m
	if m.Attachment != nil {
		a := *m.Attachment
		c.Attachment = &a
	}
	c.FollowUps = append([]ActionName(nil), m.FollowUps...)
	if m.Pending != nil {
		c.Pending = m.Pending.clone()
	}
	if m.Discrepancy != nil {
		d := *m.Discrepancy
		c.Discrepancy = &d
	}
	return c
}

// LogEntry is a line of the workspace system log.
type LogEntry struct {
	Text  string         `json:"text"`
	Level activity.Level `json:"level"`
	Time  string         `json:"time"`
}

// EventType names a change to session state.
type EventType string

const (
	EventMessage   EventType = "message"
	EventUpdate    EventType = "update"
	EventComposing EventType = "composing"
	EventLog       EventType = "log"
)

// Event describes one state change. Message is a copy taken when the
// change was applied.
type Event struct {
	Type      EventType `json:"type"`
	Message   *Message  `json:"message,omitempty"`
	Composing bool      `json:"composing"`
	Log       *LogEntry `json:"log,omitempty"`
}

// Snapshot is a consistent copy of the whole session state.
type Snapshot struct {
	Messages   []Message     `json:"messages"`
	Composing  bool          `json:"composing"`
	Logs       []LogEntry    `json:"logs"`
	Activities []AppActivity `json:"activities"`
}
