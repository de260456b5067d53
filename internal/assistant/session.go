// Package assistant runs the scripted workspace copilot. A Session owns the
// transcript and applies every change through one lock; delayed flow steps
// run on goroutines bound to a cancellable context and are dropped once
// that context is cancelled.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/opsdash/internal/activity"
	"github.com/ziadkadry99/opsdash/internal/fixtures"
)

// AppActivity is an entry of the connected-apps sidebar.
type AppActivity = fixtures.AppActivity

// Options configures a Session.
type Options struct {
	// Pacing scales every step delay. 0 runs steps back to back.
	Pacing float64
	// Supersede cancels the pending steps of the previous flow when a new
	// one starts. Without it, chains overlap and interleave.
	Supersede bool
	// Recorder receives system log lines and widget decisions. Optional.
	Recorder  activity.Recorder
	SessionID string
	Logger    *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Session is one workspace conversation.
type Session struct {
	pack   *fixtures.Pack
	opts   Options
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	closed     bool
	flowCancel context.CancelFunc
	messages   []*Message
	composing  bool
	logs       []LogEntry
	activities []AppActivity
	subs       map[*Subscription]struct{}
}

// New starts a session seeded with the greeting, the app activity list and
// the system log from the fixture pack.
func New(pack *fixtures.Pack, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Pacing < 0 {
		opts.Pacing = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		pack:   pack,
		opts:   opts,
		logger: opts.Logger.With(zap.String("session", opts.SessionID)),
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[*Subscription]struct{}),
	}
	s.activities = append([]AppActivity(nil), pack.AppActivities...)
	// Newest first.
	for i := len(pack.SystemLogs) - 1; i >= 0; i-- {
		l := pack.SystemLogs[i]
		s.logs = append(s.logs, LogEntry{Text: l.Text, Level: activity.Level(l.Level), Time: l.Time})
	}
	s.messages = append(s.messages, &Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Kind:      KindText,
		Text:      Greeting,
		Timestamp: opts.Now(),
	})
	return s
}

// Submit handles user input. Blank input is ignored and reported as false.
func (s *Session) Submit(text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	name := Classify(text)
	s.logger.Debug("input classified", zap.String("flow", string(name)))
	s.runFlow(text, s.flowFor(name))
	return true, nil
}

// Steps returns how many delayed steps the flow chosen for text runs.
func (s *Session) Steps(text string) int {
	return len(s.flowFor(Classify(text)).steps)
}

// Act activates a control on a message.
func (s *Session) Act(messageID string, a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	m := s.find(messageID)
	if m == nil {
		return fmt.Errorf("%w: %s", ErrUnknownMessage, messageID)
	}

	switch a.Name {
	case ActionSyncReport, ActionAssignDispatch:
		if !offers(m, a.Name) {
			break
		}
		if a.Name == ActionSyncReport {
			s.runFlow(SyncReportPrompt, s.flowFor(FlowSyncReport))
		} else {
			s.runFlow(AssignDispatchPrompt, s.flowFor(FlowAssignDispatch))
		}
		return nil

	case ActionRequestChanges, ActionCancelRequest, ActionSubmitRequest:
		d := m.Discrepancy
		if d == nil {
			break
		}
		var err error
		switch a.Name {
		case ActionRequestChanges:
			err = d.RequestChanges()
		case ActionCancelRequest:
			err = d.CancelRequest()
		default:
			err = d.Submit(a.Text)
		}
		if err != nil {
			return err
		}
		s.emit(Event{Type: EventUpdate, Message: ptr(m.clone())})
		if a.Name == ActionSubmitRequest {
			s.record(activity.Entry{Action: activity.ActionChangesRequested, Level: activity.LevelInfo, Text: "Changes requested", NewValue: a.Text})
			s.schedule(s.ctx, []step{{DelayApproval, func(s *Session) {
				if d.approve() == nil {
					s.emit(Event{Type: EventUpdate, Message: ptr(m.clone())})
				}
			}}})
		}
		return nil

	case ActionToggleOrder, ActionApproveOrder, ActionRejectOrder:
		p := m.Pending
		if p == nil {
			break
		}
		if a.Name == ActionToggleOrder {
			if err := p.Toggle(a.Target); err != nil {
				return err
			}
		} else {
			if err := p.Process(a.Target); err != nil {
				return err
			}
			verb, act := "approved", activity.ActionOrderApproved
			if a.Name == ActionRejectOrder {
				verb, act = "rejected", activity.ActionOrderRejected
			}
			s.record(activity.Entry{Action: act, Level: activity.LevelInfo, Text: fmt.Sprintf("Order %s %s", a.Target, verb), Subject: a.Target})
		}
		s.emit(Event{Type: EventUpdate, Message: ptr(m.clone())})
		return nil
	}
	return fmt.Errorf("%w: %s on message %s", ErrUnknownAction, a.Name, messageID)
}

func offers(m *Message, name ActionName) bool {
	for _, f := range m.FollowUps {
		if f == name {
			return true
		}
	}
	return false
}

// runFlow appends the user message, raises composing, applies the flow's
// immediate effects and schedules the rest. Callers hold s.mu.
func (s *Session) runFlow(userText string, f flow) {
	s.append(&Message{Role: RoleUser, Kind: KindText, Text: userText})
	s.setComposing(true)
	f.start(s)

	ctx, cancel := context.WithCancel(s.ctx)
	if s.opts.Supersede && s.flowCancel != nil {
		s.flowCancel()
	}
	s.flowCancel = cancel
	s.scheduleWith(ctx, cancel, f.steps)
}

func (s *Session) schedule(parent context.Context, steps []step) {
	ctx, cancel := context.WithCancel(parent)
	s.scheduleWith(ctx, cancel, steps)
}

// scheduleWith runs steps in order on one goroutine. A step is applied only
// if ctx is still live once the lock is held, so nothing lands after the
// cancelling call returns.
func (s *Session) scheduleWith(ctx context.Context, cancel context.CancelFunc, steps []step) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		for _, st := range steps {
			if !s.sleep(ctx, st.delay) {
				return
			}
			s.mu.Lock()
			if ctx.Err() != nil {
				s.mu.Unlock()
				return
			}
			st.apply(s)
			s.mu.Unlock()
		}
	}()
}

func (s *Session) sleep(ctx context.Context, d time.Duration) bool {
	d = time.Duration(float64(d) * s.opts.Pacing)
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (s *Session) append(m *Message) {
	m.ID = uuid.NewString()
	m.Timestamp = s.opts.Now()
	s.messages = append(s.messages, m)
	s.emit(Event{Type: EventMessage, Message: ptr(m.clone())})
}

func (s *Session) appendAssistant(m *Message) {
	m.Role = RoleAssistant
	s.append(m)
}

func (s *Session) setComposing(v bool) {
	if s.composing == v {
		return
	}
	s.composing = v
	s.emit(Event{Type: EventComposing, Composing: v})
}

// log prepends a system log line and records it.
func (s *Session) log(text string, level activity.Level) {
	e := LogEntry{Text: text, Level: level, Time: s.opts.Now().Format("03:04 PM")}
	s.logs = append([]LogEntry{e}, s.logs...)
	s.emit(Event{Type: EventLog, Log: &e})
	s.record(activity.Entry{Action: activity.ActionFlowStep, Level: level, Text: text})
}

func (s *Session) record(e activity.Entry) {
	if s.opts.Recorder == nil {
		return
	}
	e.Source = activity.SourceAssistant
	e.SessionID = s.opts.SessionID
	if err := s.opts.Recorder.Record(s.ctx, e); err != nil {
		s.logger.Warn("recording activity", zap.String("text", e.Text), zap.Error(err))
	}
}

func (s *Session) find(id string) *Message {
	for _, m := range s.messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messagesLocked()
}

func (s *Session) messagesLocked() []Message {
	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.clone()
	}
	return out
}

// Composing reports whether the assistant is preparing a reply.
func (s *Session) Composing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composing
}

// Logs returns the system log, newest first.
func (s *Session) Logs() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LogEntry(nil), s.logs...)
}

// Snapshot returns a consistent copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Messages:   s.messagesLocked(),
		Composing:  s.composing,
		Logs:       append([]LogEntry(nil), s.logs...),
		Activities: append([]AppActivity(nil), s.activities...),
	}
}

// Wait blocks until no scheduled steps remain. It must not race with calls
// that schedule new steps.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels every pending step and ends all subscriptions. Once it
// returns no further changes are applied. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	for sub := range s.subs {
		delete(s.subs, sub)
		close(sub.ch)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Subscription delivers state change events. Events are dropped rather
// than blocking the session when the buffer is full; Lagged then reports
// true and the consumer should resynchronise from a Snapshot.
type Subscription struct {
	ch     chan Event
	lagged atomic.Bool
	s      *Session
}

// C returns the event channel. It is closed when the subscription ends.
func (sub *Subscription) C() <-chan Event { return sub.ch }

// Lagged reports and clears the dropped-events flag.
func (sub *Subscription) Lagged() bool { return sub.lagged.Swap(false) }

// Cancel ends the subscription.
func (sub *Subscription) Cancel() {
	sub.s.mu.Lock()
	defer sub.s.mu.Unlock()
	if _, ok := sub.s.subs[sub]; ok {
		delete(sub.s.subs, sub)
		close(sub.ch)
	}
}

// Subscribe registers for events with the given buffer size. On a closed
// session the returned subscription's channel is already closed.
func (s *Session) Subscribe(buf int) *Subscription {
	sub := &Subscription{ch: make(chan Event, buf), s: s}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(sub.ch)
		return sub
	}
	s.subs[sub] = struct{}{}
	return sub
}

func (s *Session) emit(ev Event) {
	for sub := range s.subs {
		select {
		case sub.ch <- ev:
		default:
			sub.lagged.Store(true)
		}
	}
}

func ptr[T any](v T) *T { return &v }
