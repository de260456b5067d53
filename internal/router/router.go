// Package router holds the page state machine: one current page, a fixed set
// of named events and an explicit transition table.
package router

import (
	"errors"
	"fmt"
	"sync"
)

// Page is one of the full-page views.
type Page string

const (
	PageLogin     Page = "login"
	PageDashboard Page = "dashboard"
	PageDetail    Page = "detail"
	PageWorkspace Page = "workspace"
)

// Event is a navigation request raised by a page.
type Event string

const (
	EventLoginSucceeded Event = "login_succeeded"
	EventLogout         Event = "logout"
	EventOpenDetail     Event = "open_detail"
	EventOpenWorkspace  Event = "open_workspace"
	EventBack           Event = "back"
)

// ErrNoTransition is returned when the current page has no transition for an event.
var ErrNoTransition = errors.New("no transition for event")

type transitionKey struct {
	from  Page
	event Event
}

// transitions is the complete navigation table. Back targets live here
// rather than in the pages.
var transitions = map[transitionKey]Page{
	{PageLogin, EventLoginSucceeded}: PageDashboard,

	{PageDashboard, EventLogout}:        PageLogin,
	{PageDashboard, EventOpenDetail}:    PageDetail,
	{PageDashboard, EventOpenWorkspace}: PageWorkspace,

	{PageDetail, EventBack}:          PageDashboard,
	{PageDetail, EventLogout}:        PageLogin,
	{PageDetail, EventOpenWorkspace}: PageWorkspace,

	{PageWorkspace, EventBack}:   PageDashboard,
	{PageWorkspace, EventLogout}: PageLogin,
}

// Pages lists every page in display order.
func Pages() []Page {
	return []Page{PageLogin, PageDashboard, PageDetail, PageWorkspace}
}

// ParseEvent validates an event name taken from a request.
func ParseEvent(s string) (Event, error) {
	switch e := Event(s); e {
	case EventLoginSucceeded, EventLogout, EventOpenDetail, EventOpenWorkspace, EventBack:
		return e, nil
	}
	return "", fmt.Errorf("unknown event %q", s)
}

// Next returns the page reached from `from` on `event` without changing any state.
func Next(from Page, event Event) (Page, bool) {
	to, ok := transitions[transitionKey{from, event}]
	return to, ok
}

// Events returns the events accepted on the given page.
func Events(from Page) []Event {
	var events []Event
	for _, e := range []Event{EventLoginSucceeded, EventLogout, EventOpenDetail, EventOpenWorkspace, EventBack} {
		if _, ok := transitions[transitionKey{from, e}]; ok {
			events = append(events, e)
		}
	}
	return events
}

// Transition describes a completed page change.
type Transition struct {
	From  Page
	Event Event
	To    Page
}

// Listener is called after every successful transition.
type Listener func(Transition)

// Router holds the current page. It is safe for concurrent use.
type Router struct {
	mu        sync.Mutex
	current   Page
	listeners []Listener
}

// New returns a router on the login page.
func New() *Router {
	return &Router{current: PageLogin}
}

// Current returns the current page.
func (r *Router) Current() Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// OnTransition registers a listener.
func (r *Router) OnTransition(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// Dispatch applies an event. When the current page has no transition for it
// the page is unchanged and ErrNoTransition is returned.
func (r *Router) Dispatch(event Event) (Page, error) {
	r.mu.Lock()
	from := r.current
	to, ok := Next(from, event)
	if !ok {
		r.mu.Unlock()
		return from, fmt.Errorf("%w: %s on %s", ErrNoTransition, event, from)
	}
	r.current = to
	listeners := append([]Listener(nil), r.listeners...)
	r.mu.Unlock()

	t := Transition{From: from, Event: event, To: to}
	for _, l := range listeners {
		l(t)
	}
	return to, nil
}
