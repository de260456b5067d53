// Package session keeps per-browser UI state in memory: the page router, the
// dashboard and detail state and the workspace assistant.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/opsdash/internal/activity"
	"github.com/ziadkadry99/opsdash/internal/assistant"
	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/inventory"
	"github.com/ziadkadry99/opsdash/internal/orders"
	"github.com/ziadkadry99/opsdash/internal/router"
)

// CookieName is the cookie carrying the session ID.
const CookieName = "opsdash_session"

// User is who signed in on the login page. No credentials are kept.
type User struct {
	Organization string
	Email        string
}

// Session is the state of one browser. Callers hold Lock while reading or
// changing Dashboard, Detail or User.
type Session struct {
	ID        string
	Router    *router.Router
	Dashboard *orders.Dashboard
	Detail    *inventory.Detail

	mu   sync.Mutex
	User *User

	amu       sync.Mutex
	assistant *assistant.Session
	newAsst   func() *assistant.Session

	seenMu   sync.Mutex
	lastSeen time.Time
}

// Lock serializes access to the page state.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases Lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Assistant returns the workspace assistant, starting a new conversation if
// none is open.
func (s *Session) Assistant() *assistant.Session {
	s.amu.Lock()
	defer s.amu.Unlock()
	if s.assistant == nil || s.assistant.Closed() {
		s.assistant = s.newAsst()
	}
	return s.assistant
}

// HasAssistant reports whether a conversation is open.
func (s *Session) HasAssistant() bool {
	s.amu.Lock()
	defer s.amu.Unlock()
	return s.assistant != nil && !s.assistant.Closed()
}

// CloseAssistant ends the conversation and cancels its pending steps.
func (s *Session) CloseAssistant() {
	s.amu.Lock()
	a := s.assistant
	s.assistant = nil
	s.amu.Unlock()
	if a != nil {
		a.Close()
	}
}

func (s *Session) touch(now time.Time) {
	s.seenMu.Lock()
	s.lastSeen = now
	s.seenMu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	return s.lastSeen
}

// Options configures a Manager.
type Options struct {
	// TTL drops sessions idle for longer. Zero keeps them forever.
	TTL       time.Duration
	Assistant assistant.Options
	Recorder  activity.Recorder
	Logger    *zap.Logger
	// Secure marks the cookie HTTPS-only.
	Secure bool
	Now    func() time.Time
}

// Manager owns every live session.
type Manager struct {
	pack   *fixtures.Pack
	opts   Options
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns an empty manager.
func NewManager(pack *fixtures.Pack, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		pack:     pack,
		opts:     opts,
		logger:   opts.Logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session on the login page.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	s := &Session{
		ID:        id,
		Router:    router.New(),
		Dashboard: orders.NewDashboard(m.pack),
		Detail:    inventory.NewDetail(m.pack, inventory.WithRecorder(m.opts.Recorder, id)),
	}
	s.newAsst = func() *assistant.Session {
		o := m.opts.Assistant
		o.Recorder = m.opts.Recorder
		o.SessionID = id
		o.Logger = m.logger
		return assistant.New(m.pack, o)
	}
	s.Router.OnTransition(func(t router.Transition) {
		if t.From == router.PageWorkspace && t.To != router.PageWorkspace {
			s.CloseAssistant()
		}
		m.logger.Debug("page transition",
			zap.String("session", id),
			zap.String("from", string(t.From)),
			zap.String("event", string(t.Event)),
			zap.String("to", string(t.To)))
	})
	s.touch(m.opts.Now())

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s
}

// Get returns a live session and marks it used.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		s.touch(m.opts.Now())
	}
	return s, ok
}

// FromRequest returns the session named by the request cookie, creating one
// and setting the cookie when it is missing or expired.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(CookieName); err == nil {
		if s, ok := m.Get(c.Value); ok {
			return s
		}
	}
	s := m.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep(now time.Time) int {
	if m.opts.TTL <= 0 {
		return 0
	}
	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if now.Sub(s.idleSince()) > m.opts.TTL {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.CloseAssistant()
	}
	if len(expired) > 0 {
		m.logger.Info("expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is done, then closes every session.
func (m *Manager) Run(ctx context.Context) error {
	interval := m.opts.TTL / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Close()
			return nil
		case <-ticker.C:
			m.Sweep(m.opts.Now())
		}
	}
}

// Close ends every session's assistant and forgets all sessions.
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range all {
		s.CloseAssistant()
	}
}
