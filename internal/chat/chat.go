// Package chat streams the workspace assistant over a websocket. The client
// receives a snapshot on connect and then every state change event.
package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/opsdash/internal/assistant"
	"github.com/ziadkadry99/opsdash/internal/router"
	"github.com/ziadkadry99/opsdash/internal/session"
)

// eventBuffer is how many events may queue for a slow client before it is
// resynchronised with a snapshot.
const eventBuffer = 64

// request is the incoming websocket frame.
type request struct {
	Type      string `json:"type" validate:"required,oneof=message action"`
	Content   string `json:"content"`
	MessageID string `json:"message_id" validate:"required_if=Type action"`
	Action    string `json:"action" validate:"required_if=Type action"`
	Target    string `json:"target"`
	Text      string `json:"text"`
}

// response is the outgoing websocket frame.
type response struct {
	Type      string              `json:"type"` // snapshot, message, update, composing, log or error
	Snapshot  *assistant.Snapshot `json:"snapshot,omitempty"`
	Message   *assistant.Message  `json:"message,omitempty"`
	Composing *bool               `json:"composing,omitempty"`
	Log       *assistant.LogEntry `json:"log,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// Handler upgrades workspace connections.
type Handler struct {
	sessions *session.Manager
	upgrader websocket.Upgrader
	validate *validator.Validate
	logger   *zap.Logger
}

// New returns a chat handler. allowAll accepts any Origin, for local development.
func New(sessions *session.Manager, allowAll bool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{sessions: sessions, validate: validator.New(), logger: logger}
	if allowAll {
		h.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return h
}

const errOffWorkspace = "chat is only available on the workspace page"

// RegisterRoutes mounts the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/chat", h.handleWebSocket)
}

// conn serializes writes; gorilla allows one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(resp response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(resp)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	c := &conn{ws: ws}
	defer ws.Close()

	if s.Router.Current() != router.PageWorkspace {
		h.sendError(c, errOffWorkspace)
		c.mu.Lock()
		c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, errOffWorkspace))
		c.mu.Unlock()
		return
	}

	a := s.Assistant()
	sub := a.Subscribe(eventBuffer)
	defer sub.Cancel()

	snap := a.Snapshot()
	if err := c.send(response{Type: "snapshot", Snapshot: &snap}); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.forward(c, a, sub)
	}()

	h.readLoop(c, s.Router, a)
	sub.Cancel()
	<-done
}

// forward relays session events until the subscription ends.
func (h *Handler) forward(c *conn, a *assistant.Session, sub *assistant.Subscription) {
	for ev := range sub.C() {
		if sub.Lagged() {
			snap := a.Snapshot()
			if err := c.send(response{Type: "snapshot", Snapshot: &snap}); err != nil {
				return
			}
			continue
		}
		if err := c.send(frameFor(ev)); err != nil {
			h.logger.Debug("websocket write", zap.Error(err))
			return
		}
	}
	// The assistant was closed, e.g. the user left the workspace.
	c.mu.Lock()
	c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
	c.mu.Unlock()
}

func frameFor(ev assistant.Event) response {
	resp := response{Type: string(ev.Type), Message: ev.Message, Log: ev.Log}
	if ev.Type == assistant.EventComposing {
		v := ev.Composing
		resp.Composing = &v
	}
	return resp
}

func (h *Handler) readLoop(c *conn, rt *router.Router, a *assistant.Session) {
	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var req request
		if err := json.Unmarshal(msg, &req); err != nil {
			h.sendError(c, "invalid message format")
			continue
		}
		if err := h.validate.Struct(req); err != nil {
			h.sendError(c, "invalid request: "+err.Error())
			continue
		}

		if rt.Current() != router.PageWorkspace {
			h.sendError(c, errOffWorkspace)
			return
		}

		switch req.Type {
		case "message":
			_, err = a.Submit(req.Content)
		case "action":
			err = a.Act(req.MessageID, assistant.Action{
				Name:   assistant.ActionName(req.Action),
				Target: req.Target,
				Text:   req.Text,
			})
		}
		if errors.Is(err, assistant.ErrClosed) {
			h.sendError(c, err.Error())
			return
		}
		if err != nil {
			h.sendError(c, err.Error())
		}
	}
}

func (h *Handler) sendError(c *conn, message string) {
	if err := c.send(response{Type: "error", Error: message}); err != nil {
		h.logger.Debug("websocket write error", zap.Error(err))
	}
}
