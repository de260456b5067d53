package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/opsdash/internal/assistant"
	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/router"
	"github.com/ziadkadry99/opsdash/internal/session"
)

type frame struct {
	Type      string         `json:"type"`
	Snapshot  map[string]any `json:"snapshot"`
	Message   map[string]any `json:"message"`
	Composing *bool          `json:"composing"`
	Log       map[string]any `json:"log"`
	Error     string         `json:"error"`
}

// setup connects a socket for a session already on the workspace page.
func setup(t *testing.T) (*session.Session, *websocket.Conn) {
	t.Helper()
	return dial(t, router.EventLoginSucceeded, router.EventOpenWorkspace)
}

// dial connects a socket for a fresh session after applying events.
func dial(t *testing.T, events ...router.Event) (*session.Session, *websocket.Conn) {
	t.Helper()
	mgr := session.NewManager(fixtures.MustLoad(), session.Options{Assistant: assistant.Options{Pacing: 0, Supersede: true}})
	s := mgr.Create()
	for _, ev := range events {
		_, err := s.Router.Dispatch(ev)
		require.NoError(t, err)
	}

	r := chi.NewRouter()
	New(mgr, false, nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)

	header := http.Header{}
	header.Set("Cookie", session.CookieName+"="+s.ID)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
	ws, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	resp.Body.Close()

	t.Cleanup(func() {
		ws.Close()
		srv.Close()
		mgr.Close()
	})
	return s, ws
}

func read(t *testing.T, ws *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f frame
	require.NoError(t, ws.ReadJSON(&f))
	return f
}

// readUntil reads frames until match returns true.
func readUntil(t *testing.T, ws *websocket.Conn, match func(frame) bool) frame {
	t.Helper()
	for i := 0; i < 50; i++ {
		if f := read(t, ws); match(f) {
			return f
		}
	}
	t.Fatal("expected frame never arrived")
	return frame{}
}

func TestSnapshotOnConnect(t *testing.T) {
	_, ws := setup(t)
	f := read(t, ws)
	assert.Equal(t, "snapshot", f.Type)
	msgs, ok := f.Snapshot["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, assistant.Greeting, msgs[0].(map[string]any)["text"])
}

func TestMessageStreamsEvents(t *testing.T) {
	_, ws := setup(t)
	read(t, ws)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "message", "content": "show me pending orders"}))

	user := read(t, ws)
	assert.Equal(t, "message", user.Type)
	assert.Equal(t, "show me pending orders", user.Message["text"])

	composing := read(t, ws)
	assert.Equal(t, "composing", composing.Type)
	require.NotNil(t, composing.Composing)
	assert.True(t, *composing.Composing)

	widget := readUntil(t, ws, func(f frame) bool { return f.Type == "message" && f.Message["pending"] != nil })
	pending := widget.Message["pending"].(map[string]any)
	assert.Equal(t, "Pending Review (3)", pending["header"])

	id := widget.Message["id"].(string)
	require.NoError(t, ws.WriteJSON(map[string]string{
		"type": "action", "message_id": id, "action": "approve", "target": "ORD-5001",
	}))
	update := readUntil(t, ws, func(f frame) bool { return f.Type == "update" })
	assert.Equal(t, "Pending Review (2)", update.Message["pending"].(map[string]any)["header"])
}

func TestInvalidFrames(t *testing.T) {
	_, ws := setup(t)
	read(t, ws)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{not json")))
	f := read(t, ws)
	assert.Equal(t, "error", f.Type)
	assert.Equal(t, "invalid message format", f.Error)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "shout"}))
	f = read(t, ws)
	assert.Equal(t, "error", f.Type)
	assert.Contains(t, f.Error, "invalid request")

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "action", "action": "approve"}))
	f = read(t, ws)
	assert.Equal(t, "error", f.Type)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "action", "message_id": "nope", "action": "approve"}))
	f = read(t, ws)
	assert.Equal(t, "error", f.Type)
	assert.Contains(t, f.Error, "unknown message")
}

func TestClosingAssistantEndsStream(t *testing.T) {
	s, ws := setup(t)
	read(t, ws)

	s.CloseAssistant()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := ws.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestSocketRefusedOffWorkspace(t *testing.T) {
	for name, events := range map[string][]router.Event{
		"login":     nil,
		"dashboard": {router.EventLoginSucceeded},
	} {
		t.Run(name, func(t *testing.T) {
			s, ws := dial(t, events...)

			f := read(t, ws)
			assert.Equal(t, "error", f.Type)
			assert.Equal(t, errOffWorkspace, f.Error)

			_, _, err := ws.ReadMessage()
			require.Error(t, err)
			assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
			assert.False(t, s.HasAssistant())
		})
	}
}

func TestFramesRefusedAfterLeavingWorkspace(t *testing.T) {
	s, ws := setup(t)
	read(t, ws)

	_, err := s.Router.Dispatch(router.EventBack)
	require.NoError(t, err)
	assert.False(t, s.HasAssistant())

	// The stream ends when the assistant closes; any frame sent meanwhile
	// must not start a new one.
	_ = ws.WriteJSON(map[string]string{"type": "message", "content": "show me pending orders"})
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var f frame
		if err := ws.ReadJSON(&f); err != nil {
			break
		}
		assert.NotEqual(t, "message", f.Type)
	}
	assert.False(t, s.HasAssistant())
}
