package web

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/opsdash/internal/assistant"
	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/session"
)

type browser struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
}

func newBrowser(t *testing.T) *browser {
	t.Helper()
	pack := fixtures.MustLoad()
	mgr := session.NewManager(pack, session.Options{Assistant: assistant.Options{Pacing: 0, Supersede: true}})
	h, err := New(mgr, pack, Options{})
	require.NoError(t, err)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		mgr.Close()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, srv: srv, client: &http.Client{Jar: jar}}
}

func (b *browser) do(method, path string, form url.Values) (int, string) {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, b.srv.URL+path, body)
	require.NoError(b.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp.StatusCode, string(data)
}

func (b *browser) get(path string) (int, string) { return b.do(http.MethodGet, path, nil) }

func (b *browser) post(path string, form url.Values) (int, string) {
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, path, form)
}

func (b *browser) login() {
	b.t.Helper()
	code, body := b.post("/login", url.Values{
		"organization": {"Strata Manufacturing HQ"},
		"email":        {"sarah@strata.example"},
		"password":     {"hunter2"},
	})
	require.Equal(b.t, http.StatusOK, code)
	require.Contains(b.t, body, "Recent orders")
}

func TestLoginPage(t *testing.T) {
	b := newBrowser(t)
	code, body := b.get("/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Sign in")
	assert.Contains(t, body, "Strata West Coast Division")
}

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"bad email", url.Values{"organization": {"Strata Manufacturing HQ"}, "email": {"sarah"}, "password": {"x"}}, "valid work email"},
		{"missing password", url.Values{"organization": {"Strata Manufacturing HQ"}, "email": {"s@x.io"}}, "valid work email"},
		{"unknown organization", url.Values{"organization": {"Acme"}, "email": {"s@x.io"}, "password": {"x"}}, "Unknown organization"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBrowser(t)
			code, body := b.post("/login", tt.form)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Contains(t, body, tt.want)
		})
	}
}

func TestDashboard(t *testing.T) {
	b := newBrowser(t)
	b.login()

	_, body := b.get("/dashboard")
	assert.Contains(t, body, "$1.2M")
	assert.Contains(t, body, "#ORD-2055")
	assert.Contains(t, body, "$2,847,500")

	_, body = b.get("/dashboard?q=&status=Cancelled")
	assert.Contains(t, body, "No orders found")

	_, body = b.get("/dashboard?q=urban")
	assert.Contains(t, body, "#ORD-2053")
	assert.NotContains(t, body, "#ORD-2055")

	_, body = b.get("/dashboard?q=")
	assert.Contains(t, body, "#ORD-2055")

	_, body = b.post("/dashboard/rows/ORD-2055/toggle", nil)
	assert.Contains(t, body, "Sarah Johnson")
	_, body = b.post("/dashboard/rows/ORD-2055/toggle", nil)
	assert.NotContains(t, body, "Sarah Johnson")

	code, _ := b.post("/dashboard/rows/ORD-9999/toggle", nil)
	assert.Equal(t, http.StatusNotFound, code)

	_, body = b.post("/dashboard/orders/ORD-2054/track", nil)
	assert.Contains(t, body, "Tracking Details - #ORD-2054")
	assert.Contains(t, body, "Customs Hold")
	_, body = b.post("/dashboard/tracking/close", nil)
	assert.NotContains(t, body, "Tracking Details")

	code, _ = b.post("/dashboard/view/kanban", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = b.post("/dashboard/view/grid", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestNavigation(t *testing.T) {
	b := newBrowser(t)

	code, _ := b.post("/navigate/open_detail", nil)
	assert.Equal(t, http.StatusConflict, code, "login page cannot open detail")

	code, _ = b.post("/navigate/fly", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	b.login()
	code, _ = b.post("/navigate/back", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = b.post("/dashboard/tracking/close", nil)
	assert.Equal(t, http.StatusOK, code)

	_, body := b.post("/navigate/open_detail", nil)
	assert.Contains(t, body, "Executive Chair Pro")

	code, _ = b.post("/dashboard/tracking/close", nil)
	assert.Equal(t, http.StatusConflict, code, "dashboard actions need the dashboard page")

	_, body = b.get("/dashboard")
	assert.Contains(t, body, "Inventory", "redirected to the current page")

	_, body = b.post("/navigate/logout", nil)
	assert.Contains(t, body, "Sign in")
}

func TestDetail(t *testing.T) {
	b := newBrowser(t)
	b.login()
	b.post("/navigate/open_detail", nil)

	_, body := b.post("/detail/select/SKU-OFF-2025-003", nil)
	assert.Contains(t, body, "<h2>Conference Room Chair</h2>")
	assert.Contains(t, body, "Stock: 42 (7%)")

	code, _ := b.post("/detail/select/SKU-NOPE", nil)
	assert.Equal(t, http.StatusNotFound, code)

	_, body = b.post("/detail/modals/purchase_order/open", nil)
	assert.Contains(t, body, "Purchase Order PO-2025-001")
	_, body = b.post("/detail/modals/purchase_order/confirm", nil)
	assert.Contains(t, body, "PO Created")
	assert.NotContains(t, body, "Purchase Order PO-2025-001")

	code, _ = b.post("/detail/modals/purchase_order/confirm", nil)
	assert.Equal(t, http.StatusBadRequest, code, "confirm needs an open dialog")

	_, body = b.post("/detail/resolver/open", nil)
	assert.Contains(t, body, "Accept remote (47)")
	_, body = b.post("/detail/resolver/confirm", url.Values{"choice": {"custom"}, "custom": {"300"}})
	assert.Contains(t, body, "Fixed with: 300")

	code, _ = b.post("/detail/resolver/confirm", url.Values{"choice": {"remote"}})
	assert.Equal(t, http.StatusBadRequest, code, "resolver is closed")

	_, body = b.post("/detail/sections/lifecycle/toggle", nil)
	assert.NotContains(t, body, "Warehouse Storage")
	_, body = b.post("/detail/sections/summary/toggle", nil)
	assert.Contains(t, body, "Show less")
}

func TestWorkspace(t *testing.T) {
	b := newBrowser(t)
	b.login()

	_, body := b.post("/navigate/open_workspace", nil)
	assert.Contains(t, body, "AI Copilot")
	assert.Contains(t, body, "Show pending orders")
	assert.Contains(t, body, "System check completed")

	_, body = b.post("/workspace/messages", url.Values{"content": {"show me pending orders"}})
	assert.Contains(t, body, "show me pending orders")

	require.Eventually(t, func() bool {
		_, body = b.get("/workspace")
		return strings.Contains(body, "Pending Review (3)")
	}, 2*time.Second, 10*time.Millisecond)

	code, _ := b.post("/workspace/messages/nope/actions/approve", url.Values{"target": {"ORD-5001"}})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = b.post("/workspace/messages", url.Values{"content": {"  "}})
	assert.Equal(t, http.StatusOK, code)
}
