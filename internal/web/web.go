// Package web serves the server-rendered pages: login, dashboard, item
// detail and workspace. Every form posts back and redirects (PRG); the
// workspace page also streams assistant updates over the chat websocket.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/ziadkadry99/opsdash/internal/activity"
	"github.com/ziadkadry99/opsdash/internal/assistant"
	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/inventory"
	"github.com/ziadkadry99/opsdash/internal/orders"
	"github.com/ziadkadry99/opsdash/internal/router"
	"github.com/ziadkadry99/opsdash/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	errBadInput  = errors.New("bad input")
	errWrongPage = errors.New("page is not open")
)

// Options configures a Web.
type Options struct {
	// Recorder receives sign-in entries. Optional.
	Recorder activity.Recorder
	Logger   *zap.Logger
}

// Web renders pages for browser sessions.
type Web struct {
	sessions *session.Manager
	pack     *fixtures.Pack
	pages    map[router.Page]*template.Template
	md       goldmark.Markdown
	validate *validator.Validate
	recorder activity.Recorder
	logger   *zap.Logger
}

// New parses the page templates.
func New(sessions *session.Manager, pack *fixtures.Pack, opts Options) (*Web, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	h := &Web{
		sessions: sessions,
		pack:     pack,
		pages:    make(map[router.Page]*template.Template),
		md:       goldmark.New(),
		validate: validator.New(),
		recorder: opts.Recorder,
		logger:   opts.Logger,
	}
	funcs := template.FuncMap{
		"slug":     slug,
		"markdown": h.markdown,
		"lower":    strings.ToLower,
		"label":    actionLabel,
	}
	for _, p := range router.Pages() {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+string(p)+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", p, err)
		}
		h.pages[p] = t
	}
	return h, nil
}

// RegisterRoutes mounts the page and form routes.
func (h *Web) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Post("/login", h.handleLogin)
	r.Post("/navigate/{event}", h.handleNavigate)

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", h.handleDashboard)
		r.Post("/rows/{id}/toggle", h.dashboardAction(toggleRow))
		r.Post("/view/{mode}", h.dashboardAction(setView))
		r.Post("/sections/{name}/toggle", h.dashboardAction(toggleSidebar))
		r.Post("/orders/{id}/track", h.dashboardAction(openTracking))
		r.Post("/tracking/close", h.dashboardAction(closeTracking))
	})

	r.Route("/detail", func(r chi.Router) {
		r.Get("/", h.handleDetail)
		r.Post("/select/{id}", h.detailAction(selectItem))
		r.Post("/sections/{name}/toggle", h.detailAction(toggleSection))
		r.Post("/modals/{name}/{op}", h.detailAction(modalOp))
		r.Post("/resolver/{op}", h.detailAction(resolverOp))
	})

	r.Route("/workspace", func(r chi.Router) {
		r.Get("/", h.handleWorkspace)
		r.Post("/messages", h.handleSubmit)
		r.Post("/messages/{id}/actions/{action}", h.handleAct)
	})
}

// handleIndex renders whichever page the session's router is on.
func (h *Web) handleIndex(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)
	switch s.Router.Current() {
	case router.PageDashboard:
		h.renderDashboard(w, s)
	case router.PageDetail:
		h.renderDetail(w, s)
	case router.PageWorkspace:
		h.renderWorkspace(w, s)
	default:
		h.render(w, http.StatusOK, router.PageLogin, h.loginView(loginForm{}, ""))
	}
}

func (h *Web) handleNavigate(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)
	event, err := router.ParseEvent(chi.URLParam(r, "event"))
	if err != nil {
		h.fail(w, badInput(err))
		return
	}
	if _, err := s.Router.Dispatch(event); err != nil {
		h.fail(w, err)
		return
	}
	if event == router.EventLogout {
		s.Lock()
		s.User = nil
		s.Unlock()
	}
	redirect(w, r, "/")
}

// onPage redirects to the current page unless the router is on want.
func onPage(w http.ResponseWriter, r *http.Request, s *session.Session, want router.Page) bool {
	if s.Router.Current() == want {
		return true
	}
	redirect(w, r, "/")
	return false
}

func (h *Web) render(w http.ResponseWriter, status int, page router.Page, data any) {
	var buf bytes.Buffer
	if err := h.pages[page].Execute(&buf, data); err != nil {
		h.logger.Error("rendering page", zap.String("page", string(page)), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// fail maps domain errors onto status codes.
func (h *Web) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, router.ErrNoTransition), errors.Is(err, errWrongPage), errors.Is(err, assistant.ErrClosed):
		status = http.StatusConflict
	case errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, inventory.ErrItemNotFound), errors.Is(err, assistant.ErrUnknownMessage):
		status = http.StatusNotFound
	case errors.Is(err, errBadInput), errors.Is(err, assistant.ErrUnknownAction),
		errors.Is(err, inventory.ErrResolverClosed):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// slug strips the display '#' from order IDs for use in URLs.
func slug(id string) string { return strings.TrimPrefix(id, "#") }

func (h *Web) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func badInput(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", errBadInput, err)
}

var actionLabels = map[assistant.ActionName]string{
	assistant.ActionSyncReport:     "Sync & Report",
	assistant.ActionAssignDispatch: "Assign & Execute",
}

func actionLabel(a assistant.ActionName) string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}
