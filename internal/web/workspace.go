package web

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/opsdash/internal/assistant"
	"github.com/ziadkadry99/opsdash/internal/router"
	"github.com/ziadkadry99/opsdash/internal/session"
)

type messageView struct {
	assistant.Message
	HTML template.HTML
}

type workspaceView struct {
	User         *session.User
	Messages     []messageView
	Composing    bool
	Logs         []assistant.LogEntry
	Activities   []assistant.AppActivity
	QuickActions []string
}

func (h *Web) handleWorkspace(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)
	if !onPage(w, r, s, router.PageWorkspace) {
		return
	}
	h.renderWorkspace(w, s)
}

func (h *Web) renderWorkspace(w http.ResponseWriter, s *session.Session) {
	snap := s.Assistant().Snapshot()
	msgs := make([]messageView, len(snap.Messages))
	for i, m := range snap.Messages {
		msgs[i] = messageView{Message: m, HTML: h.markdown(m.Text)}
	}
	s.Lock()
	user := s.User
	s.Unlock()
	h.render(w, http.StatusOK, router.PageWorkspace, workspaceView{
		User:         user,
		Messages:     msgs,
		Composing:    snap.Composing,
		Logs:         snap.Logs,
		Activities:   snap.Activities,
		QuickActions: assistant.QuickActions,
	})
}

// handleSubmit posts chat input. Blank input is ignored.
func (h *Web) handleSubmit(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)
	if s.Router.Current() != router.PageWorkspace {
		h.fail(w, errWrongPage)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.fail(w, badInput(err))
		return
	}
	if _, err := s.Assistant().Submit(r.PostForm.Get("content")); err != nil {
		h.fail(w, err)
		return
	}
	redirect(w, r, "/workspace")
}

func (h *Web) handleAct(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)
	if s.Router.Current() != router.PageWorkspace {
		h.fail(w, errWrongPage)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.fail(w, badInput(err))
		return
	}
	a := assistant.Action{
		Name:   assistant.ActionName(chi.URLParam(r, "action")),
		Target: r.PostForm.Get("target"),
		Text:   r.PostForm.Get("text"),
	}
	if err := s.Assistant().Act(chi.URLParam(r, "id"), a); err != nil {
		h.fail(w, err)
		return
	}
	redirect(w, r, "/workspace")
}
