package web

import (
	"net/http"
	"slices"

	"go.uber.org/zap"

	"github.com/ziadkadry99/opsdash/internal/activity"
	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/router"
	"github.com/ziadkadry99/opsdash/internal/session"
)

type loginForm struct {
	Organization string `validate:"required"`
	Email        string `validate:"required,email"`
	Password     string `validate:"required"`
}

type loginView struct {
	User          *session.User
	Organizations []fixtures.Organization
	Form          loginForm
	Error         string
}

func (h *Web) loginView(f loginForm, msg string) loginView {
	f.Password = ""
	return loginView{Organizations: h.pack.Organizations, Form: f, Error: msg}
}

// handleLogin accepts any well-formed submission. There is no credential check.
func (h *Web) handleLogin(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, router.PageLogin, h.loginView(loginForm{}, "Malformed form."))
		return
	}
	f := loginForm{
		Organization: r.PostForm.Get("organization"),
		Email:        r.PostForm.Get("email"),
		Password:     r.PostForm.Get("password"),
	}
	if err := h.validate.Struct(f); err != nil {
		h.render(w, http.StatusBadRequest, router.PageLogin, h.loginView(f, "Enter an organization, a valid work email and a password."))
		return
	}
	if !slices.Contains(h.pack.OrganizationNames(), f.Organization) {
		h.render(w, http.StatusBadRequest, router.PageLogin, h.loginView(f, "Unknown organization."))
		return
	}
	if _, err := s.Router.Dispatch(router.EventLoginSucceeded); err != nil {
		h.fail(w, err)
		return
	}

	s.Lock()
	s.User = &session.User{Organization: f.Organization, Email: f.Email}
	s.Unlock()
	h.logger.Info("signed in", zap.String("session", s.ID), zap.String("organization", f.Organization))
	if h.recorder != nil {
		err := h.recorder.Record(r.Context(), activity.Entry{
			Source:    activity.SourceSystem,
			Level:     activity.LevelInfo,
			Action:    activity.ActionLogin,
			Text:      "User '" + f.Email + "' logged in",
			Subject:   f.Organization,
			SessionID: s.ID,
		})
		if err != nil {
			h.logger.Warn("recording sign-in", zap.Error(err))
		}
	}
	redirect(w, r, "/")
}
