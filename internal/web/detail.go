package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/inventory"
	"github.com/ziadkadry99/opsdash/internal/router"
	"github.com/ziadkadry99/opsdash/internal/session"
)

type itemRow struct {
	inventory.Fields
	Selected bool
}

type resolverView struct {
	Active        bool
	Choice        string
	Custom        string
	CustomEnabled bool
	Local         string
	Remote        string
}

type detailView struct {
	User            *session.User
	Items           []itemRow
	Item            inventory.Fields
	Sections        map[string]bool
	Modals          map[string]bool
	SummaryExpanded bool
	Lifecycle       []fixtures.LifecycleStep
	PurchaseOrder   fixtures.PurchaseOrder
	Resolver        resolverView
	Notice          string
}

func (h *Web) handleDetail(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)
	if !onPage(w, r, s, router.PageDetail) {
		return
	}
	h.renderDetail(w, s)
}

func (h *Web) renderDetail(w http.ResponseWriter, s *session.Session) {
	s.Lock()
	d := s.Detail
	items := d.Items()
	rows := make([]itemRow, len(items))
	for i, it := range items {
		rows[i] = itemRow{Fields: inventory.FieldsOf(it), Selected: it.ID == d.SelectedID()}
	}
	sections := make(map[string]bool)
	for _, name := range inventory.Sections() {
		sections[name] = d.SectionOpen(name)
	}
	modals := make(map[string]bool)
	for _, name := range inventory.Modals() {
		modals[name] = d.ModalOpen(name)
	}
	item := d.Fields()
	v := detailView{
		User:            s.User,
		Items:           rows,
		Item:            item,
		Sections:        sections,
		Modals:          modals,
		SummaryExpanded: d.SummaryExpanded,
		Lifecycle:       d.Lifecycle(),
		PurchaseOrder:   d.PurchaseOrder(),
		Resolver: resolverView{
			Active:        d.Resolver.Active,
			Choice:        string(d.Resolver.Choice),
			Custom:        d.Resolver.Custom(),
			CustomEnabled: d.Resolver.CustomEnabled(),
			Local:         strconv.Itoa(item.Stock),
			Remote:        strconv.Itoa(item.Stock + inventory.RemoteDrift),
		},
		Notice: d.Notice,
	}
	s.Unlock()
	h.render(w, http.StatusOK, router.PageDetail, v)
}

type detailOp func(d *inventory.Detail, r *http.Request) error

func (h *Web) detailAction(op detailOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := h.sessions.FromRequest(w, r)
		if s.Router.Current() != router.PageDetail {
			h.fail(w, errWrongPage)
			return
		}
		if err := r.ParseForm(); err != nil {
			h.fail(w, badInput(err))
			return
		}
		s.Lock()
		err := op(s.Detail, r)
		s.Unlock()
		if err != nil {
			h.fail(w, err)
			return
		}
		redirect(w, r, "/detail")
	}
}

func selectItem(d *inventory.Detail, r *http.Request) error {
	return d.Select(chi.URLParam(r, "id"))
}

// sectionSummary is the pseudo-section for the expandable product summary.
const sectionSummary = "summary"

func toggleSection(d *inventory.Detail, r *http.Request) error {
	name := chi.URLParam(r, "name")
	if name == sectionSummary {
		d.SummaryExpanded = !d.SummaryExpanded
		return nil
	}
	_, err := d.ToggleSection(name)
	return badInput(err)
}

func modalOp(d *inventory.Detail, r *http.Request) error {
	name := chi.URLParam(r, "name")
	switch op := chi.URLParam(r, "op"); op {
	case "open":
		return badInput(d.OpenModal(name))
	case "close":
		return badInput(d.CloseModal(name))
	case "confirm":
		if !d.ModalOpen(name) {
			return badInput(fmt.Errorf("modal %q is not open", name))
		}
		_, err := d.ConfirmModal(r.Context(), name)
		return err
	default:
		return badInput(fmt.Errorf("unknown modal operation %q", op))
	}
}

func resolverOp(d *inventory.Detail, r *http.Request) error {
	switch op := chi.URLParam(r, "op"); op {
	case "open":
		d.Resolver.Open()
		return nil
	case "cancel":
		d.Resolver.Cancel()
		return nil
	case "confirm":
		if v := r.PostForm.Get("choice"); v != "" {
			c, err := inventory.ParseChoice(v)
			if err != nil {
				return badInput(err)
			}
			d.Resolver.Choose(c)
		}
		d.Resolver.SetCustom(r.PostForm.Get("custom"))
		_, err := d.ConfirmResolver(r.Context())
		return err
	default:
		return badInput(fmt.Errorf("unknown resolver operation %q", op))
	}
}
