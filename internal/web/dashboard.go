package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/orders"
	"github.com/ziadkadry99/opsdash/internal/router"
	"github.com/ziadkadry99/opsdash/internal/session"
)

type option struct {
	Value    string
	Selected bool
}

type orderRow struct {
	orders.Order
	Expanded bool
}

type dashboardView struct {
	User              *session.User
	KPIs              []fixtures.Metric
	Financials        []fixtures.Metric
	InventoryTurnover []fixtures.CategoryPoint
	Sales             []fixtures.SalesPoint
	Rows              []orderRow
	Query             string
	Statuses          []option
	Clients           []option
	Projects          []option
	Grid              bool
	MainOpen          bool
	OperationsOpen    bool
	Contact           fixtures.Contact
	Progress          []string
	Tracking          *orders.Tracking
}

func options(values []string, selected func(string) bool) []option {
	out := make([]option, len(values))
	for i, v := range values {
		out[i] = option{Value: v, Selected: selected(v)}
	}
	return out
}

// handleDashboard renders the dashboard. A request carrying the filter form
// (q present) replaces the filter; view switches the layout.
func (h *Web) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.FromRequest(w, r)
	if !onPage(w, r, s, router.PageDashboard) {
		return
	}
	q := r.URL.Query()
	s.Lock()
	if q.Has("q") {
		s.Dashboard.Filter = orders.FilterFromQuery(r)
	}
	if v := q.Get("view"); v != "" {
		if m, err := orders.ParseViewMode(v); err == nil {
			s.Dashboard.SetView(m)
		}
	}
	s.Unlock()
	h.renderDashboard(w, s)
}

func (h *Web) renderDashboard(w http.ResponseWriter, s *session.Session) {
	s.Lock()
	d := s.Dashboard
	all := d.All()
	visible := d.Visible()
	rows := make([]orderRow, len(visible))
	for i, o := range visible {
		rows[i] = orderRow{Order: o, Expanded: d.IsExpanded(o.ID)}
	}
	v := dashboardView{
		User:              s.User,
		KPIs:              h.pack.KPIs,
		Financials:        h.pack.Financials,
		InventoryTurnover: h.pack.InventoryTurnover,
		Sales:             h.pack.Sales,
		Rows:              rows,
		Query:             d.Filter.Query,
		Statuses:          options(h.pack.OrderStatuses, d.Filter.Statuses.Has),
		Clients:           options(orders.Distinct(all, func(o orders.Order) string { return o.Client }), d.Filter.Clients.Has),
		Projects:          options(orders.Distinct(all, func(o orders.Order) string { return o.Project }), d.Filter.Projects.Has),
		Grid:              d.View == orders.ViewGrid,
		MainOpen:          d.SectionOpen(orders.SectionMain),
		OperationsOpen:    d.SectionOpen(orders.SectionOperations),
		Contact:           h.pack.OrderContact,
		Progress:          h.pack.OrderProgress,
		Tracking:          d.Tracking(),
	}
	s.Unlock()
	h.render(w, http.StatusOK, router.PageDashboard, v)
}

type dashboardOp func(d *orders.Dashboard, r *http.Request) error

// dashboardAction applies op to the session's dashboard and redirects back.
func (h *Web) dashboardAction(op dashboardOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := h.sessions.FromRequest(w, r)
		if s.Router.Current() != router.PageDashboard {
			h.fail(w, errWrongPage)
			return
		}
		s.Lock()
		err := op(s.Dashboard, r)
		s.Unlock()
		if err != nil {
			h.fail(w, err)
			return
		}
		redirect(w, r, "/dashboard")
	}
}

func toggleRow(d *orders.Dashboard, r *http.Request) error {
	_, err := d.ToggleRow(chi.URLParam(r, "id"))
	return err
}

func setView(d *orders.Dashboard, r *http.Request) error {
	m, err := orders.ParseViewMode(chi.URLParam(r, "mode"))
	if err != nil {
		return badInput(err)
	}
	d.SetView(m)
	return nil
}

func toggleSidebar(d *orders.Dashboard, r *http.Request) error {
	_, err := d.ToggleSection(chi.URLParam(r, "name"))
	return badInput(err)
}

func openTracking(d *orders.Dashboard, r *http.Request) error {
	_, err := d.Track(chi.URLParam(r, "id"))
	return err
}

func closeTracking(d *orders.Dashboard, _ *http.Request) error {
	d.CloseTracking()
	return nil
}
