package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/opsdash/internal/fixtures"
)

// KPIs is the payload of the dashboard KPI endpoint.
type KPIs struct {
	Cards             []fixtures.Metric        `json:"cards"`
	Financials        []fixtures.Metric        `json:"financials"`
	InventoryTurnover []fixtures.CategoryPoint `json:"inventory_turnover"`
	Sales             []fixtures.SalesPoint    `json:"sales"`
}

// FilterFromQuery builds a filter from q, status, client and project query
// parameters. Categorical parameters may repeat.
func FilterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	var f Filter
	f.Query = q.Get("q")
	for _, s := range q["status"] {
		if s != "" {
			f.Statuses.Add(s)
		}
	}
	for _, s := range q["client"] {
		if s != "" {
			f.Clients.Add(s)
		}
	}
	for _, s := range q["project"] {
		if s != "" {
			f.Projects.Add(s)
		}
	}
	return f
}

// RegisterRoutes mounts the read-only order and KPI endpoints.
func RegisterRoutes(r chi.Router, pack *fixtures.Pack) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", handleList(pack))
		r.Get("/{id}/tracking", handleTracking(pack))
	})
	r.Get("/api/dashboard/kpis", handleKPIs(pack))
}

func handleList(pack *fixtures.Pack) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, FilterFromQuery(r).Apply(pack.Orders))
	}
}

func handleTracking(pack *fixtures.Pack) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !strings.HasPrefix(id, "#") {
			id = "#" + id
		}
		t, err := TrackingFor(pack, id)
		if errors.Is(err, ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func handleKPIs(pack *fixtures.Pack) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, KPIs{
			Cards:             pack.KPIs,
			Financials:        pack.Financials,
			InventoryTurnover: pack.InventoryTurnover,
			Sales:             pack.Sales,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
