package inventory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/opsdash/internal/fixtures"
)

// RegisterRoutes mounts the read-only inventory endpoints.
func RegisterRoutes(r chi.Router, pack *fixtures.Pack) {
	r.Route("/api/inventory", func(r chi.Router) {
		r.Get("/", handleList(pack))
		r.Get("/{id}", handleGet(pack))
	})
}

func handleList(pack *fixtures.Pack) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := make([]Fields, len(pack.Items))
		for i, it := range pack.Items {
			out[i] = FieldsOf(it)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleGet(pack *fixtures.Pack) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := Find(pack.Items, chi.URLParam(r, "id"))
		if errors.Is(err, ErrItemNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, FieldsOf(it))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
