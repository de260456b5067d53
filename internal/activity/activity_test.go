package activity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ziadkadry99/opsdash/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestRecordAndGetByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	entry := Entry{
		ID:            "act-1",
		Source:        SourceDetail,
		Level:         LevelSuccess,
		Action:        ActionStockResolved,
		Text:          "Fixed with: 290",
		Subject:       "SKU-OFF-2025-001",
		SessionID:     "sess-1",
		PreviousValue: "285",
		NewValue:      "290",
	}

	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := store.GetByID(ctx, "act-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if got.Source != SourceDetail {
		t.Errorf("Source = %q, want %q", got.Source, SourceDetail)
	}
	if got.Action != ActionStockResolved {
		t.Errorf("Action = %q, want %q", got.Action, ActionStockResolved)
	}
	if got.Subject != "SKU-OFF-2025-001" {
		t.Errorf("Subject = %q, want %q", got.Subject, "SKU-OFF-2025-001")
	}
	if got.PreviousValue != "285" || got.NewValue != "290" {
		t.Errorf("values = %q -> %q, want 285 -> 290", got.PreviousValue, got.NewValue)
	}
	if got.Timestamp.IsZero() {
		t.Error("expected timestamp to be filled in")
	}
}

func TestRecordFillsDefaults(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, Entry{Text: "System check completed"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID == "" {
		t.Error("expected generated ID, got empty string")
	}
	if entries[0].Level != LevelInfo {
		t.Errorf("Level = %q, want %q", entries[0].Level, LevelInfo)
	}
	if entries[0].Source != SourceSystem {
		t.Errorf("Source = %q, want %q", entries[0].Source, SourceSystem)
	}
}

func TestQueryNewestFirst(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	base := time.Date(2025, 12, 20, 9, 0, 0, 0, time.UTC)
	texts := []string{"first", "second", "third"}
	for i, text := range texts {
		if err := store.Record(ctx, Entry{
			Text:      text,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Text != "third" || entries[2].Text != "first" {
		t.Errorf("unexpected order: %q, %q, %q", entries[0].Text, entries[1].Text, entries[2].Text)
	}
}

func TestQueryFilters(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	seed := []Entry{
		{Source: SourceAssistant, Level: LevelSystem, Text: "Started discrepancy analysis", SessionID: "a"},
		{Source: SourceAssistant, Level: LevelWarning, Text: "Found 3 discrepancies", SessionID: "a"},
		{Source: SourceWorkspace, Level: LevelSuccess, Action: ActionOrderApproved, Text: "Order ORD-5001 approved", Subject: "ORD-5001", SessionID: "b"},
	}
	for _, e := range seed {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter QueryFilter
		want   int
	}{
		{"by source", QueryFilter{Source: SourceAssistant}, 2},
		{"by level", QueryFilter{Level: LevelWarning}, 1},
		{"by action", QueryFilter{Action: ActionOrderApproved}, 1},
		{"by subject", QueryFilter{Subject: "ORD-5001"}, 1},
		{"by session", QueryFilter{SessionID: "a"}, 2},
		{"combined", QueryFilter{Source: SourceAssistant, Level: LevelSuccess}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(entries) != tt.want {
				t.Errorf("expected %d entries, got %d", tt.want, len(entries))
			}
		})
	}
}

func TestQueryLimitOffset(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, Entry{Text: "tick"}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	page, err := store.Query(ctx, QueryFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected 2 entries with limit, got %d", len(page))
	}

	rest, err := store.Query(ctx, QueryFilter{Offset: 3})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rest) != 2 {
		t.Errorf("expected 2 entries after offset 3, got %d", len(rest))
	}
}

func TestDeleteBefore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	if err := store.Record(ctx, Entry{Text: "old", Timestamp: old}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Record(ctx, Entry{Text: "new"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	n, err := store.DeleteBefore(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted row, got %d", n)
	}
}

func TestRoutes(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, Entry{ID: "known", Level: LevelWarning, Text: "Found 3 discrepancies"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Record(ctx, Entry{Level: LevelInfo, Text: "Initiated DB Sync"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest(http.MethodGet, "/api/activity/?level=warning", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var entries []Entry
	if err := json.NewDecoder(w.Body).Decode(&entries); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "known" {
		t.Errorf("expected only the warning entry, got %+v", entries)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/activity/missing", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}
}

func TestGetByIDUnknown(t *testing.T) {
	store := setupStore(t)
	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("GetByID(missing) = %v, want ErrEntryNotFound", err)
	}
}

func TestGetByIDRouteDatabaseFailure(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	store := NewStore(database)
	database.Close()

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest(http.MethodGet, "/api/activity/known", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 when the database is closed, got %d", w.Code)
	}
}

func TestFilterFromQuery(t *testing.T) {
	q := url.Values{
		"source": {"assistant"},
		"level":  {"warning"},
		"limit":  {"5"},
		"offset": {"x"},
		"since":  {"2025-01-02T03:04:05Z"},
	}
	f := FilterFromQuery(q)
	if f.Source != SourceAssistant || f.Level != LevelWarning {
		t.Errorf("unexpected source/level: %+v", f)
	}
	if f.Limit != 5 || f.Offset != 0 {
		t.Errorf("limit/offset = %d/%d, want 5/0", f.Limit, f.Offset)
	}
	if f.Since == nil || f.Since.Year() != 2025 {
		t.Errorf("since = %v", f.Since)
	}

	if got := FilterFromQuery(url.Values{}); got.Limit != defaultLimit || got.Since != nil {
		t.Errorf("empty query filter = %+v", got)
	}
}
