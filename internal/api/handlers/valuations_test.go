package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api/handlers"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/model"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/testutil"
)

// TestValuationHandler_Valuations tests the combined valuation listing.
//
// WHY: The listing pairs each configured entry with its last good valuation
// and refresh status. Entries that never refreshed successfully must appear
// with a null valuation, not be hidden or fail the request.
func TestValuationHandler_Valuations(t *testing.T) {
	t.Run("returns empty list when no entries exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, tracker := testutil.NewTestEntryService(t, db, testutil.NewMockQuoteClient())
		handler := handlers.NewValuationHandler(svc, tracker)

		req := httptest.NewRequest(http.MethodGet, "/api/valuations", nil)
		w := httptest.NewRecorder()
		handler.Valuations(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var items []handlers.EntryValuation
		if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("Expected empty list, got %d items", len(items))
		}
	})

	t.Run("pairs entries with valuations and statuses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockQuoteClient().WithNav(60)
		svc, tracker := testutil.NewTestEntryService(t, db, client)
		handler := handlers.NewValuationHandler(svc, tracker)

		refreshed := testutil.NewFundEntry().WithName("Refreshed").WithPrice(50).WithUnits(10).Build(t, db)
		pending := testutil.NewFundEntry().WithName("Pending").WithShareClass("SC-2", "PV-2").WithPosition(2).Build(t, db)

		if err := tracker.Track(refreshed); err != nil {
			t.Fatalf("Track() returned unexpected error: %v", err)
		}
		if err := tracker.RefreshEntry(context.Background(), refreshed.ID); err != nil {
			t.Fatalf("RefreshEntry() returned unexpected error: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/valuations", nil)
		w := httptest.NewRecorder()
		handler.Valuations(w, req)

		var items []handlers.EntryValuation
		if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("Expected 2 items, got %d", len(items))
		}

		byID := make(map[string]handlers.EntryValuation)
		for _, item := range items {
			byID[item.Entry.ID] = item
		}

		got := byID[refreshed.ID]
		if got.Valuation == nil {
			t.Fatal("Expected a valuation for the refreshed entry")
		}
		if got.Valuation.Nav != 60 {
			t.Errorf("Expected NAV 60, got %v", got.Valuation.Nav)
		}
		if !got.Status.Tracking {
			t.Error("Expected the refreshed entry to be tracked")
		}

		if byID[pending.ID].Valuation != nil {
			t.Error("Expected a null valuation for the never-refreshed entry")
		}
	})
}

// TestValuationHandler_Valuation tests the single-entry valuation endpoint.
func TestValuationHandler_Valuation(t *testing.T) {
	t.Run("returns 404 for an unknown entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, tracker := testutil.NewTestEntryService(t, db, testutil.NewMockQuoteClient())
		handler := handlers.NewValuationHandler(svc, tracker)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/valuations/missing",
			map[string]string{"entryID": "missing"})
		w := httptest.NewRecorder()
		handler.Valuation(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("returns 404 before the first successful refresh", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc, tracker := testutil.NewTestEntryService(t, db, testutil.NewMockQuoteClient())
		handler := handlers.NewValuationHandler(svc, tracker)

		entry := testutil.NewFundEntry().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/valuations/"+entry.ID,
			map[string]string{"entryID": entry.ID})
		w := httptest.NewRecorder()
		handler.Valuation(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 before the first refresh, got %d", w.Code)
		}
	})

	t.Run("returns the valuation after a successful refresh", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockQuoteClient().WithNav(60)
		svc, tracker := testutil.NewTestEntryService(t, db, client)
		handler := handlers.NewValuationHandler(svc, tracker)

		entry := testutil.NewFundEntry().WithPrice(50).WithUnits(10).Build(t, db)
		if err := tracker.Track(entry); err != nil {
			t.Fatalf("Track() returned unexpected error: %v", err)
		}
		if err := tracker.RefreshEntry(context.Background(), entry.ID); err != nil {
			t.Fatalf("RefreshEntry() returned unexpected error: %v", err)
		}

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/valuations/"+entry.ID,
			map[string]string{"entryID": entry.ID})
		w := httptest.NewRecorder()
		handler.Valuation(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var item handlers.EntryValuation
		if err := json.NewDecoder(w.Body).Decode(&item); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if item.Valuation == nil || item.Valuation.Nav != 60 {
			t.Errorf("Expected valuation with NAV 60, got %+v", item.Valuation)
		}
		if item.Status.EntryID != entry.ID {
			t.Errorf("Expected status keyed to entry, got %+v", item.Status)
		}
	})
}

// TestValuationHandler_Refresh tests the on-demand refresh endpoint.
//
// WHY: The endpoint must always answer 200 with a summary; per-entry failures
// are payload, not HTTP errors.
func TestValuationHandler_Refresh(t *testing.T) {
	t.Run("returns a summary of refreshed entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockQuoteClient().WithNav(55)
		svc, tracker := testutil.NewTestEntryService(t, db, client)
		handler := handlers.NewValuationHandler(svc, tracker)

		entry := testutil.NewFundEntry().Build(t, db)
		if err := tracker.Track(entry); err != nil {
			t.Fatalf("Track() returned unexpected error: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/valuations/refresh", nil)
		w := httptest.NewRecorder()
		handler.Refresh(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var summary model.RefreshSummary
		if err := json.NewDecoder(w.Body).Decode(&summary); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !summary.Success || summary.TotalRefreshed != 1 {
			t.Errorf("Expected one refreshed entry, got %+v", summary)
		}
	})

	t.Run("reports failures in the summary with HTTP 200", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockQuoteClient().WithError(errors.New("connection refused"))
		svc, tracker := testutil.NewTestEntryService(t, db, client)
		handler := handlers.NewValuationHandler(svc, tracker)

		entry := testutil.NewFundEntry().Build(t, db)
		if err := tracker.Track(entry); err != nil {
			t.Fatalf("Track() returned unexpected error: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/valuations/refresh", nil)
		w := httptest.NewRecorder()
		handler.Refresh(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200 despite failures, got %d", w.Code)
		}

		var summary model.RefreshSummary
		if err := json.NewDecoder(w.Body).Decode(&summary); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if summary.Success || summary.TotalErrors != 1 {
			t.Errorf("Expected one failed entry, got %+v", summary)
		}
	})
}
