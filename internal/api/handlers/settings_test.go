package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api/handlers"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/model"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/service"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/testutil"
)

// TestSettingsHandler tests the settings endpoints.
//
// WHY: Settings drive the refresh machinery. Partial updates must leave the
// untouched field alone, and out-of-range intervals must come back clamped so
// the caller sees the value actually in effect.
func TestSettingsHandler(t *testing.T) {
	t.Run("GET returns the current settings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		settingsService := testutil.NewTestSettingsService(t, db)
		tracker := testutil.NewTestTrackerService(t, db, testutil.NewMockQuoteClient())
		handler := handlers.NewSettingsHandler(settingsService, tracker)

		req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
		w := httptest.NewRecorder()
		handler.Settings(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var settings model.Settings
		if err := json.NewDecoder(w.Body).Decode(&settings); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if settings.ResourceURL != testutil.DefaultTestSettings.ResourceURL {
			t.Errorf("Expected default URL, got %q", settings.ResourceURL)
		}
	})

	t.Run("PUT updates only the provided fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		settingsService := testutil.NewTestSettingsService(t, db)
		tracker := testutil.NewTestTrackerService(t, db, testutil.NewMockQuoteClient())
		handler := handlers.NewSettingsHandler(settingsService, tracker)

		body := bytes.NewBufferString(`{"refreshIntervalSeconds": 600}`)
		req := httptest.NewRequest(http.MethodPut, "/api/settings", body)
		w := httptest.NewRecorder()
		handler.UpdateSettings(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var settings model.Settings
		if err := json.NewDecoder(w.Body).Decode(&settings); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if settings.RefreshIntervalSeconds != 600 {
			t.Errorf("Expected interval 600, got %d", settings.RefreshIntervalSeconds)
		}
		if settings.ResourceURL != testutil.DefaultTestSettings.ResourceURL {
			t.Errorf("Expected URL untouched, got %q", settings.ResourceURL)
		}
	})

	t.Run("PUT clamps an out-of-range interval", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		settingsService := testutil.NewTestSettingsService(t, db)
		tracker := testutil.NewTestTrackerService(t, db, testutil.NewMockQuoteClient())
		handler := handlers.NewSettingsHandler(settingsService, tracker)

		body := bytes.NewBufferString(`{"refreshIntervalSeconds": 5}`)
		req := httptest.NewRequest(http.MethodPut, "/api/settings", body)
		w := httptest.NewRecorder()
		handler.UpdateSettings(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var settings model.Settings
		if err := json.NewDecoder(w.Body).Decode(&settings); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if settings.RefreshIntervalSeconds != service.MinRefreshIntervalSeconds {
			t.Errorf("Expected clamped interval %d, got %d", service.MinRefreshIntervalSeconds, settings.RefreshIntervalSeconds)
		}
	})

	t.Run("PUT rejects an invalid resource URL", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		settingsService := testutil.NewTestSettingsService(t, db)
		tracker := testutil.NewTestTrackerService(t, db, testutil.NewMockQuoteClient())
		handler := handlers.NewSettingsHandler(settingsService, tracker)

		body := bytes.NewBufferString(`{"resourceUrl": "not a url"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/settings", body)
		w := httptest.NewRecorder()
		handler.UpdateSettings(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("PUT rejects malformed JSON", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		settingsService := testutil.NewTestSettingsService(t, db)
		tracker := testutil.NewTestTrackerService(t, db, testutil.NewMockQuoteClient())
		handler := handlers.NewSettingsHandler(settingsService, tracker)

		req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBufferString(`{`))
		w := httptest.NewRecorder()
		handler.UpdateSettings(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
