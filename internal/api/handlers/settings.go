package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api/request"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api/response"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/service"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/validation"
)

// SettingsHandler handles HTTP requests for tracker settings.
type SettingsHandler struct {
	settingsService *service.SettingsService
	tracker         *service.TrackerService
}

// NewSettingsHandler creates a new SettingsHandler with the provided dependencies.
func NewSettingsHandler(settingsService *service.SettingsService, tracker *service.TrackerService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		tracker:         tracker,
	}
}

// Settings handles GET requests for the current tracker settings.
//
// Endpoint: GET /api/settings
func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.GetSettings()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve settings", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT requests to change tracker settings. Absent
// fields keep their current value; a changed refresh interval reschedules
// every tracked entry.
//
// Endpoint: PUT /api/settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateSettings(req); err != nil {
		var validationErr *validation.Error
		if errors.As(err, &validationErr) {
			response.RespondError(w, http.StatusBadRequest, "Validation failed", validationErr.Fields)
			return
		}
		response.RespondError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	settings, err := h.settingsService.GetSettings()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve settings", err.Error())
		return
	}

	intervalChanged := false
	if req.ResourceURL != nil {
		settings.ResourceURL = *req.ResourceURL
	}
	if req.RefreshIntervalSeconds != nil {
		settings.RefreshIntervalSeconds = *req.RefreshIntervalSeconds
		intervalChanged = true
	}

	updated, err := h.settingsService.UpdateSettings(r.Context(), settings)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to store settings", err.Error())
		return
	}

	if intervalChanged {
		if err := h.tracker.Reschedule(); err != nil {
			response.RespondError(w, http.StatusInternalServerError, "Settings stored but rescheduling failed", err.Error())
			return
		}
	}

	response.RespondJSON(w, http.StatusOK, updated)
}
