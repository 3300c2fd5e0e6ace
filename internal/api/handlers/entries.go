package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api/request"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api/response"
	apperrors "github.com/navtracker/Fund-NAV-Tracker-Backend/internal/errors"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/service"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/validation"
)

// EntryHandler handles HTTP requests for fund-entry configuration.
// It parses requests and delegates business logic to the EntryService.
type EntryHandler struct {
	entryService *service.EntryService
}

// NewEntryHandler creates a new EntryHandler with the provided service dependency.
func NewEntryHandler(entryService *service.EntryService) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
	}
}

// Entries handles GET requests to retrieve all configured fund entries.
//
// Endpoint: GET /api/entries
func (h *EntryHandler) Entries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entryService.ListEntries()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve entries", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, entries)
}

// Entry handles GET requests for a single fund entry.
//
// Endpoint: GET /api/entries/{entryID}
func (h *EntryHandler) Entry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")

	entry, err := h.entryService.GetEntry(entryID)
	if errors.Is(err, apperrors.ErrEntryNotFound) {
		response.RespondError(w, http.StatusNotFound, "Entry not found", nil)
		return
	}
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve entry", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, entry)
}

// CreateEntry handles POST requests to add a fund entry.
//
// Endpoint: POST /api/entries
// Response: 201 Created with the stored entry,
// 400 Bad Request with field-level details on validation failure.
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req request.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	entry, err := h.entryService.CreateEntry(r.Context(), req)
	if err != nil {
		respondEntryError(w, err, "Failed to create entry")
		return
	}

	response.RespondJSON(w, http.StatusCreated, entry)
}

// UpdateEntry handles PUT requests to replace a fund entry.
//
// Endpoint: PUT /api/entries/{entryID}
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")

	var req request.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	entry, err := h.entryService.UpdateEntry(r.Context(), entryID, req)
	if err != nil {
		respondEntryError(w, err, "Failed to update entry")
		return
	}

	response.RespondJSON(w, http.StatusOK, entry)
}

// DeleteEntry handles DELETE requests to remove a fund entry and stop its
// refresh cycle.
//
// Endpoint: DELETE /api/entries/{entryID}
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")

	err := h.entryService.DeleteEntry(r.Context(), entryID)
	if errors.Is(err, apperrors.ErrEntryNotFound) {
		response.RespondError(w, http.StatusNotFound, "Entry not found", nil)
		return
	}
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to delete entry", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// respondEntryError maps service errors to HTTP responses: validation
// failures become 400 with per-field details, missing entries 404, anything
// else 500.
func respondEntryError(w http.ResponseWriter, err error, message string) {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		response.RespondError(w, http.StatusBadRequest, "Validation failed", validationErr.Fields)
		return
	}
	if errors.Is(err, apperrors.ErrEntryNotFound) {
		response.RespondError(w, http.StatusNotFound, "Entry not found", nil)
		return
	}
	response.RespondError(w, http.StatusInternalServerError, message, err.Error())
}
