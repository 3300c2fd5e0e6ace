package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api/response"
	apperrors "github.com/navtracker/Fund-NAV-Tracker-Backend/internal/errors"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/model"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/service"
)

// ValuationHandler exposes the tracker's published valuations: the NAV quote,
// absolute profit, and percentage return per entry, each with its refresh
// status. A failed refresh cycle never surfaces as an HTTP error here; the
// last good valuation is served with the failure visible in the status.
type ValuationHandler struct {
	entryService *service.EntryService
	tracker      *service.TrackerService
}

// NewValuationHandler creates a new ValuationHandler with the provided dependencies.
func NewValuationHandler(entryService *service.EntryService, tracker *service.TrackerService) *ValuationHandler {
	return &ValuationHandler{
		entryService: entryService,
		tracker:      tracker,
	}
}

// EntryValuation pairs an entry's last good valuation with its refresh status.
// Valuation is null until the entry's first successful cycle.
type EntryValuation struct {
	Entry     model.FundEntry        `json:"entry"`
	Valuation *model.ValuationResult `json:"valuation"`
	Status    model.EntryStatus      `json:"status"`
}

// Valuations handles GET requests for all entries' valuations in display order.
//
// Endpoint: GET /api/valuations
func (h *ValuationHandler) Valuations(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entryService.ListEntries()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to retrieve entries", err.Error())
		return
	}

	valuations := make([]EntryValuation, 0, len(entries))
	for _, entry := range entries {
		valuations = append(valuations, h.entryValuation(entry))
	}

	response.RespondJSON(w, http.StatusOK, valuations)
}

// Valuation handles GET requests for a single entry's valuation.
//
// Endpoint: GET /api/valuations/{entryID}
// Response: 404 until the entry exists and at least one refresh cycle has
// succeeded for it.
func (h *ValuationHandler) Valuation(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")

	entry, err := h.entryService.GetEntry(entryID)
	if err != nil {
		response.RespondError(w, http.StatusNotFound, "Entry not found", nil)
		return
	}

	item := h.entryValuation(entry)
	if item.Valuation == nil {
		response.RespondError(w, http.StatusNotFound, "Valuation not available", apperrors.ErrValuationNotFound.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, item)
}

// Refresh handles POST requests to refresh all entries immediately.
//
// Endpoint: POST /api/valuations/refresh
// Response: 200 OK with a per-entry summary; individual failures are listed
// but never fail the request.
func (h *ValuationHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	summary, err := h.tracker.RefreshAll(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "Failed to refresh valuations", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

func (h *ValuationHandler) entryValuation(entry model.FundEntry) EntryValuation {
	item := EntryValuation{Entry: entry}
	if result, ok := h.tracker.Result(entry.ID); ok {
		item.Valuation = &result
	}
	if status, ok := h.tracker.Status(entry.ID); ok {
		item.Status = status
	} else {
		item.Status = model.EntryStatus{EntryID: entry.ID}
	}
	return item
}
