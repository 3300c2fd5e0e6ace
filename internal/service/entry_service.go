package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api/request"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/gsquote"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/model"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/repository"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/validation"
)

// EntryService handles fund-entry configuration: validation, pool-number
// resolution, storage, and keeping the tracker in sync with mutations.
type EntryService struct {
	entryRepo       *repository.EntryRepository
	settingsService *SettingsService
	client          gsquote.Client
	tracker         *TrackerService
	log             zerolog.Logger
}

// NewEntryService creates a new EntryService with the provided dependencies.
func NewEntryService(
	entryRepo *repository.EntryRepository,
	settingsService *SettingsService,
	client gsquote.Client,
	tracker *TrackerService,
	log zerolog.Logger,
) *EntryService {
	return &EntryService{
		entryRepo:       entryRepo,
		settingsService: settingsService,
		client:          client,
		tracker:         tracker,
		log:             log.With().Str("component", "entries").Logger(),
	}
}

// ListEntries retrieves all configured fund entries in display order.
func (s *EntryService) ListEntries() ([]model.FundEntry, error) {
	return s.entryRepo.ListEntries()
}

// GetEntry retrieves a single fund entry by ID.
func (s *EntryService) GetEntry(entryID string) (model.FundEntry, error) {
	return s.entryRepo.GetEntry(entryID)
}

// CreateEntry validates and stores a new fund entry and starts its refresh
// cycle. When no pool number is supplied it is resolved through the
// share-class lookup; an unresolvable share class is a field-level validation
// failure, not a fatal error.
func (s *EntryService) CreateEntry(ctx context.Context, req request.CreateEntryRequest) (model.FundEntry, error) {
	if err := validation.ValidateCreateEntry(req); err != nil {
		return model.FundEntry{}, err
	}

	entry := entryFromRequest(req)
	if entry.PvNumber == "" {
		pvNumber, err := s.resolvePvNumber(ctx, entry.ShareClassID)
		if err != nil {
			return model.FundEntry{}, err
		}
		entry.PvNumber = pvNumber
	}

	stored, err := s.entryRepo.InsertEntry(ctx, entry)
	if err != nil {
		return model.FundEntry{}, err
	}

	if err := s.tracker.Track(stored); err != nil {
		return model.FundEntry{}, fmt.Errorf("entry stored but tracking failed: %w", err)
	}

	// First refresh runs in the background so the create call stays fast.
	go func() {
		_ = s.tracker.RefreshEntry(context.Background(), stored.ID)
	}()

	s.log.Info().
		Str("entry", stored.ID).
		Str("shareClass", stored.ShareClassID).
		Str("pvNumber", stored.PvNumber).
		Msg("Created fund entry")

	return stored, nil
}

// UpdateEntry validates and replaces an existing fund entry wholesale, then
// restarts its refresh cycle. Entries are immutable records; editing means
// replacing every field.
func (s *EntryService) UpdateEntry(ctx context.Context, entryID string, req request.UpdateEntryRequest) (model.FundEntry, error) {
	existing, err := s.entryRepo.GetEntry(entryID)
	if err != nil {
		return model.FundEntry{}, err
	}

	if err := validation.ValidateUpdateEntry(req); err != nil {
		return model.FundEntry{}, err
	}

	entry := entryFromRequest(req)
	entry.ID = existing.ID
	entry.Position = existing.Position
	if entry.PvNumber == "" {
		pvNumber, err := s.resolvePvNumber(ctx, entry.ShareClassID)
		if err != nil {
			return model.FundEntry{}, err
		}
		entry.PvNumber = pvNumber
	}

	if err := s.entryRepo.UpdateEntry(ctx, entry); err != nil {
		return model.FundEntry{}, err
	}

	if err := s.tracker.Track(entry); err != nil {
		return model.FundEntry{}, fmt.Errorf("entry updated but tracking failed: %w", err)
	}

	go func() {
		_ = s.tracker.RefreshEntry(context.Background(), entry.ID)
	}()

	return entry, nil
}

// DeleteEntry removes a fund entry and stops its refresh cycle.
func (s *EntryService) DeleteEntry(ctx context.Context, entryID string) error {
	if err := s.entryRepo.DeleteEntry(ctx, entryID); err != nil {
		return err
	}

	s.tracker.Untrack(entryID)

	s.log.Info().Str("entry", entryID).Msg("Deleted fund entry")

	return nil
}

// resolvePvNumber resolves a share-class identifier to its pool number via
// the lookup source. The first candidate carrying a non-empty pool number is
// accepted; no such candidate yields a field-level validation error.
func (s *EntryService) resolvePvNumber(ctx context.Context, shareClassID string) (string, error) {
	settings, err := s.settingsService.GetSettings()
	if err != nil {
		return "", err
	}

	candidates, err := s.client.SearchShareClass(ctx, settings.ResourceURL, shareClassID)
	if err != nil {
		return "", fmt.Errorf("share class lookup failed: %w", err)
	}

	for _, candidate := range candidates {
		if candidate.PvNumber != "" {
			return candidate.PvNumber, nil
		}
	}

	return "", &validation.Error{Fields: map[string]string{
		"pvNumber": "share class could not be resolved to a pool number",
	}}
}

// entryFromRequest normalizes a request into the canonical entry shape:
// trimmed identifiers and pointer-typed optional numerics.
func entryFromRequest(req request.CreateEntryRequest) model.FundEntry {
	return model.FundEntry{
		Name:              strings.TrimSpace(req.Name),
		PvNumber:          strings.TrimSpace(req.PvNumber),
		ShareClassID:      strings.TrimSpace(req.ShareClassID),
		InvestmentDate:    strings.TrimSpace(req.InvestmentDate),
		ValueOfInvestment: req.ValueOfInvestment,
		PricePerUnit:      req.PricePerUnit,
		UnitsAcquired:     req.UnitsAcquired,
		Currency:          strings.ToUpper(strings.TrimSpace(req.Currency)),
	}
}
