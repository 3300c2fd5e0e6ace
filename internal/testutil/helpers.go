package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/gsquote"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/model"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/repository"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/scheduler"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/service"
)

// DefaultTestSettings are the bootstrap settings used by test services.
var DefaultTestSettings = model.Settings{
	ResourceURL:            "https://funds.test.invalid/services/funds",
	RefreshIntervalSeconds: 3600,
}

// NewTestSettingsService creates a SettingsService backed by the test database.
func NewTestSettingsService(t *testing.T, db *sql.DB) *service.SettingsService {
	t.Helper()

	settingsRepo := repository.NewSettingsRepository(db)

	return service.NewSettingsService(settingsRepo, DefaultTestSettings)
}

// NewTestTrackerService creates a TrackerService wired to the given quote
// client. The scheduler is constructed but not started, so refresh cycles only
// run when a test invokes them directly.
func NewTestTrackerService(t *testing.T, db *sql.DB, client gsquote.Client) *service.TrackerService {
	t.Helper()

	entryRepo := repository.NewEntryRepository(db)
	settingsService := NewTestSettingsService(t, db)
	sched := scheduler.New(zerolog.Nop())

	return service.NewTrackerService(entryRepo, settingsService, client, sched, zerolog.Nop())
}

// NewTestEntryService creates an EntryService and its backing TrackerService
// wired to the given quote client.
func NewTestEntryService(t *testing.T, db *sql.DB, client gsquote.Client) (*service.EntryService, *service.TrackerService) {
	t.Helper()

	entryRepo := repository.NewEntryRepository(db)
	settingsService := NewTestSettingsService(t, db)
	tracker := NewTestTrackerService(t, db, client)

	entryService := service.NewEntryService(entryRepo, settingsService, client, tracker, zerolog.Nop())

	return entryService, tracker
}

// MakeID generates a unique ID for test entities.
func MakeID() string {
	return uuid.New().String()
}

// FloatPtr returns a pointer to the given float64 value.
func FloatPtr(v float64) *float64 {
	return &v
}
