package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/navtracker/Fund-NAV-Tracker-Backend/internal/errors"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/gsquote"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/model"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/repository"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/scheduler"
)

// fetchTimeout bounds one NAV fetch within a refresh cycle.
const fetchTimeout = 30 * time.Second

// maxConcurrentRefreshes limits the fan-out of an on-demand refresh of all
// entries.
const maxConcurrentRefreshes = 4

// TrackerService runs an independent periodic refresh cycle per configured
// fund entry. Each cycle fetches a NAV quote, recomputes group stats from the
// full current entry list, and publishes a derived valuation into a
// last-good-value cell for that entry.
//
// A failed cycle (transport error, malformed payload, missing NAV) only
// records the failure; the previously published valuation stays visible until
// the next successful cycle. Cycles for different entries run concurrently,
// but cycles for the same entry are serialized.
type TrackerService struct {
	entryRepo       *repository.EntryRepository
	settingsService *SettingsService
	client          gsquote.Client
	sched           *scheduler.Scheduler
	log             zerolog.Logger

	mu      sync.RWMutex
	jobs    map[string]cron.EntryID
	results map[string]model.ValuationResult
	status  map[string]model.EntryStatus
	locks   map[string]*sync.Mutex
}

// NewTrackerService creates a new TrackerService with the provided dependencies.
func NewTrackerService(
	entryRepo *repository.EntryRepository,
	settingsService *SettingsService,
	client gsquote.Client,
	sched *scheduler.Scheduler,
	log zerolog.Logger,
) *TrackerService {
	return &TrackerService{
		entryRepo:       entryRepo,
		settingsService: settingsService,
		client:          client,
		sched:           sched,
		log:             log.With().Str("component", "tracker").Logger(),
		jobs:            make(map[string]cron.EntryID),
		results:         make(map[string]model.ValuationResult),
		status:          make(map[string]model.EntryStatus),
		locks:           make(map[string]*sync.Mutex),
	}
}

// Start schedules a refresh job for every configured entry, starts the
// scheduler, and kicks off a first refresh in the background so valuations
// become available without waiting a full interval.
func (s *TrackerService) Start(ctx context.Context) error {
	entries, err := s.entryRepo.ListEntries()
	if err != nil {
		return fmt.Errorf("failed to load fund entries: %w", err)
	}

	for _, entry := range entries {
		if err := s.Track(entry); err != nil {
			return err
		}
	}

	s.sched.Start()

	go func() {
		if _, err := s.RefreshAll(ctx); err != nil {
			s.log.Error().Err(err).Msg("Initial refresh failed")
		}
	}()

	return nil
}

// Stop stops the scheduler and waits for in-flight refresh cycles.
func (s *TrackerService) Stop() {
	s.sched.Stop()
}

// Track registers (or replaces) the periodic refresh job for one entry at the
// currently configured interval.
func (s *TrackerService) Track(entry model.FundEntry) error {
	settings, err := s.settingsService.GetSettings()
	if err != nil {
		return err
	}
	interval := time.Duration(settings.RefreshIntervalSeconds) * time.Second

	job := &entryJob{tracker: s, entryID: entry.ID, name: entry.Name}
	id, err := s.sched.AddEvery(interval, job)
	if err != nil {
		return fmt.Errorf("failed to schedule refresh for entry %s: %w", entry.ID, err)
	}

	s.mu.Lock()
	if old, ok := s.jobs[entry.ID]; ok {
		s.sched.Remove(old)
	}
	s.jobs[entry.ID] = id
	status := s.status[entry.ID]
	status.EntryID = entry.ID
	status.Tracking = true
	s.status[entry.ID] = status
	s.mu.Unlock()

	return nil
}

// Untrack stops the refresh cycle for an entry and discards its published
// valuation and status. No state remains after removal.
func (s *TrackerService) Untrack(entryID string) {
	s.mu.Lock()
	if id, ok := s.jobs[entryID]; ok {
		s.sched.Remove(id)
	}
	delete(s.jobs, entryID)
	delete(s.results, entryID)
	delete(s.status, entryID)
	delete(s.locks, entryID)
	s.mu.Unlock()

	s.log.Info().Str("entry", entryID).Msg("Stopped tracking entry")
}

// Reschedule re-registers every tracked entry's job, picking up a changed
// refresh interval.
func (s *TrackerService) Reschedule() error {
	entries, err := s.entryRepo.ListEntries()
	if err != nil {
		return fmt.Errorf("failed to load fund entries: %w", err)
	}

	for _, entry := range entries {
		s.mu.RLock()
		_, tracked := s.jobs[entry.ID]
		s.mu.RUnlock()
		if !tracked {
			continue
		}
		if err := s.Track(entry); err != nil {
			return err
		}
	}

	return nil
}

// RefreshEntry runs one refresh cycle for one entry: fetch the NAV quote,
// recompute group stats over the full current entry list, derive the
// valuation, and publish it. On failure the previous result is retained and
// the failure is recorded in the entry's status.
func (s *TrackerService) RefreshEntry(ctx context.Context, entryID string) error {
	lock := s.entryLock(entryID)
	lock.Lock()
	defer lock.Unlock()

	entries, err := s.entryRepo.ListEntries()
	if err != nil {
		s.recordFailure(entryID, err)
		return err
	}

	var entry *model.FundEntry
	for i := range entries {
		if entries[i].ID == entryID {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		return apperrors.ErrEntryNotFound
	}

	settings, err := s.settingsService.GetSettings()
	if err != nil {
		s.recordFailure(entryID, err)
		return err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	detail, err := s.client.FetchFundDetail(fetchCtx, settings.ResourceURL, entry.PvNumber, entry.ShareClassID)
	if err != nil {
		s.recordFailure(entryID, err)
		return err
	}

	nav, err := gsquote.ParseNavQuote(detail)
	if err != nil {
		s.recordFailure(entryID, err)
		return err
	}

	stats := ComputeGroupStats(entries)
	var group *model.GroupStats
	if key, ok := entry.Key(); ok {
		if g, found := stats[key]; found {
			group = &g
		}
	}

	result := ComputeValuation(*entry, group, nav)
	result.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	if _, tracked := s.jobs[entryID]; !tracked {
		// Entry was removed while this cycle was in flight; drop the result.
		s.mu.Unlock()
		return apperrors.ErrEntryNotFound
	}
	s.results[entryID] = result
	status := s.status[entryID]
	status.EntryID = entryID
	status.LastAttempt = result.UpdatedAt
	status.LastSuccess = result.UpdatedAt
	status.ConsecutiveFailures = 0
	status.LastError = ""
	s.status[entryID] = status
	s.mu.Unlock()

	s.log.Debug().
		Str("entry", entryID).
		Float64("nav", nav.Value).
		Float64("profit", result.Profit).
		Msg("Published valuation")

	return nil
}

// RefreshAll refreshes every configured entry concurrently. A failing entry
// is reported in the summary but never aborts the refresh of any other entry.
func (s *TrackerService) RefreshAll(ctx context.Context) (model.RefreshSummary, error) {
	entries, err := s.entryRepo.ListEntries()
	if err != nil {
		return model.RefreshSummary{}, fmt.Errorf("failed to load fund entries: %w", err)
	}

	var mu sync.Mutex
	summary := model.RefreshSummary{
		Refreshed: []string{},
		Errors:    []model.EntryRefreshError{},
	}

	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentRefreshes)

	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			if err := s.RefreshEntry(ctx, entry.ID); err != nil {
				mu.Lock()
				summary.Errors = append(summary.Errors, model.EntryRefreshError{
					EntryID: entry.ID,
					Name:    entry.Name,
					Error:   err.Error(),
				})
				mu.Unlock()
				return nil
			}
			mu.Lock()
			summary.Refreshed = append(summary.Refreshed, entry.ID)
			mu.Unlock()
			return nil
		})
	}

	// Errors are collected per entry; Wait never returns one.
	_ = g.Wait()

	summary.TotalRefreshed = len(summary.Refreshed)
	summary.TotalErrors = len(summary.Errors)
	summary.Success = summary.TotalRefreshed > 0 || len(entries) == 0

	return summary, nil
}

// Result returns the last successfully published valuation for an entry.
func (s *TrackerService) Result(entryID string) (model.ValuationResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[entryID]
	return result, ok
}

// Status returns the refresh-cycle status for an entry.
func (s *TrackerService) Status(entryID string) (model.EntryStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.status[entryID]
	return status, ok
}

func (s *TrackerService) recordFailure(entryID string, err error) {
	now := time.Now().UTC()

	s.mu.Lock()
	status := s.status[entryID]
	status.EntryID = entryID
	status.LastAttempt = now
	status.ConsecutiveFailures++
	status.LastError = err.Error()
	s.status[entryID] = status
	s.mu.Unlock()

	s.log.Warn().
		Err(err).
		Str("entry", entryID).
		Msg("Refresh cycle failed, keeping last value")
}

// entryLock returns the per-entry mutex that serializes refresh cycles for a
// single entry while letting different entries refresh concurrently.
func (s *TrackerService) entryLock(entryID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[entryID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[entryID] = lock
	}
	return lock
}

// entryJob adapts one entry's refresh cycle to the scheduler's Job interface.
type entryJob struct {
	tracker *TrackerService
	entryID string
	name    string
}

func (j *entryJob) Run() error {
	return j.tracker.RefreshEntry(context.Background(), j.entryID)
}

func (j *entryJob) Name() string {
	return fmt.Sprintf("refresh %s", j.name)
}
