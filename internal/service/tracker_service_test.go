package service_test

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/navtracker/Fund-NAV-Tracker-Backend/internal/errors"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/testutil"
)

// TestTrackerService_RefreshEntry tests one refresh cycle for one entry.
//
// WHY: The refresh cycle is the heart of the tracker. It must publish a fully
// derived valuation on success and, on any failure, keep the previously
// published value visible while recording the failure in the entry's status.
func TestTrackerService_RefreshEntry(t *testing.T) {
	t.Run("publishes a valuation on success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockQuoteClient().WithNav(60)
		tracker := testutil.NewTestTrackerService(t, db, client)

		entry := testutil.NewFundEntry().WithPrice(50).WithUnits(10).Build(t, db)
		if err := tracker.Track(entry); err != nil {
			t.Fatalf("Track() returned unexpected error: %v", err)
		}

		if err := tracker.RefreshEntry(context.Background(), entry.ID); err != nil {
			t.Fatalf("RefreshEntry() returned unexpected error: %v", err)
		}

		result, ok := tracker.Result(entry.ID)
		if !ok {
			t.Fatal("Expected a published valuation after successful refresh")
		}
		if result.Nav != 60 {
			t.Errorf("Expected NAV 60, got %v", result.Nav)
		}
		if result.Profit != 100 {
			t.Errorf("Expected profit 100, got %v", result.Profit)
		}
		if result.UpdatedAt.IsZero() {
			t.Error("Expected UpdatedAt to be set")
		}

		status, ok := tracker.Status(entry.ID)
		if !ok {
			t.Fatal("Expected a status after refresh")
		}
		if status.ConsecutiveFailures != 0 {
			t.Errorf("Expected zero consecutive failures, got %d", status.ConsecutiveFailures)
		}
		if status.LastSuccess.IsZero() {
			t.Error("Expected LastSuccess to be set")
		}
	})

	t.Run("uses the group average when entries share a group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockQuoteClient().WithNav(60)
		tracker := testutil.NewTestTrackerService(t, db, client)

		e1 := testutil.NewFundEntry().WithShareClass("SC-1", "PV-1").WithPrice(50).WithUnits(10).Build(t, db)
		testutil.NewFundEntry().WithShareClass("SC-1", "PV-1").WithPrice(60).WithUnits(30).WithPosition(2).Build(t, db)
		if err := tracker.Track(e1); err != nil {
			t.Fatalf("Track() returned unexpected error: %v", err)
		}

		if err := tracker.RefreshEntry(context.Background(), e1.ID); err != nil {
			t.Fatalf("RefreshEntry() returned unexpected error: %v", err)
		}

		result, _ := tracker.Result(e1.ID)
		if result.EffectivePrice != 57.5 {
			t.Errorf("Expected group average 57.5, got %v", result.EffectivePrice)
		}
		// (60 - 57.5) * 10 own units
		if result.Profit != 25 {
			t.Errorf("Expected profit 25, got %v", result.Profit)
		}
	})

	t.Run("keeps the last good valuation when a cycle fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockQuoteClient().WithNav(60)
		tracker := testutil.NewTestTrackerService(t, db, client)

		entry := testutil.NewFundEntry().WithPrice(50).WithUnits(10).Build(t, db)
		if err := tracker.Track(entry); err != nil {
			t.Fatalf("Track() returned unexpected error: %v", err)
		}
		if err := tracker.RefreshEntry(context.Background(), entry.ID); err != nil {
			t.Fatalf("RefreshEntry() returned unexpected error: %v", err)
		}

		client.WithError(errors.New("connection refused"))

		if err := tracker.RefreshEntry(context.Background(), entry.ID); err == nil {
			t.Fatal("Expected error from failing refresh, got nil")
		}

		result, ok := tracker.Result(entry.ID)
		if !ok {
			t.Fatal("Expected last good valuation to survive the failure")
		}
		if result.Nav != 60 {
			t.Errorf("Expected retained NAV 60, got %v", result.Nav)
		}

		status, _ := tracker.Status(entry.ID)
		if status.ConsecutiveFailures != 1 {
			t.Errorf("Expected 1 consecutive failure, got %d", status.ConsecutiveFailures)
		}
		if status.LastError == "" {
			t.Error("Expected LastError to be recorded")
		}
	})

	t.Run("resets the failure count on the next success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockQuoteClient().WithError(errors.New("connection refused"))
		tracker := testutil.NewTestTrackerService(t, db, client)

		entry := testutil.NewFundEntry().Build(t, db)
		if err := tracker.Track(entry); err != nil {
			t.Fatalf("Track() returned unexpected error: %v", err)
		}

		_ = tracker.RefreshEntry(context.Background(), entry.ID)
		_ = tracker.RefreshEntry(context.Background(), entry.ID)

		status, _ := tracker.Status(entry.ID)
		if status.ConsecutiveFailures != 2 {
			t.Errorf("Expected 2 consecutive failures, got %d", status.ConsecutiveFailures)
		}

		client.WithNav(55)
		if err := tracker.RefreshEntry(context.Background(), entry.ID); err != nil {
			t.Fatalf("RefreshEntry() returned unexpected error: %v", err)
		}

		status, _ = tracker.Status(entry.ID)
		if status.ConsecutiveFailures != 0 {
			t.Errorf("Expected failure count reset, got %d", status.ConsecutiveFailures)
		}
		if status.LastError != "" {
			t.Errorf("Expected LastError cleared, got %q", status.LastError)
		}
	})

	t.Run("returns not found for an unknown entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		tracker := testutil.NewTestTrackerService(t, db, testutil.NewMockQuoteClient())

		err := tracker.RefreshEntry(context.Background(), "missing")

		if !errors.Is(err, apperrors.ErrEntryNotFound) {
			t.Errorf("Expected ErrEntryNotFound, got %v", err)
		}
	})
}

// TestTrackerService_Untrack tests removal of an entry's refresh state.
//
// WHY: Deleting an entry must leave no trace: no job, no cached valuation, no
// status. A stale valuation for a removed entry would reappear in listings.
func TestTrackerService_Untrack(t *testing.T) {
	t.Run("discards the published valuation and status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockQuoteClient()
		tracker := testutil.NewTestTrackerService(t, db, client)

		entry := testutil.NewFundEntry().Build(t, db)
		if err := tracker.Track(entry); err != nil {
			t.Fatalf("Track() returned unexpected error: %v", err)
		}
		if err := tracker.RefreshEntry(context.Background(), entry.ID); err != nil {
			t.Fatalf("RefreshEntry() returned unexpected error: %v", err)
		}

		tracker.Untrack(entry.ID)

		if _, ok := tracker.Result(entry.ID); ok {
			t.Error("Expected valuation to be discarded after Untrack")
		}
		if _, ok := tracker.Status(entry.ID); ok {
			t.Error("Expected status to be discarded after Untrack")
		}
	})

	t.Run("untracking an unknown entry is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		tracker := testutil.NewTestTrackerService(t, db, testutil.NewMockQuoteClient())

		tracker.Untrack("missing")
	})
}

// TestTrackerService_RefreshAll tests the fan-out refresh over all entries.
//
// WHY: An on-demand refresh touches every entry; one failing entry must be
// reported in the summary without aborting the others.
func TestTrackerService_RefreshAll(t *testing.T) {
	t.Run("refreshes every tracked entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockQuoteClient().WithNav(55)
		tracker := testutil.NewTestTrackerService(t, db, client)

		e1 := testutil.NewFundEntry().WithShareClass("SC-1", "PV-1").Build(t, db)
		e2 := testutil.NewFundEntry().WithShareClass("SC-2", "PV-2").WithPosition(2).Build(t, db)
		if err := tracker.Track(e1); err != nil {
			t.Fatalf("Track() returned unexpected error: %v", err)
		}
		if err := tracker.Track(e2); err != nil {
			t.Fatalf("Track() returned unexpected error: %v", err)
		}

		summary, err := tracker.RefreshAll(context.Background())
		if err != nil {
			t.Fatalf("RefreshAll() returned unexpected error: %v", err)
		}

		if !summary.Success {
			t.Error("Expected summary success")
		}
		if summary.TotalRefreshed != 2 {
			t.Errorf("Expected 2 refreshed entries, got %d", summary.TotalRefreshed)
		}
		if summary.TotalErrors != 0 {
			t.Errorf("Expected no errors, got %d", summary.TotalErrors)
		}
		if _, ok := tracker.Result(e1.ID); !ok {
			t.Error("Expected valuation for first entry")
		}
		if _, ok := tracker.Result(e2.ID); !ok {
			t.Error("Expected valuation for second entry")
		}
	})

	t.Run("collects per-entry errors without failing the call", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockQuoteClient().WithError(errors.New("connection refused"))
		tracker := testutil.NewTestTrackerService(t, db, client)

		entry := testutil.NewFundEntry().Build(t, db)
		if err := tracker.Track(entry); err != nil {
			t.Fatalf("Track() returned unexpected error: %v", err)
		}

		summary, err := tracker.RefreshAll(context.Background())
		if err != nil {
			t.Fatalf("RefreshAll() returned unexpected error: %v", err)
		}

		if summary.Success {
			t.Error("Expected summary failure when every entry fails")
		}
		if summary.TotalErrors != 1 {
			t.Errorf("Expected 1 error, got %d", summary.TotalErrors)
		}
		if len(summary.Errors) != 1 || summary.Errors[0].EntryID != entry.ID {
			t.Errorf("Expected error for entry %s, got %v", entry.ID, summary.Errors)
		}
	})

	t.Run("succeeds trivially with no entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		tracker := testutil.NewTestTrackerService(t, db, testutil.NewMockQuoteClient())

		summary, err := tracker.RefreshAll(context.Background())
		if err != nil {
			t.Fatalf("RefreshAll() returned unexpected error: %v", err)
		}

		if !summary.Success {
			t.Error("Expected trivial success with no entries")
		}
		if summary.TotalRefreshed != 0 || summary.TotalErrors != 0 {
			t.Errorf("Expected empty summary, got %+v", summary)
		}
	})
}
