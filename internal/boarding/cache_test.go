package boarding

import (
	"context"
	"testing"
	"time"

	"boardops/internal/domain"
	"boardops/internal/domain/models"
)

func TestCachingRosterServesSnapshotWithinTTL(t *testing.T) {
	source := &fakeRoster{trips: []models.Trip{{ID: 1, Name: "T1"}}}
	now := time.Unix(1000, 0)
	c := &CachingRoster{Source: source, TTL: time.Minute, Now: func() time.Time { return now }}

	trips, err := c.Trips(context.Background())
	if err != nil || len(trips) != 1 {
		t.Fatalf("initial fetch: %v, %d trips", err, len(trips))
	}

	// Source changes; within TTL the snapshot is still served.
	source.trips = append(source.trips, models.Trip{ID: 2, Name: "T2"})
	now = now.Add(30 * time.Second)
	trips, err = c.Trips(context.Background())
	if err != nil || len(trips) != 1 {
		t.Fatalf("cached fetch: %v, %d trips, want 1", err, len(trips))
	}

	now = now.Add(time.Minute)
	trips, err = c.Trips(context.Background())
	if err != nil || len(trips) != 2 {
		t.Fatalf("refresh after TTL: %v, %d trips, want 2", err, len(trips))
	}
	if c.Stale() {
		t.Fatalf("fresh data must not be flagged stale")
	}
}

func TestCachingRosterDegradesToStaleOnUnavailable(t *testing.T) {
	source := &fakeRoster{trips: []models.Trip{{ID: 1, Name: "T1"}}}
	now := time.Unix(1000, 0)
	c := &CachingRoster{Source: source, TTL: time.Minute, Now: func() time.Time { return now }}

	if _, err := c.Trips(context.Background()); err != nil {
		t.Fatalf("initial fetch: %v", err)
	}

	source.err = domain.UnavailableError{Op: "trip list"}
	now = now.Add(2 * time.Minute)

	trips, err := c.Trips(context.Background())
	if err != nil {
		t.Fatalf("stale fallback should not error, got %v", err)
	}
	if len(trips) != 1 || !c.Stale() {
		t.Fatalf("expected stale snapshot of 1 trip, got %d (stale=%v)", len(trips), c.Stale())
	}
}

func TestCachingRosterNeverCachesPersonResolution(t *testing.T) {
	source := &fakeRoster{
		trips:  []models.Trip{{ID: 1}},
		people: map[string]models.Person{"QR-P1": {ID: 101, TripID: 1, ScanCode: "QR-P1"}},
	}
	c := &CachingRoster{Source: source, TTL: time.Minute}

	if _, err := c.ResolvePerson(context.Background(), "QR-P1"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Boarding must block when the source is down, never run on cached data.
	source.err = domain.UnavailableError{Op: "person lookup"}
	if _, err := c.ResolvePerson(context.Background(), "QR-P1"); !domain.IsUnavailable(err) {
		t.Fatalf("got %v, want unavailable", err)
	}
}

func TestCachingRosterPropagatesErrorWithoutSnapshot(t *testing.T) {
	source := &fakeRoster{err: domain.UnavailableError{Op: "trip list"}}
	c := &CachingRoster{Source: source, TTL: time.Minute}

	if _, err := c.Trips(context.Background()); !domain.IsUnavailable(err) {
		t.Fatalf("got %v, want unavailable when no snapshot exists", err)
	}
}
