package boarding

import (
	"context"
	"sync"
	"time"

	"boardops/internal/domain"
	"boardops/internal/domain/models"
)

// CachingRoster wraps a Roster with a snapshot cache for the trip list. The
// trip list may be served stale (flagged via Stale) when the source is
// unavailable, because it is display data. Person resolution and vehicle
// lookups are never served from cache: boarding decisions must not run on
// stale roster data, so those calls pass through and fail loudly.
type CachingRoster struct {
	Source Roster
	TTL    time.Duration
	Now    func() time.Time

	mu        sync.Mutex
	trips     []models.Trip
	fetchedAt time.Time
	stale     bool
}

func (c *CachingRoster) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Trips returns the trip list, preferring a fresh snapshot. On source
// failure an existing snapshot is returned and marked stale; with no
// snapshot at all the unavailability propagates.
func (c *CachingRoster) Trips(ctx context.Context) ([]models.Trip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.trips != nil && c.TTL > 0 && c.now().Sub(c.fetchedAt) < c.TTL {
		return c.snapshot(), nil
	}

	trips, err := c.Source.Trips(ctx)
	if err != nil {
		if domain.IsUnavailable(err) && c.trips != nil {
			c.stale = true
			return c.snapshot(), nil
		}
		return nil, err
	}
	c.trips = trips
	c.fetchedAt = c.now()
	c.stale = false
	return c.snapshot(), nil
}

// Stale reports whether the last served trip list came from an expired
// snapshot; the caller renders a staleness indicator.
func (c *CachingRoster) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}

func (c *CachingRoster) snapshot() []models.Trip {
	out := make([]models.Trip, len(c.trips))
	copy(out, c.trips)
	return out
}

func (c *CachingRoster) TripByID(ctx context.Context, tripID int64) (models.Trip, error) {
	return c.Source.TripByID(ctx, tripID)
}

func (c *CachingRoster) VehiclesForTrip(ctx context.Context, tripID int64) ([]models.Vehicle, error) {
	return c.Source.VehiclesForTrip(ctx, tripID)
}

func (c *CachingRoster) ResolvePerson(ctx context.Context, scanCode string) (models.Person, error) {
	return c.Source.ResolvePerson(ctx, scanCode)
}
