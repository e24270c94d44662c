package boarding

import (
	"context"

	"boardops/internal/domain/models"
)

// Roster is the read-only reference data the boarding workflow runs against.
// Implementations must return domain.NotFoundError for missing records and
// domain.UnavailableError on infrastructure failure, never empty data in
// place of an error.
type Roster interface {
	Trips(ctx context.Context) ([]models.Trip, error)
	TripByID(ctx context.Context, tripID int64) (models.Trip, error)
	VehiclesForTrip(ctx context.Context, tripID int64) ([]models.Vehicle, error)
	// ResolvePerson resolves a scan code globally; trip membership is checked
	// by the resolver so wrong_trip can be reported distinctly.
	ResolvePerson(ctx context.Context, scanCode string) (models.Person, error)
}

// EventLog supplies the boarding events known for a trip.
type EventLog interface {
	EventsForTrip(ctx context.Context, tripID int64) ([]models.BoardingEvent, error)
}
