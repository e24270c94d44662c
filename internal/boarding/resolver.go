package boarding

import (
	"context"
	"strings"
	"time"

	"boardops/internal/domain"
	"boardops/internal/domain/models"
	"boardops/internal/utils"
)

// Resolver decides the outcome of presenting a scan code for a trip and
// vehicle. Checks run in a fixed order and the first matching condition
// determines the outcome. Infrastructure failures come back as errors, never
// as domain outcomes.
type Resolver struct {
	Roster Roster
	Events EventLog
	Now    func() time.Time
}

func (r Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return utils.NowUTC()
}

// Resolve evaluates one scan. deviceID identifies the originating scanning
// station and is stamped onto any produced event.
func (r Resolver) Resolve(ctx context.Context, tripID, vehicleID int64, code, action, deviceID string) (Result, error) {
	code = strings.TrimSpace(code)
	if tripID <= 0 || vehicleID <= 0 || code == "" {
		return Result{Outcome: OutcomeContextIncomplete}, nil
	}
	if action == "" {
		action = models.ActionBoard
	}

	trip, err := r.Roster.TripByID(ctx, tripID)
	if err != nil {
		return Result{}, err
	}

	person, err := r.Roster.ResolvePerson(ctx, code)
	if err != nil {
		if domain.IsNotFound(err) {
			return Result{Outcome: OutcomeUnknownCode}, nil
		}
		return Result{}, err
	}
	if person.TripID != tripID {
		return Result{Outcome: OutcomeWrongTrip, Person: &person}, nil
	}

	events, err := r.Events.EventsForTrip(ctx, tripID)
	if err != nil {
		return Result{}, err
	}
	active := ActiveBoardings(events)
	current, onBoard := active[BoardingKey{PersonID: person.ID, TripID: tripID}]

	if action == models.ActionUnboard {
		return r.resolveUnboard(person, vehicleID, deviceID, current, onBoard), nil
	}

	if trip.BoardingMode == models.BoardingModeAssigned &&
		person.AssignedVehicleID != 0 && person.AssignedVehicleID != vehicleID {
		return Result{
			Outcome:           OutcomeWrongVehicle,
			Person:            &person,
			AssignedVehicleID: person.AssignedVehicleID,
		}, nil
	}

	if onBoard {
		if current.VehicleID == vehicleID {
			// Re-scanning the same person on the same vehicle is a no-op.
			return Result{Outcome: OutcomeAlreadyBoarded, Person: &person}, nil
		}
		// Never silently move a person between vehicles.
		return Result{
			Outcome:           OutcomeAlreadyBoardedElsewhere,
			Person:            &person,
			AssignedVehicleID: current.VehicleID,
		}, nil
	}

	vehicles, err := r.Roster.VehiclesForTrip(ctx, tripID)
	if err != nil {
		return Result{}, err
	}
	summary := Recompute(events, vehicles)
	if occ, ok := summary.ByVehicle[vehicleID]; ok && occ.Boarded >= occ.Capacity {
		return Result{Outcome: OutcomeCapacityExceeded, Person: &person}, nil
	}

	ev := models.BoardingEvent{
		PersonID:  person.ID,
		TripID:    tripID,
		VehicleID: vehicleID,
		Action:    models.ActionBoard,
		DeviceID:  deviceID,
		Timestamp: r.now(),
		Confirmed: true,
	}
	return Result{Outcome: OutcomeBoarded, Person: &person, Event: &ev}, nil
}

func (r Resolver) resolveUnboard(person models.Person, vehicleID int64, deviceID string, current models.BoardingEvent, onBoard bool) Result {
	if !onBoard {
		return Result{Outcome: OutcomeNotBoarded, Person: &person}
	}
	if current.VehicleID != vehicleID {
		return Result{
			Outcome:           OutcomeAlreadyBoardedElsewhere,
			Person:            &person,
			AssignedVehicleID: current.VehicleID,
		}
	}
	ev := models.BoardingEvent{
		PersonID:  person.ID,
		TripID:    person.TripID,
		VehicleID: vehicleID,
		Action:    models.ActionUnboard,
		DeviceID:  deviceID,
		Timestamp: r.now(),
		Confirmed: true,
	}
	return Result{Outcome: OutcomeUnboarded, Person: &person, Event: &ev}
}
