package boarding

import (
	"context"
	"testing"
	"time"

	"boardops/internal/domain"
	"boardops/internal/domain/models"
)

type fakeRoster struct {
	trips    []models.Trip
	vehicles map[int64][]models.Vehicle
	people   map[string]models.Person
	err      error
}

func (f *fakeRoster) Trips(ctx context.Context) ([]models.Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.trips, nil
}

func (f *fakeRoster) TripByID(ctx context.Context, tripID int64) (models.Trip, error) {
	if f.err != nil {
		return models.Trip{}, f.err
	}
	for _, t := range f.trips {
		if t.ID == tripID {
			return t, nil
		}
	}
	return models.Trip{}, domain.NotFoundError{Resource: "trip"}
}

func (f *fakeRoster) VehiclesForTrip(ctx context.Context, tripID int64) ([]models.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vehicles[tripID], nil
}

func (f *fakeRoster) ResolvePerson(ctx context.Context, scanCode string) (models.Person, error) {
	if f.err != nil {
		return models.Person{}, f.err
	}
	p, ok := f.people[scanCode]
	if !ok {
		return models.Person{}, domain.NotFoundError{Resource: "person"}
	}
	return p, nil
}

type fakeEvents struct {
	events []models.BoardingEvent
	err    error
}

func (f *fakeEvents) EventsForTrip(ctx context.Context, tripID int64) ([]models.BoardingEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.BoardingEvent{}
	for _, ev := range f.events {
		if ev.TripID == tripID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func freeTripFixture() (*fakeRoster, *fakeEvents) {
	roster := &fakeRoster{
		trips: []models.Trip{{ID: 1, Name: "T1", Status: models.TripStatusOpen, BoardingMode: models.BoardingModeFree}},
		vehicles: map[int64][]models.Vehicle{
			1: {{ID: 10, TripID: 1, Code: "V1", Capacity: 2}},
		},
		people: map[string]models.Person{
			"QR-P1": {ID: 101, TripID: 1, Name: "P1", ScanCode: "QR-P1"},
			"QR-P2": {ID: 102, TripID: 1, Name: "P2", ScanCode: "QR-P2"},
			"QR-P3": {ID: 103, TripID: 1, Name: "P3", ScanCode: "QR-P3"},
		},
	}
	return roster, &fakeEvents{}
}

func resolveOrFail(t *testing.T, r Resolver, tripID, vehicleID int64, code, action string) Result {
	t.Helper()
	res, err := r.Resolve(context.Background(), tripID, vehicleID, code, action, "station-1")
	if err != nil {
		t.Fatalf("resolve %s: unexpected error %v", code, err)
	}
	return res
}

func TestResolverFreeModeCapacityScenario(t *testing.T) {
	roster, events := freeTripFixture()
	clock := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	r := Resolver{Roster: roster, Events: events, Now: func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}}

	res := resolveOrFail(t, r, 1, 10, "QR-P1", models.ActionBoard)
	if res.Outcome != OutcomeBoarded || res.Event == nil {
		t.Fatalf("first scan of P1: got %s, want boarded with event", res.Outcome)
	}
	events.events = append(events.events, *res.Event)

	res = resolveOrFail(t, r, 1, 10, "QR-P1", models.ActionBoard)
	if res.Outcome != OutcomeAlreadyBoarded {
		t.Fatalf("second scan of P1: got %s, want already_boarded", res.Outcome)
	}
	if res.Event != nil {
		t.Fatalf("already_boarded must not produce a duplicate event")
	}

	res = resolveOrFail(t, r, 1, 10, "QR-P2", models.ActionBoard)
	if res.Outcome != OutcomeBoarded {
		t.Fatalf("scan of P2: got %s, want boarded", res.Outcome)
	}
	events.events = append(events.events, *res.Event)

	res = resolveOrFail(t, r, 1, 10, "QR-P3", models.ActionBoard)
	if res.Outcome != OutcomeCapacityExceeded {
		t.Fatalf("scan of P3 at full vehicle: got %s, want capacity_exceeded", res.Outcome)
	}
	if res.Event != nil {
		t.Fatalf("capacity_exceeded must not admit past capacity")
	}

	summary := Recompute(events.events, roster.vehicles[1])
	if occ := summary.ByVehicle[10]; occ.Boarded != 2 || occ.Capacity != 2 {
		t.Fatalf("occupancy after scenario: got %d/%d, want 2/2", occ.Boarded, occ.Capacity)
	}
}

func TestResolverAssignedModeWrongVehicle(t *testing.T) {
	roster := &fakeRoster{
		trips: []models.Trip{{ID: 2, Name: "T2", Status: models.TripStatusOpen, BoardingMode: models.BoardingModeAssigned}},
		vehicles: map[int64][]models.Vehicle{
			2: {{ID: 20, TripID: 2, Code: "V2", Capacity: 40}, {ID: 30, TripID: 2, Code: "V3", Capacity: 40}},
		},
		people: map[string]models.Person{
			"QR-P4": {ID: 104, TripID: 2, Name: "P4", ScanCode: "QR-P4", AssignedVehicleID: 20},
		},
	}
	r := Resolver{Roster: roster, Events: &fakeEvents{}}

	res := resolveOrFail(t, r, 2, 30, "QR-P4", models.ActionBoard)
	if res.Outcome != OutcomeWrongVehicle {
		t.Fatalf("P4 at V3: got %s, want wrong_vehicle", res.Outcome)
	}
	if res.AssignedVehicleID != 20 {
		t.Fatalf("wrong_vehicle should name the correct vehicle, got %d", res.AssignedVehicleID)
	}

	res = resolveOrFail(t, r, 2, 20, "QR-P4", models.ActionBoard)
	if res.Outcome != OutcomeBoarded {
		t.Fatalf("P4 at assigned V2: got %s, want boarded", res.Outcome)
	}
}

func TestResolverUnknownCodeWinsTieBreak(t *testing.T) {
	roster, events := freeTripFixture()
	// vehicle already at capacity; unknown code must still report unknown_code
	events.events = []models.BoardingEvent{
		{PersonID: 101, TripID: 1, VehicleID: 10, Action: models.ActionBoard, Timestamp: time.Unix(100, 0), Confirmed: true},
		{PersonID: 102, TripID: 1, VehicleID: 10, Action: models.ActionBoard, Timestamp: time.Unix(101, 0), Confirmed: true},
	}
	r := Resolver{Roster: roster, Events: events}

	res := resolveOrFail(t, r, 1, 10, "QR-NOBODY", models.ActionBoard)
	if res.Outcome != OutcomeUnknownCode {
		t.Fatalf("unknown code at full vehicle: got %s, want unknown_code", res.Outcome)
	}
}

func TestResolverWrongTrip(t *testing.T) {
	roster, events := freeTripFixture()
	roster.trips = append(roster.trips, models.Trip{ID: 9, Name: "Other", Status: models.TripStatusOpen, BoardingMode: models.BoardingModeFree})
	roster.vehicles[9] = []models.Vehicle{{ID: 90, TripID: 9, Capacity: 10}}
	r := Resolver{Roster: roster, Events: events}

	res := resolveOrFail(t, r, 9, 90, "QR-P1", models.ActionBoard)
	if res.Outcome != OutcomeWrongTrip {
		t.Fatalf("P1 scanned on trip 9: got %s, want wrong_trip", res.Outcome)
	}
}

func TestResolverAlreadyBoardedElsewhere(t *testing.T) {
	roster, events := freeTripFixture()
	roster.vehicles[1] = append(roster.vehicles[1], models.Vehicle{ID: 11, TripID: 1, Code: "VB", Capacity: 2})
	events.events = []models.BoardingEvent{
		{PersonID: 101, TripID: 1, VehicleID: 10, Action: models.ActionBoard, Timestamp: time.Unix(100, 0), Confirmed: true},
	}
	r := Resolver{Roster: roster, Events: events}

	res := resolveOrFail(t, r, 1, 11, "QR-P1", models.ActionBoard)
	if res.Outcome != OutcomeAlreadyBoardedElsewhere {
		t.Fatalf("P1 presented at second vehicle: got %s, want already_boarded_elsewhere", res.Outcome)
	}
	if res.AssignedVehicleID != 10 {
		t.Fatalf("should report the vehicle currently boarded, got %d", res.AssignedVehicleID)
	}
	if res.Event != nil {
		t.Fatalf("no implicit move between vehicles")
	}

	summary := Recompute(events.events, roster.vehicles[1])
	if occ := summary.ByVehicle[11]; occ.Boarded != 0 {
		t.Fatalf("vehicle B count must stay 0, got %d", occ.Boarded)
	}
}

func TestResolverContextIncomplete(t *testing.T) {
	roster, events := freeTripFixture()
	r := Resolver{Roster: roster, Events: events}

	for _, tc := range []struct {
		trip, vehicle int64
		code          string
	}{
		{0, 10, "QR-P1"},
		{1, 0, "QR-P1"},
		{1, 10, "  "},
	} {
		res, err := r.Resolve(context.Background(), tc.trip, tc.vehicle, tc.code, models.ActionBoard, "station-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Outcome != OutcomeContextIncomplete {
			t.Fatalf("trip=%d vehicle=%d code=%q: got %s, want context_incomplete", tc.trip, tc.vehicle, tc.code, res.Outcome)
		}
	}
}

func TestResolverUnboard(t *testing.T) {
	roster, events := freeTripFixture()
	r := Resolver{Roster: roster, Events: events}

	res := resolveOrFail(t, r, 1, 10, "QR-P1", models.ActionUnboard)
	if res.Outcome != OutcomeNotBoarded {
		t.Fatalf("unboard before boarding: got %s, want not_boarded", res.Outcome)
	}

	events.events = []models.BoardingEvent{
		{PersonID: 101, TripID: 1, VehicleID: 10, Action: models.ActionBoard, Timestamp: time.Unix(100, 0), Confirmed: true},
	}
	res = resolveOrFail(t, r, 1, 10, "QR-P1", models.ActionUnboard)
	if res.Outcome != OutcomeUnboarded || res.Event == nil || res.Event.Action != models.ActionUnboard {
		t.Fatalf("unboard of boarded person: got %s, want unboarded with event", res.Outcome)
	}

	events.events = append(events.events, *res.Event)
	summary := Recompute(events.events, roster.vehicles[1])
	if occ := summary.ByVehicle[10]; occ.Boarded != 0 {
		t.Fatalf("count after unboard: got %d, want 0", occ.Boarded)
	}
}

func TestResolverInfrastructureFailureIsNotARejection(t *testing.T) {
	roster, events := freeTripFixture()
	roster.err = domain.UnavailableError{Op: "roster fetch"}
	r := Resolver{Roster: roster, Events: events}

	res, err := r.Resolve(context.Background(), 1, 10, "QR-P1", models.ActionBoard, "station-1")
	if err == nil {
		t.Fatalf("expected an error when the roster is unavailable, got outcome %s", res.Outcome)
	}
	if !domain.IsUnavailable(err) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}
