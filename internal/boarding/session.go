package boarding

import (
	"context"
	"errors"
	"sync"

	"boardops/internal/domain/models"
)

var (
	// ErrNoTripSelected is returned when a vehicle is chosen before a trip.
	ErrNoTripSelected = errors.New("no trip selected")
	// ErrScanInFlight rejects a second submission while one is outstanding,
	// the main duplicate-submission hazard at a scanning station.
	ErrScanInFlight = errors.New("scan submission already in flight")
	// ErrContextChanged discards a scan result whose trip/vehicle context was
	// switched while the submission was in flight.
	ErrContextChanged = errors.New("selection changed while scan was in flight")
)

// SubmitFunc performs the authoritative scan call.
type SubmitFunc func(ctx context.Context, req models.ScanRequest) (Result, error)

// Session holds one scanning station's context: the selected trip and
// vehicle, the locally accumulated event log, and the last outcome to render.
// The local log only gains events after server confirmation; push-channel
// events are merged through MergeConfirmed and de-duplicated at recompute.
type Session struct {
	DeviceID string
	Submit   SubmitFunc

	mu         sync.Mutex
	tripID     int64
	vehicleID  int64
	gen        uint64
	inFlight   bool
	events     []models.BoardingEvent
	lastResult *Result
}

// SelectTrip sets the trip context. Changing trip invalidates the vehicle
// selection and the last rendered result.
func (s *Session) SelectTrip(tripID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tripID = tripID
	s.vehicleID = 0
	s.lastResult = nil
	s.gen++
}

// SelectVehicle sets the vehicle context; a trip must already be selected.
func (s *Session) SelectVehicle(vehicleID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tripID == 0 {
		return ErrNoTripSelected
	}
	s.vehicleID = vehicleID
	s.gen++
	return nil
}

// Selected returns the current trip and vehicle context.
func (s *Session) Selected() (tripID, vehicleID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tripID, s.vehicleID
}

// SubmitScan submits a code against the current context. The result is
// checked against the context captured at submission time and discarded with
// ErrContextChanged if the selection moved while the call was in flight. On
// an admitting outcome the confirmed event is appended to the session log.
func (s *Session) SubmitScan(ctx context.Context, code, action string) (Result, error) {
	s.mu.Lock()
	if s.tripID == 0 || s.vehicleID == 0 {
		res := Result{Outcome: OutcomeContextIncomplete}
		s.lastResult = &res
		s.mu.Unlock()
		return res, nil
	}
	if s.inFlight {
		s.mu.Unlock()
		return Result{}, ErrScanInFlight
	}
	s.inFlight = true
	gen := s.gen
	req := models.ScanRequest{
		TripID:    s.tripID,
		VehicleID: s.vehicleID,
		ScanCode:  code,
		Action:    action,
		DeviceID:  s.DeviceID,
	}
	s.mu.Unlock()

	res, err := s.Submit(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if s.gen != gen {
		return Result{}, ErrContextChanged
	}
	if err != nil {
		// Not confirmed either way; the caller surfaces a retry prompt.
		return Result{}, err
	}
	if res.Event != nil {
		s.events = append(s.events, *res.Event)
	}
	s.lastResult = &res
	return res, nil
}

// LastResult returns the outcome to render, nil when none.
func (s *Session) LastResult() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// MergeConfirmed folds server-confirmed events (push channel, snapshot
// refresh) into the session log. Duplicates are tolerated; the occupancy
// aggregator de-duplicates by (person, trip) at recompute.
func (s *Session) MergeConfirmed(events ...models.BoardingEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range events {
		ev.Confirmed = true
		s.events = append(s.events, ev)
	}
}

// Events returns a copy of the session event log.
func (s *Session) Events() []models.BoardingEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.BoardingEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Occupancy recomputes counts from the session log.
func (s *Session) Occupancy(vehicles []models.Vehicle) Summary {
	return Recompute(s.Events(), vehicles)
}
