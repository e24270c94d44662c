package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"boardops/internal/boarding"
	"boardops/internal/domain"
	"boardops/internal/domain/models"
	"boardops/internal/repositories"
	"boardops/internal/socket"
	"boardops/internal/utils"
)

// ScanService is the authoritative side of the boarding workflow: it runs the
// resolver against live roster data, persists admitted events, and pushes
// notifications to the other scanning stations of the vehicle.
type ScanService struct {
	TripRepo     repositories.TripRepository
	VehicleRepo  repositories.VehicleRepository
	PersonRepo   repositories.PersonRepository
	BoardingRepo repositories.BoardingRepository
	Hub          *socket.Hub
	RequestID    string
	Now          func() time.Time

	// Test seams; nil means the repositories above are used.
	Roster    boarding.Roster
	Events    boarding.EventLog
	SaveEvent func(ctx context.Context, ev models.BoardingEvent) (models.BoardingEvent, error)
}

func (s ScanService) roster() boarding.Roster {
	if s.Roster != nil {
		return s.Roster
	}
	return repoRoster{trips: s.TripRepo, vehicles: s.VehicleRepo, people: s.PersonRepo}
}

func (s ScanService) events() boarding.EventLog {
	if s.Events != nil {
		return s.Events
	}
	return s.BoardingRepo
}

func (s ScanService) saveEvent(ctx context.Context, ev models.BoardingEvent) (models.BoardingEvent, error) {
	if s.SaveEvent != nil {
		return s.SaveEvent(ctx, ev)
	}
	return s.BoardingRepo.Insert(ctx, ev)
}

// ProcessScan evaluates one scan request and returns the outcome to render.
// Domain rejections come back as a non-success response, never as an error;
// errors mean the scan was not confirmed either way.
func (s ScanService) ProcessScan(ctx context.Context, req models.ScanRequest) (models.ScanResponse, error) {
	action := req.Action
	if action == "" {
		action = models.ActionBoard
	}
	if action != models.ActionBoard && action != models.ActionUnboard {
		return models.ScanResponse{}, domain.ValidationError{Field: "action", Msg: "must be board or unboard"}
	}

	roster := s.roster()

	trip, err := roster.TripByID(ctx, req.TripID)
	if err != nil {
		return models.ScanResponse{}, err
	}
	if trip.Status != models.TripStatusOpen {
		return models.ScanResponse{}, domain.ConflictError{Resource: "trip", Msg: "not open for boarding"}
	}

	resolver := boarding.Resolver{Roster: roster, Events: s.events(), Now: s.Now}
	res, err := resolver.Resolve(ctx, req.TripID, req.VehicleID, req.ScanCode, action, req.DeviceID)
	if err != nil {
		return models.ScanResponse{}, err
	}

	if res.Event != nil {
		saved, err := s.saveEvent(ctx, *res.Event)
		if err != nil {
			// Nothing persisted; the operator gets a retry prompt, not a
			// fabricated outcome.
			return models.ScanResponse{}, err
		}
		res.Event = &saved
	}

	utils.LogEvent(s.RequestID, "scan", string(res.Outcome),
		fmt.Sprintf("trip_id=%d vehicle_id=%d device=%s", req.TripID, req.VehicleID, req.DeviceID))

	status := s.busStatus(ctx, req.TripID, req.VehicleID)
	if res.Event != nil {
		s.notify(res, status)
	}

	resp := models.ScanResponse{
		Success:   res.Outcome.Admitted(),
		Outcome:   string(res.Outcome),
		Message:   res.Message(),
		Action:    action,
		Person:    res.Person,
		BusStatus: status,
	}
	if res.Outcome == boarding.OutcomeWrongVehicle || res.Outcome == boarding.OutcomeAlreadyBoardedElsewhere {
		resp.Message = fmt.Sprintf("%s (vehicle %d)", resp.Message, res.AssignedVehicleID)
	}
	return resp, nil
}

// busStatus recomputes the scanned vehicle's occupancy. Best effort: a
// failed recompute degrades the response, it does not fail a decided scan.
func (s ScanService) busStatus(ctx context.Context, tripID, vehicleID int64) *models.BusStatus {
	events, err := s.events().EventsForTrip(ctx, tripID)
	if err != nil {
		log.Printf("scan: occupancy recompute skipped: %v", err)
		return nil
	}
	vehicles, err := s.roster().VehiclesForTrip(ctx, tripID)
	if err != nil {
		log.Printf("scan: occupancy recompute skipped: %v", err)
		return nil
	}
	occ, ok := boarding.Recompute(events, vehicles).ByVehicle[vehicleID]
	if !ok {
		return nil
	}
	return &models.BusStatus{
		VehicleID:  occ.VehicleID,
		Boarded:    occ.Boarded,
		Capacity:   occ.Capacity,
		Percentage: occ.Percentage,
	}
}

func (s ScanService) notify(res boarding.Result, status *models.BusStatus) {
	if s.Hub == nil || res.Event == nil {
		return
	}
	ev := *res.Event
	group := socket.GroupKey(ev.TripID, ev.VehicleID)

	typ := socket.EventPersonBoarded
	if ev.Action == models.ActionUnboard {
		typ = socket.EventPersonUnboarded
	}
	s.Hub.Broadcast(group, socket.Notification{
		Type:      typ,
		TripID:    ev.TripID,
		VehicleID: ev.VehicleID,
		Person:    res.Person,
		Timestamp: ev.Timestamp,
	})
	if status != nil {
		s.Hub.Broadcast(group, socket.Notification{
			Type:      socket.EventVehicleCountUpdated,
			TripID:    ev.TripID,
			VehicleID: ev.VehicleID,
			BusStatus: status,
			Timestamp: ev.Timestamp,
		})
	}
}

// repoRoster adapts the repositories to the boarding.Roster contract.
type repoRoster struct {
	trips    repositories.TripRepository
	vehicles repositories.VehicleRepository
	people   repositories.PersonRepository
}

func (r repoRoster) Trips(ctx context.Context) ([]models.Trip, error) {
	return r.trips.List(ctx)
}

func (r repoRoster) TripByID(ctx context.Context, tripID int64) (models.Trip, error) {
	return r.trips.GetByID(ctx, tripID)
}

func (r repoRoster) VehiclesForTrip(ctx context.Context, tripID int64) ([]models.Vehicle, error) {
	return r.vehicles.ListByTrip(ctx, tripID)
}

func (r repoRoster) ResolvePerson(ctx context.Context, scanCode string) (models.Person, error) {
	return r.people.GetByScanCode(ctx, scanCode)
}
