package boarding

import (
	"math"

	"boardops/internal/domain/models"
)

// BoardingKey identifies the single active boarding slot a person can hold
// on a trip.
type BoardingKey struct {
	PersonID int64
	TripID   int64
}

// VehicleOccupancy is the derived per-vehicle count.
type VehicleOccupancy struct {
	VehicleID  int64 `json:"vehicleId"`
	Boarded    int   `json:"boarded"`
	Capacity   int   `json:"capacity"`
	Percentage int   `json:"percentage"`
}

// TripOccupancy sums occupancy across all vehicles of the trip.
type TripOccupancy struct {
	TotalBoarded  int `json:"totalBoarded"`
	TotalCapacity int `json:"totalCapacity"`
}

// Summary is the full occupancy picture for one trip.
type Summary struct {
	ByVehicle map[int64]VehicleOccupancy `json:"byVehicle"`
	Trip      TripOccupancy              `json:"trip"`
}

// supersedes reports whether candidate replaces current when both claim the
// same (person, trip) slot. Event timestamp wins, not arrival order; at equal
// timestamps a server-confirmed record replaces a provisional one.
func supersedes(current, candidate models.BoardingEvent) bool {
	if candidate.Timestamp.After(current.Timestamp) {
		return true
	}
	if candidate.Timestamp.Equal(current.Timestamp) {
		return candidate.Confirmed && !current.Confirmed
	}
	return false
}

// ActiveBoardings reduces an event log to the surviving record per
// (person, trip). Records whose surviving action is unboard are dropped, so
// the result holds exactly the people currently on board.
func ActiveBoardings(events []models.BoardingEvent) map[BoardingKey]models.BoardingEvent {
	latest := make(map[BoardingKey]models.BoardingEvent, len(events))
	for _, ev := range events {
		key := BoardingKey{PersonID: ev.PersonID, TripID: ev.TripID}
		cur, ok := latest[key]
		if !ok || supersedes(cur, ev) {
			latest[key] = ev
		}
	}
	for key, ev := range latest {
		if ev.Action != models.ActionBoard {
			delete(latest, key)
		}
	}
	return latest
}

// Recompute derives occupancy from the full known event set. It is a pure
// function of its inputs so it can be re-run on every change (local scan,
// push notification, snapshot refresh) without drift.
func Recompute(events []models.BoardingEvent, vehicles []models.Vehicle) Summary {
	byVehicle := make(map[int64]VehicleOccupancy, len(vehicles))
	for _, v := range vehicles {
		byVehicle[v.ID] = VehicleOccupancy{VehicleID: v.ID, Capacity: v.Capacity}
	}

	for _, ev := range ActiveBoardings(events) {
		occ, ok := byVehicle[ev.VehicleID]
		if !ok {
			continue
		}
		occ.Boarded++
		byVehicle[ev.VehicleID] = occ
	}

	var trip TripOccupancy
	for id, occ := range byVehicle {
		occ.Percentage = percentage(occ.Boarded, occ.Capacity)
		byVehicle[id] = occ
		trip.TotalBoarded += occ.Boarded
		trip.TotalCapacity += occ.Capacity
	}

	return Summary{ByVehicle: byVehicle, Trip: trip}
}

func percentage(boarded, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return int(math.Round(float64(boarded) / float64(capacity) * 100))
}
