package models

import "time"

// Boarding event actions.
const (
	ActionBoard   = "board"
	ActionUnboard = "unboard"
)

// BoardingEvent records that a person boarded (or left) a vehicle on a trip.
// Events are append-only and never mutated; a person's current state is the
// latest event by timestamp for the (PersonID, TripID) pair. Confirmed is
// false only for provisional client-side records awaiting server confirmation.
type BoardingEvent struct {
	ID        int64     `json:"id,omitempty"`
	PersonID  int64     `json:"personId"`
	TripID    int64     `json:"tripId"`
	VehicleID int64     `json:"vehicleId"`
	Action    string    `json:"action"`
	DeviceID  string    `json:"deviceId"`
	Timestamp time.Time `json:"timestamp"`
	Confirmed bool      `json:"confirmed"`
}

// ScanRequest is the payload of POST /api/scan.
type ScanRequest struct {
	TripID    int64     `json:"tripId"`
	VehicleID int64     `json:"vehicleId"`
	ScanCode  string    `json:"scanCode"`
	Action    string    `json:"action"`
	DeviceID  string    `json:"deviceId"`
	Timestamp time.Time `json:"timestamp"`
}

// BusStatus is the occupancy snapshot returned with every scan response and
// pushed on vehicle-count-updated notifications.
type BusStatus struct {
	VehicleID  int64 `json:"vehicleId"`
	Boarded    int   `json:"boarded"`
	Capacity   int   `json:"capacity"`
	Percentage int   `json:"percentage"`
}

// ScanResponse is the authoritative scan result rendered to the operator.
type ScanResponse struct {
	Success   bool       `json:"success"`
	Outcome   string     `json:"outcome"`
	Message   string     `json:"message"`
	Action    string     `json:"action"`
	Person    *Person    `json:"person,omitempty"`
	BusStatus *BusStatus `json:"busStatus,omitempty"`
}
