package models

// Person is a traveler (or tour leader) on a trip. ScanCode is unique
// across the system and resolves to at most one person.
type Person struct {
	ID                int64  `json:"id"`
	TripID            int64  `json:"tripId"`
	Name              string `json:"name"`
	Phone             string `json:"phone,omitempty"`
	ScanCode          string `json:"scanCode"`
	AssignedVehicleID int64  `json:"assignedVehicleId,omitempty"`
	Leader            bool   `json:"leader"`
}
