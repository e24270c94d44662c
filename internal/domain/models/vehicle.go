package models

// Vehicle is a bus assigned to a trip. Capacity must be positive.
type Vehicle struct {
	ID       int64  `json:"id"`
	TripID   int64  `json:"tripId"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}
