package models

const (
	StationKindPickup  = "pickup"
	StationKindDropoff = "dropoff"
)

// Station is a named pickup or dropoff point travelers are routed through.
type Station struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Address string `json:"address,omitempty"`
}
