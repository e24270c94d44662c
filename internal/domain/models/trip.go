package models

import "strings"

// Trip statuses form a one-way lifecycle:
// draft -> open -> closed -> completed, with cancelled reachable from any
// non-terminal state. cancelled and completed are terminal.
const (
	TripStatusDraft     = "draft"
	TripStatusOpen      = "open"
	TripStatusClosed    = "closed"
	TripStatusCompleted = "completed"
	TripStatusCancelled = "cancelled"
)

// Boarding modes. Under "assigned" each person may only board their
// pre-assigned vehicle; under "free" any vehicle of the trip is valid.
const (
	BoardingModeAssigned = "assigned"
	BoardingModeFree     = "free"
)

type Trip struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Status       string `json:"status"`
	BoardingMode string `json:"boardingMode"`
}

// CanTransition reports whether a status change is a legal forward move.
func CanTransition(from, to string) bool {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))

	if from == to {
		return false
	}
	switch from {
	case TripStatusDraft:
		return to == TripStatusOpen || to == TripStatusCancelled
	case TripStatusOpen:
		return to == TripStatusClosed || to == TripStatusCancelled
	case TripStatusClosed:
		return to == TripStatusCompleted || to == TripStatusCancelled
	default:
		// completed and cancelled are terminal
		return false
	}
}

// ValidStatus reports whether s is a known trip status.
func ValidStatus(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case TripStatusDraft, TripStatusOpen, TripStatusClosed, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// ValidBoardingMode reports whether m is a known boarding mode.
func ValidBoardingMode(m string) bool {
	switch strings.ToLower(strings.TrimSpace(m)) {
	case BoardingModeAssigned, BoardingModeFree:
		return true
	}
	return false
}
