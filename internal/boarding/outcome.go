package boarding

import "boardops/internal/domain/models"

// Outcome is the decision for a presented scan code. Checks are evaluated in
// a fixed order and the first match wins, so an unknown code is reported as
// unknown_code even when capacity is also exceeded.
type Outcome string

const (
	OutcomeBoarded                 Outcome = "boarded"
	OutcomeUnboarded               Outcome = "unboarded"
	OutcomeContextIncomplete       Outcome = "context_incomplete"
	OutcomeUnknownCode             Outcome = "unknown_code"
	OutcomeWrongTrip               Outcome = "wrong_trip"
	OutcomeWrongVehicle            Outcome = "wrong_vehicle"
	OutcomeAlreadyBoarded          Outcome = "already_boarded"
	OutcomeAlreadyBoardedElsewhere Outcome = "already_boarded_elsewhere"
	OutcomeNotBoarded              Outcome = "not_boarded"
	OutcomeCapacityExceeded        Outcome = "capacity_exceeded"
)

// Admitted reports whether the outcome changes boarding state and therefore
// produces a new event.
func (o Outcome) Admitted() bool {
	return o == OutcomeBoarded || o == OutcomeUnboarded
}

// Result is the resolver's verdict for one scan.
type Result struct {
	Outcome Outcome
	Person  *models.Person
	// AssignedVehicleID names the person's correct vehicle on wrong_vehicle,
	// or the vehicle they are currently on for already_boarded_elsewhere, so
	// the operator can redirect them.
	AssignedVehicleID int64
	// Event is the new boarding event on boarded/unboarded, nil otherwise.
	Event *models.BoardingEvent
}

// Message renders the operator-facing line for a result.
func (r Result) Message() string {
	name := ""
	if r.Person != nil {
		name = r.Person.Name
	}
	switch r.Outcome {
	case OutcomeBoarded:
		return name + " boarded"
	case OutcomeUnboarded:
		return name + " unboarded"
	case OutcomeContextIncomplete:
		return "select a trip and vehicle before scanning"
	case OutcomeUnknownCode:
		return "unknown scan code"
	case OutcomeWrongTrip:
		return name + " belongs to another trip"
	case OutcomeWrongVehicle:
		return name + " is assigned to another vehicle"
	case OutcomeAlreadyBoarded:
		return name + " is already on board"
	case OutcomeAlreadyBoardedElsewhere:
		return name + " already boarded a different vehicle"
	case OutcomeNotBoarded:
		return name + " is not on board"
	case OutcomeCapacityExceeded:
		return "vehicle is at capacity"
	}
	return string(r.Outcome)
}
