package repositories

import (
	"context"
	"database/sql"

	intconfig "boardops/internal/config"
	"boardops/internal/domain"
	"boardops/internal/domain/models"
)

// BoardingRepository persists the append-only boarding event log. The server
// is the single writer of truth; rows are inserted, never updated.
type BoardingRepository struct {
	DB *sql.DB
}

func (r BoardingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r BoardingRepository) Insert(ctx context.Context, ev models.BoardingEvent) (models.BoardingEvent, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO boarding_events (person_id, trip_id, vehicle_id, action, device_id, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.PersonID, ev.TripID, ev.VehicleID, ev.Action, ev.DeviceID, ev.Timestamp)
	if err != nil {
		return ev, domain.UnavailableError{Op: "boarding event insert", Err: err}
	}
	ev.ID, _ = res.LastInsertId()
	ev.Confirmed = true
	return ev, nil
}

// EventsForTrip satisfies the boarding event log contract used by the
// resolver and the occupancy recompute.
func (r BoardingRepository) EventsForTrip(ctx context.Context, tripID int64) ([]models.BoardingEvent, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, person_id, trip_id, vehicle_id, action, device_id, occurred_at
		FROM boarding_events
		WHERE trip_id=?
		ORDER BY occurred_at, id`, tripID)
	if err != nil {
		return nil, domain.UnavailableError{Op: "boarding event list", Err: err}
	}
	defer rows.Close()

	out := []models.BoardingEvent{}
	for rows.Next() {
		var ev models.BoardingEvent
		if err := rows.Scan(&ev.ID, &ev.PersonID, &ev.TripID, &ev.VehicleID, &ev.Action, &ev.DeviceID, &ev.Timestamp); err != nil {
			return nil, domain.UnavailableError{Op: "boarding event list", Err: err}
		}
		ev.Confirmed = true
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UnavailableError{Op: "boarding event list", Err: err}
	}
	return out, nil
}
