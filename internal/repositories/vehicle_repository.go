package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "boardops/internal/config"
	"boardops/internal/domain"
	"boardops/internal/domain/models"
)

// VehicleRepository wraps DB access for vehicles.
type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const vehicleColumns = `id, trip_id, code, name, capacity`

func scanVehicle(row interface{ Scan(...any) error }) (models.Vehicle, error) {
	var v models.Vehicle
	var tripID sql.NullInt64
	err := row.Scan(&v.ID, &tripID, &v.Code, &v.Name, &v.Capacity)
	v.TripID = tripID.Int64
	return v, err
}

func (r VehicleRepository) List(ctx context.Context) ([]models.Vehicle, error) {
	return r.list(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY code, id`)
}

func (r VehicleRepository) ListByTrip(ctx context.Context, tripID int64) ([]models.Vehicle, error) {
	return r.list(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE trip_id=? ORDER BY code, id`, tripID)
}

func (r VehicleRepository) list(ctx context.Context, query string, args ...any) ([]models.Vehicle, error) {
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.UnavailableError{Op: "vehicle list", Err: err}
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, domain.UnavailableError{Op: "vehicle list", Err: err}
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UnavailableError{Op: "vehicle list", Err: err}
	}
	return out, nil
}

func (r VehicleRepository) GetByID(ctx context.Context, id int64) (models.Vehicle, error) {
	v, err := scanVehicle(r.db().QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
	}
	if err != nil {
		return models.Vehicle{}, domain.UnavailableError{Op: "vehicle lookup", Err: err}
	}
	return v, nil
}

func (r VehicleRepository) Create(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO vehicles (trip_id, code, name, capacity)
		VALUES (NULLIF(?,0), ?, ?, ?)`,
		v.TripID, v.Code, v.Name, v.Capacity)
	if err != nil {
		return v, domain.UnavailableError{Op: "vehicle create", Err: err}
	}
	v.ID, _ = res.LastInsertId()
	return v, nil
}

func (r VehicleRepository) Update(ctx context.Context, v models.Vehicle) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE vehicles SET code=?, name=?, capacity=? WHERE id=?`,
		v.Code, v.Name, v.Capacity, v.ID)
	if err != nil {
		return domain.UnavailableError{Op: "vehicle update", Err: err}
	}
	return nil
}

// AssignToTrip links a vehicle to a trip (0 detaches it).
func (r VehicleRepository) AssignToTrip(ctx context.Context, vehicleID, tripID int64) error {
	res, err := r.db().ExecContext(ctx, `UPDATE vehicles SET trip_id=NULLIF(?,0) WHERE id=?`, tripID, vehicleID)
	if err != nil {
		return domain.UnavailableError{Op: "vehicle assign", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "vehicle"}
	}
	return nil
}

func (r VehicleRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db().ExecContext(ctx, `DELETE FROM vehicles WHERE id=?`, id)
	if err != nil {
		return domain.UnavailableError{Op: "vehicle delete", Err: err}
	}
	return nil
}
