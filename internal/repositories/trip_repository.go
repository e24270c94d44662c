package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "boardops/internal/config"
	"boardops/internal/domain"
	"boardops/internal/domain/models"
)

// TripRepository wraps DB access for trips.
type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const tripColumns = `id, name, start_date, end_date, status, boarding_mode`

func scanTrip(row interface{ Scan(...any) error }) (models.Trip, error) {
	var t models.Trip
	err := row.Scan(&t.ID, &t.Name, &t.StartDate, &t.EndDate, &t.Status, &t.BoardingMode)
	return t, err
}

func (r TripRepository) List(ctx context.Context) ([]models.Trip, error) {
	rows, err := r.db().QueryContext(ctx, `SELECT `+tripColumns+` FROM trips ORDER BY start_date DESC, id DESC`)
	if err != nil {
		return nil, domain.UnavailableError{Op: "trip list", Err: err}
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, domain.UnavailableError{Op: "trip list", Err: err}
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UnavailableError{Op: "trip list", Err: err}
	}
	return out, nil
}

func (r TripRepository) GetByID(ctx context.Context, id int64) (models.Trip, error) {
	t, err := scanTrip(r.db().QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	if err != nil {
		return models.Trip{}, domain.UnavailableError{Op: "trip lookup", Err: err}
	}
	return t, nil
}

func (r TripRepository) Create(ctx context.Context, t models.Trip) (models.Trip, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO trips (name, start_date, end_date, status, boarding_mode)
		VALUES (?, ?, ?, ?, ?)`,
		t.Name, t.StartDate, t.EndDate, t.Status, t.BoardingMode)
	if err != nil {
		return t, domain.UnavailableError{Op: "trip create", Err: err}
	}
	t.ID, _ = res.LastInsertId()
	return t, nil
}

func (r TripRepository) Update(ctx context.Context, t models.Trip) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE trips SET name=?, start_date=?, end_date=?, boarding_mode=?
		WHERE id=?`,
		t.Name, t.StartDate, t.EndDate, t.BoardingMode, t.ID)
	if err != nil {
		return domain.UnavailableError{Op: "trip update", Err: err}
	}
	return nil
}

// UpdateStatus writes a lifecycle move. Transition legality is validated by
// the trip service before this is called.
func (r TripRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db().ExecContext(ctx, `UPDATE trips SET status=? WHERE id=?`, status, id)
	if err != nil {
		return domain.UnavailableError{Op: "trip status update", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "trip"}
	}
	return nil
}
