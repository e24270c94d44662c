package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "boardops/internal/config"
	"boardops/internal/domain"
	"boardops/internal/domain/models"
)

// StationRepository wraps DB access for named pickup/dropoff stations.
type StationRepository struct {
	DB *sql.DB
}

func (r StationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r StationRepository) List(ctx context.Context) ([]models.Station, error) {
	rows, err := r.db().QueryContext(ctx, `SELECT id, name, kind, COALESCE(address,'') FROM stations ORDER BY name, id`)
	if err != nil {
		return nil, domain.UnavailableError{Op: "station list", Err: err}
	}
	defer rows.Close()

	out := []models.Station{}
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Kind, &s.Address); err != nil {
			return nil, domain.UnavailableError{Op: "station list", Err: err}
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UnavailableError{Op: "station list", Err: err}
	}
	return out, nil
}

func (r StationRepository) GetByID(ctx context.Context, id int64) (models.Station, error) {
	var s models.Station
	err := r.db().QueryRowContext(ctx, `SELECT id, name, kind, COALESCE(address,'') FROM stations WHERE id=?`, id).
		Scan(&s.ID, &s.Name, &s.Kind, &s.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Station{}, domain.NotFoundError{Resource: "station"}
	}
	if err != nil {
		return models.Station{}, domain.UnavailableError{Op: "station lookup", Err: err}
	}
	return s, nil
}

func (r StationRepository) Create(ctx context.Context, s models.Station) (models.Station, error) {
	res, err := r.db().ExecContext(ctx, `INSERT INTO stations (name, kind, address) VALUES (?, ?, ?)`,
		s.Name, s.Kind, s.Address)
	if err != nil {
		return s, domain.UnavailableError{Op: "station create", Err: err}
	}
	s.ID, _ = res.LastInsertId()
	return s, nil
}

func (r StationRepository) Update(ctx context.Context, s models.Station) error {
	_, err := r.db().ExecContext(ctx, `UPDATE stations SET name=?, kind=?, address=? WHERE id=?`,
		s.Name, s.Kind, s.Address, s.ID)
	if err != nil {
		return domain.UnavailableError{Op: "station update", Err: err}
	}
	return nil
}

func (r StationRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db().ExecContext(ctx, `DELETE FROM stations WHERE id=?`, id)
	if err != nil {
		return domain.UnavailableError{Op: "station delete", Err: err}
	}
	return nil
}
