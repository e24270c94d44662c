package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "boardops/internal/config"
	"boardops/internal/domain"
	"boardops/internal/domain/models"
	"boardops/internal/utils"
)

// PersonRepository wraps DB access for travelers. People are soft-deleted
// (deleted_at) so boarding history keeps resolving.
type PersonRepository struct {
	DB *sql.DB
}

func (r PersonRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const personColumns = `id, trip_id, name, COALESCE(phone,''), scan_code, COALESCE(assigned_vehicle_id,0), leader`

func scanPerson(row interface{ Scan(...any) error }) (models.Person, error) {
	var p models.Person
	err := row.Scan(&p.ID, &p.TripID, &p.Name, &p.Phone, &p.ScanCode, &p.AssignedVehicleID, &p.Leader)
	return p, err
}

func (r PersonRepository) ListByTrip(ctx context.Context, tripID int64) ([]models.Person, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT `+personColumns+` FROM people
		WHERE trip_id=? AND deleted_at IS NULL
		ORDER BY name, id`, tripID)
	if err != nil {
		return nil, domain.UnavailableError{Op: "person list", Err: err}
	}
	defer rows.Close()

	out := []models.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, domain.UnavailableError{Op: "person list", Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.UnavailableError{Op: "person list", Err: err}
	}
	return out, nil
}

// GetByScanCode resolves a code globally; a scan code maps to at most one
// person.
func (r PersonRepository) GetByScanCode(ctx context.Context, scanCode string) (models.Person, error) {
	p, err := scanPerson(r.db().QueryRowContext(ctx, `
		SELECT `+personColumns+` FROM people
		WHERE scan_code=? AND deleted_at IS NULL`, utils.NormalizeCode(scanCode)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Person{}, domain.NotFoundError{Resource: "person"}
	}
	if err != nil {
		return models.Person{}, domain.UnavailableError{Op: "person lookup", Err: err}
	}
	return p, nil
}

func (r PersonRepository) Create(ctx context.Context, p models.Person) (models.Person, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO people (trip_id, name, phone, scan_code, assigned_vehicle_id, leader)
		VALUES (?, ?, ?, ?, NULLIF(?,0), ?)`,
		p.TripID, p.Name, p.Phone, utils.NormalizeCode(p.ScanCode), p.AssignedVehicleID, p.Leader)
	if err != nil {
		return p, domain.UnavailableError{Op: "person create", Err: err}
	}
	p.ID, _ = res.LastInsertId()
	return p, nil
}

func (r PersonRepository) Update(ctx context.Context, p models.Person) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE people SET name=?, phone=?, scan_code=?, assigned_vehicle_id=NULLIF(?,0), leader=?
		WHERE id=? AND deleted_at IS NULL`,
		p.Name, p.Phone, utils.NormalizeCode(p.ScanCode), p.AssignedVehicleID, p.Leader, p.ID)
	if err != nil {
		return domain.UnavailableError{Op: "person update", Err: err}
	}
	return nil
}

func (r PersonRepository) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, `UPDATE people SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL`, id)
	if err != nil {
		return domain.UnavailableError{Op: "person delete", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "person"}
	}
	return nil
}

// InsertImported inserts a row tagged with the import batch so the batch can
// be rolled back as one unit.
func (r PersonRepository) InsertImported(ctx context.Context, importID string, p models.Person) (models.Person, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO people (trip_id, name, phone, scan_code, assigned_vehicle_id, leader, import_id)
		VALUES (?, ?, ?, ?, NULLIF(?,0), ?, ?)`,
		p.TripID, p.Name, p.Phone, utils.NormalizeCode(p.ScanCode), p.AssignedVehicleID, p.Leader, importID)
	if err != nil {
		return p, domain.UnavailableError{Op: "person import", Err: err}
	}
	p.ID, _ = res.LastInsertId()
	return p, nil
}

// DeleteByImportID removes an import batch; returns the row count removed.
func (r PersonRepository) DeleteByImportID(ctx context.Context, importID string) (int64, error) {
	res, err := r.db().ExecContext(ctx, `DELETE FROM people WHERE import_id=?`, importID)
	if err != nil {
		return 0, domain.UnavailableError{Op: "import rollback", Err: err}
	}
	n, _ := res.RowsAffected()
	return n, nil
}
