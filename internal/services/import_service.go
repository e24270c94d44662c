package services

import (
	"context"
	"fmt"
	"strings"

	"boardops/internal/domain"
	"boardops/internal/domain/models"
	"boardops/internal/repositories"
	"boardops/internal/utils"

	"github.com/google/uuid"
)

// ImportRow is one incoming roster line (parsed client-side from the
// uploaded sheet).
type ImportRow struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	ScanCode          string `json:"scanCode"`
	AssignedVehicleID int64  `json:"assignedVehicleId"`
	Leader            bool   `json:"leader"`
}

// RowPreview mirrors an ImportRow back with its validation verdict.
type RowPreview struct {
	Row   ImportRow `json:"row"`
	Valid bool      `json:"valid"`
	Issue string    `json:"issue,omitempty"`
}

// ImportPreview is the preview step result.
type ImportPreview struct {
	Rows    []RowPreview `json:"rows"`
	Valid   int          `json:"valid"`
	Invalid int          `json:"invalid"`
	Message string       `json:"message"`
}

// ImportService runs the people import pipeline: preview, execute, rollback.
// Executed batches are tagged with an import id so a bad import can be
// removed as one unit.
type ImportService struct {
	PersonRepo repositories.PersonRepository
	RequestID  string

	// Test seams.
	NewID    func() string
	Insert   func(ctx context.Context, importID string, p models.Person) (models.Person, error)
	Remove   func(ctx context.Context, importID string) (int64, error)
}

func (s ImportService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s ImportService) insert(ctx context.Context, importID string, p models.Person) (models.Person, error) {
	if s.Insert != nil {
		return s.Insert(ctx, importID, p)
	}
	return s.PersonRepo.InsertImported(ctx, importID, p)
}

func (s ImportService) remove(ctx context.Context, importID string) (int64, error) {
	if s.Remove != nil {
		return s.Remove(ctx, importID)
	}
	return s.PersonRepo.DeleteByImportID(ctx, importID)
}

func validateRows(rows []ImportRow) ImportPreview {
	out := ImportPreview{Rows: make([]RowPreview, 0, len(rows))}
	seen := map[string]bool{}
	for _, row := range rows {
		row.Name = strings.TrimSpace(row.Name)
		row.ScanCode = utils.NormalizeCode(row.ScanCode)

		issue := ""
		switch {
		case row.Name == "":
			issue = "name is required"
		case row.ScanCode == "":
			issue = "scan code is required"
		case seen[row.ScanCode]:
			issue = "duplicate scan code in batch"
		}
		if row.ScanCode != "" {
			seen[row.ScanCode] = true
		}

		if issue == "" {
			out.Valid++
		} else {
			out.Invalid++
		}
		out.Rows = append(out.Rows, RowPreview{Row: row, Valid: issue == "", Issue: issue})
	}
	out.Message = fmt.Sprintf("%d rows ready, %d with issues", out.Valid, out.Invalid)
	return out
}

// Preview validates the batch without writing anything.
func (s ImportService) Preview(ctx context.Context, tripID int64, rows []ImportRow) (ImportPreview, error) {
	if tripID <= 0 {
		return ImportPreview{}, domain.ValidationError{Field: "tripId", Msg: "required"}
	}
	if len(rows) == 0 {
		return ImportPreview{}, domain.ValidationError{Field: "rows", Msg: "empty import"}
	}
	return validateRows(rows), nil
}

// Execute inserts a fully valid batch and returns the import id and created
// count. A batch with invalid rows is rejected outright; a partial insert
// failure rolls the batch back before returning.
func (s ImportService) Execute(ctx context.Context, tripID int64, rows []ImportRow) (string, int, error) {
	preview, err := s.Preview(ctx, tripID, rows)
	if err != nil {
		return "", 0, err
	}
	if preview.Invalid > 0 {
		return "", 0, domain.ValidationError{Field: "rows", Msg: preview.Message}
	}

	importID := s.newID()
	created := 0
	for _, rp := range preview.Rows {
		p := models.Person{
			TripID:            tripID,
			Name:              rp.Row.Name,
			Phone:             rp.Row.Phone,
			ScanCode:          rp.Row.ScanCode,
			AssignedVehicleID: rp.Row.AssignedVehicleID,
			Leader:            rp.Row.Leader,
		}
		if _, err := s.insert(ctx, importID, p); err != nil {
			if _, rbErr := s.remove(ctx, importID); rbErr != nil {
				utils.LogEvent(s.RequestID, "import", "rollback_failed", "import_id="+importID)
			}
			return "", 0, err
		}
		created++
	}

	utils.LogEvent(s.RequestID, "import", "execute", fmt.Sprintf("import_id=%s created=%d", importID, created))
	return importID, created, nil
}

// Rollback removes an executed batch.
func (s ImportService) Rollback(ctx context.Context, importID string) (int64, error) {
	importID = strings.TrimSpace(importID)
	if importID == "" {
		return 0, domain.ValidationError{Field: "importId", Msg: "required"}
	}
	removed, err := s.remove(ctx, importID)
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, domain.NotFoundError{Resource: "import"}
	}
	utils.LogEvent(s.RequestID, "import", "rollback", fmt.Sprintf("import_id=%s removed=%d", importID, removed))
	return removed, nil
}
