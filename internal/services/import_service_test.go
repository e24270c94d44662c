package services

import (
	"context"
	"fmt"
	"testing"

	"boardops/internal/domain"
	"boardops/internal/domain/models"
)

func importServiceFixture() (ImportService, *[]models.Person) {
	inserted := []models.Person{}
	svc := ImportService{
		NewID: func() string { return "imp-1" },
		Insert: func(ctx context.Context, importID string, p models.Person) (models.Person, error) {
			p.ID = int64(len(inserted) + 1)
			inserted = append(inserted, p)
			return p, nil
		},
		Remove: func(ctx context.Context, importID string) (int64, error) {
			n := int64(len(inserted))
			inserted = inserted[:0]
			return n, nil
		},
	}
	return svc, &inserted
}

func TestPreviewFlagsBadRows(t *testing.T) {
	svc, _ := importServiceFixture()
	preview, err := svc.Preview(context.Background(), 1, []ImportRow{
		{Name: "A", ScanCode: "qr-a"},
		{Name: "", ScanCode: "QR-B"},
		{Name: "C", ScanCode: ""},
		{Name: "D", ScanCode: " QR-A "},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Valid != 1 || preview.Invalid != 3 {
		t.Fatalf("valid=%d invalid=%d, want 1/3", preview.Valid, preview.Invalid)
	}
	if preview.Rows[3].Issue != "duplicate scan code in batch" {
		t.Fatalf("row 3 issue = %q, want duplicate after normalization", preview.Rows[3].Issue)
	}
}

func TestExecuteHappyPath(t *testing.T) {
	svc, inserted := importServiceFixture()
	importID, created, err := svc.Execute(context.Background(), 7, []ImportRow{
		{Name: "A", ScanCode: "qr-a", Leader: true},
		{Name: "B", ScanCode: "qr-b", AssignedVehicleID: 3},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if importID != "imp-1" || created != 2 {
		t.Fatalf("got id=%q created=%d", importID, created)
	}
	if len(*inserted) != 2 || (*inserted)[0].TripID != 7 || (*inserted)[0].ScanCode != "QR-A" {
		t.Fatalf("inserted rows wrong: %+v", *inserted)
	}
}

func TestExecuteRejectsBatchWithInvalidRows(t *testing.T) {
	svc, inserted := importServiceFixture()
	_, _, err := svc.Execute(context.Background(), 7, []ImportRow{
		{Name: "A", ScanCode: "qr-a"},
		{Name: "", ScanCode: "qr-b"},
	})
	if !domain.IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
	if len(*inserted) != 0 {
		t.Fatalf("rejected batch must not insert anything")
	}
}

func TestExecuteRollsBackOnPartialFailure(t *testing.T) {
	svc, inserted := importServiceFixture()
	base := svc.Insert
	svc.Insert = func(ctx context.Context, importID string, p models.Person) (models.Person, error) {
		if p.ScanCode == "QR-B" {
			return p, domain.UnavailableError{Op: "insert", Err: fmt.Errorf("connection lost")}
		}
		return base(ctx, importID, p)
	}

	_, _, err := svc.Execute(context.Background(), 7, []ImportRow{
		{Name: "A", ScanCode: "qr-a"},
		{Name: "B", ScanCode: "qr-b"},
	})
	if !domain.IsUnavailable(err) {
		t.Fatalf("got %v, want unavailable", err)
	}
	if len(*inserted) != 0 {
		t.Fatalf("partial batch must be rolled back, %d rows left", len(*inserted))
	}
}

func TestRollbackUnknownImport(t *testing.T) {
	svc, _ := importServiceFixture()
	svc.Remove = func(ctx context.Context, importID string) (int64, error) { return 0, nil }

	_, err := svc.Rollback(context.Background(), "imp-404")
	if !domain.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}
