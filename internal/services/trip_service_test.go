package services

import (
	"context"
	"testing"

	"boardops/internal/domain"
	"boardops/internal/domain/models"
)

func tripServiceFixture(current string) (TripService, *string) {
	saved := ""
	svc := TripService{
		LoadTrip: func(ctx context.Context, id int64) (models.Trip, error) {
			return models.Trip{ID: id, Name: "T", Status: current}, nil
		},
		SaveStatus: func(ctx context.Context, id int64, status string) error {
			saved = status
			return nil
		},
	}
	return svc, &saved
}

func TestChangeStatusLegalMoves(t *testing.T) {
	cases := []struct{ from, to string }{
		{models.TripStatusDraft, models.TripStatusOpen},
		{models.TripStatusOpen, models.TripStatusClosed},
		{models.TripStatusClosed, models.TripStatusCompleted},
		{models.TripStatusDraft, models.TripStatusCancelled},
		{models.TripStatusOpen, models.TripStatusCancelled},
		{models.TripStatusClosed, models.TripStatusCancelled},
	}
	for _, c := range cases {
		svc, saved := tripServiceFixture(c.from)
		trip, err := svc.ChangeStatus(context.Background(), 1, c.to)
		if err != nil {
			t.Fatalf("%s -> %s: %v", c.from, c.to, err)
		}
		if trip.Status != c.to || *saved != c.to {
			t.Fatalf("%s -> %s: status=%s saved=%s", c.from, c.to, trip.Status, *saved)
		}
	}
}

func TestChangeStatusIllegalMoves(t *testing.T) {
	cases := []struct{ from, to string }{
		{models.TripStatusDraft, models.TripStatusClosed},
		{models.TripStatusDraft, models.TripStatusCompleted},
		{models.TripStatusClosed, models.TripStatusOpen},
		{models.TripStatusOpen, models.TripStatusCompleted},
		{models.TripStatusCompleted, models.TripStatusOpen},
		{models.TripStatusCompleted, models.TripStatusCancelled},
		{models.TripStatusCancelled, models.TripStatusOpen},
		{models.TripStatusOpen, models.TripStatusOpen},
	}
	for _, c := range cases {
		svc, saved := tripServiceFixture(c.from)
		_, err := svc.ChangeStatus(context.Background(), 1, c.to)
		if !domain.IsConflict(err) {
			t.Fatalf("%s -> %s: got %v, want conflict", c.from, c.to, err)
		}
		if *saved != "" {
			t.Fatalf("%s -> %s: illegal move must not persist", c.from, c.to)
		}
	}
}

func TestChangeStatusUnknownStatus(t *testing.T) {
	svc, _ := tripServiceFixture(models.TripStatusDraft)
	_, err := svc.ChangeStatus(context.Background(), 1, "paused")
	if !domain.IsValidation(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestCancelFromTerminalState(t *testing.T) {
	svc, _ := tripServiceFixture(models.TripStatusCancelled)
	_, err := svc.Cancel(context.Background(), 1)
	if !domain.IsConflict(err) {
		t.Fatalf("got %v, want conflict", err)
	}
}

func TestCreateTripValidation(t *testing.T) {
	svc := TripService{}

	if _, err := svc.Create(context.Background(), models.Trip{Name: "  ", StartDate: "2026-09-01", EndDate: "2026-09-03"}); !domain.IsValidation(err) {
		t.Fatalf("blank name: got %v, want validation error", err)
	}
	if _, err := svc.Create(context.Background(), models.Trip{Name: "T", StartDate: "01/09/2026", EndDate: "2026-09-03"}); !domain.IsValidation(err) {
		t.Fatalf("bad start date: got %v, want validation error", err)
	}
	if _, err := svc.Create(context.Background(), models.Trip{Name: "T", StartDate: "2026-09-01", EndDate: "2026-09-03", BoardingMode: "chaos"}); !domain.IsValidation(err) {
		t.Fatalf("bad boarding mode: got %v, want validation error", err)
	}
}
