package services

import (
	"context"
	"fmt"
	"strings"

	"boardops/internal/domain"
	"boardops/internal/domain/models"
	"boardops/internal/repositories"
	"boardops/internal/utils"
)

// TripService owns trip lifecycle rules. Status moves are validated here so
// clients can only offer transitions, never force them.
type TripService struct {
	TripRepo  repositories.TripRepository
	RequestID string

	// Test seams.
	LoadTrip   func(ctx context.Context, id int64) (models.Trip, error)
	SaveStatus func(ctx context.Context, id int64, status string) error
}

func (s TripService) loadTrip(ctx context.Context, id int64) (models.Trip, error) {
	if s.LoadTrip != nil {
		return s.LoadTrip(ctx, id)
	}
	return s.TripRepo.GetByID(ctx, id)
}

func (s TripService) saveStatus(ctx context.Context, id int64, status string) error {
	if s.SaveStatus != nil {
		return s.SaveStatus(ctx, id, status)
	}
	return s.TripRepo.UpdateStatus(ctx, id, status)
}

// Create validates and stores a new trip; status always starts at draft.
func (s TripService) Create(ctx context.Context, t models.Trip) (models.Trip, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return t, domain.ValidationError{Field: "name", Msg: "required"}
	}
	if t.BoardingMode == "" {
		t.BoardingMode = models.BoardingModeAssigned
	}
	if !models.ValidBoardingMode(t.BoardingMode) {
		return t, domain.ValidationError{Field: "boardingMode", Msg: "must be assigned or free"}
	}
	if _, err := utils.ParseDate(t.StartDate); err != nil {
		return t, domain.ValidationError{Field: "startDate", Msg: "must be YYYY-MM-DD"}
	}
	if _, err := utils.ParseDate(t.EndDate); err != nil {
		return t, domain.ValidationError{Field: "endDate", Msg: "must be YYYY-MM-DD"}
	}
	t.Status = models.TripStatusDraft

	created, err := s.TripRepo.Create(ctx, t)
	if err != nil {
		return t, err
	}
	utils.LogEvent(s.RequestID, "trip", "create", fmt.Sprintf("trip_id=%d", created.ID))
	return created, nil
}

// ChangeStatus applies one lifecycle move after validating it against the
// current state.
func (s TripService) ChangeStatus(ctx context.Context, id int64, next string) (models.Trip, error) {
	next = strings.ToLower(strings.TrimSpace(next))
	if !models.ValidStatus(next) {
		return models.Trip{}, domain.ValidationError{Field: "status", Msg: "unknown status"}
	}

	trip, err := s.loadTrip(ctx, id)
	if err != nil {
		return models.Trip{}, err
	}
	if !models.CanTransition(trip.Status, next) {
		return models.Trip{}, domain.ConflictError{
			Resource: "trip",
			Msg:      fmt.Sprintf("cannot move from %s to %s", trip.Status, next),
		}
	}

	if err := s.saveStatus(ctx, id, next); err != nil {
		return models.Trip{}, err
	}
	utils.LogEvent(s.RequestID, "trip", "status", fmt.Sprintf("trip_id=%d %s->%s", id, trip.Status, next))
	trip.Status = next
	return trip, nil
}

// Cancel soft-cancels a trip (status move, no row deletion).
func (s TripService) Cancel(ctx context.Context, id int64) (models.Trip, error) {
	return s.ChangeStatus(ctx, id, models.TripStatusCancelled)
}
