package repositories

import (
	"context"
	"testing"
	"time"

	"boardops/internal/boarding"
	"boardops/internal/domain"
	"boardops/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

// The scan service hands this repository to the resolver as its event log.
var _ boarding.EventLog = BoardingRepository{}

func TestBoardingRepositoryInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	ts := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO boarding_events").
		WithArgs(int64(101), int64(1), int64(10), models.ActionBoard, "station-1", ts).
		WillReturnResult(sqlmock.NewResult(7, 1))

	repo := BoardingRepository{DB: db}
	ev, err := repo.Insert(context.Background(), models.BoardingEvent{
		PersonID:  101,
		TripID:    1,
		VehicleID: 10,
		Action:    models.ActionBoard,
		DeviceID:  "station-1",
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("insert error: %v", err)
	}
	if ev.ID != 7 || !ev.Confirmed {
		t.Fatalf("inserted event should carry id and be confirmed, got %+v", ev)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBoardingRepositoryEventsForTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	ts := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "person_id", "trip_id", "vehicle_id", "action", "device_id", "occurred_at"}).
		AddRow(1, 101, 1, 10, models.ActionBoard, "station-1", ts).
		AddRow(2, 101, 1, 10, models.ActionUnboard, "station-1", ts.Add(time.Minute))
	mock.ExpectQuery("SELECT id, person_id, trip_id, vehicle_id, action, device_id, occurred_at").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	repo := BoardingRepository{DB: db}
	events, err := repo.EventsForTrip(context.Background(), 1)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	for _, ev := range events {
		if !ev.Confirmed {
			t.Fatalf("server-loaded events must be confirmed, got %+v", ev)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBoardingRepositoryInsertFailureIsUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO boarding_events").
		WillReturnError(context.DeadlineExceeded)

	repo := BoardingRepository{DB: db}
	_, err = repo.Insert(context.Background(), models.BoardingEvent{PersonID: 1, TripID: 1, VehicleID: 1, Action: models.ActionBoard})
	if !domain.IsUnavailable(err) {
		t.Fatalf("got %v, want unavailable", err)
	}
}
