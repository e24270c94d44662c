package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"boardops/internal/boarding"
	"boardops/internal/domain/models"
	"boardops/internal/repositories"
	"boardops/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// ManifestService renders the boarding manifest PDF for one vehicle: who is
// expected, who is on board, and the occupancy line the driver signs off on.
type ManifestService struct {
	TripRepo     repositories.TripRepository
	VehicleRepo  repositories.VehicleRepository
	PersonRepo   repositories.PersonRepository
	BoardingRepo repositories.BoardingRepository
	RequestID    string

	Loader func(ctx context.Context, tripID, vehicleID int64) (ManifestData, error)
}

// ManifestData is everything the PDF needs, loadable in one call.
type ManifestData struct {
	Trip      models.Trip
	Vehicle   models.Vehicle
	People    []models.Person
	OnBoard   map[int64]bool
	Occupancy boarding.VehicleOccupancy
}

func (s ManifestService) load(ctx context.Context, tripID, vehicleID int64) (ManifestData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, tripID, vehicleID)
	}

	var data ManifestData
	trip, err := s.TripRepo.GetByID(ctx, tripID)
	if err != nil {
		return data, err
	}
	vehicle, err := s.VehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return data, err
	}
	people, err := s.PersonRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return data, err
	}
	events, err := s.BoardingRepo.EventsForTrip(ctx, tripID)
	if err != nil {
		return data, err
	}
	vehicles, err := s.VehicleRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return data, err
	}

	onBoard := map[int64]bool{}
	for key, ev := range boarding.ActiveBoardings(events) {
		if ev.VehicleID == vehicleID {
			onBoard[key.PersonID] = true
		}
	}

	data = ManifestData{
		Trip:      trip,
		Vehicle:   vehicle,
		People:    people,
		OnBoard:   onBoard,
		Occupancy: boarding.Recompute(events, vehicles).ByVehicle[vehicleID],
	}
	return data, nil
}

// GenerateManifest returns the PDF bytes and a download filename.
func (s ManifestService) GenerateManifest(ctx context.Context, tripID, vehicleID int64) ([]byte, string, error) {
	data, err := s.load(ctx, tripID, vehicleID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "manifest", "generate",
		fmt.Sprintf("trip_id=%d vehicle_id=%d", tripID, vehicleID))
	return buildManifestPDF(data)
}

func buildManifestPDF(d ManifestData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Boarding Manifest", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOARDING MANIFEST")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	header := []string{
		fmt.Sprintf("Trip      : %s (%s - %s)", safe(d.Trip.Name), d.Trip.StartDate, d.Trip.EndDate),
		fmt.Sprintf("Vehicle   : %s", utils.FirstNonEmpty(d.Vehicle.Name, d.Vehicle.Code, "-")),
		fmt.Sprintf("Boarded   : %d / %d (%d%%)", d.Occupancy.Boarded, d.Occupancy.Capacity, d.Occupancy.Percentage),
		fmt.Sprintf("Mode      : %s", safe(d.Trip.BoardingMode)),
		fmt.Sprintf("Generated : %s UTC", utils.FormatDateTime(utils.NowUTC())),
	}
	for _, line := range header {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(70, 7, "Name", "1", 0, "", false, 0, "")
	pdf.CellFormat(50, 7, "Scan code", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "On board", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Leader", "1", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, p := range d.People {
		if d.Trip.BoardingMode == models.BoardingModeAssigned &&
			p.AssignedVehicleID != 0 && p.AssignedVehicleID != d.Vehicle.ID && !d.OnBoard[p.ID] {
			continue
		}
		onBoard := "-"
		if d.OnBoard[p.ID] {
			onBoard = "yes"
		}
		leader := "-"
		if p.Leader {
			leader = "yes"
		}
		pdf.CellFormat(70, 7, safe(p.Name), "1", 0, "", false, 0, "")
		pdf.CellFormat(50, 7, safe(p.ScanCode), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, onBoard, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, leader, "1", 1, "", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("manifest-trip%d-%s.pdf", d.Trip.ID, safeFilenamePart(d.Vehicle.Code))
	return buf.Bytes(), filename, nil
}

func safe(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "vehicle"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '-'
		}
	}, s)
}
