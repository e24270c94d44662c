package handlers

import (
	"net/http"

	"boardops/internal/boarding"
	"boardops/internal/domain/models"
	"boardops/internal/http/middleware"
	"boardops/internal/repositories"
	"boardops/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/trips
func GetTrips(c *gin.Context) {
	trips, err := repositories.TripRepository{}.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GET /api/trips/:id
func GetTripByID(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	trip, err := repositories.TripRepository{}.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// POST /api/trips
func CreateTrip(c *gin.Context) {
	var payload models.Trip
	if !BindJSONOrError(c, &payload) {
		return
	}

	svc := services.TripService{
		TripRepo:  repositories.TripRepository{},
		RequestID: middleware.GetRequestID(c),
	}
	created, err := svc.Create(c.Request.Context(), payload)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /api/trips/:id
func UpdateTrip(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var payload models.Trip
	if !BindJSONOrError(c, &payload) {
		return
	}
	payload.ID = id

	repo := repositories.TripRepository{}
	current, err := repo.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	// Status moves only through the dedicated endpoint.
	payload.Status = current.Status

	if err := repo.Update(c.Request.Context(), payload); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

type tripStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// PUT /api/trips/:id/status
func ChangeTripStatus(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var payload tripStatusPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	svc := services.TripService{
		TripRepo:  repositories.TripRepository{},
		RequestID: middleware.GetRequestID(c),
	}
	trip, err := svc.ChangeStatus(c.Request.Context(), id, payload.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// DELETE /api/trips/:id cancels the trip; rows are never removed so the
// boarding history stays auditable.
func CancelTrip(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	svc := services.TripService{
		TripRepo:  repositories.TripRepository{},
		RequestID: middleware.GetRequestID(c),
	}
	trip, err := svc.Cancel(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GET /api/trips/:id/occupancy
func GetTripOccupancy(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	events, err := repositories.BoardingRepository{}.EventsForTrip(ctx, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	vehicles, err := repositories.VehicleRepository{}.ListByTrip(ctx, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	summary := boarding.Recompute(events, vehicles)
	c.JSON(http.StatusOK, summary)
}

// GET /api/trips/:id/events returns the append-only boarding log for audit.
func GetTripEvents(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	events, err := repositories.BoardingRepository{}.EventsForTrip(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GET /api/trips/:id/vehicles/:vehicleId/manifest returns the printable
// manifest PDF (inline).
func GetTripManifest(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	vehicleID, ok := PathID(c, "vehicleId")
	if !ok {
		return
	}

	svc := services.ManifestService{
		TripRepo:     repositories.TripRepository{},
		VehicleRepo:  repositories.VehicleRepository{},
		PersonRepo:   repositories.PersonRepository{},
		BoardingRepo: repositories.BoardingRepository{},
		RequestID:    middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.GenerateManifest(c.Request.Context(), tripID, vehicleID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
