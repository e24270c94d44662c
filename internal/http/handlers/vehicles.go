package handlers

import (
	"net/http"
	"strings"

	"boardops/internal/domain/models"
	"boardops/internal/repositories"

	"github.com/gin-gonic/gin"
)

type vehiclePayload struct {
	TripID   int64  `json:"tripId"`
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity" binding:"required"`
}

// GET /api/vehicles?tripId=4
func GetVehicles(c *gin.Context) {
	ctx := c.Request.Context()
	repo := repositories.VehicleRepository{}

	if tripID := strings.TrimSpace(c.Query("tripId")); tripID != "" {
		id, ok := queryID(c, "tripId")
		if !ok {
			return
		}
		vehicles, err := repo.ListByTrip(ctx, id)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, vehicles)
		return
	}

	vehicles, err := repo.List(ctx)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// GET /api/vehicles/:id
func GetVehicleByID(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	v, err := repositories.VehicleRepository{}.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if payload.Capacity <= 0 {
		RespondError(c, http.StatusBadRequest, "capacity must be positive", nil)
		return
	}

	v := models.Vehicle{
		TripID:   payload.TripID,
		Code:     strings.TrimSpace(payload.Code),
		Name:     strings.TrimSpace(payload.Name),
		Capacity: payload.Capacity,
	}
	created, err := repositories.VehicleRepository{}.Create(c.Request.Context(), v)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /api/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var payload vehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if payload.Capacity <= 0 {
		RespondError(c, http.StatusBadRequest, "capacity must be positive", nil)
		return
	}

	v := models.Vehicle{
		ID:       id,
		TripID:   payload.TripID,
		Code:     strings.TrimSpace(payload.Code),
		Name:     strings.TrimSpace(payload.Name),
		Capacity: payload.Capacity,
	}
	repo := repositories.VehicleRepository{}
	if err := repo.Update(c.Request.Context(), v); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type assignPayload struct {
	TripID int64 `json:"tripId" binding:"required"`
}

// PUT /api/vehicles/:id/assign
func AssignVehicle(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var payload assignPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	repo := repositories.VehicleRepository{}
	if err := repo.AssignToTrip(c.Request.Context(), id, payload.TripID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle assigned", "vehicleId": id, "tripId": payload.TripID})
}

// DELETE /api/vehicles/:id
func DeleteVehicle(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.VehicleRepository{}
	if err := repo.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}
