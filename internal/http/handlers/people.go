package handlers

import (
	"net/http"
	"strings"

	"boardops/internal/domain/models"
	"boardops/internal/http/middleware"
	"boardops/internal/repositories"
	"boardops/internal/services"
	"boardops/internal/utils"

	"github.com/gin-gonic/gin"
)

type personPayload struct {
	TripID            int64  `json:"tripId" binding:"required"`
	Name              string `json:"name" binding:"required"`
	Phone             string `json:"phone"`
	ScanCode          string `json:"scanCode" binding:"required"`
	AssignedVehicleID int64  `json:"assignedVehicleId"`
	Leader            bool   `json:"leader"`
}

// GET /api/trips/:id/people
func GetTripPeople(c *gin.Context) {
	tripID, ok := PathID(c, "id")
	if !ok {
		return
	}
	people, err := repositories.PersonRepository{}.ListByTrip(c.Request.Context(), tripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, people)
}

// POST /api/people
func CreatePerson(c *gin.Context) {
	var payload personPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	p := models.Person{
		TripID:            payload.TripID,
		Name:              strings.TrimSpace(payload.Name),
		Phone:             strings.TrimSpace(payload.Phone),
		ScanCode:          utils.NormalizeCode(payload.ScanCode),
		AssignedVehicleID: payload.AssignedVehicleID,
		Leader:            payload.Leader,
	}
	if p.ScanCode == "" {
		RespondError(c, http.StatusBadRequest, "scanCode is required", nil)
		return
	}
	created, err := repositories.PersonRepository{}.Create(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /api/people/:id
func UpdatePerson(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var payload personPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	p := models.Person{
		ID:                id,
		TripID:            payload.TripID,
		Name:              strings.TrimSpace(payload.Name),
		Phone:             strings.TrimSpace(payload.Phone),
		ScanCode:          utils.NormalizeCode(payload.ScanCode),
		AssignedVehicleID: payload.AssignedVehicleID,
		Leader:            payload.Leader,
	}
	repo := repositories.PersonRepository{}
	if err := repo.Update(c.Request.Context(), p); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /api/people/:id soft-deletes so past boarding events keep their
// person reference.
func DeletePerson(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.PersonRepository{}
	if err := repo.SoftDelete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "person removed"})
}

type importPayload struct {
	TripID int64                `json:"tripId" binding:"required"`
	Rows   []services.ImportRow `json:"rows" binding:"required"`
}

func importService(c *gin.Context) services.ImportService {
	return services.ImportService{
		PersonRepo: repositories.PersonRepository{},
		RequestID:  middleware.GetRequestID(c),
	}
}

// POST /api/people/import/preview
func PreviewImport(c *gin.Context) {
	var payload importPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	preview, err := importService(c).Preview(c.Request.Context(), payload.TripID, payload.Rows)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// POST /api/people/import/execute
func ExecuteImport(c *gin.Context) {
	var payload importPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	importID, created, err := importService(c).Execute(c.Request.Context(), payload.TripID, payload.Rows)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"importId": importID, "created": created})
}

// DELETE /api/people/import/:importId
func RollbackImport(c *gin.Context) {
	removed, err := importService(c).Rollback(c.Request.Context(), c.Param("importId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
