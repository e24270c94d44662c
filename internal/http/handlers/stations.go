package handlers

import (
	"net/http"
	"strings"

	"boardops/internal/domain/models"
	"boardops/internal/repositories"

	"github.com/gin-gonic/gin"
)

type stationPayload struct {
	Name    string `json:"name" binding:"required"`
	Kind    string `json:"kind" binding:"required"`
	Address string `json:"address"`
}

func validStationKind(k string) bool {
	return k == models.StationKindPickup || k == models.StationKindDropoff
}

// GET /api/stations
func GetStations(c *gin.Context) {
	stations, err := repositories.StationRepository{}.List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stations)
}

// GET /api/stations/:id
func GetStationByID(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	s, err := repositories.StationRepository{}.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// POST /api/stations
func CreateStation(c *gin.Context) {
	var payload stationPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	kind := strings.ToLower(strings.TrimSpace(payload.Kind))
	if !validStationKind(kind) {
		RespondError(c, http.StatusBadRequest, "kind must be pickup or dropoff", nil)
		return
	}

	s := models.Station{
		Name:    strings.TrimSpace(payload.Name),
		Kind:    kind,
		Address: strings.TrimSpace(payload.Address),
	}
	created, err := repositories.StationRepository{}.Create(c.Request.Context(), s)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /api/stations/:id
func UpdateStation(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var payload stationPayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	kind := strings.ToLower(strings.TrimSpace(payload.Kind))
	if !validStationKind(kind) {
		RespondError(c, http.StatusBadRequest, "kind must be pickup or dropoff", nil)
		return
	}

	s := models.Station{
		ID:      id,
		Name:    strings.TrimSpace(payload.Name),
		Kind:    kind,
		Address: strings.TrimSpace(payload.Address),
	}
	repo := repositories.StationRepository{}
	if err := repo.Update(c.Request.Context(), s); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// DELETE /api/stations/:id
func DeleteStation(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.StationRepository{}
	if err := repo.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "station deleted"})
}
