package handlers

import (
	"net/http"

	"boardops/internal/domain/models"
	"boardops/internal/http/middleware"
	"boardops/internal/repositories"
	"boardops/internal/services"
	"boardops/internal/socket"
	"boardops/internal/utils"

	"github.com/gin-gonic/gin"
)

// ScanHandler carries the push hub; everything else is built per request.
type ScanHandler struct {
	Hub *socket.Hub
}

// POST /api/scan is the authoritative boarding endpoint. The response always
// states the outcome; HTTP errors mean the scan was not decided at all.
func (h ScanHandler) Scan(c *gin.Context) {
	var req models.ScanRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.TripID <= 0 || req.VehicleID <= 0 {
		RespondError(c, http.StatusBadRequest, "tripId and vehicleId are required", nil)
		return
	}
	req.ScanCode = utils.NormalizeCode(req.ScanCode)
	if req.ScanCode == "" {
		RespondError(c, http.StatusBadRequest, "scanCode is required", nil)
		return
	}

	svc := services.ScanService{
		TripRepo:     repositories.TripRepository{},
		VehicleRepo:  repositories.VehicleRepository{},
		PersonRepo:   repositories.PersonRepository{},
		BoardingRepo: repositories.BoardingRepository{},
		Hub:          h.Hub,
		RequestID:    middleware.GetRequestID(c),
	}
	resp, err := svc.ProcessScan(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
