package api

import (
	"log"
	stdhttp "net/http"

	intconfig "boardops/internal/config"
	h "boardops/internal/http/handlers"
	"boardops/internal/http/middleware"
	"boardops/internal/socket"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, hub *socket.Hub) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	secret := env.JWTSecretBytes()
	scan := h.ScanHandler{Hub: hub}
	ws := h.WebSocketHandler{Hub: hub, Secret: secret}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// WebSocket authenticates via query token, not the Bearer header.
		api.GET("/ws", ws.ServeWs)

		protected := api.Group("")
		protected.Use(middleware.RequireAuth(secret))

		// Scanning
		protected.POST("/scan", scan.Scan)

		// Trips
		trips := protected.Group("/trips")
		trips.GET("", h.GetTrips)
		trips.GET("/:id", h.GetTripByID)
		trips.POST("", h.CreateTrip)
		trips.PUT("/:id", h.UpdateTrip)
		trips.PUT("/:id/status", middleware.RequireRoles("admin", "organizer"), h.ChangeTripStatus)
		trips.DELETE("/:id", middleware.RequireRoles("admin", "organizer"), h.CancelTrip)
		trips.GET("/:id/occupancy", h.GetTripOccupancy)
		trips.GET("/:id/events", h.GetTripEvents)
		trips.GET("/:id/people", h.GetTripPeople)
		trips.GET("/:id/vehicles/:vehicleId/manifest", h.GetTripManifest)

		// Vehicles
		vehicles := protected.Group("/vehicles")
		vehicles.GET("", h.GetVehicles)
		vehicles.GET("/:id", h.GetVehicleByID)
		vehicles.POST("", h.CreateVehicle)
		vehicles.PUT("/:id", h.UpdateVehicle)
		vehicles.PUT("/:id/assign", h.AssignVehicle)
		vehicles.DELETE("/:id", h.DeleteVehicle)

		// People & roster import
		people := protected.Group("/people")
		people.POST("", h.CreatePerson)
		people.PUT("/:id", h.UpdatePerson)
		people.DELETE("/:id", h.DeletePerson)
		people.POST("/import/preview", h.PreviewImport)
		people.POST("/import/execute", middleware.RequireRoles("admin", "organizer"), h.ExecuteImport)
		people.DELETE("/import/:importId", middleware.RequireRoles("admin", "organizer"), h.RollbackImport)

		// Stations
		stations := protected.Group("/stations")
		stations.GET("", h.GetStations)
		stations.GET("/:id", h.GetStationByID)
		stations.POST("", h.CreateStation)
		stations.PUT("/:id", h.UpdateStation)
		stations.DELETE("/:id", h.DeleteStation)
	}

	h.SetRouter(r)
	return r
}
