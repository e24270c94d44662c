package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"boardops/internal/http/middleware"
	"boardops/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler subscribes scanning stations to live boarding updates
// for one vehicle group.
type WebSocketHandler struct {
	Hub    *socket.Hub
	Secret []byte
}

// GET /api/ws?token=...&tripId=...&vehicleId=...&deviceId=...
//
// The token travels as a query parameter because browser WebSocket clients
// cannot set an Authorization header.
func (h WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is required"})
		return
	}
	if _, err := middleware.ParseToken(h.Secret, tokenString); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	tripID, err := strconv.ParseInt(c.Query("tripId"), 10, 64)
	if err != nil || tripID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tripId"})
		return
	}
	vehicleID, err := strconv.ParseInt(c.Query("vehicleId"), 10, 64)
	if err != nil || vehicleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicleId"})
		return
	}

	clientID := c.Query("deviceId")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	group := socket.GroupKey(tripID, vehicleID)
	h.Hub.Join(group, clientID, conn)

	defer func() {
		h.Hub.Leave(group, clientID)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws client %s closed unexpectedly: %v", clientID, err)
			}
			break
		}
	}
}
