package socket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"boardops/internal/domain/models"

	"github.com/gorilla/websocket"
)

// Push notification types consumed by scanning stations. Consumers must
// tolerate gaps and duplicates; the occupancy aggregator merges idempotently.
const (
	EventPersonBoarded       = "person-boarded"
	EventPersonUnboarded     = "person-unboarded"
	EventVehicleCountUpdated = "vehicle-count-updated"
)

// Notification is the wire payload pushed to subscribed stations.
type Notification struct {
	Type      string            `json:"type"`
	TripID    int64             `json:"tripId"`
	VehicleID int64             `json:"vehicleId"`
	Person    *models.Person    `json:"person,omitempty"`
	BusStatus *models.BusStatus `json:"busStatus,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// GroupKey names the per-vehicle subscription group a station joins when it
// selects a vehicle.
func GroupKey(tripID, vehicleID int64) string {
	return fmt.Sprintf("trip:%d:vehicle:%d", tripID, vehicleID)
}

// Hub tracks WebSocket clients per vehicle group.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[string]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{
		groups: make(map[string]map[string]*websocket.Conn),
	}
}

// Join subscribes a client connection to a group.
func (h *Hub) Join(group, clientID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.groups[group] == nil {
		h.groups[group] = make(map[string]*websocket.Conn)
	}
	h.groups[group][clientID] = conn
	log.Printf("ws client %s joined %s", clientID, group)
}

// Leave removes a client from a group.
func (h *Hub) Leave(group, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.groups[group]; ok {
		if _, ok := clients[clientID]; ok {
			delete(clients, clientID)
			log.Printf("ws client %s left %s", clientID, group)
		}
		if len(clients) == 0 {
			delete(h.groups, group)
		}
	}
}

// Broadcast sends a notification to every client in the group. A failed
// write drops that client; delivery is best effort, the event log on the
// server stays the source of truth.
func (h *Hub) Broadcast(group string, n Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("ws marshal failed: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for clientID, conn := range h.groups[group] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("ws write to %s failed, dropping: %v", clientID, err)
			conn.Close()
			delete(h.groups[group], clientID)
		}
	}
}

// ClientCount reports the subscribers of a group, for the system endpoint.
func (h *Hub) ClientCount(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}
