package service

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Hub diffuse les événements du journal d'audit aux clients websocket
// abonnés à une bataille
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*websocket.Conn]bool
}

// NewHub crée un nouveau hub de diffusion
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*websocket.Conn]bool),
	}
}

// Subscribe abonne une connexion aux événements d'une bataille
func (h *Hub) Subscribe(battleID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[battleID] == nil {
		h.clients[battleID] = make(map[*websocket.Conn]bool)
	}
	h.clients[battleID][conn] = true

	logrus.WithField("battle_id", battleID).Debug("Websocket client subscribed")
}

// Unsubscribe détache une connexion
func (h *Hub) Unsubscribe(battleID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[battleID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, battleID)
		}
	}
}

// Publish diffuse un événement à tous les abonnés d'une bataille.
// Les connexions en échec sont détachées.
func (h *Hub) Publish(battleID uuid.UUID, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal websocket event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients[battleID] {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(h.clients[battleID], conn)
		}
	}
}

// SubscriberCount retourne le nombre d'abonnés d'une bataille
func (h *Hub) SubscriberCount(battleID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[battleID])
}
