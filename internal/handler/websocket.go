package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"battle/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler diffuse le journal d'audit d'une bataille en temps réel
type WebSocketHandler struct {
	hub *service.Hub
}

// NewWebSocketHandler crée une nouvelle instance du handler websocket
func NewWebSocketHandler(hub *service.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
	}
}

// Serve abonne le client aux événements d'une bataille
func (h *WebSocketHandler) Serve(c *gin.Context) {
	battleID, ok := parseUUIDParam(c, "battleId")
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade websocket connection")
		return
	}

	h.hub.Subscribe(battleID, conn)
	defer func() {
		h.hub.Unsubscribe(battleID, conn)
		conn.Close()
	}()

	// Boucle de lecture : le flux est unidirectionnel, on ne fait que
	// détecter la fermeture côté client
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
