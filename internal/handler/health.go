package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"battle/internal/database"
)

// HealthHandler gère les endpoints de santé
type HealthHandler struct {
	db *database.DB
}

// NewHealthHandler crée une nouvelle instance du handler health
func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

// HealthCheck endpoint de vérification de santé
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"
	dbStatus := "up"
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status = "degraded"
			dbStatus = "down"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":    status,
		"service":   "battle-service",
		"version":   "1.0.0",
		"database":  dbStatus,
		"timestamp": time.Now().Unix(),
	})
}
