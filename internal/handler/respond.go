package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"battle/internal/models"
)

// respondError traduit les erreurs sentinelles du moteur en statuts HTTP
func respondError(c *gin.Context, err error) {
	requestID := c.GetHeader("X-Request-ID")

	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "Resource not found",
			"details":    err.Error(),
			"request_id": requestID,
		})
	case errors.Is(err, models.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request",
			"details":    err.Error(),
			"request_id": requestID,
		})
	case errors.Is(err, models.ErrRerollForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error":      "Initiative reroll not allowed",
			"details":    err.Error(),
			"request_id": requestID,
		})
	default:
		logrus.WithError(err).Error("Unhandled service error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal server error",
			"details":    err.Error(),
			"request_id": requestID,
		})
	}
}

// parseUUIDParam parse un paramètre d'URL en UUID, répond 400 en cas
// d'échec
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid " + name,
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return uuid.Nil, false
	}
	return id, true
}
