package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"battle/internal/models"
	"battle/internal/monitoring"
	"battle/internal/service"
)

// TriggerHandler gère les endpoints du suivi picto
type TriggerHandler struct {
	triggerService service.TriggerServiceInterface
}

// NewTriggerHandler crée une nouvelle instance du handler picto
func NewTriggerHandler(triggerService service.TriggerServiceInterface) *TriggerHandler {
	return &TriggerHandler{
		triggerService: triggerService,
	}
}

// HandleEvent route un événement de jeu vers les règles picto
func (h *TriggerHandler) HandleEvent(c *gin.Context) {
	var req models.TriggerEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	results, err := h.triggerService.HandleEvent(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	for _, result := range results {
		monitoring.PictoTriggersTotal.WithLabelValues(string(result.Outcome)).Inc()
	}

	c.JSON(http.StatusOK, gin.H{
		"results":    results,
		"total":      len(results),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// ResetTurn remet à zéro les compteurs per_turn d'une bataille
func (h *TriggerHandler) ResetTurn(c *gin.Context) {
	battleID, ok := parseUUIDParam(c, "battleId")
	if !ok {
		return
	}

	count, err := h.triggerService.ResetTurn(battleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"triggers_reset": count,
		"request_id":     c.GetHeader("X-Request-ID"),
	})
}

// GetBattleTriggers liste les compteurs d'activation d'une bataille
func (h *TriggerHandler) GetBattleTriggers(c *gin.Context) {
	battleID, ok := parseUUIDParam(c, "battleId")
	if !ok {
		return
	}

	triggers, err := h.triggerService.GetBattleTriggers(battleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"triggers":   triggers,
		"total":      len(triggers),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}
