package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"battle/internal/models"
	"battle/internal/service"
)

// TurnHandler gère les endpoints de l'ordonnanceur de tours
type TurnHandler struct {
	turnService service.TurnServiceInterface
}

// NewTurnHandler crée une nouvelle instance du handler de tours
func NewTurnHandler(turnService service.TurnServiceInterface) *TurnHandler {
	return &TurnHandler{
		turnService: turnService,
	}
}

// RollInitiative enregistre ou relance le jet d'initiative d'un personnage
func (h *TurnHandler) RollInitiative(c *gin.Context) {
	var req models.RollInitiativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	initiative, err := h.turnService.RollInitiative(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"initiative": initiative,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// TakeTurn enregistre la prise d'un tour
func (h *TurnHandler) TakeTurn(c *gin.Context) {
	var req models.TakeTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	entry, err := h.turnService.TakeTurn(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"turn":       entry,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// GetTurnOrder retourne l'ordre d'action d'une bataille
func (h *TurnHandler) GetTurnOrder(c *gin.Context) {
	battleID, ok := parseUUIDParam(c, "battleId")
	if !ok {
		return
	}

	order, err := h.turnService.GetTurnOrder(battleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":      order,
		"total":      len(order),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// GetHistory retourne l'historique de tours d'une bataille
func (h *TurnHandler) GetHistory(c *gin.Context) {
	battleID, ok := parseUUIDParam(c, "battleId")
	if !ok {
		return
	}

	entries, err := h.turnService.GetHistory(battleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"turns":      entries,
		"total":      len(entries),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}
