package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"battle/internal/models"
	"battle/internal/monitoring"
	"battle/internal/service"
)

// EffectHandler gère les endpoints du grand livre des statuts
type EffectHandler struct {
	effectService service.EffectServiceInterface
}

// NewEffectHandler crée une nouvelle instance du handler statut
func NewEffectHandler(effectService service.EffectServiceInterface) *EffectHandler {
	return &EffectHandler{
		effectService: effectService,
	}
}

// ApplyEffect applique un statut à un personnage
func (h *EffectHandler) ApplyEffect(c *gin.Context) {
	var req models.ApplyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	result, err := h.effectService.ApplyEffect(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	monitoring.StatusEffectsTotal.WithLabelValues(string(req.Kind), result.Action).Inc()

	c.JSON(http.StatusOK, gin.H{
		"result":     result,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// ResolveEffect résout un statut actif selon la sémantique de son kind
func (h *EffectHandler) ResolveEffect(c *gin.Context) {
	var req models.ResolveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	result, err := h.effectService.ResolveEffect(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":     result,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// GetCharacterEffects liste les statuts actifs d'un personnage
func (h *EffectHandler) GetCharacterEffects(c *gin.Context) {
	characterID, ok := parseUUIDParam(c, "characterId")
	if !ok {
		return
	}

	effects, err := h.effectService.GetCharacterEffects(characterID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"effects":    effects,
		"total":      len(effects),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}
