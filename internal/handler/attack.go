package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"battle/internal/models"
	"battle/internal/monitoring"
	"battle/internal/service"
)

// AttackHandler gère les endpoints du pipeline d'attaque
type AttackHandler struct {
	attackService service.AttackServiceInterface
}

// NewAttackHandler crée une nouvelle instance du handler attaque
func NewAttackHandler(attackService service.AttackServiceInterface) *AttackHandler {
	return &AttackHandler{
		attackService: attackService,
	}
}

// DeclareAttack déclare une attaque (puissance en attente ou dégâts directs)
func (h *AttackHandler) DeclareAttack(c *gin.Context) {
	var req models.DeclareAttackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	attack, err := h.attackService.DeclareAttack(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	phase := "immediate"
	if attack.IsPending() {
		phase = "pending"
	}
	monitoring.AttacksTotal.WithLabelValues(phase).Inc()

	c.JSON(http.StatusCreated, gin.H{
		"attack":     attack,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// ResolveAttack applique la réponse défensive à une attaque en attente.
// Une attaque déjà résolue est retournée telle quelle.
func (h *AttackHandler) ResolveAttack(c *gin.Context) {
	attackID, ok := parseUUIDParam(c, "attackId")
	if !ok {
		return
	}

	var req models.ResolveAttackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}
	req.AttackID = attackID

	attack, err := h.attackService.ResolveAttack(&req)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyResolved) {
			c.JSON(http.StatusOK, gin.H{
				"attack":     attack,
				"message":    "Attack already resolved",
				"request_id": c.GetHeader("X-Request-ID"),
			})
			return
		}
		respondError(c, err)
		return
	}

	monitoring.AttacksTotal.WithLabelValues("resolved").Inc()

	c.JSON(http.StatusOK, gin.H{
		"attack":     attack,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// AllowCounters ouvre toutes les attaques d'une bataille à la contre-attaque
func (h *AttackHandler) AllowCounters(c *gin.Context) {
	battleID, ok := parseUUIDParam(c, "battleId")
	if !ok {
		return
	}

	count, err := h.attackService.AllowCounters(battleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attacks_updated": count,
		"request_id":      c.GetHeader("X-Request-ID"),
	})
}

// GetAttack récupère une attaque
func (h *AttackHandler) GetAttack(c *gin.Context) {
	attackID, ok := parseUUIDParam(c, "attackId")
	if !ok {
		return
	}

	attack, err := h.attackService.GetAttack(attackID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attack":     attack,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// GetBattleAttacks liste les attaques d'une bataille
func (h *AttackHandler) GetBattleAttacks(c *gin.Context) {
	battleID, ok := parseUUIDParam(c, "battleId")
	if !ok {
		return
	}

	attacks, err := h.attackService.GetBattleAttacks(battleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attacks":    attacks,
		"total":      len(attacks),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// GetPendingAttacks liste les attaques en attente de défense
func (h *AttackHandler) GetPendingAttacks(c *gin.Context) {
	battleID, ok := parseUUIDParam(c, "battleId")
	if !ok {
		return
	}

	attacks, err := h.attackService.GetPendingAttacks(battleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attacks":    attacks,
		"total":      len(attacks),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}
