package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"battle/internal/constants"
	"battle/internal/models"
	"battle/internal/monitoring"
	"battle/internal/service"
)

// BattleHandler gère les endpoints de cycle de vie et de roster
type BattleHandler struct {
	battleService service.BattleServiceInterface
}

// NewBattleHandler crée une nouvelle instance du handler bataille
func NewBattleHandler(battleService service.BattleServiceInterface) *BattleHandler {
	return &BattleHandler{
		battleService: battleService,
	}
}

// CreateBattle crée une nouvelle bataille
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req models.CreateBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	battle, err := h.battleService.CreateBattle(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	monitoring.BattlesTotal.WithLabelValues("created").Inc()

	c.JSON(http.StatusCreated, gin.H{
		"battle":     battle,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// GetBattle récupère une bataille avec ses relations
func (h *BattleHandler) GetBattle(c *gin.Context) {
	battleID, ok := parseUUIDParam(c, "battleId")
	if !ok {
		return
	}

	battle, err := h.battleService.GetBattle(battleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"battle":     battle,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// EndBattle clôt une bataille
func (h *BattleHandler) EndBattle(c *gin.Context) {
	battleID, ok := parseUUIDParam(c, "battleId")
	if !ok {
		return
	}

	battle, err := h.battleService.EndBattle(battleID)
	if err != nil {
		respondError(c, err)
		return
	}

	monitoring.BattlesTotal.WithLabelValues("ended").Inc()

	c.JSON(http.StatusOK, gin.H{
		"battle":     battle,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// AddCharacter engage un personnage dans une bataille
func (h *BattleHandler) AddCharacter(c *gin.Context) {
	battleID, ok := parseUUIDParam(c, "battleId")
	if !ok {
		return
	}

	var req models.AddCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	character, err := h.battleService.AddCharacter(battleID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"character":  character,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// GetCharacter récupère un personnage
func (h *BattleHandler) GetCharacter(c *gin.Context) {
	characterID, ok := parseUUIDParam(c, "characterId")
	if !ok {
		return
	}

	character, err := h.battleService.GetCharacter(characterID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"character":  character,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// AddModifier attache un modificateur de dégâts
func (h *BattleHandler) AddModifier(c *gin.Context) {
	var req models.AddModifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	modifier, err := h.battleService.AddModifier(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"modifier":   modifier,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// RemoveModifier détache un modificateur
func (h *BattleHandler) RemoveModifier(c *gin.Context) {
	modifierID, ok := parseUUIDParam(c, "modifierId")
	if !ok {
		return
	}

	if err := h.battleService.RemoveModifier(modifierID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Modifier removed",
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// GetCharacterModifiers liste les modificateurs d'un personnage
func (h *BattleHandler) GetCharacterModifiers(c *gin.Context) {
	characterID, ok := parseUUIDParam(c, "characterId")
	if !ok {
		return
	}

	modifiers, err := h.battleService.GetCharacterModifiers(characterID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"modifiers":  modifiers,
		"total":      len(modifiers),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// SetResistance crée ou remplace une résistance élémentaire
func (h *BattleHandler) SetResistance(c *gin.Context) {
	var req models.SetResistanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	resistance, err := h.battleService.SetResistance(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resistance": resistance,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// SetImmunity crée ou remplace une immunité de statut
func (h *BattleHandler) SetImmunity(c *gin.Context) {
	var req models.SetImmunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid request body",
			"details":    err.Error(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
		return
	}

	immunity, err := h.battleService.SetImmunity(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"immunity":   immunity,
		"request_id": c.GetHeader("X-Request-ID"),
	})
}

// GetLogs retourne le journal d'audit d'une bataille
func (h *BattleHandler) GetLogs(c *gin.Context) {
	battleID, ok := parseUUIDParam(c, "battleId")
	if !ok {
		return
	}

	limit := constants.DefaultLogLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "Invalid limit",
				"request_id": c.GetHeader("X-Request-ID"),
			})
			return
		}
		limit = parsed
	}

	logs, err := h.battleService.GetLogs(battleID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"battle_id": battleID,
		"count":     len(logs),
	}).Debug("Battle logs fetched")

	c.JSON(http.StatusOK, gin.H{
		"logs":       logs,
		"total":      len(logs),
		"request_id": c.GetHeader("X-Request-ID"),
	})
}
