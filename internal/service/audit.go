package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"battle/internal/models"
	"battle/internal/repository"
)

// auditRecorder écrit les événements du journal d'audit et les diffuse
// aux clients websocket abonnés. L'écriture du journal ne doit jamais
// faire échouer l'opération de jeu : les erreurs sont loguées.
type auditRecorder struct {
	logs repository.LogRepositoryInterface
	hub  *Hub
}

func newAuditRecorder(logs repository.LogRepositoryInterface, hub *Hub) *auditRecorder {
	return &auditRecorder{logs: logs, hub: hub}
}

// Record ajoute une entrée au journal et la diffuse
func (a *auditRecorder) Record(battleID uuid.UUID, eventType string, payload models.LogPayload) {
	entry := &models.BattleLog{
		ID:        uuid.New(),
		BattleID:  battleID,
		EventType: eventType,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	if err := a.logs.Create(entry); err != nil {
		logrus.WithFields(logrus.Fields{
			"battle_id":  battleID,
			"event_type": eventType,
			"error":      err.Error(),
		}).Error("Failed to write battle log")
		return
	}

	if a.hub != nil {
		a.hub.Publish(battleID, entry)
	}
}
