package repository

import (
	"fmt"

	"github.com/google/uuid"

	"battle/internal/database"
	"battle/internal/models"
)

// LogRepositoryInterface définit les méthodes du repository journal d'audit
type LogRepositoryInterface interface {
	Create(log *models.BattleLog) error
	GetByBattle(battleID uuid.UUID, limit int) ([]*models.BattleLog, error)
}

// LogRepository implémente l'interface LogRepositoryInterface
type LogRepository struct {
	db *database.DB
}

// NewLogRepository crée une nouvelle instance du repository journal
func NewLogRepository(db *database.DB) LogRepositoryInterface {
	return &LogRepository{db: db}
}

// Create ajoute une entrée au journal d'audit
func (r *LogRepository) Create(log *models.BattleLog) error {
	query := `
		INSERT INTO battle_logs (id, battle_id, event_type, payload, created_at)
		VALUES (:id, :battle_id, :event_type, :payload, :created_at)`

	if _, err := r.db.NamedExec(query, log); err != nil {
		return fmt.Errorf("failed to create battle log: %w", err)
	}

	return nil
}

// GetByBattle récupère les entrées de journal d'une bataille,
// les plus récentes d'abord
func (r *LogRepository) GetByBattle(battleID uuid.UUID, limit int) ([]*models.BattleLog, error) {
	var logs []*models.BattleLog

	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, battle_id, event_type, payload, created_at
		FROM battle_logs
		WHERE battle_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	if err := r.db.Select(&logs, query, battleID, limit); err != nil {
		return nil, fmt.Errorf("failed to get battle logs: %w", err)
	}

	return logs, nil
}
