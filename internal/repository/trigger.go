package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"battle/internal/database"
	"battle/internal/models"
)

// TriggerRepositoryInterface définit les méthodes du repository
// des compteurs d'activation picto
type TriggerRepositoryInterface interface {
	Create(trigger *models.AbilityTrigger) error
	Get(battleID, characterID uuid.UUID, abilityName string) (*models.AbilityTrigger, error)
	Update(trigger *models.AbilityTrigger) error
	GetByBattle(battleID uuid.UUID) ([]*models.AbilityTrigger, error)
	ResetPerTurn(battleID uuid.UUID) (int64, error)
	ResetByCharacter(battleID, characterID uuid.UUID) (int64, error)
	DeleteByBattle(battleID uuid.UUID) (int64, error)
}

// TriggerRepository implémente l'interface TriggerRepositoryInterface
type TriggerRepository struct {
	db *database.DB
}

// NewTriggerRepository crée une nouvelle instance du repository trigger
func NewTriggerRepository(db *database.DB) TriggerRepositoryInterface {
	return &TriggerRepository{db: db}
}

// Create crée un nouveau compteur d'activation
func (r *TriggerRepository) Create(trigger *models.AbilityTrigger) error {
	query := `
		INSERT INTO ability_triggers (
			id, battle_id, character_id, ability_name, effect_kind,
			times_triggered, last_turn_triggered, reset_policy,
			created_at, updated_at
		) VALUES (
			:id, :battle_id, :character_id, :ability_name, :effect_kind,
			:times_triggered, :last_turn_triggered, :reset_policy,
			:created_at, :updated_at
		)`

	if _, err := r.db.NamedExec(query, trigger); err != nil {
		return fmt.Errorf("failed to create ability trigger: %w", err)
	}

	return nil
}

// Get récupère le compteur d'une capacité pour un personnage en bataille
func (r *TriggerRepository) Get(battleID, characterID uuid.UUID, abilityName string) (*models.AbilityTrigger, error) {
	var trigger models.AbilityTrigger

	query := `
		SELECT id, battle_id, character_id, ability_name, effect_kind,
		       times_triggered, last_turn_triggered, reset_policy,
		       created_at, updated_at
		FROM ability_triggers
		WHERE battle_id = $1 AND character_id = $2 AND ability_name = $3`

	if err := r.db.Get(&trigger, query, battleID, characterID, abilityName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ability trigger %s: %w", abilityName, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ability trigger: %w", err)
	}

	return &trigger, nil
}

// Update met à jour un compteur d'activation
func (r *TriggerRepository) Update(trigger *models.AbilityTrigger) error {
	trigger.UpdatedAt = time.Now()

	query := `
		UPDATE ability_triggers SET
			times_triggered = :times_triggered,
			last_turn_triggered = :last_turn_triggered,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExec(query, trigger)
	if err != nil {
		return fmt.Errorf("failed to update ability trigger: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("ability trigger %s: %w", trigger.ID, models.ErrNotFound)
	}

	return nil
}

// GetByBattle récupère tous les compteurs d'une bataille
func (r *TriggerRepository) GetByBattle(battleID uuid.UUID) ([]*models.AbilityTrigger, error) {
	var triggers []*models.AbilityTrigger

	query := `
		SELECT id, battle_id, character_id, ability_name, effect_kind,
		       times_triggered, last_turn_triggered, reset_policy,
		       created_at, updated_at
		FROM ability_triggers
		WHERE battle_id = $1
		ORDER BY created_at ASC`

	if err := r.db.Select(&triggers, query, battleID); err != nil {
		return nil, fmt.Errorf("failed to get triggers by battle: %w", err)
	}

	return triggers, nil
}

// ResetPerTurn remet à zéro les compteurs per_turn d'une bataille,
// retourne le nombre remis à zéro. Les compteurs permanents sont intacts.
func (r *TriggerRepository) ResetPerTurn(battleID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(
		`UPDATE ability_triggers SET times_triggered = 0, updated_at = $2
		 WHERE battle_id = $1 AND reset_policy = 'per_turn' AND times_triggered > 0`,
		battleID, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reset per-turn triggers: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected, nil
}

// ResetByCharacter remet à zéro les compteurs per_turn d'un personnage
func (r *TriggerRepository) ResetByCharacter(battleID, characterID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(
		`UPDATE ability_triggers SET times_triggered = 0, updated_at = $3
		 WHERE battle_id = $1 AND character_id = $2 AND reset_policy = 'per_turn' AND times_triggered > 0`,
		battleID, characterID, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reset character triggers: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected, nil
}

// DeleteByBattle purge tous les compteurs d'une bataille
func (r *TriggerRepository) DeleteByBattle(battleID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM ability_triggers WHERE battle_id = $1`, battleID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete triggers by battle: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected, nil
}
