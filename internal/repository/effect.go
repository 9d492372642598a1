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

// EffectRepositoryInterface définit les méthodes du repository statut
type EffectRepositoryInterface interface {
	Create(effect *models.StatusEffect) error
	GetByID(id uuid.UUID) (*models.StatusEffect, error)
	Update(effect *models.StatusEffect) error
	Delete(id uuid.UUID) error
	GetByCharacter(characterID uuid.UUID) ([]*models.StatusEffect, error)
	GetByCharacterAndKind(characterID uuid.UUID, kind models.EffectKind) ([]*models.StatusEffect, error)
	DeleteByCharacterAndKind(characterID uuid.UUID, kind models.EffectKind) (int64, error)
	GetByBattle(battleID uuid.UUID) ([]*models.StatusEffect, error)
}

// EffectRepository implémente l'interface EffectRepositoryInterface
type EffectRepository struct {
	db *database.DB
}

// NewEffectRepository crée une nouvelle instance du repository statut
func NewEffectRepository(db *database.DB) EffectRepositoryInterface {
	return &EffectRepository{db: db}
}

// Create crée un nouveau statut
func (r *EffectRepository) Create(effect *models.StatusEffect) error {
	query := `
		INSERT INTO status_effects (
			id, battle_id, character_id, kind, amount, remaining_turns,
			resolved, created_at, updated_at
		) VALUES (
			:id, :battle_id, :character_id, :kind, :amount, :remaining_turns,
			:resolved, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExec(query, effect); err != nil {
		return fmt.Errorf("failed to create status effect: %w", err)
	}

	return nil
}

// GetByID récupère un statut par son ID
func (r *EffectRepository) GetByID(id uuid.UUID) (*models.StatusEffect, error) {
	var effect models.StatusEffect

	query := `
		SELECT id, battle_id, character_id, kind, amount, remaining_turns,
		       resolved, created_at, updated_at
		FROM status_effects
		WHERE id = $1`

	if err := r.db.Get(&effect, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("status effect %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get status effect: %w", err)
	}

	return &effect, nil
}

// Update met à jour un statut
func (r *EffectRepository) Update(effect *models.StatusEffect) error {
	effect.UpdatedAt = time.Now()

	query := `
		UPDATE status_effects SET
			amount = :amount,
			remaining_turns = :remaining_turns,
			resolved = :resolved,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExec(query, effect)
	if err != nil {
		return fmt.Errorf("failed to update status effect: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("status effect %s: %w", effect.ID, models.ErrNotFound)
	}

	return nil
}

// Delete supprime un statut
func (r *EffectRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM status_effects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete status effect: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("status effect %s: %w", id, models.ErrNotFound)
	}

	return nil
}

// GetByCharacter récupère tous les statuts actifs d'un personnage
func (r *EffectRepository) GetByCharacter(characterID uuid.UUID) ([]*models.StatusEffect, error) {
	var effects []*models.StatusEffect

	query := `
		SELECT id, battle_id, character_id, kind, amount, remaining_turns,
		       resolved, created_at, updated_at
		FROM status_effects
		WHERE character_id = $1
		ORDER BY created_at ASC`

	if err := r.db.Select(&effects, query, characterID); err != nil {
		return nil, fmt.Errorf("failed to get effects by character: %w", err)
	}

	return effects, nil
}

// GetByCharacterAndKind récupère les statuts d'un kind donné pour un
// personnage, du plus ancien au plus récent
func (r *EffectRepository) GetByCharacterAndKind(characterID uuid.UUID, kind models.EffectKind) ([]*models.StatusEffect, error) {
	var effects []*models.StatusEffect

	query := `
		SELECT id, battle_id, character_id, kind, amount, remaining_turns,
		       resolved, created_at, updated_at
		FROM status_effects
		WHERE character_id = $1 AND kind = $2
		ORDER BY created_at ASC`

	if err := r.db.Select(&effects, query, characterID, kind); err != nil {
		return nil, fmt.Errorf("failed to get effects by character and kind: %w", err)
	}

	return effects, nil
}

// DeleteByCharacterAndKind supprime tous les statuts d'un kind donné
// pour un personnage, retourne le nombre supprimé
func (r *EffectRepository) DeleteByCharacterAndKind(characterID uuid.UUID, kind models.EffectKind) (int64, error) {
	result, err := r.db.Exec(
		`DELETE FROM status_effects WHERE character_id = $1 AND kind = $2`,
		characterID, kind,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete effects by kind: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected, nil
}

// GetByBattle récupère tous les statuts actifs d'une bataille
func (r *EffectRepository) GetByBattle(battleID uuid.UUID) ([]*models.StatusEffect, error) {
	var effects []*models.StatusEffect

	query := `
		SELECT id, battle_id, character_id, kind, amount, remaining_turns,
		       resolved, created_at, updated_at
		FROM status_effects
		WHERE battle_id = $1
		ORDER BY created_at ASC`

	if err := r.db.Select(&effects, query, battleID); err != nil {
		return nil, fmt.Errorf("failed to get effects by battle: %w", err)
	}

	return effects, nil
}
