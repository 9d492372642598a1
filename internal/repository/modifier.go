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

// ModifierRepositoryInterface définit les méthodes du repository modificateur
type ModifierRepositoryInterface interface {
	Create(modifier *models.DamageModifier) error
	GetByID(id uuid.UUID) (*models.DamageModifier, error)
	Update(modifier *models.DamageModifier) error
	Delete(id uuid.UUID) error
	GetByCharacter(characterID uuid.UUID) ([]*models.DamageModifier, error)
}

// ModifierRepository implémente l'interface ModifierRepositoryInterface
type ModifierRepository struct {
	db *database.DB
}

// NewModifierRepository crée une nouvelle instance du repository modificateur
func NewModifierRepository(db *database.DB) ModifierRepositoryInterface {
	return &ModifierRepository{db: db}
}

// Create crée un nouveau modificateur de dégâts
func (r *ModifierRepository) Create(modifier *models.DamageModifier) error {
	query := `
		INSERT INTO damage_modifiers (
			id, character_id, kind, multiplier, flat_bonus, condition,
			active, created_at, updated_at
		) VALUES (
			:id, :character_id, :kind, :multiplier, :flat_bonus, :condition,
			:active, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExec(query, modifier); err != nil {
		return fmt.Errorf("failed to create damage modifier: %w", err)
	}

	return nil
}

// GetByID récupère un modificateur par son ID
func (r *ModifierRepository) GetByID(id uuid.UUID) (*models.DamageModifier, error) {
	var modifier models.DamageModifier

	query := `
		SELECT id, character_id, kind, multiplier, flat_bonus, condition,
		       active, created_at, updated_at
		FROM damage_modifiers
		WHERE id = $1`

	if err := r.db.Get(&modifier, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("damage modifier %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get damage modifier: %w", err)
	}

	return &modifier, nil
}

// Update met à jour un modificateur (activation, valeurs)
func (r *ModifierRepository) Update(modifier *models.DamageModifier) error {
	modifier.UpdatedAt = time.Now()

	query := `
		UPDATE damage_modifiers SET
			multiplier = :multiplier,
			flat_bonus = :flat_bonus,
			condition = :condition,
			active = :active,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExec(query, modifier)
	if err != nil {
		return fmt.Errorf("failed to update damage modifier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("damage modifier %s: %w", modifier.ID, models.ErrNotFound)
	}

	return nil
}

// Delete supprime un modificateur
func (r *ModifierRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM damage_modifiers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete damage modifier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("damage modifier %s: %w", id, models.ErrNotFound)
	}

	return nil
}

// GetByCharacter récupère les modificateurs d'un personnage dans l'ordre
// de création, l'ordre d'application du calcul de dégâts
func (r *ModifierRepository) GetByCharacter(characterID uuid.UUID) ([]*models.DamageModifier, error) {
	var modifiers []*models.DamageModifier

	query := `
		SELECT id, character_id, kind, multiplier, flat_bonus, condition,
		       active, created_at, updated_at
		FROM damage_modifiers
		WHERE character_id = $1
		ORDER BY created_at ASC`

	if err := r.db.Select(&modifiers, query, characterID); err != nil {
		return nil, fmt.Errorf("failed to get modifiers by character: %w", err)
	}

	return modifiers, nil
}
