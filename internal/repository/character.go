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

// CharacterRepositoryInterface définit les méthodes du repository personnage
type CharacterRepositoryInterface interface {
	Create(character *models.BattleCharacter) error
	GetByID(id uuid.UUID) (*models.BattleCharacter, error)
	Update(character *models.BattleCharacter) error
	Delete(id uuid.UUID) error
	GetByBattle(battleID uuid.UUID) ([]*models.BattleCharacter, error)
}

// CharacterRepository implémente l'interface CharacterRepositoryInterface
type CharacterRepository struct {
	db *database.DB
}

// NewCharacterRepository crée une nouvelle instance du repository personnage
func NewCharacterRepository(db *database.DB) CharacterRepositoryInterface {
	return &CharacterRepository{db: db}
}

// Create crée un nouveau personnage de bataille
func (r *CharacterRepository) Create(character *models.BattleCharacter) error {
	query := `
		INSERT INTO battle_characters (
			id, battle_id, player_id, name, team, health, max_health,
			magic_points, charge_points, gradient_charge,
			can_reroll_initiative, created_at, updated_at
		) VALUES (
			:id, :battle_id, :player_id, :name, :team, :health, :max_health,
			:magic_points, :charge_points, :gradient_charge,
			:can_reroll_initiative, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExec(query, character); err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}

	return nil
}

// GetByID récupère un personnage par son ID
func (r *CharacterRepository) GetByID(id uuid.UUID) (*models.BattleCharacter, error) {
	var character models.BattleCharacter

	query := `
		SELECT id, battle_id, player_id, name, team, health, max_health,
		       magic_points, charge_points, gradient_charge,
		       can_reroll_initiative, created_at, updated_at
		FROM battle_characters
		WHERE id = $1`

	if err := r.db.Get(&character, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("character %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	return &character, nil
}

// Update met à jour un personnage
func (r *CharacterRepository) Update(character *models.BattleCharacter) error {
	character.UpdatedAt = time.Now()

	query := `
		UPDATE battle_characters SET
			team = :team,
			health = :health,
			max_health = :max_health,
			magic_points = :magic_points,
			charge_points = :charge_points,
			gradient_charge = :gradient_charge,
			can_reroll_initiative = :can_reroll_initiative,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExec(query, character)
	if err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("character %s: %w", character.ID, models.ErrNotFound)
	}

	return nil
}

// Delete supprime un personnage de la bataille
func (r *CharacterRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM battle_characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("character %s: %w", id, models.ErrNotFound)
	}

	return nil
}

// GetByBattle récupère tous les personnages d'une bataille
func (r *CharacterRepository) GetByBattle(battleID uuid.UUID) ([]*models.BattleCharacter, error) {
	var characters []*models.BattleCharacter

	query := `
		SELECT id, battle_id, player_id, name, team, health, max_health,
		       magic_points, charge_points, gradient_charge,
		       can_reroll_initiative, created_at, updated_at
		FROM battle_characters
		WHERE battle_id = $1
		ORDER BY created_at ASC`

	if err := r.db.Select(&characters, query, battleID); err != nil {
		return nil, fmt.Errorf("failed to get characters by battle: %w", err)
	}

	return characters, nil
}
