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

// BattleRepositoryInterface définit les méthodes du repository bataille
type BattleRepositoryInterface interface {
	Create(battle *models.Battle) error
	GetByID(id uuid.UUID) (*models.Battle, error)
	Update(battle *models.Battle) error
	Delete(id uuid.UUID) error
}

// BattleRepository implémente l'interface BattleRepositoryInterface
type BattleRepository struct {
	db *database.DB
}

// NewBattleRepository crée une nouvelle instance du repository bataille
func NewBattleRepository(db *database.DB) BattleRepositoryInterface {
	return &BattleRepository{db: db}
}

// Create crée une nouvelle bataille
func (r *BattleRepository) Create(battle *models.Battle) error {
	query := `
		INSERT INTO battles (id, name, status, current_turn, created_at, updated_at)
		VALUES (:id, :name, :status, :current_turn, :created_at, :updated_at)`

	if _, err := r.db.NamedExec(query, battle); err != nil {
		return fmt.Errorf("failed to create battle: %w", err)
	}

	return nil
}

// GetByID récupère une bataille par son ID
func (r *BattleRepository) GetByID(id uuid.UUID) (*models.Battle, error) {
	var battle models.Battle

	query := `
		SELECT id, name, status, current_turn, created_at, ended_at, updated_at
		FROM battles
		WHERE id = $1`

	if err := r.db.Get(&battle, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("battle %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get battle: %w", err)
	}

	return &battle, nil
}

// Update met à jour une bataille
func (r *BattleRepository) Update(battle *models.Battle) error {
	battle.UpdatedAt = time.Now()

	query := `
		UPDATE battles SET
			name = :name,
			status = :status,
			current_turn = :current_turn,
			ended_at = :ended_at,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExec(query, battle)
	if err != nil {
		return fmt.Errorf("failed to update battle: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("battle %s: %w", battle.ID, models.ErrNotFound)
	}

	return nil
}

// Delete supprime une bataille (cascade sur toutes ses entités)
func (r *BattleRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM battles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete battle: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("battle %s: %w", id, models.ErrNotFound)
	}

	return nil
}
