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

// AttackRepositoryInterface définit les méthodes du repository attaque
type AttackRepositoryInterface interface {
	Create(attack *models.Attack) error
	GetByID(id uuid.UUID) (*models.Attack, error)
	Update(attack *models.Attack) error
	GetByBattle(battleID uuid.UUID) ([]*models.Attack, error)
	GetPendingByBattle(battleID uuid.UUID) ([]*models.Attack, error)
	AllowCounterAll(battleID uuid.UUID) (int64, error)
}

// AttackRepository implémente l'interface AttackRepositoryInterface
type AttackRepository struct {
	db *database.DB
}

// NewAttackRepository crée une nouvelle instance du repository attaque
func NewAttackRepository(db *database.DB) AttackRepositoryInterface {
	return &AttackRepository{db: db}
}

// Create crée une nouvelle attaque
func (r *AttackRepository) Create(attack *models.Attack) error {
	query := `
		INSERT INTO attacks (
			id, battle_id, source_id, target_id, total_power, total_damage,
			total_defended, element, effects, resolved, allow_counter,
			created_at, updated_at
		) VALUES (
			:id, :battle_id, :source_id, :target_id, :total_power, :total_damage,
			:total_defended, :element, :effects, :resolved, :allow_counter,
			:created_at, :updated_at
		)`

	if _, err := r.db.NamedExec(query, attack); err != nil {
		return fmt.Errorf("failed to create attack: %w", err)
	}

	return nil
}

// GetByID récupère une attaque par son ID
func (r *AttackRepository) GetByID(id uuid.UUID) (*models.Attack, error) {
	var attack models.Attack

	query := `
		SELECT id, battle_id, source_id, target_id, total_power, total_damage,
		       total_defended, element, effects, resolved, allow_counter,
		       created_at, updated_at
		FROM attacks
		WHERE id = $1`

	if err := r.db.Get(&attack, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("attack %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get attack: %w", err)
	}

	return &attack, nil
}

// Update met à jour une attaque
func (r *AttackRepository) Update(attack *models.Attack) error {
	attack.UpdatedAt = time.Now()

	query := `
		UPDATE attacks SET
			total_damage = :total_damage,
			total_defended = :total_defended,
			resolved = :resolved,
			allow_counter = :allow_counter,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExec(query, attack)
	if err != nil {
		return fmt.Errorf("failed to update attack: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("attack %s: %w", attack.ID, models.ErrNotFound)
	}

	return nil
}

// GetByBattle récupère toutes les attaques d'une bataille
func (r *AttackRepository) GetByBattle(battleID uuid.UUID) ([]*models.Attack, error) {
	var attacks []*models.Attack

	query := `
		SELECT id, battle_id, source_id, target_id, total_power, total_damage,
		       total_defended, element, effects, resolved, allow_counter,
		       created_at, updated_at
		FROM attacks
		WHERE battle_id = $1
		ORDER BY created_at ASC`

	if err := r.db.Select(&attacks, query, battleID); err != nil {
		return nil, fmt.Errorf("failed to get attacks by battle: %w", err)
	}

	return attacks, nil
}

// GetPendingByBattle récupère les attaques en attente de défense
func (r *AttackRepository) GetPendingByBattle(battleID uuid.UUID) ([]*models.Attack, error) {
	var attacks []*models.Attack

	query := `
		SELECT id, battle_id, source_id, target_id, total_power, total_damage,
		       total_defended, element, effects, resolved, allow_counter,
		       created_at, updated_at
		FROM attacks
		WHERE battle_id = $1 AND resolved = false AND total_power IS NOT NULL
		ORDER BY created_at ASC`

	if err := r.db.Select(&attacks, query, battleID); err != nil {
		return nil, fmt.Errorf("failed to get pending attacks: %w", err)
	}

	return attacks, nil
}

// AllowCounterAll marque toutes les attaques d'une bataille comme
// ouvertes à la contre-attaque, retourne le nombre modifié
func (r *AttackRepository) AllowCounterAll(battleID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(
		`UPDATE attacks SET allow_counter = true, updated_at = $2 WHERE battle_id = $1 AND allow_counter = false`,
		battleID, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to allow counters: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected, nil
}
