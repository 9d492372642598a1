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

// TurnRepositoryInterface définit les méthodes du repository
// initiative et historique de tours
type TurnRepositoryInterface interface {
	UpsertInitiative(initiative *models.Initiative) error
	GetInitiative(battleID, characterID uuid.UUID) (*models.Initiative, error)
	GetInitiativesByBattle(battleID uuid.UUID) ([]*models.Initiative, error)

	CreateEntry(entry *models.TurnEntry) error
	GetLastSequence(battleID uuid.UUID) (int, error)
	GetEntriesByBattle(battleID uuid.UUID) ([]*models.TurnEntry, error)
	DeleteEntriesByCharacter(battleID, characterID uuid.UUID) (int64, error)
}

// TurnRepository implémente l'interface TurnRepositoryInterface
type TurnRepository struct {
	db *database.DB
}

// NewTurnRepository crée une nouvelle instance du repository de tours
func NewTurnRepository(db *database.DB) TurnRepositoryInterface {
	return &TurnRepository{db: db}
}

// UpsertInitiative crée ou remplace l'initiative d'un personnage
func (r *TurnRepository) UpsertInitiative(initiative *models.Initiative) error {
	initiative.UpdatedAt = time.Now()

	query := `
		INSERT INTO initiatives (
			id, battle_id, character_id, value, hability, plays_first,
			created_at, updated_at
		) VALUES (
			:id, :battle_id, :character_id, :value, :hability, :plays_first,
			:created_at, :updated_at
		)
		ON CONFLICT (battle_id, character_id) DO UPDATE SET
			value = EXCLUDED.value,
			hability = EXCLUDED.hability,
			plays_first = EXCLUDED.plays_first,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExec(query, initiative); err != nil {
		return fmt.Errorf("failed to upsert initiative: %w", err)
	}

	return nil
}

// GetInitiative récupère l'initiative d'un personnage en bataille
func (r *TurnRepository) GetInitiative(battleID, characterID uuid.UUID) (*models.Initiative, error) {
	var initiative models.Initiative

	query := `
		SELECT id, battle_id, character_id, value, hability, plays_first,
		       created_at, updated_at
		FROM initiatives
		WHERE battle_id = $1 AND character_id = $2`

	if err := r.db.Get(&initiative, query, battleID, characterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("initiative %s/%s: %w", battleID, characterID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get initiative: %w", err)
	}

	return &initiative, nil
}

// GetInitiativesByBattle récupère toutes les initiatives d'une bataille
func (r *TurnRepository) GetInitiativesByBattle(battleID uuid.UUID) ([]*models.Initiative, error) {
	var initiatives []*models.Initiative

	query := `
		SELECT id, battle_id, character_id, value, hability, plays_first,
		       created_at, updated_at
		FROM initiatives
		WHERE battle_id = $1
		ORDER BY created_at ASC`

	if err := r.db.Select(&initiatives, query, battleID); err != nil {
		return nil, fmt.Errorf("failed to get initiatives by battle: %w", err)
	}

	return initiatives, nil
}

// CreateEntry ajoute une entrée à l'historique de tours
func (r *TurnRepository) CreateEntry(entry *models.TurnEntry) error {
	query := `
		INSERT INTO turn_entries (id, battle_id, character_id, sequence, created_at)
		VALUES (:id, :battle_id, :character_id, :sequence, :created_at)`

	if _, err := r.db.NamedExec(query, entry); err != nil {
		return fmt.Errorf("failed to create turn entry: %w", err)
	}

	return nil
}

// GetLastSequence retourne le dernier numéro de tour joué d'une bataille,
// 0 si aucun tour n'a encore été joué
func (r *TurnRepository) GetLastSequence(battleID uuid.UUID) (int, error) {
	var sequence int

	query := `SELECT COALESCE(MAX(sequence), 0) FROM turn_entries WHERE battle_id = $1`

	if err := r.db.Get(&sequence, query, battleID); err != nil {
		return 0, fmt.Errorf("failed to get last turn sequence: %w", err)
	}

	return sequence, nil
}

// GetEntriesByBattle récupère l'historique de tours d'une bataille
func (r *TurnRepository) GetEntriesByBattle(battleID uuid.UUID) ([]*models.TurnEntry, error) {
	var entries []*models.TurnEntry

	query := `
		SELECT id, battle_id, character_id, sequence, created_at
		FROM turn_entries
		WHERE battle_id = $1
		ORDER BY sequence ASC`

	if err := r.db.Select(&entries, query, battleID); err != nil {
		return nil, fmt.Errorf("failed to get turn entries: %w", err)
	}

	return entries, nil
}

// DeleteEntriesByCharacter purge les tours d'un personnage (à sa mort)
func (r *TurnRepository) DeleteEntriesByCharacter(battleID, characterID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(
		`DELETE FROM turn_entries WHERE battle_id = $1 AND character_id = $2`,
		battleID, characterID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete turn entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected, nil
}
