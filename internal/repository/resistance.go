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

// ResistanceRepositoryInterface définit les méthodes du repository
// résistances élémentaires et immunités de statut
type ResistanceRepositoryInterface interface {
	UpsertResistance(resistance *models.ElementResistance) error
	GetResistance(characterID uuid.UUID, element models.Element) (*models.ElementResistance, error)
	DeleteResistance(characterID uuid.UUID, element models.Element) error
	GetResistancesByCharacter(characterID uuid.UUID) ([]*models.ElementResistance, error)

	UpsertImmunity(immunity *models.StatusImmunity) error
	GetImmunity(characterID uuid.UUID, statusKind models.EffectKind) (*models.StatusImmunity, error)
	DeleteImmunity(characterID uuid.UUID, statusKind models.EffectKind) error
	GetImmunitiesByCharacter(characterID uuid.UUID) ([]*models.StatusImmunity, error)
}

// ResistanceRepository implémente l'interface ResistanceRepositoryInterface
type ResistanceRepository struct {
	db *database.DB
}

// NewResistanceRepository crée une nouvelle instance du repository résistance
func NewResistanceRepository(db *database.DB) ResistanceRepositoryInterface {
	return &ResistanceRepository{db: db}
}

// UpsertResistance crée ou remplace la résistance d'un personnage à un
// élément. Un ajout ultérieur remplace l'entrée précédente.
func (r *ResistanceRepository) UpsertResistance(resistance *models.ElementResistance) error {
	resistance.UpdatedAt = time.Now()

	query := `
		INSERT INTO element_resistances (
			id, character_id, element, kind, multiplier, created_at, updated_at
		) VALUES (
			:id, :character_id, :element, :kind, :multiplier, :created_at, :updated_at
		)
		ON CONFLICT (character_id, element) DO UPDATE SET
			kind = EXCLUDED.kind,
			multiplier = EXCLUDED.multiplier,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExec(query, resistance); err != nil {
		return fmt.Errorf("failed to upsert element resistance: %w", err)
	}

	return nil
}

// GetResistance récupère la résistance d'un personnage à un élément
func (r *ResistanceRepository) GetResistance(characterID uuid.UUID, element models.Element) (*models.ElementResistance, error) {
	var resistance models.ElementResistance

	query := `
		SELECT id, character_id, element, kind, multiplier, created_at, updated_at
		FROM element_resistances
		WHERE character_id = $1 AND element = $2`

	if err := r.db.Get(&resistance, query, characterID, element); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("resistance %s/%s: %w", characterID, element, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get element resistance: %w", err)
	}

	return &resistance, nil
}

// DeleteResistance supprime la résistance d'un personnage à un élément
func (r *ResistanceRepository) DeleteResistance(characterID uuid.UUID, element models.Element) error {
	result, err := r.db.Exec(
		`DELETE FROM element_resistances WHERE character_id = $1 AND element = $2`,
		characterID, element,
	)
	if err != nil {
		return fmt.Errorf("failed to delete element resistance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("resistance %s/%s: %w", characterID, element, models.ErrNotFound)
	}

	return nil
}

// GetResistancesByCharacter récupère toutes les résistances d'un personnage
func (r *ResistanceRepository) GetResistancesByCharacter(characterID uuid.UUID) ([]*models.ElementResistance, error) {
	var resistances []*models.ElementResistance

	query := `
		SELECT id, character_id, element, kind, multiplier, created_at, updated_at
		FROM element_resistances
		WHERE character_id = $1
		ORDER BY element ASC`

	if err := r.db.Select(&resistances, query, characterID); err != nil {
		return nil, fmt.Errorf("failed to get resistances by character: %w", err)
	}

	return resistances, nil
}

// UpsertImmunity crée ou remplace l'immunité d'un personnage à un statut
func (r *ResistanceRepository) UpsertImmunity(immunity *models.StatusImmunity) error {
	immunity.UpdatedAt = time.Now()

	query := `
		INSERT INTO status_immunities (
			id, character_id, status_kind, kind, resist_chance, created_at, updated_at
		) VALUES (
			:id, :character_id, :status_kind, :kind, :resist_chance, :created_at, :updated_at
		)
		ON CONFLICT (character_id, status_kind) DO UPDATE SET
			kind = EXCLUDED.kind,
			resist_chance = EXCLUDED.resist_chance,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExec(query, immunity); err != nil {
		return fmt.Errorf("failed to upsert status immunity: %w", err)
	}

	return nil
}

// GetImmunity récupère l'immunité d'un personnage à un statut
func (r *ResistanceRepository) GetImmunity(characterID uuid.UUID, statusKind models.EffectKind) (*models.StatusImmunity, error) {
	var immunity models.StatusImmunity

	query := `
		SELECT id, character_id, status_kind, kind, resist_chance, created_at, updated_at
		FROM status_immunities
		WHERE character_id = $1 AND status_kind = $2`

	if err := r.db.Get(&immunity, query, characterID, statusKind); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("immunity %s/%s: %w", characterID, statusKind, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get status immunity: %w", err)
	}

	return &immunity, nil
}

// DeleteImmunity supprime l'immunité d'un personnage à un statut
func (r *ResistanceRepository) DeleteImmunity(characterID uuid.UUID, statusKind models.EffectKind) error {
	result, err := r.db.Exec(
		`DELETE FROM status_immunities WHERE character_id = $1 AND status_kind = $2`,
		characterID, statusKind,
	)
	if err != nil {
		return fmt.Errorf("failed to delete status immunity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("immunity %s/%s: %w", characterID, statusKind, models.ErrNotFound)
	}

	return nil
}

// GetImmunitiesByCharacter récupère toutes les immunités d'un personnage
func (r *ResistanceRepository) GetImmunitiesByCharacter(characterID uuid.UUID) ([]*models.StatusImmunity, error) {
	var immunities []*models.StatusImmunity

	query := `
		SELECT id, character_id, status_kind, kind, resist_chance, created_at, updated_at
		FROM status_immunities
		WHERE character_id = $1
		ORDER BY status_kind ASC`

	if err := r.db.Select(&immunities, query, characterID); err != nil {
		return nil, fmt.Errorf("failed to get immunities by character: %w", err)
	}

	return immunities, nil
}
