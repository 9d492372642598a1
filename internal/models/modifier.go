package models

import (
	"time"

	"github.com/google/uuid"
)

// Element définit les éléments de dégâts possibles
type Element string

const (
	ElementFire      Element = "fire"
	ElementIce       Element = "ice"
	ElementLightning Element = "lightning"
	ElementEarth     Element = "earth"
	ElementWind      Element = "wind"
	ElementDark      Element = "dark"
	ElementLight     Element = "light"
)

// DamageModifier représente un ajustement de dégâts attaché à un personnage.
// Plusieurs modificateurs coexistent ; seuls les actifs participent au
// calcul. Persiste à travers les tours jusqu'à suppression explicite.
type DamageModifier struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CharacterID uuid.UUID `json:"character_id" db:"character_id"`

	Kind       string  `json:"kind" db:"kind"`
	Multiplier float64 `json:"multiplier" db:"multiplier"`
	FlatBonus  int     `json:"flat_bonus" db:"flat_bonus"`

	// Condition d'activation ; vide = toujours applicable
	Condition string `json:"condition" db:"condition"`
	Active    bool   `json:"active" db:"active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Matches vérifie si le modificateur s'applique pour les conditions données
func (m *DamageModifier) Matches(conditions []string) bool {
	if !m.Active {
		return false
	}
	if m.Condition == "" {
		return true
	}
	for _, c := range conditions {
		if c == m.Condition {
			return true
		}
	}
	return false
}

// ResistanceKind définit le type de résistance élémentaire
type ResistanceKind string

const (
	ResistanceImmune ResistanceKind = "immune"
	ResistanceResist ResistanceKind = "resist"
	ResistanceWeak   ResistanceKind = "weak"
)

// ElementResistance représente la résistance d'un personnage à un élément.
// Au plus une entrée par (personnage, élément) ; un ajout ultérieur
// remplace l'entrée précédente.
type ElementResistance struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	CharacterID uuid.UUID      `json:"character_id" db:"character_id"`
	Element     Element        `json:"element" db:"element"`
	Kind        ResistanceKind `json:"kind" db:"kind"`
	Multiplier  float64        `json:"multiplier" db:"multiplier"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// ImmunityKind définit le type d'immunité à un statut
type ImmunityKind string

const (
	ImmunityImmune ImmunityKind = "immune"
	ImmunityResist ImmunityKind = "resist"
)

// StatusImmunity représente l'immunité d'un personnage à un statut.
// Au plus une entrée par (personnage, statut). Une entrée "immune" bloque
// toute application ; "resist" bloque avec probabilité ResistChance/100.
type StatusImmunity struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	CharacterID  uuid.UUID    `json:"character_id" db:"character_id"`
	StatusKind   EffectKind   `json:"status_kind" db:"status_kind"`
	Kind         ImmunityKind `json:"kind" db:"kind"`
	ResistChance int          `json:"resist_chance" db:"resist_chance"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}
