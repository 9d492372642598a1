package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Attack représente une attaque déclarée dans une bataille.
// Exactement un de TotalPower / TotalDamage est renseigné à la création :
// une déclaration de puissance reste en attente d'une défense, des dégâts
// directs sont appliqués immédiatement et l'attaque naît résolue.
type Attack struct {
	ID       uuid.UUID `json:"id" db:"id"`
	BattleID uuid.UUID `json:"battle_id" db:"battle_id"`
	SourceID uuid.UUID `json:"source_id" db:"source_id"`
	TargetID uuid.UUID `json:"target_id" db:"target_id"`

	TotalPower    *int `json:"total_power" db:"total_power"`
	TotalDamage   *int `json:"total_damage" db:"total_damage"`
	TotalDefended *int `json:"total_defended" db:"total_defended"`

	// Élément de l'attaque, consulté par la table de résistances
	Element *Element `json:"element" db:"element"`

	// Statuts proposés, appliqués à la résolution
	Effects ProposedEffectList `json:"effects" db:"effects"`

	Resolved     bool `json:"resolved" db:"resolved"`
	AllowCounter bool `json:"allow_counter" db:"allow_counter"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsPending vérifie si l'attaque attend encore une défense
func (a *Attack) IsPending() bool {
	return !a.Resolved && a.TotalPower != nil
}

// ProposedEffectList liste de statuts proposés, stockée en JSONB
type ProposedEffectList []ProposedEffect

// Value implémente driver.Valuer pour la colonne JSONB
func (l ProposedEffectList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal proposed effects: %w", err)
	}
	return string(data), nil
}

// Scan implémente sql.Scanner pour la colonne JSONB
func (l *ProposedEffectList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for proposed effects: %T", src)
	}

	return json.Unmarshal(data, l)
}
