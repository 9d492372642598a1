package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Types d'événements du journal d'audit
const (
	LogAttackPending      = "ATTACK_PENDING"
	LogDamageDealt        = "DAMAGE_DEALT"
	LogAllowCounter       = "ALLOW_COUNTER"
	LogStatusAdded        = "STATUS_ADDED"
	LogStatusResolved     = "STATUS_RESOLVED"
	LogPictoTracked       = "PICTO_EFFECT_TRACKED"
	LogPictoEffectsReset  = "PICTO_EFFECTS_RESET"
	LogPictoEffectsClear  = "PICTO_EFFECTS_CLEARED"
)

// BattleLog représente une entrée du journal d'audit d'une bataille
type BattleLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	BattleID  uuid.UUID  `json:"battle_id" db:"battle_id"`
	EventType string     `json:"event_type" db:"event_type"`
	Payload   LogPayload `json:"payload" db:"payload"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// LogPayload charge structurée optionnelle d'une entrée, stockée en JSONB
type LogPayload map[string]interface{}

// Value implémente driver.Valuer pour la colonne JSONB
func (p LogPayload) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal log payload: %w", err)
	}
	return string(data), nil
}

// Scan implémente sql.Scanner pour la colonne JSONB
func (p *LogPayload) Scan(src interface{}) error {
	if src == nil {
		*p = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for log payload: %T", src)
	}

	return json.Unmarshal(data, p)
}
