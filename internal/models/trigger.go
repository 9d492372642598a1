package models

import (
	"time"

	"github.com/google/uuid"
)

// TriggerEvent définit le vocabulaire fermé des événements de jeu
// pouvant activer une règle picto
type TriggerEvent string

const (
	TriggerBattleStart TriggerEvent = "battle_start"
	TriggerTurnStart   TriggerEvent = "turn_start"
	TriggerOnHealAlly  TriggerEvent = "on_heal_ally"
	TriggerOnAttack    TriggerEvent = "on_attack"
	TriggerOnCrit      TriggerEvent = "on_crit"
	TriggerOnDodge     TriggerEvent = "on_dodge"
	TriggerOnParry     TriggerEvent = "on_parry"
	TriggerOnKill      TriggerEvent = "on_kill"
	TriggerOnDeath     TriggerEvent = "on_death"
)

// AllTriggerEvents liste fermée des événements connus
var AllTriggerEvents = []TriggerEvent{
	TriggerBattleStart, TriggerTurnStart, TriggerOnHealAlly,
	TriggerOnAttack, TriggerOnCrit, TriggerOnDodge, TriggerOnParry,
	TriggerOnKill, TriggerOnDeath,
}

// IsValidTriggerEvent vérifie qu'un événement appartient au vocabulaire
func IsValidTriggerEvent(event TriggerEvent) bool {
	for _, e := range AllTriggerEvents {
		if e == event {
			return true
		}
	}
	return false
}

// ResetPolicy définit quand le compteur d'activations est remis à zéro
type ResetPolicy string

const (
	ResetPerTurn   ResetPolicy = "per_turn"
	ResetPermanent ResetPolicy = "permanent"
)

// AbilityTrigger représente le compteur d'activations d'une capacité pour
// un (bataille, personnage, capacité) donné. Créé au premier contrôle
// d'activation ; remis à zéro selon sa politique ; purgé à la fin de la
// bataille.
type AbilityTrigger struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BattleID    uuid.UUID `json:"battle_id" db:"battle_id"`
	CharacterID uuid.UUID `json:"character_id" db:"character_id"`

	AbilityName string     `json:"ability_name" db:"ability_name"`
	EffectKind  EffectKind `json:"effect_kind" db:"effect_kind"`

	TimesTriggered    int         `json:"times_triggered" db:"times_triggered"`
	LastTurnTriggered int         `json:"last_turn_triggered" db:"last_turn_triggered"`
	ResetPolicy       ResetPolicy `json:"reset_policy" db:"reset_policy"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TriggerOutcome distingue les trois issues d'une règle picto :
// appliquée, non applicable, ou non modélisable dans ce moteur.
// Ne jamais réduire à un booléen : les systèmes appelants doivent
// différencier un no-op délibéré d'une lacune de modélisation.
type TriggerOutcome string

const (
	OutcomeApplied     TriggerOutcome = "applied"
	OutcomeDeclined    TriggerOutcome = "declined"
	OutcomeGated       TriggerOutcome = "gated"
	OutcomeUnsupported TriggerOutcome = "unsupported"
)

// TriggerContext représente le contexte de bataille fourni aux règles
type TriggerContext struct {
	BattleID uuid.UUID          `json:"battle_id"`
	Event    TriggerEvent       `json:"event"`
	Source   *BattleCharacter   `json:"source"`
	Target   *BattleCharacter   `json:"target,omitempty"`
	Roster   []*BattleCharacter `json:"roster"`

	// Données auxiliaires selon l'événement
	Amount     int         `json:"amount,omitempty"`
	StatusKind *EffectKind `json:"status_kind,omitempty"`
}

// TriggerResult représente l'issue d'une règle pour un événement
type TriggerResult struct {
	Ability      string           `json:"ability"`
	Outcome      TriggerOutcome   `json:"outcome"`
	Message      string           `json:"message,omitempty"`
	Applications []ProposedEffect `json:"applications,omitempty"`
}
