package models

import (
	"time"

	"github.com/google/uuid"
)

// EffectKind définit les catégories de statuts possibles
type EffectKind string

const (
	EffectFrozen       EffectKind = "frozen"
	EffectBurning      EffectKind = "burning"
	EffectRegeneration EffectKind = "regeneration"
	EffectCursed       EffectKind = "cursed"
	EffectConfused     EffectKind = "confused"
	EffectPlagued      EffectKind = "plagued"
	EffectHastened     EffectKind = "hastened"
	EffectSlowed       EffectKind = "slowed"
	EffectWeakened     EffectKind = "weakened"
	EffectEmpowered    EffectKind = "empowered"
	EffectProtected    EffectKind = "protected"
	EffectUnprotected  EffectKind = "unprotected"
	EffectInverted     EffectKind = "inverted"
)

// AllEffectKinds liste fermée des kinds connus (pour validation)
var AllEffectKinds = []EffectKind{
	EffectFrozen, EffectBurning, EffectRegeneration, EffectCursed,
	EffectConfused, EffectPlagued, EffectHastened, EffectSlowed,
	EffectWeakened, EffectEmpowered, EffectProtected, EffectUnprotected,
	EffectInverted,
}

// oppositeKinds paires de statuts mutuellement exclusifs :
// appliquer l'un supprime toutes les instances actives de l'autre
var oppositeKinds = map[EffectKind]EffectKind{
	EffectHastened:    EffectSlowed,
	EffectSlowed:      EffectHastened,
	EffectWeakened:    EffectEmpowered,
	EffectEmpowered:   EffectWeakened,
	EffectProtected:   EffectUnprotected,
	EffectUnprotected: EffectProtected,
}

// OppositeKind retourne le statut opposé d'un kind, s'il en a un
func OppositeKind(kind EffectKind) (EffectKind, bool) {
	opposite, ok := oppositeKinds[kind]
	return opposite, ok
}

// IsValidEffectKind vérifie qu'un kind appartient au vocabulaire fermé
func IsValidEffectKind(kind EffectKind) bool {
	for _, k := range AllEffectKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// DecaysPerTurn indique si le statut perd un tour à chaque fin de tour.
// Frozen est un bouclier consommé par valeur, Plagued est appliqué une
// fois pour toutes : ni l'un ni l'autre n'expire au fil des tours.
func (k EffectKind) DecaysPerTurn() bool {
	switch k {
	case EffectFrozen, EffectPlagued:
		return false
	}
	return true
}

// StatusEffect représente un statut actif sur un personnage.
// Au plus un enregistrement actif par (personnage, kind) : une nouvelle
// application fusionne dans l'existant (montant cumulé, durée remplacée).
type StatusEffect struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	BattleID    uuid.UUID  `json:"battle_id" db:"battle_id"`
	CharacterID uuid.UUID  `json:"character_id" db:"character_id"`
	Kind        EffectKind `json:"kind" db:"kind"`

	Amount         int `json:"amount" db:"amount"`
	RemainingTurns int `json:"remaining_turns" db:"remaining_turns"`

	// Marqué à chaque cycle de résolution (distinct de la suppression)
	Resolved bool `json:"resolved" db:"resolved"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsExpired vérifie si le statut doit être supprimé
func (e *StatusEffect) IsExpired() bool {
	if e.Kind.DecaysPerTurn() {
		return e.RemainingTurns <= 0
	}
	return e.Amount <= 0
}

// ProposedEffect représente une application de statut proposée,
// attachée à une attaque ou produite par une règle picto
type ProposedEffect struct {
	Kind     EffectKind `json:"kind"`
	Amount   int        `json:"amount"`
	Duration int        `json:"duration"`
}

// EffectResult représente le résultat d'une application de statut
type EffectResult struct {
	Success   bool          `json:"success"`
	Effect    *StatusEffect `json:"effect,omitempty"`
	Action    string        `json:"action"` // "applied", "merged", "resisted", "immune"
	Cancelled []uuid.UUID   `json:"cancelled,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// ResolveResult représente le résultat d'une résolution de statut
type ResolveResult struct {
	Kind         EffectKind  `json:"kind"`
	DamageDealt  int         `json:"damage_dealt,omitempty"`
	HealingDone  int         `json:"healing_done,omitempty"`
	Consumed     int         `json:"consumed,omitempty"`
	Removed      []uuid.UUID `json:"removed,omitempty"`
	TargetKilled bool        `json:"target_killed,omitempty"`
	Message      string      `json:"message,omitempty"`
}
