package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Initiative représente le jet d'initiative d'un personnage.
// Au plus une entrée par (bataille, personnage) ; relancer n'est permis
// que tant que le drapeau de relance du personnage est actif.
type Initiative struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BattleID    uuid.UUID `json:"battle_id" db:"battle_id"`
	CharacterID uuid.UUID `json:"character_id" db:"character_id"`

	Value int `json:"value" db:"value"`
	// Départage secondaire (habileté du personnage)
	Hability   int  `json:"hability" db:"hability"`
	PlaysFirst bool `json:"plays_first" db:"plays_first"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SortInitiatives trie les initiatives dans l'ordre d'action d'un round :
// valeur décroissante, puis PlaysFirst, puis habileté décroissante
func SortInitiatives(initiatives []*Initiative) {
	sort.SliceStable(initiatives, func(i, j int) bool {
		a, b := initiatives[i], initiatives[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if a.PlaysFirst != b.PlaysFirst {
			return a.PlaysFirst
		}
		return a.Hability > b.Hability
	})
}

// TurnEntry représente un tour joué. Append-only au sein d'une bataille ;
// toutes les entrées d'un personnage sont purgées quand sa vie atteint zéro.
type TurnEntry struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BattleID    uuid.UUID `json:"battle_id" db:"battle_id"`
	CharacterID uuid.UUID `json:"character_id" db:"character_id"`
	Sequence    int       `json:"sequence" db:"sequence"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
