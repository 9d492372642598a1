package models

import (
	"time"

	"github.com/google/uuid"
)

// BattleStatus définit les status d'une bataille
type BattleStatus string

const (
	BattleStatusActive   BattleStatus = "active"
	BattleStatusFinished BattleStatus = "finished"
)

// Battle représente une rencontre délimitée : roster, effets actifs,
// ordre de tour et attaques en attente lui sont rattachés
type Battle struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Status      BattleStatus `json:"status" db:"status"`
	CurrentTurn int          `json:"current_turn" db:"current_turn"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	EndedAt     *time.Time   `json:"ended_at" db:"ended_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`

	// Relations (chargées séparément)
	Characters []*BattleCharacter `json:"characters,omitempty" db:"-"`
	Effects    []*StatusEffect    `json:"effects,omitempty" db:"-"`
	Attacks    []*Attack          `json:"attacks,omitempty" db:"-"`
}

// IsFinished vérifie si la bataille est terminée
func (b *Battle) IsFinished() bool {
	return b.Status == BattleStatusFinished
}

// BattleCharacter représente un personnage engagé dans une bataille
type BattleCharacter struct {
	ID       uuid.UUID `json:"id" db:"id"`
	BattleID uuid.UUID `json:"battle_id" db:"battle_id"`
	// Identifiant externe du joueur (nil pour un ennemi contrôlé par le MJ)
	PlayerID *uuid.UUID `json:"player_id" db:"player_id"`
	Name     string     `json:"name" db:"name"`
	Team     int        `json:"team" db:"team"`

	// Points de vie
	Health    int `json:"health" db:"health"`
	MaxHealth int `json:"max_health" db:"max_health"`

	// Pools de ressources optionnels
	MagicPoints    *int `json:"magic_points" db:"magic_points"`
	ChargePoints   *int `json:"charge_points" db:"charge_points"`
	GradientCharge *int `json:"gradient_charge" db:"gradient_charge"`

	// Autorisation de relancer l'initiative
	CanRerollInitiative bool `json:"can_reroll_initiative" db:"can_reroll_initiative"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Relations (chargées séparément)
	ActiveEffects []*StatusEffect `json:"active_effects,omitempty" db:"-"`
}

// IsAlive vérifie si le personnage est encore en vie
func (c *BattleCharacter) IsAlive() bool {
	return c.Health > 0
}

// IsPlayer vérifie si le personnage est contrôlé par un joueur
func (c *BattleCharacter) IsPlayer() bool {
	return c.PlayerID != nil
}

// GetHealthPercentage retourne le pourcentage de vie du personnage
func (c *BattleCharacter) GetHealthPercentage() float64 {
	if c.MaxHealth == 0 {
		return 0
	}
	return float64(c.Health) / float64(c.MaxHealth) * 100.0
}
