package models

import (
	"fmt"

	"github.com/google/uuid"
)

// CreateBattleRequest représente une demande de création de bataille
type CreateBattleRequest struct {
	Name string `json:"name" binding:"required"`
}

// Validate valide la demande de création de bataille
func (r *CreateBattleRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: battle name is required", ErrInvalidRequest)
	}
	return nil
}

// AddCharacterRequest représente l'ajout d'un personnage au roster
type AddCharacterRequest struct {
	Name           string     `json:"name" binding:"required"`
	Team           int        `json:"team"`
	MaxHealth      int        `json:"max_health" binding:"required"`
	PlayerID       *uuid.UUID `json:"player_id"`
	MagicPoints    *int       `json:"magic_points"`
	ChargePoints   *int       `json:"charge_points"`
	GradientCharge *int       `json:"gradient_charge"`
}

// Validate valide la demande d'ajout de personnage
func (r *AddCharacterRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: character name is required", ErrInvalidRequest)
	}
	if r.MaxHealth <= 0 {
		return fmt.Errorf("%w: max health must be positive", ErrInvalidRequest)
	}
	return nil
}

// DeclareAttackRequest représente une déclaration d'attaque.
// Exactement un de TotalPower / TotalDamage doit être fourni.
type DeclareAttackRequest struct {
	BattleID uuid.UUID `json:"battle_id" binding:"required"`
	SourceID uuid.UUID `json:"source_id" binding:"required"`
	TargetID uuid.UUID `json:"target_id" binding:"required"`

	TotalPower  *int     `json:"total_power"`
	TotalDamage *int     `json:"total_damage"`
	Element     *Element `json:"element"`

	Effects []ProposedEffect `json:"effects"`
}

// Validate valide la déclaration d'attaque
func (r *DeclareAttackRequest) Validate() error {
	if r.TotalPower == nil && r.TotalDamage == nil {
		return fmt.Errorf("%w: either total_power or total_damage is required", ErrInvalidRequest)
	}
	if r.TotalPower != nil && r.TotalDamage != nil {
		return fmt.Errorf("%w: total_power and total_damage are mutually exclusive", ErrInvalidRequest)
	}
	for _, effect := range r.Effects {
		if !IsValidEffectKind(effect.Kind) {
			return fmt.Errorf("%w: unknown effect kind %q", ErrInvalidRequest, effect.Kind)
		}
	}
	return nil
}

// ResolveAttackRequest représente la réponse défensive à une attaque
type ResolveAttackRequest struct {
	AttackID    uuid.UUID `json:"attack_id" binding:"required"`
	TotalDamage int       `json:"total_damage"`
}

// Validate valide la demande de défense
func (r *ResolveAttackRequest) Validate() error {
	if r.AttackID == uuid.Nil {
		return fmt.Errorf("%w: attack_id is required", ErrInvalidRequest)
	}
	if r.TotalDamage < 0 {
		return fmt.Errorf("%w: total_damage cannot be negative", ErrInvalidRequest)
	}
	return nil
}

// ApplyStatusRequest représente une application de statut
type ApplyStatusRequest struct {
	BattleID    uuid.UUID  `json:"battle_id" binding:"required"`
	CharacterID uuid.UUID  `json:"character_id" binding:"required"`
	Kind        EffectKind `json:"kind" binding:"required"`
	Amount      int        `json:"amount"`
	Duration    int        `json:"duration"`
}

// Validate valide la demande d'application de statut
func (r *ApplyStatusRequest) Validate() error {
	if !IsValidEffectKind(r.Kind) {
		return fmt.Errorf("%w: unknown effect kind %q", ErrInvalidRequest, r.Kind)
	}
	if r.Amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidRequest)
	}
	if r.Duration < 0 {
		return fmt.Errorf("%w: duration cannot be negative", ErrInvalidRequest)
	}
	return nil
}

// ResolveStatusRequest représente une résolution de statut
type ResolveStatusRequest struct {
	BattleID    uuid.UUID  `json:"battle_id" binding:"required"`
	CharacterID uuid.UUID  `json:"character_id" binding:"required"`
	Kind        EffectKind `json:"kind" binding:"required"`
	TotalValue  int        `json:"total_value"`
}

// Validate valide la demande de résolution de statut
func (r *ResolveStatusRequest) Validate() error {
	if !IsValidEffectKind(r.Kind) {
		return fmt.Errorf("%w: unknown effect kind %q", ErrInvalidRequest, r.Kind)
	}
	return nil
}

// AddModifierRequest représente l'ajout d'un modificateur de dégâts
type AddModifierRequest struct {
	CharacterID uuid.UUID `json:"character_id" binding:"required"`
	Kind        string    `json:"kind" binding:"required"`
	Multiplier  float64   `json:"multiplier"`
	FlatBonus   int       `json:"flat_bonus"`
	Condition   string    `json:"condition"`
	Active      bool      `json:"active"`
}

// Validate valide la demande d'ajout de modificateur
func (r *AddModifierRequest) Validate() error {
	if r.Kind == "" {
		return fmt.Errorf("%w: modifier kind is required", ErrInvalidRequest)
	}
	if r.Multiplier < 0 {
		return fmt.Errorf("%w: multiplier cannot be negative", ErrInvalidRequest)
	}
	return nil
}

// SetResistanceRequest représente l'ajout/remplacement d'une résistance
type SetResistanceRequest struct {
	CharacterID uuid.UUID      `json:"character_id" binding:"required"`
	Element     Element        `json:"element" binding:"required"`
	Kind        ResistanceKind `json:"kind" binding:"required"`
	Multiplier  float64        `json:"multiplier"`
}

// Validate valide la demande de résistance
func (r *SetResistanceRequest) Validate() error {
	switch r.Kind {
	case ResistanceImmune, ResistanceResist, ResistanceWeak:
	default:
		return fmt.Errorf("%w: unknown resistance kind %q", ErrInvalidRequest, r.Kind)
	}
	return nil
}

// SetImmunityRequest représente l'ajout/remplacement d'une immunité de statut
type SetImmunityRequest struct {
	CharacterID  uuid.UUID    `json:"character_id" binding:"required"`
	StatusKind   EffectKind   `json:"status_kind" binding:"required"`
	Kind         ImmunityKind `json:"kind" binding:"required"`
	ResistChance int          `json:"resist_chance"`
}

// Validate valide la demande d'immunité
func (r *SetImmunityRequest) Validate() error {
	if !IsValidEffectKind(r.StatusKind) {
		return fmt.Errorf("%w: unknown status kind %q", ErrInvalidRequest, r.StatusKind)
	}
	switch r.Kind {
	case ImmunityImmune:
	case ImmunityResist:
		if r.ResistChance < 0 || r.ResistChance > 100 {
			return fmt.Errorf("%w: resist chance must be between 0 and 100", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown immunity kind %q", ErrInvalidRequest, r.Kind)
	}
	return nil
}

// TriggerEventRequest représente un événement de jeu routé vers les règles
type TriggerEventRequest struct {
	BattleID uuid.UUID    `json:"battle_id" binding:"required"`
	Event    TriggerEvent `json:"event" binding:"required"`
	SourceID uuid.UUID    `json:"source_id" binding:"required"`
	TargetID *uuid.UUID   `json:"target_id"`

	Amount     int         `json:"amount"`
	StatusKind *EffectKind `json:"status_kind"`
}

// Validate valide l'événement de déclenchement
func (r *TriggerEventRequest) Validate() error {
	if !IsValidTriggerEvent(r.Event) {
		return fmt.Errorf("%w: unknown trigger event %q", ErrInvalidRequest, r.Event)
	}
	return nil
}

// RollInitiativeRequest représente un jet (ou une relance) d'initiative
type RollInitiativeRequest struct {
	BattleID    uuid.UUID `json:"battle_id" binding:"required"`
	CharacterID uuid.UUID `json:"character_id" binding:"required"`
	Value       int       `json:"value"`
	Hability    int       `json:"hability"`
	PlaysFirst  bool      `json:"plays_first"`
}

// TakeTurnRequest représente la prise d'un tour par un personnage
type TakeTurnRequest struct {
	BattleID    uuid.UUID `json:"battle_id" binding:"required"`
	CharacterID uuid.UUID `json:"character_id" binding:"required"`
}
