package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"battle/internal/external"
	"battle/internal/models"
	"battle/internal/repository"
)

// DamageCalculatorInterface définit le moteur de calcul de dégâts :
// pliage des modificateurs, table de résistances, application clampée
type DamageCalculatorInterface interface {
	FoldModifiers(characterID uuid.UUID, base int, conditions []string) (int, error)
	ApplyElementResistance(targetID uuid.UUID, amount int, element *models.Element) (int, error)
	RollStatusImmunity(targetID uuid.UUID, kind models.EffectKind) (string, error)
	ApplyDamage(character *models.BattleCharacter, amount int) (*DamageOutcome, error)
	ApplyHealing(character *models.BattleCharacter, amount int) (int, error)
	ShrinkMaxHealth(character *models.BattleCharacter, loss int) error
}

// DamageOutcome représente le résultat d'une application de dégâts
type DamageOutcome struct {
	DamageDealt     int  `json:"damage_dealt"`
	RemainingHealth int  `json:"remaining_health"`
	Killed          bool `json:"killed"`
}

// Issues possibles du jet d'immunité
const (
	ImmunityRollBlocked  = "immune"
	ImmunityRollResisted = "resisted"
	ImmunityRollPassed   = "passed"
)

// DamageCalculator implémente l'interface DamageCalculatorInterface
type DamageCalculator struct {
	characterRepo  repository.CharacterRepositoryInterface
	modifierRepo   repository.ModifierRepositoryInterface
	resistanceRepo repository.ResistanceRepositoryInterface
	turnRepo       repository.TurnRepositoryInterface
	playerClient   external.PlayerClientInterface

	// Générateur injecté pour des jets reproductibles en test
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewDamageCalculator crée une nouvelle instance du moteur de dégâts
func NewDamageCalculator(
	characterRepo repository.CharacterRepositoryInterface,
	modifierRepo repository.ModifierRepositoryInterface,
	resistanceRepo repository.ResistanceRepositoryInterface,
	turnRepo repository.TurnRepositoryInterface,
	playerClient external.PlayerClientInterface,
	rng *rand.Rand,
) DamageCalculatorInterface {
	return &DamageCalculator{
		characterRepo:  characterRepo,
		modifierRepo:   modifierRepo,
		resistanceRepo: resistanceRepo,
		turnRepo:       turnRepo,
		playerClient:   playerClient,
		rng:            rng,
	}
}

// FoldModifiers plie les modificateurs actifs d'un personnage sur une
// valeur de base : base × produit des multiplicateurs + somme des bonus
// plats, dans l'ordre de création. Jamais négatif.
func (d *DamageCalculator) FoldModifiers(characterID uuid.UUID, base int, conditions []string) (int, error) {
	modifiers, err := d.modifierRepo.GetByCharacter(characterID)
	if err != nil {
		return 0, fmt.Errorf("failed to load modifiers: %w", err)
	}

	multiplier := 1.0
	flat := 0
	for _, m := range modifiers {
		if !m.Matches(conditions) {
			continue
		}
		multiplier *= m.Multiplier
		flat += m.FlatBonus
	}

	result := int(float64(base)*multiplier) + flat
	if result < 0 {
		result = 0
	}
	return result, nil
}

// ApplyElementResistance ajuste des dégâts entrants selon la résistance
// du défenseur à l'élément : immune annule, resist/weak multiplient.
// Sans élément ou sans entrée, les dégâts passent inchangés.
func (d *DamageCalculator) ApplyElementResistance(targetID uuid.UUID, amount int, element *models.Element) (int, error) {
	if element == nil || amount <= 0 {
		return amount, nil
	}

	resistance, err := d.resistanceRepo.GetResistance(targetID, *element)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return amount, nil
		}
		return 0, fmt.Errorf("failed to load element resistance: %w", err)
	}

	switch resistance.Kind {
	case models.ResistanceImmune:
		return 0, nil
	case models.ResistanceResist, models.ResistanceWeak:
		adjusted := int(float64(amount) * resistance.Multiplier)
		if adjusted < 0 {
			adjusted = 0
		}
		return adjusted, nil
	}
	return amount, nil
}

// RollStatusImmunity consulte la table d'immunités du défenseur pour un
// statut : "immune" bloque toujours, "resist" bloque avec probabilité
// ResistChance/100, sinon le statut passe.
func (d *DamageCalculator) RollStatusImmunity(targetID uuid.UUID, kind models.EffectKind) (string, error) {
	immunity, err := d.resistanceRepo.GetImmunity(targetID, kind)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ImmunityRollPassed, nil
		}
		return "", fmt.Errorf("failed to load status immunity: %w", err)
	}

	switch immunity.Kind {
	case models.ImmunityImmune:
		return ImmunityRollBlocked, nil
	case models.ImmunityResist:
		d.rngMu.Lock()
		roll := d.rng.Intn(100)
		d.rngMu.Unlock()
		if roll < immunity.ResistChance {
			return ImmunityRollResisted, nil
		}
	}
	return ImmunityRollPassed, nil
}

// ApplyDamage inflige des dégâts à un personnage, vie clampée à
// [0, max_health]. À zéro, le personnage est retiré de l'ordre de tour,
// son pool de magie est vidé et le miroir joueur est poussé.
func (d *DamageCalculator) ApplyDamage(character *models.BattleCharacter, amount int) (*DamageOutcome, error) {
	if amount < 0 {
		amount = 0
	}

	dealt := amount
	if dealt > character.Health {
		dealt = character.Health
	}
	character.Health -= dealt

	killed := character.Health == 0 && dealt > 0
	if killed {
		if character.MagicPoints != nil {
			zero := 0
			character.MagicPoints = &zero
		}
	}

	if err := d.characterRepo.Update(character); err != nil {
		return nil, fmt.Errorf("failed to persist damage: %w", err)
	}

	if killed {
		if _, err := d.turnRepo.DeleteEntriesByCharacter(character.BattleID, character.ID); err != nil {
			return nil, fmt.Errorf("failed to purge turn entries: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"battle_id":    character.BattleID,
			"character_id": character.ID,
			"name":         character.Name,
		}).Info("Character defeated")
	}

	d.mirrorState(character)

	return &DamageOutcome{
		DamageDealt:     dealt,
		RemainingHealth: character.Health,
		Killed:          killed,
	}, nil
}

// ApplyHealing soigne un personnage, vie clampée au maximum.
// Retourne le soin effectif.
func (d *DamageCalculator) ApplyHealing(character *models.BattleCharacter, amount int) (int, error) {
	if amount < 0 {
		amount = 0
	}

	healed := amount
	if character.Health+healed > character.MaxHealth {
		healed = character.MaxHealth - character.Health
	}
	character.Health += healed

	if err := d.characterRepo.Update(character); err != nil {
		return 0, fmt.Errorf("failed to persist healing: %w", err)
	}

	d.mirrorState(character)
	return healed, nil
}

// ShrinkMaxHealth réduit le maximum de vie d'un personnage, plancher à 1,
// et re-clampe la vie courante dans la nouvelle borne
func (d *DamageCalculator) ShrinkMaxHealth(character *models.BattleCharacter, loss int) error {
	if loss <= 0 {
		return nil
	}

	character.MaxHealth -= loss
	if character.MaxHealth < 1 {
		character.MaxHealth = 1
	}
	if character.Health > character.MaxHealth {
		character.Health = character.MaxHealth
	}

	if err := d.characterRepo.Update(character); err != nil {
		return fmt.Errorf("failed to persist max health change: %w", err)
	}

	d.mirrorState(character)
	return nil
}

// mirrorState pousse l'état de vie vers le service Player pour les
// personnages joueurs. Un échec du miroir n'interrompt jamais la bataille.
func (d *DamageCalculator) mirrorState(character *models.BattleCharacter) {
	if !character.IsPlayer() || d.playerClient == nil {
		return
	}

	err := d.playerClient.PushCharacterState(*character.PlayerID, &external.CharacterState{
		PlayerID:  *character.PlayerID,
		Health:    character.Health,
		MaxHealth: character.MaxHealth,
		Alive:     character.IsAlive(),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"player_id": *character.PlayerID,
			"error":     err.Error(),
		}).Warn("Failed to mirror character state to player service")
	}
}
