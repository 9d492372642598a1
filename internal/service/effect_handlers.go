package service

import (
	"fmt"

	"battle/internal/models"
)

// resolveHandler résout les instances actives d'un kind pour un
// personnage. totalValue porte la valeur contextuelle de la résolution
// (dégâts entrants pour un bouclier, seuil pour la confusion).
type resolveHandler func(s *EffectService, character *models.BattleCharacter, effects []*models.StatusEffect, totalValue int) (*models.ResolveResult, error)

// resolveHandlers table de résolution par kind. Les kinds absents sont
// acquittés sans effet mécanique.
var resolveHandlers = map[models.EffectKind]resolveHandler{
	models.EffectFrozen:       resolveFrozen,
	models.EffectBurning:      resolveBurning,
	models.EffectRegeneration: resolveRegeneration,
	models.EffectCursed:       resolveCursed,
	models.EffectConfused:     resolveConfused,
	models.EffectPlagued:      resolvePlagued,
}

// resolveFrozen consomme le bouclier de gel contre des dégâts entrants.
// Les piles sont dépensées de la plus ancienne à la plus récente ; les
// dégâts excédant le bouclier total sont écartés, jamais reportés sur
// la vie du porteur.
func resolveFrozen(s *EffectService, character *models.BattleCharacter, effects []*models.StatusEffect, totalValue int) (*models.ResolveResult, error) {
	result := &models.ResolveResult{Kind: models.EffectFrozen}

	remaining := totalValue
	for _, effect := range effects {
		if remaining <= 0 {
			break
		}
		spent := effect.Amount
		if spent > remaining {
			spent = remaining
		}
		effect.Amount -= spent
		remaining -= spent
		result.Consumed += spent

		if effect.Amount <= 0 {
			if err := s.effectRepo.Delete(effect.ID); err != nil {
				return nil, err
			}
			result.Removed = append(result.Removed, effect.ID)
			continue
		}
		effect.Resolved = true
		if err := s.effectRepo.Update(effect); err != nil {
			return nil, err
		}
	}

	if remaining > 0 {
		result.Message = fmt.Sprintf("shield depleted, %d excess discarded", remaining)
	}
	return result, nil
}

// resolveBurning inflige la valeur de résolution comme dégâts, puis
// décrémente la durée seulement si le porteur survit : un personnage tué
// par sa brûlure ne consomme pas de tour de statut.
func resolveBurning(s *EffectService, character *models.BattleCharacter, effects []*models.StatusEffect, totalValue int) (*models.ResolveResult, error) {
	result := &models.ResolveResult{Kind: models.EffectBurning}

	outcome, err := s.calculator.ApplyDamage(character, totalValue)
	if err != nil {
		return nil, err
	}
	result.DamageDealt = outcome.DamageDealt
	result.TargetKilled = outcome.Killed

	if outcome.Killed {
		result.Message = "burned to death"
		return result, nil
	}

	for _, effect := range effects {
		effect.RemainingTurns--
		effect.Resolved = true
		if effect.IsExpired() {
			if err := s.effectRepo.Delete(effect.ID); err != nil {
				return nil, err
			}
			result.Removed = append(result.Removed, effect.ID)
			continue
		}
		if err := s.effectRepo.Update(effect); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// resolveRegeneration soigne le porteur de la valeur de résolution
// (clampée à zéro), sauf si Inverted est actif : le soin est alors
// appliqué comme dégâts. Contrairement à Burning, la durée décroît quel
// que soit le sort du porteur.
func resolveRegeneration(s *EffectService, character *models.BattleCharacter, effects []*models.StatusEffect, totalValue int) (*models.ResolveResult, error) {
	result := &models.ResolveResult{Kind: models.EffectRegeneration}

	total := totalValue
	if total < 0 {
		total = 0
	}

	inverted, err := s.effectRepo.GetByCharacterAndKind(character.ID, models.EffectInverted)
	if err != nil {
		return nil, err
	}

	if len(inverted) > 0 {
		outcome, err := s.calculator.ApplyDamage(character, total)
		if err != nil {
			return nil, err
		}
		result.DamageDealt = outcome.DamageDealt
		result.TargetKilled = outcome.Killed
		result.Message = "regeneration inverted"
	} else {
		healed, err := s.calculator.ApplyHealing(character, total)
		if err != nil {
			return nil, err
		}
		result.HealingDone = healed
	}

	for _, effect := range effects {
		effect.RemainingTurns--
		effect.Resolved = true
		if effect.IsExpired() {
			if err := s.effectRepo.Delete(effect.ID); err != nil {
				return nil, err
			}
			result.Removed = append(result.Removed, effect.ID)
			continue
		}
		if err := s.effectRepo.Update(effect); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// resolveCursed fait tiquer la malédiction. À zéro tour restant, elle
// détone et inflige la vie courante du porteur.
func resolveCursed(s *EffectService, character *models.BattleCharacter, effects []*models.StatusEffect, totalValue int) (*models.ResolveResult, error) {
	result := &models.ResolveResult{Kind: models.EffectCursed}

	for _, effect := range effects {
		effect.RemainingTurns--

		if effect.RemainingTurns <= 0 {
			outcome, err := s.calculator.ApplyDamage(character, character.Health)
			if err != nil {
				return nil, err
			}
			result.DamageDealt += outcome.DamageDealt
			result.TargetKilled = result.TargetKilled || outcome.Killed

			if err := s.effectRepo.Delete(effect.ID); err != nil {
				return nil, err
			}
			result.Removed = append(result.Removed, effect.ID)
			result.Message = "curse detonated"
			continue
		}

		effect.Resolved = true
		if err := s.effectRepo.Update(effect); err != nil {
			return nil, err
		}
		result.Message = fmt.Sprintf("curse ticking, %d turns left", effect.RemainingTurns)
	}
	return result, nil
}

// resolveConfused lève la confusion seulement si la valeur fournie
// dépasse strictement le montant du statut
func resolveConfused(s *EffectService, character *models.BattleCharacter, effects []*models.StatusEffect, totalValue int) (*models.ResolveResult, error) {
	result := &models.ResolveResult{Kind: models.EffectConfused}

	for _, effect := range effects {
		if totalValue > effect.Amount {
			if err := s.effectRepo.Delete(effect.ID); err != nil {
				return nil, err
			}
			result.Removed = append(result.Removed, effect.ID)
			continue
		}
		effect.Resolved = true
		if err := s.effectRepo.Update(effect); err != nil {
			return nil, err
		}
	}

	if len(result.Removed) == 0 {
		result.Message = "confusion holds"
	}
	return result, nil
}

// resolvePlagued : la peste mutile le maximum de vie à l'application,
// la résolution n'a rien à faire
func resolvePlagued(s *EffectService, character *models.BattleCharacter, effects []*models.StatusEffect, totalValue int) (*models.ResolveResult, error) {
	return &models.ResolveResult{
		Kind:    models.EffectPlagued,
		Message: "plague damage is applied on application",
	}, nil
}

// resolveAcknowledge acquitte un statut sans comportement de résolution
// propre (buffs et debuffs consultés par d'autres calculs)
func resolveAcknowledge(s *EffectService, character *models.BattleCharacter, effects []*models.StatusEffect, totalValue int) (*models.ResolveResult, error) {
	result := &models.ResolveResult{Kind: effects[0].Kind}

	for _, effect := range effects {
		effect.Resolved = true
		if err := s.effectRepo.Update(effect); err != nil {
			return nil, err
		}
	}
	result.Message = "acknowledged"
	return result, nil
}
