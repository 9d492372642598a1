package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"battle/internal/config"
	"battle/internal/models"
	"battle/internal/repository"
)

// EffectServiceInterface définit le grand livre des statuts : application
// avec fusion et annulation des opposés, résolution par kind, expiration
type EffectServiceInterface interface {
	ApplyEffect(req *models.ApplyStatusRequest) (*models.EffectResult, error)
	ResolveEffect(req *models.ResolveStatusRequest) (*models.ResolveResult, error)
	ExpireTurn(battleID, characterID uuid.UUID) ([]uuid.UUID, error)
	GetCharacterEffects(characterID uuid.UUID) ([]*models.StatusEffect, error)
}

// EffectService implémente l'interface EffectServiceInterface
type EffectService struct {
	battleRepo    repository.BattleRepositoryInterface
	characterRepo repository.CharacterRepositoryInterface
	effectRepo    repository.EffectRepositoryInterface
	calculator    DamageCalculatorInterface
	audit         *auditRecorder
	locks         *BattleLockRegistry
	battleCfg     config.BattleConfig
}

// NewEffectService crée une nouvelle instance du service de statuts
func NewEffectService(
	battleRepo repository.BattleRepositoryInterface,
	characterRepo repository.CharacterRepositoryInterface,
	effectRepo repository.EffectRepositoryInterface,
	calculator DamageCalculatorInterface,
	logRepo repository.LogRepositoryInterface,
	hub *Hub,
	locks *BattleLockRegistry,
	battleCfg config.BattleConfig,
) *EffectService {
	return &EffectService{
		battleRepo:    battleRepo,
		characterRepo: characterRepo,
		effectRepo:    effectRepo,
		calculator:    calculator,
		audit:         newAuditRecorder(logRepo, hub),
		locks:         locks,
		battleCfg:     battleCfg,
	}
}

// ApplyEffect applique un statut à un personnage. Une application sur un
// kind déjà actif fusionne : montant cumulé, durée remplacée. Appliquer
// un statut annule toutes les instances actives de son opposé. Les
// immunités du défenseur sont consultées avant toute écriture.
func (s *EffectService) ApplyEffect(req *models.ApplyStatusRequest) (*models.EffectResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.BattleID)
	defer unlock()

	return s.applyEffectLocked(req)
}

// applyEffectLocked exécute l'application sous un verrou de bataille
// déjà détenu par l'appelant (pipeline d'attaque, règles picto)
func (s *EffectService) applyEffectLocked(req *models.ApplyStatusRequest) (*models.EffectResult, error) {
	battle, err := s.battleRepo.GetByID(req.BattleID)
	if err != nil {
		return nil, err
	}
	if battle.IsFinished() {
		return nil, fmt.Errorf("%w: battle is finished", models.ErrInvalidRequest)
	}

	character, err := s.characterRepo.GetByID(req.CharacterID)
	if err != nil {
		return nil, err
	}
	if character.BattleID != req.BattleID {
		return nil, fmt.Errorf("%w: character does not belong to this battle", models.ErrInvalidRequest)
	}

	// Table d'immunités avant toute écriture
	roll, err := s.calculator.RollStatusImmunity(character.ID, req.Kind)
	if err != nil {
		return nil, err
	}
	if roll != ImmunityRollPassed {
		return &models.EffectResult{
			Success: false,
			Action:  roll,
			Message: fmt.Sprintf("%s blocked by immunity table", req.Kind),
		}, nil
	}

	result := &models.EffectResult{Success: true}

	// Annulation des opposés
	if opposite, ok := models.OppositeKind(req.Kind); ok {
		existing, err := s.effectRepo.GetByCharacterAndKind(character.ID, opposite)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			for _, e := range existing {
				result.Cancelled = append(result.Cancelled, e.ID)
			}
			if _, err := s.effectRepo.DeleteByCharacterAndKind(character.ID, opposite); err != nil {
				return nil, err
			}
		}
	}

	// Fusion dans l'enregistrement existant, sinon création
	existing, err := s.effectRepo.GetByCharacterAndKind(character.ID, req.Kind)
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		effect := existing[0]
		effect.Amount += req.Amount
		effect.RemainingTurns = req.Duration
		if err := s.effectRepo.Update(effect); err != nil {
			return nil, err
		}
		result.Effect = effect
		result.Action = "merged"
	} else {
		effect := &models.StatusEffect{
			ID:             uuid.New(),
			BattleID:       req.BattleID,
			CharacterID:    character.ID,
			Kind:           req.Kind,
			Amount:         req.Amount,
			RemainingTurns: req.Duration,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		if err := s.effectRepo.Create(effect); err != nil {
			return nil, err
		}
		result.Effect = effect
		result.Action = "applied"
	}

	// Plagued mutile le maximum de vie dès l'application
	if req.Kind == models.EffectPlagued {
		loss := s.battleCfg.PlaguedHealthPenalty * req.Amount
		if err := s.calculator.ShrinkMaxHealth(character, loss); err != nil {
			return nil, err
		}
	}

	s.audit.Record(req.BattleID, models.LogStatusAdded, models.LogPayload{
		"character_id": character.ID.String(),
		"kind":         string(req.Kind),
		"amount":       req.Amount,
		"duration":     req.Duration,
		"action":       result.Action,
		"cancelled":    len(result.Cancelled),
	})

	logrus.WithFields(logrus.Fields{
		"battle_id":    req.BattleID,
		"character_id": character.ID,
		"kind":         req.Kind,
		"action":       result.Action,
	}).Info("Status effect applied")

	return result, nil
}

// ResolveEffect résout un statut actif selon la sémantique de son kind.
// Les kinds sans comportement de résolution sont simplement acquittés.
func (s *EffectService) ResolveEffect(req *models.ResolveStatusRequest) (*models.ResolveResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.BattleID)
	defer unlock()

	character, err := s.characterRepo.GetByID(req.CharacterID)
	if err != nil {
		return nil, err
	}
	if character.BattleID != req.BattleID {
		return nil, fmt.Errorf("%w: character does not belong to this battle", models.ErrInvalidRequest)
	}

	effects, err := s.effectRepo.GetByCharacterAndKind(character.ID, req.Kind)
	if err != nil {
		return nil, err
	}
	if len(effects) == 0 {
		return nil, fmt.Errorf("no active %s on character %s: %w", req.Kind, character.ID, models.ErrNotFound)
	}

	handler, ok := resolveHandlers[req.Kind]
	if !ok {
		handler = resolveAcknowledge
	}

	result, err := handler(s, character, effects, req.TotalValue)
	if err != nil {
		return nil, err
	}

	s.audit.Record(req.BattleID, models.LogStatusResolved, models.LogPayload{
		"character_id":  character.ID.String(),
		"kind":          string(req.Kind),
		"damage_dealt":  result.DamageDealt,
		"healing_done":  result.HealingDone,
		"consumed":      result.Consumed,
		"removed":       len(result.Removed),
		"target_killed": result.TargetKilled,
	})

	return result, nil
}

// ExpireTurn décrémente en fin de tour les statuts à décroissance d'un
// personnage et supprime ceux arrivés à expiration. Un statut déjà
// résolu ce tour a consommé sa décrémentation dans son handler : son
// drapeau est simplement réarmé pour le cycle suivant.
func (s *EffectService) ExpireTurn(battleID, characterID uuid.UUID) ([]uuid.UUID, error) {
	unlock := s.locks.Lock(battleID)
	defer unlock()

	return s.expireTurnLocked(characterID)
}

func (s *EffectService) expireTurnLocked(characterID uuid.UUID) ([]uuid.UUID, error) {
	effects, err := s.effectRepo.GetByCharacter(characterID)
	if err != nil {
		return nil, err
	}

	var removed []uuid.UUID
	for _, effect := range effects {
		if !effect.Kind.DecaysPerTurn() {
			continue
		}
		if !effect.Resolved {
			effect.RemainingTurns--
		}
		effect.Resolved = false

		if effect.IsExpired() {
			if err := s.effectRepo.Delete(effect.ID); err != nil {
				return nil, err
			}
			removed = append(removed, effect.ID)
			continue
		}
		if err := s.effectRepo.Update(effect); err != nil {
			return nil, err
		}
	}

	return removed, nil
}

// GetCharacterEffects retourne les statuts actifs d'un personnage
func (s *EffectService) GetCharacterEffects(characterID uuid.UUID) ([]*models.StatusEffect, error) {
	return s.effectRepo.GetByCharacter(characterID)
}
