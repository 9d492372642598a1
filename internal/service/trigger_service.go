package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"battle/internal/config"
	"battle/internal/models"
	"battle/internal/repository"
)

// TriggerServiceInterface définit le suivi des activations picto :
// routage des événements de jeu vers les règles, compteurs d'activation
// et cycles de remise à zéro
type TriggerServiceInterface interface {
	HandleEvent(req *models.TriggerEventRequest) ([]*models.TriggerResult, error)
	ResetTurn(battleID uuid.UUID) (int64, error)
	ResetCharacter(battleID, characterID uuid.UUID) (int64, error)
	ClearBattle(battleID uuid.UUID) (int64, error)
	GetBattleTriggers(battleID uuid.UUID) ([]*models.AbilityTrigger, error)
}

// TriggerService implémente l'interface TriggerServiceInterface
type TriggerService struct {
	battleRepo    repository.BattleRepositoryInterface
	characterRepo repository.CharacterRepositoryInterface
	triggerRepo   repository.TriggerRepositoryInterface
	effects       *EffectService
	audit         *auditRecorder
	locks         *BattleLockRegistry
	battleCfg     config.BattleConfig
}

// NewTriggerService crée une nouvelle instance du service picto
func NewTriggerService(
	battleRepo repository.BattleRepositoryInterface,
	characterRepo repository.CharacterRepositoryInterface,
	triggerRepo repository.TriggerRepositoryInterface,
	effects *EffectService,
	logRepo repository.LogRepositoryInterface,
	hub *Hub,
	locks *BattleLockRegistry,
	battleCfg config.BattleConfig,
) *TriggerService {
	return &TriggerService{
		battleRepo:    battleRepo,
		characterRepo: characterRepo,
		triggerRepo:   triggerRepo,
		effects:       effects,
		audit:         newAuditRecorder(logRepo, hub),
		locks:         locks,
		battleCfg:     battleCfg,
	}
}

// HandleEvent route un événement de jeu vers les règles picto
// enregistrées pour celui-ci. Chaque règle produit une issue explicite :
// appliquée, déclinée, bloquée par son compteur, ou non supportée.
func (s *TriggerService) HandleEvent(req *models.TriggerEventRequest) ([]*models.TriggerResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.BattleID)
	defer unlock()

	battle, err := s.battleRepo.GetByID(req.BattleID)
	if err != nil {
		return nil, err
	}
	if battle.IsFinished() {
		return nil, fmt.Errorf("%w: battle is finished", models.ErrInvalidRequest)
	}

	source, err := s.characterRepo.GetByID(req.SourceID)
	if err != nil {
		return nil, err
	}
	roster, err := s.characterRepo.GetByBattle(req.BattleID)
	if err != nil {
		return nil, err
	}

	ctx := &models.TriggerContext{
		BattleID:   req.BattleID,
		Event:      req.Event,
		Source:     source,
		Roster:     roster,
		Amount:     req.Amount,
		StatusKind: req.StatusKind,
	}
	if req.TargetID != nil {
		target, err := s.characterRepo.GetByID(*req.TargetID)
		if err != nil {
			return nil, err
		}
		ctx.Target = target
	}

	var results []*models.TriggerResult
	for _, rule := range rulesForEvent(req.Event) {
		result, err := s.evaluateRule(battle, rule, ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// evaluateRule applique une règle à un contexte d'événement
func (s *TriggerService) evaluateRule(battle *models.Battle, rule PictoRule, ctx *models.TriggerContext) (*models.TriggerResult, error) {
	if !rule.Supported {
		return &models.TriggerResult{
			Ability: rule.Name,
			Outcome: models.OutcomeUnsupported,
			Message: "rule is known but not expressible as a status effect",
		}, nil
	}

	if rule.Condition != nil && !rule.Condition(ctx) {
		return &models.TriggerResult{
			Ability: rule.Name,
			Outcome: models.OutcomeDeclined,
			Message: "activation condition not met",
		}, nil
	}

	trigger, err := s.getOrCreateTrigger(battle, ctx.Source.ID, rule)
	if err != nil {
		return nil, err
	}

	if rule.MaxPerReset > 0 && trigger.TimesTriggered >= rule.MaxPerReset {
		return &models.TriggerResult{
			Ability: rule.Name,
			Outcome: models.OutcomeGated,
			Message: fmt.Sprintf("already triggered %d time(s) this cycle", trigger.TimesTriggered),
		}, nil
	}

	applications := rule.Effects(ctx, s.battleCfg.PictoBuffDuration)
	for _, proposed := range applications {
		_, err := s.effects.applyEffectLocked(&models.ApplyStatusRequest{
			BattleID:    ctx.BattleID,
			CharacterID: ctx.Source.ID,
			Kind:        proposed.Kind,
			Amount:      proposed.Amount,
			Duration:    proposed.Duration,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to apply picto effect %s: %w", proposed.Kind, err)
		}
	}

	trigger.TimesTriggered++
	trigger.LastTurnTriggered = battle.CurrentTurn
	if err := s.triggerRepo.Update(trigger); err != nil {
		return nil, err
	}

	s.audit.Record(ctx.BattleID, models.LogPictoTracked, models.LogPayload{
		"ability":         rule.Name,
		"character_id":    ctx.Source.ID.String(),
		"event":           string(ctx.Event),
		"times_triggered": trigger.TimesTriggered,
	})

	logrus.WithFields(logrus.Fields{
		"battle_id":    ctx.BattleID,
		"ability":      rule.Name,
		"character_id": ctx.Source.ID,
	}).Info("Picto rule applied")

	return &models.TriggerResult{
		Ability:      rule.Name,
		Outcome:      models.OutcomeApplied,
		Applications: applications,
	}, nil
}

// getOrCreateTrigger récupère le compteur d'une règle pour un personnage,
// le créant au premier contrôle d'activation
func (s *TriggerService) getOrCreateTrigger(battle *models.Battle, characterID uuid.UUID, rule PictoRule) (*models.AbilityTrigger, error) {
	trigger, err := s.triggerRepo.Get(battle.ID, characterID, rule.Name)
	if err == nil {
		return trigger, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	trigger = &models.AbilityTrigger{
		ID:          uuid.New(),
		BattleID:    battle.ID,
		CharacterID: characterID,
		AbilityName: rule.Name,
		EffectKind:  rule.EffectKind,
		ResetPolicy: rule.ResetPolicy,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.triggerRepo.Create(trigger); err != nil {
		return nil, err
	}
	return trigger, nil
}

// ResetTurn remet à zéro les compteurs per_turn d'une bataille.
// Les compteurs permanents survivent au cycle.
func (s *TriggerService) ResetTurn(battleID uuid.UUID) (int64, error) {
	unlock := s.locks.Lock(battleID)
	defer unlock()

	return s.resetTurnLocked(battleID)
}

func (s *TriggerService) resetTurnLocked(battleID uuid.UUID) (int64, error) {
	count, err := s.triggerRepo.ResetPerTurn(battleID)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.audit.Record(battleID, models.LogPictoEffectsReset, models.LogPayload{
			"triggers_reset": count,
			"scope":          "battle",
		})
	}
	return count, nil
}

// ResetCharacter remet à zéro les compteurs per_turn d'un personnage
func (s *TriggerService) ResetCharacter(battleID, characterID uuid.UUID) (int64, error) {
	unlock := s.locks.Lock(battleID)
	defer unlock()

	return s.resetCharacterLocked(battleID, characterID)
}

func (s *TriggerService) resetCharacterLocked(battleID, characterID uuid.UUID) (int64, error) {
	count, err := s.triggerRepo.ResetByCharacter(battleID, characterID)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.audit.Record(battleID, models.LogPictoEffectsReset, models.LogPayload{
			"triggers_reset": count,
			"scope":          "character",
			"character_id":   characterID.String(),
		})
	}
	return count, nil
}

// ClearBattle purge tous les compteurs d'une bataille terminée
func (s *TriggerService) ClearBattle(battleID uuid.UUID) (int64, error) {
	unlock := s.locks.Lock(battleID)
	defer unlock()

	return s.clearBattleLocked(battleID)
}

func (s *TriggerService) clearBattleLocked(battleID uuid.UUID) (int64, error) {
	count, err := s.triggerRepo.DeleteByBattle(battleID)
	if err != nil {
		return 0, err
	}

	s.audit.Record(battleID, models.LogPictoEffectsClear, models.LogPayload{
		"triggers_cleared": count,
	})
	return count, nil
}

// GetBattleTriggers retourne les compteurs d'activation d'une bataille
func (s *TriggerService) GetBattleTriggers(battleID uuid.UUID) ([]*models.AbilityTrigger, error) {
	return s.triggerRepo.GetByBattle(battleID)
}
