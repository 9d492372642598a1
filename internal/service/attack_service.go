package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"battle/internal/models"
	"battle/internal/repository"
)

// AttackServiceInterface définit le pipeline d'attaque en deux phases :
// une déclaration de puissance reste en attente d'une réponse défensive,
// des dégâts directs court-circuitent la défense
type AttackServiceInterface interface {
	DeclareAttack(req *models.DeclareAttackRequest) (*models.Attack, error)
	ResolveAttack(req *models.ResolveAttackRequest) (*models.Attack, error)
	AllowCounters(battleID uuid.UUID) (int64, error)
	GetAttack(id uuid.UUID) (*models.Attack, error)
	GetBattleAttacks(battleID uuid.UUID) ([]*models.Attack, error)
	GetPendingAttacks(battleID uuid.UUID) ([]*models.Attack, error)
}

// AttackService implémente l'interface AttackServiceInterface
type AttackService struct {
	battleRepo    repository.BattleRepositoryInterface
	characterRepo repository.CharacterRepositoryInterface
	attackRepo    repository.AttackRepositoryInterface
	effects       *EffectService
	calculator    DamageCalculatorInterface
	audit         *auditRecorder
	locks         *BattleLockRegistry
}

// NewAttackService crée une nouvelle instance du service d'attaque
func NewAttackService(
	battleRepo repository.BattleRepositoryInterface,
	characterRepo repository.CharacterRepositoryInterface,
	attackRepo repository.AttackRepositoryInterface,
	effects *EffectService,
	calculator DamageCalculatorInterface,
	logRepo repository.LogRepositoryInterface,
	hub *Hub,
	locks *BattleLockRegistry,
) AttackServiceInterface {
	return &AttackService{
		battleRepo:    battleRepo,
		characterRepo: characterRepo,
		attackRepo:    attackRepo,
		effects:       effects,
		calculator:    calculator,
		audit:         newAuditRecorder(logRepo, hub),
		locks:         locks,
	}
}

// DeclareAttack enregistre une attaque. Une puissance totale produit une
// attaque en attente (la défense décidera des dégâts). Des dégâts directs
// traversent la table de résistances et frappent immédiatement.
func (s *AttackService) DeclareAttack(req *models.DeclareAttackRequest) (*models.Attack, error) {
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
	target, err := s.characterRepo.GetByID(req.TargetID)
	if err != nil {
		return nil, err
	}
	if source.BattleID != req.BattleID || target.BattleID != req.BattleID {
		return nil, fmt.Errorf("%w: characters do not belong to this battle", models.ErrInvalidRequest)
	}
	if !source.IsAlive() {
		return nil, fmt.Errorf("%w: source character is defeated", models.ErrInvalidRequest)
	}

	attack := &models.Attack{
		ID:        uuid.New(),
		BattleID:  req.BattleID,
		SourceID:  req.SourceID,
		TargetID:  req.TargetID,
		Element:   req.Element,
		Effects:   req.Effects,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if req.TotalPower != nil {
		return s.declarePending(attack, source, *req.TotalPower)
	}
	return s.declareImmediate(attack, source, target, *req.TotalDamage)
}

// declarePending enregistre une attaque de puissance en attente de défense
func (s *AttackService) declarePending(attack *models.Attack, source *models.BattleCharacter, basePower int) (*models.Attack, error) {
	power, err := s.calculator.FoldModifiers(source.ID, basePower, nil)
	if err != nil {
		return nil, err
	}
	attack.TotalPower = &power

	if err := s.attackRepo.Create(attack); err != nil {
		return nil, err
	}

	s.audit.Record(attack.BattleID, models.LogAttackPending, models.LogPayload{
		"attack_id":   attack.ID.String(),
		"source_id":   attack.SourceID.String(),
		"target_id":   attack.TargetID.String(),
		"total_power": power,
	})

	logrus.WithFields(logrus.Fields{
		"battle_id":   attack.BattleID,
		"attack_id":   attack.ID,
		"total_power": power,
	}).Info("Attack declared, awaiting defense")

	return attack, nil
}

// declareImmediate applique des dégâts directs, sans phase défensive
func (s *AttackService) declareImmediate(attack *models.Attack, source, target *models.BattleCharacter, baseDamage int) (*models.Attack, error) {
	folded, err := s.calculator.FoldModifiers(source.ID, baseDamage, nil)
	if err != nil {
		return nil, err
	}
	damage, err := s.calculator.ApplyElementResistance(target.ID, folded, attack.Element)
	if err != nil {
		return nil, err
	}

	outcome, err := s.calculator.ApplyDamage(target, damage)
	if err != nil {
		return nil, err
	}

	attack.TotalDamage = &damage
	attack.Resolved = true

	if err := s.attackRepo.Create(attack); err != nil {
		return nil, err
	}

	if err := s.applyProposedEffects(attack, outcome.Killed); err != nil {
		return nil, err
	}

	s.recordDamageDealt(attack, outcome)
	return attack, nil
}

// ResolveAttack applique la réponse défensive à une attaque en attente.
// TotalDamage est la part de puissance passée à travers la défense ;
// le reste est comptabilisé comme défendu. Résoudre une attaque déjà
// résolue est un no-op bénin.
func (s *AttackService) ResolveAttack(req *models.ResolveAttackRequest) (*models.Attack, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	located, err := s.attackRepo.GetByID(req.AttackID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(located.BattleID)
	defer unlock()

	// Relecture sous verrou : une résolution concurrente a pu aboutir
	attack, err := s.attackRepo.GetByID(req.AttackID)
	if err != nil {
		return nil, err
	}
	if attack.Resolved {
		return attack, models.ErrAlreadyResolved
	}
	if attack.TotalPower == nil {
		return nil, fmt.Errorf("%w: attack has no declared power", models.ErrInvalidRequest)
	}

	target, err := s.characterRepo.GetByID(attack.TargetID)
	if err != nil {
		return nil, err
	}

	damage := req.TotalDamage
	if damage > *attack.TotalPower {
		damage = *attack.TotalPower
	}
	defended := *attack.TotalPower - damage

	adjusted, err := s.calculator.ApplyElementResistance(target.ID, damage, attack.Element)
	if err != nil {
		return nil, err
	}

	outcome, err := s.calculator.ApplyDamage(target, adjusted)
	if err != nil {
		return nil, err
	}

	attack.TotalDamage = &adjusted
	attack.TotalDefended = &defended
	attack.Resolved = true

	if err := s.attackRepo.Update(attack); err != nil {
		return nil, err
	}

	if err := s.applyProposedEffects(attack, outcome.Killed); err != nil {
		return nil, err
	}

	s.recordDamageDealt(attack, outcome)
	return attack, nil
}

// applyProposedEffects applique les statuts embarqués par l'attaque à la
// cible. Une cible tuée par le coup ne reçoit pas de statut.
func (s *AttackService) applyProposedEffects(attack *models.Attack, targetKilled bool) error {
	if targetKilled {
		return nil
	}

	for _, proposed := range attack.Effects {
		_, err := s.effects.applyEffectLocked(&models.ApplyStatusRequest{
			BattleID:    attack.BattleID,
			CharacterID: attack.TargetID,
			Kind:        proposed.Kind,
			Amount:      proposed.Amount,
			Duration:    proposed.Duration,
		})
		if err != nil {
			return fmt.Errorf("failed to apply proposed effect %s: %w", proposed.Kind, err)
		}
	}
	return nil
}

func (s *AttackService) recordDamageDealt(attack *models.Attack, outcome *DamageOutcome) {
	s.audit.Record(attack.BattleID, models.LogDamageDealt, models.LogPayload{
		"attack_id":        attack.ID.String(),
		"source_id":        attack.SourceID.String(),
		"target_id":        attack.TargetID.String(),
		"damage_dealt":     outcome.DamageDealt,
		"remaining_health": outcome.RemainingHealth,
		"target_killed":    outcome.Killed,
	})

	logrus.WithFields(logrus.Fields{
		"battle_id":     attack.BattleID,
		"attack_id":     attack.ID,
		"damage_dealt":  outcome.DamageDealt,
		"target_killed": outcome.Killed,
	}).Info("Attack resolved")
}

// AllowCounters ouvre toutes les attaques d'une bataille à la
// contre-attaque, retourne le nombre d'attaques modifiées
func (s *AttackService) AllowCounters(battleID uuid.UUID) (int64, error) {
	unlock := s.locks.Lock(battleID)
	defer unlock()

	if _, err := s.battleRepo.GetByID(battleID); err != nil {
		return 0, err
	}

	count, err := s.attackRepo.AllowCounterAll(battleID)
	if err != nil {
		return 0, err
	}

	s.audit.Record(battleID, models.LogAllowCounter, models.LogPayload{
		"attacks_updated": count,
	})

	return count, nil
}

// GetAttack récupère une attaque par son ID
func (s *AttackService) GetAttack(id uuid.UUID) (*models.Attack, error) {
	return s.attackRepo.GetByID(id)
}

// GetBattleAttacks récupère toutes les attaques d'une bataille
func (s *AttackService) GetBattleAttacks(battleID uuid.UUID) ([]*models.Attack, error) {
	return s.attackRepo.GetByBattle(battleID)
}

// GetPendingAttacks récupère les attaques en attente de défense
func (s *AttackService) GetPendingAttacks(battleID uuid.UUID) ([]*models.Attack, error) {
	return s.attackRepo.GetPendingByBattle(battleID)
}
