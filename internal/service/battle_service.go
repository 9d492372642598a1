package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"battle/internal/models"
	"battle/internal/repository"
)

// BattleServiceInterface définit le cycle de vie d'une bataille et la
// gestion de son roster : personnages, modificateurs, tables de
// résistances et d'immunités
type BattleServiceInterface interface {
	CreateBattle(req *models.CreateBattleRequest) (*models.Battle, error)
	GetBattle(id uuid.UUID) (*models.Battle, error)
	EndBattle(id uuid.UUID) (*models.Battle, error)

	AddCharacter(battleID uuid.UUID, req *models.AddCharacterRequest) (*models.BattleCharacter, error)
	GetCharacter(id uuid.UUID) (*models.BattleCharacter, error)

	AddModifier(req *models.AddModifierRequest) (*models.DamageModifier, error)
	RemoveModifier(id uuid.UUID) error
	GetCharacterModifiers(characterID uuid.UUID) ([]*models.DamageModifier, error)

	SetResistance(req *models.SetResistanceRequest) (*models.ElementResistance, error)
	SetImmunity(req *models.SetImmunityRequest) (*models.StatusImmunity, error)

	GetLogs(battleID uuid.UUID, limit int) ([]*models.BattleLog, error)
}

// BattleService implémente l'interface BattleServiceInterface
type BattleService struct {
	battleRepo     repository.BattleRepositoryInterface
	characterRepo  repository.CharacterRepositoryInterface
	effectRepo     repository.EffectRepositoryInterface
	attackRepo     repository.AttackRepositoryInterface
	modifierRepo   repository.ModifierRepositoryInterface
	resistanceRepo repository.ResistanceRepositoryInterface
	logRepo        repository.LogRepositoryInterface
	triggers       *TriggerService
	locks          *BattleLockRegistry
}

// NewBattleService crée une nouvelle instance du service de bataille
func NewBattleService(
	battleRepo repository.BattleRepositoryInterface,
	characterRepo repository.CharacterRepositoryInterface,
	effectRepo repository.EffectRepositoryInterface,
	attackRepo repository.AttackRepositoryInterface,
	modifierRepo repository.ModifierRepositoryInterface,
	resistanceRepo repository.ResistanceRepositoryInterface,
	logRepo repository.LogRepositoryInterface,
	triggers *TriggerService,
	locks *BattleLockRegistry,
) BattleServiceInterface {
	return &BattleService{
		battleRepo:     battleRepo,
		characterRepo:  characterRepo,
		effectRepo:     effectRepo,
		attackRepo:     attackRepo,
		modifierRepo:   modifierRepo,
		resistanceRepo: resistanceRepo,
		logRepo:        logRepo,
		triggers:       triggers,
		locks:          locks,
	}
}

// CreateBattle crée une nouvelle bataille active
func (s *BattleService) CreateBattle(req *models.CreateBattleRequest) (*models.Battle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	battle := &models.Battle{
		ID:        uuid.New(),
		Name:      req.Name,
		Status:    models.BattleStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.battleRepo.Create(battle); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"battle_id": battle.ID,
		"name":      battle.Name,
	}).Info("Battle created")

	return battle, nil
}

// GetBattle récupère une bataille avec son roster, ses statuts actifs
// et ses attaques
func (s *BattleService) GetBattle(id uuid.UUID) (*models.Battle, error) {
	battle, err := s.battleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if battle.Characters, err = s.characterRepo.GetByBattle(id); err != nil {
		return nil, err
	}
	if battle.Effects, err = s.effectRepo.GetByBattle(id); err != nil {
		return nil, err
	}
	if battle.Attacks, err = s.attackRepo.GetByBattle(id); err != nil {
		return nil, err
	}

	return battle, nil
}

// EndBattle clôt une bataille : statut final, horodatage de fin, purge
// des compteurs picto et libération du verrou de bataille
func (s *BattleService) EndBattle(id uuid.UUID) (*models.Battle, error) {
	unlock := s.locks.Lock(id)

	battle, err := s.battleRepo.GetByID(id)
	if err != nil {
		unlock()
		return nil, err
	}
	if battle.IsFinished() {
		unlock()
		return battle, nil
	}

	now := time.Now()
	battle.Status = models.BattleStatusFinished
	battle.EndedAt = &now
	if err := s.battleRepo.Update(battle); err != nil {
		unlock()
		return nil, err
	}

	if _, err := s.triggers.clearBattleLocked(id); err != nil {
		unlock()
		return nil, err
	}

	unlock()
	s.locks.Release(id)

	logrus.WithFields(logrus.Fields{
		"battle_id": battle.ID,
		"turns":     battle.CurrentTurn,
	}).Info("Battle ended")

	return battle, nil
}

// AddCharacter engage un personnage dans une bataille, vie au maximum
func (s *BattleService) AddCharacter(battleID uuid.UUID, req *models.AddCharacterRequest) (*models.BattleCharacter, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(battleID)
	defer unlock()

	battle, err := s.battleRepo.GetByID(battleID)
	if err != nil {
		return nil, err
	}
	if battle.IsFinished() {
		return nil, fmt.Errorf("%w: battle is finished", models.ErrInvalidRequest)
	}

	character := &models.BattleCharacter{
		ID:                  uuid.New(),
		BattleID:            battleID,
		PlayerID:            req.PlayerID,
		Name:                req.Name,
		Team:                req.Team,
		Health:              req.MaxHealth,
		MaxHealth:           req.MaxHealth,
		MagicPoints:         req.MagicPoints,
		ChargePoints:        req.ChargePoints,
		GradientCharge:      req.GradientCharge,
		CanRerollInitiative: true,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	if err := s.characterRepo.Create(character); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"battle_id":    battleID,
		"character_id": character.ID,
		"name":         character.Name,
		"team":         character.Team,
	}).Info("Character joined battle")

	return character, nil
}

// GetCharacter récupère un personnage par son ID
func (s *BattleService) GetCharacter(id uuid.UUID) (*models.BattleCharacter, error) {
	return s.characterRepo.GetByID(id)
}

// AddModifier attache un modificateur de dégâts à un personnage
func (s *BattleService) AddModifier(req *models.AddModifierRequest) (*models.DamageModifier, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.characterRepo.GetByID(req.CharacterID); err != nil {
		return nil, err
	}

	modifier := &models.DamageModifier{
		ID:          uuid.New(),
		CharacterID: req.CharacterID,
		Kind:        req.Kind,
		Multiplier:  req.Multiplier,
		FlatBonus:   req.FlatBonus,
		Condition:   req.Condition,
		Active:      req.Active,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.modifierRepo.Create(modifier); err != nil {
		return nil, err
	}
	return modifier, nil
}

// RemoveModifier détache un modificateur
func (s *BattleService) RemoveModifier(id uuid.UUID) error {
	return s.modifierRepo.Delete(id)
}

// GetCharacterModifiers retourne les modificateurs d'un personnage
func (s *BattleService) GetCharacterModifiers(characterID uuid.UUID) ([]*models.DamageModifier, error) {
	return s.modifierRepo.GetByCharacter(characterID)
}

// SetResistance crée ou remplace la résistance d'un personnage à un
// élément
func (s *BattleService) SetResistance(req *models.SetResistanceRequest) (*models.ElementResistance, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.characterRepo.GetByID(req.CharacterID); err != nil {
		return nil, err
	}

	multiplier := req.Multiplier
	if req.Kind == models.ResistanceImmune {
		multiplier = 0
	}

	resistance := &models.ElementResistance{
		ID:          uuid.New(),
		CharacterID: req.CharacterID,
		Element:     req.Element,
		Kind:        req.Kind,
		Multiplier:  multiplier,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.resistanceRepo.UpsertResistance(resistance); err != nil {
		return nil, err
	}
	return resistance, nil
}

// SetImmunity crée ou remplace l'immunité d'un personnage à un statut
func (s *BattleService) SetImmunity(req *models.SetImmunityRequest) (*models.StatusImmunity, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.characterRepo.GetByID(req.CharacterID); err != nil {
		return nil, err
	}

	immunity := &models.StatusImmunity{
		ID:           uuid.New(),
		CharacterID:  req.CharacterID,
		StatusKind:   req.StatusKind,
		Kind:         req.Kind,
		ResistChance: req.ResistChance,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.resistanceRepo.UpsertImmunity(immunity); err != nil {
		return nil, err
	}
	return immunity, nil
}

// GetLogs retourne le journal d'audit d'une bataille
func (s *BattleService) GetLogs(battleID uuid.UUID, limit int) ([]*models.BattleLog, error) {
	return s.logRepo.GetByBattle(battleID, limit)
}
