package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"battle/internal/models"
	"battle/internal/repository"
)

// TurnServiceInterface définit l'ordonnanceur de tours : jets
// d'initiative, historique de tours et ordre d'action
type TurnServiceInterface interface {
	RollInitiative(req *models.RollInitiativeRequest) (*models.Initiative, error)
	TakeTurn(req *models.TakeTurnRequest) (*models.TurnEntry, error)
	GetTurnOrder(battleID uuid.UUID) ([]*models.Initiative, error)
	GetHistory(battleID uuid.UUID) ([]*models.TurnEntry, error)
}

// TurnService implémente l'interface TurnServiceInterface
type TurnService struct {
	battleRepo    repository.BattleRepositoryInterface
	characterRepo repository.CharacterRepositoryInterface
	turnRepo      repository.TurnRepositoryInterface
	effects       *EffectService
	triggers      *TriggerService
	locks         *BattleLockRegistry
}

// NewTurnService crée une nouvelle instance de l'ordonnanceur
func NewTurnService(
	battleRepo repository.BattleRepositoryInterface,
	characterRepo repository.CharacterRepositoryInterface,
	turnRepo repository.TurnRepositoryInterface,
	effects *EffectService,
	triggers *TriggerService,
	locks *BattleLockRegistry,
) TurnServiceInterface {
	return &TurnService{
		battleRepo:    battleRepo,
		characterRepo: characterRepo,
		turnRepo:      turnRepo,
		effects:       effects,
		triggers:      triggers,
		locks:         locks,
	}
}

// RollInitiative enregistre ou remplace le jet d'initiative d'un
// personnage. Le premier jet est toujours accepté ; relancer exige le
// drapeau de relance du personnage, consommé par la relance.
func (s *TurnService) RollInitiative(req *models.RollInitiativeRequest) (*models.Initiative, error) {
	unlock := s.locks.Lock(req.BattleID)
	defer unlock()

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

	existing, err := s.turnRepo.GetInitiative(req.BattleID, req.CharacterID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	initiative := &models.Initiative{
		ID:          uuid.New(),
		BattleID:    req.BattleID,
		CharacterID: req.CharacterID,
		Value:       req.Value,
		Hability:    req.Hability,
		PlaysFirst:  req.PlaysFirst,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if existing != nil {
		if !character.CanRerollInitiative {
			return nil, fmt.Errorf("character %s: %w", character.ID, models.ErrRerollForbidden)
		}
		// La relance consomme le drapeau
		character.CanRerollInitiative = false
		if err := s.characterRepo.Update(character); err != nil {
			return nil, err
		}
		initiative.ID = existing.ID
		initiative.CreatedAt = existing.CreatedAt
	}

	if err := s.turnRepo.UpsertInitiative(initiative); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"battle_id":    req.BattleID,
		"character_id": req.CharacterID,
		"value":        req.Value,
		"reroll":       existing != nil,
	}).Info("Initiative rolled")

	return initiative, nil
}

// TakeTurn enregistre la prise d'un tour : l'entrée reçoit le numéro
// suivant de la bataille, le compteur de tour avance, les statuts à
// décroissance du personnage expirent et ses compteurs picto per_turn
// sont réarmés
func (s *TurnService) TakeTurn(req *models.TakeTurnRequest) (*models.TurnEntry, error) {
	unlock := s.locks.Lock(req.BattleID)
	defer unlock()

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
	if !character.IsAlive() {
		return nil, fmt.Errorf("%w: defeated characters cannot take turns", models.ErrInvalidRequest)
	}

	last, err := s.turnRepo.GetLastSequence(req.BattleID)
	if err != nil {
		return nil, err
	}

	entry := &models.TurnEntry{
		ID:          uuid.New(),
		BattleID:    req.BattleID,
		CharacterID: req.CharacterID,
		Sequence:    last + 1,
		CreatedAt:   time.Now(),
	}
	if err := s.turnRepo.CreateEntry(entry); err != nil {
		return nil, err
	}

	battle.CurrentTurn = entry.Sequence
	if err := s.battleRepo.Update(battle); err != nil {
		return nil, err
	}

	if _, err := s.effects.expireTurnLocked(req.CharacterID); err != nil {
		return nil, err
	}
	if _, err := s.triggers.resetCharacterLocked(req.BattleID, req.CharacterID); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"battle_id":    req.BattleID,
		"character_id": req.CharacterID,
		"sequence":     entry.Sequence,
	}).Info("Turn taken")

	return entry, nil
}

// GetTurnOrder retourne les initiatives d'une bataille dans l'ordre
// d'action : valeur décroissante, drapeau de priorité, habileté
func (s *TurnService) GetTurnOrder(battleID uuid.UUID) ([]*models.Initiative, error) {
	initiatives, err := s.turnRepo.GetInitiativesByBattle(battleID)
	if err != nil {
		return nil, err
	}

	models.SortInitiatives(initiatives)
	return initiatives, nil
}

// GetHistory retourne l'historique de tours d'une bataille
func (s *TurnService) GetHistory(battleID uuid.UUID) ([]*models.TurnEntry, error) {
	return s.turnRepo.GetEntriesByBattle(battleID)
}
