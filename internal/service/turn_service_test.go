package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battle/internal/models"
)

func TestRollInitiativeFirstRollAlwaysAccepted(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	character := env.addCharacter(battle.ID, "Gustave", 1, 100)

	initiative, err := env.turnService.RollInitiative(&models.RollInitiativeRequest{
		BattleID:    battle.ID,
		CharacterID: character.ID,
		Value:       12,
		Hability:    3,
	})
	require.NoError(t, err)

	assert.Equal(t, 12, initiative.Value)
	// Le premier jet ne consomme pas le drapeau de relance
	assert.True(t, character.CanRerollInitiative)
}

func TestRollInitiativeRerollConsumesFlag(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	character := env.addCharacter(battle.ID, "Lune", 1, 100)

	first, err := env.turnService.RollInitiative(&models.RollInitiativeRequest{
		BattleID:    battle.ID,
		CharacterID: character.ID,
		Value:       8,
	})
	require.NoError(t, err)

	reroll, err := env.turnService.RollInitiative(&models.RollInitiativeRequest{
		BattleID:    battle.ID,
		CharacterID: character.ID,
		Value:       15,
	})
	require.NoError(t, err)

	assert.Equal(t, 15, reroll.Value)
	// La relance remplace l'entrée sans en changer l'identité
	assert.Equal(t, first.ID, reroll.ID)
	assert.False(t, character.CanRerollInitiative)

	// Troisième jet : le drapeau est consommé
	_, err = env.turnService.RollInitiative(&models.RollInitiativeRequest{
		BattleID:    battle.ID,
		CharacterID: character.ID,
		Value:       20,
	})
	assert.ErrorIs(t, err, models.ErrRerollForbidden)

	order, err := env.turnService.GetTurnOrder(battle.ID)
	require.NoError(t, err)
	require.Len(t, order, 1)
	assert.Equal(t, 15, order[0].Value)
}

func TestRollInitiativeFinishedBattle(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	battle.Status = models.BattleStatusFinished
	character := env.addCharacter(battle.ID, "Maelle", 1, 100)

	_, err := env.turnService.RollInitiative(&models.RollInitiativeRequest{
		BattleID:    battle.ID,
		CharacterID: character.ID,
		Value:       10,
	})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestTakeTurnSequenceIsMonotonic(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	first := env.addCharacter(battle.ID, "Gustave", 1, 100)
	second := env.addCharacter(battle.ID, "Nevron", 2, 100)

	entry, err := env.turnService.TakeTurn(&models.TakeTurnRequest{
		BattleID:    battle.ID,
		CharacterID: first.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Sequence)

	entry, err = env.turnService.TakeTurn(&models.TakeTurnRequest{
		BattleID:    battle.ID,
		CharacterID: second.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Sequence)
	assert.Equal(t, 2, battle.CurrentTurn)

	history, err := env.turnService.GetHistory(battle.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestTakeTurnRejectsDefeatedCharacter(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	character := env.addCharacter(battle.ID, "Tombe", 1, 100)
	character.Health = 0

	_, err := env.turnService.TakeTurn(&models.TakeTurnRequest{
		BattleID:    battle.ID,
		CharacterID: character.ID,
	})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestTakeTurnRunsEndOfTurnHousekeeping(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	character := env.addCharacter(battle.ID, "Sciel", 1, 100)

	env.addEffect(battle.ID, character.ID, models.EffectHastened, 1, 1)
	env.triggers.Create(&models.AbilityTrigger{
		ID:             uuid.New(),
		BattleID:       battle.ID,
		CharacterID:    character.ID,
		AbilityName:    "last_stand",
		ResetPolicy:    models.ResetPerTurn,
		TimesTriggered: 1,
	})

	_, err := env.turnService.TakeTurn(&models.TakeTurnRequest{
		BattleID:    battle.ID,
		CharacterID: character.ID,
	})
	require.NoError(t, err)

	// Les statuts à décroissance de l'acteur expirent avec son tour
	effects, err := env.effectService.GetCharacterEffects(character.ID)
	require.NoError(t, err)
	assert.Empty(t, effects)

	// Ses compteurs picto per_turn sont réarmés
	trigger, err := env.triggers.Get(battle.ID, character.ID, "last_stand")
	require.NoError(t, err)
	assert.Equal(t, 0, trigger.TimesTriggered)
}

func TestGetTurnOrderSorting(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	slow := env.addCharacter(battle.ID, "Lent", 2, 100)
	quick := env.addCharacter(battle.ID, "Vif", 1, 100)
	priority := env.addCharacter(battle.ID, "Prime", 1, 100)
	skilled := env.addCharacter(battle.ID, "Habile", 2, 100)

	for _, roll := range []*models.RollInitiativeRequest{
		{BattleID: battle.ID, CharacterID: slow.ID, Value: 10, Hability: 1},
		{BattleID: battle.ID, CharacterID: quick.ID, Value: 12},
		{BattleID: battle.ID, CharacterID: priority.ID, Value: 10, PlaysFirst: true},
		{BattleID: battle.ID, CharacterID: skilled.ID, Value: 10, Hability: 5},
	} {
		_, err := env.turnService.RollInitiative(roll)
		require.NoError(t, err)
	}

	order, err := env.turnService.GetTurnOrder(battle.ID)
	require.NoError(t, err)
	require.Len(t, order, 4)

	// Valeur décroissante, puis priorité, puis habileté
	assert.Equal(t, quick.ID, order[0].CharacterID)
	assert.Equal(t, priority.ID, order[1].CharacterID)
	assert.Equal(t, skilled.ID, order[2].CharacterID)
	assert.Equal(t, slow.ID, order[3].CharacterID)
}
