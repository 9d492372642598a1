package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battle/internal/models"
)

func TestCreateBattle(t *testing.T) {
	env := newTestEnv(1)

	battle, err := env.battleService.CreateBattle(&models.CreateBattleRequest{Name: "Acte I"})
	require.NoError(t, err)

	assert.Equal(t, models.BattleStatusActive, battle.Status)
	assert.Equal(t, 0, battle.CurrentTurn)

	_, err = env.battleService.CreateBattle(&models.CreateBattleRequest{})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestEndBattleClearsTriggersAndIsIdempotent(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	character := env.addCharacter(battle.ID, "Gustave", 1, 100)

	env.triggers.Create(&models.AbilityTrigger{
		ID:          uuid.New(),
		BattleID:    battle.ID,
		CharacterID: character.ID,
		AbilityName: "avenger",
		ResetPolicy: models.ResetPermanent,
	})

	ended, err := env.battleService.EndBattle(battle.ID)
	require.NoError(t, err)

	assert.Equal(t, models.BattleStatusFinished, ended.Status)
	require.NotNil(t, ended.EndedAt)

	triggers, err := env.triggerService.GetBattleTriggers(battle.ID)
	require.NoError(t, err)
	assert.Empty(t, triggers)

	// Terminer une bataille déjà terminée est un no-op
	again, err := env.battleService.EndBattle(battle.ID)
	require.NoError(t, err)
	assert.Equal(t, ended.ID, again.ID)
}

func TestAddCharacterJoinsAtFullHealth(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()

	character, err := env.battleService.AddCharacter(battle.ID, &models.AddCharacterRequest{
		Name:      "Maelle",
		Team:      1,
		MaxHealth: 120,
	})
	require.NoError(t, err)

	assert.Equal(t, 120, character.Health)
	assert.Equal(t, 120, character.MaxHealth)
	assert.True(t, character.CanRerollInitiative)
}

func TestAddCharacterRejectsFinishedBattle(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	battle.Status = models.BattleStatusFinished

	_, err := env.battleService.AddCharacter(battle.ID, &models.AddCharacterRequest{
		Name:      "Retardataire",
		MaxHealth: 50,
	})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestGetBattleLoadsRelations(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	character := env.addCharacter(battle.ID, "Lune", 1, 100)
	env.addEffect(battle.ID, character.ID, models.EffectEmpowered, 1, 3)

	loaded, err := env.battleService.GetBattle(battle.ID)
	require.NoError(t, err)

	assert.Len(t, loaded.Characters, 1)
	assert.Len(t, loaded.Effects, 1)
	assert.Empty(t, loaded.Attacks)
}

func TestSetResistanceImmuneForcesZeroMultiplier(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	character := env.addCharacter(battle.ID, "Golem", 2, 100)

	resistance, err := env.battleService.SetResistance(&models.SetResistanceRequest{
		CharacterID: character.ID,
		Element:     models.ElementIce,
		Kind:        models.ResistanceImmune,
		Multiplier:  0.75,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, resistance.Multiplier)

	ice := models.ElementIce
	adjusted, err := env.calculator.ApplyElementResistance(character.ID, 30, &ice)
	require.NoError(t, err)
	assert.Equal(t, 0, adjusted)
}

func TestSetImmunityValidation(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	character := env.addCharacter(battle.ID, "Sciel", 1, 100)

	_, err := env.battleService.SetImmunity(&models.SetImmunityRequest{
		CharacterID:  character.ID,
		StatusKind:   models.EffectBurning,
		Kind:         models.ImmunityResist,
		ResistChance: 150,
	})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)

	immunity, err := env.battleService.SetImmunity(&models.SetImmunityRequest{
		CharacterID:  character.ID,
		StatusKind:   models.EffectBurning,
		Kind:         models.ImmunityResist,
		ResistChance: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, immunity.ResistChance)
}

func TestAddModifierRequiresExistingCharacter(t *testing.T) {
	env := newTestEnv(1)

	_, err := env.battleService.AddModifier(&models.AddModifierRequest{
		CharacterID: uuid.New(),
		Kind:        "rage",
		Multiplier:  1.2,
		Active:      true,
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestModifierLifecycle(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	character := env.addCharacter(battle.ID, "Verso", 1, 100)

	modifier, err := env.battleService.AddModifier(&models.AddModifierRequest{
		CharacterID: character.ID,
		Kind:        "rage",
		Multiplier:  1.2,
		FlatBonus:   2,
		Active:      true,
	})
	require.NoError(t, err)

	modifiers, err := env.battleService.GetCharacterModifiers(character.ID)
	require.NoError(t, err)
	assert.Len(t, modifiers, 1)

	require.NoError(t, env.battleService.RemoveModifier(modifier.ID))

	modifiers, err = env.battleService.GetCharacterModifiers(character.ID)
	require.NoError(t, err)
	assert.Empty(t, modifiers)
}

func TestGetLogsReturnsLatestFirst(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	character := env.addCharacter(battle.ID, "Gustave", 1, 100)

	for _, kind := range []models.EffectKind{models.EffectBurning, models.EffectEmpowered} {
		_, err := env.effectService.ApplyEffect(&models.ApplyStatusRequest{
			BattleID:    battle.ID,
			CharacterID: character.ID,
			Kind:        kind,
			Amount:      1,
			Duration:    2,
		})
		require.NoError(t, err)
	}

	logs, err := env.battleService.GetLogs(battle.ID, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.LogStatusAdded, logs[0].EventType)

	logs, err = env.battleService.GetLogs(battle.ID, 10)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}
