package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battle/internal/models"
)

func resultFor(t *testing.T, results []*models.TriggerResult, ability string) *models.TriggerResult {
	t.Helper()
	for _, r := range results {
		if r.Ability == ability {
			return r
		}
	}
	t.Fatalf("no result for ability %q", ability)
	return nil
}

func TestTurnStartRulesDeclineWhenConditionsUnmet(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Gustave", 1, 100)
	env.addCharacter(battle.ID, "Lune", 1, 100)

	results, err := env.triggerService.HandleEvent(&models.TriggerEventRequest{
		BattleID: battle.ID,
		Event:    models.TriggerTurnStart,
		SourceID: source.ID,
	})
	require.NoError(t, err)

	// Coéquipier vivant et vie pleine : aucune règle ne s'applique
	assert.Equal(t, models.OutcomeDeclined, resultFor(t, results, "solitary_fighter").Outcome)
	assert.Equal(t, models.OutcomeDeclined, resultFor(t, results, "last_stand").Outcome)
}

func TestSolitaryFighterAppliesWhenAlone(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Gustave", 1, 100)
	ally := env.addCharacter(battle.ID, "Lune", 1, 100)
	ally.Health = 0

	results, err := env.triggerService.HandleEvent(&models.TriggerEventRequest{
		BattleID: battle.ID,
		Event:    models.TriggerTurnStart,
		SourceID: source.ID,
	})
	require.NoError(t, err)

	result := resultFor(t, results, "solitary_fighter")
	assert.Equal(t, models.OutcomeApplied, result.Outcome)
	require.Len(t, result.Applications, 1)
	assert.Equal(t, models.EffectEmpowered, result.Applications[0].Kind)
	assert.Equal(t, 2, result.Applications[0].Amount)

	effects, err := env.effectService.GetCharacterEffects(source.ID)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, models.EffectEmpowered, effects[0].Kind)
	assert.Contains(t, env.logs.eventTypes(battle.ID), models.LogPictoTracked)
}

func TestPerTurnRuleGatedUntilReset(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Maelle", 1, 100)
	source.Health = 20

	event := &models.TriggerEventRequest{
		BattleID: battle.ID,
		Event:    models.TriggerTurnStart,
		SourceID: source.ID,
	}

	results, err := env.triggerService.HandleEvent(event)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeApplied, resultFor(t, results, "last_stand").Outcome)

	// Même cycle : le compteur bloque
	results, err = env.triggerService.HandleEvent(event)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeGated, resultFor(t, results, "last_stand").Outcome)

	count, err := env.triggerService.ResetTurn(battle.ID)
	require.NoError(t, err)
	assert.Greater(t, count, int64(0))
	assert.Contains(t, env.logs.eventTypes(battle.ID), models.LogPictoEffectsReset)

	results, err = env.triggerService.HandleEvent(event)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeApplied, resultFor(t, results, "last_stand").Outcome)
}

func TestPermanentRuleSurvivesTurnReset(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Sciel", 1, 100)

	event := &models.TriggerEventRequest{
		BattleID: battle.ID,
		Event:    models.TriggerBattleStart,
		SourceID: source.ID,
	}

	results, err := env.triggerService.HandleEvent(event)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeApplied, resultFor(t, results, "opening_gambit").Outcome)

	_, err = env.triggerService.ResetTurn(battle.ID)
	require.NoError(t, err)

	// Le compteur permanent n'est pas réarmé par le cycle de tour
	results, err = env.triggerService.HandleEvent(event)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeGated, resultFor(t, results, "opening_gambit").Outcome)
}

func TestUnsupportedRuleIsReported(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Verso", 1, 100)

	results, err := env.triggerService.HandleEvent(&models.TriggerEventRequest{
		BattleID: battle.ID,
		Event:    models.TriggerOnDeath,
		SourceID: source.ID,
	})
	require.NoError(t, err)

	result := resultFor(t, results, "second_wind")
	assert.Equal(t, models.OutcomeUnsupported, result.Outcome)
	assert.NotEmpty(t, result.Message)
}

func TestOnCritMixesSupportedAndUnsupported(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Lune", 1, 100)

	results, err := env.triggerService.HandleEvent(&models.TriggerEventRequest{
		BattleID: battle.ID,
		Event:    models.TriggerOnCrit,
		SourceID: source.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeApplied, resultFor(t, results, "critical_momentum").Outcome)
	assert.Equal(t, models.OutcomeUnsupported, resultFor(t, results, "sure_hit").Outcome)
}

func TestHealingShareHalvesAmount(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Sciel", 1, 100)

	results, err := env.triggerService.HandleEvent(&models.TriggerEventRequest{
		BattleID: battle.ID,
		Event:    models.TriggerOnHealAlly,
		SourceID: source.ID,
		Amount:   9,
	})
	require.NoError(t, err)

	result := resultFor(t, results, "healing_share")
	require.Equal(t, models.OutcomeApplied, result.Outcome)
	require.Len(t, result.Applications, 1)
	assert.Equal(t, models.EffectRegeneration, result.Applications[0].Kind)
	assert.Equal(t, 4, result.Applications[0].Amount)
}

func TestHealingShareDeclinesWithoutHealing(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Sciel", 1, 100)

	results, err := env.triggerService.HandleEvent(&models.TriggerEventRequest{
		BattleID: battle.ID,
		Event:    models.TriggerOnHealAlly,
		SourceID: source.ID,
		Amount:   0,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDeclined, resultFor(t, results, "healing_share").Outcome)
}

func TestAvengerIsUnlimited(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Maelle", 1, 100)

	event := &models.TriggerEventRequest{
		BattleID: battle.ID,
		Event:    models.TriggerOnKill,
		SourceID: source.ID,
	}

	for i := 0; i < 2; i++ {
		results, err := env.triggerService.HandleEvent(event)
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeApplied, resultFor(t, results, "avenger").Outcome)
	}

	trigger, err := env.triggers.Get(battle.ID, source.ID, "avenger")
	require.NoError(t, err)
	assert.Equal(t, 2, trigger.TimesTriggered)

	// Les deux applications ont fusionné dans un seul enregistrement
	effects, err := env.effectService.GetCharacterEffects(source.ID)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, 2, effects[0].Amount)
}

func TestTriggerRecordsLastTurn(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	battle.CurrentTurn = 4
	source := env.addCharacter(battle.ID, "Gustave", 1, 100)

	_, err := env.triggerService.HandleEvent(&models.TriggerEventRequest{
		BattleID: battle.ID,
		Event:    models.TriggerOnKill,
		SourceID: source.ID,
	})
	require.NoError(t, err)

	trigger, err := env.triggers.Get(battle.ID, source.ID, "avenger")
	require.NoError(t, err)
	assert.Equal(t, 4, trigger.LastTurnTriggered)
}

func TestClearBattlePurgesCounters(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Lune", 1, 100)

	_, err := env.triggerService.HandleEvent(&models.TriggerEventRequest{
		BattleID: battle.ID,
		Event:    models.TriggerOnKill,
		SourceID: source.ID,
	})
	require.NoError(t, err)

	count, err := env.triggerService.ClearBattle(battle.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	triggers, err := env.triggerService.GetBattleTriggers(battle.ID)
	require.NoError(t, err)
	assert.Empty(t, triggers)
	assert.Contains(t, env.logs.eventTypes(battle.ID), models.LogPictoEffectsClear)
}

func TestHandleEventFinishedBattle(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	battle.Status = models.BattleStatusFinished
	source := env.addCharacter(battle.ID, "Verso", 1, 100)

	_, err := env.triggerService.HandleEvent(&models.TriggerEventRequest{
		BattleID: battle.ID,
		Event:    models.TriggerTurnStart,
		SourceID: source.ID,
	})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestHandleEventUnknownEvent(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Verso", 1, 100)

	_, err := env.triggerService.HandleEvent(&models.TriggerEventRequest{
		BattleID: battle.ID,
		Event:    models.TriggerEvent("on_blink"),
		SourceID: source.ID,
	})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}
