package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battle/internal/models"
)

func intPtr(v int) *int { return &v }

func elementPtr(e models.Element) *models.Element { return &e }

func TestDeclareAttackPending(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Gustave", 1, 100)
	target := env.addCharacter(battle.ID, "Nevron", 2, 100)

	env.addModifier(source.ID, 1.5, 0, "", true)

	attack, err := env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID:   battle.ID,
		SourceID:   source.ID,
		TargetID:   target.ID,
		TotalPower: intPtr(10),
	})
	require.NoError(t, err)

	require.NotNil(t, attack.TotalPower)
	assert.Equal(t, 15, *attack.TotalPower)
	assert.True(t, attack.IsPending())
	// La défense n'a pas encore répondu : la cible est intacte
	assert.Equal(t, 100, target.Health)
	assert.Contains(t, env.logs.eventTypes(battle.ID), models.LogAttackPending)
}

func TestDeclareAttackImmediate(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Maelle", 1, 100)
	target := env.addCharacter(battle.ID, "Golem", 2, 100)

	env.resistances.UpsertResistance(&models.ElementResistance{
		CharacterID: target.ID,
		Element:     models.ElementFire,
		Kind:        models.ResistanceResist,
		Multiplier:  0.5,
	})

	attack, err := env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID:    battle.ID,
		SourceID:    source.ID,
		TargetID:    target.ID,
		TotalDamage: intPtr(20),
		Element:     elementPtr(models.ElementFire),
	})
	require.NoError(t, err)

	assert.True(t, attack.Resolved)
	require.NotNil(t, attack.TotalDamage)
	assert.Equal(t, 10, *attack.TotalDamage)
	assert.Equal(t, 90, target.Health)
	assert.Contains(t, env.logs.eventTypes(battle.ID), models.LogDamageDealt)
}

func TestDeclareAttackValidation(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Lune", 1, 100)
	target := env.addCharacter(battle.ID, "Nevron", 2, 100)

	_, err := env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID: battle.ID,
		SourceID: source.ID,
		TargetID: target.ID,
	})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)

	_, err = env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID:    battle.ID,
		SourceID:    source.ID,
		TargetID:    target.ID,
		TotalPower:  intPtr(10),
		TotalDamage: intPtr(10),
	})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestDeclareAttackDeadSource(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Tombe", 1, 100)
	source.Health = 0
	target := env.addCharacter(battle.ID, "Nevron", 2, 100)

	_, err := env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID:   battle.ID,
		SourceID:   source.ID,
		TargetID:   target.ID,
		TotalPower: intPtr(10),
	})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestResolveAttackAppliesDefendedShare(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Gustave", 1, 100)
	target := env.addCharacter(battle.ID, "Nevron", 2, 100)

	attack, err := env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID:   battle.ID,
		SourceID:   source.ID,
		TargetID:   target.ID,
		TotalPower: intPtr(10),
	})
	require.NoError(t, err)

	resolved, err := env.attackService.ResolveAttack(&models.ResolveAttackRequest{
		AttackID:    attack.ID,
		TotalDamage: 4,
	})
	require.NoError(t, err)

	assert.True(t, resolved.Resolved)
	require.NotNil(t, resolved.TotalDamage)
	require.NotNil(t, resolved.TotalDefended)
	assert.Equal(t, 4, *resolved.TotalDamage)
	assert.Equal(t, 6, *resolved.TotalDefended)
	assert.Equal(t, 96, target.Health)
}

func TestResolveAttackClampsToDeclaredPower(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Maelle", 1, 100)
	target := env.addCharacter(battle.ID, "Nevron", 2, 100)

	attack, err := env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID:   battle.ID,
		SourceID:   source.ID,
		TargetID:   target.ID,
		TotalPower: intPtr(10),
	})
	require.NoError(t, err)

	resolved, err := env.attackService.ResolveAttack(&models.ResolveAttackRequest{
		AttackID:    attack.ID,
		TotalDamage: 50,
	})
	require.NoError(t, err)

	// Les dégâts ne dépassent jamais la puissance déclarée
	assert.Equal(t, 10, *resolved.TotalDamage)
	assert.Equal(t, 0, *resolved.TotalDefended)
	assert.Equal(t, 90, target.Health)
}

func TestResolveAttackIdempotent(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Lune", 1, 100)
	target := env.addCharacter(battle.ID, "Nevron", 2, 100)

	attack, err := env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID:   battle.ID,
		SourceID:   source.ID,
		TargetID:   target.ID,
		TotalPower: intPtr(10),
	})
	require.NoError(t, err)

	_, err = env.attackService.ResolveAttack(&models.ResolveAttackRequest{
		AttackID:    attack.ID,
		TotalDamage: 4,
	})
	require.NoError(t, err)

	// Rejouer la résolution est un no-op bénin : l'attaque revient telle
	// quelle, la cible n'est pas frappée une seconde fois
	again, err := env.attackService.ResolveAttack(&models.ResolveAttackRequest{
		AttackID:    attack.ID,
		TotalDamage: 4,
	})
	assert.ErrorIs(t, err, models.ErrAlreadyResolved)
	require.NotNil(t, again)
	assert.Equal(t, attack.ID, again.ID)
	assert.Equal(t, 96, target.Health)
}

func TestResolveAttackAppliesProposedEffects(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Sciel", 1, 100)
	target := env.addCharacter(battle.ID, "Nevron", 2, 100)

	attack, err := env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID:   battle.ID,
		SourceID:   source.ID,
		TargetID:   target.ID,
		TotalPower: intPtr(10),
		Effects: []models.ProposedEffect{
			{Kind: models.EffectBurning, Amount: 3, Duration: 2},
		},
	})
	require.NoError(t, err)

	_, err = env.attackService.ResolveAttack(&models.ResolveAttackRequest{
		AttackID:    attack.ID,
		TotalDamage: 4,
	})
	require.NoError(t, err)

	effects, err := env.effectService.GetCharacterEffects(target.ID)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, models.EffectBurning, effects[0].Kind)
	assert.Equal(t, 3, effects[0].Amount)
}

func TestAttackEffectsSkippedWhenTargetKilled(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Verso", 1, 100)
	target := env.addCharacter(battle.ID, "Moisson", 2, 5)

	_, err := env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID:    battle.ID,
		SourceID:    source.ID,
		TargetID:    target.ID,
		TotalDamage: intPtr(10),
		Effects: []models.ProposedEffect{
			{Kind: models.EffectBurning, Amount: 3, Duration: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, target.Health)
	effects, err := env.effectService.GetCharacterEffects(target.ID)
	require.NoError(t, err)
	assert.Empty(t, effects)
}

func TestAllowCounters(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Gustave", 1, 100)
	target := env.addCharacter(battle.ID, "Nevron", 2, 100)

	first, err := env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID:   battle.ID,
		SourceID:   source.ID,
		TargetID:   target.ID,
		TotalPower: intPtr(10),
	})
	require.NoError(t, err)

	second, err := env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID:   battle.ID,
		SourceID:   source.ID,
		TargetID:   target.ID,
		TotalPower: intPtr(8),
	})
	require.NoError(t, err)

	count, err := env.attackService.AllowCounters(battle.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.True(t, first.AllowCounter)
	assert.True(t, second.AllowCounter)
	assert.Contains(t, env.logs.eventTypes(battle.ID), models.LogAllowCounter)

	// Déjà ouvertes : plus rien à modifier
	count, err = env.attackService.AllowCounters(battle.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestGetPendingAttacks(t *testing.T) {
	env := newTestEnv(1)
	battle := env.addBattle()
	source := env.addCharacter(battle.ID, "Lune", 1, 100)
	target := env.addCharacter(battle.ID, "Nevron", 2, 100)

	pendingAttack, err := env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID:   battle.ID,
		SourceID:   source.ID,
		TargetID:   target.ID,
		TotalPower: intPtr(10),
	})
	require.NoError(t, err)

	_, err = env.attackService.DeclareAttack(&models.DeclareAttackRequest{
		BattleID:    battle.ID,
		SourceID:    source.ID,
		TargetID:    target.ID,
		TotalDamage: intPtr(5),
	})
	require.NoError(t, err)

	pending, err := env.attackService.GetPendingAttacks(battle.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, pendingAttack.ID, pending[0].ID)

	all, err := env.attackService.GetBattleAttacks(battle.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
