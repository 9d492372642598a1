package service

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"battle/internal/config"
	"battle/internal/external"
	"battle/internal/models"
)

// Implémentations en mémoire des repositories pour les tests de services

type fakeBattleRepo struct {
	battles map[uuid.UUID]*models.Battle
}

func newFakeBattleRepo() *fakeBattleRepo {
	return &fakeBattleRepo{battles: make(map[uuid.UUID]*models.Battle)}
}

func (r *fakeBattleRepo) Create(battle *models.Battle) error {
	r.battles[battle.ID] = battle
	return nil
}

func (r *fakeBattleRepo) GetByID(id uuid.UUID) (*models.Battle, error) {
	battle, ok := r.battles[id]
	if !ok {
		return nil, fmt.Errorf("battle %s: %w", id, models.ErrNotFound)
	}
	return battle, nil
}

func (r *fakeBattleRepo) Update(battle *models.Battle) error {
	if _, ok := r.battles[battle.ID]; !ok {
		return fmt.Errorf("battle %s: %w", battle.ID, models.ErrNotFound)
	}
	r.battles[battle.ID] = battle
	return nil
}

func (r *fakeBattleRepo) Delete(id uuid.UUID) error {
	if _, ok := r.battles[id]; !ok {
		return fmt.Errorf("battle %s: %w", id, models.ErrNotFound)
	}
	delete(r.battles, id)
	return nil
}

type fakeCharacterRepo struct {
	characters map[uuid.UUID]*models.BattleCharacter
	order      []uuid.UUID
}

func newFakeCharacterRepo() *fakeCharacterRepo {
	return &fakeCharacterRepo{characters: make(map[uuid.UUID]*models.BattleCharacter)}
}

func (r *fakeCharacterRepo) Create(character *models.BattleCharacter) error {
	r.characters[character.ID] = character
	r.order = append(r.order, character.ID)
	return nil
}

func (r *fakeCharacterRepo) GetByID(id uuid.UUID) (*models.BattleCharacter, error) {
	character, ok := r.characters[id]
	if !ok {
		return nil, fmt.Errorf("character %s: %w", id, models.ErrNotFound)
	}
	return character, nil
}

func (r *fakeCharacterRepo) Update(character *models.BattleCharacter) error {
	if _, ok := r.characters[character.ID]; !ok {
		return fmt.Errorf("character %s: %w", character.ID, models.ErrNotFound)
	}
	r.characters[character.ID] = character
	return nil
}

func (r *fakeCharacterRepo) Delete(id uuid.UUID) error {
	if _, ok := r.characters[id]; !ok {
		return fmt.Errorf("character %s: %w", id, models.ErrNotFound)
	}
	delete(r.characters, id)
	return nil
}

func (r *fakeCharacterRepo) GetByBattle(battleID uuid.UUID) ([]*models.BattleCharacter, error) {
	var result []*models.BattleCharacter
	for _, id := range r.order {
		if c, ok := r.characters[id]; ok && c.BattleID == battleID {
			result = append(result, c)
		}
	}
	return result, nil
}

type fakeEffectRepo struct {
	effects []*models.StatusEffect
}

func newFakeEffectRepo() *fakeEffectRepo {
	return &fakeEffectRepo{}
}

func (r *fakeEffectRepo) Create(effect *models.StatusEffect) error {
	r.effects = append(r.effects, effect)
	return nil
}

func (r *fakeEffectRepo) GetByID(id uuid.UUID) (*models.StatusEffect, error) {
	for _, e := range r.effects {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("status effect %s: %w", id, models.ErrNotFound)
}

func (r *fakeEffectRepo) Update(effect *models.StatusEffect) error {
	for i, e := range r.effects {
		if e.ID == effect.ID {
			r.effects[i] = effect
			return nil
		}
	}
	return fmt.Errorf("status effect %s: %w", effect.ID, models.ErrNotFound)
}

func (r *fakeEffectRepo) Delete(id uuid.UUID) error {
	for i, e := range r.effects {
		if e.ID == id {
			r.effects = append(r.effects[:i], r.effects[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("status effect %s: %w", id, models.ErrNotFound)
}

func (r *fakeEffectRepo) GetByCharacter(characterID uuid.UUID) ([]*models.StatusEffect, error) {
	var result []*models.StatusEffect
	for _, e := range r.effects {
		if e.CharacterID == characterID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeEffectRepo) GetByCharacterAndKind(characterID uuid.UUID, kind models.EffectKind) ([]*models.StatusEffect, error) {
	var result []*models.StatusEffect
	for _, e := range r.effects {
		if e.CharacterID == characterID && e.Kind == kind {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeEffectRepo) DeleteByCharacterAndKind(characterID uuid.UUID, kind models.EffectKind) (int64, error) {
	var kept []*models.StatusEffect
	var removed int64
	for _, e := range r.effects {
		if e.CharacterID == characterID && e.Kind == kind {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.effects = kept
	return removed, nil
}

func (r *fakeEffectRepo) GetByBattle(battleID uuid.UUID) ([]*models.StatusEffect, error) {
	var result []*models.StatusEffect
	for _, e := range r.effects {
		if e.BattleID == battleID {
			result = append(result, e)
		}
	}
	return result, nil
}

type fakeAttackRepo struct {
	attacks []*models.Attack
}

func newFakeAttackRepo() *fakeAttackRepo {
	return &fakeAttackRepo{}
}

func (r *fakeAttackRepo) Create(attack *models.Attack) error {
	r.attacks = append(r.attacks, attack)
	return nil
}

func (r *fakeAttackRepo) GetByID(id uuid.UUID) (*models.Attack, error) {
	for _, a := range r.attacks {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("attack %s: %w", id, models.ErrNotFound)
}

func (r *fakeAttackRepo) Update(attack *models.Attack) error {
	for i, a := range r.attacks {
		if a.ID == attack.ID {
			r.attacks[i] = attack
			return nil
		}
	}
	return fmt.Errorf("attack %s: %w", attack.ID, models.ErrNotFound)
}

func (r *fakeAttackRepo) GetByBattle(battleID uuid.UUID) ([]*models.Attack, error) {
	var result []*models.Attack
	for _, a := range r.attacks {
		if a.BattleID == battleID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeAttackRepo) GetPendingByBattle(battleID uuid.UUID) ([]*models.Attack, error) {
	var result []*models.Attack
	for _, a := range r.attacks {
		if a.BattleID == battleID && a.IsPending() {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeAttackRepo) AllowCounterAll(battleID uuid.UUID) (int64, error) {
	var count int64
	for _, a := range r.attacks {
		if a.BattleID == battleID && !a.AllowCounter {
			a.AllowCounter = true
			count++
		}
	}
	return count, nil
}

type fakeModifierRepo struct {
	modifiers []*models.DamageModifier
}

func newFakeModifierRepo() *fakeModifierRepo {
	return &fakeModifierRepo{}
}

func (r *fakeModifierRepo) Create(modifier *models.DamageModifier) error {
	r.modifiers = append(r.modifiers, modifier)
	return nil
}

func (r *fakeModifierRepo) GetByID(id uuid.UUID) (*models.DamageModifier, error) {
	for _, m := range r.modifiers {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, fmt.Errorf("damage modifier %s: %w", id, models.ErrNotFound)
}

func (r *fakeModifierRepo) Update(modifier *models.DamageModifier) error {
	for i, m := range r.modifiers {
		if m.ID == modifier.ID {
			r.modifiers[i] = modifier
			return nil
		}
	}
	return fmt.Errorf("damage modifier %s: %w", modifier.ID, models.ErrNotFound)
}

func (r *fakeModifierRepo) Delete(id uuid.UUID) error {
	for i, m := range r.modifiers {
		if m.ID == id {
			r.modifiers = append(r.modifiers[:i], r.modifiers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("damage modifier %s: %w", id, models.ErrNotFound)
}

func (r *fakeModifierRepo) GetByCharacter(characterID uuid.UUID) ([]*models.DamageModifier, error) {
	var result []*models.DamageModifier
	for _, m := range r.modifiers {
		if m.CharacterID == characterID {
			result = append(result, m)
		}
	}
	return result, nil
}

type resistanceKey struct {
	characterID uuid.UUID
	element     models.Element
}

type immunityKey struct {
	characterID uuid.UUID
	statusKind  models.EffectKind
}

type fakeResistanceRepo struct {
	resistances map[resistanceKey]*models.ElementResistance
	immunities  map[immunityKey]*models.StatusImmunity
}

func newFakeResistanceRepo() *fakeResistanceRepo {
	return &fakeResistanceRepo{
		resistances: make(map[resistanceKey]*models.ElementResistance),
		immunities:  make(map[immunityKey]*models.StatusImmunity),
	}
}

func (r *fakeResistanceRepo) UpsertResistance(resistance *models.ElementResistance) error {
	r.resistances[resistanceKey{resistance.CharacterID, resistance.Element}] = resistance
	return nil
}

func (r *fakeResistanceRepo) GetResistance(characterID uuid.UUID, element models.Element) (*models.ElementResistance, error) {
	resistance, ok := r.resistances[resistanceKey{characterID, element}]
	if !ok {
		return nil, fmt.Errorf("resistance %s/%s: %w", characterID, element, models.ErrNotFound)
	}
	return resistance, nil
}

func (r *fakeResistanceRepo) DeleteResistance(characterID uuid.UUID, element models.Element) error {
	key := resistanceKey{characterID, element}
	if _, ok := r.resistances[key]; !ok {
		return fmt.Errorf("resistance %s/%s: %w", characterID, element, models.ErrNotFound)
	}
	delete(r.resistances, key)
	return nil
}

func (r *fakeResistanceRepo) GetResistancesByCharacter(characterID uuid.UUID) ([]*models.ElementResistance, error) {
	var result []*models.ElementResistance
	for _, resistance := range r.resistances {
		if resistance.CharacterID == characterID {
			result = append(result, resistance)
		}
	}
	return result, nil
}

func (r *fakeResistanceRepo) UpsertImmunity(immunity *models.StatusImmunity) error {
	r.immunities[immunityKey{immunity.CharacterID, immunity.StatusKind}] = immunity
	return nil
}

func (r *fakeResistanceRepo) GetImmunity(characterID uuid.UUID, statusKind models.EffectKind) (*models.StatusImmunity, error) {
	immunity, ok := r.immunities[immunityKey{characterID, statusKind}]
	if !ok {
		return nil, fmt.Errorf("immunity %s/%s: %w", characterID, statusKind, models.ErrNotFound)
	}
	return immunity, nil
}

func (r *fakeResistanceRepo) DeleteImmunity(characterID uuid.UUID, statusKind models.EffectKind) error {
	key := immunityKey{characterID, statusKind}
	if _, ok := r.immunities[key]; !ok {
		return fmt.Errorf("immunity %s/%s: %w", characterID, statusKind, models.ErrNotFound)
	}
	delete(r.immunities, key)
	return nil
}

func (r *fakeResistanceRepo) GetImmunitiesByCharacter(characterID uuid.UUID) ([]*models.StatusImmunity, error) {
	var result []*models.StatusImmunity
	for _, immunity := range r.immunities {
		if immunity.CharacterID == characterID {
			result = append(result, immunity)
		}
	}
	return result, nil
}

type fakeTriggerRepo struct {
	triggers []*models.AbilityTrigger
}

func newFakeTriggerRepo() *fakeTriggerRepo {
	return &fakeTriggerRepo{}
}

func (r *fakeTriggerRepo) Create(trigger *models.AbilityTrigger) error {
	r.triggers = append(r.triggers, trigger)
	return nil
}

func (r *fakeTriggerRepo) Get(battleID, characterID uuid.UUID, abilityName string) (*models.AbilityTrigger, error) {
	for _, t := range r.triggers {
		if t.BattleID == battleID && t.CharacterID == characterID && t.AbilityName == abilityName {
			return t, nil
		}
	}
	return nil, fmt.Errorf("ability trigger %s: %w", abilityName, models.ErrNotFound)
}

func (r *fakeTriggerRepo) Update(trigger *models.AbilityTrigger) error {
	for i, t := range r.triggers {
		if t.ID == trigger.ID {
			r.triggers[i] = trigger
			return nil
		}
	}
	return fmt.Errorf("ability trigger %s: %w", trigger.ID, models.ErrNotFound)
}

func (r *fakeTriggerRepo) GetByBattle(battleID uuid.UUID) ([]*models.AbilityTrigger, error) {
	var result []*models.AbilityTrigger
	for _, t := range r.triggers {
		if t.BattleID == battleID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *fakeTriggerRepo) ResetPerTurn(battleID uuid.UUID) (int64, error) {
	var count int64
	for _, t := range r.triggers {
		if t.BattleID == battleID && t.ResetPolicy == models.ResetPerTurn && t.TimesTriggered > 0 {
			t.TimesTriggered = 0
			count++
		}
	}
	return count, nil
}

func (r *fakeTriggerRepo) ResetByCharacter(battleID, characterID uuid.UUID) (int64, error) {
	var count int64
	for _, t := range r.triggers {
		if t.BattleID == battleID && t.CharacterID == characterID &&
			t.ResetPolicy == models.ResetPerTurn && t.TimesTriggered > 0 {
			t.TimesTriggered = 0
			count++
		}
	}
	return count, nil
}

func (r *fakeTriggerRepo) DeleteByBattle(battleID uuid.UUID) (int64, error) {
	var kept []*models.AbilityTrigger
	var removed int64
	for _, t := range r.triggers {
		if t.BattleID == battleID {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	r.triggers = kept
	return removed, nil
}

type fakeTurnRepo struct {
	initiatives []*models.Initiative
	entries     []*models.TurnEntry
}

func newFakeTurnRepo() *fakeTurnRepo {
	return &fakeTurnRepo{}
}

func (r *fakeTurnRepo) UpsertInitiative(initiative *models.Initiative) error {
	for i, existing := range r.initiatives {
		if existing.BattleID == initiative.BattleID && existing.CharacterID == initiative.CharacterID {
			r.initiatives[i] = initiative
			return nil
		}
	}
	r.initiatives = append(r.initiatives, initiative)
	return nil
}

func (r *fakeTurnRepo) GetInitiative(battleID, characterID uuid.UUID) (*models.Initiative, error) {
	for _, initiative := range r.initiatives {
		if initiative.BattleID == battleID && initiative.CharacterID == characterID {
			return initiative, nil
		}
	}
	return nil, fmt.Errorf("initiative %s/%s: %w", battleID, characterID, models.ErrNotFound)
}

func (r *fakeTurnRepo) GetInitiativesByBattle(battleID uuid.UUID) ([]*models.Initiative, error) {
	var result []*models.Initiative
	for _, initiative := range r.initiatives {
		if initiative.BattleID == battleID {
			result = append(result, initiative)
		}
	}
	return result, nil
}

func (r *fakeTurnRepo) CreateEntry(entry *models.TurnEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeTurnRepo) GetLastSequence(battleID uuid.UUID) (int, error) {
	last := 0
	for _, entry := range r.entries {
		if entry.BattleID == battleID && entry.Sequence > last {
			last = entry.Sequence
		}
	}
	return last, nil
}

func (r *fakeTurnRepo) GetEntriesByBattle(battleID uuid.UUID) ([]*models.TurnEntry, error) {
	var result []*models.TurnEntry
	for _, entry := range r.entries {
		if entry.BattleID == battleID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *fakeTurnRepo) DeleteEntriesByCharacter(battleID, characterID uuid.UUID) (int64, error) {
	var kept []*models.TurnEntry
	var removed int64
	for _, entry := range r.entries {
		if entry.BattleID == battleID && entry.CharacterID == characterID {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	r.entries = kept
	return removed, nil
}

type fakeLogRepo struct {
	logs []*models.BattleLog
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{}
}

func (r *fakeLogRepo) Create(log *models.BattleLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeLogRepo) GetByBattle(battleID uuid.UUID, limit int) ([]*models.BattleLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var result []*models.BattleLog
	for i := len(r.logs) - 1; i >= 0 && len(result) < limit; i-- {
		if r.logs[i].BattleID == battleID {
			result = append(result, r.logs[i])
		}
	}
	return result, nil
}

func (r *fakeLogRepo) eventTypes(battleID uuid.UUID) []string {
	var types []string
	for _, log := range r.logs {
		if log.BattleID == battleID {
			types = append(types, log.EventType)
		}
	}
	return types
}

type fakePlayerClient struct {
	pushes []*external.CharacterState
}

func (c *fakePlayerClient) PushCharacterState(playerID uuid.UUID, state *external.CharacterState) error {
	c.pushes = append(c.pushes, state)
	return nil
}

// testEnv assemble la pile complète des services sur des repositories en
// mémoire, avec un générateur aléatoire déterministe
type testEnv struct {
	battles     *fakeBattleRepo
	characters  *fakeCharacterRepo
	effects     *fakeEffectRepo
	attacks     *fakeAttackRepo
	modifiers   *fakeModifierRepo
	resistances *fakeResistanceRepo
	triggers    *fakeTriggerRepo
	turns       *fakeTurnRepo
	logs        *fakeLogRepo
	player      *fakePlayerClient

	calculator     DamageCalculatorInterface
	effectService  EffectServiceInterface
	attackService  AttackServiceInterface
	triggerService TriggerServiceInterface
	turnService    TurnServiceInterface
	battleService  BattleServiceInterface
}

func newTestEnv(seed int64) *testEnv {
	env := &testEnv{
		battles:     newFakeBattleRepo(),
		characters:  newFakeCharacterRepo(),
		effects:     newFakeEffectRepo(),
		attacks:     newFakeAttackRepo(),
		modifiers:   newFakeModifierRepo(),
		resistances: newFakeResistanceRepo(),
		triggers:    newFakeTriggerRepo(),
		turns:       newFakeTurnRepo(),
		logs:        newFakeLogRepo(),
		player:      &fakePlayerClient{},
	}

	battleCfg := config.BattleConfig{
		PictoBuffDuration:    3,
		PlaguedHealthPenalty: 5,
	}

	locks := NewBattleLockRegistry()
	rng := rand.New(rand.NewSource(seed))

	env.calculator = NewDamageCalculator(env.characters, env.modifiers, env.resistances, env.turns, env.player, rng)
	effectService := NewEffectService(env.battles, env.characters, env.effects, env.calculator, env.logs, nil, locks, battleCfg)
	triggerService := NewTriggerService(env.battles, env.characters, env.triggers, effectService, env.logs, nil, locks, battleCfg)
	env.effectService = effectService
	env.attackService = NewAttackService(env.battles, env.characters, env.attacks, effectService, env.calculator, env.logs, nil, locks)
	env.triggerService = triggerService
	env.turnService = NewTurnService(env.battles, env.characters, env.turns, effectService, triggerService, locks)
	env.battleService = NewBattleService(env.battles, env.characters, env.effects, env.attacks, env.modifiers, env.resistances, env.logs, triggerService, locks)

	return env
}

func (env *testEnv) addBattle() *models.Battle {
	battle := &models.Battle{
		ID:        uuid.New(),
		Name:      "test battle",
		Status:    models.BattleStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	env.battles.Create(battle)
	return battle
}

func (env *testEnv) addCharacter(battleID uuid.UUID, name string, team, maxHealth int) *models.BattleCharacter {
	character := &models.BattleCharacter{
		ID:                  uuid.New(),
		BattleID:            battleID,
		Name:                name,
		Team:                team,
		Health:              maxHealth,
		MaxHealth:           maxHealth,
		CanRerollInitiative: true,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
	env.characters.Create(character)
	return character
}

func (env *testEnv) addEffect(battleID, characterID uuid.UUID, kind models.EffectKind, amount, turns int) *models.StatusEffect {
	effect := &models.StatusEffect{
		ID:             uuid.New(),
		BattleID:       battleID,
		CharacterID:    characterID,
		Kind:           kind,
		Amount:         amount,
		RemainingTurns: turns,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	env.effects.Create(effect)
	return effect
}
