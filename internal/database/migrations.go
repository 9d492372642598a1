package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Migration 1: Table des batailles
const createBattlesTable = `
CREATE TABLE IF NOT EXISTS battles (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(255) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'finished')),
    current_turn INTEGER NOT NULL DEFAULT 0,

    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    ended_at TIMESTAMP WITH TIME ZONE,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);`

// Migration 2: Table des personnages en bataille
const createBattleCharactersTable = `
CREATE TABLE IF NOT EXISTS battle_characters (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    battle_id UUID NOT NULL REFERENCES battles(id) ON DELETE CASCADE,
    player_id UUID,
    name VARCHAR(100) NOT NULL,
    team INTEGER NOT NULL DEFAULT 1,

    -- Points de vie
    health INTEGER NOT NULL,
    max_health INTEGER NOT NULL,

    -- Pools de ressources optionnels
    magic_points INTEGER,
    charge_points INTEGER,
    gradient_charge INTEGER,

    can_reroll_initiative BOOLEAN NOT NULL DEFAULT true,

    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);`

// Migration 3: Table des statuts actifs
const createStatusEffectsTable = `
CREATE TABLE IF NOT EXISTS status_effects (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    battle_id UUID NOT NULL REFERENCES battles(id) ON DELETE CASCADE,
    character_id UUID NOT NULL REFERENCES battle_characters(id) ON DELETE CASCADE,
    kind VARCHAR(20) NOT NULL CHECK (kind IN (
        'frozen', 'burning', 'regeneration', 'cursed', 'confused', 'plagued',
        'hastened', 'slowed', 'weakened', 'empowered', 'protected',
        'unprotected', 'inverted'
    )),

    amount INTEGER NOT NULL DEFAULT 0,
    remaining_turns INTEGER NOT NULL DEFAULT 0,
    resolved BOOLEAN NOT NULL DEFAULT false,

    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);`

// Migration 4: Table des attaques
const createAttacksTable = `
CREATE TABLE IF NOT EXISTS attacks (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    battle_id UUID NOT NULL REFERENCES battles(id) ON DELETE CASCADE,
    source_id UUID NOT NULL REFERENCES battle_characters(id) ON DELETE CASCADE,
    target_id UUID NOT NULL REFERENCES battle_characters(id) ON DELETE CASCADE,

    total_power INTEGER,
    total_damage INTEGER,
    total_defended INTEGER,
    element VARCHAR(20) CHECK (element IN ('fire', 'ice', 'lightning', 'earth', 'wind', 'dark', 'light')),

    -- Statuts proposés, appliqués à la résolution
    effects JSONB DEFAULT '[]',

    resolved BOOLEAN NOT NULL DEFAULT false,
    allow_counter BOOLEAN NOT NULL DEFAULT false,

    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,

    CONSTRAINT power_or_damage CHECK (total_power IS NOT NULL OR total_damage IS NOT NULL)
);`

// Migration 5: Table des modificateurs de dégâts
const createDamageModifiersTable = `
CREATE TABLE IF NOT EXISTS damage_modifiers (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    character_id UUID NOT NULL REFERENCES battle_characters(id) ON DELETE CASCADE,

    kind VARCHAR(50) NOT NULL,
    multiplier DECIMAL(8,3) NOT NULL DEFAULT 1.0,
    flat_bonus INTEGER NOT NULL DEFAULT 0,
    condition VARCHAR(100) NOT NULL DEFAULT '',
    active BOOLEAN NOT NULL DEFAULT true,

    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);`

// Migration 6: Tables des résistances et immunités
const createResistancesTable = `
CREATE TABLE IF NOT EXISTS element_resistances (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    character_id UUID NOT NULL REFERENCES battle_characters(id) ON DELETE CASCADE,
    element VARCHAR(20) NOT NULL CHECK (element IN ('fire', 'ice', 'lightning', 'earth', 'wind', 'dark', 'light')),
    kind VARCHAR(10) NOT NULL CHECK (kind IN ('immune', 'resist', 'weak')),
    multiplier DECIMAL(8,3) NOT NULL DEFAULT 1.0,

    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,

    UNIQUE(character_id, element)
);

CREATE TABLE IF NOT EXISTS status_immunities (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    character_id UUID NOT NULL REFERENCES battle_characters(id) ON DELETE CASCADE,
    status_kind VARCHAR(20) NOT NULL,
    kind VARCHAR(10) NOT NULL CHECK (kind IN ('immune', 'resist')),
    resist_chance INTEGER NOT NULL DEFAULT 0 CHECK (resist_chance BETWEEN 0 AND 100),

    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,

    UNIQUE(character_id, status_kind)
);`

// Migration 7: Table des compteurs d'activation picto
const createAbilityTriggersTable = `
CREATE TABLE IF NOT EXISTS ability_triggers (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    battle_id UUID NOT NULL REFERENCES battles(id) ON DELETE CASCADE,
    character_id UUID NOT NULL REFERENCES battle_characters(id) ON DELETE CASCADE,

    ability_name VARCHAR(100) NOT NULL,
    effect_kind VARCHAR(20) NOT NULL,

    times_triggered INTEGER NOT NULL DEFAULT 0,
    last_turn_triggered INTEGER NOT NULL DEFAULT 0,
    reset_policy VARCHAR(20) NOT NULL DEFAULT 'per_turn' CHECK (reset_policy IN ('per_turn', 'permanent')),

    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,

    UNIQUE(battle_id, character_id, ability_name)
);`

// Migration 8: Tables d'initiative et de tours
const createInitiativesTable = `
CREATE TABLE IF NOT EXISTS initiatives (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    battle_id UUID NOT NULL REFERENCES battles(id) ON DELETE CASCADE,
    character_id UUID NOT NULL REFERENCES battle_characters(id) ON DELETE CASCADE,

    value INTEGER NOT NULL DEFAULT 0,
    hability INTEGER NOT NULL DEFAULT 0,
    plays_first BOOLEAN NOT NULL DEFAULT false,

    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,

    UNIQUE(battle_id, character_id)
);

CREATE TABLE IF NOT EXISTS turn_entries (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    battle_id UUID NOT NULL REFERENCES battles(id) ON DELETE CASCADE,
    character_id UUID NOT NULL REFERENCES battle_characters(id) ON DELETE CASCADE,
    sequence INTEGER NOT NULL,

    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,

    UNIQUE(battle_id, sequence)
);`

// Migration 9: Table du journal d'audit
const createBattleLogsTable = `
CREATE TABLE IF NOT EXISTS battle_logs (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    battle_id UUID NOT NULL REFERENCES battles(id) ON DELETE CASCADE,
    event_type VARCHAR(30) NOT NULL,
    payload JSONB DEFAULT '{}',

    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);`

// Migration 10: Index pour les performances
const createIndexes = `
-- Index pour battle_characters
CREATE INDEX IF NOT EXISTS idx_battle_characters_battle_id ON battle_characters(battle_id);
CREATE INDEX IF NOT EXISTS idx_battle_characters_team ON battle_characters(battle_id, team);

-- Index pour status_effects
CREATE INDEX IF NOT EXISTS idx_status_effects_battle_id ON status_effects(battle_id);
CREATE INDEX IF NOT EXISTS idx_status_effects_character_kind ON status_effects(character_id, kind);

-- Index pour attacks
CREATE INDEX IF NOT EXISTS idx_attacks_battle_id ON attacks(battle_id);
CREATE INDEX IF NOT EXISTS idx_attacks_resolved ON attacks(battle_id, resolved);

-- Index pour damage_modifiers
CREATE INDEX IF NOT EXISTS idx_damage_modifiers_character ON damage_modifiers(character_id, active);

-- Index pour ability_triggers
CREATE INDEX IF NOT EXISTS idx_ability_triggers_battle ON ability_triggers(battle_id);
CREATE INDEX IF NOT EXISTS idx_ability_triggers_character ON ability_triggers(battle_id, character_id);

-- Index pour turn_entries
CREATE INDEX IF NOT EXISTS idx_turn_entries_battle ON turn_entries(battle_id, sequence);
CREATE INDEX IF NOT EXISTS idx_turn_entries_character ON turn_entries(character_id);

-- Index pour battle_logs
CREATE INDEX IF NOT EXISTS idx_battle_logs_battle ON battle_logs(battle_id, created_at);`

// RunMigrations exécute toutes les migrations dans l'ordre
func RunMigrations(db *DB) error {
	migrations := []struct {
		name  string
		query string
	}{
		{"battles", createBattlesTable},
		{"battle_characters", createBattleCharactersTable},
		{"status_effects", createStatusEffectsTable},
		{"attacks", createAttacksTable},
		{"damage_modifiers", createDamageModifiersTable},
		{"resistances_immunities", createResistancesTable},
		{"ability_triggers", createAbilityTriggersTable},
		{"initiatives_turns", createInitiativesTable},
		{"battle_logs", createBattleLogsTable},
		{"indexes", createIndexes},
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration.query); err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.name, err)
		}
		logrus.WithField("migration", migration.name).Debug("Migration applied")
	}

	logrus.Info("All database migrations applied")
	return nil
}
