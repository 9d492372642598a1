package service

import (
	"battle/internal/models"
)

// PictoRule décrit une règle picto : l'événement qui l'active, sa
// condition, le statut qu'elle confère et sa politique de remise à zéro.
// Une règle non supportée est connue du moteur mais pas modélisable ;
// elle est signalée comme telle, jamais silencieusement ignorée.
type PictoRule struct {
	Name        string
	Event       models.TriggerEvent
	EffectKind  models.EffectKind
	ResetPolicy models.ResetPolicy
	// Nombre maximal d'activations par cycle de remise à zéro, 0 = illimité
	MaxPerReset int
	Supported   bool

	// Condition d'activation, nil = toujours
	Condition func(ctx *models.TriggerContext) bool
	// Statuts conférés à la source, en fonction du contexte
	Effects func(ctx *models.TriggerContext, buffDuration int) []models.ProposedEffect
}

// pictoRules registre des règles picto connues du moteur
var pictoRules = []PictoRule{
	{
		Name:        "solitary_fighter",
		Event:       models.TriggerTurnStart,
		EffectKind:  models.EffectEmpowered,
		ResetPolicy: models.ResetPerTurn,
		MaxPerReset: 1,
		Supported:   true,
		Condition:   sourceFightsAlone,
		Effects: func(ctx *models.TriggerContext, buffDuration int) []models.ProposedEffect {
			return []models.ProposedEffect{{Kind: models.EffectEmpowered, Amount: 2, Duration: buffDuration}}
		},
	},
	{
		Name:        "last_stand",
		Event:       models.TriggerTurnStart,
		EffectKind:  models.EffectProtected,
		ResetPolicy: models.ResetPerTurn,
		MaxPerReset: 1,
		Supported:   true,
		Condition: func(ctx *models.TriggerContext) bool {
			return ctx.Source != nil && ctx.Source.GetHealthPercentage() < 30.0
		},
		Effects: func(ctx *models.TriggerContext, buffDuration int) []models.ProposedEffect {
			return []models.ProposedEffect{{Kind: models.EffectProtected, Amount: 1, Duration: buffDuration}}
		},
	},
	{
		Name:        "opening_gambit",
		Event:       models.TriggerBattleStart,
		EffectKind:  models.EffectHastened,
		ResetPolicy: models.ResetPermanent,
		MaxPerReset: 1,
		Supported:   true,
		Effects: func(ctx *models.TriggerContext, buffDuration int) []models.ProposedEffect {
			return []models.ProposedEffect{{Kind: models.EffectHastened, Amount: 1, Duration: buffDuration}}
		},
	},
	{
		Name:        "healing_share",
		Event:       models.TriggerOnHealAlly,
		EffectKind:  models.EffectRegeneration,
		ResetPolicy: models.ResetPerTurn,
		MaxPerReset: 1,
		Supported:   true,
		Condition: func(ctx *models.TriggerContext) bool {
			return ctx.Amount > 0
		},
		Effects: func(ctx *models.TriggerContext, buffDuration int) []models.ProposedEffect {
			amount := ctx.Amount / 2
			if amount < 1 {
				amount = 1
			}
			return []models.ProposedEffect{{Kind: models.EffectRegeneration, Amount: amount, Duration: buffDuration}}
		},
	},
	{
		Name:        "critical_momentum",
		Event:       models.TriggerOnCrit,
		EffectKind:  models.EffectHastened,
		ResetPolicy: models.ResetPerTurn,
		MaxPerReset: 1,
		Supported:   true,
		Effects: func(ctx *models.TriggerContext, buffDuration int) []models.ProposedEffect {
			return []models.ProposedEffect{{Kind: models.EffectHastened, Amount: 1, Duration: buffDuration}}
		},
	},
	{
		Name:        "evasive_step",
		Event:       models.TriggerOnDodge,
		EffectKind:  models.EffectHastened,
		ResetPolicy: models.ResetPerTurn,
		MaxPerReset: 1,
		Supported:   true,
		Effects: func(ctx *models.TriggerContext, buffDuration int) []models.ProposedEffect {
			return []models.ProposedEffect{{Kind: models.EffectHastened, Amount: 1, Duration: buffDuration}}
		},
	},
	{
		Name:        "riposte_stance",
		Event:       models.TriggerOnParry,
		EffectKind:  models.EffectEmpowered,
		ResetPolicy: models.ResetPerTurn,
		MaxPerReset: 1,
		Supported:   true,
		Effects: func(ctx *models.TriggerContext, buffDuration int) []models.ProposedEffect {
			return []models.ProposedEffect{{Kind: models.EffectEmpowered, Amount: 1, Duration: buffDuration}}
		},
	},
	{
		Name:        "avenger",
		Event:       models.TriggerOnKill,
		EffectKind:  models.EffectEmpowered,
		ResetPolicy: models.ResetPermanent,
		Supported:   true,
		Effects: func(ctx *models.TriggerContext, buffDuration int) []models.ProposedEffect {
			return []models.ProposedEffect{{Kind: models.EffectEmpowered, Amount: 1, Duration: buffDuration}}
		},
	},
	// Règles connues mais hors du modèle de statuts : multiplicateur
	// passif et critique garanti ne s'expriment pas comme des effets à
	// durée, réanimation automatique relève d'un autre système
	{
		Name:        "base_strike",
		Event:       models.TriggerOnAttack,
		ResetPolicy: models.ResetPermanent,
		Supported:   false,
	},
	{
		Name:        "sure_hit",
		Event:       models.TriggerOnCrit,
		ResetPolicy: models.ResetPermanent,
		Supported:   false,
	},
	{
		Name:        "second_wind",
		Event:       models.TriggerOnDeath,
		ResetPolicy: models.ResetPermanent,
		Supported:   false,
	},
}

// sourceFightsAlone vérifie que la source est le dernier membre vivant
// de son équipe
func sourceFightsAlone(ctx *models.TriggerContext) bool {
	if ctx.Source == nil || !ctx.Source.IsAlive() {
		return false
	}
	for _, member := range ctx.Roster {
		if member.ID == ctx.Source.ID || member.Team != ctx.Source.Team {
			continue
		}
		if member.IsAlive() {
			return false
		}
	}
	return true
}

// rulesForEvent retourne les règles enregistrées pour un événement
func rulesForEvent(event models.TriggerEvent) []PictoRule {
	var matched []PictoRule
	for _, rule := range pictoRules {
		if rule.Event == event {
			matched = append(matched, rule)
		}
	}
	return matched
}
