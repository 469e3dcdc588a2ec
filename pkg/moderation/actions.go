package moderation

import (
	"context"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// Action binds a sanction kind to its platform effect and, for reversible
// kinds, the effect that undoes it.
type Action struct {
	Emoji string
	// Title is the past participle used in messages ("baneado").
	Title   string
	Apply   func(ctx context.Context, p Platform, s *models.Sanction, deleteDays int) error
	Reverse func(ctx context.Context, p Platform, s *models.Sanction, reason string) error
}

// Reversible reports whether the action can be undone
func (a Action) Reversible() bool {
	return a.Reverse != nil
}

var actions = map[models.Kind]Action{
	models.KindWarn: {
		Emoji: "📢",
		Title: "advertido",
		Apply: func(ctx context.Context, p Platform, s *models.Sanction, _ int) error {
			return p.AddRole(ctx, s.GuildID, s.TargetID, s.RoleID, s.Reason)
		},
	},
	models.KindMute: {
		Emoji: "🔇",
		Title: "silenciado",
		Apply: func(ctx context.Context, p Platform, s *models.Sanction, _ int) error {
			return p.AddRole(ctx, s.GuildID, s.TargetID, s.RoleID, s.Reason)
		},
		Reverse: func(ctx context.Context, p Platform, s *models.Sanction, reason string) error {
			return p.RemoveRole(ctx, s.GuildID, s.TargetID, s.RoleID, reason)
		},
	},
	models.KindKick: {
		Emoji: "⛔",
		Title: "expulsado",
		Apply: func(ctx context.Context, p Platform, s *models.Sanction, _ int) error {
			return p.Kick(ctx, s.GuildID, s.TargetID, s.Reason)
		},
	},
	models.KindBan: {
		Emoji: "🔨",
		Title: "baneado",
		Apply: func(ctx context.Context, p Platform, s *models.Sanction, deleteDays int) error {
			return p.Ban(ctx, s.GuildID, s.TargetID, s.Reason, deleteDays)
		},
		Reverse: func(ctx context.Context, p Platform, s *models.Sanction, reason string) error {
			return p.Unban(ctx, s.GuildID, s.TargetID, reason)
		},
	},
}

// ActionFor returns the action bound to kind
func ActionFor(kind models.Kind) (Action, bool) {
	a, ok := actions[kind]
	return a, ok
}
