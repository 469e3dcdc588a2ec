// Package mod provides moderation commands organized as subcommands under /mod
// Each command is in its own file for better organization
package mod

import (
	"context"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
)

// Moderator runs moderation requests on behalf of the commands
type Moderator interface {
	Execute(ctx context.Context, req moderation.Request) ([]moderation.Outcome, error)
	Revoke(ctx context.Context, req moderation.RevokeRequest) (*moderation.RevokeResult, error)
	Warns(ctx context.Context, guildID, targetID string) ([]*models.Sanction, error)
	RemoveWarn(ctx context.Context, guildID, actorID, channelID, sanctionID string) (*models.Sanction, error)
}

type handlers struct {
	mod Moderator
}

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient, mod Moderator) {
	h := &handlers{mod: mod}

	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		h.createBanCommand(),
		h.createKickCommand(),
		h.createMuteCommand(),
		h.createWarnCommand(),
		h.createUnmuteCommand(),
		h.createUnbanCommand(),
		h.createWarningsCommand(),
		h.createRemoveWarnCommand(),
		h.createClearCommand(),
	)

	client.CommandHandler.AddGlobalCommand(modGroup)
}
