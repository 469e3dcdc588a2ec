// Package dev provides operator-only commands registered in the dev guild
package dev

import (
	"context"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
)

// Settings stores the per guild debug flag
type Settings interface {
	Set(ctx context.Context, guildID string, name models.SettingName, value string) error
	Debug(ctx context.Context, guildID string) (bool, error)
}

// Sweeper runs the lifecycle recovery pass
type Sweeper interface {
	RunNow(ctx context.Context) (moderation.RecoverResult, error)
	Interval() time.Duration
}

type handlers struct {
	settings Settings
	sweeper  Sweeper
	setDebug func(bool)
}

// RegisterDevCommands registers /dev as a dev guild command
func RegisterDevCommands(client *discord.ExtendedClient, settings Settings, sweeper Sweeper, setDebug func(bool)) {
	h := &handlers{settings: settings, sweeper: sweeper, setDebug: setDebug}

	group := client.CommandHandler.BuildCommandGroup(
		"dev",
		"Comandos de desarrollo",
		h.createDebugCommand(),
		h.createSweepCommand(),
	)

	client.CommandHandler.AddDevCommand(group)
}
