// Package commands wires every command category into the Discord client.
// Commands are organized in subdirectories by category (mod, config, utils, dev)
package commands

import (
	cfgcmd "github.com/PancyStudios/PancyModGo/internal/commands/config"
	"github.com/PancyStudios/PancyModGo/internal/commands/dev"
	"github.com/PancyStudios/PancyModGo/internal/commands/mod"
	"github.com/PancyStudios/PancyModGo/internal/commands/utils"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

// Services are the backends command handlers call into. Registration only
// needs the definitions, so zero values are fine for tools that never run
// handlers (cmd/sync-commands).
type Services struct {
	Moderator mod.Moderator
	Settings  Settings
	Sweeper   dev.Sweeper
	Status    utils.Status
	SetDebug  func(bool)
}

// Settings is everything the config and dev commands need from the settings store
type Settings interface {
	cfgcmd.Settings
	dev.Settings
}

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, svc Services) {
	// Moderation commands (/mod ban, /mod kick, /mod mute, /mod warn, ...)
	mod.RegisterModCommands(client, svc.Moderator)

	// Guild configuration (/config channel, /config role, ...)
	cfgcmd.RegisterConfigCommands(client, svc.Settings)

	// Utility commands
	utils.RegisterUtilsCommands(client, svc.Status)

	// Dev guild commands
	dev.RegisterDevCommands(client, svc.Settings, svc.Sweeper, svc.SetDebug)
}
