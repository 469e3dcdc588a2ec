// Package utils provides general purpose commands under /utils
package utils

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

// Status reports the health of the bot's backends
type Status interface {
	// Database returns a human readable state and whether it is usable
	Database() (string, bool)
	// PendingSanctions is the number of armed reversal timers
	PendingSanctions() int
}

type handlers struct {
	status Status
}

// RegisterUtilsCommands registers the /utils subcommands
func RegisterUtilsCommands(client *discord.ExtendedClient, status Status) {
	h := &handlers{status: status}

	group := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		h.createPingCommand(),
		h.createStatusCommand(),
		createHelpCommand(),
		h.createStatsCommand(),
	)

	client.CommandHandler.AddGlobalCommand(group)
}
