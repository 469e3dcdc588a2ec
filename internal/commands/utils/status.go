package utils

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
)

// createStatusCommand creates the /utils status subcommand
func (h *handlers) createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado del bot",
		"utils",
		h.statusHandler,
	)
}

func statusText(dbStatus string, dbOnline bool, guilds, pending int) string {
	dbIcon := "🔴"
	if dbOnline {
		dbIcon = "🟢"
	}
	return fmt.Sprintf(
		"📊 **Estado del Bot**\n"+
			"• Bot: 🟢 Online\n"+
			"• Base de datos: %s %s\n"+
			"• Servidores: %d\n"+
			"• Sanciones pendientes: %d",
		dbIcon, dbStatus, guilds, pending,
	)
}

// statusHandler handles the /utils status command
func (h *handlers) statusHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		dbStatus, dbOnline := "desconocido", false
		pending := 0
		if h.status != nil {
			dbStatus, dbOnline = h.status.Database()
			pending = h.status.PendingSanctions()
		}

		_ = ctx.Reply(statusText(dbStatus, dbOnline, ctx.Client.GuildCount(), pending))
	}()
	return nil
}
