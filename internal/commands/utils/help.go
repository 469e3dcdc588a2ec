package utils

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
)

const helpText = "📖 **Ayuda de PancyMod Go**\n\n" +
	"**Moderación:**\n" +
	"• `/mod ban <usuario> [usuarios] [razón] [duración] [días]` - Banea a uno o varios usuarios\n" +
	"• `/mod kick <usuario> [usuarios] [razón]` - Expulsa a uno o varios usuarios\n" +
	"• `/mod mute <usuario> [usuarios] [duración] [razón]` - Silencia a uno o varios usuarios\n" +
	"• `/mod warn <usuario> <razón> [usuarios]` - Advierte a uno o varios usuarios\n" +
	"• `/mod unmute <usuario>` / `/mod unban <id>` - Revierte una sanción\n" +
	"• `/mod warns [usuario]` / `/mod removewarn <usuario> <id>` - Gestiona advertencias\n" +
	"• `/mod clear <cantidad> [usuario]` - Elimina los últimos mensajes del canal\n\n" +
	"**Configuración:**\n" +
	"• `/config channel <moderation|rules> #canal`\n" +
	"• `/config role <minmod|warning|muted> @Rol`\n" +
	"• `/config prefix [prefijos]` / `/config remove <ajuste>` / `/config show`\n\n" +
	"**Utilidades:**\n" +
	"• `/utils ping` - Comprueba la latencia\n" +
	"• `/utils status` - Estado del bot\n" +
	"• `/utils stats` - Estadísticas del bot\n\n" +
	"Duraciones: `90`, `30m`, `2h`, `1d5h`, `1w`. Sin duración la sanción es permanente."

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		helpHandler,
	)
}

// helpHandler handles the /utils help command
func helpHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		_ = ctx.ReplyEphemeral(helpText)
	}()
	return nil
}
