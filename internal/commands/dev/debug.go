package dev

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func (h *handlers) createDebugCommand() *discord.Command {
	return discord.NewCommand(
		"debug",
		"Activa o desactiva los logs de depuración",
		"dev",
		h.debugHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "estado",
			Description: "Nuevo estado (vacío para consultarlo)",
			Required:    false,
		},
	).AsDev().InGuild().RequiresDatabase()
}

func (h *handlers) debugHandler(ctx *discord.CommandContext) error {
	guildID := ctx.Interaction.GuildID
	provided := ctx.HasOption("estado")
	enabled := ctx.GetBoolOption("estado")

	go func() {
		defer errors.RecoverMiddleware()()

		runCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if !provided {
			current, err := h.settings.Debug(runCtx, guildID)
			if err != nil {
				_ = ctx.ReplyEphemeral("❌ Error al consultar la base de datos.")
				return
			}
			_ = ctx.ReplyEphemeral(fmt.Sprintf("🐛 Debug: `%t`", current))
			return
		}

		if err := h.settings.Set(runCtx, guildID, models.SettingDebug, strconv.FormatBool(enabled)); err != nil {
			_ = ctx.ReplyEphemeral("❌ Error al guardar la configuración.")
			return
		}
		if h.setDebug != nil {
			h.setDebug(enabled)
		}
		logger.System(fmt.Sprintf("Debug %t por %s", enabled, ctx.User().ID), "CMD-Dev")
		_ = ctx.ReplyEphemeral(fmt.Sprintf("🐛 Debug ahora es `%t`.", enabled))
	}()
	return nil
}
