package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createUnmuteCommand creates the /mod unmute subcommand
func (h *handlers) createUnmuteCommand() *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Quita el silencio a un usuario",
		"mod",
		h.revokeHandler(models.KindMute),
	).WithOptions(
		userOption("Usuario a dessilenciar"),
		reasonOption(false),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		InGuild().
		RequiresDatabase()
}

// createUnbanCommand creates the /mod unban subcommand
func (h *handlers) createUnbanCommand() *discord.Command {
	return discord.NewCommand(
		"unban",
		"Desbanea a un usuario",
		"mod",
		h.revokeHandler(models.KindBan),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID del usuario a desbanear",
			Required:    true,
		},
		reasonOption(false),
	).WithUserPermissions(discordgo.PermissionBanMembers).
		InGuild().
		RequiresDatabase()
}

func revokeTitle(kind models.Kind) string {
	if kind == models.KindBan {
		return "desbaneado"
	}
	return "dessilenciado"
}

func (h *handlers) revokeHandler(kind models.Kind) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		target := ctx.GetSnowflakeOption("usuario")
		if kind == models.KindBan {
			target = ctx.GetStringOption("id")
		}
		if !isSnowflake(target) {
			return ctx.ReplyEphemeral("❌ Debes especificar un usuario válido.")
		}

		req := moderation.RevokeRequest{
			Kind:        kind,
			GuildID:     ctx.Interaction.GuildID,
			ChannelID:   ctx.Interaction.ChannelID,
			ModeratorID: ctx.User().ID,
			TargetID:    target,
			Reason:      ctx.GetStringOption("razon"),
		}

		if err := ctx.DeferEphemeral(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()

			runCtx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			res, err := h.mod.Revoke(runCtx, req)
			if err != nil {
				_ = ctx.EditReply(refusalMessage(err))
				return
			}
			msg := fmt.Sprintf("✅ <@%s> ha sido %s.", target, revokeTitle(kind))
			if res.Sanction == nil {
				msg += " No había una sanción registrada."
			}
			_ = ctx.EditReply(msg)
		}()
		return nil
	}
}
