package mod

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const footerText = "💫 - Developed by PancyStudios"

// createWarningsCommand creates the /mod warns subcommand
func (h *handlers) createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warns",
		"Lista de advertencias de un usuario",
		"mod",
		h.warningsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "[STAFF] Usuario a buscar (opcional)",
			Required:    false,
		},
	).InGuild().RequiresDatabase()
}

// warningsEmbed lists warnings. Moderators are hidden from non-staff viewers.
func warningsEmbed(targetID string, warns []*models.Sanction, showModerator bool, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  "🔖 - Lista de advertencias",
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}

	if len(warns) == 0 {
		embed.Color = 0x00FF00
		embed.Description = fmt.Sprintf("No se han encontrado advertencias de <@%s> en este servidor\n\n> 💫 - **Cantidad de advertencias:** 0\n> 🕒 - **Fecha de consulta:** <t:%d>", targetID, now.Unix())
		return embed
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Advertencias de <@%s>\n\n", targetID)
	for _, w := range warns {
		moderator := "Oculto"
		if showModerator {
			moderator = "<@" + w.ModeratorID + ">"
		}
		fmt.Fprintf(&b, "> **Advertencia:** %s \n> **Moderador:** %s \n> **Fecha:** <t:%d:d> \n> **ID:** `%s` \n\n", w.Reason, moderator, w.AppliedAt.Unix(), w.ID)
	}
	fmt.Fprintf(&b, "> 💫 - **Cantidad de advertencias:** %d \n> 🕒 - **Fecha de consulta:** <t:%d>", len(warns), now.Unix())

	embed.Color = 0xFFA500
	embed.Description = b.String()
	return embed
}

func (h *handlers) warningsHandler(ctx *discord.CommandContext) error {
	target := ctx.GetSnowflakeOption("usuario")
	self := ctx.User().ID
	if target == "" {
		target = self
	}

	isModerator := false
	if m := ctx.Member(); m != nil {
		isModerator = discord.HasPermissions(m.Permissions, discordgo.PermissionManageMessages)
	}
	if target != self && !isModerator {
		return ctx.ReplyEphemeral("❌ No tienes permisos para ver la lista de advertencias de otro usuario.")
	}

	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	go func() {
		defer errors.RecoverMiddleware()()

		runCtx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		warns, err := h.mod.Warns(runCtx, ctx.Interaction.GuildID, target)
		if err != nil {
			logger.Error(fmt.Sprintf("Error DB Warnings: %v", err), "CMD-Warnings")
			_ = ctx.EditReply("❌ Error al consultar la base de datos.")
			return
		}
		_ = ctx.EditReplyEmbed(warningsEmbed(target, warns, isModerator, time.Now()))
	}()
	return nil
}

// createRemoveWarnCommand creates the /mod removewarn subcommand
func (h *handlers) createRemoveWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Elimina una advertencia específica de un usuario",
		"mod",
		h.removeWarnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario del cual eliminar la advertencia",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de la advertencia a eliminar",
			Required:     true,
			Autocomplete: true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithAutoComplete(h.removeWarnAutoComplete).
		InGuild().
		RequiresDatabase()
}

func (h *handlers) removeWarnHandler(ctx *discord.CommandContext) error {
	target := ctx.GetSnowflakeOption("usuario")
	warnID := ctx.GetStringOption("id")
	if target == "" || warnID == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario y el ID de la advertencia.")
	}

	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	go func() {
		defer errors.RecoverMiddleware()()

		runCtx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		removed, err := h.mod.RemoveWarn(runCtx, ctx.Interaction.GuildID, ctx.User().ID, ctx.Interaction.ChannelID, warnID)
		if err != nil {
			_ = ctx.EditReply(refusalMessage(err))
			return
		}
		if removed.TargetID != target {
			logger.Warn(fmt.Sprintf("Advertencia %s pertenecía a %s, no a %s", warnID, removed.TargetID, target), "CMD-RemoveWarn")
		}

		_ = ctx.EditReplyEmbed(&discordgo.MessageEmbed{
			Title:       "✅ Advertencia eliminada con éxito",
			Description: fmt.Sprintf("La advertencia de <@%s> ha sido eliminada.\n\n**Razón original:** %s\n**ID:** `%s`", removed.TargetID, removed.Reason, warnID),
			Color:       0x00FF00,
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Solicitado por %s", ctx.User().Username),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}()
	return nil
}

// warnChoices builds at most 25 autocomplete choices
func warnChoices(warns []*models.Sanction) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, min(len(warns), 25))
	for i, w := range warns {
		if i >= 25 {
			break
		}
		name := fmt.Sprintf("ID: %s - Razón: %s", w.ID, w.Reason)
		if len([]rune(name)) > 100 {
			name = string([]rune(name)[:97]) + "..."
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: w.ID})
	}
	return choices
}

// removeWarnAutoComplete handles autocomplete for the removewarn command
func (h *handlers) removeWarnAutoComplete(ctx *discord.CommandContext) {
	go func() {
		defer errors.RecoverMiddleware()()

		target := ctx.GetSnowflakeOption("usuario")
		if target == "" {
			_ = ctx.SendAutoCompleteChoices(nil)
			return
		}

		runCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		warns, err := h.mod.Warns(runCtx, ctx.Interaction.GuildID, target)
		if err != nil {
			logger.Debug(fmt.Sprintf("Autocompletado de advertencias falló: %v", err), "CMD-RemoveWarn")
			warns = nil
		}
		_ = ctx.SendAutoCompleteChoices(warnChoices(warns))
	}()
}
