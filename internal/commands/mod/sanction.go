package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

const commandTimeout = 30 * time.Second

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "usuario",
		Description: description,
		Required:    true,
	}
}

var extraUsersOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionString,
	Name:        "usuarios",
	Description: "Otros usuarios (menciones o IDs separados por espacios)",
	Required:    false,
}

func reasonOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "razon",
		Description: "Razón de la sanción",
		Required:    required,
	}
}

var durationOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionString,
	Name:        "duracion",
	Description: "Duración (ej. 30m, 2h, 1d5h). Vacío es permanente",
	Required:    false,
}

// createBanCommand creates the /mod ban subcommand
func (h *handlers) createBanCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Banea a uno o varios usuarios del servidor",
		"mod",
		h.sanctionHandler(models.KindBan),
	).WithOptions(
		userOption("Usuario a banear"),
		extraUsersOption,
		reasonOption(false),
		durationOption,
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "dias",
			Description: "Días de mensajes a eliminar (0-7)",
			Required:    false,
			MinValue:    func() *float64 { v := 0.0; return &v }(),
			MaxValue:    7,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		InGuild().
		RequiresDatabase()
}

// createKickCommand creates the /mod kick subcommand
func (h *handlers) createKickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Expulsa a uno o varios usuarios del servidor",
		"mod",
		h.sanctionHandler(models.KindKick),
	).WithOptions(
		userOption("Usuario a expulsar"),
		extraUsersOption,
		reasonOption(false),
	).WithUserPermissions(discordgo.PermissionKickMembers).
		WithBotPermissions(discordgo.PermissionKickMembers).
		InGuild().
		RequiresDatabase()
}

// createMuteCommand creates the /mod mute subcommand
func (h *handlers) createMuteCommand() *discord.Command {
	return discord.NewCommand(
		"mute",
		"Silencia a uno o varios usuarios",
		"mod",
		h.sanctionHandler(models.KindMute),
	).WithOptions(
		userOption("Usuario a silenciar"),
		extraUsersOption,
		durationOption,
		reasonOption(false),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionManageRoles).
		InGuild().
		RequiresDatabase()
}

// createWarnCommand creates the /mod warn subcommand
func (h *handlers) createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a uno o varios usuarios",
		"mod",
		h.sanctionHandler(models.KindWarn),
	).WithOptions(
		userOption("Usuario a advertir"),
		reasonOption(true),
		extraUsersOption,
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionManageRoles).
		InGuild().
		RequiresDatabase()
}

// buildRequest reads the command options into a moderation request
func buildRequest(ctx *discord.CommandContext, kind models.Kind) (moderation.Request, error) {
	req := moderation.Request{
		Kind:        kind,
		GuildID:     ctx.Interaction.GuildID,
		ChannelID:   ctx.Interaction.ChannelID,
		ModeratorID: ctx.User().ID,
		Targets:     parseTargets(ctx.GetSnowflakeOption("usuario"), ctx.GetStringOption("usuarios")),
		Reason:      ctx.GetStringOption("razon"),
	}
	if req.Reason == "" {
		req.Reason = defaultReason
	}
	if g := ctx.Guild(); g != nil {
		req.GuildName = g.Name
	}

	if kind.SupportsReversal() {
		minutes, err := moderation.ParseDuration(ctx.GetStringOption("duracion"))
		if err != nil {
			return req, err
		}
		req.Duration = minutes
	}
	if kind == models.KindBan {
		req.BanDeleteDays = int(ctx.GetIntOption("dias"))
	}
	return req, nil
}

// sanctionHandler returns the handler shared by ban, kick, mute and warn
func (h *handlers) sanctionHandler(kind models.Kind) discord.CommandRunFunc {
	action, _ := moderation.ActionFor(kind)

	return func(ctx *discord.CommandContext) error {
		req, err := buildRequest(ctx, kind)
		if err != nil {
			return ctx.ReplyEphemeral("❌ Duración inválida. Usa formatos como `90`, `30m`, `2h` o `1d5h`.")
		}

		if err := ctx.DeferEphemeral(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()

			runCtx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			outcomes, err := h.mod.Execute(runCtx, req)
			if err != nil {
				logger.Warn(fmt.Sprintf("/mod %s en %s falló: %v", kind, req.GuildID, err), "CMD-Mod")
				_ = ctx.EditReply(refusalMessage(err))
				return
			}
			_ = ctx.EditReply(summarize(action, outcomes))
		}()
		return nil
	}
}
