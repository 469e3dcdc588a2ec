package config

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const settingTimeout = 10 * time.Second

// channelSettings maps the "tipo" choice of /config channel to a setting
var channelSettings = map[string]models.SettingName{
	"moderation": models.SettingModLogsChannel,
	"rules":      models.SettingRulesChannel,
}

// roleSettings maps the "tipo" choice of /config role to a setting
var roleSettings = map[string]models.SettingName{
	"minmod":  models.SettingMinModRole,
	"warning": models.SettingWarningRole,
	"muted":   models.SettingMutedRole,
}

// removable are the settings /config remove accepts
var removable = map[string]models.SettingName{
	"moderation": models.SettingModLogsChannel,
	"rules":      models.SettingRulesChannel,
	"minmod":     models.SettingMinModRole,
	"warning":    models.SettingWarningRole,
	"muted":      models.SettingMutedRole,
	"prefix":     models.SettingPrefix,
}

func choices(m map[string]models.SettingName) []*discordgo.ApplicationCommandOptionChoice {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(keys))
	for _, k := range keys {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: k, Value: k})
	}
	return out
}

func kindOption(m map[string]models.SettingName) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "tipo",
		Description: "Ajuste a modificar",
		Required:    true,
		Choices:     choices(m),
	}
}

func (h *handlers) createChannelCommand() *discord.Command {
	return discord.NewCommand(
		"channel",
		"Configura un canal del servidor",
		"config",
		h.channelHandler,
	).WithOptions(
		kindOption(channelSettings),
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "canal",
			Description:  "Canal a usar",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
	).WithUserPermissions(discordgo.PermissionManageGuild).InGuild().RequiresDatabase()
}

func (h *handlers) createRoleCommand() *discord.Command {
	return discord.NewCommand(
		"role",
		"Configura un rol del servidor",
		"config",
		h.roleHandler,
	).WithOptions(
		kindOption(roleSettings),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "rol",
			Description: "Rol a usar",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild).InGuild().RequiresDatabase()
}

func (h *handlers) createPrefixCommand() *discord.Command {
	return discord.NewCommand(
		"prefix",
		"Muestra o cambia los prefijos del bot",
		"config",
		h.prefixHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "prefijos",
			Description: "Prefijos separados por espacios (vacío para verlos)",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild).InGuild().RequiresDatabase()
}

func (h *handlers) createRemoveCommand() *discord.Command {
	return discord.NewCommand(
		"remove",
		"Elimina un ajuste del servidor",
		"config",
		h.removeHandler,
	).WithOptions(
		kindOption(removable),
	).WithUserPermissions(discordgo.PermissionManageGuild).InGuild().RequiresDatabase()
}

func (h *handlers) createShowCommand() *discord.Command {
	return discord.NewCommand(
		"show",
		"Muestra la configuración del servidor",
		"config",
		h.showHandler,
	).WithUserPermissions(discordgo.PermissionManageGuild).InGuild().RequiresDatabase()
}

// store runs a settings write and replies with msg or the error
func (h *handlers) store(ctx *discord.CommandContext, write func(context.Context) error, msg string) error {
	go func() {
		defer errors.RecoverMiddleware()()

		runCtx, cancel := context.WithTimeout(context.Background(), settingTimeout)
		defer cancel()

		if err := write(runCtx); err != nil {
			logger.Error(fmt.Sprintf("Error guardando ajuste en %s: %v", ctx.Interaction.GuildID, err), "CMD-Config")
			_ = ctx.ReplyEphemeral("❌ Error al guardar la configuración.")
			return
		}
		_ = ctx.ReplyEphemeral(msg)
	}()
	return nil
}

func (h *handlers) channelHandler(ctx *discord.CommandContext) error {
	name, ok := channelSettings[ctx.GetStringOption("tipo")]
	channelID := ctx.GetSnowflakeOption("canal")
	if !ok || channelID == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar un tipo y un canal válidos.")
	}
	return h.store(ctx, func(c context.Context) error {
		return h.settings.Set(c, ctx.Interaction.GuildID, name, channelID)
	}, fmt.Sprintf("✅ `%s` ahora es <#%s>.", name, channelID))
}

func (h *handlers) roleHandler(ctx *discord.CommandContext) error {
	name, ok := roleSettings[ctx.GetStringOption("tipo")]
	roleID := ctx.GetSnowflakeOption("rol")
	if !ok || roleID == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar un tipo y un rol válidos.")
	}
	return h.store(ctx, func(c context.Context) error {
		return h.settings.Set(c, ctx.Interaction.GuildID, name, roleID)
	}, fmt.Sprintf("✅ `%s` ahora es <@&%s>.", name, roleID))
}

// normalizePrefixes collapses whitespace and drops duplicates
func normalizePrefixes(raw string) string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range strings.Fields(raw) {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return strings.Join(out, " ")
}

func (h *handlers) prefixHandler(ctx *discord.CommandContext) error {
	raw := normalizePrefixes(ctx.GetStringOption("prefijos"))
	guildID := ctx.Interaction.GuildID

	if raw == "" {
		go func() {
			defer errors.RecoverMiddleware()()

			runCtx, cancel := context.WithTimeout(context.Background(), settingTimeout)
			defer cancel()

			current, _, err := h.settings.Get(runCtx, guildID, models.SettingPrefix)
			if err != nil {
				_ = ctx.ReplyEphemeral("❌ Error al consultar la base de datos.")
				return
			}
			_ = ctx.ReplyEphemeral(fmt.Sprintf("🔧 Prefijos actuales: %s", formatPrefixes(current)))
		}()
		return nil
	}

	return h.store(ctx, func(c context.Context) error {
		return h.settings.Set(c, guildID, models.SettingPrefix, raw)
	}, fmt.Sprintf("✅ Prefijos actualizados: %s", formatPrefixes(raw)))
}

func formatPrefixes(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "ninguno"
	}
	for i, f := range fields {
		fields[i] = "`" + f + "`"
	}
	return strings.Join(fields, ", ")
}

func (h *handlers) removeHandler(ctx *discord.CommandContext) error {
	name, ok := removable[ctx.GetStringOption("tipo")]
	if !ok {
		return ctx.ReplyEphemeral("❌ Ajuste desconocido.")
	}
	return h.store(ctx, func(c context.Context) error {
		return h.settings.Remove(c, ctx.Interaction.GuildID, name)
	}, fmt.Sprintf("🗑️ `%s` eliminado.", name))
}

// renderValue shows a stored value as a mention where it makes sense
func renderValue(name models.SettingName, value string) string {
	if value == "" {
		return "*sin configurar*"
	}
	switch name {
	case models.SettingModLogsChannel, models.SettingRulesChannel:
		return "<#" + value + ">"
	case models.SettingMinModRole, models.SettingWarningRole, models.SettingMutedRole:
		return "<@&" + value + ">"
	case models.SettingPrefix:
		return formatPrefixes(value)
	}
	return "`" + value + "`"
}

// settingsEmbed renders every known setting in a stable order
func settingsEmbed(values map[models.SettingName]string) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(models.SettingNames))
	for _, name := range models.SettingNames {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   string(name),
			Value:  renderValue(name, values[name]),
			Inline: true,
		})
	}
	return &discordgo.MessageEmbed{
		Title:  "⚙️ Configuración del servidor",
		Color:  0x5865F2,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: "💫 - Developed by PancyStudios"},
	}
}

func (h *handlers) showHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		runCtx, cancel := context.WithTimeout(context.Background(), settingTimeout)
		defer cancel()

		values, err := h.settings.All(runCtx, ctx.Interaction.GuildID)
		if err != nil {
			_ = ctx.ReplyEphemeral("❌ Error al consultar la base de datos.")
			return
		}
		_ = ctx.ReplyEphemeralEmbed(settingsEmbed(values))
	}()
	return nil
}
