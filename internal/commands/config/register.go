// Package config provides the /config commands that manage per-guild settings
package config

import (
	"context"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// Settings is the settings store the commands edit
type Settings interface {
	Get(ctx context.Context, guildID string, name models.SettingName) (string, bool, error)
	Set(ctx context.Context, guildID string, name models.SettingName, value string) error
	Remove(ctx context.Context, guildID string, name models.SettingName) error
	All(ctx context.Context, guildID string) (map[models.SettingName]string, error)
}

type handlers struct {
	settings Settings
}

// RegisterConfigCommands registers /config and its subcommands
func RegisterConfigCommands(client *discord.ExtendedClient, settings Settings) {
	h := &handlers{settings: settings}

	group := client.CommandHandler.BuildCommandGroup(
		"config",
		"Configuración del servidor",
		h.createChannelCommand(),
		h.createRoleCommand(),
		h.createPrefixCommand(),
		h.createRemoveCommand(),
		h.createShowCommand(),
	)
	group.DefaultMemberPermissions = func() *int64 { p := int64(discordgo.PermissionManageGuild); return &p }()

	client.CommandHandler.AddGlobalCommand(group)
}
