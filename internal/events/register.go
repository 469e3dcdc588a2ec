// Package events provides a registry for organizing bot events.
// Events are organized by category (guild, member, message, connection)
package events

import (
	"context"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
)

// GuildRecorder records guilds the bot is in
type GuildRecorder interface {
	Touch(ctx context.Context, guildID, name string) error
}

// MuteReapplier restores the muted role of members rejoining during a mute
type MuteReapplier interface {
	ReapplyMute(ctx context.Context, guildID, userID string) (bool, error)
}

// PrefixSource returns the prefixes configured for a guild
type PrefixSource interface {
	Prefixes(ctx context.Context, guildID string) ([]string, error)
}

// Services are the backends event handlers call into
type Services struct {
	Guilds   GuildRecorder
	Mutes    MuteReapplier
	Prefixes PrefixSource
}

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, svc Services) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	// Ready event (bot startup)
	RegisterReadyEvent(client)

	// Guild events (server join/leave)
	RegisterGuildEvents(client, svc.Guilds)

	// Member events (mute evasion)
	RegisterMemberEvents(client, svc.Mutes)

	// Message events (mention replies)
	RegisterMessageEvents(client, svc.Prefixes)

	// Gateway connection state
	RegisterShardEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
