// Package events provides event handlers for guild (server) events
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// joinWindow separates a fresh join from the GUILD_CREATE replay at startup
const joinWindow = 10 * time.Second

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient, guilds GuildRecorder) {
	client.EventHandler.OnGuildCreate(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		onGuildCreate(s, g, guilds)
	})
	client.EventHandler.OnGuildDelete(onGuildDelete)
}

func isFreshJoin(joinedAt, now time.Time) bool {
	return !joinedAt.IsZero() && now.Sub(joinedAt) <= joinWindow
}

func welcomeEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "¡Gracias por agregarme! 🎉",
		Description: "Hola, soy **PancyMod**. Antes de moderar configura el servidor:",
		Color:       0x00ff00,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "🛡️ Rol mínimo",
				Value:  "`/config role minmod @Rol`",
				Inline: true,
			},
			{
				Name:   "📜 Registro",
				Value:  "`/config channel moderation #canal`",
				Inline: true,
			},
			{
				Name:   "❓ Ayuda",
				Value:  "`/utils help`",
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "💫 - Developed by PancyStudios",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// onGuildCreate records the guild and greets it on a fresh join
func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate, guilds GuildRecorder) {
	defer errors.RecoverMiddleware()()

	if guilds != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := guilds.Touch(ctx, g.ID, g.Name); err != nil {
			logger.Debug(fmt.Sprintf("No se pudo registrar el servidor %s: %v", g.ID, err), "Guild")
		}
		cancel()
	}

	if !isFreshJoin(g.JoinedAt, time.Now()) {
		return
	}

	logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Miembros: %d | Canales: %d", g.MemberCount, len(g.Channels)), "Guild")

	if g.SystemChannelID != "" {
		if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcomeEmbed()); err != nil {
			logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
		}
	}
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		logger.Warn(fmt.Sprintf("⚠️ Servidor no disponible: %s", g.ID), "Guild")
		return
	}
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
}
