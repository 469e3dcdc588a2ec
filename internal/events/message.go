// Package events provides event handlers for message events
package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMessageEvents registers all message-related event handlers
func RegisterMessageEvents(client *discord.ExtendedClient, prefixes PrefixSource) {
	client.EventHandler.OnMessageCreate(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		onMessageCreate(s, m, prefixes)
	})
}

// mentionsOnly reports whether content is nothing but a mention of userID
func mentionsOnly(content, userID string) bool {
	content = strings.TrimSpace(content)
	return content == "<@"+userID+">" || content == "<@!"+userID+">"
}

func prefixEmbed(prefixes []string) *discordgo.MessageEmbed {
	shown := "ninguno"
	if len(prefixes) > 0 {
		quoted := make([]string, len(prefixes))
		for i, p := range prefixes {
			quoted[i] = "`" + p + "`"
		}
		shown = strings.Join(quoted, ", ")
	}

	return &discordgo.MessageEmbed{
		Title:       "👋 ¡Hola!",
		Description: "Usa comandos **slash (/)** para interactuar conmigo.\nEscribe `/utils help` para ver todos los comandos disponibles.",
		Color:       0x3498db,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "🔧 Prefijos",
				Value:  shown,
				Inline: true,
			},
			{
				Name:   "🛡️ Moderación",
				Value:  "`/mod` - Comandos de moderación",
				Inline: true,
			},
			{
				Name:   "⚙️ Configuración",
				Value:  "`/config show`",
				Inline: true,
			},
		},
	}
}

// onMessageCreate answers a bare mention of the bot with its prefixes
func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate, prefixes PrefixSource) {
	defer errors.RecoverMiddleware()()

	if m.Author == nil || m.Author.Bot || m.GuildID == "" || s.State == nil || s.State.User == nil {
		return
	}
	if !mentionsOnly(m.Content, s.State.User.ID) {
		return
	}

	var list []string
	if prefixes != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var err error
		if list, err = prefixes.Prefixes(ctx, m.GuildID); err != nil {
			logger.Debug(fmt.Sprintf("No se pudieron leer los prefijos de %s: %v", m.GuildID, err), "Message")
		}
	}

	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, prefixEmbed(list)); err != nil {
		logger.Error(fmt.Sprintf("Error enviando respuesta: %v", err), "Message")
	}
}
