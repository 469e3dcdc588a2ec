// Package events provides event handlers for member events
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

// RegisterMemberEvents registers all member-related event handlers
func RegisterMemberEvents(client *discord.ExtendedClient, mutes MuteReapplier) {
	client.EventHandler.OnGuildMemberAdd(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		onGuildMemberAdd(m, mutes)
	})
	client.EventHandler.OnGuildMemberRemove(onGuildMemberRemove)
}

// onGuildMemberAdd gives the muted role back to members evading a mute
func onGuildMemberAdd(m *discordgo.GuildMemberAdd, mutes MuteReapplier) {
	defer errors.RecoverMiddleware()()

	if m.User == nil || m.User.Bot || mutes == nil {
		return
	}
	logger.Debug(fmt.Sprintf("👋 Nuevo miembro: %s en servidor %s", m.User.Username, m.GuildID), "Member")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reapplied, err := mutes.ReapplyMute(ctx, m.GuildID, m.User.ID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo comprobar el silencio de %s: %v", m.User.ID, err), "Member")
		return
	}
	if reapplied {
		logger.Info(fmt.Sprintf("🔇 %s volvió durante un silencio activo en %s", m.User.ID, m.GuildID), "Member")
	}
}

// onGuildMemberRemove is called when a member leaves the server
func onGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.User == nil {
		return
	}
	logger.Debug(fmt.Sprintf("👋 Adiós: %s salió del servidor %s", m.User.Username, m.GuildID), "Member")
}
