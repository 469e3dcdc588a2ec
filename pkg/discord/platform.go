package discord

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// restrictedPermissions are denied to the muted role on every channel
const restrictedPermissions = discordgo.PermissionSendMessages | discordgo.PermissionVoiceSpeak

// SessionPlatform performs moderation side effects through a discordgo session.
// Reads go through the state cache first and fall back to REST.
type SessionPlatform struct {
	session *discordgo.Session
}

// NewSessionPlatform creates a SessionPlatform
func NewSessionPlatform(s *discordgo.Session) *SessionPlatform {
	return &SessionPlatform{session: s}
}

func (p *SessionPlatform) guild(ctx context.Context, guildID string) (*discordgo.Guild, error) {
	if p.session.State != nil {
		if g, err := p.session.State.Guild(guildID); err == nil {
			return g, nil
		}
	}
	return p.session.Guild(guildID, discordgo.WithContext(ctx))
}

func (p *SessionPlatform) member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if p.session.State != nil {
		if m, err := p.session.State.Member(guildID, userID); err == nil {
			return m, nil
		}
	}
	return p.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
}

// highestPosition returns the highest position among the given role ids
func highestPosition(roles []*discordgo.Role, ids []string) int {
	held := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		held[id] = struct{}{}
	}
	top := 0
	for _, r := range roles {
		if _, ok := held[r.ID]; ok && r.Position > top {
			top = r.Position
		}
	}
	return top
}

// MemberRank returns the position of the member's highest role
func (p *SessionPlatform) MemberRank(ctx context.Context, guildID, userID string) (int, error) {
	g, err := p.guild(ctx, guildID)
	if err != nil {
		return 0, fmt.Errorf("fetch guild: %w", err)
	}
	if g.OwnerID == userID {
		return math.MaxInt, nil
	}
	m, err := p.member(ctx, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("fetch member: %w", err)
	}
	return highestPosition(g.Roles, m.Roles), nil
}

// RoleRank returns the position of a role
func (p *SessionPlatform) RoleRank(ctx context.Context, guildID, roleID string) (int, bool, error) {
	g, err := p.guild(ctx, guildID)
	if err != nil {
		return 0, false, fmt.Errorf("fetch guild: %w", err)
	}
	for _, r := range g.Roles {
		if r.ID == roleID {
			return r.Position, true, nil
		}
	}
	return 0, false, nil
}

// RoleExists reports whether roleID belongs to the guild
func (p *SessionPlatform) RoleExists(guildID, roleID string) bool {
	_, ok, err := p.RoleRank(context.Background(), guildID, roleID)
	return err == nil && ok
}

// Channel looks up a channel by id
func (p *SessionPlatform) Channel(channelID string) (*discordgo.Channel, error) {
	if p.session.State != nil {
		if ch, err := p.session.State.Channel(channelID); err == nil {
			return ch, nil
		}
	}
	return p.session.Channel(channelID)
}

func (p *SessionPlatform) CreateRole(ctx context.Context, guildID, name string, color int) (string, error) {
	perms := int64(0)
	role, err := p.session.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        name,
		Color:       &color,
		Permissions: &perms,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return role.ID, nil
}

// RestrictRole denies messaging and speaking to roleID in every channel.
// Channels that reject the overwrite are logged and skipped.
func (p *SessionPlatform) RestrictRole(ctx context.Context, guildID, roleID string) error {
	channels, err := p.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory {
			continue
		}
		if err := p.session.ChannelPermissionSet(ch.ID, roleID, discordgo.PermissionOverwriteTypeRole, 0, restrictedPermissions, discordgo.WithContext(ctx)); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo restringir el rol %s en el canal %s: %v", roleID, ch.ID, err), "Platform")
		}
	}
	return nil
}

func (p *SessionPlatform) AddRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	return p.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

func (p *SessionPlatform) RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error {
	return p.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

func (p *SessionPlatform) Kick(ctx context.Context, guildID, userID, reason string) error {
	return p.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx))
}

func (p *SessionPlatform) Ban(ctx context.Context, guildID, userID, reason string, deleteDays int) error {
	return p.session.GuildBanCreateWithReason(guildID, userID, reason, deleteDays, discordgo.WithContext(ctx))
}

func (p *SessionPlatform) Unban(ctx context.Context, guildID, userID, reason string) error {
	return p.session.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
}

// DirectMessage opens a DM channel with the user and sends content
func (p *SessionPlatform) DirectMessage(ctx context.Context, userID, content string) error {
	ch, err := p.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	_, err = p.session.ChannelMessageSend(ch.ID, content, discordgo.WithContext(ctx))
	return err
}

func (p *SessionPlatform) Send(ctx context.Context, channelID, content string, embed *discordgo.MessageEmbed) error {
	msg := &discordgo.MessageSend{Content: content}
	if embed != nil {
		msg.Embeds = []*discordgo.MessageEmbed{embed}
	}
	_, err := p.session.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
	return err
}

// SendTransient posts content and deletes it once ttl has passed
func (p *SessionPlatform) SendTransient(ctx context.Context, channelID, content string, ttl time.Duration) error {
	m, err := p.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	time.AfterFunc(ttl, func() {
		defer errors.RecoverMiddleware()()
		if err := p.session.ChannelMessageDelete(channelID, m.ID); err != nil {
			logger.Debug(fmt.Sprintf("No se pudo borrar el mensaje temporal %s: %v", m.ID, err), "Platform")
		}
	})
	return nil
}
