package moderation

import (
	"context"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// Platform is the chat platform surface moderation needs
type Platform interface {
	// MemberRank returns the position of the member's highest role. Guild owners outrank everyone.
	MemberRank(ctx context.Context, guildID, userID string) (int, error)
	// RoleRank returns the position of a role; ok is false when the role does not exist.
	RoleRank(ctx context.Context, guildID, roleID string) (rank int, ok bool, err error)

	CreateRole(ctx context.Context, guildID, name string, color int) (roleID string, err error)
	// RestrictRole denies sending messages and speaking to roleID in every channel of the guild.
	RestrictRole(ctx context.Context, guildID, roleID string) error
	AddRole(ctx context.Context, guildID, userID, roleID, reason string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID, reason string) error

	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string, deleteDays int) error
	Unban(ctx context.Context, guildID, userID, reason string) error

	DirectMessage(ctx context.Context, userID, content string) error
	Send(ctx context.Context, channelID, content string, embed *discordgo.MessageEmbed) error
	// SendTransient posts content that is deleted after ttl.
	SendTransient(ctx context.Context, channelID, content string, ttl time.Duration) error
}

// Store persists sanction records
type Store interface {
	Create(ctx context.Context, s *models.Sanction) error
	Get(ctx context.Context, id string) (*models.Sanction, error)
	MarkReversed(ctx context.Context, id, by string, at time.Time) (bool, error)
	Pending(ctx context.Context) ([]*models.Sanction, error)
	ActiveFor(ctx context.Context, guildID, targetID string, kind models.Kind, now time.Time) (*models.Sanction, error)
	ListForMember(ctx context.Context, guildID, targetID string, kind models.Kind) ([]*models.Sanction, error)
	Delete(ctx context.Context, guildID, id string) (bool, error)
}

// Settings is the subset of the settings store moderation reads and writes
type Settings interface {
	Set(ctx context.Context, guildID string, name models.SettingName, value string) error
	ResolveRole(ctx context.Context, guildID string, name models.SettingName) (string, bool, error)
	ResolveChannel(ctx context.Context, guildID string, name models.SettingName) (*discordgo.Channel, error)
}
