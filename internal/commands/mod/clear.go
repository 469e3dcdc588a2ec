package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// maxClear is the most messages one bulk delete accepts
const maxClear = 100

// bulkDeleteAge is how old a message may be and still be bulk deleted
const bulkDeleteAge = 14*24*time.Hour - time.Minute

// MessageSource reads and deletes channel messages
type MessageSource interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
}

// createClearCommand creates the /mod clear subcommand
func (h *handlers) createClearCommand() *discord.Command {
	minAmount := 1.0
	return discord.NewCommand(
		"clear",
		"Elimina los últimos mensajes del canal",
		"mod",
		h.clearHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "cantidad",
			Description: "Cantidad de mensajes a eliminar (1-100)",
			Required:    true,
			MinValue:    &minAmount,
			MaxValue:    maxClear,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Eliminar solo los mensajes de este usuario",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageMessages).
		WithBotPermissions(discordgo.PermissionManageMessages).
		InGuild()
}

// selectForPurge picks up to amount message ids, newest first. Pinned
// messages and those too old for a bulk delete are skipped.
func selectForPurge(msgs []*discordgo.Message, userID string, amount int, now time.Time) []string {
	ids := make([]string, 0, amount)
	for _, m := range msgs {
		if len(ids) >= amount {
			break
		}
		if m.Pinned || now.Sub(m.Timestamp) > bulkDeleteAge {
			continue
		}
		if userID != "" && (m.Author == nil || m.Author.ID != userID) {
			continue
		}
		ids = append(ids, m.ID)
	}
	return ids
}

// purgeMessages deletes the last amount messages of a channel, optionally only
// those of userID, and returns how many were deleted
func purgeMessages(ctx context.Context, src MessageSource, channelID, userID string, amount int, now time.Time) (int, error) {
	if amount < 1 {
		return 0, nil
	}
	if amount > maxClear {
		amount = maxClear
	}

	fetch := amount
	if userID != "" {
		fetch = maxClear
	}
	msgs, err := src.ChannelMessages(channelID, fetch, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("fetch messages: %w", err)
	}

	ids := selectForPurge(msgs, userID, amount, now)
	switch len(ids) {
	case 0:
		return 0, nil
	case 1:
		err = src.ChannelMessageDelete(channelID, ids[0], discordgo.WithContext(ctx))
	default:
		err = src.ChannelMessagesBulkDelete(channelID, ids, discordgo.WithContext(ctx))
	}
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return len(ids), nil
}

func clearEmbed(deleted int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Mensajes eliminados! ✅",
		Description: fmt.Sprintf("%d mensajes han sido eliminados satisfactoriamente", deleted),
		Color:       0xE74C3C,
	}
}

// clearHandler handles the /mod clear command
func (h *handlers) clearHandler(ctx *discord.CommandContext) error {
	amount := int(ctx.GetIntOption("cantidad"))
	userID := ctx.GetSnowflakeOption("usuario")

	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	go func() {
		defer errors.RecoverMiddleware()()

		runCtx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		deleted, err := purgeMessages(runCtx, ctx.Session, ctx.Interaction.ChannelID, userID, amount, time.Now())
		if err != nil {
			logger.Warn(fmt.Sprintf("/mod clear en %s falló: %v", ctx.Interaction.ChannelID, err), "CMD-Mod")
			_ = ctx.EditReply(fmt.Sprintf("❌ No se pudieron eliminar los mensajes: %v", err))
			return
		}
		logger.Info(fmt.Sprintf("%s eliminó %d mensajes en %s", ctx.User().ID, deleted, ctx.Interaction.ChannelID), "CMD-Mod")
		_ = ctx.EditReplyEmbed(clearEmbed(deleted))
	}()
	return nil
}
