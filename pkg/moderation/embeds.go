package moderation

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const (
	colorSanction = 0xE74C3C
	colorRevoke   = 0x2ECC71

	noLogsChannelMsg = "Usuario %s. Considere agregar un canal para los logs usando `/config channel moderation #canal`. Este mensaje se eliminara en 10 segundos."
	minModMissingMsg = "Por favor configura el mínimo rol requerido para usar los comandos de moderación: `/config role minmod @Rol`."
)

func mention(userID string) string { return "<@" + userID + ">" }

func roleMention(roleID string) string { return "<@&" + roleID + ">" }

func channelMention(channelID string) string { return "<#" + channelID + ">" }

// details renders the reason, duration and expiration lines of a sanction
func details(reason string, minutes int, expires *time.Time) string {
	var b strings.Builder
	if reason != "" {
		fmt.Fprintf(&b, "\n**Razón:** %s", reason)
	}
	if minutes > 0 && expires != nil {
		fmt.Fprintf(&b, "\n**Duración:** %s", FormatMinutes(minutes))
		fmt.Fprintf(&b, "\n**Expira:** <t:%d:F>", expires.Unix())
	}
	return b.String()
}

func directMessage(action Action, guildName string, s *models.Sanction, minutes int) string {
	return fmt.Sprintf("Has sido %s en %s. Recuerda seguir las reglas!", action.Title, guildName) +
		details(s.Reason, minutes, s.ExpiresAt)
}

func sanctionEmbed(action Action, s *models.Sanction, minutes int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Usuario %s", action.Emoji, action.Title),
		Description: fmt.Sprintf("El usuario %s ha sido %s por %s\n", mention(s.TargetID), action.Title, mention(s.ModeratorID)) + details(s.Reason, minutes, s.ExpiresAt),
		Color:       colorSanction,
		Footer:      &discordgo.MessageEmbedFooter{Text: "ID: " + s.ID},
	}
	if s.ExpiresAt != nil {
		embed.Timestamp = s.ExpiresAt.Format(time.RFC3339)
		embed.Footer.Text = "Expira:"
	}
	return embed
}

func revokeEmbed(kind models.Kind, targetID, moderatorID, reason string) *discordgo.MessageEmbed {
	title := "🔊 Usuario desilenciado"
	verb := "desilenciado"
	if kind == models.KindBan {
		title = "🔓 Usuario desbaneado"
		verb = "desbaneado"
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("El usuario %s ha sido %s por %s\n", mention(targetID), verb, mention(moderatorID)) + details(reason, 0, nil),
		Color:       colorRevoke,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}
