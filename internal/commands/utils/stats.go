package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// createStatsCommand creates the /utils stats subcommand
func (h *handlers) createStatsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"Muestra estadísticas del bot",
		"utils",
		h.statsHandler,
	)
}

// statsSnapshot is what /utils stats renders
type statsSnapshot struct {
	Version    string
	AllocBytes uint64
	Goroutines int
	Uptime     time.Duration
	Guilds     int
	Members    int
	Pending    int
}

func takeSnapshot(ctx *discord.CommandContext, pending int) statsSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	version := config.Version
	if config.BuildTime != "" {
		version += " (" + config.BuildTime + ")"
	}

	members := 0
	ctx.Session.State.RLock()
	for _, guild := range ctx.Session.State.Guilds {
		members += guild.MemberCount
	}
	ctx.Session.State.RUnlock()

	return statsSnapshot{
		Version:    version,
		AllocBytes: m.Alloc,
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(ctx.Client.StartTime),
		Guilds:     ctx.Client.GuildCount(),
		Members:    members,
		Pending:    pending,
	}
}

func statsEmbed(s statsSnapshot) *discordgo.MessageEmbed {
	field := func(name, value string) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
	}

	uptime := formatDuration(s.Uptime)
	if uptime == "" {
		uptime = "recién iniciado"
	}

	return &discordgo.MessageEmbed{
		Title: "📊 Estadísticas del Bot",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			field("🤖 Versión del Bot", s.Version),
			field("🐹 Go / DiscordGo", strings.TrimPrefix(runtime.Version(), "go")+" / "+discordgo.VERSION),
			field("🖥 Uso de RAM", fmt.Sprintf("%.2f MB", float64(s.AllocBytes)/1024/1024)),
			field("⚙️ Goroutines", fmt.Sprintf("%d", s.Goroutines)),
			field("⏱ Uptime", uptime),
			field("🏠 Servidores", fmt.Sprintf("%d", s.Guilds)),
			field("👥 Miembros", fmt.Sprintf("%d", s.Members)),
			field("⏳ Sanciones pendientes", fmt.Sprintf("%d", s.Pending)),
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "💫 - Developed by PancyStudios",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// statsHandler handles the /utils stats command
func (h *handlers) statsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		pending := 0
		if h.status != nil {
			pending = h.status.PendingSanctions()
		}
		_ = ctx.ReplyEmbed(statsEmbed(takeSnapshot(ctx, pending)))
	}()
	return nil
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d días", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d horas", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutos", minutes))
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%d segundos", seconds))
	}

	return strings.Join(parts, ", ")
}
