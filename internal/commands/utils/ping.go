package utils

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

// createPingCommand creates the /utils ping subcommand
func (h *handlers) createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Comprueba la latencia del bot",
		"utils",
		h.pingHandler,
	)
}

func pingText(gateway time.Duration, dbOnline bool) string {
	db := "🔴 sin conexión"
	if dbOnline {
		db = "🟢 conectada"
	}
	return fmt.Sprintf("🏓 Pong! Gateway: %dms | Base de datos: %s", gateway.Milliseconds(), db)
}

// pingHandler answers with the gateway heartbeat latency
func (h *handlers) pingHandler(ctx *discord.CommandContext) error {
	dbOnline := false
	if h.status != nil {
		_, dbOnline = h.status.Database()
	}
	return ctx.ReplyEphemeral(pingText(ctx.Client.Session.HeartbeatLatency(), dbOnline))
}
