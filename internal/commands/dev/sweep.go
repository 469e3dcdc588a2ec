package dev

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
)

func (h *handlers) createSweepCommand() *discord.Command {
	return discord.NewCommand(
		"sweep",
		"Revisa ahora las sanciones pendientes de revertir",
		"dev",
		h.sweepHandler,
	).AsDev().RequiresDatabase()
}

func sweepReport(res moderation.RecoverResult, interval time.Duration) string {
	return fmt.Sprintf(
		"🧹 **Revisión completada**\n> Programadas: %d\n> Revertidas: %d\n> Fallidas: %d\n> Intervalo automático: %s",
		res.Scheduled, res.Reversed, res.Failed, interval,
	)
}

func (h *handlers) sweepHandler(ctx *discord.CommandContext) error {
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	go func() {
		defer errors.RecoverMiddleware()()

		runCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		res, err := h.sweeper.RunNow(runCtx)
		if err != nil {
			_ = ctx.EditReply(fmt.Sprintf("❌ Error en la revisión: %v", err))
			return
		}
		_ = ctx.EditReply(sweepReport(res, h.sweeper.Interval()))
	}()
	return nil
}
