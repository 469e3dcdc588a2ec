package discord

import (
	"errors"
	"fmt"
)

var (
	errGuildOnly     = errors.New("command requires a guild")
	errDevOnly       = errors.New("command is restricted to operators")
	errMissingPerms  = errors.New("member lacks required permissions")
	errNoInteraction = errors.New("no interaction")
	errNoDatabase    = errors.New("database unavailable")
)

// Guard rejects commands the invoking user may not run, replying ephemerally.
// Operators pass every check.
func (c *ExtendedClient) Guard(ctx *CommandContext, cmd *Command) error {
	if ctx.Interaction == nil {
		return errNoInteraction
	}
	user := ctx.User()
	operator := user != nil && c.IsOperator != nil && c.IsOperator(user.ID)

	if cmd.IsDev && !operator {
		_ = ctx.ReplyEphemeral("🚫 Este comando solo está disponible para los desarrolladores del bot.")
		return errDevOnly
	}

	if cmd.GuildOnly && ctx.Interaction.GuildID == "" {
		_ = ctx.ReplyEphemeral("❌ Este comando solo puede usarse en un servidor.")
		return errGuildOnly
	}

	if cmd.UserPermissions != 0 && !operator {
		member := ctx.Member()
		if member == nil || !HasPermissions(member.Permissions, cmd.UserPermissions) {
			_ = ctx.ReplyEphemeral("🚫 No tienes permisos suficientes para usar este comando.")
			return fmt.Errorf("%w: %d", errMissingPerms, cmd.UserPermissions)
		}
	}

	if cmd.RequiresDB && c.DatabaseReady != nil && !c.DatabaseReady() {
		_ = ctx.ReplyEphemeral("⚠️ La base de datos no está disponible en este momento. Intenta de nuevo más tarde.")
		return errNoDatabase
	}

	return nil
}
