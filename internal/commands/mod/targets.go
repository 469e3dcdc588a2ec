package mod

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyModGo/pkg/moderation"
)

const defaultReason = "Sin razón especificada"

// parseTargets merges the required user with any extra mentions or ids,
// keeping order and dropping duplicates. Role and channel mentions are ignored.
func parseTargets(primary, extra string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 1)
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	add(primary)
	for _, tok := range strings.FieldsFunc(extra, func(r rune) bool { return r == ' ' || r == ',' || r == '\n' }) {
		if strings.HasPrefix(tok, "<@&") || strings.HasPrefix(tok, "<#") {
			continue
		}
		tok = strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(tok, "<@"), "!"), ">")
		if isSnowflake(tok) {
			add(tok)
		}
	}
	return out
}

func isSnowflake(s string) bool {
	if len(s) < 15 || len(s) > 21 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// refusalMessage turns a request level error into the reply shown to the moderator
func refusalMessage(err error) string {
	switch {
	case errors.Is(err, moderation.ErrMinModRoleMissing):
		return "⚠️ No hay un rol mínimo de moderador configurado. Usa `/config role minmod @Rol`."
	case errors.Is(err, moderation.ErrBelowMinModRole):
		return "🚫 No alcanzas el rol mínimo de moderador de este servidor."
	case errors.Is(err, moderation.ErrNotAuthorized):
		return "🚫 No puedes moderar a este usuario."
	case errors.Is(err, moderation.ErrNoTargets):
		return "❌ Debes especificar al menos un usuario."
	case errors.Is(err, moderation.ErrNoPendingSanction):
		return "❌ El usuario no tiene una sanción activa de este tipo."
	case errors.Is(err, moderation.ErrInvalidDuration):
		return "❌ La duración no es válida o es demasiado larga."
	case errors.Is(err, moderation.ErrSanctionNotFound):
		return "❌ No se encontró una advertencia con ese ID."
	default:
		return fmt.Sprintf("❌ Error al ejecutar la acción: %v", err)
	}
}

// outcomeLine describes what happened to one target
func outcomeLine(action moderation.Action, o moderation.Outcome) string {
	who := "<@" + o.TargetID + ">"
	if o.Err == nil {
		line := fmt.Sprintf("%s %s ha sido %s.", action.Emoji, who, action.Title)
		if o.Scheduled && o.Sanction != nil && o.Sanction.ExpiresAt != nil {
			line += fmt.Sprintf(" Expira <t:%d:R>.", o.Sanction.ExpiresAt.Unix())
		}
		if !o.Notified {
			line += " (sin MD)"
		}
		return line
	}

	switch {
	case errors.Is(o.Err, moderation.ErrNotAuthorized):
		return fmt.Sprintf("🚫 %s: no puedes moderar a este usuario.", who)
	case o.State == moderation.StateValidating:
		return fmt.Sprintf("❌ %s: no se encontró al miembro.", who)
	case o.State == moderation.StateApplying:
		return fmt.Sprintf("❌ %s: no se pudo aplicar la sanción (%v).", who, o.Err)
	default:
		return fmt.Sprintf("❌ %s: %v", who, o.Err)
	}
}

// summarize builds the reply for an executed request
func summarize(action moderation.Action, outcomes []moderation.Outcome) string {
	lines := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		lines = append(lines, outcomeLine(action, o))
	}
	return strings.Join(lines, "\n")
}
