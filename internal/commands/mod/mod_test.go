package mod

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/stretchr/testify/assert"
)

const (
	alice = "111111111111111111"
	bob   = "222222222222222222"
	carol = "333333333333333333"
)

func TestParseTargets(t *testing.T) {
	tests := []struct {
		name    string
		primary string
		extra   string
		want    []string
	}{
		{"primary only", alice, "", []string{alice}},
		{"mentions and ids", alice, "<@" + bob + "> " + carol, []string{alice, bob, carol}},
		{"nickname mention", alice, "<@!" + bob + ">", []string{alice, bob}},
		{"duplicates dropped", alice, alice + "," + bob + " <@" + bob + ">", []string{alice, bob}},
		{"role and channel mentions ignored", alice, "<@&" + bob + "> <#" + carol + ">", []string{alice}},
		{"garbage ignored", alice, "hola 123 @everyone", []string{alice}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTargets(tt.primary, tt.extra))
		})
	}
}

func TestRefusalMessage(t *testing.T) {
	assert.Contains(t, refusalMessage(moderation.ErrMinModRoleMissing), "/config role minmod")
	assert.Contains(t, refusalMessage(fmt.Errorf("wrap: %w", moderation.ErrBelowMinModRole)), "rol mínimo")
	assert.Contains(t, refusalMessage(fmt.Errorf("%w: 1 minutes", moderation.ErrInvalidDuration)), "duración")
	assert.Contains(t, refusalMessage(errors.New("mongo down")), "mongo down")
}

func TestSummarize(t *testing.T) {
	action, ok := moderation.ActionFor(models.KindMute)
	assert.True(t, ok)

	expires := time.Unix(1700000000, 0)
	out := summarize(action, []moderation.Outcome{
		{TargetID: alice, State: moderation.StateDone, Notified: true, Scheduled: true, Sanction: &models.Sanction{ExpiresAt: &expires}},
		{TargetID: bob, State: moderation.StateDone},
		{TargetID: carol, State: moderation.StateValidating, Err: moderation.ErrNotAuthorized},
	})

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "🔇 <@"+alice+"> ha sido silenciado. Expira <t:1700000000:R>.", lines[0])
	assert.Contains(t, lines[1], "(sin MD)")
	assert.Contains(t, lines[2], "no puedes moderar")
}

func TestWarnChoices(t *testing.T) {
	warns := make([]*models.Sanction, 30)
	for i := range warns {
		warns[i] = &models.Sanction{ID: fmt.Sprintf("w%d", i), Reason: strings.Repeat("x", 150)}
	}

	choices := warnChoices(warns)
	assert.Len(t, choices, 25)
	assert.Equal(t, "w0", choices[0].Value)
	assert.LessOrEqual(t, len([]rune(choices[0].Name)), 100)
	assert.Empty(t, warnChoices(nil))
}

func TestWarningsEmbed(t *testing.T) {
	now := time.Unix(1700000000, 0)

	empty := warningsEmbed(alice, nil, true, now)
	assert.Contains(t, empty.Description, "**Cantidad de advertencias:** 0")

	warns := []*models.Sanction{{ID: "w1", Reason: "spam", ModeratorID: bob, AppliedAt: now}}
	staff := warningsEmbed(alice, warns, true, now)
	assert.Contains(t, staff.Description, "<@"+bob+">")

	member := warningsEmbed(alice, warns, false, now)
	assert.Contains(t, member.Description, "Oculto")
	assert.NotContains(t, member.Description, bob)
}
