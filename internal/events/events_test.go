package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

type fakeMutes struct {
	calls     []string
	reapplied bool
	err       error
}

func (f *fakeMutes) ReapplyMute(_ context.Context, guildID, userID string) (bool, error) {
	f.calls = append(f.calls, guildID+"/"+userID)
	return f.reapplied, f.err
}

func memberAdd(userID string, bot bool) *discordgo.GuildMemberAdd {
	return &discordgo.GuildMemberAdd{Member: &discordgo.Member{
		GuildID: "g1",
		User:    &discordgo.User{ID: userID, Username: userID, Bot: bot},
	}}
}

func TestOnGuildMemberAddReappliesMute(t *testing.T) {
	mutes := &fakeMutes{reapplied: true}

	onGuildMemberAdd(memberAdd("u1", false), mutes)
	onGuildMemberAdd(memberAdd("bot", true), mutes)

	assert.Equal(t, []string{"g1/u1"}, mutes.calls)
}

func TestOnGuildMemberAddToleratesErrors(t *testing.T) {
	mutes := &fakeMutes{err: errors.New("mongo down")}

	assert.NotPanics(t, func() { onGuildMemberAdd(memberAdd("u1", false), mutes) })
	assert.NotPanics(t, func() { onGuildMemberAdd(memberAdd("u1", false), nil) })
}

func TestIsFreshJoin(t *testing.T) {
	now := time.Now()

	assert.True(t, isFreshJoin(now.Add(-2*time.Second), now))
	assert.False(t, isFreshJoin(now.Add(-time.Hour), now))
	assert.False(t, isFreshJoin(time.Time{}, now))
}

func TestMentionsOnly(t *testing.T) {
	assert.True(t, mentionsOnly("<@123>", "123"))
	assert.True(t, mentionsOnly("  <@!123> ", "123"))
	assert.False(t, mentionsOnly("<@123> hola", "123"))
	assert.False(t, mentionsOnly("<@456>", "123"))
}

func TestPrefixEmbed(t *testing.T) {
	embed := prefixEmbed([]string{"!", "pm."})
	assert.Equal(t, "`!`, `pm.`", embed.Fields[0].Value)

	assert.Equal(t, "ninguno", prefixEmbed(nil).Fields[0].Value)
}
