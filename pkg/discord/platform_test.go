package discord

import (
	"context"
	"math"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateSession(t *testing.T) *discordgo.Session {
	t.Helper()
	state := discordgo.NewState()
	require.NoError(t, state.GuildAdd(&discordgo.Guild{
		ID:      "g1",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "g1", Position: 0},
			{ID: "mods", Position: 5},
			{ID: "helpers", Position: 3},
			{ID: "muted", Position: 1},
		},
		Channels: []*discordgo.Channel{
			{ID: "c1", GuildID: "g1", Type: discordgo.ChannelTypeGuildText},
		},
	}))
	require.NoError(t, state.MemberAdd(&discordgo.Member{
		GuildID: "g1",
		User:    &discordgo.User{ID: "alice"},
		Roles:   []string{"helpers", "mods"},
	}))
	require.NoError(t, state.MemberAdd(&discordgo.Member{
		GuildID: "g1",
		User:    &discordgo.User{ID: "bob"},
	}))
	return &discordgo.Session{State: state}
}

func TestHighestPosition(t *testing.T) {
	roles := []*discordgo.Role{{ID: "a", Position: 2}, {ID: "b", Position: 7}, {ID: "c", Position: 4}}

	assert.Equal(t, 7, highestPosition(roles, []string{"a", "b"}))
	assert.Equal(t, 4, highestPosition(roles, []string{"c", "unknown"}))
	assert.Equal(t, 0, highestPosition(roles, nil))
}

func TestMemberRankFromState(t *testing.T) {
	p := NewSessionPlatform(stateSession(t))
	ctx := context.Background()

	rank, err := p.MemberRank(ctx, "g1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 5, rank)

	rank, err = p.MemberRank(ctx, "g1", "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, rank)

	rank, err = p.MemberRank(ctx, "g1", "owner")
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, rank)
}

func TestRoleRankAndExists(t *testing.T) {
	p := NewSessionPlatform(stateSession(t))

	rank, ok, err := p.RoleRank(context.Background(), "g1", "helpers")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, rank)

	_, ok, err = p.RoleRank(context.Background(), "g1", "gone")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, p.RoleExists("g1", "muted"))
	assert.False(t, p.RoleExists("g1", "gone"))
}

func TestChannelFromState(t *testing.T) {
	p := NewSessionPlatform(stateSession(t))

	ch, err := p.Channel("c1")
	require.NoError(t, err)
	assert.Equal(t, "g1", ch.GuildID)
}
