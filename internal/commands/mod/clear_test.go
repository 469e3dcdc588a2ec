package mod

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessages struct {
	msgs       []*discordgo.Message
	fetchLimit int
	deleted    []string
	bulk       [][]string
	err        error
}

func (f *fakeMessages) ChannelMessages(_ string, limit int, _, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.fetchLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.msgs) {
		return f.msgs[:limit], nil
	}
	return f.msgs, nil
}

func (f *fakeMessages) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeMessages) ChannelMessagesBulkDelete(_ string, ids []string, _ ...discordgo.RequestOption) error {
	f.bulk = append(f.bulk, ids)
	return nil
}

// history builds newest-first messages alternating between alice and bob
func history(now time.Time, n int) []*discordgo.Message {
	out := make([]*discordgo.Message, n)
	for i := range out {
		author := alice
		if i%2 == 1 {
			author = bob
		}
		out[i] = &discordgo.Message{
			ID:        fmt.Sprintf("m%d", i),
			Author:    &discordgo.User{ID: author},
			Timestamp: now.Add(-time.Duration(i) * time.Minute),
		}
	}
	return out
}

func TestPurgeMessagesBulkDeletesNewest(t *testing.T) {
	now := time.Now()
	src := &fakeMessages{msgs: history(now, 10)}

	n, err := purgeMessages(context.Background(), src, "c1", "", 3, now)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, src.fetchLimit)
	require.Len(t, src.bulk, 1)
	assert.Equal(t, []string{"m0", "m1", "m2"}, src.bulk[0])
	assert.Empty(t, src.deleted)
}

func TestPurgeMessagesFiltersByUser(t *testing.T) {
	now := time.Now()
	src := &fakeMessages{msgs: history(now, 10)}

	n, err := purgeMessages(context.Background(), src, "c1", bob, 2, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, maxClear, src.fetchLimit)
	require.Len(t, src.bulk, 1)
	assert.Equal(t, []string{"m1", "m3"}, src.bulk[0])
}

func TestPurgeMessagesSingleUsesPlainDelete(t *testing.T) {
	now := time.Now()
	src := &fakeMessages{msgs: history(now, 5)}

	n, err := purgeMessages(context.Background(), src, "c1", "", 1, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"m0"}, src.deleted)
	assert.Empty(t, src.bulk)
}

func TestSelectForPurgeSkipsPinnedAndOld(t *testing.T) {
	now := time.Now()
	msgs := history(now, 4)
	msgs[0].Pinned = true
	msgs[2].Timestamp = now.Add(-15 * 24 * time.Hour)

	assert.Equal(t, []string{"m1", "m3"}, selectForPurge(msgs, "", 10, now))
}

func TestPurgeMessagesNothingToDelete(t *testing.T) {
	now := time.Now()
	src := &fakeMessages{msgs: history(now, 4)}

	n, err := purgeMessages(context.Background(), src, "c1", carol, 5, now)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, src.bulk)
	assert.Empty(t, src.deleted)

	n, err = purgeMessages(context.Background(), src, "c1", "", 0, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPurgeMessagesFetchError(t *testing.T) {
	src := &fakeMessages{err: errors.New("missing access")}

	_, err := purgeMessages(context.Background(), src, "c1", "", 5, time.Now())
	assert.ErrorContains(t, err, "missing access")
}
