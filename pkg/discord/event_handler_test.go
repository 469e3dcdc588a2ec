package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestEventHandlerCountAndRemove(t *testing.T) {
	client, err := NewClient("test-token")
	if err != nil {
		t.Fatalf("NewClient() returned error: %v", err)
	}

	eh := client.EventHandler
	eh.OnReady(func(s *discordgo.Session, r *discordgo.Ready) {})
	eh.OnGuildMemberAdd(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {})

	if got := eh.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}

	eh.RemoveAll()
	if got := eh.Count(); got != 0 {
		t.Errorf("Count() after RemoveAll = %d, want 0", got)
	}
}
