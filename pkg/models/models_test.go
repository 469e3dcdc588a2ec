package models

import (
	"testing"
	"time"
)

func TestKindSupportsReversal(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindWarn, false},
		{KindMute, true},
		{KindKick, false},
		{KindBan, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.SupportsReversal(); got != tt.want {
				t.Errorf("%s.SupportsReversal() = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestKindValid(t *testing.T) {
	for _, k := range Kinds {
		if !k.Valid() {
			t.Errorf("%s should be valid", k)
		}
	}
	if Kind("timeout").Valid() {
		t.Error("unknown kind reported valid")
	}
}

func TestSanctionPending(t *testing.T) {
	exp := time.Now().Add(time.Hour)

	tests := []struct {
		name string
		s    Sanction
		want bool
	}{
		{"timed mute", Sanction{Kind: KindMute, ExpiresAt: &exp}, true},
		{"reversed mute", Sanction{Kind: KindMute, ExpiresAt: &exp, Reversed: true}, false},
		{"permanent ban", Sanction{Kind: KindBan}, false},
		{"warn with expiry", Sanction{Kind: KindWarn, ExpiresAt: &exp}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Pending(); got != tt.want {
				t.Errorf("Pending() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSettingNameValid(t *testing.T) {
	if !SettingMutedRole.Valid() {
		t.Error("muted_role should be valid")
	}
	if SettingName("welcome_channel").Valid() {
		t.Error("unknown setting reported valid")
	}
}
