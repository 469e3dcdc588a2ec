package utils

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{90 * time.Second, "1 minutos, 30 segundos"},
		{26*time.Hour + 5*time.Minute, "1 días, 2 horas, 5 minutos"},
		{0, ""},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusText(t *testing.T) {
	out := statusText("connected", true, 3, 2)
	if !strings.Contains(out, "🟢 connected") {
		t.Errorf("statusText() missing database state: %s", out)
	}
	if !strings.Contains(out, "Sanciones pendientes: 2") {
		t.Errorf("statusText() missing pending count: %s", out)
	}

	if out := statusText("disconnected", false, 0, 0); !strings.Contains(out, "🔴 disconnected") {
		t.Errorf("statusText() should flag offline database: %s", out)
	}
}

func TestHelpMentionsEveryModCommand(t *testing.T) {
	for _, cmd := range []string{"ban", "kick", "mute", "warn", "unmute", "unban", "warns", "removewarn", "clear"} {
		if !strings.Contains(helpText, "/mod "+cmd) {
			t.Errorf("help text does not mention /mod %s", cmd)
		}
	}
}

func TestPingText(t *testing.T) {
	out := pingText(42*time.Millisecond, true)
	if !strings.Contains(out, "42ms") || !strings.Contains(out, "conectada") {
		t.Errorf("pingText() = %q", out)
	}
	if out := pingText(0, false); !strings.Contains(out, "sin conexión") {
		t.Errorf("pingText() should flag offline database: %q", out)
	}
}

func TestStatsEmbed(t *testing.T) {
	embed := statsEmbed(statsSnapshot{Version: "1.0", Guilds: 4, Members: 120, Pending: 3})

	values := map[string]string{}
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}
	if values["🏠 Servidores"] != "4" {
		t.Errorf("guild field = %q, want 4", values["🏠 Servidores"])
	}
	if values["⏳ Sanciones pendientes"] != "3" {
		t.Errorf("pending field = %q, want 3", values["⏳ Sanciones pendientes"])
	}
	if values["⏱ Uptime"] != "recién iniciado" {
		t.Errorf("uptime field = %q", values["⏱ Uptime"])
	}
}
