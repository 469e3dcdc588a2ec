package config

import (
	"testing"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrefixes(t *testing.T) {
	assert.Equal(t, "! ?", normalizePrefixes("  !   ? ! "))
	assert.Equal(t, "", normalizePrefixes("   "))
}

func TestFormatPrefixes(t *testing.T) {
	assert.Equal(t, "`!`, `pm.`", formatPrefixes("! pm."))
	assert.Equal(t, "ninguno", formatPrefixes(""))
}

func TestChoicesAreSorted(t *testing.T) {
	c := choices(roleSettings)
	require.Len(t, c, 3)
	assert.Equal(t, "minmod", c[0].Name)
	assert.Equal(t, "muted", c[1].Name)
	assert.Equal(t, "warning", c[2].Name)
}

func TestSettingsEmbed(t *testing.T) {
	embed := settingsEmbed(map[models.SettingName]string{
		models.SettingModLogsChannel: "123",
		models.SettingMinModRole:     "456",
		models.SettingPrefix:         "! ?",
	})

	require.Len(t, embed.Fields, len(models.SettingNames))
	values := make(map[string]string)
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}
	assert.Equal(t, "<#123>", values[string(models.SettingModLogsChannel)])
	assert.Equal(t, "<@&456>", values[string(models.SettingMinModRole)])
	assert.Equal(t, "`!`, `?`", values[string(models.SettingPrefix)])
	assert.Equal(t, "*sin configurar*", values[string(models.SettingRulesChannel)])
}

func TestRemovableCoversChannelsAndRoles(t *testing.T) {
	for k, v := range channelSettings {
		assert.Equal(t, v, removable[k])
	}
	for k, v := range roleSettings {
		assert.Equal(t, v, removable[k])
	}
}
