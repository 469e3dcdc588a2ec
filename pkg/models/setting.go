package models

import "time"

// SettingName is one of the fixed per-guild configuration keys
type SettingName string

const (
	SettingModLogsChannel SettingName = "moderation_logs_channel"
	SettingRulesChannel   SettingName = "rules_channel"
	SettingMinModRole     SettingName = "min_mod_role"
	SettingWarningRole    SettingName = "warning_role"
	SettingMutedRole      SettingName = "muted_role"
	SettingPrefix         SettingName = "prefix"
	SettingDebug          SettingName = "debug"
)

// SettingNames lists every known setting
var SettingNames = []SettingName{
	SettingModLogsChannel,
	SettingRulesChannel,
	SettingMinModRole,
	SettingWarningRole,
	SettingMutedRole,
	SettingPrefix,
	SettingDebug,
}

// Valid reports whether n is a known setting name
func (n SettingName) Valid() bool {
	for _, known := range SettingNames {
		if n == known {
			return true
		}
	}
	return false
}

// Setting is a single stored (guild, name) → value pair
type Setting struct {
	GuildID   string      `bson:"guild_id" json:"guild_id"`
	Name      SettingName `bson:"name" json:"name"`
	Value     string      `bson:"value" json:"value"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updated_at"`
}
