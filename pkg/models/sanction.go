package models

import "time"

// Kind identifies the moderation action a sanction records
type Kind string

const (
	KindWarn Kind = "warn"
	KindMute Kind = "mute"
	KindKick Kind = "kick"
	KindBan  Kind = "ban"
)

// Kinds lists every sanction kind in display order
var Kinds = []Kind{KindWarn, KindMute, KindKick, KindBan}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	switch k {
	case KindWarn, KindMute, KindKick, KindBan:
		return true
	}
	return false
}

// SupportsReversal reports whether a sanction of this kind can be undone.
// Warns and kicks are permanent log entries.
func (k Kind) SupportsReversal() bool {
	return k == KindMute || k == KindBan
}

// Sanction is the durable record of one moderation action against one member.
// Unreversed sanctions with an expiration double as the reversal schedule.
type Sanction struct {
	ID          string     `bson:"_id" json:"id"`
	Kind        Kind       `bson:"kind" json:"kind"`
	GuildID     string     `bson:"guild_id" json:"guild_id"`
	TargetID    string     `bson:"target_id" json:"target_id"`
	ModeratorID string     `bson:"moderator_id" json:"moderator_id"`
	Reason      string     `bson:"reason" json:"reason"`
	RoleID      string     `bson:"role_id,omitempty" json:"role_id,omitempty"` // warning/muted role applied, if any
	AppliedAt   time.Time  `bson:"applied_at" json:"applied_at"`
	ExpiresAt   *time.Time `bson:"expires_at" json:"expires_at,omitempty"`
	Reversed    bool       `bson:"reversed" json:"reversed"`
	ReversedAt  *time.Time `bson:"reversed_at,omitempty" json:"reversed_at,omitempty"`
	ReversedBy  string     `bson:"reversed_by,omitempty" json:"reversed_by,omitempty"`
}

// Pending reports whether the sanction still awaits an automatic reversal
func (s *Sanction) Pending() bool {
	return !s.Reversed && s.ExpiresAt != nil && s.Kind.SupportsReversal()
}

// Permanent reports whether the sanction never expires
func (s *Sanction) Permanent() bool {
	return s.ExpiresAt == nil
}
