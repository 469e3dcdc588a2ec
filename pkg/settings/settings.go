// Package settings resolves per-guild configuration with static fallbacks.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// Backend is the durable storage behind a Store
type Backend interface {
	Find(ctx context.Context, guildID string, name models.SettingName) (*models.Setting, error)
	Upsert(ctx context.Context, s *models.Setting) error
	List(ctx context.Context, guildID string) ([]*models.Setting, error)
}

// ChannelResolver looks up live channels by id
type ChannelResolver interface {
	Channel(channelID string) (*discordgo.Channel, error)
}

// RoleResolver reports whether a role still exists in a guild
type RoleResolver interface {
	RoleExists(guildID, roleID string) bool
}

// Defaults maps a setting to the value used when nothing is stored
type Defaults map[models.SettingName]string

// DefaultTable returns the static defaults for the given default prefix
func DefaultTable(prefix string) Defaults {
	return Defaults{
		models.SettingPrefix: prefix,
		models.SettingDebug:  "false",
	}
}

// Store reads and writes guild settings
type Store struct {
	backend  Backend
	defaults Defaults
	channels ChannelResolver
	roles    RoleResolver
	now      func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithChannels sets the resolver used by ResolveChannel
func WithChannels(r ChannelResolver) Option {
	return func(s *Store) { s.channels = r }
}

// WithRoles sets the resolver used by ResolveRole
func WithRoles(r RoleResolver) Option {
	return func(s *Store) { s.roles = r }
}

// NewStore creates a Store
func NewStore(backend Backend, defaults Defaults, opts ...Option) *Store {
	if defaults == nil {
		defaults = Defaults{}
	}
	s := &Store{backend: backend, defaults: defaults, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the stored value, else the default. ok is false when neither
// exists or the stored value was removed and there is no default.
func (s *Store) Get(ctx context.Context, guildID string, name models.SettingName) (string, bool, error) {
	stored, err := s.backend.Find(ctx, guildID, name)
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", name, err)
	}
	if stored != nil && stored.Value != "" {
		return stored.Value, true, nil
	}
	def, ok := s.defaults[name]
	return def, ok, nil
}

// Set overwrites the value for (guild, name)
func (s *Store) Set(ctx context.Context, guildID string, name models.SettingName, value string) error {
	if !name.Valid() {
		return fmt.Errorf("unknown setting %q", name)
	}
	err := s.backend.Upsert(ctx, &models.Setting{
		GuildID:   guildID,
		Name:      name,
		Value:     value,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("set setting %s: %w", name, err)
	}
	return nil
}

// Remove clears a stored value so it reads as unset
func (s *Store) Remove(ctx context.Context, guildID string, name models.SettingName) error {
	return s.Set(ctx, guildID, name, "")
}

// ResolveChannel returns the live channel a setting points to, or nil when the
// setting is unset, not numeric or the channel no longer exists.
func (s *Store) ResolveChannel(ctx context.Context, guildID string, name models.SettingName) (*discordgo.Channel, error) {
	id, ok, err := s.snowflake(ctx, guildID, name)
	if err != nil || !ok || s.channels == nil {
		return nil, err
	}
	ch, err := s.channels.Channel(id)
	if err != nil {
		return nil, nil
	}
	return ch, nil
}

// ResolveRole returns the role id a setting points to when the role still exists
func (s *Store) ResolveRole(ctx context.Context, guildID string, name models.SettingName) (string, bool, error) {
	id, ok, err := s.snowflake(ctx, guildID, name)
	if err != nil || !ok {
		return "", false, err
	}
	if s.roles != nil && !s.roles.RoleExists(guildID, id) {
		return "", false, nil
	}
	return id, true, nil
}

func (s *Store) snowflake(ctx context.Context, guildID string, name models.SettingName) (string, bool, error) {
	v, ok, err := s.Get(ctx, guildID, name)
	if err != nil || !ok {
		return "", false, err
	}
	if _, err := strconv.ParseUint(v, 10, 64); err != nil {
		return "", false, nil
	}
	return v, true, nil
}

// Prefixes returns the guild's message prefixes
func (s *Store) Prefixes(ctx context.Context, guildID string) ([]string, error) {
	v, _, err := s.Get(ctx, guildID, models.SettingPrefix)
	if err != nil {
		return nil, err
	}
	return strings.Fields(v), nil
}

// Debug reports whether debug output is enabled for the guild
func (s *Store) Debug(ctx context.Context, guildID string) (bool, error) {
	v, _, err := s.Get(ctx, guildID, models.SettingDebug)
	if err != nil {
		return false, err
	}
	enabled, _ := strconv.ParseBool(v)
	return enabled, nil
}

// All returns every known setting of a guild: stored values merged over defaults.
// Unset names without a default are omitted.
func (s *Store) All(ctx context.Context, guildID string) (map[models.SettingName]string, error) {
	stored, err := s.backend.List(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	out := make(map[models.SettingName]string, len(models.SettingNames))
	for name, v := range s.defaults {
		out[name] = v
	}
	for _, st := range stored {
		if st.Value != "" {
			out[st.Name] = st.Value
		}
	}
	return out, nil
}
