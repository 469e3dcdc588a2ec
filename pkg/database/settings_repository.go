package database

import (
	"context"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

// SettingsRepository persists per-guild settings, one document per (guild_id, name)
type SettingsRepository struct {
	dm *DataManager[models.Setting]
}

// NewSettingsRepository creates the repository over the settings collection
func NewSettingsRepository(db *Database) *SettingsRepository {
	return &SettingsRepository{
		dm: NewDataManager[models.Setting](CollectionSettings, db),
	}
}

func ensureSettingsIndexes(ctx context.Context, db *Database) error {
	dm := NewDataManager[models.Setting](CollectionSettings, db, DataManagerOptions{})
	return dm.EnsureIndex(ctx, bson.D{{Key: "guild_id", Value: 1}, {Key: "name", Value: 1}}, true)
}

func settingKey(guildID string, name models.SettingName) bson.M {
	return bson.M{"guild_id": guildID, "name": string(name)}
}

// Find returns the stored setting or nil when it was never written
func (r *SettingsRepository) Find(ctx context.Context, guildID string, name models.SettingName) (*models.Setting, error) {
	return r.dm.Get(ctx, settingKey(guildID, name))
}

// Upsert overwrites the value for (guild, name)
func (r *SettingsRepository) Upsert(ctx context.Context, s *models.Setting) error {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}
	_, err := r.dm.Set(ctx, settingKey(s.GuildID, s.Name), bson.M{
		"value":      s.Value,
		"updated_at": s.UpdatedAt,
	})
	return err
}

// List returns every stored setting of a guild
func (r *SettingsRepository) List(ctx context.Context, guildID string) ([]*models.Setting, error) {
	return r.dm.GetAll(ctx, bson.M{"guild_id": guildID})
}
