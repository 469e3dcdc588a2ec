package database

import (
	"context"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GuildRepository tracks the guilds the bot has seen
type GuildRepository struct {
	dm *DataManager[models.Guild]
}

// NewGuildRepository creates the repository over the guilds collection
func NewGuildRepository(db *Database) *GuildRepository {
	return &GuildRepository{
		dm: NewDataManager[models.Guild](CollectionGuilds, db),
	}
}

// Touch records that the guild was seen now, creating it on first sight
func (r *GuildRepository) Touch(ctx context.Context, guildID, name string) error {
	now := time.Now()
	set := bson.M{"last_seen": now}
	if name != "" {
		set["name"] = name
	}
	_, err := r.dm.Upsert(ctx, bson.M{"_id": guildID}, bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"first_seen": now},
	})
	return err
}

// Get returns a guild by id; nil when never seen
func (r *GuildRepository) Get(ctx context.Context, guildID string) (*models.Guild, error) {
	return r.dm.Get(ctx, bson.M{"_id": guildID})
}

// List returns every known guild ordered by name
func (r *GuildRepository) List(ctx context.Context) ([]*models.Guild, error) {
	return r.dm.GetAll(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}
