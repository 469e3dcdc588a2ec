package database

import (
	"context"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SanctionRepository persists sanction records. Unreversed records with an
// expiration are the durable reversal schedule.
type SanctionRepository struct {
	dm *DataManager[models.Sanction]
}

// NewSanctionRepository creates the repository over the sanctions collection.
// Reads always hit the database so reversal checks see the latest state.
func NewSanctionRepository(db *Database) *SanctionRepository {
	return &SanctionRepository{
		dm: NewDataManager[models.Sanction](CollectionSanctions, db, DataManagerOptions{}),
	}
}

func ensureSanctionIndexes(ctx context.Context, db *Database) error {
	dm := NewDataManager[models.Sanction](CollectionSanctions, db, DataManagerOptions{})
	if err := dm.EnsureIndex(ctx, bson.D{{Key: "reversed", Value: 1}, {Key: "expires_at", Value: 1}}, false); err != nil {
		return err
	}
	return dm.EnsureIndex(ctx, bson.D{{Key: "guild_id", Value: 1}, {Key: "target_id", Value: 1}, {Key: "kind", Value: 1}}, false)
}

// Create inserts a new record
func (r *SanctionRepository) Create(ctx context.Context, s *models.Sanction) error {
	return r.dm.Insert(ctx, s)
}

// Get loads a record by id; nil when it does not exist
func (r *SanctionRepository) Get(ctx context.Context, id string) (*models.Sanction, error) {
	return r.dm.Get(ctx, bson.M{"_id": id})
}

// MarkReversed flags the record as reversed. It reports false when the record
// was already reversed or does not exist.
func (r *SanctionRepository) MarkReversed(ctx context.Context, id, by string, at time.Time) (bool, error) {
	return r.dm.UpdateOne(ctx,
		bson.M{"_id": id, "reversed": false},
		bson.M{"$set": bson.M{"reversed": true, "reversed_at": at, "reversed_by": by}},
	)
}

// Pending lists every record still waiting for its automatic reversal
func (r *SanctionRepository) Pending(ctx context.Context) ([]*models.Sanction, error) {
	return r.dm.GetAll(ctx, bson.M{
		"reversed":   false,
		"expires_at": bson.M{"$ne": nil},
		"kind":       bson.M{"$in": []models.Kind{models.KindMute, models.KindBan}},
	}, options.Find().SetSort(bson.D{{Key: "expires_at", Value: 1}}))
}

// ListForMember returns a member's records of one kind, oldest first. An empty kind matches all.
func (r *SanctionRepository) ListForMember(ctx context.Context, guildID, targetID string, kind models.Kind) ([]*models.Sanction, error) {
	query := bson.M{"guild_id": guildID, "target_id": targetID}
	if kind != "" {
		query["kind"] = kind
	}
	return r.dm.GetAll(ctx, query, options.Find().SetSort(bson.D{{Key: "applied_at", Value: 1}}))
}

// ListForGuild returns the most recent records of a guild, newest first
func (r *SanctionRepository) ListForGuild(ctx context.Context, guildID string, limit int64) ([]*models.Sanction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "applied_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.dm.GetAll(ctx, bson.M{"guild_id": guildID}, opts)
}

// ActiveFor returns the unreversed, unexpired record of a kind for a member, if any
func (r *SanctionRepository) ActiveFor(ctx context.Context, guildID, targetID string, kind models.Kind, now time.Time) (*models.Sanction, error) {
	list, err := r.dm.GetAll(ctx, bson.M{
		"guild_id":  guildID,
		"target_id": targetID,
		"kind":      kind,
		"reversed":  false,
		"$or": []bson.M{
			{"expires_at": nil},
			{"expires_at": bson.M{"$gt": now}},
		},
	}, options.Find().SetSort(bson.D{{Key: "applied_at", Value: -1}}).SetLimit(1))
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// Delete removes a record of a guild, reporting whether it existed
func (r *SanctionRepository) Delete(ctx context.Context, guildID, id string) (bool, error) {
	return r.dm.Delete(ctx, bson.M{"_id": id, "guild_id": guildID})
}

// CountByKind counts a guild's records of one kind
func (r *SanctionRepository) CountByKind(ctx context.Context, guildID string, kind models.Kind) (int64, error) {
	return r.dm.Count(ctx, bson.M{"guild_id": guildID, "kind": kind})
}
