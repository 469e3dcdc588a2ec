package database

import (
	"context"
	"errors"
	"testing"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

func TestGenerateCacheKeyDeterministic(t *testing.T) {
	a := generateCacheKey("settings", bson.M{"guild_id": "1", "name": "prefix"})
	b := generateCacheKey("settings", bson.M{"name": "prefix", "guild_id": "1"})
	if a != b {
		t.Errorf("keys differ for same query: %q vs %q", a, b)
	}

	c := generateCacheKey("settings", bson.M{"guild_id": "2", "name": "prefix"})
	if a == c {
		t.Error("different queries produced the same key")
	}

	if want := "settings:{guild_id=1,name=prefix}"; a != want {
		t.Errorf("key = %q, want %q", a, want)
	}
}

func TestDataManagerNotConnected(t *testing.T) {
	db := NewDatabase()
	dm := NewDataManager[models.Setting](CollectionSettings, db)
	ctx := context.Background()

	if _, err := dm.Get(ctx, bson.M{"guild_id": "1"}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Get error = %v, want ErrNotConnected", err)
	}
	if _, err := dm.GetAll(ctx, bson.M{}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("GetAll error = %v, want ErrNotConnected", err)
	}
	if _, err := dm.Set(ctx, bson.M{"guild_id": "1"}, bson.M{"value": "x"}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Set error = %v, want ErrNotConnected", err)
	}
	if err := dm.Insert(ctx, &models.Setting{}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Insert error = %v, want ErrNotConnected", err)
	}
	if _, err := dm.UpdateOne(ctx, bson.M{}, bson.M{"$set": bson.M{}}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("UpdateOne error = %v, want ErrNotConnected", err)
	}
	if _, err := dm.Delete(ctx, bson.M{}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Delete error = %v, want ErrNotConnected", err)
	}
}

func TestRepositoriesFailFastWhenDisconnected(t *testing.T) {
	db := NewDatabase()
	ctx := context.Background()

	if _, err := NewSanctionRepository(db).Pending(ctx); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Pending error = %v, want ErrNotConnected", err)
	}
	if err := NewSettingsRepository(db).Upsert(ctx, &models.Setting{GuildID: "1", Name: models.SettingPrefix}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Upsert error = %v, want ErrNotConnected", err)
	}
	if err := NewGuildRepository(db).Touch(ctx, "1", "guild"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Touch error = %v, want ErrNotConnected", err)
	}
}

func TestDatabaseStatusWithoutClient(t *testing.T) {
	db := NewDatabase()
	if db.Connected() {
		t.Error("new database should not be connected")
	}
	status, ok := db.GetStatus()
	if ok || status == "" {
		t.Errorf("GetStatus() = (%q, %v), want disconnected", status, ok)
	}
	if _, err := db.Ping(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Ping error = %v, want ErrNotConnected", err)
	}
	if err := db.Disconnect(); err != nil {
		t.Errorf("Disconnect without client returned %v", err)
	}
}
