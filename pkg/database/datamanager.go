package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/karlseguin/ccache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	// MaxCacheSize bounds the per-collection cache. Zero disables caching.
	MaxCacheSize int64
	CacheTTL     time.Duration
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
		CacheTTL:     10 * time.Minute,
	}
}

// DataManager provides typed, optionally cached access to a MongoDB collection
type DataManager[T any] struct {
	name       string
	dbInstance *Database
	cache      *ccache.Cache
	options    DataManagerOptions
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}

	dm := &DataManager[T]{
		name:       collectionName,
		dbInstance: db,
		options:    dmOptions,
	}
	if dmOptions.MaxCacheSize > 0 {
		dm.cache = ccache.New(ccache.Configure().MaxSize(dmOptions.MaxCacheSize).ItemsToPrune(uint32(dmOptions.MaxCacheSize/10 + 1)))
	}
	return dm
}

// Name returns the collection name
func (dm *DataManager[T]) Name() string {
	return dm.name
}

// collection returns the live collection or ErrNotConnected
func (dm *DataManager[T]) collection() (*mongo.Collection, error) {
	if dm.dbInstance == nil || !dm.dbInstance.Connected() {
		return nil, ErrNotConnected
	}
	col := dm.dbInstance.GetCollection(dm.name)
	if col == nil {
		return nil, ErrNotConnected
	}
	return col, nil
}

// observe flags the database as down on network errors
func (dm *DataManager[T]) observe(err error) error {
	if err != nil && mongo.IsNetworkError(err) {
		dm.dbInstance.MarkDisconnected()
	}
	return err
}

// generateCacheKey creates a unique, deterministic key from a query
// It sorts the keys to ensure consistent ordering regardless of map iteration order
func generateCacheKey(collName string, query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}

	return fmt.Sprintf("%s:{%s}", collName, strings.Join(parts, ","))
}

// Get retrieves a document from cache or database. A missing document is (nil, nil).
func (dm *DataManager[T]) Get(ctx context.Context, query bson.M) (*T, error) {
	if dm.cache == nil {
		return dm.find(ctx, query)
	}

	item, err := dm.cache.Fetch(generateCacheKey(dm.name, query), dm.options.CacheTTL, func() (interface{}, error) {
		return dm.find(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return item.Value().(*T), nil
}

func (dm *DataManager[T]) find(ctx context.Context, query bson.M) (*T, error) {
	col, err := dm.collection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result T
	err = col.FindOne(ctx, query).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Warn(fmt.Sprintf("Fallo al leer de la DB (%s): %v", dm.name, err), "DataManager")
		return nil, dm.observe(err)
	}
	return &result, nil
}

// GetAll retrieves all documents matching a query from the database
func (dm *DataManager[T]) GetAll(ctx context.Context, query bson.M, opts ...*options.FindOptions) ([]*T, error) {
	col, err := dm.collection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := col.Find(ctx, query, opts...)
	if err != nil {
		return nil, dm.observe(err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	results := make([]*T, 0)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			logger.Warn(fmt.Sprintf("Documento inválido en '%s': %v", dm.name, err), "DataManager")
			continue
		}
		results = append(results, &doc)
	}

	return results, cursor.Err()
}

// Set upserts the fields in data on the document matching query and caches the result
func (dm *DataManager[T]) Set(ctx context.Context, query bson.M, data interface{}) (*T, error) {
	return dm.Upsert(ctx, query, bson.M{"$set": data})
}

// Upsert applies an update document with upsert semantics and caches the result
func (dm *DataManager[T]) Upsert(ctx context.Context, query bson.M, update bson.M) (*T, error) {
	col, err := dm.collection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result T
	if err := col.FindOneAndUpdate(ctx, query, update, opts).Decode(&result); err != nil {
		logger.Error(fmt.Sprintf("Error en 'set' sobre '%s': %v", dm.name, err), "DataManager")
		dm.invalidate(query)
		return nil, dm.observe(err)
	}

	if dm.cache != nil {
		dm.cache.Set(generateCacheKey(dm.name, query), &result, dm.options.CacheTTL)
	}
	return &result, nil
}

// Insert stores a new document
func (dm *DataManager[T]) Insert(ctx context.Context, doc *T) error {
	col, err := dm.collection()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := col.InsertOne(ctx, doc); err != nil {
		return dm.observe(err)
	}
	return nil
}

// UpdateOne applies update to the first document matching filter and reports
// whether a document was modified. The cache entry for filter is dropped.
func (dm *DataManager[T]) UpdateOne(ctx context.Context, filter bson.M, update bson.M) (bool, error) {
	col, err := dm.collection()
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	dm.invalidate(filter)
	res, err := col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, dm.observe(err)
	}
	return res.ModifiedCount > 0, nil
}

// Delete removes a document from the database and cache, reporting whether one existed
func (dm *DataManager[T]) Delete(ctx context.Context, query bson.M) (bool, error) {
	dm.invalidate(query)

	col, err := dm.collection()
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := col.DeleteOne(ctx, query)
	if err != nil {
		logger.Error(fmt.Sprintf("Error en 'delete' sobre '%s': %v", dm.name, err), "DataManager")
		return false, dm.observe(err)
	}
	return res.DeletedCount > 0, nil
}

// Count returns the number of documents matching query
func (dm *DataManager[T]) Count(ctx context.Context, query bson.M) (int64, error) {
	col, err := dm.collection()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := col.CountDocuments(ctx, query)
	return n, dm.observe(err)
}

// EnsureIndex creates an index over keys when it does not exist yet
func (dm *DataManager[T]) EnsureIndex(ctx context.Context, keys bson.D, unique bool) error {
	col, err := dm.collection()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetUnique(unique),
	})
	if err != nil {
		return fmt.Errorf("create index on %s: %w", dm.name, err)
	}
	return nil
}

func (dm *DataManager[T]) invalidate(query bson.M) {
	if dm.cache != nil {
		dm.cache.Delete(generateCacheKey(dm.name, query))
	}
}

// PrimeCache logs that the cache is ready (caches are filled on demand)
func (dm *DataManager[T]) PrimeCache() {
	if dm.cache == nil {
		logger.System(fmt.Sprintf("Colección '%s' sin caché.", dm.name), "DataManager")
		return
	}
	logger.System(fmt.Sprintf("Caché para '%s' preparada (tamaño máx: %d). Se llenará bajo demanda.", dm.name, dm.options.MaxCacheSize), "DataManager")
}
