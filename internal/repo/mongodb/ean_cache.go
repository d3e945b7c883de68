package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/scanbridge/scanbridge/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EANCacheRepository persists product resolutions per (ean, service) pair.
type EANCacheRepository interface {
	// Get returns the entry for (ean, service) if it exists and is still
	// fresh for the given TTL; stale rows behave as a miss. Manual entries
	// never go stale. Returns models.ErrNotFound on a miss.
	Get(ctx context.Context, ean, service string, ttl time.Duration) (*models.CacheEntry, error)
	// Upsert creates or refreshes the entry for (product.EAN, service) in a
	// single atomic write. The manual flag is monotonic: once an entry was
	// manually entered, an automatic re-resolution never clears the flag.
	Upsert(ctx context.Context, service string, product models.Product, manual bool) error
}

type eanCacheRepo struct {
	collection *mongo.Collection
}

func NewEANCacheRepository(db *DB) EANCacheRepository {
	repo := &eanCacheRepo{
		collection: db.Database.Collection("ean_cache"),
	}

	go repo.createIndexes(context.Background())

	return repo
}

func (r *eanCacheRepo) createIndexes(ctx context.Context) {
	// Uniqueness of (ean, service) is enforced here so concurrent upserts
	// for the same key can never race into two rows.
	index := mongo.IndexModel{
		Keys: bson.D{
			{Key: "ean", Value: 1},
			{Key: "service", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetName("ean_service"),
	}

	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		log.Errorw(ctx, "failed to create ean_cache index", "error", err)
	}
}

func (r *eanCacheRepo) Get(ctx context.Context, ean, service string, ttl time.Duration) (*models.CacheEntry, error) {
	filter := bson.M{
		"ean":     ean,
		"service": service,
	}

	var entry models.CacheEntry
	err := r.collection.FindOne(ctx, filter).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cache entry: %w", err)
	}

	if !entry.Fresh(ttl, time.Now()) {
		return nil, models.ErrNotFound
	}
	return &entry, nil
}

func (r *eanCacheRepo) Upsert(ctx context.Context, service string, product models.Product, manual bool) error {
	now := time.Now()

	filter := bson.M{
		"ean":     product.EAN,
		"service": service,
	}
	set := bson.M{
		"name":       product.Name,
		"brand":      product.Brand,
		"extra":      product.Extra,
		"updated_at": now,
	}
	setOnInsert := bson.M{
		"ean":        product.EAN,
		"service":    service,
		"created_at": now,
	}
	if manual {
		set["manual"] = true
	} else {
		setOnInsert["manual"] = false
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$set":         set,
		"$setOnInsert": setOnInsert,
	}, opts); err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}
