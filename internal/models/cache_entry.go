package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CacheEntry is a cached product resolution for one (ean, service) pair.
// There is at most one entry per pair, enforced by a unique compound index.
type CacheEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EAN       string             `bson:"ean" json:"ean"`
	Service   string             `bson:"service" json:"service"`
	Name      string             `bson:"name" json:"name"`
	Brand     *string            `bson:"brand" json:"brand"`
	Extra     *string            `bson:"extra" json:"extra"`
	Manual    bool               `bson:"manual" json:"manual"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Fresh reports whether the entry may still be served for the given TTL.
// Manually entered products never expire.
func (e *CacheEntry) Fresh(ttl time.Duration, now time.Time) bool {
	if e.Manual {
		return true
	}
	return !e.UpdatedAt.Before(now.Add(-ttl))
}

// Product converts the cached snapshot back into a product value.
func (e *CacheEntry) Product() Product {
	return Product{
		EAN:   e.EAN,
		Name:  e.Name,
		Brand: e.Brand,
		Extra: e.Extra,
	}
}
