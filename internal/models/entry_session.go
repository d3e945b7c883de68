package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntrySessionState is the position of a manual entry conversation.
type EntrySessionState string

const (
	SessionAwaitingName  EntrySessionState = "awaiting_name"
	SessionAwaitingBrand EntrySessionState = "awaiting_brand"
	SessionAwaitingExtra EntrySessionState = "awaiting_extra"
)

// EntrySession is the persisted state of one manual product entry
// conversation, keyed by chat id. Abandoned sessions are reclaimed by an
// idle timeout.
type EntrySession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID    string             `bson:"chat_id" json:"chat_id"`
	EAN       string             `bson:"ean" json:"ean"`
	State     EntrySessionState  `bson:"state" json:"state"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Brand     string             `bson:"brand,omitempty" json:"brand,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
}
