package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/scanbridge/scanbridge/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EntrySessionRepository stores in-flight manual entry conversations, one
// per chat. Abandoned sessions are reclaimed by a TTL index on expires_at.
type EntrySessionRepository interface {
	Get(ctx context.Context, chatID string) (*models.EntrySession, error)
	Put(ctx context.Context, session *models.EntrySession) error
	Delete(ctx context.Context, chatID string) error
}

type entrySessionRepo struct {
	collection  *mongo.Collection
	idleTimeout time.Duration
}

func NewEntrySessionRepository(db *DB) EntrySessionRepository {
	repo := &entrySessionRepo{
		collection:  db.Database.Collection("entry_sessions"),
		idleTimeout: 15 * time.Minute,
	}

	go repo.createIndexes(context.Background())

	return repo
}

func (r *entrySessionRepo) createIndexes(ctx context.Context) {
	ttlIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().
			SetExpireAfterSeconds(0).
			SetName("expires_at_ttl"),
	}
	chatIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "chat_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName("chat_id_unique"),
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{ttlIndex, chatIndex}); err != nil {
		log.Errorw(ctx, "failed to create entry_sessions indexes", "error", err)
	}
}

func (r *entrySessionRepo) Get(ctx context.Context, chatID string) (*models.EntrySession, error) {
	var session models.EntrySession
	err := r.collection.FindOne(ctx, bson.M{"chat_id": chatID}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find entry session: %w", err)
	}

	// The TTL monitor only runs periodically; treat overdue rows as gone.
	if !session.ExpiresAt.After(time.Now()) {
		return nil, models.ErrNotFound
	}
	return &session, nil
}

func (r *entrySessionRepo) Put(ctx context.Context, session *models.EntrySession) error {
	now := time.Now()
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	session.ExpiresAt = now.Add(r.idleTimeout)

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"chat_id": session.ChatID}, session, opts); err != nil {
		return fmt.Errorf("save entry session: %w", err)
	}
	return nil
}

func (r *entrySessionRepo) Delete(ctx context.Context, chatID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"chat_id": chatID}); err != nil {
		return fmt.Errorf("delete entry session: %w", err)
	}
	return nil
}
