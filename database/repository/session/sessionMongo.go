package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"sailsmart/models"
	"sailsmart/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoSessionRepo implements SessionRepository using MongoDB.
type MongoSessionRepo struct {
	colls map[models.SessionKind]*mongo.Collection
}

// NewMongoSessionRepo creates the repository over owner_sessions and prospect_sessions.
func NewMongoSessionRepo(db *mongo.Database) SessionRepository {
	repo := &MongoSessionRepo{colls: map[models.SessionKind]*mongo.Collection{
		models.SessionKindOwner:    db.Collection("owner_sessions"),
		models.SessionKindProspect: db.Collection("prospect_sessions"),
	}}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("failed to create session indexes", zap.Error(err))
	}
	return repo
}

// withTimeout bounds a single store round-trip.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func (r *MongoSessionRepo) coll(kind models.SessionKind) (*mongo.Collection, error) {
	c, ok := r.colls[kind]
	if !ok {
		return nil, fmt.Errorf("unknown session kind %q", kind)
	}
	return c, nil
}

func (r *MongoSessionRepo) ensureIndexes() error {
	ctx, cancel := withTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "onboarding_state", Value: 1}}},
	}
	for kind, c := range r.colls {
		if _, err := c.Indexes().CreateMany(ctx, indexModels); err != nil {
			return fmt.Errorf("failed to create indexes for %s sessions: %w", kind, err)
		}
	}
	return nil
}

// updateDoc renders an Update into a Mongo update document.
func updateDoc(upd Update) bson.M {
	set := bson.M{}
	if upd.State != nil {
		set["onboarding_state"] = *upd.State
	}
	if upd.Conversation != nil {
		set["conversation"] = upd.Conversation
	}
	if upd.GatheredPreferences != nil {
		set["gathered_preferences"] = upd.GatheredPreferences
	}
	for k, v := range upd.MergePreferences {
		set["gathered_preferences."+k] = v
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if !upd.LastActiveAt.IsZero() {
		set["last_active_at"] = upd.LastActiveAt
	}
	if !upd.ExpiresAt.IsZero() {
		set["expires_at"] = upd.ExpiresAt
	}

	doc := bson.M{}
	if len(set) > 0 {
		doc["$set"] = set
	}
	if len(upd.AppendConversation) > 0 {
		doc["$push"] = bson.M{"conversation": bson.M{"$each": upd.AppendConversation}}
	}
	return doc
}
