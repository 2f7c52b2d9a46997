package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"sailsmart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Insert stores a new session. A concurrent insert of the same id yields ErrDuplicateSession.
func (r *MongoSessionRepo) Insert(ctx context.Context, s *models.OnboardingSession) error {
	c, err := r.coll(s.Kind)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSession
		}
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *MongoSessionRepo) FindByID(ctx context.Context, kind models.SessionKind, sessionID string) (*models.OnboardingSession, error) {
	return r.findOne(ctx, kind, bson.M{"session_id": sessionID})
}

func (r *MongoSessionRepo) FindOwned(ctx context.Context, kind models.SessionKind, sessionID, userID string) (*models.OnboardingSession, error) {
	return r.findOne(ctx, kind, bson.M{"session_id": sessionID, "user_id": userID})
}

func (r *MongoSessionRepo) UpdateByCookie(ctx context.Context, kind models.SessionKind, sessionID string, upd Update) (*models.OnboardingSession, error) {
	return r.updateOne(ctx, kind, bson.M{"session_id": sessionID}, upd)
}

func (r *MongoSessionRepo) UpdateOwned(ctx context.Context, kind models.SessionKind, sessionID, userID string, upd Update) (*models.OnboardingSession, error) {
	return r.updateOne(ctx, kind, bson.M{"session_id": sessionID, "user_id": userID}, upd)
}

func (r *MongoSessionRepo) DeleteByCookie(ctx context.Context, kind models.SessionKind, sessionID string) error {
	return r.deleteOne(ctx, kind, bson.M{"session_id": sessionID})
}

func (r *MongoSessionRepo) DeleteOwned(ctx context.Context, kind models.SessionKind, sessionID, userID string) error {
	return r.deleteOne(ctx, kind, bson.M{"session_id": sessionID, "user_id": userID})
}

func (r *MongoSessionRepo) deleteOne(ctx context.Context, kind models.SessionKind, filter bson.M) error {
	c, err := r.coll(kind)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *MongoSessionRepo) findOne(ctx context.Context, kind models.SessionKind, filter bson.M) (*models.OnboardingSession, error) {
	c, err := r.coll(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.OnboardingSession
	if err := c.FindOne(ctx, filter).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	return &s, nil
}

// updateOne applies upd and returns the updated document, or nil when nothing matched.
func (r *MongoSessionRepo) updateOne(ctx context.Context, kind models.SessionKind, filter bson.M, upd Update) (*models.OnboardingSession, error) {
	c, err := r.coll(kind)
	if err != nil {
		return nil, err
	}
	if upd.FromState != nil {
		filter["onboarding_state"] = *upd.FromState
	}
	doc := updateDoc(upd)
	if len(doc) == 0 {
		return r.findOne(ctx, kind, filter)
	}

	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var s models.OnboardingSession
	if err := c.FindOneAndUpdate(ctx, filter, doc, opts).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return &s, nil
}
