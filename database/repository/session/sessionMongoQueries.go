package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"sailsmart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoSessionRepo) LinkAnonymous(ctx context.Context, kind models.SessionKind, sessionID, userID string, now, expiresAt time.Time) (bool, error) {
	c, err := r.coll(kind)
	if err != nil {
		return false, err
	}
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	// A missing user_id field and an explicit null both match {user_id: null}.
	filter := bson.M{
		"session_id": sessionID,
		"user_id":    nil,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{
		"user_id":          userID,
		"onboarding_state": models.StateConsentPending,
		"last_active_at":   now,
		"expires_at":       expiresAt,
	}}
	res, err := c.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to link session %s: %w", sessionID, err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoSessionRepo) FindPendingForUser(ctx context.Context, kind models.SessionKind, userID string, states []models.OnboardingState, now time.Time) ([]models.OnboardingSession, error) {
	c, err := r.coll(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"user_id":          userID,
		"onboarding_state": bson.M{"$in": states},
		"expires_at":       bson.M{"$gt": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "last_active_at", Value: -1}})
	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.OnboardingSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}
