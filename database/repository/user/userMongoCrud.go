package userRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sailsmart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update modifies the profile fields of an existing user document.
func (r *MongoUserRepo) Update(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	user.UpdatedAt = time.Now()
	set := bson.M{
		"fullName":        user.FullName,
		"roles":           user.Roles,
		"experienceLevel": user.ExperienceLevel,
		"riskLevels":      user.RiskLevels,
		"skills":          user.Skills,
		"consents":        user.Consents,
		"fcmToken":        user.FCMToken,
		"updatedAt":       user.UpdatedAt,
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": user.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", user.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", user.ID)
	}
	return nil
}

// SetTokenHash stores the hash of the user's current token.
func (r *MongoUserRepo) SetTokenHash(ctx context.Context, id, tokenHash string) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"tokenHash": tokenHash, "updatedAt": time.Now()}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to store token hash for user %s: %w", id, err)
	}
	return nil
}
