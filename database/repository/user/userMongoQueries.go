package userRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sailsmart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID retrieves a user by ID, leaving credential hashes out of the result.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	proj := bson.M{"passwordHash": 0, "tokenHash": 0}
	return r.findOne(ctx, bson.M{"id": id}, proj)
}

// GetByEmail retrieves a user by email with the password hash for credential checks.
func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)}, bson.M{"tokenHash": 0})
}

func (r *MongoUserRepo) GetTokenHash(ctx context.Context, id string) (string, error) {
	usr, err := r.findOne(ctx, bson.M{"id": id}, bson.M{"id": 1, "tokenHash": 1})
	if err != nil || usr == nil {
		return "", err
	}
	return usr.TokenHash, nil
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter, projection bson.M) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(projection)
	var user models.User
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user.Skills == nil {
		user.Skills = []models.Skill{}
	}
	return &user, nil
}
