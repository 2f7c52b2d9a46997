package middleware

import (
	"context"
	"errors"
	"strings"

	"sailsmart/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// TokenStore resolves the hash of a user's current access token when the cache misses.
type TokenStore interface {
	GetTokenHash(ctx context.Context, id string) (string, error)
}

var errTokenMismatch = errors.New("token mismatch")

// JWTAuthUserMiddleware rejects requests without a valid bearer token and sets "userID".
func JWTAuthUserMiddleware(store TokenStore, authCache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.RespondError(c, utils.Unauthenticated("missing or invalid Authorization header"))
			return
		}
		userID, err := authenticate(c.Request.Context(), store, authCache, tokenString)
		if err != nil {
			utils.GetLogger().Debug("Rejected bearer token", zap.Error(err))
			utils.RespondError(c, utils.Unauthenticated("invalid or revoked token"))
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

// OptionalUserAuthMiddleware sets "userID" when a valid token is presented and otherwise
// lets the request through unauthenticated.
func OptionalUserAuthMiddleware(store TokenStore, authCache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if userID, err := authenticate(c.Request.Context(), store, authCache, tokenString); err == nil {
				c.Set("userID", userID)
			} else {
				utils.GetLogger().Debug("Ignoring invalid bearer token", zap.Error(err))
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// authenticate checks the signature, then compares the token hash with the cached hash
// and falls back to the store on a miss.
func authenticate(ctx context.Context, store TokenStore, authCache *redis.Client, tokenString string) (string, error) {
	userID, err := utils.ExtractIDFromToken(tokenString)
	if err != nil {
		return "", err
	}
	computedHash := utils.HashToken(tokenString)
	cacheKey := utils.AuthCachePrefix + userID

	if authCache != nil {
		cached, err := authCache.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			if cached != computedHash {
				return "", errTokenMismatch
			}
			_ = authCache.Expire(ctx, cacheKey, utils.AuthCacheTTL).Err()
			return userID, nil
		case err != redis.Nil:
			utils.GetLogger().Warn("Auth cache lookup failed, falling back to store", zap.Error(err))
		}
	}

	stored, err := store.GetTokenHash(ctx, userID)
	if err != nil {
		return "", err
	}
	if stored == "" || stored != computedHash {
		return "", errTokenMismatch
	}
	if authCache != nil {
		_ = authCache.Set(ctx, cacheKey, computedHash, utils.AuthCacheTTL).Err()
	}
	return userID, nil
}
