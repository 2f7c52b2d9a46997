package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"sailsmart/models"

	"github.com/go-redis/redis/v8"
)

const verdictPrefix = "ai:verdict:"

// RedisVerdictStore remembers answer verdicts so an unchanged answer to an unchanged
// question is judged once.
type RedisVerdictStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisVerdictStore(client *redis.Client, ttl time.Duration) *RedisVerdictStore {
	return &RedisVerdictStore{client: client, ttl: ttl}
}

func verdictKey(p models.QuestionPrompt) string {
	sum := sha256.Sum256([]byte(p.QuestionText + "\x00" + p.QualificationCriteria + "\x00" + p.Answer))
	return verdictPrefix + hex.EncodeToString(sum[:])
}

// Get returns nil when nothing is stored for the prompt.
func (s *RedisVerdictStore) Get(ctx context.Context, p models.QuestionPrompt) (*models.AnswerScore, error) {
	data, err := s.client.Get(ctx, verdictKey(p)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var score models.AnswerScore
	if err := json.Unmarshal(data, &score); err != nil {
		return nil, err
	}
	return &score, nil
}

func (s *RedisVerdictStore) Set(ctx context.Context, p models.QuestionPrompt, score models.AnswerScore) error {
	b, err := json.Marshal(score)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, verdictKey(p), b, s.ttl).Err()
}
