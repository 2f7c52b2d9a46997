package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sailsmart/models"
	"sailsmart/utils"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

const questionPrompt = `You review crew applications for a sailing journey.
The skipper asked: %q
An answer qualifies when: %q
The applicant answered: %q

Reply with JSON only: {"satisfied": boolean, "confidence": number between 0 and 1, "reasoning": short sentence}.`

// GeminiScorer judges free-text answers with a Gemini model.
type GeminiScorer struct {
	gen      Generator
	verdicts *RedisVerdictStore
}

// NewGeminiScorer returns a scorer; verdicts may be nil to disable verdict caching.
func NewGeminiScorer(gen Generator, verdicts *RedisVerdictStore) *GeminiScorer {
	return &GeminiScorer{gen: gen, verdicts: verdicts}
}

func (s *GeminiScorer) ScoreAnswer(ctx context.Context, p models.QuestionPrompt) (models.AnswerScore, error) {
	logger := utils.GetLogger()
	if s.verdicts != nil {
		cached, err := s.verdicts.Get(ctx, p)
		if err != nil {
			logger.Warn("Verdict cache read failed", zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	criteria := p.QualificationCriteria
	if criteria == "" {
		criteria = "the answer is relevant, honest and shows adequate experience"
	}
	text, err := s.gen.Generate(ctx, genai.Text(fmt.Sprintf(questionPrompt, p.QuestionText, criteria, p.Answer)))
	if err != nil {
		return models.AnswerScore{}, err
	}

	var score models.AnswerScore
	if err := decodeJSON(text, &score); err != nil {
		return models.AnswerScore{}, utils.UpstreamUnavailable("AI provider returned an unreadable verdict", err)
	}
	score.Confidence = clamp01(score.Confidence)

	if s.verdicts != nil {
		if err := s.verdicts.Set(ctx, p, score); err != nil {
			logger.Warn("Verdict cache write failed", zap.Error(err))
		}
	}
	return score, nil
}

// decodeJSON tolerates a fenced code block around the payload.
func decodeJSON(text string, v interface{}) error {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return json.Unmarshal([]byte(strings.TrimSpace(text)), v)
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
