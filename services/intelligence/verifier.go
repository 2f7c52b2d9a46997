package ai

import (
	"context"
	"strings"

	"sailsmart/models"
	"sailsmart/utils"

	genai "github.com/google/generative-ai-go/genai"
)

const passportPrompt = `This image was uploaded as a passport photo page.
Check that it is a genuine-looking passport data page with a visible face photo and readable machine-readable zone.
Reply with JSON only: {"passed": boolean, "confidence": number between 0 and 1, "notes": short sentence}.`

// GeminiVerifier checks uploaded passport photos.
type GeminiVerifier struct {
	gen Generator
}

func NewGeminiVerifier(gen Generator) *GeminiVerifier {
	return &GeminiVerifier{gen: gen}
}

// VerifyPassportPhoto inspects image, whose MIME type is e.g. "image/jpeg".
func (v *GeminiVerifier) VerifyPassportPhoto(ctx context.Context, image []byte, mimeType string) (models.PhotoVerdict, error) {
	format := strings.TrimPrefix(strings.ToLower(mimeType), "image/")
	if format == "" || format == mimeType {
		return models.PhotoVerdict{}, utils.Validation("passport photo must be an image")
	}

	text, err := v.gen.Generate(ctx, genai.ImageData(format, image), genai.Text(passportPrompt))
	if err != nil {
		return models.PhotoVerdict{}, err
	}
	var verdict models.PhotoVerdict
	if err := decodeJSON(text, &verdict); err != nil {
		return models.PhotoVerdict{}, utils.UpstreamUnavailable("AI provider returned an unreadable verdict", err)
	}
	verdict.Confidence = clamp01(verdict.Confidence)
	return verdict, nil
}
