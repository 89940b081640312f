package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/ports/outbound"
)

const reviewParsingSystemPrompt = `You extract structured signals from a recipe review.
Respond with only a JSON object, no prose:
{"sentiment": "positive|neutral|negative",
 "effort_tag": "low|medium|high" or "",
 "flavor_tags": ["sweetness","saltiness","sourness","bitterness","savoriness","fattiness"] (only dimensions the review mentions),
 "liked_ingredients": [...],
 "disliked_ingredients": [...]}`

// ReviewParsingAdapter extracts preference signals from review text via
// the chat-completion client
type ReviewParsingAdapter struct {
	client *Client
	logger *zap.Logger
}

// NewReviewParsingAdapter creates the review-parsing adapter
func NewReviewParsingAdapter(client *Client, logger *zap.Logger) outbound.ReviewParsingService {
	return &ReviewParsingAdapter{client: client, logger: logger.Named("review-parsing")}
}

var allowedFlavorTags = map[string]bool{
	"sweetness":  true,
	"saltiness":  true,
	"sourness":   true,
	"bitterness": true,
	"savoriness": true,
	"fattiness":  true,
}

// ParseReview returns the structured signals for one review. Unknown
// flavor tags from the model are dropped rather than learned.
func (a *ReviewParsingAdapter) ParseReview(ctx context.Context, reviewText string) (preference.ParsedReview, error) {
	content, err := a.client.complete(ctx, reviewParsingSystemPrompt, reviewText)
	if err != nil {
		return preference.ParsedReview{}, err
	}

	var parsed preference.ParsedReview
	if err := json.Unmarshal([]byte(extractJSONObject(content)), &parsed); err != nil {
		return preference.ParsedReview{}, fmt.Errorf("decode parsed review: %w", err)
	}

	filtered := parsed.FlavorTags[:0]
	for _, tag := range parsed.FlavorTags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if allowedFlavorTags[tag] {
			filtered = append(filtered, tag)
		}
	}
	parsed.FlavorTags = filtered

	switch parsed.Sentiment {
	case preference.SentimentPositive, preference.SentimentNeutral, preference.SentimentNegative:
	default:
		parsed.Sentiment = ""
	}
	switch parsed.EffortTag {
	case preference.EffortLow, preference.EffortMedium, preference.EffortHigh:
	default:
		parsed.EffortTag = ""
	}
	return parsed, nil
}

// extractJSONObject trims prose and code fences around the first JSON
// object in model output
func extractJSONObject(s string) string {
	return extractDelimited(s, '{', '}')
}

// extractJSONArray trims prose and code fences around the first JSON
// array in model output
func extractJSONArray(s string) string {
	return extractDelimited(s, '[', ']')
}

func extractDelimited(s string, open, closing byte) string {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, closing)
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
