package preference

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackRecord is one user review of one recipe, together with the
// parsed signals extracted from the review text. Records are immutable
// once created; the nightly batch pass reads them but never mutates them.
type FeedbackRecord struct {
	ID         uuid.UUID    `json:"id"`
	UserID     string       `json:"user_id"`
	RecipeID   string       `json:"recipe_id"`
	Rating     int          `json:"rating"`
	ReviewText string       `json:"review_text"`
	Parsed     ParsedReview `json:"parsed"`
	Timestamp  time.Time    `json:"timestamp"`
}

// NewFeedbackRecord builds an immutable record for a submission
func NewFeedbackRecord(userID, recipeID string, rating int, reviewText string, parsed ParsedReview) FeedbackRecord {
	return FeedbackRecord{
		ID:         uuid.New(),
		UserID:     userID,
		RecipeID:   recipeID,
		Rating:     rating,
		ReviewText: reviewText,
		Parsed:     parsed,
		Timestamp:  time.Now(),
	}
}

// Validate rejects structurally invalid submissions
func (f FeedbackRecord) Validate() error {
	if f.UserID == "" {
		return ErrMissingUserID
	}
	if f.RecipeID == "" {
		return ErrMissingRecipeID
	}
	if f.Rating < 1 || f.Rating > 5 {
		return ErrRatingOutOfRange
	}
	return nil
}
