// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/pantrypilot/v1/internal/domain/pantry"
	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/domain/recipe"
	"github.com/pantrypilot/v1/internal/engine/score"
)

// InventoryProvider supplies the household's current stock
type InventoryProvider interface {
	// FetchItems returns the ordered inventory snapshot. Raw names are
	// preserved exactly as the feed reports them.
	FetchItems(ctx context.Context) ([]pantry.Item, error)
}

// RecipeCatalog searches the third-party recipe catalog
type RecipeCatalog interface {
	Search(ctx context.Context, ingredients []string, restrictions preference.DietaryRestrictions, maxReadyMinutes int) ([]*recipe.Candidate, error)
}

// ClassificationService classifies recipe ingredients by importance.
// Implementations must degrade gracefully: an empty or partial list is a
// valid response and never aborts scoring.
type ClassificationService interface {
	ClassifyIngredients(ctx context.Context, c *recipe.Candidate, inventory []pantry.Item) ([]score.ClassifiedIngredient, error)
}

// ReviewParsingService extracts structured signals from review text
type ReviewParsingService interface {
	ParseReview(ctx context.Context, reviewText string) (preference.ParsedReview, error)
}

// GenerationService produces raw structured-recipe output from the
// language model. The payload may be malformed; the fallback generator
// owns recovery.
type GenerationService interface {
	GenerateRecipePayload(ctx context.Context, ingredients []string, restrictions preference.DietaryRestrictions, maxReadyMinutes int) (string, error)
}

// ProfileRepository persists user preference profiles
type ProfileRepository interface {
	Create(ctx context.Context, profile *preference.Profile) error
	FindByUserID(ctx context.Context, userID string) (*preference.Profile, error)
	ListUserIDs(ctx context.Context) ([]string, error)

	// UpdateAtomic loads the profile, applies fn under the profile's
	// lock, and persists the result. Concurrent updates for the same
	// user never interleave mid-write; an error from fn discards the
	// mutation.
	UpdateAtomic(ctx context.Context, userID string, fn func(*preference.Profile) error) (*preference.Profile, error)
}

// FeedbackRepository persists immutable feedback records
type FeedbackRepository interface {
	Append(ctx context.Context, record preference.FeedbackRecord) error
	FindByUserSince(ctx context.Context, userID string, since time.Time) ([]preference.FeedbackRecord, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
