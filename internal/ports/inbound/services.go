// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application core exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/engine/score"
)

// SuggestionService produces ranked meal suggestions for a user
type SuggestionService interface {
	Suggest(ctx context.Context, query SuggestionQuery) (*SuggestionResult, error)
}

// SuggestionQuery carries the request parameters for a suggestion run
type SuggestionQuery struct {
	UserID string

	// InventoryOverride, when non-empty, replaces the live inventory
	// feed with the caller's own item names.
	InventoryOverride []string

	// MaxReadyMinutes caps catalog results by total time. Zero means
	// no cap.
	MaxReadyMinutes int

	// Limit bounds the number of returned suggestions. Zero applies
	// the service default.
	Limit int
}

// SuggestionResult is the ranked outcome of a suggestion run
type SuggestionResult struct {
	UserID      string               `json:"user_id"`
	Suggestions []score.ScoredRecipe `json:"suggestions"`

	// Fallback reports whether the improvised-recipe generator
	// contributed to the result set.
	Fallback    bool      `json:"fallback"`
	GeneratedAt time.Time `json:"generated_at"`
}

// FeedbackService records user feedback and folds it into the profile
type FeedbackService interface {
	Submit(ctx context.Context, cmd SubmitFeedbackCommand) (*ProfileSummary, error)
}

// SubmitFeedbackCommand carries one feedback submission
type SubmitFeedbackCommand struct {
	UserID     string
	RecipeID   string
	Rating     int
	ReviewText string
}

// ProfileService manages user preference profiles
type ProfileService interface {
	Register(ctx context.Context, cmd RegisterUserCommand) (*ProfileSummary, error)
	GetProfile(ctx context.Context, userID string) (*preference.Profile, error)
	ListUsers(ctx context.Context) ([]string, error)
	UpdateRestrictions(ctx context.Context, userID string, restrictions preference.DietaryRestrictions) (*ProfileSummary, error)
}

// RegisterUserCommand creates a profile with neutral defaults
type RegisterUserCommand struct {
	UserID       string
	Restrictions preference.DietaryRestrictions
}

// ProfileSummary is the compact profile view returned by write operations
type ProfileSummary struct {
	UserID          string                         `json:"user_id"`
	EffortTolerance preference.EffortLevel         `json:"effort_tolerance"`
	Flavors         map[string]float64             `json:"flavors"`
	LikedCount      int                            `json:"liked_count"`
	DislikedCount   int                            `json:"disliked_count"`
	Restrictions    preference.DietaryRestrictions `json:"restrictions"`
	LastUpdated     time.Time                      `json:"last_updated"`
}

// DailyUpdateService runs the batch preference-maintenance pass
type DailyUpdateService interface {
	Run(ctx context.Context) (*DailyUpdateReport, error)
}

// DailyUpdateReport summarizes one batch pass. A pass with failures is
// still a completed pass.
type DailyUpdateReport struct {
	ProfilesUpdated int       `json:"profiles_updated"`
	ProfilesFailed  int       `json:"profiles_failed"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
}
