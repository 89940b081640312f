package preference

import "github.com/pantrypilot/v1/pkg/errors"

// Validation errors for feedback submissions
var (
	ErrMissingUserID    = errors.NewValidationError("feedback requires a user_id")
	ErrMissingRecipeID  = errors.NewValidationError("feedback requires a recipe_id")
	ErrRatingOutOfRange = errors.NewValidationError("rating must be between 1 and 5")
)
