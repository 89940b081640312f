package recipe

import "github.com/pantrypilot/v1/pkg/errors"

// Domain errors for recipe candidates
var (
	ErrMissingTitle  = errors.NewInvalidRecipeError("candidate has no title")
	ErrNoIngredients = errors.NewInvalidRecipeError("candidate has no ingredients")
)
