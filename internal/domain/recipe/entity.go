// Package recipe contains the recipe-side domain model: candidates as
// they arrive from the catalog or the fallback generator, and the fit
// score computed against the current inventory.
package recipe

import (
	"strings"

	"github.com/pantrypilot/v1/internal/domain/pantry"
)

// Source identifies where a candidate came from
type Source string

const (
	SourceCatalog   Source = "catalog"
	SourceGenerated Source = "generated"
)

// Ingredient is a single required ingredient of a candidate
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// NormalizedName returns the ingredient name canonicalized the same way
// inventory names are, so both sides of a match compare like-for-like.
func (i Ingredient) NormalizedName() string {
	return pantry.Normalize(i.Name)
}

// Candidate is a recipe under consideration for one suggestion request.
// It is immutable once built: scoring never mutates a candidate.
type Candidate struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	ReadyMinutes int                `json:"ready_minutes"`
	Servings     int                `json:"servings"`
	Ingredients  []Ingredient       `json:"ingredients"`
	Instructions []string           `json:"instructions"`
	DishTypes    []string           `json:"dish_types"`
	Diets        []string           `json:"diets"`
	TasteProfile map[string]float64 `json:"taste_profile,omitempty"`
	Source       Source             `json:"source"`
	Tags         []string           `json:"tags,omitempty"`
}

// Generated reports whether the candidate came from the fallback generator
func (c *Candidate) Generated() bool {
	return c.Source == SourceGenerated
}

// Validate rejects structurally unusable candidates. A candidate with no
// ingredients can never be fit-scored and is dropped early.
func (c *Candidate) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrMissingTitle
	}
	if len(c.Ingredients) == 0 {
		return ErrNoIngredients
	}
	return nil
}
