// Package generate synthesizes a recipe when the catalog comes up empty
// or scores too low. Output from the generation service is repaired
// through an ordered pipeline that always ends in a structurally valid
// recipe.
package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/domain/recipe"
	"github.com/pantrypilot/v1/pkg/errors"
)

// TagDegraded marks a recipe produced by the last-resort synthesis stage
const TagDegraded = "degraded-generation"

// PayloadSource produces raw structured-recipe output. Implementations
// wrap the language-model generation call; the raw string may be
// malformed or empty.
type PayloadSource interface {
	GenerateRecipePayload(ctx context.Context, ingredients []string, restrictions preference.DietaryRestrictions, maxReadyMinutes int) (string, error)
}

// Generator builds fallback recipes from inventory ingredients
type Generator struct {
	source PayloadSource
	logger *zap.Logger
}

// NewGenerator creates a fallback recipe generator
func NewGenerator(source PayloadSource, logger *zap.Logger) *Generator {
	return &Generator{
		source: source,
		logger: logger.Named("fallback-generator"),
	}
}

// Generate always returns a structurally valid generated candidate; it
// never fails outward. The returned stage records how much repair the
// service output needed.
func (g *Generator) Generate(
	ctx context.Context,
	ingredients []string,
	restrictions preference.DietaryRestrictions,
	maxReadyMinutes int,
) (*recipe.Candidate, RepairStage) {
	raw, err := g.source.GenerateRecipePayload(ctx, ingredients, restrictions, maxReadyMinutes)
	if err != nil {
		g.logger.Warn("Generation service call failed, synthesizing minimal recipe",
			zap.Error(err))
		return g.synthesize(ingredients, maxReadyMinutes), StageSynthesis
	}

	candidate, stage := g.recover(raw, ingredients, maxReadyMinutes)
	g.logger.Info("Fallback recipe recovered",
		zap.String("stage", string(stage)),
		zap.String("title", candidate.Title),
		zap.Int("ingredients", len(candidate.Ingredients)))
	return candidate, stage
}

// recover runs the ordered repair pipeline over raw service output
func (g *Generator) recover(raw string, ingredients []string, maxReadyMinutes int) (*recipe.Candidate, RepairStage) {
	if payload, ok := parseStrict(raw); ok {
		if c := g.fromPayload(payload, maxReadyMinutes); c != nil {
			return c, StageStrictParse
		}
	}

	if payload, repairName, ok := parseWithRepairs(raw); ok {
		if c := g.fromPayload(payload, maxReadyMinutes); c != nil {
			g.logger.Debug("Generation output repaired", zap.String("repair", repairName))
			return c, StageFaultRepair
		}
	}

	if payload, ok := extractFields(raw); ok {
		if c := g.fromPayload(payload, maxReadyMinutes); c != nil {
			return c, StageFieldExtraction
		}
	}

	// Raised internally between stages 3 and 4 for the log trail; the
	// synthesis stage below always succeeds, so it never escapes.
	exhausted := errors.NewGenerationRecoveryExhaustedError(
		fmt.Sprintf("raw output length %d", len(raw)))
	g.logger.Warn("All recovery stages failed, synthesizing minimal recipe",
		zap.Error(exhausted))

	return g.synthesize(ingredients, maxReadyMinutes), StageSynthesis
}

// fromPayload converts a recovered payload into a candidate, or nil when
// the payload lacks a usable title or ingredient list.
func (g *Generator) fromPayload(payload *generatedPayload, maxReadyMinutes int) *recipe.Candidate {
	title := strings.TrimSpace(payload.Title)
	if title == "" || len(payload.Ingredients) == 0 {
		return nil
	}

	ingredients := make([]recipe.Ingredient, 0, len(payload.Ingredients))
	for _, ing := range payload.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		ingredients = append(ingredients, recipe.Ingredient{
			Name:   name,
			Amount: float64(ing.Amount),
			Unit:   ing.Unit,
		})
	}
	if len(ingredients) == 0 {
		return nil
	}

	instructions := payload.Instructions
	if len(instructions) == 0 {
		instructions = []string{"Combine the ingredients and cook to taste."}
	}

	readyMinutes := payload.ReadyMinutes
	if readyMinutes <= 0 || (maxReadyMinutes > 0 && readyMinutes > maxReadyMinutes) {
		readyMinutes = defaultReadyMinutes(maxReadyMinutes)
	}

	servings := payload.Servings
	if servings <= 0 {
		servings = 2
	}

	return &recipe.Candidate{
		ID:           uuid.NewString(),
		Title:        title,
		ReadyMinutes: readyMinutes,
		Servings:     servings,
		Ingredients:  ingredients,
		Instructions: instructions,
		DishTypes:    payload.DishTypes,
		Diets:        payload.Diets,
		Source:       recipe.SourceGenerated,
	}
}

// synthesize is stage 4: a minimal valid recipe from the available
// ingredients verbatim, marked as degraded. It cannot fail.
func (g *Generator) synthesize(available []string, maxReadyMinutes int) *recipe.Candidate {
	ingredients := make([]recipe.Ingredient, 0, len(available))
	for _, name := range available {
		if strings.TrimSpace(name) == "" {
			continue
		}
		ingredients = append(ingredients, recipe.Ingredient{Name: name})
	}
	if len(ingredients) == 0 {
		ingredients = []recipe.Ingredient{{Name: "pantry staples"}}
	}

	title := "Pantry Improv"
	if len(ingredients) > 0 {
		title = fmt.Sprintf("Pantry Improv with %s", ingredients[0].Name)
	}

	return &recipe.Candidate{
		ID:           uuid.NewString(),
		Title:        title,
		ReadyMinutes: defaultReadyMinutes(maxReadyMinutes),
		Servings:     2,
		Ingredients:  ingredients,
		Instructions: []string{"Combine the available ingredients into a simple dish, seasoning to taste."},
		Source:       recipe.SourceGenerated,
		Tags:         []string{TagDegraded},
	}
}

func defaultReadyMinutes(maxReadyMinutes int) int {
	if maxReadyMinutes > 0 && maxReadyMinutes < 30 {
		return maxReadyMinutes
	}
	return 30
}
