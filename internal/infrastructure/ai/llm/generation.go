package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/ports/outbound"
)

const generationSystemPrompt = `You are a resourceful home cook. Invent one realistic recipe that uses only the listed pantry ingredients plus water, salt, pepper and cooking oil.
Respond with only a JSON object, no prose:
{"title": "...", "ready_minutes": <int>, "servings": <int>,
 "ingredients": [{"name": "...", "amount": <number>, "unit": "..."}],
 "instructions": ["step 1", "step 2"],
 "dish_types": [...], "diets": [...]}`

// GenerationAdapter produces raw structured-recipe payloads. It does no
// repair of its own; the fallback generator owns recovery, so the raw
// model text is returned untouched.
type GenerationAdapter struct {
	client *Client
	logger *zap.Logger
}

// NewGenerationAdapter creates the recipe-generation adapter
func NewGenerationAdapter(client *Client, logger *zap.Logger) outbound.GenerationService {
	return &GenerationAdapter{client: client, logger: logger.Named("generation")}
}

func (a *GenerationAdapter) GenerateRecipePayload(ctx context.Context, ingredients []string, restrictions preference.DietaryRestrictions, maxReadyMinutes int) (string, error) {
	var sb strings.Builder
	sb.WriteString("Pantry ingredients:\n")
	for _, name := range ingredients {
		fmt.Fprintf(&sb, "- %s\n", name)
	}
	if restrictions.Diet != "" {
		fmt.Fprintf(&sb, "The recipe must be %s.\n", restrictions.Diet)
	}
	if len(restrictions.Intolerances) > 0 {
		fmt.Fprintf(&sb, "It must not contain: %s.\n", strings.Join(restrictions.Intolerances, ", "))
	}
	if maxReadyMinutes > 0 {
		fmt.Fprintf(&sb, "Total time must stay under %d minutes.\n", maxReadyMinutes)
	}

	content, err := a.client.complete(ctx, generationSystemPrompt, sb.String())
	if err != nil {
		return "", err
	}
	a.logger.Debug("Generation payload received", zap.Int("length", len(content)))
	return content, nil
}
