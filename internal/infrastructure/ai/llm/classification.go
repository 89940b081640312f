package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"

	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/domain/pantry"
	"github.com/pantrypilot/v1/internal/domain/recipe"
	"github.com/pantrypilot/v1/internal/engine/score"
	"github.com/pantrypilot/v1/internal/ports/outbound"
	apperrors "github.com/pantrypilot/v1/pkg/errors"
)

const classificationSystemPrompt = `You are a culinary assistant that classifies recipe ingredients by importance.
For each ingredient, decide whether it is Essential (the dish fails without it), Important (noticeably changes the dish), or Optional (garnish or easily skipped).
Also report whether the ingredient appears in the provided inventory.
Respond with only a JSON array, no prose. Each element:
{"ingredient": "<name>", "category": "Essential|Important|Optional", "in_inventory": true|false, "confidence": <0.0-1.0>}`

// ClassificationAdapter implements ingredient importance classification
// on the chat-completion client, with a position heuristic when the
// model output cannot be used.
type ClassificationAdapter struct {
	client *Client
	cache  outbound.CacheRepository
	logger *zap.Logger
}

// NewClassificationAdapter creates the classification adapter
func NewClassificationAdapter(client *Client, cacheRepo outbound.CacheRepository, logger *zap.Logger) outbound.ClassificationService {
	return &ClassificationAdapter{
		client: client,
		cache:  cacheRepo,
		logger: logger.Named("classification"),
	}
}

// ClassifyIngredients labels each recipe ingredient. Results are cached
// per recipe and inventory fingerprint. On model failure it degrades to
// HeuristicClassification rather than erroring, so scoring always has
// labels to work with.
func (a *ClassificationAdapter) ClassifyIngredients(ctx context.Context, c *recipe.Candidate, inventory []pantry.Item) ([]score.ClassifiedIngredient, error) {
	key := a.cacheKey(c, inventory)
	if cached, err := a.cache.Get(ctx, key); err == nil {
		var out []score.ClassifiedIngredient
		if json.Unmarshal(cached, &out) == nil {
			return out, nil
		}
	}

	classified, err := a.classify(ctx, c, inventory)
	if err != nil {
		a.logger.Warn("Model classification failed, using position heuristic",
			zap.String("recipe_id", c.ID),
			zap.Error(apperrors.NewClassificationUnavailableError(err)),
		)
		classified = HeuristicClassification(c, inventory)
	}

	if raw, err := json.Marshal(classified); err == nil {
		_ = a.cache.Set(ctx, key, raw, a.client.cfg.CacheTTL)
	}
	return classified, nil
}

func (a *ClassificationAdapter) classify(ctx context.Context, c *recipe.Candidate, inventory []pantry.Item) ([]score.ClassifiedIngredient, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Recipe: %s\nIngredients:\n", c.Title)
	for _, ing := range c.Ingredients {
		fmt.Fprintf(&sb, "- %s\n", ing.Name)
	}
	sb.WriteString("Inventory:\n")
	for _, item := range inventory {
		fmt.Fprintf(&sb, "- %s\n", item.NormalizedName)
	}

	content, err := a.client.complete(ctx, classificationSystemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	var out []score.ClassifiedIngredient
	if err := json.Unmarshal([]byte(extractJSONArray(content)), &out); err != nil {
		return nil, fmt.Errorf("decode classification: %w", err)
	}
	out = score.ValidateClassified(out)
	if len(out) == 0 {
		return nil, fmt.Errorf("classification returned no usable entries")
	}
	return out, nil
}

func (a *ClassificationAdapter) cacheKey(c *recipe.Candidate, inventory []pantry.Item) string {
	names := make([]string, 0, len(inventory))
	for _, item := range inventory {
		names = append(names, item.NormalizedName)
	}
	return fmt.Sprintf("classify:%s:%x", c.ID, fnvHash(strings.Join(names, ",")))
}

// HeuristicClassification labels ingredients by list position: the
// leading third Essential, the middle third Important, the tail
// Optional. Recipe authors front-load the ingredients that define the
// dish, which makes position a workable stand-in when the model is
// down.
func HeuristicClassification(c *recipe.Candidate, inventory []pantry.Item) []score.ClassifiedIngredient {
	have := make(map[string]bool, len(inventory))
	for _, item := range inventory {
		have[item.NormalizedName] = true
	}

	essentialCount := len(c.Ingredients) / 3
	if essentialCount < 1 {
		essentialCount = 1
	}
	importantCount := essentialCount

	out := make([]score.ClassifiedIngredient, 0, len(c.Ingredients))
	for i, ing := range c.Ingredients {
		category := score.CategoryOptional
		confidence := 0.6
		switch {
		case i < essentialCount:
			category = score.CategoryEssential
			confidence = 0.8
		case i < essentialCount+importantCount:
			category = score.CategoryImportant
			confidence = 0.7
		}
		out = append(out, score.ClassifiedIngredient{
			Name:        ing.Name,
			Category:    category,
			InInventory: have[ing.NormalizedName()],
			Confidence:  confidence,
		})
	}
	return out
}

func fnvHash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
