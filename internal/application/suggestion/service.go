// Package suggestion provides the application layer for meal suggestions
// This implements the use cases defined in the inbound ports
package suggestion

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/domain/pantry"
	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/domain/recipe"
	"github.com/pantrypilot/v1/internal/engine/generate"
	"github.com/pantrypilot/v1/internal/engine/match"
	"github.com/pantrypilot/v1/internal/engine/score"
	"github.com/pantrypilot/v1/internal/ports/inbound"
	"github.com/pantrypilot/v1/internal/ports/outbound"
	"github.com/pantrypilot/v1/pkg/errors"
)

const (
	defaultLimit = 5

	// maxSearchIngredients caps how many inventory names go into the
	// catalog query. Catalog APIs reject oversized ingredient lists.
	maxSearchIngredients = 20
)

// Service implements the suggestion use cases
type Service struct {
	inventory outbound.InventoryProvider
	catalog   outbound.RecipeCatalog
	profiles  outbound.ProfileRepository
	classify  outbound.ClassificationService
	generator *generate.Generator
	matcher   *match.Matcher
	scorer    *score.Scorer
	metrics   outbound.MetricsRecorder
	logger    *zap.Logger

	// fallbackFitThreshold is the fit percentage at or below which
	// the improvised generator kicks in even when the catalog
	// returned candidates.
	fallbackFitThreshold float64
}

// NewService creates a new suggestion service
func NewService(
	inventory outbound.InventoryProvider,
	catalog outbound.RecipeCatalog,
	profiles outbound.ProfileRepository,
	classify outbound.ClassificationService,
	generator *generate.Generator,
	matcher *match.Matcher,
	scorer *score.Scorer,
	metrics outbound.MetricsRecorder,
	fallbackFitThreshold float64,
	logger *zap.Logger,
) inbound.SuggestionService {
	return &Service{
		inventory:            inventory,
		catalog:              catalog,
		profiles:             profiles,
		classify:             classify,
		generator:            generator,
		matcher:              matcher,
		scorer:               scorer,
		metrics:              metrics,
		fallbackFitThreshold: fallbackFitThreshold,
		logger:               logger.Named("suggestion-service"),
	}
}

// Suggest produces ranked suggestions for the user's current pantry
func (s *Service) Suggest(ctx context.Context, query inbound.SuggestionQuery) (*inbound.SuggestionResult, error) {
	if query.UserID == "" {
		return nil, errors.NewValidationError("user_id is required")
	}

	profile := s.loadProfile(ctx, query.UserID)

	items, err := s.resolveInventory(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.NewValidationError("inventory is empty")
	}

	candidates, err := s.searchCatalog(ctx, items, profile, query.MaxReadyMinutes)
	if err != nil {
		// Catalog outage is recoverable: the generator can still
		// improvise from the pantry alone.
		s.logger.Warn("Catalog search failed, continuing with fallback only",
			zap.String("user_id", query.UserID),
			zap.Error(err),
		)
		candidates = nil
	}

	scored := s.scoreCandidates(ctx, candidates, items, profile)

	fallback := false
	if s.needsFallback(scored) {
		improvised := s.improvise(ctx, items, profile, query.MaxReadyMinutes)
		if improvised != nil {
			scored = append(scored, *improvised)
			fallback = true
		}
	}

	score.SortScored(scored)

	limit := query.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}

	if s.metrics != nil {
		s.metrics.SuggestionServed(fallback)
	}
	s.logger.Info("Suggestions produced",
		zap.String("user_id", query.UserID),
		zap.Int("count", len(scored)),
		zap.Bool("fallback", fallback),
	)

	return &inbound.SuggestionResult{
		UserID:      query.UserID,
		Suggestions: scored,
		Fallback:    fallback,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// loadProfile returns the stored profile, or a transient neutral one
// when the user has never registered. Suggestions must not require a
// prior sign-up.
func (s *Service) loadProfile(ctx context.Context, userID string) *preference.Profile {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.IsCode(err, errors.CodeProfileNotFound) {
			s.logger.Warn("Profile lookup failed, using neutral profile",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
		return preference.NewProfile(userID)
	}
	return profile
}

func (s *Service) resolveInventory(ctx context.Context, query inbound.SuggestionQuery) ([]pantry.Item, error) {
	if len(query.InventoryOverride) > 0 {
		return pantry.NewItems(query.InventoryOverride), nil
	}
	items, err := s.inventory.FetchItems(ctx)
	if err != nil {
		return nil, errors.NewExternalServiceError("inventory", err)
	}
	return items, nil
}

func (s *Service) searchCatalog(ctx context.Context, items []pantry.Item, profile *preference.Profile, maxReadyMinutes int) ([]*recipe.Candidate, error) {
	names := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.NormalizedName] {
			continue
		}
		seen[item.NormalizedName] = true
		names = append(names, item.NormalizedName)
		if len(names) == maxSearchIngredients {
			break
		}
	}
	return s.catalog.Search(ctx, names, profile.Restrictions, maxReadyMinutes)
}

// scoreCandidates runs the full pipeline per candidate. A failure on
// one candidate is logged and skipped, never aborting the run.
func (s *Service) scoreCandidates(ctx context.Context, candidates []*recipe.Candidate, items []pantry.Item, profile *preference.Profile) []score.ScoredRecipe {
	scored := make([]score.ScoredRecipe, 0, len(candidates))
	for _, c := range candidates {
		result, err := s.scoreCandidate(ctx, c, items, profile)
		if err != nil {
			s.logger.Warn("Skipping candidate",
				zap.String("recipe_id", c.ID),
				zap.String("title", c.Title),
				zap.Error(err),
			)
			continue
		}
		if result != nil {
			scored = append(scored, *result)
		}
	}
	return scored
}

// scoreCandidate returns (nil, nil) when the dietary gate excludes the
// candidate.
func (s *Service) scoreCandidate(ctx context.Context, c *recipe.Candidate, items []pantry.Item, profile *preference.Profile) (*score.ScoredRecipe, error) {
	if !score.AllowedByDiet(c, profile.Restrictions) {
		return nil, nil
	}

	matches := s.matcher.MatchAll(c, items)
	fit, err := recipe.ComputeFit(c, match.MatchedFlags(matches))
	if err != nil {
		return nil, err
	}

	classified := s.classifyIngredients(ctx, c, items, matches)

	result, err := s.scorer.Score(c, fit, classified, profile)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// classifyIngredients asks the classification adapter for importance
// labels. On failure every ingredient is treated as Important, so a
// model outage degrades penalty precision rather than the whole run.
func (s *Service) classifyIngredients(ctx context.Context, c *recipe.Candidate, items []pantry.Item, matches []match.Result) []score.ClassifiedIngredient {
	classified, err := s.classify.ClassifyIngredients(ctx, c, items)
	if err != nil {
		s.logger.Warn("Ingredient classification unavailable",
			zap.String("recipe_id", c.ID),
			zap.Error(err),
		)
		classified = nil
	}
	if len(classified) > 0 {
		return classified
	}

	fallback := make([]score.ClassifiedIngredient, 0, len(matches))
	for _, m := range matches {
		fallback = append(fallback, score.ClassifiedIngredient{
			Name:        m.Ingredient.Name,
			Category:    score.CategoryImportant,
			InInventory: m.Matched,
			Confidence:  0,
		})
	}
	return fallback
}

func (s *Service) needsFallback(scored []score.ScoredRecipe) bool {
	if len(scored) == 0 {
		return true
	}
	best := scored[0].FitScore.Percentage
	for _, sr := range scored[1:] {
		if sr.FitScore.Percentage > best {
			best = sr.FitScore.Percentage
		}
	}
	return best <= s.fallbackFitThreshold
}

// improvise generates a pantry-only recipe and pushes it through the
// same matcher and scorer as catalog candidates.
func (s *Service) improvise(ctx context.Context, items []pantry.Item, profile *preference.Profile, maxReadyMinutes int) *score.ScoredRecipe {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.NormalizedName)
		if len(names) == maxSearchIngredients {
			break
		}
	}

	generated, stage := s.generator.Generate(ctx, names, profile.Restrictions, maxReadyMinutes)
	if s.metrics != nil {
		s.metrics.FallbackGeneration(string(stage))
	}

	result, err := s.scoreCandidate(ctx, generated, items, profile)
	if err != nil || result == nil {
		s.logger.Warn("Improvised recipe could not be scored",
			zap.String("stage", string(stage)),
			zap.Error(err),
		)
		return nil
	}
	return result
}
