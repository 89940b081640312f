// Package catalog provides the third-party recipe catalog adapter
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/domain/recipe"
	"github.com/pantrypilot/v1/internal/infrastructure/config"
	"github.com/pantrypilot/v1/internal/ports/outbound"
	"github.com/pantrypilot/v1/pkg/errors"
)

const tasteCacheTTL = 24 * time.Hour

// Client searches a Spoonacular-compatible recipe catalog. Search
// results and per-recipe taste profiles are cached independently; the
// taste widget rarely changes while search results go stale fast.
type Client struct {
	cfg        *config.CatalogConfig
	httpClient *http.Client
	cache      outbound.CacheRepository
	logger     *zap.Logger
}

// NewClient creates the catalog adapter
func NewClient(cfg *config.CatalogConfig, cacheRepo outbound.CacheRepository, logger *zap.Logger) outbound.RecipeCatalog {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		cache:      cacheRepo,
		logger:     logger.Named("recipe-catalog"),
	}
}

type searchResponse struct {
	Results []catalogRecipe `json:"results"`
}

type catalogRecipe struct {
	ID                   int                 `json:"id"`
	Title                string              `json:"title"`
	ReadyInMinutes       int                 `json:"readyInMinutes"`
	Servings             int                 `json:"servings"`
	DishTypes            []string            `json:"dishTypes"`
	Diets                []string            `json:"diets"`
	ExtendedIngredients  []catalogIngredient `json:"extendedIngredients"`
	UsedIngredients      []catalogIngredient `json:"usedIngredients"`
	MissedIngredients    []catalogIngredient `json:"missedIngredients"`
	AnalyzedInstructions []struct {
		Steps []struct {
			Step string `json:"step"`
		} `json:"steps"`
	} `json:"analyzedInstructions"`
}

type catalogIngredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Search queries the catalog with the given pantry ingredients and
// dietary constraints. Results come back as immutable candidates with
// taste profiles attached where the widget responds.
func (c *Client) Search(ctx context.Context, ingredients []string, restrictions preference.DietaryRestrictions, maxReadyMinutes int) ([]*recipe.Candidate, error) {
	key := searchCacheKey(ingredients, restrictions, maxReadyMinutes)
	if cached, err := c.cache.Get(ctx, key); err == nil {
		var out []*recipe.Candidate
		if json.Unmarshal(cached, &out) == nil {
			return out, nil
		}
	}

	params := url.Values{}
	params.Set("apiKey", c.cfg.APIKey)
	params.Set("includeIngredients", strings.Join(ingredients, ","))
	params.Set("number", strconv.Itoa(c.cfg.ResultLimit))
	params.Set("ranking", "2")
	params.Set("ignorePantry", "false")
	params.Set("fillIngredients", "true")
	params.Set("addRecipeInformation", "true")
	if maxReadyMinutes > 0 {
		params.Set("maxReadyTime", strconv.Itoa(maxReadyMinutes))
	}
	if restrictions.Diet != "" {
		params.Set("diet", restrictions.Diet)
	}
	if len(restrictions.Intolerances) > 0 {
		params.Set("intolerances", strings.Join(restrictions.Intolerances, ","))
	}

	var parsed searchResponse
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/recipes/complexSearch", params, &parsed); err != nil {
		return nil, err
	}

	candidates := make([]*recipe.Candidate, 0, len(parsed.Results))
	for _, result := range parsed.Results {
		candidate := c.toCandidate(result)
		candidate.TasteProfile = c.fetchTasteProfile(ctx, result.ID)
		candidates = append(candidates, candidate)
	}

	if raw, err := json.Marshal(candidates); err == nil {
		_ = c.cache.Set(ctx, key, raw, c.cfg.CacheTTL)
	}
	c.logger.Debug("Catalog search complete",
		zap.Int("ingredients", len(ingredients)),
		zap.Int("results", len(candidates)),
	)
	return candidates, nil
}

func (c *Client) toCandidate(r catalogRecipe) *recipe.Candidate {
	source := r.ExtendedIngredients
	if len(source) == 0 {
		source = append(append([]catalogIngredient{}, r.UsedIngredients...), r.MissedIngredients...)
	}
	ingredients := make([]recipe.Ingredient, 0, len(source))
	for _, ing := range source {
		if ing.Name == "" {
			continue
		}
		ingredients = append(ingredients, recipe.Ingredient{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
		})
	}

	var instructions []string
	for _, block := range r.AnalyzedInstructions {
		for _, step := range block.Steps {
			if step.Step != "" {
				instructions = append(instructions, step.Step)
			}
		}
	}

	return &recipe.Candidate{
		ID:           strconv.Itoa(r.ID),
		Title:        r.Title,
		ReadyMinutes: r.ReadyInMinutes,
		Servings:     r.Servings,
		Ingredients:  ingredients,
		Instructions: instructions,
		DishTypes:    r.DishTypes,
		Diets:        r.Diets,
		Source:       recipe.SourceCatalog,
	}
}

// fetchTasteProfile pulls the taste widget for one recipe. A missing
// profile only costs preference-alignment precision, so failures return
// nil instead of erroring.
func (c *Client) fetchTasteProfile(ctx context.Context, recipeID int) map[string]float64 {
	key := fmt.Sprintf("catalog:taste:%d", recipeID)
	if cached, err := c.cache.Get(ctx, key); err == nil {
		var profile map[string]float64
		if json.Unmarshal(cached, &profile) == nil {
			return profile
		}
	}

	params := url.Values{}
	params.Set("apiKey", c.cfg.APIKey)

	var profile map[string]float64
	endpoint := fmt.Sprintf("%s/recipes/%d/tasteWidget.json", c.cfg.BaseURL, recipeID)
	if err := c.getJSON(ctx, endpoint, params, &profile); err != nil {
		c.logger.Debug("Taste profile unavailable",
			zap.Int("recipe_id", recipeID),
			zap.Error(err),
		)
		return nil
	}

	if raw, err := json.Marshal(profile); err == nil {
		_ = c.cache.Set(ctx, key, raw, tasteCacheTTL)
	}
	return profile
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewExternalServiceError("catalog", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.NewExternalServiceError("catalog",
			fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func searchCacheKey(ingredients []string, restrictions preference.DietaryRestrictions, maxReadyMinutes int) string {
	sorted := append([]string(nil), ingredients...)
	sort.Strings(sorted)
	return fmt.Sprintf("catalog:search:%s:%s:%s:%d",
		strings.Join(sorted, ","),
		restrictions.Diet,
		strings.Join(restrictions.Intolerances, ","),
		maxReadyMinutes,
	)
}
