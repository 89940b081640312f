// Package score ranks recipe candidates by combining inventory fit,
// preference alignment, effort alignment, and essential-ingredient
// penalties into a single deterministic score.
package score

import (
	"math"
	"sort"
	"strings"

	"github.com/pantrypilot/v1/internal/domain/pantry"
	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/domain/recipe"
)

// tasteDimensions are the flavor axes a recipe taste profile carries,
// on a 0-100 scale per dimension.
var tasteDimensions = []string{
	"sweetness", "saltiness", "sourness", "bitterness", "savoriness", "fattiness",
}

// Label values attached to scored recipes
const (
	LabelYouCanMakeThis = "You Can Make This"
	LabelQuickFix       = "Quick Fix"
	LabelImprovised     = "Improvised Recipe"
)

// neutralAlignment is used when a recipe carries no taste signal, or for
// generated recipes which have placeholder taste defaults.
const neutralAlignment = 0.5

// Weights configure the scoring formula. Defaults are recommended, not
// mandated; see DefaultWeights.
type Weights struct {
	Fit                  float64
	Preference           float64
	Effort               float64
	EssentialMissPenalty float64
	MakeThisFloorPct     float64
}

// DefaultWeights mirror the configuration defaults
func DefaultWeights() Weights {
	return Weights{
		Fit:                  0.4,
		Preference:           0.3,
		Effort:               0.3,
		EssentialMissPenalty: 25.0,
		MakeThisFloorPct:     90.0,
	}
}

// ScoredRecipe is the scorer's transient output for one candidate
type ScoredRecipe struct {
	Recipe              *recipe.Candidate `json:"recipe"`
	FitScore            recipe.FitScore   `json:"fit_score"`
	PreferenceAlignment float64           `json:"preference_alignment"`
	EffortAlignment     float64           `json:"effort_alignment"`
	MissingEssentials   int               `json:"missing_essentials"`
	FinalScore          float64           `json:"final_score"`
	Labels              []string          `json:"labels,omitempty"`
}

// Scorer combines fit, preference, effort, and importance signals
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given weights
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score ranks one candidate. Classification may be empty (degraded mode):
// scoring then proceeds with no essential-miss penalty. The result is
// deterministic for identical inputs.
func (s *Scorer) Score(
	c *recipe.Candidate,
	fit recipe.FitScore,
	classified []ClassifiedIngredient,
	profile *preference.Profile,
) (ScoredRecipe, error) {
	if err := c.Validate(); err != nil {
		return ScoredRecipe{}, err
	}

	prefAlign := s.preferenceAlignment(c, profile)
	effortAlign := effortAlignment(c.ReadyMinutes, profile.EffortTolerance)
	misses := missingEssentials(ValidateClassified(classified))

	final := s.weights.Fit*fit.Percentage +
		s.weights.Preference*(prefAlign*100) +
		s.weights.Effort*(effortAlign*100) -
		s.weights.EssentialMissPenalty*float64(misses)

	scored := ScoredRecipe{
		Recipe:              c,
		FitScore:            fit,
		PreferenceAlignment: prefAlign,
		EffortAlignment:     effortAlign,
		MissingEssentials:   misses,
		FinalScore:          final,
	}
	scored.Labels = s.labels(scored)
	return scored, nil
}

// dietConflicts lists ingredient terms that conflict with a diet. A
// candidate containing any of them is excluded outright. Candidates
// explicitly labeled with the diet skip the scan, since catalog labels
// account for preparations the term scan cannot see.
var dietConflicts = map[string][]string{
	"vegetarian": {
		"beef", "chicken", "pork", "bacon", "ham", "turkey", "lamb",
		"fish", "tuna", "salmon", "shrimp", "anchovy", "sausage", "gelatin",
	},
	"vegan": {
		"beef", "chicken", "pork", "bacon", "ham", "turkey", "lamb",
		"fish", "tuna", "salmon", "shrimp", "anchovy", "sausage", "gelatin",
		"egg", "milk", "cheese", "butter", "cream", "yogurt", "honey",
	},
	"pescetarian": {
		"beef", "chicken", "pork", "bacon", "ham", "turkey", "lamb", "sausage",
	},
}

// AllowedByDiet is the hard dietary gate. Candidates conflicting with
// the user's diet or containing a listed intolerance are excluded before
// scoring, never merely down-ranked.
func AllowedByDiet(c *recipe.Candidate, restrictions preference.DietaryRestrictions) bool {
	if diet := strings.ToLower(restrictions.Diet); diet != "" && !declaresDiet(c, diet) {
		for _, forbidden := range dietConflicts[diet] {
			if containsIngredientTerm(c, forbidden) {
				return false
			}
		}
	}

	for _, intolerance := range restrictions.Intolerances {
		needle := pantry.Normalize(intolerance)
		if needle == "" {
			continue
		}
		if containsIngredientTerm(c, needle) {
			return false
		}
	}
	return true
}

func declaresDiet(c *recipe.Candidate, diet string) bool {
	for _, d := range c.Diets {
		if strings.ToLower(d) == diet {
			return true
		}
	}
	return false
}

func containsIngredientTerm(c *recipe.Candidate, term string) bool {
	for _, ing := range c.Ingredients {
		if strings.Contains(ing.NormalizedName(), term) {
			return true
		}
	}
	return false
}

// SortScored orders recipes by final score, breaking ties by higher fit
// percentage and then by lower ready time.
func SortScored(scored []ScoredRecipe) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].FinalScore != scored[j].FinalScore {
			return scored[i].FinalScore > scored[j].FinalScore
		}
		if scored[i].FitScore.Percentage != scored[j].FitScore.Percentage {
			return scored[i].FitScore.Percentage > scored[j].FitScore.Percentage
		}
		return scored[i].Recipe.ReadyMinutes < scored[j].Recipe.ReadyMinutes
	})
}

// preferenceAlignment compares the recipe taste signature with the
// user's flavor weights: 1 minus the normalized absolute difference over
// the dimensions both sides carry. Generated recipes and recipes with no
// taste signal score neutral.
func (s *Scorer) preferenceAlignment(c *recipe.Candidate, profile *preference.Profile) float64 {
	if c.Generated() || len(c.TasteProfile) == 0 || len(profile.Flavors) == 0 {
		return neutralAlignment
	}

	totalDiff := 0.0
	counted := 0
	for _, dim := range tasteDimensions {
		recipeVal, ok := c.TasteProfile[dim]
		if !ok {
			continue
		}
		userWeight, ok := profile.Flavors[dim]
		if !ok {
			continue
		}
		totalDiff += math.Abs(recipeVal/100 - userWeight)
		counted++
	}
	if counted == 0 {
		return neutralAlignment
	}
	return 1 - totalDiff/float64(counted)
}

// effortBand maps ready minutes to an effort level
func effortBand(readyMinutes int) preference.EffortLevel {
	switch {
	case readyMinutes <= 0:
		return preference.EffortMedium
	case readyMinutes <= 30:
		return preference.EffortLow
	case readyMinutes <= 60:
		return preference.EffortMedium
	default:
		return preference.EffortHigh
	}
}

// effortRank orders effort levels for adjacency checks
var effortRank = map[preference.EffortLevel]int{
	preference.EffortLow:    0,
	preference.EffortMedium: 1,
	preference.EffortHigh:   2,
}

// effortAlignment scores 1.0 for an exact band match, 0.6 for an
// adjacent band, 0.1 otherwise, and 0.5 when there is no preference.
func effortAlignment(readyMinutes int, tolerance preference.EffortLevel) float64 {
	prefIdx, ok := effortRank[tolerance]
	if !ok {
		return 0.5
	}
	recipeIdx := effortRank[effortBand(readyMinutes)]
	switch diff := abs(recipeIdx - prefIdx); diff {
	case 0:
		return 1.0
	case 1:
		return 0.6
	default:
		return 0.1
	}
}

// missingEssentials counts Essential ingredients absent from inventory
func missingEssentials(classified []ClassifiedIngredient) int {
	misses := 0
	for _, ci := range classified {
		if ci.Category == CategoryEssential && !ci.InInventory {
			misses++
		}
	}
	return misses
}

// labels derives descriptive labels from the scored result
func (s *Scorer) labels(scored ScoredRecipe) []string {
	var labels []string
	if scored.MissingEssentials == 0 && scored.FitScore.Percentage >= s.weights.MakeThisFloorPct {
		labels = append(labels, LabelYouCanMakeThis)
	}
	if scored.Recipe.ReadyMinutes > 0 && scored.Recipe.ReadyMinutes <= 30 {
		labels = append(labels, LabelQuickFix)
	}
	if scored.Recipe.Generated() {
		labels = append(labels, LabelImprovised)
	}
	return labels
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
