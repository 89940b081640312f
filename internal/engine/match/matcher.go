// Package match decides which recipe ingredients are present in the
// current inventory. Four strategies run in fixed priority order and the
// first success wins; confidence reflects the strategy, never the other
// way around.
package match

import (
	"strings"

	"github.com/pantrypilot/v1/internal/domain/pantry"
	"github.com/pantrypilot/v1/internal/domain/recipe"
)

// Strategy identifies which matching stage produced a result
type Strategy string

const (
	StrategyExact      Strategy = "exact"
	StrategySubstring  Strategy = "substring"
	StrategyCore       Strategy = "core-ingredient"
	StrategySimplified Strategy = "simplified-name"
	StrategyNone       Strategy = ""
)

// Confidence assigned per strategy
const (
	confidenceExact      = 1.0
	confidenceSubstring  = 0.8
	confidenceCore       = 0.6
	confidenceSimplified = 0.4
)

// Result is the outcome of matching one recipe ingredient against the
// inventory. Item is nil when unmatched. Results are produced fresh per
// scoring request and never persisted.
type Result struct {
	Ingredient recipe.Ingredient
	Item       *pantry.Item
	Matched    bool
	Strategy   Strategy
	Confidence float64
}

// Matcher matches recipe ingredients against inventory items
type Matcher struct {
	table CoreTable
}

// NewMatcher creates a matcher with the given core-ingredient table.
// A nil table falls back to the built-in default.
func NewMatcher(table CoreTable) *Matcher {
	if table == nil {
		table = DefaultCoreTable()
	}
	return &Matcher{table: table}
}

// Match tries each strategy in priority order across all inventory items
// and stops at the first success. Unmatched ingredients come back with
// zero confidence.
func (m *Matcher) Match(ing recipe.Ingredient, items []pantry.Item) Result {
	name := ing.NormalizedName()

	for i := range items {
		if items[i].NormalizedName == name {
			return matched(ing, &items[i], StrategyExact, confidenceExact)
		}
	}

	for i := range items {
		if containsTokens(name, items[i].NormalizedName) || containsTokens(items[i].NormalizedName, name) {
			return matched(ing, &items[i], StrategySubstring, confidenceSubstring)
		}
	}

	if core := m.table.CoreOf(name); core != "" {
		for i := range items {
			if m.table.CoreOf(items[i].NormalizedName) == core {
				return matched(ing, &items[i], StrategyCore, confidenceCore)
			}
		}
	}

	simplified := simplify(name)
	if simplified != "" && simplified != name {
		for i := range items {
			other := simplify(items[i].NormalizedName)
			if other == "" {
				continue
			}
			if other == simplified || containsTokens(simplified, other) || containsTokens(other, simplified) {
				return matched(ing, &items[i], StrategySimplified, confidenceSimplified)
			}
		}
	}

	return Result{Ingredient: ing, Strategy: StrategyNone}
}

// MatchAll matches every ingredient of a candidate, preserving order
func (m *Matcher) MatchAll(c *recipe.Candidate, items []pantry.Item) []Result {
	results := make([]Result, len(c.Ingredients))
	for i, ing := range c.Ingredients {
		results[i] = m.Match(ing, items)
	}
	return results
}

// MatchedFlags projects results onto the per-ingredient booleans the fit
// calculator consumes.
func MatchedFlags(results []Result) []bool {
	flags := make([]bool, len(results))
	for i, r := range results {
		flags[i] = r.Matched
	}
	return flags
}

func matched(ing recipe.Ingredient, item *pantry.Item, strategy Strategy, confidence float64) Result {
	return Result{
		Ingredient: ing,
		Item:       item,
		Matched:    true,
		Strategy:   strategy,
		Confidence: confidence,
	}
}

// containsTokens reports whether needle's tokens appear as a contiguous
// run inside haystack's tokens. Token-wise containment avoids false hits
// like "rice" inside "licorice".
func containsTokens(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	hay := strings.Fields(haystack)
	ndl := strings.Fields(needle)
	if len(ndl) == 0 || len(ndl) > len(hay) {
		return false
	}
	for i := 0; i+len(ndl) <= len(hay); i++ {
		found := true
		for j := range ndl {
			if hay[i+j] != ndl[j] {
				found = false
				break
			}
		}
		if found {
			return true
		}
	}
	return false
}

// modifierWords are adjectives and package descriptors stripped at the
// simplified-name stage. This list is deliberately broader than the
// normalizer's: simplification trades precision for recall, which is why
// it carries the lowest confidence.
var modifierWords = map[string]bool{
	"fresh":    true,
	"dried":    true,
	"frozen":   true,
	"canned":   true,
	"organic":  true,
	"chopped":  true,
	"minced":   true,
	"sliced":   true,
	"diced":    true,
	"grated":   true,
	"shredded": true,
	"ground":   true,
	"whole":    true,
	"raw":      true,
	"cooked":   true,
	"baby":     true,
	"large":    true,
	"small":    true,
	"medium":   true,
	"ripe":     true,
	"boneless": true,
	"skinless": true,
	"lean":     true,
	"extra":    true,
	"virgin":   true,
	"unsalted": true,
	"salted":   true,
	"smoked":   true,
	"plain":    true,
	"instant":  true,
}

// simplify strips modifier words, leaving the bare ingredient
func simplify(name string) string {
	fields := strings.Fields(name)
	kept := fields[:0:0]
	for _, f := range fields {
		if modifierWords[f] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
