package match

import "strings"

// CoreTable maps ingredient phrases and tokens to a curated core term.
// Two names match at the core-ingredient stage when they resolve to the
// same core term ("ground beef" and "beef chuck" both resolve to
// "beef"). The table is injected data, not logic: it can be replaced or
// extended without touching the matcher.
type CoreTable map[string]string

// CoreOf resolves a normalized name to its core term. It first tries the
// full phrase, then falls back to individual tokens so multi-word names
// like "boneless chicken thighs" still resolve through "chicken".
func (t CoreTable) CoreOf(normalized string) string {
	if core, ok := t[normalized]; ok {
		return core
	}
	for _, token := range strings.Fields(normalized) {
		if core, ok := t[token]; ok {
			return core
		}
	}
	return ""
}

// Merge layers extra entries over the table, returning a new table
func (t CoreTable) Merge(extra CoreTable) CoreTable {
	merged := make(CoreTable, len(t)+len(extra))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// DefaultCoreTable returns the built-in synonym table covering common
// proteins, starches, produce, and dairy variants.
func DefaultCoreTable() CoreTable {
	return CoreTable{
		// proteins
		"beef":           "beef",
		"ground beef":    "beef",
		"beef chuck":     "beef",
		"steak":          "beef",
		"chicken":        "chicken",
		"chicken breast": "chicken",
		"chicken thighs": "chicken",
		"pork":           "pork",
		"pork loin":      "pork",
		"bacon":          "pork",
		"ham":            "pork",
		"turkey":         "turkey",
		"tuna":           "tuna",
		"salmon":         "salmon",
		"shrimp":         "shrimp",
		"prawns":         "shrimp",
		"tofu":           "tofu",
		"eggs":           "egg",
		"egg":            "egg",

		// starches
		"pasta":     "pasta",
		"spaghetti": "pasta",
		"penne":     "pasta",
		"macaroni":  "pasta",
		"noodles":   "noodles",
		"rice":      "rice",
		"basmati":   "rice",
		"jasmine":   "rice",
		"potato":    "potato",
		"potatoes":  "potato",
		"bread":     "bread",
		"baguette":  "bread",
		"tortillas": "tortilla",
		"tortilla":  "tortilla",

		// produce
		"onion":     "onion",
		"onions":    "onion",
		"shallot":   "onion",
		"scallions": "onion",
		"garlic":    "garlic",
		"tomato":    "tomato",
		"tomatoes":  "tomato",
		"pepper":    "pepper",
		"peppers":   "pepper",
		"carrot":    "carrot",
		"carrots":   "carrot",
		"spinach":   "spinach",
		"lettuce":   "lettuce",
		"broccoli":  "broccoli",
		"zucchini":  "zucchini",
		"courgette": "zucchini",
		"cilantro":  "cilantro",
		"coriander": "cilantro",

		// dairy and fats
		"butter":     "butter",
		"margarine":  "butter",
		"milk":       "milk",
		"cream":      "cream",
		"cheese":     "cheese",
		"cheddar":    "cheese",
		"parmesan":   "cheese",
		"mozzarella": "cheese",
		"yogurt":     "yogurt",
		"yoghurt":    "yogurt",

		// pantry staples
		"stock": "broth",
		"broth": "broth",
		"sugar": "sugar",
		"flour": "flour",
	}
}
