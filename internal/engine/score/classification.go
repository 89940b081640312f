package score

import "strings"

// Category is the externally supplied importance class of an ingredient
type Category string

const (
	CategoryEssential Category = "Essential"
	CategoryImportant Category = "Important"
	CategoryOptional  Category = "Optional"
)

// ClassifiedIngredient is the shape the classification service returns.
// The engine only consumes it; it is validated at the boundary and
// unknown categories default to Important rather than being trusted.
type ClassifiedIngredient struct {
	Name        string   `json:"ingredient"`
	Category    Category `json:"category"`
	InInventory bool     `json:"in_inventory"`
	Confidence  float64  `json:"confidence"`
}

// ValidateClassified sanitizes a classification payload. Entries with no
// ingredient name are dropped; unrecognized categories become Important
// (the conservative middle ground); confidence is clamped to [0,1].
func ValidateClassified(raw []ClassifiedIngredient) []ClassifiedIngredient {
	out := make([]ClassifiedIngredient, 0, len(raw))
	for _, ci := range raw {
		ci.Name = strings.TrimSpace(ci.Name)
		if ci.Name == "" {
			continue
		}
		switch strings.ToLower(string(ci.Category)) {
		case "essential":
			ci.Category = CategoryEssential
		case "optional":
			ci.Category = CategoryOptional
		default:
			ci.Category = CategoryImportant
		}
		if ci.Confidence < 0 {
			ci.Confidence = 0
		}
		if ci.Confidence > 1 {
			ci.Confidence = 1
		}
		out = append(out, ci)
	}
	return out
}
