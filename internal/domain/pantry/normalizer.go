package pantry

import (
	"regexp"
	"strings"
)

// packagingSuffix matches trailing size/weight/count annotations of the
// form " - 20oz", " - 510g", " - 4 Pack", " - 10".
var packagingSuffix = regexp.MustCompile(`\s+-\s+\d+(?:\s*(?:oz|g|kg|ml|l|lb|lbs|pack|count|ct))?\s*$`)

// quantityToken matches standalone quantity tokens like "20oz", "2x",
// "500ml" or bare numbers that appear inside a name.
var quantityToken = regexp.MustCompile(`^\d+(?:\.\d+)?(?:x|oz|g|kg|ml|l|lb|lbs|ct)?$`)

// packagingWords are container/packaging descriptors that never carry
// food meaning on their own. Words that distinguish prepared foods
// ("kit", "mix", "canned", "frozen") are deliberately absent: "taco
// dinner kit" must stay distinct from "taco shells".
var packagingWords = map[string]bool{
	"pack":     true,
	"pkg":      true,
	"count":    true,
	"ct":       true,
	"bottle":   true,
	"jar":      true,
	"box":      true,
	"carton":   true,
	"bag":      true,
	"pouch":    true,
	"tub":      true,
	"sleeve":   true,
	"bundle":   true,
	"family":   true,
	"size":     true,
	"value":    true,
	"brand":    true,
	"assorted": true,
}

// Normalize canonicalizes a free-form inventory name for comparison.
// It lowercases, trims, strips trailing packaging annotations and
// standalone quantity/packaging tokens, and is idempotent. Unparseable
// input falls back to the lowercased original; it never fails.
func Normalize(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return lowered
	}

	cleaned := packagingSuffix.ReplaceAllString(lowered, "")

	fields := strings.Fields(cleaned)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ",.()[]")
		if f == "" {
			continue
		}
		if quantityToken.MatchString(f) {
			continue
		}
		if packagingWords[f] {
			continue
		}
		kept = append(kept, f)
	}

	// Stripping everything means the name was pure packaging noise;
	// return the lowercased original rather than an empty string.
	if len(kept) == 0 {
		return lowered
	}

	return strings.Join(kept, " ")
}
