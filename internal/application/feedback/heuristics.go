package feedback

import (
	"sort"
	"strings"

	"github.com/pantrypilot/v1/internal/domain/preference"
)

// Keyword tables for the degraded parsing path. Deliberately small:
// heuristics only need to keep the learning loop alive until the
// parsing service comes back.
var (
	positiveWords = []string{"love", "loved", "great", "delicious", "perfect", "amazing", "tasty", "excellent"}
	negativeWords = []string{"hate", "hated", "bad", "awful", "bland", "terrible", "disgusting", "gross"}

	effortHighWords = []string{"took forever", "too long", "exhausting", "complicated", "tedious", "all day"}
	effortLowWords  = []string{"quick", "easy", "fast", "simple", "effortless", "in minutes"}

	flavorWords = map[string]string{
		"sweet":  "sweetness",
		"sugary": "sweetness",
		"salty":  "saltiness",
		"salted": "saltiness",
		"sour":   "sourness",
		"tangy":  "sourness",
		"bitter": "bitterness",
		"savory": "savoriness",
		"umami":  "savoriness",
		"rich":   "fattiness",
		"greasy": "fattiness",
		"fatty":  "fattiness",
	}
)

// HeuristicParse extracts sentiment, effort and flavor tags from review
// text by keyword matching. It never fails and never returns ingredient
// names, which only the parsing service can identify reliably.
func HeuristicParse(text string) preference.ParsedReview {
	lowered := strings.ToLower(text)

	parsed := preference.ParsedReview{
		Sentiment: keywordSentiment(lowered),
	}

	seen := make(map[string]bool)
	for word, dimension := range flavorWords {
		if strings.Contains(lowered, word) && !seen[dimension] {
			seen[dimension] = true
			parsed.FlavorTags = append(parsed.FlavorTags, dimension)
		}
	}
	sort.Strings(parsed.FlavorTags)

	for _, phrase := range effortHighWords {
		if strings.Contains(lowered, phrase) {
			parsed.EffortTag = preference.EffortHigh
			return parsed
		}
	}
	for _, phrase := range effortLowWords {
		if strings.Contains(lowered, phrase) {
			parsed.EffortTag = preference.EffortLow
			return parsed
		}
	}
	return parsed
}

func keywordSentiment(lowered string) preference.Sentiment {
	score := 0
	for _, word := range positiveWords {
		if strings.Contains(lowered, word) {
			score++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(lowered, word) {
			score--
		}
	}
	// "too salty", "too sweet" and friends read as complaints even
	// without an explicit negative word.
	if strings.Contains(lowered, "too ") {
		score--
	}
	switch {
	case score > 0:
		return preference.SentimentPositive
	case score < 0:
		return preference.SentimentNegative
	default:
		return ""
	}
}
