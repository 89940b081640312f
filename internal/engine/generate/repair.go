package generate

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// RepairStage records which recovery stage produced a usable recipe,
// logged per generation for offline evaluation.
type RepairStage string

const (
	StageStrictParse     RepairStage = "strict-parse"
	StageFaultRepair     RepairStage = "fault-repair"
	StageFieldExtraction RepairStage = "field-extraction"
	StageSynthesis       RepairStage = "synthesis"
)

// payloadAmount tolerates both numeric and quoted amounts; generation
// output flips between the two. An amount that is not a number at all
// decodes to zero rather than sinking an otherwise good payload.
type payloadAmount float64

func (a *payloadAmount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = payloadAmount(v)
	return nil
}

type payloadIngredient struct {
	Name   string        `json:"name"`
	Amount payloadAmount `json:"amount"`
	Unit   string        `json:"unit"`
}

// generatedPayload is the structured shape the generation service is
// asked to produce.
type generatedPayload struct {
	Title        string              `json:"title"`
	ReadyMinutes int                 `json:"ready_minutes"`
	Servings     int                 `json:"servings"`
	Ingredients  []payloadIngredient `json:"ingredients"`
	Instructions []string            `json:"instructions"`
	DishTypes    []string            `json:"dish_types"`
	Diets        []string            `json:"diets"`
}

// repair is one pure transformation in the fault-repair stage. Each is
// independently testable; the stage applies them cumulatively in order,
// retrying the parse after each.
type repair struct {
	name string
	fn   func(string) string
}

// faultRepairs fix the malformations the generation service produces
// most often, in the order they are tried.
var faultRepairs = []repair{
	{"strip-code-fences", stripCodeFences},
	{"trailing-commas", stripTrailingCommas},
	{"quote-bare-keys", quoteBareKeys},
	{"close-truncated-brackets", closeTruncatedBrackets},
}

// extractJSONObject narrows raw output to the outermost brace-delimited
// region, dropping any prose the model wrapped around it.
func extractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// parseStrict is stage 1: a plain structured parse
func parseStrict(raw string) (*generatedPayload, bool) {
	jsonStr, ok := extractJSONObject(raw)
	if !ok {
		return nil, false
	}
	var payload generatedPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, false
	}
	return &payload, true
}

// parseWithRepairs is stage 2: each repair is applied cumulatively and
// the parse retried, so a payload with several independent faults still
// recovers.
func parseWithRepairs(raw string) (*generatedPayload, string, bool) {
	current := raw
	for _, r := range faultRepairs {
		current = r.fn(current)
		if payload, ok := parseStrict(current); ok {
			return payload, r.name, true
		}
	}
	return nil, "", false
}

var codeFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

func stripCodeFences(s string) string {
	if m := codeFence.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

func stripTrailingCommas(s string) string {
	return trailingComma.ReplaceAllString(s, "$1")
}

var bareKey = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

func quoteBareKeys(s string) string {
	return bareKey.ReplaceAllString(s, `$1"$2":`)
}

// closeTruncatedBrackets appends the closers a cut-off payload is
// missing, tracking nesting outside string literals.
func closeTruncatedBrackets(s string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{', '[':
			if !inString {
				stack = append(stack, c)
			}
		case '}', ']':
			if !inString && len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) == 0 && !inString {
		return s
	}
	var b strings.Builder
	b.WriteString(s)
	if inString {
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

var (
	titleField       = regexp.MustCompile(`"title"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	ingredientNames  = regexp.MustCompile(`"name"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	instructionBlock = regexp.MustCompile(`(?s)"instructions"\s*:\s*\[(.*?)(?:\]|$)`)
	quotedString     = regexp.MustCompile(`"((?:[^"\\]|\\.)+)"`)
)

// extractFields is stage 3: pull the required fields out of
// unparseable output with regular expressions. Succeeds only when both
// a title and at least one ingredient line are recoverable.
func extractFields(raw string) (*generatedPayload, bool) {
	payload := &generatedPayload{}

	if m := titleField.FindStringSubmatch(raw); m != nil {
		payload.Title = strings.TrimSpace(m[1])
	}
	for _, m := range ingredientNames.FindAllStringSubmatch(raw, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		payload.Ingredients = append(payload.Ingredients, payloadIngredient{Name: name})
	}
	if m := instructionBlock.FindStringSubmatch(raw); m != nil {
		for _, q := range quotedString.FindAllStringSubmatch(m[1], -1) {
			payload.Instructions = append(payload.Instructions, q[1])
		}
	}

	if payload.Title == "" || len(payload.Ingredients) == 0 {
		return nil, false
	}
	return payload, true
}
