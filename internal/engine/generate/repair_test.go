package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPayload = `{
	"title": "Tuna Pasta",
	"ready_minutes": 25,
	"servings": 2,
	"ingredients": [
		{"name": "pasta", "amount": 200, "unit": "g"},
		{"name": "canned tuna", "amount": 1, "unit": "can"}
	],
	"instructions": ["Boil pasta.", "Mix in tuna."]
}`

func TestParseStrict(t *testing.T) {
	payload, ok := parseStrict(validPayload)
	require.True(t, ok)
	assert.Equal(t, "Tuna Pasta", payload.Title)
	assert.Equal(t, 25, payload.ReadyMinutes)
	assert.Len(t, payload.Ingredients, 2)
	assert.Len(t, payload.Instructions, 2)
}

func TestParseStrictQuotedAmounts(t *testing.T) {
	// Generation output quotes amounts as often as not; both forms must
	// survive the strict stage with the value intact.
	raw := `{"title": "Tuna Pasta", "ingredients": [
		{"name": "pasta", "amount": "200", "unit": "g"},
		{"name": "olive oil", "amount": "a drizzle", "unit": ""}
	]}`
	payload, ok := parseStrict(raw)
	require.True(t, ok)
	assert.InDelta(t, 200.0, float64(payload.Ingredients[0].Amount), 1e-9)
	assert.Equal(t, "g", payload.Ingredients[0].Unit)
	// Non-numeric amounts decode to zero instead of failing the parse.
	assert.Zero(t, float64(payload.Ingredients[1].Amount))
}

func TestParseStrictIgnoresSurroundingProse(t *testing.T) {
	raw := "Here is your recipe:\n" + validPayload + "\nEnjoy!"
	payload, ok := parseStrict(raw)
	require.True(t, ok)
	assert.Equal(t, "Tuna Pasta", payload.Title)
}

func TestParseStrictRejectsMalformed(t *testing.T) {
	_, ok := parseStrict(`{"title": "x",}`)
	assert.False(t, ok)
	_, ok = parseStrict("no json here")
	assert.False(t, ok)
}

func TestStripCodeFences(t *testing.T) {
	fenced := "```json\n" + `{"title":"x"}` + "\n```"
	assert.Equal(t, `{"title":"x"}`, stripCodeFences(fenced))
	assert.Equal(t, `{"title":"x"}`, stripCodeFences(`{"title":"x"}`))
}

func TestStripTrailingCommas(t *testing.T) {
	assert.Equal(t, `{"a":[1,2]}`, stripTrailingCommas(`{"a":[1,2,],}`))
}

func TestQuoteBareKeys(t *testing.T) {
	assert.Equal(t, `{"title": "x", "servings": 2}`, quoteBareKeys(`{title: "x", servings: 2}`))
	// Quoted keys stay untouched.
	assert.Equal(t, `{"title": "x"}`, quoteBareKeys(`{"title": "x"}`))
}

func TestCloseTruncatedBrackets(t *testing.T) {
	assert.Equal(t, `{"a": [1, 2]}`, closeTruncatedBrackets(`{"a": [1, 2`))
	assert.Equal(t, `{"a": "b"}`, closeTruncatedBrackets(`{"a": "b`))
	// Balanced input is returned unchanged.
	assert.Equal(t, `{"a": 1}`, closeTruncatedBrackets(`{"a": 1}`))
	// Brackets inside string literals are not counted.
	assert.Equal(t, `{"a": "x["}`, closeTruncatedBrackets(`{"a": "x["}`))
}

func TestParseWithRepairsTrailingComma(t *testing.T) {
	raw := `{"title": "Soup", "ingredients": [{"name": "carrot"},],}`
	payload, repairName, ok := parseWithRepairs(raw)
	require.True(t, ok)
	assert.Equal(t, "trailing-commas", repairName)
	assert.Equal(t, "Soup", payload.Title)
	require.Len(t, payload.Ingredients, 1)
	assert.Equal(t, "carrot", payload.Ingredients[0].Name)
}

func TestParseWithRepairsCumulative(t *testing.T) {
	// Fenced and trailing commas at once: the fence strip alone does not
	// make the payload parseable, so the comma repair must run on the
	// already-stripped text.
	raw := "```json\n" + `{"title": "Stew", "ingredients": [{"name": "beef"},],}` + "\n```"
	payload, repairName, ok := parseWithRepairs(raw)
	require.True(t, ok)
	assert.Equal(t, "trailing-commas", repairName)
	assert.Equal(t, "Stew", payload.Title)
}

func TestParseWithRepairsHopelessInput(t *testing.T) {
	_, _, ok := parseWithRepairs(`the model refused to answer`)
	assert.False(t, ok)
}

func TestExtractFields(t *testing.T) {
	raw := `The recipe "title": "Rustic Bake" uses
		"name": "potato" and "name": "cheese" with
		"instructions": ["Slice potatoes", "Bake until golden"`
	payload, ok := extractFields(raw)
	require.True(t, ok)
	assert.Equal(t, "Rustic Bake", payload.Title)
	require.Len(t, payload.Ingredients, 2)
	assert.Equal(t, "potato", payload.Ingredients[0].Name)
	assert.Equal(t, []string{"Slice potatoes", "Bake until golden"}, payload.Instructions)
}

func TestExtractFieldsRequiresTitleAndIngredient(t *testing.T) {
	_, ok := extractFields(`"title": "Lonely Title"`)
	assert.False(t, ok)
	_, ok = extractFields(`"name": "floating ingredient"`)
	assert.False(t, ok)
	_, ok = extractFields("total garbage")
	assert.False(t, ok)
}
