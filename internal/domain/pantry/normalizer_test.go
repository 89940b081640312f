package pantry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"Lowercases", "Chicken Breast", "chicken breast"},
		{"TrimsWhitespace", "  olive oil  ", "olive oil"},
		{"StripsPackagingSuffixWithUnit", "Beef Stew - 20oz", "beef stew"},
		{"StripsPackagingSuffixMetric", "Tomato Paste - 510g", "tomato paste"},
		{"StripsPackagingSuffixPack", "Tortillas - 4 Pack", "tortillas"},
		{"StripsPackagingSuffixBareNumber", "Eggs - 12", "eggs"},
		{"StripsQuantityTokens", "2x chicken thighs", "chicken thighs"},
		{"StripsPackagingWords", "pasta sauce jar", "pasta sauce"},
		{"KeepsPreparedFoodWords", "taco dinner kit", "taco dinner kit"},
		{"KeepsCannedPrefix", "canned tuna", "canned tuna"},
		{"TrimsPunctuation", "parsley, fresh", "parsley fresh"},
		{"EmptyInput", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.raw))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Beef Stew - 20oz",
		"Tortillas - 4 Pack",
		"2x chicken thighs",
		"taco dinner kit",
		"pasta sauce jar",
		"Frozen Peas - 500g",
	}
	for _, raw := range inputs {
		once := Normalize(raw)
		assert.Equal(t, once, Normalize(once), "normalizing twice must equal normalizing once for %q", raw)
	}
}

func TestNormalizePureNoiseFallsBack(t *testing.T) {
	// A name that strips to nothing returns the lowercased original
	// instead of an empty string.
	got := Normalize("4 Pack")
	assert.Equal(t, "4 pack", got)
	assert.NotEmpty(t, got)
}

func TestNewItemPreservesRawName(t *testing.T) {
	item := NewItem("Beef Stew - 20oz", 2, "can")
	assert.Equal(t, "Beef Stew - 20oz", item.RawName)
	assert.Equal(t, "beef stew", item.NormalizedName)
	assert.Equal(t, 2.0, item.Quantity)
	assert.Equal(t, "can", item.Unit)
}

func TestNewItems(t *testing.T) {
	items := NewItems([]string{"Pasta", "Canned Tuna"})
	assert.Len(t, items, 2)
	assert.Equal(t, "pasta", items[0].NormalizedName)
	assert.Equal(t, "canned tuna", items[1].NormalizedName)
}
