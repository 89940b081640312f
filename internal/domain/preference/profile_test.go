package preference

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAlpha  = 0.1
	testGamma  = 0.98
	testWindow = 3
)

func TestNewProfileDefaults(t *testing.T) {
	p := NewProfile("u1")
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, EffortMedium, p.EffortTolerance)
	assert.Empty(t, p.Flavors)
	assert.False(t, p.HasFeedback)
	assert.Equal(t, 0.5, p.FlavorWeight("saltiness"))
}

func TestApplyFeedbackNegativeFlavor(t *testing.T) {
	// "Too salty and took forever": negative sentiment, saltiness tag,
	// high effort tag.
	p := NewProfile("u1")
	parsed := ParsedReview{
		Sentiment:  SentimentNegative,
		FlavorTags: []string{"saltiness"},
		EffortTag:  EffortHigh,
	}
	p.ApplyFeedback(parsed, testAlpha, testWindow)

	assert.InDelta(t, 0.4, p.FlavorWeight("saltiness"), 1e-9)
	assert.True(t, p.HasFeedback)
	// One review never moves effort tolerance.
	assert.Equal(t, EffortMedium, p.EffortTolerance)
}

func TestApplyFeedbackPositiveFlavor(t *testing.T) {
	p := NewProfile("u1")
	p.ApplyFeedback(ParsedReview{Sentiment: SentimentPositive, FlavorTags: []string{"savoriness"}}, testAlpha, testWindow)
	assert.InDelta(t, 0.6, p.FlavorWeight("savoriness"), 1e-9)
}

func TestApplyFeedbackClampsWeights(t *testing.T) {
	p := NewProfile("u1")
	for i := 0; i < 20; i++ {
		p.ApplyFeedback(ParsedReview{Sentiment: SentimentNegative, FlavorTags: []string{"bitterness"}}, testAlpha, testWindow)
	}
	assert.Equal(t, 0.0, p.FlavorWeight("bitterness"))

	for i := 0; i < 40; i++ {
		p.ApplyFeedback(ParsedReview{Sentiment: SentimentPositive, FlavorTags: []string{"bitterness"}}, testAlpha, testWindow)
	}
	assert.Equal(t, 1.0, p.FlavorWeight("bitterness"))
}

func TestLikedDislikedStayDisjoint(t *testing.T) {
	p := NewProfile("u1")
	p.ApplyFeedback(ParsedReview{LikedNames: []string{"garlic"}}, testAlpha, testWindow)
	require.True(t, p.Liked["garlic"])

	p.ApplyFeedback(ParsedReview{DislikedNames: []string{"garlic"}}, testAlpha, testWindow)
	assert.False(t, p.Liked["garlic"])
	assert.True(t, p.Disliked["garlic"])

	p.ApplyFeedback(ParsedReview{LikedNames: []string{"garlic"}}, testAlpha, testWindow)
	assert.True(t, p.Liked["garlic"])
	assert.False(t, p.Disliked["garlic"])
}

func TestEffortToleranceNeedsUnanimousWindow(t *testing.T) {
	p := NewProfile("u1")

	p.ApplyFeedback(ParsedReview{EffortTag: EffortLow}, testAlpha, testWindow)
	p.ApplyFeedback(ParsedReview{EffortTag: EffortLow}, testAlpha, testWindow)
	assert.Equal(t, EffortMedium, p.EffortTolerance, "partial window must not shift tolerance")

	p.ApplyFeedback(ParsedReview{EffortTag: EffortLow}, testAlpha, testWindow)
	assert.Equal(t, EffortLow, p.EffortTolerance, "unanimous full window shifts one step")
}

func TestEffortToleranceShiftsOneStepOnly(t *testing.T) {
	p := NewProfile("u1")
	p.EffortTolerance = EffortLow

	for i := 0; i < testWindow; i++ {
		p.ApplyFeedback(ParsedReview{EffortTag: EffortHigh}, testAlpha, testWindow)
	}
	// Low toward High steps to Medium, not straight to High.
	assert.Equal(t, EffortMedium, p.EffortTolerance)
}

func TestEffortWindowBreaksConsensus(t *testing.T) {
	p := NewProfile("u1")
	p.ApplyFeedback(ParsedReview{EffortTag: EffortLow}, testAlpha, testWindow)
	p.ApplyFeedback(ParsedReview{EffortTag: EffortHigh}, testAlpha, testWindow)
	p.ApplyFeedback(ParsedReview{EffortTag: EffortLow}, testAlpha, testWindow)
	assert.Equal(t, EffortMedium, p.EffortTolerance)
}

func TestApplyDecayPullsTowardNeutral(t *testing.T) {
	p := NewProfile("u1")
	p.HasFeedback = true
	p.Flavors["sweetness"] = 0.9
	p.Flavors["saltiness"] = 0.1

	p.ApplyDecay(testGamma)

	assert.InDelta(t, 0.5+testGamma*0.4, p.Flavors["sweetness"], 1e-9)
	assert.InDelta(t, 0.5-testGamma*0.4, p.Flavors["saltiness"], 1e-9)
}

func TestApplyDecayComposition(t *testing.T) {
	// Two decays with gamma equal one decay with gamma squared.
	a := NewProfile("u1")
	a.HasFeedback = true
	a.Flavors["sweetness"] = 0.8

	b := NewProfile("u2")
	b.HasFeedback = true
	b.Flavors["sweetness"] = 0.8

	a.ApplyDecay(testGamma)
	a.ApplyDecay(testGamma)
	b.ApplyDecay(testGamma * testGamma)

	assert.InDelta(t, b.Flavors["sweetness"], a.Flavors["sweetness"], 1e-12)
}

func TestApplyDecayNeutralIsNoOp(t *testing.T) {
	p := NewProfile("u1")
	p.HasFeedback = true
	p.Flavors["sourness"] = 0.5

	p.ApplyDecay(testGamma)
	assert.Equal(t, 0.5, p.Flavors["sourness"])
}

func TestApplyDecaySkipsProfilesWithoutFeedback(t *testing.T) {
	p := NewProfile("u1")
	p.Flavors["sweetness"] = 0.9

	p.ApplyDecay(testGamma)
	assert.Equal(t, 0.9, p.Flavors["sweetness"])
}

func TestApplyDecayKeepsWeightsInRange(t *testing.T) {
	p := NewProfile("u1")
	p.HasFeedback = true
	p.Flavors["fattiness"] = 1.0
	p.Flavors["sourness"] = 0.0

	for i := 0; i < 100; i++ {
		p.ApplyDecay(testGamma)
	}
	for tag, w := range p.Flavors {
		assert.GreaterOrEqual(t, w, 0.0, tag)
		assert.LessOrEqual(t, w, 1.0, tag)
	}
	// Long-run decay converges to neutral.
	assert.InDelta(t, 0.5, p.Flavors["fattiness"], 0.07)
}

func TestFeedbackRecordValidate(t *testing.T) {
	valid := NewFeedbackRecord("u1", "r1", 4, "great", ParsedReview{})
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, NewFeedbackRecord("", "r1", 4, "", ParsedReview{}).Validate(), ErrMissingUserID)
	assert.ErrorIs(t, NewFeedbackRecord("u1", "", 4, "", ParsedReview{}).Validate(), ErrMissingRecipeID)
	assert.ErrorIs(t, NewFeedbackRecord("u1", "r1", 6, "", ParsedReview{}).Validate(), ErrRatingOutOfRange)
	assert.ErrorIs(t, NewFeedbackRecord("u1", "r1", 0, "", ParsedReview{}).Validate(), ErrRatingOutOfRange)
}

func TestStepToward(t *testing.T) {
	assert.Equal(t, EffortMedium, stepToward(EffortLow, EffortHigh))
	assert.Equal(t, EffortMedium, stepToward(EffortHigh, EffortLow))
	assert.Equal(t, EffortLow, stepToward(EffortMedium, EffortLow))
	assert.Equal(t, EffortHigh, stepToward(EffortHigh, EffortHigh))
}

func TestClampedWeightPrecision(t *testing.T) {
	// Repeated nudges stay exactly representable enough for InDelta.
	p := NewProfile("u1")
	p.ApplyFeedback(ParsedReview{Sentiment: SentimentNegative, FlavorTags: []string{"saltiness"}}, 0.1, testWindow)
	p.ApplyFeedback(ParsedReview{Sentiment: SentimentNegative, FlavorTags: []string{"saltiness"}}, 0.1, testWindow)
	assert.True(t, math.Abs(p.FlavorWeight("saltiness")-0.3) < 1e-9)
}
