package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/infrastructure/persistence/memory"
	"github.com/pantrypilot/v1/internal/ports/inbound"
	"github.com/pantrypilot/v1/internal/ports/outbound"
	apperrors "github.com/pantrypilot/v1/pkg/errors"
)

type stubParser struct {
	parsed preference.ParsedReview
	err    error
	calls  int
}

func (p *stubParser) ParseReview(_ context.Context, _ string) (preference.ParsedReview, error) {
	p.calls++
	return p.parsed, p.err
}

type recordingMetrics struct {
	sentiments []string
	fallbacks  []string
	served     []bool
	updated    int
	failed     int
}

func (m *recordingMetrics) SuggestionServed(fallback bool) { m.served = append(m.served, fallback) }

func (m *recordingMetrics) FallbackGeneration(stage string) { m.fallbacks = append(m.fallbacks, stage) }

func (m *recordingMetrics) FeedbackRecorded(sentiment string) {
	m.sentiments = append(m.sentiments, sentiment)
}
func (m *recordingMetrics) DailyUpdatePass(updated, failed int) {
	m.updated += updated
	m.failed += failed
}

func newFeedbackFixture(t *testing.T, parser outbound.ReviewParsingService) (inbound.FeedbackService, outbound.ProfileRepository, outbound.FeedbackRepository, *recordingMetrics) {
	t.Helper()
	profiles := memory.NewProfileRepository()
	records := memory.NewFeedbackRepository()
	metrics := &recordingMetrics{}
	require.NoError(t, profiles.Create(context.Background(), preference.NewProfile("user-1")))
	svc := NewService(profiles, records, parser, metrics, 0.1, 3, zap.NewNop())
	return svc, profiles, records, metrics
}

func TestSubmitAppliesParsedFeedback(t *testing.T) {
	parser := &stubParser{parsed: preference.ParsedReview{
		Sentiment:  preference.SentimentPositive,
		FlavorTags: []string{"savoriness"},
		LikedNames: []string{"mushrooms"},
	}}
	svc, profiles, records, metrics := newFeedbackFixture(t, parser)

	summary, err := svc.Submit(context.Background(), inbound.SubmitFeedbackCommand{
		UserID:     "user-1",
		RecipeID:   "recipe-9",
		Rating:     5,
		ReviewText: "so savory, the mushrooms made it",
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.6, summary.Flavors["savoriness"], 1e-9)
	assert.Equal(t, 1, summary.LikedCount)

	stored, err := profiles.FindByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, stored.Liked["mushrooms"])
	assert.True(t, stored.HasFeedback)

	recent, err := records.FindByUserSince(context.Background(), "user-1", stored.LastUpdated.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "recipe-9", recent[0].RecipeID)

	assert.Equal(t, []string{"positive"}, metrics.sentiments)
}

func TestSubmitFallsBackToHeuristicsWhenParserDown(t *testing.T) {
	parser := &stubParser{err: errors.New("parsing service unavailable")}
	svc, profiles, _, _ := newFeedbackFixture(t, parser)

	_, err := svc.Submit(context.Background(), inbound.SubmitFeedbackCommand{
		UserID:     "user-1",
		RecipeID:   "recipe-2",
		Rating:     2,
		ReviewText: "Too salty and it took forever",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, parser.calls)

	stored, err := profiles.FindByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.4, stored.Flavors["saltiness"], 1e-9)
	assert.Equal(t, []preference.EffortLevel{preference.EffortHigh}, stored.EffortWindow)
}

func TestSubmitEmptyReviewUsesRating(t *testing.T) {
	parser := &stubParser{}
	svc, _, _, metrics := newFeedbackFixture(t, parser)

	_, err := svc.Submit(context.Background(), inbound.SubmitFeedbackCommand{
		UserID:   "user-1",
		RecipeID: "recipe-3",
		Rating:   1,
	})
	require.NoError(t, err)

	// No text means the parser is never consulted.
	assert.Zero(t, parser.calls)
	assert.Equal(t, []string{"negative"}, metrics.sentiments)
}

func TestSubmitNeutralSentimentFromMiddlingRating(t *testing.T) {
	parser := &stubParser{parsed: preference.ParsedReview{}}
	svc, _, _, metrics := newFeedbackFixture(t, parser)

	_, err := svc.Submit(context.Background(), inbound.SubmitFeedbackCommand{
		UserID:     "user-1",
		RecipeID:   "recipe-4",
		Rating:     3,
		ReviewText: "it was a meal",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"neutral"}, metrics.sentiments)
}

func TestSubmitRejectsInvalidRating(t *testing.T) {
	svc, _, _, metrics := newFeedbackFixture(t, &stubParser{})

	_, err := svc.Submit(context.Background(), inbound.SubmitFeedbackCommand{
		UserID:   "user-1",
		RecipeID: "recipe-5",
		Rating:   6,
	})
	assert.ErrorIs(t, err, preference.ErrRatingOutOfRange)
	assert.Empty(t, metrics.sentiments)
}

func TestSubmitUnknownUser(t *testing.T) {
	svc, _, _, _ := newFeedbackFixture(t, &stubParser{})

	_, err := svc.Submit(context.Background(), inbound.SubmitFeedbackCommand{
		UserID:   "nobody",
		RecipeID: "recipe-6",
		Rating:   4,
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeProfileNotFound))
}

func TestSubmitEffortConsensusShiftsTolerance(t *testing.T) {
	parser := &stubParser{parsed: preference.ParsedReview{
		Sentiment: preference.SentimentPositive,
		EffortTag: preference.EffortLow,
	}}
	svc, profiles, _, _ := newFeedbackFixture(t, parser)

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(context.Background(), inbound.SubmitFeedbackCommand{
			UserID:     "user-1",
			RecipeID:   "recipe-7",
			Rating:     5,
			ReviewText: "quick and great",
		})
		require.NoError(t, err)
	}

	stored, err := profiles.FindByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, preference.EffortLow, stored.EffortTolerance)
}
