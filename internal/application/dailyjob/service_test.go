package dailyjob

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
	"github.com/pantrypilot/v1/internal/ports/outbound"
	apperrors "github.com/pantrypilot/v1/pkg/errors"
)

type passMetrics struct {
	updated int
	failed  int
	passes  int
}

func (m *passMetrics) SuggestionServed(bool) {}
func (m *passMetrics) FallbackGeneration(string) {}
func (m *passMetrics) FeedbackRecorded(string) {}
func (m *passMetrics) DailyUpdatePass(updated, failed int) {
	m.updated += updated
	m.failed += failed
	m.passes++
}

// failingRecords wraps the in-memory store and breaks lookups for one user
type failingRecords struct {
	outbound.FeedbackRepository
	failUser string
}

func (r *failingRecords) FindByUserSince(ctx context.Context, userID string, since time.Time) ([]preference.FeedbackRecord, error) {
	if userID == r.failUser {
		return nil, errors.New("record store timeout")
	}
	return r.FeedbackRepository.FindByUserSince(ctx, userID, since)
}

func seedProfile(t *testing.T, profiles outbound.ProfileRepository, userID string, saltiness float64) {
	t.Helper()
	p := preference.NewProfile(userID)
	p.Flavors["saltiness"] = saltiness
	p.HasFeedback = true
	require.NoError(t, profiles.Create(context.Background(), p))
}

func TestRunDecaysEveryProfile(t *testing.T) {
	profiles := memory.NewProfileRepository()
	records := memory.NewFeedbackRepository()
	metrics := &passMetrics{}
	seedProfile(t, profiles, "user-a", 0.9)
	seedProfile(t, profiles, "user-b", 0.2)

	svc := NewService(profiles, records, metrics, 0.5, 0.1, 3, zap.NewNop())

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.ProfilesUpdated)
	assert.Zero(t, report.ProfilesFailed)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))

	a, err := profiles.FindByUserID(context.Background(), "user-a")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, a.Flavors["saltiness"], 1e-9)

	b, err := profiles.FindByUserID(context.Background(), "user-b")
	require.NoError(t, err)
	assert.InDelta(t, 0.35, b.Flavors["saltiness"], 1e-9)

	assert.Equal(t, 1, metrics.passes)
	assert.Equal(t, 2, metrics.updated)
}

func TestRunReplaysRecentFeedbackAfterDecay(t *testing.T) {
	profiles := memory.NewProfileRepository()
	records := memory.NewFeedbackRepository()
	seedProfile(t, profiles, "user-a", 0.9)

	parsed := preference.ParsedReview{
		Sentiment:  preference.SentimentPositive,
		FlavorTags: []string{"saltiness"},
	}
	record := preference.NewFeedbackRecord("user-a", "recipe-1", 5, "salty perfection", parsed)
	require.NoError(t, records.Append(context.Background(), record))

	svc := NewService(profiles, records, &passMetrics{}, 0.5, 0.1, 3, zap.NewNop())

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	// Decay 0.9 -> 0.7, then the recent positive review nudges it back up.
	p, err := profiles.FindByUserID(context.Background(), "user-a")
	require.NoError(t, err)
	assert.InDelta(t, 0.8, p.Flavors["saltiness"], 1e-9)
}

func TestRunCountsFailuresAndContinues(t *testing.T) {
	profiles := memory.NewProfileRepository()
	records := &failingRecords{FeedbackRepository: memory.NewFeedbackRepository(), failUser: "user-a"}
	metrics := &passMetrics{}
	seedProfile(t, profiles, "user-a", 0.9)
	seedProfile(t, profiles, "user-b", 0.9)

	svc := NewService(profiles, records, metrics, 0.5, 0.1, 3, zap.NewNop())

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.ProfilesUpdated)
	assert.Equal(t, 1, report.ProfilesFailed)
	assert.Equal(t, 1, metrics.failed)

	// The broken profile keeps its old weights.
	a, err := profiles.FindByUserID(context.Background(), "user-a")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, a.Flavors["saltiness"], 1e-9)
}

func TestUpdateProfileWrapsStoreErrors(t *testing.T) {
	profiles := memory.NewProfileRepository()
	records := &failingRecords{FeedbackRepository: memory.NewFeedbackRepository(), failUser: "user-a"}
	seedProfile(t, profiles, "user-a", 0.9)

	svc := NewService(profiles, records, &passMetrics{}, 0.5, 0.1, 3, zap.NewNop()).(*Service)

	err := svc.updateProfile(context.Background(), "user-a", time.Now().Add(-24*time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load recent feedback")

	// A coded error from the profile store keeps its code through the wrap.
	err = svc.updateProfile(context.Background(), "no-such-user", time.Now().Add(-24*time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update profile")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeProfileNotFound))
}

func TestRunHonorsContextCancellation(t *testing.T) {
	profiles := memory.NewProfileRepository()
	seedProfile(t, profiles, "user-a", 0.9)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(profiles, memory.NewFeedbackRepository(), &passMetrics{}, 0.5, 0.1, 3, zap.NewNop())
	_, err := svc.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunEmptyStore(t *testing.T) {
	svc := NewService(memory.NewProfileRepository(), memory.NewFeedbackRepository(), &passMetrics{}, 0.5, 0.1, 3, zap.NewNop())

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.ProfilesUpdated)
	assert.Zero(t, report.ProfilesFailed)
}
