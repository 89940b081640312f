package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrypilot/v1/internal/domain/preference"
	apperrors "github.com/pantrypilot/v1/pkg/errors"
)

func TestProfileRepositoryIsolatesStoredState(t *testing.T) {
	repo := NewProfileRepository()
	ctx := context.Background()

	p := preference.NewProfile("user-1")
	p.Flavors["sweetness"] = 0.7
	require.NoError(t, repo.Create(ctx, p))

	// Mutating the caller's copy must not leak into the store.
	p.Flavors["sweetness"] = 0.0
	p.Liked["anchovies"] = true

	stored, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, stored.Flavors["sweetness"], 1e-9)
	assert.Empty(t, stored.Liked)

	// And mutating a returned copy must not either.
	stored.Flavors["sweetness"] = 0.1
	again, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, again.Flavors["sweetness"], 1e-9)
}

func TestProfileRepositoryCreateDuplicate(t *testing.T) {
	repo := NewProfileRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, preference.NewProfile("user-1")))
	err := repo.Create(ctx, preference.NewProfile("user-1"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestProfileRepositoryNotFound(t *testing.T) {
	repo := NewProfileRepository()

	_, err := repo.FindByUserID(context.Background(), "ghost")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeProfileNotFound))

	_, err = repo.UpdateAtomic(context.Background(), "ghost", func(*preference.Profile) error { return nil })
	assert.True(t, apperrors.IsCode(err, apperrors.CodeProfileNotFound))
}

func TestProfileRepositoryListUserIDsSorted(t *testing.T) {
	repo := NewProfileRepository()
	ctx := context.Background()
	for _, id := range []string{"charlie", "alice", "bob"} {
		require.NoError(t, repo.Create(ctx, preference.NewProfile(id)))
	}

	ids, err := repo.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "charlie"}, ids)
}

func TestProfileRepositoryUpdateAtomicDiscardsOnError(t *testing.T) {
	repo := NewProfileRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, preference.NewProfile("user-1")))

	_, err := repo.UpdateAtomic(ctx, "user-1", func(p *preference.Profile) error {
		p.Flavors["sweetness"] = 0.9
		return assert.AnError
	})
	require.Error(t, err)

	stored, err := repo.FindByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, stored.Flavors)
}

func TestFeedbackRepositoryFindByUserSince(t *testing.T) {
	repo := NewFeedbackRepository()
	ctx := context.Background()

	old := preference.NewFeedbackRecord("user-1", "recipe-1", 4, "", preference.ParsedReview{})
	old.Timestamp = time.Now().Add(-48 * time.Hour)
	recent := preference.NewFeedbackRecord("user-1", "recipe-2", 5, "", preference.ParsedReview{})
	other := preference.NewFeedbackRecord("user-2", "recipe-3", 3, "", preference.ParsedReview{})

	require.NoError(t, repo.Append(ctx, old))
	require.NoError(t, repo.Append(ctx, recent))
	require.NoError(t, repo.Append(ctx, other))

	got, err := repo.FindByUserSince(ctx, "user-1", time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "recipe-2", got[0].RecipeID)
}
