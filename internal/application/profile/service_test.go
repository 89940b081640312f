package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/infrastructure/persistence/memory"
	"github.com/pantrypilot/v1/internal/ports/inbound"
	apperrors "github.com/pantrypilot/v1/pkg/errors"
)

func newService() inbound.ProfileService {
	return NewService(memory.NewProfileRepository(), zap.NewNop())
}

func TestRegister(t *testing.T) {
	svc := newService()

	summary, err := svc.Register(context.Background(), inbound.RegisterUserCommand{
		UserID: "user-1",
		Restrictions: preference.DietaryRestrictions{
			Diet:         "vegetarian",
			Intolerances: []string{"gluten"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "user-1", summary.UserID)
	assert.Equal(t, preference.EffortMedium, summary.EffortTolerance)
	assert.Equal(t, "vegetarian", summary.Restrictions.Diet)
	assert.Empty(t, summary.Flavors)
}

func TestRegisterRequiresUserID(t *testing.T) {
	_, err := newService().Register(context.Background(), inbound.RegisterUserCommand{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newService()
	cmd := inbound.RegisterUserCommand{UserID: "user-1"}

	_, err := svc.Register(context.Background(), cmd)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), cmd)
	assert.Error(t, err)
}

func TestGetProfile(t *testing.T) {
	svc := newService()
	_, err := svc.Register(context.Background(), inbound.RegisterUserCommand{UserID: "user-1"})
	require.NoError(t, err)

	p, err := svc.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.False(t, p.HasFeedback)

	_, err = svc.GetProfile(context.Background(), "ghost")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeProfileNotFound))
}

func TestListUsers(t *testing.T) {
	svc := newService()
	for _, id := range []string{"zoe", "ana"} {
		_, err := svc.Register(context.Background(), inbound.RegisterUserCommand{UserID: id})
		require.NoError(t, err)
	}

	ids, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ana", "zoe"}, ids)
}

func TestUpdateRestrictions(t *testing.T) {
	svc := newService()
	_, err := svc.Register(context.Background(), inbound.RegisterUserCommand{UserID: "user-1"})
	require.NoError(t, err)

	summary, err := svc.UpdateRestrictions(context.Background(), "user-1", preference.DietaryRestrictions{
		Diet:         "vegan",
		Intolerances: []string{"peanut"},
	})
	require.NoError(t, err)
	assert.Equal(t, "vegan", summary.Restrictions.Diet)
	assert.Equal(t, []string{"peanut"}, summary.Restrictions.Intolerances)

	_, err = svc.UpdateRestrictions(context.Background(), "ghost", preference.DietaryRestrictions{})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeProfileNotFound))
}
