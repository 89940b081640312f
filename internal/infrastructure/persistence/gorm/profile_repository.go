package gorm

import (
	"context"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/ports/outbound"
	"github.com/pantrypilot/v1/pkg/errors"
)

// ProfileRepository implements the profile repository on GORM.
// UpdateAtomic serializes writers per user with an in-process lock, so
// a single service instance never interleaves read-modify-write cycles
// for the same profile.
type ProfileRepository struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) outbound.ProfileRepository {
	return &ProfileRepository{
		db:    db,
		locks: make(map[string]*sync.Mutex),
	}
}

// Create persists a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *preference.Profile) error {
	result := r.db.WithContext(ctx).Create(ProfileToModel(profile))
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "UNIQUE constraint") ||
			strings.Contains(result.Error.Error(), "duplicate key") {
			return errors.NewValidationError("profile already exists for user " + profile.UserID)
		}
		return errors.NewDatabaseError("create profile", result.Error)
	}
	return nil
}

// FindByUserID loads one profile
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*preference.Profile, error) {
	var model ProfileModel
	result := r.db.WithContext(ctx).First(&model, "user_id = ?", userID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.NewProfileNotFoundError(userID)
		}
		return nil, errors.NewDatabaseError("find profile", result.Error)
	}
	return ModelToProfile(&model), nil
}

// ListUserIDs returns every stored profile's user ID
func (r *ProfileRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	result := r.db.WithContext(ctx).Model(&ProfileModel{}).Order("user_id").Pluck("user_id", &ids)
	if result.Error != nil {
		return nil, errors.NewDatabaseError("list profiles", result.Error)
	}
	return ids, nil
}

// UpdateAtomic applies fn to the stored profile under the user's lock
// and persists the result
func (r *ProfileRepository) UpdateAtomic(ctx context.Context, userID string, fn func(*preference.Profile) error) (*preference.Profile, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	profile, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(profile); err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Save(ProfileToModel(profile))
	if result.Error != nil {
		return nil, errors.NewDatabaseError("save profile", result.Error)
	}
	return profile, nil
}

func (r *ProfileRepository) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[userID] = lock
	}
	return lock
}
