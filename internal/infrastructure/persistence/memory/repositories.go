// Package memory provides in-process repository implementations used in
// tests and single-node deployments without a database
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pantrypilot/v1/internal/domain/preference"
	"github.com/pantrypilot/v1/internal/ports/outbound"
	"github.com/pantrypilot/v1/pkg/errors"
)

// ProfileRepository keeps profiles in a map guarded by one mutex.
// Profiles are deep-copied on every boundary crossing so callers never
// share mutable state with the store.
type ProfileRepository struct {
	mu       sync.Mutex
	profiles map[string]*preference.Profile
}

// NewProfileRepository creates an empty in-memory profile store
func NewProfileRepository() outbound.ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]*preference.Profile)}
}

func (r *ProfileRepository) Create(_ context.Context, profile *preference.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.UserID]; ok {
		return errors.NewValidationError("profile already exists for user " + profile.UserID)
	}
	r.profiles[profile.UserID] = copyProfile(profile)
	return nil
}

func (r *ProfileRepository) FindByUserID(_ context.Context, userID string) (*preference.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, errors.NewProfileNotFoundError(userID)
	}
	return copyProfile(profile), nil
}

func (r *ProfileRepository) ListUserIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *ProfileRepository) UpdateAtomic(_ context.Context, userID string, fn func(*preference.Profile) error) (*preference.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.profiles[userID]
	if !ok {
		return nil, errors.NewProfileNotFoundError(userID)
	}
	working := copyProfile(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	r.profiles[userID] = working
	return copyProfile(working), nil
}

func copyProfile(p *preference.Profile) *preference.Profile {
	out := *p
	out.Flavors = make(map[string]float64, len(p.Flavors))
	for k, v := range p.Flavors {
		out.Flavors[k] = v
	}
	out.Liked = make(map[string]bool, len(p.Liked))
	for k := range p.Liked {
		out.Liked[k] = true
	}
	out.Disliked = make(map[string]bool, len(p.Disliked))
	for k := range p.Disliked {
		out.Disliked[k] = true
	}
	out.DishTypes = append([]string(nil), p.DishTypes...)
	out.EffortWindow = append([]preference.EffortLevel(nil), p.EffortWindow...)
	out.Restrictions.Intolerances = append([]string(nil), p.Restrictions.Intolerances...)
	return &out
}

// FeedbackRepository keeps feedback records in an append-only slice
type FeedbackRepository struct {
	mu      sync.Mutex
	records []preference.FeedbackRecord
}

// NewFeedbackRepository creates an empty in-memory feedback store
func NewFeedbackRepository() outbound.FeedbackRepository {
	return &FeedbackRepository{}
}

func (r *FeedbackRepository) Append(_ context.Context, record preference.FeedbackRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *FeedbackRepository) FindByUserSince(_ context.Context, userID string, since time.Time) ([]preference.FeedbackRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []preference.FeedbackRecord
	for _, record := range r.records {
		if record.UserID == userID && !record.Timestamp.Before(since) {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}
