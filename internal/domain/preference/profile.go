// Package preference contains the per-user preference model: flavor
// weights, effort tolerance, liked/disliked ingredient sets, and the
// decay and feedback-update operations that evolve them.
package preference

import (
	"time"
)

// EffortLevel is the user's tolerance for cooking effort
type EffortLevel string

const (
	EffortLow    EffortLevel = "low"
	EffortMedium EffortLevel = "medium"
	EffortHigh   EffortLevel = "high"
)

// Sentiment of a parsed review
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// neutralWeight is the starting point for any flavor dimension and the
// value decay pulls weights back toward.
const neutralWeight = 0.5

// DietaryRestrictions is a hard filter, never a soft ranking signal
type DietaryRestrictions struct {
	Diet         string   `json:"diet,omitempty"`
	Intolerances []string `json:"intolerances,omitempty"`
}

// Profile holds one user's learned preferences. It is mutated only by
// ApplyFeedback and ApplyDecay; callers serialize access per user.
type Profile struct {
	UserID          string              `json:"user_id"`
	Flavors         map[string]float64  `json:"preferred_flavors"`
	Liked           map[string]bool     `json:"liked_ingredients"`
	Disliked        map[string]bool     `json:"disliked_ingredients"`
	EffortTolerance EffortLevel         `json:"effort_tolerance"`
	DishTypes       []string            `json:"preferred_dish_types"`
	Restrictions    DietaryRestrictions `json:"dietary_restrictions"`
	EffortWindow    []EffortLevel       `json:"effort_window"`
	HasFeedback     bool                `json:"has_feedback"`
	LastUpdated     time.Time           `json:"last_updated"`
}

// NewProfile creates a profile with neutral defaults
func NewProfile(userID string) *Profile {
	return &Profile{
		UserID:          userID,
		Flavors:         make(map[string]float64),
		Liked:           make(map[string]bool),
		Disliked:        make(map[string]bool),
		EffortTolerance: EffortMedium,
		LastUpdated:     time.Now(),
	}
}

// FlavorWeight returns the stored weight for a flavor, or the neutral
// default when the user has expressed nothing about it yet.
func (p *Profile) FlavorWeight(flavor string) float64 {
	if w, ok := p.Flavors[flavor]; ok {
		return w
	}
	return neutralWeight
}

// ParsedReview is the review-parsing service's output for one review
type ParsedReview struct {
	EffortTag     EffortLevel `json:"effort_tag,omitempty"`
	FlavorTags    []string    `json:"flavor_tags,omitempty"`
	Sentiment     Sentiment   `json:"sentiment,omitempty"`
	LikedNames    []string    `json:"liked_ingredients,omitempty"`
	DislikedNames []string    `json:"disliked_ingredients,omitempty"`
}

// ApplyFeedback folds one parsed review into the profile. Flavor weights
// move by alpha in the direction of the sentiment and stay clamped to
// [0,1]. Liked and disliked sets stay mutually exclusive. Effort
// tolerance only shifts once a full window of recent reviews disagrees
// with the stored value, so one review never flips it.
func (p *Profile) ApplyFeedback(parsed ParsedReview, alpha float64, effortWindow int) {
	sign := sentimentSign(parsed.Sentiment)

	if sign != 0 {
		for _, tag := range parsed.FlavorTags {
			if tag == "" {
				continue
			}
			current, ok := p.Flavors[tag]
			if !ok {
				current = neutralWeight
			}
			p.Flavors[tag] = clamp01(current + alpha*float64(sign))
		}
	}

	for _, name := range parsed.LikedNames {
		if name == "" {
			continue
		}
		delete(p.Disliked, name)
		p.Liked[name] = true
	}
	for _, name := range parsed.DislikedNames {
		if name == "" {
			continue
		}
		delete(p.Liked, name)
		p.Disliked[name] = true
	}

	if parsed.EffortTag != "" {
		p.EffortWindow = append(p.EffortWindow, parsed.EffortTag)
		if len(p.EffortWindow) > effortWindow {
			p.EffortWindow = p.EffortWindow[len(p.EffortWindow)-effortWindow:]
		}
		if tag, unanimous := windowConsensus(p.EffortWindow, effortWindow); unanimous && tag != p.EffortTolerance {
			p.EffortTolerance = stepToward(p.EffortTolerance, tag)
		}
	}

	p.HasFeedback = true
	p.LastUpdated = time.Now()
}

// ApplyDecay attenuates every flavor weight toward neutral by gamma.
// A profile with no feedback history is left untouched; decaying an
// already-neutral vector is a no-op either way. Two decays with gamma
// compose to a single decay with gamma squared.
func (p *Profile) ApplyDecay(gamma float64) {
	if !p.HasFeedback {
		return
	}
	for tag, w := range p.Flavors {
		p.Flavors[tag] = clamp01(neutralWeight + gamma*(w-neutralWeight))
	}
	p.LastUpdated = time.Now()
}

// sentimentSign maps a sentiment onto the adjustment direction
func sentimentSign(s Sentiment) int {
	switch s {
	case SentimentPositive:
		return 1
	case SentimentNegative:
		return -1
	default:
		return 0
	}
}

// windowConsensus reports whether a full window agrees on one tag
func windowConsensus(window []EffortLevel, size int) (EffortLevel, bool) {
	if len(window) < size {
		return "", false
	}
	first := window[0]
	for _, tag := range window[1:] {
		if tag != first {
			return "", false
		}
	}
	return first, true
}

// effortRank orders effort levels for single-step adjustment
var effortRank = map[EffortLevel]int{
	EffortLow:    0,
	EffortMedium: 1,
	EffortHigh:   2,
}

// stepToward moves one effort level toward the target
func stepToward(current, target EffortLevel) EffortLevel {
	ci, ok := effortRank[current]
	if !ok {
		return target
	}
	ti, ok := effortRank[target]
	if !ok {
		return current
	}
	switch {
	case ti > ci:
		ci++
	case ti < ci:
		ci--
	}
	for level, rank := range effortRank {
		if rank == ci {
			return level
		}
	}
	return current
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
