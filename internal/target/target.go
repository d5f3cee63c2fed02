package target

import (
	"time"

	"github.com/google/uuid"

	"timeMirrorAPI/internal/category"
)

type Direction string

const (
	AtLeast Direction = "at_least" // growth target: reach the weekly minutes
	AtMost  Direction = "at_most"  // limit target: stay at or under them
)

// Target is a user-defined weekly intention for one energy group.
type Target struct {
	ID                  uuid.UUID                   `json:"id" db:"id"`
	UserID              uuid.UUID                   `json:"user_id" db:"user_id"`
	Group               category.AggregatedCategory `json:"group" db:"category_group"`
	Direction           Direction                   `json:"direction" db:"direction"`
	WeeklyTargetMinutes *int                        `json:"weekly_target_minutes" db:"weekly_target_minutes"`
	CreatedAt           time.Time                   `json:"created_at" db:"created_at"`
}

// defaultWeeklyMinutes holds fallbacks for targets the user created without a
// number. Body follows the 150 min/week activity guideline; the rest are the
// app's onboarding defaults.
var defaultWeeklyMinutes = map[category.AggregatedCategory]int{
	category.GroupFocus:      900,
	category.GroupOps:        420,
	category.GroupBody:       150,
	category.GroupRecovery:   630,
	category.GroupConnection: 300,
	category.GroupEscape:     420,
}

const fallbackWeeklyMinutes = 300

// WeeklyMinutes resolves the target's weekly minute goal, falling back to the
// default table when the user left it unset.
func (t *Target) WeeklyMinutes() int {
	if t.WeeklyTargetMinutes != nil && *t.WeeklyTargetMinutes > 0 {
		return *t.WeeklyTargetMinutes
	}
	if def, ok := defaultWeeklyMinutes[t.Group]; ok {
		return def
	}
	return fallbackWeeklyMinutes
}

// DailyMinutes is the per-day threshold derived from the weekly goal.
func (t *Target) DailyMinutes() int {
	daily := t.WeeklyMinutes() / 7
	if daily < 1 {
		daily = 1
	}
	return daily
}

// IsGrowth reports whether the target is an at_least intention.
func (t *Target) IsGrowth() bool {
	return t.Direction == AtLeast
}

// DefaultWeeklyMinutes exposes the fallback for a group, for callers that need
// a threshold without a user target (streak defaults).
func DefaultWeeklyMinutes(group category.AggregatedCategory) int {
	if def, ok := defaultWeeklyMinutes[group]; ok {
		return def
	}
	return fallbackWeeklyMinutes
}
