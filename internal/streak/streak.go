package streak

import (
	"time"

	"github.com/google/uuid"

	"timeMirrorAPI/internal/category"
	"timeMirrorAPI/internal/entry"
	"timeMirrorAPI/internal/timeline"
)

type Kind string

const (
	// KindDuration streaks count days that reach a minute threshold.
	KindDuration Kind = "duration"
	// KindAbsence streaks count days with zero minutes of the group.
	KindAbsence Kind = "absence"
)

// Definition describes one trackable streak type.
type Definition struct {
	Name  string                      `json:"name"`
	Kind  Kind                        `json:"kind"`
	Group category.AggregatedCategory `json:"group"`
}

// Registry holds the streak types the app tracks. Duration streaks resolve
// their daily threshold from the user's intention for the group, falling back
// to the group default.
var Registry = map[string]Definition{
	"focus_session": {Name: "focus_session", Kind: KindDuration, Group: category.GroupFocus},
	"movement":      {Name: "movement", Kind: KindDuration, Group: category.GroupBody},
	"wind_down":     {Name: "wind_down", Kind: KindDuration, Group: category.GroupRecovery},
	"no_escape":     {Name: "no_escape", Kind: KindAbsence, Group: category.GroupEscape},
}

// Lookup resolves a streak type by name.
func Lookup(name string) (Definition, bool) {
	def, ok := Registry[name]
	return def, ok
}

const (
	// lookbackDays bounds the backward walk.
	lookbackDays = 365
	// graceBudgetPerWeek misses are forgiven per calendar week.
	graceBudgetPerWeek = 1
	// MinCelebratoryLength is the shortest run worth persisting as a best.
	MinCelebratoryLength = 7
)

var milestones = []int{7, 14, 30, 60, 100, 365}

// State is the persisted per-(user, streak-type) row.
type State struct {
	UserID                 uuid.UUID  `json:"user_id" db:"user_id"`
	StreakType             string     `json:"streak_type" db:"streak_type"`
	CurrentStreakDays      int        `json:"current_streak_days" db:"current_streak_days"`
	CurrentStreakStartDate *string    `json:"current_streak_start_date" db:"current_streak_start_date"`
	PersonalBestDays       int        `json:"personal_best_days" db:"personal_best_days"`
	PersonalBestAchievedAt *time.Time `json:"personal_best_achieved_at" db:"personal_best_achieved_at"`
}

// Result is the computed streak status as of one date.
type Result struct {
	StreakType             string  `json:"streak_type"`
	CurrentStreakDays      int     `json:"current_streak_days"`
	CurrentStreakStartDate *string `json:"current_streak_start_date"`
	GraceDaysRemaining     int     `json:"grace_days_remaining"`
	PersonalBestDays       int     `json:"personal_best_days"`
	IsNewPersonalBest      bool    `json:"is_new_personal_best"`
	NextMilestone          int     `json:"next_milestone"`
	WeeklyConsistency      float64 `json:"weekly_consistency"`
}

// dayHits reports whether one date counts for the streak type. Absence
// streaks require an active day: a day with no entries at all proves nothing
// and is a miss, otherwise a user who stops logging would accrue an endless
// streak.
func dayHits(def Definition, dailyTargetMinutes int, days map[string]*entry.DayAggregate, date string) bool {
	day, ok := days[date]
	if def.Kind == KindAbsence {
		return ok && day.EntryCount > 0 && day.GroupMinutes(def.Group) == 0
	}
	if !ok {
		return false
	}
	return dailyTargetMinutes > 0 && day.GroupMinutes(def.Group) >= dailyTargetMinutes
}

// Walk computes the streak as of asOf. Today (asOf itself) is still in
// progress and never counts; the walk starts at yesterday and moves backward
// until a miss exhausts that week's grace budget or the lookback bound is hit.
// storedBest is the previously persisted personal best.
func Walk(def Definition, dailyTargetMinutes int, days map[string]*entry.DayAggregate, asOf string, storedBest int) *Result {
	result := &Result{
		StreakType:         def.Name,
		GraceDaysRemaining: graceBudgetPerWeek,
		PersonalBestDays:   storedBest,
	}

	graceUsed := make(map[string]int) // week start -> misses forgiven
	var startDate string

	date := timeline.AddDays(asOf, -1)
	for i := 0; i < lookbackDays; i++ {
		if dayHits(def, dailyTargetMinutes, days, date) {
			result.CurrentStreakDays++
			startDate = date
		} else {
			week := timeline.WeekStart(date)
			if graceUsed[week] >= graceBudgetPerWeek {
				break
			}
			graceUsed[week]++
		}
		date = timeline.AddDays(date, -1)
	}

	if result.CurrentStreakDays == 0 {
		// Nothing to bridge: an empty streak consumes no grace.
		result.WeeklyConsistency = weeklyConsistency(def, dailyTargetMinutes, days, asOf)
		result.NextMilestone = nextMilestone(0)
		return result
	}

	result.CurrentStreakStartDate = &startDate
	result.GraceDaysRemaining = graceBudgetPerWeek - graceUsed[timeline.WeekStart(asOf)]
	if result.GraceDaysRemaining < 0 {
		result.GraceDaysRemaining = 0
	}
	if result.CurrentStreakDays > storedBest {
		result.PersonalBestDays = result.CurrentStreakDays
		result.IsNewPersonalBest = true
	}
	result.NextMilestone = nextMilestone(result.CurrentStreakDays)
	result.WeeklyConsistency = weeklyConsistency(def, dailyTargetMinutes, days, asOf)
	return result
}

// weeklyConsistency is the hit ratio over the completed days of asOf's
// calendar week. The in-progress asOf day and future days are never counted
// as missed; on a Monday nothing has completed yet and the ratio is 0.
func weeklyConsistency(def Definition, dailyTargetMinutes int, days map[string]*entry.DayAggregate, asOf string) float64 {
	elapsed := timeline.DaysElapsedInWeek(asOf) - 1
	if elapsed <= 0 {
		return 0
	}
	hits := 0
	for _, date := range timeline.Window(timeline.AddDays(asOf, -1), elapsed) {
		if dayHits(def, dailyTargetMinutes, days, date) {
			hits++
		}
	}
	return float64(hits) / float64(elapsed)
}

func nextMilestone(current int) int {
	for _, m := range milestones {
		if m > current {
			return m
		}
	}
	return milestones[len(milestones)-1]
}
