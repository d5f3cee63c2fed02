package entry

import (
	"time"

	"github.com/google/uuid"

	"timeMirrorAPI/internal/category"
)

type EntryStatus string

const (
	StatusConfirmed EntryStatus = "confirmed"
	StatusPending   EntryStatus = "pending"
)

// TimeEntry is one logged block of time. Date is the user-local calendar day
// string, never a timestamp.
type TimeEntry struct {
	ID              uuid.UUID            `json:"id" db:"id"`
	UserID          uuid.UUID            `json:"user_id" db:"user_id"`
	Date            string               `json:"date" db:"date"`
	Category        category.RawCategory `json:"category" db:"category"`
	DurationMinutes int                  `json:"duration_minutes" db:"duration_minutes"`
	StartTime       string               `json:"start_time" db:"start_time"`
	EndTime         string               `json:"end_time" db:"end_time"`
	Status          EntryStatus          `json:"status" db:"status"`
	CreatedAt       time.Time            `json:"created_at" db:"created_at"`
}

type MoodPeriod string

const (
	PeriodMorning   MoodPeriod = "morning"
	PeriodAfternoon MoodPeriod = "afternoon"
	PeriodEvening   MoodPeriod = "evening"
)

// Periods in chronological order.
var Periods = []MoodPeriod{PeriodMorning, PeriodAfternoon, PeriodEvening}

type Mood string

const (
	MoodLow   Mood = "low"
	MoodOkay  Mood = "okay"
	MoodGreat Mood = "great"
)

// Score maps the ordinal mood onto 1..3.
func (m Mood) Score() int {
	switch m {
	case MoodLow:
		return 1
	case MoodOkay:
		return 2
	case MoodGreat:
		return 3
	}
	return 0
}

// MoodCheckin is one mood report. At most one exists per (user, date, period).
type MoodCheckin struct {
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Date      string     `json:"date" db:"date"`
	Period    MoodPeriod `json:"period" db:"period"`
	Mood      Mood       `json:"mood" db:"mood"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// DayAggregate is the ephemeral per-day roll-up every analysis works from.
// It is rebuilt on each request and never persisted.
type DayAggregate struct {
	Date           string                                  `json:"date"`
	PerCategory    map[category.RawCategory]int            `json:"per_category"`
	PerGroup       map[category.AggregatedCategory]int     `json:"per_group"`
	TotalMinutes   int                                     `json:"total_minutes"`
	EntryCount     int                                     `json:"entry_count"`
	MoodByPeriod   map[MoodPeriod]Mood                     `json:"mood_by_period"`
	AvgMood        float64                                 `json:"avg_mood"`
	HasMood        bool                                    `json:"has_mood"`
}

// GroupMinutes returns the minutes logged in one aggregated group.
func (d *DayAggregate) GroupMinutes(group category.AggregatedCategory) int {
	return d.PerGroup[group]
}

// CategoryMinutes returns the minutes logged in one raw category.
func (d *DayAggregate) CategoryMinutes(raw category.RawCategory) int {
	return d.PerCategory[raw]
}

// BuildDayAggregates groups confirmed entries and mood check-ins by calendar
// date. Every date that has at least one confirmed entry or one check-in gets
// an aggregate; pending entries are ignored.
func BuildDayAggregates(entries []*TimeEntry, moods []*MoodCheckin) map[string]*DayAggregate {
	days := make(map[string]*DayAggregate)

	get := func(date string) *DayAggregate {
		day, ok := days[date]
		if !ok {
			day = &DayAggregate{
				Date:         date,
				PerCategory:  make(map[category.RawCategory]int),
				MoodByPeriod: make(map[MoodPeriod]Mood),
			}
			days[date] = day
		}
		return day
	}

	for _, e := range entries {
		if e.Status != StatusConfirmed || e.DurationMinutes <= 0 {
			continue
		}
		day := get(e.Date)
		day.PerCategory[e.Category] += e.DurationMinutes
		day.TotalMinutes += e.DurationMinutes
		day.EntryCount++
	}

	for _, m := range moods {
		day := get(m.Date)
		day.MoodByPeriod[m.Period] = m.Mood
	}

	for _, day := range days {
		day.PerGroup = category.AggregateByView(day.PerCategory)
		if len(day.MoodByPeriod) > 0 {
			sum := 0
			for _, mood := range day.MoodByPeriod {
				sum += mood.Score()
			}
			day.AvgMood = float64(sum) / float64(len(day.MoodByPeriod))
			day.HasMood = true
		}
	}

	return days
}
