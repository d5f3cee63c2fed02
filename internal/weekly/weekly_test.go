package weekly

import (
	"testing"

	"timeMirrorAPI/internal/category"
	"timeMirrorAPI/internal/entry"
	"timeMirrorAPI/internal/target"
)

func minutesPtr(v int) *int { return &v }

func growthTarget(group category.AggregatedCategory, weekly int) *target.Target {
	return &target.Target{Group: group, Direction: target.AtLeast, WeeklyTargetMinutes: minutesPtr(weekly)}
}

func limitTarget(group category.AggregatedCategory, weekly int) *target.Target {
	return &target.Target{Group: group, Direction: target.AtMost, WeeklyTargetMinutes: minutesPtr(weekly)}
}

func weekEntries(dates []string, cat category.RawCategory, minutes int) []*entry.TimeEntry {
	var entries []*entry.TimeEntry
	for _, date := range dates {
		entries = append(entries, &entry.TimeEntry{
			Date: date, Category: cat, DurationMinutes: minutes, Status: entry.StatusConfirmed,
		})
	}
	return entries
}

func TestGrowthTargetProgressPercentage(t *testing.T) {
	// 150 of a 300-minute growth target is exactly 50%.
	weekStart := "2025-06-02"
	entries := weekEntries([]string{"2025-06-02", "2025-06-03"}, category.DeepWork, 75)
	review := Compute(Input{
		WeekStart: weekStart,
		AsOf:      "2025-06-05",
		Days:      entry.BuildDayAggregates(entries, nil),
		Targets:   []*target.Target{growthTarget(category.GroupFocus, 300)},
	})

	if len(review.TargetProgress) != 1 {
		t.Fatalf("target progress count = %d", len(review.TargetProgress))
	}
	if got := review.TargetProgress[0].Percentage; got != 50 {
		t.Errorf("percentage = %d, want 50", got)
	}
	if review.TargetProgress[0].Met {
		t.Error("half-met growth target should not be met")
	}
}

func TestLimitTargetOverLimitValue(t *testing.T) {
	// 500 against a 420-minute limit: (1 - 500/420 + 0.5) * 100 rounds to 31.
	tgt := limitTarget(category.GroupEscape, 420)
	if got := progressValue(tgt, 500); got != 31 {
		t.Errorf("limit progress = %d, want 31", got)
	}
	// At the limit exactly: 50.
	if got := progressValue(tgt, 420); got != 50 {
		t.Errorf("at-limit progress = %d, want 50", got)
	}
	// Untouched limit clamps at 100.
	if got := progressValue(tgt, 0); got != 100 {
		t.Errorf("clean-limit progress = %d, want 100", got)
	}
}

func TestEvaluatedDaysExcludeToday(t *testing.T) {
	weekStart := "2025-06-02"
	review := Compute(Input{WeekStart: weekStart, AsOf: "2025-06-05"})
	if review.EvaluatedDays != 3 {
		t.Errorf("in-progress week evaluated days = %d, want 3 (Mon-Wed)", review.EvaluatedDays)
	}

	past := Compute(Input{WeekStart: "2025-05-26", AsOf: "2025-06-05"})
	if past.EvaluatedDays != 7 {
		t.Errorf("past week evaluated days = %d, want 7", past.EvaluatedDays)
	}
}

func TestZeroEntryDayIsNoDataForEveryTarget(t *testing.T) {
	weekStart := "2025-05-26"
	entries := weekEntries([]string{"2025-05-26"}, category.DeepWork, 60)
	review := Compute(Input{
		WeekStart: weekStart,
		AsOf:      "2025-06-05",
		Days:      entry.BuildDayAggregates(entries, nil),
		Targets: []*target.Target{
			growthTarget(category.GroupFocus, 300),
			limitTarget(category.GroupEscape, 420),
		},
	})

	for _, card := range review.Scorecards {
		for _, day := range card.Days {
			if day.Date == "2025-05-26" {
				continue
			}
			if day.Rating != RatingNoData {
				t.Errorf("%s target, empty day %s rated %s, want no_data", card.Direction, day.Date, day.Rating)
			}
		}
	}
}

func TestLimitScorecardRatings(t *testing.T) {
	weekStart := "2025-05-26"
	entries := []*entry.TimeEntry{
		// Clean active day: other activity, no escape.
		{Date: "2025-05-26", Category: category.DeepWork, DurationMinutes: 60, Status: entry.StatusConfirmed},
		// Light slip.
		{Date: "2025-05-27", Category: category.Scrolling, DurationMinutes: 20, Status: entry.StatusConfirmed},
		// Heavy slip.
		{Date: "2025-05-28", Category: category.Scrolling, DurationMinutes: 90, Status: entry.StatusConfirmed},
	}
	review := Compute(Input{
		WeekStart: weekStart,
		AsOf:      "2025-06-05",
		Days:      entry.BuildDayAggregates(entries, nil),
		Targets:   []*target.Target{limitTarget(category.GroupEscape, 420)},
	})

	ratings := map[string]DayRating{}
	for _, day := range review.Scorecards[0].Days {
		ratings[day.Date] = day.Rating
	}
	if ratings["2025-05-26"] != RatingGood {
		t.Errorf("clean day = %s, want good", ratings["2025-05-26"])
	}
	if ratings["2025-05-27"] != RatingNeutral {
		t.Errorf("20-minute day = %s, want neutral", ratings["2025-05-27"])
	}
	if ratings["2025-05-28"] != RatingRough {
		t.Errorf("90-minute day = %s, want rough", ratings["2025-05-28"])
	}
}

func TestWeekScoreBoundsAndLabel(t *testing.T) {
	weekStart := "2025-05-26"
	dates := []string{"2025-05-26", "2025-05-27", "2025-05-28", "2025-05-29", "2025-05-30", "2025-05-31", "2025-06-01"}
	entries := weekEntries(dates, category.DeepWork, 120)
	review := Compute(Input{
		WeekStart: weekStart,
		AsOf:      "2025-06-05",
		Days:      entry.BuildDayAggregates(entries, nil),
		Targets:   []*target.Target{growthTarget(category.GroupFocus, 300)},
	})

	// Active 7/7 (35) + target 100% (45) + all-good consistency (20) = 100.
	if review.WeekScore != 100 {
		t.Errorf("perfect week score = %d, want 100", review.WeekScore)
	}
	if review.WeekScoreLabel != "Exceptional" {
		t.Errorf("label = %q, want Exceptional", review.WeekScoreLabel)
	}
}

func TestEmptyWeek(t *testing.T) {
	review := Compute(Input{WeekStart: "2025-05-26", AsOf: "2025-06-05"})
	if review.WeekScore != 0 {
		t.Errorf("empty week score = %d, want 0", review.WeekScore)
	}
	if review.HasEnoughData {
		t.Error("empty week should report hasEnoughData=false")
	}
	if review.WeekScoreLabel != "Room to grow" {
		t.Errorf("label = %q", review.WeekScoreLabel)
	}
}

func TestNoTargetWeekGetsActivityCredit(t *testing.T) {
	weekStart := "2025-05-26"
	dates := []string{"2025-05-26", "2025-05-27", "2025-05-28", "2025-05-29", "2025-05-30", "2025-05-31", "2025-06-01"}
	entries := weekEntries(dates, category.DeepWork, 60)
	review := Compute(Input{
		WeekStart: weekStart,
		AsOf:      "2025-06-05",
		Days:      entry.BuildDayAggregates(entries, nil),
	})

	// Full coverage: 35 active + 30 activity credit, no consistency without targets.
	if review.WeekScore != 65 {
		t.Errorf("no-target full week score = %d, want 65", review.WeekScore)
	}
}

func TestHighlightsOrderAndCap(t *testing.T) {
	weekStart := "2025-05-26"
	dates := []string{"2025-05-26", "2025-05-27", "2025-05-28", "2025-05-29", "2025-05-30", "2025-05-31", "2025-06-01"}
	entries := weekEntries(dates, category.DeepWork, 120)
	prevEntries := weekEntries([]string{"2025-05-19", "2025-05-20"}, category.DeepWork, 100)

	review := Compute(Input{
		WeekStart: weekStart,
		AsOf:      "2025-06-05",
		Days:      entry.BuildDayAggregates(entries, nil),
		PrevDays:  entry.BuildDayAggregates(prevEntries, nil),
		Targets: []*target.Target{
			growthTarget(category.GroupFocus, 300),
			limitTarget(category.GroupEscape, 420),
		},
	})

	if len(review.Highlights) > 4 {
		t.Errorf("highlights = %d, want at most 4", len(review.Highlights))
	}
	if len(review.Highlights) == 0 || review.Highlights[0].Type != "active_streak" {
		t.Fatalf("first highlight should be the active streak, got %+v", review.Highlights)
	}
	types := map[string]bool{}
	for _, h := range review.Highlights {
		types[h.Type] = true
	}
	// 840 focus minutes vs 200 previous week is a favorable swing; the cap
	// must keep generation order: streak, two met targets, then the swing.
	if !types["target_met"] || !types["weekly_swing"] {
		t.Errorf("expected target_met and weekly_swing highlights, got %+v", review.Highlights)
	}
}

func TestPreviousWeekMinutes(t *testing.T) {
	prevEntries := weekEntries([]string{"2025-05-19"}, category.DeepWork, 200)
	review := Compute(Input{
		WeekStart: "2025-05-26",
		AsOf:      "2025-06-05",
		PrevDays:  entry.BuildDayAggregates(prevEntries, nil),
	})
	if review.PreviousWeekMinutes == nil || *review.PreviousWeekMinutes != 200 {
		t.Errorf("previous week minutes = %v, want 200", review.PreviousWeekMinutes)
	}

	noPrev := Compute(Input{WeekStart: "2025-05-26", AsOf: "2025-06-05"})
	if noPrev.PreviousWeekMinutes != nil {
		t.Error("no previous data should yield a nil previous-week total")
	}
}

func TestResolveWeekStart(t *testing.T) {
	got, err := ResolveWeekStart("", "2025-06-05")
	if err != nil || got != "2025-06-02" {
		t.Errorf("default week start = %s (%v), want 2025-06-02", got, err)
	}

	got, err = ResolveWeekStart("2025-05-28", "2025-06-05")
	if err != nil || got != "2025-05-26" {
		t.Errorf("normalized week start = %s (%v), want 2025-05-26", got, err)
	}

	if _, err := ResolveWeekStart("yesterday", "2025-06-05"); err == nil {
		t.Error("invalid weekStart should error")
	}
}
