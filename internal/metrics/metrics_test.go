package metrics

import (
	"testing"

	"timeMirrorAPI/internal/category"
	"timeMirrorAPI/internal/entry"
	"timeMirrorAPI/internal/timeline"
)

func dayWith(date string, minutes map[category.RawCategory]int) *entry.DayAggregate {
	var entries []*entry.TimeEntry
	for cat, m := range minutes {
		entries = append(entries, &entry.TimeEntry{
			Date: date, Category: cat, DurationMinutes: m, Status: entry.StatusConfirmed,
		})
	}
	return entry.BuildDayAggregates(entries, nil)[date]
}

func TestFocusWeightsDeepWorkAboveShallow(t *testing.T) {
	deep := CalculateFocus(dayWith("2025-05-01", map[category.RawCategory]int{category.DeepWork: 120}))
	shallow := CalculateFocus(dayWith("2025-05-01", map[category.RawCategory]int{category.ShallowWork: 120}))

	if deep.Score <= shallow.Score {
		t.Errorf("deep work (%d) should outscore shallow work (%d) for equal minutes", deep.Score, shallow.Score)
	}
	if deep.Score != 50 {
		t.Errorf("120 weighted deep minutes of 240 target = %d, want 50", deep.Score)
	}
}

func TestFocusClampsAt100(t *testing.T) {
	result := CalculateFocus(dayWith("2025-05-01", map[category.RawCategory]int{category.DeepWork: 600}))
	if result.Score != 100 {
		t.Errorf("score = %d, want clamp to 100", result.Score)
	}
	if len(result.Breakdown) != 1 || result.Breakdown[0].Category != category.DeepWork {
		t.Fatalf("breakdown = %+v", result.Breakdown)
	}
}

func TestZeroInputDeterminism(t *testing.T) {
	focus := CalculateFocus(nil)
	balance := CalculateBalance(nil)
	rhythm := CalculateRhythm(timeline.Window("2025-05-01", 7), nil)

	if focus.Score != 0 || balance.Score != 0 || rhythm.Score != 0 {
		t.Errorf("empty day scores = %d/%d/%d, want 0/0/0", focus.Score, balance.Score, rhythm.Score)
	}
	if focus.ColorBand != BandRed || balance.ColorBand != BandRed || rhythm.ColorBand != BandRed {
		t.Error("zero scores should land in the red band")
	}
}

func TestBalanceAverageIsMonotonic(t *testing.T) {
	base := CalculateBalance(dayWith("2025-05-01", map[category.RawCategory]int{
		category.Exercise: 30,
		category.Social:   20,
	}))
	more := CalculateBalance(dayWith("2025-05-01", map[category.RawCategory]int{
		category.Exercise: 30,
		category.Social:   20,
		category.Rest:     30,
	}))

	if more.Score < base.Score {
		t.Errorf("adding mind minutes lowered balance: %d -> %d", base.Score, more.Score)
	}
}

func TestBalanceFullDay(t *testing.T) {
	result := CalculateBalance(dayWith("2025-05-01", map[category.RawCategory]int{
		category.Exercise: 45,
		category.Rest:     30,
		category.Family:   45,
	}))
	if result.Score != 100 {
		t.Errorf("all factors at target = %d, want 100", result.Score)
	}
	for _, f := range result.Factors {
		if f.Score != 100 {
			t.Errorf("factor %s = %d, want 100", f.Name, f.Score)
		}
	}
}

func TestRhythmCountsEssentialsOverWindow(t *testing.T) {
	anchor := "2025-05-07"
	window := timeline.Window(anchor, 7)

	var entries []*entry.TimeEntry
	for _, date := range window {
		entries = append(entries,
			&entry.TimeEntry{Date: date, Category: category.Sleep, DurationMinutes: 400, Status: entry.StatusConfirmed},
			&entry.TimeEntry{Date: date, Category: category.Meals, DurationMinutes: 95, Status: entry.StatusConfirmed},
		)
	}
	// Movement only on two days, but 150 weekly minutes total.
	entries = append(entries,
		&entry.TimeEntry{Date: window[1], Category: category.Exercise, DurationMinutes: 80, Status: entry.StatusConfirmed},
		&entry.TimeEntry{Date: window[4], Category: category.Sports, DurationMinutes: 70, Status: entry.StatusConfirmed},
	)
	days := entry.BuildDayAggregates(entries, nil)

	result := CalculateRhythm(window, days)
	if result.Score != 60 {
		t.Errorf("3 of 5 essentials hit = %d, want 60", result.Score)
	}

	byName := map[string]EssentialStatus{}
	for _, ess := range result.Essentials {
		byName[ess.Name] = ess
	}
	if !byName["sleep"].Hit || !byName["meals"].Hit || !byName["movement"].Hit {
		t.Errorf("expected sleep, meals, movement hits: %+v", byName)
	}
	if byName["recovery"].Hit || byName["outdoors"].Hit {
		t.Error("unlogged essentials should miss")
	}
	if byName["movement"].MinutesInWindow != 150 {
		t.Errorf("movement minutes = %d, want 150", byName["movement"].MinutesInWindow)
	}
}

func TestBandTablesMonotonic(t *testing.T) {
	for name, table := range map[string][]bandStep{
		"focus": focusBands, "balance": balanceBands, "rhythm": rhythmBands,
	} {
		prev := 101
		for _, step := range table {
			if step.Min >= prev {
				t.Errorf("%s band table not strictly descending at min=%d", name, step.Min)
			}
			prev = step.Min
		}
		if table[len(table)-1].Min != 0 {
			t.Errorf("%s band table must cover score 0", name)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	huge := dayWith("2025-05-01", map[category.RawCategory]int{
		category.DeepWork: 1440, category.Exercise: 1440, category.Rest: 1440,
		category.Family: 1440, category.Sleep: 1440,
	})
	for _, score := range []int{
		CalculateFocus(huge).Score,
		CalculateBalance(huge).Score,
		CalculateRhythm([]string{"2025-05-01"}, map[string]*entry.DayAggregate{"2025-05-01": huge}).Score,
	} {
		if score < 0 || score > 100 {
			t.Errorf("score %d out of [0,100]", score)
		}
	}
}
