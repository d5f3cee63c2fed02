package services

import (
	"testing"

	"timeMirrorAPI/internal/category"
	"timeMirrorAPI/internal/entry"
	"timeMirrorAPI/internal/metrics"
)

func TestBuildDailyMetricResponseShape(t *testing.T) {
	entries := []*entry.TimeEntry{
		// Strongest day of the window.
		{Date: "2025-06-10", Category: category.DeepWork, DurationMinutes: 240, Status: entry.StatusConfirmed},
		// Target date itself.
		{Date: "2025-06-12", Category: category.DeepWork, DurationMinutes: 120, Status: entry.StatusConfirmed},
		// One day in the comparison week before the trend window.
		{Date: "2025-06-01", Category: category.DeepWork, DurationMinutes: 240, Status: entry.StatusConfirmed},
	}
	days := entry.BuildDayAggregates(entries, nil)

	resp := buildDailyMetric(MetricFocus, "2025-06-12", 7, days)

	if len(resp.Trend) != 7 {
		t.Fatalf("trend length = %d, want 7", len(resp.Trend))
	}
	for _, point := range resp.Trend {
		if point.Label == "" || point.ColorBand == "" {
			t.Errorf("trend point %s missing label/color band: %+v", point.Date, point)
		}
	}

	byDate := map[string]TrendPoint{}
	for _, point := range resp.Trend {
		byDate[point.Date] = point
	}
	if got := byDate["2025-06-10"]; got.Value != 100 || got.Label != "excellent" || got.ColorBand != metrics.BandGreen {
		t.Errorf("best trend point = %+v, want value 100 excellent/green", got)
	}
	if got := byDate["2025-06-12"]; got.Value != 50 || got.Label != "fair" || got.ColorBand != metrics.BandAmber {
		t.Errorf("target trend point = %+v, want value 50 fair/amber", got)
	}

	if resp.Current != 50 {
		t.Errorf("current = %d, want 50", resp.Current)
	}
	if resp.Average != 21 {
		t.Errorf("average = %d, want 21 (150 over 7 days)", resp.Average)
	}

	if resp.PersonalBest == nil {
		t.Fatal("personal best should be set when the window has data")
	}
	if resp.PersonalBest.Value != 100 || resp.PersonalBest.Date != "2025-06-10" {
		t.Errorf("personal best = %+v, want 100 on 2025-06-10", resp.PersonalBest)
	}

	if resp.VsLastWeek == nil {
		t.Fatal("vs_last_week should be set when the prior week has data")
	}
	// Current window averages 150/7, the week before 100/7.
	if resp.VsLastWeek.Change != 7 || resp.VsLastWeek.Direction != "up" {
		t.Errorf("vs_last_week = %+v, want change 7 direction up", resp.VsLastWeek)
	}

	if _, ok := resp.Details.(*metrics.FocusResult); !ok {
		t.Errorf("details should carry the focus breakdown, got %T", resp.Details)
	}
}

func TestBuildDailyMetricEmptyWindow(t *testing.T) {
	resp := buildDailyMetric(MetricBalance, "2025-06-12", 7, nil)

	if resp.Current != 0 {
		t.Errorf("empty window current = %d, want 0", resp.Current)
	}
	if resp.PersonalBest != nil {
		t.Errorf("personal best = %+v, want nil without any logged day", resp.PersonalBest)
	}
	if resp.VsLastWeek != nil {
		t.Errorf("vs_last_week = %+v, want nil without a prior week", resp.VsLastWeek)
	}
	for _, point := range resp.Trend {
		if point.Value != 0 || point.Label != "low" {
			t.Errorf("empty trend point = %+v, want 0/low", point)
		}
	}
}
