package target

import (
	"testing"

	"timeMirrorAPI/internal/category"
)

func TestWeeklyMinutesFallsBackToDefaults(t *testing.T) {
	set := 500
	withMinutes := &Target{Group: category.GroupFocus, Direction: AtLeast, WeeklyTargetMinutes: &set}
	if got := withMinutes.WeeklyMinutes(); got != 500 {
		t.Errorf("explicit minutes = %d, want 500", got)
	}

	unset := &Target{Group: category.GroupBody, Direction: AtLeast}
	if got := unset.WeeklyMinutes(); got != 150 {
		t.Errorf("body default = %d, want 150", got)
	}

	zero := 0
	zeroed := &Target{Group: category.GroupBody, Direction: AtLeast, WeeklyTargetMinutes: &zero}
	if got := zeroed.WeeklyMinutes(); got != 150 {
		t.Errorf("zero minutes should fall back to the default, got %d", got)
	}
}

func TestDailyMinutesNeverZero(t *testing.T) {
	small := 3
	tgt := &Target{Group: category.GroupConnection, Direction: AtLeast, WeeklyTargetMinutes: &small}
	if got := tgt.DailyMinutes(); got != 1 {
		t.Errorf("tiny weekly goal daily threshold = %d, want floor of 1", got)
	}

	week := 700
	tgt = &Target{Group: category.GroupFocus, Direction: AtLeast, WeeklyTargetMinutes: &week}
	if got := tgt.DailyMinutes(); got != 100 {
		t.Errorf("daily threshold = %d, want 100", got)
	}
}

func TestIsGrowth(t *testing.T) {
	if !(&Target{Direction: AtLeast}).IsGrowth() {
		t.Error("at_least should be a growth target")
	}
	if (&Target{Direction: AtMost}).IsGrowth() {
		t.Error("at_most should not be a growth target")
	}
}

func TestDefaultWeeklyMinutesCoversEveryGroup(t *testing.T) {
	for _, group := range category.Groups {
		if DefaultWeeklyMinutes(group) <= 0 {
			t.Errorf("group %s has no positive default", group)
		}
	}
	if got := DefaultWeeklyMinutes(category.AggregatedCategory("nope")); got != fallbackWeeklyMinutes {
		t.Errorf("unknown group default = %d, want fallback %d", got, fallbackWeeklyMinutes)
	}
}
