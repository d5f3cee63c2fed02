package category

import "testing"

func TestPartitionIsTotalAndDisjoint(t *testing.T) {
	seen := make(map[RawCategory]int)
	for _, group := range Groups {
		for _, raw := range Members(group) {
			seen[raw]++
		}
	}

	for _, raw := range All {
		switch seen[raw] {
		case 0:
			t.Errorf("category %q belongs to no group", raw)
		case 1:
			// ok
		default:
			t.Errorf("category %q belongs to %d groups", raw, seen[raw])
		}
	}

	if len(seen) != len(All) {
		t.Errorf("expected %d mapped categories, got %d", len(All), len(seen))
	}
}

func TestAggregateTotal(t *testing.T) {
	for _, raw := range All {
		if _, ok := Aggregate(raw); !ok {
			t.Errorf("Aggregate(%q) has no mapping", raw)
		}
	}

	if _, ok := Aggregate("juggling"); ok {
		t.Error("unknown category should not map to a group")
	}
}

func TestAggregateByViewOmitsZeroGroups(t *testing.T) {
	perGroup := AggregateByView(map[RawCategory]int{
		DeepWork: 90,
		Learning: 30,
		Exercise: 45,
		Social:   0,
	})

	if got := perGroup[GroupFocus]; got != 120 {
		t.Errorf("focus minutes = %d, want 120", got)
	}
	if got := perGroup[GroupBody]; got != 45 {
		t.Errorf("body minutes = %d, want 45", got)
	}
	if _, present := perGroup[GroupConnection]; present {
		t.Error("zero-minute group must be omitted, not reported as 0")
	}
	if len(perGroup) != 2 {
		t.Errorf("expected 2 groups, got %d", len(perGroup))
	}
}
