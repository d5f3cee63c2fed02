package category

// RawCategory is one of the activity categories a time entry can be logged under.
type RawCategory string

const (
	DeepWork    RawCategory = "deep_work"
	ShallowWork RawCategory = "shallow_work"
	Learning    RawCategory = "learning"
	Creative    RawCategory = "creative"
	Planning    RawCategory = "planning"

	Admin    RawCategory = "admin"
	Meetings RawCategory = "meetings"
	Errands  RawCategory = "errands"
	Chores   RawCategory = "chores"

	Exercise RawCategory = "exercise"
	Sports   RawCategory = "sports"
	Meals    RawCategory = "meals"

	Sleep    RawCategory = "sleep"
	Rest     RawCategory = "rest"
	Outdoors RawCategory = "outdoors"

	Social RawCategory = "social"
	Family RawCategory = "family"

	Entertainment RawCategory = "entertainment"
	Scrolling     RawCategory = "scrolling"
)

// AggregatedCategory is one of the six coarse "energy view" groups.
type AggregatedCategory string

const (
	GroupFocus      AggregatedCategory = "focus"
	GroupOps        AggregatedCategory = "ops"
	GroupBody       AggregatedCategory = "body"
	GroupRecovery   AggregatedCategory = "recovery"
	GroupConnection AggregatedCategory = "connection"
	GroupEscape     AggregatedCategory = "escape"
)

// All lists every raw category. Adding a category here without extending
// groupOf breaks the partition test.
var All = []RawCategory{
	DeepWork, ShallowWork, Learning, Creative, Planning,
	Admin, Meetings, Errands, Chores,
	Exercise, Sports, Meals,
	Sleep, Rest, Outdoors,
	Social, Family,
	Entertainment, Scrolling,
}

// Groups lists the aggregated categories in display order.
var Groups = []AggregatedCategory{
	GroupFocus, GroupOps, GroupBody, GroupRecovery, GroupConnection, GroupEscape,
}

var groupOf = map[RawCategory]AggregatedCategory{
	DeepWork:    GroupFocus,
	ShallowWork: GroupFocus,
	Learning:    GroupFocus,
	Creative:    GroupFocus,
	Planning:    GroupFocus,

	Admin:    GroupOps,
	Meetings: GroupOps,
	Errands:  GroupOps,
	Chores:   GroupOps,

	Exercise: GroupBody,
	Sports:   GroupBody,
	Meals:    GroupBody,

	Sleep:    GroupRecovery,
	Rest:     GroupRecovery,
	Outdoors: GroupRecovery,

	Social: GroupConnection,
	Family: GroupConnection,

	Entertainment: GroupEscape,
	Scrolling:     GroupEscape,
}

// Aggregate maps a raw category to its energy-view group.
// The mapping is total over All.
func Aggregate(raw RawCategory) (AggregatedCategory, bool) {
	group, ok := groupOf[raw]
	return group, ok
}

// IsValid reports whether raw is a known category.
func IsValid(raw RawCategory) bool {
	_, ok := groupOf[raw]
	return ok
}

// Members returns the raw categories belonging to the given group.
func Members(group AggregatedCategory) []RawCategory {
	var members []RawCategory
	for _, raw := range All {
		if groupOf[raw] == group {
			members = append(members, raw)
		}
	}
	return members
}

// AggregateByView rolls per-category minutes up into the six energy groups.
// Groups that accumulated no minutes are omitted from the result.
func AggregateByView(perCategory map[RawCategory]int) map[AggregatedCategory]int {
	perGroup := make(map[AggregatedCategory]int)
	for raw, minutes := range perCategory {
		group, ok := groupOf[raw]
		if !ok || minutes == 0 {
			continue
		}
		perGroup[group] += minutes
	}
	return perGroup
}
