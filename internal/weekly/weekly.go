package weekly

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"timeMirrorAPI/internal/category"
	"timeMirrorAPI/internal/entry"
	"timeMirrorAPI/internal/target"
	"timeMirrorAPI/internal/timeline"
)

// Component weights of the composite week score.
const (
	activeDaysWeight  = 35
	targetWeight      = 45
	consistencyWeight = 20

	// noTargetActivityCredit substitutes for the target component when the
	// user has no active intentions, so goal-less weeks are not zeroed.
	noTargetActivityCredit = 30

	// maxHighlights caps the highlight list, in generation order.
	maxHighlights = 4

	// limitNeutralMinutes is the daily tolerance for limit-target scorecards.
	limitNeutralMinutes = 30
)

type DayRating string

const (
	RatingGood    DayRating = "good"
	RatingNeutral DayRating = "neutral"
	RatingRough   DayRating = "rough"
	RatingNoData  DayRating = "no_data"
)

type ScorecardDay struct {
	Date   string    `json:"date"`
	Rating DayRating `json:"rating"`
}

type Scorecard struct {
	Group     category.AggregatedCategory `json:"group"`
	Direction target.Direction            `json:"direction"`
	Days      []ScorecardDay              `json:"days"`
}

type TargetProgress struct {
	Group          category.AggregatedCategory `json:"group"`
	Direction      target.Direction            `json:"direction"`
	TargetMinutes  int                         `json:"target_minutes"`
	CurrentMinutes int                         `json:"current_minutes"`
	Percentage     int                         `json:"percentage"`
	Met            bool                        `json:"met"`
}

type Highlight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type GroupMinutes struct {
	Group   category.AggregatedCategory `json:"group"`
	Minutes int                         `json:"minutes"`
}

// Review is the full weekly review payload.
type Review struct {
	WeekStart           string           `json:"week_start"`
	WeekEnd             string           `json:"week_end"`
	WeekScore           int              `json:"week_score"`
	WeekScoreLabel      string           `json:"week_score_label"`
	ActiveDays          int              `json:"active_days"`
	EvaluatedDays       int              `json:"evaluated_days"`
	Highlights          []Highlight      `json:"highlights"`
	TotalMinutes        int              `json:"total_minutes"`
	EntryCount          int              `json:"entry_count"`
	PreviousWeekMinutes *int             `json:"previous_week_minutes"`
	HasEnoughData       bool             `json:"has_enough_data"`
	TargetProgress      []TargetProgress `json:"target_progress"`
	Scorecards          []Scorecard      `json:"scorecards"`
	CategoryBreakdown   []GroupMinutes   `json:"category_breakdown"`
	Insights            []string         `json:"insights"`
	Commentary          *string          `json:"commentary"`
}

// Input carries everything Compute needs; nothing reads the system clock.
type Input struct {
	WeekStart string
	AsOf      string
	Days      map[string]*entry.DayAggregate
	PrevDays  map[string]*entry.DayAggregate
	Targets   []*target.Target
}

var scoreLabels = []struct {
	Min   int
	Label string
}{
	{85, "Exceptional"},
	{70, "Strong"},
	{55, "Solid"},
	{40, "Building"},
	{0, "Room to grow"},
}

func scoreLabel(score int) string {
	for _, step := range scoreLabels {
		if score >= step.Min {
			return step.Label
		}
	}
	return scoreLabels[len(scoreLabels)-1].Label
}

// Compute builds the weekly review. Evaluated days exclude the in-progress
// asOf day (its data is incomplete); for past weeks all seven days count.
func Compute(in Input) *Review {
	weekDates := timeline.WeekDates(in.WeekStart)
	review := &Review{
		WeekStart:      in.WeekStart,
		WeekEnd:        weekDates[6],
		Highlights:     []Highlight{},
		TargetProgress: []TargetProgress{},
		Scorecards:     []Scorecard{},
		Insights:       []string{},
	}

	var evaluated []string
	for _, date := range weekDates {
		if timeline.Before(date, in.AsOf) {
			evaluated = append(evaluated, date)
		}
	}
	review.EvaluatedDays = len(evaluated)

	for _, date := range weekDates {
		day, ok := in.Days[date]
		if !ok || timeline.Before(in.AsOf, date) {
			continue
		}
		review.TotalMinutes += day.TotalMinutes
		review.EntryCount += day.EntryCount
	}
	for _, date := range evaluated {
		if day, ok := in.Days[date]; ok && day.EntryCount > 0 {
			review.ActiveDays++
		}
	}

	prevTotal := 0
	hasPrev := false
	for _, day := range in.PrevDays {
		prevTotal += day.TotalMinutes
		if day.EntryCount > 0 {
			hasPrev = true
		}
	}
	if hasPrev {
		review.PreviousWeekMinutes = &prevTotal
	}

	review.TargetProgress = computeTargetProgress(in, weekDates)
	review.Scorecards = computeScorecards(in, evaluated)
	review.CategoryBreakdown = computeBreakdown(in.Days)

	review.WeekScore = computeScore(review, in.Targets)
	review.WeekScoreLabel = scoreLabel(review.WeekScore)
	review.Highlights = computeHighlights(review, in)
	review.Insights = computeInsights(review)
	review.HasEnoughData = review.EvaluatedDays > 0 && review.ActiveDays > 0

	return review
}

// progressValue maps weekly minutes against a target onto [0,100].
// Growth caps at the goal; limits score 50 exactly at the limit and degrade
// past it.
func progressValue(t *target.Target, currentMinutes int) int {
	targetMinutes := t.WeeklyMinutes()
	if targetMinutes <= 0 {
		return 0
	}
	ratio := float64(currentMinutes) / float64(targetMinutes)
	if t.IsGrowth() {
		if ratio > 1 {
			ratio = 1
		}
		return int(math.Round(ratio * 100))
	}
	v := (1 - ratio + 0.5) * 100
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return int(math.Round(v))
}

func computeTargetProgress(in Input, weekDates []string) []TargetProgress {
	progress := make([]TargetProgress, 0, len(in.Targets))
	for _, t := range in.Targets {
		current := 0
		for _, date := range weekDates {
			if timeline.Before(in.AsOf, date) {
				continue
			}
			if day, ok := in.Days[date]; ok {
				current += day.GroupMinutes(t.Group)
			}
		}
		weeklyTarget := t.WeeklyMinutes()
		met := current >= weeklyTarget
		if !t.IsGrowth() {
			met = current <= weeklyTarget
		}
		progress = append(progress, TargetProgress{
			Group:          t.Group,
			Direction:      t.Direction,
			TargetMinutes:  weeklyTarget,
			CurrentMinutes: current,
			Percentage:     progressValue(t, current),
			Met:            met,
		})
	}
	return progress
}

func rateDay(t *target.Target, day *entry.DayAggregate) DayRating {
	if day == nil || day.EntryCount == 0 {
		return RatingNoData
	}
	minutes := day.GroupMinutes(t.Group)
	if !t.IsGrowth() {
		switch {
		case minutes == 0:
			return RatingGood
		case minutes <= limitNeutralMinutes:
			return RatingNeutral
		default:
			return RatingRough
		}
	}
	daily := t.DailyMinutes()
	switch {
	case minutes >= daily:
		return RatingGood
	case minutes > 0:
		return RatingNeutral
	default:
		return RatingRough
	}
}

func computeScorecards(in Input, evaluated []string) []Scorecard {
	cards := make([]Scorecard, 0, len(in.Targets))
	for _, t := range in.Targets {
		card := Scorecard{Group: t.Group, Direction: t.Direction, Days: make([]ScorecardDay, 0, len(evaluated))}
		for _, date := range evaluated {
			card.Days = append(card.Days, ScorecardDay{Date: date, Rating: rateDay(t, in.Days[date])})
		}
		cards = append(cards, card)
	}
	return cards
}

func computeBreakdown(days map[string]*entry.DayAggregate) []GroupMinutes {
	totals := make(map[category.AggregatedCategory]int)
	for _, day := range days {
		for group, minutes := range day.PerGroup {
			totals[group] += minutes
		}
	}
	breakdown := make([]GroupMinutes, 0, len(totals))
	for _, group := range category.Groups {
		if minutes, ok := totals[group]; ok {
			breakdown = append(breakdown, GroupMinutes{Group: group, Minutes: minutes})
		}
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Minutes > breakdown[j].Minutes
	})
	return breakdown
}

func computeScore(review *Review, targets []*target.Target) int {
	score := 0.0

	if review.EvaluatedDays > 0 {
		score += math.Round(float64(review.ActiveDays) / float64(review.EvaluatedDays) * activeDaysWeight)
	}

	if len(review.TargetProgress) > 0 {
		sum := 0
		for _, p := range review.TargetProgress {
			sum += p.Percentage
		}
		avg := float64(sum) / float64(len(review.TargetProgress))
		score += math.Round(avg / 100 * targetWeight)
	} else if review.EvaluatedDays > 0 {
		coverage := float64(review.ActiveDays) / float64(review.EvaluatedDays)
		if coverage > 1 {
			coverage = 1
		}
		score += math.Round(coverage * noTargetActivityCredit)
	}

	maxGood := len(targets) * review.ActiveDays
	if maxGood > 0 {
		good := 0
		for _, card := range review.Scorecards {
			for _, day := range card.Days {
				if day.Rating == RatingGood {
					good++
				}
			}
		}
		ratio := float64(good) / float64(maxGood)
		if ratio > 1 {
			ratio = 1
		}
		score += math.Round(ratio * consistencyWeight)
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

func groupTitle(group category.AggregatedCategory) string {
	return strings.ToUpper(string(group[:1])) + string(group[1:])
}

func computeHighlights(review *Review, in Input) []Highlight {
	var highlights []Highlight

	if review.ActiveDays >= 6 {
		highlights = append(highlights, Highlight{
			Type:    "active_streak",
			Message: fmt.Sprintf("Active %d of %d days this week", review.ActiveDays, review.EvaluatedDays),
		})
	}

	for _, p := range review.TargetProgress {
		if !p.Met {
			continue
		}
		msg := fmt.Sprintf("Hit your weekly %s goal (%d of %d min)", p.Group, p.CurrentMinutes, p.TargetMinutes)
		if p.Direction == target.AtMost {
			msg = fmt.Sprintf("Stayed within your %s limit (%d of %d min)", p.Group, p.CurrentMinutes, p.TargetMinutes)
		}
		highlights = append(highlights, Highlight{Type: "target_met", Message: msg})
	}

	highlights = append(highlights, swingHighlights(in)...)

	if best, minutes := bestProductiveDay(in); best != "" && minutes > 0 {
		t, err := timeline.Parse(best)
		if err == nil {
			highlights = append(highlights, Highlight{
				Type:    "best_day",
				Message: fmt.Sprintf("%s was your strongest day (%d productive min)", t.Format("Monday"), minutes),
			})
		}
	}

	if len(highlights) > maxHighlights {
		highlights = highlights[:maxHighlights]
	}
	return highlights
}

// swingHighlights reports week-over-week target-group swings of at least 20%
// in the favorable direction.
func swingHighlights(in Input) []Highlight {
	var highlights []Highlight
	for _, t := range in.Targets {
		current, previous := 0, 0
		for _, day := range in.Days {
			current += day.GroupMinutes(t.Group)
		}
		for _, day := range in.PrevDays {
			previous += day.GroupMinutes(t.Group)
		}
		if previous == 0 {
			continue
		}
		change := (float64(current) - float64(previous)) / float64(previous) * 100
		favorable := change >= 20 && t.IsGrowth() || change <= -20 && !t.IsGrowth()
		if !favorable {
			continue
		}
		direction := "up"
		if change < 0 {
			direction = "down"
			change = -change
		}
		highlights = append(highlights, Highlight{
			Type:    "weekly_swing",
			Message: fmt.Sprintf("%s time %s %d%% vs last week", groupTitle(t.Group), direction, int(math.Round(change))),
		})
	}
	return highlights
}

// bestProductiveDay picks the day with the most focus+ops minutes.
func bestProductiveDay(in Input) (string, int) {
	bestDate, bestMinutes := "", 0
	for _, date := range timeline.WeekDates(in.WeekStart) {
		day, ok := in.Days[date]
		if !ok || timeline.Before(in.AsOf, date) {
			continue
		}
		minutes := day.GroupMinutes(category.GroupFocus) + day.GroupMinutes(category.GroupOps)
		if minutes > bestMinutes {
			bestDate, bestMinutes = date, minutes
		}
	}
	return bestDate, bestMinutes
}

func computeInsights(review *Review) []string {
	insights := []string{}

	if review.TotalMinutes > 0 && len(review.CategoryBreakdown) > 0 {
		top := review.CategoryBreakdown[0]
		share := int(math.Round(float64(top.Minutes) / float64(review.TotalMinutes) * 100))
		insights = append(insights, fmt.Sprintf("%s made up %d%% of your logged time", groupTitle(top.Group), share))
	}

	if review.PreviousWeekMinutes != nil && *review.PreviousWeekMinutes > 0 {
		change := (float64(review.TotalMinutes) - float64(*review.PreviousWeekMinutes)) /
			float64(*review.PreviousWeekMinutes) * 100
		switch {
		case change >= 10:
			insights = append(insights, fmt.Sprintf("You logged %d%% more time than last week", int(math.Round(change))))
		case change <= -10:
			insights = append(insights, fmt.Sprintf("You logged %d%% less time than last week", int(math.Round(-change))))
		}
	}

	if review.EvaluatedDays > 0 && review.ActiveDays < review.EvaluatedDays {
		insights = append(insights, fmt.Sprintf("%d of %d evaluated days had no entries",
			review.EvaluatedDays-review.ActiveDays, review.EvaluatedDays))
	}

	return insights
}

// ResolveWeekStart normalizes an optional weekStart parameter: empty means
// the week containing asOf.
func ResolveWeekStart(weekStart, asOf string) (string, error) {
	if weekStart == "" {
		return timeline.WeekStart(asOf), nil
	}
	if _, err := time.Parse(timeline.DateLayout, weekStart); err != nil {
		return "", fmt.Errorf("invalid weekStart %q: %w", weekStart, err)
	}
	return timeline.WeekStart(weekStart), nil
}
