package metrics

import (
	"math"

	"timeMirrorAPI/internal/category"
	"timeMirrorAPI/internal/entry"
)

// ColorBand is the traffic-light rendering hint attached to every score.
type ColorBand string

const (
	BandRed   ColorBand = "red"
	BandAmber ColorBand = "amber"
	BandGreen ColorBand = "green"
)

// bandStep is one row of a metric's threshold table. Rows are ordered by
// descending Min and must not overlap.
type bandStep struct {
	Min   int
	Label string
	Color ColorBand
}

// Per-metric band tables. Monotonic: a higher score never maps to a lower row.
var (
	focusBands = []bandStep{
		{80, "excellent", BandGreen},
		{55, "good", BandGreen},
		{30, "fair", BandAmber},
		{0, "low", BandRed},
	}
	balanceBands = []bandStep{
		{75, "excellent", BandGreen},
		{50, "good", BandGreen},
		{25, "fair", BandAmber},
		{0, "low", BandRed},
	}
	rhythmBands = []bandStep{
		{80, "excellent", BandGreen},
		{60, "good", BandGreen},
		{40, "fair", BandAmber},
		{0, "low", BandRed},
	}
)

func bandFor(table []bandStep, score int) (string, ColorBand) {
	for _, step := range table {
		if score >= step.Min {
			return step.Label, step.Color
		}
	}
	last := table[len(table)-1]
	return last.Label, last.Color
}

func clampScore(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 100 {
		return 100
	}
	return int(math.Round(v))
}

// ---------------------------------------------------------------------------
// Focus

// focusWeights values deep, demanding work above shallow task churn.
var focusWeights = map[category.RawCategory]float64{
	category.DeepWork:    1.0,
	category.Learning:    0.9,
	category.Creative:    0.85,
	category.Planning:    0.6,
	category.ShallowWork: 0.5,
}

// focusDailyTargetMinutes is the weighted-minute count that scores 100.
const focusDailyTargetMinutes = 240.0

type FocusCategoryBreakdown struct {
	Category        category.RawCategory `json:"category"`
	Minutes         int                  `json:"minutes"`
	Weight          float64              `json:"weight"`
	WeightedMinutes float64              `json:"weighted_minutes"`
}

type FocusResult struct {
	Score           int                      `json:"score"`
	Label           string                   `json:"label"`
	ColorBand       ColorBand                `json:"color_band"`
	WeightedMinutes float64                  `json:"weighted_minutes"`
	TargetMinutes   int                      `json:"target_minutes"`
	Breakdown       []FocusCategoryBreakdown `json:"breakdown"`
}

// CalculateFocus scores one day's confirmed entries against the weighted
// daily focus target. A day with no focus-category minutes scores 0.
func CalculateFocus(day *entry.DayAggregate) *FocusResult {
	result := &FocusResult{
		TargetMinutes: int(focusDailyTargetMinutes),
		Breakdown:     []FocusCategoryBreakdown{},
	}

	if day != nil {
		for _, raw := range category.Members(category.GroupFocus) {
			minutes := day.CategoryMinutes(raw)
			if minutes == 0 {
				continue
			}
			weight := focusWeights[raw]
			weighted := float64(minutes) * weight
			result.WeightedMinutes += weighted
			result.Breakdown = append(result.Breakdown, FocusCategoryBreakdown{
				Category:        raw,
				Minutes:         minutes,
				Weight:          weight,
				WeightedMinutes: weighted,
			})
		}
	}

	result.Score = clampScore(result.WeightedMinutes / focusDailyTargetMinutes * 100)
	result.Label, result.ColorBand = bandFor(focusBands, result.Score)
	return result
}

// ---------------------------------------------------------------------------
// Balance

type balanceFactorDef struct {
	Name          string
	Group         category.AggregatedCategory
	TargetMinutes int
}

var balanceFactors = []balanceFactorDef{
	{"body", category.GroupBody, 45},
	{"mind", category.GroupRecovery, 30},
	{"connection", category.GroupConnection, 45},
}

type BalanceFactor struct {
	Name          string `json:"name"`
	Minutes       int    `json:"minutes"`
	TargetMinutes int    `json:"target_minutes"`
	Score         int    `json:"score"`
}

type BalanceResult struct {
	Score     int             `json:"score"`
	Label     string          `json:"label"`
	ColorBand ColorBand       `json:"color_band"`
	Factors   []BalanceFactor `json:"factors"`
}

// CalculateBalance averages the body, mind and connection sub-scores. The
// average keeps the composite monotonic: more minutes in any factor can only
// raise it.
func CalculateBalance(day *entry.DayAggregate) *BalanceResult {
	result := &BalanceResult{Factors: make([]BalanceFactor, 0, len(balanceFactors))}

	sum := 0
	for _, def := range balanceFactors {
		minutes := 0
		if day != nil {
			minutes = day.GroupMinutes(def.Group)
		}
		score := 0
		if def.TargetMinutes > 0 {
			score = clampScore(float64(minutes) / float64(def.TargetMinutes) * 100)
		}
		sum += score
		result.Factors = append(result.Factors, BalanceFactor{
			Name:          def.Name,
			Minutes:       minutes,
			TargetMinutes: def.TargetMinutes,
			Score:         score,
		})
	}

	result.Score = int(math.Round(float64(sum) / float64(len(balanceFactors))))
	result.Label, result.ColorBand = bandFor(balanceBands, result.Score)
	return result
}

// ---------------------------------------------------------------------------
// Rhythm

type essentialDef struct {
	Name                   string
	Categories             []category.RawCategory
	WeeklyThresholdMinutes int
}

// Essentials are evaluated over a trailing 7-day window. Thresholds are weekly
// sums: sleep assumes ~6h/day logged, meals ~90min/day, movement follows the
// 150 min/week guideline.
var essentials = []essentialDef{
	{"sleep", []category.RawCategory{category.Sleep}, 2520},
	{"meals", []category.RawCategory{category.Meals}, 630},
	{"movement", []category.RawCategory{category.Exercise, category.Sports}, 150},
	{"recovery", []category.RawCategory{category.Rest}, 180},
	{"outdoors", []category.RawCategory{category.Outdoors}, 120},
}

type EssentialStatus struct {
	Name             string `json:"name"`
	MinutesInWindow  int    `json:"minutes_in_window"`
	ThresholdMinutes int    `json:"threshold_minutes"`
	Hit              bool   `json:"hit"`
}

type RhythmResult struct {
	Score      int               `json:"score"`
	Label      string            `json:"label"`
	ColorBand  ColorBand         `json:"color_band"`
	WindowDays int               `json:"window_days"`
	Essentials []EssentialStatus `json:"essentials"`
}

// CalculateRhythm checks each essential routine against its weekly threshold
// over the window's day aggregates (the trailing 7 dates ending on the target
// date). Missing days simply contribute zero minutes.
func CalculateRhythm(windowDates []string, days map[string]*entry.DayAggregate) *RhythmResult {
	result := &RhythmResult{
		WindowDays: len(windowDates),
		Essentials: make([]EssentialStatus, 0, len(essentials)),
	}

	hits := 0
	for _, def := range essentials {
		minutes := 0
		for _, date := range windowDates {
			day, ok := days[date]
			if !ok {
				continue
			}
			for _, raw := range def.Categories {
				minutes += day.CategoryMinutes(raw)
			}
		}
		hit := def.WeeklyThresholdMinutes > 0 && minutes >= def.WeeklyThresholdMinutes
		if hit {
			hits++
		}
		result.Essentials = append(result.Essentials, EssentialStatus{
			Name:             def.Name,
			MinutesInWindow:  minutes,
			ThresholdMinutes: def.WeeklyThresholdMinutes,
			Hit:              hit,
		})
	}

	if len(essentials) > 0 {
		result.Score = int(math.Round(float64(hits) / float64(len(essentials)) * 100))
	}
	result.Label, result.ColorBand = bandFor(rhythmBands, result.Score)
	return result
}
