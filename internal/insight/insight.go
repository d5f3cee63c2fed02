package insight

import (
	"fmt"
	"math"
	"sort"

	"timeMirrorAPI/internal/category"
	"timeMirrorAPI/internal/entry"
)

const (
	// MinQualifyingDays gates the whole analysis: below this, no statistics.
	MinQualifyingDays = 7
	// minGroupSize is the smallest split group worth comparing.
	minGroupSize = 3
	// smallEffect is the Cohen's d floor; anything weaker is noise.
	smallEffect = 0.2
	// durationDedupMargin: a duration insight must beat the kept presence
	// insight's effect size by this relative factor to survive dedup.
	durationDedupMargin = 1.2
)

// durationThresholds are the minute splits tried for duration insights.
var durationThresholds = []int{60, 120}

type InsightType string

const (
	TypePresence InsightType = "category_presence"
	TypeDuration InsightType = "category_duration"
)

type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
)

type Insight struct {
	Type              InsightType                 `json:"type"`
	Group             category.AggregatedCategory `json:"group"`
	ThresholdMinutes  int                         `json:"threshold_minutes,omitempty"`
	EffectSize        float64                     `json:"effect_size"`
	Direction         Direction                   `json:"direction"`
	PercentDifference float64                     `json:"percent_difference"`
	SampleWith        int                         `json:"sample_with"`
	SampleWithout     int                         `json:"sample_without"`
	Message           string                      `json:"message"`
}

type SessionPattern struct {
	FromPeriod entry.MoodPeriod `json:"from_period"`
	ToPeriod   entry.MoodPeriod `json:"to_period"`
	FromMood   entry.Mood       `json:"from_mood"`
	AvgToMood  float64          `json:"avg_to_mood"`
	SampleSize int              `json:"sample_size"`
	Message    string           `json:"message"`
}

type Result struct {
	Insights         []*Insight        `json:"insights"`
	SessionPatterns  []*SessionPattern `json:"session_patterns"`
	TotalDaysTracked int               `json:"total_days_tracked"`
	DaysNeeded       int               `json:"days_needed"`
	HasEnoughData    bool              `json:"has_enough_data"`
}

// Analyze runs the correlation pass over day aggregates. Only days with at
// least one mood check-in qualify; entry-only days are excluded entirely.
func Analyze(days map[string]*entry.DayAggregate) *Result {
	var qualifying []*entry.DayAggregate
	for _, day := range days {
		if day.HasMood {
			qualifying = append(qualifying, day)
		}
	}
	sort.Slice(qualifying, func(i, j int) bool { return qualifying[i].Date < qualifying[j].Date })

	result := &Result{
		Insights:         []*Insight{},
		SessionPatterns:  []*SessionPattern{},
		TotalDaysTracked: len(qualifying),
	}

	if len(qualifying) < MinQualifyingDays {
		result.DaysNeeded = MinQualifyingDays - len(qualifying)
		return result
	}
	result.HasEnoughData = true

	var candidates []*Insight
	for _, group := range category.Groups {
		if ins := presenceInsight(group, qualifying); ins != nil {
			candidates = append(candidates, ins)
		}
		for _, threshold := range durationThresholds {
			if ins := durationInsight(group, threshold, qualifying); ins != nil {
				candidates = append(candidates, ins)
			}
		}
	}

	result.Insights = dedupe(candidates)
	sort.SliceStable(result.Insights, func(i, j int) bool {
		return math.Abs(result.Insights[i].EffectSize) > math.Abs(result.Insights[j].EffectSize)
	})

	result.SessionPatterns = sessionPatterns(qualifying)
	return result
}

// CohensD is the difference of group means over the pooled standard
// deviation, with (n-1)-weighted pooling. Zero-variance groups yield 0.
func CohensD(group1, group2 []float64) float64 {
	n1, n2 := len(group1), len(group2)
	if n1 < 2 || n2 < 2 {
		return 0
	}
	mean1, mean2 := mean(group1), mean(group2)
	var1, var2 := sampleVariance(group1, mean1), sampleVariance(group2, mean2)

	pooled := math.Sqrt((float64(n1-1)*var1 + float64(n2-1)*var2) / float64(n1+n2-2))
	if pooled == 0 {
		return 0
	}
	return (mean1 - mean2) / pooled
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleVariance(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		diff := v - m
		sum += diff * diff
	}
	return sum / float64(len(values)-1)
}

func splitInsight(insType InsightType, group category.AggregatedCategory, threshold int, with, without []float64) *Insight {
	if len(with) < minGroupSize || len(without) < minGroupSize {
		return nil
	}
	d := CohensD(with, without)
	if math.Abs(d) < smallEffect {
		return nil
	}

	meanWith, meanWithout := mean(with), mean(without)
	percent := 0.0
	if meanWithout != 0 {
		percent = (meanWith - meanWithout) / meanWithout * 100
	}
	direction := DirectionPositive
	if meanWith < meanWithout {
		direction = DirectionNegative
	}

	ins := &Insight{
		Type:              insType,
		Group:             group,
		ThresholdMinutes:  threshold,
		EffectSize:        d,
		Direction:         direction,
		PercentDifference: percent,
		SampleWith:        len(with),
		SampleWithout:     len(without),
	}
	ins.Message = message(ins)
	return ins
}

func presenceInsight(group category.AggregatedCategory, days []*entry.DayAggregate) *Insight {
	var with, without []float64
	for _, day := range days {
		if day.GroupMinutes(group) > 0 {
			with = append(with, day.AvgMood)
		} else {
			without = append(without, day.AvgMood)
		}
	}
	return splitInsight(TypePresence, group, 0, with, without)
}

func durationInsight(group category.AggregatedCategory, thresholdMinutes int, days []*entry.DayAggregate) *Insight {
	var above, below []float64
	for _, day := range days {
		if day.GroupMinutes(group) >= thresholdMinutes {
			above = append(above, day.AvgMood)
		} else {
			below = append(below, day.AvgMood)
		}
	}
	return splitInsight(TypeDuration, group, thresholdMinutes, above, below)
}

func message(ins *Insight) string {
	trend := "better"
	if ins.Direction == DirectionNegative {
		trend = "worse"
	}
	pct := int(math.Round(math.Abs(ins.PercentDifference)))
	if ins.Type == TypeDuration {
		return fmt.Sprintf("Days with %d+ min of %s time average %d%% %s mood", ins.ThresholdMinutes, ins.Group, pct, trend)
	}
	return fmt.Sprintf("Days with any %s time average %d%% %s mood", ins.Group, pct, trend)
}

// dedupe keeps, per group, the strongest presence insight, plus the strongest
// duration insight only when it meaningfully beats the presence effect.
func dedupe(candidates []*Insight) []*Insight {
	bestPresence := make(map[category.AggregatedCategory]*Insight)
	bestDuration := make(map[category.AggregatedCategory]*Insight)

	for _, ins := range candidates {
		table := bestPresence
		if ins.Type == TypeDuration {
			table = bestDuration
		}
		current, ok := table[ins.Group]
		if !ok || math.Abs(ins.EffectSize) > math.Abs(current.EffectSize) {
			table[ins.Group] = ins
		}
	}

	kept := []*Insight{}
	for _, group := range category.Groups {
		presence, hasPresence := bestPresence[group]
		duration, hasDuration := bestDuration[group]
		if hasPresence {
			kept = append(kept, presence)
			if hasDuration && math.Abs(duration.EffectSize) >= math.Abs(presence.EffectSize)*durationDedupMargin {
				kept = append(kept, duration)
			}
			continue
		}
		if hasDuration {
			kept = append(kept, duration)
		}
	}
	return kept
}

func moodLabel(score float64) string {
	switch {
	case score < 1.5:
		return "low"
	case score < 2.5:
		return "okay"
	default:
		return "great"
	}
}

// sessionPatterns reports how moods carry across periods of the same day.
func sessionPatterns(days []*entry.DayAggregate) []*SessionPattern {
	pairs := []struct{ from, to entry.MoodPeriod }{
		{entry.PeriodMorning, entry.PeriodAfternoon},
		{entry.PeriodAfternoon, entry.PeriodEvening},
		{entry.PeriodMorning, entry.PeriodEvening},
	}
	moods := []entry.Mood{entry.MoodLow, entry.MoodOkay, entry.MoodGreat}

	patterns := []*SessionPattern{}
	for _, pair := range pairs {
		for _, fromMood := range moods {
			var toScores []float64
			for _, day := range days {
				if day.MoodByPeriod[pair.from] != fromMood {
					continue
				}
				toMood, ok := day.MoodByPeriod[pair.to]
				if !ok {
					continue
				}
				toScores = append(toScores, float64(toMood.Score()))
			}
			if len(toScores) < minGroupSize {
				continue
			}
			avg := mean(toScores)
			patterns = append(patterns, &SessionPattern{
				FromPeriod: pair.from,
				ToPeriod:   pair.to,
				FromMood:   fromMood,
				AvgToMood:  avg,
				SampleSize: len(toScores),
				Message: fmt.Sprintf("After a %s %s, your %s mood averages %s (%.1f)",
					fromMood, pair.from, pair.to, moodLabel(avg), avg),
			})
		}
	}
	return patterns
}
