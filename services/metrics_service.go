package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeMirrorAPI/internal/entry"
	"timeMirrorAPI/internal/metrics"
	"timeMirrorAPI/internal/timeline"
)

const (
	MetricFocus   = "focus"
	MetricBalance = "balance"
	MetricRhythm  = "rhythm"
)

// rhythm looks back a further 6 days from each trend date, so the fetch
// window is widened by that much.
const rhythmLookback = 6

type TrendPoint struct {
	Date      string            `json:"date"`
	Value     int               `json:"value"`
	Label     string            `json:"label"`
	ColorBand metrics.ColorBand `json:"color_band"`
}

type PersonalBest struct {
	Value int    `json:"value"`
	Date  string `json:"date"`
}

type WeekDelta struct {
	Change    int    `json:"change"`
	Direction string `json:"direction"`
}

// DailyMetricResponse is the payload for one metric on one date, with its
// recent trend context.
type DailyMetricResponse struct {
	Metric       string            `json:"metric"`
	Date         string            `json:"date"`
	Current      int               `json:"current"`
	ColorBand    metrics.ColorBand `json:"color_band"`
	Label        string            `json:"label"`
	Average      int               `json:"average"`
	Trend        []TrendPoint      `json:"trend"`
	PersonalBest *PersonalBest     `json:"personal_best"`
	VsLastWeek   *WeekDelta        `json:"vs_last_week"`
	Details      interface{}       `json:"details"`
}

type MetricsService struct {
	db      *pgxpool.Pool
	entries *EntryService
}

func NewMetricsService(db *pgxpool.Pool, entries *EntryService) *MetricsService {
	return &MetricsService{db: db, entries: entries}
}

// ValidMetric reports whether name is a known daily metric.
func ValidMetric(name string) bool {
	return name == MetricFocus || name == MetricBalance || name == MetricRhythm
}

// GetDailyMetric computes one metric for date plus its rangeDays trend. The
// previous adjacent 7-day window is fetched too, for the week-over-week delta.
func (s *MetricsService) GetDailyMetric(ctx context.Context, userID uuid.UUID, metric, date string, rangeDays int) (*DailyMetricResponse, error) {
	if !ValidMetric(metric) {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}

	// One fetch covers the trend window, the comparison week before it, and
	// rhythm's trailing lookback.
	fetchDays := rangeDays + 7 + rhythmLookback
	startDate := timeline.AddDays(date, -(fetchDays - 1))
	days, err := s.entries.GetDayAggregates(ctx, userID, startDate, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load day aggregates: %w", err)
	}

	return buildDailyMetric(metric, date, rangeDays, days), nil
}

// buildDailyMetric assembles the response from already-fetched aggregates.
func buildDailyMetric(metric, date string, rangeDays int, days map[string]*entry.DayAggregate) *DailyMetricResponse {
	resp := &DailyMetricResponse{
		Metric: metric,
		Date:   date,
		Trend:  make([]TrendPoint, 0, rangeDays),
	}

	sum := 0
	var best *PersonalBest
	hasData := false
	for _, d := range timeline.Window(date, rangeDays) {
		value, label, band, _ := evaluate(metric, d, days)
		resp.Trend = append(resp.Trend, TrendPoint{Date: d, Value: value, Label: label, ColorBand: band})
		sum += value
		// Ties resolve to the most recent occurrence.
		if best == nil || value >= best.Value {
			best = &PersonalBest{Value: value, Date: d}
		}
		if day, ok := days[d]; ok && day.EntryCount > 0 {
			hasData = true
		}
	}
	if rangeDays > 0 {
		resp.Average = int(math.Round(float64(sum) / float64(rangeDays)))
	}
	if hasData {
		resp.PersonalBest = best
	}

	resp.VsLastWeek = weekOverWeek(metric, date, days)

	current, label, band, details := evaluate(metric, date, days)
	resp.Current, resp.Label, resp.ColorBand = current, label, band
	resp.Details = details

	return resp
}

// evaluate computes one metric for one date: score, status band and the full
// breakdown payload.
func evaluate(metric, date string, days map[string]*entry.DayAggregate) (int, string, metrics.ColorBand, interface{}) {
	switch metric {
	case MetricFocus:
		result := metrics.CalculateFocus(days[date])
		return result.Score, result.Label, result.ColorBand, result
	case MetricBalance:
		result := metrics.CalculateBalance(days[date])
		return result.Score, result.Label, result.ColorBand, result
	case MetricRhythm:
		result := metrics.CalculateRhythm(timeline.Window(date, 7), days)
		return result.Score, result.Label, result.ColorBand, result
	}
	return 0, "", "", nil
}

// weekOverWeek compares the 7-day average ending at date against the 7-day
// average before that. Nil when the earlier week has no logged days at all.
func weekOverWeek(metric, date string, days map[string]*entry.DayAggregate) *WeekDelta {
	current, previous := timeline.AdjacentWindows(date, 7)

	prevActive := false
	for _, d := range previous {
		if day, ok := days[d]; ok && day.EntryCount > 0 {
			prevActive = true
			break
		}
	}
	if !prevActive {
		return nil
	}

	avg := func(window []string) float64 {
		sum := 0
		for _, d := range window {
			value, _, _, _ := evaluate(metric, d, days)
			sum += value
		}
		return float64(sum) / float64(len(window))
	}

	change := int(math.Round(avg(current) - avg(previous)))
	direction := "flat"
	switch {
	case change > 0:
		direction = "up"
	case change < 0:
		direction = "down"
	}
	return &WeekDelta{Change: change, Direction: direction}
}
