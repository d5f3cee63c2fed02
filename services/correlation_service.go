package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeMirrorAPI/internal/insight"
	"timeMirrorAPI/internal/timeline"
)

// Correlation analysis window bounds. The default matches the app's insights
// screen; the cap keeps one request from scanning years of rows.
const (
	DefaultCorrelationDays = 30
	MaxCorrelationDays     = 90
)

type CorrelationService struct {
	db      *pgxpool.Pool
	entries *EntryService
}

func NewCorrelationService(db *pgxpool.Pool, entries *EntryService) *CorrelationService {
	return &CorrelationService{db: db, entries: entries}
}

// GetCorrelations runs the activity-mood analysis over the trailing window
// ending at asOf. Too little data is a valid result, not an error.
func (s *CorrelationService) GetCorrelations(ctx context.Context, userID uuid.UUID, windowDays int, asOf string) (*insight.Result, error) {
	if windowDays <= 0 {
		windowDays = DefaultCorrelationDays
	}
	if windowDays > MaxCorrelationDays {
		windowDays = MaxCorrelationDays
	}

	startDate := timeline.AddDays(asOf, -(windowDays - 1))
	days, err := s.entries.GetDayAggregates(ctx, userID, startDate, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load day aggregates: %w", err)
	}

	return insight.Analyze(days), nil
}
