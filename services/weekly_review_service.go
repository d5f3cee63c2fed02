package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeMirrorAPI/internal/timeline"
	"timeMirrorAPI/internal/weekly"
)

type WeeklyReviewService struct {
	db         *pgxpool.Pool
	entries    *EntryService
	reflection ReflectionProvider
}

func NewWeeklyReviewService(db *pgxpool.Pool, entries *EntryService) *WeeklyReviewService {
	return &WeeklyReviewService{db: db, entries: entries}
}

// SetReflectionProvider wires the optional commentary collaborator. Without
// one, reviews simply carry a null commentary.
func (s *WeeklyReviewService) SetReflectionProvider(p ReflectionProvider) {
	s.reflection = p
}

// GetWeeklyReview assembles the review for the week containing (or starting
// at) weekStart, evaluated as of asOf.
func (s *WeeklyReviewService) GetWeeklyReview(ctx context.Context, userID uuid.UUID, weekStart, asOf string) (*weekly.Review, error) {
	start, err := weekly.ResolveWeekStart(weekStart, asOf)
	if err != nil {
		return nil, err
	}
	weekEnd := timeline.AddDays(start, 6)
	prevStart := timeline.AddDays(start, -7)
	prevEnd := timeline.AddDays(start, -1)

	days, err := s.entries.GetDayAggregates(ctx, userID, start, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load week aggregates: %w", err)
	}
	prevDays, err := s.entries.GetDayAggregates(ctx, userID, prevStart, prevEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous week aggregates: %w", err)
	}
	targets, err := s.entries.GetTargets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load targets: %w", err)
	}

	review := weekly.Compute(weekly.Input{
		WeekStart: start,
		AsOf:      asOf,
		Days:      days,
		PrevDays:  prevDays,
		Targets:   targets,
	})

	review.Commentary = s.commentary(ctx, review)
	return review, nil
}

// commentary asks the reflection collaborator for prose. Any failure is
// logged and swallowed: a review without commentary is complete, a review
// that errors out is not.
func (s *WeeklyReviewService) commentary(ctx context.Context, review *weekly.Review) *string {
	if s.reflection == nil || !review.HasEnoughData {
		return nil
	}

	reflectCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	text, err := s.reflection.Reflect(reflectCtx, &ReflectionContext{
		WeekStart:      review.WeekStart,
		WeekScore:      review.WeekScore,
		WeekScoreLabel: review.WeekScoreLabel,
		ActiveDays:     review.ActiveDays,
		EvaluatedDays:  review.EvaluatedDays,
		TotalMinutes:   review.TotalMinutes,
		TargetProgress: review.TargetProgress,
		Breakdown:      review.CategoryBreakdown,
		Insights:       review.Insights,
	})
	if err != nil {
		log.Printf("GetWeeklyReview: reflection unavailable: %v", err)
		return nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &text
}
