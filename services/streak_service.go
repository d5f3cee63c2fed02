package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeMirrorAPI/internal/entry"
	"timeMirrorAPI/internal/streak"
	"timeMirrorAPI/internal/target"
	"timeMirrorAPI/internal/timeline"
)

type StreakService struct {
	db      *pgxpool.Pool
	entries *EntryService
}

func NewStreakService(db *pgxpool.Pool, entries *EntryService) *StreakService {
	return &StreakService{db: db, entries: entries}
}

// lookbackFetchDays covers the walk bound plus the asOf day itself.
const lookbackFetchDays = 366

// GetStreak recomputes one streak type as of asOf and persists a new personal
// best when the run earns one.
func (s *StreakService) GetStreak(ctx context.Context, userID uuid.UUID, streakType, asOf string) (*streak.Result, error) {
	def, ok := streak.Lookup(streakType)
	if !ok {
		return nil, fmt.Errorf("unknown streak type %q", streakType)
	}

	startDate := timeline.AddDays(asOf, -(lookbackFetchDays - 1))
	days, err := s.entries.GetDayAggregates(ctx, userID, startDate, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load day aggregates: %w", err)
	}

	targets, err := s.entries.GetTargets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load targets: %w", err)
	}

	return s.computeAndPersist(ctx, userID, def, days, targets, asOf)
}

// GetAllStreaks computes every registered streak type, sorted by name so the
// response order is stable.
func (s *StreakService) GetAllStreaks(ctx context.Context, userID uuid.UUID, asOf string) ([]*streak.Result, error) {
	startDate := timeline.AddDays(asOf, -(lookbackFetchDays - 1))
	days, err := s.entries.GetDayAggregates(ctx, userID, startDate, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load day aggregates: %w", err)
	}

	targets, err := s.entries.GetTargets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load targets: %w", err)
	}

	names := make([]string, 0, len(streak.Registry))
	for name := range streak.Registry {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]*streak.Result, 0, len(names))
	for _, name := range names {
		result, err := s.computeAndPersist(ctx, userID, streak.Registry[name], days, targets, asOf)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *StreakService) computeAndPersist(ctx context.Context, userID uuid.UUID, def streak.Definition,
	days map[string]*entry.DayAggregate, targets []*target.Target, asOf string) (*streak.Result, error) {

	storedBest, err := s.getStoredBest(ctx, userID, def.Name)
	if err != nil {
		return nil, err
	}

	result := streak.Walk(def, s.dailyTarget(def, targets), days, asOf, storedBest)

	if result.IsNewPersonalBest && result.CurrentStreakDays >= streak.MinCelebratoryLength {
		if err := s.upsertStreakState(ctx, userID, def.Name, result); err != nil {
			// The computed result is still valid; losing one best update is
			// recoverable on the next request.
			log.Printf("GetStreak: failed to persist personal best for %s: %v", def.Name, err)
		}
	}

	return result, nil
}

// dailyTarget resolves a duration streak's per-day threshold from the user's
// own intention for the group when one exists.
func (s *StreakService) dailyTarget(def streak.Definition, targets []*target.Target) int {
	if def.Kind == streak.KindAbsence {
		return 0
	}
	for _, t := range targets {
		if t.Group == def.Group && t.IsGrowth() {
			return t.DailyMinutes()
		}
	}
	daily := target.DefaultWeeklyMinutes(def.Group) / 7
	if daily < 1 {
		daily = 1
	}
	return daily
}

func (s *StreakService) getStoredBest(ctx context.Context, userID uuid.UUID, streakType string) (int, error) {
	var best int
	query := `SELECT personal_best_days FROM streaks WHERE user_id = $1 AND streak_type = $2`
	err := s.db.QueryRow(ctx, query, userID, streakType).Scan(&best)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load streak state: %w", err)
	}
	return best, nil
}

// upsertStreakState writes the computed streak and raises the stored personal
// best. GREATEST makes the write race-safe: two concurrent requests can only
// keep the higher number, never regress it.
func (s *StreakService) upsertStreakState(ctx context.Context, userID uuid.UUID, streakType string, result *streak.Result) error {
	query := `
		INSERT INTO streaks (
			user_id, streak_type, current_streak_days, current_streak_start_date,
			personal_best_days, personal_best_achieved_at
		) VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, streak_type)
		DO UPDATE SET
			current_streak_days = $3,
			current_streak_start_date = $4,
			personal_best_days = GREATEST(streaks.personal_best_days, EXCLUDED.personal_best_days),
			personal_best_achieved_at = CASE
				WHEN EXCLUDED.personal_best_days > streaks.personal_best_days THEN NOW()
				ELSE streaks.personal_best_achieved_at
			END
	`

	_, err := s.db.Exec(ctx, query, userID, streakType,
		result.CurrentStreakDays, result.CurrentStreakStartDate, result.PersonalBestDays)
	if err != nil {
		return fmt.Errorf("failed to upsert streak state: %w", err)
	}
	return nil
}
