package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeMirrorAPI/internal/entry"
	"timeMirrorAPI/internal/target"
)

// EntryService fetches the raw rows every analysis works from. Entries and
// check-ins are written by the logging service; this API only reads them.
type EntryService struct {
	db *pgxpool.Pool
}

func NewEntryService(db *pgxpool.Pool) *EntryService {
	return &EntryService{db: db}
}

// GetEntries returns the user's confirmed entries with dates in
// [startDate, endDate]. Pending entries never reach computation.
func (s *EntryService) GetEntries(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]*entry.TimeEntry, error) {
	query := `
		SELECT id, user_id, date, category, duration_minutes,
			COALESCE(start_time, ''), COALESCE(end_time, ''), status, created_at
		FROM time_entries
		WHERE user_id = $1
			AND status = 'confirmed'
			AND date >= $2 AND date <= $3
		ORDER BY date, created_at
	`

	rows, err := s.db.Query(ctx, query, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []*entry.TimeEntry
	for rows.Next() {
		e := &entry.TimeEntry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.Category, &e.DurationMinutes,
			&e.StartTime, &e.EndTime, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetMoodCheckins returns the user's mood check-ins with dates in
// [startDate, endDate].
func (s *EntryService) GetMoodCheckins(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]*entry.MoodCheckin, error) {
	query := `
		SELECT user_id, date, period, mood, created_at
		FROM mood_checkins
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, period
	`

	rows, err := s.db.Query(ctx, query, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood checkins: %w", err)
	}
	defer rows.Close()

	var moods []*entry.MoodCheckin
	for rows.Next() {
		m := &entry.MoodCheckin{}
		if err := rows.Scan(&m.UserID, &m.Date, &m.Period, &m.Mood, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mood checkin: %w", err)
		}
		moods = append(moods, m)
	}
	return moods, rows.Err()
}

// GetTargets returns the user's active weekly intentions.
func (s *EntryService) GetTargets(ctx context.Context, userID uuid.UUID) ([]*target.Target, error) {
	query := `
		SELECT id, user_id, category_group, direction, weekly_target_minutes, created_at
		FROM targets
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query targets: %w", err)
	}
	defer rows.Close()

	var targets []*target.Target
	for rows.Next() {
		t := &target.Target{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.Group, &t.Direction,
			&t.WeeklyTargetMinutes, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// GetDayAggregates fetches entries and check-ins over a date range and rolls
// them up per calendar day.
func (s *EntryService) GetDayAggregates(ctx context.Context, userID uuid.UUID, startDate, endDate string) (map[string]*entry.DayAggregate, error) {
	entries, err := s.GetEntries(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	moods, err := s.GetMoodCheckins(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return entry.BuildDayAggregates(entries, moods), nil
}
