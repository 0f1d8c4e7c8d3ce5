package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"hireassist/models"
)

// StatsStore is what the aggregator needs from storage: one aggregation
// over jobs, and replace-upserts into company_daily_stats.
type StatsStore interface {
	JobStatCounts(ctx context.Context, day time.Time, companyName string) ([]models.DailyStat, error)
	UpsertDailyStat(ctx context.Context, stat *models.DailyStat) error
}

// StatsService computes per-day (company, source) snapshots. It is the only
// writer of company_daily_stats and reads jobs only.
type StatsService struct {
	store    StatsStore
	notifier Notifier
}

func NewStatsService(store StatsStore, notifier Notifier) *StatsService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &StatsService{store: store, notifier: notifier}
}

// ComputeForDate builds snapshot rows for the given calendar date, for one
// company or for all (companyName == ""). Rerunning a date overwrites the
// existing rows with identical values. Returns the number of rows written.
func (s *StatsService) ComputeForDate(ctx context.Context, day time.Time, companyName string) (int, error) {
	day = truncateToDay(day)

	counts, err := s.store.JobStatCounts(ctx, day, companyName)
	if err != nil {
		return 0, fmt.Errorf("aggregate job counts for %s: %w", day.Format("2006-01-02"), err)
	}

	written := 0
	for i := range counts {
		stat := &counts[i]
		stat.StatDate = day
		stat.NetChange = stat.NewJobs - stat.ClosedJobs
		if err := s.store.UpsertDailyStat(ctx, stat); err != nil {
			return written, fmt.Errorf("upsert stat %s/%s/%s: %w", stat.CompanyName, stat.Source, day.Format("2006-01-02"), err)
		}
		written++
	}

	log.Printf("Stats for %s: %d rows written", day.Format("2006-01-02"), written)
	s.notifier.StatsComputed(ctx, day, written)
	return written, nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
