package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hireassist/models"
)

type fakeStatsStore struct {
	counts     []models.DailyStat
	countsErr  error
	upserted   map[string]models.DailyStat
	upsertErr  error
	lastDay    time.Time
	lastFilter string
}

func newFakeStatsStore(counts ...models.DailyStat) *fakeStatsStore {
	return &fakeStatsStore{counts: counts, upserted: make(map[string]models.DailyStat)}
}

func (s *fakeStatsStore) JobStatCounts(ctx context.Context, day time.Time, companyName string) ([]models.DailyStat, error) {
	s.lastDay = day
	s.lastFilter = companyName
	return s.counts, s.countsErr
}

func (s *fakeStatsStore) UpsertDailyStat(ctx context.Context, stat *models.DailyStat) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	key := stat.StatDate.Format("2006-01-02") + "|" + stat.CompanyName + "|" + string(stat.Source)
	s.upserted[key] = *stat
	return nil
}

func TestComputeForDate(t *testing.T) {
	store := newFakeStatsStore(
		models.DailyStat{CompanyName: "Adyen", Source: models.SourceGreenhouse, ActiveJobs: 40, NewJobs: 3, ClosedJobs: 1},
		models.DailyStat{CompanyName: "Mollie", Source: models.SourceLever, ActiveJobs: 12, NewJobs: 0, ClosedJobs: 2},
	)
	svc := NewStatsService(store, nil)

	day := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	written, err := svc.ComputeForDate(context.Background(), day, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != 2 {
		t.Fatalf("expected 2 rows written, got %d", written)
	}
	if !store.lastDay.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day should be truncated to midnight UTC, got %v", store.lastDay)
	}

	adyen, ok := store.upserted["2026-03-15|Adyen|greenhouse"]
	if !ok {
		t.Fatal("Adyen row not upserted")
	}
	if adyen.NetChange != 2 {
		t.Fatalf("expected net change 2, got %d", adyen.NetChange)
	}
	mollie := store.upserted["2026-03-15|Mollie|lever"]
	if mollie.NetChange != -2 {
		t.Fatalf("expected net change -2, got %d", mollie.NetChange)
	}
}

func TestComputeForDate_Rerun(t *testing.T) {
	store := newFakeStatsStore(
		models.DailyStat{CompanyName: "Adyen", Source: models.SourceGreenhouse, ActiveJobs: 40, NewJobs: 3, ClosedJobs: 1},
	)
	svc := NewStatsService(store, nil)
	ctx := context.Background()
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	if _, err := svc.ComputeForDate(ctx, day, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := store.upserted["2026-03-15|Adyen|greenhouse"]

	if _, err := svc.ComputeForDate(ctx, day, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := store.upserted["2026-03-15|Adyen|greenhouse"]

	if first != second {
		t.Fatalf("rerun should overwrite with identical values: %+v vs %+v", first, second)
	}
	if len(store.upserted) != 1 {
		t.Fatalf("rerun must not create extra rows, got %d", len(store.upserted))
	}
}

func TestComputeForDate_CompanyFilter(t *testing.T) {
	store := newFakeStatsStore()
	svc := NewStatsService(store, nil)

	if _, err := svc.ComputeForDate(context.Background(), time.Now(), "Adyen"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.lastFilter != "Adyen" {
		t.Fatalf("company filter not passed through, got %q", store.lastFilter)
	}
}

// jobBackedStatsStore aggregates straight from a fakeJobStore's rows using
// the same day-window predicates as the jobs aggregation query: active means
// is_active and first_seen before the end of day, new means first_seen
// inside [day, day+1), closed means inactive with last_seen inside the
// window.
type jobBackedStatsStore struct {
	jobs     *fakeJobStore
	upserted map[string]models.DailyStat
}

func newJobBackedStatsStore(jobs *fakeJobStore) *jobBackedStatsStore {
	return &jobBackedStatsStore{jobs: jobs, upserted: make(map[string]models.DailyStat)}
}

func (s *jobBackedStatsStore) JobStatCounts(ctx context.Context, day time.Time, companyName string) ([]models.DailyStat, error) {
	next := day.AddDate(0, 0, 1)
	byPair := make(map[string]*models.DailyStat)
	for _, job := range s.jobs.jobs {
		if companyName != "" && job.CompanyName != companyName {
			continue
		}
		pair := job.CompanyName + "|" + string(job.Source)
		st, ok := byPair[pair]
		if !ok {
			st = &models.DailyStat{CompanyName: job.CompanyName, Source: job.Source}
			byPair[pair] = st
		}
		if job.IsActive && job.FirstSeenAt.Before(next) {
			st.ActiveJobs++
		}
		if !job.FirstSeenAt.Before(day) && job.FirstSeenAt.Before(next) {
			st.NewJobs++
		}
		if !job.IsActive && !job.LastSeenAt.Before(day) && job.LastSeenAt.Before(next) {
			st.ClosedJobs++
		}
	}
	var out []models.DailyStat
	for _, st := range byPair {
		out = append(out, *st)
	}
	return out, nil
}

func (s *jobBackedStatsStore) UpsertDailyStat(ctx context.Context, stat *models.DailyStat) error {
	key := stat.StatDate.Format("2006-01-02") + "|" + stat.CompanyName + "|" + string(stat.Source)
	s.upserted[key] = *stat
	return nil
}

func TestDailyStats_TwoDayLifecycle(t *testing.T) {
	jobStore := newFakeJobStore()
	statsStore := newJobBackedStatsStore(jobStore)
	ingestSvc := newTestIngest(jobStore, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	statsSvc := NewStatsService(statsStore, nil)
	ctx := context.Background()

	day1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	if _, err := ingestSvc.ApplyBatch(ctx, "Acme", models.SourceGreenhouse, atsBatch("1", "2", "3", "4", "5")); err != nil {
		t.Fatalf("day 1 ingest: %v", err)
	}
	if _, err := statsSvc.ComputeForDate(ctx, day1, ""); err != nil {
		t.Fatalf("day 1 stats: %v", err)
	}

	d1 := statsStore.upserted["2026-03-01|Acme|greenhouse"]
	if d1.ActiveJobs != 5 || d1.NewJobs != 5 || d1.ClosedJobs != 0 || d1.NetChange != 5 {
		t.Fatalf("unexpected day 1 snapshot: %+v", d1)
	}

	// Day 2: posting 4 disappears, posting 6 appears.
	ingestSvc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	summary, err := ingestSvc.ApplyBatch(ctx, "Acme", models.SourceGreenhouse, atsBatch("1", "2", "3", "5", "6"))
	if err != nil {
		t.Fatalf("day 2 ingest: %v", err)
	}
	if summary.New != 1 || summary.Updated != 4 || summary.Deactivated != 1 {
		t.Fatalf("unexpected day 2 summary: %+v", summary)
	}

	if _, err := statsSvc.ComputeForDate(ctx, day2, ""); err != nil {
		t.Fatalf("day 2 stats: %v", err)
	}
	d2 := statsStore.upserted["2026-03-02|Acme|greenhouse"]
	if d2.ActiveJobs != 5 {
		t.Fatalf("expected 5 active on day 2 (1,2,3,5,6), got %d", d2.ActiveJobs)
	}
	if d2.NewJobs != 1 || d2.ClosedJobs != 1 || d2.NetChange != 0 {
		t.Fatalf("unexpected day 2 snapshot: %+v", d2)
	}

	// The closed posting counts on day 2, not day 1: deactivation stamped
	// its last_seen_at with the day 2 sync time.
	if d1.ClosedJobs != 0 {
		t.Fatalf("day 1 snapshot must not see the day 2 closure: %+v", d1)
	}
}

func TestComputeForDate_AggregateError(t *testing.T) {
	store := newFakeStatsStore()
	store.countsErr = errors.New("connection refused")
	svc := NewStatsService(store, nil)

	if _, err := svc.ComputeForDate(context.Background(), time.Now(), ""); err == nil {
		t.Fatal("expected error")
	}
}
