package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"hireassist/models"
)

// StatsReader is the read surface the query facade consumes. All methods
// serve whatever rows exist; staleness is the caller's problem.
type StatsReader interface {
	DailyStats(ctx context.Context, day time.Time) ([]models.DailyStat, error)
	CompanyDailyStats(ctx context.Context, companyName string, since time.Time) ([]models.DailyStat, error)
	ActiveJobCount(ctx context.Context) (int, error)
	NewJobCount(ctx context.Context, since time.Time) (int, error)
	TrackedCompanyCount(ctx context.Context) (int, error)
	SearchJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	DepartmentCounts(ctx context.Context, city string) ([]models.DepartmentCount, error)
}

// QueryService is the read-only facade over snapshots and jobs.
type QueryService struct {
	store StatsReader
	now   func() time.Time
}

func NewQueryService(store StatsReader) *QueryService {
	return &QueryService{store: store, now: time.Now}
}

// CompanyStats returns the snapshot rows for a date with momentum attached,
// ordered hottest first.
func (s *QueryService) CompanyStats(ctx context.Context, day time.Time) ([]models.CompanyStat, error) {
	rows, err := s.store.DailyStats(ctx, truncateToDay(day))
	if err != nil {
		return nil, fmt.Errorf("load daily stats: %w", err)
	}
	stats := make([]models.CompanyStat, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, models.CompanyStat{
			CompanyName: r.CompanyName,
			Source:      r.Source,
			ActiveJobs:  r.ActiveJobs,
			NewJobs:     r.NewJobs,
			ClosedJobs:  r.ClosedJobs,
			NetChange:   r.NetChange,
			Momentum:    MomentumScore(r.NewJobs, r.NetChange, r.ActiveJobs),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Momentum > stats[j].Momentum })
	return stats, nil
}

// CompanyHistory returns up to days points for one company, summed across
// sources per date, oldest first.
func (s *QueryService) CompanyHistory(ctx context.Context, companyName string, days int) ([]models.HistoryPoint, error) {
	if days <= 0 {
		days = 30
	}
	since := truncateToDay(s.now()).AddDate(0, 0, -days+1)
	rows, err := s.store.CompanyDailyStats(ctx, companyName, since)
	if err != nil {
		return nil, fmt.Errorf("load history for %s: %w", companyName, err)
	}

	byDate := make(map[time.Time]*models.HistoryPoint)
	var dates []time.Time
	for _, r := range rows {
		d := truncateToDay(r.StatDate)
		point, ok := byDate[d]
		if !ok {
			point = &models.HistoryPoint{Date: d}
			byDate[d] = point
			dates = append(dates, d)
		}
		point.ActiveJobs += r.ActiveJobs
		point.NewJobs += r.NewJobs
		point.ClosedJobs += r.ClosedJobs
		point.NetChange += r.NetChange
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	history := make([]models.HistoryPoint, 0, len(dates))
	for _, d := range dates {
		p := byDate[d]
		p.Momentum = MomentumScore(p.NewJobs, p.NetChange, p.ActiveJobs)
		history = append(history, *p)
	}
	return history, nil
}

// Summary aggregates the trailing window across all tracked companies.
// Active count is live from jobs, not from snapshots.
func (s *QueryService) Summary(ctx context.Context, days int) (models.SummaryStats, error) {
	if days <= 0 {
		days = 7
	}
	since := truncateToDay(s.now()).AddDate(0, 0, -days+1)

	active, err := s.store.ActiveJobCount(ctx)
	if err != nil {
		return models.SummaryStats{}, fmt.Errorf("count active jobs: %w", err)
	}
	newJobs, err := s.store.NewJobCount(ctx, since)
	if err != nil {
		return models.SummaryStats{}, fmt.Errorf("count new jobs: %w", err)
	}
	companies, err := s.store.TrackedCompanyCount(ctx)
	if err != nil {
		return models.SummaryStats{}, fmt.Errorf("count companies: %w", err)
	}

	return models.SummaryStats{
		TotalActive:      active,
		TotalNew:         newJobs,
		CompaniesTracked: companies,
		WindowDays:       days,
	}, nil
}

// SearchJobs filters active postings. City and title filters run in SQL;
// department matching is fuzzy and runs here.
func (s *QueryService) SearchJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	department := filter.Department
	filter.Department = ""
	jobs, err := s.store.SearchJobs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	if department == "" {
		return jobs, nil
	}
	matched := jobs[:0]
	for _, job := range jobs {
		if MatchDepartment(department, job.Department) {
			matched = append(matched, job)
		}
	}
	return matched, nil
}

// Departments lists active departments with counts, optionally for one city.
func (s *QueryService) Departments(ctx context.Context, city string) ([]models.DepartmentCount, error) {
	counts, err := s.store.DepartmentCounts(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("department counts: %w", err)
	}
	return counts, nil
}

// Boards label departments inconsistently ("People" vs "HR" vs "Talent"),
// so department search goes through an alias table.
var departmentAliases = map[string][]string{
	"hr": {"human resources", "people", "people & culture", "people operations",
		"talent", "talent acquisition", "recruiting", "recruitment"},
	"engineering": {"software engineering", "engineering", "development",
		"software development", "tech", "technology", "r&d",
		"research & development", "product development"},
	"marketing": {"marketing", "growth", "brand", "communications",
		"content", "digital marketing"},
	"sales": {"sales", "business development", "account management",
		"revenue", "commercial"},
	"finance": {"finance", "accounting", "financial", "fp&a", "treasury"},
	"design":  {"design", "ux", "ui", "product design", "creative"},
	"data": {"data", "data science", "data engineering", "analytics",
		"machine learning", "ai", "artificial intelligence"},
	"operations": {"operations", "ops", "supply chain", "logistics"},
	"product":    {"product", "product management"},
	"legal":      {"legal", "compliance", "regulatory"},
	"support": {"customer support", "customer success", "customer service",
		"support", "helpdesk"},
}

// MatchDepartment fuzzy-matches a search query against a stored department
// label, via substring overlap and the alias table.
func MatchDepartment(query, department string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	dept := strings.ToLower(strings.TrimSpace(department))
	if dept == "" {
		return false
	}
	if strings.Contains(dept, q) || strings.Contains(q, dept) {
		return true
	}
	for canonical, aliases := range departmentAliases {
		terms := append([]string{canonical}, aliases...)
		queryMatches := false
		for _, term := range terms {
			if q == term || strings.Contains(term, q) {
				queryMatches = true
				break
			}
		}
		if !queryMatches {
			continue
		}
		for _, term := range terms {
			if strings.Contains(dept, term) || strings.Contains(term, dept) {
				return true
			}
		}
	}
	return false
}
