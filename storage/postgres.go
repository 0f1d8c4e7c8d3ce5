package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hireassist/models"
	"hireassist/services"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// =============================================================================
// Schema
// =============================================================================

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id UUID PRIMARY KEY,
		source TEXT NOT NULL,
		company_name TEXT NOT NULL,
		job_key TEXT NOT NULL,
		title TEXT NOT NULL,
		location_raw TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT '',
		job_type TEXT NOT NULL DEFAULT '',
		tech_tags TEXT NOT NULL DEFAULT '',
		snippet TEXT NOT NULL DEFAULT '',
		posted_at TIMESTAMPTZ,
		first_seen_at TIMESTAMPTZ NOT NULL,
		last_seen_at TIMESTAMPTZ NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		raw_data JSONB,
		UNIQUE (source, job_key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_company_active ON jobs (company_name, is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_source_active ON jobs (source, is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_first_seen ON jobs (first_seen_at)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_department ON jobs (department)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_city_active ON jobs (city, is_active)`,
	`CREATE TABLE IF NOT EXISTS company_daily_stats (
		stat_date DATE NOT NULL,
		company_name TEXT NOT NULL,
		source TEXT NOT NULL,
		active_jobs INTEGER NOT NULL DEFAULT 0,
		new_jobs INTEGER NOT NULL DEFAULT 0,
		closed_jobs INTEGER NOT NULL DEFAULT 0,
		net_change INTEGER NOT NULL DEFAULT 0,
		UNIQUE (stat_date, company_name, source)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_stats_date ON company_daily_stats (stat_date)`,
	`CREATE TABLE IF NOT EXISTS ingest_runs (
		id BIGSERIAL PRIMARY KEY,
		company_name TEXT NOT NULL,
		source TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ,
		status TEXT NOT NULL,
		postings_seen INTEGER NOT NULL DEFAULT 0,
		jobs_new INTEGER NOT NULL DEFAULT 0,
		jobs_updated INTEGER NOT NULL DEFAULT 0,
		jobs_closed INTEGER NOT NULL DEFAULT 0,
		rejected INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ingest_runs_started ON ingest_runs (started_at)`,
	`CREATE TABLE IF NOT EXISTS ingest_logs (
		id BIGSERIAL PRIMARY KEY,
		run_id BIGINT REFERENCES ingest_runs(id),
		timestamp TIMESTAMPTZ NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		company_name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS job_alerts (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL,
		token UUID NOT NULL UNIQUE,
		is_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		company_name TEXT NOT NULL DEFAULT '',
		title_query TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		tech_tag TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		confirmed_at TIMESTAMPTZ,
		last_sent_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_job_alerts_email ON job_alerts (email)`,
}

// Migrate applies the schema. Every statement is IF NOT EXISTS, so this is
// safe to run on every startup and from concurrently starting processes.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// =============================================================================
// Jobs (transactional writes)
// =============================================================================

type jobTx struct {
	tx pgx.Tx
}

// InJobTx runs fn inside one transaction. fn returning an error rolls the
// whole batch back.
func (s *PostgresStore) InJobTx(ctx context.Context, fn func(services.JobTx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&jobTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const jobColumns = `id, source, company_name, job_key, title, location_raw, country, city,
		url, department, job_type, tech_tags, snippet, posted_at,
		first_seen_at, last_seen_at, is_active, raw_data`

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	err := row.Scan(
		&j.ID, &j.Source, &j.CompanyName, &j.JobKey, &j.Title, &j.LocationRaw, &j.Country, &j.City,
		&j.URL, &j.Department, &j.JobType, &j.TechTags, &j.Snippet, &j.PostedAt,
		&j.FirstSeenAt, &j.LastSeenAt, &j.IsActive, &j.RawData,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (t *jobTx) GetJob(ctx context.Context, source models.Source, jobKey string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE source = $1 AND job_key = $2`
	return scanJob(t.tx.QueryRow(ctx, query, source, jobKey))
}

func (t *jobTx) InsertJob(ctx context.Context, j *models.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := t.tx.Exec(ctx, query,
		j.ID, j.Source, j.CompanyName, j.JobKey, j.Title, j.LocationRaw, j.Country, j.City,
		j.URL, j.Department, j.JobType, j.TechTags, j.Snippet, j.PostedAt,
		j.FirstSeenAt, j.LastSeenAt, j.IsActive, j.RawData,
	)
	return err
}

func (t *jobTx) UpdateJob(ctx context.Context, j *models.Job) error {
	query := `
		UPDATE jobs SET
			title = $3, location_raw = $4, country = $5, city = $6, url = $7,
			department = $8, job_type = $9, tech_tags = $10, snippet = $11,
			posted_at = $12, last_seen_at = $13, is_active = $14, raw_data = $15
		WHERE source = $1 AND job_key = $2`

	_, err := t.tx.Exec(ctx, query,
		j.Source, j.JobKey, j.Title, j.LocationRaw, j.Country, j.City, j.URL,
		j.Department, j.JobType, j.TechTags, j.Snippet,
		j.PostedAt, j.LastSeenAt, j.IsActive, j.RawData,
	)
	return err
}

func (t *jobTx) DeactivateMissing(ctx context.Context, companyName string, source models.Source, seenKeys []string, now time.Time) (int64, error) {
	query := `
		UPDATE jobs SET is_active = FALSE, last_seen_at = $3
		WHERE company_name = $1 AND source = $2 AND is_active = TRUE
			AND NOT (job_key = ANY($4))`

	tag, err := t.tx.Exec(ctx, query, companyName, source, now, seenKeys)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// =============================================================================
// Jobs (reads)
// =============================================================================

func (s *PostgresStore) GetJob(ctx context.Context, source models.Source, jobKey string) (*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE source = $1 AND job_key = $2`
	return scanJob(s.pool.QueryRow(ctx, query, source, jobKey))
}

func (s *PostgresStore) queryJobs(ctx context.Context, query string, args ...any) ([]models.Job, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var j models.Job
		if err := rows.Scan(
			&j.ID, &j.Source, &j.CompanyName, &j.JobKey, &j.Title, &j.LocationRaw, &j.Country, &j.City,
			&j.URL, &j.Department, &j.JobType, &j.TechTags, &j.Snippet, &j.PostedAt,
			&j.FirstSeenAt, &j.LastSeenAt, &j.IsActive, &j.RawData,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *PostgresStore) SearchJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE is_active = TRUE
			AND ($1 = '' OR company_name = $1)
			AND ($2 = '' OR LOWER(city) = LOWER($2))
			AND ($3 = '' OR title ILIKE '%' || $3 || '%')
			AND ($4 = '' OR tech_tags ILIKE '%' || $4 || '%')
		ORDER BY company_name, title
		LIMIT $5`

	return s.queryJobs(ctx, query, filter.CompanyName, filter.City, filter.TitleQuery, filter.TechTag, limit)
}

func (s *PostgresStore) JobsFirstSeenOn(ctx context.Context, day time.Time) ([]models.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE first_seen_at >= $1 AND first_seen_at < $2
		ORDER BY company_name, title`

	return s.queryJobs(ctx, query, day, day.AddDate(0, 0, 1))
}

// JobsMissingSnippet feeds the enrichment worker: active postings with a URL
// but no description yet.
func (s *PostgresStore) JobsMissingSnippet(ctx context.Context, limit int) ([]models.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE is_active = TRUE AND snippet = '' AND url <> ''
		ORDER BY first_seen_at DESC
		LIMIT $1`

	return s.queryJobs(ctx, query, limit)
}

func (s *PostgresStore) UpdateJobSnippet(ctx context.Context, id uuid.UUID, snippet string) error {
	_, err := s.pool.Exec(ctx, `UPDATE jobs SET snippet = $2 WHERE id = $1`, id, snippet)
	return err
}

func (s *PostgresStore) ActiveJobCount(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE is_active = TRUE`).Scan(&count)
	return count, err
}

func (s *PostgresStore) NewJobCount(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE first_seen_at >= $1`, since).Scan(&count)
	return count, err
}

func (s *PostgresStore) TrackedCompanyCount(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT company_name) FROM jobs`).Scan(&count)
	return count, err
}

func (s *PostgresStore) DepartmentCounts(ctx context.Context, city string) ([]models.DepartmentCount, error) {
	query := `
		SELECT department, COUNT(*)
		FROM jobs
		WHERE is_active = TRUE AND department <> ''
			AND ($1 = '' OR LOWER(city) = LOWER($1))
		GROUP BY department
		ORDER BY COUNT(*) DESC, department`

	rows, err := s.pool.Query(ctx, query, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.DepartmentCount
	for rows.Next() {
		var dc models.DepartmentCount
		if err := rows.Scan(&dc.Department, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

// =============================================================================
// Daily stats
// =============================================================================

// JobStatCounts aggregates one calendar day straight from jobs. The window
// is [day, day+1) UTC.
func (s *PostgresStore) JobStatCounts(ctx context.Context, day time.Time, companyName string) ([]models.DailyStat, error) {
	next := day.AddDate(0, 0, 1)
	query := `
		SELECT company_name, source,
			COUNT(*) FILTER (WHERE is_active AND first_seen_at < $2) AS active_jobs,
			COUNT(*) FILTER (WHERE first_seen_at >= $1 AND first_seen_at < $2) AS new_jobs,
			COUNT(*) FILTER (WHERE NOT is_active AND last_seen_at >= $1 AND last_seen_at < $2) AS closed_jobs
		FROM jobs
		WHERE $3 = '' OR company_name = $3
		GROUP BY company_name, source
		ORDER BY company_name, source`

	rows, err := s.pool.Query(ctx, query, day, next, companyName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.DailyStat
	for rows.Next() {
		var st models.DailyStat
		if err := rows.Scan(&st.CompanyName, &st.Source, &st.ActiveJobs, &st.NewJobs, &st.ClosedJobs); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (s *PostgresStore) UpsertDailyStat(ctx context.Context, st *models.DailyStat) error {
	query := `
		INSERT INTO company_daily_stats (stat_date, company_name, source, active_jobs, new_jobs, closed_jobs, net_change)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (stat_date, company_name, source) DO UPDATE SET
			active_jobs = EXCLUDED.active_jobs,
			new_jobs = EXCLUDED.new_jobs,
			closed_jobs = EXCLUDED.closed_jobs,
			net_change = EXCLUDED.net_change`

	_, err := s.pool.Exec(ctx, query,
		st.StatDate, st.CompanyName, st.Source, st.ActiveJobs, st.NewJobs, st.ClosedJobs, st.NetChange,
	)
	return err
}

func (s *PostgresStore) queryDailyStats(ctx context.Context, query string, args ...any) ([]models.DailyStat, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.DailyStat
	for rows.Next() {
		var st models.DailyStat
		if err := rows.Scan(&st.StatDate, &st.CompanyName, &st.Source, &st.ActiveJobs, &st.NewJobs, &st.ClosedJobs, &st.NetChange); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (s *PostgresStore) DailyStats(ctx context.Context, day time.Time) ([]models.DailyStat, error) {
	query := `
		SELECT stat_date, company_name, source, active_jobs, new_jobs, closed_jobs, net_change
		FROM company_daily_stats
		WHERE stat_date = $1
		ORDER BY company_name, source`

	return s.queryDailyStats(ctx, query, day)
}

func (s *PostgresStore) CompanyDailyStats(ctx context.Context, companyName string, since time.Time) ([]models.DailyStat, error) {
	query := `
		SELECT stat_date, company_name, source, active_jobs, new_jobs, closed_jobs, net_change
		FROM company_daily_stats
		WHERE company_name = $1 AND stat_date >= $2
		ORDER BY stat_date, source`

	return s.queryDailyStats(ctx, query, companyName, since)
}

// =============================================================================
// Ingest runs
// =============================================================================

func (s *PostgresStore) CreateIngestRun(ctx context.Context, run *models.IngestRun) error {
	query := `
		INSERT INTO ingest_runs (company_name, source, started_at, status, postings_seen, jobs_new, jobs_updated, jobs_closed, rejected, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	return s.pool.QueryRow(ctx, query,
		run.CompanyName, run.Source, run.StartedAt, run.Status, run.PostingsSeen,
		run.JobsNew, run.JobsUpdated, run.JobsClosed, run.Rejected, run.ErrorMessage,
	).Scan(&run.ID)
}

func (s *PostgresStore) UpdateIngestRun(ctx context.Context, run *models.IngestRun) error {
	query := `
		UPDATE ingest_runs SET
			finished_at = $2, status = $3, postings_seen = $4, jobs_new = $5,
			jobs_updated = $6, jobs_closed = $7, rejected = $8, error_message = $9
		WHERE id = $1`

	_, err := s.pool.Exec(ctx, query,
		run.ID, run.FinishedAt, run.Status, run.PostingsSeen, run.JobsNew,
		run.JobsUpdated, run.JobsClosed, run.Rejected, run.ErrorMessage,
	)
	return err
}

func (s *PostgresStore) CreateIngestLog(ctx context.Context, entry *models.IngestLog) error {
	query := `
		INSERT INTO ingest_logs (run_id, timestamp, level, message, company_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return s.pool.QueryRow(ctx, query,
		entry.RunID, entry.Timestamp, entry.Level, entry.Message, entry.CompanyName,
	).Scan(&entry.ID)
}

// =============================================================================
// Job alerts
// =============================================================================

const alertColumns = `id, email, token, is_confirmed, is_active, company_name, title_query,
		city, tech_tag, created_at, confirmed_at, last_sent_at`

func (s *PostgresStore) CountActiveAlerts(ctx context.Context, email string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM job_alerts WHERE email = $1 AND is_active = TRUE`, email,
	).Scan(&count)
	return count, err
}

func (s *PostgresStore) InsertAlert(ctx context.Context, a *models.Alert) error {
	query := `
		INSERT INTO job_alerts (email, token, is_confirmed, is_active, company_name, title_query, city, tech_tag, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	return s.pool.QueryRow(ctx, query,
		a.Email, a.Token, a.IsConfirmed, a.IsActive, a.CompanyName, a.TitleQuery, a.City, a.TechTag, a.CreatedAt,
	).Scan(&a.ID)
}

func (s *PostgresStore) GetAlertByToken(ctx context.Context, token uuid.UUID) (*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM job_alerts WHERE token = $1`

	var a models.Alert
	err := s.pool.QueryRow(ctx, query, token).Scan(
		&a.ID, &a.Email, &a.Token, &a.IsConfirmed, &a.IsActive, &a.CompanyName, &a.TitleQuery,
		&a.City, &a.TechTag, &a.CreatedAt, &a.ConfirmedAt, &a.LastSentAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) ConfirmAlert(ctx context.Context, id int64, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE job_alerts SET is_confirmed = TRUE, confirmed_at = $2 WHERE id = $1`, id, at)
	return err
}

func (s *PostgresStore) DeactivateAlert(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `UPDATE job_alerts SET is_active = FALSE WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) ActiveConfirmedAlerts(ctx context.Context) ([]models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM job_alerts WHERE is_confirmed = TRUE AND is_active = TRUE`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(
			&a.ID, &a.Email, &a.Token, &a.IsConfirmed, &a.IsActive, &a.CompanyName, &a.TitleQuery,
			&a.City, &a.TechTag, &a.CreatedAt, &a.ConfirmedAt, &a.LastSentAt,
		); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *PostgresStore) MarkAlertSent(ctx context.Context, id int64, at time.Time) error {
	_, err := s.pool.Exec(ctx, `UPDATE job_alerts SET last_sent_at = $2 WHERE id = $1`, id, at)
	return err
}
