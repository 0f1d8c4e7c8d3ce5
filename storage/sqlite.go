package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"hireassist/models"
)

// SQLiteStore holds the operational side: the command queue the operator
// tooling writes into, and the scraped_jobs drop-box the external career
// page scraper fills between syncs.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY,
		command TEXT,
		params JSON,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		processed_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS scraped_jobs (
		id INTEGER PRIMARY KEY,
		batch_id TEXT NOT NULL,
		company_name TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT,
		location_raw TEXT,
		snippet TEXT,
		data JSON,
		scraped_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_commands_pending ON commands(processed_at) WHERE processed_at IS NULL;
	CREATE INDEX IF NOT EXISTS idx_scraped_company_batch ON scraped_jobs(company_name, batch_id);
	CREATE INDEX IF NOT EXISTS idx_scraped_at ON scraped_jobs(scraped_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// Commands
// =============================================================================

func (s *SQLiteStore) EnqueueCommand(cmd models.CommandType, params *models.CommandParams) error {
	var raw []byte
	if params != nil {
		raw, _ = json.Marshal(params)
	}
	_, err := s.db.Exec(`INSERT INTO commands (command, params) VALUES (?, ?)`, cmd, raw)
	return err
}

func (s *SQLiteStore) GetPendingCommands() ([]models.Command, error) {
	rows, err := s.db.Query(`
		SELECT id, command, params, created_at, processed_at
		FROM commands WHERE processed_at IS NULL ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cmds []models.Command
	for rows.Next() {
		var cmd models.Command
		var params sql.NullString
		if err := rows.Scan(&cmd.ID, &cmd.Command, &params, &cmd.CreatedAt, &cmd.ProcessedAt); err != nil {
			return nil, err
		}
		if params.Valid {
			cmd.Params = json.RawMessage(params.String)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, rows.Err()
}

func (s *SQLiteStore) MarkCommandProcessed(id int64) error {
	_, err := s.db.Exec(`UPDATE commands SET processed_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

func (s *SQLiteStore) ParseCommandParams(cmd *models.Command) (*models.CommandParams, error) {
	if cmd.Params == nil || string(cmd.Params) == "null" {
		return &models.CommandParams{}, nil
	}
	var params models.CommandParams
	if err := json.Unmarshal(cmd.Params, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// =============================================================================
// Scraped jobs drop-box
// =============================================================================

// ScrapedJob is one row the external scraper dropped off. Rows from the
// same scraper pass share a batch_id.
type ScrapedJob struct {
	ID          int64           `json:"id" db:"id"`
	BatchID     string          `json:"batch_id" db:"batch_id"`
	CompanyName string          `json:"company_name" db:"company_name"`
	Title       string          `json:"title" db:"title"`
	URL         string          `json:"url" db:"url"`
	LocationRaw string          `json:"location_raw" db:"location_raw"`
	Snippet     string          `json:"snippet" db:"snippet"`
	Data        json.RawMessage `json:"data" db:"data"`
	ScrapedAt   time.Time       `json:"scraped_at" db:"scraped_at"`
}

func (s *SQLiteStore) InsertScrapedJob(job *ScrapedJob) error {
	_, err := s.db.Exec(`
		INSERT INTO scraped_jobs (batch_id, company_name, title, url, location_raw, snippet, data, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.BatchID, job.CompanyName, job.Title, job.URL, job.LocationRaw, job.Snippet, job.Data, job.ScrapedAt)
	return err
}

// LatestScrapedBatch returns the rows of the most recent batch for a
// company, plus when it was scraped. No batch at all means (nil, zero, nil).
func (s *SQLiteStore) LatestScrapedBatch(companyName string) ([]ScrapedJob, time.Time, error) {
	var batchID string
	var scrapedAt time.Time
	err := s.db.QueryRow(`
		SELECT batch_id, scraped_at FROM scraped_jobs
		WHERE company_name = ? ORDER BY scraped_at DESC LIMIT 1`, companyName).Scan(&batchID, &scrapedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	rows, err := s.db.Query(`
		SELECT id, batch_id, company_name, title, url, location_raw, snippet, data, scraped_at
		FROM scraped_jobs WHERE company_name = ? AND batch_id = ?`, companyName, batchID)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var jobs []ScrapedJob
	for rows.Next() {
		var j ScrapedJob
		var url, loc, snippet, data sql.NullString
		if err := rows.Scan(&j.ID, &j.BatchID, &j.CompanyName, &j.Title, &url, &loc, &snippet, &data, &j.ScrapedAt); err != nil {
			return nil, time.Time{}, err
		}
		j.URL = url.String
		j.LocationRaw = loc.String
		j.Snippet = snippet.String
		if data.Valid {
			j.Data = json.RawMessage(data.String)
		}
		jobs = append(jobs, j)
	}
	return jobs, scrapedAt, rows.Err()
}

// PruneScrapedJobs drops batches older than the cutoff so the drop-box
// doesn't grow without bound.
func (s *SQLiteStore) PruneScrapedJobs(olderThan time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM scraped_jobs WHERE scraped_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ResetAllData clears all SQLite operational tables
func (s *SQLiteStore) ResetAllData() error {
	tables := []string{
		"scraped_jobs",
		"commands",
	}

	for _, table := range tables {
		_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	return nil
}
