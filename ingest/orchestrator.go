// Package ingest drives the sync pipeline: fetch every configured company's
// board, apply the batch, record the run.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"hireassist/config"
	"hireassist/models"
	"hireassist/services"
	"hireassist/sources"
	"hireassist/storage"
)

// RunStore records ingest runs and their logs.
type RunStore interface {
	CreateIngestRun(ctx context.Context, run *models.IngestRun) error
	UpdateIngestRun(ctx context.Context, run *models.IngestRun) error
	CreateIngestLog(ctx context.Context, entry *models.IngestLog) error
}

type Orchestrator struct {
	cfg      *config.Config
	ops      *storage.SQLiteStore
	runs     RunStore
	ingest   *services.IngestService
	stats    *services.StatsService
	adapters map[string]sources.Source
	paused   bool
}

func NewOrchestrator(cfg *config.Config, ops *storage.SQLiteStore, runs RunStore, ingestSvc *services.IngestService, statsSvc *services.StatsService, opts sources.Options) (*Orchestrator, error) {
	adapters := make(map[string]sources.Source)
	for name, company := range cfg.Companies {
		adapter, err := sources.New(company, opts)
		if err != nil {
			return nil, fmt.Errorf("company %s: %w", name, err)
		}
		adapters[name] = adapter
	}

	return &Orchestrator{
		cfg:      cfg,
		ops:      ops,
		runs:     runs,
		ingest:   ingestSvc,
		stats:    statsSvc,
		adapters: adapters,
	}, nil
}

// RunAll syncs every configured company, sequentially. One failing company
// does not stop the rest. Sequencing also guarantees a single writer per
// (company, source) pair.
func (o *Orchestrator) RunAll(ctx context.Context) error {
	if o.paused {
		log.Println("Sync is paused, skipping run")
		return nil
	}

	names := make([]string, 0, len(o.cfg.Companies))
	for name := range o.cfg.Companies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := o.RunCompany(ctx, name); err != nil {
			log.Printf("Error syncing %s: %v", name, err)
		}
		if delay := o.cfg.Fetch.DelayMS; delay > 0 {
			time.Sleep(time.Duration(delay) * time.Millisecond)
		}
	}

	return nil
}

// RunCompany syncs one company: fetch, apply, bookkeeping.
func (o *Orchestrator) RunCompany(ctx context.Context, name string) error {
	company, ok := o.cfg.Companies[name]
	if !ok {
		return fmt.Errorf("unknown company: %s", name)
	}
	adapter, ok := o.adapters[name]
	if !ok {
		return fmt.Errorf("no adapter for company: %s", name)
	}
	source := adapter.Name()

	run := &models.IngestRun{
		CompanyName: name,
		Source:      source,
		StartedAt:   time.Now(),
		Status:      models.RunStatusRunning,
	}
	if err := o.runs.CreateIngestRun(ctx, run); err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	defer func() {
		now := time.Now()
		run.FinishedAt = &now
		if err := o.runs.UpdateIngestRun(ctx, run); err != nil {
			log.Printf("Warning: update run %d failed: %v", run.ID, err)
		}
	}()

	o.log(run.ID, models.LogLevelInfo, fmt.Sprintf("Syncing %s (%s)", name, source), name)

	postings, err := adapter.Fetch(ctx, company)
	if err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = err.Error()
		o.log(run.ID, models.LogLevelError, fmt.Sprintf("Fetch failed: %v", err), name)
		return err
	}
	run.PostingsSeen = len(postings)

	summary, err := o.ingest.ApplyBatch(ctx, name, source, postings)
	if err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = err.Error()
		o.log(run.ID, models.LogLevelError, fmt.Sprintf("Apply failed: %v", err), name)
		return err
	}

	run.Status = models.RunStatusCompleted
	run.JobsNew = summary.New
	run.JobsUpdated = summary.Updated
	run.JobsClosed = summary.Deactivated
	run.Rejected = summary.Rejected

	o.log(run.ID, models.LogLevelInfo,
		fmt.Sprintf("Completed: %d postings, +%d new, ~%d updated (%d reactivated), -%d closed, %d rejected",
			len(postings), summary.New, summary.Updated, summary.Reactivated, summary.Deactivated, summary.Rejected), name)

	return nil
}

// ComputeStats runs the daily aggregation for a date (zero time = today).
func (o *Orchestrator) ComputeStats(ctx context.Context, day time.Time, companyName string) error {
	if day.IsZero() {
		day = time.Now().UTC()
	}
	written, err := o.stats.ComputeForDate(ctx, day, companyName)
	if err != nil {
		return err
	}
	log.Printf("Stats computed for %s: %d rows", day.Format("2006-01-02"), written)
	return nil
}

func (o *Orchestrator) HandleCommand(ctx context.Context, cmd *models.Command) error {
	params, err := o.ops.ParseCommandParams(cmd)
	if err != nil {
		return err
	}

	switch cmd.Command {
	case models.CmdSyncNow:
		return o.RunAll(ctx)
	case models.CmdSyncCompany:
		if params.Company != "" {
			return o.RunCompany(ctx, params.Company)
		}
		return o.RunAll(ctx)
	case models.CmdComputeStats:
		day := time.Time{}
		if params.Date != "" {
			d, err := time.Parse("2006-01-02", params.Date)
			if err != nil {
				return fmt.Errorf("bad date %q: %w", params.Date, err)
			}
			day = d
		}
		return o.ComputeStats(ctx, day, params.Company)
	case models.CmdPause:
		o.paused = true
		log.Println("Sync paused")
	case models.CmdResume:
		o.paused = false
		log.Println("Sync resumed")
	case models.CmdStatus:
		status, err := o.MarshalStatus()
		if err != nil {
			return err
		}
		log.Printf("Status: %s", status)
	}

	return nil
}

func (o *Orchestrator) IsPaused() bool {
	return o.paused
}

func (o *Orchestrator) CompanyNames() []string {
	var names []string
	for name := range o.cfg.Companies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (o *Orchestrator) MarshalStatus() ([]byte, error) {
	status := map[string]interface{}{
		"paused":    o.IsPaused(),
		"companies": o.CompanyNames(),
	}
	return json.Marshal(status)
}

func (o *Orchestrator) log(runID int64, level models.LogLevel, message, companyName string) {
	log.Printf("[%s] %s: %s", level, companyName, message)
	entry := &models.IngestLog{
		RunID:       &runID,
		Timestamp:   time.Now(),
		Level:       level,
		Message:     message,
		CompanyName: companyName,
	}
	if err := o.runs.CreateIngestLog(context.Background(), entry); err != nil {
		log.Printf("Warning: persist log failed: %v", err)
	}
}
