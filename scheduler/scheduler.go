package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"hireassist/config"
	"hireassist/ingest"
	"hireassist/models"
	"hireassist/storage"
)

// Triggerable allows workers to be triggered manually
type Triggerable interface {
	Trigger()
}

type Scheduler struct {
	cfg          *config.Config
	orchestrator *ingest.Orchestrator
	ops          *storage.SQLiteStore
	cron         *cron.Cron
	ticker       *time.Ticker
	stopCh       chan struct{}

	enrichmentWorker Triggerable
	alertsWorker     Triggerable
}

func New(cfg *config.Config, orchestrator *ingest.Orchestrator, ops *storage.SQLiteStore) *Scheduler {
	return &Scheduler{
		cfg:          cfg,
		orchestrator: orchestrator,
		ops:          ops,
		cron:         cron.New(),
		stopCh:       make(chan struct{}),
	}
}

// SetWorkers registers background workers for manual triggering
func (s *Scheduler) SetWorkers(enrichment, alerts Triggerable) {
	s.enrichmentWorker = enrichment
	s.alertsWorker = alerts
}

func (s *Scheduler) Start(ctx context.Context) error {
	go s.pollCommands(ctx)

	if s.cfg.Scheduler.Cron != "" {
		log.Printf("Starting scheduler with cron: %s", s.cfg.Scheduler.Cron)
		_, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, func() { s.runPipeline(ctx) })
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
	} else if s.cfg.Scheduler.Interval > 0 {
		log.Printf("Starting scheduler with interval: %s", s.cfg.Scheduler.Interval)
		s.ticker = time.NewTicker(s.cfg.Scheduler.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					s.runPipeline(ctx)
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		log.Println("No schedule configured, daemon will only respond to commands")
	}

	return nil
}

// runPipeline is one scheduled pass: sync all boards, recompute today's
// snapshots, then let the digest worker pick the day's new jobs up.
func (s *Scheduler) runPipeline(ctx context.Context) {
	if err := s.orchestrator.RunAll(ctx); err != nil {
		log.Printf("Scheduled sync error: %v", err)
	}
	if err := s.orchestrator.ComputeStats(ctx, time.Time{}, ""); err != nil {
		log.Printf("Scheduled stats error: %v", err)
	}
	if s.enrichmentWorker != nil {
		s.enrichmentWorker.Trigger()
	}
	if s.alertsWorker != nil {
		s.alertsWorker.Trigger()
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

func (s *Scheduler) pollCommands(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cmds, err := s.ops.GetPendingCommands()
			if err != nil {
				log.Printf("Error getting commands: %v", err)
				continue
			}

			for _, cmd := range cmds {
				log.Printf("Processing command: %s", cmd.Command)
				if err := s.handleCommand(ctx, &cmd); err != nil {
					log.Printf("Command error: %v", err)
				}
				if err := s.ops.MarkCommandProcessed(cmd.ID); err != nil {
					log.Printf("Error marking command processed: %v", err)
				}
			}
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) handleCommand(ctx context.Context, cmd *models.Command) error {
	switch cmd.Command {
	case models.CmdRunAlerts:
		if s.alertsWorker != nil {
			s.alertsWorker.Trigger()
			log.Println("Alerts worker triggered via command")
		}
		return nil
	default:
		return s.orchestrator.HandleCommand(ctx, cmd)
	}
}
