package workers

import (
	"context"
	"log"
	"time"

	"hireassist/services"
)

// AlertsWorker sends daily digest emails for confirmed job alerts. It runs at
// most one digest per calendar day; manual triggers re-run for today, which is
// safe because matching is recomputed from first_seen_at each time.
type AlertsWorker struct {
	alerts    *services.AlertService
	triggerCh chan struct{}
	lastRun   time.Time
}

// NewAlertsWorker creates a new alerts digest worker
func NewAlertsWorker(alerts *services.AlertService) *AlertsWorker {
	return &AlertsWorker{
		alerts:    alerts,
		triggerCh: make(chan struct{}, 1),
	}
}

// Trigger causes the worker to run immediately
func (w *AlertsWorker) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

// Run checks on an interval whether today's digest is due
func (w *AlertsWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Alerts worker stopping")
			return
		case <-ticker.C:
			w.runDigest(ctx, false)
		case <-w.triggerCh:
			log.Println("Alerts worker triggered manually")
			w.runDigest(ctx, true)
		}
	}
}

func (w *AlertsWorker) runDigest(ctx context.Context, force bool) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if !force && !w.lastRun.Before(today) {
		return
	}

	stats, err := w.alerts.SendDailyDigests(ctx, today)
	if err != nil {
		log.Printf("Alerts: digest error: %v", err)
		return
	}
	w.lastRun = today

	log.Printf("Alerts: checked %d alerts, sent %d emails (%d jobs matched)",
		stats.AlertsChecked, stats.EmailsSent, stats.JobsMatched)
}
