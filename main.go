package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hireassist/config"
	"hireassist/httputil"
	"hireassist/ingest"
	"hireassist/logging"
	"hireassist/models"
	"hireassist/scheduler"
	"hireassist/services"
	"hireassist/sources"
	"hireassist/storage"
	"hireassist/workers"
)

var (
	syncNow   = flag.Bool("sync", false, "Run one ingest pass and exit")
	company   = flag.String("company", "", "Limit -sync or -stats to a single company")
	statsNow  = flag.Bool("stats", false, "Compute daily stats and exit")
	statsDate = flag.String("date", "", "Date for -stats in YYYY-MM-DD (default today)")
	alertsNow = flag.Bool("alerts", false, "Send today's alert digests and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logFile, err := logging.Setup("daemon.log")
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting hireassist...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Loaded %d company configs", len(cfg.Companies))
	for id, c := range cfg.Companies {
		log.Printf("  - %s via %s (%s)", c.Name, c.Source, id)
	}

	ctx := context.Background()

	// Postgres holds the domain data (jobs, stats, runs, alerts)
	pgStore, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pgStore.Close()
	log.Printf("Connected to Postgres: %s", maskConnectionString(cfg.DatabaseURL))

	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// SQLite for operational data (commands, scraped drop box)
	sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer sqliteStore.Close()
	log.Printf("SQLite database: %s", cfg.DBPath)

	var notifier services.Notifier = services.NoopNotifier{}
	if cfg.RedisURL != "" {
		redisNotifier, err := services.NewRedisNotifier(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, events disabled: %v", err)
		} else {
			defer redisNotifier.Close()
			notifier = redisNotifier
			log.Println("Redis event publishing enabled")
		}
	}

	mailer := &services.SMTPMailer{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}

	ingestService := services.NewIngestService(pgStore, notifier)
	statsService := services.NewStatsService(pgStore, notifier)
	alertService := services.NewAlertService(pgStore, mailer, cfg.BaseURL)

	log.Println("Services initialized")

	fetchClient := httputil.NewClient(time.Duration(cfg.Fetch.TimeoutSec) * time.Second)

	orchestrator, err := ingest.NewOrchestrator(cfg, sqliteStore, pgStore, ingestService, statsService, sources.Options{
		Client: fetchClient,
		Ops:    sqliteStore,
	})
	if err != nil {
		log.Fatalf("Failed to build orchestrator: %v", err)
	}

	// One-shot modes
	switch {
	case *syncNow:
		if *company != "" {
			log.Printf("Running ingest for %s...", *company)
			err = orchestrator.RunCompany(ctx, *company)
		} else {
			log.Println("Running ingest for all companies...")
			err = orchestrator.RunAll(ctx)
		}
		if err != nil {
			log.Fatalf("Ingest failed: %v", err)
		}
		log.Println("Ingest complete!")
		return

	case *statsNow:
		day, err := parseStatsDate(*statsDate)
		if err != nil {
			log.Fatalf("Invalid -date: %v", err)
		}
		if err := orchestrator.ComputeStats(ctx, day, *company); err != nil {
			log.Fatalf("Stats failed: %v", err)
		}
		log.Println("Stats complete!")
		return

	case *alertsNow:
		today := time.Now().UTC().Truncate(24 * time.Hour)
		stats, err := alertService.SendDailyDigests(ctx, today)
		if err != nil {
			log.Fatalf("Alert digests failed: %v", err)
		}
		log.Printf("Digests complete: %d alerts checked, %d emails sent", stats.AlertsChecked, stats.EmailsSent)
		return
	}

	// Daemon mode
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	enrichmentWorker := workers.NewEnrichmentWorker(pgStore, fetchClient)
	enrichmentWorker.SetLogger(func(level models.LogLevel, companyName, message string) {
		entry := &models.IngestLog{
			Timestamp:   time.Now(),
			Level:       level,
			Message:     message,
			CompanyName: companyName,
		}
		if err := pgStore.CreateIngestLog(ctx, entry); err != nil {
			log.Printf("Warning: persist log failed: %v", err)
		}
	})
	alertsWorker := workers.NewAlertsWorker(alertService)

	sched := scheduler.New(cfg, orchestrator, sqliteStore)
	sched.SetWorkers(enrichmentWorker, alertsWorker)

	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	go enrichmentWorker.Run(ctx, 10, 5*time.Minute) // batch of 10 every 5 min
	log.Println("Enrichment worker started")

	go alertsWorker.Run(ctx, 30*time.Minute)
	log.Println("Alerts worker started")

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	log.Println("Goodbye!")
}

func parseStatsDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD: %w", err)
	}
	return day, nil
}

// maskConnectionString masks password in connection string for logging
func maskConnectionString(connStr string) string {
	// Simple mask - find :// and mask until @
	start := 0
	for i := 0; i < len(connStr)-3; i++ {
		if connStr[i:i+3] == "://" {
			start = i + 3
			break
		}
	}
	if start == 0 {
		return connStr
	}

	// Find : after user
	colonIdx := -1
	atIdx := -1
	for i := start; i < len(connStr); i++ {
		if connStr[i] == ':' && colonIdx == -1 {
			colonIdx = i
		}
		if connStr[i] == '@' {
			atIdx = i
			break
		}
	}

	if colonIdx > 0 && atIdx > colonIdx {
		return connStr[:colonIdx+1] + "****" + connStr[atIdx:]
	}
	return connStr
}
