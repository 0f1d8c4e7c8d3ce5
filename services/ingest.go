package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"hireassist/classify"
	"hireassist/identity"
	"hireassist/models"
)

// JobTx is the slice of a jobs transaction the ingest engine needs. Getters
// return (nil, nil) when no row exists.
type JobTx interface {
	GetJob(ctx context.Context, source models.Source, jobKey string) (*models.Job, error)
	InsertJob(ctx context.Context, job *models.Job) error
	UpdateJob(ctx context.Context, job *models.Job) error
	DeactivateMissing(ctx context.Context, companyName string, source models.Source, seenKeys []string, now time.Time) (int64, error)
}

// JobStore runs fn inside a single transaction; fn returning an error rolls
// everything back.
type JobStore interface {
	InJobTx(ctx context.Context, fn func(JobTx) error) error
}

// Notifier is an optional downstream collaborator. NoopNotifier is the
// documented default when nothing is configured.
type Notifier interface {
	BatchApplied(ctx context.Context, companyName string, source models.Source, summary models.BatchSummary)
	StatsComputed(ctx context.Context, day time.Time, rows int)
}

// IngestService owns the jobs table lifecycle. It is the only writer of
// jobs rows.
type IngestService struct {
	store    JobStore
	notifier Notifier
	now      func() time.Time
}

func NewIngestService(store JobStore, notifier Notifier) *IngestService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &IngestService{store: store, notifier: notifier, now: time.Now}
}

// ApplyBatch reconciles one full fetch of a (company, source) pair against
// the stored state. The batch is authoritative: stored active rows missing
// from it are deactivated. An empty batch (or one whose every record was
// rejected) is treated as a failed fetch and deactivates nothing.
func (s *IngestService) ApplyBatch(ctx context.Context, companyName string, source models.Source, postings []models.RawPosting) (models.BatchSummary, error) {
	var summary models.BatchSummary
	now := s.now().UTC()

	// Resolve keys up front; in-batch duplicates collapse, last record wins.
	keyed := make(map[string]*models.RawPosting, len(postings))
	order := make([]string, 0, len(postings))
	for i := range postings {
		p := &postings[i]
		if p.Title == "" {
			summary.Rejected++
			continue
		}
		key, err := identity.JobKey(source, companyName, p)
		if err != nil {
			log.Printf("Warning: rejecting posting for %s/%s: %v", companyName, source, err)
			summary.Rejected++
			continue
		}
		if _, dup := keyed[key]; !dup {
			order = append(order, key)
		}
		keyed[key] = p
	}

	if len(keyed) == 0 {
		if len(postings) > 0 {
			log.Printf("Warning: batch for %s/%s had %d postings, all rejected; skipping deactivation", companyName, source, len(postings))
		} else {
			log.Printf("Empty batch for %s/%s; skipping deactivation", companyName, source)
		}
		return summary, nil
	}

	err := s.store.InJobTx(ctx, func(tx JobTx) error {
		for _, key := range order {
			p := keyed[key]
			existing, err := tx.GetJob(ctx, source, key)
			if err != nil {
				return fmt.Errorf("get job %s/%s: %w", source, key, err)
			}
			if existing == nil {
				job := buildJob(companyName, source, key, p, now)
				if err := tx.InsertJob(ctx, job); err != nil {
					return fmt.Errorf("insert job %s/%s: %w", source, key, err)
				}
				summary.New++
				continue
			}
			if !existing.IsActive {
				summary.Reactivated++
			}
			mergeJob(existing, p, now)
			if err := tx.UpdateJob(ctx, existing); err != nil {
				return fmt.Errorf("update job %s/%s: %w", source, key, err)
			}
			summary.Updated++
		}

		closed, err := tx.DeactivateMissing(ctx, companyName, source, order, now)
		if err != nil {
			return fmt.Errorf("deactivate missing for %s/%s: %w", companyName, source, err)
		}
		summary.Deactivated = int(closed)
		return nil
	})
	if err != nil {
		return models.BatchSummary{}, fmt.Errorf("apply batch for %s/%s: %w", companyName, source, err)
	}

	s.notifier.BatchApplied(ctx, companyName, source, summary)
	return summary, nil
}

func buildJob(companyName string, source models.Source, key string, p *models.RawPosting, now time.Time) *models.Job {
	job := &models.Job{
		ID:          uuid.New(),
		Source:      source,
		CompanyName: companyName,
		JobKey:      key,
		Title:       p.Title,
		LocationRaw: p.LocationRaw,
		Country:     p.Country,
		City:        p.City,
		URL:         p.URL,
		Department:  p.Department,
		JobType:     p.JobType,
		Snippet:     p.Snippet,
		PostedAt:    p.PostedAt,
		FirstSeenAt: now,
		LastSeenAt:  now,
		IsActive:    true,
		RawData:     p.Data,
	}
	if job.Department == "" {
		job.Department = classify.Department(job.Title)
	}
	job.TechTags = classify.TechTagString(job.Title)
	return job
}

// mergeJob refreshes mutable fields from the upstream record. Identity and
// first_seen_at never change; posted_at keeps the stored value unless the
// upstream supplies one.
func mergeJob(job *models.Job, p *models.RawPosting, now time.Time) {
	job.Title = p.Title
	job.LocationRaw = p.LocationRaw
	job.Country = p.Country
	job.City = p.City
	job.URL = p.URL
	job.JobType = p.JobType
	if p.Department != "" {
		job.Department = p.Department
	} else if job.Department == "" {
		job.Department = classify.Department(job.Title)
	}
	if p.Snippet != "" {
		job.Snippet = p.Snippet
	}
	if p.PostedAt != nil {
		job.PostedAt = p.PostedAt
	}
	if len(p.Data) > 0 {
		job.RawData = p.Data
	}
	job.TechTags = classify.TechTagString(job.Title)
	job.LastSeenAt = now
	job.IsActive = true
}
