package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job is a tracked posting. (source, job_key) is the dedupe identity;
// first_seen_at/last_seen_at/is_active carry the lifecycle.
type Job struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Source      Source          `json:"source" db:"source"`
	CompanyName string          `json:"company_name" db:"company_name"`
	JobKey      string          `json:"job_key" db:"job_key"`
	Title       string          `json:"title" db:"title"`
	LocationRaw string          `json:"location_raw" db:"location_raw"`
	Country     string          `json:"country" db:"country"`
	City        string          `json:"city" db:"city"`
	URL         string          `json:"url" db:"url"`
	Department  string          `json:"department" db:"department"`
	JobType     string          `json:"job_type" db:"job_type"`
	TechTags    string          `json:"tech_tags" db:"tech_tags"` // pipe-joined
	Snippet     string          `json:"snippet" db:"snippet"`
	PostedAt    *time.Time      `json:"posted_at" db:"posted_at"`
	FirstSeenAt time.Time       `json:"first_seen_at" db:"first_seen_at"`
	LastSeenAt  time.Time       `json:"last_seen_at" db:"last_seen_at"`
	IsActive    bool            `json:"is_active" db:"is_active"`
	RawData     json.RawMessage `json:"raw_data" db:"raw_data"`
}

// BatchSummary is what ApplyBatch reports back per (company, source) batch.
// Reactivated is a sub-count of Updated kept for run logs.
type BatchSummary struct {
	New         int `json:"new"`
	Updated     int `json:"updated"`
	Reactivated int `json:"reactivated"`
	Deactivated int `json:"deactivated"`
	Rejected    int `json:"rejected"`
}

func (s BatchSummary) Total() int {
	return s.New + s.Updated + s.Deactivated + s.Rejected
}
