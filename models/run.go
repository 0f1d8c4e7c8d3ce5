package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

type IngestRun struct {
	ID           int64      `json:"id" db:"id"`
	CompanyName  string     `json:"company_name" db:"company_name"`
	Source       Source     `json:"source" db:"source"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	FinishedAt   *time.Time `json:"finished_at" db:"finished_at"`
	Status       RunStatus  `json:"status" db:"status"`
	PostingsSeen int        `json:"postings_seen" db:"postings_seen"`
	JobsNew      int        `json:"jobs_new" db:"jobs_new"`
	JobsUpdated  int        `json:"jobs_updated" db:"jobs_updated"`
	JobsClosed   int        `json:"jobs_closed" db:"jobs_closed"`
	Rejected     int        `json:"rejected" db:"rejected"`
	ErrorMessage string     `json:"error_message" db:"error_message"`
}
