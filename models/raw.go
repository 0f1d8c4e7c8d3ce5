package models

import (
	"encoding/json"
	"time"
)

// RawPosting is a normalized posting as handed over by a source adapter,
// before identity resolution and persistence.
type RawPosting struct {
	ProviderID  string          `json:"provider_id"`
	Title       string          `json:"title"`
	LocationRaw string          `json:"location_raw"`
	Country     string          `json:"country"`
	City        string          `json:"city"`
	URL         string          `json:"url"`
	Department  string          `json:"department"`
	JobType     string          `json:"job_type"`
	Snippet     string          `json:"snippet"`
	PostedAt    *time.Time      `json:"posted_at"`
	Data        json.RawMessage `json:"data"`
}
