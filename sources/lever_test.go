package sources

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMapLeverJobs(t *testing.T) {
	var jobs []leverJob
	if err := json.Unmarshal(loadFixture(t, "lever_postings.json"), &jobs); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	postings := mapLeverJobs(jobs)
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	p := postings[0]
	if p.ProviderID != "a1b2c3d4-0001" {
		t.Fatalf("unexpected provider id %s", p.ProviderID)
	}
	if p.Title != "Data Engineer" {
		t.Fatalf("unexpected title %s", p.Title)
	}
	if p.City != "Amsterdam" || p.Country != "Netherlands" {
		t.Fatalf("unexpected location %s / %s", p.City, p.Country)
	}
	if p.JobType != "Full-time" {
		t.Fatalf("unexpected job type %s", p.JobType)
	}
	want := time.UnixMilli(1770000000000).UTC()
	if p.PostedAt == nil || !p.PostedAt.Equal(want) {
		t.Fatalf("unexpected posted at %v", p.PostedAt)
	}
	if p.Snippet != "Build the pipelines that power our payment insights." {
		t.Fatalf("unexpected snippet %q", p.Snippet)
	}

	if postings[1].PostedAt != nil {
		t.Fatal("zero createdAt should leave posted at nil")
	}
	if postings[1].City != "" {
		t.Fatalf("remote location should have no city, got %q", postings[1].City)
	}
}
