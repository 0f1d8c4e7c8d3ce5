package sources

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return data
}

func TestMapGreenhouseJobs(t *testing.T) {
	var feed greenhouseFeed
	if err := json.Unmarshal(loadFixture(t, "greenhouse_board.json"), &feed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	postings := mapGreenhouseJobs(feed.Jobs)
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	p := postings[0]
	if p.ProviderID != "4567890" {
		t.Fatalf("expected provider id 4567890, got %s", p.ProviderID)
	}
	if p.Title != "Senior Backend Engineer (Go)" {
		t.Fatalf("unexpected title %s", p.Title)
	}
	if p.City != "Amsterdam" || p.Country != "Netherlands" {
		t.Fatalf("unexpected location %s / %s", p.City, p.Country)
	}
	if p.Department != "Platform Engineering" {
		t.Fatalf("unexpected department %s", p.Department)
	}
	if p.PostedAt == nil || p.PostedAt.Format("2006-01-02") != "2026-02-10" {
		t.Fatalf("unexpected posted at %v", p.PostedAt)
	}
	if p.Snippet != "We are looking for a Senior Backend Engineer to join our platform team in Amsterdam." {
		t.Fatalf("unexpected snippet %q", p.Snippet)
	}
	if len(p.Data) == 0 {
		t.Fatal("raw payload should be kept")
	}

	remote := postings[1]
	if remote.City != "" || remote.Country != "Netherlands" {
		t.Fatalf("unexpected remote location %q / %q", remote.City, remote.Country)
	}
	if remote.PostedAt != nil {
		t.Fatal("unparseable date should leave posted at nil")
	}
	if remote.Department != "" {
		t.Fatalf("expected no department, got %q", remote.Department)
	}
}
