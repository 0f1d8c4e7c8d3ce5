package sources

import (
	"context"
	"testing"

	"hireassist/config"
	"hireassist/models"
)

func TestNoopFetch(t *testing.T) {
	n := NewNoop(models.SourceGreenhouse)
	if n.Name() != models.SourceGreenhouse {
		t.Fatalf("unexpected name %s", n.Name())
	}

	postings, err := n.Fetch(context.Background(), &config.CompanyConfig{Name: "Parked"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 0 {
		t.Fatalf("parked adapter must return an empty batch, got %d", len(postings))
	}
}
