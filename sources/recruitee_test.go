package sources

import "testing"

func TestMapRecruiteeOffers(t *testing.T) {
	offers := []recruiteeOffer{
		{
			ID:                 991,
			Slug:               "backend-engineer",
			Title:              "Backend Engineer",
			Location:           "Amsterdam, Netherlands",
			CareersURL:         "https://framer.recruitee.com/o/backend-engineer",
			CreatedAt:          "2026-02-01T09:00:00Z",
			Category:           "Engineering",
			EmploymentTypeCode: "full_time",
			Description:        "<p>Ship product fast.</p>",
		},
		{
			Slug:      "designer",
			Title:     "Designer",
			URL:       "https://framer.recruitee.com/o/designer",
			CreatedAt: "2026-02-01 09:00:00 UTC",
		},
	}

	postings := mapRecruiteeOffers(offers)
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	p := postings[0]
	if p.ProviderID != "991" {
		t.Fatalf("numeric id should win over slug, got %s", p.ProviderID)
	}
	if p.Department != "Engineering" {
		t.Fatalf("category should back-fill department, got %q", p.Department)
	}
	if p.JobType != "Full Time" {
		t.Fatalf("unexpected job type %q", p.JobType)
	}
	if p.PostedAt == nil {
		t.Fatal("RFC3339 stamp should parse")
	}

	fallback := postings[1]
	if fallback.ProviderID != "designer" {
		t.Fatalf("slug should be the fallback id, got %s", fallback.ProviderID)
	}
	if fallback.URL != "https://framer.recruitee.com/o/designer" {
		t.Fatalf("url should fall back, got %s", fallback.URL)
	}
	if fallback.PostedAt == nil {
		t.Fatal("legacy timestamp layout should parse")
	}
}

func TestMapSmartRecruitersJobs(t *testing.T) {
	jobs := []smartRecruitersJob{
		{
			ID:   "744000012",
			Ref:  "744000012-senior-engineer",
			Name: "Senior Engineer",
		},
		{
			ID:   "744000013",
			Name: "Warehouse Associate",
		},
	}
	jobs[0].Location.City = "Utrecht"
	jobs[0].Location.Country = "Netherlands"
	jobs[0].Department.Label = "Tech"

	postings := mapSmartRecruitersJobs("PicnicTechnologies", jobs)
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}

	p := postings[0]
	if p.ProviderID != "744000012-senior-engineer" {
		t.Fatalf("ref should be the provider id, got %s", p.ProviderID)
	}
	if p.URL != "https://jobs.smartrecruiters.com/PicnicTechnologies/744000012-senior-engineer" {
		t.Fatalf("unexpected apply url %s", p.URL)
	}
	if p.City != "Utrecht" || p.Country != "Netherlands" {
		t.Fatalf("unexpected location %s / %s", p.City, p.Country)
	}
	if p.LocationRaw != "Utrecht, Netherlands" {
		t.Fatalf("unexpected raw location %q", p.LocationRaw)
	}

	if postings[1].ProviderID != "744000013" {
		t.Fatalf("id should back-fill missing ref, got %s", postings[1].ProviderID)
	}
}
