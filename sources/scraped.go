package sources

import (
	"context"
	"fmt"
	"strings"

	"hireassist/config"
	"hireassist/models"
	"hireassist/storage"
)

// Scraped serves career-page postings that the external browser scraper
// dropped into the operational store. Only the most recent batch counts: a
// half-filled older batch must not look like disappearances.
type Scraped struct {
	ops *storage.SQLiteStore
}

func (s *Scraped) Name() models.Source { return models.SourceScraped }

func (s *Scraped) Fetch(ctx context.Context, company *config.CompanyConfig) ([]models.RawPosting, error) {
	rows, _, err := s.ops.LatestScrapedBatch(company.Name)
	if err != nil {
		return nil, fmt.Errorf("scraped batch for %s: %w", company.Name, err)
	}

	postings := make([]models.RawPosting, 0, len(rows))
	for _, row := range rows {
		locRaw := row.LocationRaw
		// Scrapers sometimes jam extra context after a pipe.
		locForParse := locRaw
		if i := strings.Index(locForParse, "|"); i >= 0 {
			locForParse = strings.TrimSpace(locForParse[:i])
		}
		city, country := SplitLocation(locForParse)
		if country == "" {
			country = "Netherlands"
		}

		postings = append(postings, models.RawPosting{
			Title:       row.Title,
			LocationRaw: locRaw,
			Country:     country,
			City:        city,
			URL:         row.URL,
			Snippet:     row.Snippet,
			Data:        row.Data,
		})
	}
	return postings, nil
}
