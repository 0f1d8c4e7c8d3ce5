package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hireassist/config"
	"hireassist/httputil"
	"hireassist/models"
)

// Lever reads the public postings feed from api.lever.co. The company token
// is the lever site slug.
type Lever struct {
	client *http.Client
}

type leverJob struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	HostedURL  string `json:"hostedUrl"`
	CreatedAt  int64  `json:"createdAt"` // unix millis
	Categories struct {
		Location   string `json:"location"`
		Department string `json:"department"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
	Description string `json:"description"`
}

func (l *Lever) Name() models.Source { return models.SourceLever }

func (l *Lever) Fetch(ctx context.Context, company *config.CompanyConfig) ([]models.RawPosting, error) {
	url := fmt.Sprintf("https://api.lever.co/v0/postings/%s?mode=json", company.Token)
	var jobs []leverJob
	if err := httputil.GetJSON(ctx, l.client, url, &jobs); err != nil {
		return nil, fmt.Errorf("lever %s: %w", company.Token, err)
	}
	return mapLeverJobs(jobs), nil
}

func mapLeverJobs(jobs []leverJob) []models.RawPosting {
	postings := make([]models.RawPosting, 0, len(jobs))
	for _, j := range jobs {
		city, country := SplitLocation(j.Categories.Location)
		var postedAt *time.Time
		if j.CreatedAt > 0 {
			t := time.UnixMilli(j.CreatedAt).UTC()
			postedAt = &t
		}
		raw, _ := json.Marshal(j)
		postings = append(postings, models.RawPosting{
			ProviderID:  j.ID,
			Title:       j.Text,
			LocationRaw: j.Categories.Location,
			Country:     country,
			City:        city,
			URL:         j.HostedURL,
			Department:  j.Categories.Department,
			JobType:     j.Categories.Commitment,
			Snippet:     MakeSnippet(j.Description),
			PostedAt:    postedAt,
			Data:        raw,
		})
	}
	return postings
}
