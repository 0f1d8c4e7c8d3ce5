package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hireassist/config"
	"hireassist/httputil"
	"hireassist/models"
)

// Greenhouse reads a public board feed from boards-api.greenhouse.io. The
// company token is the board token.
type Greenhouse struct {
	client *http.Client
}

type greenhouseFeed struct {
	Jobs []greenhouseJob `json:"jobs"`
}

type greenhouseJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments"`
	Content string `json:"content"`
}

func (g *Greenhouse) Name() models.Source { return models.SourceGreenhouse }

func (g *Greenhouse) Fetch(ctx context.Context, company *config.CompanyConfig) ([]models.RawPosting, error) {
	url := fmt.Sprintf("https://boards-api.greenhouse.io/v1/boards/%s/jobs?content=true", company.Token)
	var feed greenhouseFeed
	if err := httputil.GetJSON(ctx, g.client, url, &feed); err != nil {
		return nil, fmt.Errorf("greenhouse %s: %w", company.Token, err)
	}
	return mapGreenhouseJobs(feed.Jobs), nil
}

func mapGreenhouseJobs(jobs []greenhouseJob) []models.RawPosting {
	postings := make([]models.RawPosting, 0, len(jobs))
	for _, j := range jobs {
		city, country := SplitLocation(j.Location.Name)
		department := ""
		if len(j.Departments) > 0 {
			department = j.Departments[0].Name
		}
		var postedAt *time.Time
		if t, err := time.Parse(time.RFC3339, j.UpdatedAt); err == nil {
			postedAt = &t
		}
		raw, _ := json.Marshal(j)
		postings = append(postings, models.RawPosting{
			ProviderID:  strconv.FormatInt(j.ID, 10),
			Title:       j.Title,
			LocationRaw: j.Location.Name,
			Country:     country,
			City:        city,
			URL:         j.AbsoluteURL,
			Department:  department,
			Snippet:     MakeSnippet(j.Content),
			PostedAt:    postedAt,
			Data:        raw,
		})
	}
	return postings
}
