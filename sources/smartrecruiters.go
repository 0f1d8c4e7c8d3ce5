package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"hireassist/config"
	"hireassist/httputil"
	"hireassist/models"
)

// SmartRecruiters reads the public postings page from api.smartrecruiters.com.
// The feed has no apply URL, so it is rebuilt from the company token and the
// posting ref.
type SmartRecruiters struct {
	client *http.Client
}

type smartRecruitersFeed struct {
	Content []smartRecruitersJob `json:"content"`
}

type smartRecruitersJob struct {
	ID       string `json:"id"`
	Ref      string `json:"ref"`
	Name     string `json:"name"`
	Location struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"location"`
	Department struct {
		Label string `json:"label"`
	} `json:"department"`
	TypeOfEmployment struct {
		Label string `json:"label"`
	} `json:"typeOfEmployment"`
}

func (s *SmartRecruiters) Name() models.Source { return models.SourceSmartRecruiters }

func (s *SmartRecruiters) Fetch(ctx context.Context, company *config.CompanyConfig) ([]models.RawPosting, error) {
	url := fmt.Sprintf("https://api.smartrecruiters.com/v1/companies/%s/postings", company.Token)
	var feed smartRecruitersFeed
	if err := httputil.GetJSON(ctx, s.client, url, &feed); err != nil {
		return nil, fmt.Errorf("smartrecruiters %s: %w", company.Token, err)
	}
	return mapSmartRecruitersJobs(company.Token, feed.Content), nil
}

func mapSmartRecruitersJobs(token string, jobs []smartRecruitersJob) []models.RawPosting {
	postings := make([]models.RawPosting, 0, len(jobs))
	for _, j := range jobs {
		var locParts []string
		if j.Location.City != "" {
			locParts = append(locParts, j.Location.City)
		}
		if j.Location.Country != "" {
			locParts = append(locParts, j.Location.Country)
		}
		locRaw := strings.Join(locParts, ", ")
		city, country := SplitLocation(locRaw)

		ref := j.Ref
		if ref == "" {
			ref = j.ID
		}
		applyURL := ""
		if ref != "" {
			applyURL = fmt.Sprintf("https://jobs.smartrecruiters.com/%s/%s", token, ref)
		}

		raw, _ := json.Marshal(j)
		postings = append(postings, models.RawPosting{
			ProviderID:  ref,
			Title:       j.Name,
			LocationRaw: locRaw,
			Country:     country,
			City:        city,
			URL:         applyURL,
			Department:  j.Department.Label,
			JobType:     j.TypeOfEmployment.Label,
			Data:        raw,
		})
	}
	return postings
}
