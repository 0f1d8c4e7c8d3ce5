package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hireassist/config"
	"hireassist/httputil"
	"hireassist/models"
)

// Recruitee reads the public offers feed from {token}.recruitee.com.
type Recruitee struct {
	client *http.Client
}

type recruiteeFeed struct {
	Offers []recruiteeOffer `json:"offers"`
}

type recruiteeOffer struct {
	ID                 int64  `json:"id"`
	Slug               string `json:"slug"`
	Title              string `json:"title"`
	Location           string `json:"location"`
	CareersURL         string `json:"careers_url"`
	URL                string `json:"url"`
	CreatedAt          string `json:"created_at"`
	Department         string `json:"department"`
	Category           string `json:"category"`
	EmploymentTypeCode string `json:"employment_type_code"`
	Description        string `json:"description"`
}

func (r *Recruitee) Name() models.Source { return models.SourceRecruitee }

func (r *Recruitee) Fetch(ctx context.Context, company *config.CompanyConfig) ([]models.RawPosting, error) {
	url := fmt.Sprintf("https://%s.recruitee.com/api/offers/", company.Token)
	var feed recruiteeFeed
	if err := httputil.GetJSON(ctx, r.client, url, &feed); err != nil {
		return nil, fmt.Errorf("recruitee %s: %w", company.Token, err)
	}
	return mapRecruiteeOffers(feed.Offers), nil
}

func mapRecruiteeOffers(offers []recruiteeOffer) []models.RawPosting {
	postings := make([]models.RawPosting, 0, len(offers))
	for _, o := range offers {
		city, country := SplitLocation(o.Location)

		id := o.Slug
		if o.ID != 0 {
			id = strconv.FormatInt(o.ID, 10)
		}
		applyURL := o.CareersURL
		if applyURL == "" {
			applyURL = o.URL
		}
		department := o.Department
		if department == "" {
			department = o.Category
		}

		raw, _ := json.Marshal(o)
		postings = append(postings, models.RawPosting{
			ProviderID:  id,
			Title:       o.Title,
			LocationRaw: o.Location,
			Country:     country,
			City:        city,
			URL:         applyURL,
			Department:  department,
			JobType:     employmentType(o.EmploymentTypeCode),
			Snippet:     MakeSnippet(o.Description),
			PostedAt:    parseRecruiteeTime(o.CreatedAt),
			Data:        raw,
		})
	}
	return postings
}

// employmentType turns "full_time" into "Full Time".
func employmentType(code string) string {
	if code == "" {
		return ""
	}
	words := strings.Split(code, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Recruitee has shipped both RFC3339 and "2006-01-02 15:04:05 UTC" stamps.
func parseRecruiteeTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05 MST"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
