// Package sources holds the per-provider adapters that turn an upstream
// board feed into a normalized posting batch. The ingest side only ever
// sees the Source interface.
package sources

import (
	"context"
	"fmt"
	"net/http"

	"hireassist/config"
	"hireassist/models"
	"hireassist/storage"
)

type Source interface {
	Name() models.Source
	Fetch(ctx context.Context, company *config.CompanyConfig) ([]models.RawPosting, error)
}

// Options carries the shared collaborators adapters may need.
type Options struct {
	Client *http.Client
	Ops    *storage.SQLiteStore
}

// New returns the adapter for a company's configured source.
func New(company *config.CompanyConfig, opts Options) (Source, error) {
	src, err := models.ParseSource(company.Source)
	if err != nil {
		return nil, err
	}

	switch src {
	case models.SourceGreenhouse:
		return &Greenhouse{client: opts.Client}, nil
	case models.SourceLever:
		return &Lever{client: opts.Client}, nil
	case models.SourceSmartRecruiters:
		return &SmartRecruiters{client: opts.Client}, nil
	case models.SourceRecruitee:
		return &Recruitee{client: opts.Client}, nil
	case models.SourceScraped:
		if opts.Ops == nil {
			return nil, fmt.Errorf("scraped source for %s needs the operational store", company.Name)
		}
		return &Scraped{ops: opts.Ops}, nil
	}
	return nil, fmt.Errorf("no adapter for source %s", src)
}
