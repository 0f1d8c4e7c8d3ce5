package sources

import (
	"context"

	"hireassist/config"
	"hireassist/models"
)

// Noop always returns an empty batch. Wiring it in place of a real adapter
// parks a company without touching its stored jobs: the ingest engine
// treats empty batches as fetch failures and deactivates nothing.
type Noop struct {
	name models.Source
}

func NewNoop(name models.Source) *Noop { return &Noop{name: name} }

func (n *Noop) Name() models.Source { return n.name }

func (n *Noop) Fetch(context.Context, *config.CompanyConfig) ([]models.RawPosting, error) {
	return nil, nil
}
