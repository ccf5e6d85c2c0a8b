// Package feeds defines the source-agnostic intermediate record that the
// adapters emit and the normalizer consumes, plus the adapter contract.
package feeds

import (
	"context"

	"costafeed/internal/domain"
)

// Record is one listing as a single feed saw it, before normalization.
// Numeric and boolean fields stay raw strings on purpose: parsing them
// defensively is the normalizer's job, not the adapter's.
type Record struct {
	Source    domain.Source
	Reference string
	Title     string

	RawType  string
	RawPrice string
	Currency string

	Town           string
	LocationDetail string
	Province       string
	Zone           string
	RawLatitude    string
	RawLongitude   string

	RawBeds    string
	RawBaths   string
	RawBuilt   string
	RawPlot    string
	RawTerrace string

	RawNewBuild string
	RawPool     string
	RawStatus   string

	Development  string
	Developer    string
	DeliveryDate string

	// Descriptions by ISO language code; only languages actually present.
	Descriptions map[string]string
	Features     []string
	Images       []string

	EnergyConsumption string
	EnergyEmissions   string
	ExternalURL       string
}

// Adapter fetches and parses one external feed. Implementations absorb
// network and parse failures internally: a broken feed yields an empty slice
// and a logged diagnostic, never an error, so one feed going down cannot
// blank the whole site.
type Adapter interface {
	Source() domain.Source
	Fetch(ctx context.Context) []Record
}
