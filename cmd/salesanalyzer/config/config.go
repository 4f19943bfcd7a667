// Package config assembles pipeline component configurations from resolved
// CLI flag values.
package config

import (
	"fmt"
	"time"

	"github.com/asaisreeja/Sales-Analytics-System/internal/analytics"
	"github.com/asaisreeja/Sales-Analytics-System/internal/enrichment"
	"github.com/asaisreeja/Sales-Analytics-System/internal/pipeline"
	"github.com/asaisreeja/Sales-Analytics-System/internal/validator"

	"github.com/shopspring/decimal"
)

// Options carries the resolved CLI flag values. The *Set fields distinguish
// "flag not supplied" from "flag supplied with a zero value": a filter is
// active only when explicitly supplied.
type Options struct {
	InputFile    string
	ReportFile   string
	EnrichedFile string

	Region    string
	RegionSet bool

	MinAmount float64
	MinSet    bool
	MaxAmount float64
	MaxSet    bool

	TopProducts  int
	LowThreshold int

	CatalogURL     string
	CatalogLimit   int
	CatalogTimeout time.Duration
	SkipEnrichment bool
}

// BuildFilterOptions converts the flag values into validator filter options.
func BuildFilterOptions(opts *Options) *validator.FilterOptions {
	filters := &validator.FilterOptions{}

	if opts.RegionSet {
		region := opts.Region
		filters.Region = &region
	}
	if opts.MinSet {
		min := decimal.NewFromFloat(opts.MinAmount)
		filters.MinAmount = &min
	}
	if opts.MaxSet {
		max := decimal.NewFromFloat(opts.MaxAmount)
		filters.MaxAmount = &max
	}

	return filters
}

// BuildPipelineConfig assembles the full pipeline configuration from the
// resolved flag values.
func BuildPipelineConfig(opts *Options) (*pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()

	cfg.InputFile = opts.InputFile
	if opts.ReportFile != "" {
		cfg.ReportFile = opts.ReportFile
	}
	if opts.EnrichedFile != "" {
		cfg.EnrichedFile = opts.EnrichedFile
	}
	cfg.SkipEnrichment = opts.SkipEnrichment
	cfg.Filters = BuildFilterOptions(opts)

	cfg.Analytics = analytics.DefaultConfig()
	if opts.TopProducts > 0 {
		cfg.Analytics.TopProductLimit = opts.TopProducts
	}
	if opts.LowThreshold >= 0 {
		cfg.Analytics.LowQuantityThreshold = opts.LowThreshold
	}

	cfg.Catalog = enrichment.DefaultClientConfig()
	if opts.CatalogURL != "" {
		cfg.Catalog.BaseURL = opts.CatalogURL
	}
	if opts.CatalogLimit > 0 {
		cfg.Catalog.PageLimit = opts.CatalogLimit
	}
	if opts.CatalogTimeout > 0 {
		cfg.Catalog.Timeout = opts.CatalogTimeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}

	return cfg, nil
}
