// Package pipeline orchestrates the analytics run: load raw lines, parse
// records, validate and filter, aggregate, enrich from the product catalog,
// and write the report and enriched data files.
//
// The stages run strictly in order on a single goroutine. Failures are
// absorbed at the boundary that detects them: missing or undecodable input
// yields empty results, a failed catalog fetch degrades enrichment to
// nothing, and output write failures are recorded on the result rather than
// raised. A run never terminates the process.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/asaisreeja/Sales-Analytics-System/internal/analytics"
	"github.com/asaisreeja/Sales-Analytics-System/internal/enrichment"
	"github.com/asaisreeja/Sales-Analytics-System/internal/loader"
	"github.com/asaisreeja/Sales-Analytics-System/internal/models"
	"github.com/asaisreeja/Sales-Analytics-System/internal/parsers"
	"github.com/asaisreeja/Sales-Analytics-System/internal/reporter"
	"github.com/asaisreeja/Sales-Analytics-System/internal/validator"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/logger"
)

// Config holds the full configuration for a pipeline run.
type Config struct {
	// InputFile is the pipe-delimited sales data file.
	InputFile string
	// ReportFile is where the formatted text report is written.
	ReportFile string
	// EnrichedFile is where the enriched data file is written.
	EnrichedFile string
	// SkipEnrichment disables the catalog fetch entirely.
	SkipEnrichment bool

	Filters   *validator.FilterOptions
	Loader    *loader.Config
	Parser    *parsers.Config
	Analytics *analytics.Config
	Catalog   *enrichment.ClientConfig
	Report    *reporter.Config
}

// DefaultConfig returns a configuration with standard component settings.
// Input and output paths must still be supplied.
func DefaultConfig() *Config {
	return &Config{
		ReportFile:   "output/sales_report.txt",
		EnrichedFile: "output/enriched_sales_data.txt",
		Loader:       loader.DefaultConfig(),
		Parser:       parsers.DefaultConfig(),
		Analytics:    analytics.DefaultConfig(),
		Catalog:      enrichment.DefaultClientConfig(),
		Report:       reporter.DefaultConfig(),
	}
}

// Validate validates the pipeline configuration.
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("input file is required")
	}
	if c.ReportFile == "" {
		return fmt.Errorf("report file path is required")
	}
	if !c.SkipEnrichment && c.EnrichedFile == "" {
		return fmt.Errorf("enriched file path is required unless enrichment is skipped")
	}
	return nil
}

// Result captures everything a run produced, including the errors that were
// absorbed along the way.
type Result struct {
	// RawLineCount is the number of data lines read from the input file.
	RawLineCount int
	// ParseStats describes the parse stage outcome.
	ParseStats *parsers.ParseStats
	// Diagnostics describes the candidate set before validation.
	Diagnostics *validator.Diagnostics
	// FilterSummary classifies every parsed record.
	FilterSummary *validator.FilterSummary
	// Analytics is the full aggregation summary over valid transactions.
	Analytics *analytics.Summary
	// Enrichment is nil when the fetch failed or enrichment was skipped.
	Enrichment *enrichment.Stats
	// Enriched holds the enriched rows, present only when enrichment ran.
	Enriched []*models.EnrichedTransaction

	// LoadErr, EnrichmentErr, EnrichedWriteErr and ReportErr record failures
	// that were absorbed rather than raised.
	LoadErr          error
	EnrichmentErr    error
	EnrichedWriteErr error
	ReportErr        error

	// ReportPath and EnrichedPath are set when the corresponding file was
	// written successfully.
	ReportPath   string
	EnrichedPath string

	Duration time.Duration
}

// Service runs the analytics pipeline.
type Service struct {
	config    *Config
	loader    *loader.Loader
	parser    *parsers.RecordParser
	validator *validator.Validator
	engine    *analytics.Engine
	catalog   *enrichment.Client
	reporter  *reporter.Generator
	logger    logger.Logger
}

// NewService wires the pipeline components from the given configuration.
func NewService(config *Config) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("pipeline configuration cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}

	parser, err := parsers.NewRecordParser(config.Parser)
	if err != nil {
		return nil, fmt.Errorf("failed to create record parser: %w", err)
	}

	val, err := validator.NewValidator(config.Filters)
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	engine, err := analytics.NewEngine(config.Analytics)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics engine: %w", err)
	}

	var catalog *enrichment.Client
	if !config.SkipEnrichment {
		catalog, err = enrichment.NewClient(config.Catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to create catalog client: %w", err)
		}
	}

	gen, err := reporter.NewGenerator(config.Report)
	if err != nil {
		return nil, fmt.Errorf("failed to create report generator: %w", err)
	}

	return &Service{
		config:    config,
		loader:    loader.NewLoader(config.Loader),
		parser:    parser,
		validator: val,
		engine:    engine,
		catalog:   catalog,
		reporter:  gen,
		logger:    logger.GetGlobalLogger().WithComponent("pipeline"),
	}, nil
}

// Run executes the full pipeline. The returned error is non-nil only when
// the context is cancelled; every stage failure is absorbed and recorded on
// the Result.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}

	// Stage 1: load raw lines. A missing or undecodable file degrades to an
	// empty run that still writes an empty report.
	lines, err := s.loader.LoadLines(s.config.InputFile)
	if err != nil {
		s.logger.WithError(err).WithField("input_file", s.config.InputFile).
			Error("Failed to read sales data, continuing with empty input")
		result.LoadErr = err
		lines = nil
	}
	result.RawLineCount = len(lines)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Stage 2: parse.
	candidates, parseStats := s.parser.ParseRecords(lines)
	result.ParseStats = parseStats

	// Stage 3: validate and filter.
	result.Diagnostics = s.validator.Diagnostics(candidates)
	valid, _, filterSummary := s.validator.ValidateAndFilter(candidates)
	result.FilterSummary = filterSummary

	// Stage 4: aggregate.
	result.Analytics = s.engine.Summarize(valid)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Stage 5: enrichment. A fetch failure skips this stage and its report
	// section; the rest of the run continues.
	if s.catalog != nil {
		s.runEnrichment(ctx, valid, result)
	}

	// Stage 6: report. Write failures are reported and swallowed here.
	data := &reporter.Data{
		GeneratedAt: time.Now(),
		Analytics:   result.Analytics,
		Enrichment:  result.Enrichment,
	}
	if err := s.reporter.WriteReportFile(s.config.ReportFile, data); err != nil {
		s.logger.WithError(err).WithField("report_file", s.config.ReportFile).
			Error("Failed to write report")
		result.ReportErr = err
	} else {
		result.ReportPath = s.config.ReportFile
	}

	result.Duration = time.Since(start)

	s.logger.WithFields(logger.Fields{
		"raw_lines":     result.RawLineCount,
		"valid":         filterSummary.FinalCount,
		"duration":      result.Duration.String(),
		"report_file":   result.ReportPath,
		"enriched_rows": len(result.Enriched),
	}).Info("Pipeline run completed")

	return result, nil
}

// runEnrichment fetches the catalog, enriches the valid transactions and
// writes the enriched data file, recording any absorbed failure.
func (s *Service) runEnrichment(ctx context.Context, valid []*models.Transaction, result *Result) {
	fetchCtx := ctx
	if s.config.Catalog != nil && s.config.Catalog.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.config.Catalog.Timeout)
		defer cancel()
	}

	entries, err := s.catalog.FetchProducts(fetchCtx)
	if err != nil {
		s.logger.WithError(err).Warn("Catalog fetch failed, skipping enrichment")
		result.EnrichmentErr = err
		return
	}

	mapping := enrichment.BuildProductMapping(entries)
	enriched := enrichment.EnrichTransactions(valid, mapping)

	result.Enriched = enriched
	result.Enrichment = enrichment.CollectStats(enriched)

	if err := enrichment.WriteEnrichedFile(s.config.EnrichedFile, enriched); err != nil {
		s.logger.WithError(err).WithField("enriched_file", s.config.EnrichedFile).
			Error("Failed to write enriched data file")
		result.EnrichedWriteErr = err
		return
	}
	result.EnrichedPath = s.config.EnrichedFile
}
