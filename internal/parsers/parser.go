// Package parsers converts raw pipe-delimited sales lines into typed
// transaction records.
//
// The parser is deliberately forgiving: a line that does not split into the
// expected field count, or whose numeric fields fail conversion after
// comma-stripping, is silently discarded. Discards are tracked in ParseStats
// for logging and for the totals comparison done downstream, but are never
// surfaced as per-line errors.
package parsers

import (
	"fmt"
	"strings"

	"github.com/asaisreeja/Sales-Analytics-System/internal/models"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/errors"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/logger"
)

// Field positions within a well-formed record.
const (
	fieldTransactionID = iota
	fieldDate
	fieldProductID
	fieldProductName
	fieldQuantity
	fieldUnitPrice
	fieldCustomerID
	fieldRegion
	recordFieldCount
)

// Config holds configuration for the record parser.
type Config struct {
	// Delimiter separates fields within a line.
	Delimiter string
	// MaxSampleDiscards caps how many discarded lines are kept for logging.
	MaxSampleDiscards int
}

// DefaultConfig returns a configuration for the standard sales data layout.
func DefaultConfig() *Config {
	return &Config{
		Delimiter:         "|",
		MaxSampleDiscards: 5,
	}
}

// Validate validates the parser configuration.
func (c *Config) Validate() error {
	if c.Delimiter == "" {
		return fmt.Errorf("delimiter cannot be empty")
	}
	if c.MaxSampleDiscards < 0 {
		return fmt.Errorf("max sample discards cannot be negative")
	}
	return nil
}

// ParseStats holds statistics about a parsing operation.
type ParseStats struct {
	LinesSeen           int
	RecordsParsed       int
	DiscardedFieldCount int
	DiscardedConversion int
	sampleDiscards      []string
}

// Discarded returns the total number of discarded lines.
func (ps *ParseStats) Discarded() int {
	return ps.DiscardedFieldCount + ps.DiscardedConversion
}

// HasDiscards returns true if any lines were discarded.
func (ps *ParseStats) HasDiscards() bool {
	return ps.Discarded() > 0
}

// SampleDiscards returns a sample of discarded lines for logging.
func (ps *ParseStats) SampleDiscards() []string {
	return ps.sampleDiscards
}

// String returns a human-readable summary of parsing statistics.
func (ps *ParseStats) String() string {
	return fmt.Sprintf("Parsed %d lines, %d records (%d discarded: %d field count, %d conversion)",
		ps.LinesSeen, ps.RecordsParsed, ps.Discarded(), ps.DiscardedFieldCount, ps.DiscardedConversion)
}

func (ps *ParseStats) addSample(line string, max int) {
	if len(ps.sampleDiscards) < max {
		ps.sampleDiscards = append(ps.sampleDiscards, line)
	}
}

// RecordParser parses raw sales data lines into transaction candidates.
type RecordParser struct {
	config *Config
	logger logger.Logger
}

// NewRecordParser creates a RecordParser with the given configuration.
func NewRecordParser(config *Config) (*RecordParser, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"record_parser_config",
			config,
			err,
		)
	}

	return &RecordParser{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("record_parser"),
	}, nil
}

// ParseRecords converts raw lines into structurally well-formed transaction
// candidates. Business-rule validation happens later; this stage only
// guarantees field count and numeric conversion. Input order is preserved.
func (rp *RecordParser) ParseRecords(lines []string) ([]*models.Transaction, *ParseStats) {
	stats := &ParseStats{}
	transactions := make([]*models.Transaction, 0, len(lines))

	for _, line := range lines {
		stats.LinesSeen++

		tx, ok := rp.parseLine(line, stats)
		if !ok {
			continue
		}

		transactions = append(transactions, tx)
		stats.RecordsParsed++
	}

	rp.logger.WithFields(logger.Fields{
		"lines_seen":     stats.LinesSeen,
		"records_parsed": stats.RecordsParsed,
		"discarded":      stats.Discarded(),
	}).Info("Record parsing completed")

	if stats.HasDiscards() {
		rp.logger.WithField("sample_discards", stats.SampleDiscards()).
			Debug("Discarded malformed lines during parsing")
	}

	return transactions, stats
}

// parseLine parses a single raw line, recording the discard reason in stats
// when the line is malformed.
func (rp *RecordParser) parseLine(line string, stats *ParseStats) (*models.Transaction, bool) {
	fields := strings.Split(line, rp.config.Delimiter)
	if len(fields) != recordFieldCount {
		stats.DiscardedFieldCount++
		stats.addSample(line, rp.config.MaxSampleDiscards)
		return nil, false
	}

	quantity, err := models.ParseQuantity(fields[fieldQuantity])
	if err != nil {
		stats.DiscardedConversion++
		stats.addSample(line, rp.config.MaxSampleDiscards)
		return nil, false
	}

	unitPrice, err := models.ParseUnitPrice(fields[fieldUnitPrice])
	if err != nil {
		stats.DiscardedConversion++
		stats.addSample(line, rp.config.MaxSampleDiscards)
		return nil, false
	}

	return &models.Transaction{
		TransactionID: strings.TrimSpace(fields[fieldTransactionID]),
		Date:          strings.TrimSpace(fields[fieldDate]),
		ProductID:     strings.TrimSpace(fields[fieldProductID]),
		ProductName:   models.CleanProductName(fields[fieldProductName]),
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		CustomerID:    strings.TrimSpace(fields[fieldCustomerID]),
		Region:        strings.TrimSpace(fields[fieldRegion]),
	}, true
}
