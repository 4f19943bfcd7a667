// Package validator applies business-rule validation and optional filters to
// parsed transaction candidates.
//
// Each candidate lands in exactly one outcome bucket: invalid, filtered by
// region, filtered by amount, or kept. Validation is checked first; filters
// are only evaluated on records that already passed validation, so the
// summary counts always add up to the input total.
package validator

import (
	"fmt"

	"github.com/asaisreeja/Sales-Analytics-System/internal/models"
	"github.com/asaisreeja/Sales-Analytics-System/pkg/logger"

	"github.com/shopspring/decimal"
)

// FilterOptions holds the optional record filters. A filter is active only
// when its pointer is set; a zero value supplied explicitly is still an
// active filter.
type FilterOptions struct {
	// Region keeps only records whose region matches exactly.
	Region *string
	// MinAmount keeps records with amount >= MinAmount.
	MinAmount *decimal.Decimal
	// MaxAmount keeps records with amount <= MaxAmount.
	MaxAmount *decimal.Decimal
}

// Validate checks the filter bounds for consistency.
func (o *FilterOptions) Validate() error {
	if o == nil {
		return nil
	}
	if o.MinAmount != nil && o.MaxAmount != nil && o.MinAmount.GreaterThan(*o.MaxAmount) {
		return fmt.Errorf("min amount %s exceeds max amount %s",
			o.MinAmount.String(), o.MaxAmount.String())
	}
	return nil
}

// FilterSummary reports how every input record was classified.
type FilterSummary struct {
	TotalInput       int `json:"total_input"`
	Invalid          int `json:"invalid"`
	FilteredByRegion int `json:"filtered_by_region"`
	FilteredByAmount int `json:"filtered_by_amount"`
	FinalCount       int `json:"final_count"`
}

// Consistent reports whether the outcome buckets account for every input
// record exactly once.
func (s *FilterSummary) Consistent() bool {
	return s.TotalInput == s.Invalid+s.FilteredByRegion+s.FilteredByAmount+s.FinalCount
}

// String returns a human-readable summary.
func (s *FilterSummary) String() string {
	return fmt.Sprintf("total_input=%d invalid=%d filtered_by_region=%d filtered_by_amount=%d final_count=%d",
		s.TotalInput, s.Invalid, s.FilteredByRegion, s.FilteredByAmount, s.FinalCount)
}

// Diagnostics describes the candidate set before validation: the distinct
// regions observed and the amount range among records carrying a region.
// This is display information only, never a business rule.
type Diagnostics struct {
	Regions    []string
	MinAmount  decimal.Decimal
	MaxAmount  decimal.Decimal
	HasAmounts bool
}

// Validator classifies transaction candidates.
type Validator struct {
	options *FilterOptions
	logger  logger.Logger
}

// NewValidator creates a Validator with the given filter options. Options may
// be nil, meaning no filters are active.
func NewValidator(options *FilterOptions) (*Validator, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	return &Validator{
		options: options,
		logger:  logger.GetGlobalLogger().WithComponent("validator"),
	}, nil
}

// ValidateAndFilter classifies every candidate, returning the records that
// survive validation and filtering, the invalid count, and the full summary.
// Input order is preserved among kept records.
func (v *Validator) ValidateAndFilter(candidates []*models.Transaction) ([]*models.Transaction, int, *FilterSummary) {
	summary := &FilterSummary{TotalInput: len(candidates)}
	valid := make([]*models.Transaction, 0, len(candidates))

	for _, tx := range candidates {
		if err := tx.Validate(); err != nil {
			summary.Invalid++
			v.logger.WithError(err).WithField("transaction_id", tx.TransactionID).
				Debug("Rejected invalid transaction")
			continue
		}

		if v.options != nil && v.options.Region != nil && tx.Region != *v.options.Region {
			summary.FilteredByRegion++
			continue
		}

		if v.filteredByAmount(tx.Amount()) {
			summary.FilteredByAmount++
			continue
		}

		valid = append(valid, tx)
	}

	summary.FinalCount = len(valid)

	v.logger.WithFields(logger.Fields{
		"total_input":        summary.TotalInput,
		"invalid":            summary.Invalid,
		"filtered_by_region": summary.FilteredByRegion,
		"filtered_by_amount": summary.FilteredByAmount,
		"final_count":        summary.FinalCount,
	}).Info("Validation and filtering completed")

	return valid, summary.Invalid, summary
}

// filteredByAmount reports whether an amount falls outside the configured
// inclusive bounds.
func (v *Validator) filteredByAmount(amount decimal.Decimal) bool {
	if v.options == nil {
		return false
	}
	if v.options.MinAmount != nil && amount.LessThan(*v.options.MinAmount) {
		return true
	}
	if v.options.MaxAmount != nil && amount.GreaterThan(*v.options.MaxAmount) {
		return true
	}
	return false
}

// Diagnostics scans the candidate set and reports the distinct regions seen
// (in first-encountered order) and the amount range among records with a
// non-empty region.
func (v *Validator) Diagnostics(candidates []*models.Transaction) *Diagnostics {
	diag := &Diagnostics{}
	seen := make(map[string]bool)

	for _, tx := range candidates {
		if tx.Region == "" {
			continue
		}

		if !seen[tx.Region] {
			seen[tx.Region] = true
			diag.Regions = append(diag.Regions, tx.Region)
		}

		amount := tx.Amount()
		if !diag.HasAmounts {
			diag.MinAmount = amount
			diag.MaxAmount = amount
			diag.HasAmounts = true
			continue
		}
		if amount.LessThan(diag.MinAmount) {
			diag.MinAmount = amount
		}
		if amount.GreaterThan(diag.MaxAmount) {
			diag.MaxAmount = amount
		}
	}

	return diag
}
